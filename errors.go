package kafka

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// ErrOutOfBrokers is returned when the client has run out of brokers to talk
// to because all of them errored or otherwise failed to respond.
var ErrOutOfBrokers = errors.New("kafka: client has run out of available brokers to talk to")

// ErrBrokerNotFound is returned when there is no broker found for the requested ID.
var ErrBrokerNotFound = errors.New("kafka: broker for ID is not found")

// ErrClosedClient is returned when a method is called on a client that has been closed.
var ErrClosedClient = errors.New("kafka: tried to use a client that was closed")

// ErrClosedConsumerGroup is returned by ConsumerGroup.Consume once Close has
// been called.
var ErrClosedConsumerGroup = errors.New("kafka: tried to use a consumer group that was closed")

// ErrIncompleteResponse is returned when the server returns a syntactically
// valid response that does not contain the expected topic/partition blocks.
var ErrIncompleteResponse = errors.New("kafka: response did not contain all the expected topic/partition blocks")

// ErrInvalidPartition is returned when a partitioner returns an invalid
// partition index (outside [0...numPartitions-1]).
var ErrInvalidPartition = errors.New("kafka: partitioner returned an invalid partition index")

// ErrAlreadyConnected is returned by Open() on a broker already connected or connecting.
var ErrAlreadyConnected = errors.New("kafka: broker connection already initiated")

// ErrNotConnected is returned when trying to send on or Close() a broker that is not connected.
var ErrNotConnected = errors.New("kafka: broker not connected")

// ErrInsufficientData is returned when decoding and the packet is truncated.
var ErrInsufficientData = errors.New("kafka: insufficient data to decode packet, more bytes expected")

// ErrShuttingDown is returned when a producer receives a message while shutting down.
var ErrShuttingDown = errors.New("kafka: message received by producer in process of shutting down")

// ErrMessageTooLarge is returned when a fetched message exceeds the configured maximum.
var ErrMessageTooLarge = errors.New("kafka: message is larger than the configured fetch maximum")

// ErrControllerNotAvailable is returned when the server didn't report a controller id.
var ErrControllerNotAvailable = errors.New("kafka: controller is not available")

// ErrTransactionsNotEnabled is returned by the transaction-lifecycle methods
// of a producer that was built without Config.Producer.Transaction.ID set.
var ErrTransactionsNotEnabled = errors.New("kafka: transactions not enabled on this producer")

// ErrTransactionNotReady is returned by CommitTxn, AbortTxn and
// AddOffsetsToTxn when no transaction is currently open.
var ErrTransactionNotReady = errors.New("kafka: no open transaction on this producer")

// ErrUnknownScramMechanism is returned for an unrecognized SCRAM mechanism.
var ErrUnknownScramMechanism = errors.New("kafka: unknown SCRAM mechanism provided")

// ErrReassignPartitions is returned when altering a topic's partition assignment fails.
var ErrReassignPartitions = errors.New("kafka: failed to reassign partitions for topic")

// ErrDeleteRecords is returned when deleting records fails.
var ErrDeleteRecords = errors.New("kafka: failed to delete records")

// ErrDeleteTopics is returned when one or more topics in a multi-topic
// delete request fail.
var ErrDeleteTopics = errors.New("kafka: failed to delete topics")

// ErrAlterClientQuotas is returned when one or more quota entities in an
// AlterClientQuotas call fail.
var ErrAlterClientQuotas = errors.New("kafka: failed to alter client quotas")

// ErrAlterUserScramCredentials is returned when one or more users in an
// AlterUserScramCredentials call fail.
var ErrAlterUserScramCredentials = errors.New("kafka: failed to alter user SCRAM credentials")

// ErrUpdateFeatures is returned when one or more feature updates fail.
var ErrUpdateFeatures = errors.New("kafka: failed to update features")

// ErrUnsupportedApi is the sentinel an UnsupportedApiError matches under
// errors.Is, i.e. when negotiateVersion finds no overlap between the client's
// and a broker's version range for an API key.
var ErrUnsupportedApi = errors.New("kafka: broker does not support the requested API version")

// ErrUnsupportedCompression is returned when a compression codec requested on
// the wire has no registered implementation in this process.
var ErrUnsupportedCompression = errors.New("kafka: unsupported compression codec")

// ErrValidation is returned when Config.Validate or a strict options check rejects input.
var ErrValidation = errors.New("kafka: validation failed")

// ErrClosed is returned when an operation is attempted during or after Close().
var ErrClosed = errors.New("kafka: client closed")

// ErrTransport wraps a transport-level failure (socket, TLS, frame decode, auth).
var ErrTransport = errors.New("kafka: transport error")

// MultiErrorFormat controls how Wrap renders an aggregate error. The default
// is a condensed version of hashicorp/go-multierror's own formatter.
var MultiErrorFormat multierror.ErrorFormatFunc = func(es []error) string {
	if len(es) == 1 {
		return es[0].Error()
	}
	points := make([]string, len(es))
	for i, err := range es {
		points[i] = fmt.Sprintf("* %s", err)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s\n", len(es), strings.Join(points, "\n\t"))
}

type sentinelError struct {
	sentinel error
	wrapped  error
}

func (err sentinelError) Error() string {
	if err.wrapped != nil {
		return fmt.Sprintf("%s: %v", err.sentinel, err.wrapped)
	}
	return err.sentinel.Error()
}

func (err sentinelError) Is(target error) bool {
	return errors.Is(err.sentinel, target) || errors.Is(err.wrapped, target)
}

func (err sentinelError) Unwrap() error {
	return err.wrapped
}

// Wrap folds zero or more sub-errors behind a sentinel, producing the
// AggregateError / MultipleErrors kind from §7 of the spec.
func Wrap(sentinel error, wrapped ...error) error {
	return sentinelError{sentinel: sentinel, wrapped: multiError(wrapped...)}
}

func multiError(wrapped ...error) error {
	merr := multierror.Append(nil, wrapped...)
	if MultiErrorFormat != nil {
		merr.ErrorFormat = MultiErrorFormat
	}
	return merr.ErrorOrNil()
}

// PacketEncodingError is returned when encoding a request fails, e.g. a
// string exceeds the maximum length the wire format permits.
type PacketEncodingError struct {
	Info string
}

func (err PacketEncodingError) Error() string {
	return fmt.Sprintf("kafka: error encoding packet: %s", err.Info)
}

// PacketDecodingError is returned when decoding a broker response fails for
// a reason other than truncation: a bad CRC, length field, or enum value.
type PacketDecodingError struct {
	Info string
}

func (err PacketDecodingError) Error() string {
	return fmt.Sprintf("kafka: error decoding packet: %s", err.Info)
}

// ConfigurationError is returned from a constructor when supplied options are invalid.
type ConfigurationError string

func (err ConfigurationError) Error() string {
	return "kafka: invalid configuration (" + string(err) + ")"
}

// UnsupportedApiError is returned when the registry finds no version overlap
// between the client and the broker for a given API key.
type UnsupportedApiError struct {
	APIKey     int16
	MinVersion int16
	MaxVersion int16
}

func (err UnsupportedApiError) Error() string {
	return fmt.Sprintf("kafka: broker does not support API key %d in range [%d,%d]", err.APIKey, err.MinVersion, err.MaxVersion)
}

func (err UnsupportedApiError) Is(target error) bool {
	return target == ErrUnsupportedApi
}

// UnsupportedCompressionError is returned when the requested codec has no
// runtime implementation available (rather than panicking).
type UnsupportedCompressionError struct {
	Codec CompressionCodec
}

func (err UnsupportedCompressionError) Error() string {
	return fmt.Sprintf("kafka: compression codec %q is not supported by this build", err.Codec)
}

func (err UnsupportedCompressionError) Is(target error) bool {
	return target == ErrUnsupportedCompression
}

// ClosedError is returned for an operation attempted after Close() or during
// close-in-progress.
type ClosedError struct {
	Op string
}

func (err ClosedError) Error() string {
	if err.Op == "" {
		return ErrClosed.Error()
	}
	return fmt.Sprintf("kafka: %s: client closed", err.Op)
}

func (err ClosedError) Is(target error) bool {
	return target == ErrClosed
}

// ProtocolError is a broker error code returned in a response field, carrying
// enough context (api, path, raw response) for diagnostics.
type ProtocolError struct {
	APIKey     int16
	APIVersion int16
	Code       KError
	Path       string
	Response   interface{}
}

func (err *ProtocolError) Error() string {
	if err.Path != "" {
		return fmt.Sprintf("kafka: protocol error at %s (api=%d v%d): %s", err.Path, err.APIKey, err.APIVersion, err.Code)
	}
	return fmt.Sprintf("kafka: protocol error (api=%d v%d): %s", err.APIKey, err.APIVersion, err.Code)
}

func (err *ProtocolError) Unwrap() error {
	return err.Code
}

// KError is the type of error that can be returned directly by the Kafka
// broker. See https://kafka.apache.org/protocol#protocol_error_codes
type KError int16

const (
	ErrNoError                            KError = 0
	ErrUnknown                            KError = -1
	ErrOffsetOutOfRange                   KError = 1
	ErrInvalidMessage                     KError = 2
	ErrUnknownTopicOrPartition            KError = 3
	ErrInvalidMessageSize                 KError = 4
	ErrLeaderNotAvailable                 KError = 5
	ErrNotLeaderForPartition              KError = 6
	ErrRequestTimedOut                    KError = 7
	ErrBrokerNotAvailable                 KError = 8
	ErrReplicaNotAvailable                KError = 9
	ErrMessageSizeTooLarge                KError = 10
	ErrStaleControllerEpochCode           KError = 11
	ErrOffsetMetadataTooLarge             KError = 12
	ErrNetworkException                   KError = 13
	ErrOffsetsLoadInProgress              KError = 14
	ErrConsumerCoordinatorNotAvailable    KError = 15
	ErrNotCoordinatorForConsumer          KError = 16
	ErrInvalidTopic                       KError = 17
	ErrMessageSetSizeTooLarge             KError = 18
	ErrNotEnoughReplicas                  KError = 19
	ErrNotEnoughReplicasAfterAppend       KError = 20
	ErrInvalidRequiredAcks                KError = 21
	ErrIllegalGeneration                  KError = 22
	ErrInconsistentGroupProtocol          KError = 23
	ErrInvalidGroupId                     KError = 24
	ErrUnknownMemberId                    KError = 25
	ErrInvalidSessionTimeout              KError = 26
	ErrRebalanceInProgress                KError = 27
	ErrInvalidCommitOffsetSize            KError = 28
	ErrTopicAuthorizationFailed           KError = 29
	ErrGroupAuthorizationFailed           KError = 30
	ErrClusterAuthorizationFailed         KError = 31
	ErrInvalidTimestamp                   KError = 32
	ErrUnsupportedSASLMechanism           KError = 33
	ErrIllegalSASLState                   KError = 34
	ErrUnsupportedVersion                 KError = 35
	ErrTopicAlreadyExists                 KError = 36
	ErrInvalidPartitions                  KError = 37
	ErrInvalidReplicationFactor           KError = 38
	ErrInvalidReplicaAssignment           KError = 39
	ErrInvalidConfig                      KError = 40
	ErrNotController                      KError = 41
	ErrInvalidRequest                     KError = 42
	ErrUnsupportedForMessageFormat        KError = 43
	ErrPolicyViolation                    KError = 44
	ErrOutOfOrderSequenceNumber           KError = 45
	ErrDuplicateSequenceNumber            KError = 46
	ErrInvalidProducerEpoch               KError = 47
	ErrInvalidTxnState                    KError = 48
	ErrInvalidProducerIDMapping           KError = 49
	ErrInvalidTransactionTimeout          KError = 50
	ErrConcurrentTransactions             KError = 51
	ErrTransactionCoordinatorFenced       KError = 52
	ErrTransactionalIDAuthorizationFailed KError = 53
	ErrSecurityDisabled                   KError = 54
	ErrOperationNotAttempted              KError = 55
	ErrKafkaStorageError                  KError = 56
	ErrLogDirNotFound                     KError = 57
	ErrSASLAuthenticationFailed           KError = 58
	ErrUnknownProducerID                  KError = 59
	ErrReassignmentInProgress             KError = 60
	ErrDelegationTokenAuthDisabled        KError = 61
	ErrDelegationTokenNotFound            KError = 62
	ErrDelegationTokenOwnerMismatch       KError = 63
	ErrDelegationTokenRequestNotAllowed   KError = 64
	ErrDelegationTokenAuthorizationFailed KError = 65
	ErrDelegationTokenExpired             KError = 66
	ErrInvalidPrincipalType               KError = 67
	ErrNonEmptyGroup                      KError = 68
	ErrGroupIDNotFound                    KError = 69
	ErrFetchSessionIDNotFound             KError = 70
	ErrInvalidFetchSessionEpoch           KError = 71
	ErrListenerNotFound                   KError = 72
	ErrTopicDeletionDisabled              KError = 73
	ErrFencedLeaderEpoch                  KError = 74
	ErrUnknownLeaderEpoch                 KError = 75
	ErrUnsupportedCompressionType         KError = 76
	ErrStaleBrokerEpoch                   KError = 77
	ErrOffsetNotAvailable                 KError = 78
	ErrMemberIdRequired                   KError = 79
	ErrPreferredLeaderNotAvailable        KError = 80
	ErrGroupMaxSizeReached                KError = 81
	ErrFencedInstancedId                  KError = 82
	ErrEligibleLeadersNotAvailable        KError = 83
	ErrElectionNotNeeded                  KError = 84
	ErrNoReassignmentInProgress           KError = 85
	ErrGroupSubscribedToTopic             KError = 86
	ErrInvalidRecord                      KError = 87
	ErrUnstableOffsetCommit               KError = 88
)

var kerrorMessages = map[KError]string{
	ErrNoError:                            "kafka server: not an error",
	ErrUnknown:                            "kafka server: unexpected (unknown?) server error",
	ErrOffsetOutOfRange:                   "kafka server: the requested offset is outside the range of offsets maintained by the server for the given topic/partition",
	ErrInvalidMessage:                     "kafka server: message contents does not match its CRC",
	ErrUnknownTopicOrPartition:            "kafka server: request was for a topic or partition that does not exist on this broker",
	ErrInvalidMessageSize:                 "kafka server: the message has a negative size",
	ErrLeaderNotAvailable:                 "kafka server: there is currently no leader for this partition, it is unavailable for writes",
	ErrNotLeaderForPartition:              "kafka server: tried to send a message to a replica that is not the leader for some partition, metadata is out of date",
	ErrRequestTimedOut:                    "kafka server: request exceeded the user-specified time limit in the request",
	ErrBrokerNotAvailable:                 "kafka server: broker not available",
	ErrReplicaNotAvailable:                "kafka server: replica information not available, one or more brokers are down",
	ErrMessageSizeTooLarge:                "kafka server: message was too large, server rejected it to avoid allocation error",
	ErrStaleControllerEpochCode:           "kafka server: stale controller epoch code",
	ErrOffsetMetadataTooLarge:             "kafka server: specified a string larger than the configured maximum for offset metadata",
	ErrNetworkException:                   "kafka server: the server disconnected before a response was received",
	ErrOffsetsLoadInProgress:              "kafka server: the broker is still loading offsets after a leader change for that offset's topic partition",
	ErrConsumerCoordinatorNotAvailable:    "kafka server: offset's topic has not yet been created",
	ErrNotCoordinatorForConsumer:          "kafka server: request was for a consumer group that is not coordinated by this broker",
	ErrInvalidTopic:                       "kafka server: the request attempted to perform an operation on an invalid topic",
	ErrMessageSetSizeTooLarge:             "kafka server: the request included a message batch larger than the configured segment size",
	ErrNotEnoughReplicas:                  "kafka server: messages are rejected since there are fewer in-sync replicas than required",
	ErrNotEnoughReplicasAfterAppend:       "kafka server: messages are written to the log, but to fewer in-sync replicas than required",
	ErrInvalidRequiredAcks:                "kafka server: the number of required acks is invalid",
	ErrIllegalGeneration:                  "kafka server: the provided generation id is not the current generation",
	ErrInconsistentGroupProtocol:          "kafka server: the provided group protocol type is incompatible with the other members",
	ErrInvalidGroupId:                     "kafka server: the provided group id was empty",
	ErrUnknownMemberId:                    "kafka server: the provided member is not known in the current generation",
	ErrInvalidSessionTimeout:              "kafka server: the provided session timeout is outside the allowed range",
	ErrRebalanceInProgress:                "kafka server: a rebalance for the group is in progress",
	ErrInvalidCommitOffsetSize:            "kafka server: the provided commit metadata was too large",
	ErrTopicAuthorizationFailed:           "kafka server: the client is not authorized to access this topic",
	ErrGroupAuthorizationFailed:           "kafka server: the client is not authorized to access this group",
	ErrClusterAuthorizationFailed:         "kafka server: the client is not authorized to send this request type",
	ErrInvalidTimestamp:                   "kafka server: the timestamp of the message is out of acceptable range",
	ErrUnsupportedSASLMechanism:           "kafka server: the broker does not support the requested SASL mechanism",
	ErrIllegalSASLState:                   "kafka server: request is not valid given the current SASL state",
	ErrUnsupportedVersion:                 "kafka server: the version of API is not supported",
	ErrTopicAlreadyExists:                 "kafka server: topic with this name already exists",
	ErrInvalidPartitions:                  "kafka server: number of partitions is invalid",
	ErrInvalidReplicationFactor:           "kafka server: replication factor is invalid",
	ErrInvalidReplicaAssignment:           "kafka server: replica assignment is invalid",
	ErrInvalidConfig:                      "kafka server: configuration is invalid",
	ErrNotController:                      "kafka server: this is not the correct controller for this cluster",
	ErrInvalidRequest:                     "kafka server: the request is malformed",
	ErrUnsupportedForMessageFormat:        "kafka server: the requested operation is not supported by the message format version",
	ErrPolicyViolation:                    "kafka server: request parameters do not satisfy the configured policy",
	ErrOutOfOrderSequenceNumber:           "kafka server: the broker received an out of order sequence number",
	ErrDuplicateSequenceNumber:            "kafka server: the broker received a duplicate sequence number",
	ErrInvalidProducerEpoch:               "kafka server: producer attempted an operation with an old epoch",
	ErrInvalidTxnState:                    "kafka server: the producer attempted a transactional operation in an invalid state",
	ErrInvalidProducerIDMapping:           "kafka server: the producer attempted to use a producer id which is not currently assigned to its transactional id",
	ErrInvalidTransactionTimeout:          "kafka server: the transaction timeout is larger than the maximum allowed value",
	ErrConcurrentTransactions:             "kafka server: the producer attempted to update a transaction while another concurrent operation on the same transaction was ongoing",
	ErrTransactionCoordinatorFenced:       "kafka server: the transaction coordinator is no longer the current coordinator for a given producer",
	ErrTransactionalIDAuthorizationFailed: "kafka server: transactional id authorization failed",
	ErrSecurityDisabled:                   "kafka server: security features are disabled",
	ErrOperationNotAttempted:              "kafka server: the broker did not attempt to execute this operation",
	ErrKafkaStorageError:                  "kafka server: disk error when trying to access the log file",
	ErrLogDirNotFound:                     "kafka server: the specified log directory is not found",
	ErrSASLAuthenticationFailed:           "kafka server: SASL authentication failed",
	ErrUnknownProducerID:                  "kafka server: the broker could not locate the producer metadata associated with the producer id",
	ErrReassignmentInProgress:             "kafka server: a partition reassignment is in progress",
	ErrDelegationTokenAuthDisabled:        "kafka server: delegation token feature is not enabled",
	ErrDelegationTokenNotFound:            "kafka server: delegation token is not found on server",
	ErrDelegationTokenOwnerMismatch:       "kafka server: specified principal is not valid owner/renewer",
	ErrDelegationTokenRequestNotAllowed:   "kafka server: delegation token requests are not allowed on this channel",
	ErrDelegationTokenAuthorizationFailed: "kafka server: delegation token authorization failed",
	ErrDelegationTokenExpired:             "kafka server: delegation token is expired",
	ErrInvalidPrincipalType:               "kafka server: supplied principal type is not supported",
	ErrNonEmptyGroup:                      "kafka server: the group is not empty",
	ErrGroupIDNotFound:                    "kafka server: the group id does not exist",
	ErrFetchSessionIDNotFound:             "kafka server: the fetch session id was not found",
	ErrInvalidFetchSessionEpoch:           "kafka server: the fetch session epoch is invalid",
	ErrListenerNotFound:                   "kafka server: there is no listener on the leader broker matching the metadata request's listener",
	ErrTopicDeletionDisabled:              "kafka server: topic deletion is disabled",
	ErrFencedLeaderEpoch:                  "kafka server: the leader epoch in the request is older than the broker's",
	ErrUnknownLeaderEpoch:                 "kafka server: the leader epoch in the request is newer than the broker's",
	ErrUnsupportedCompressionType:         "kafka server: the requesting client does not support the compression type of a given partition",
	ErrStaleBrokerEpoch:                   "kafka server: broker epoch has changed",
	ErrOffsetNotAvailable:                 "kafka server: the leader high watermark has not caught up, offsets cannot be guaranteed monotonic",
	ErrMemberIdRequired:                   "kafka server: the group member needs a valid member id before joining",
	ErrPreferredLeaderNotAvailable:        "kafka server: the preferred leader was not available",
	ErrGroupMaxSizeReached:                "kafka server: the consumer group has reached its configured maximum size",
	ErrFencedInstancedId:                  "kafka server: another consumer with the same group.instance.id registered with a different member.id",
	ErrEligibleLeadersNotAvailable:        "kafka server: eligible topic partition leaders are not available",
	ErrElectionNotNeeded:                  "kafka server: leader election not needed for topic partition",
	ErrNoReassignmentInProgress:           "kafka server: no partition reassignment is in progress",
	ErrGroupSubscribedToTopic:             "kafka server: deleting offsets of a topic is forbidden while the group is subscribed to it",
	ErrInvalidRecord:                      "kafka server: this record failed validation on the broker",
	ErrUnstableOffsetCommit:               "kafka server: there are unstable offsets that need to be cleared",
}

func (err KError) Error() string {
	if msg, ok := kerrorMessages[err]; ok {
		return msg
	}
	return fmt.Sprintf("kafka server: unknown error code %d", int16(err))
}
