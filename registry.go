package kafka

// API key constants, matching the Kafka wire protocol numbering exactly.
const (
	apiKeyProduce                       int16 = 0
	apiKeyFetch                         int16 = 1
	apiKeyListOffsets                   int16 = 2
	apiKeyMetadata                      int16 = 3
	apiKeyOffsetCommit                  int16 = 8
	apiKeyOffsetFetch                   int16 = 9
	apiKeyFindCoordinator               int16 = 10
	apiKeyJoinGroup                     int16 = 11
	apiKeyHeartbeat                     int16 = 12
	apiKeyLeaveGroup                    int16 = 13
	apiKeySyncGroup                     int16 = 14
	apiKeyDescribeGroups                int16 = 15
	apiKeyListGroups                    int16 = 16
	apiKeySaslHandshake                 int16 = 17
	apiKeyApiVersions                   int16 = 18
	apiKeyCreateTopics                  int16 = 19
	apiKeyDeleteTopics                  int16 = 20
	apiKeyDeleteRecords                 int16 = 21
	apiKeyInitProducerId                int16 = 22
	apiKeyAddPartitionsToTxn            int16 = 24
	apiKeyAddOffsetsToTxn               int16 = 25
	apiKeyEndTxn                        int16 = 26
	apiKeyTxnOffsetCommit               int16 = 28
	apiKeyDescribeAcls                  int16 = 29
	apiKeyCreateAcls                    int16 = 30
	apiKeyDeleteAcls                    int16 = 31
	apiKeyDescribeConfigs               int16 = 32
	apiKeyAlterConfigs                  int16 = 33
	apiKeyDescribeLogDirs               int16 = 35
	apiKeySaslAuthenticate              int16 = 36
	apiKeyCreatePartitions              int16 = 37
	apiKeyCreateDelegationToken         int16 = 38
	apiKeyRenewDelegationToken          int16 = 39
	apiKeyExpireDelegationToken         int16 = 40
	apiKeyDescribeDelegationToken       int16 = 41
	apiKeyDeleteGroups                  int16 = 42
	apiKeyElectLeaders                  int16 = 43
	apiKeyIncrementalAlterConfigs       int16 = 44
	apiKeyAlterPartitionReassignments   int16 = 45
	apiKeyListPartitionReassignments    int16 = 46
	apiKeyOffsetDelete                  int16 = 47
	apiKeyDescribeClientQuotas          int16 = 48
	apiKeyAlterClientQuotas             int16 = 49
	apiKeyDescribeUserScramCredentials  int16 = 50
	apiKeyAlterUserScramCredentials     int16 = 51
	apiKeyUpdateFeatures                int16 = 57
)

// apiDescriptor is the per-API entry of §4.B's registry: name plus factories
// for zero-value request/response bodies so the wire layer can allocate the
// right concrete type once it has read the key off the wire.
type apiDescriptor struct {
	name       string
	minVersion int16
	maxVersion int16
	newRequest func() protocolBody
	newResp    func() protocolBody
}

var apiRegistry = map[int16]*apiDescriptor{}

// registerAPI is called from each request/response file's init(), so the
// registry stays in sync with the set of types compiled into the binary
// without a central switch statement to maintain.
func registerAPI(key int16, name string, minVersion, maxVersion int16, newRequest, newResp func() protocolBody) {
	apiRegistry[key] = &apiDescriptor{
		name:       name,
		minVersion: minVersion,
		maxVersion: maxVersion,
		newRequest: newRequest,
		newResp:    newResp,
	}
}

func allocateRequestBody(key, version int16) protocolBody {
	d, ok := apiRegistry[key]
	if !ok {
		return nil
	}
	body := d.newRequest()
	body.setVersion(version)
	return body
}

func allocateResponseBody(key, version int16) protocolBody {
	d, ok := apiRegistry[key]
	if !ok {
		return nil
	}
	body := d.newResp()
	body.setVersion(version)
	return body
}

func decodeProtocolBody(key, version int16, buf []byte) (protocolBody, error) {
	body := allocateResponseBody(key, version)
	if body == nil {
		return nil, PacketDecodingError{Info: "unknown response key"}
	}
	if err := versionedDecode(buf, body, version, nil); err != nil {
		return nil, err
	}
	return body, nil
}

// negotiateVersion implements §4.B's rule: version = min(clientMax,
// brokerMax), and it must be >= max(clientMin, brokerMin), else
// UnsupportedApiError.
func negotiateVersion(key int16, brokerMin, brokerMax int16) (int16, error) {
	d, ok := apiRegistry[key]
	if !ok {
		return 0, UnsupportedApiError{APIKey: key}
	}
	lo := maxInt16(d.minVersion, brokerMin)
	hi := minInt16(d.maxVersion, brokerMax)
	if hi < lo {
		return 0, UnsupportedApiError{APIKey: key, MinVersion: brokerMin, MaxVersion: brokerMax}
	}
	return hi, nil
}

// errorPath is one {path, code} pair the error extractor surfaces for
// aggregate error reporting, per §4.B.
type errorPath struct {
	Path string
	Code KError
}

// errorsExtractor is implemented by response types that know how to walk
// their own per-topic/per-partition blocks and surface every non-zero error
// code found, tagged with a JSON-pointer-style path.
type errorsExtractor interface {
	extractErrors() []errorPath
}
