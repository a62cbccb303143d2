package kafka

import (
	"errors"
	"sync"
	"time"
)

// ClusterAdmin is the administrative client for Kafka: managing and
// inspecting topics, partitions, configs, ACLs and consumer groups (§4.G).
// The minimum broker version required is 0.10.1.0; methods built on newer
// APIs need newer brokers, as each request type's requiredVersion states.
type ClusterAdmin interface {
	// CreateTopic creates a new topic; it may take several seconds after
	// CreateTopic returns for every broker to become aware of it.
	CreateTopic(topic string, detail *TopicDetail, validateOnly bool) error

	// ListTopics returns every topic in the cluster with its TopicDetail.
	ListTopics() (map[string]TopicDetail, error)

	// DescribeTopics returns full metadata for the named topics.
	DescribeTopics(topics []string) ([]*MetadataTopic, error)

	// DeleteTopic marks a topic for deletion.
	DeleteTopic(topic string) error

	// DeleteTopics marks several topics for deletion in one request,
	// returning an aggregate error naming every topic that failed.
	DeleteTopics(topics []string) error

	// CreatePartitions increases the partition count of existing topics.
	CreatePartitions(topic string, count int32, assignment [][]int32, validateOnly bool) error

	// DeleteRecords deletes the records before the given offsets on each
	// partition named in partitionOffsets.
	DeleteRecords(topic string, partitionOffsets map[int32]int64) error

	// DescribeConfig fetches a resource's effective configuration.
	DescribeConfig(resource ConfigResource) ([]ConfigEntry, error)

	// AlterConfig replaces a resource's entire dynamic configuration.
	AlterConfig(resourceType ConfigResourceType, name string, entries map[string]*string, validateOnly bool) error

	// IncrementalAlterConfig applies targeted set/delete/append/subtract
	// operations to a resource's configuration.
	IncrementalAlterConfig(resourceType ConfigResourceType, name string, entries map[string]IncrementalAlterConfigsEntry, validateOnly bool) error

	// CreateACLs grants or denies the given bindings.
	CreateACLs(acls []*AclCreation) error

	// ListAcls returns every ACL binding matching the filter.
	ListAcls(filter AclFilter) ([]ResourceAcls, error)

	// DeleteACL removes every ACL binding matching the filter and returns
	// what it deleted.
	DeleteACL(filter AclFilter) ([]MatchingAcl, error)

	// ListConsumerGroups returns every known group, keyed by name, with its
	// protocol type.
	ListConsumerGroups() (map[string]string, error)

	// DescribeConsumerGroups returns full membership/state for the named
	// groups.
	DescribeConsumerGroups(groups []string) ([]*GroupDescription, error)

	// ListConsumerGroupOffsets fetches the committed offsets for a group,
	// optionally scoped to specific topic-partitions.
	ListConsumerGroupOffsets(group string, topicPartitions map[string][]int32) (*OffsetFetchResponse, error)

	// DeleteConsumerGroupOffset removes one committed offset from a group.
	DeleteConsumerGroupOffset(group string, topic string, partition int32) error

	// DeleteConsumerGroup removes an empty group's metadata entirely.
	DeleteConsumerGroup(group string) error

	// RemoveMemberFromConsumerGroup evicts the static members named by
	// groupInstanceIds from a group, triggering a rebalance. An empty list
	// sends a request that names no member, so nobody is evicted.
	RemoveMemberFromConsumerGroup(group string, groupInstanceIds []string) (*LeaveGroupResponse, error)

	// DescribeCluster returns the cluster's live brokers and controller id.
	DescribeCluster() (brokers []*Broker, controllerID int32, err error)

	// DescribeLogDirs returns per-broker disk usage.
	DescribeLogDirs(brokers []int32) (map[int32][]DescribeLogDirsResponseDirMetadata, error)

	// DescribeClientQuotas returns every quota entity matching filters
	// (an empty slice matches everything).
	DescribeClientQuotas(filters []QuotaEntityComponent, strict bool) ([]DescribeClientQuotasResponseEntry, error)

	// AlterClientQuotas applies quota changes to one or more entities.
	AlterClientQuotas(entries []ClientQuotaAlteration, validateOnly bool) error

	// AlterPartitionReassignments moves partitions to new replica sets, or
	// (with a nil replicas slice for a partition) cancels a reassignment
	// already in progress on it.
	AlterPartitionReassignments(topic string, assignment map[int32][]int32) error

	// ListPartitionReassignments reports in-flight reassignments, scoped to
	// topicPartitions if non-nil or every topic otherwise.
	ListPartitionReassignments(topicPartitions map[string][]int32) (map[string][]OngoingPartitionReassignment, error)

	// ElectLeaders triggers leader election of the given type for the named
	// partitions, or every partition needing one if topicPartitions is nil.
	ElectLeaders(electionType ElectionType, topicPartitions map[string][]int32) (map[string][]ElectLeadersResponsePartition, error)

	// DescribeUserScramCredentials lists SCRAM credentials configured for
	// the named users, or every user if users is nil.
	DescribeUserScramCredentials(users []string) ([]UserScramCredentialsResult, error)

	// UpsertUserScramCredential sets (or replaces) one user's SCRAM
	// credential.
	UpsertUserScramCredential(upsertion ScramCredentialUpsertion) error

	// DeleteUserScramCredential removes one user's SCRAM credential for the
	// given mechanism.
	DeleteUserScramCredential(user string, mechanism ScramMechanism) error

	// CreateDelegationToken mints a token the caller's current session can
	// use in place of re-running SASL.
	CreateDelegationToken(renewers []DelegationTokenRenewer, maxLifetime time.Duration) (*DelegationTokenDetails, error)

	// RenewDelegationToken extends a token's expiry by renewPeriod, capped
	// at the token's original max lifetime.
	RenewDelegationToken(hmac []byte, renewPeriod time.Duration) (int64, error)

	// ExpireDelegationToken sets a token's expiry to now+expiryPeriod (or
	// immediately, if expiryPeriod is 0).
	ExpireDelegationToken(hmac []byte, expiryPeriod time.Duration) (int64, error)

	// DescribeDelegationTokens lists tokens owned by or renewable by the
	// given principals, or every token if owners is nil.
	DescribeDelegationTokens(owners []DelegationTokenRenewer) ([]DelegationTokenDetails, error)

	// UpdateFeatures finalizes one or more cluster-wide feature version
	// levels once every broker can support them.
	UpdateFeatures(updates []FeatureUpdate, validateOnly bool) error

	// Controller returns the current cluster controller.
	Controller() (*Broker, error)

	// Coordinator returns the group coordinator for the given group.
	Coordinator(group string) (*Broker, error)

	// Close releases the admin client's underlying connections.
	Close() error
}

type clusterAdmin struct {
	client Client
	conf   *Config
}

// NewClusterAdmin dials the given broker addresses and returns a
// ClusterAdmin backed by a fresh Client.
func NewClusterAdmin(addrs []string, conf *Config) (ClusterAdmin, error) {
	client, err := NewClient(addrs, conf)
	if err != nil {
		return nil, err
	}
	return NewClusterAdminFromClient(client)
}

// NewClusterAdminFromClient wraps an already-connected Client, for callers
// who want to share one connection pool across Admin, Producer and Consumer.
func NewClusterAdminFromClient(client Client) (ClusterAdmin, error) {
	if client.Closed() {
		return nil, ErrClosedClient
	}
	return &clusterAdmin{client: client, conf: client.Config()}, nil
}

func (ca *clusterAdmin) Close() error { return ca.client.Close() }

func (ca *clusterAdmin) Controller() (*Broker, error) { return ca.client.Controller() }

func (ca *clusterAdmin) Coordinator(group string) (*Broker, error) { return ca.client.Coordinator(group) }

// retryOnError runs fn, retrying up to conf.Admin.Retry.Max times with
// conf.Admin.Retry.Backoff between attempts, as long as retryable(err) holds.
// An ErrNotController result refreshes the cached controller first, so the
// next attempt goes to the newly elected one.
func (ca *clusterAdmin) retryOnError(retryable func(error) bool, fn func() error) error {
	return retryOnError(ca.client.ClosedChan(), ca.conf.Admin.Retry.Max, ca.conf.Admin.Retry.Backoff, retryable, func() error {
		err := fn()
		if errors.Is(err, ErrNotController) {
			_, _ = ca.client.RefreshController()
		}
		return err
	})
}

func (ca *clusterAdmin) findAnyBroker() (*Broker, error) {
	brokers := ca.client.Brokers()
	if len(brokers) == 0 {
		return nil, ErrOutOfBrokers
	}
	return brokers[0], nil
}

func (ca *clusterAdmin) CreateTopic(topic string, detail *TopicDetail, validateOnly bool) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if detail == nil {
		return errors.New("kafka: CreateTopic requires a non-nil TopicDetail")
	}

	req := &CreateTopicsRequest{
		TopicDetails: map[string]*TopicDetail{topic: detail},
		Timeout:      ca.conf.Admin.Timeout,
		ValidateOnly: validateOnly,
	}
	if ca.conf.Version.IsAtLeast(V0_11_0_0) {
		req.Version = 1
	}

	return ca.retryOnError(isRetriableControllerError, func() error {
		b, err := ca.Controller()
		if err != nil {
			return err
		}
		resp, err := b.sendWithResponse(ca.conf.ClientID, req)
		if err != nil {
			return err
		}
		topicErr := resp.(*CreateTopicsResponse).TopicErrors[topic]
		if topicErr != nil && topicErr.Err != ErrNoError {
			return topicErr
		}
		return nil
	})
}

func (ca *clusterAdmin) ListTopics() (map[string]TopicDetail, error) {
	b, err := ca.findAnyBroker()
	if err != nil {
		return nil, err
	}
	resp, err := b.sendWithResponse(ca.conf.ClientID, &MetadataRequest{})
	if err != nil {
		return nil, err
	}
	metaResp := resp.(*MetadataResponse)

	topics := make(map[string]TopicDetail, len(metaResp.Topics))
	for _, t := range metaResp.Topics {
		detail := TopicDetail{NumPartitions: int32(len(t.Partitions))}
		if len(t.Partitions) > 0 {
			detail.ReplicationFactor = int16(len(t.Partitions[0].Replicas))
		}
		topics[t.Name] = detail
	}
	return topics, nil
}

func (ca *clusterAdmin) DescribeTopics(topics []string) ([]*MetadataTopic, error) {
	b, err := ca.findAnyBroker()
	if err != nil {
		return nil, err
	}
	resp, err := b.sendWithResponse(ca.conf.ClientID, &MetadataRequest{Topics: topics})
	if err != nil {
		return nil, err
	}
	return resp.(*MetadataResponse).Topics, nil
}

func (ca *clusterAdmin) DeleteTopic(topic string) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	req := &DeleteTopicsRequest{Topics: []string{topic}, Timeout: ca.conf.Admin.Timeout}
	return ca.retryOnError(isRetriableControllerError, func() error {
		b, err := ca.Controller()
		if err != nil {
			return err
		}
		resp, err := b.sendWithResponse(ca.conf.ClientID, req)
		if err != nil {
			return err
		}
		if kerr := resp.(*DeleteTopicsResponse).TopicErrorCodes[topic]; kerr != ErrNoError {
			return kerr
		}
		return nil
	})
}

func (ca *clusterAdmin) DeleteTopics(topics []string) error {
	if len(topics) == 0 {
		return ErrInvalidTopic
	}
	req := &DeleteTopicsRequest{Topics: topics, Timeout: ca.conf.Admin.Timeout}
	return ca.retryOnError(isRetriableControllerError, func() error {
		b, err := ca.Controller()
		if err != nil {
			return err
		}
		resp, err := b.sendWithResponse(ca.conf.ClientID, req)
		if err != nil {
			return err
		}
		return resp.(*DeleteTopicsResponse).Errors()
	})
}

func (ca *clusterAdmin) CreatePartitions(topic string, count int32, assignment [][]int32, validateOnly bool) error {
	req := &CreatePartitionsRequest{
		TopicPartitions: map[string]*TopicPartition{topic: {Count: count, Assignment: assignment}},
		Timeout:         ca.conf.Admin.Timeout,
		ValidateOnly:    validateOnly,
	}
	return ca.retryOnError(isRetriableControllerError, func() error {
		b, err := ca.Controller()
		if err != nil {
			return err
		}
		resp, err := b.sendWithResponse(ca.conf.ClientID, req)
		if err != nil {
			return err
		}
		topicErr := resp.(*CreatePartitionsResponse).TopicPartitionErrors[topic]
		if topicErr != nil && topicErr.Err != ErrNoError {
			return topicErr
		}
		return nil
	})
}

func (ca *clusterAdmin) DeleteRecords(topic string, partitionOffsets map[int32]int64) error {
	req := &DeleteRecordsRequest{
		Topics:  map[string]*DeleteRecordsRequestTopic{topic: {PartitionOffsets: partitionOffsets}},
		Timeout: ca.conf.Admin.Timeout,
	}
	b, err := ca.findAnyBroker()
	if err != nil {
		return err
	}
	resp, err := b.sendWithResponse(ca.conf.ClientID, req)
	if err != nil {
		return err
	}
	t := resp.(*DeleteRecordsResponse).Topics[topic]
	if t == nil {
		return ErrDeleteRecords
	}
	var errs []error
	for _, p := range t.Partitions {
		if err := p.err(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return Wrap(ErrDeleteRecords, errs...)
	}
	return nil
}

func (ca *clusterAdmin) DescribeConfig(resource ConfigResource) ([]ConfigEntry, error) {
	req := &DescribeConfigsRequest{Resources: []*ConfigResource{&resource}}
	b, err := ca.resourceBroker(resource.Type)
	if err != nil {
		return nil, err
	}
	resp, err := b.sendWithResponse(ca.conf.ClientID, req)
	if err != nil {
		return nil, err
	}
	describeResp := resp.(*DescribeConfigsResponse)
	if len(describeResp.Resources) == 0 {
		return nil, nil
	}
	r := describeResp.Resources[0]
	if err := r.err(); err != nil {
		return nil, err
	}
	entries := make([]ConfigEntry, len(r.Configs))
	for i, c := range r.Configs {
		entries[i] = *c
	}
	return entries, nil
}

func (ca *clusterAdmin) AlterConfig(resourceType ConfigResourceType, name string, entries map[string]*string, validateOnly bool) error {
	req := &AlterConfigsRequest{
		Resources:    []*AlterConfigsResource{{Type: resourceType, Name: name, ConfigEntries: entries}},
		ValidateOnly: validateOnly,
	}
	b, err := ca.resourceBroker(resourceType)
	if err != nil {
		return err
	}
	resp, err := b.sendWithResponse(ca.conf.ClientID, req)
	if err != nil {
		return err
	}
	for _, r := range resp.(*AlterConfigsResponse).Resources {
		if err := r.err(); err != nil {
			return err
		}
	}
	return nil
}

func (ca *clusterAdmin) IncrementalAlterConfig(resourceType ConfigResourceType, name string, entries map[string]IncrementalAlterConfigsEntry, validateOnly bool) error {
	req := &IncrementalAlterConfigsRequest{
		Resources:    []*IncrementalAlterConfigsResource{{Type: resourceType, Name: name, ConfigEntries: entries}},
		ValidateOnly: validateOnly,
	}
	b, err := ca.resourceBroker(resourceType)
	if err != nil {
		return err
	}
	resp, err := b.sendWithResponse(ca.conf.ClientID, req)
	if err != nil {
		return err
	}
	for _, r := range resp.(*IncrementalAlterConfigsResponse).Resources {
		if err := r.err(); err != nil {
			return err
		}
	}
	return nil
}

// resourceBroker picks the broker that owns a config resource: the
// controller for topics, any broker acting as itself for broker resources.
func (ca *clusterAdmin) resourceBroker(t ConfigResourceType) (*Broker, error) {
	if t == BrokerResource || t == BrokerLoggerResource {
		return ca.findAnyBroker()
	}
	return ca.Controller()
}

func (ca *clusterAdmin) CreateACLs(acls []*AclCreation) error {
	b, err := ca.findAnyBroker()
	if err != nil {
		return err
	}
	resp, err := b.sendWithResponse(ca.conf.ClientID, &CreateAclsRequest{AclCreations: acls})
	if err != nil {
		return err
	}
	var errs []error
	for _, r := range resp.(*CreateAclsResponse).AclCreationResponses {
		if r.Err != ErrNoError {
			errs = append(errs, r.Err)
		}
	}
	if len(errs) > 0 {
		return Wrap(errors.New("kafka: failed to create one or more ACLs"), errs...)
	}
	return nil
}

func (ca *clusterAdmin) ListAcls(filter AclFilter) ([]ResourceAcls, error) {
	b, err := ca.findAnyBroker()
	if err != nil {
		return nil, err
	}
	resp, err := b.sendWithResponse(ca.conf.ClientID, &DescribeAclsRequest{AclFilter: filter})
	if err != nil {
		return nil, err
	}
	describeResp := resp.(*DescribeAclsResponse)
	if describeResp.Err != ErrNoError {
		return nil, describeResp.Err
	}
	out := make([]ResourceAcls, len(describeResp.ResourceAcls))
	for i, ra := range describeResp.ResourceAcls {
		out[i] = *ra
	}
	return out, nil
}

func (ca *clusterAdmin) DeleteACL(filter AclFilter) ([]MatchingAcl, error) {
	b, err := ca.findAnyBroker()
	if err != nil {
		return nil, err
	}
	resp, err := b.sendWithResponse(ca.conf.ClientID, &DeleteAclsRequest{Filters: []*AclFilter{&filter}})
	if err != nil {
		return nil, err
	}
	var matched []MatchingAcl
	for _, fr := range resp.(*DeleteAclsResponse).FilterResponses {
		if fr.Err != ErrNoError {
			return nil, fr.Err
		}
		for _, m := range fr.MatchingAcls {
			matched = append(matched, *m)
		}
	}
	return matched, nil
}

func (ca *clusterAdmin) ListConsumerGroups() (map[string]string, error) {
	brokers := ca.client.Brokers()
	if len(brokers) == 0 {
		return nil, ErrOutOfBrokers
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		result = make(map[string]string)
		errs   []error
	)
	for _, b := range brokers {
		wg.Add(1)
		go func(b *Broker) {
			defer wg.Done()
			resp, err := b.sendWithResponse(ca.conf.ClientID, &ListGroupsRequest{})
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
				return
			}
			listResp := resp.(*ListGroupsResponse)
			mu.Lock()
			for group, protocolType := range listResp.Groups {
				result[group] = protocolType
			}
			mu.Unlock()
		}(b)
	}
	wg.Wait()

	if len(errs) > 0 && len(result) == 0 {
		return nil, Wrap(ErrOutOfBrokers, errs...)
	}
	return result, nil
}

func (ca *clusterAdmin) DescribeConsumerGroups(groups []string) ([]*GroupDescription, error) {
	byCoordinator := make(map[int32][]string)
	for _, group := range groups {
		coord, err := ca.Coordinator(group)
		if err != nil {
			return nil, err
		}
		byCoordinator[coord.ID()] = append(byCoordinator[coord.ID()], group)
	}

	var result []*GroupDescription
	for coordID, groupNames := range byCoordinator {
		b, err := ca.client.Broker(coordID)
		if err != nil {
			return nil, err
		}
		resp, err := b.sendWithResponse(ca.conf.ClientID, &DescribeGroupsRequest{Groups: groupNames})
		if err != nil {
			return nil, err
		}
		result = append(result, resp.(*DescribeGroupsResponse).Groups...)
	}
	return result, nil
}

func (ca *clusterAdmin) ListConsumerGroupOffsets(group string, topicPartitions map[string][]int32) (*OffsetFetchResponse, error) {
	coordinator, err := ca.Coordinator(group)
	if err != nil {
		return nil, err
	}
	req := NewOffsetFetchRequest(ca.conf.Version, group, topicPartitions)
	resp, err := coordinator.sendWithResponse(ca.conf.ClientID, req)
	if err != nil {
		return nil, err
	}
	return resp.(*OffsetFetchResponse), nil
}

func (ca *clusterAdmin) DeleteConsumerGroupOffset(group string, topic string, partition int32) error {
	coordinator, err := ca.Coordinator(group)
	if err != nil {
		return err
	}
	req := &DeleteOffsetsRequest{Group: group}
	req.AddPartition(topic, partition)
	resp, err := coordinator.sendWithResponse(ca.conf.ClientID, req)
	if err != nil {
		return err
	}
	deleteResp := resp.(*DeleteOffsetsResponse)
	if err := deleteResp.err(); err != nil {
		return err
	}
	if kerr := deleteResp.Errors[topic][partition]; kerr != ErrNoError {
		return kerr
	}
	return nil
}

func (ca *clusterAdmin) DeleteConsumerGroup(group string) error {
	coordinator, err := ca.Coordinator(group)
	if err != nil {
		return err
	}
	resp, err := coordinator.sendWithResponse(ca.conf.ClientID, &DeleteGroupsRequest{Groups: []string{group}})
	if err != nil {
		return err
	}
	if kerr := resp.(*DeleteGroupsResponse).GroupErrorCodes[group]; kerr != ErrNoError {
		return kerr
	}
	return nil
}

func (ca *clusterAdmin) RemoveMemberFromConsumerGroup(group string, groupInstanceIds []string) (*LeaveGroupResponse, error) {
	coordinator, err := ca.Coordinator(group)
	if err != nil {
		return nil, err
	}
	req := &LeaveGroupRequest{Version: 3, GroupID: group}
	for _, id := range groupInstanceIds {
		id := id
		req.Members = append(req.Members, LeaveGroupMember{GroupInstanceID: &id})
	}
	resp, err := coordinator.sendWithResponse(ca.conf.ClientID, req)
	if err != nil {
		return nil, err
	}
	return resp.(*LeaveGroupResponse), nil
}

func (ca *clusterAdmin) DescribeCluster() ([]*Broker, int32, error) {
	if err := ca.client.RefreshMetadata(); err != nil {
		return nil, -1, err
	}
	controller, err := ca.Controller()
	if err != nil {
		return ca.client.Brokers(), -1, nil
	}
	return ca.client.Brokers(), controller.ID(), nil
}

func (ca *clusterAdmin) DescribeLogDirs(brokerIDs []int32) (map[int32][]DescribeLogDirsResponseDirMetadata, error) {
	if len(brokerIDs) == 0 {
		for _, b := range ca.client.Brokers() {
			brokerIDs = append(brokerIDs, b.ID())
		}
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		result = make(map[int32][]DescribeLogDirsResponseDirMetadata)
	)
	for _, id := range brokerIDs {
		b, err := ca.client.Broker(id)
		if err != nil {
			continue
		}
		wg.Add(1)
		go func(id int32, b *Broker) {
			defer wg.Done()
			resp, err := b.sendWithResponse(ca.conf.ClientID, &DescribeLogDirsRequest{})
			if err != nil {
				return
			}
			mu.Lock()
			result[id] = resp.(*DescribeLogDirsResponse).LogDirs
			mu.Unlock()
		}(id, b)
	}
	wg.Wait()
	return result, nil
}

func (ca *clusterAdmin) DescribeClientQuotas(filters []QuotaEntityComponent, strict bool) ([]DescribeClientQuotasResponseEntry, error) {
	req := &DescribeClientQuotasRequest{Filters: filters, Strict: strict}
	b, err := ca.findAnyBroker()
	if err != nil {
		return nil, err
	}
	resp, err := b.sendWithResponse(ca.conf.ClientID, req)
	if err != nil {
		return nil, err
	}
	describeResp := resp.(*DescribeClientQuotasResponse)
	if describeResp.ErrorCode != 0 {
		return nil, KError(describeResp.ErrorCode)
	}
	return describeResp.Entries, nil
}

func (ca *clusterAdmin) AlterClientQuotas(entries []ClientQuotaAlteration, validateOnly bool) error {
	req := &AlterClientQuotasRequest{Entries: entries, ValidateOnly: validateOnly}
	b, err := ca.Controller()
	if err != nil {
		return err
	}
	resp, err := b.sendWithResponse(ca.conf.ClientID, req)
	if err != nil {
		return err
	}
	var errs []error
	for _, e := range resp.(*AlterClientQuotasResponse).Entries {
		if err := e.err(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return Wrap(ErrAlterClientQuotas, errs...)
	}
	return nil
}

func (ca *clusterAdmin) AlterPartitionReassignments(topic string, assignment map[int32][]int32) error {
	req := &AlterPartitionReassignmentsRequest{
		TimeoutMs: int32(ca.conf.Admin.Timeout / time.Millisecond),
		Topics:    map[string]map[int32][]int32{topic: assignment},
	}
	b, err := ca.Controller()
	if err != nil {
		return err
	}
	resp, err := b.sendWithResponse(ca.conf.ClientID, req)
	if err != nil {
		return err
	}
	alterResp := resp.(*AlterPartitionReassignmentsResponse)
	if alterResp.ErrorCode != 0 {
		return KError(alterResp.ErrorCode)
	}
	var errs []error
	for _, p := range alterResp.Topics[topic] {
		if p.ErrorCode != 0 {
			errs = append(errs, KError(p.ErrorCode))
		}
	}
	if len(errs) > 0 {
		return Wrap(ErrReassignPartitions, errs...)
	}
	return nil
}

func (ca *clusterAdmin) ListPartitionReassignments(topicPartitions map[string][]int32) (map[string][]OngoingPartitionReassignment, error) {
	req := &ListPartitionReassignmentsRequest{
		TimeoutMs: int32(ca.conf.Admin.Timeout / time.Millisecond),
		Topics:    topicPartitions,
	}
	b, err := ca.Controller()
	if err != nil {
		return nil, err
	}
	resp, err := b.sendWithResponse(ca.conf.ClientID, req)
	if err != nil {
		return nil, err
	}
	listResp := resp.(*ListPartitionReassignmentsResponse)
	if listResp.ErrorCode != 0 {
		return nil, KError(listResp.ErrorCode)
	}
	return listResp.Topics, nil
}

func (ca *clusterAdmin) ElectLeaders(electionType ElectionType, topicPartitions map[string][]int32) (map[string][]ElectLeadersResponsePartition, error) {
	req := &ElectLeadersRequest{
		Version:         1,
		Type:            electionType,
		TopicPartitions: topicPartitions,
		TimeoutMs:       int32(ca.conf.Admin.Timeout / time.Millisecond),
	}
	b, err := ca.Controller()
	if err != nil {
		return nil, err
	}
	resp, err := b.sendWithResponse(ca.conf.ClientID, req)
	if err != nil {
		return nil, err
	}
	electResp := resp.(*ElectLeadersResponse)
	if electResp.ErrorCode != 0 {
		return nil, KError(electResp.ErrorCode)
	}
	return electResp.Topics, nil
}

func (ca *clusterAdmin) DescribeUserScramCredentials(users []string) ([]UserScramCredentialsResult, error) {
	req := &DescribeUserScramCredentialsRequest{Users: users}
	b, err := ca.findAnyBroker()
	if err != nil {
		return nil, err
	}
	resp, err := b.sendWithResponse(ca.conf.ClientID, req)
	if err != nil {
		return nil, err
	}
	describeResp := resp.(*DescribeUserScramCredentialsResponse)
	if describeResp.ErrorCode != 0 {
		return nil, KError(describeResp.ErrorCode)
	}
	return describeResp.Results, nil
}

func (ca *clusterAdmin) alterUserScramCredentials(upsertions []ScramCredentialUpsertion, deletions []ScramCredentialDeletion) error {
	req := &AlterUserScramCredentialsRequest{Upsertions: upsertions, Deletions: deletions}
	b, err := ca.Controller()
	if err != nil {
		return err
	}
	resp, err := b.sendWithResponse(ca.conf.ClientID, req)
	if err != nil {
		return err
	}
	var errs []error
	for _, r := range resp.(*AlterUserScramCredentialsResponse).Results {
		if err := r.err(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return Wrap(ErrAlterUserScramCredentials, errs...)
	}
	return nil
}

func (ca *clusterAdmin) UpsertUserScramCredential(upsertion ScramCredentialUpsertion) error {
	return ca.alterUserScramCredentials([]ScramCredentialUpsertion{upsertion}, nil)
}

func (ca *clusterAdmin) DeleteUserScramCredential(user string, mechanism ScramMechanism) error {
	return ca.alterUserScramCredentials(nil, []ScramCredentialDeletion{{User: user, Mechanism: mechanism}})
}

func (ca *clusterAdmin) CreateDelegationToken(renewers []DelegationTokenRenewer, maxLifetime time.Duration) (*DelegationTokenDetails, error) {
	req := &CreateDelegationTokenRequest{Renewers: renewers, MaxLifetimeMs: int64(maxLifetime / time.Millisecond)}
	b, err := ca.Controller()
	if err != nil {
		return nil, err
	}
	resp, err := b.sendWithResponse(ca.conf.ClientID, req)
	if err != nil {
		return nil, err
	}
	createResp := resp.(*CreateDelegationTokenResponse)
	if createResp.Token.ErrorCode != 0 {
		return nil, KError(createResp.Token.ErrorCode)
	}
	token := createResp.Token
	return &token, nil
}

func (ca *clusterAdmin) RenewDelegationToken(hmac []byte, renewPeriod time.Duration) (int64, error) {
	req := &RenewDelegationTokenRequest{HMAC: hmac, RenewPeriodMs: int64(renewPeriod / time.Millisecond)}
	b, err := ca.Controller()
	if err != nil {
		return 0, err
	}
	resp, err := b.sendWithResponse(ca.conf.ClientID, req)
	if err != nil {
		return 0, err
	}
	renewResp := resp.(*RenewDelegationTokenResponse)
	if renewResp.ErrorCode != 0 {
		return 0, KError(renewResp.ErrorCode)
	}
	return renewResp.ExpiryTimestamp, nil
}

func (ca *clusterAdmin) ExpireDelegationToken(hmac []byte, expiryPeriod time.Duration) (int64, error) {
	req := &ExpireDelegationTokenRequest{HMAC: hmac, ExpiryPeriodMs: int64(expiryPeriod / time.Millisecond)}
	b, err := ca.Controller()
	if err != nil {
		return 0, err
	}
	resp, err := b.sendWithResponse(ca.conf.ClientID, req)
	if err != nil {
		return 0, err
	}
	expireResp := resp.(*ExpireDelegationTokenResponse)
	if expireResp.ErrorCode != 0 {
		return 0, KError(expireResp.ErrorCode)
	}
	return expireResp.ExpiryTimestamp, nil
}

func (ca *clusterAdmin) DescribeDelegationTokens(owners []DelegationTokenRenewer) ([]DelegationTokenDetails, error) {
	req := &DescribeDelegationTokenRequest{Owners: owners}
	b, err := ca.findAnyBroker()
	if err != nil {
		return nil, err
	}
	resp, err := b.sendWithResponse(ca.conf.ClientID, req)
	if err != nil {
		return nil, err
	}
	describeResp := resp.(*DescribeDelegationTokenResponse)
	if describeResp.ErrorCode != 0 {
		return nil, KError(describeResp.ErrorCode)
	}
	return describeResp.Tokens, nil
}

func (ca *clusterAdmin) UpdateFeatures(updates []FeatureUpdate, validateOnly bool) error {
	req := &UpdateFeaturesRequest{
		TimeoutMs:    int32(ca.conf.Admin.Timeout / time.Millisecond),
		Updates:      updates,
		ValidateOnly: validateOnly,
	}
	b, err := ca.Controller()
	if err != nil {
		return err
	}
	resp, err := b.sendWithResponse(ca.conf.ClientID, req)
	if err != nil {
		return err
	}
	updateResp := resp.(*UpdateFeaturesResponse)
	if updateResp.ErrorCode != 0 {
		return KError(updateResp.ErrorCode)
	}
	var errs []error
	for _, r := range updateResp.Results {
		if err := r.err(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return Wrap(ErrUpdateFeatures, errs...)
	}
	return nil
}
