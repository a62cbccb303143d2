package kafka

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// groupState names the §4.I consumer group state machine: a member moves
// UNJOINED -> JOINING -> SYNCING -> STABLE, then either STABLE -> LEAVING
// (Close/context cancellation) or STABLE -> REBALANCING -> JOINING again
// (heartbeat reports the generation is stale).
type groupState int

const (
	groupStateUnjoined groupState = iota
	groupStateJoining
	groupStateSyncing
	groupStateStable
	groupStateRebalancing
	groupStateLeaving
	groupStateClosed
)

// ConsumerGroupHandler is implemented by the caller to process claims handed
// out by a rebalance; Setup/Cleanup bracket every generation, ConsumeClaim is
// invoked once per claimed partition and should loop over Claim.Messages()
// until the channel closes (signalling a rebalance or Close).
type ConsumerGroupHandler interface {
	Setup(ConsumerGroupSession) error
	Cleanup(ConsumerGroupSession) error
	ConsumeClaim(ConsumerGroupSession, ConsumerGroupClaim) error
}

// ConsumerGroupClaim is one partition assigned to this member for the
// current generation.
type ConsumerGroupClaim interface {
	Topic() string
	Partition() int32
	InitialOffset() int64
	HighWaterMarkOffset() int64
	Messages() <-chan *ConsumerMessage
}

// ConsumerGroupSession binds a generation's claims to the offset manager and
// the context that ConsumeClaim should watch for cancellation.
type ConsumerGroupSession interface {
	Claims() map[string][]int32
	MemberID() string
	GenerationID() int32
	MarkMessage(msg *ConsumerMessage, metadata string)
	MarkOffset(topic string, partition int32, offset int64, metadata string)
	Commit()
	Context() context.Context
}

// ConsumerGroup coordinates one or more processes consuming the same topics
// under a shared group id, handing out non-overlapping partition claims and
// rebalancing when membership changes.
type ConsumerGroup interface {
	// Consume joins the group, claims partitions for topics, and runs
	// handler until ctx is cancelled, Close is called, or an unrecoverable
	// error occurs. It returns after a clean Cleanup and LeaveGroup; a
	// rebalance does not return control, as Consume rejoins by itself.
	Consume(ctx context.Context, topics []string, handler ConsumerGroupHandler) error
	Errors() <-chan error
	Close() error
}

type consumerGroup struct {
	client Client
	conf   *Config
	groupID string

	lock   sync.Mutex
	errors chan error
	closed chan struct{}
	closeOnce sync.Once

	state int32 // groupState, accessed via atomic
}

func (c *consumerGroup) setState(s groupState) { atomic.StoreInt32(&c.state, int32(s)) }

// State reports this member's current position in the UNJOINED -> JOINING ->
// SYNCING -> STABLE -> REBALANCING/LEAVING -> CLOSED state machine.
func (c *consumerGroup) State() groupState { return groupState(atomic.LoadInt32(&c.state)) }

// NewConsumerGroup dials addrs and returns a ConsumerGroup for groupID.
func NewConsumerGroup(addrs []string, groupID string, conf *Config) (ConsumerGroup, error) {
	client, err := NewClient(addrs, conf)
	if err != nil {
		return nil, err
	}
	cg, err := NewConsumerGroupFromClient(groupID, client)
	if err != nil {
		client.Close()
		return nil, err
	}
	return cg, nil
}

// NewConsumerGroupFromClient reuses an existing Client; Close on the
// returned ConsumerGroup does not close client.
func NewConsumerGroupFromClient(groupID string, client Client) (ConsumerGroup, error) {
	conf := client.Config()
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &consumerGroup{
		client:  client,
		conf:    conf,
		groupID: groupID,
		errors:  make(chan error, conf.ChannelBufferSize),
		closed:  make(chan struct{}),
	}, nil
}

func (c *consumerGroup) Errors() <-chan error { return c.errors }

func (c *consumerGroup) Close() error {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
	return nil
}

func (c *consumerGroup) handleError(err error) {
	select {
	case c.errors <- err:
	default:
		Logger.Printf("kafka: consumer group error channel full, dropping: %v", err)
	}
}

// Consume runs one generation after another (join, sync, consume, leave),
// rejoining after every rebalance, until ctx is cancelled, Close is called,
// or joining fails.
func (c *consumerGroup) Consume(ctx context.Context, topics []string, handler ConsumerGroupHandler) error {
	select {
	case <-c.closed:
		return ErrClosedConsumerGroup
	default:
	}

	sort.Strings(topics)
	memberID := ""
	c.setState(groupStateUnjoined)
	for {
		c.setState(groupStateJoining)
		gen, err := c.joinAndSync(ctx, topics, memberID)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				c.setState(groupStateClosed)
				return nil
			}
			c.setState(groupStateUnjoined)
			return err
		}
		memberID = gen.memberID
		c.setState(groupStateStable)

		retry, err := c.runGeneration(ctx, gen, handler)
		if err != nil {
			c.handleError(err)
		}
		if !retry {
			c.setState(groupStateClosed)
			return err
		}
		c.setState(groupStateRebalancing)
		select {
		case <-ctx.Done():
			c.setState(groupStateLeaving)
			return nil
		case <-c.closed:
			c.setState(groupStateLeaving)
			return nil
		default:
		}
	}
}

type generation struct {
	memberID     string
	generationID int32
	assignment   map[string][]int32
	coordinator  *Broker
	instanceID   *string
}

func (c *consumerGroup) joinAndSync(ctx context.Context, topics []string, memberID string) (*generation, error) {
	coordinator, err := c.client.Coordinator(c.groupID)
	if err != nil {
		return nil, err
	}

	meta := &ConsumerGroupMemberMetadata{Version: 0, Topics: topics}
	metaBuf, err := encodeProtocolBytes(meta)
	if err != nil {
		return nil, err
	}
	strategy := c.conf.Consumer.Group.Rebalance.Strategy
	if strategy == nil {
		strategy = BalanceStrategyRange
	}
	var instanceID *string
	if c.conf.Consumer.Group.InstanceId != "" {
		instanceID = &c.conf.Consumer.Group.InstanceId
	}

	joinReq := &JoinGroupRequest{
		Version:          joinGroupVersion(c.conf),
		GroupID:          c.groupID,
		SessionTimeout:   int32(c.conf.Consumer.Group.Session.Timeout.Milliseconds()),
		RebalanceTimeout: int32(c.conf.Consumer.Group.Rebalance.Timeout.Milliseconds()),
		MemberID:         memberID,
		GroupInstanceID:  instanceID,
		ProtocolType:     "consumer",
		GroupProtocols:   []GroupProtocol{{Name: strategy.Name(), Metadata: metaBuf}},
	}
	resp, err := coordinator.sendWithResponse(c.conf.ClientID, joinReq)
	if err != nil {
		return nil, err
	}
	joinResp := resp.(*JoinGroupResponse)
	if joinResp.Err == ErrMemberIdRequired {
		return c.joinAndSync(ctx, topics, joinResp.MemberID)
	}
	if joinResp.Err != ErrNoError {
		return nil, joinResp.Err
	}

	var assignments []SyncGroupAssignment
	if joinResp.MemberID == joinResp.LeaderID {
		members := make(map[string][]byte, len(joinResp.Members))
		for _, m := range joinResp.Members {
			members[m.MemberID] = m.Metadata
		}
		topicPartitions := make(map[string][]int32, len(topics))
		for _, topic := range topics {
			parts, err := c.client.Partitions(topic)
			if err != nil {
				return nil, err
			}
			topicPartitions[topic] = parts
		}
		plan, err := strategy.Plan(members, topicPartitions)
		if err != nil {
			return nil, err
		}
		for id, assign := range plan {
			ga := &ConsumerGroupMemberAssignment{Version: 0, Topics: assign}
			buf, err := encodeProtocolBytes(ga)
			if err != nil {
				return nil, err
			}
			assignments = append(assignments, SyncGroupAssignment{MemberID: id, Assignment: buf})
		}
	}

	c.setState(groupStateSyncing)
	syncReq := &SyncGroupRequest{
		Version:          syncGroupVersion(c.conf),
		GroupID:          c.groupID,
		GenerationID:     joinResp.GenerationID,
		MemberID:         joinResp.MemberID,
		GroupInstanceID:  instanceID,
		GroupAssignments: assignments,
	}
	resp, err = coordinator.sendWithResponse(c.conf.ClientID, syncReq)
	if err != nil {
		return nil, err
	}
	syncResp := resp.(*SyncGroupResponse)
	if syncResp.Err != ErrNoError {
		return nil, syncResp.Err
	}

	assignment := &ConsumerGroupMemberAssignment{}
	if len(syncResp.MemberAssignment) > 0 {
		if err := assignment.decode(newRealDecoder(syncResp.MemberAssignment)); err != nil {
			return nil, err
		}
	}

	return &generation{
		memberID:     joinResp.MemberID,
		generationID: joinResp.GenerationID,
		assignment:   assignment.Topics,
		coordinator:  coordinator,
		instanceID:   instanceID,
	}, nil
}

func joinGroupVersion(conf *Config) int16 {
	switch {
	case conf.Version.IsAtLeast(V2_3_0_0):
		return 5
	case conf.Version.IsAtLeast(V0_10_1_0):
		return 1
	default:
		return 0
	}
}

func syncGroupVersion(conf *Config) int16 {
	if conf.Version.IsAtLeast(V0_11_0_0) {
		return 1
	}
	return 0
}

func encodeProtocolBytes(e encoder) ([]byte, error) {
	return encode(e, nil)
}

// runGeneration drives claims, the heartbeat loop, and handler callbacks for
// a single generation; the bool return says whether the caller should loop
// back into joinAndSync (true) or stop (false, ctx cancelled or Close).
func (c *consumerGroup) runGeneration(ctx context.Context, gen *generation, handler ConsumerGroupHandler) (bool, error) {
	genCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	om := newOffsetManager(c.client, c.groupID, gen.memberID, gen.generationID)
	defer om.Close()

	sess := &consumerGroupSession{
		ctx:          genCtx,
		memberID:     gen.memberID,
		generationID: gen.generationID,
		claims:       gen.assignment,
		om:           om,
	}

	if err := handler.Setup(sess); err != nil {
		return true, err
	}

	sessionsByBroker := make(map[int32]*groupFetchSession)
	var wg sync.WaitGroup

	for topic, partitions := range gen.assignment {
		for _, partition := range partitions {
			pom, err := om.ManagePartition(topic, partition)
			if err != nil {
				cancel()
				wg.Wait()
				handler.Cleanup(sess)
				return true, err
			}
			offset, _ := pom.NextOffset()

			broker, err := c.client.Leader(topic, partition)
			if err != nil {
				cancel()
				wg.Wait()
				handler.Cleanup(sess)
				return true, err
			}
			fs, ok := sessionsByBroker[broker.ID()]
			if !ok {
				fs = newGroupFetchSession(broker, c.conf)
				sessionsByBroker[broker.ID()] = fs
				go withRecover(fs.run)
			}
			fetchClaim := fs.addClaim(topic, partition, offset)

			groupClaim := &consumerGroupClaim{
				topic:     topic,
				partition: partition,
				offset:    offset,
				messages:  fetchClaim.messages,
			}

			wg.Add(1)
			go func() {
				defer wg.Done()
				if err := handler.ConsumeClaim(sess, groupClaim); err != nil {
					c.handleError(err)
				}
			}()
			go withRecover(func() {
				for {
					select {
					case cErr, ok := <-fetchClaim.errors:
						if !ok {
							return
						}
						c.handleError(cErr)
					case <-genCtx.Done():
						return
					}
				}
			})
		}
	}

	heartbeatErr := c.heartbeatLoop(genCtx, gen)

	cancel()
	for _, fs := range sessionsByBroker {
		fs.close()
	}
	wg.Wait()
	om.Commit()
	_ = handler.Cleanup(sess)

	if heartbeatErr == nil || errors.Is(heartbeatErr, context.Canceled) {
		c.setState(groupStateLeaving)
	}
	if err := c.leaveGroup(gen); err != nil {
		c.handleError(err)
	}

	if heartbeatErr == nil || errors.Is(heartbeatErr, context.Canceled) {
		return false, nil
	}
	if isRebalanceTrigger(heartbeatErr) {
		return true, nil
	}
	return true, heartbeatErr
}

func (c *consumerGroup) leaveGroup(gen *generation) error {
	req := &LeaveGroupRequest{GroupID: c.groupID, MemberID: gen.memberID}
	_, err := gen.coordinator.sendWithResponse(c.conf.ClientID, req)
	return err
}

func isRebalanceTrigger(err error) bool {
	switch err {
	case ErrRebalanceInProgress, ErrIllegalGeneration, ErrUnknownMemberId, ErrNotCoordinatorForConsumer:
		return true
	}
	return false
}

// heartbeatLoop sends Heartbeat on Config.Consumer.Group.Heartbeat.Interval
// until ctx is cancelled or the broker reports the generation is stale,
// which is this member's signal to rejoin (§4.I STABLE -> REBALANCING).
func (c *consumerGroup) heartbeatLoop(ctx context.Context, gen *generation) error {
	ticker := time.NewTicker(c.conf.Consumer.Group.Heartbeat.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-c.closed:
			return context.Canceled
		case <-ticker.C:
			req := &HeartbeatRequest{GroupID: c.groupID, GenerationID: gen.generationID, MemberID: gen.memberID, GroupInstanceID: gen.instanceID}
			resp, err := gen.coordinator.sendWithResponse(c.conf.ClientID, req)
			if err != nil {
				return err
			}
			hbResp := resp.(*HeartbeatResponse)
			if hbResp.Err != ErrNoError {
				return hbResp.Err
			}
		}
	}
}

type consumerGroupSession struct {
	ctx          context.Context
	memberID     string
	generationID int32
	claims       map[string][]int32
	om           *offsetManager
}

func (s *consumerGroupSession) Claims() map[string][]int32 { return s.claims }
func (s *consumerGroupSession) MemberID() string            { return s.memberID }
func (s *consumerGroupSession) GenerationID() int32         { return s.generationID }
func (s *consumerGroupSession) Context() context.Context    { return s.ctx }

func (s *consumerGroupSession) MarkMessage(msg *ConsumerMessage, metadata string) {
	s.MarkOffset(msg.Topic, msg.Partition, msg.Offset+1, metadata)
}

func (s *consumerGroupSession) MarkOffset(topic string, partition int32, offset int64, metadata string) {
	s.om.lock.Lock()
	pom := s.om.poms[topic][partition]
	s.om.lock.Unlock()
	if pom != nil {
		pom.MarkOffset(offset-1, metadata)
	}
}

func (s *consumerGroupSession) Commit() { s.om.Commit() }

type consumerGroupClaim struct {
	topic     string
	partition int32
	offset    int64
	messages  chan *ConsumerMessage
}

func (c *consumerGroupClaim) Topic() string     { return c.topic }
func (c *consumerGroupClaim) Partition() int32  { return c.partition }
func (c *consumerGroupClaim) InitialOffset() int64 { return c.offset }
func (c *consumerGroupClaim) HighWaterMarkOffset() int64 { return 0 }
func (c *consumerGroupClaim) Messages() <-chan *ConsumerMessage { return c.messages }
