package kafka

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	metrics "github.com/rcrowley/go-metrics"
)

const invalidPreferredReplicaID = -1
const invalidLeaderEpoch = -1

// ConsumerMessage encapsulates a Kafka message returned by the consumer.
type ConsumerMessage struct {
	Headers   []*RecordHeader // only set for magic 2 record batches
	Timestamp time.Time

	Key, Value []byte
	Topic      string
	Partition  int32
	Offset     int64
}

// ConsumerError wraps an error that occurred while consuming a specific
// topic/partition.
type ConsumerError struct {
	Topic     string
	Partition int32
	Err       error
}

func (ce ConsumerError) Error() string {
	return fmt.Sprintf("kafka: error while consuming %s/%d: %s", ce.Topic, ce.Partition, ce.Err)
}

func (ce ConsumerError) Unwrap() error { return ce.Err }

// ConsumerErrors wraps a batch of ConsumerError, returned from
// PartitionConsumer.Close so callers don't have to manually drain the
// Errors channel when stopping.
type ConsumerErrors []*ConsumerError

func (ce ConsumerErrors) Error() string {
	return fmt.Sprintf("kafka: %d errors while consuming", len(ce))
}

// Consumer manages PartitionConsumers which read messages from individual
// topic/partitions (§4.I). Consumer itself has no group membership; see
// ConsumerGroup for the coordinated, rebalancing variant built on top of it.
// You MUST call Close() to avoid leaking the underlying Client and its
// broker connections.
type Consumer interface {
	// Topics is Client.Topics(), provided for convenience.
	Topics() ([]string, error)

	// Partitions is Client.Partitions(), provided for convenience.
	Partitions(topic string) ([]int32, error)

	// ConsumePartition starts a PartitionConsumer on topic/partition at offset,
	// which may also be OffsetNewest or OffsetOldest. It errors if that
	// topic/partition is already being consumed by this Consumer.
	ConsumePartition(topic string, partition int32, offset int64) (PartitionConsumer, error)

	// HighWaterMarks returns the last-seen high water mark for every
	// topic/partition this Consumer has a PartitionConsumer for.
	HighWaterMarks() map[string]map[int32]int64

	// Close shuts the consumer down. All PartitionConsumers must already be
	// closed.
	Close() error

	// Pause suspends fetching for the given topic/partitions; does not affect
	// subscription or trigger a rebalance.
	Pause(topicPartitions map[string][]int32)

	// Resume undoes Pause/PauseAll for the given topic/partitions.
	Resume(topicPartitions map[string][]int32)

	// PauseAll suspends fetching for every partition this Consumer owns.
	PauseAll()

	// ResumeAll undoes PauseAll.
	ResumeAll()
}

// partitionConsumersBatchTimeout bounds how long a brokerConsumer waits to
// accumulate new subscriptions before issuing the next Fetch.
const partitionConsumersBatchTimeout = 100 * time.Millisecond

type consumer struct {
	conf            *Config
	children        map[string]map[int32]*partitionConsumer
	brokerConsumers map[*Broker]*brokerConsumer
	client          Client
	metricRegistry  metrics.Registry
	lock            sync.Mutex
}

// NewConsumer dials addrs and returns a Consumer.
func NewConsumer(addrs []string, conf *Config) (Consumer, error) {
	client, err := NewClient(addrs, conf)
	if err != nil {
		return nil, err
	}
	return newConsumer(client)
}

// NewConsumerFromClient wraps an already-connected Client; its Close() will
// not close the underlying Client.
func NewConsumerFromClient(client Client) (Consumer, error) {
	return newConsumer(&nopCloserClient{client})
}

func newConsumer(client Client) (Consumer, error) {
	if client.Closed() {
		return nil, ErrClosedClient
	}
	return &consumer{
		client:          client,
		conf:            client.Config(),
		children:        make(map[string]map[int32]*partitionConsumer),
		brokerConsumers: make(map[*Broker]*brokerConsumer),
		metricRegistry:  newCleanupRegistry(client.Config().MetricRegistry),
	}, nil
}

func (c *consumer) Close() error {
	c.metricRegistry.UnregisterAll()
	return c.client.Close()
}

func (c *consumer) Topics() ([]string, error) { return c.client.Topics() }

func (c *consumer) Partitions(topic string) ([]int32, error) { return c.client.Partitions(topic) }

func (c *consumer) ConsumePartition(topic string, partition int32, offset int64) (PartitionConsumer, error) {
	child := &partitionConsumer{
		consumer:             c,
		conf:                 c.conf,
		topic:                topic,
		partition:            partition,
		messages:             make(chan *ConsumerMessage, c.conf.ChannelBufferSize),
		errors:               make(chan *ConsumerError, c.conf.ChannelBufferSize),
		feeder:               make(chan *FetchResponse, 1),
		leaderEpoch:          invalidLeaderEpoch,
		preferredReadReplica: invalidPreferredReplicaID,
		trigger:              make(chan none, 1),
		dying:                make(chan none),
		fetchSize:            c.conf.Consumer.Fetch.Default,
	}

	if err := child.chooseStartingOffset(offset); err != nil {
		return nil, err
	}

	leader, epoch, err := c.client.LeaderAndEpoch(child.topic, child.partition)
	if err != nil {
		return nil, err
	}

	if err := c.addChild(child); err != nil {
		return nil, err
	}

	go withRecover(child.dispatcher)
	go withRecover(child.responseFeeder)

	child.leaderEpoch = epoch
	child.broker = c.refBrokerConsumer(leader)
	child.broker.input <- child

	return child, nil
}

func (c *consumer) HighWaterMarks() map[string]map[int32]int64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	hwms := make(map[string]map[int32]int64)
	for topic, p := range c.children {
		hwm := make(map[int32]int64, len(p))
		for partition, pc := range p {
			hwm[partition] = pc.HighWaterMarkOffset()
		}
		hwms[topic] = hwm
	}
	return hwms
}

func (c *consumer) addChild(child *partitionConsumer) error {
	c.lock.Lock()
	defer c.lock.Unlock()

	topicChildren := c.children[child.topic]
	if topicChildren == nil {
		topicChildren = make(map[int32]*partitionConsumer)
		c.children[child.topic] = topicChildren
	}
	if topicChildren[child.partition] != nil {
		return ConfigurationError("that topic/partition is already being consumed")
	}
	topicChildren[child.partition] = child
	return nil
}

func (c *consumer) removeChild(child *partitionConsumer) {
	c.lock.Lock()
	defer c.lock.Unlock()
	delete(c.children[child.topic], child.partition)
}

func (c *consumer) refBrokerConsumer(broker *Broker) *brokerConsumer {
	c.lock.Lock()
	defer c.lock.Unlock()

	bc := c.brokerConsumers[broker]
	if bc == nil {
		bc = c.newBrokerConsumer(broker)
		c.brokerConsumers[broker] = bc
	}
	bc.refs++
	return bc
}

func (c *consumer) unrefBrokerConsumer(brokerWorker *brokerConsumer) {
	c.lock.Lock()
	defer c.lock.Unlock()

	brokerWorker.refs--
	if brokerWorker.refs == 0 {
		close(brokerWorker.input)
		if c.brokerConsumers[brokerWorker.broker] == brokerWorker {
			delete(c.brokerConsumers, brokerWorker.broker)
		}
	}
}

func (c *consumer) abandonBrokerConsumer(brokerWorker *brokerConsumer) {
	c.lock.Lock()
	defer c.lock.Unlock()
	delete(c.brokerConsumers, brokerWorker.broker)
}

func (c *consumer) Pause(topicPartitions map[string][]int32) {
	c.lock.Lock()
	defer c.lock.Unlock()
	for topic, partitions := range topicPartitions {
		for _, partition := range partitions {
			if tc, ok := c.children[topic]; ok {
				if pc, ok := tc[partition]; ok {
					pc.Pause()
				}
			}
		}
	}
}

func (c *consumer) Resume(topicPartitions map[string][]int32) {
	c.lock.Lock()
	defer c.lock.Unlock()
	for topic, partitions := range topicPartitions {
		for _, partition := range partitions {
			if tc, ok := c.children[topic]; ok {
				if pc, ok := tc[partition]; ok {
					pc.Resume()
				}
			}
		}
	}
}

func (c *consumer) PauseAll() {
	c.lock.Lock()
	defer c.lock.Unlock()
	for _, partitions := range c.children {
		for _, pc := range partitions {
			pc.Pause()
		}
	}
}

func (c *consumer) ResumeAll() {
	c.lock.Lock()
	defer c.lock.Unlock()
	for _, partitions := range c.children {
		for _, pc := range partitions {
			pc.Resume()
		}
	}
}

// PartitionConsumer processes messages from one topic/partition. You MUST
// call AsyncClose or Close before it passes out of scope. The simplest
// usage is a for/range loop over Messages(); the consumer only stops itself
// if the broker reports the requested offset out of range, in which case it
// surfaces the error and shuts down.
type PartitionConsumer interface {
	// AsyncClose triggers shutdown without waiting for it; keep draining
	// Messages/Errors until both close.
	AsyncClose()

	// Close triggers shutdown, waits for Errors to close, and returns the
	// errors collected from it. Messages is not drained.
	Close() error

	Messages() <-chan *ConsumerMessage
	Errors() <-chan *ConsumerError

	// HighWaterMarkOffset is the offset that will be assigned to the next
	// message produced to this partition.
	HighWaterMarkOffset() int64

	Pause()
	Resume()
	IsPaused() bool
}

type partitionConsumer struct {
	highWaterMarkOffset int64 // atomic; keep first for alignment on 32-bit

	consumer *consumer
	conf     *Config
	broker   *brokerConsumer
	messages chan *ConsumerMessage
	errors   chan *ConsumerError
	feeder   chan *FetchResponse

	leaderEpoch          int32
	preferredReadReplica int32

	trigger, dying chan none
	closeOnce      sync.Once
	topic          string
	partition      int32
	responseResult error
	fetchSize      int32
	offset         int64
	retries        int32

	paused int32
}

var errTimedOut = errors.New("kafka: timed out feeding messages to the user")

func (child *partitionConsumer) sendError(err error) {
	cErr := &ConsumerError{Topic: child.topic, Partition: child.partition, Err: err}
	if child.conf.Consumer.Return.Errors {
		child.errors <- cErr
	} else {
		Logger.Println(cErr)
	}
}

func (child *partitionConsumer) computeBackoff() time.Duration {
	if child.conf.Consumer.Retry.BackoffFunc != nil {
		retries := atomic.AddInt32(&child.retries, 1)
		return child.conf.Consumer.Retry.BackoffFunc(int(retries))
	}
	return child.conf.Consumer.Retry.Backoff
}

func (child *partitionConsumer) dispatcher() {
	for range child.trigger {
		select {
		case <-child.dying:
			close(child.trigger)
		case <-time.After(child.computeBackoff()):
			if child.broker != nil {
				child.consumer.unrefBrokerConsumer(child.broker)
				child.broker = nil
			}
			if err := child.dispatch(); err != nil {
				child.sendError(err)
				child.trigger <- none{}
			}
		}
	}

	if child.broker != nil {
		child.consumer.unrefBrokerConsumer(child.broker)
	}
	child.consumer.removeChild(child)
	close(child.feeder)
}

func (child *partitionConsumer) preferredBroker() (*Broker, int32, error) {
	if child.preferredReadReplica >= 0 {
		broker, err := child.consumer.client.Broker(child.preferredReadReplica)
		if err == nil {
			return broker, child.leaderEpoch, nil
		}
		Logger.Printf("consumer/%s/%d preferred replica %d unreachable, falling back to leader\n",
			child.topic, child.partition, child.preferredReadReplica)
		child.preferredReadReplica = invalidPreferredReplicaID
		_ = child.consumer.client.RefreshMetadata(child.topic)
	}
	return child.consumer.client.LeaderAndEpoch(child.topic, child.partition)
}

func (child *partitionConsumer) dispatch() error {
	if err := child.consumer.client.RefreshMetadata(child.topic); err != nil {
		return err
	}
	broker, epoch, err := child.preferredBroker()
	if err != nil {
		return err
	}
	child.leaderEpoch = epoch
	child.broker = child.consumer.refBrokerConsumer(broker)
	child.broker.input <- child
	return nil
}

func (child *partitionConsumer) chooseStartingOffset(offset int64) error {
	newestOffset, err := child.consumer.client.GetOffset(child.topic, child.partition, OffsetNewest)
	if err != nil {
		return err
	}
	child.highWaterMarkOffset = newestOffset

	oldestOffset, err := child.consumer.client.GetOffset(child.topic, child.partition, OffsetOldest)
	if err != nil {
		return err
	}

	switch {
	case offset == OffsetNewest:
		child.offset = newestOffset
	case offset == OffsetOldest:
		child.offset = oldestOffset
	case offset >= oldestOffset && offset <= newestOffset:
		child.offset = offset
	default:
		return ErrOffsetOutOfRange
	}
	return nil
}

func (child *partitionConsumer) Messages() <-chan *ConsumerMessage { return child.messages }

func (child *partitionConsumer) Errors() <-chan *ConsumerError { return child.errors }

func (child *partitionConsumer) AsyncClose() {
	child.closeOnce.Do(func() { close(child.dying) })
}

func (child *partitionConsumer) Close() error {
	child.AsyncClose()
	var errs ConsumerErrors
	for err := range child.errors {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (child *partitionConsumer) HighWaterMarkOffset() int64 {
	return atomic.LoadInt64(&child.highWaterMarkOffset)
}

func (child *partitionConsumer) responseFeeder() {
	var msgs []*ConsumerMessage
	expiryTicker := time.NewTicker(child.conf.Consumer.MaxProcessingTime)
	firstAttempt := true

feederLoop:
	for response := range child.feeder {
		msgs, child.responseResult = child.parseResponse(response)
		if child.responseResult == nil {
			atomic.StoreInt32(&child.retries, 0)
		}

		for i, msg := range msgs {
		messageSelect:
			select {
			case <-child.dying:
				child.broker.acks.Done()
				continue feederLoop
			case child.messages <- msg:
				firstAttempt = true
			case <-expiryTicker.C:
				if !firstAttempt {
					child.responseResult = errTimedOut
					child.broker.acks.Done()
				remainingLoop:
					for _, msg = range msgs[i:] {
						select {
						case child.messages <- msg:
						case <-child.dying:
							break remainingLoop
						}
					}
					child.broker.input <- child
					continue feederLoop
				}
				firstAttempt = false
				goto messageSelect
			}
		}

		child.broker.acks.Done()
	}

	expiryTicker.Stop()
	close(child.messages)
	close(child.errors)
}

// parseRecords flattens a magic-2 RecordBatch into ConsumerMessages,
// dropping anything already consumed and advancing child.offset past the
// batch even when every record in it was filtered out (so a batch of
// control/aborted-only records can't stall the partition).
func (child *partitionConsumer) parseRecords(batch *RecordBatch, skip bool) []*ConsumerMessage {
	messages := make([]*ConsumerMessage, 0, len(batch.Records))
	for _, rec := range batch.Records {
		offset := batch.FirstOffset + rec.OffsetDelta
		if offset < child.offset {
			continue
		}
		child.offset = offset + 1
		if skip || batch.Control {
			continue
		}
		messages = append(messages, &ConsumerMessage{
			Topic:     child.topic,
			Partition: child.partition,
			Key:       rec.Key,
			Value:     rec.Value,
			Offset:    offset,
			Timestamp: batch.FirstTimestamp.Add(time.Duration(rec.TimestampDelta) * time.Millisecond),
			Headers:   rec.Headers,
		})
	}
	if len(messages) == 0 && len(batch.Records) == 0 {
		child.offset++
	}
	return messages
}

// batchIsAborted reports whether an aborted-transaction entry covers this
// batch's producer, using only the FirstOffset each broker hands back —
// this package does not track control records, so it treats any batch whose
// producer appears in AbortedTransactions at or before the batch's first
// offset as aborted for the life of the partition consumer's current fetch.
func batchIsAborted(batch *RecordBatch, aborted []*AbortedTransaction) bool {
	if !batch.IsTransactional {
		return false
	}
	for _, txn := range aborted {
		if txn.ProducerID == batch.ProducerID && txn.FirstOffset <= batch.FirstOffset {
			return true
		}
	}
	return false
}

func (child *partitionConsumer) parseResponse(response *FetchResponse) ([]*ConsumerMessage, error) {
	var batchSizeMetric metrics.Histogram
	if child.consumer != nil && child.consumer.metricRegistry != nil {
		batchSizeMetric = getOrRegisterHistogram("consumer-batch-size", child.consumer.metricRegistry)
	}

	block := response.GetBlock(child.topic, child.partition)
	if block == nil {
		return nil, ErrIncompleteResponse
	}
	if block.Err != ErrNoError {
		return nil, block.Err
	}

	if block.Records == nil || block.Records.RecordBatch == nil {
		partialTrailing := block.Records != nil && block.Records.isPartial()
		if partialTrailing {
			if child.conf.Consumer.Fetch.Max > 0 && child.fetchSize == child.conf.Consumer.Fetch.Max {
				child.sendError(ErrMessageTooLarge)
				child.offset++
			} else {
				child.fetchSize *= 2
				if child.fetchSize < 0 {
					child.fetchSize = math.MaxInt32
				}
				if child.conf.Consumer.Fetch.Max > 0 && child.fetchSize > child.conf.Consumer.Fetch.Max {
					child.fetchSize = child.conf.Consumer.Fetch.Max
				}
			}
		}
		return nil, nil
	}

	child.fetchSize = child.conf.Consumer.Fetch.Default
	atomic.StoreInt64(&child.highWaterMarkOffset, block.HighWaterMarkOffset)

	if batchSizeMetric != nil {
		batchSizeMetric.Update(int64(len(block.Records.RecordBatch.Records)))
	}

	if block.PreferredReadReplica != invalidPreferredReplicaID {
		child.preferredReadReplica = block.PreferredReadReplica
	}

	skip := child.conf.Consumer.IsolationLevel == IsolationLevelReadCommitted &&
		batchIsAborted(block.Records.RecordBatch, block.AbortedTransactions)

	return child.parseRecords(block.Records.RecordBatch, skip), nil
}

func (child *partitionConsumer) Pause()  { atomic.StoreInt32(&child.paused, 1) }
func (child *partitionConsumer) Resume() { atomic.StoreInt32(&child.paused, 0) }
func (child *partitionConsumer) IsPaused() bool {
	return atomic.LoadInt32(&child.paused) == 1
}

// brokerConsumer batches the Fetch requests for every partitionConsumer
// currently assigned to one broker into a single round trip, the way
// sarama's does: cheaper than a goroutine-and-socket per partition.
type brokerConsumer struct {
	consumer         *consumer
	broker           *Broker
	input            chan *partitionConsumer
	newSubscriptions chan []*partitionConsumer
	subscriptions    map[*partitionConsumer]none
	acks             sync.WaitGroup
	refs             int
}

func (c *consumer) newBrokerConsumer(broker *Broker) *brokerConsumer {
	bc := &brokerConsumer{
		consumer:         c,
		broker:           broker,
		input:            make(chan *partitionConsumer),
		newSubscriptions: make(chan []*partitionConsumer),
		subscriptions:    make(map[*partitionConsumer]none),
	}
	go withRecover(bc.subscriptionManager)
	go withRecover(bc.subscriptionConsumer)
	return bc
}

func (bc *brokerConsumer) subscriptionManager() {
	defer close(bc.newSubscriptions)

	for {
		var batch []*partitionConsumer

		select {
		case pc, ok := <-bc.input:
			if !ok {
				return
			}
			batch = append(batch, pc)
		case bc.newSubscriptions <- nil:
			continue
		}

		timer := time.NewTimer(partitionConsumersBatchTimeout)
		for done := false; !done; {
			select {
			case pc := <-bc.input:
				batch = append(batch, pc)
			case <-timer.C:
				done = true
			}
		}
		timer.Stop()

		Logger.Printf("consumer/broker/%d accumulated %d new subscriptions\n", bc.broker.ID(), len(batch))
		bc.newSubscriptions <- batch
	}
}

func (bc *brokerConsumer) subscriptionConsumer() {
	for newSubscriptions := range bc.newSubscriptions {
		bc.updateSubscriptions(newSubscriptions)

		if len(bc.subscriptions) == 0 {
			time.Sleep(partitionConsumersBatchTimeout)
			continue
		}

		response, err := bc.fetchNewMessages()
		if err != nil {
			Logger.Printf("consumer/broker/%d disconnecting: %s\n", bc.broker.ID(), err)
			bc.abort(err)
			return
		}
		if response == nil {
			time.Sleep(partitionConsumersBatchTimeout)
			continue
		}

		bc.acks.Add(len(bc.subscriptions))
		for child := range bc.subscriptions {
			if _, ok := response.Blocks[child.topic]; !ok {
				bc.acks.Done()
				continue
			}
			if _, ok := response.Blocks[child.topic][child.partition]; !ok {
				bc.acks.Done()
				continue
			}
			child.feeder <- response
		}
		bc.acks.Wait()
		bc.handleResponses()
	}
}

func (bc *brokerConsumer) updateSubscriptions(newSubscriptions []*partitionConsumer) {
	for _, child := range newSubscriptions {
		bc.subscriptions[child] = none{}
		Logger.Printf("consumer/broker/%d added subscription to %s/%d\n", bc.broker.ID(), child.topic, child.partition)
	}

	for child := range bc.subscriptions {
		select {
		case <-child.dying:
			Logger.Printf("consumer/broker/%d closed dead subscription to %s/%d\n", bc.broker.ID(), child.topic, child.partition)
			close(child.trigger)
			delete(bc.subscriptions, child)
		default:
		}
	}
}

func (bc *brokerConsumer) handleResponses() {
	for child := range bc.subscriptions {
		result := child.responseResult
		child.responseResult = nil

		if result == nil {
			if preferred, _, err := child.preferredBroker(); err == nil {
				if bc.broker.ID() != preferred.ID() {
					Logger.Printf("consumer/broker/%d abandoned in favor of preferred replica broker/%d\n",
						bc.broker.ID(), preferred.ID())
					child.trigger <- none{}
					delete(bc.subscriptions, child)
				}
			}
			continue
		}

		child.preferredReadReplica = invalidPreferredReplicaID

		switch {
		case errors.Is(result, errTimedOut):
			Logger.Printf("consumer/broker/%d abandoned subscription to %s/%d: consuming took too long\n",
				bc.broker.ID(), child.topic, child.partition)
			delete(bc.subscriptions, child)
		case errors.Is(result, ErrOffsetOutOfRange):
			child.sendError(result)
			Logger.Printf("consumer/%s/%d shutting down: %s\n", child.topic, child.partition, result)
			close(child.trigger)
			delete(bc.subscriptions, child)
		case errors.Is(result, ErrUnknownTopicOrPartition),
			errors.Is(result, ErrNotLeaderForPartition),
			errors.Is(result, ErrLeaderNotAvailable),
			errors.Is(result, ErrReplicaNotAvailable),
			errors.Is(result, ErrFencedLeaderEpoch),
			errors.Is(result, ErrUnknownLeaderEpoch):
			Logger.Printf("consumer/broker/%d abandoned subscription to %s/%d: %s\n",
				bc.broker.ID(), child.topic, child.partition, result)
			child.trigger <- none{}
			delete(bc.subscriptions, child)
		default:
			child.sendError(result)
			Logger.Printf("consumer/broker/%d abandoned subscription to %s/%d: %s\n",
				bc.broker.ID(), child.topic, child.partition, result)
			child.trigger <- none{}
			delete(bc.subscriptions, child)
		}
	}
}

func (bc *brokerConsumer) abort(err error) {
	bc.consumer.abandonBrokerConsumer(bc)
	_ = bc.broker.Close()

	for child := range bc.subscriptions {
		child.sendError(err)
		child.trigger <- none{}
	}

	for newSubscriptions := range bc.newSubscriptions {
		if len(newSubscriptions) == 0 {
			time.Sleep(partitionConsumersBatchTimeout)
			continue
		}
		for _, child := range newSubscriptions {
			child.sendError(err)
			child.trigger <- none{}
		}
	}
}

// fetchNewMessages can return a nil response with no error when every
// subscription is currently paused.
func (bc *brokerConsumer) fetchNewMessages() (*FetchResponse, error) {
	request := &FetchRequest{
		MinBytes:    bc.consumer.conf.Consumer.Fetch.Min,
		MaxWaitTime: int32(bc.consumer.conf.Consumer.MaxWaitTime / time.Millisecond),
	}
	version := bc.consumer.conf.Version
	switch {
	case version.IsAtLeast(V2_3_0_0):
		request.Version = 11
		request.RackID = bc.consumer.conf.RackID
	case version.IsAtLeast(V2_1_0_0):
		request.Version = 10
	case version.IsAtLeast(V2_0_0_0):
		request.Version = 8
	case version.IsAtLeast(V1_1_0_0):
		request.Version = 7
		request.SessionID = 0
		request.SessionEpoch = -1
	case version.IsAtLeast(V1_0_0_0):
		request.Version = 6
	case version.IsAtLeast(V0_11_0_0):
		request.Version = 5
		request.Isolation = bc.consumer.conf.Consumer.IsolationLevel
	case version.IsAtLeast(V0_10_1_0):
		request.Version = 3
		request.MaxBytes = MaxResponseSize
	case version.IsAtLeast(V0_10_0_0):
		request.Version = 2
	case version.IsAtLeast(V0_9_0_0):
		request.Version = 1
	}

	for child := range bc.subscriptions {
		if !child.IsPaused() {
			request.AddBlock(child.topic, child.partition, child.offset, child.fetchSize, child.leaderEpoch)
		}
	}

	if len(request.blocks) == 0 {
		return nil, nil
	}

	return bc.broker.Fetch(request)
}
