package kafka

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eapache/queue"
	metrics "github.com/rcrowley/go-metrics"
)

// ProducerError wraps the message that failed to send alongside the reason,
// delivered on AsyncProducer.Errors() when Config.Producer.Return.Errors is set.
type ProducerError struct {
	Msg *ProducerMessage
	Err error
}

func (pe ProducerError) Error() string {
	return fmt.Sprintf("kafka: failed to produce message to topic %s: %s", pe.Msg.Topic, pe.Err)
}

func (pe ProducerError) Unwrap() error { return pe.Err }

// ProducerErrors is the slice SyncProducer.SendMessages returns when one or
// more messages in the batch failed.
type ProducerErrors []*ProducerError

func (pe ProducerErrors) Error() string {
	return fmt.Sprintf("kafka: failed to deliver %d messages", len(pe))
}

// AsyncProducer publishes messages fire-and-forget, batching per
// topic-partition and reporting outcomes on Successes()/Errors() (§4.H).
type AsyncProducer interface {
	AsyncClose()
	Close() error
	Input() chan<- *ProducerMessage
	Successes() <-chan *ProducerMessage
	Errors() <-chan *ProducerError
}

// SyncProducer wraps an AsyncProducer to block until each message's outcome
// is known, the way sarama's SyncProducer wraps its AsyncProducer.
type SyncProducer interface {
	SendMessage(msg *ProducerMessage) (partition int32, offset int64, err error)
	SendMessages(msgs []*ProducerMessage) error
	Close() error
}

type producer struct {
	client Client
	conf   *Config

	errors               chan *ProducerError
	input, successes     chan *ProducerMessage

	partitioners sync.Map // topic -> Partitioner

	brokers    map[*Broker]*brokerProducer
	brokerLock sync.Mutex

	txnmgr *transactionManager

	metricRegistry metrics.Registry

	closing  chan struct{}
	closed   chan struct{}
}

// NewAsyncProducer dials addrs and returns an AsyncProducer.
func NewAsyncProducer(addrs []string, conf *Config) (AsyncProducer, error) {
	client, err := NewClient(addrs, conf)
	if err != nil {
		return nil, err
	}
	return newAsyncProducer(client)
}

// NewAsyncProducerFromClient builds an AsyncProducer on a Client the caller
// owns; closing the producer will not close client.
func NewAsyncProducerFromClient(client Client) (AsyncProducer, error) {
	if client.Closed() {
		return nil, ErrClosedClient
	}
	return newAsyncProducer(&nopCloserClient{client})
}

func newAsyncProducer(client Client) (AsyncProducer, error) {
	conf := client.Config()
	p := &producer{
		client:         client,
		conf:           conf,
		errors:         make(chan *ProducerError),
		input:          make(chan *ProducerMessage),
		successes:      make(chan *ProducerMessage),
		brokers:        make(map[*Broker]*brokerProducer),
		metricRegistry: newCleanupRegistry(conf.MetricRegistry),
		closing:        make(chan struct{}),
		closed:         make(chan struct{}),
	}
	if conf.Producer.Idempotent || conf.Producer.Transaction.ID != "" {
		txnmgr, err := newTransactionManager(conf, client)
		if err != nil {
			return nil, err
		}
		p.txnmgr = txnmgr
	}
	go withRecover(p.dispatcher)
	return p, nil
}

func (p *producer) Input() chan<- *ProducerMessage    { return p.input }
func (p *producer) Successes() <-chan *ProducerMessage { return p.successes }
func (p *producer) Errors() <-chan *ProducerError      { return p.errors }

// AsyncClose triggers a shutdown without waiting for it: it closes Input.
// The Successes and Errors channels are not closed, by AsyncClose or later.
func (p *producer) AsyncClose() {
	close(p.closing)
	close(p.input)
}

func (p *producer) Close() error {
	if p.conf.Producer.Return.Successes {
		go func() {
			for range p.successes {
			}
		}()
	}
	var errs ProducerErrors
	if p.conf.Producer.Return.Errors {
		go func() {
			for e := range p.errors {
				errs = append(errs, e)
			}
		}()
	}
	p.AsyncClose()
	<-p.closed
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// dispatcher is the producer's equivalent of consumer.go's brokerConsumer
// fan-out: it looks up each message's partition, assigns a sequence number
// under the idempotent producer's ordering guarantee, and routes the message
// to the broker currently leading that partition.
func (p *producer) dispatcher() {
	defer close(p.closed)
	defer p.metricRegistry.(*cleanupRegistry).UnregisterAll()

	for msg := range p.input {
		if err := p.assignPartition(msg); err != nil {
			p.returnError(msg, err)
			continue
		}
		if p.txnmgr != nil {
			if err := p.txnmgr.maybeAddPartition(msg.Topic, msg.Partition); err != nil {
				p.returnError(msg, err)
				continue
			}
			msg.sequence = p.txnmgr.nextSequence(msg.Topic, msg.Partition)
		}
		p.routeToBroker(msg)
	}

	p.brokerLock.Lock()
	for _, bp := range p.brokers {
		bp.Close()
	}
	p.brokerLock.Unlock()
}

func (p *producer) assignPartition(msg *ProducerMessage) error {
	if msg.Topic == "" {
		return ErrInvalidTopic
	}
	partitions, err := p.client.Partitions(msg.Topic)
	if err != nil {
		return err
	}
	if len(partitions) == 0 {
		return ErrUnknownTopicOrPartition
	}

	partitioner := p.partitionerFor(msg.Topic)
	part, err := partitioner.Partition(msg, int32(len(partitions)))
	if err != nil {
		return err
	}
	if part < 0 || part >= int32(len(partitions)) {
		return ErrInvalidPartition
	}
	msg.Partition = part
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now()
	}
	return nil
}

func (p *producer) partitionerFor(topic string) Partitioner {
	if v, ok := p.partitioners.Load(topic); ok {
		return v.(Partitioner)
	}
	part := p.conf.Producer.Partitioner(topic)
	actual, _ := p.partitioners.LoadOrStore(topic, part)
	return actual.(Partitioner)
}

func (p *producer) routeToBroker(msg *ProducerMessage) {
	broker, _, err := p.client.LeaderAndEpoch(msg.Topic, msg.Partition)
	if err != nil {
		p.returnError(msg, err)
		return
	}
	bp := p.refBrokerProducer(broker)
	bp.input <- msg
}

func (p *producer) refBrokerProducer(broker *Broker) *brokerProducer {
	p.brokerLock.Lock()
	defer p.brokerLock.Unlock()
	bp, ok := p.brokers[broker]
	if !ok {
		bp = newBrokerProducer(p, broker)
		p.brokers[broker] = bp
	}
	return bp
}

func (p *producer) returnError(msg *ProducerMessage, err error) {
	if p.conf.Producer.Return.Errors {
		p.errors <- &ProducerError{Msg: msg, Err: err}
	} else {
		Logger.Printf("kafka: dropped produce error for %s/%d: %v\n", msg.Topic, msg.Partition, err)
	}
}

func (p *producer) returnSuccess(msg *ProducerMessage) {
	if p.conf.Producer.Return.Successes {
		p.successes <- msg
	}
}

func (p *producer) retry(msg *ProducerMessage, err error) {
	if msg.retries >= p.conf.Producer.Retry.Max {
		p.returnError(msg, err)
		return
	}
	msg.retries++
	go func() {
		select {
		case <-time.After(p.conf.Producer.Retry.Backoff):
		case <-p.closing:
			p.returnError(msg, err)
			return
		}
		select {
		case p.input <- msg:
		case <-p.closing:
			p.returnError(msg, err)
		}
	}()
}

// brokerProducer batches ProducerMessages addressed to a single broker into
// ProduceRequests, flushing on size/count/time thresholds (Config.Producer.Flush),
// with a single run goroutine per broker (brokerConsumer in consumer.go runs a pair).
type brokerProducer struct {
	parent *producer
	broker *Broker

	input chan *ProducerMessage

	// buffer holds one FIFO queue.Queue per (topic, partition), preserving
	// send order within a partition the way sarama's async producer does.
	buffer      map[string]map[int32]*queue.Queue
	bufferBytes int
	bufferCount int

	closing chan struct{}
	done    chan struct{}
}

func newBrokerProducer(parent *producer, broker *Broker) *brokerProducer {
	bp := &brokerProducer{
		parent:  parent,
		broker:  broker,
		input:   make(chan *ProducerMessage, parent.conf.ChannelBufferSize),
		buffer:  make(map[string]map[int32]*queue.Queue),
		closing: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go withRecover(bp.run)
	return bp
}

func (bp *brokerProducer) Close() {
	close(bp.input)
	<-bp.done
}

func (bp *brokerProducer) run() {
	defer close(bp.done)

	flush := time.NewTicker(bp.effectiveFrequency())
	defer flush.Stop()

	for {
		select {
		case msg, ok := <-bp.input:
			if !ok {
				bp.flush()
				return
			}
			bp.enqueue(msg)
			if bp.shouldFlush() {
				bp.flush()
			}
		case <-flush.C:
			bp.flush()
		}
	}
}

func (bp *brokerProducer) effectiveFrequency() time.Duration {
	if f := bp.parent.conf.Producer.Flush.Frequency; f > 0 {
		return f
	}
	return 100 * time.Millisecond
}

func (bp *brokerProducer) enqueue(msg *ProducerMessage) {
	if bp.buffer[msg.Topic] == nil {
		bp.buffer[msg.Topic] = make(map[int32]*queue.Queue)
	}
	q := bp.buffer[msg.Topic][msg.Partition]
	if q == nil {
		q = queue.New()
		bp.buffer[msg.Topic][msg.Partition] = q
	}
	q.Add(msg)
	bp.bufferBytes += msg.byteSize()
	bp.bufferCount++
}

// drainQueue pops every message out of q in FIFO order. The queue is left
// empty but reusable once this returns.
func drainQueue(q *queue.Queue) []*ProducerMessage {
	msgs := make([]*ProducerMessage, 0, q.Length())
	for q.Length() > 0 {
		msgs = append(msgs, q.Remove().(*ProducerMessage))
	}
	return msgs
}

func (bp *brokerProducer) shouldFlush() bool {
	f := bp.parent.conf.Producer.Flush
	if f.Bytes > 0 && bp.bufferBytes >= f.Bytes {
		return true
	}
	if f.Messages > 0 && bp.bufferCount >= f.Messages {
		return true
	}
	if f.MaxMessages > 0 && bp.bufferCount >= f.MaxMessages {
		return true
	}
	return bp.bufferCount >= 1 && f.Bytes == 0 && f.Messages == 0 && f.MaxMessages == 0
}

func (bp *brokerProducer) flush() {
	if bp.bufferCount == 0 {
		return
	}
	buffer := make(map[string]map[int32][]*ProducerMessage, len(bp.buffer))
	for topic, partitions := range bp.buffer {
		buffer[topic] = make(map[int32][]*ProducerMessage, len(partitions))
		for partition, q := range partitions {
			buffer[topic][partition] = drainQueue(q)
		}
	}
	bp.buffer = make(map[string]map[int32]*queue.Queue)
	bp.bufferBytes = 0
	bp.bufferCount = 0

	req := bp.buildRequest(buffer)
	resp, err := bp.broker.Produce(req)
	if err != nil {
		bp.handleRequestError(buffer, err)
		return
	}
	bp.handleResponse(buffer, resp)
}

func (bp *brokerProducer) buildRequest(buffer map[string]map[int32][]*ProducerMessage) *ProduceRequest {
	conf := bp.parent.conf
	req := &ProduceRequest{
		RequiredAcks: conf.Producer.RequiredAcks,
		Timeout:      int32(conf.Producer.Timeout / time.Millisecond),
	}
	if conf.Version.IsAtLeast(V0_11_0_0) {
		req.Version = 3
	} else if conf.Version.IsAtLeast(V0_10_0_0) {
		req.Version = 2
	}
	if conf.Producer.Transaction.ID != "" {
		txID := conf.Producer.Transaction.ID
		req.TransactionalID = &txID
	}

	for topic, partitions := range buffer {
		for partition, msgs := range partitions {
			batch := bp.buildBatch(msgs)
			req.AddBatch(topic, partition, batch)
		}
	}
	return req
}

func (bp *brokerProducer) buildBatch(msgs []*ProducerMessage) *RecordBatch {
	conf := bp.parent.conf
	batch := &RecordBatch{
		FirstTimestamp:  msgs[0].Timestamp,
		MaxTimestamp:    msgs[0].Timestamp,
		Codec:           conf.Producer.Compression,
		CompressionLevel: conf.Producer.CompressionLevel,
		LastOffsetDelta: int32(len(msgs) - 1),
	}
	if bp.parent.txnmgr != nil {
		batch.ProducerID = bp.parent.txnmgr.producerID
		batch.ProducerEpoch = bp.parent.txnmgr.producerEpoch
		batch.FirstSequence = msgs[0].sequence
		batch.IsTransactional = bp.parent.conf.Producer.Transaction.ID != ""
	} else {
		batch.ProducerID = -1
		batch.ProducerEpoch = -1
	}

	for i, msg := range msgs {
		var keyBytes, valBytes []byte
		if msg.Key != nil {
			keyBytes, _ = msg.Key.Encode()
		}
		if msg.Value != nil {
			valBytes, _ = msg.Value.Encode()
		}
		headers := make([]*RecordHeader, len(msg.Headers))
		for j := range msg.Headers {
			h := msg.Headers[j]
			headers[j] = &h
		}
		batch.Records = append(batch.Records, &Record{
			Key:            keyBytes,
			Value:          valBytes,
			Headers:        headers,
			OffsetDelta:    int64(i),
			TimestampDelta: msg.Timestamp.Sub(batch.FirstTimestamp).Milliseconds(),
		})
	}
	return batch
}

func (bp *brokerProducer) handleRequestError(buffer map[string]map[int32][]*ProducerMessage, err error) {
	bp.parent.client.RefreshMetadata()
	for _, partitions := range buffer {
		for _, msgs := range partitions {
			for _, msg := range msgs {
				bp.parent.retry(msg, err)
			}
		}
	}
}

func (bp *brokerProducer) handleResponse(buffer map[string]map[int32][]*ProducerMessage, resp *ProduceResponse) {
	for topic, partitions := range buffer {
		for partition, msgs := range partitions {
			if resp == nil {
				for _, msg := range msgs {
					bp.parent.returnSuccess(msg)
				}
				continue
			}
			block := resp.GetBlock(topic, partition)
			if block == nil {
				for _, msg := range msgs {
					bp.parent.returnError(msg, ErrIncompleteResponse)
				}
				continue
			}
			if block.Err != ErrNoError {
				if isRetriableProduceError(block.Err) {
					bp.parent.client.RefreshMetadata(topic)
					for _, msg := range msgs {
						bp.parent.retry(msg, block.Err)
					}
				} else {
					for _, msg := range msgs {
						bp.parent.returnError(msg, block.Err)
					}
				}
				continue
			}
			for i, msg := range msgs {
				msg.Offset = block.Offset + int64(i)
				bp.parent.returnSuccess(msg)
			}
		}
	}
}

func isRetriableProduceError(err KError) bool {
	switch err {
	case ErrLeaderNotAvailable, ErrNotLeaderForPartition, ErrRequestTimedOut, ErrNotEnoughReplicas, ErrNotEnoughReplicasAfterAppend:
		return true
	default:
		return false
	}
}

// SyncProducer

type syncProducer struct {
	producer AsyncProducer
}

// NewSyncProducer dials addrs and returns a SyncProducer. Config.Producer.Return.Successes
// and .Errors are forced on, matching sarama's NewSyncProducer.
func NewSyncProducer(addrs []string, conf *Config) (SyncProducer, error) {
	if conf == nil {
		conf = NewConfig()
	}
	conf.Producer.Return.Successes = true
	conf.Producer.Return.Errors = true
	p, err := NewAsyncProducer(addrs, conf)
	if err != nil {
		return nil, err
	}
	return &syncProducer{producer: p}, nil
}

// NewSyncProducerFromClient wraps an existing Client the way
// NewAsyncProducerFromClient does, with Return.Successes/Errors forced on.
func NewSyncProducerFromClient(client Client) (SyncProducer, error) {
	client.Config().Producer.Return.Successes = true
	client.Config().Producer.Return.Errors = true
	p, err := NewAsyncProducerFromClient(client)
	if err != nil {
		return nil, err
	}
	return &syncProducer{producer: p}, nil
}

func (sp *syncProducer) SendMessage(msg *ProducerMessage) (int32, int64, error) {
	var wg sync.WaitGroup
	wg.Add(1)
	var outErr error
	go func() {
		defer wg.Done()
		select {
		case success := <-sp.producer.Successes():
			msg.Partition, msg.Offset = success.Partition, success.Offset
		case prodErr := <-sp.producer.Errors():
			outErr = prodErr.Err
		}
	}()
	sp.producer.Input() <- msg
	wg.Wait()
	return msg.Partition, msg.Offset, outErr
}

func (sp *syncProducer) SendMessages(msgs []*ProducerMessage) error {
	var wg sync.WaitGroup
	var errs ProducerErrors
	var mu sync.Mutex
	wg.Add(len(msgs))

	go func() {
		for i := 0; i < len(msgs); i++ {
			select {
			case <-sp.producer.Successes():
			case prodErr := <-sp.producer.Errors():
				mu.Lock()
				errs = append(errs, prodErr)
				mu.Unlock()
			}
			wg.Done()
		}
	}()

	for _, msg := range msgs {
		sp.producer.Input() <- msg
	}
	wg.Wait()

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (sp *syncProducer) Close() error { return sp.producer.Close() }

// transactionManager holds the idempotent/transactional producer's epoch and
// per-partition sequence counters, obtained from InitProducerId (§4.H) and
// advanced once per record appended to a partition's batch.
type transactionManager struct {
	client Client
	conf   *Config

	producerID    int64
	producerEpoch int16

	lock           sync.Mutex
	sequences      map[string]map[int32]int32
	addedPartitions map[string]map[int32]bool
	inTxn          int32
}

func newTransactionManager(conf *Config, client Client) (*transactionManager, error) {
	broker, err := client.Controller()
	if err != nil {
		return nil, err
	}
	req := &InitProducerIDRequest{TransactionTimeout: conf.Producer.Transaction.Timeout}
	if conf.Producer.Transaction.ID != "" {
		txID := conf.Producer.Transaction.ID
		req.TransactionalID = &txID
		if req.TransactionTimeout == 0 {
			req.TransactionTimeout = 60 * time.Second
		}
	}
	resp, err := broker.sendWithResponse(conf.ClientID, req)
	if err != nil {
		return nil, err
	}
	initResp := resp.(*InitProducerIDResponse)
	if initResp.Err != ErrNoError {
		return nil, initResp.Err
	}
	return &transactionManager{
		client:          client,
		conf:            conf,
		producerID:      initResp.ProducerID,
		producerEpoch:   initResp.ProducerEpoch,
		sequences:       make(map[string]map[int32]int32),
		addedPartitions: make(map[string]map[int32]bool),
	}, nil
}

func (tm *transactionManager) nextSequence(topic string, partition int32) int32 {
	tm.lock.Lock()
	defer tm.lock.Unlock()
	if tm.sequences[topic] == nil {
		tm.sequences[topic] = make(map[int32]int32)
	}
	seq := tm.sequences[topic][partition]
	tm.sequences[topic][partition] = seq + 1
	return seq
}

// maybeAddPartition registers topic/partition with the transaction coordinator
// via AddPartitionsToTxn the first time this transaction writes to it.
func (tm *transactionManager) maybeAddPartition(topic string, partition int32) error {
	if tm.conf.Producer.Transaction.ID == "" {
		return nil
	}
	tm.lock.Lock()
	if tm.addedPartitions[topic] == nil {
		tm.addedPartitions[topic] = make(map[int32]bool)
	}
	if tm.addedPartitions[topic][partition] {
		tm.lock.Unlock()
		return nil
	}
	tm.addedPartitions[topic][partition] = true
	tm.lock.Unlock()

	coordinator, err := tm.client.TxnCoordinator(tm.conf.Producer.Transaction.ID)
	if err != nil {
		return err
	}
	req := &AddPartitionsToTxnRequest{
		TransactionalID: tm.conf.Producer.Transaction.ID,
		ProducerID:      tm.producerID,
		ProducerEpoch:   tm.producerEpoch,
		TopicPartitions: map[string][]int32{topic: {partition}},
	}
	resp, err := coordinator.sendWithResponse(tm.conf.ClientID, req)
	if err != nil {
		return err
	}
	addResp := resp.(*AddPartitionsToTxnResponse)
	for _, errs := range addResp.Errors {
		for _, e := range errs {
			if e != ErrNoError {
				return e
			}
		}
	}
	return nil
}

// BeginTxn marks the start of a new transaction for a transactional producer.
func (tm *transactionManager) BeginTxn() error {
	if !atomic.CompareAndSwapInt32(&tm.inTxn, 0, 1) {
		return errors.New("kafka: transaction already in progress")
	}
	tm.lock.Lock()
	tm.addedPartitions = make(map[string]map[int32]bool)
	tm.lock.Unlock()
	return nil
}

func (tm *transactionManager) endTxn(commit bool) error {
	defer atomic.StoreInt32(&tm.inTxn, 0)
	coordinator, err := tm.client.TxnCoordinator(tm.conf.Producer.Transaction.ID)
	if err != nil {
		return err
	}
	req := &EndTxnRequest{
		TransactionalID:   tm.conf.Producer.Transaction.ID,
		ProducerID:        tm.producerID,
		ProducerEpoch:     tm.producerEpoch,
		TransactionResult: commit,
	}
	resp, err := coordinator.sendWithResponse(tm.conf.ClientID, req)
	if err != nil {
		return err
	}
	endResp := resp.(*EndTxnResponse)
	if endResp.Err != ErrNoError {
		return endResp.Err
	}
	return nil
}
