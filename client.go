package kafka

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"sync"
	"time"
)

// Client is the shared connection pool, metadata cache, and base-retry
// facility that Admin, Producer, and Consumer are all built on (§4.D/E/F).
type Client interface {
	Config() *Config
	Brokers() []*Broker
	Broker(brokerID int32) (*Broker, error)
	Controller() (*Broker, error)
	RefreshController() (*Broker, error)
	Coordinator(group string) (*Broker, error)
	RefreshCoordinator(group string) error
	TxnCoordinator(transactionalID string) (*Broker, error)
	Leader(topic string, partition int32) (*Broker, error)
	LeaderAndEpoch(topic string, partition int32) (*Broker, int32, error)
	Topics() ([]string, error)
	Partitions(topic string) ([]int32, error)
	RefreshMetadata(topics ...string) error
	GetOffset(topic string, partition int32, time int64) (int64, error)
	Closed() bool
	Close() error

	// ClosedChan returns a channel that is closed when Close() is called,
	// letting a retry loop blocked in a backoff sleep abort immediately
	// instead of waiting the timer out.
	ClosedChan() <-chan struct{}
}

type client struct {
	conf *Config

	lock sync.RWMutex

	seedBrokers []*Broker
	brokers     map[int32]*Broker

	metadata             map[string]map[int32]*MetadataPartition
	cachedController     int32
	cachedCoordinators   map[string]int32
	cachedTxnCoordinators map[string]int32

	closed  int32
	closing chan struct{}
}

// NewClient dials the given seed addresses and pulls initial cluster
// metadata, the way sarama's NewClient does.
func NewClient(addrs []string, conf *Config) (Client, error) {
	if conf == nil {
		conf = NewConfig()
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if len(addrs) < 1 {
		return nil, ErrOutOfBrokers
	}

	c := &client{
		conf:                  conf,
		brokers:               make(map[int32]*Broker),
		metadata:              make(map[string]map[int32]*MetadataPartition),
		cachedController:      -1,
		cachedCoordinators:    make(map[string]int32),
		cachedTxnCoordinators: make(map[string]int32),
		closing:               make(chan struct{}),
	}

	for _, addr := range addrs {
		b := NewBroker(addr)
		if err := b.Open(conf); err != nil {
			Logger.Printf("kafka: seed broker %s unreachable: %v\n", addr, err)
			continue
		}
		c.seedBrokers = append(c.seedBrokers, b)
	}
	if len(c.seedBrokers) == 0 {
		return nil, ErrOutOfBrokers
	}

	if err := c.RefreshMetadata(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *client) Config() *Config { return c.conf }

func (c *client) Closed() bool {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.closed == 1
}

func (c *client) ClosedChan() <-chan struct{} { return c.closing }

func (c *client) Close() error {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.closed == 1 {
		return ErrClosedClient
	}
	c.closed = 1
	close(c.closing)
	var errs []error
	for _, b := range c.brokers {
		if err := b.Close(); err != nil && !errors.Is(err, ErrNotConnected) {
			errs = append(errs, err)
		}
	}
	for _, b := range c.seedBrokers {
		if err := b.Close(); err != nil && !errors.Is(err, ErrNotConnected) {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return Wrap(ErrClosedClient, errs...)
	}
	return nil
}

func (c *client) Brokers() []*Broker {
	c.lock.RLock()
	defer c.lock.RUnlock()
	brokers := make([]*Broker, 0, len(c.brokers))
	for _, b := range c.brokers {
		brokers = append(brokers, b)
	}
	sort.Slice(brokers, func(i, j int) bool { return brokers[i].ID() < brokers[j].ID() })
	return brokers
}

func (c *client) Broker(brokerID int32) (*Broker, error) {
	c.lock.RLock()
	b, ok := c.brokers[brokerID]
	c.lock.RUnlock()
	if !ok {
		return nil, ErrBrokerNotFound
	}
	if !b.Connected() {
		if err := b.Open(c.conf); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// anyBroker returns any live connection, for bootstrapping metadata/ApiVersions
// calls before a full broker list is known.
func (c *client) anyBroker() (*Broker, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	for _, b := range c.brokers {
		if b.Connected() {
			return b, nil
		}
	}
	for _, b := range c.seedBrokers {
		if b.Connected() {
			return b, nil
		}
	}
	return nil, ErrOutOfBrokers
}

func (c *client) updateBroker(md *MetadataBroker) *Broker {
	c.lock.Lock()
	defer c.lock.Unlock()
	if b, ok := c.brokers[md.NodeID]; ok {
		return b
	}
	b := NewBroker(brokerAddr(md.Host, md.Port))
	b.id = md.NodeID
	c.brokers[md.NodeID] = b
	return b
}

func brokerAddr(host string, port int32) string {
	return host + ":" + strconv.Itoa(int(port))
}

// RefreshMetadata re-fetches topic/partition/broker metadata from any
// reachable broker, populating the metadata cache (§4.E). An empty topics
// list asks for the full cluster view; Config.Metadata.Full is not consulted.
func (c *client) RefreshMetadata(topics ...string) error {
	broker, err := c.anyBroker()
	if err != nil {
		return err
	}

	req := &MetadataRequest{AllowAutoTopicCreation: c.conf.Metadata.AllowAutoTopicCreation}
	if len(topics) > 0 {
		req.Topics = topics
	}

	resp, err := broker.sendWithResponse(c.conf.ClientID, req)
	if err != nil {
		return err
	}
	metaResp := resp.(*MetadataResponse)

	c.lock.Lock()
	defer c.lock.Unlock()

	for _, b := range metaResp.Brokers {
		if existing, ok := c.brokers[b.NodeID]; ok {
			existing.addr = brokerAddr(b.Host, b.Port)
		} else {
			nb := NewBroker(brokerAddr(b.Host, b.Port))
			nb.id = b.NodeID
			c.brokers[b.NodeID] = nb
		}
	}
	c.cachedController = metaResp.ControllerID

	for _, t := range metaResp.Topics {
		if t.Err != ErrNoError && t.Err != ErrLeaderNotAvailable {
			continue
		}
		partitions := make(map[int32]*MetadataPartition, len(t.Partitions))
		for _, p := range t.Partitions {
			partitions[p.ID] = p
		}
		c.metadata[t.Name] = partitions
	}

	return nil
}

func (c *client) Topics() ([]string, error) {
	c.lock.RLock()
	defer c.lock.RUnlock()
	topics := make([]string, 0, len(c.metadata))
	for t := range c.metadata {
		topics = append(topics, t)
	}
	sort.Strings(topics)
	return topics, nil
}

func (c *client) Partitions(topic string) ([]int32, error) {
	c.lock.RLock()
	partitions, ok := c.metadata[topic]
	c.lock.RUnlock()
	if !ok {
		if err := c.RefreshMetadata(topic); err != nil {
			return nil, err
		}
		c.lock.RLock()
		partitions, ok = c.metadata[topic]
		c.lock.RUnlock()
		if !ok {
			return nil, ErrUnknownTopicOrPartition
		}
	}
	ids := make([]int32, 0, len(partitions))
	for id := range partitions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (c *client) Leader(topic string, partition int32) (*Broker, error) {
	c.lock.RLock()
	p, ok := c.metadata[topic][partition]
	c.lock.RUnlock()
	if !ok {
		if err := c.RefreshMetadata(topic); err != nil {
			return nil, err
		}
		c.lock.RLock()
		p, ok = c.metadata[topic][partition]
		c.lock.RUnlock()
		if !ok {
			return nil, ErrUnknownTopicOrPartition
		}
	}
	return c.Broker(p.Leader)
}

func (c *client) LeaderAndEpoch(topic string, partition int32) (*Broker, int32, error) {
	c.lock.RLock()
	p, ok := c.metadata[topic][partition]
	c.lock.RUnlock()
	if !ok {
		if err := c.RefreshMetadata(topic); err != nil {
			return nil, -1, err
		}
		c.lock.RLock()
		p, ok = c.metadata[topic][partition]
		c.lock.RUnlock()
		if !ok {
			return nil, -1, ErrUnknownTopicOrPartition
		}
	}
	b, err := c.Broker(p.Leader)
	if err != nil {
		return nil, -1, err
	}
	return b, p.LeaderEpoch, nil
}

func (c *client) Controller() (*Broker, error) {
	c.lock.RLock()
	id := c.cachedController
	c.lock.RUnlock()
	if id < 0 {
		if _, err := c.RefreshController(); err != nil {
			return nil, err
		}
		c.lock.RLock()
		id = c.cachedController
		c.lock.RUnlock()
	}
	return c.Broker(id)
}

func (c *client) RefreshController() (*Broker, error) {
	if err := c.RefreshMetadata(); err != nil {
		return nil, err
	}
	c.lock.RLock()
	id := c.cachedController
	c.lock.RUnlock()
	if id < 0 {
		return nil, ErrControllerNotAvailable
	}
	return c.Broker(id)
}

func (c *client) Coordinator(group string) (*Broker, error) {
	c.lock.RLock()
	id, ok := c.cachedCoordinators[group]
	c.lock.RUnlock()
	if ok {
		if b, err := c.Broker(id); err == nil {
			return b, nil
		}
	}
	if err := c.RefreshCoordinator(group); err != nil {
		return nil, err
	}
	c.lock.RLock()
	id = c.cachedCoordinators[group]
	c.lock.RUnlock()
	return c.Broker(id)
}

func (c *client) RefreshCoordinator(group string) error {
	id, err := c.findCoordinator(group, CoordinatorGroup)
	if err != nil {
		return err
	}
	c.lock.Lock()
	c.cachedCoordinators[group] = id
	c.lock.Unlock()
	return nil
}

// TxnCoordinator resolves the transaction coordinator for a transactional.id,
// the counterpart to Coordinator used by the idempotent/transactional producer
// for AddPartitionsToTxn/EndTxn (§4.H).
func (c *client) TxnCoordinator(transactionalID string) (*Broker, error) {
	c.lock.RLock()
	id, ok := c.cachedTxnCoordinators[transactionalID]
	c.lock.RUnlock()
	if ok {
		if b, err := c.Broker(id); err == nil {
			return b, nil
		}
	}
	id, err := c.findCoordinator(transactionalID, CoordinatorTransaction)
	if err != nil {
		return nil, err
	}
	c.lock.Lock()
	c.cachedTxnCoordinators[transactionalID] = id
	c.lock.Unlock()
	return c.Broker(id)
}

func (c *client) findCoordinator(key string, coordType CoordinatorType) (int32, error) {
	broker, err := c.anyBroker()
	if err != nil {
		return -1, err
	}
	req := &FindCoordinatorRequest{CoordinatorKey: key, CoordinatorType: coordType}
	resp, err := broker.sendWithResponse(c.conf.ClientID, req)
	if err != nil {
		return -1, err
	}
	findResp := resp.(*FindCoordinatorResponse)
	if findResp.Err != ErrNoError {
		return -1, findResp.Err
	}
	coordinator := c.updateBroker(&findResp.Coordinator)
	return coordinator.ID(), nil
}

func (c *client) GetOffset(topic string, partition int32, timestamp int64) (int64, error) {
	broker, err := c.Leader(topic, partition)
	if err != nil {
		return -1, err
	}
	req := &ListOffsetsRequest{Version: 1, ReplicaID: -1}
	req.AddBlock(topic, partition, timestamp, 1)
	resp, err := broker.sendWithResponse(c.conf.ClientID, req)
	if err != nil {
		return -1, err
	}
	listResp := resp.(*ListOffsetsResponse)
	block := listResp.Blocks[topic][partition]
	if block == nil {
		return -1, ErrIncompleteResponse
	}
	if block.Err != ErrNoError {
		return -1, block.Err
	}
	return block.Offset, nil
}

// nopCloserClient wraps a Client whose lifetime is owned by the caller, so
// Consumer/Producer/Admin built on top of it via the *FromClient
// constructors don't close it out from under them.
type nopCloserClient struct {
	Client
}

func (ncc *nopCloserClient) Close() error { return nil }

// ErrRetriesExhausted is the sentinel retryOnError wraps around every error
// seen across its attempts once the retry budget runs out.
var ErrRetriesExhausted = errors.New("kafka: retry budget exhausted")

// retryOnError is the generalized retry/backoff loop every component
// (Admin, Producer, Consumer) shares, lifted from clusterAdmin.retryOnError.
// closing lets a caller abort a pending backoff sleep the moment the owning
// client is closed rather than blocking it out; on exhaustion every attempt's
// error is folded into a single Wrap(ErrRetriesExhausted, ...) aggregate.
func retryOnError(closing <-chan struct{}, maxRetries int, backoff time.Duration, retryable func(error) bool, fn func() error) error {
	var errs []error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		errs = append(errs, err)
		if !retryable(err) {
			return err
		}
		if attempt < maxRetries {
			timer := time.NewTimer(backoff)
			select {
			case <-timer.C:
			case <-closing:
				timer.Stop()
				return fmt.Errorf("Client closed while retrying: %w", Wrap(ErrRetriesExhausted, errs...))
			}
		}
	}
	return Wrap(ErrRetriesExhausted, errs...)
}

func isRetriableControllerError(err error) bool {
	return errors.Is(err, ErrNotController) || errors.Is(err, io.EOF)
}

func isRetriableGroupCoordinatorError(err error) bool {
	return errors.Is(err, ErrNotCoordinatorForConsumer) ||
		errors.Is(err, ErrConsumerCoordinatorNotAvailable) ||
		errors.Is(err, io.EOF)
}
