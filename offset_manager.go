package kafka

import (
	"sync"
	"time"
)

// OffsetManager tracks and commits consumed offsets for a consumer group,
// either on Config.Consumer.Offsets.AutoCommit's ticker or synchronously via
// Commit, enforcing monotonic-only commits per partition (§4.I).
type OffsetManager interface {
	// ManagePartition begins tracking offsets for one topic-partition; it is
	// an error to call it twice for the same topic-partition.
	ManagePartition(topic string, partition int32) (PartitionOffsetManager, error)

	// Commit flushes every pending MarkOffset synchronously, bypassing the
	// autocommit ticker; consumer_group.go calls this before LeaveGroup so a
	// rebalance never loses an already-processed offset.
	Commit()

	// Close stops the autocommit ticker and flushes one last time.
	Close() error
}

// PartitionOffsetManager tracks the committed and most recently marked
// offset for a single topic-partition.
type PartitionOffsetManager interface {
	// MarkOffset records that a message up to (and not including) offset has
	// been processed; the value actually committed is offset+1, matching the
	// "next offset to read" convention used by OffsetFetch/OffsetCommit.
	MarkOffset(offset int64, metadata string)

	// ResetOffset behaves like MarkOffset but ignores the monotonic-only
	// invariant, for callers that need to seek backward (e.g. reprocessing).
	ResetOffset(offset int64, metadata string)

	// NextOffset returns the offset consumption should resume from.
	NextOffset() (int64, string)

	Errors() <-chan *ConsumerError
	AsyncClose()
	Close() error
}

type offsetManager struct {
	client Client
	conf   *Config
	group  string

	memberID     string
	generationID int32

	lock    sync.Mutex
	poms    map[string]map[int32]*partitionOffsetManager

	ticker *time.Ticker
	closing chan struct{}
	closeOnce sync.Once
}

func newOffsetManager(client Client, group, memberID string, generationID int32) *offsetManager {
	conf := client.Config()
	om := &offsetManager{
		client:       client,
		conf:         conf,
		group:        group,
		memberID:     memberID,
		generationID: generationID,
		poms:         make(map[string]map[int32]*partitionOffsetManager),
		closing:      make(chan struct{}),
	}
	if conf.Consumer.Offsets.AutoCommit.Enable {
		om.ticker = time.NewTicker(conf.Consumer.Offsets.AutoCommit.Interval)
		go withRecover(om.autocommitLoop)
	}
	return om
}

func (om *offsetManager) autocommitLoop() {
	for {
		select {
		case <-om.ticker.C:
			om.Commit()
		case <-om.closing:
			return
		}
	}
}

func (om *offsetManager) ManagePartition(topic string, partition int32) (PartitionOffsetManager, error) {
	om.lock.Lock()
	defer om.lock.Unlock()
	if om.poms[topic] != nil && om.poms[topic][partition] != nil {
		return nil, ConfigurationError("That topic/partition is already being managed")
	}

	offset, metadata, err := om.fetchInitialOffset(topic, partition)
	if err != nil {
		return nil, err
	}

	pom := &partitionOffsetManager{
		parent:        om,
		topic:         topic,
		partition:     partition,
		offset:        offset,
		metadata:      metadata,
		errors:        make(chan *ConsumerError, om.conf.ChannelBufferSize),
		closing:       make(chan struct{}),
	}
	if om.poms[topic] == nil {
		om.poms[topic] = make(map[int32]*partitionOffsetManager)
	}
	om.poms[topic][partition] = pom
	return pom, nil
}

func (om *offsetManager) fetchInitialOffset(topic string, partition int32) (int64, string, error) {
	broker, err := om.client.Coordinator(om.group)
	if err != nil {
		return 0, "", err
	}
	req := &OffsetFetchRequest{Version: 1, GroupID: om.group}
	req.AddPartition(topic, partition)
	resp, err := broker.sendWithResponse(om.conf.ClientID, req)
	if err != nil {
		return 0, "", err
	}
	fetchResp := resp.(*OffsetFetchResponse)
	block := fetchResp.Blocks[topic][partition]
	if block == nil {
		return -1, "", nil
	}
	if block.Err != ErrNoError {
		return 0, "", block.Err
	}
	return block.Offset, block.Metadata, nil
}

// Commit synchronously flushes every partition's pending mark in a single
// OffsetCommitRequest per group coordinator.
func (om *offsetManager) Commit() {
	om.lock.Lock()
	defer om.lock.Unlock()

	broker, err := om.client.Coordinator(om.group)
	if err != nil {
		om.handleError(err)
		return
	}

	req := &OffsetCommitRequest{
		Version:      1,
		GroupID:      om.group,
		GenerationID: om.generationID,
		MemberID:     om.memberID,
	}
	dirty := false
	for _, partitions := range om.poms {
		for _, pom := range partitions {
			pom.lock.Lock()
			if pom.dirty {
				req.AddBlock(pom.topic, pom.partition, pom.offset, 0, pom.metadata)
				dirty = true
			}
			pom.lock.Unlock()
		}
	}
	if !dirty {
		return
	}

	resp, err := broker.sendWithResponse(om.conf.ClientID, req)
	if err != nil {
		om.handleError(err)
		return
	}
	commitResp := resp.(*OffsetCommitResponse)
	for topic, partitions := range om.poms {
		for partition, pom := range partitions {
			if kerr, ok := commitResp.Errors[topic][partition]; ok {
				pom.lock.Lock()
				if kerr == ErrNoError {
					pom.dirty = false
				} else {
					pom.lock.Unlock()
					pom.handleError(kerr)
					continue
				}
				pom.lock.Unlock()
			}
		}
	}
}

func (om *offsetManager) handleError(err error) {
	om.lock.Lock()
	defer om.lock.Unlock()
	for _, partitions := range om.poms {
		for _, pom := range partitions {
			pom.handleError(err)
		}
	}
}

func (om *offsetManager) removePartition(topic string, partition int32) {
	om.lock.Lock()
	defer om.lock.Unlock()
	if om.poms[topic] != nil {
		delete(om.poms[topic], partition)
		if len(om.poms[topic]) == 0 {
			delete(om.poms, topic)
		}
	}
}

func (om *offsetManager) Close() error {
	om.closeOnce.Do(func() {
		if om.ticker != nil {
			om.ticker.Stop()
		}
		close(om.closing)
	})
	om.Commit()
	return nil
}

type partitionOffsetManager struct {
	parent    *offsetManager
	topic     string
	partition int32

	lock     sync.Mutex
	offset   int64
	metadata string
	dirty    bool

	errors    chan *ConsumerError
	closing   chan struct{}
	closeOnce sync.Once
}

func (pom *partitionOffsetManager) MarkOffset(offset int64, metadata string) {
	pom.lock.Lock()
	defer pom.lock.Unlock()
	if offset > pom.offset {
		pom.offset = offset
		pom.metadata = metadata
		pom.dirty = true
	}
}

func (pom *partitionOffsetManager) ResetOffset(offset int64, metadata string) {
	pom.lock.Lock()
	defer pom.lock.Unlock()
	pom.offset = offset
	pom.metadata = metadata
	pom.dirty = true
}

func (pom *partitionOffsetManager) NextOffset() (int64, string) {
	pom.lock.Lock()
	defer pom.lock.Unlock()
	if pom.offset >= 0 {
		return pom.offset + 1, pom.metadata
	}
	return pom.parent.conf.Consumer.Offsets.Initial, pom.metadata
}

func (pom *partitionOffsetManager) Errors() <-chan *ConsumerError { return pom.errors }

func (pom *partitionOffsetManager) handleError(err error) {
	cErr := &ConsumerError{Topic: pom.topic, Partition: pom.partition, Err: err}
	if pom.parent.conf.Consumer.Return.Errors {
		select {
		case pom.errors <- cErr:
		case <-pom.closing:
		}
	} else {
		Logger.Println(cErr)
	}
}

func (pom *partitionOffsetManager) AsyncClose() {
	pom.closeOnce.Do(func() {
		close(pom.closing)
	})
}

func (pom *partitionOffsetManager) Close() error {
	pom.AsyncClose()
	pom.parent.removePartition(pom.topic, pom.partition)
	return nil
}
