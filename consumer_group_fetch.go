package kafka

import (
	"sync"
	"sync/atomic"
	"time"
)

// groupFetchSession runs the KIP-227 fetch-session protocol for one broker on
// behalf of a ConsumerGroupSession: the first FetchRequest carries
// SessionID=0 to establish a session, and every later request carries the
// broker-assigned SessionID and the next SessionEpoch. Every request still
// lists every claimed partition with its current offset; no partition is
// left out for the broker to remember.
type groupFetchSession struct {
	broker *Broker
	conf   *Config

	lock      sync.Mutex
	claims    map[string]map[int32]*groupFetchClaim
	sessionID int32
	epoch     int32

	dying chan struct{}
	dead  int32
}

type groupFetchClaim struct {
	topic     string
	partition int32
	offset    int64
	messages  chan *ConsumerMessage
	errors    chan *ConsumerError
}

func newGroupFetchSession(broker *Broker, conf *Config) *groupFetchSession {
	return &groupFetchSession{
		broker: broker,
		conf:   conf,
		claims: make(map[string]map[int32]*groupFetchClaim),
		epoch:  0,
		dying:  make(chan struct{}),
	}
}

// addClaim registers a claimed partition with the session; the next fetch
// request after this call is a "full" request (epoch reset to 0) so the
// broker picks up the addition.
func (s *groupFetchSession) addClaim(topic string, partition int32, offset int64) *groupFetchClaim {
	s.lock.Lock()
	defer s.lock.Unlock()
	claim := &groupFetchClaim{
		topic:     topic,
		partition: partition,
		offset:    offset,
		messages:  make(chan *ConsumerMessage, s.conf.ChannelBufferSize),
		errors:    make(chan *ConsumerError, s.conf.ChannelBufferSize),
	}
	if s.claims[topic] == nil {
		s.claims[topic] = make(map[int32]*groupFetchClaim)
	}
	s.claims[topic][partition] = claim
	s.sessionID = 0
	s.epoch = 0
	return claim
}

func (s *groupFetchSession) removeClaim(topic string, partition int32) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.claims[topic] != nil {
		delete(s.claims[topic], partition)
		if len(s.claims[topic]) == 0 {
			delete(s.claims, topic)
		}
	}
	s.sessionID = 0
	s.epoch = 0
}

func (s *groupFetchSession) claimCount() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	n := 0
	for _, partitions := range s.claims {
		n += len(partitions)
	}
	return n
}

// run drives one fetch-wait-dispatch cycle at a time until close; callers
// launch it with go withRecover(session.run).
func (s *groupFetchSession) run() {
	for {
		select {
		case <-s.dying:
			return
		default:
		}
		if s.claimCount() == 0 {
			return
		}
		resp, err := s.fetch()
		if err != nil {
			s.broadcastError(err)
			return
		}
		if resp == nil {
			continue
		}
		s.dispatch(resp)
	}
}

func (s *groupFetchSession) fetch() (*FetchResponse, error) {
	s.lock.Lock()
	req := &FetchRequest{
		MaxWaitTime:  int32(s.conf.Consumer.MaxWaitTime.Milliseconds()),
		MinBytes:     s.conf.Consumer.Fetch.Min,
		MaxBytes:     s.conf.Consumer.Fetch.Max,
		Isolation:    s.conf.Consumer.IsolationLevel,
		SessionID:    s.sessionID,
		SessionEpoch: s.epoch,
	}
	if s.conf.Version.IsAtLeast(V1_1_0_0) {
		req.Version = 7
	} else if s.conf.Version.IsAtLeast(V0_11_0_0) {
		req.Version = 4
	} else if s.conf.Version.IsAtLeast(V0_10_1_0) {
		req.Version = 3
	}
	for topic, partitions := range s.claims {
		for partition, claim := range partitions {
			req.AddBlock(topic, partition, claim.offset, s.conf.Consumer.Fetch.Default, -1)
		}
	}
	s.lock.Unlock()

	resp, err := s.broker.Fetch(req)
	if err != nil {
		return nil, err
	}

	s.lock.Lock()
	if resp.ErrorCode != ErrNoError {
		s.sessionID = 0
		s.epoch = 0
		s.lock.Unlock()
		return nil, resp.ErrorCode
	}
	if req.Version >= 7 {
		s.sessionID = resp.SessionID
		s.epoch++
	}
	s.lock.Unlock()
	return resp, nil
}

func (s *groupFetchSession) dispatch(resp *FetchResponse) {
	s.lock.Lock()
	defer s.lock.Unlock()
	for topic, partitions := range s.claims {
		for partition, claim := range partitions {
			block := resp.GetBlock(topic, partition)
			if block == nil {
				continue
			}
			if block.Err != ErrNoError {
				select {
				case claim.errors <- &ConsumerError{Topic: topic, Partition: partition, Err: block.Err}:
				case <-s.dying:
				}
				continue
			}
			if block.Records == nil {
				continue
			}
			msgs, lastOffset := decodeGroupRecords(topic, partition, block.Records)
			for _, msg := range msgs {
				select {
				case claim.messages <- msg:
				case <-s.dying:
					return
				}
			}
			if lastOffset >= claim.offset {
				claim.offset = lastOffset + 1
			}
		}
	}
}

func (s *groupFetchSession) broadcastError(err error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	for topic, partitions := range s.claims {
		for partition, claim := range partitions {
			select {
			case claim.errors <- &ConsumerError{Topic: topic, Partition: partition, Err: err}:
			case <-s.dying:
			}
		}
	}
}

func (s *groupFetchSession) close() {
	if atomic.CompareAndSwapInt32(&s.dead, 0, 1) {
		close(s.dying)
	}
}

// decodeGroupRecords flattens a fetch response block's legacy message set or
// magic-2 record batch into ConsumerMessages and returns the last offset
// seen. Unlike partitionConsumer.parseRecords it neither skips offsets below
// the claim's position nor drops control batches.
func decodeGroupRecords(topic string, partition int32, records *Records) ([]*ConsumerMessage, int64) {
	var msgs []*ConsumerMessage
	lastOffset := int64(-1)

	if records.recordsType == legacyRecords {
		if records.MsgSet != nil {
			for _, msgBlock := range records.MsgSet.Messages {
				msgs = append(msgs, &ConsumerMessage{
					Topic:     topic,
					Partition: partition,
					Offset:    msgBlock.Offset,
					Key:       msgBlock.Msg.Key,
					Value:     msgBlock.Msg.Value,
					Timestamp: msgBlock.Msg.Timestamp,
				})
				lastOffset = msgBlock.Offset
			}
		}
		return msgs, lastOffset
	}

	if records.RecordBatch == nil {
		return msgs, lastOffset
	}
	batch := records.RecordBatch
	for _, rec := range batch.Records {
		offset := batch.FirstOffset + rec.OffsetDelta
		headers := make([]*RecordHeader, len(rec.Headers))
		copy(headers, rec.Headers)
		msgs = append(msgs, &ConsumerMessage{
			Topic:     topic,
			Partition: partition,
			Offset:    offset,
			Key:       rec.Key,
			Value:     rec.Value,
			Headers:   headers,
			Timestamp: batch.FirstTimestamp.Add(time.Duration(rec.TimestampDelta) * time.Millisecond),
		})
		lastOffset = offset
	}
	return msgs, lastOffset
}
