package kafka

func init() {
	registerAPI(apiKeyFetch, "Fetch", 0, 11,
		func() protocolBody { return &FetchRequest{} },
		func() protocolBody { return &FetchResponse{} })
}

type fetchRequestBlock struct {
	currentLeaderEpoch int32
	fetchOffset        int64
	logStartOffset     int64
	maxBytes           int32
}

func (b *fetchRequestBlock) encode(pe packetEncoder, version int16) error {
	if version >= 9 {
		pe.putInt32(b.currentLeaderEpoch)
	}
	pe.putInt64(b.fetchOffset)
	if version >= 5 {
		pe.putInt64(b.logStartOffset)
	}
	pe.putInt32(b.maxBytes)
	return nil
}

func (b *fetchRequestBlock) decode(pd packetDecoder, version int16) (err error) {
	if version >= 9 {
		if b.currentLeaderEpoch, err = pd.getInt32(); err != nil {
			return err
		}
	}
	if b.fetchOffset, err = pd.getInt64(); err != nil {
		return err
	}
	if version >= 5 {
		if b.logStartOffset, err = pd.getInt64(); err != nil {
			return err
		}
	}
	if b.maxBytes, err = pd.getInt32(); err != nil {
		return err
	}
	return nil
}

// FetchRequest pulls records from a set of topic/partitions starting at a
// given offset per partition, bounded by byte-size and wait-time limits
// (§4.I's consumer fetch loop).
type FetchRequest struct {
	Version         int16
	MaxWaitTime     int32
	MinBytes        int32
	MaxBytes        int32
	Isolation       int8
	SessionID       int32
	SessionEpoch    int32
	blocks          map[string]map[int32]*fetchRequestBlock
	RackID          string
}

const (
	IsolationLevelReadUncommitted int8 = 0
	IsolationLevelReadCommitted   int8 = 1
)

func (r *FetchRequest) setVersion(v int16) { r.Version = v }

// AddBlock registers interest in one topic/partition starting at fetchOffset.
func (r *FetchRequest) AddBlock(topic string, partition int32, fetchOffset int64, maxBytes int32, leaderEpoch int32) {
	if r.blocks == nil {
		r.blocks = make(map[string]map[int32]*fetchRequestBlock)
	}
	if r.blocks[topic] == nil {
		r.blocks[topic] = make(map[int32]*fetchRequestBlock)
	}
	r.blocks[topic][partition] = &fetchRequestBlock{
		fetchOffset:        fetchOffset,
		maxBytes:           maxBytes,
		currentLeaderEpoch: leaderEpoch,
	}
}

func (r *FetchRequest) encode(pe packetEncoder) error {
	pe.putInt32(-1) // replica id, always -1 for client requests
	pe.putInt32(r.MaxWaitTime)
	pe.putInt32(r.MinBytes)
	if r.Version >= 3 {
		pe.putInt32(r.MaxBytes)
	}
	if r.Version >= 4 {
		pe.putInt8(r.Isolation)
	}
	if r.Version >= 7 {
		pe.putInt32(r.SessionID)
		pe.putInt32(r.SessionEpoch)
	}

	if err := pe.putArrayLength(len(r.blocks)); err != nil {
		return err
	}
	for topic, partitions := range r.blocks {
		if err := pe.putString(topic); err != nil {
			return err
		}
		if err := pe.putArrayLength(len(partitions)); err != nil {
			return err
		}
		for partition, block := range partitions {
			pe.putInt32(partition)
			if err := block.encode(pe, r.Version); err != nil {
				return err
			}
		}
	}

	if r.Version >= 7 {
		if err := pe.putArrayLength(0); err != nil { // forgotten topics, not used
			return err
		}
	}
	if r.Version >= 11 {
		if err := pe.putString(r.RackID); err != nil {
			return err
		}
	}
	return nil
}

func (r *FetchRequest) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if _, err = pd.getInt32(); err != nil { // replica id
		return err
	}
	if r.MaxWaitTime, err = pd.getInt32(); err != nil {
		return err
	}
	if r.MinBytes, err = pd.getInt32(); err != nil {
		return err
	}
	if version >= 3 {
		if r.MaxBytes, err = pd.getInt32(); err != nil {
			return err
		}
	}
	if version >= 4 {
		if r.Isolation, err = pd.getInt8(); err != nil {
			return err
		}
	}
	if version >= 7 {
		if r.SessionID, err = pd.getInt32(); err != nil {
			return err
		}
		if r.SessionEpoch, err = pd.getInt32(); err != nil {
			return err
		}
	}

	topicCount, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	if topicCount > 0 {
		r.blocks = make(map[string]map[int32]*fetchRequestBlock)
		for i := 0; i < topicCount; i++ {
			topic, err := pd.getString()
			if err != nil {
				return err
			}
			partitionCount, err := pd.getArrayLength()
			if err != nil {
				return err
			}
			r.blocks[topic] = make(map[int32]*fetchRequestBlock, partitionCount)
			for j := 0; j < partitionCount; j++ {
				partition, err := pd.getInt32()
				if err != nil {
					return err
				}
				block := &fetchRequestBlock{}
				if err := block.decode(pd, version); err != nil {
					return err
				}
				r.blocks[topic][partition] = block
			}
		}
	}

	if version >= 7 {
		if _, err = pd.getArrayLength(); err != nil {
			return err
		}
	}
	if version >= 11 {
		if r.RackID, err = pd.getString(); err != nil {
			return err
		}
	}
	return nil
}

func (r *FetchRequest) key() int16          { return apiKeyFetch }
func (r *FetchRequest) version() int16       { return r.Version }
func (r *FetchRequest) headerVersion() int16 { return 1 }
func (r *FetchRequest) isValidVersion() bool { return r.Version >= 0 && r.Version <= 11 }
func (r *FetchRequest) requiredVersion() KafkaVersion {
	switch {
	case r.Version >= 7:
		return V1_1_0_0
	case r.Version >= 4:
		return V0_11_0_0
	case r.Version >= 3:
		return V0_10_1_0
	default:
		return MinVersion
	}
}

type AbortedTransaction struct {
	ProducerID  int64
	FirstOffset int64
}

type FetchResponseBlock struct {
	Err                  KError
	HighWaterMarkOffset  int64
	LastStableOffset     int64
	LogStartOffset       int64
	AbortedTransactions  []*AbortedTransaction
	PreferredReadReplica int32
	Records              *Records
}

func (b *FetchResponseBlock) encode(pe packetEncoder, version int16) error {
	pe.putInt16(int16(b.Err))
	pe.putInt64(b.HighWaterMarkOffset)
	if version >= 4 {
		pe.putInt64(b.LastStableOffset)
		if version >= 5 {
			pe.putInt64(b.LogStartOffset)
		}
		if err := pe.putArrayLength(len(b.AbortedTransactions)); err != nil {
			return err
		}
		for _, at := range b.AbortedTransactions {
			pe.putInt64(at.ProducerID)
			pe.putInt64(at.FirstOffset)
		}
	}
	if version >= 11 {
		pe.putInt32(b.PreferredReadReplica)
	}

	pe.push(&lengthField{})
	if b.Records != nil {
		if err := b.Records.encode(pe); err != nil {
			return err
		}
	}
	return pe.pop()
}

func (b *FetchResponseBlock) decode(pd packetDecoder, version int16) (err error) {
	errCode, err := pd.getInt16()
	if err != nil {
		return err
	}
	b.Err = KError(errCode)

	if b.HighWaterMarkOffset, err = pd.getInt64(); err != nil {
		return err
	}
	if version >= 4 {
		if b.LastStableOffset, err = pd.getInt64(); err != nil {
			return err
		}
		if version >= 5 {
			if b.LogStartOffset, err = pd.getInt64(); err != nil {
				return err
			}
		}
		n, err := pd.getArrayLength()
		if err != nil {
			return err
		}
		if n > 0 {
			b.AbortedTransactions = make([]*AbortedTransaction, n)
			for i := range b.AbortedTransactions {
				at := &AbortedTransaction{}
				if at.ProducerID, err = pd.getInt64(); err != nil {
					return err
				}
				if at.FirstOffset, err = pd.getInt64(); err != nil {
					return err
				}
				b.AbortedTransactions[i] = at
			}
		}
	}
	if version >= 11 {
		if b.PreferredReadReplica, err = pd.getInt32(); err != nil {
			return err
		}
	}

	size, err := pd.getInt32()
	if err != nil {
		return err
	}
	recordsDec, err := pd.getSubset(int(size))
	if err != nil {
		return err
	}
	b.Records = &Records{}
	return b.Records.decode(recordsDec)
}

// FetchResponse is the batch of records (and per-partition watermarks) a
// broker hands back for a FetchRequest.
type FetchResponse struct {
	Version        int16
	ThrottleTimeMs int32
	ErrorCode      KError
	SessionID      int32
	Blocks         map[string]map[int32]*FetchResponseBlock
}

func (r *FetchResponse) setVersion(v int16) { r.Version = v }

func (r *FetchResponse) encode(pe packetEncoder) error {
	if r.Version >= 1 {
		pe.putInt32(r.ThrottleTimeMs)
	}
	if r.Version >= 7 {
		pe.putInt16(int16(r.ErrorCode))
		pe.putInt32(r.SessionID)
	}
	if err := pe.putArrayLength(len(r.Blocks)); err != nil {
		return err
	}
	for topic, partitions := range r.Blocks {
		if err := pe.putString(topic); err != nil {
			return err
		}
		if err := pe.putArrayLength(len(partitions)); err != nil {
			return err
		}
		for id, block := range partitions {
			pe.putInt32(id)
			if err := block.encode(pe, r.Version); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *FetchResponse) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if version >= 1 {
		if r.ThrottleTimeMs, err = pd.getInt32(); err != nil {
			return err
		}
	}
	if version >= 7 {
		errCode, err := pd.getInt16()
		if err != nil {
			return err
		}
		r.ErrorCode = KError(errCode)
		if r.SessionID, err = pd.getInt32(); err != nil {
			return err
		}
	}

	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	r.Blocks = make(map[string]map[int32]*FetchResponseBlock, n)
	for i := 0; i < n; i++ {
		topic, err := pd.getString()
		if err != nil {
			return err
		}
		m, err := pd.getArrayLength()
		if err != nil {
			return err
		}
		r.Blocks[topic] = make(map[int32]*FetchResponseBlock, m)
		for j := 0; j < m; j++ {
			id, err := pd.getInt32()
			if err != nil {
				return err
			}
			block := &FetchResponseBlock{}
			if err := block.decode(pd, version); err != nil {
				return err
			}
			r.Blocks[topic][id] = block
		}
	}
	return nil
}

func (r *FetchResponse) key() int16          { return apiKeyFetch }
func (r *FetchResponse) version() int16       { return r.Version }
func (r *FetchResponse) headerVersion() int16 { return 0 }
func (r *FetchResponse) isValidVersion() bool { return r.Version >= 0 && r.Version <= 11 }
func (r *FetchResponse) requiredVersion() KafkaVersion {
	switch {
	case r.Version >= 4:
		return V0_11_0_0
	case r.Version >= 3:
		return V0_10_1_0
	default:
		return MinVersion
	}
}
func (r *FetchResponse) throttleTime() int32 { return r.ThrottleTimeMs }

func (r *FetchResponse) GetBlock(topic string, partition int32) *FetchResponseBlock {
	if r.Blocks == nil {
		return nil
	}
	if r.Blocks[topic] == nil {
		return nil
	}
	return r.Blocks[topic][partition]
}
