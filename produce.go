package kafka

// RequiredAcks describes how many replicas must acknowledge a Produce
// request before the broker considers it complete.
const (
	NoResponse   int16 = 0
	WaitForLocal int16 = 1
	WaitForAll   int16 = -1
)

func init() {
	registerAPI(apiKeyProduce, "Produce", 0, 9,
		func() protocolBody { return &ProduceRequest{} },
		func() protocolBody { return &ProduceResponse{} })
}

// ProduceRequest carries one or more record batches, grouped by topic then
// partition, to be appended to the broker's logs (§4.H).
type ProduceRequest struct {
	Version        int16
	TransactionalID *string
	RequiredAcks   int16
	Timeout        int32
	records        map[string]map[int32]Records
}

func (r *ProduceRequest) setVersion(v int16) { r.Version = v }

// AddBatch attaches a record batch for the given topic/partition.
func (r *ProduceRequest) AddBatch(topic string, partition int32, batch *RecordBatch) {
	if r.records == nil {
		r.records = make(map[string]map[int32]Records)
	}
	if r.records[topic] == nil {
		r.records[topic] = make(map[int32]Records)
	}
	r.records[topic][partition] = newDefaultRecords(batch)
}

// AddMessage attaches a legacy (magic 0/1) message set for one partition.
// The producer does not call it; it sends magic-2 batches via AddBatch.
func (r *ProduceRequest) AddMessage(topic string, partition int32, msg *Message) {
	set := &MessageSet{}
	set.addMessage(msg)
	if r.records == nil {
		r.records = make(map[string]map[int32]Records)
	}
	if r.records[topic] == nil {
		r.records[topic] = make(map[int32]Records)
	}
	r.records[topic][partition] = newLegacyRecords(set)
}

func (r *ProduceRequest) encode(pe packetEncoder) error {
	if r.Version >= 3 {
		if err := pe.putNullableString(r.TransactionalID); err != nil {
			return err
		}
	}
	pe.putInt16(r.RequiredAcks)
	pe.putInt32(r.Timeout)

	if err := pe.putArrayLength(len(r.records)); err != nil {
		return err
	}
	for topic, partitions := range r.records {
		if err := pe.putString(topic); err != nil {
			return err
		}
		if err := pe.putArrayLength(len(partitions)); err != nil {
			return err
		}
		for partition, recs := range partitions {
			pe.putInt32(partition)
			pe.push(&lengthField{})
			if err := recs.encode(pe); err != nil {
				return err
			}
			if err := pe.pop(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *ProduceRequest) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if version >= 3 {
		if r.TransactionalID, err = pd.getNullableString(); err != nil {
			return err
		}
	}
	if r.RequiredAcks, err = pd.getInt16(); err != nil {
		return err
	}
	if r.Timeout, err = pd.getInt32(); err != nil {
		return err
	}

	topicCount, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	if topicCount == 0 {
		return nil
	}
	r.records = make(map[string]map[int32]Records)
	for i := 0; i < topicCount; i++ {
		topic, err := pd.getString()
		if err != nil {
			return err
		}
		partitionCount, err := pd.getArrayLength()
		if err != nil {
			return err
		}
		r.records[topic] = make(map[int32]Records, partitionCount)
		for j := 0; j < partitionCount; j++ {
			partition, err := pd.getInt32()
			if err != nil {
				return err
			}
			size, err := pd.getInt32()
			if err != nil {
				return err
			}
			recsDec, err := pd.getSubset(int(size))
			if err != nil {
				return err
			}
			var recs Records
			if err := recs.decode(recsDec); err != nil {
				return err
			}
			r.records[topic][partition] = recs
		}
	}
	return nil
}

func (r *ProduceRequest) key() int16          { return apiKeyProduce }
func (r *ProduceRequest) version() int16       { return r.Version }
func (r *ProduceRequest) headerVersion() int16 { return 1 }
func (r *ProduceRequest) isValidVersion() bool { return r.Version >= 0 && r.Version <= 9 }
func (r *ProduceRequest) requiredVersion() KafkaVersion {
	switch {
	case r.Version >= 7:
		return V2_1_0_0
	case r.Version >= 3:
		return V0_11_0_0
	case r.Version >= 2:
		return V0_10_0_0
	default:
		return MinVersion
	}
}

type ProduceResponseBlock struct {
	Err            KError
	Offset         int64
	Timestamp      int64
	LogStartOffset int64
}

type ProduceResponse struct {
	Version        int16
	Blocks         map[string]map[int32]*ProduceResponseBlock
	ThrottleTimeMs int32
}

func (r *ProduceResponse) setVersion(v int16) { r.Version = v }

func (r *ProduceResponse) encode(pe packetEncoder) error {
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
			pe.putInt16(int16(block.Err))
			pe.putInt64(block.Offset)
			if r.Version >= 2 {
				pe.putInt64(block.Timestamp)
			}
			if r.Version >= 5 {
				pe.putInt64(block.LogStartOffset)
			}
		}
	}
	if r.Version >= 1 {
		pe.putInt32(r.ThrottleTimeMs)
	}
	return nil
}

func (r *ProduceResponse) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	r.Blocks = make(map[string]map[int32]*ProduceResponseBlock, n)
	for i := 0; i < n; i++ {
		topic, err := pd.getString()
		if err != nil {
			return err
		}
		m, err := pd.getArrayLength()
		if err != nil {
			return err
		}
		r.Blocks[topic] = make(map[int32]*ProduceResponseBlock, m)
		for j := 0; j < m; j++ {
			id, err := pd.getInt32()
			if err != nil {
				return err
			}
			block := &ProduceResponseBlock{}
			errCode, err := pd.getInt16()
			if err != nil {
				return err
			}
			block.Err = KError(errCode)
			if block.Offset, err = pd.getInt64(); err != nil {
				return err
			}
			if version >= 2 {
				if block.Timestamp, err = pd.getInt64(); err != nil {
					return err
				}
			}
			if version >= 5 {
				if block.LogStartOffset, err = pd.getInt64(); err != nil {
					return err
				}
			}
			r.Blocks[topic][id] = block
		}
	}
	if version >= 1 {
		if r.ThrottleTimeMs, err = pd.getInt32(); err != nil {
			return err
		}
	}
	return nil
}

func (r *ProduceResponse) key() int16          { return apiKeyProduce }
func (r *ProduceResponse) version() int16       { return r.Version }
func (r *ProduceResponse) headerVersion() int16 { return 0 }
func (r *ProduceResponse) isValidVersion() bool { return r.Version >= 0 && r.Version <= 9 }
func (r *ProduceResponse) requiredVersion() KafkaVersion {
	switch {
	case r.Version >= 3:
		return V0_11_0_0
	case r.Version >= 2:
		return V0_10_0_0
	default:
		return MinVersion
	}
}
func (r *ProduceResponse) throttleTime() int32 { return r.ThrottleTimeMs }

func (r *ProduceResponse) GetBlock(topic string, partition int32) *ProduceResponseBlock {
	if r.Blocks == nil {
		return nil
	}
	if r.Blocks[topic] == nil {
		return nil
	}
	return r.Blocks[topic][partition]
}

func (r *ProduceResponse) extractErrors() []errorPath {
	var errs []errorPath
	for topic, partitions := range r.Blocks {
		for partition, block := range partitions {
			if block.Err != ErrNoError {
				errs = append(errs, errorPath{Path: topic, Code: block.Err})
				_ = partition
			}
		}
	}
	return errs
}
