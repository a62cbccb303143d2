package kafka

func init() {
	registerAPI(apiKeyListOffsets, "ListOffsets", 0, 7,
		func() protocolBody { return &ListOffsetsRequest{} },
		func() protocolBody { return &ListOffsetsResponse{} })
}

// Sentinel timestamps accepted by ListOffsetsRequest in place of a wall-clock
// value, per §4.A.
const (
	OffsetNewest int64 = -1
	OffsetOldest int64 = -2
)

type listOffsetsRequestBlock struct {
	currentLeaderEpoch int32
	timestamp          int64
	maxNumOffsets      int32 // version 0 only
}

// ListOffsetsRequest resolves a symbolic offset (earliest/latest/by
// timestamp) to a concrete log offset per partition.
type ListOffsetsRequest struct {
	Version          int16
	ReplicaID        int32
	IsolationLevel   int8
	blocks           map[string]map[int32]*listOffsetsRequestBlock
}

func (r *ListOffsetsRequest) setVersion(v int16) { r.Version = v }

func (r *ListOffsetsRequest) AddBlock(topic string, partition int32, timestamp int64, maxOffsets int32) {
	if r.blocks == nil {
		r.blocks = make(map[string]map[int32]*listOffsetsRequestBlock)
	}
	if r.blocks[topic] == nil {
		r.blocks[topic] = make(map[int32]*listOffsetsRequestBlock)
	}
	r.blocks[topic][partition] = &listOffsetsRequestBlock{timestamp: timestamp, maxNumOffsets: maxOffsets}
}

func (r *ListOffsetsRequest) encode(pe packetEncoder) error {
	pe.putInt32(r.ReplicaID)
	if r.Version >= 2 {
		pe.putInt8(r.IsolationLevel)
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
			if r.Version >= 4 {
				pe.putInt32(block.currentLeaderEpoch)
			}
			pe.putInt64(block.timestamp)
			if r.Version == 0 {
				pe.putInt32(block.maxNumOffsets)
			}
		}
	}
	return nil
}

func (r *ListOffsetsRequest) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if r.ReplicaID, err = pd.getInt32(); err != nil {
		return err
	}
	if version >= 2 {
		if r.IsolationLevel, err = pd.getInt8(); err != nil {
			return err
		}
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	r.blocks = make(map[string]map[int32]*listOffsetsRequestBlock, n)
	for i := 0; i < n; i++ {
		topic, err := pd.getString()
		if err != nil {
			return err
		}
		m, err := pd.getArrayLength()
		if err != nil {
			return err
		}
		r.blocks[topic] = make(map[int32]*listOffsetsRequestBlock, m)
		for j := 0; j < m; j++ {
			partition, err := pd.getInt32()
			if err != nil {
				return err
			}
			block := &listOffsetsRequestBlock{}
			if version >= 4 {
				if block.currentLeaderEpoch, err = pd.getInt32(); err != nil {
					return err
				}
			}
			if block.timestamp, err = pd.getInt64(); err != nil {
				return err
			}
			if version == 0 {
				if block.maxNumOffsets, err = pd.getInt32(); err != nil {
					return err
				}
			}
			r.blocks[topic][partition] = block
		}
	}
	return nil
}

func (r *ListOffsetsRequest) key() int16          { return apiKeyListOffsets }
func (r *ListOffsetsRequest) version() int16       { return r.Version }
func (r *ListOffsetsRequest) headerVersion() int16 { return 1 }
func (r *ListOffsetsRequest) isValidVersion() bool { return r.Version >= 0 && r.Version <= 7 }
func (r *ListOffsetsRequest) requiredVersion() KafkaVersion {
	switch {
	case r.Version >= 4:
		return V2_1_0_0
	case r.Version >= 1:
		return V0_10_1_0
	default:
		return MinVersion
	}
}

type ListOffsetsResponseBlock struct {
	Err            KError
	Timestamp      int64
	Offset         int64
	Offsets        []int64 // version 0 only
	LeaderEpoch    int32
}

type ListOffsetsResponse struct {
	Version        int16
	ThrottleTimeMs int32
	Blocks         map[string]map[int32]*ListOffsetsResponseBlock
}

func (r *ListOffsetsResponse) setVersion(v int16) { r.Version = v }

func (r *ListOffsetsResponse) encode(pe packetEncoder) error {
	if r.Version >= 2 {
		pe.putInt32(r.ThrottleTimeMs)
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
			pe.putInt16(int16(block.Err))
			if r.Version == 0 {
				if err := pe.putInt64Array(block.Offsets); err != nil {
					return err
				}
			} else {
				pe.putInt64(block.Timestamp)
				pe.putInt64(block.Offset)
				if r.Version >= 4 {
					pe.putInt32(block.LeaderEpoch)
				}
			}
		}
	}
	return nil
}

func (r *ListOffsetsResponse) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if version >= 2 {
		if r.ThrottleTimeMs, err = pd.getInt32(); err != nil {
			return err
		}
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	r.Blocks = make(map[string]map[int32]*ListOffsetsResponseBlock, n)
	for i := 0; i < n; i++ {
		topic, err := pd.getString()
		if err != nil {
			return err
		}
		m, err := pd.getArrayLength()
		if err != nil {
			return err
		}
		r.Blocks[topic] = make(map[int32]*ListOffsetsResponseBlock, m)
		for j := 0; j < m; j++ {
			id, err := pd.getInt32()
			if err != nil {
				return err
			}
			block := &ListOffsetsResponseBlock{}
			errCode, err := pd.getInt16()
			if err != nil {
				return err
			}
			block.Err = KError(errCode)
			if version == 0 {
				if block.Offsets, err = pd.getInt64Array(); err != nil {
					return err
				}
			} else {
				if block.Timestamp, err = pd.getInt64(); err != nil {
					return err
				}
				if block.Offset, err = pd.getInt64(); err != nil {
					return err
				}
				if version >= 4 {
					if block.LeaderEpoch, err = pd.getInt32(); err != nil {
						return err
					}
				}
			}
			r.Blocks[topic][id] = block
		}
	}
	return nil
}

func (r *ListOffsetsResponse) key() int16          { return apiKeyListOffsets }
func (r *ListOffsetsResponse) version() int16       { return r.Version }
func (r *ListOffsetsResponse) headerVersion() int16 { return 0 }
func (r *ListOffsetsResponse) isValidVersion() bool { return r.Version >= 0 && r.Version <= 7 }
func (r *ListOffsetsResponse) requiredVersion() KafkaVersion {
	if r.Version >= 1 {
		return V0_10_1_0
	}
	return MinVersion
}
func (r *ListOffsetsResponse) throttleTime() int32 { return r.ThrottleTimeMs }
