package kafka

func init() {
	registerAPI(apiKeyOffsetFetch, "OffsetFetch", 0, 7,
		func() protocolBody { return &OffsetFetchRequest{} },
		func() protocolBody { return &OffsetFetchResponse{} })
}

// OffsetFetchRequest looks up the last committed offsets for a group; a nil
// partitions map (version >= 2) requests all partitions the group has ever
// committed for.
type OffsetFetchRequest struct {
	Version     int16
	GroupID     string
	partitions  map[string][]int32
	RequireStable bool // version >= 7
}

func (r *OffsetFetchRequest) setVersion(v int16) { r.Version = v }

func (r *OffsetFetchRequest) ZeroPartitions() bool {
	return r.partitions != nil && len(r.partitions) == 0
}

func (r *OffsetFetchRequest) AddPartition(topic string, partition int32) {
	if r.partitions == nil {
		r.partitions = make(map[string][]int32)
	}
	r.partitions[topic] = append(r.partitions[topic], partition)
}

func (r *OffsetFetchRequest) encode(pe packetEncoder) error {
	if err := pe.putString(r.GroupID); err != nil {
		return err
	}

	if r.partitions == nil && r.Version >= 2 {
		if err := pe.putArrayLength(-1); err != nil {
			return err
		}
	} else {
		if err := pe.putArrayLength(len(r.partitions)); err != nil {
			return err
		}
		for topic, partitions := range r.partitions {
			if err := pe.putString(topic); err != nil {
				return err
			}
			if err := pe.putInt32Array(partitions); err != nil {
				return err
			}
		}
	}
	if r.Version >= 7 {
		pe.putBool(r.RequireStable)
	}
	return nil
}

func (r *OffsetFetchRequest) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if r.GroupID, err = pd.getString(); err != nil {
		return err
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	if n < 0 {
		r.partitions = nil
	} else {
		r.partitions = make(map[string][]int32, n)
		for i := 0; i < n; i++ {
			topic, err := pd.getString()
			if err != nil {
				return err
			}
			if r.partitions[topic], err = pd.getInt32Array(); err != nil {
				return err
			}
		}
	}
	if version >= 7 {
		if r.RequireStable, err = pd.getBool(); err != nil {
			return err
		}
	}
	return nil
}

func (r *OffsetFetchRequest) key() int16          { return apiKeyOffsetFetch }
func (r *OffsetFetchRequest) version() int16       { return r.Version }
func (r *OffsetFetchRequest) headerVersion() int16 { return 1 }
func (r *OffsetFetchRequest) isValidVersion() bool { return r.Version >= 0 && r.Version <= 7 }
func (r *OffsetFetchRequest) requiredVersion() KafkaVersion {
	switch {
	case r.Version >= 2:
		return V0_10_2_0
	case r.Version >= 1:
		return V0_8_2_0
	default:
		return V0_8_2_0
	}
}

type OffsetFetchResponseBlock struct {
	Offset      int64
	LeaderEpoch int32
	Metadata    string
	Err         KError
}

type OffsetFetchResponse struct {
	Version        int16
	ThrottleTimeMs int32
	Blocks         map[string]map[int32]*OffsetFetchResponseBlock
	Err            KError
}

func (r *OffsetFetchResponse) setVersion(v int16) { r.Version = v }

func (r *OffsetFetchResponse) encode(pe packetEncoder) error {
	if r.Version >= 3 {
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
		for partition, block := range partitions {
			pe.putInt32(partition)
			pe.putInt64(block.Offset)
			if r.Version >= 5 {
				pe.putInt32(block.LeaderEpoch)
			}
			if err := pe.putString(block.Metadata); err != nil {
				return err
			}
			pe.putInt16(int16(block.Err))
		}
	}
	if r.Version >= 2 {
		pe.putInt16(int16(r.Err))
	}
	return nil
}

func (r *OffsetFetchResponse) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if version >= 3 {
		if r.ThrottleTimeMs, err = pd.getInt32(); err != nil {
			return err
		}
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	r.Blocks = make(map[string]map[int32]*OffsetFetchResponseBlock, n)
	for i := 0; i < n; i++ {
		topic, err := pd.getString()
		if err != nil {
			return err
		}
		m, err := pd.getArrayLength()
		if err != nil {
			return err
		}
		r.Blocks[topic] = make(map[int32]*OffsetFetchResponseBlock, m)
		for j := 0; j < m; j++ {
			partition, err := pd.getInt32()
			if err != nil {
				return err
			}
			block := &OffsetFetchResponseBlock{}
			if block.Offset, err = pd.getInt64(); err != nil {
				return err
			}
			if version >= 5 {
				if block.LeaderEpoch, err = pd.getInt32(); err != nil {
					return err
				}
			}
			if block.Metadata, err = pd.getString(); err != nil {
				return err
			}
			ec, err := pd.getInt16()
			if err != nil {
				return err
			}
			block.Err = KError(ec)
			r.Blocks[topic][partition] = block
		}
	}
	if version >= 2 {
		ec, err := pd.getInt16()
		if err != nil {
			return err
		}
		r.Err = KError(ec)
	}
	return nil
}

func (r *OffsetFetchResponse) key() int16          { return apiKeyOffsetFetch }
func (r *OffsetFetchResponse) version() int16       { return r.Version }
func (r *OffsetFetchResponse) headerVersion() int16 { return 0 }
func (r *OffsetFetchResponse) isValidVersion() bool { return r.Version >= 0 && r.Version <= 7 }
func (r *OffsetFetchResponse) requiredVersion() KafkaVersion {
	if r.Version >= 2 {
		return V0_10_2_0
	}
	return V0_8_2_0
}
func (r *OffsetFetchResponse) throttleTime() int32 { return r.ThrottleTimeMs }

// NewOffsetFetchRequest builds an OffsetFetchRequest for the given group at
// the highest version the cluster supports, optionally scoped to specific
// topic-partitions. A nil topicPartitions fetches every partition the group
// has committed offsets for (version >= 2 only).
func NewOffsetFetchRequest(version KafkaVersion, group string, topicPartitions map[string][]int32) *OffsetFetchRequest {
	r := &OffsetFetchRequest{GroupID: group}
	switch {
	case version.IsAtLeast(V2_1_0_0):
		r.Version = 6
	case version.IsAtLeast(V2_0_0_0):
		r.Version = 5
	case version.IsAtLeast(V0_11_0_0):
		r.Version = 3
	case version.IsAtLeast(V0_10_2_0):
		r.Version = 2
	case version.IsAtLeast(V0_8_2_0):
		r.Version = 1
	default:
		r.Version = 0
	}
	if topicPartitions == nil {
		if r.Version >= 2 {
			return r
		}
		return r
	}
	for topic, partitions := range topicPartitions {
		for _, partition := range partitions {
			r.AddPartition(topic, partition)
		}
	}
	return r
}
