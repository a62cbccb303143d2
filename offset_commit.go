package kafka

func init() {
	registerAPI(apiKeyOffsetCommit, "OffsetCommit", 0, 8,
		func() protocolBody { return &OffsetCommitRequest{} },
		func() protocolBody { return &OffsetCommitResponse{} })
}

type offsetCommitPartition struct {
	offset      int64
	leaderEpoch int32
	timestamp   int64 // version 1 only
	metadata    *string
}

// OffsetCommitRequest persists consumed offsets under a group id, either as
// a manual commit or from the offset manager's periodic autocommit loop.
type OffsetCommitRequest struct {
	Version                 int16
	GroupID                 string
	GenerationID            int32
	MemberID                string
	GroupInstanceID         *string
	RetentionTime           int64 // version 2-4 only
	blocks                  map[string]map[int32]*offsetCommitPartition
}

func (r *OffsetCommitRequest) setVersion(v int16) { r.Version = v }

func (r *OffsetCommitRequest) AddBlock(topic string, partition int32, offset int64, timestamp int64, metadata string) {
	if r.blocks == nil {
		r.blocks = make(map[string]map[int32]*offsetCommitPartition)
	}
	if r.blocks[topic] == nil {
		r.blocks[topic] = make(map[int32]*offsetCommitPartition)
	}
	md := metadata
	r.blocks[topic][partition] = &offsetCommitPartition{offset: offset, timestamp: timestamp, metadata: &md}
}

func (r *OffsetCommitRequest) encode(pe packetEncoder) error {
	if err := pe.putString(r.GroupID); err != nil {
		return err
	}
	if r.Version >= 1 {
		pe.putInt32(r.GenerationID)
		if err := pe.putString(r.MemberID); err != nil {
			return err
		}
	}
	if r.Version >= 7 {
		if err := pe.putNullableString(r.GroupInstanceID); err != nil {
			return err
		}
	}
	if r.Version == 2 || r.Version == 3 || r.Version == 4 {
		pe.putInt64(r.RetentionTime)
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
			pe.putInt64(block.offset)
			if r.Version >= 6 {
				pe.putInt32(block.leaderEpoch)
			}
			if r.Version == 1 {
				pe.putInt64(block.timestamp)
			}
			if err := pe.putNullableString(block.metadata); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *OffsetCommitRequest) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if r.GroupID, err = pd.getString(); err != nil {
		return err
	}
	if version >= 1 {
		if r.GenerationID, err = pd.getInt32(); err != nil {
			return err
		}
		if r.MemberID, err = pd.getString(); err != nil {
			return err
		}
	}
	if version >= 7 {
		if r.GroupInstanceID, err = pd.getNullableString(); err != nil {
			return err
		}
	}
	if version == 2 || version == 3 || version == 4 {
		if r.RetentionTime, err = pd.getInt64(); err != nil {
			return err
		}
	}

	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	r.blocks = make(map[string]map[int32]*offsetCommitPartition, n)
	for i := 0; i < n; i++ {
		topic, err := pd.getString()
		if err != nil {
			return err
		}
		m, err := pd.getArrayLength()
		if err != nil {
			return err
		}
		r.blocks[topic] = make(map[int32]*offsetCommitPartition, m)
		for j := 0; j < m; j++ {
			partition, err := pd.getInt32()
			if err != nil {
				return err
			}
			block := &offsetCommitPartition{}
			if block.offset, err = pd.getInt64(); err != nil {
				return err
			}
			if version >= 6 {
				if block.leaderEpoch, err = pd.getInt32(); err != nil {
					return err
				}
			}
			if version == 1 {
				if block.timestamp, err = pd.getInt64(); err != nil {
					return err
				}
			}
			if block.metadata, err = pd.getNullableString(); err != nil {
				return err
			}
			r.blocks[topic][partition] = block
		}
	}
	return nil
}

func (r *OffsetCommitRequest) key() int16          { return apiKeyOffsetCommit }
func (r *OffsetCommitRequest) version() int16       { return r.Version }
func (r *OffsetCommitRequest) headerVersion() int16 { return 1 }
func (r *OffsetCommitRequest) isValidVersion() bool { return r.Version >= 0 && r.Version <= 8 }
func (r *OffsetCommitRequest) requiredVersion() KafkaVersion {
	switch {
	case r.Version >= 6:
		return V2_1_0_0
	case r.Version >= 3:
		return V0_11_0_0
	case r.Version >= 2:
		return V0_9_0_0
	case r.Version >= 1:
		return V0_8_2_0
	default:
		return V0_8_2_0
	}
}

type OffsetCommitResponse struct {
	Version        int16
	ThrottleTimeMs int32
	Errors         map[string]map[int32]KError
}

func (r *OffsetCommitResponse) setVersion(v int16) { r.Version = v }

func (r *OffsetCommitResponse) encode(pe packetEncoder) error {
	if r.Version >= 3 {
		pe.putInt32(r.ThrottleTimeMs)
	}
	if err := pe.putArrayLength(len(r.Errors)); err != nil {
		return err
	}
	for topic, partitions := range r.Errors {
		if err := pe.putString(topic); err != nil {
			return err
		}
		if err := pe.putArrayLength(len(partitions)); err != nil {
			return err
		}
		for partition, kerr := range partitions {
			pe.putInt32(partition)
			pe.putInt16(int16(kerr))
		}
	}
	return nil
}

func (r *OffsetCommitResponse) decode(pd packetDecoder, version int16) (err error) {
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
	r.Errors = make(map[string]map[int32]KError, n)
	for i := 0; i < n; i++ {
		topic, err := pd.getString()
		if err != nil {
			return err
		}
		m, err := pd.getArrayLength()
		if err != nil {
			return err
		}
		r.Errors[topic] = make(map[int32]KError, m)
		for j := 0; j < m; j++ {
			partition, err := pd.getInt32()
			if err != nil {
				return err
			}
			ec, err := pd.getInt16()
			if err != nil {
				return err
			}
			r.Errors[topic][partition] = KError(ec)
		}
	}
	return nil
}

func (r *OffsetCommitResponse) key() int16          { return apiKeyOffsetCommit }
func (r *OffsetCommitResponse) version() int16       { return r.Version }
func (r *OffsetCommitResponse) headerVersion() int16 { return 0 }
func (r *OffsetCommitResponse) isValidVersion() bool { return r.Version >= 0 && r.Version <= 8 }
func (r *OffsetCommitResponse) requiredVersion() KafkaVersion {
	if r.Version >= 3 {
		return V0_11_0_0
	}
	return V0_8_2_0
}
func (r *OffsetCommitResponse) throttleTime() int32 { return r.ThrottleTimeMs }

func (r *OffsetCommitResponse) extractErrors() []errorPath {
	var errs []errorPath
	for topic, partitions := range r.Errors {
		for _, kerr := range partitions {
			if kerr != ErrNoError {
				errs = append(errs, errorPath{Path: topic, Code: kerr})
			}
		}
	}
	return errs
}
