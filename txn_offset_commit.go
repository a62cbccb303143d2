package kafka

func init() {
	registerAPI(apiKeyTxnOffsetCommit, "TxnOffsetCommit", 0, 3,
		func() protocolBody { return &TxnOffsetCommitRequest{} },
		func() protocolBody { return &TxnOffsetCommitResponse{} })
}

type TxnOffsetCommitRequestPartition struct {
	Offset      int64
	LeaderEpoch int32
	Metadata    *string
}

// TxnOffsetCommitRequest commits consumer offsets as part of a transaction,
// visible to other consumers only once the transaction commits.
type TxnOffsetCommitRequest struct {
	Version         int16
	TransactionalID string
	GroupID         string
	ProducerID      int64
	ProducerEpoch   int16
	GenerationID    int32 // version >= 3
	MemberID        string
	GroupInstanceID *string
	Topics          map[string]map[int32]*TxnOffsetCommitRequestPartition
}

func (r *TxnOffsetCommitRequest) setVersion(v int16) { r.Version = v }

// AddOffset attaches one partition's committed offset to the request.
func (r *TxnOffsetCommitRequest) AddOffset(topic string, partition int32, offset int64, leaderEpoch int32, metadata *string) {
	if r.Topics == nil {
		r.Topics = make(map[string]map[int32]*TxnOffsetCommitRequestPartition)
	}
	if r.Topics[topic] == nil {
		r.Topics[topic] = make(map[int32]*TxnOffsetCommitRequestPartition)
	}
	r.Topics[topic][partition] = &TxnOffsetCommitRequestPartition{Offset: offset, LeaderEpoch: leaderEpoch, Metadata: metadata}
}

func (r *TxnOffsetCommitRequest) encode(pe packetEncoder) error {
	if err := pe.putString(r.TransactionalID); err != nil {
		return err
	}
	if err := pe.putString(r.GroupID); err != nil {
		return err
	}
	pe.putInt64(r.ProducerID)
	pe.putInt16(r.ProducerEpoch)
	if r.Version >= 3 {
		pe.putInt32(r.GenerationID)
		if err := pe.putString(r.MemberID); err != nil {
			return err
		}
		if err := pe.putNullableString(r.GroupInstanceID); err != nil {
			return err
		}
	}

	if err := pe.putArrayLength(len(r.Topics)); err != nil {
		return err
	}
	for topic, partitions := range r.Topics {
		if err := pe.putString(topic); err != nil {
			return err
		}
		if err := pe.putArrayLength(len(partitions)); err != nil {
			return err
		}
		for id, p := range partitions {
			pe.putInt32(id)
			pe.putInt64(p.Offset)
			if r.Version >= 2 {
				pe.putInt32(p.LeaderEpoch)
			}
			if err := pe.putNullableString(p.Metadata); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *TxnOffsetCommitRequest) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if r.TransactionalID, err = pd.getString(); err != nil {
		return err
	}
	if r.GroupID, err = pd.getString(); err != nil {
		return err
	}
	if r.ProducerID, err = pd.getInt64(); err != nil {
		return err
	}
	if r.ProducerEpoch, err = pd.getInt16(); err != nil {
		return err
	}
	if version >= 3 {
		if r.GenerationID, err = pd.getInt32(); err != nil {
			return err
		}
		if r.MemberID, err = pd.getString(); err != nil {
			return err
		}
		if r.GroupInstanceID, err = pd.getNullableString(); err != nil {
			return err
		}
	}

	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	r.Topics = make(map[string]map[int32]*TxnOffsetCommitRequestPartition, n)
	for i := 0; i < n; i++ {
		topic, err := pd.getString()
		if err != nil {
			return err
		}
		m, err := pd.getArrayLength()
		if err != nil {
			return err
		}
		partitions := make(map[int32]*TxnOffsetCommitRequestPartition, m)
		for j := 0; j < m; j++ {
			id, err := pd.getInt32()
			if err != nil {
				return err
			}
			p := &TxnOffsetCommitRequestPartition{}
			if p.Offset, err = pd.getInt64(); err != nil {
				return err
			}
			if version >= 2 {
				if p.LeaderEpoch, err = pd.getInt32(); err != nil {
					return err
				}
			}
			if p.Metadata, err = pd.getNullableString(); err != nil {
				return err
			}
			partitions[id] = p
		}
		r.Topics[topic] = partitions
	}
	return nil
}

func (r *TxnOffsetCommitRequest) key() int16          { return apiKeyTxnOffsetCommit }
func (r *TxnOffsetCommitRequest) version() int16       { return r.Version }
func (r *TxnOffsetCommitRequest) headerVersion() int16 { return 1 }
func (r *TxnOffsetCommitRequest) isValidVersion() bool { return r.Version >= 0 && r.Version <= 3 }
func (r *TxnOffsetCommitRequest) requiredVersion() KafkaVersion {
	switch {
	case r.Version >= 3:
		return V2_7_0_0
	case r.Version >= 2:
		return V2_1_0_0
	default:
		return V0_11_0_0
	}
}

type TxnOffsetCommitResponse struct {
	Version        int16
	ThrottleTimeMs int32
	Topics         map[string]map[int32]KError
}

func (r *TxnOffsetCommitResponse) setVersion(v int16) { r.Version = v }

func (r *TxnOffsetCommitResponse) encode(pe packetEncoder) error {
	pe.putInt32(r.ThrottleTimeMs)
	if err := pe.putArrayLength(len(r.Topics)); err != nil {
		return err
	}
	for topic, partitions := range r.Topics {
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

func (r *TxnOffsetCommitResponse) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if r.ThrottleTimeMs, err = pd.getInt32(); err != nil {
		return err
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	r.Topics = make(map[string]map[int32]KError, n)
	for i := 0; i < n; i++ {
		topic, err := pd.getString()
		if err != nil {
			return err
		}
		m, err := pd.getArrayLength()
		if err != nil {
			return err
		}
		r.Topics[topic] = make(map[int32]KError, m)
		for j := 0; j < m; j++ {
			partition, err := pd.getInt32()
			if err != nil {
				return err
			}
			ec, err := pd.getInt16()
			if err != nil {
				return err
			}
			r.Topics[topic][partition] = KError(ec)
		}
	}
	return nil
}

func (r *TxnOffsetCommitResponse) key() int16          { return apiKeyTxnOffsetCommit }
func (r *TxnOffsetCommitResponse) version() int16       { return r.Version }
func (r *TxnOffsetCommitResponse) headerVersion() int16 { return 0 }
func (r *TxnOffsetCommitResponse) isValidVersion() bool { return r.Version >= 0 && r.Version <= 3 }
func (r *TxnOffsetCommitResponse) requiredVersion() KafkaVersion {
	if r.Version >= 2 {
		return V2_1_0_0
	}
	return V0_11_0_0
}
func (r *TxnOffsetCommitResponse) throttleTime() int32 { return r.ThrottleTimeMs }
