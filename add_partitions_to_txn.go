package kafka

func init() {
	registerAPI(apiKeyAddPartitionsToTxn, "AddPartitionsToTxn", 0, 2,
		func() protocolBody { return &AddPartitionsToTxnRequest{} },
		func() protocolBody { return &AddPartitionsToTxnResponse{} })
	registerAPI(apiKeyAddOffsetsToTxn, "AddOffsetsToTxn", 0, 2,
		func() protocolBody { return &AddOffsetsToTxnRequest{} },
		func() protocolBody { return &AddOffsetsToTxnResponse{} })
}

// AddPartitionsToTxnRequest registers the partitions a transaction is about
// to write to, a prerequisite the coordinator enforces before EndTxn (§4.H).
type AddPartitionsToTxnRequest struct {
	Version         int16
	TransactionalID string
	ProducerID      int64
	ProducerEpoch   int16
	TopicPartitions map[string][]int32
}

func (r *AddPartitionsToTxnRequest) setVersion(v int16) { r.Version = v }

func (r *AddPartitionsToTxnRequest) encode(pe packetEncoder) error {
	if err := pe.putString(r.TransactionalID); err != nil {
		return err
	}
	pe.putInt64(r.ProducerID)
	pe.putInt16(r.ProducerEpoch)
	if err := pe.putArrayLength(len(r.TopicPartitions)); err != nil {
		return err
	}
	for topic, partitions := range r.TopicPartitions {
		if err := pe.putString(topic); err != nil {
			return err
		}
		if err := pe.putInt32Array(partitions); err != nil {
			return err
		}
	}
	return nil
}

func (r *AddPartitionsToTxnRequest) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if r.TransactionalID, err = pd.getString(); err != nil {
		return err
	}
	if r.ProducerID, err = pd.getInt64(); err != nil {
		return err
	}
	if r.ProducerEpoch, err = pd.getInt16(); err != nil {
		return err
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	r.TopicPartitions = make(map[string][]int32, n)
	for i := 0; i < n; i++ {
		topic, err := pd.getString()
		if err != nil {
			return err
		}
		if r.TopicPartitions[topic], err = pd.getInt32Array(); err != nil {
			return err
		}
	}
	return nil
}

func (r *AddPartitionsToTxnRequest) key() int16          { return apiKeyAddPartitionsToTxn }
func (r *AddPartitionsToTxnRequest) version() int16       { return r.Version }
func (r *AddPartitionsToTxnRequest) headerVersion() int16 { return 1 }
func (r *AddPartitionsToTxnRequest) isValidVersion() bool { return r.Version >= 0 && r.Version <= 2 }
func (r *AddPartitionsToTxnRequest) requiredVersion() KafkaVersion {
	if r.Version >= 1 {
		return V2_0_0_0
	}
	return V0_11_0_0
}

type AddPartitionsToTxnResponse struct {
	Version        int16
	ThrottleTimeMs int32
	Errors         map[string]map[int32]KError
}

func (r *AddPartitionsToTxnResponse) setVersion(v int16) { r.Version = v }

func (r *AddPartitionsToTxnResponse) encode(pe packetEncoder) error {
	pe.putInt32(r.ThrottleTimeMs)
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

func (r *AddPartitionsToTxnResponse) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if r.ThrottleTimeMs, err = pd.getInt32(); err != nil {
		return err
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

func (r *AddPartitionsToTxnResponse) key() int16          { return apiKeyAddPartitionsToTxn }
func (r *AddPartitionsToTxnResponse) version() int16       { return r.Version }
func (r *AddPartitionsToTxnResponse) headerVersion() int16 { return 0 }
func (r *AddPartitionsToTxnResponse) isValidVersion() bool { return r.Version >= 0 && r.Version <= 2 }
func (r *AddPartitionsToTxnResponse) requiredVersion() KafkaVersion {
	if r.Version >= 1 {
		return V2_0_0_0
	}
	return V0_11_0_0
}
func (r *AddPartitionsToTxnResponse) throttleTime() int32 { return r.ThrottleTimeMs }

// AddOffsetsToTxnRequest ties a consumer group's offset commit into the
// current transaction, the read-process-write pattern's commit-offsets leg.
type AddOffsetsToTxnRequest struct {
	Version         int16
	TransactionalID string
	ProducerID      int64
	ProducerEpoch   int16
	GroupID         string
}

func (r *AddOffsetsToTxnRequest) setVersion(v int16) { r.Version = v }

func (r *AddOffsetsToTxnRequest) encode(pe packetEncoder) error {
	if err := pe.putString(r.TransactionalID); err != nil {
		return err
	}
	pe.putInt64(r.ProducerID)
	pe.putInt16(r.ProducerEpoch)
	return pe.putString(r.GroupID)
}

func (r *AddOffsetsToTxnRequest) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if r.TransactionalID, err = pd.getString(); err != nil {
		return err
	}
	if r.ProducerID, err = pd.getInt64(); err != nil {
		return err
	}
	if r.ProducerEpoch, err = pd.getInt16(); err != nil {
		return err
	}
	r.GroupID, err = pd.getString()
	return err
}

func (r *AddOffsetsToTxnRequest) key() int16          { return apiKeyAddOffsetsToTxn }
func (r *AddOffsetsToTxnRequest) version() int16       { return r.Version }
func (r *AddOffsetsToTxnRequest) headerVersion() int16 { return 1 }
func (r *AddOffsetsToTxnRequest) isValidVersion() bool { return r.Version >= 0 && r.Version <= 2 }
func (r *AddOffsetsToTxnRequest) requiredVersion() KafkaVersion {
	if r.Version >= 1 {
		return V2_0_0_0
	}
	return V0_11_0_0
}

type AddOffsetsToTxnResponse struct {
	Version        int16
	ThrottleTimeMs int32
	Err            KError
}

func (r *AddOffsetsToTxnResponse) setVersion(v int16) { r.Version = v }

func (r *AddOffsetsToTxnResponse) encode(pe packetEncoder) error {
	pe.putInt32(r.ThrottleTimeMs)
	pe.putInt16(int16(r.Err))
	return nil
}

func (r *AddOffsetsToTxnResponse) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if r.ThrottleTimeMs, err = pd.getInt32(); err != nil {
		return err
	}
	ec, err := pd.getInt16()
	r.Err = KError(ec)
	return err
}

func (r *AddOffsetsToTxnResponse) key() int16          { return apiKeyAddOffsetsToTxn }
func (r *AddOffsetsToTxnResponse) version() int16       { return r.Version }
func (r *AddOffsetsToTxnResponse) headerVersion() int16 { return 0 }
func (r *AddOffsetsToTxnResponse) isValidVersion() bool { return r.Version >= 0 && r.Version <= 2 }
func (r *AddOffsetsToTxnResponse) requiredVersion() KafkaVersion {
	if r.Version >= 1 {
		return V2_0_0_0
	}
	return V0_11_0_0
}
func (r *AddOffsetsToTxnResponse) throttleTime() int32 { return r.ThrottleTimeMs }
