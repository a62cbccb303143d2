package kafka

func init() {
	registerAPI(apiKeyElectLeaders, "ElectLeaders", 0, 1,
		func() protocolBody { return &ElectLeadersRequest{} },
		func() protocolBody { return &ElectLeadersResponse{} })
}

// ElectionType selects between a preferred-replica election and an unclean
// one (accepting data loss to restore availability).
type ElectionType int8

const (
	PreferredElection ElectionType = 0
	UncleanElection    ElectionType = 1
)

// ElectLeadersRequest triggers leader election for the named partitions (or,
// with a nil TopicPartitions, every partition needing one); backs
// ClusterAdmin.ElectLeaders.
type ElectLeadersRequest struct {
	Version         int16
	Type            ElectionType
	TopicPartitions map[string][]int32
	TimeoutMs       int32
}

func (r *ElectLeadersRequest) setVersion(v int16) { r.Version = v }

func (r *ElectLeadersRequest) encode(pe packetEncoder) error {
	if r.Version >= 1 {
		pe.putInt8(int8(r.Type))
	}
	if r.TopicPartitions == nil {
		if err := pe.putArrayLength(-1); err != nil {
			return err
		}
	} else {
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
	}
	pe.putInt32(r.TimeoutMs)
	return nil
}

func (r *ElectLeadersRequest) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if version >= 1 {
		t, err := pd.getInt8()
		if err != nil {
			return err
		}
		r.Type = ElectionType(t)
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	if n < 0 {
		r.TopicPartitions = nil
	} else {
		r.TopicPartitions = make(map[string][]int32, n)
		for i := 0; i < n; i++ {
			topic, err := pd.getString()
			if err != nil {
				return err
			}
			partitions, err := pd.getInt32Array()
			if err != nil {
				return err
			}
			r.TopicPartitions[topic] = partitions
		}
	}
	if r.TimeoutMs, err = pd.getInt32(); err != nil {
		return err
	}
	return nil
}

func (r *ElectLeadersRequest) key() int16          { return apiKeyElectLeaders }
func (r *ElectLeadersRequest) version() int16       { return r.Version }
func (r *ElectLeadersRequest) headerVersion() int16 { return 1 }
func (r *ElectLeadersRequest) isValidVersion() bool { return r.Version >= 0 && r.Version <= 1 }
func (r *ElectLeadersRequest) requiredVersion() KafkaVersion { return V2_4_0_0 }

type ElectLeadersResponsePartition struct {
	Partition    int32
	ErrorCode    int16
	ErrorMessage *string
}

type ElectLeadersResponse struct {
	Version        int16
	ThrottleTimeMs int32
	ErrorCode      int16
	Topics         map[string][]ElectLeadersResponsePartition
}

func (r *ElectLeadersResponse) setVersion(v int16) { r.Version = v }

func (r *ElectLeadersResponse) encode(pe packetEncoder) error {
	pe.putInt32(r.ThrottleTimeMs)
	if r.Version >= 1 {
		pe.putInt16(r.ErrorCode)
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
		for _, p := range partitions {
			pe.putInt32(p.Partition)
			pe.putInt16(p.ErrorCode)
			if err := pe.putNullableString(p.ErrorMessage); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *ElectLeadersResponse) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if r.ThrottleTimeMs, err = pd.getInt32(); err != nil {
		return err
	}
	if version >= 1 {
		if r.ErrorCode, err = pd.getInt16(); err != nil {
			return err
		}
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	r.Topics = make(map[string][]ElectLeadersResponsePartition, n)
	for i := 0; i < n; i++ {
		topic, err := pd.getString()
		if err != nil {
			return err
		}
		m, err := pd.getArrayLength()
		if err != nil {
			return err
		}
		partitions := make([]ElectLeadersResponsePartition, m)
		for j := 0; j < m; j++ {
			partition, err := pd.getInt32()
			if err != nil {
				return err
			}
			errCode, err := pd.getInt16()
			if err != nil {
				return err
			}
			errMsg, err := pd.getNullableString()
			if err != nil {
				return err
			}
			partitions[j] = ElectLeadersResponsePartition{Partition: partition, ErrorCode: errCode, ErrorMessage: errMsg}
		}
		r.Topics[topic] = partitions
	}
	return nil
}

func (r *ElectLeadersResponse) key() int16          { return apiKeyElectLeaders }
func (r *ElectLeadersResponse) version() int16       { return r.Version }
func (r *ElectLeadersResponse) headerVersion() int16 { return 0 }
func (r *ElectLeadersResponse) isValidVersion() bool { return r.Version >= 0 && r.Version <= 1 }
func (r *ElectLeadersResponse) requiredVersion() KafkaVersion { return V2_4_0_0 }
func (r *ElectLeadersResponse) throttleTime() int32           { return r.ThrottleTimeMs }
