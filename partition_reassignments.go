package kafka

func init() {
	registerAPI(apiKeyAlterPartitionReassignments, "AlterPartitionReassignments", 0, 0,
		func() protocolBody { return &AlterPartitionReassignmentsRequest{} },
		func() protocolBody { return &AlterPartitionReassignmentsResponse{} })
	registerAPI(apiKeyListPartitionReassignments, "ListPartitionReassignments", 0, 0,
		func() protocolBody { return &ListPartitionReassignmentsRequest{} },
		func() protocolBody { return &ListPartitionReassignmentsResponse{} })
}

// AlterPartitionReassignmentsRequest moves partitions to a new set of
// replicas, or (with a nil Replicas) cancels a reassignment in progress;
// backs ClusterAdmin.AlterPartitionReassignments.
type AlterPartitionReassignmentsRequest struct {
	Version   int16
	TimeoutMs int32
	Topics    map[string]map[int32][]int32 // topic -> partition -> new replicas, nil slice cancels
}

func (r *AlterPartitionReassignmentsRequest) setVersion(v int16) { r.Version = v }

func (r *AlterPartitionReassignmentsRequest) encode(pe packetEncoder) error {
	pe.putInt32(r.TimeoutMs)
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
		for partition, replicas := range partitions {
			pe.putInt32(partition)
			if replicas == nil {
				if err := pe.putArrayLength(-1); err != nil {
					return err
				}
				continue
			}
			if err := pe.putInt32Array(replicas); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *AlterPartitionReassignmentsRequest) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if r.TimeoutMs, err = pd.getInt32(); err != nil {
		return err
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	r.Topics = make(map[string]map[int32][]int32, n)
	for i := 0; i < n; i++ {
		topic, err := pd.getString()
		if err != nil {
			return err
		}
		m, err := pd.getArrayLength()
		if err != nil {
			return err
		}
		partitions := make(map[int32][]int32, m)
		for j := 0; j < m; j++ {
			partition, err := pd.getInt32()
			if err != nil {
				return err
			}
			replicas, err := pd.getInt32Array()
			if err != nil {
				return err
			}
			partitions[partition] = replicas
		}
		r.Topics[topic] = partitions
	}
	return nil
}

func (r *AlterPartitionReassignmentsRequest) key() int16          { return apiKeyAlterPartitionReassignments }
func (r *AlterPartitionReassignmentsRequest) version() int16       { return r.Version }
func (r *AlterPartitionReassignmentsRequest) headerVersion() int16 { return 1 }
func (r *AlterPartitionReassignmentsRequest) isValidVersion() bool { return r.Version == 0 }
func (r *AlterPartitionReassignmentsRequest) requiredVersion() KafkaVersion { return V2_4_0_0 }

type AlterPartitionReassignmentsResponsePartition struct {
	Partition    int32
	ErrorCode    int16
	ErrorMessage *string
}

type AlterPartitionReassignmentsResponse struct {
	Version        int16
	ThrottleTimeMs int32
	ErrorCode      int16
	ErrorMessage   *string
	Topics         map[string][]AlterPartitionReassignmentsResponsePartition
}

func (r *AlterPartitionReassignmentsResponse) setVersion(v int16) { r.Version = v }

func (r *AlterPartitionReassignmentsResponse) encode(pe packetEncoder) error {
	pe.putInt32(r.ThrottleTimeMs)
	pe.putInt16(r.ErrorCode)
	if err := pe.putNullableString(r.ErrorMessage); err != nil {
		return err
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

func (r *AlterPartitionReassignmentsResponse) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if r.ThrottleTimeMs, err = pd.getInt32(); err != nil {
		return err
	}
	if r.ErrorCode, err = pd.getInt16(); err != nil {
		return err
	}
	if r.ErrorMessage, err = pd.getNullableString(); err != nil {
		return err
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	r.Topics = make(map[string][]AlterPartitionReassignmentsResponsePartition, n)
	for i := 0; i < n; i++ {
		topic, err := pd.getString()
		if err != nil {
			return err
		}
		m, err := pd.getArrayLength()
		if err != nil {
			return err
		}
		partitions := make([]AlterPartitionReassignmentsResponsePartition, m)
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
			partitions[j] = AlterPartitionReassignmentsResponsePartition{Partition: partition, ErrorCode: errCode, ErrorMessage: errMsg}
		}
		r.Topics[topic] = partitions
	}
	return nil
}

func (r *AlterPartitionReassignmentsResponse) key() int16          { return apiKeyAlterPartitionReassignments }
func (r *AlterPartitionReassignmentsResponse) version() int16       { return r.Version }
func (r *AlterPartitionReassignmentsResponse) headerVersion() int16 { return 0 }
func (r *AlterPartitionReassignmentsResponse) isValidVersion() bool { return r.Version == 0 }
func (r *AlterPartitionReassignmentsResponse) requiredVersion() KafkaVersion { return V2_4_0_0 }
func (r *AlterPartitionReassignmentsResponse) throttleTime() int32           { return r.ThrottleTimeMs }

// ListPartitionReassignmentsRequest queries in-flight reassignments; a nil
// Topics lists every topic with one in progress.
type ListPartitionReassignmentsRequest struct {
	Version   int16
	TimeoutMs int32
	Topics    map[string][]int32
}

func (r *ListPartitionReassignmentsRequest) setVersion(v int16) { r.Version = v }

func (r *ListPartitionReassignmentsRequest) encode(pe packetEncoder) error {
	pe.putInt32(r.TimeoutMs)
	if r.Topics == nil {
		return pe.putArrayLength(-1)
	}
	if err := pe.putArrayLength(len(r.Topics)); err != nil {
		return err
	}
	for topic, partitions := range r.Topics {
		if err := pe.putString(topic); err != nil {
			return err
		}
		if err := pe.putInt32Array(partitions); err != nil {
			return err
		}
	}
	return nil
}

func (r *ListPartitionReassignmentsRequest) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if r.TimeoutMs, err = pd.getInt32(); err != nil {
		return err
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	if n < 0 {
		r.Topics = nil
		return nil
	}
	r.Topics = make(map[string][]int32, n)
	for i := 0; i < n; i++ {
		topic, err := pd.getString()
		if err != nil {
			return err
		}
		partitions, err := pd.getInt32Array()
		if err != nil {
			return err
		}
		r.Topics[topic] = partitions
	}
	return nil
}

func (r *ListPartitionReassignmentsRequest) key() int16          { return apiKeyListPartitionReassignments }
func (r *ListPartitionReassignmentsRequest) version() int16       { return r.Version }
func (r *ListPartitionReassignmentsRequest) headerVersion() int16 { return 1 }
func (r *ListPartitionReassignmentsRequest) isValidVersion() bool { return r.Version == 0 }
func (r *ListPartitionReassignmentsRequest) requiredVersion() KafkaVersion { return V2_4_0_0 }

type OngoingPartitionReassignment struct {
	Partition        int32
	Replicas         []int32
	AddingReplicas   []int32
	RemovingReplicas []int32
}

type ListPartitionReassignmentsResponse struct {
	Version        int16
	ThrottleTimeMs int32
	ErrorCode      int16
	ErrorMessage   *string
	Topics         map[string][]OngoingPartitionReassignment
}

func (r *ListPartitionReassignmentsResponse) setVersion(v int16) { r.Version = v }

func (r *ListPartitionReassignmentsResponse) encode(pe packetEncoder) error {
	pe.putInt32(r.ThrottleTimeMs)
	pe.putInt16(r.ErrorCode)
	if err := pe.putNullableString(r.ErrorMessage); err != nil {
		return err
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
			if err := pe.putInt32Array(p.Replicas); err != nil {
				return err
			}
			if err := pe.putInt32Array(p.AddingReplicas); err != nil {
				return err
			}
			if err := pe.putInt32Array(p.RemovingReplicas); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *ListPartitionReassignmentsResponse) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if r.ThrottleTimeMs, err = pd.getInt32(); err != nil {
		return err
	}
	if r.ErrorCode, err = pd.getInt16(); err != nil {
		return err
	}
	if r.ErrorMessage, err = pd.getNullableString(); err != nil {
		return err
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	r.Topics = make(map[string][]OngoingPartitionReassignment, n)
	for i := 0; i < n; i++ {
		topic, err := pd.getString()
		if err != nil {
			return err
		}
		m, err := pd.getArrayLength()
		if err != nil {
			return err
		}
		partitions := make([]OngoingPartitionReassignment, m)
		for j := 0; j < m; j++ {
			partition, err := pd.getInt32()
			if err != nil {
				return err
			}
			replicas, err := pd.getInt32Array()
			if err != nil {
				return err
			}
			adding, err := pd.getInt32Array()
			if err != nil {
				return err
			}
			removing, err := pd.getInt32Array()
			if err != nil {
				return err
			}
			partitions[j] = OngoingPartitionReassignment{Partition: partition, Replicas: replicas, AddingReplicas: adding, RemovingReplicas: removing}
		}
		r.Topics[topic] = partitions
	}
	return nil
}

func (r *ListPartitionReassignmentsResponse) key() int16          { return apiKeyListPartitionReassignments }
func (r *ListPartitionReassignmentsResponse) version() int16       { return r.Version }
func (r *ListPartitionReassignmentsResponse) headerVersion() int16 { return 0 }
func (r *ListPartitionReassignmentsResponse) isValidVersion() bool { return r.Version == 0 }
func (r *ListPartitionReassignmentsResponse) requiredVersion() KafkaVersion { return V2_4_0_0 }
func (r *ListPartitionReassignmentsResponse) throttleTime() int32           { return r.ThrottleTimeMs }
