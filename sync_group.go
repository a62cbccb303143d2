package kafka

func init() {
	registerAPI(apiKeySyncGroup, "SyncGroup", 0, 5,
		func() protocolBody { return &SyncGroupRequest{} },
		func() protocolBody { return &SyncGroupResponse{} })
}

type SyncGroupAssignment struct {
	MemberID   string
	Assignment []byte
}

// SyncGroupRequest is the JOINING -> SYNCING step: the group leader submits
// the partition assignment it computed for every member, and every member
// (leader included) calls this to receive its own slice of it.
type SyncGroupRequest struct {
	Version         int16
	GroupID         string
	GenerationID    int32
	MemberID        string
	GroupInstanceID *string
	ProtocolType    *string
	ProtocolName    *string
	GroupAssignments []SyncGroupAssignment
}

func (r *SyncGroupRequest) setVersion(v int16) { r.Version = v }

func (r *SyncGroupRequest) encode(pe packetEncoder) error {
	if err := pe.putString(r.GroupID); err != nil {
		return err
	}
	pe.putInt32(r.GenerationID)
	if err := pe.putString(r.MemberID); err != nil {
		return err
	}
	if r.Version >= 3 {
		if err := pe.putNullableString(r.GroupInstanceID); err != nil {
			return err
		}
	}
	if r.Version >= 5 {
		if err := pe.putNullableString(r.ProtocolType); err != nil {
			return err
		}
		if err := pe.putNullableString(r.ProtocolName); err != nil {
			return err
		}
	}
	if err := pe.putArrayLength(len(r.GroupAssignments)); err != nil {
		return err
	}
	for _, a := range r.GroupAssignments {
		if err := pe.putString(a.MemberID); err != nil {
			return err
		}
		if err := pe.putBytes(a.Assignment); err != nil {
			return err
		}
	}
	return nil
}

func (r *SyncGroupRequest) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if r.GroupID, err = pd.getString(); err != nil {
		return err
	}
	if r.GenerationID, err = pd.getInt32(); err != nil {
		return err
	}
	if r.MemberID, err = pd.getString(); err != nil {
		return err
	}
	if version >= 3 {
		if r.GroupInstanceID, err = pd.getNullableString(); err != nil {
			return err
		}
	}
	if version >= 5 {
		if r.ProtocolType, err = pd.getNullableString(); err != nil {
			return err
		}
		if r.ProtocolName, err = pd.getNullableString(); err != nil {
			return err
		}
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	r.GroupAssignments = make([]SyncGroupAssignment, n)
	for i := range r.GroupAssignments {
		if r.GroupAssignments[i].MemberID, err = pd.getString(); err != nil {
			return err
		}
		if r.GroupAssignments[i].Assignment, err = pd.getBytes(); err != nil {
			return err
		}
	}
	return nil
}

func (r *SyncGroupRequest) key() int16          { return apiKeySyncGroup }
func (r *SyncGroupRequest) version() int16       { return r.Version }
func (r *SyncGroupRequest) headerVersion() int16 { return 1 }
func (r *SyncGroupRequest) isValidVersion() bool { return r.Version >= 0 && r.Version <= 5 }
func (r *SyncGroupRequest) requiredVersion() KafkaVersion {
	switch {
	case r.Version >= 3:
		return V2_3_0_0
	case r.Version >= 1:
		return V0_11_0_0
	default:
		return V0_9_0_0
	}
}

type SyncGroupResponse struct {
	Version        int16
	ThrottleTimeMs int32
	Err            KError
	ProtocolType   *string
	ProtocolName   *string
	MemberAssignment []byte
}

func (r *SyncGroupResponse) setVersion(v int16) { r.Version = v }

func (r *SyncGroupResponse) encode(pe packetEncoder) error {
	if r.Version >= 1 {
		pe.putInt32(r.ThrottleTimeMs)
	}
	pe.putInt16(int16(r.Err))
	if r.Version >= 5 {
		if err := pe.putNullableString(r.ProtocolType); err != nil {
			return err
		}
		if err := pe.putNullableString(r.ProtocolName); err != nil {
			return err
		}
	}
	return pe.putBytes(r.MemberAssignment)
}

func (r *SyncGroupResponse) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if version >= 1 {
		if r.ThrottleTimeMs, err = pd.getInt32(); err != nil {
			return err
		}
	}
	errCode, err := pd.getInt16()
	if err != nil {
		return err
	}
	r.Err = KError(errCode)
	if version >= 5 {
		if r.ProtocolType, err = pd.getNullableString(); err != nil {
			return err
		}
		if r.ProtocolName, err = pd.getNullableString(); err != nil {
			return err
		}
	}
	r.MemberAssignment, err = pd.getBytes()
	return err
}

func (r *SyncGroupResponse) key() int16          { return apiKeySyncGroup }
func (r *SyncGroupResponse) version() int16       { return r.Version }
func (r *SyncGroupResponse) headerVersion() int16 { return 0 }
func (r *SyncGroupResponse) isValidVersion() bool { return r.Version >= 0 && r.Version <= 5 }
func (r *SyncGroupResponse) requiredVersion() KafkaVersion {
	if r.Version >= 1 {
		return V0_11_0_0
	}
	return V0_9_0_0
}
func (r *SyncGroupResponse) throttleTime() int32 { return r.ThrottleTimeMs }

// ConsumerGroupMemberAssignment is the decoded form of SyncGroupResponse's
// opaque MemberAssignment bytes for the standard "consumer" protocol type.
type ConsumerGroupMemberAssignment struct {
	Version  int16
	Topics   map[string][]int32
	UserData []byte
}

func (a *ConsumerGroupMemberAssignment) encode(pe packetEncoder) error {
	pe.putInt16(a.Version)
	if err := pe.putArrayLength(len(a.Topics)); err != nil {
		return err
	}
	for topic, partitions := range a.Topics {
		if err := pe.putString(topic); err != nil {
			return err
		}
		if err := pe.putInt32Array(partitions); err != nil {
			return err
		}
	}
	return pe.putBytes(a.UserData)
}

func (a *ConsumerGroupMemberAssignment) decode(pd packetDecoder) (err error) {
	if a.Version, err = pd.getInt16(); err != nil {
		return err
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	a.Topics = make(map[string][]int32, n)
	for i := 0; i < n; i++ {
		topic, err := pd.getString()
		if err != nil {
			return err
		}
		if a.Topics[topic], err = pd.getInt32Array(); err != nil {
			return err
		}
	}
	a.UserData, err = pd.getBytes()
	return err
}
