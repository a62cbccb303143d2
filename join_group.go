package kafka

func init() {
	registerAPI(apiKeyJoinGroup, "JoinGroup", 0, 7,
		func() protocolBody { return &JoinGroupRequest{} },
		func() protocolBody { return &JoinGroupResponse{} })
}

type GroupProtocol struct {
	Name     string
	Metadata []byte
}

// JoinGroupRequest is the first step of the UNJOINED -> JOINING transition
// of the consumer group state machine: members propose their supported
// assignment protocols and the coordinator picks a leader among them.
type JoinGroupRequest struct {
	Version           int16
	GroupID           string
	SessionTimeout    int32
	RebalanceTimeout  int32
	MemberID          string
	GroupInstanceID   *string
	ProtocolType      string
	GroupProtocols    []GroupProtocol
}

func (r *JoinGroupRequest) setVersion(v int16) { r.Version = v }

func (r *JoinGroupRequest) encode(pe packetEncoder) error {
	if err := pe.putString(r.GroupID); err != nil {
		return err
	}
	pe.putInt32(r.SessionTimeout)
	if r.Version >= 1 {
		pe.putInt32(r.RebalanceTimeout)
	}
	if err := pe.putString(r.MemberID); err != nil {
		return err
	}
	if r.Version >= 5 {
		if err := pe.putNullableString(r.GroupInstanceID); err != nil {
			return err
		}
	}
	if err := pe.putString(r.ProtocolType); err != nil {
		return err
	}
	if err := pe.putArrayLength(len(r.GroupProtocols)); err != nil {
		return err
	}
	for _, p := range r.GroupProtocols {
		if err := pe.putString(p.Name); err != nil {
			return err
		}
		if err := pe.putBytes(p.Metadata); err != nil {
			return err
		}
	}
	return nil
}

func (r *JoinGroupRequest) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if r.GroupID, err = pd.getString(); err != nil {
		return err
	}
	if r.SessionTimeout, err = pd.getInt32(); err != nil {
		return err
	}
	if version >= 1 {
		if r.RebalanceTimeout, err = pd.getInt32(); err != nil {
			return err
		}
	}
	if r.MemberID, err = pd.getString(); err != nil {
		return err
	}
	if version >= 5 {
		if r.GroupInstanceID, err = pd.getNullableString(); err != nil {
			return err
		}
	}
	if r.ProtocolType, err = pd.getString(); err != nil {
		return err
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	r.GroupProtocols = make([]GroupProtocol, n)
	for i := range r.GroupProtocols {
		if r.GroupProtocols[i].Name, err = pd.getString(); err != nil {
			return err
		}
		if r.GroupProtocols[i].Metadata, err = pd.getBytes(); err != nil {
			return err
		}
	}
	return nil
}

func (r *JoinGroupRequest) key() int16          { return apiKeyJoinGroup }
func (r *JoinGroupRequest) version() int16       { return r.Version }
func (r *JoinGroupRequest) headerVersion() int16 { return 1 }
func (r *JoinGroupRequest) isValidVersion() bool { return r.Version >= 0 && r.Version <= 7 }
func (r *JoinGroupRequest) requiredVersion() KafkaVersion {
	switch {
	case r.Version >= 5:
		return V2_3_0_0
	case r.Version >= 1:
		return V0_10_1_0
	default:
		return V0_9_0_0
	}
}

type JoinGroupMember struct {
	MemberID        string
	GroupInstanceID *string
	Metadata        []byte
}

type JoinGroupResponse struct {
	Version        int16
	ThrottleTimeMs int32
	Err            KError
	GenerationID   int32
	GroupProtocol  string
	LeaderID       string
	MemberID       string
	Members        []JoinGroupMember
}

func (r *JoinGroupResponse) setVersion(v int16) { r.Version = v }

func (r *JoinGroupResponse) encode(pe packetEncoder) error {
	if r.Version >= 2 {
		pe.putInt32(r.ThrottleTimeMs)
	}
	pe.putInt16(int16(r.Err))
	pe.putInt32(r.GenerationID)
	if err := pe.putString(r.GroupProtocol); err != nil {
		return err
	}
	if err := pe.putString(r.LeaderID); err != nil {
		return err
	}
	if err := pe.putString(r.MemberID); err != nil {
		return err
	}
	if err := pe.putArrayLength(len(r.Members)); err != nil {
		return err
	}
	for _, m := range r.Members {
		if err := pe.putString(m.MemberID); err != nil {
			return err
		}
		if r.Version >= 5 {
			if err := pe.putNullableString(m.GroupInstanceID); err != nil {
				return err
			}
		}
		if err := pe.putBytes(m.Metadata); err != nil {
			return err
		}
	}
	return nil
}

func (r *JoinGroupResponse) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if version >= 2 {
		if r.ThrottleTimeMs, err = pd.getInt32(); err != nil {
			return err
		}
	}
	errCode, err := pd.getInt16()
	if err != nil {
		return err
	}
	r.Err = KError(errCode)
	if r.GenerationID, err = pd.getInt32(); err != nil {
		return err
	}
	if r.GroupProtocol, err = pd.getString(); err != nil {
		return err
	}
	if r.LeaderID, err = pd.getString(); err != nil {
		return err
	}
	if r.MemberID, err = pd.getString(); err != nil {
		return err
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	r.Members = make([]JoinGroupMember, n)
	for i := range r.Members {
		if r.Members[i].MemberID, err = pd.getString(); err != nil {
			return err
		}
		if version >= 5 {
			if r.Members[i].GroupInstanceID, err = pd.getNullableString(); err != nil {
				return err
			}
		}
		if r.Members[i].Metadata, err = pd.getBytes(); err != nil {
			return err
		}
	}
	return nil
}

func (r *JoinGroupResponse) key() int16          { return apiKeyJoinGroup }
func (r *JoinGroupResponse) version() int16       { return r.Version }
func (r *JoinGroupResponse) headerVersion() int16 { return 0 }
func (r *JoinGroupResponse) isValidVersion() bool { return r.Version >= 0 && r.Version <= 7 }
func (r *JoinGroupResponse) requiredVersion() KafkaVersion {
	if r.Version >= 1 {
		return V0_10_1_0
	}
	return V0_9_0_0
}
func (r *JoinGroupResponse) throttleTime() int32 { return r.ThrottleTimeMs }
