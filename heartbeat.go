package kafka

func init() {
	registerAPI(apiKeyHeartbeat, "Heartbeat", 0, 4,
		func() protocolBody { return &HeartbeatRequest{} },
		func() protocolBody { return &HeartbeatResponse{} })
	registerAPI(apiKeyLeaveGroup, "LeaveGroup", 0, 4,
		func() protocolBody { return &LeaveGroupRequest{} },
		func() protocolBody { return &LeaveGroupResponse{} })
}

// HeartbeatRequest keeps a member's session alive while STABLE; a missed
// heartbeat past the session timeout triggers the broker to start a
// rebalance without the member.
type HeartbeatRequest struct {
	Version         int16
	GroupID         string
	GenerationID    int32
	MemberID        string
	GroupInstanceID *string
}

func (r *HeartbeatRequest) setVersion(v int16) { r.Version = v }

func (r *HeartbeatRequest) encode(pe packetEncoder) error {
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
	return nil
}

func (r *HeartbeatRequest) decode(pd packetDecoder, version int16) (err error) {
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
	return nil
}

func (r *HeartbeatRequest) key() int16          { return apiKeyHeartbeat }
func (r *HeartbeatRequest) version() int16       { return r.Version }
func (r *HeartbeatRequest) headerVersion() int16 { return 1 }
func (r *HeartbeatRequest) isValidVersion() bool { return r.Version >= 0 && r.Version <= 4 }
func (r *HeartbeatRequest) requiredVersion() KafkaVersion {
	if r.Version >= 1 {
		return V0_10_1_0
	}
	return V0_9_0_0
}

type HeartbeatResponse struct {
	Version        int16
	ThrottleTimeMs int32
	Err            KError
}

func (r *HeartbeatResponse) setVersion(v int16) { r.Version = v }

func (r *HeartbeatResponse) encode(pe packetEncoder) error {
	if r.Version >= 1 {
		pe.putInt32(r.ThrottleTimeMs)
	}
	pe.putInt16(int16(r.Err))
	return nil
}

func (r *HeartbeatResponse) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if version >= 1 {
		if r.ThrottleTimeMs, err = pd.getInt32(); err != nil {
			return err
		}
	}
	errCode, err := pd.getInt16()
	r.Err = KError(errCode)
	return err
}

func (r *HeartbeatResponse) key() int16          { return apiKeyHeartbeat }
func (r *HeartbeatResponse) version() int16       { return r.Version }
func (r *HeartbeatResponse) headerVersion() int16 { return 0 }
func (r *HeartbeatResponse) isValidVersion() bool { return r.Version >= 0 && r.Version <= 4 }
func (r *HeartbeatResponse) requiredVersion() KafkaVersion {
	if r.Version >= 1 {
		return V0_10_1_0
	}
	return V0_9_0_0
}
func (r *HeartbeatResponse) throttleTime() int32 { return r.ThrottleTimeMs }

// LeaveGroupRequest drives the SYNCING/STABLE -> LEAVING transition: an
// explicit departure lets the coordinator start the next rebalance
// immediately instead of waiting out the session timeout.
type LeaveGroupRequest struct {
	Version  int16
	GroupID  string
	MemberID string
	Members  []LeaveGroupMember // version >= 3
}

type LeaveGroupMember struct {
	MemberID        string
	GroupInstanceID *string
}

func (r *LeaveGroupRequest) setVersion(v int16) { r.Version = v }

func (r *LeaveGroupRequest) encode(pe packetEncoder) error {
	if err := pe.putString(r.GroupID); err != nil {
		return err
	}
	if r.Version < 3 {
		return pe.putString(r.MemberID)
	}
	if err := pe.putArrayLength(len(r.Members)); err != nil {
		return err
	}
	for _, m := range r.Members {
		if err := pe.putString(m.MemberID); err != nil {
			return err
		}
		if err := pe.putNullableString(m.GroupInstanceID); err != nil {
			return err
		}
	}
	return nil
}

func (r *LeaveGroupRequest) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if r.GroupID, err = pd.getString(); err != nil {
		return err
	}
	if version < 3 {
		r.MemberID, err = pd.getString()
		return err
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	r.Members = make([]LeaveGroupMember, n)
	for i := range r.Members {
		if r.Members[i].MemberID, err = pd.getString(); err != nil {
			return err
		}
		if r.Members[i].GroupInstanceID, err = pd.getNullableString(); err != nil {
			return err
		}
	}
	return nil
}

func (r *LeaveGroupRequest) key() int16          { return apiKeyLeaveGroup }
func (r *LeaveGroupRequest) version() int16       { return r.Version }
func (r *LeaveGroupRequest) headerVersion() int16 { return 1 }
func (r *LeaveGroupRequest) isValidVersion() bool { return r.Version >= 0 && r.Version <= 4 }
func (r *LeaveGroupRequest) requiredVersion() KafkaVersion {
	switch {
	case r.Version >= 3:
		return V2_4_0_0
	case r.Version >= 1:
		return V0_11_0_0
	default:
		return V0_9_0_0
	}
}

type LeaveGroupResponse struct {
	Version        int16
	ThrottleTimeMs int32
	Err            KError
	Members        []LeaveGroupMemberResponse
}

type LeaveGroupMemberResponse struct {
	MemberID        string
	GroupInstanceID *string
	Err             KError
}

func (r *LeaveGroupResponse) setVersion(v int16) { r.Version = v }

func (r *LeaveGroupResponse) encode(pe packetEncoder) error {
	if r.Version >= 1 {
		pe.putInt32(r.ThrottleTimeMs)
	}
	pe.putInt16(int16(r.Err))
	if r.Version >= 3 {
		if err := pe.putArrayLength(len(r.Members)); err != nil {
			return err
		}
		for _, m := range r.Members {
			if err := pe.putString(m.MemberID); err != nil {
				return err
			}
			if err := pe.putNullableString(m.GroupInstanceID); err != nil {
				return err
			}
			pe.putInt16(int16(m.Err))
		}
	}
	return nil
}

func (r *LeaveGroupResponse) decode(pd packetDecoder, version int16) (err error) {
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
	if version >= 3 {
		n, err := pd.getArrayLength()
		if err != nil {
			return err
		}
		r.Members = make([]LeaveGroupMemberResponse, n)
		for i := range r.Members {
			if r.Members[i].MemberID, err = pd.getString(); err != nil {
				return err
			}
			if r.Members[i].GroupInstanceID, err = pd.getNullableString(); err != nil {
				return err
			}
			ec, err := pd.getInt16()
			if err != nil {
				return err
			}
			r.Members[i].Err = KError(ec)
		}
	}
	return nil
}

func (r *LeaveGroupResponse) key() int16          { return apiKeyLeaveGroup }
func (r *LeaveGroupResponse) version() int16       { return r.Version }
func (r *LeaveGroupResponse) headerVersion() int16 { return 0 }
func (r *LeaveGroupResponse) isValidVersion() bool { return r.Version >= 0 && r.Version <= 4 }
func (r *LeaveGroupResponse) requiredVersion() KafkaVersion {
	if r.Version >= 1 {
		return V0_11_0_0
	}
	return V0_9_0_0
}
func (r *LeaveGroupResponse) throttleTime() int32 { return r.ThrottleTimeMs }
