package kafka

func init() {
	registerAPI(apiKeyDescribeGroups, "DescribeGroups", 0, 1,
		func() protocolBody { return &DescribeGroupsRequest{} },
		func() protocolBody { return &DescribeGroupsResponse{} })
}

// DescribeGroupsRequest backs ClusterAdmin.DescribeConsumerGroups, fetching
// full group membership and assignment state from the group coordinator.
type DescribeGroupsRequest struct {
	Version int16
	Groups  []string
}

func (d *DescribeGroupsRequest) setVersion(v int16) { d.Version = v }

func (d *DescribeGroupsRequest) encode(pe packetEncoder) error {
	return pe.putStringArray(d.Groups)
}

func (d *DescribeGroupsRequest) decode(pd packetDecoder, version int16) (err error) {
	d.Version = version
	d.Groups, err = pd.getStringArray()
	return err
}

func (d *DescribeGroupsRequest) key() int16          { return apiKeyDescribeGroups }
func (d *DescribeGroupsRequest) version() int16       { return d.Version }
func (d *DescribeGroupsRequest) headerVersion() int16 { return 1 }
func (d *DescribeGroupsRequest) isValidVersion() bool { return d.Version >= 0 && d.Version <= 1 }
func (d *DescribeGroupsRequest) requiredVersion() KafkaVersion {
	if d.Version >= 1 {
		return V1_1_0_0
	}
	return V0_9_0_0
}

type GroupMemberDescription struct {
	MemberID         string
	GroupInstanceID  *string
	ClientID         string
	ClientHost       string
	MemberMetadata   []byte
	MemberAssignment []byte
}

type GroupDescription struct {
	Err          KError
	GroupID      string
	State        string
	ProtocolType string
	Protocol     string
	Members      map[string]*GroupMemberDescription
}

type DescribeGroupsResponse struct {
	Version        int16
	ThrottleTimeMs int32
	Groups         []*GroupDescription
}

func (d *DescribeGroupsResponse) setVersion(v int16) { d.Version = v }

func (d *DescribeGroupsResponse) encode(pe packetEncoder) error {
	if d.Version >= 1 {
		pe.putInt32(d.ThrottleTimeMs)
	}
	if err := pe.putArrayLength(len(d.Groups)); err != nil {
		return err
	}
	for _, g := range d.Groups {
		pe.putInt16(int16(g.Err))
		if err := pe.putString(g.GroupID); err != nil {
			return err
		}
		if err := pe.putString(g.State); err != nil {
			return err
		}
		if err := pe.putString(g.ProtocolType); err != nil {
			return err
		}
		if err := pe.putString(g.Protocol); err != nil {
			return err
		}
		if err := pe.putArrayLength(len(g.Members)); err != nil {
			return err
		}
		for memberID, m := range g.Members {
			if err := pe.putString(memberID); err != nil {
				return err
			}
			if err := pe.putString(m.ClientID); err != nil {
				return err
			}
			if err := pe.putString(m.ClientHost); err != nil {
				return err
			}
			if err := pe.putBytes(m.MemberMetadata); err != nil {
				return err
			}
			if err := pe.putBytes(m.MemberAssignment); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *DescribeGroupsResponse) decode(pd packetDecoder, version int16) (err error) {
	d.Version = version
	if version >= 1 {
		if d.ThrottleTimeMs, err = pd.getInt32(); err != nil {
			return err
		}
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	d.Groups = make([]*GroupDescription, n)
	for i := 0; i < n; i++ {
		g := &GroupDescription{}
		ec, err := pd.getInt16()
		if err != nil {
			return err
		}
		g.Err = KError(ec)
		if g.GroupID, err = pd.getString(); err != nil {
			return err
		}
		if g.State, err = pd.getString(); err != nil {
			return err
		}
		if g.ProtocolType, err = pd.getString(); err != nil {
			return err
		}
		if g.Protocol, err = pd.getString(); err != nil {
			return err
		}
		m, err := pd.getArrayLength()
		if err != nil {
			return err
		}
		g.Members = make(map[string]*GroupMemberDescription, m)
		for j := 0; j < m; j++ {
			member := &GroupMemberDescription{}
			if member.MemberID, err = pd.getString(); err != nil {
				return err
			}
			if member.ClientID, err = pd.getString(); err != nil {
				return err
			}
			if member.ClientHost, err = pd.getString(); err != nil {
				return err
			}
			if member.MemberMetadata, err = pd.getBytes(); err != nil {
				return err
			}
			if member.MemberAssignment, err = pd.getBytes(); err != nil {
				return err
			}
			g.Members[member.MemberID] = member
		}
		d.Groups[i] = g
	}
	return nil
}

func (d *DescribeGroupsResponse) key() int16          { return apiKeyDescribeGroups }
func (d *DescribeGroupsResponse) version() int16       { return d.Version }
func (d *DescribeGroupsResponse) headerVersion() int16 { return 0 }
func (d *DescribeGroupsResponse) isValidVersion() bool { return d.Version >= 0 && d.Version <= 1 }
func (d *DescribeGroupsResponse) requiredVersion() KafkaVersion {
	if d.Version >= 1 {
		return V1_1_0_0
	}
	return V0_9_0_0
}
func (d *DescribeGroupsResponse) throttleTime() int32 { return d.ThrottleTimeMs }
