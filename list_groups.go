package kafka

func init() {
	registerAPI(apiKeyListGroups, "ListGroups", 0, 2,
		func() protocolBody { return &ListGroupsRequest{} },
		func() protocolBody { return &ListGroupsResponse{} })
}

// ListGroupsRequest enumerates every consumer group a single broker
// coordinates; ClusterAdmin.ListConsumerGroups fans this out to all brokers
// and merges the results.
type ListGroupsRequest struct {
	Version int16
}

func (l *ListGroupsRequest) setVersion(v int16)                  { l.Version = v }
func (l *ListGroupsRequest) encode(pe packetEncoder) error        { return nil }
func (l *ListGroupsRequest) decode(pd packetDecoder, version int16) error {
	l.Version = version
	return nil
}
func (l *ListGroupsRequest) key() int16          { return apiKeyListGroups }
func (l *ListGroupsRequest) version() int16       { return l.Version }
func (l *ListGroupsRequest) headerVersion() int16 { return 1 }
func (l *ListGroupsRequest) isValidVersion() bool { return l.Version >= 0 && l.Version <= 2 }
func (l *ListGroupsRequest) requiredVersion() KafkaVersion {
	if l.Version >= 1 {
		return V2_0_0_0
	}
	return V0_9_0_0
}

type ListGroupsResponse struct {
	Version        int16
	ThrottleTimeMs int32
	Err            KError
	Groups         map[string]string
}

func (l *ListGroupsResponse) setVersion(v int16) { l.Version = v }

func (l *ListGroupsResponse) encode(pe packetEncoder) error {
	if l.Version >= 1 {
		pe.putInt32(l.ThrottleTimeMs)
	}
	pe.putInt16(int16(l.Err))
	if err := pe.putArrayLength(len(l.Groups)); err != nil {
		return err
	}
	for group, protocolType := range l.Groups {
		if err := pe.putString(group); err != nil {
			return err
		}
		if err := pe.putString(protocolType); err != nil {
			return err
		}
	}
	return nil
}

func (l *ListGroupsResponse) decode(pd packetDecoder, version int16) (err error) {
	l.Version = version
	if version >= 1 {
		if l.ThrottleTimeMs, err = pd.getInt32(); err != nil {
			return err
		}
	}
	ec, err := pd.getInt16()
	if err != nil {
		return err
	}
	l.Err = KError(ec)
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	l.Groups = make(map[string]string, n)
	for i := 0; i < n; i++ {
		group, err := pd.getString()
		if err != nil {
			return err
		}
		protocolType, err := pd.getString()
		if err != nil {
			return err
		}
		l.Groups[group] = protocolType
	}
	return nil
}

func (l *ListGroupsResponse) key() int16          { return apiKeyListGroups }
func (l *ListGroupsResponse) version() int16       { return l.Version }
func (l *ListGroupsResponse) headerVersion() int16 { return 0 }
func (l *ListGroupsResponse) isValidVersion() bool { return l.Version >= 0 && l.Version <= 2 }
func (l *ListGroupsResponse) requiredVersion() KafkaVersion {
	if l.Version >= 1 {
		return V2_0_0_0
	}
	return V0_9_0_0
}
func (l *ListGroupsResponse) throttleTime() int32 { return l.ThrottleTimeMs }
