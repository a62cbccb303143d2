package kafka

func init() {
	registerAPI(apiKeyDeleteGroups, "DeleteGroups", 0, 2,
		func() protocolBody { return &DeleteGroupsRequest{} },
		func() protocolBody { return &DeleteGroupsResponse{} })
}

// DeleteGroupsRequest removes empty consumer groups' metadata from the
// coordinator; backs ClusterAdmin.DeleteConsumerGroup.
type DeleteGroupsRequest struct {
	Version int16
	Groups  []string
}

func (d *DeleteGroupsRequest) setVersion(v int16) { d.Version = v }

func (d *DeleteGroupsRequest) encode(pe packetEncoder) error {
	return pe.putStringArray(d.Groups)
}

func (d *DeleteGroupsRequest) decode(pd packetDecoder, version int16) (err error) {
	d.Version = version
	d.Groups, err = pd.getStringArray()
	return err
}

func (d *DeleteGroupsRequest) key() int16          { return apiKeyDeleteGroups }
func (d *DeleteGroupsRequest) version() int16       { return d.Version }
func (d *DeleteGroupsRequest) headerVersion() int16 { return 1 }
func (d *DeleteGroupsRequest) isValidVersion() bool { return d.Version >= 0 && d.Version <= 2 }
func (d *DeleteGroupsRequest) requiredVersion() KafkaVersion { return V1_1_0_0 }

type DeleteGroupsResponse struct {
	Version         int16
	ThrottleTimeMs  int32
	GroupErrorCodes map[string]KError
}

func (d *DeleteGroupsResponse) setVersion(v int16) { d.Version = v }

func (d *DeleteGroupsResponse) encode(pe packetEncoder) error {
	pe.putInt32(d.ThrottleTimeMs)
	if err := pe.putArrayLength(len(d.GroupErrorCodes)); err != nil {
		return err
	}
	for group, kerr := range d.GroupErrorCodes {
		if err := pe.putString(group); err != nil {
			return err
		}
		pe.putInt16(int16(kerr))
	}
	return nil
}

func (d *DeleteGroupsResponse) decode(pd packetDecoder, version int16) (err error) {
	d.Version = version
	if d.ThrottleTimeMs, err = pd.getInt32(); err != nil {
		return err
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	d.GroupErrorCodes = make(map[string]KError, n)
	for i := 0; i < n; i++ {
		group, err := pd.getString()
		if err != nil {
			return err
		}
		ec, err := pd.getInt16()
		if err != nil {
			return err
		}
		d.GroupErrorCodes[group] = KError(ec)
	}
	return nil
}

func (d *DeleteGroupsResponse) key() int16          { return apiKeyDeleteGroups }
func (d *DeleteGroupsResponse) version() int16       { return d.Version }
func (d *DeleteGroupsResponse) headerVersion() int16 { return 0 }
func (d *DeleteGroupsResponse) isValidVersion() bool { return d.Version >= 0 && d.Version <= 2 }
func (d *DeleteGroupsResponse) requiredVersion() KafkaVersion { return V1_1_0_0 }
func (d *DeleteGroupsResponse) throttleTime() int32           { return d.ThrottleTimeMs }
