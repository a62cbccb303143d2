package kafka

func init() {
	registerAPI(apiKeyOffsetDelete, "OffsetDelete", 0, 0,
		func() protocolBody { return &DeleteOffsetsRequest{} },
		func() protocolBody { return &DeleteOffsetsResponse{} })
}

// DeleteOffsetsRequest removes a group's committed offset for specific
// partitions without deleting the group itself; backs
// ClusterAdmin.DeleteConsumerGroupOffset.
type DeleteOffsetsRequest struct {
	Group      string
	partitions map[string][]int32
}

func (d *DeleteOffsetsRequest) AddPartition(topic string, partition int32) {
	if d.partitions == nil {
		d.partitions = make(map[string][]int32)
	}
	d.partitions[topic] = append(d.partitions[topic], partition)
}

func (d *DeleteOffsetsRequest) setVersion(v int16) {}

func (d *DeleteOffsetsRequest) encode(pe packetEncoder) error {
	if err := pe.putString(d.Group); err != nil {
		return err
	}
	if err := pe.putArrayLength(len(d.partitions)); err != nil {
		return err
	}
	for topic, partitions := range d.partitions {
		if err := pe.putString(topic); err != nil {
			return err
		}
		if err := pe.putInt32Array(partitions); err != nil {
			return err
		}
	}
	return nil
}

func (d *DeleteOffsetsRequest) decode(pd packetDecoder, version int16) (err error) {
	if d.Group, err = pd.getString(); err != nil {
		return err
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	d.partitions = make(map[string][]int32, n)
	for i := 0; i < n; i++ {
		topic, err := pd.getString()
		if err != nil {
			return err
		}
		if d.partitions[topic], err = pd.getInt32Array(); err != nil {
			return err
		}
	}
	return nil
}

func (d *DeleteOffsetsRequest) key() int16          { return apiKeyOffsetDelete }
func (d *DeleteOffsetsRequest) version() int16       { return 0 }
func (d *DeleteOffsetsRequest) headerVersion() int16 { return 1 }
func (d *DeleteOffsetsRequest) isValidVersion() bool { return true }
func (d *DeleteOffsetsRequest) requiredVersion() KafkaVersion { return V2_4_0_0 }

type DeleteOffsetsResponse struct {
	ErrorCode      int16
	ThrottleTimeMs int32
	Errors         map[string]map[int32]KError
}

func (d *DeleteOffsetsResponse) err() error {
	if d.ErrorCode == 0 {
		return nil
	}
	return KError(d.ErrorCode)
}

func (d *DeleteOffsetsResponse) setVersion(v int16) {}

func (d *DeleteOffsetsResponse) encode(pe packetEncoder) error {
	pe.putInt16(d.ErrorCode)
	pe.putInt32(d.ThrottleTimeMs)
	if err := pe.putArrayLength(len(d.Errors)); err != nil {
		return err
	}
	for topic, partitions := range d.Errors {
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

func (d *DeleteOffsetsResponse) decode(pd packetDecoder, version int16) (err error) {
	if d.ErrorCode, err = pd.getInt16(); err != nil {
		return err
	}
	if d.ThrottleTimeMs, err = pd.getInt32(); err != nil {
		return err
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	d.Errors = make(map[string]map[int32]KError, n)
	for i := 0; i < n; i++ {
		topic, err := pd.getString()
		if err != nil {
			return err
		}
		m, err := pd.getArrayLength()
		if err != nil {
			return err
		}
		d.Errors[topic] = make(map[int32]KError, m)
		for j := 0; j < m; j++ {
			partition, err := pd.getInt32()
			if err != nil {
				return err
			}
			ec, err := pd.getInt16()
			if err != nil {
				return err
			}
			d.Errors[topic][partition] = KError(ec)
		}
	}
	return nil
}

func (d *DeleteOffsetsResponse) key() int16                      { return apiKeyOffsetDelete }
func (d *DeleteOffsetsResponse) version() int16                   { return 0 }
func (d *DeleteOffsetsResponse) headerVersion() int16              { return 0 }
func (d *DeleteOffsetsResponse) isValidVersion() bool              { return true }
func (d *DeleteOffsetsResponse) requiredVersion() KafkaVersion     { return V2_4_0_0 }
func (d *DeleteOffsetsResponse) throttleTime() int32               { return d.ThrottleTimeMs }
