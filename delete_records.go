package kafka

import "time"

func init() {
	registerAPI(apiKeyDeleteRecords, "DeleteRecords", 0, 1,
		func() protocolBody { return &DeleteRecordsRequest{} },
		func() protocolBody { return &DeleteRecordsResponse{} })
}

type DeleteRecordsRequestTopic struct {
	PartitionOffsets map[int32]int64
}

// DeleteRecordsRequest moves a topic's low watermark forward, deleting
// records before the given offset on every requested partition; backs
// ClusterAdmin.DeleteRecords.
type DeleteRecordsRequest struct {
	Version int16
	Topics  map[string]*DeleteRecordsRequestTopic
	Timeout time.Duration
}

func (d *DeleteRecordsRequest) setVersion(v int16) { d.Version = v }

func (d *DeleteRecordsRequest) encode(pe packetEncoder) error {
	if err := pe.putArrayLength(len(d.Topics)); err != nil {
		return err
	}
	for topic, t := range d.Topics {
		if err := pe.putString(topic); err != nil {
			return err
		}
		if err := pe.putArrayLength(len(t.PartitionOffsets)); err != nil {
			return err
		}
		for partition, offset := range t.PartitionOffsets {
			pe.putInt32(partition)
			pe.putInt64(offset)
		}
	}
	pe.putInt32(int32(d.Timeout / time.Millisecond))
	return nil
}

func (d *DeleteRecordsRequest) decode(pd packetDecoder, version int16) (err error) {
	d.Version = version
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	d.Topics = make(map[string]*DeleteRecordsRequestTopic, n)
	for i := 0; i < n; i++ {
		topic, err := pd.getString()
		if err != nil {
			return err
		}
		m, err := pd.getArrayLength()
		if err != nil {
			return err
		}
		t := &DeleteRecordsRequestTopic{PartitionOffsets: make(map[int32]int64, m)}
		for j := 0; j < m; j++ {
			partition, err := pd.getInt32()
			if err != nil {
				return err
			}
			offset, err := pd.getInt64()
			if err != nil {
				return err
			}
			t.PartitionOffsets[partition] = offset
		}
		d.Topics[topic] = t
	}
	timeout, err := pd.getInt32()
	if err != nil {
		return err
	}
	d.Timeout = time.Duration(timeout) * time.Millisecond
	return nil
}

func (d *DeleteRecordsRequest) key() int16          { return apiKeyDeleteRecords }
func (d *DeleteRecordsRequest) version() int16       { return d.Version }
func (d *DeleteRecordsRequest) headerVersion() int16 { return 1 }
func (d *DeleteRecordsRequest) isValidVersion() bool { return d.Version >= 0 && d.Version <= 1 }
func (d *DeleteRecordsRequest) requiredVersion() KafkaVersion { return V0_11_0_0 }

type DeleteRecordsResponsePartition struct {
	LowWatermark int64
	ErrorCode    int16
}

func (p *DeleteRecordsResponsePartition) err() error {
	if p.ErrorCode == 0 {
		return nil
	}
	return KError(p.ErrorCode)
}

type DeleteRecordsResponseTopic struct {
	Partitions map[int32]*DeleteRecordsResponsePartition
}

type DeleteRecordsResponse struct {
	Version        int16
	ThrottleTimeMs int32
	Topics         map[string]*DeleteRecordsResponseTopic
}

func (d *DeleteRecordsResponse) setVersion(v int16) { d.Version = v }

func (d *DeleteRecordsResponse) encode(pe packetEncoder) error {
	pe.putInt32(d.ThrottleTimeMs)
	if err := pe.putArrayLength(len(d.Topics)); err != nil {
		return err
	}
	for topic, t := range d.Topics {
		if err := pe.putString(topic); err != nil {
			return err
		}
		if err := pe.putArrayLength(len(t.Partitions)); err != nil {
			return err
		}
		for partition, p := range t.Partitions {
			pe.putInt32(partition)
			pe.putInt64(p.LowWatermark)
			pe.putInt16(p.ErrorCode)
		}
	}
	return nil
}

func (d *DeleteRecordsResponse) decode(pd packetDecoder, version int16) (err error) {
	d.Version = version
	if d.ThrottleTimeMs, err = pd.getInt32(); err != nil {
		return err
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	d.Topics = make(map[string]*DeleteRecordsResponseTopic, n)
	for i := 0; i < n; i++ {
		topic, err := pd.getString()
		if err != nil {
			return err
		}
		m, err := pd.getArrayLength()
		if err != nil {
			return err
		}
		t := &DeleteRecordsResponseTopic{Partitions: make(map[int32]*DeleteRecordsResponsePartition, m)}
		for j := 0; j < m; j++ {
			partition, err := pd.getInt32()
			if err != nil {
				return err
			}
			p := &DeleteRecordsResponsePartition{}
			if p.LowWatermark, err = pd.getInt64(); err != nil {
				return err
			}
			if p.ErrorCode, err = pd.getInt16(); err != nil {
				return err
			}
			t.Partitions[partition] = p
		}
		d.Topics[topic] = t
	}
	return nil
}

func (d *DeleteRecordsResponse) key() int16          { return apiKeyDeleteRecords }
func (d *DeleteRecordsResponse) version() int16       { return d.Version }
func (d *DeleteRecordsResponse) headerVersion() int16 { return 0 }
func (d *DeleteRecordsResponse) isValidVersion() bool { return d.Version >= 0 && d.Version <= 1 }
func (d *DeleteRecordsResponse) requiredVersion() KafkaVersion { return V0_11_0_0 }
func (d *DeleteRecordsResponse) throttleTime() int32           { return d.ThrottleTimeMs }
