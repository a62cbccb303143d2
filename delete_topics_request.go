package kafka

import "time"

// DeleteTopicsRequest is the admin operation behind ClusterAdmin's
// DeleteTopic; the broker deletes the topic's logs asynchronously and
// reports only acceptance (or rejection) per topic.
type DeleteTopicsRequest struct {
	Version int16
	Topics  []string
	Timeout time.Duration
}

func (d *DeleteTopicsRequest) setVersion(v int16) { d.Version = v }

func (d *DeleteTopicsRequest) encode(pe packetEncoder) error {
	if err := pe.putStringArray(d.Topics); err != nil {
		return err
	}
	pe.putInt32(int32(d.Timeout / time.Millisecond))
	return nil
}

func (d *DeleteTopicsRequest) decode(pd packetDecoder, version int16) (err error) {
	d.Version = version
	if d.Topics, err = pd.getStringArray(); err != nil {
		return err
	}
	timeout, err := pd.getInt32()
	if err != nil {
		return err
	}
	d.Timeout = time.Duration(timeout) * time.Millisecond
	return nil
}

func (d *DeleteTopicsRequest) key() int16          { return apiKeyDeleteTopics }
func (d *DeleteTopicsRequest) version() int16       { return d.Version }
func (d *DeleteTopicsRequest) headerVersion() int16 { return 1 }
func (d *DeleteTopicsRequest) isValidVersion() bool { return d.Version >= 0 && d.Version <= 3 }
func (d *DeleteTopicsRequest) requiredVersion() KafkaVersion {
	switch {
	case d.Version >= 3:
		return V2_1_0_0
	case d.Version >= 1:
		return V0_11_0_0
	default:
		return V0_10_1_0
	}
}
