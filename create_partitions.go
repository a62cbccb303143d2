package kafka

import "time"

func init() {
	registerAPI(apiKeyCreatePartitions, "CreatePartitions", 0, 3,
		func() protocolBody { return &CreatePartitionsRequest{} },
		func() protocolBody { return &CreatePartitionsResponse{} })
}

// CreatePartitionsRequest grows a topic's partition count; ClusterAdmin
// exposes this as CreatePartitions (§4.G).
type CreatePartitionsRequest struct {
	Version        int16
	TopicPartitions map[string]*TopicPartition
	Timeout        time.Duration
	ValidateOnly   bool
}

func (c *CreatePartitionsRequest) setVersion(v int16) { c.Version = v }

func (c *CreatePartitionsRequest) encode(pe packetEncoder) error {
	if err := pe.putArrayLength(len(c.TopicPartitions)); err != nil {
		return err
	}
	for topic, tp := range c.TopicPartitions {
		if err := pe.putString(topic); err != nil {
			return err
		}
		pe.putInt32(tp.Count)
		if len(tp.Assignment) == 0 {
			pe.putInt32(-1)
		} else {
			if err := pe.putArrayLength(len(tp.Assignment)); err != nil {
				return err
			}
			for _, replicas := range tp.Assignment {
				if err := pe.putInt32Array(replicas); err != nil {
					return err
				}
			}
		}
	}
	pe.putInt32(int32(c.Timeout / time.Millisecond))
	pe.putBool(c.ValidateOnly)
	return nil
}

func (c *CreatePartitionsRequest) decode(pd packetDecoder, version int16) (err error) {
	c.Version = version
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	c.TopicPartitions = make(map[string]*TopicPartition, n)
	for i := 0; i < n; i++ {
		topic, err := pd.getString()
		if err != nil {
			return err
		}
		tp := &TopicPartition{}
		if tp.Count, err = pd.getInt32(); err != nil {
			return err
		}
		m, err := pd.getInt32()
		if err != nil {
			return err
		}
		if m > 0 {
			tp.Assignment = make([][]int32, m)
			for j := 0; j < int(m); j++ {
				if tp.Assignment[j], err = pd.getInt32Array(); err != nil {
					return err
				}
			}
		}
		c.TopicPartitions[topic] = tp
	}
	timeout, err := pd.getInt32()
	if err != nil {
		return err
	}
	c.Timeout = time.Duration(timeout) * time.Millisecond
	c.ValidateOnly, err = pd.getBool()
	return err
}

func (c *CreatePartitionsRequest) key() int16          { return apiKeyCreatePartitions }
func (c *CreatePartitionsRequest) version() int16       { return c.Version }
func (c *CreatePartitionsRequest) headerVersion() int16 { return 1 }
func (c *CreatePartitionsRequest) isValidVersion() bool { return c.Version >= 0 && c.Version <= 3 }
func (c *CreatePartitionsRequest) requiredVersion() KafkaVersion {
	if c.Version >= 2 {
		return V2_4_0_0
	}
	return V1_0_0_0
}

type CreatePartitionsResponse struct {
	Version             int16
	ThrottleTime         time.Duration
	TopicPartitionErrors map[string]*TopicError
}

func (c *CreatePartitionsResponse) setVersion(v int16) { c.Version = v }

func (c *CreatePartitionsResponse) encode(pe packetEncoder) error {
	pe.putInt32(int32(c.ThrottleTime / time.Millisecond))
	if err := pe.putArrayLength(len(c.TopicPartitionErrors)); err != nil {
		return err
	}
	for topic, topicErr := range c.TopicPartitionErrors {
		if err := pe.putString(topic); err != nil {
			return err
		}
		pe.putInt16(int16(topicErr.Err))
		if err := pe.putNullableString(topicErr.ErrMsg); err != nil {
			return err
		}
	}
	return nil
}

func (c *CreatePartitionsResponse) decode(pd packetDecoder, version int16) (err error) {
	c.Version = version
	throttleTime, err := pd.getInt32()
	if err != nil {
		return err
	}
	c.ThrottleTime = time.Duration(throttleTime) * time.Millisecond
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	c.TopicPartitionErrors = make(map[string]*TopicError, n)
	for i := 0; i < n; i++ {
		topic, err := pd.getString()
		if err != nil {
			return err
		}
		te := &TopicError{}
		ec, err := pd.getInt16()
		if err != nil {
			return err
		}
		te.Err = KError(ec)
		if te.ErrMsg, err = pd.getNullableString(); err != nil {
			return err
		}
		c.TopicPartitionErrors[topic] = te
	}
	return nil
}

func (c *CreatePartitionsResponse) key() int16          { return apiKeyCreatePartitions }
func (c *CreatePartitionsResponse) version() int16       { return c.Version }
func (c *CreatePartitionsResponse) headerVersion() int16 { return 0 }
func (c *CreatePartitionsResponse) isValidVersion() bool { return c.Version >= 0 && c.Version <= 3 }
func (c *CreatePartitionsResponse) requiredVersion() KafkaVersion {
	if c.Version >= 2 {
		return V2_4_0_0
	}
	return V1_0_0_0
}
func (c *CreatePartitionsResponse) throttleTime() int32 {
	return int32(c.ThrottleTime / time.Millisecond)
}
