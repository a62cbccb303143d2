package kafka

import "time"

func init() {
	registerAPI(apiKeyCreateTopics, "CreateTopics", 0, 5,
		func() protocolBody { return &CreateTopicsRequest{} },
		func() protocolBody { return &CreateTopicsResponse{} })
}

// CreateTopicsRequest is the admin operation behind ClusterAdmin.CreateTopic:
// a batch of topic specs, each either carrying an explicit replica
// assignment or a partition count/replication factor pair (§4.G).
type CreateTopicsRequest struct {
	Version      int16
	TopicDetails map[string]*TopicDetail
	Timeout      time.Duration
	ValidateOnly bool
}

func (c *CreateTopicsRequest) setVersion(v int16) { c.Version = v }

func (c *CreateTopicsRequest) encode(pe packetEncoder) error {
	if err := pe.putArrayLength(len(c.TopicDetails)); err != nil {
		return err
	}
	for topic, detail := range c.TopicDetails {
		if err := pe.putString(topic); err != nil {
			return err
		}
		if len(detail.ReplicaAssignment) > 0 {
			pe.putInt32(-1)
			pe.putInt16(-1)
		} else {
			pe.putInt32(detail.NumPartitions)
			pe.putInt16(detail.ReplicationFactor)
		}
		if err := pe.putArrayLength(len(detail.ReplicaAssignment)); err != nil {
			return err
		}
		for partition, replicas := range detail.ReplicaAssignment {
			pe.putInt32(partition)
			if err := pe.putInt32Array(replicas); err != nil {
				return err
			}
		}
		if err := pe.putArrayLength(len(detail.ConfigEntries)); err != nil {
			return err
		}
		for name, value := range detail.ConfigEntries {
			if err := pe.putString(name); err != nil {
				return err
			}
			if err := pe.putNullableString(value); err != nil {
				return err
			}
		}
	}
	pe.putInt32(int32(c.Timeout / time.Millisecond))
	if c.Version >= 1 {
		pe.putBool(c.ValidateOnly)
	}
	return nil
}

func (c *CreateTopicsRequest) decode(pd packetDecoder, version int16) (err error) {
	c.Version = version
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	c.TopicDetails = make(map[string]*TopicDetail, n)
	for i := 0; i < n; i++ {
		topic, err := pd.getString()
		if err != nil {
			return err
		}
		detail := &TopicDetail{}
		if detail.NumPartitions, err = pd.getInt32(); err != nil {
			return err
		}
		if detail.ReplicationFactor, err = pd.getInt16(); err != nil {
			return err
		}
		m, err := pd.getArrayLength()
		if err != nil {
			return err
		}
		if m > 0 {
			detail.ReplicaAssignment = make(map[int32][]int32, m)
			for j := 0; j < m; j++ {
				partition, err := pd.getInt32()
				if err != nil {
					return err
				}
				if detail.ReplicaAssignment[partition], err = pd.getInt32Array(); err != nil {
					return err
				}
			}
		}
		k, err := pd.getArrayLength()
		if err != nil {
			return err
		}
		if k > 0 {
			detail.ConfigEntries = make(map[string]*string, k)
			for j := 0; j < k; j++ {
				name, err := pd.getString()
				if err != nil {
					return err
				}
				value, err := pd.getNullableString()
				if err != nil {
					return err
				}
				detail.ConfigEntries[name] = value
			}
		}
		c.TopicDetails[topic] = detail
	}
	timeout, err := pd.getInt32()
	if err != nil {
		return err
	}
	c.Timeout = time.Duration(timeout) * time.Millisecond
	if version >= 1 {
		if c.ValidateOnly, err = pd.getBool(); err != nil {
			return err
		}
	}
	return nil
}

func (c *CreateTopicsRequest) key() int16          { return apiKeyCreateTopics }
func (c *CreateTopicsRequest) version() int16       { return c.Version }
func (c *CreateTopicsRequest) headerVersion() int16 { return 1 }
func (c *CreateTopicsRequest) isValidVersion() bool { return c.Version >= 0 && c.Version <= 5 }
func (c *CreateTopicsRequest) requiredVersion() KafkaVersion {
	switch {
	case c.Version >= 4:
		return V2_4_0_0
	case c.Version >= 2:
		return V2_0_0_0
	case c.Version >= 1:
		return V0_11_0_0
	default:
		return V0_10_1_0
	}
}

type CreateTopicsResponse struct {
	Version      int16
	ThrottleTime time.Duration
	TopicErrors  map[string]*TopicError
}

func (c *CreateTopicsResponse) setVersion(v int16) { c.Version = v }

func (c *CreateTopicsResponse) encode(pe packetEncoder) error {
	if c.Version >= 2 {
		pe.putInt32(int32(c.ThrottleTime / time.Millisecond))
	}
	if err := pe.putArrayLength(len(c.TopicErrors)); err != nil {
		return err
	}
	for topic, topicErr := range c.TopicErrors {
		if err := pe.putString(topic); err != nil {
			return err
		}
		pe.putInt16(int16(topicErr.Err))
		if c.Version >= 1 {
			if err := pe.putNullableString(topicErr.ErrMsg); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *CreateTopicsResponse) decode(pd packetDecoder, version int16) (err error) {
	c.Version = version
	if version >= 2 {
		throttleTime, err := pd.getInt32()
		if err != nil {
			return err
		}
		c.ThrottleTime = time.Duration(throttleTime) * time.Millisecond
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	c.TopicErrors = make(map[string]*TopicError, n)
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
		if version >= 1 {
			if te.ErrMsg, err = pd.getNullableString(); err != nil {
				return err
			}
		}
		c.TopicErrors[topic] = te
	}
	return nil
}

func (c *CreateTopicsResponse) key() int16          { return apiKeyCreateTopics }
func (c *CreateTopicsResponse) version() int16       { return c.Version }
func (c *CreateTopicsResponse) headerVersion() int16 { return 0 }
func (c *CreateTopicsResponse) isValidVersion() bool { return c.Version >= 0 && c.Version <= 5 }
func (c *CreateTopicsResponse) requiredVersion() KafkaVersion {
	switch {
	case c.Version >= 4:
		return V2_4_0_0
	case c.Version >= 2:
		return V2_0_0_0
	case c.Version >= 1:
		return V0_11_0_0
	default:
		return V0_10_1_0
	}
}
func (c *CreateTopicsResponse) throttleTime() int32 {
	return int32(c.ThrottleTime / time.Millisecond)
}
