package kafka

func init() {
	registerAPI(apiKeyMetadata, "Metadata", 0, 9,
		func() protocolBody { return &MetadataRequest{} },
		func() protocolBody { return &MetadataResponse{} })
}

// MetadataRequest asks for the broker list, controller id, and topic/partition
// layout of the cluster (§4.E). From version 1 on, a nil Topics slice means
// "all topics" and an empty non-nil slice means "no topics, just
// broker/controller info"; at version 0 both encode as an empty array, which
// asks for all topics.
type MetadataRequest struct {
	Version                int16
	Topics                 []string
	AllowAutoTopicCreation bool
	IncludeClusterAuthorizedOperations bool
	IncludeTopicAuthorizedOperations   bool
}

func (r *MetadataRequest) setVersion(v int16) { r.Version = v }

func (r *MetadataRequest) encode(pe packetEncoder) error {
	if r.Version < 0 {
		return nil
	}

	if r.Version == 0 || r.Topics != nil {
		if r.Version >= 9 {
			pe.putCompactArrayLength(len(r.Topics))
		} else if err := pe.putArrayLength(len(r.Topics)); err != nil {
			return err
		}
		for _, topic := range r.Topics {
			if r.Version >= 9 {
				if err := pe.putCompactString(topic); err != nil {
					return err
				}
				pe.putEmptyTaggedFieldArray()
			} else if err := pe.putString(topic); err != nil {
				return err
			}
		}
	} else {
		if r.Version >= 9 {
			pe.putCompactArrayLength(-1)
		} else if err := pe.putArrayLength(-1); err != nil {
			return err
		}
	}

	if r.Version >= 4 {
		pe.putBool(r.AllowAutoTopicCreation)
	}
	if r.Version >= 8 && r.Version < 10 {
		pe.putBool(r.IncludeClusterAuthorizedOperations)
		pe.putBool(r.IncludeTopicAuthorizedOperations)
	}
	if r.Version >= 9 {
		pe.putEmptyTaggedFieldArray()
	}
	return nil
}

func (r *MetadataRequest) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version

	var n int
	if version >= 9 {
		n, err = pd.getCompactArrayLength()
	} else {
		n, err = pd.getArrayLength()
	}
	if err != nil {
		return err
	}

	if n == -1 {
		r.Topics = nil
	} else {
		r.Topics = make([]string, n)
		for i := range r.Topics {
			if version >= 9 {
				if r.Topics[i], err = pd.getCompactString(); err != nil {
					return err
				}
				if _, err = pd.getEmptyTaggedFieldArray(); err != nil {
					return err
				}
			} else if r.Topics[i], err = pd.getString(); err != nil {
				return err
			}
		}
	}

	if version >= 4 {
		if r.AllowAutoTopicCreation, err = pd.getBool(); err != nil {
			return err
		}
	}
	if version >= 8 && version < 10 {
		if r.IncludeClusterAuthorizedOperations, err = pd.getBool(); err != nil {
			return err
		}
		if r.IncludeTopicAuthorizedOperations, err = pd.getBool(); err != nil {
			return err
		}
	}
	if version >= 9 {
		if _, err = pd.getEmptyTaggedFieldArray(); err != nil {
			return err
		}
	}
	return nil
}

func (r *MetadataRequest) key() int16              { return apiKeyMetadata }
func (r *MetadataRequest) version() int16           { return r.Version }
func (r *MetadataRequest) headerVersion() int16 {
	if r.Version >= 9 {
		return 2
	}
	return 1
}
func (r *MetadataRequest) isValidVersion() bool { return r.Version >= 0 && r.Version <= 9 }
func (r *MetadataRequest) requiredVersion() KafkaVersion {
	switch {
	case r.Version >= 9:
		return V2_4_0_0
	case r.Version >= 4:
		return V1_0_0_0
	default:
		return V0_10_0_0
	}
}

type MetadataBroker struct {
	NodeID int32
	Host   string
	Port   int32
	Rack   *string
}

type MetadataPartition struct {
	Err             KError
	ID              int32
	Leader          int32
	LeaderEpoch     int32
	Replicas        []int32
	Isr             []int32
	OfflineReplicas []int32
}

type MetadataTopic struct {
	Err        KError
	Name       string
	TopicID    KUUID
	IsInternal bool
	Partitions []*MetadataPartition
}

type MetadataResponse struct {
	Version                  int16
	ThrottleTimeMs            int32
	Brokers                   []*MetadataBroker
	ClusterID                 *string
	ControllerID               int32
	Topics                    []*MetadataTopic
	ClusterAuthorizedOperations int32
}

func (r *MetadataResponse) setVersion(v int16) { r.Version = v }

func (r *MetadataResponse) encode(pe packetEncoder) error {
	version := r.Version
	if version >= 3 {
		pe.putInt32(r.ThrottleTimeMs)
	}

	if version >= 9 {
		pe.putCompactArrayLength(len(r.Brokers))
	} else if err := pe.putArrayLength(len(r.Brokers)); err != nil {
		return err
	}
	for _, b := range r.Brokers {
		pe.putInt32(b.NodeID)
		if version >= 9 {
			if err := pe.putCompactString(b.Host); err != nil {
				return err
			}
		} else if err := pe.putString(b.Host); err != nil {
			return err
		}
		pe.putInt32(b.Port)
		if version >= 1 {
			if version >= 9 {
				if err := pe.putNullableCompactString(b.Rack); err != nil {
					return err
				}
			} else if err := pe.putNullableString(b.Rack); err != nil {
				return err
			}
		}
		if version >= 9 {
			pe.putEmptyTaggedFieldArray()
		}
	}

	if version >= 2 {
		if version >= 9 {
			if err := pe.putNullableCompactString(r.ClusterID); err != nil {
				return err
			}
		} else if err := pe.putNullableString(r.ClusterID); err != nil {
			return err
		}
	}
	if version >= 1 {
		pe.putInt32(r.ControllerID)
	}

	if version >= 9 {
		pe.putCompactArrayLength(len(r.Topics))
	} else if err := pe.putArrayLength(len(r.Topics)); err != nil {
		return err
	}
	for _, t := range r.Topics {
		pe.putInt16(int16(t.Err))
		if version >= 9 {
			if err := pe.putCompactString(t.Name); err != nil {
				return err
			}
		} else if err := pe.putString(t.Name); err != nil {
			return err
		}
		if version >= 10 {
			if err := pe.putUUID(t.TopicID); err != nil {
				return err
			}
		}
		if version >= 1 {
			pe.putBool(t.IsInternal)
		}

		if version >= 9 {
			pe.putCompactArrayLength(len(t.Partitions))
		} else if err := pe.putArrayLength(len(t.Partitions)); err != nil {
			return err
		}
		for _, p := range t.Partitions {
			pe.putInt16(int16(p.Err))
			pe.putInt32(p.ID)
			pe.putInt32(p.Leader)
			if version >= 7 {
				pe.putInt32(p.LeaderEpoch)
			}
			if version >= 9 {
				pe.putCompactArrayLength(len(p.Replicas))
				for _, r := range p.Replicas {
					pe.putInt32(r)
				}
			} else if err := pe.putInt32Array(p.Replicas); err != nil {
				return err
			}
			if version >= 9 {
				pe.putCompactArrayLength(len(p.Isr))
				for _, r := range p.Isr {
					pe.putInt32(r)
				}
			} else if err := pe.putInt32Array(p.Isr); err != nil {
				return err
			}
			if version >= 5 {
				if version >= 9 {
					pe.putCompactArrayLength(len(p.OfflineReplicas))
					for _, r := range p.OfflineReplicas {
						pe.putInt32(r)
					}
				} else if err := pe.putInt32Array(p.OfflineReplicas); err != nil {
					return err
				}
			}
			if version >= 9 {
				pe.putEmptyTaggedFieldArray()
			}
		}

		if version >= 8 {
			pe.putInt32(0) // topic authorized operations, not tracked
		}
		if version >= 9 {
			pe.putEmptyTaggedFieldArray()
		}
	}

	if version >= 8 {
		pe.putInt32(r.ClusterAuthorizedOperations)
	}
	if version >= 9 {
		pe.putEmptyTaggedFieldArray()
	}
	return nil
}

func (r *MetadataResponse) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version

	if version >= 3 {
		if r.ThrottleTimeMs, err = pd.getInt32(); err != nil {
			return err
		}
	}

	var n int
	if version >= 9 {
		n, err = pd.getCompactArrayLength()
	} else {
		n, err = pd.getArrayLength()
	}
	if err != nil {
		return err
	}
	r.Brokers = make([]*MetadataBroker, n)
	for i := range r.Brokers {
		b := &MetadataBroker{}
		if b.NodeID, err = pd.getInt32(); err != nil {
			return err
		}
		if version >= 9 {
			if b.Host, err = pd.getCompactString(); err != nil {
				return err
			}
		} else if b.Host, err = pd.getString(); err != nil {
			return err
		}
		if b.Port, err = pd.getInt32(); err != nil {
			return err
		}
		if version >= 1 {
			if version >= 9 {
				if b.Rack, err = pd.getCompactNullableString(); err != nil {
					return err
				}
			} else if b.Rack, err = pd.getNullableString(); err != nil {
				return err
			}
		}
		if version >= 9 {
			if _, err = pd.getEmptyTaggedFieldArray(); err != nil {
				return err
			}
		}
		r.Brokers[i] = b
	}

	if version >= 2 {
		if version >= 9 {
			if r.ClusterID, err = pd.getCompactNullableString(); err != nil {
				return err
			}
		} else if r.ClusterID, err = pd.getNullableString(); err != nil {
			return err
		}
	}
	if version >= 1 {
		if r.ControllerID, err = pd.getInt32(); err != nil {
			return err
		}
	}

	if version >= 9 {
		n, err = pd.getCompactArrayLength()
	} else {
		n, err = pd.getArrayLength()
	}
	if err != nil {
		return err
	}
	r.Topics = make([]*MetadataTopic, n)
	for i := range r.Topics {
		t := &MetadataTopic{}
		errCode, err := pd.getInt16()
		if err != nil {
			return err
		}
		t.Err = KError(errCode)
		if version >= 9 {
			if t.Name, err = pd.getCompactString(); err != nil {
				return err
			}
		} else if t.Name, err = pd.getString(); err != nil {
			return err
		}
		if version >= 10 {
			if t.TopicID, err = pd.getUUID(); err != nil {
				return err
			}
		}
		if version >= 1 {
			if t.IsInternal, err = pd.getBool(); err != nil {
				return err
			}
		}

		var np int
		if version >= 9 {
			np, err = pd.getCompactArrayLength()
		} else {
			np, err = pd.getArrayLength()
		}
		if err != nil {
			return err
		}
		t.Partitions = make([]*MetadataPartition, np)
		for j := range t.Partitions {
			p := &MetadataPartition{}
			pErrCode, err := pd.getInt16()
			if err != nil {
				return err
			}
			p.Err = KError(pErrCode)
			if p.ID, err = pd.getInt32(); err != nil {
				return err
			}
			if p.Leader, err = pd.getInt32(); err != nil {
				return err
			}
			if version >= 7 {
				if p.LeaderEpoch, err = pd.getInt32(); err != nil {
					return err
				}
			}
			if version >= 9 {
				if p.Replicas, err = pd.getCompactInt32Array(); err != nil {
					return err
				}
				if p.Isr, err = pd.getCompactInt32Array(); err != nil {
					return err
				}
			} else {
				if p.Replicas, err = pd.getInt32Array(); err != nil {
					return err
				}
				if p.Isr, err = pd.getInt32Array(); err != nil {
					return err
				}
			}
			if version >= 5 {
				if version >= 9 {
					if p.OfflineReplicas, err = pd.getCompactInt32Array(); err != nil {
						return err
					}
				} else if p.OfflineReplicas, err = pd.getInt32Array(); err != nil {
					return err
				}
			}
			if version >= 9 {
				if _, err = pd.getEmptyTaggedFieldArray(); err != nil {
					return err
				}
			}
			t.Partitions[j] = p
		}

		if version >= 8 {
			if _, err = pd.getInt32(); err != nil {
				return err
			}
		}
		if version >= 9 {
			if _, err = pd.getEmptyTaggedFieldArray(); err != nil {
				return err
			}
		}
		r.Topics[i] = t
	}

	if version >= 8 {
		if r.ClusterAuthorizedOperations, err = pd.getInt32(); err != nil {
			return err
		}
	}
	if version >= 9 {
		if _, err = pd.getEmptyTaggedFieldArray(); err != nil {
			return err
		}
	}
	return nil
}

func (r *MetadataResponse) key() int16              { return apiKeyMetadata }
func (r *MetadataResponse) version() int16           { return r.Version }
func (r *MetadataResponse) headerVersion() int16 {
	if r.Version >= 9 {
		return 1
	}
	return 0
}
func (r *MetadataResponse) isValidVersion() bool { return r.Version >= 0 && r.Version <= 9 }
func (r *MetadataResponse) requiredVersion() KafkaVersion {
	switch {
	case r.Version >= 9:
		return V2_4_0_0
	case r.Version >= 4:
		return V1_0_0_0
	default:
		return V0_10_0_0
	}
}
func (r *MetadataResponse) throttleTime() int32 { return r.ThrottleTimeMs }

func (r *MetadataResponse) extractErrors() []errorPath {
	var errs []errorPath
	for _, t := range r.Topics {
		if t.Err != ErrNoError {
			errs = append(errs, errorPath{Path: "/topics/" + t.Name, Code: t.Err})
		}
		for _, p := range t.Partitions {
			if p.Err != ErrNoError {
				errs = append(errs, errorPath{Path: "/topics/" + t.Name + "/partitions", Code: p.Err})
			}
		}
	}
	return errs
}
