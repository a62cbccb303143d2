package kafka

func init() {
	registerAPI(apiKeyFindCoordinator, "FindCoordinator", 0, 3,
		func() protocolBody { return &FindCoordinatorRequest{} },
		func() protocolBody { return &FindCoordinatorResponse{} })
}

// CoordinatorType distinguishes group coordinators from transaction
// coordinators; both are located via FindCoordinator (§4.E).
type CoordinatorType int8

const (
	CoordinatorGroup       CoordinatorType = 0
	CoordinatorTransaction CoordinatorType = 1
)

type FindCoordinatorRequest struct {
	Version         int16
	CoordinatorKey  string
	CoordinatorType CoordinatorType
}

func (r *FindCoordinatorRequest) setVersion(v int16) { r.Version = v }

func (r *FindCoordinatorRequest) encode(pe packetEncoder) error {
	if r.Version >= 3 {
		if err := pe.putCompactString(r.CoordinatorKey); err != nil {
			return err
		}
	} else if err := pe.putString(r.CoordinatorKey); err != nil {
		return err
	}
	if r.Version >= 1 {
		pe.putInt8(int8(r.CoordinatorType))
	}
	if r.Version >= 3 {
		pe.putEmptyTaggedFieldArray()
	}
	return nil
}

func (r *FindCoordinatorRequest) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if version >= 3 {
		if r.CoordinatorKey, err = pd.getCompactString(); err != nil {
			return err
		}
	} else if r.CoordinatorKey, err = pd.getString(); err != nil {
		return err
	}
	if version >= 1 {
		ct, err := pd.getInt8()
		if err != nil {
			return err
		}
		r.CoordinatorType = CoordinatorType(ct)
	}
	if version >= 3 {
		if _, err = pd.getEmptyTaggedFieldArray(); err != nil {
			return err
		}
	}
	return nil
}

func (r *FindCoordinatorRequest) key() int16          { return apiKeyFindCoordinator }
func (r *FindCoordinatorRequest) version() int16       { return r.Version }
func (r *FindCoordinatorRequest) headerVersion() int16 {
	if r.Version >= 3 {
		return 2
	}
	return 1
}
func (r *FindCoordinatorRequest) isValidVersion() bool { return r.Version >= 0 && r.Version <= 3 }
func (r *FindCoordinatorRequest) requiredVersion() KafkaVersion {
	switch {
	case r.Version >= 2:
		return V2_0_0_0
	case r.Version >= 1:
		return V0_11_0_0
	default:
		return V0_8_2_0
	}
}

type FindCoordinatorResponse struct {
	Version        int16
	ThrottleTimeMs int32
	Err            KError
	ErrorMessage   *string
	Coordinator    MetadataBroker
}

func (r *FindCoordinatorResponse) setVersion(v int16) { r.Version = v }

func (r *FindCoordinatorResponse) encode(pe packetEncoder) error {
	if r.Version >= 1 {
		pe.putInt32(r.ThrottleTimeMs)
	}
	pe.putInt16(int16(r.Err))
	if r.Version >= 1 {
		if r.Version >= 3 {
			if err := pe.putNullableCompactString(r.ErrorMessage); err != nil {
				return err
			}
		} else if err := pe.putNullableString(r.ErrorMessage); err != nil {
			return err
		}
	}
	pe.putInt32(r.Coordinator.NodeID)
	if r.Version >= 3 {
		if err := pe.putCompactString(r.Coordinator.Host); err != nil {
			return err
		}
	} else if err := pe.putString(r.Coordinator.Host); err != nil {
		return err
	}
	pe.putInt32(r.Coordinator.Port)
	if r.Version >= 3 {
		pe.putEmptyTaggedFieldArray()
	}
	return nil
}

func (r *FindCoordinatorResponse) decode(pd packetDecoder, version int16) (err error) {
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
	if version >= 1 {
		if version >= 3 {
			if r.ErrorMessage, err = pd.getCompactNullableString(); err != nil {
				return err
			}
		} else if r.ErrorMessage, err = pd.getNullableString(); err != nil {
			return err
		}
	}
	if r.Coordinator.NodeID, err = pd.getInt32(); err != nil {
		return err
	}
	if version >= 3 {
		if r.Coordinator.Host, err = pd.getCompactString(); err != nil {
			return err
		}
	} else if r.Coordinator.Host, err = pd.getString(); err != nil {
		return err
	}
	if r.Coordinator.Port, err = pd.getInt32(); err != nil {
		return err
	}
	if version >= 3 {
		if _, err = pd.getEmptyTaggedFieldArray(); err != nil {
			return err
		}
	}
	return nil
}

func (r *FindCoordinatorResponse) key() int16          { return apiKeyFindCoordinator }
func (r *FindCoordinatorResponse) version() int16       { return r.Version }
func (r *FindCoordinatorResponse) headerVersion() int16 {
	if r.Version >= 3 {
		return 1
	}
	return 0
}
func (r *FindCoordinatorResponse) isValidVersion() bool { return r.Version >= 0 && r.Version <= 3 }
func (r *FindCoordinatorResponse) requiredVersion() KafkaVersion {
	if r.Version >= 1 {
		return V0_11_0_0
	}
	return V0_8_2_0
}
func (r *FindCoordinatorResponse) throttleTime() int32 { return r.ThrottleTimeMs }
