package kafka

func init() {
	registerAPI(apiKeyUpdateFeatures, "UpdateFeatures", 0, 0,
		func() protocolBody { return &UpdateFeaturesRequest{} },
		func() protocolBody { return &UpdateFeaturesResponse{} })
}

// FeatureUpdate changes one cluster-wide finalized feature's max version
// level. AllowDowngrade permits moving to a lower (or, with MaxVersionLevel
// 0, deleting) level, which UpgradeType conveys on the wire as a small enum
// rather than a bool (Kafka's FeatureUpdateKey.upgradeType).
type FeatureUpdate struct {
	Feature        string
	MaxVersionLevel int16
	AllowDowngrade  bool
}

// UpdateFeaturesRequest backs ClusterAdmin.UpdateFeatures, finalizing the
// max supported version of one or more cluster-wide features (e.g.
// "metadata.version") after every broker in the cluster can support it.
type UpdateFeaturesRequest struct {
	Version      int16
	TimeoutMs    int32
	Updates      []FeatureUpdate
	ValidateOnly bool
}

func (r *UpdateFeaturesRequest) setVersion(v int16) { r.Version = v }

func (r *UpdateFeaturesRequest) encode(pe packetEncoder) error {
	pe.putInt32(r.TimeoutMs)
	if err := pe.putArrayLength(len(r.Updates)); err != nil {
		return err
	}
	for _, u := range r.Updates {
		if err := pe.putString(u.Feature); err != nil {
			return err
		}
		pe.putInt16(u.MaxVersionLevel)
		upgradeType := int8(0)
		if u.AllowDowngrade {
			upgradeType = 1
		}
		pe.putInt8(upgradeType)
	}
	pe.putBool(r.ValidateOnly)
	return nil
}

func (r *UpdateFeaturesRequest) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if r.TimeoutMs, err = pd.getInt32(); err != nil {
		return err
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	r.Updates = make([]FeatureUpdate, n)
	for i := 0; i < n; i++ {
		feature, err := pd.getString()
		if err != nil {
			return err
		}
		maxLevel, err := pd.getInt16()
		if err != nil {
			return err
		}
		upgradeType, err := pd.getInt8()
		if err != nil {
			return err
		}
		r.Updates[i] = FeatureUpdate{Feature: feature, MaxVersionLevel: maxLevel, AllowDowngrade: upgradeType != 0}
	}
	if r.ValidateOnly, err = pd.getBool(); err != nil {
		return err
	}
	return nil
}

func (r *UpdateFeaturesRequest) key() int16          { return apiKeyUpdateFeatures }
func (r *UpdateFeaturesRequest) version() int16       { return r.Version }
func (r *UpdateFeaturesRequest) headerVersion() int16 { return 1 }
func (r *UpdateFeaturesRequest) isValidVersion() bool { return r.Version == 0 }
func (r *UpdateFeaturesRequest) requiredVersion() KafkaVersion { return V2_7_0_0 }

type UpdateFeaturesResponseEntry struct {
	Feature      string
	ErrorCode    int16
	ErrorMessage *string
}

func (e *UpdateFeaturesResponseEntry) err() error {
	if e.ErrorCode == 0 {
		return nil
	}
	return KError(e.ErrorCode)
}

type UpdateFeaturesResponse struct {
	Version        int16
	ThrottleTimeMs int32
	ErrorCode      int16
	ErrorMessage   *string
	Results        []UpdateFeaturesResponseEntry
}

func (r *UpdateFeaturesResponse) setVersion(v int16) { r.Version = v }

func (r *UpdateFeaturesResponse) encode(pe packetEncoder) error {
	pe.putInt32(r.ThrottleTimeMs)
	pe.putInt16(r.ErrorCode)
	if err := pe.putNullableString(r.ErrorMessage); err != nil {
		return err
	}
	if err := pe.putArrayLength(len(r.Results)); err != nil {
		return err
	}
	for _, res := range r.Results {
		if err := pe.putString(res.Feature); err != nil {
			return err
		}
		pe.putInt16(res.ErrorCode)
		if err := pe.putNullableString(res.ErrorMessage); err != nil {
			return err
		}
	}
	return nil
}

func (r *UpdateFeaturesResponse) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if r.ThrottleTimeMs, err = pd.getInt32(); err != nil {
		return err
	}
	if r.ErrorCode, err = pd.getInt16(); err != nil {
		return err
	}
	if r.ErrorMessage, err = pd.getNullableString(); err != nil {
		return err
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	r.Results = make([]UpdateFeaturesResponseEntry, n)
	for i := 0; i < n; i++ {
		feature, err := pd.getString()
		if err != nil {
			return err
		}
		errCode, err := pd.getInt16()
		if err != nil {
			return err
		}
		errMsg, err := pd.getNullableString()
		if err != nil {
			return err
		}
		r.Results[i] = UpdateFeaturesResponseEntry{Feature: feature, ErrorCode: errCode, ErrorMessage: errMsg}
	}
	return nil
}

func (r *UpdateFeaturesResponse) key() int16          { return apiKeyUpdateFeatures }
func (r *UpdateFeaturesResponse) version() int16       { return r.Version }
func (r *UpdateFeaturesResponse) headerVersion() int16 { return 0 }
func (r *UpdateFeaturesResponse) isValidVersion() bool { return r.Version == 0 }
func (r *UpdateFeaturesResponse) requiredVersion() KafkaVersion { return V2_7_0_0 }
func (r *UpdateFeaturesResponse) throttleTime() int32           { return r.ThrottleTimeMs }
