package kafka

func init() {
	registerAPI(apiKeyIncrementalAlterConfigs, "IncrementalAlterConfigs", 0, 1,
		func() protocolBody { return &IncrementalAlterConfigsRequest{} },
		func() protocolBody { return &IncrementalAlterConfigsResponse{} })
}

type IncrementalAlterConfigsResource struct {
	Type          ConfigResourceType
	Name          string
	ConfigEntries map[string]IncrementalAlterConfigsEntry
}

// IncrementalAlterConfigsRequest applies set/delete/append/subtract
// operations to individual config keys without clobbering the rest of a
// resource's configuration, backing ClusterAdmin.IncrementalAlterConfig.
type IncrementalAlterConfigsRequest struct {
	Version      int16
	Resources    []*IncrementalAlterConfigsResource
	ValidateOnly bool
}

func (a *IncrementalAlterConfigsRequest) setVersion(v int16) { a.Version = v }

func (a *IncrementalAlterConfigsRequest) encode(pe packetEncoder) error {
	if err := pe.putArrayLength(len(a.Resources)); err != nil {
		return err
	}
	for _, r := range a.Resources {
		pe.putInt8(int8(r.Type))
		if err := pe.putString(r.Name); err != nil {
			return err
		}
		if err := pe.putArrayLength(len(r.ConfigEntries)); err != nil {
			return err
		}
		for name, entry := range r.ConfigEntries {
			if err := pe.putString(name); err != nil {
				return err
			}
			pe.putInt8(int8(entry.Operation))
			if err := pe.putNullableString(entry.Value); err != nil {
				return err
			}
		}
	}
	pe.putBool(a.ValidateOnly)
	return nil
}

func (a *IncrementalAlterConfigsRequest) decode(pd packetDecoder, version int16) (err error) {
	a.Version = version
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	a.Resources = make([]*IncrementalAlterConfigsResource, n)
	for i := 0; i < n; i++ {
		r := &IncrementalAlterConfigsResource{}
		typ, err := pd.getInt8()
		if err != nil {
			return err
		}
		r.Type = ConfigResourceType(typ)
		if r.Name, err = pd.getString(); err != nil {
			return err
		}
		m, err := pd.getArrayLength()
		if err != nil {
			return err
		}
		r.ConfigEntries = make(map[string]IncrementalAlterConfigsEntry, m)
		for j := 0; j < m; j++ {
			name, err := pd.getString()
			if err != nil {
				return err
			}
			op, err := pd.getInt8()
			if err != nil {
				return err
			}
			value, err := pd.getNullableString()
			if err != nil {
				return err
			}
			r.ConfigEntries[name] = IncrementalAlterConfigsEntry{
				Operation: IncrementalAlterConfigsOperation(op),
				Value:     value,
			}
		}
		a.Resources[i] = r
	}
	a.ValidateOnly, err = pd.getBool()
	return err
}

func (a *IncrementalAlterConfigsRequest) key() int16          { return apiKeyIncrementalAlterConfigs }
func (a *IncrementalAlterConfigsRequest) version() int16       { return a.Version }
func (a *IncrementalAlterConfigsRequest) headerVersion() int16 { return 1 }
func (a *IncrementalAlterConfigsRequest) isValidVersion() bool {
	return a.Version >= 0 && a.Version <= 1
}
func (a *IncrementalAlterConfigsRequest) requiredVersion() KafkaVersion { return V2_3_0_0 }

type IncrementalAlterConfigsResourceResponse struct {
	ErrorCode int16
	ErrorMsg  string
	Type      ConfigResourceType
	Name      string
}

func (r *IncrementalAlterConfigsResourceResponse) err() error {
	if r.ErrorCode == 0 {
		return nil
	}
	return AlterConfigError{Err: KError(r.ErrorCode), ErrMsg: r.ErrorMsg}
}

type IncrementalAlterConfigsResponse struct {
	Version        int16
	ThrottleTimeMs int32
	Resources      []*IncrementalAlterConfigsResourceResponse
}

func (a *IncrementalAlterConfigsResponse) setVersion(v int16) { a.Version = v }

func (a *IncrementalAlterConfigsResponse) encode(pe packetEncoder) error {
	pe.putInt32(a.ThrottleTimeMs)
	if err := pe.putArrayLength(len(a.Resources)); err != nil {
		return err
	}
	for _, r := range a.Resources {
		pe.putInt16(r.ErrorCode)
		if err := pe.putString(r.ErrorMsg); err != nil {
			return err
		}
		pe.putInt8(int8(r.Type))
		if err := pe.putString(r.Name); err != nil {
			return err
		}
	}
	return nil
}

func (a *IncrementalAlterConfigsResponse) decode(pd packetDecoder, version int16) (err error) {
	a.Version = version
	if a.ThrottleTimeMs, err = pd.getInt32(); err != nil {
		return err
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	a.Resources = make([]*IncrementalAlterConfigsResourceResponse, n)
	for i := 0; i < n; i++ {
		r := &IncrementalAlterConfigsResourceResponse{}
		if r.ErrorCode, err = pd.getInt16(); err != nil {
			return err
		}
		if r.ErrorMsg, err = pd.getString(); err != nil {
			return err
		}
		typ, err := pd.getInt8()
		if err != nil {
			return err
		}
		r.Type = ConfigResourceType(typ)
		if r.Name, err = pd.getString(); err != nil {
			return err
		}
		a.Resources[i] = r
	}
	return nil
}

func (a *IncrementalAlterConfigsResponse) key() int16          { return apiKeyIncrementalAlterConfigs }
func (a *IncrementalAlterConfigsResponse) version() int16       { return a.Version }
func (a *IncrementalAlterConfigsResponse) headerVersion() int16 { return 0 }
func (a *IncrementalAlterConfigsResponse) isValidVersion() bool {
	return a.Version >= 0 && a.Version <= 1
}
func (a *IncrementalAlterConfigsResponse) requiredVersion() KafkaVersion { return V2_3_0_0 }
func (a *IncrementalAlterConfigsResponse) throttleTime() int32            { return a.ThrottleTimeMs }
