package kafka

func init() {
	registerAPI(apiKeyAlterConfigs, "AlterConfigs", 0, 1,
		func() protocolBody { return &AlterConfigsRequest{} },
		func() protocolBody { return &AlterConfigsResponse{} })
}

type AlterConfigsResource struct {
	Type          ConfigResourceType
	Name          string
	ConfigEntries map[string]*string
}

// AlterConfigsRequest replaces a resource's entire dynamic config in one
// shot; ClusterAdmin.AlterConfig (§4.G). Superseded by IncrementalAlterConfigs
// for additive changes but still the only way to reset a whole resource.
type AlterConfigsRequest struct {
	Version      int16
	Resources    []*AlterConfigsResource
	ValidateOnly bool
}

func (a *AlterConfigsRequest) setVersion(v int16) { a.Version = v }

func (a *AlterConfigsRequest) encode(pe packetEncoder) error {
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
		for name, value := range r.ConfigEntries {
			if err := pe.putString(name); err != nil {
				return err
			}
			if err := pe.putNullableString(value); err != nil {
				return err
			}
		}
	}
	pe.putBool(a.ValidateOnly)
	return nil
}

func (a *AlterConfigsRequest) decode(pd packetDecoder, version int16) (err error) {
	a.Version = version
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	a.Resources = make([]*AlterConfigsResource, n)
	for i := 0; i < n; i++ {
		r := &AlterConfigsResource{}
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
		r.ConfigEntries = make(map[string]*string, m)
		for j := 0; j < m; j++ {
			name, err := pd.getString()
			if err != nil {
				return err
			}
			value, err := pd.getNullableString()
			if err != nil {
				return err
			}
			r.ConfigEntries[name] = value
		}
		a.Resources[i] = r
	}
	a.ValidateOnly, err = pd.getBool()
	return err
}

func (a *AlterConfigsRequest) key() int16          { return apiKeyAlterConfigs }
func (a *AlterConfigsRequest) version() int16       { return a.Version }
func (a *AlterConfigsRequest) headerVersion() int16 { return 1 }
func (a *AlterConfigsRequest) isValidVersion() bool { return a.Version >= 0 && a.Version <= 1 }
func (a *AlterConfigsRequest) requiredVersion() KafkaVersion {
	if a.Version >= 1 {
		return V2_0_0_0
	}
	return V0_11_0_0
}

type AlterConfigsResourceResponse struct {
	ErrorCode int16
	ErrorMsg  string
	Type      ConfigResourceType
	Name      string
}

func (r *AlterConfigsResourceResponse) err() error {
	if r.ErrorCode == 0 {
		return nil
	}
	return AlterConfigError{Err: KError(r.ErrorCode), ErrMsg: r.ErrorMsg}
}

type AlterConfigsResponse struct {
	Version        int16
	ThrottleTimeMs int32
	Resources      []*AlterConfigsResourceResponse
}

func (a *AlterConfigsResponse) setVersion(v int16) { a.Version = v }

func (a *AlterConfigsResponse) encode(pe packetEncoder) error {
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

func (a *AlterConfigsResponse) decode(pd packetDecoder, version int16) (err error) {
	a.Version = version
	if a.ThrottleTimeMs, err = pd.getInt32(); err != nil {
		return err
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	a.Resources = make([]*AlterConfigsResourceResponse, n)
	for i := 0; i < n; i++ {
		r := &AlterConfigsResourceResponse{}
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

func (a *AlterConfigsResponse) key() int16          { return apiKeyAlterConfigs }
func (a *AlterConfigsResponse) version() int16       { return a.Version }
func (a *AlterConfigsResponse) headerVersion() int16 { return 0 }
func (a *AlterConfigsResponse) isValidVersion() bool { return a.Version >= 0 && a.Version <= 1 }
func (a *AlterConfigsResponse) requiredVersion() KafkaVersion {
	if a.Version >= 1 {
		return V2_0_0_0
	}
	return V0_11_0_0
}
func (a *AlterConfigsResponse) throttleTime() int32 { return a.ThrottleTimeMs }
