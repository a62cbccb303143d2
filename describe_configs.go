package kafka

func init() {
	registerAPI(apiKeyDescribeConfigs, "DescribeConfigs", 0, 2,
		func() protocolBody { return &DescribeConfigsRequest{} },
		func() protocolBody { return &DescribeConfigsResponse{} })
}

// DescribeConfigsRequest backs ClusterAdmin.DescribeConfig: read back the
// effective configuration of one or more topics/brokers (§4.G).
type DescribeConfigsRequest struct {
	Version              int16
	Resources            []*ConfigResource
	IncludeSynonyms      bool
}

func (d *DescribeConfigsRequest) setVersion(v int16) { d.Version = v }

func (d *DescribeConfigsRequest) encode(pe packetEncoder) error {
	if err := pe.putArrayLength(len(d.Resources)); err != nil {
		return err
	}
	for _, r := range d.Resources {
		pe.putInt8(int8(r.Type))
		if err := pe.putString(r.Name); err != nil {
			return err
		}
		if r.ConfigNames == nil {
			pe.putInt32(-1)
		} else {
			if err := pe.putArrayLength(len(r.ConfigNames)); err != nil {
				return err
			}
			for _, name := range r.ConfigNames {
				if err := pe.putString(name); err != nil {
					return err
				}
			}
		}
	}
	if d.Version >= 1 {
		pe.putBool(d.IncludeSynonyms)
	}
	return nil
}

func (d *DescribeConfigsRequest) decode(pd packetDecoder, version int16) (err error) {
	d.Version = version
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	d.Resources = make([]*ConfigResource, n)
	for i := 0; i < n; i++ {
		r := &ConfigResource{}
		typ, err := pd.getInt8()
		if err != nil {
			return err
		}
		r.Type = ConfigResourceType(typ)
		if r.Name, err = pd.getString(); err != nil {
			return err
		}
		m, err := pd.getInt32()
		if err != nil {
			return err
		}
		if m >= 0 {
			r.ConfigNames = make([]string, m)
			for j := 0; j < int(m); j++ {
				if r.ConfigNames[j], err = pd.getString(); err != nil {
					return err
				}
			}
		}
		d.Resources[i] = r
	}
	if version >= 1 {
		if d.IncludeSynonyms, err = pd.getBool(); err != nil {
			return err
		}
	}
	return nil
}

func (d *DescribeConfigsRequest) key() int16          { return apiKeyDescribeConfigs }
func (d *DescribeConfigsRequest) version() int16       { return d.Version }
func (d *DescribeConfigsRequest) headerVersion() int16 { return 1 }
func (d *DescribeConfigsRequest) isValidVersion() bool { return d.Version >= 0 && d.Version <= 2 }
func (d *DescribeConfigsRequest) requiredVersion() KafkaVersion {
	switch {
	case d.Version >= 2:
		return V2_0_0_0
	case d.Version >= 1:
		return V1_1_0_0
	default:
		return V0_11_0_0
	}
}

type ResourceConfig struct {
	Type    ConfigResourceType
	Name    string
	ErrorCode int16
	ErrorMsg string
	Configs []*ConfigEntry
}

func (r *ResourceConfig) err() error {
	if r.ErrorCode == 0 {
		return nil
	}
	return DescribeConfigError{Err: KError(r.ErrorCode), ErrMsg: r.ErrorMsg}
}

type DescribeConfigsResponse struct {
	Version        int16
	ThrottleTimeMs int32
	Resources      []*ResourceConfig
}

func (d *DescribeConfigsResponse) setVersion(v int16) { d.Version = v }

func (d *DescribeConfigsResponse) encode(pe packetEncoder) error {
	pe.putInt32(d.ThrottleTimeMs)
	if err := pe.putArrayLength(len(d.Resources)); err != nil {
		return err
	}
	for _, r := range d.Resources {
		pe.putInt16(r.ErrorCode)
		if err := pe.putString(r.ErrorMsg); err != nil {
			return err
		}
		pe.putInt8(int8(r.Type))
		if err := pe.putString(r.Name); err != nil {
			return err
		}
		if err := pe.putArrayLength(len(r.Configs)); err != nil {
			return err
		}
		for _, c := range r.Configs {
			if err := pe.putString(c.Name); err != nil {
				return err
			}
			if err := pe.putString(c.Value); err != nil {
				return err
			}
			pe.putBool(c.ReadOnly)
			if d.Version == 0 {
				pe.putBool(c.Default)
				pe.putBool(c.Sensitive)
			} else {
				pe.putInt8(int8(c.Source))
				pe.putBool(c.Sensitive)
				if err := pe.putArrayLength(len(c.Synonyms)); err != nil {
					return err
				}
				for _, s := range c.Synonyms {
					if err := pe.putString(s.ConfigName); err != nil {
						return err
					}
					if err := pe.putString(s.ConfigValue); err != nil {
						return err
					}
					pe.putInt8(int8(s.Source))
				}
			}
		}
	}
	return nil
}

func (d *DescribeConfigsResponse) decode(pd packetDecoder, version int16) (err error) {
	d.Version = version
	if d.ThrottleTimeMs, err = pd.getInt32(); err != nil {
		return err
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	d.Resources = make([]*ResourceConfig, n)
	for i := 0; i < n; i++ {
		r := &ResourceConfig{}
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
		m, err := pd.getArrayLength()
		if err != nil {
			return err
		}
		r.Configs = make([]*ConfigEntry, m)
		for j := 0; j < m; j++ {
			c := &ConfigEntry{}
			if c.Name, err = pd.getString(); err != nil {
				return err
			}
			if c.Value, err = pd.getString(); err != nil {
				return err
			}
			if c.ReadOnly, err = pd.getBool(); err != nil {
				return err
			}
			if version == 0 {
				if c.Default, err = pd.getBool(); err != nil {
					return err
				}
				if c.Sensitive, err = pd.getBool(); err != nil {
					return err
				}
			} else {
				src, err := pd.getInt8()
				if err != nil {
					return err
				}
				c.Source = ConfigSource(src)
				c.Default = c.Source == SourceDefault
				if c.Sensitive, err = pd.getBool(); err != nil {
					return err
				}
				sn, err := pd.getArrayLength()
				if err != nil {
					return err
				}
				c.Synonyms = make([]*ConfigSynonym, sn)
				for k := 0; k < sn; k++ {
					s := &ConfigSynonym{}
					if s.ConfigName, err = pd.getString(); err != nil {
						return err
					}
					if s.ConfigValue, err = pd.getString(); err != nil {
						return err
					}
					ss, err := pd.getInt8()
					if err != nil {
						return err
					}
					s.Source = ConfigSource(ss)
					c.Synonyms[k] = s
				}
			}
			r.Configs[j] = c
		}
		d.Resources[i] = r
	}
	return nil
}

func (d *DescribeConfigsResponse) key() int16          { return apiKeyDescribeConfigs }
func (d *DescribeConfigsResponse) version() int16       { return d.Version }
func (d *DescribeConfigsResponse) headerVersion() int16 { return 0 }
func (d *DescribeConfigsResponse) isValidVersion() bool { return d.Version >= 0 && d.Version <= 2 }
func (d *DescribeConfigsResponse) requiredVersion() KafkaVersion {
	switch {
	case d.Version >= 2:
		return V2_0_0_0
	case d.Version >= 1:
		return V1_1_0_0
	default:
		return V0_11_0_0
	}
}
func (d *DescribeConfigsResponse) throttleTime() int32 { return d.ThrottleTimeMs }
