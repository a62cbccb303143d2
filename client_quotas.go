package kafka

func init() {
	registerAPI(apiKeyDescribeClientQuotas, "DescribeClientQuotas", 0, 0,
		func() protocolBody { return &DescribeClientQuotasRequest{} },
		func() protocolBody { return &DescribeClientQuotasResponse{} })
	registerAPI(apiKeyAlterClientQuotas, "AlterClientQuotas", 0, 0,
		func() protocolBody { return &AlterClientQuotasRequest{} },
		func() protocolBody { return &AlterClientQuotasResponse{} })
}

// QuotaEntityComponent names one component of a quota entity, e.g.
// {EntityType: "client-id", MatchName: "my-client"}. A nil MatchName (not
// modeled here since Go strings have no wire-level null) matches the default
// entity for that type; callers wanting the default pass an empty string and
// MatchDefault=true.
type QuotaEntityComponent struct {
	EntityType   string
	MatchName    string
	MatchDefault bool
}

// ClientQuotaEntity identifies the (user, client-id, ip) tuple a quota
// applies to.
type ClientQuotaEntity struct {
	Components []QuotaEntityComponent
}

// DescribeClientQuotasRequest filters quota entities by component; backs
// ClusterAdmin.DescribeClientQuotas (§4.G).
type DescribeClientQuotasRequest struct {
	Version  int16
	Filters  []QuotaEntityComponent
	Strict   bool
}

func (r *DescribeClientQuotasRequest) setVersion(v int16) { r.Version = v }

func (r *DescribeClientQuotasRequest) encode(pe packetEncoder) error {
	if err := pe.putArrayLength(len(r.Filters)); err != nil {
		return err
	}
	for _, f := range r.Filters {
		if err := pe.putString(f.EntityType); err != nil {
			return err
		}
		if f.MatchDefault {
			pe.putBool(true)
			if err := pe.putNullableString(nil); err != nil {
				return err
			}
		} else {
			pe.putBool(false)
			name := f.MatchName
			if err := pe.putNullableString(&name); err != nil {
				return err
			}
		}
	}
	pe.putBool(r.Strict)
	return nil
}

func (r *DescribeClientQuotasRequest) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	r.Filters = make([]QuotaEntityComponent, n)
	for i := 0; i < n; i++ {
		entityType, err := pd.getString()
		if err != nil {
			return err
		}
		isDefault, err := pd.getBool()
		if err != nil {
			return err
		}
		name, err := pd.getNullableString()
		if err != nil {
			return err
		}
		f := QuotaEntityComponent{EntityType: entityType, MatchDefault: isDefault}
		if name != nil {
			f.MatchName = *name
		}
		r.Filters[i] = f
	}
	if r.Strict, err = pd.getBool(); err != nil {
		return err
	}
	return nil
}

func (r *DescribeClientQuotasRequest) key() int16          { return apiKeyDescribeClientQuotas }
func (r *DescribeClientQuotasRequest) version() int16       { return r.Version }
func (r *DescribeClientQuotasRequest) headerVersion() int16 { return 1 }
func (r *DescribeClientQuotasRequest) isValidVersion() bool { return r.Version == 0 }
func (r *DescribeClientQuotasRequest) requiredVersion() KafkaVersion { return V2_6_0_0 }

// DescribeClientQuotasResponseEntry is one matched entity and its current
// quota values, keyed by config name (e.g. "producer_byte_rate").
type DescribeClientQuotasResponseEntry struct {
	Entity ClientQuotaEntity
	Values map[string]float64
}

type DescribeClientQuotasResponse struct {
	Version        int16
	ThrottleTimeMs int32
	ErrorCode      int16
	ErrorMessage   *string
	Entries        []DescribeClientQuotasResponseEntry
}

func (r *DescribeClientQuotasResponse) setVersion(v int16) { r.Version = v }

func (r *DescribeClientQuotasResponse) encode(pe packetEncoder) error {
	pe.putInt32(r.ThrottleTimeMs)
	pe.putInt16(r.ErrorCode)
	if err := pe.putNullableString(r.ErrorMessage); err != nil {
		return err
	}
	if err := pe.putArrayLength(len(r.Entries)); err != nil {
		return err
	}
	for _, e := range r.Entries {
		if err := pe.putArrayLength(len(e.Entity.Components)); err != nil {
			return err
		}
		for _, c := range e.Entity.Components {
			if err := pe.putString(c.EntityType); err != nil {
				return err
			}
			name := c.MatchName
			if err := pe.putNullableString(&name); err != nil {
				return err
			}
		}
		if err := pe.putArrayLength(len(e.Values)); err != nil {
			return err
		}
		for k, v := range e.Values {
			if err := pe.putString(k); err != nil {
				return err
			}
			pe.putFloat64(v)
		}
	}
	return nil
}

func (r *DescribeClientQuotasResponse) decode(pd packetDecoder, version int16) (err error) {
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
	r.Entries = make([]DescribeClientQuotasResponseEntry, n)
	for i := 0; i < n; i++ {
		cn, err := pd.getArrayLength()
		if err != nil {
			return err
		}
		components := make([]QuotaEntityComponent, cn)
		for j := 0; j < cn; j++ {
			entityType, err := pd.getString()
			if err != nil {
				return err
			}
			name, err := pd.getNullableString()
			if err != nil {
				return err
			}
			c := QuotaEntityComponent{EntityType: entityType}
			if name != nil {
				c.MatchName = *name
			}
			components[j] = c
		}
		vn, err := pd.getArrayLength()
		if err != nil {
			return err
		}
		values := make(map[string]float64, vn)
		for j := 0; j < vn; j++ {
			key, err := pd.getString()
			if err != nil {
				return err
			}
			val, err := pd.getFloat64()
			if err != nil {
				return err
			}
			values[key] = val
		}
		r.Entries[i] = DescribeClientQuotasResponseEntry{Entity: ClientQuotaEntity{Components: components}, Values: values}
	}
	return nil
}

func (r *DescribeClientQuotasResponse) key() int16          { return apiKeyDescribeClientQuotas }
func (r *DescribeClientQuotasResponse) version() int16       { return r.Version }
func (r *DescribeClientQuotasResponse) headerVersion() int16 { return 0 }
func (r *DescribeClientQuotasResponse) isValidVersion() bool { return r.Version == 0 }
func (r *DescribeClientQuotasResponse) requiredVersion() KafkaVersion { return V2_6_0_0 }
func (r *DescribeClientQuotasResponse) throttleTime() int32           { return r.ThrottleTimeMs }

// ClientQuotaAlteration is one entity's set of quota ops, a nil Value
// removing that config key.
type ClientQuotaAlteration struct {
	Entity ClientQuotaEntity
	Ops    map[string]*float64
}

// AlterClientQuotasRequest applies quota changes to one or more entities;
// backs ClusterAdmin.AlterClientQuotas.
type AlterClientQuotasRequest struct {
	Version      int16
	Entries      []ClientQuotaAlteration
	ValidateOnly bool
}

func (r *AlterClientQuotasRequest) setVersion(v int16) { r.Version = v }

func (r *AlterClientQuotasRequest) encode(pe packetEncoder) error {
	if err := pe.putArrayLength(len(r.Entries)); err != nil {
		return err
	}
	for _, e := range r.Entries {
		if err := pe.putArrayLength(len(e.Entity.Components)); err != nil {
			return err
		}
		for _, c := range e.Entity.Components {
			if err := pe.putString(c.EntityType); err != nil {
				return err
			}
			name := c.MatchName
			if err := pe.putNullableString(&name); err != nil {
				return err
			}
		}
		if err := pe.putArrayLength(len(e.Ops)); err != nil {
			return err
		}
		for k, v := range e.Ops {
			if err := pe.putString(k); err != nil {
				return err
			}
			remove := v == nil
			if remove {
				pe.putFloat64(0)
			} else {
				pe.putFloat64(*v)
			}
			pe.putBool(remove)
		}
	}
	pe.putBool(r.ValidateOnly)
	return nil
}

func (r *AlterClientQuotasRequest) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	r.Entries = make([]ClientQuotaAlteration, n)
	for i := 0; i < n; i++ {
		cn, err := pd.getArrayLength()
		if err != nil {
			return err
		}
		components := make([]QuotaEntityComponent, cn)
		for j := 0; j < cn; j++ {
			entityType, err := pd.getString()
			if err != nil {
				return err
			}
			name, err := pd.getNullableString()
			if err != nil {
				return err
			}
			c := QuotaEntityComponent{EntityType: entityType}
			if name != nil {
				c.MatchName = *name
			}
			components[j] = c
		}
		on, err := pd.getArrayLength()
		if err != nil {
			return err
		}
		ops := make(map[string]*float64, on)
		for j := 0; j < on; j++ {
			key, err := pd.getString()
			if err != nil {
				return err
			}
			val, err := pd.getFloat64()
			if err != nil {
				return err
			}
			remove, err := pd.getBool()
			if err != nil {
				return err
			}
			if remove {
				ops[key] = nil
			} else {
				v := val
				ops[key] = &v
			}
		}
		r.Entries[i] = ClientQuotaAlteration{Entity: ClientQuotaEntity{Components: components}, Ops: ops}
	}
	if r.ValidateOnly, err = pd.getBool(); err != nil {
		return err
	}
	return nil
}

func (r *AlterClientQuotasRequest) key() int16          { return apiKeyAlterClientQuotas }
func (r *AlterClientQuotasRequest) version() int16       { return r.Version }
func (r *AlterClientQuotasRequest) headerVersion() int16 { return 1 }
func (r *AlterClientQuotasRequest) isValidVersion() bool { return r.Version == 0 }
func (r *AlterClientQuotasRequest) requiredVersion() KafkaVersion { return V2_6_0_0 }

type AlterClientQuotasResponseEntry struct {
	ErrorCode    int16
	ErrorMessage *string
	Entity       ClientQuotaEntity
}

func (e *AlterClientQuotasResponseEntry) err() error {
	if e.ErrorCode == 0 {
		return nil
	}
	return KError(e.ErrorCode)
}

type AlterClientQuotasResponse struct {
	Version        int16
	ThrottleTimeMs int32
	Entries        []AlterClientQuotasResponseEntry
}

func (r *AlterClientQuotasResponse) setVersion(v int16) { r.Version = v }

func (r *AlterClientQuotasResponse) encode(pe packetEncoder) error {
	pe.putInt32(r.ThrottleTimeMs)
	if err := pe.putArrayLength(len(r.Entries)); err != nil {
		return err
	}
	for _, e := range r.Entries {
		pe.putInt16(e.ErrorCode)
		if err := pe.putNullableString(e.ErrorMessage); err != nil {
			return err
		}
		if err := pe.putArrayLength(len(e.Entity.Components)); err != nil {
			return err
		}
		for _, c := range e.Entity.Components {
			if err := pe.putString(c.EntityType); err != nil {
				return err
			}
			name := c.MatchName
			if err := pe.putNullableString(&name); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *AlterClientQuotasResponse) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if r.ThrottleTimeMs, err = pd.getInt32(); err != nil {
		return err
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	r.Entries = make([]AlterClientQuotasResponseEntry, n)
	for i := 0; i < n; i++ {
		errCode, err := pd.getInt16()
		if err != nil {
			return err
		}
		errMsg, err := pd.getNullableString()
		if err != nil {
			return err
		}
		cn, err := pd.getArrayLength()
		if err != nil {
			return err
		}
		components := make([]QuotaEntityComponent, cn)
		for j := 0; j < cn; j++ {
			entityType, err := pd.getString()
			if err != nil {
				return err
			}
			name, err := pd.getNullableString()
			if err != nil {
				return err
			}
			c := QuotaEntityComponent{EntityType: entityType}
			if name != nil {
				c.MatchName = *name
			}
			components[j] = c
		}
		r.Entries[i] = AlterClientQuotasResponseEntry{ErrorCode: errCode, ErrorMessage: errMsg, Entity: ClientQuotaEntity{Components: components}}
	}
	return nil
}

func (r *AlterClientQuotasResponse) key() int16          { return apiKeyAlterClientQuotas }
func (r *AlterClientQuotasResponse) version() int16       { return r.Version }
func (r *AlterClientQuotasResponse) headerVersion() int16 { return 0 }
func (r *AlterClientQuotasResponse) isValidVersion() bool { return r.Version == 0 }
func (r *AlterClientQuotasResponse) requiredVersion() KafkaVersion { return V2_6_0_0 }
func (r *AlterClientQuotasResponse) throttleTime() int32           { return r.ThrottleTimeMs }
