package kafka

func init() {
	registerAPI(apiKeyCreateAcls, "CreateAcls", 0, 1,
		func() protocolBody { return &CreateAclsRequest{} },
		func() protocolBody { return &CreateAclsResponse{} })
	registerAPI(apiKeyDescribeAcls, "DescribeAcls", 0, 1,
		func() protocolBody { return &DescribeAclsRequest{} },
		func() protocolBody { return &DescribeAclsResponse{} })
	registerAPI(apiKeyDeleteAcls, "DeleteAcls", 0, 1,
		func() protocolBody { return &DeleteAclsRequest{} },
		func() protocolBody { return &DeleteAclsResponse{} })
}

type (
	AclResourceType    int8
	AclResourcePatternType int8
	AclOperation       int8
	AclPermissionType  int8
)

const (
	AclResourceUnknown AclResourceType = iota
	AclResourceAny
	AclResourceTopic
	AclResourceGroup
	AclResourceCluster
	AclResourceTransactionalID
)

const (
	AclPatternUnknown AclResourcePatternType = iota
	AclPatternAny
	AclPatternMatch
	AclPatternLiteral
	AclPatternPrefixed
)

const (
	AclOperationUnknown AclOperation = iota
	AclOperationAny
	AclOperationAll
	AclOperationRead
	AclOperationWrite
	AclOperationCreate
	AclOperationDelete
	AclOperationAlter
	AclOperationDescribe
	AclOperationClusterAction
	AclOperationDescribeConfigs
	AclOperationAlterConfigs
	AclOperationIdempotentWrite
)

const (
	AclPermissionUnknown AclPermissionType = iota
	AclPermissionAny
	AclPermissionDeny
	AclPermissionAllow
)

// Resource names what an ACL binds to: a topic, group, cluster or
// transactional id, matched literally or by prefix.
type Resource struct {
	ResourceType        AclResourceType
	ResourceName        string
	ResourcePatternType AclResourcePatternType
}

// Acl is one access grant or denial for a principal from a host.
type Acl struct {
	Principal      string
	Host           string
	Operation      AclOperation
	PermissionType AclPermissionType
}

type AclCreation struct {
	Resource
	Acl
}

type ResourceAcls struct {
	Resource
	Acls []*Acl
}

// AclFilter selects ACL bindings for DescribeAcls/DeleteAcls. A nil string
// field matches any value; the enum fields match any value only when set to
// their Any constant, since their zero value is the Unknown constant.
type AclFilter struct {
	ResourceType              AclResourceType
	ResourceName              *string
	ResourcePatternTypeFilter AclResourcePatternType
	Principal                 *string
	Host                      *string
	Operation                 AclOperation
	PermissionType            AclPermissionType
}

type MatchingAcl struct {
	Err KError
	Resource
	Acl
}

func encodeResource(pe packetEncoder, r *Resource) error {
	pe.putInt8(int8(r.ResourceType))
	if err := pe.putString(r.ResourceName); err != nil {
		return err
	}
	pe.putInt8(int8(r.ResourcePatternType))
	return nil
}

func decodeResource(pd packetDecoder, r *Resource) (err error) {
	t, err := pd.getInt8()
	if err != nil {
		return err
	}
	r.ResourceType = AclResourceType(t)
	if r.ResourceName, err = pd.getString(); err != nil {
		return err
	}
	p, err := pd.getInt8()
	if err != nil {
		return err
	}
	r.ResourcePatternType = AclResourcePatternType(p)
	return nil
}

func encodeAcl(pe packetEncoder, a *Acl) error {
	if err := pe.putString(a.Principal); err != nil {
		return err
	}
	if err := pe.putString(a.Host); err != nil {
		return err
	}
	pe.putInt8(int8(a.Operation))
	pe.putInt8(int8(a.PermissionType))
	return nil
}

func decodeAcl(pd packetDecoder, a *Acl) (err error) {
	if a.Principal, err = pd.getString(); err != nil {
		return err
	}
	if a.Host, err = pd.getString(); err != nil {
		return err
	}
	op, err := pd.getInt8()
	if err != nil {
		return err
	}
	a.Operation = AclOperation(op)
	perm, err := pd.getInt8()
	if err != nil {
		return err
	}
	a.PermissionType = AclPermissionType(perm)
	return nil
}

// CreateAclsRequest backs ClusterAdmin.CreateACLs: each creation bundles a
// Resource and the Acl granted or denied on it.
type CreateAclsRequest struct {
	Version      int16
	AclCreations []*AclCreation
}

func (c *CreateAclsRequest) setVersion(v int16) { c.Version = v }

func (c *CreateAclsRequest) encode(pe packetEncoder) error {
	if err := pe.putArrayLength(len(c.AclCreations)); err != nil {
		return err
	}
	for _, creation := range c.AclCreations {
		if err := encodeResource(pe, &creation.Resource); err != nil {
			return err
		}
		if err := encodeAcl(pe, &creation.Acl); err != nil {
			return err
		}
	}
	return nil
}

func (c *CreateAclsRequest) decode(pd packetDecoder, version int16) (err error) {
	c.Version = version
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	c.AclCreations = make([]*AclCreation, n)
	for i := 0; i < n; i++ {
		creation := &AclCreation{}
		if err := decodeResource(pd, &creation.Resource); err != nil {
			return err
		}
		if err := decodeAcl(pd, &creation.Acl); err != nil {
			return err
		}
		c.AclCreations[i] = creation
	}
	return nil
}

func (c *CreateAclsRequest) key() int16          { return apiKeyCreateAcls }
func (c *CreateAclsRequest) version() int16       { return c.Version }
func (c *CreateAclsRequest) headerVersion() int16 { return 1 }
func (c *CreateAclsRequest) isValidVersion() bool { return c.Version >= 0 && c.Version <= 1 }
func (c *CreateAclsRequest) requiredVersion() KafkaVersion {
	if c.Version >= 1 {
		return V2_0_0_0
	}
	return V0_11_0_0
}

type CreateAclsResponse struct {
	Version        int16
	ThrottleTimeMs int32
	AclCreationResponses []*AclCreationResponse
}

type AclCreationResponse struct {
	Err    KError
	ErrMsg *string
}

func (c *CreateAclsResponse) setVersion(v int16) { c.Version = v }

func (c *CreateAclsResponse) encode(pe packetEncoder) error {
	pe.putInt32(c.ThrottleTimeMs)
	if err := pe.putArrayLength(len(c.AclCreationResponses)); err != nil {
		return err
	}
	for _, r := range c.AclCreationResponses {
		pe.putInt16(int16(r.Err))
		if err := pe.putNullableString(r.ErrMsg); err != nil {
			return err
		}
	}
	return nil
}

func (c *CreateAclsResponse) decode(pd packetDecoder, version int16) (err error) {
	c.Version = version
	if c.ThrottleTimeMs, err = pd.getInt32(); err != nil {
		return err
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	c.AclCreationResponses = make([]*AclCreationResponse, n)
	for i := 0; i < n; i++ {
		r := &AclCreationResponse{}
		ec, err := pd.getInt16()
		if err != nil {
			return err
		}
		r.Err = KError(ec)
		if r.ErrMsg, err = pd.getNullableString(); err != nil {
			return err
		}
		c.AclCreationResponses[i] = r
	}
	return nil
}

func (c *CreateAclsResponse) key() int16          { return apiKeyCreateAcls }
func (c *CreateAclsResponse) version() int16       { return c.Version }
func (c *CreateAclsResponse) headerVersion() int16 { return 0 }
func (c *CreateAclsResponse) isValidVersion() bool { return c.Version >= 0 && c.Version <= 1 }
func (c *CreateAclsResponse) requiredVersion() KafkaVersion {
	if c.Version >= 1 {
		return V2_0_0_0
	}
	return V0_11_0_0
}
func (c *CreateAclsResponse) throttleTime() int32 { return c.ThrottleTimeMs }

// DescribeAclsRequest filters existing ACL bindings; backs ClusterAdmin.ListAcls.
type DescribeAclsRequest struct {
	Version int16
	AclFilter
}

func (d *DescribeAclsRequest) setVersion(v int16) { d.Version = v }

func (d *DescribeAclsRequest) encode(pe packetEncoder) error {
	pe.putInt8(int8(d.ResourceType))
	if err := pe.putNullableString(d.ResourceName); err != nil {
		return err
	}
	if d.Version >= 1 {
		pe.putInt8(int8(d.ResourcePatternTypeFilter))
	}
	if err := pe.putNullableString(d.Principal); err != nil {
		return err
	}
	if err := pe.putNullableString(d.Host); err != nil {
		return err
	}
	pe.putInt8(int8(d.Operation))
	pe.putInt8(int8(d.PermissionType))
	return nil
}

func (d *DescribeAclsRequest) decode(pd packetDecoder, version int16) (err error) {
	d.Version = version
	t, err := pd.getInt8()
	if err != nil {
		return err
	}
	d.ResourceType = AclResourceType(t)
	if d.ResourceName, err = pd.getNullableString(); err != nil {
		return err
	}
	if version >= 1 {
		p, err := pd.getInt8()
		if err != nil {
			return err
		}
		d.ResourcePatternTypeFilter = AclResourcePatternType(p)
	}
	if d.Principal, err = pd.getNullableString(); err != nil {
		return err
	}
	if d.Host, err = pd.getNullableString(); err != nil {
		return err
	}
	op, err := pd.getInt8()
	if err != nil {
		return err
	}
	d.Operation = AclOperation(op)
	perm, err := pd.getInt8()
	if err != nil {
		return err
	}
	d.PermissionType = AclPermissionType(perm)
	return nil
}

func (d *DescribeAclsRequest) key() int16          { return apiKeyDescribeAcls }
func (d *DescribeAclsRequest) version() int16       { return d.Version }
func (d *DescribeAclsRequest) headerVersion() int16 { return 1 }
func (d *DescribeAclsRequest) isValidVersion() bool { return d.Version >= 0 && d.Version <= 1 }
func (d *DescribeAclsRequest) requiredVersion() KafkaVersion {
	if d.Version >= 1 {
		return V2_0_0_0
	}
	return V0_11_0_0
}

type DescribeAclsResponse struct {
	Version        int16
	ThrottleTimeMs int32
	Err            KError
	ErrMsg         *string
	ResourceAcls   []*ResourceAcls
}

func (d *DescribeAclsResponse) setVersion(v int16) { d.Version = v }

func (d *DescribeAclsResponse) encode(pe packetEncoder) error {
	pe.putInt32(d.ThrottleTimeMs)
	pe.putInt16(int16(d.Err))
	if err := pe.putNullableString(d.ErrMsg); err != nil {
		return err
	}
	if err := pe.putArrayLength(len(d.ResourceAcls)); err != nil {
		return err
	}
	for _, ra := range d.ResourceAcls {
		if err := encodeResource(pe, &ra.Resource); err != nil {
			return err
		}
		if err := pe.putArrayLength(len(ra.Acls)); err != nil {
			return err
		}
		for _, a := range ra.Acls {
			if err := encodeAcl(pe, a); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *DescribeAclsResponse) decode(pd packetDecoder, version int16) (err error) {
	d.Version = version
	if d.ThrottleTimeMs, err = pd.getInt32(); err != nil {
		return err
	}
	ec, err := pd.getInt16()
	if err != nil {
		return err
	}
	d.Err = KError(ec)
	if d.ErrMsg, err = pd.getNullableString(); err != nil {
		return err
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	d.ResourceAcls = make([]*ResourceAcls, n)
	for i := 0; i < n; i++ {
		ra := &ResourceAcls{}
		if err := decodeResource(pd, &ra.Resource); err != nil {
			return err
		}
		m, err := pd.getArrayLength()
		if err != nil {
			return err
		}
		ra.Acls = make([]*Acl, m)
		for j := 0; j < m; j++ {
			a := &Acl{}
			if err := decodeAcl(pd, a); err != nil {
				return err
			}
			ra.Acls[j] = a
		}
		d.ResourceAcls[i] = ra
	}
	return nil
}

func (d *DescribeAclsResponse) key() int16          { return apiKeyDescribeAcls }
func (d *DescribeAclsResponse) version() int16       { return d.Version }
func (d *DescribeAclsResponse) headerVersion() int16 { return 0 }
func (d *DescribeAclsResponse) isValidVersion() bool { return d.Version >= 0 && d.Version <= 1 }
func (d *DescribeAclsResponse) requiredVersion() KafkaVersion {
	if d.Version >= 1 {
		return V2_0_0_0
	}
	return V0_11_0_0
}
func (d *DescribeAclsResponse) throttleTime() int32 { return d.ThrottleTimeMs }

// DeleteAclsRequest deletes every ACL binding matching any of Filters;
// backs ClusterAdmin.DeleteACL.
type DeleteAclsRequest struct {
	Version int16
	Filters []*AclFilter
}

func (d *DeleteAclsRequest) setVersion(v int16) { d.Version = v }

func (d *DeleteAclsRequest) encode(pe packetEncoder) error {
	if err := pe.putArrayLength(len(d.Filters)); err != nil {
		return err
	}
	for _, f := range d.Filters {
		pe.putInt8(int8(f.ResourceType))
		if err := pe.putNullableString(f.ResourceName); err != nil {
			return err
		}
		if d.Version >= 1 {
			pe.putInt8(int8(f.ResourcePatternTypeFilter))
		}
		if err := pe.putNullableString(f.Principal); err != nil {
			return err
		}
		if err := pe.putNullableString(f.Host); err != nil {
			return err
		}
		pe.putInt8(int8(f.Operation))
		pe.putInt8(int8(f.PermissionType))
	}
	return nil
}

func (d *DeleteAclsRequest) decode(pd packetDecoder, version int16) (err error) {
	d.Version = version
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	d.Filters = make([]*AclFilter, n)
	for i := 0; i < n; i++ {
		f := &AclFilter{}
		t, err := pd.getInt8()
		if err != nil {
			return err
		}
		f.ResourceType = AclResourceType(t)
		if f.ResourceName, err = pd.getNullableString(); err != nil {
			return err
		}
		if version >= 1 {
			p, err := pd.getInt8()
			if err != nil {
				return err
			}
			f.ResourcePatternTypeFilter = AclResourcePatternType(p)
		}
		if f.Principal, err = pd.getNullableString(); err != nil {
			return err
		}
		if f.Host, err = pd.getNullableString(); err != nil {
			return err
		}
		op, err := pd.getInt8()
		if err != nil {
			return err
		}
		f.Operation = AclOperation(op)
		perm, err := pd.getInt8()
		if err != nil {
			return err
		}
		f.PermissionType = AclPermissionType(perm)
		d.Filters[i] = f
	}
	return nil
}

func (d *DeleteAclsRequest) key() int16          { return apiKeyDeleteAcls }
func (d *DeleteAclsRequest) version() int16       { return d.Version }
func (d *DeleteAclsRequest) headerVersion() int16 { return 1 }
func (d *DeleteAclsRequest) isValidVersion() bool { return d.Version >= 0 && d.Version <= 1 }
func (d *DeleteAclsRequest) requiredVersion() KafkaVersion {
	if d.Version >= 1 {
		return V2_0_0_0
	}
	return V0_11_0_0
}

type DeleteAclsFilterResponse struct {
	Err          KError
	ErrMsg       *string
	MatchingAcls []*MatchingAcl
}

type DeleteAclsResponse struct {
	Version         int16
	ThrottleTimeMs  int32
	FilterResponses []*DeleteAclsFilterResponse
}

func (d *DeleteAclsResponse) setVersion(v int16) { d.Version = v }

func (d *DeleteAclsResponse) encode(pe packetEncoder) error {
	pe.putInt32(d.ThrottleTimeMs)
	if err := pe.putArrayLength(len(d.FilterResponses)); err != nil {
		return err
	}
	for _, fr := range d.FilterResponses {
		pe.putInt16(int16(fr.Err))
		if err := pe.putNullableString(fr.ErrMsg); err != nil {
			return err
		}
		if err := pe.putArrayLength(len(fr.MatchingAcls)); err != nil {
			return err
		}
		for _, m := range fr.MatchingAcls {
			pe.putInt16(int16(m.Err))
			if err := encodeResource(pe, &m.Resource); err != nil {
				return err
			}
			if err := encodeAcl(pe, &m.Acl); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *DeleteAclsResponse) decode(pd packetDecoder, version int16) (err error) {
	d.Version = version
	if d.ThrottleTimeMs, err = pd.getInt32(); err != nil {
		return err
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	d.FilterResponses = make([]*DeleteAclsFilterResponse, n)
	for i := 0; i < n; i++ {
		fr := &DeleteAclsFilterResponse{}
		ec, err := pd.getInt16()
		if err != nil {
			return err
		}
		fr.Err = KError(ec)
		if fr.ErrMsg, err = pd.getNullableString(); err != nil {
			return err
		}
		m, err := pd.getArrayLength()
		if err != nil {
			return err
		}
		fr.MatchingAcls = make([]*MatchingAcl, m)
		for j := 0; j < m; j++ {
			ma := &MatchingAcl{}
			ec, err := pd.getInt16()
			if err != nil {
				return err
			}
			ma.Err = KError(ec)
			if err := decodeResource(pd, &ma.Resource); err != nil {
				return err
			}
			if err := decodeAcl(pd, &ma.Acl); err != nil {
				return err
			}
			fr.MatchingAcls[j] = ma
		}
		d.FilterResponses[i] = fr
	}
	return nil
}

func (d *DeleteAclsResponse) key() int16          { return apiKeyDeleteAcls }
func (d *DeleteAclsResponse) version() int16       { return d.Version }
func (d *DeleteAclsResponse) headerVersion() int16 { return 0 }
func (d *DeleteAclsResponse) isValidVersion() bool { return d.Version >= 0 && d.Version <= 1 }
func (d *DeleteAclsResponse) requiredVersion() KafkaVersion {
	if d.Version >= 1 {
		return V2_0_0_0
	}
	return V0_11_0_0
}
func (d *DeleteAclsResponse) throttleTime() int32 { return d.ThrottleTimeMs }
