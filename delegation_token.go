package kafka

func init() {
	registerAPI(apiKeyCreateDelegationToken, "CreateDelegationToken", 0, 0,
		func() protocolBody { return &CreateDelegationTokenRequest{} },
		func() protocolBody { return &CreateDelegationTokenResponse{} })
	registerAPI(apiKeyRenewDelegationToken, "RenewDelegationToken", 0, 0,
		func() protocolBody { return &RenewDelegationTokenRequest{} },
		func() protocolBody { return &RenewDelegationTokenResponse{} })
	registerAPI(apiKeyExpireDelegationToken, "ExpireDelegationToken", 0, 0,
		func() protocolBody { return &ExpireDelegationTokenRequest{} },
		func() protocolBody { return &ExpireDelegationTokenResponse{} })
	registerAPI(apiKeyDescribeDelegationToken, "DescribeDelegationToken", 0, 0,
		func() protocolBody { return &DescribeDelegationTokenRequest{} },
		func() protocolBody { return &DescribeDelegationTokenResponse{} })
}

// DelegationTokenRenewer identifies a principal ("User:alice") allowed to
// renew or expire a token it did not create.
type DelegationTokenRenewer struct {
	PrincipalType string
	PrincipalName string
}

// CreateDelegationTokenRequest asks the controller to mint a token the
// caller's current session can use to authenticate without re-running SASL;
// backs ClusterAdmin.CreateDelegationToken.
type CreateDelegationTokenRequest struct {
	Version        int16
	Renewers       []DelegationTokenRenewer
	MaxLifetimeMs  int64
}

func (r *CreateDelegationTokenRequest) setVersion(v int16) { r.Version = v }

func (r *CreateDelegationTokenRequest) encode(pe packetEncoder) error {
	if err := pe.putArrayLength(len(r.Renewers)); err != nil {
		return err
	}
	for _, rw := range r.Renewers {
		if err := pe.putString(rw.PrincipalType); err != nil {
			return err
		}
		if err := pe.putString(rw.PrincipalName); err != nil {
			return err
		}
	}
	pe.putInt64(r.MaxLifetimeMs)
	return nil
}

func (r *CreateDelegationTokenRequest) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	r.Renewers = make([]DelegationTokenRenewer, n)
	for i := 0; i < n; i++ {
		pt, err := pd.getString()
		if err != nil {
			return err
		}
		pn, err := pd.getString()
		if err != nil {
			return err
		}
		r.Renewers[i] = DelegationTokenRenewer{PrincipalType: pt, PrincipalName: pn}
	}
	if r.MaxLifetimeMs, err = pd.getInt64(); err != nil {
		return err
	}
	return nil
}

func (r *CreateDelegationTokenRequest) key() int16          { return apiKeyCreateDelegationToken }
func (r *CreateDelegationTokenRequest) version() int16       { return r.Version }
func (r *CreateDelegationTokenRequest) headerVersion() int16 { return 1 }
func (r *CreateDelegationTokenRequest) isValidVersion() bool { return r.Version == 0 }
func (r *CreateDelegationTokenRequest) requiredVersion() KafkaVersion { return V1_1_0_0 }

// DelegationTokenDetails describes a minted token's identity and validity
// window. HMAC is the shared secret used as the SASL/SCRAM password when
// authenticating with this token.
type DelegationTokenDetails struct {
	ErrorCode      int16
	PrincipalType  string
	PrincipalName  string
	IssueTimestamp int64
	ExpiryTimestamp int64
	MaxTimestamp   int64
	TokenID        string
	HMAC           []byte
}

type CreateDelegationTokenResponse struct {
	Version        int16
	ThrottleTimeMs int32
	Token          DelegationTokenDetails
}

func (r *CreateDelegationTokenResponse) setVersion(v int16) { r.Version = v }

func (r *CreateDelegationTokenResponse) encode(pe packetEncoder) error {
	pe.putInt16(r.Token.ErrorCode)
	if err := pe.putString(r.Token.PrincipalType); err != nil {
		return err
	}
	if err := pe.putString(r.Token.PrincipalName); err != nil {
		return err
	}
	pe.putInt64(r.Token.IssueTimestamp)
	pe.putInt64(r.Token.ExpiryTimestamp)
	pe.putInt64(r.Token.MaxTimestamp)
	if err := pe.putString(r.Token.TokenID); err != nil {
		return err
	}
	if err := pe.putBytes(r.Token.HMAC); err != nil {
		return err
	}
	pe.putInt32(r.ThrottleTimeMs)
	return nil
}

func (r *CreateDelegationTokenResponse) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	t := &r.Token
	if t.ErrorCode, err = pd.getInt16(); err != nil {
		return err
	}
	if t.PrincipalType, err = pd.getString(); err != nil {
		return err
	}
	if t.PrincipalName, err = pd.getString(); err != nil {
		return err
	}
	if t.IssueTimestamp, err = pd.getInt64(); err != nil {
		return err
	}
	if t.ExpiryTimestamp, err = pd.getInt64(); err != nil {
		return err
	}
	if t.MaxTimestamp, err = pd.getInt64(); err != nil {
		return err
	}
	if t.TokenID, err = pd.getString(); err != nil {
		return err
	}
	if t.HMAC, err = pd.getBytes(); err != nil {
		return err
	}
	if r.ThrottleTimeMs, err = pd.getInt32(); err != nil {
		return err
	}
	return nil
}

func (r *CreateDelegationTokenResponse) key() int16          { return apiKeyCreateDelegationToken }
func (r *CreateDelegationTokenResponse) version() int16       { return r.Version }
func (r *CreateDelegationTokenResponse) headerVersion() int16 { return 0 }
func (r *CreateDelegationTokenResponse) isValidVersion() bool { return r.Version == 0 }
func (r *CreateDelegationTokenResponse) requiredVersion() KafkaVersion { return V1_1_0_0 }
func (r *CreateDelegationTokenResponse) throttleTime() int32           { return r.ThrottleTimeMs }

// RenewDelegationTokenRequest extends a token's expiry, up to its MaxTimestamp.
type RenewDelegationTokenRequest struct {
	Version        int16
	HMAC           []byte
	RenewPeriodMs  int64
}

func (r *RenewDelegationTokenRequest) setVersion(v int16) { r.Version = v }

func (r *RenewDelegationTokenRequest) encode(pe packetEncoder) error {
	if err := pe.putBytes(r.HMAC); err != nil {
		return err
	}
	pe.putInt64(r.RenewPeriodMs)
	return nil
}

func (r *RenewDelegationTokenRequest) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if r.HMAC, err = pd.getBytes(); err != nil {
		return err
	}
	if r.RenewPeriodMs, err = pd.getInt64(); err != nil {
		return err
	}
	return nil
}

func (r *RenewDelegationTokenRequest) key() int16          { return apiKeyRenewDelegationToken }
func (r *RenewDelegationTokenRequest) version() int16       { return r.Version }
func (r *RenewDelegationTokenRequest) headerVersion() int16 { return 1 }
func (r *RenewDelegationTokenRequest) isValidVersion() bool { return r.Version == 0 }
func (r *RenewDelegationTokenRequest) requiredVersion() KafkaVersion { return V1_1_0_0 }

type RenewDelegationTokenResponse struct {
	Version         int16
	ThrottleTimeMs  int32
	ErrorCode       int16
	ExpiryTimestamp int64
}

func (r *RenewDelegationTokenResponse) setVersion(v int16) { r.Version = v }

func (r *RenewDelegationTokenResponse) encode(pe packetEncoder) error {
	pe.putInt16(r.ErrorCode)
	pe.putInt64(r.ExpiryTimestamp)
	pe.putInt32(r.ThrottleTimeMs)
	return nil
}

func (r *RenewDelegationTokenResponse) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if r.ErrorCode, err = pd.getInt16(); err != nil {
		return err
	}
	if r.ExpiryTimestamp, err = pd.getInt64(); err != nil {
		return err
	}
	if r.ThrottleTimeMs, err = pd.getInt32(); err != nil {
		return err
	}
	return nil
}

func (r *RenewDelegationTokenResponse) key() int16          { return apiKeyRenewDelegationToken }
func (r *RenewDelegationTokenResponse) version() int16       { return r.Version }
func (r *RenewDelegationTokenResponse) headerVersion() int16 { return 0 }
func (r *RenewDelegationTokenResponse) isValidVersion() bool { return r.Version == 0 }
func (r *RenewDelegationTokenResponse) requiredVersion() KafkaVersion { return V1_1_0_0 }
func (r *RenewDelegationTokenResponse) throttleTime() int32           { return r.ThrottleTimeMs }

// ExpireDelegationTokenRequest sets a token's expiry to min(now+ExpiryPeriodMs,
// MaxTimestamp); an ExpiryPeriodMs of 0 expires it immediately.
type ExpireDelegationTokenRequest struct {
	Version        int16
	HMAC           []byte
	ExpiryPeriodMs int64
}

func (r *ExpireDelegationTokenRequest) setVersion(v int16) { r.Version = v }

func (r *ExpireDelegationTokenRequest) encode(pe packetEncoder) error {
	if err := pe.putBytes(r.HMAC); err != nil {
		return err
	}
	pe.putInt64(r.ExpiryPeriodMs)
	return nil
}

func (r *ExpireDelegationTokenRequest) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if r.HMAC, err = pd.getBytes(); err != nil {
		return err
	}
	if r.ExpiryPeriodMs, err = pd.getInt64(); err != nil {
		return err
	}
	return nil
}

func (r *ExpireDelegationTokenRequest) key() int16          { return apiKeyExpireDelegationToken }
func (r *ExpireDelegationTokenRequest) version() int16       { return r.Version }
func (r *ExpireDelegationTokenRequest) headerVersion() int16 { return 1 }
func (r *ExpireDelegationTokenRequest) isValidVersion() bool { return r.Version == 0 }
func (r *ExpireDelegationTokenRequest) requiredVersion() KafkaVersion { return V1_1_0_0 }

type ExpireDelegationTokenResponse struct {
	Version         int16
	ThrottleTimeMs  int32
	ErrorCode       int16
	ExpiryTimestamp int64
}

func (r *ExpireDelegationTokenResponse) setVersion(v int16) { r.Version = v }

func (r *ExpireDelegationTokenResponse) encode(pe packetEncoder) error {
	pe.putInt16(r.ErrorCode)
	pe.putInt64(r.ExpiryTimestamp)
	pe.putInt32(r.ThrottleTimeMs)
	return nil
}

func (r *ExpireDelegationTokenResponse) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if r.ErrorCode, err = pd.getInt16(); err != nil {
		return err
	}
	if r.ExpiryTimestamp, err = pd.getInt64(); err != nil {
		return err
	}
	if r.ThrottleTimeMs, err = pd.getInt32(); err != nil {
		return err
	}
	return nil
}

func (r *ExpireDelegationTokenResponse) key() int16          { return apiKeyExpireDelegationToken }
func (r *ExpireDelegationTokenResponse) version() int16       { return r.Version }
func (r *ExpireDelegationTokenResponse) headerVersion() int16 { return 0 }
func (r *ExpireDelegationTokenResponse) isValidVersion() bool { return r.Version == 0 }
func (r *ExpireDelegationTokenResponse) requiredVersion() KafkaVersion { return V1_1_0_0 }
func (r *ExpireDelegationTokenResponse) throttleTime() int32           { return r.ThrottleTimeMs }

// DescribeDelegationTokenRequest lists tokens owned by or renewable by the
// given principals, or every token if Owners is nil.
type DescribeDelegationTokenRequest struct {
	Version int16
	Owners  []DelegationTokenRenewer
}

func (r *DescribeDelegationTokenRequest) setVersion(v int16) { r.Version = v }

func (r *DescribeDelegationTokenRequest) encode(pe packetEncoder) error {
	if r.Owners == nil {
		return pe.putArrayLength(-1)
	}
	if err := pe.putArrayLength(len(r.Owners)); err != nil {
		return err
	}
	for _, o := range r.Owners {
		if err := pe.putString(o.PrincipalType); err != nil {
			return err
		}
		if err := pe.putString(o.PrincipalName); err != nil {
			return err
		}
	}
	return nil
}

func (r *DescribeDelegationTokenRequest) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	if n < 0 {
		r.Owners = nil
		return nil
	}
	r.Owners = make([]DelegationTokenRenewer, n)
	for i := 0; i < n; i++ {
		pt, err := pd.getString()
		if err != nil {
			return err
		}
		pn, err := pd.getString()
		if err != nil {
			return err
		}
		r.Owners[i] = DelegationTokenRenewer{PrincipalType: pt, PrincipalName: pn}
	}
	return nil
}

func (r *DescribeDelegationTokenRequest) key() int16          { return apiKeyDescribeDelegationToken }
func (r *DescribeDelegationTokenRequest) version() int16       { return r.Version }
func (r *DescribeDelegationTokenRequest) headerVersion() int16 { return 1 }
func (r *DescribeDelegationTokenRequest) isValidVersion() bool { return r.Version == 0 }
func (r *DescribeDelegationTokenRequest) requiredVersion() KafkaVersion { return V1_1_0_0 }

type DescribeDelegationTokenResponse struct {
	Version        int16
	ThrottleTimeMs int32
	ErrorCode      int16
	Tokens         []DelegationTokenDetails
}

func (r *DescribeDelegationTokenResponse) setVersion(v int16) { r.Version = v }

func (r *DescribeDelegationTokenResponse) encode(pe packetEncoder) error {
	pe.putInt16(r.ErrorCode)
	if err := pe.putArrayLength(len(r.Tokens)); err != nil {
		return err
	}
	for _, t := range r.Tokens {
		if err := pe.putString(t.PrincipalType); err != nil {
			return err
		}
		if err := pe.putString(t.PrincipalName); err != nil {
			return err
		}
		pe.putInt64(t.IssueTimestamp)
		pe.putInt64(t.ExpiryTimestamp)
		pe.putInt64(t.MaxTimestamp)
		if err := pe.putString(t.TokenID); err != nil {
			return err
		}
		if err := pe.putBytes(t.HMAC); err != nil {
			return err
		}
	}
	pe.putInt32(r.ThrottleTimeMs)
	return nil
}

func (r *DescribeDelegationTokenResponse) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if r.ErrorCode, err = pd.getInt16(); err != nil {
		return err
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	r.Tokens = make([]DelegationTokenDetails, n)
	for i := 0; i < n; i++ {
		var t DelegationTokenDetails
		if t.PrincipalType, err = pd.getString(); err != nil {
			return err
		}
		if t.PrincipalName, err = pd.getString(); err != nil {
			return err
		}
		if t.IssueTimestamp, err = pd.getInt64(); err != nil {
			return err
		}
		if t.ExpiryTimestamp, err = pd.getInt64(); err != nil {
			return err
		}
		if t.MaxTimestamp, err = pd.getInt64(); err != nil {
			return err
		}
		if t.TokenID, err = pd.getString(); err != nil {
			return err
		}
		if t.HMAC, err = pd.getBytes(); err != nil {
			return err
		}
		r.Tokens[i] = t
	}
	if r.ThrottleTimeMs, err = pd.getInt32(); err != nil {
		return err
	}
	return nil
}

func (r *DescribeDelegationTokenResponse) key() int16          { return apiKeyDescribeDelegationToken }
func (r *DescribeDelegationTokenResponse) version() int16       { return r.Version }
func (r *DescribeDelegationTokenResponse) headerVersion() int16 { return 0 }
func (r *DescribeDelegationTokenResponse) isValidVersion() bool { return r.Version == 0 }
func (r *DescribeDelegationTokenResponse) requiredVersion() KafkaVersion { return V1_1_0_0 }
func (r *DescribeDelegationTokenResponse) throttleTime() int32           { return r.ThrottleTimeMs }
