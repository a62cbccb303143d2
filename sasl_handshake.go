package kafka

func init() {
	registerAPI(apiKeySaslHandshake, "SaslHandshake", 0, 1,
		func() protocolBody { return &SaslHandshakeRequest{} },
		func() protocolBody { return &SaslHandshakeResponse{} })
	registerAPI(apiKeySaslAuthenticate, "SaslAuthenticate", 0, 2,
		func() protocolBody { return &SaslAuthenticateRequest{} },
		func() protocolBody { return &SaslAuthenticateResponse{} })
}

// SaslHandshakeRequest negotiates the SASL mechanism before the opaque
// SaslAuthenticate byte exchange begins (§4.G's auth dispatch).
type SaslHandshakeRequest struct {
	Version   int16
	Mechanism string
}

func (r *SaslHandshakeRequest) setVersion(v int16) { r.Version = v }
func (r *SaslHandshakeRequest) encode(pe packetEncoder) error {
	return pe.putString(r.Mechanism)
}
func (r *SaslHandshakeRequest) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	r.Mechanism, err = pd.getString()
	return err
}
func (r *SaslHandshakeRequest) key() int16              { return apiKeySaslHandshake }
func (r *SaslHandshakeRequest) version() int16           { return r.Version }
func (r *SaslHandshakeRequest) headerVersion() int16     { return 1 }
func (r *SaslHandshakeRequest) isValidVersion() bool     { return r.Version >= 0 && r.Version <= 1 }
func (r *SaslHandshakeRequest) requiredVersion() KafkaVersion { return V0_10_0_0 }

type SaslHandshakeResponse struct {
	Version           int16
	Err               KError
	EnabledMechanisms []string
}

func (r *SaslHandshakeResponse) setVersion(v int16) { r.Version = v }
func (r *SaslHandshakeResponse) encode(pe packetEncoder) error {
	pe.putInt16(int16(r.Err))
	return pe.putStringArray(r.EnabledMechanisms)
}
func (r *SaslHandshakeResponse) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	ec, err := pd.getInt16()
	if err != nil {
		return err
	}
	r.Err = KError(ec)
	r.EnabledMechanisms, err = pd.getStringArray()
	return err
}
func (r *SaslHandshakeResponse) key() int16              { return apiKeySaslHandshake }
func (r *SaslHandshakeResponse) version() int16           { return r.Version }
func (r *SaslHandshakeResponse) headerVersion() int16     { return 0 }
func (r *SaslHandshakeResponse) isValidVersion() bool     { return r.Version >= 0 && r.Version <= 1 }
func (r *SaslHandshakeResponse) requiredVersion() KafkaVersion { return V0_10_0_0 }

// SaslAuthenticateRequest carries one opaque round trip of the negotiated
// SASL mechanism's byte exchange (plain creds, a SCRAM message, a GSSAPI
// token, ...).
type SaslAuthenticateRequest struct {
	Version      int16
	SaslAuthBytes []byte
}

func (r *SaslAuthenticateRequest) setVersion(v int16) { r.Version = v }
func (r *SaslAuthenticateRequest) encode(pe packetEncoder) error {
	return pe.putBytes(r.SaslAuthBytes)
}
func (r *SaslAuthenticateRequest) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	r.SaslAuthBytes, err = pd.getBytes()
	return err
}
func (r *SaslAuthenticateRequest) key() int16              { return apiKeySaslAuthenticate }
func (r *SaslAuthenticateRequest) version() int16           { return r.Version }
func (r *SaslAuthenticateRequest) headerVersion() int16     { return 1 }
func (r *SaslAuthenticateRequest) isValidVersion() bool     { return r.Version >= 0 && r.Version <= 2 }
func (r *SaslAuthenticateRequest) requiredVersion() KafkaVersion { return V1_0_0_0 }

type SaslAuthenticateResponse struct {
	Version         int16
	Err             KError
	ErrorMessage    *string
	SaslAuthBytes   []byte
	SessionLifetimeMs int64
}

func (r *SaslAuthenticateResponse) setVersion(v int16) { r.Version = v }
func (r *SaslAuthenticateResponse) encode(pe packetEncoder) error {
	pe.putInt16(int16(r.Err))
	if err := pe.putNullableString(r.ErrorMessage); err != nil {
		return err
	}
	if err := pe.putBytes(r.SaslAuthBytes); err != nil {
		return err
	}
	if r.Version >= 1 {
		pe.putInt64(r.SessionLifetimeMs)
	}
	return nil
}
func (r *SaslAuthenticateResponse) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	ec, err := pd.getInt16()
	if err != nil {
		return err
	}
	r.Err = KError(ec)
	if r.ErrorMessage, err = pd.getNullableString(); err != nil {
		return err
	}
	if r.SaslAuthBytes, err = pd.getBytes(); err != nil {
		return err
	}
	if version >= 1 {
		if r.SessionLifetimeMs, err = pd.getInt64(); err != nil {
			return err
		}
	}
	return nil
}
func (r *SaslAuthenticateResponse) key() int16              { return apiKeySaslAuthenticate }
func (r *SaslAuthenticateResponse) version() int16           { return r.Version }
func (r *SaslAuthenticateResponse) headerVersion() int16     { return 0 }
func (r *SaslAuthenticateResponse) isValidVersion() bool     { return r.Version >= 0 && r.Version <= 2 }
func (r *SaslAuthenticateResponse) requiredVersion() KafkaVersion { return V1_0_0_0 }
