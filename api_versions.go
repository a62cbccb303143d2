package kafka

func init() {
	registerAPI(apiKeyApiVersions, "ApiVersions", 0, 3,
		func() protocolBody { return &ApiVersionsRequest{} },
		func() protocolBody { return &ApiVersionsResponse{} })
}

// ApiVersionsRequest asks a broker which API keys/versions it supports.
// Broker.Open does not send it, and no other code path in this package does;
// requests go out at the version their caller sets.
type ApiVersionsRequest struct {
	Version         int16
	ClientSoftwareName    string
	ClientSoftwareVersion string
}

func (r *ApiVersionsRequest) setVersion(v int16) { r.Version = v }

func (r *ApiVersionsRequest) encode(pe packetEncoder) error {
	if r.Version >= 3 {
		if err := pe.putCompactString(r.ClientSoftwareName); err != nil {
			return err
		}
		if err := pe.putCompactString(r.ClientSoftwareVersion); err != nil {
			return err
		}
		pe.putEmptyTaggedFieldArray()
	}
	return nil
}

func (r *ApiVersionsRequest) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if version >= 3 {
		if r.ClientSoftwareName, err = pd.getCompactString(); err != nil {
			return err
		}
		if r.ClientSoftwareVersion, err = pd.getCompactString(); err != nil {
			return err
		}
		if _, err = pd.getEmptyTaggedFieldArray(); err != nil {
			return err
		}
	}
	return nil
}

func (r *ApiVersionsRequest) key() int16              { return apiKeyApiVersions }
func (r *ApiVersionsRequest) version() int16           { return r.Version }
func (r *ApiVersionsRequest) headerVersion() int16     { return 1 }
func (r *ApiVersionsRequest) isValidVersion() bool     { return r.Version >= 0 && r.Version <= 3 }
func (r *ApiVersionsRequest) requiredVersion() KafkaVersion {
	return V0_10_0_0
}

// ApiVersionsResponseKey is the supported [min,max] range for one API key.
type ApiVersionsResponseKey struct {
	APIKey     int16
	MinVersion int16
	MaxVersion int16
}

type ApiVersionsResponse struct {
	Version        int16
	ErrorCode      KError
	ApiKeys        []ApiVersionsResponseKey
	ThrottleTimeMs int32
}

func (r *ApiVersionsResponse) setVersion(v int16) { r.Version = v }

func (r *ApiVersionsResponse) encode(pe packetEncoder) error {
	pe.putInt16(int16(r.ErrorCode))
	if r.Version >= 3 {
		pe.putCompactArrayLength(len(r.ApiKeys))
	} else if err := pe.putArrayLength(len(r.ApiKeys)); err != nil {
		return err
	}
	for _, k := range r.ApiKeys {
		pe.putInt16(k.APIKey)
		pe.putInt16(k.MinVersion)
		pe.putInt16(k.MaxVersion)
		if r.Version >= 3 {
			pe.putEmptyTaggedFieldArray()
		}
	}
	if r.Version >= 1 {
		pe.putInt32(r.ThrottleTimeMs)
	}
	if r.Version >= 3 {
		pe.putEmptyTaggedFieldArray()
	}
	return nil
}

func (r *ApiVersionsResponse) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	errCode, err := pd.getInt16()
	if err != nil {
		return err
	}
	r.ErrorCode = KError(errCode)

	var n int
	if version >= 3 {
		n, err = pd.getCompactArrayLength()
	} else {
		n, err = pd.getArrayLength()
	}
	if err != nil {
		return err
	}

	r.ApiKeys = make([]ApiVersionsResponseKey, n)
	for i := 0; i < n; i++ {
		if r.ApiKeys[i].APIKey, err = pd.getInt16(); err != nil {
			return err
		}
		if r.ApiKeys[i].MinVersion, err = pd.getInt16(); err != nil {
			return err
		}
		if r.ApiKeys[i].MaxVersion, err = pd.getInt16(); err != nil {
			return err
		}
		if version >= 3 {
			if _, err = pd.getEmptyTaggedFieldArray(); err != nil {
				return err
			}
		}
	}

	if version >= 1 {
		if r.ThrottleTimeMs, err = pd.getInt32(); err != nil {
			return err
		}
	}
	if version >= 3 {
		if _, err = pd.getEmptyTaggedFieldArray(); err != nil {
			return err
		}
	}
	return nil
}

func (r *ApiVersionsResponse) key() int16              { return apiKeyApiVersions }
func (r *ApiVersionsResponse) version() int16           { return r.Version }
func (r *ApiVersionsResponse) headerVersion() int16     { return 0 }
func (r *ApiVersionsResponse) isValidVersion() bool     { return r.Version >= 0 && r.Version <= 3 }
func (r *ApiVersionsResponse) requiredVersion() KafkaVersion {
	return V0_10_0_0
}
func (r *ApiVersionsResponse) throttleTime() int32 { return r.ThrottleTimeMs }
