package kafka

func init() {
	registerAPI(apiKeyDescribeUserScramCredentials, "DescribeUserScramCredentials", 0, 0,
		func() protocolBody { return &DescribeUserScramCredentialsRequest{} },
		func() protocolBody { return &DescribeUserScramCredentialsResponse{} })
	registerAPI(apiKeyAlterUserScramCredentials, "AlterUserScramCredentials", 0, 0,
		func() protocolBody { return &AlterUserScramCredentialsRequest{} },
		func() protocolBody { return &AlterUserScramCredentialsResponse{} })
}

// ScramMechanism names a SCRAM mechanism as the wire protocol enumerates it
// (distinct from the SASLMechanism string config.go uses to pick one).
type ScramMechanism int8

const (
	ScramMechanismSHA256 ScramMechanism = 1
	ScramMechanismSHA512 ScramMechanism = 2
)

// DescribeUserScramCredentialsRequest lists configured SCRAM credentials for
// the named users, or every user if Users is nil; backs
// ClusterAdmin.DescribeUserScramCredentials.
type DescribeUserScramCredentialsRequest struct {
	Version int16
	Users   []string
}

func (r *DescribeUserScramCredentialsRequest) setVersion(v int16) { r.Version = v }

func (r *DescribeUserScramCredentialsRequest) encode(pe packetEncoder) error {
	if r.Users == nil {
		return pe.putArrayLength(-1)
	}
	if err := pe.putArrayLength(len(r.Users)); err != nil {
		return err
	}
	for _, u := range r.Users {
		if err := pe.putString(u); err != nil {
			return err
		}
	}
	return nil
}

func (r *DescribeUserScramCredentialsRequest) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	if n < 0 {
		r.Users = nil
		return nil
	}
	r.Users = make([]string, n)
	for i := 0; i < n; i++ {
		if r.Users[i], err = pd.getString(); err != nil {
			return err
		}
	}
	return nil
}

func (r *DescribeUserScramCredentialsRequest) key() int16          { return apiKeyDescribeUserScramCredentials }
func (r *DescribeUserScramCredentialsRequest) version() int16       { return r.Version }
func (r *DescribeUserScramCredentialsRequest) headerVersion() int16 { return 1 }
func (r *DescribeUserScramCredentialsRequest) isValidVersion() bool { return r.Version == 0 }
func (r *DescribeUserScramCredentialsRequest) requiredVersion() KafkaVersion { return V2_7_0_0 }

type CredentialInfo struct {
	Mechanism  ScramMechanism
	Iterations int32
}

type UserScramCredentialsResult struct {
	User         string
	ErrorCode    int16
	ErrorMessage *string
	Credentials  []CredentialInfo
}

type DescribeUserScramCredentialsResponse struct {
	Version        int16
	ThrottleTimeMs int32
	ErrorCode      int16
	ErrorMessage   *string
	Results        []UserScramCredentialsResult
}

func (r *DescribeUserScramCredentialsResponse) setVersion(v int16) { r.Version = v }

func (r *DescribeUserScramCredentialsResponse) encode(pe packetEncoder) error {
	pe.putInt32(r.ThrottleTimeMs)
	pe.putInt16(r.ErrorCode)
	if err := pe.putNullableString(r.ErrorMessage); err != nil {
		return err
	}
	if err := pe.putArrayLength(len(r.Results)); err != nil {
		return err
	}
	for _, res := range r.Results {
		if err := pe.putString(res.User); err != nil {
			return err
		}
		pe.putInt16(res.ErrorCode)
		if err := pe.putNullableString(res.ErrorMessage); err != nil {
			return err
		}
		if err := pe.putArrayLength(len(res.Credentials)); err != nil {
			return err
		}
		for _, c := range res.Credentials {
			pe.putInt8(int8(c.Mechanism))
			pe.putInt32(c.Iterations)
		}
	}
	return nil
}

func (r *DescribeUserScramCredentialsResponse) decode(pd packetDecoder, version int16) (err error) {
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
	r.Results = make([]UserScramCredentialsResult, n)
	for i := 0; i < n; i++ {
		user, err := pd.getString()
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
		cn, err := pd.getArrayLength()
		if err != nil {
			return err
		}
		creds := make([]CredentialInfo, cn)
		for j := 0; j < cn; j++ {
			mech, err := pd.getInt8()
			if err != nil {
				return err
			}
			iterations, err := pd.getInt32()
			if err != nil {
				return err
			}
			creds[j] = CredentialInfo{Mechanism: ScramMechanism(mech), Iterations: iterations}
		}
		r.Results[i] = UserScramCredentialsResult{User: user, ErrorCode: errCode, ErrorMessage: errMsg, Credentials: creds}
	}
	return nil
}

func (r *DescribeUserScramCredentialsResponse) key() int16          { return apiKeyDescribeUserScramCredentials }
func (r *DescribeUserScramCredentialsResponse) version() int16       { return r.Version }
func (r *DescribeUserScramCredentialsResponse) headerVersion() int16 { return 0 }
func (r *DescribeUserScramCredentialsResponse) isValidVersion() bool { return r.Version == 0 }
func (r *DescribeUserScramCredentialsResponse) requiredVersion() KafkaVersion { return V2_7_0_0 }
func (r *DescribeUserScramCredentialsResponse) throttleTime() int32           { return r.ThrottleTimeMs }

// ScramCredentialUpsertion sets (or replaces) one user's SCRAM credential.
// SaltedPassword is computed by the caller (xdg-go/scram's client-first
// derivation) from the plaintext password and Salt.
type ScramCredentialUpsertion struct {
	User           string
	Mechanism      ScramMechanism
	Iterations     int32
	Salt           []byte
	SaltedPassword []byte
}

type ScramCredentialDeletion struct {
	User      string
	Mechanism ScramMechanism
}

// AlterUserScramCredentialsRequest upserts and/or deletes SCRAM credentials
// in one call; backs ClusterAdmin.UpsertUserScramCredential and
// ClusterAdmin.DeleteUserScramCredential.
type AlterUserScramCredentialsRequest struct {
	Version    int16
	Deletions  []ScramCredentialDeletion
	Upsertions []ScramCredentialUpsertion
}

func (r *AlterUserScramCredentialsRequest) setVersion(v int16) { r.Version = v }

func (r *AlterUserScramCredentialsRequest) encode(pe packetEncoder) error {
	if err := pe.putArrayLength(len(r.Deletions)); err != nil {
		return err
	}
	for _, d := range r.Deletions {
		if err := pe.putString(d.User); err != nil {
			return err
		}
		pe.putInt8(int8(d.Mechanism))
	}
	if err := pe.putArrayLength(len(r.Upsertions)); err != nil {
		return err
	}
	for _, u := range r.Upsertions {
		if err := pe.putString(u.User); err != nil {
			return err
		}
		pe.putInt8(int8(u.Mechanism))
		pe.putInt32(u.Iterations)
		if err := pe.putBytes(u.Salt); err != nil {
			return err
		}
		if err := pe.putBytes(u.SaltedPassword); err != nil {
			return err
		}
	}
	return nil
}

func (r *AlterUserScramCredentialsRequest) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	dn, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	r.Deletions = make([]ScramCredentialDeletion, dn)
	for i := 0; i < dn; i++ {
		user, err := pd.getString()
		if err != nil {
			return err
		}
		mech, err := pd.getInt8()
		if err != nil {
			return err
		}
		r.Deletions[i] = ScramCredentialDeletion{User: user, Mechanism: ScramMechanism(mech)}
	}
	un, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	r.Upsertions = make([]ScramCredentialUpsertion, un)
	for i := 0; i < un; i++ {
		user, err := pd.getString()
		if err != nil {
			return err
		}
		mech, err := pd.getInt8()
		if err != nil {
			return err
		}
		iterations, err := pd.getInt32()
		if err != nil {
			return err
		}
		salt, err := pd.getBytes()
		if err != nil {
			return err
		}
		saltedPassword, err := pd.getBytes()
		if err != nil {
			return err
		}
		r.Upsertions[i] = ScramCredentialUpsertion{User: user, Mechanism: ScramMechanism(mech), Iterations: iterations, Salt: salt, SaltedPassword: saltedPassword}
	}
	return nil
}

func (r *AlterUserScramCredentialsRequest) key() int16          { return apiKeyAlterUserScramCredentials }
func (r *AlterUserScramCredentialsRequest) version() int16       { return r.Version }
func (r *AlterUserScramCredentialsRequest) headerVersion() int16 { return 1 }
func (r *AlterUserScramCredentialsRequest) isValidVersion() bool { return r.Version == 0 }
func (r *AlterUserScramCredentialsRequest) requiredVersion() KafkaVersion { return V2_7_0_0 }

type AlterUserScramCredentialsResult struct {
	User         string
	ErrorCode    int16
	ErrorMessage *string
}

func (res *AlterUserScramCredentialsResult) err() error {
	if res.ErrorCode == 0 {
		return nil
	}
	return KError(res.ErrorCode)
}

type AlterUserScramCredentialsResponse struct {
	Version        int16
	ThrottleTimeMs int32
	Results        []AlterUserScramCredentialsResult
}

func (r *AlterUserScramCredentialsResponse) setVersion(v int16) { r.Version = v }

func (r *AlterUserScramCredentialsResponse) encode(pe packetEncoder) error {
	pe.putInt32(r.ThrottleTimeMs)
	if err := pe.putArrayLength(len(r.Results)); err != nil {
		return err
	}
	for _, res := range r.Results {
		if err := pe.putString(res.User); err != nil {
			return err
		}
		pe.putInt16(res.ErrorCode)
		if err := pe.putNullableString(res.ErrorMessage); err != nil {
			return err
		}
	}
	return nil
}

func (r *AlterUserScramCredentialsResponse) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if r.ThrottleTimeMs, err = pd.getInt32(); err != nil {
		return err
	}
	n, err := pd.getArrayLength()
	if err != nil {
		return err
	}
	r.Results = make([]AlterUserScramCredentialsResult, n)
	for i := 0; i < n; i++ {
		user, err := pd.getString()
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
		r.Results[i] = AlterUserScramCredentialsResult{User: user, ErrorCode: errCode, ErrorMessage: errMsg}
	}
	return nil
}

func (r *AlterUserScramCredentialsResponse) key() int16          { return apiKeyAlterUserScramCredentials }
func (r *AlterUserScramCredentialsResponse) version() int16       { return r.Version }
func (r *AlterUserScramCredentialsResponse) headerVersion() int16 { return 0 }
func (r *AlterUserScramCredentialsResponse) isValidVersion() bool { return r.Version == 0 }
func (r *AlterUserScramCredentialsResponse) requiredVersion() KafkaVersion { return V2_7_0_0 }
func (r *AlterUserScramCredentialsResponse) throttleTime() int32           { return r.ThrottleTimeMs }
