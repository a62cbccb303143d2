package kafka

type EndTxnResponse struct {
	Version        int16
	ThrottleTimeMs int32
	Err            KError
}

func (r *EndTxnResponse) setVersion(v int16) { r.Version = v }

func (r *EndTxnResponse) encode(pe packetEncoder) error {
	pe.putInt32(r.ThrottleTimeMs)
	pe.putInt16(int16(r.Err))
	return nil
}

func (r *EndTxnResponse) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if r.ThrottleTimeMs, err = pd.getInt32(); err != nil {
		return err
	}
	ec, err := pd.getInt16()
	r.Err = KError(ec)
	return err
}

func (r *EndTxnResponse) key() int16              { return apiKeyEndTxn }
func (r *EndTxnResponse) version() int16           { return r.Version }
func (r *EndTxnResponse) headerVersion() int16     { return 0 }
func (r *EndTxnResponse) isValidVersion() bool     { return r.Version >= 0 && r.Version <= 2 }
func (r *EndTxnResponse) requiredVersion() KafkaVersion {
	if r.Version >= 1 {
		return V2_0_0_0
	}
	return V0_11_0_0
}
func (r *EndTxnResponse) throttleTime() int32 { return r.ThrottleTimeMs }
