package kafka

type InitProducerIDResponse struct {
	Version        int16
	ThrottleTimeMs int32
	Err            KError
	ProducerID     int64
	ProducerEpoch  int16
}

func (r *InitProducerIDResponse) setVersion(v int16) { r.Version = v }

func (r *InitProducerIDResponse) encode(pe packetEncoder) error {
	pe.putInt32(r.ThrottleTimeMs)
	pe.putInt16(int16(r.Err))
	pe.putInt64(r.ProducerID)
	pe.putInt16(r.ProducerEpoch)
	if r.Version >= 2 {
		pe.putEmptyTaggedFieldArray()
	}
	return nil
}

func (r *InitProducerIDResponse) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if r.ThrottleTimeMs, err = pd.getInt32(); err != nil {
		return err
	}
	ec, err := pd.getInt16()
	if err != nil {
		return err
	}
	r.Err = KError(ec)
	if r.ProducerID, err = pd.getInt64(); err != nil {
		return err
	}
	if r.ProducerEpoch, err = pd.getInt16(); err != nil {
		return err
	}
	if version >= 2 {
		if _, err = pd.getEmptyTaggedFieldArray(); err != nil {
			return err
		}
	}
	return nil
}

func (r *InitProducerIDResponse) key() int16          { return apiKeyInitProducerId }
func (r *InitProducerIDResponse) version() int16       { return r.Version }
func (r *InitProducerIDResponse) headerVersion() int16 {
	if r.Version >= 2 {
		return 1
	}
	return 0
}
func (r *InitProducerIDResponse) isValidVersion() bool { return r.Version >= 0 && r.Version <= 4 }
func (r *InitProducerIDResponse) requiredVersion() KafkaVersion {
	if r.Version >= 2 {
		return V2_4_0_0
	}
	return V0_11_0_0
}
func (r *InitProducerIDResponse) throttleTime() int32 { return r.ThrottleTimeMs }
