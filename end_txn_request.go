package kafka

func init() {
	registerAPI(apiKeyEndTxn, "EndTxn", 0, 2,
		func() protocolBody { return &EndTxnRequest{} },
		func() protocolBody { return &EndTxnResponse{} })
}

// EndTxnRequest is sent by transactionManager.endTxn to close out the open
// transaction, committing (TransactionResult true) or aborting (false) everything the
// producer enlisted via AddPartitionsToTxn since the matching BeginTxn.
type EndTxnRequest struct {
	Version           int16
	TransactionalID   string
	ProducerID        int64
	ProducerEpoch     int16
	TransactionResult bool
}

func (r *EndTxnRequest) setVersion(v int16) {
	r.Version = v
}

func (r *EndTxnRequest) encode(pe packetEncoder) error {
	if err := pe.putString(r.TransactionalID); err != nil {
		return err
	}

	pe.putInt64(r.ProducerID)

	pe.putInt16(r.ProducerEpoch)

	pe.putBool(r.TransactionResult)

	return nil
}

func (r *EndTxnRequest) decode(pd packetDecoder, version int16) (err error) {
	r.Version = version
	if r.TransactionalID, err = pd.getString(); err != nil {
		return err
	}
	if r.ProducerID, err = pd.getInt64(); err != nil {
		return err
	}
	if r.ProducerEpoch, err = pd.getInt16(); err != nil {
		return err
	}
	if r.TransactionResult, err = pd.getBool(); err != nil {
		return err
	}
	return nil
}

func (r *EndTxnRequest) key() int16 {
	return apiKeyEndTxn
}

func (r *EndTxnRequest) version() int16 {
	return r.Version
}

func (r *EndTxnRequest) headerVersion() int16 {
	return 1
}

func (r *EndTxnRequest) isValidVersion() bool {
	return r.Version >= 0 && r.Version <= 2
}

func (r *EndTxnRequest) requiredVersion() KafkaVersion {
	switch r.Version {
	case 2:
		return V2_7_0_0
	case 1:
		return V2_0_0_0
	default:
		return V0_11_0_0
	}
}
