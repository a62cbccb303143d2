package kafka

import "sync/atomic"

// ProducerTxnStatusFlag reports where a transactional producer sits in the
// InitProducerId -> AddPartitionsToTxn -> EndTxn lifecycle (§4.H).
type ProducerTxnStatusFlag int32

const (
	ProducerTxnFlagUninitialized ProducerTxnStatusFlag = 1 << iota
	ProducerTxnFlagReady
	ProducerTxnFlagInTransaction
	ProducerTxnFlagEndTransaction
	ProducerTxnFlagInError
	ProducerTxnFlagFatalError
)

// TransactionalProducer is the subset of AsyncProducer available when the
// producer was constructed with Config.Producer.Transaction.ID set; obtain it
// with a type assertion on the AsyncProducer returned by NewAsyncProducer.
type TransactionalProducer interface {
	IsTransactional() bool
	TxnStatus() ProducerTxnStatusFlag
	BeginTxn() error
	CommitTxn() error
	AbortTxn() error
	AddOffsetsToTxn(offsets map[string]map[int32]int64, groupID string) error
}

func (p *producer) IsTransactional() bool {
	return p.conf.Producer.Transaction.ID != ""
}

func (p *producer) TxnStatus() ProducerTxnStatusFlag {
	if p.txnmgr == nil {
		return ProducerTxnFlagUninitialized
	}
	if atomic.LoadInt32(&p.txnmgr.inTxn) == 1 {
		return ProducerTxnFlagInTransaction
	}
	return ProducerTxnFlagReady
}

// BeginTxn opens a new transaction; every message sent afterward is enlisted
// in it via AddPartitionsToTxn until CommitTxn or AbortTxn closes it out.
func (p *producer) BeginTxn() error {
	if p.txnmgr == nil || !p.IsTransactional() {
		return ErrTransactionsNotEnabled
	}
	return p.txnmgr.BeginTxn()
}

// CommitTxn flushes everything buffered for the open transaction and sends
// EndTxn with TransactionResult=true, making the writes visible to
// read_committed consumers.
func (p *producer) CommitTxn() error {
	if p.txnmgr == nil || !p.IsTransactional() {
		return ErrTransactionsNotEnabled
	}
	if atomic.LoadInt32(&p.txnmgr.inTxn) == 0 {
		return ErrTransactionNotReady
	}
	return p.txnmgr.endTxn(true)
}

// AbortTxn sends EndTxn with TransactionResult=false; consumers configured
// with IsolationLevelReadCommitted never see the transaction's records.
func (p *producer) AbortTxn() error {
	if p.txnmgr == nil || !p.IsTransactional() {
		return ErrTransactionsNotEnabled
	}
	if atomic.LoadInt32(&p.txnmgr.inTxn) == 0 {
		return ErrTransactionNotReady
	}
	return p.txnmgr.endTxn(false)
}

// AddOffsetsToTxn folds a consumer group's offset commit into the current
// transaction (the read-process-write pattern), via AddOffsetsToTxn followed
// by a TxnOffsetCommit to the group's coordinator.
func (p *producer) AddOffsetsToTxn(offsets map[string]map[int32]int64, groupID string) error {
	if p.txnmgr == nil || !p.IsTransactional() {
		return ErrTransactionsNotEnabled
	}
	if atomic.LoadInt32(&p.txnmgr.inTxn) == 0 {
		return ErrTransactionNotReady
	}
	return p.txnmgr.addOffsetsToTxn(offsets, groupID)
}

func (tm *transactionManager) addOffsetsToTxn(offsets map[string]map[int32]int64, groupID string) error {
	coordinator, err := tm.client.TxnCoordinator(tm.conf.Producer.Transaction.ID)
	if err != nil {
		return err
	}
	addReq := &AddOffsetsToTxnRequest{
		TransactionalID: tm.conf.Producer.Transaction.ID,
		ProducerID:      tm.producerID,
		ProducerEpoch:   tm.producerEpoch,
		GroupID:         groupID,
	}
	resp, err := coordinator.sendWithResponse(tm.conf.ClientID, addReq)
	if err != nil {
		return err
	}
	addResp := resp.(*AddOffsetsToTxnResponse)
	if addResp.Err != ErrNoError {
		return addResp.Err
	}

	groupCoordinator, err := tm.client.Coordinator(groupID)
	if err != nil {
		return err
	}
	commitReq := &TxnOffsetCommitRequest{
		TransactionalID: tm.conf.Producer.Transaction.ID,
		GroupID:         groupID,
		ProducerID:      tm.producerID,
		ProducerEpoch:   tm.producerEpoch,
	}
	for topic, partitions := range offsets {
		for partition, offset := range partitions {
			commitReq.AddOffset(topic, partition, offset, -1, nil)
		}
	}
	commitResp, err := groupCoordinator.sendWithResponse(tm.conf.ClientID, commitReq)
	if err != nil {
		return err
	}
	txnCommitResp := commitResp.(*TxnOffsetCommitResponse)
	for _, partitions := range txnCommitResp.Topics {
		for _, perr := range partitions {
			if perr != ErrNoError {
				return perr
			}
		}
	}
	return nil
}
