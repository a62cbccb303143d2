package kafka

import (
	"time"
)

const recordBatchOverhead = 49

// RecordBatch attribute bits (§4.A).
const (
	codecMaskRecordBatch    = 0x07
	timestampTypeMask       = 0x08
	isTransactionalMask     = 0x10
	controlMask             = 0x20
)

// RecordBatch is the magic-2 wrapper format that every Produce/Fetch payload
// uses: a self-describing header (CRC, compression, transactional/control
// flags, producer id/epoch/sequence for idempotence) followed by zero or
// more delta-encoded Records, optionally compressed as a single block.
type RecordBatch struct {
	FirstOffset           int64
	PartitionLeaderEpoch  int32
	Version               int8 // magic byte, always 2
	Codec                 CompressionCodec
	CompressionLevel      int
	Control               bool
	LastOffsetDelta       int32
	FirstTimestamp        time.Time
	MaxTimestamp          time.Time
	ProducerID            int64
	ProducerEpoch         int16
	FirstSequence         int32
	Records               []*Record
	PartialTrailingRecord bool
	IsTransactional       bool

	compressedRecords []byte
	recordsLen        int
}

func (b *RecordBatch) encode(pe packetEncoder) error {
	pe.putInt64(b.FirstOffset)
	pe.push(&lengthField{})
	pe.putInt32(b.PartitionLeaderEpoch)
	pe.putInt8(2)
	pe.push(&crc32Field{})

	pe.putInt16(b.computeAttributes())
	pe.putInt32(b.LastOffsetDelta)

	if err := (Timestamp{&b.FirstTimestamp}).encode(pe); err != nil {
		return err
	}
	if err := (Timestamp{&b.MaxTimestamp}).encode(pe); err != nil {
		return err
	}

	pe.putInt64(b.ProducerID)
	pe.putInt16(b.ProducerEpoch)
	pe.putInt32(b.FirstSequence)

	if err := pe.putArrayLength(len(b.Records)); err != nil {
		return err
	}

	if b.Codec == CompressionNone {
		for _, rec := range b.Records {
			if err := rec.encode(pe); err != nil {
				return err
			}
		}
	} else {
		if b.compressedRecords == nil {
			if err := b.encodeRecordsTo(pe, &b.compressedRecords); err != nil {
				return err
			}
		}
		if err := pe.putRawBytes(b.compressedRecords); err != nil {
			return err
		}
	}

	return pe.pop() // crc
}

func (b *RecordBatch) encodeRecordsTo(pe packetEncoder, dst *[]byte) error {
	raw := newRealEncoder(pe.metricRegistry())
	for _, rec := range b.Records {
		if err := rec.encode(raw); err != nil {
			return err
		}
	}
	compressed, err := compress(b.Codec, b.CompressionLevel, raw.bytes())
	if err != nil {
		return err
	}
	*dst = compressed
	return nil
}

func (b *RecordBatch) computeAttributes() int16 {
	attr := int16(b.Codec) & codecMaskRecordBatch
	if b.Control {
		attr |= controlMask
	}
	if b.IsTransactional {
		attr |= isTransactionalMask
	}
	return attr
}

func (b *RecordBatch) decode(pd packetDecoder) (err error) {
	if b.FirstOffset, err = pd.getInt64(); err != nil {
		return err
	}

	batchLen, err := pd.getInt32()
	if err != nil {
		return err
	}

	if b.PartitionLeaderEpoch, err = pd.getInt32(); err != nil {
		return err
	}

	if b.Version, err = pd.getInt8(); err != nil {
		return err
	}

	if err = pd.push(&crc32Field{}); err != nil {
		return err
	}

	attributes, err := pd.getInt16()
	if err != nil {
		return err
	}
	b.Codec = CompressionCodec(int8(attributes) & codecMaskRecordBatch)
	b.Control = attributes&controlMask != 0
	b.IsTransactional = attributes&isTransactionalMask != 0

	if b.LastOffsetDelta, err = pd.getInt32(); err != nil {
		return err
	}

	if err = (Timestamp{&b.FirstTimestamp}).decode(pd); err != nil {
		return err
	}
	if err = (Timestamp{&b.MaxTimestamp}).decode(pd); err != nil {
		return err
	}

	if b.ProducerID, err = pd.getInt64(); err != nil {
		return err
	}
	if b.ProducerEpoch, err = pd.getInt16(); err != nil {
		return err
	}
	if b.FirstSequence, err = pd.getInt32(); err != nil {
		return err
	}

	numRecs, err := pd.getArrayLength()
	if err != nil {
		return err
	}

	bufSize := int(batchLen) - recordBatchOverhead
	if numRecs >= 0 {
		b.Records = make([]*Record, 0, minInt(numRecs, bufSize))
	}

	if b.Codec == CompressionNone {
		for i := 0; i < numRecs; i++ {
			rec := &Record{}
			if err := rec.decode(pd); err != nil {
				return err
			}
			b.Records = append(b.Records, rec)
		}
	} else if err := b.decodeCompressedRecords(pd, numRecs); err != nil {
		return err
	}

	return pd.pop()
}

func (b *RecordBatch) decodeCompressedRecords(pd packetDecoder, numRecs int) error {
	raw, err := pd.getRawBytes(pd.remaining())
	if err != nil {
		return err
	}
	plain, err := decompress(b.Codec, raw)
	if err != nil {
		return err
	}
	dpd := &realDecoder{raw: plain}
	for i := 0; i < numRecs; i++ {
		rec := &Record{}
		if err := rec.decode(dpd); err != nil {
			if err == ErrInsufficientData {
				b.PartialTrailingRecord = true
				return nil
			}
			return err
		}
		b.Records = append(b.Records, rec)
	}
	return nil
}

// Timestamp wraps a *time.Time so it can be encoded/decoded as the
// millisecond epoch Kafka uses on the wire, with -1 meaning "unset".
type Timestamp struct {
	*time.Time
}

func (t Timestamp) encode(pe packetEncoder) error {
	timestamp := int64(-1)
	if !t.Before(time.Unix(0, 0)) {
		timestamp = t.UnixNano() / int64(time.Millisecond)
	}
	pe.putInt64(timestamp)
	return nil
}

func (t Timestamp) decode(pd packetDecoder) error {
	millis, err := pd.getInt64()
	if err != nil {
		return err
	}
	if millis == -1 {
		*t.Time = time.Time{}
		return nil
	}
	*t.Time = time.Unix(millis/1000, (millis%1000)*int64(time.Millisecond)).UTC()
	return nil
}
