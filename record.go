package kafka

import "errors"

// RecordHeader is one entry of a record's header array, added in the
// magic-2 format for passing out-of-band metadata alongside a record.
type RecordHeader struct {
	Key   []byte
	Value []byte
}

func (h *RecordHeader) encode(pe packetEncoder) error {
	if err := pe.putVarintBytes(h.Key); err != nil {
		return err
	}
	return pe.putVarintBytes(h.Value)
}

func (h *RecordHeader) decode(pd packetDecoder) (err error) {
	if h.Key, err = pd.getVarintBytes(); err != nil {
		return err
	}
	if h.Value, err = pd.getVarintBytes(); err != nil {
		return err
	}
	return nil
}

// Record is a single magic-2 record (§4.A). Offset and timestamp are stored
// on the wire as deltas from the enclosing batch's base values; encode/decode
// take those base values so callers deal only in absolutes.
type Record struct {
	Attributes     int8
	TimestampDelta int64
	OffsetDelta    int64
	Key            []byte
	Value          []byte
	Headers        []*RecordHeader

	length varintLengthField
}

func (r *Record) encode(pe packetEncoder) error {
	pe.push(&r.length)
	pe.putInt8(r.Attributes)
	pe.putVarint(r.TimestampDelta)
	pe.putVarint(r.OffsetDelta)
	if err := pe.putVarintBytes(r.Key); err != nil {
		return err
	}
	if err := pe.putVarintBytes(r.Value); err != nil {
		return err
	}
	pe.putVarint(int64(len(r.Headers)))
	for _, h := range r.Headers {
		if err := h.encode(pe); err != nil {
			return err
		}
	}
	return pe.pop()
}

func (r *Record) decode(pd packetDecoder) (err error) {
	length, err := pd.getVarint()
	if err != nil {
		return err
	}
	body, err := pd.getSubset(int(length))
	if err != nil {
		return err
	}

	if r.Attributes, err = body.getInt8(); err != nil {
		return err
	}
	if r.TimestampDelta, err = body.getVarint(); err != nil {
		return err
	}
	if r.OffsetDelta, err = body.getVarint(); err != nil {
		return err
	}
	if r.Key, err = body.getVarintBytes(); err != nil {
		return err
	}
	if r.Value, err = body.getVarintBytes(); err != nil {
		return err
	}

	numHeaders, err := body.getVarint()
	if err != nil {
		return err
	}
	if numHeaders < 0 {
		return errors.New("kafka: invalid negative header count")
	}
	r.Headers = make([]*RecordHeader, numHeaders)
	for i := range r.Headers {
		h := new(RecordHeader)
		if err := h.decode(body); err != nil {
			return err
		}
		r.Headers[i] = h
	}
	return nil
}
