package kafka

// TaggedField is one (tag, bytes) entry in a flexible-version tagged fields
// region (§4.A, §9 "tagged fields extensibility"). Unknown tags are kept as
// opaque bytes so a pass-through parser round-trips them unchanged.
type TaggedField struct {
	Tag   uint64
	Bytes []byte
}

// TaggedFields is an ordered mapping from tag to opaque bytes, as emitted at
// the end of any flexible-version request or response header/body.
type TaggedFields []TaggedField

func (t TaggedFields) encode(pe packetEncoder) error {
	pe.putCompactArrayLength(len(t))
	for _, f := range t {
		pe.putUVarint(f.Tag)
		if err := pe.putCompactBytes(f.Bytes); err != nil {
			return err
		}
	}
	return nil
}

// decodeTaggedFields reads a tagged-fields region, preserving every tag
// (known or not) as opaque bytes.
func decodeTaggedFields(pd packetDecoder) (TaggedFields, error) {
	n, err := pd.getUVarint()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	out := make(TaggedFields, 0, n)
	for i := uint64(0); i < n; i++ {
		tag, err := pd.getUVarint()
		if err != nil {
			return nil, err
		}
		length, err := pd.getUVarint()
		if err != nil {
			return nil, err
		}
		raw, err := pd.getRawBytes(int(length))
		if err != nil {
			return nil, err
		}
		buf := make([]byte, len(raw))
		copy(buf, raw)
		out = append(out, TaggedField{Tag: tag, Bytes: buf})
	}
	return out, nil
}

// Get returns the bytes stored for tag, and whether the tag was present.
func (t TaggedFields) Get(tag uint64) ([]byte, bool) {
	for _, f := range t {
		if f.Tag == tag {
			return f.Bytes, true
		}
	}
	return nil, false
}
