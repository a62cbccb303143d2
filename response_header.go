package kafka

// responseHeader is the bare correlation-id prefix every response frame
// starts with; flexible-version responses (headerVersion 1) append a
// tagged-fields region after it.
type responseHeader struct {
	length        int32
	correlationID int32
	taggedFields  TaggedFields
}

func (r *responseHeader) decode(pd packetDecoder, headerVersion int16) (err error) {
	r.correlationID, err = pd.getInt32()
	if err != nil {
		return err
	}
	if headerVersion >= 1 {
		if r.taggedFields, err = decodeTaggedFields(pd); err != nil {
			return err
		}
	}
	return nil
}
