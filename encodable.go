package kafka

import metrics "github.com/rcrowley/go-metrics"

// encoder is implemented by anything with a fixed (non-versioned) wire
// encoding: the legacy Message/MessageSet, and the envelope types that wrap
// a versioned protocolBody.
type encoder interface {
	encode(pe packetEncoder) error
}

// decoder is the encoder's read-side counterpart.
type decoder interface {
	decode(pd packetDecoder) error
}

// versionedDecoder is implemented by anything whose wire shape depends on a
// negotiated API version.
type versionedDecoder interface {
	decode(pd packetDecoder, version int16) error
}

// encode serializes e into a standalone byte slice using a fresh realEncoder.
func encode(e encoder, metricRegistry metrics.Registry) ([]byte, error) {
	if e == nil {
		return nil, nil
	}
	re := newRealEncoder(metricRegistry)
	if err := e.encode(re); err != nil {
		return nil, err
	}
	return re.bytes(), nil
}

// decode parses buf into in using a fresh realDecoder, verifying the whole
// buffer was consumed (§8: "parse(serialize(x)) = x ... for the prefix
// consumed" — any trailing bytes would indicate a framing bug).
func decode(buf []byte, in decoder, metricRegistry metrics.Registry) error {
	if buf == nil {
		return nil
	}
	rd := newRealDecoder(buf)
	if err := in.decode(rd); err != nil {
		return err
	}
	if rd.remaining() > 0 {
		return PacketDecodingError{Info: "invalid length"}
	}
	return nil
}

// versionedDecode is decode's versioned-wire-format counterpart.
func versionedDecode(buf []byte, in versionedDecoder, version int16, metricRegistry metrics.Registry) error {
	if buf == nil {
		return nil
	}
	rd := newRealDecoder(buf)
	if err := in.decode(rd, version); err != nil {
		return err
	}
	if rd.remaining() > 0 {
		return PacketDecodingError{Info: "invalid length"}
	}
	return nil
}
