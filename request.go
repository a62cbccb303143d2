package kafka

import (
	metrics "github.com/rcrowley/go-metrics"
)

// protocolBody is implemented by every request and response type in this
// package (§4.B): it knows its own API key, which version it is currently
// set to encode/decode as, which header shape that version uses, and the
// minimum broker release the registry should require for it.
type protocolBody interface {
	versionedDecoder
	encoder
	key() int16
	version() int16
	setVersion(v int16)
	headerVersion() int16
	isValidVersion() bool
	requiredVersion() KafkaVersion
}

// throttleSupport is implemented by responses whose first field (post
// version gating) is a server-side throttle time.
type throttleSupport interface {
	throttleTime() int32
}

// Request is the full wire frame of §4.C: size prefix, header, body. The
// header shape (whether it carries the client id and tagged fields) is
// decided per API version by headerVersion().
type Request struct {
	CorrelationID int32
	ClientID      string
	Body          protocolBody
}

func (r *Request) encode(pe packetEncoder) error {
	pe.putInt16(r.Body.key())
	pe.putInt16(r.Body.version())
	pe.putInt32(r.CorrelationID)

	if r.Body.headerVersion() >= 1 {
		if err := pe.putString(r.ClientID); err != nil {
			return err
		}
	}

	if r.Body.headerVersion() >= 2 {
		pe.putEmptyTaggedFieldArray()
	}

	return r.Body.encode(pe)
}

func (r *Request) decode(pd packetDecoder) (err error) {
	key, err := pd.getInt16()
	if err != nil {
		return err
	}
	version, err := pd.getInt16()
	if err != nil {
		return err
	}
	r.CorrelationID, err = pd.getInt32()
	if err != nil {
		return err
	}

	body := allocateRequestBody(key, version)
	if body == nil {
		return PacketDecodingError{Info: "unknown request key"}
	}
	r.Body = body

	if r.Body.headerVersion() >= 1 {
		clientID, err := pd.getNullableString()
		if err != nil {
			return err
		}
		if clientID != nil {
			r.ClientID = *clientID
		}
	}

	if r.Body.headerVersion() >= 2 {
		if _, err := pd.getEmptyTaggedFieldArray(); err != nil {
			return err
		}
	}

	return r.Body.decode(pd, version)
}

// encodeRequest serializes the full length-prefixed frame a Connection
// writes to the socket.
func encodeRequest(req *Request, metricRegistry metrics.Registry) ([]byte, error) {
	re := newRealEncoder(metricRegistry)
	re.push(&lengthField{})
	if err := req.encode(re); err != nil {
		return nil, err
	}
	if err := re.pop(); err != nil {
		return nil, err
	}
	return re.bytes(), nil
}
