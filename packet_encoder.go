package kafka

import (
	"github.com/google/uuid"
	metrics "github.com/rcrowley/go-metrics"
)

// packetEncoder is the interface providing helpers for writing with Kafka's
// encoding rules. Types implementing Encoder only need to worry about
// calling methods like PutString, not about how a nil string is represented.
// It is implemented by realEncoder (actual serialization) and by a handful
// of pushEncoders (prepEncoder-style length/CRC placeholders).
type packetEncoder interface {
	// primitives
	putInt8(in int8)
	putInt16(in int16)
	putInt32(in int32)
	putInt64(in int64)
	putVarint(in int64)
	putUVarint(in uint64)
	putFloat64(in float64)
	putArrayLength(in int) error
	putCompactArrayLength(in int)
	putBool(in bool)

	// arrays
	putRawBytes(in []byte) error
	putBytes(in []byte) error
	putVarintBytes(in []byte) error
	putCompactBytes(in []byte) error
	putCompactString(in string) error
	putNullableCompactString(in *string) error
	putString(in string) error
	putNullableString(in *string) error
	putStringArray(in []string) error
	putCompactStringArray(in []string) error
	putInt32Array(in []int32) error
	putInt64Array(in []int64) error
	putEmptyTaggedFieldArray()
	putUUID(in uuid.UUID) error

	// stackable
	push(in pushEncoder)
	pop() error

	// we record the metrics in one place
	metricRegistry() metrics.Registry
}

// pushEncoder is the interface for encoder "push"/"pop" pairs that require
// reserving space up front and patching it once the bracketed body is known,
// like Kafka's request size and record batch CRC prefixes.
type pushEncoder interface {
	// saveOffset is called during push() to save the offset at which the
	// length field itself appears.
	saveOffset(in int)

	// reserveLength returns the number of bytes (typically 4) that need to
	// be reserved for the encoder.
	reserveLength() int

	// run is called once the bracketed data has been written, and should
	// write the actual value into the correct place using the saved offset.
	run(curOffset int, buf []byte) error
}

// dynamicPushEncoder extends pushEncoder for length fields that need to
// track the final encoded size, e.g. for deciding between encodings.
type dynamicPushEncoder interface {
	pushEncoder

	// adjustLength adjusts the length computation based on a size offset.
	adjustLength(currOffset int) int
}
