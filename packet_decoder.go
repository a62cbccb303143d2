package kafka

import "github.com/google/uuid"

// packetDecoder is the interface providing helpers for reading with Kafka's
// encoding rules. Types implementing Decoder only need to worry about
// calling methods like GetString, not about how a nil string is encoded.
type packetDecoder interface {
	// primitives
	getInt8() (int8, error)
	getInt16() (int16, error)
	getInt32() (int32, error)
	getInt64() (int64, error)
	getVarint() (int64, error)
	getUVarint() (uint64, error)
	getFloat64() (float64, error)
	getArrayLength() (int, error)
	getCompactArrayLength() (int, error)
	getBool() (bool, error)
	getEmptyTaggedFieldArray() (int, error)

	// arrays
	getBytes() ([]byte, error)
	getVarintBytes() ([]byte, error)
	getCompactBytes() ([]byte, error)
	getRawBytes(length int) ([]byte, error)
	getString() (string, error)
	getNullableString() (*string, error)
	getCompactString() (string, error)
	getCompactNullableString() (*string, error)
	getCompactInt32Array() ([]int32, error)
	getInt32Array() ([]int32, error)
	getInt64Array() ([]int64, error)
	getStringArray() ([]string, error)
	getUUID() (uuid.UUID, error)

	// subsets
	remaining() int
	getSubset(length int) (packetDecoder, error)
	peek(offset, length int) (packetDecoder, error)
	peekInt8(offset int) (int8, error)

	// stacks, see PushDecoder
	push(in pushDecoder) error
	pop() error
}

// pushDecoder is the decode-time mirror of pushEncoder: it captures a
// reserved-length field at push time and validates it at pop time (e.g. the
// CRC32C over a record batch body, or the size prefix of a whole response).
type pushDecoder interface {
	// saveOffset is called during push() to save the offset at which the
	// length field itself appears.
	saveOffset(in int)

	// reserveLength returns the number of bytes (typically 4) that were
	// reserved for this field.
	reserveLength() int

	// check is called at the end of the payload to verify the length/CRC.
	check(curOffset int, buf []byte) error
}
