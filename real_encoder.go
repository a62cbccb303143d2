package kafka

import (
	"encoding/binary"
	"math"

	"github.com/google/uuid"
	metrics "github.com/rcrowley/go-metrics"
)

// realEncoder is the Writer of §4.A: an append-only growing byte buffer that
// implements the full packetEncoder contract, including the push/pop stack
// used for length and CRC placeholders.
type realEncoder struct {
	raw      []byte
	off      int
	stack    []pushEncoder
	registry metrics.Registry
}

func newRealEncoder(registry metrics.Registry) *realEncoder {
	return &realEncoder{registry: registry}
}

func (re *realEncoder) grow(n int) {
	need := re.off + n
	if need <= len(re.raw) {
		return
	}
	newRaw := make([]byte, need, maxInt(need, len(re.raw)*2+n))
	copy(newRaw, re.raw[:re.off])
	re.raw = newRaw
}

func (re *realEncoder) putInt8(in int8) {
	re.grow(1)
	re.raw[re.off] = byte(in)
	re.off++
}

func (re *realEncoder) putInt16(in int16) {
	re.grow(2)
	binary.BigEndian.PutUint16(re.raw[re.off:], uint16(in))
	re.off += 2
}

func (re *realEncoder) putInt32(in int32) {
	re.grow(4)
	binary.BigEndian.PutUint32(re.raw[re.off:], uint32(in))
	re.off += 4
}

func (re *realEncoder) putInt64(in int64) {
	re.grow(8)
	binary.BigEndian.PutUint64(re.raw[re.off:], uint64(in))
	re.off += 8
}

func (re *realEncoder) putVarint(in int64) {
	re.putUVarint(encodeZigZag64(in))
}

func (re *realEncoder) putUVarint(in uint64) {
	n := uvarintSize(in)
	re.grow(n)
	for i := 0; i < n-1; i++ {
		re.raw[re.off] = byte(in) | 0x80
		in >>= 7
		re.off++
	}
	re.raw[re.off] = byte(in)
	re.off++
}

func (re *realEncoder) putFloat64(in float64) {
	re.putInt64(int64(math.Float64bits(in)))
}

func (re *realEncoder) putArrayLength(in int) error {
	if in > math.MaxInt32 {
		return PacketEncodingError{Info: "array too long"}
	}
	re.putInt32(int32(in))
	return nil
}

func (re *realEncoder) putCompactArrayLength(in int) {
	// compact arrays store length+1, with 0 meaning null
	re.putUVarint(uint64(in + 1))
}

func (re *realEncoder) putBool(in bool) {
	if in {
		re.putInt8(1)
	} else {
		re.putInt8(0)
	}
}

func (re *realEncoder) putRawBytes(in []byte) error {
	re.grow(len(in))
	copy(re.raw[re.off:], in)
	re.off += len(in)
	return nil
}

func (re *realEncoder) putBytes(in []byte) error {
	if in == nil {
		re.putInt32(-1)
		return nil
	}
	re.putInt32(int32(len(in)))
	return re.putRawBytes(in)
}

func (re *realEncoder) putVarintBytes(in []byte) error {
	if in == nil {
		re.putVarint(-1)
		return nil
	}
	re.putVarint(int64(len(in)))
	return re.putRawBytes(in)
}

func (re *realEncoder) putCompactBytes(in []byte) error {
	if in == nil {
		re.putUVarint(0)
		return nil
	}
	re.putUVarint(uint64(len(in) + 1))
	return re.putRawBytes(in)
}

func (re *realEncoder) putCompactString(in string) error {
	return re.putCompactBytes([]byte(in))
}

func (re *realEncoder) putNullableCompactString(in *string) error {
	if in == nil {
		re.putUVarint(0)
		return nil
	}
	return re.putCompactString(*in)
}

func (re *realEncoder) putString(in string) error {
	if len(in) > math.MaxInt16 {
		return PacketEncodingError{Info: "string too long"}
	}
	re.putInt16(int16(len(in)))
	return re.putRawBytes([]byte(in))
}

func (re *realEncoder) putNullableString(in *string) error {
	if in == nil {
		re.putInt16(-1)
		return nil
	}
	return re.putString(*in)
}

func (re *realEncoder) putStringArray(in []string) error {
	if err := re.putArrayLength(len(in)); err != nil {
		return err
	}
	for _, val := range in {
		if err := re.putString(val); err != nil {
			return err
		}
	}
	return nil
}

func (re *realEncoder) putCompactStringArray(in []string) error {
	re.putCompactArrayLength(len(in))
	for _, val := range in {
		if err := re.putCompactString(val); err != nil {
			return err
		}
	}
	return nil
}

func (re *realEncoder) putInt32Array(in []int32) error {
	if err := re.putArrayLength(len(in)); err != nil {
		return err
	}
	for _, val := range in {
		re.putInt32(val)
	}
	return nil
}

func (re *realEncoder) putInt64Array(in []int64) error {
	if err := re.putArrayLength(len(in)); err != nil {
		return err
	}
	for _, val := range in {
		re.putInt64(val)
	}
	return nil
}

func (re *realEncoder) putEmptyTaggedFieldArray() {
	re.putUVarint(0)
}

func (re *realEncoder) putUUID(in uuid.UUID) error {
	return re.putRawBytes(in[:])
}

func (re *realEncoder) push(in pushEncoder) {
	in.saveOffset(re.off)
	re.off += in.reserveLength()
	re.stack = append(re.stack, in)
}

func (re *realEncoder) pop() error {
	in := re.stack[len(re.stack)-1]
	re.stack = re.stack[:len(re.stack)-1]
	return in.run(re.off, re.raw)
}

func (re *realEncoder) metricRegistry() metrics.Registry {
	return re.registry
}

func (re *realEncoder) bytes() []byte {
	return re.raw[:re.off]
}
