package kafka

import (
	"encoding/binary"
	"math"

	"github.com/google/uuid"
)

// realDecoder is the Reader of §4.A: a position-tracked reader over a single
// contiguous buffer (the caller is responsible for assembling the frame
// before handing it here), implementing the full packetDecoder contract.
type realDecoder struct {
	raw   []byte
	off   int
	stack []pushDecoder
}

func newRealDecoder(raw []byte) *realDecoder {
	return &realDecoder{raw: raw}
}

func (rd *realDecoder) remaining() int {
	return len(rd.raw) - rd.off
}

func (rd *realDecoder) require(n int) error {
	if rd.remaining() < n {
		return ErrInsufficientData
	}
	return nil
}

func (rd *realDecoder) getInt8() (int8, error) {
	if err := rd.require(1); err != nil {
		return 0, err
	}
	tmp := int8(rd.raw[rd.off])
	rd.off++
	return tmp, nil
}

func (rd *realDecoder) getInt16() (int16, error) {
	if err := rd.require(2); err != nil {
		return 0, err
	}
	tmp := int16(binary.BigEndian.Uint16(rd.raw[rd.off:]))
	rd.off += 2
	return tmp, nil
}

func (rd *realDecoder) getInt32() (int32, error) {
	if err := rd.require(4); err != nil {
		return 0, err
	}
	tmp := int32(binary.BigEndian.Uint32(rd.raw[rd.off:]))
	rd.off += 4
	return tmp, nil
}

func (rd *realDecoder) getInt64() (int64, error) {
	if err := rd.require(8); err != nil {
		return 0, err
	}
	tmp := int64(binary.BigEndian.Uint64(rd.raw[rd.off:]))
	rd.off += 8
	return tmp, nil
}

func (rd *realDecoder) getUVarint() (uint64, error) {
	var x uint64
	var s uint
	for i := 0; ; i++ {
		if err := rd.require(1); err != nil {
			return 0, err
		}
		b := rd.raw[rd.off]
		rd.off++
		if b < 0x80 {
			if i > 9 || (i == 9 && b > 1) {
				return 0, PacketDecodingError{Info: "uvarint overflows 64 bits"}
			}
			return x | uint64(b)<<s, nil
		}
		x |= uint64(b&0x7f) << s
		s += 7
	}
}

func (rd *realDecoder) getVarint() (int64, error) {
	u, err := rd.getUVarint()
	if err != nil {
		return 0, err
	}
	return decodeZigZag64(u), nil
}

func (rd *realDecoder) getFloat64() (float64, error) {
	tmp, err := rd.getInt64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(uint64(tmp)), nil
}

func (rd *realDecoder) getArrayLength() (int, error) {
	n, err := rd.getInt32()
	if err != nil {
		return 0, err
	}
	if n == -1 {
		return 0, nil
	}
	if n < 0 {
		return 0, PacketDecodingError{Info: "invalid negative array length"}
	}
	if int(n) > rd.remaining() {
		return 0, ErrInsufficientData
	}
	return int(n), nil
}

func (rd *realDecoder) getCompactArrayLength() (int, error) {
	n, err := rd.getUVarint()
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, nil
	}
	return int(n - 1), nil
}

func (rd *realDecoder) getBool() (bool, error) {
	b, err := rd.getInt8()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

func (rd *realDecoder) getEmptyTaggedFieldArray() (int, error) {
	n, err := rd.getUVarint()
	if err != nil {
		return 0, err
	}
	for i := uint64(0); i < n; i++ {
		// tag
		if _, err := rd.getUVarint(); err != nil {
			return 0, err
		}
		length, err := rd.getUVarint()
		if err != nil {
			return 0, err
		}
		if _, err := rd.getRawBytes(int(length)); err != nil {
			return 0, err
		}
	}
	return int(n), nil
}

func (rd *realDecoder) getRawBytes(length int) ([]byte, error) {
	if length < 0 {
		return nil, PacketDecodingError{Info: "invalid negative length"}
	}
	if err := rd.require(length); err != nil {
		return nil, err
	}
	start := rd.off
	rd.off += length
	return rd.raw[start:rd.off], nil
}

func (rd *realDecoder) getBytes() ([]byte, error) {
	n, err := rd.getInt32()
	if err != nil {
		return nil, err
	}
	if n == -1 {
		return nil, nil
	}
	return rd.getRawBytes(int(n))
}

func (rd *realDecoder) getVarintBytes() ([]byte, error) {
	n, err := rd.getVarint()
	if err != nil {
		return nil, err
	}
	if n == -1 {
		return nil, nil
	}
	return rd.getRawBytes(int(n))
}

func (rd *realDecoder) getCompactBytes() ([]byte, error) {
	n, err := rd.getUVarint()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	return rd.getRawBytes(int(n - 1))
}

func (rd *realDecoder) getString() (string, error) {
	n, err := rd.getInt16()
	if err != nil {
		return "", err
	}
	if n == -1 {
		return "", nil
	}
	buf, err := rd.getRawBytes(int(n))
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

func (rd *realDecoder) getNullableString() (*string, error) {
	n, err := rd.getInt16()
	if err != nil {
		return nil, err
	}
	if n == -1 {
		return nil, nil
	}
	buf, err := rd.getRawBytes(int(n))
	if err != nil {
		return nil, err
	}
	s := string(buf)
	return &s, nil
}

func (rd *realDecoder) getCompactString() (string, error) {
	buf, err := rd.getCompactBytes()
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

func (rd *realDecoder) getCompactNullableString() (*string, error) {
	n, err := rd.getUVarint()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	buf, err := rd.getRawBytes(int(n - 1))
	if err != nil {
		return nil, err
	}
	s := string(buf)
	return &s, nil
}

func (rd *realDecoder) getCompactInt32Array() ([]int32, error) {
	n, err := rd.getCompactArrayLength()
	if err != nil || n == 0 {
		return nil, err
	}
	ret := make([]int32, n)
	for i := range ret {
		if ret[i], err = rd.getInt32(); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

func (rd *realDecoder) getInt32Array() ([]int32, error) {
	n, err := rd.getArrayLength()
	if err != nil || n == 0 {
		return nil, err
	}
	if err := rd.require(4 * n); err != nil {
		return nil, err
	}
	ret := make([]int32, n)
	for i := range ret {
		ret[i] = int32(binary.BigEndian.Uint32(rd.raw[rd.off:]))
		rd.off += 4
	}
	return ret, nil
}

func (rd *realDecoder) getInt64Array() ([]int64, error) {
	n, err := rd.getArrayLength()
	if err != nil || n == 0 {
		return nil, err
	}
	if err := rd.require(8 * n); err != nil {
		return nil, err
	}
	ret := make([]int64, n)
	for i := range ret {
		ret[i] = int64(binary.BigEndian.Uint64(rd.raw[rd.off:]))
		rd.off += 8
	}
	return ret, nil
}

func (rd *realDecoder) getStringArray() ([]string, error) {
	n, err := rd.getArrayLength()
	if err != nil || n == 0 {
		return nil, err
	}
	ret := make([]string, n)
	for i := range ret {
		if ret[i], err = rd.getString(); err != nil {
			return nil, err
		}
	}
	return ret, nil
}

func (rd *realDecoder) getUUID() (uuid.UUID, error) {
	buf, err := rd.getRawBytes(16)
	if err != nil {
		return uuid.UUID{}, err
	}
	var u uuid.UUID
	copy(u[:], buf)
	return u, nil
}

func (rd *realDecoder) getSubset(length int) (packetDecoder, error) {
	buf, err := rd.getRawBytes(length)
	if err != nil {
		return nil, err
	}
	return newRealDecoder(buf), nil
}

func (rd *realDecoder) peek(offset, length int) (packetDecoder, error) {
	if rd.remaining() < offset+length {
		return nil, ErrInsufficientData
	}
	off := rd.off + offset
	return newRealDecoder(rd.raw[off : off+length]), nil
}

func (rd *realDecoder) peekInt8(offset int) (int8, error) {
	if rd.remaining() < offset+1 {
		return 0, ErrInsufficientData
	}
	return int8(rd.raw[rd.off+offset]), nil
}

func (rd *realDecoder) push(in pushDecoder) error {
	in.saveOffset(rd.off)
	reserve := in.reserveLength()
	if err := rd.require(reserve); err != nil {
		return err
	}
	rd.off += reserve
	rd.stack = append(rd.stack, in)
	return nil
}

func (rd *realDecoder) pop() error {
	in := rd.stack[len(rd.stack)-1]
	rd.stack = rd.stack[:len(rd.stack)-1]
	return in.check(rd.off, rd.raw)
}
