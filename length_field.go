package kafka

import "encoding/binary"

// lengthField implements the 4-byte length prefix that brackets every
// top-level request/response frame and every record batch body: reserve an
// int32, write the body, then patch the prefix with the body's length.
type lengthField struct {
	startOffset int
}

func (l *lengthField) saveOffset(in int) {
	l.startOffset = in
}

func (l *lengthField) reserveLength() int {
	return 4
}

func (l *lengthField) run(curOffset int, buf []byte) error {
	binary.BigEndian.PutUint32(buf[l.startOffset:], uint32(curOffset-l.startOffset-4))
	return nil
}

func (l *lengthField) check(curOffset int, buf []byte) error {
	if curOffset-l.startOffset-4 != int(binary.BigEndian.Uint32(buf[l.startOffset:])) {
		return PacketDecodingError{Info: "length field invalid"}
	}
	return nil
}

// varintLengthField is the record-length prefix inside a record batch: a
// ZigZag varint rather than a fixed int32, so the reserved width depends on
// the final body size and is only known after encoding once.
type varintLengthField struct {
	startOffset int
	length      int64
}

func (l *varintLengthField) saveOffset(in int) {
	l.startOffset = in
}

func (l *varintLengthField) adjustLength(currOffset int) int {
	l.length = int64(currOffset - l.startOffset - l.reserveLength())
	return varintSize(l.length) - l.reserveLength()
}

func (l *varintLengthField) reserveLength() int {
	return varintSize(l.length)
}

func (l *varintLengthField) run(curOffset int, buf []byte) error {
	encodedDiff := appendVarint(nil, l.length)
	copy(buf[l.startOffset:], encodedDiff)
	return nil
}

func (l *varintLengthField) check(curOffset int, buf []byte) error {
	if int64(curOffset-l.startOffset-l.reserveLength()) != l.length {
		return PacketDecodingError{Info: "length field invalid"}
	}
	return nil
}
