package kafka

// putVarint and getVarint implement Kafka's ZigZag-encoded signed varints
// (used for record lengths, deltas, and any "flexible" protocol field):
// encode(x) = (x<<1) XOR (x>>63), then LEB128 over the unsigned result.
// putUVarint/getUVarint implement the plain unsigned LEB128 used for compact
// array/string/bytes lengths, where the stored value is the real length+1
// and 0 is the null sentinel.

func encodeZigZag64(in int64) uint64 {
	return uint64((in << 1) ^ (in >> 63))
}

func decodeZigZag64(in uint64) int64 {
	return int64((in >> 1) ^ -(in & 1))
}

func encodeZigZag32(in int32) uint32 {
	return uint32((in << 1) ^ (in >> 31))
}

func decodeZigZag32(in uint32) int32 {
	return int32((in >> 1) ^ -(in & 1))
}

// varintSize returns the number of bytes putVarint would write for in. Tests
// assert this agrees exactly with the bytes actually emitted.
func varintSize(in int64) int {
	return uvarintSize(encodeZigZag64(in))
}

func uvarintSize(in uint64) int {
	n := 1
	for in >= 0x80 {
		in >>= 7
		n++
	}
	return n
}

func appendVarint(buf []byte, in int64) []byte {
	return appendUvarint(buf, encodeZigZag64(in))
}

func appendUvarint(buf []byte, in uint64) []byte {
	for in >= 0x80 {
		buf = append(buf, byte(in)|0x80)
		in >>= 7
	}
	return append(buf, byte(in))
}
