package kafka

import (
	"encoding/binary"
	"hash/crc32"
)

var castagnoliTable = crc32.MakeTable(crc32.Castagnoli)

// crc32Field implements the CRC32C-over-a-byte-range pattern used by record
// batches: push reserves a 4-byte placeholder, pop (encode) or check
// (decode) computes the checksum over everything written since a fixed
// `startOffset + off` point (the "attributes onwards" window from §4.A) and
// either writes it or verifies it.
type crc32Field struct {
	startOffset int
	// off is how many bytes after startOffset the checksum itself sits; the
	// protected region begins right after the checksum field.
	off int
}

func (c *crc32Field) saveOffset(in int) {
	c.startOffset = in
}

func (c *crc32Field) reserveLength() int {
	return 4
}

func (c *crc32Field) run(curOffset int, buf []byte) error {
	crcStart := c.startOffset + c.off
	crc := crc32.Checksum(buf[crcStart+4:curOffset], castagnoliTable)
	binary.BigEndian.PutUint32(buf[crcStart:], crc)
	return nil
}

func (c *crc32Field) check(curOffset int, buf []byte) error {
	crcStart := c.startOffset + c.off
	crc := crc32.Checksum(buf[crcStart+4:curOffset], castagnoliTable)
	expected := binary.BigEndian.Uint32(buf[crcStart:])
	if crc != expected {
		return PacketDecodingError{Info: "CRC didn't match"}
	}
	return nil
}
