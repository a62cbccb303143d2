package kafka

import "fmt"

// CompressionCodec represents the codec used to compress a record batch or
// legacy message set, encoded in the low 3 bits of the attributes field.
type CompressionCodec int8

const (
	CompressionNone CompressionCodec = iota
	CompressionGZIP
	CompressionSnappy
	CompressionLZ4
	CompressionZSTD

	compressionCodecMask int8 = 0x07
)

// CompressionLevelDefault tells a codec's compress() to use its own default
// level rather than a caller-specified one.
const CompressionLevelDefault = -1000

func (cc CompressionCodec) String() string {
	switch cc {
	case CompressionNone:
		return "none"
	case CompressionGZIP:
		return "gzip"
	case CompressionSnappy:
		return "snappy"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("unknown(%d)", int8(cc))
	}
}

// UnmarshalText lets CompressionCodec be used directly in config parsing.
func (cc *CompressionCodec) UnmarshalText(text []byte) error {
	switch string(text) {
	case "none":
		*cc = CompressionNone
	case "gzip":
		*cc = CompressionGZIP
	case "snappy":
		*cc = CompressionSnappy
	case "lz4":
		*cc = CompressionLZ4
	case "zstd":
		*cc = CompressionZSTD
	default:
		return fmt.Errorf("kafka: unknown compression codec %q", text)
	}
	return nil
}

// compressor is satisfied by every registered codec; decompress must accept
// any byte string up to 2^31-1 bytes produced by compress, per §4.A.
type compressor interface {
	compress(level int, data []byte) ([]byte, error)
	decompress(data []byte) ([]byte, error)
}

// compressors is the process-wide, read-only registry of codecs available at
// runtime. A codec missing here (e.g. a build without CGO zstd) surfaces as
// UnsupportedCompressionError rather than panicking.
var compressors = map[CompressionCodec]compressor{
	CompressionGZIP:   gzipCompressor{},
	CompressionSnappy: snappyCompressor{},
	CompressionLZ4:    lz4Compressor{},
	CompressionZSTD:   zstdCompressor{},
}

func compress(codec CompressionCodec, level int, data []byte) ([]byte, error) {
	if codec == CompressionNone {
		return data, nil
	}
	c, ok := compressors[codec]
	if !ok {
		return nil, UnsupportedCompressionError{Codec: codec}
	}
	return c.compress(level, data)
}

func decompress(codec CompressionCodec, data []byte) ([]byte, error) {
	if codec == CompressionNone {
		return data, nil
	}
	c, ok := compressors[codec]
	if !ok {
		return nil, UnsupportedCompressionError{Codec: codec}
	}
	return c.decompress(data)
}
