package kafka

import (
	"github.com/eapache/go-xerial-snappy"
	"github.com/golang/snappy"
)

// snappyCompressor implements codec id 2. Record-batch bodies use raw
// block-snappy (github.com/golang/snappy), and compress always emits that
// form. decompress also accepts Xerial's chunked framing, used by the legacy
// bulk message format, via eapache/go-xerial-snappy.
type snappyCompressor struct{}

func (snappyCompressor) compress(level int, data []byte) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

func (snappyCompressor) decompress(data []byte) ([]byte, error) {
	if out, err := xerial.Decode(data); err == nil {
		return out, nil
	}
	return snappy.Decode(nil, data)
}
