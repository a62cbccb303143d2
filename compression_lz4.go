package kafka

import (
	"bytes"
	"io"

	"github.com/pierrec/lz4/v4"
)

// lz4Compressor implements codec id 3, grounded on message_test.go's
// emptyLZ4Message/emptyBulkLZ4Message fixtures (Kafka wraps messages using
// the LZ4 frame format, including the optional block/content checksums).
type lz4Compressor struct{}

func (lz4Compressor) compress(level int, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if level > 0 {
		_ = w.Apply(lz4.CompressionLevelOption(lz4.CompressionLevel(level)))
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (lz4Compressor) decompress(data []byte) ([]byte, error) {
	r := lz4.NewReader(bytes.NewReader(data))
	return io.ReadAll(r)
}
