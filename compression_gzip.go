package kafka

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/gzip"
)

// gzipCompressor implements codec id 1, grounded on message_test.go's
// emptyGzipMessage/emptyBulkGzipMessage fixtures. klauspost/compress is used
// instead of the standard library's compress/gzip for its faster encoder,
// matching the rest of the domain stack's preference for klauspost codecs.
type gzipCompressor struct{}

func (gzipCompressor) compress(level int, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	if level == 0 || level == CompressionLevelDefault {
		level = gzip.DefaultCompression
	}
	w, err := gzip.NewWriterLevel(&buf, level)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (gzipCompressor) decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
