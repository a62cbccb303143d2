package kafka

import (
	"sync"

	"github.com/klauspost/compress/zstd"
)

// zstdCompressor implements codec id 4, grounded on message_test.go's
// emptyZSTDMessage/emptyBulkZSTDMessage fixtures. One encoder and one
// decoder are built lazily and shared, since klauspost/compress/zstd's are
// expensive to construct and this codec may be exercised once per record
// batch. The level argument is ignored.
type zstdCompressor struct{}

var (
	zstdEncoderOnce sync.Once
	zstdEncoder     *zstd.Encoder

	zstdDecoderOnce sync.Once
	zstdDecoder     *zstd.Decoder
)

func getZstdEncoder() *zstd.Encoder {
	zstdEncoderOnce.Do(func() {
		zstdEncoder, _ = zstd.NewWriter(nil)
	})
	return zstdEncoder
}

func getZstdDecoder() *zstd.Decoder {
	zstdDecoderOnce.Do(func() {
		zstdDecoder, _ = zstd.NewReader(nil)
	})
	return zstdDecoder
}

func (zstdCompressor) compress(level int, data []byte) ([]byte, error) {
	return getZstdEncoder().EncodeAll(data, nil), nil
}

func (zstdCompressor) decompress(data []byte) ([]byte, error) {
	return getZstdDecoder().DecodeAll(data, nil)
}
