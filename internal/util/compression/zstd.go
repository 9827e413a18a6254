package compression

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// ZstdCompressor shrinks draft snapshots before they hit the database.
// Snapshots can embed the selected photo as a base64 data URL, so payloads
// are large and highly compressible.
type ZstdCompressor struct{} // implements Compressor

func (ZstdCompressor) Compress(data []byte) ([]byte, error) {
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("error creating zstd encoder: %w", err)
	}
	defer encoder.Close()

	return encoder.EncodeAll(data, nil), nil
}

func (ZstdCompressor) Decompress(data []byte) ([]byte, error) {
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("error creating zstd decoder: %w", err)
	}
	defer decoder.Close()

	return decoder.DecodeAll(data, nil)
}
