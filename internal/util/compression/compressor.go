// Package compression provides pluggable byte-slice compression for blobs
// persisted to the database.
package compression

type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}
