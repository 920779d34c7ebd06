// Package digest computes SHA-256 and BLAKE3 digests of a document while it
// is being written.
package digest

import (
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"io"

	"github.com/zeebo/blake3"
)

// HashResult contains both SHA-256 and BLAKE3 hashes of a stream.
type HashResult struct {
	SHA256 string `json:"sha256"`
	BLAKE3 string `json:"blake3"`
}

// Writer passes writes through to an underlying writer and hashes every
// byte that was accepted.
type Writer struct {
	w      io.Writer
	sha    hash.Hash
	b3     *blake3.Hasher
	copied int64
}

// NewWriter returns a Writer that forwards to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, sha: sha256.New(), b3: blake3.New()}
}

// Write writes p to the underlying writer and hashes the bytes it accepted.
func (d *Writer) Write(p []byte) (int, error) {
	n, err := d.w.Write(p)
	if n > 0 {
		d.sha.Write(p[:n])
		d.b3.Write(p[:n])
		d.copied += int64(n)
	}
	return n, err
}

// Size returns the number of bytes written so far.
func (d *Writer) Size() int64 {
	return d.copied
}

// Sum returns the digests of everything written so far.
func (d *Writer) Sum() HashResult {
	return HashResult{
		SHA256: hex.EncodeToString(d.sha.Sum(nil)),
		BLAKE3: hex.EncodeToString(d.b3.Sum(nil)),
	}
}
