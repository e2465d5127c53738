// Package checksum computes content digests for dataset files.
// SHA-256 is the primary digest; BLAKE3 is carried alongside for
// consumers that prefer it.
package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"os"

	"github.com/zeebo/blake3"

	"github.com/FreelyGiven/BibleVersionCodes/core/errors"
)

// Result contains both digests for a byte sequence.
type Result struct {
	SHA256    string `json:"sha256"`
	BLAKE3    string `json:"blake3"`
	SizeBytes int64  `json:"size_bytes"`
}

// Sum computes both digests over data.
func Sum(data []byte) Result {
	sha := sha256.Sum256(data)
	b3 := blake3.Sum256(data)
	return Result{
		SHA256:    hex.EncodeToString(sha[:]),
		BLAKE3:    hex.EncodeToString(b3[:]),
		SizeBytes: int64(len(data)),
	}
}

// File computes both digests over a file's contents.
func File(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, errors.NewIO("read", path, err)
	}
	return Sum(data), nil
}

// Equal reports whether two results describe identical content.
// SHA-256 alone decides; BLAKE3 is informational.
func Equal(a, b Result) bool {
	return a.SHA256 == b.SHA256
}
