package snapshot

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
)

// fingerprint chunk size: memory use stays bounded no matter how large the
// daily dumps grow.
const chunkSize = 4096

// Fingerprint computes the content hash over the raw payloads in the order
// given. Callers must always pass the payloads in the same fixed order
// (nation, regions, provinces) for the hash to be comparable across runs.
func Fingerprint(payloads ...[]byte) (string, error) {
	h := sha256.New()
	buf := make([]byte, chunkSize)

	for _, payload := range payloads {
		r := bytes.NewReader(payload)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				h.Write(buf[:n])
			}
			if err == io.EOF {
				break
			}
			if err != nil {
				return "", fmt.Errorf("read chunk: %w", err)
			}
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
