package adapter

import (
	"fmt"

	"github.com/minio/highwayhash"
)

var fingerprintKey = []byte("interpose-fingerprint-key-000000")

// Fingerprint returns a short stable digest of callable source text so
// operators can tell whether a host function changed between releases.
func Fingerprint(source string) string {
	if source == "" {
		return ""
	}

	hash, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		return ""
	}

	_, _ = hash.Write([]byte(source))

	return fmt.Sprintf("%016x", hash.Sum64())
}
