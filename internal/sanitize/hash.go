// Package sanitize rewrites sensitive attribute values in a send
// stream while preserving structural and checksum validity.
package sanitize

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// SaltSize is the size of the per-run salt in bytes. The salt doubles
// as the BLAKE3 key, which must be exactly 32 bytes.
const SaltSize = 32

// Salt keys the path-component hash for one transform run. A fresh
// salt per run prevents cross-run correlation of sanitized dumps:
// without it, well-known paths would always hash to the same digests.
// The salt must never be persisted or logged.
type Salt [SaltSize]byte

// NewSalt returns a fresh random salt from the OS entropy source.
func NewSalt() (Salt, error) {
	var s Salt
	if _, err := rand.Read(s[:]); err != nil {
		return Salt{}, fmt.Errorf("failed to generate salt: %w", err)
	}
	return s, nil
}

// pathHasher anonymizes path components with a BLAKE3 keyed hash. The
// same component always hashes to the same digest within one run, so
// directory structure survives sanitization.
type pathHasher struct {
	h *blake3.Hasher
}

func newPathHasher(salt Salt) *pathHasher {
	// NewKeyed requires exactly 32 bytes, which Salt guarantees.
	h, err := blake3.NewKeyed(salt[:])
	if err != nil {
		panic("sanitize: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	return &pathHasher{h: h}
}

// hashComponent returns the hex digest of one path component.
func (p *pathHasher) hashComponent(component []byte) []byte {
	p.h.Reset()
	p.h.Write(component)
	sum := p.h.Sum(nil)
	out := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(out, sum)
	return out
}

// sanitizePath hashes each path component independently, leaving
// empty, "." and ".." components unchanged so relative structure and
// separators survive.
func (p *pathHasher) sanitizePath(path []byte) []byte {
	components := bytes.Split(path, []byte{'/'})
	out := make([][]byte, len(components))
	for i, component := range components {
		if len(component) == 0 || bytes.Equal(component, []byte(".")) || bytes.Equal(component, []byte("..")) {
			out[i] = component
		} else {
			out[i] = p.hashComponent(component)
		}
	}
	return bytes.Join(out, []byte{'/'})
}
