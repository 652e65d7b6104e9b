// Package idgen allocates the opaque identifier assigned to each exchange
// at creation.
package idgen

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Source allocates exchange identifiers. Injected as a dependency so tests
// can use predictable IDs.
type Source interface {
	NewID() string
}

// Random returns a Source that allocates 128-bit random identifiers, hex
// encoded.
func Random() Source { return randomSource{} }

type randomSource struct{}

func (randomSource) NewID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(fmt.Errorf("idgen: %w", err))
	}
	return hex.EncodeToString(b[:])
}

// Sequential returns a Source that allocates identifiers "<prefix>-1",
// "<prefix>-2", ..., useful for deterministic tests.
func Sequential(prefix string) Source {
	return &sequentialSource{prefix: prefix}
}

type sequentialSource struct {
	prefix string
	next   int
}

func (s *sequentialSource) NewID() string {
	s.next++
	return fmt.Sprintf("%s-%d", s.prefix, s.next)
}
