// Package coin abstracts the external public-coin primitive. Per spec
// §1 and §6, the engine does not execute the coin-flipping protocol with
// peers itself: it only consumes the resulting bits as an opaque,
// trusted-not-participant-controlled source.
package coin

import "crypto/rand"

// Source produces fair public-coin outcomes. Implementations are
// expected to be backed by a protocol the participant does not control
// alone (e.g. a Morra-style commit-and-reveal exchange with peers); this
// package only defines the boundary the session package consumes.
type Source interface {
	// Flip returns n independent, uniformly random bits (0 or 1).
	Flip(n int) ([]int, error)
}

// CryptoSource is a Source backed by crypto/rand. It is provided for
// tests and single-process demos; it is explicitly NOT a valid
// public-coin source for a real deployment, since it is entirely
// controlled by the local process (spec §9, "Randomness").
type CryptoSource struct{}

// Flip implements Source.
func (CryptoSource) Flip(n int) ([]int, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return nil, err
	}
	bits := make([]int, n)
	for i, b := range buf {
		bits[i] = int(b & 1)
	}
	return bits, nil
}
