package curve

import (
	"hash"
	"io"
	"math/big"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/hkdf"
)

// hGeneratorDST is the domain-separation string used to derive H. It must
// never be reused for any other purpose in this codebase: H must be a
// nothing-up-my-sleeve point whose discrete log with respect to G is
// unknown (spec §3, §9).
var hGeneratorDST = []byte("binomial-dp/pedersen-h/v1")

// baseG is the curve's canonical base point.
var baseG = newPoint(Params().Gx, Params().Gy)

// G returns the curve's canonical base point.
func G() Point {
	return baseG
}

// baseH is computed once at package init via hash-to-curve try-and-
// increment: H must be derived deterministically from a fixed string, not
// chosen by any protocol participant.
var baseH = deriveH()

// H returns the second Pedersen generator. Its discrete log base G is
// unknown by construction (hash-to-curve with an HKDF-expanded,
// BLAKE3-tagged candidate stream).
func H() Point {
	return baseH
}

// deriveH implements a standard try-and-increment hash-to-curve: expand
// the domain-separation seed with HKDF, then for each 32-byte block try
// it as an x-coordinate (BLAKE3-tagged, to domain-separate it from any
// other use of HKDF output in this codebase) until one decodes to a
// valid point.
func deriveH() Point {
	seed := blake3.Sum256(hGeneratorDST)
	newHash := func() hash.Hash { return blake3.New() }
	kdf := hkdf.New(newHash, seed[:], nil, hGeneratorDST)

	for attempt := 0; ; attempt++ {
		candidate := make([]byte, 32)
		if _, err := io.ReadFull(kdf, candidate); err != nil {
			panic(err)
		}

		tagged := blake3.Sum256(append(append([]byte{}, hGeneratorDST...), candidate...))
		x := new(big.Int).SetBytes(tagged[:])
		x.Mod(x, Params().P)

		ySquared := new(big.Int).Exp(x, big.NewInt(3), Params().P)
		ySquared.Add(ySquared, big.NewInt(7))
		ySquared.Mod(ySquared, Params().P)

		y := new(big.Int).ModSqrt(ySquared, Params().P)
		if y == nil {
			continue
		}

		p := newPoint(x, y)
		if p.IsOnCurve() {
			return p
		}
	}
}
