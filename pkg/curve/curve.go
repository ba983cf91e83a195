// Package curve provides the prime-order group operations the protocol
// engine is built on: a Scalar type with constant-time arithmetic modulo
// the secp256k1 group order, and a Point type for the curve itself, plus
// the two independent generators G and H used by every Pedersen
// commitment in this codebase.
//
// This package is the "trusted library exposing the operations in §3"
// that the rest of the engine assumes as given; nothing above this layer
// reaches into secp256k1 or saferith directly.
package curve

import (
	"crypto/elliptic"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// group is the single secp256k1 instance every Scalar and Point in this
// process is defined over. secp256k1.S256 implements the standard
// elliptic.Curve interface, which gives us Add/ScalarMult/ScalarBaseMult/
// IsOnCurve for free, the same surface the corpus's BIP-340 ciphersuite
// code builds its EcAdd/EcMul/EcBaseMul helpers on top of.
var group = secp256k1.S256()

// Params returns the secp256k1 curve parameters (N, P, Gx, Gy, BitSize).
func Params() *elliptic.CurveParams {
	return group.Params()
}
