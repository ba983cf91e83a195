package curve

import (
	"math/big"

	"github.com/cronokirby/saferith"
	"github.com/zeebo/blake3"
)

// ScalarFromHash computes a domain-separated BLAKE3 tagged hash of msg and
// reduces it modulo the group order, the same tagged-hash-to-scalar
// pattern the corpus's BIP-340 ciphersuite uses for its H1/H2/H3
// functions. tag is the domain-separation string; it must be distinct
// for every different use of this function in the codebase.
func ScalarFromHash(tag, msg []byte) Scalar {
	hasher := blake3.New()
	tagHash := blake3.Sum256(tag)
	hasher.Write(tagHash[:])
	hasher.Write(tagHash[:])
	hasher.Write(msg)
	sum := hasher.Sum(nil)

	x := new(big.Int).SetBytes(sum)
	x.Mod(x, Params().N)
	return newScalar(new(saferith.Nat).SetBytes(x.Bytes()))
}
