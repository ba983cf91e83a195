package curve

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"

	"github.com/cronokirby/saferith"
)

// groupOrder is ell, the order of the secp256k1 group, represented as a
// saferith.Modulus so every Scalar operation below runs in constant time
// with respect to the scalar values (though not with respect to the
// modulus itself, which is public).
var groupOrder = saferith.ModulusFromBytes(Params().N.Bytes())

// Scalar is an element of Z/ellZ. The zero value is not usable; use Zero,
// One, NewFromUint64, or Random.
type Scalar struct {
	nat *saferith.Nat
}

func newScalar(nat *saferith.Nat) Scalar {
	return Scalar{nat: new(saferith.Nat).Mod(nat, groupOrder)}
}

// Zero returns the additive identity scalar.
func Zero() Scalar {
	return newScalar(new(saferith.Nat).SetUint64(0))
}

// One returns the multiplicative identity scalar.
func One() Scalar {
	return newScalar(new(saferith.Nat).SetUint64(1))
}

// NewFromUint64 converts a small unsigned integer into a scalar.
func NewFromUint64(x uint64) Scalar {
	return newScalar(new(saferith.Nat).SetUint64(x))
}

// NewFromBigInt reduces an arbitrary non-negative big.Int modulo the
// group order.
func NewFromBigInt(x *big.Int) Scalar {
	return newScalar(new(saferith.Nat).SetBytes(x.Bytes()))
}

// NewFromBit converts a 0/1 value into a scalar. It panics if bit is not
// 0 or 1; callers on the wire boundary must validate before calling this.
func NewFromBit(bit int) Scalar {
	if bit != 0 && bit != 1 {
		panic("curve: NewFromBit requires 0 or 1")
	}
	return NewFromUint64(uint64(bit))
}

// Random draws a uniform scalar from the CSPRNG.
func Random() Scalar {
	buf := make([]byte, (Params().BitSize/8)+8)
	if _, err := rand.Read(buf); err != nil {
		panic(err) // crypto/rand failing is unrecoverable
	}
	return newScalar(new(saferith.Nat).SetBytes(buf))
}

// FromCanonicalBytes interprets b as the little-endian canonical encoding
// of a scalar, as used on the wire (spec §6).
func FromCanonicalBytes(b []byte) Scalar {
	be := reversed(b)
	return newScalar(new(saferith.Nat).SetBytes(be))
}

// Bytes returns the canonical little-endian byte encoding of s, padded to
// the byte length of the group order.
func (s Scalar) Bytes() []byte {
	size := (Params().BitSize + 7) / 8
	be := make([]byte, size)
	s.nat.FillBytes(be)
	return reversed(be)
}

// Big returns the scalar as a big.Int, for interop with elliptic.Curve
// point operations which take *big.Int scalars.
func (s Scalar) Big() *big.Int {
	return new(big.Int).SetBytes(s.nat.Bytes())
}

// Add returns s + other mod ell, in constant time.
func (s Scalar) Add(other Scalar) Scalar {
	return Scalar{nat: new(saferith.Nat).ModAdd(s.nat, other.nat, groupOrder)}
}

// Sub returns s - other mod ell, in constant time.
func (s Scalar) Sub(other Scalar) Scalar {
	return Scalar{nat: new(saferith.Nat).ModSub(s.nat, other.nat, groupOrder)}
}

// Mul returns s * other mod ell, in constant time.
func (s Scalar) Mul(other Scalar) Scalar {
	return Scalar{nat: new(saferith.Nat).ModMul(s.nat, other.nat, groupOrder)}
}

// Negate returns -s mod ell.
func (s Scalar) Negate() Scalar {
	return Zero().Sub(s)
}

// IsZero reports whether s is the additive identity.
func (s Scalar) IsZero() bool {
	return s.nat.EqZero() == 1
}

// Equal reports whether s and other represent the same residue mod ell.
func (s Scalar) Equal(other Scalar) bool {
	return s.nat.Eq(other.nat) == 1
}

// Uint64 returns the low 64 bits of the scalar's canonical representative,
// used for the published count (spec §4.3, §6).
func (s Scalar) Uint64() uint64 {
	b := s.Bytes() // little-endian
	buf := make([]byte, 8)
	copy(buf, b) // low-order bytes come first in little-endian encoding
	return binary.LittleEndian.Uint64(buf)
}

func reversed(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}
