package curve

import (
	"fmt"
	"math/big"
)

// Point is an element of the secp256k1 group, represented in affine
// coordinates. The zero value is not a valid point; use Identity, G, H,
// or DeserializePoint.
type Point struct {
	x, y *big.Int
}

func newPoint(x, y *big.Int) Point {
	return Point{x: new(big.Int).Set(x), y: new(big.Int).Set(y)}
}

// Identity returns the group identity element (point at infinity).
// Following the corpus's BIP-340 ciphersuite convention, (0,0) is used as
// the conventional affine representation since it never lies on the
// curve itself.
func Identity() Point {
	return Point{x: big.NewInt(0), y: big.NewInt(0)}
}

func (p Point) isIdentity() bool {
	return p.x.Sign() == 0 && p.y.Sign() == 0
}

// Add returns p + other.
func (p Point) Add(other Point) Point {
	if p.isIdentity() {
		return other
	}
	if other.isIdentity() {
		return p
	}
	x, y := group.Add(p.x, p.y, other.x, other.y)
	return newPoint(x, y)
}

// Negate returns -p.
func (p Point) Negate() Point {
	if p.isIdentity() {
		return p
	}
	return newPoint(p.x, new(big.Int).Sub(Params().P, p.y))
}

// Sub returns p - other.
func (p Point) Sub(other Point) Point {
	return p.Add(other.Negate())
}

// Mul returns s*p.
func (p Point) Mul(s Scalar) Point {
	if p.isIdentity() || s.IsZero() {
		return Identity()
	}
	x, y := group.ScalarMult(p.x, p.y, s.Big().Bytes())
	return newPoint(x, y)
}

// Equal reports whether p and other are the same group element.
func (p Point) Equal(other Point) bool {
	if p.isIdentity() || other.isIdentity() {
		return p.isIdentity() == other.isIdentity()
	}
	return p.x.Cmp(other.x) == 0 && p.y.Cmp(other.y) == 0
}

// IsOnCurve reports whether p is a valid non-identity point on the curve.
func (p Point) IsOnCurve() bool {
	if p.isIdentity() {
		return false
	}
	return group.IsOnCurve(p.x, p.y)
}

// Bytes returns the canonical compressed (33-byte) encoding of p.
func (p Point) Bytes() []byte {
	if p.isIdentity() {
		return []byte{0x00}
	}
	out := make([]byte, 33)
	if p.y.Bit(0) == 0 {
		out[0] = 0x02
	} else {
		out[0] = 0x03
	}
	p.x.FillBytes(out[1:])
	return out
}

// DeserializePoint decodes the compressed encoding produced by Bytes. It
// returns an error if the bytes do not decode to a valid curve point.
func DeserializePoint(b []byte) (Point, error) {
	if len(b) == 1 && b[0] == 0x00 {
		return Identity(), nil
	}
	if len(b) != 33 || (b[0] != 0x02 && b[0] != 0x03) {
		return Point{}, fmt.Errorf("curve: invalid compressed point encoding")
	}
	x := new(big.Int).SetBytes(b[1:])
	ySquared := new(big.Int).Exp(x, big.NewInt(3), Params().P)
	ySquared.Add(ySquared, big.NewInt(7))
	ySquared.Mod(ySquared, Params().P)

	y := new(big.Int).ModSqrt(ySquared, Params().P)
	if y == nil {
		return Point{}, fmt.Errorf("curve: x coordinate is not on the curve")
	}
	wantOdd := b[0] == 0x03
	if (y.Bit(0) == 1) != wantOdd {
		y.Sub(Params().P, y)
	}

	p := newPoint(x, y)
	if !p.IsOnCurve() {
		return Point{}, fmt.Errorf("curve: decoded point is not on the curve")
	}
	return p, nil
}

// String renders p for debugging/logging; it is not the wire encoding.
func (p Point) String() string {
	if p.isIdentity() {
		return "Point(identity)"
	}
	return fmt.Sprintf("Point(%s, %s)", p.x.String(), p.y.String())
}
