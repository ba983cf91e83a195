// Package commitment implements Pedersen commitments over the group
// exposed by pkg/curve: Commit(x, r) = x*G + r*H, homomorphic in both the
// committed value and the blinding (spec §3).
package commitment

import "github.com/noiseproto/binomial-dp/pkg/curve"

// Commitment is a Pedersen commitment, a point in the group. It carries
// no information about the value or blinding it commits to; those are
// tracked separately by the caller.
type Commitment = curve.Point

// Commit returns x*G + r*H.
func Commit(x, r curve.Scalar) Commitment {
	return curve.G().Mul(x).Add(curve.H().Mul(r))
}

// Add exploits the homomorphism: Add(Commit(x1,r1), Commit(x2,r2)) ==
// Commit(x1+x2, r1+r2).
func Add(a, b Commitment) Commitment {
	return a.Add(b)
}

// Sub returns a - b.
func Sub(a, b Commitment) Commitment {
	return a.Sub(b)
}

// Sum folds Add over a slice of commitments, returning the identity for
// an empty slice (spec §8, B1).
func Sum(coms []Commitment) Commitment {
	sum := curve.Identity()
	for _, c := range coms {
		sum = sum.Add(c)
	}
	return sum
}
