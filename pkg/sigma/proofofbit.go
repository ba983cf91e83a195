// Package sigma implements the proof-of-bit Σ-protocol: a non-interactive
// (Fiat–Shamir) OR-proof that a Pedersen-committed scalar is in {0,1},
// per spec §3 and §4.2. The session package consumes this as an opaque
// transcript; it does not re-derive the relation itself.
package sigma

import (
	"github.com/noiseproto/binomial-dp/pkg/curve"
)

// challengeDST domain-separates the Fiat-Shamir challenge for this proof
// system from every other tagged hash in the codebase.
var challengeDST = []byte("binomial-dp/sigma/proof-of-bit/v1")

// Transcript is the OR-proof tuple (com, a0, a1, c, c0, c1, z0, z1) from
// spec §3. It is self-contained: Verify needs nothing but the transcript
// itself.
type Transcript struct {
	Com curve.Point
	A0  curve.Point
	A1  curve.Point
	C   curve.Scalar
	C0  curve.Scalar
	C1  curve.Scalar
	Z0  curve.Scalar
	Z1  curve.Scalar
}

// Prove produces a proof-of-bit transcript for a freshly-committed bit.
// bit must be 0 or 1; blinding is the r used in Com = Commit(bit, r). The
// commitment itself is recomputed here rather than trusted from the
// caller, so the returned transcript is always internally consistent.
func Prove(bit int, blinding curve.Scalar) (*Transcript, error) {
	if bit != 0 && bit != 1 {
		return nil, errInvalidBit
	}

	com := curve.G().Mul(curve.NewFromBit(bit)).Add(curve.H().Mul(blinding))

	// realIndex is the branch matching the actual committed bit; the
	// other branch is simulated, per the standard Cramer-Damgård-
	// Schoenmakers OR-proof construction.
	realIndex := bit

	kReal := curve.Random()
	zSim := curve.Random()
	cSim := curve.Random()

	var a0, a1 curve.Point
	var z0, z1, c0, c1 curve.Scalar

	// statement0: com          = r*H  (bit == 0)
	// statement1: com - G      = r*H  (bit == 1)
	statement := func(branch int) curve.Point {
		if branch == 0 {
			return com
		}
		return com.Sub(curve.G())
	}

	if realIndex == 0 {
		a0 = curve.H().Mul(kReal)
		a1 = curve.H().Mul(zSim).Sub(statement(1).Mul(cSim))
		c1 = cSim
	} else {
		a1 = curve.H().Mul(kReal)
		a0 = curve.H().Mul(zSim).Sub(statement(0).Mul(cSim))
		c0 = cSim
	}

	c := computeChallenge(com, a0, a1)

	if realIndex == 0 {
		c0 = c.Sub(c1)
		z0 = kReal.Add(c0.Mul(blinding))
		z1 = zSim
	} else {
		c1 = c.Sub(c0)
		z1 = kReal.Add(c1.Mul(blinding))
		z0 = zSim
	}

	return &Transcript{
		Com: com, A0: a0, A1: a1,
		C: c, C0: c0, C1: c1,
		Z0: z0, Z1: z1,
	}, nil
}

// Verify checks a proof-of-bit transcript. Per spec §7, a failing
// verification here is recorded by the caller but is not itself fatal to
// the session: the final identity check (session.Finalize) is the
// authoritative gate.
func Verify(t *Transcript) bool {
	if t == nil {
		return false
	}

	wantC := computeChallenge(t.Com, t.A0, t.A1)
	if !wantC.Equal(t.C) {
		return false
	}
	if !t.C0.Add(t.C1).Equal(t.C) {
		return false
	}

	lhs0 := curve.H().Mul(t.Z0)
	rhs0 := t.A0.Add(t.Com.Mul(t.C0))
	if !lhs0.Equal(rhs0) {
		return false
	}

	statement1 := t.Com.Sub(curve.G())
	lhs1 := curve.H().Mul(t.Z1)
	rhs1 := t.A1.Add(statement1.Mul(t.C1))
	return lhs1.Equal(rhs1)
}

func computeChallenge(com, a0, a1 curve.Point) curve.Scalar {
	msg := append(append([]byte{}, com.Bytes()...), a0.Bytes()...)
	msg = append(msg, a1.Bytes()...)
	return curve.ScalarFromHash(challengeDST, msg)
}
