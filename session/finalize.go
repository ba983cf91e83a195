package session

import (
	"github.com/noiseproto/binomial-dp/pkg/commitment"
	"github.com/noiseproto/binomial-dp/pkg/curve"
)

// Result is the published outcome of a finalized session (spec §4.1
// "FINAL_COMMITTED", §4.3).
type Result struct {
	// Count is xSum plus the effective noise, the DP-mechanism output.
	Count uint64
	// Sound is the final algebraic identity check: Commit(finalX, finalZ)
	// == comsSum + Σ xorCom. A false value means some participant's
	// published values do not match what they actually committed to
	// earlier -- the protocol's whole point is to make that detectable.
	Sound bool
	// ProofFailures mirrors Session.ProofResults at the time Finalize was
	// called: one entry per private noise bit, true where that bit's
	// proof-of-bit transcript verified. Empty in biased-p mode, where no
	// proof-of-bit transcripts exist.
	ProofFailures []bool
}

// ComputeSum combines the committed inputs with the now-fixed effective
// noise into finalX, finalZ and the published count (spec §4.1
// NOISE_COMMITTED -> SUM_COMPUTED, §4.3).
func (s *Session) ComputeSum() error {
	if err := s.checkAlive(); err != nil {
		return err
	}
	if s.state != StateNoiseCommitted {
		return sequenceError(s.state, "compute_sum called out of order")
	}

	noiseSum := curve.Zero()
	blindSum := curve.Zero()
	for i := range s.xorBits {
		noiseSum = noiseSum.Add(curve.NewFromBit(s.xorBits[i]))
		blindSum = blindSum.Add(s.noiseBlind[i])
	}

	s.finalX = s.xSum.Add(noiseSum)
	s.finalZ = s.rSum.Add(blindSum)
	s.result = s.finalX.Uint64()
	s.state = StateSumComputed
	return nil
}

// Finalize computes lhs = Commit(finalX, finalZ) and
// rhs = comsSum + Σ xorCom and publishes the Result, recording whether
// the two sides agree (spec §4.1 SUM_COMPUTED -> FINAL_COMMITTED).
// A session can be finalized exactly once.
func (s *Session) Finalize() (Result, error) {
	if err := s.checkAlive(); err != nil {
		return Result{}, err
	}
	if s.state != StateSumComputed {
		return Result{}, sequenceError(s.state, "finalize called out of order")
	}

	s.lhs = commitment.Commit(s.finalX, s.finalZ)
	s.rhs = commitment.Add(s.comsSum, commitment.Sum(s.xorCom))
	s.state = StateFinalCommitted

	res := Result{
		Count: s.result,
		Sound: s.lhs.Equal(s.rhs),
	}
	if s.mode == noiseModeUnbiased {
		res.ProofFailures = s.ProofResults()
	}
	return res, nil
}

// OverwriteXorBits replaces the effective noise bits already fixed by
// InputRandomness/RandomVariablePEnd, leaving xorCom and noiseBlind
// untouched. This is a deliberate cheat surface (spec §7 "malicious
// participant"): it lets a harness simulate a participant who publishes
// noise inconsistent with what they actually committed to, so scenario
// tests can assert that Finalize's soundness check catches it. Taking
// only bits -- never a caller-supplied commitment vector -- is load
// bearing: xorCom stays pinned to what was actually committed, so any
// change to xorBits necessarily breaks the Commit(finalX, finalZ) ==
// comsSum + Σ xorCom identity (spec §9's "without updating xorCom").
// Ordinary callers of this package have no reason to use it.
func (s *Session) OverwriteXorBits(bits []int) error {
	if err := s.checkAlive(); err != nil {
		return err
	}
	if s.state != StateNoiseCommitted {
		return sequenceError(s.state, "overwrite_xor_bits called out of order")
	}
	if len(bits) != len(s.xorBits) {
		return &Error{Kind: KindMalformedInput, State: s.state, Message: "overwrite length mismatch"}
	}
	s.xorBits = append([]int(nil), bits...)
	return nil
}
