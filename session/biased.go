package session

import (
	"github.com/noiseproto/binomial-dp/pkg/commitment"
	"github.com/noiseproto/binomial-dp/pkg/curve"
)

// RandPInit declares that n ranges will be submitted for the biased p=k/m
// noise sub-protocol (spec §4.1 "Biased path", §4.2 "Biased p = k/m").
// Calling this after the unbiased branch has already been chosen, or
// outside StateInputsCommitted, is a protocol-sequence error.
func (s *Session) RandPInit(n int) error {
	if err := s.checkAlive(); err != nil {
		return err
	}
	if s.mode != noiseModeUnchosen {
		return sequenceError(s.state, "noise source already chosen")
	}
	if s.state != StateInputsCommitted {
		return sequenceError(s.state, "rand_p_init called out of order")
	}
	if n < 0 {
		return &Error{Kind: KindMalformedInput, State: s.state, Message: "range count must be non-negative"}
	}

	s.mode = noiseModeBiased
	s.varPN = n
	s.varPRanges = make([]rangeSubmission, 0, n)
	s.state = StateRangesOpen
	return nil
}

// RandomVariablePInput submits one length-m bit vector whose entries must
// sum to k. It returns (true, nil) and records the submission if m and
// the sum check both pass; otherwise it returns (false, nil) and leaves
// the session state unchanged (spec §7 "malformed-input", §8 P4).
//
// Calling this outside StateRangesOpen is a protocol-sequence error, and
// calling it after varP_n ranges have already been accepted returns
// (false, nil).
func (s *Session) RandomVariablePInput(k, m int, bits []int) (bool, error) {
	if err := s.checkAlive(); err != nil {
		return false, err
	}
	if s.state != StateRangesOpen {
		return false, sequenceError(s.state, "random_variable_p_input called out of order")
	}
	if len(s.varPRanges) >= s.varPN {
		return false, nil
	}
	if len(bits) != m {
		return false, nil
	}

	sum := 0
	for _, b := range bits {
		if b != 0 && b != 1 {
			return false, nil
		}
		sum += b
	}
	if sum != k {
		return false, nil
	}

	rnd := make([]curve.Scalar, m)
	coms := make([]curve.Point, m)
	for i, b := range bits {
		rnd[i] = curve.Random()
		coms[i] = commitment.Commit(curve.NewFromBit(b), rnd[i])
	}

	// Invariant I5: Σ ranges_i == Commit(k, Σ r_i). By construction this
	// always holds given the sum check above and honestly-generated
	// per-bit blindings; we check it explicitly rather than only
	// relying on that construction, since this is the algebraic
	// relation a verifier would recompute from the published summary.
	rSum := curve.Zero()
	for _, rr := range rnd {
		rSum = rSum.Add(rr)
	}
	if !commitment.Sum(coms).Equal(commitment.Commit(curve.NewFromUint64(uint64(k)), rSum)) {
		return false, nil
	}

	s.varPRanges = append(s.varPRanges, rangeSubmission{
		k: k, m: m, bits: append([]int(nil), bits...), rand: rnd, coms: coms,
	})
	return true, nil
}

// RandomVariablePEnd closes range submission. It returns (true, nil) and
// draws one uniformly random index per accepted range -- the bit,
// commitment, and blinding scalar of that index are retained as the
// session's effective noise (xorBits/xorCom/varP_finalR) -- only if
// exactly varP_n ranges were accepted (spec §8 P5); otherwise it returns
// (false, nil) leaving state unchanged.
//
// On success the session moves directly from RANGES_OPEN through
// RANGES_CLOSED to NOISE_COMMITTED (spec §4.1): there is no externally
// observable intermediate state since nothing else happens in between.
func (s *Session) RandomVariablePEnd() (bool, error) {
	if err := s.checkAlive(); err != nil {
		return false, err
	}
	if s.state != StateRangesOpen {
		return false, sequenceError(s.state, "end_biased_p called out of order")
	}
	if len(s.varPRanges) != s.varPN {
		return false, nil
	}

	n := len(s.varPRanges)
	s.xorBits = make([]int, n)
	s.xorCom = make([]curve.Point, n)
	s.noiseBlind = make([]curve.Scalar, n)

	for i, rs := range s.varPRanges {
		idx, err := sampleRangeIndex(rs.m)
		if err != nil {
			return false, err
		}
		s.xorBits[i] = rs.bits[idx]
		s.xorCom[i] = rs.coms[idx]
		s.noiseBlind[i] = rs.rand[idx]
	}

	s.state = StateNoiseCommitted
	return true, nil
}
