package session

import (
	"github.com/noiseproto/binomial-dp/pkg/commitment"
	"github.com/noiseproto/binomial-dp/pkg/curve"
	"github.com/noiseproto/binomial-dp/pkg/pool"
	"github.com/noiseproto/binomial-dp/pkg/sigma"
)

// InputRandomness implements the unbiased p=½ noise sub-protocol (spec
// §4.1 "Unbiased path", §4.2 "Unbiased p = ½"): for each private noise
// bit, commits it behind a fresh proof-of-bit transcript, draws one
// public coin per bit, and derives the effective (XOR) bit and
// commitment per invariant I4.
//
// Calling this on a session that has already chosen the biased-p branch,
// or that is not in StateInputsCommitted, is a protocol-sequence error.
// Every bit in privBits must be 0 or 1, or this returns a malformed-input
// error leaving the session state unchanged.
func (s *Session) InputRandomness(privBits []int) error {
	if err := s.checkAlive(); err != nil {
		return err
	}
	if s.mode != noiseModeUnchosen {
		return sequenceError(s.state, "noise source already chosen")
	}
	if s.state != StateInputsCommitted {
		return sequenceError(s.state, "input_randomness called out of order")
	}

	for _, b := range privBits {
		if b != 0 && b != 1 {
			return &Error{Kind: KindMalformedInput, State: s.state, Message: "private noise bit must be 0 or 1"}
		}
	}

	n := len(privBits)

	type bitResult struct {
		blinding curve.Scalar
		com      curve.Point
		proof    *sigma.Transcript
	}
	results, err := pool.Map(s.workers, n, func(i int) (bitResult, error) {
		blinding := curve.Random()
		com := commitment.Commit(curve.NewFromBit(privBits[i]), blinding)
		proof, err := sigma.Prove(privBits[i], blinding)
		if err != nil {
			return bitResult{}, err
		}
		return bitResult{blinding: blinding, com: com, proof: proof}, nil
	})
	if err != nil {
		return err
	}

	pubBits, err := s.coinSource.Flip(n)
	if err != nil {
		return err
	}

	s.privBits = append([]int(nil), privBits...)
	s.privBlind = make([]curve.Scalar, n)
	s.privCom = make([]curve.Point, n)
	s.privProofOK = make([]bool, n)
	s.pubBits = pubBits
	s.xorBits = make([]int, n)
	s.xorCom = make([]curve.Point, n)
	s.noiseBlind = make([]curve.Scalar, n)

	commitOne := commitment.Commit(curve.One(), curve.One()) // Commit(1,1), I4

	for i, res := range results {
		s.privBlind[i] = res.blinding
		s.privCom[i] = res.com
		// Proof verification failures are recorded, never fatal here
		// (spec §7): the final identity check subsumes this.
		s.privProofOK[i] = sigma.Verify(res.proof)

		if pubBits[i] == 1 {
			s.xorBits[i] = 1 - privBits[i]
			s.xorCom[i] = commitment.Sub(commitOne, res.com)
			s.noiseBlind[i] = curve.One().Sub(res.blinding)
		} else {
			s.xorBits[i] = privBits[i]
			s.xorCom[i] = res.com
			s.noiseBlind[i] = res.blinding
		}
	}

	s.mode = noiseModeUnbiased
	s.state = StateNoiseCommitted
	return nil
}
