// Package session implements the client-side protocol state machine for
// the verifiable binomial-noise differential-privacy mechanism (spec
// §4.1): the ordered sequence of moves, the commitments and proofs each
// move produces and consumes, and the final soundness check.
//
// A Session is single-use and not safe for concurrent use by multiple
// goroutines; pkg/registry is the collaborator responsible for
// serializing access to a given session across callers (spec §5).
package session

import (
	"math/big"

	"github.com/noiseproto/binomial-dp/pkg/coin"
	"github.com/noiseproto/binomial-dp/pkg/commitment"
	"github.com/noiseproto/binomial-dp/pkg/curve"
	"github.com/noiseproto/binomial-dp/pkg/pool"
)

// Session holds all state accumulated across one participant's protocol
// run, per the table in spec §3.
type Session struct {
	state    State
	poisoned bool
	mode     noiseMode

	// Input commitments (set at init, immutable).
	x        []curve.Scalar
	r        []curve.Scalar
	inputCom []curve.Point
	xSum     curve.Scalar
	rSum     curve.Scalar
	comsSum  curve.Point

	// Unbiased-path noise state.
	privBits    []int
	privBlind   []curve.Scalar
	privCom     []curve.Point
	privProofOK []bool
	pubBits     []int

	// Effective noise (shared by both modes). noiseBlind[i] is the
	// blinding scalar such that xorCom[i] == Commit(xorBits[i], noiseBlind[i]).
	xorBits    []int
	xorCom     []curve.Point
	noiseBlind []curve.Scalar

	// Biased-path state.
	varPN      int
	varPRanges []rangeSubmission

	// Final identity.
	finalX curve.Scalar
	finalZ curve.Scalar
	result uint64

	lhs curve.Point
	rhs curve.Point

	coinSource coin.Source
	workers    *pool.Pool
}

// rangeSubmission is one accepted random_variable_p_input call: a
// length-m bit vector whose sum equals k, with per-bit blinding and
// commitments (spec §3, §4.2).
type rangeSubmission struct {
	k, m  int
	bits  []int
	rand  []curve.Scalar
	coms  []curve.Point
}

// Option configures a new Session.
type Option func(*Session)

// WithCoinSource overrides the public-coin source used by the unbiased
// path. Defaults to coin.CryptoSource{}, which is NOT a valid real-world
// public coin (see pkg/coin doc); production callers should always pass
// one explicitly.
func WithCoinSource(c coin.Source) Option {
	return func(s *Session) { s.coinSource = c }
}

// WithPool overrides the worker pool used for parallel per-input and
// per-bit work. Defaults to pool.NewPool(0) (GOMAXPROCS workers).
func WithPool(p *pool.Pool) Option {
	return func(s *Session) { s.workers = p }
}

// New creates a session from a private bit vector, generating a fresh
// uniform blinding scalar per input, computing inputCom, xSum, rSum and
// comsSum, and checking invariant I1 before returning (spec §4.1,
// INIT -> INPUTS_COMMITTED). Every xi must be 0 or 1 or New returns a
// malformed-input error.
func New(bits []int, opts ...Option) (*Session, error) {
	s := &Session{
		state:      StateInputsCommitted,
		coinSource: coin.CryptoSource{},
		workers:    pool.NewPool(0),
	}
	for _, opt := range opts {
		opt(s)
	}

	for _, b := range bits {
		if b != 0 && b != 1 {
			return nil, &Error{Kind: KindMalformedInput, State: StateInit, Message: "input bit must be 0 or 1"}
		}
	}

	n := len(bits)
	s.x = make([]curve.Scalar, n)
	for i, b := range bits {
		s.x[i] = curve.NewFromBit(b)
	}

	// Blinding generation and commitment computation are independent
	// per input, so they run on the worker pool (spec §5, §9).
	type inputResult struct {
		r   curve.Scalar
		com curve.Point
	}
	results, err := pool.Map(s.workers, n, func(i int) (inputResult, error) {
		r := curve.Random()
		com := commitment.Commit(s.x[i], r)
		return inputResult{r: r, com: com}, nil
	})
	if err != nil {
		return nil, err
	}

	s.r = make([]curve.Scalar, n)
	s.inputCom = make([]curve.Point, n)
	xSum := curve.Zero()
	rSum := curve.Zero()
	for i, res := range results {
		s.r[i] = res.r
		s.inputCom[i] = res.com
		xSum = xSum.Add(s.x[i])
		rSum = rSum.Add(res.r)
	}
	s.xSum = xSum
	s.rSum = rSum
	s.comsSum = commitment.Sum(s.inputCom)

	// Invariant I1: Commit(xSum, rSum) == comsSum.
	if !commitment.Commit(s.xSum, s.rSum).Equal(s.comsSum) {
		s.poisoned = true
		return s, invariantError(StateInputsCommitted, "Commit(xSum, rSum) != comsSum")
	}

	return s, nil
}

func (s *Session) checkAlive() error {
	if s.poisoned {
		return ErrPoisoned
	}
	return nil
}

// State returns the session's current state.
func (s *Session) State() State { return s.state }

// InputCommitments returns inputCom, the per-input Pedersen commitments
// (query endpoint get-input-commits).
func (s *Session) InputCommitments() []curve.Point {
	return append([]curve.Point(nil), s.inputCom...)
}

// XSum returns xSum.
func (s *Session) XSum() curve.Scalar { return s.xSum }

// RSum returns rSum.
func (s *Session) RSum() curve.Scalar { return s.rSum }

// CommitmentsSum returns comsSum.
func (s *Session) CommitmentsSum() curve.Point { return s.comsSum }

// XorBits returns the effective noise bits (query endpoint get-xor-bits).
func (s *Session) XorBits() []int {
	return append([]int(nil), s.xorBits...)
}

// XorCommitments returns xorCom (query endpoint get-xor-commits).
func (s *Session) XorCommitments() []curve.Point {
	return append([]curve.Point(nil), s.xorCom...)
}

// PublicRandomness returns pubBits (query endpoint get-public-random).
// It is only populated in the unbiased mode.
func (s *Session) PublicRandomness() []int {
	return append([]int(nil), s.pubBits...)
}

// PrivateRandomCommitments returns privCom (query endpoint
// get-private-random-commits). It is only populated in the unbiased
// mode.
func (s *Session) PrivateRandomCommitments() []curve.Point {
	return append([]curve.Point(nil), s.privCom...)
}

// ProofResults reports, per private noise bit, whether its proof-of-bit
// transcript verified. Per spec §7, a false entry here is recorded but
// is not itself fatal; the final identity check is authoritative.
func (s *Session) ProofResults() []bool {
	return append([]bool(nil), s.privProofOK...)
}

// FinalZ returns finalZ, the blinding sum computed by ComputeSum (query
// endpoint get-z).
func (s *Session) FinalZ() curve.Scalar { return s.finalZ }

// ComputedCount returns the published count computed by ComputeSum.
func (s *Session) ComputedCount() uint64 { return s.result }

// Lhs returns lhs, Commit(finalX, finalZ), computed by Finalize (query
// endpoint get-lhs).
func (s *Session) Lhs() curve.Point { return s.lhs }

// Rhs returns rhs, comsSum + Σ xorCom, computed by Finalize (query
// endpoint get-rhs).
func (s *Session) Rhs() curve.Point { return s.rhs }

// sampleRangeIndex draws a uniformly random index in [0, m) using the
// process CSPRNG; it is the selection step of spec §4.2's biased-p mode.
func sampleRangeIndex(m int) (int, error) {
	if m <= 0 {
		return 0, invariantError(StateRangesOpen, "range length must be positive")
	}
	// curve.Random() is already a uniform sample over a much larger
	// range than any realistic m; reducing modulo m reuses the same
	// CSPRNG path as every other random draw in this codebase instead
	// of introducing a second source.
	idx := curve.Random().Big()
	idx.Mod(idx, big.NewInt(int64(m)))
	return int(idx.Int64()), nil
}
