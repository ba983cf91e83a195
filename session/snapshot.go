package session

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/noiseproto/binomial-dp/pkg/coin"
	"github.com/noiseproto/binomial-dp/pkg/curve"
	"github.com/noiseproto/binomial-dp/pkg/pool"
)

// Snapshot is the CBOR-encodable resumable transcript of a Session: every
// field needed to reconstruct the in-memory struct exactly, for a server
// process that wants to persist a session between requests instead of
// keeping it live in pkg/registry for the request's whole lifetime. This
// is independent of the JSON wire encoding internal/api uses at the HTTP
// boundary (spec.md §6) -- CBOR here is an internal storage format, never
// exposed to a protocol participant directly.
type Snapshot struct {
	State State    `cbor:"1,keyasint"`
	Mode  noiseMode `cbor:"2,keyasint"`

	X        [][]byte `cbor:"3,keyasint"`
	R        [][]byte `cbor:"4,keyasint"`
	InputCom [][]byte `cbor:"5,keyasint"`
	XSum     []byte   `cbor:"6,keyasint"`
	RSum     []byte   `cbor:"7,keyasint"`
	ComsSum  []byte   `cbor:"8,keyasint"`

	PrivBits    []int    `cbor:"9,keyasint"`
	PrivBlind   [][]byte `cbor:"10,keyasint"`
	PrivCom     [][]byte `cbor:"11,keyasint"`
	PrivProofOK []bool   `cbor:"12,keyasint"`
	PubBits     []int    `cbor:"13,keyasint"`

	XorBits    []int    `cbor:"14,keyasint"`
	XorCom     [][]byte `cbor:"15,keyasint"`
	NoiseBlind [][]byte `cbor:"16,keyasint"`

	VarPN int `cbor:"17,keyasint"`

	FinalX []byte `cbor:"18,keyasint"`
	FinalZ []byte `cbor:"19,keyasint"`
	Result uint64 `cbor:"20,keyasint"`

	Lhs []byte `cbor:"21,keyasint"`
	Rhs []byte `cbor:"22,keyasint"`
}

func scalarsBytes(ss []curve.Scalar) [][]byte {
	out := make([][]byte, len(ss))
	for i, s := range ss {
		out[i] = s.Bytes()
	}
	return out
}

func scalarsFromBytes(bs [][]byte) []curve.Scalar {
	out := make([]curve.Scalar, len(bs))
	for i, b := range bs {
		out[i] = curve.FromCanonicalBytes(b)
	}
	return out
}

func pointsBytes(ps []curve.Point) [][]byte {
	out := make([][]byte, len(ps))
	for i, p := range ps {
		out[i] = p.Bytes()
	}
	return out
}

func pointsFromBytes(bs [][]byte) ([]curve.Point, error) {
	out := make([]curve.Point, len(bs))
	for i, b := range bs {
		p, err := curve.DeserializePoint(b)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// Snapshot captures the session's full state for later resumption. It
// does not capture coinSource or workers: a resumed session is handed
// fresh collaborators by the caller of FromSnapshot, the same way New
// takes them as Options.
func (s *Session) Snapshot() (*Snapshot, error) {
	if err := s.checkAlive(); err != nil {
		return nil, err
	}
	if s.state == StateRangesOpen {
		return nil, sequenceError(s.state, "cannot snapshot while range submissions are open")
	}

	snap := &Snapshot{
		State: s.state,
		Mode:  s.mode,

		X:        scalarsBytes(s.x),
		R:        scalarsBytes(s.r),
		InputCom: pointsBytes(s.inputCom),
		XSum:     s.xSum.Bytes(),
		RSum:     s.rSum.Bytes(),
		ComsSum:  s.comsSum.Bytes(),

		VarPN: s.varPN,
	}

	// privBits/privBlind/privCom/privProofOK/pubBits only exist once the
	// unbiased path has run; fields stay empty in biased mode or before
	// StateNoiseCommitted.
	if s.mode == noiseModeUnbiased {
		snap.PrivBits = s.privBits
		snap.PrivBlind = scalarsBytes(s.privBlind)
		snap.PrivCom = pointsBytes(s.privCom)
		snap.PrivProofOK = s.privProofOK
		snap.PubBits = s.pubBits
	}

	// xorBits/xorCom/noiseBlind are fixed at StateNoiseCommitted onward,
	// by either path.
	if s.state >= StateNoiseCommitted {
		snap.XorBits = s.xorBits
		snap.XorCom = pointsBytes(s.xorCom)
		snap.NoiseBlind = scalarsBytes(s.noiseBlind)
	}

	if s.state >= StateSumComputed {
		snap.FinalX = s.finalX.Bytes()
		snap.FinalZ = s.finalZ.Bytes()
		snap.Result = s.result
	}

	if s.state >= StateFinalCommitted {
		snap.Lhs = s.lhs.Bytes()
		snap.Rhs = s.rhs.Bytes()
	}

	return snap, nil
}

// MarshalSnapshot is a convenience wrapper around Snapshot + cbor.Marshal.
func (s *Session) MarshalSnapshot() ([]byte, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(snap)
}

// UnmarshalSnapshot decodes CBOR produced by MarshalSnapshot and
// reconstructs a Session from it.
func UnmarshalSnapshot(data []byte, opts ...Option) (*Session, error) {
	var snap Snapshot
	if err := cbor.Unmarshal(data, &snap); err != nil {
		return nil, err
	}
	return FromSnapshot(&snap, opts...)
}

// FromSnapshot reconstructs a Session from a previously captured
// Snapshot. Note that varPRanges (in-flight, not-yet-closed range
// submissions) is intentionally not part of the snapshot: a session may
// only be persisted between completed transitions, never mid-range-batch,
// since an open batch is never durable -- it lives only for the duration
// of one RandPInit/.../RandomVariablePEnd call sequence.
func FromSnapshot(snap *Snapshot, opts ...Option) (*Session, error) {
	s := &Session{
		state:      snap.State,
		mode:       snap.Mode,
		coinSource: coin.CryptoSource{},
		workers:    pool.NewPool(0),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.x = scalarsFromBytes(snap.X)
	s.r = scalarsFromBytes(snap.R)
	inputCom, err := pointsFromBytes(snap.InputCom)
	if err != nil {
		return nil, err
	}
	s.inputCom = inputCom
	s.xSum = curve.FromCanonicalBytes(snap.XSum)
	s.rSum = curve.FromCanonicalBytes(snap.RSum)
	comsSum, err := curve.DeserializePoint(snap.ComsSum)
	if err != nil {
		return nil, err
	}
	s.comsSum = comsSum

	if snap.Mode == noiseModeUnbiased {
		s.privBits = snap.PrivBits
		s.privBlind = scalarsFromBytes(snap.PrivBlind)
		privCom, err := pointsFromBytes(snap.PrivCom)
		if err != nil {
			return nil, err
		}
		s.privCom = privCom
		s.privProofOK = snap.PrivProofOK
		s.pubBits = snap.PubBits
	}

	if snap.State >= StateNoiseCommitted {
		s.xorBits = snap.XorBits
		xorCom, err := pointsFromBytes(snap.XorCom)
		if err != nil {
			return nil, err
		}
		s.xorCom = xorCom
		s.noiseBlind = scalarsFromBytes(snap.NoiseBlind)
	}

	s.varPN = snap.VarPN

	if snap.State >= StateSumComputed {
		s.finalX = curve.FromCanonicalBytes(snap.FinalX)
		s.finalZ = curve.FromCanonicalBytes(snap.FinalZ)
		s.result = snap.Result
	}

	if len(snap.Lhs) > 0 {
		lhs, err := curve.DeserializePoint(snap.Lhs)
		if err != nil {
			return nil, err
		}
		s.lhs = lhs
	}
	if len(snap.Rhs) > 0 {
		rhs, err := curve.DeserializePoint(snap.Rhs)
		if err != nil {
			return nil, err
		}
		s.rhs = rhs
	}

	return s, nil
}
