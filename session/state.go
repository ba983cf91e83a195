package session

// State identifies a point in the session state machine of spec §4.1.
// States are entered at most once; the session is single-use.
type State int

const (
	// StateInit is the state before any session exists; New moves
	// directly from this implicit state to StateInputsCommitted.
	StateInit State = iota
	// StateInputsCommitted holds after input commitments, xSum, rSum
	// and comsSum have been computed and invariant I1 checked.
	StateInputsCommitted
	// StateRangesOpen holds while a biased-p session is collecting
	// range submissions (after RandPInit, before RandomVariablePEnd).
	StateRangesOpen
	// StateNoiseCommitted holds once the effective noise bits and
	// their commitments (xorBits/xorCom) are fixed, whichever noise
	// mode produced them.
	StateNoiseCommitted
	// StateSumComputed holds once finalX/finalZ and the published
	// count have been computed.
	StateSumComputed
	// StateFinalCommitted holds once lhs/rhs have been computed; the
	// session's soundness output is available.
	StateFinalCommitted
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateInputsCommitted:
		return "INPUTS_COMMITTED"
	case StateRangesOpen:
		return "RANGES_OPEN"
	case StateNoiseCommitted:
		return "NOISE_COMMITTED"
	case StateSumComputed:
		return "SUM_COMPUTED"
	case StateFinalCommitted:
		return "FINAL_COMMITTED"
	default:
		return "UNKNOWN"
	}
}

// noiseMode is the tagged variant chosen at the first randomness-related
// call (spec §4.1, §9 "Variant branching"). It is set once and is
// immutable thereafter; calling both the unbiased and biased-p entry
// points on the same session is a protocol error.
type noiseMode int

const (
	noiseModeUnchosen noiseMode = iota
	noiseModeUnbiased
	noiseModeBiased
)
