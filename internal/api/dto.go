package api

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/noiseproto/binomial-dp/pkg/curve"
)

// scalarDTO and pointDTO cross the HTTP boundary as JSON strings holding
// the decimal representation of the value's canonical byte encoding (spec
// §6): this keeps arbitrarily large field elements out of JSON numbers,
// which lose precision past 2^53, while staying human-readable in a way
// hex is not for casual debugging.

type scalarDTO curve.Scalar

func (d scalarDTO) MarshalJSON() ([]byte, error) {
	n := new(big.Int).SetBytes(curve.Scalar(d).Bytes())
	return json.Marshal(n.String())
}

func (d *scalarDTO) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return fmt.Errorf("api: invalid decimal scalar %q", s)
	}
	raw := make([]byte, len(curve.Zero().Bytes()))
	if n.Sign() < 0 || len(n.Bytes()) > len(raw) {
		return fmt.Errorf("api: scalar encoding out of range %q", s)
	}
	n.FillBytes(raw)
	*d = scalarDTO(curve.FromCanonicalBytes(raw))
	return nil
}

func (d scalarDTO) scalar() curve.Scalar { return curve.Scalar(d) }

func scalarsToDTO(s []curve.Scalar) []scalarDTO {
	out := make([]scalarDTO, len(s))
	for i, v := range s {
		out[i] = scalarDTO(v)
	}
	return out
}

type pointDTO curve.Point

func (d pointDTO) MarshalJSON() ([]byte, error) {
	p := curve.Point(d)
	n := new(big.Int).SetBytes(p.Bytes())
	return json.Marshal(n.String())
}

func (d *pointDTO) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return fmt.Errorf("api: invalid decimal point %q", s)
	}

	var raw []byte
	if n.Sign() == 0 {
		raw = []byte{0x00}
	} else {
		raw = make([]byte, 33)
		n.FillBytes(raw)
	}
	p, err := curve.DeserializePoint(raw)
	if err != nil {
		return err
	}
	*d = pointDTO(p)
	return nil
}

func pointsToDTO(p []curve.Point) []pointDTO {
	out := make([]pointDTO, len(p))
	for i, v := range p {
		out[i] = pointDTO(v)
	}
	return out
}

// createSessionRequest is the body of POST /sessions.
type createSessionRequest struct {
	Bits []int `json:"bits"`
}

type createSessionResponse struct {
	ID             string      `json:"id"`
	InputCommits   []pointDTO  `json:"input_commits"`
	XSum           scalarDTO   `json:"x_sum"`
	CommitmentsSum pointDTO    `json:"commitments_sum"`
}

type privateRandomnessRequest struct {
	Bits []int `json:"bits"`
}

type randPInitRequest struct {
	N int `json:"n"`
}

type rangeRequest struct {
	K    int   `json:"k"`
	M    int   `json:"m"`
	Bits []int `json:"bits"`
}

type acceptedResponse struct {
	Accepted bool `json:"accepted"`
}

type overwriteRequest struct {
	Bits []int `json:"bits"`
}

type sumResponse struct {
	Count uint64 `json:"count"`
}

type finalizeResponse struct {
	Count         uint64 `json:"count"`
	Sound         bool   `json:"sound"`
	Cheating      bool   `json:"cheating"`
	ProofFailures []bool `json:"proof_failures,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}
