package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"

	"github.com/spf13/cobra"

	"github.com/noiseproto/binomial-dp/pkg/curve"
)

type verifyInput struct {
	Lhs string `json:"lhs"`
	Rhs string `json:"rhs"`
}

func runVerify(cmd *cobra.Command, args []string) error {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("reading stdin: %w", err)
	}

	var in verifyInput
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("parsing input: %w", err)
	}

	lhs, err := decodePoint(in.Lhs)
	if err != nil {
		return fmt.Errorf("lhs: %w", err)
	}
	rhs, err := decodePoint(in.Rhs)
	if err != nil {
		return fmt.Errorf("rhs: %w", err)
	}

	if lhs.Equal(rhs) {
		fmt.Println("sound: lhs == rhs")
		return nil
	}
	fmt.Println("unsound: lhs != rhs")
	return fmt.Errorf("final identity check failed")
}

func decodePoint(s string) (curve.Point, error) {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return curve.Point{}, fmt.Errorf("invalid decimal point %q", s)
	}
	if n.Sign() == 0 {
		return curve.Identity(), nil
	}
	raw := make([]byte, 33)
	n.FillBytes(raw)
	return curve.DeserializePoint(raw)
}
