package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noiseproto/binomial-dp/session"
)

func runSession(cmd *cobra.Command, args []string) error {
	bits, err := cmd.Flags().GetIntSlice("bits")
	if err != nil {
		return err
	}
	biased, err := cmd.Flags().GetBool("biased")
	if err != nil {
		return err
	}

	sess, err := session.New(bits)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}
	fmt.Printf("inputs committed: x_sum=%s\n", sess.XSum().Big())

	if biased {
		k, _ := cmd.Flags().GetInt("k")
		m, _ := cmd.Flags().GetInt("m")
		if err := runBiased(cmd, sess, k, m); err != nil {
			return err
		}
	} else {
		noiseBits, err := cmd.Flags().GetIntSlice("noise-bits")
		if err != nil {
			return err
		}
		if err := sess.InputRandomness(noiseBits); err != nil {
			return fmt.Errorf("input-randomness: %w", err)
		}
		fmt.Printf("noise committed: public_random=%v\n", sess.PublicRandomness())
	}

	if err := sess.ComputeSum(); err != nil {
		return fmt.Errorf("compute-sum: %w", err)
	}
	fmt.Printf("sum computed: count=%d\n", sess.ComputedCount())

	res, err := sess.Finalize()
	if err != nil {
		return fmt.Errorf("finalise: %w", err)
	}

	fmt.Printf("count=%d sound=%v\n", res.Count, res.Sound)
	if !res.Sound {
		return fmt.Errorf("final identity check failed: lhs != rhs")
	}
	return nil
}

// runBiased drives one range submission of length m summing to k for
// every input bit, a minimal single-range demonstration of the biased-p
// path for manual CLI testing.
func runBiased(cmd *cobra.Command, sess *session.Session, k, m int) error {
	if m <= 0 {
		return fmt.Errorf("--m must be positive for --biased")
	}
	n := len(sess.InputCommitments())
	if err := sess.RandPInit(n); err != nil {
		return fmt.Errorf("rand-p-init: %w", err)
	}

	bits := make([]int, m)
	remaining := k
	for i := 0; i < m && remaining > 0; i++ {
		bits[i] = 1
		remaining--
	}
	for i := 0; i < n; i++ {
		ok, err := sess.RandomVariablePInput(k, m, bits)
		if err != nil {
			return fmt.Errorf("random-variable-p-input: %w", err)
		}
		if !ok {
			return fmt.Errorf("random-variable-p-input rejected: k=%d m=%d", k, m)
		}
	}

	ok, err := sess.RandomVariablePEnd()
	if err != nil {
		return fmt.Errorf("end-biased-p: %w", err)
	}
	if !ok {
		return fmt.Errorf("end-biased-p rejected: expected %d ranges", n)
	}
	fmt.Printf("noise committed: xor_bits=%v\n", sess.XorBits())
	return nil
}
