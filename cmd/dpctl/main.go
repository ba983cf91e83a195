package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	addr    string
	verbose bool

	rootCmd = &cobra.Command{
		Use:   "dpctl",
		Short: "CLI for the verifiable binomial-noise DP protocol engine",
		Long: `dpctl drives and serves the client-side protocol engine for a
verifiable binomial-noise differential-privacy mechanism: commit inputs,
contribute noise, and check the final soundness identity.`,
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run one session end to end from the command line",
		Long:  `Drive a single session through every state transition locally, for manual testing.`,
		RunE:  runSession,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP session server",
		RunE:  runServe,
	}

	verifyCmd = &cobra.Command{
		Use:   "verify",
		Short: "Check a finalised session's lhs/rhs pair given on stdin",
		Long:  `Reads a JSON object {"lhs": "<decimal>", "rhs": "<decimal>"} from stdin and reports whether they match.`,
		RunE:  runVerify,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	runCmd.Flags().IntSlice("bits", nil, "private input bits (0/1)")
	runCmd.Flags().IntSlice("noise-bits", nil, "private noise bits for the unbiased path (0/1)")
	runCmd.Flags().Bool("biased", false, "use the biased p=k/m noise path instead of unbiased p=½")
	runCmd.Flags().Int("k", 0, "biased path: target sum per range")
	runCmd.Flags().Int("m", 0, "biased path: range length")

	serveCmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "address to listen on")
	serveCmd.Flags().Bool("allow-cheat-endpoint", false, "enable the overwrite-xor-bits test surface")

	rootCmd.AddCommand(runCmd, serveCmd, verifyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "dpctl: %v\n", err)
		os.Exit(1)
	}
}
