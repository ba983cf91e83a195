package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noiseproto/binomial-dp/internal/api"
	"github.com/noiseproto/binomial-dp/pkg/registry"
)

func runServe(cmd *cobra.Command, args []string) error {
	allowCheat, err := cmd.Flags().GetBool("allow-cheat-endpoint")
	if err != nil {
		return err
	}

	reg := registry.New()
	var opts []api.Option
	if allowCheat {
		opts = append(opts, api.WithCheatEndpoint())
	}

	r := api.NewRouter(reg, opts...)
	fmt.Printf("listening on %s\n", addr)
	return r.Run(addr)
}
