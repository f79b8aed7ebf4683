package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func healthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check the API server is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			health, err := a.api.Health(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("%s: %s\n", a.cfg.BaseURL, health.Status)
			return nil
		},
	}
}
