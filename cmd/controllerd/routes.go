package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRoutesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the route table that serve would use",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadServerConfig()
			if err != nil {
				return err
			}
			routes, err := loadRoutes(cfg.Routes)
			if err != nil {
				return err
			}
			for _, rt := range routes {
				fmt.Fprintf(cmd.OutOrStdout(), "%-7s %-30s %s\n", rt.Method, rt.Path, rt.Event)
			}
			return nil
		},
	}
}
