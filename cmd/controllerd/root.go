package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "controllerd",
		Short: "Event-driven HTTP controller server",
		Long: `controllerd maps HTTP routes to controller executions.

Each request runs a process event and a response event on an in-process
bus. Configuration is read from CONTROLLER_* environment variables.`,
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newRoutesCmd())
	return root
}
