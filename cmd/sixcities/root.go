package main

import (
	"github.com/spf13/cobra"
)

// envFiles are optional dotenv files loaded before the environment is read.
var envFiles []string

// NewRootCmd creates the root command for the sixcities CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sixcities",
		Short: "Six Cities - rental offers API",
		Long: `Six Cities serves rental offers, comments and favorites over a JSON
REST API backed by MongoDB and Redis.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", []string{".env"}, "dotenv files loaded before the environment (missing files are ignored)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}
