package main

import (
	"github.com/spf13/cobra"
)

// configFile is the env file read by every subcommand.
var configFile string

// NewRootCmd creates the gosso command tree.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gosso",
		Short: "gosso - ticket based single sign-on server",
		Long: `gosso issues one-time tickets, authenticates accounts against them and
hands the resulting session to the application that created the ticket.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "env file path (default .env)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewLoadtestCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Println(versionString())
		},
	}
}
