// Package commands implements the relay's CLI.
package commands

import (
	"github.com/spf13/cobra"
)

// Version information injected at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "nfcgate-server [plugin]...",
	Short: "nfcgate relay server",
	Long: `nfcgate-server is a session-multiplexed TCP relay for NFC traffic
between cooperating clients. Positional arguments name plugin modules to
load, in order, into the relay's filter chain.`,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

// Execute runs the root command. Called by main.main().
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Flags().Bool("tls", false, "terminate relay connections with TLS")
	rootCmd.Flags().String("tls_cert", "", "path to the TLS certificate (PEM)")
	rootCmd.Flags().String("tls_key", "", "path to the TLS private key (PEM)")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.Printf("nfcgate-server %s (commit: %s, built: %s)\n", Version, Commit, Date)
		return nil
	},
}
