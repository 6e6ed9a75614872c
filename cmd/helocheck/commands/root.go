// Package commands implements the helocheck CLI.
package commands

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/marmos91/helocheck/cmd/helocheck/commands/config"
	"github.com/spf13/cobra"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	// Global flags.
	cfgFile      string
	outputFormat string
)

// ErrCheckFailed is returned when blocks did not verify. The summary has
// already been printed, so main exits without repeating it.
var ErrCheckFailed = errors.New("check failed")

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "helocheck",
	Short: "helocheck - verify storage media with self-checking blocks",
	Long: `helocheck writes self-describing 512-byte "helo" blocks to a storage
medium and reads them back, reporting every block that comes back corrupted,
missing, unrecognizable or from the wrong address.

Each block carries its own number and a payload derived from it, so a block
can be verified on its own without a copy of what was written.

Use "helocheck [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and runs it. SIGINT
// and SIGTERM cancel a scan in flight, which then reports what it visited.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// GetRootCmd returns the root command for testing purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $XDG_CONFIG_HOME/helocheck/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table|json|yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(writeCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(verifyFileCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(config.Cmd)
	rootCmd.AddCommand(completionCmd)

	// Hide the default completion command (we provide our own)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// GetConfigFile returns the config file path from the global flag.
func GetConfigFile() string {
	return cfgFile
}
