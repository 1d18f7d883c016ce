package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"fixity/internal/log"
)

// Version is set by main.go
var Version = "dev"

// rootCmd is the base command when called without subcommands
var rootCmd = &cobra.Command{
	Use:   "fixity",
	Short: "File-fixity preservation via Reed-Solomon sidecars",
	Long: `fixity computes and verifies a Reed-Solomon error-correction sidecar
for a tree of files, so they can be repaired byte-for-byte after bit-level
corruption without an intact backup copy:
  - A per-file, per-region adaptive encoder with header/stage1/stage2
    resilience rates
  - A marker-framed primary sidecar, plus a protected index sidecar used
    for sidecar-framing repair
  - Two independent sidecar-repair strategies: index-backed and a
    Hamming-distance heuristic`,
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		if verbose {
			log.EnableDebugLogging()
		}
		logFile, _ := cmd.Flags().GetString("log-file")
		if logFile != "" {
			if err := log.EnableFileLogging(logFile, log.LevelDebug); err != nil {
				return err
			}
		}
		return nil
	},
}

// Global reporter for signal handling
var globalReporter *Reporter

// Execute runs the CLI application, exiting the process on error.
func Execute(version string) {
	Version = version
	rootCmd.Version = version

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		if globalReporter != nil {
			globalReporter.Cancel()
			fmt.Fprintln(os.Stderr, "\nCancelling operation...")
		} else {
			os.Exit(1)
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Disable default completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging to stderr")
	rootCmd.PersistentFlags().String("log-file", "", "write structured logs to this file")
}
