package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configFile string
	verbose    bool
	quiet      bool

	// Shared resources
	logger *zap.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mangaocrd",
	Short: "An OCR daemon that listens for commands on a named pipe",
	Long: `mangaocrd is a desktop-session daemon for OCR-ing manga screenshots:
  • Listens for <action>::<file_path> commands on a named pipe
  • Feeds screenshots to a Tesseract OCR engine
  • Accumulates held text and flushes it to the clipboard
  • Announces results via desktop notifications`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is $XDG_CONFIG_HOME/transformers_ocr/config)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "minimize output")

	// Add commands
	rootCmd.AddCommand(
		runCmd,
		sendCmd,
		historyCmd,
		versionCmd,
	)
}

func setupLogger() {
	var err error
	var cfg zap.Config

	switch {
	case verbose:
		cfg = zap.NewDevelopmentConfig()
	case quiet:
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	default:
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	logger, err = cfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
}
