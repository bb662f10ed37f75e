//go:build linux
// +build linux

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajatt-tools/mangaocrd/internal/config"
	"github.com/ajatt-tools/mangaocrd/internal/daemon"
	"github.com/ajatt-tools/mangaocrd/internal/ocr"
	"github.com/ajatt-tools/mangaocrd/internal/ocr/tesseract"
	"github.com/ajatt-tools/mangaocrd/internal/pipe"
	"github.com/ajatt-tools/mangaocrd/internal/platform"
	"github.com/ajatt-tools/mangaocrd/internal/session"
	"github.com/ajatt-tools/mangaocrd/internal/storage"
)

var noHistory bool

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the OCR listener daemon",
	Long: `Run the OCR listener daemon, which reads commands from the named pipe
and processes them until the process is terminated.

The daemon runs for the lifetime of the desktop session; stop it with a
signal (Ctrl+C, kill).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			logger.Error("Failed to load config", zap.Error(err))
			return err
		}

		logger.Info("Starting OCR daemon",
			zap.String("pipe", cfg.PipePath),
			zap.Bool("force_cpu", cfg.ForceCPU),
			zap.Strings("languages", cfg.Languages))

		var history session.History
		if !noHistory && cfg.HistoryDB != "" {
			store, err := storage.NewBoltStorage(storage.StorageConfig{
				DBPath: cfg.HistoryDB,
				Logger: logger,
			})
			if err != nil {
				logger.Error("Failed to open history database", zap.Error(err))
				return err
			}
			defer store.Close()
			history = store
		}

		engine := tesseract.New(ocr.Options{
			Languages: cfg.Languages,
			ForceCPU:  cfg.ForceCPU,
		})

		clipboard := platform.NewClipboardWriter(cfg.ClipArgs, logger)
		notifier := platform.NewDesktopNotifier(logger)
		defer notifier.Close()

		fmt.Printf("Custom clip args: %v\n", cfg.ClipArgs)

		sess := session.New(session.SessionConfig{
			Engine:    engine,
			Clipboard: clipboard,
			Notifier:  notifier,
			History:   history,
			Logger:    logger,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		d := daemon.New(pipe.New(cfg.PipePath, logger), sess, logger)
		if err := d.Run(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				logger.Info("Shutting down")
				return nil
			}
			logger.Error("Daemon exited", zap.Error(err))
			return err
		}
		return nil
	},
}

func init() {
	runCmd.Flags().BoolVar(&noHistory, "no-history", false, "disable recognition history persistence")
}
