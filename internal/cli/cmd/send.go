//go:build linux
// +build linux

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ajatt-tools/mangaocrd/internal/config"
	"github.com/ajatt-tools/mangaocrd/internal/pipe"
	"github.com/ajatt-tools/mangaocrd/internal/protocol"
)

// sendCmd writes a command into the daemon's FIFO, so screenshot scripts
// don't have to hand-assemble wire lines.
var sendCmd = &cobra.Command{
	Use:   "send <hold|recognize|stop> [image-file]",
	Short: "Send a command to the running daemon",
	Long: `Send a command line to the running daemon through its named pipe.

hold and recognize require the path to an existing image file; stop takes
no file. The call blocks until the daemon reads the command.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}

		action := protocol.ParseAction(args[0])
		if action == protocol.ActionUnknown {
			return fmt.Errorf("unknown action %q: want hold, recognize or stop", args[0])
		}

		filePath := "none"
		if action == protocol.ActionStop {
			if len(args) > 1 {
				return fmt.Errorf("stop takes no file argument")
			}
		} else {
			if len(args) < 2 {
				return fmt.Errorf("%s requires an image file argument", action)
			}
			filePath, err = filepath.Abs(args[1])
			if err != nil {
				return err
			}
			if _, err := os.Stat(filePath); err != nil {
				return fmt.Errorf("image file: %w", err)
			}
		}

		if !pipe.IsFIFO(cfg.PipePath) {
			return fmt.Errorf("no FIFO at %s: is the daemon running?", cfg.PipePath)
		}

		w, err := os.OpenFile(cfg.PipePath, os.O_WRONLY, 0)
		if err != nil {
			return fmt.Errorf("failed to open pipe for writing: %w", err)
		}
		defer w.Close()

		line := protocol.Command{Action: action, FilePath: filePath}.Encode()
		if _, err := w.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("failed to write command: %w", err)
		}
		return nil
	},
}
