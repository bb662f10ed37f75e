package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ajatt-tools/mangaocrd/internal/config"
	"github.com/ajatt-tools/mangaocrd/internal/storage"
)

var historyLimit int

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently recognized text",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}
		if cfg.HistoryDB == "" {
			return fmt.Errorf("history persistence is disabled (history_db is empty)")
		}

		store, err := storage.NewBoltStorage(storage.StorageConfig{
			DBPath: cfg.HistoryDB,
			Logger: logger,
		})
		if err != nil {
			return err
		}
		defer store.Close()

		records, err := store.Recent(historyLimit)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No recognition history yet.")
			return nil
		}
		for _, rec := range records {
			fmt.Printf("%s  %-9s  %s\n",
				rec.RecognizedAt.Local().Format(time.RFC3339),
				rec.Action,
				rec.Text)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of records to show (0 for all)")
}
