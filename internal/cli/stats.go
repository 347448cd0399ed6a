package cli

import (
	"encoding/json"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show archive statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}

	a, err := openSQLiteArchive(cfg)
	if err != nil {
		exitErr("open archive", err)
	}
	defer a.Close()

	stats, err := a.Stats(cmd.Context())
	if err != nil {
		exitErr("stats", err)
	}

	if formatFlag == "json" {
		b, _ := json.MarshalIndent(stats, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return
	}

	fmt.Fprintf(cmd.OutOrStdout(), "archive:          %s (%s)\n", stats.DBPath, humanize.Bytes(uint64(stats.DBSizeBytes)))
	fmt.Fprintf(cmd.OutOrStdout(), "entries:          %d\n", stats.TotalEntries)
	fmt.Fprintf(cmd.OutOrStdout(), "sessions:         %d\n", stats.TotalSessions)
	fmt.Fprintf(cmd.OutOrStdout(), "bytes archived:   %s\n", humanize.Bytes(uint64(stats.BytesArchived)))
}
