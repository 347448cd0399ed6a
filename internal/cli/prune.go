package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete old archive entries",
		Long:  "Removes archived transcripts older than the given number of days from the archive database.",
		Run:   runPrune,
	}

	cmd.Flags().Int("older-than-days", 90, "Delete archive entries older than this many days")

	RootCmd.AddCommand(cmd)
}

func runPrune(cmd *cobra.Command, args []string) {
	days, _ := cmd.Flags().GetInt("older-than-days")
	if days < 0 {
		exitErr("prune", fmt.Errorf("older-than-days must be >= 0, got %d", days))
	}

	cfg, err := loadConfig()
	if err != nil {
		exitErr("load config", err)
	}

	a, err := openSQLiteArchive(cfg)
	if err != nil {
		exitErr("open archive", err)
	}
	defer a.Close()

	cutoff := time.Now().Add(-time.Duration(days) * 24 * time.Hour)
	n, err := a.Prune(cmd.Context(), cutoff)
	if err != nil {
		exitErr("prune", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"pruned":%d}`+"\n", n)
}
