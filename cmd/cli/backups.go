package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/refurbtrack/price-tracker/internal/backup"
	"github.com/refurbtrack/price-tracker/internal/store"
)

// backupsCmd groups backup management subcommands
var backupsCmd = &cobra.Command{
	Use:   "backups",
	Short: "Manage dataset backups",
}

var backupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List retained dataset backups",
	RunE:  runBackupsList,
}

var backupsRestoreCmd = &cobra.Command{
	Use:   "restore <backup-file>",
	Short: "Replace the live dataset with a named backup",
	Long: `Replace the live dataset with a named backup. The current dataset is
backed up first, so a mistaken restore is itself recoverable.`,
	Args: cobra.ExactArgs(1),
	RunE: runBackupsRestore,
}

func init() {
	rootCmd.AddCommand(backupsCmd)
	backupsCmd.AddCommand(backupsListCmd)
	backupsCmd.AddCommand(backupsRestoreCmd)
}

func runBackupsList(cmd *cobra.Command, args []string) error {
	if cfg == nil {
		return fmt.Errorf("config required for backups command but not loaded")
	}

	bm := backup.NewManager(cfg.Store.BackupDir, cfg.Backup.Retention, *logger)
	infos, err := bm.List()
	if err != nil {
		return err
	}
	if len(infos) == 0 {
		fmt.Println("No backups found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tSIZE\tCREATED")
	for _, info := range infos {
		fmt.Fprintf(w, "%s\t%d\t%s\n", info.Name, info.Size, info.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func runBackupsRestore(cmd *cobra.Command, args []string) error {
	if cfg == nil {
		return fmt.Errorf("config required for backups command but not loaded")
	}

	bm := backup.NewManager(cfg.Store.BackupDir, cfg.Backup.Retention, *logger)
	st := store.New(cfg.Store.DataFile(), cfg.Store.RejectedDir, *logger)

	data, err := bm.Restore(args[0])
	if err != nil {
		return err
	}

	// The dataset being replaced gets its own restore point.
	if _, err := bm.Create(st.Load()); err != nil {
		return fmt.Errorf("backup before restore failed: %w", err)
	}

	if err := st.Save(data); err != nil {
		return err
	}

	logger.Info().Str("backup", args[0]).Int("competitors", len(data)).Msg("Dataset restored")
	return nil
}
