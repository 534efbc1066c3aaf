package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var backupName string

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a zip backup of an instance",
	Long: `Backup archives the instance directory into a timestamped zip
under its backups/ folder, excluding logs, installed dependencies, and
earlier backups. Artifacts are never overwritten or pruned.`,
	Args: cobra.NoArgs,
	RunE: runBackup,
}

func init() {
	rootCmd.AddCommand(backupCmd)
	backupCmd.Flags().StringVar(&backupName, "name", "", "instance to back up")
}

func runBackup(cmd *cobra.Command, args []string) error {
	name, err := resolveName(reg, backupName)
	if err != nil {
		return err
	}
	artifact, err := svc.Backup(name)
	if err != nil {
		return err
	}
	fmt.Printf("Backed up %s to %s\n", name, artifact)
	return nil
}
