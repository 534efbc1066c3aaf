package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var updateName string

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update an instance to the latest release",
	Long: `Update checks the latest published Ghosler release against the
installed version. When newer, it backs the instance up, replaces its
application files while keeping logs, uploads, backups and configuration,
reinstalls production dependencies, and restarts the process.`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().StringVar(&updateName, "name", "", "instance to update")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	name, err := resolveName(reg, updateName)
	if err != nil {
		return err
	}
	res, err := svc.Update(cmd.Context(), name)
	if err != nil {
		return err
	}
	if !res.Updated {
		fmt.Printf("%s is already on the latest version (%s)\n", res.Name, res.FromVersion)
		return nil
	}
	fmt.Printf("Updated %s from %s to %s\n", res.Name, res.FromVersion, res.ToVersion)
	fmt.Printf("Backup: %s\n", res.BackupPath)
	return nil
}
