package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var uninstallName string

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove an instance and delete its files",
	Long: `Uninstall removes the instance from PM2 first, then deletes the
contents of its directory, backups included. There is no undo.`,
	Args: cobra.NoArgs,
	RunE: runUninstall,
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
	uninstallCmd.Flags().StringVar(&uninstallName, "name", "", "instance to uninstall")
}

func runUninstall(cmd *cobra.Command, args []string) error {
	name, err := resolveName(reg, uninstallName)
	if err != nil {
		return err
	}
	res, err := svc.Uninstall(name)
	if err != nil {
		return err
	}
	fmt.Printf("Uninstalled %s\n", res.Name)
	if res.FilesRemoved {
		fmt.Printf("Removed instance files under %s\n", res.Path)
	}
	return nil
}
