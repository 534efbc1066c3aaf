package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var restartName string

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart an instance",
	Args:  cobra.NoArgs,
	RunE:  runRestart,
}

func init() {
	rootCmd.AddCommand(restartCmd)
	restartCmd.Flags().StringVar(&restartName, "name", "", "instance to restart")
}

func runRestart(cmd *cobra.Command, args []string) error {
	name, err := resolveName(reg, restartName)
	if err != nil {
		return err
	}
	if err := svc.Restart(name); err != nil {
		return err
	}
	fmt.Printf("Restarted %s\n", name)
	return nil
}
