package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var flushName string

var flushCmd = &cobra.Command{
	Use:   "flush",
	Short: "Truncate an instance's log files",
	Args:  cobra.NoArgs,
	RunE:  runFlush,
}

func init() {
	rootCmd.AddCommand(flushCmd)
	flushCmd.Flags().StringVar(&flushName, "name", "", "instance whose logs to flush")
}

func runFlush(cmd *cobra.Command, args []string) error {
	name, err := resolveName(reg, flushName)
	if err != nil {
		return err
	}
	if err := svc.Flush(name); err != nil {
		return err
	}
	fmt.Printf("Flushed logs for %s\n", name)
	return nil
}
