package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	logsName  string
	logsType  string
	logsLines int
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Print recent log output for an instance",
	Args:  cobra.NoArgs,
	RunE:  runLogs,
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.Flags().StringVar(&logsName, "name", "", "instance whose logs to print")
	logsCmd.Flags().StringVar(&logsType, "type", "out", "log stream: out or error")
	logsCmd.Flags().IntVar(&logsLines, "lines", 0, "lines to print (default from tool config)")
}

func runLogs(cmd *cobra.Command, args []string) error {
	name, err := resolveName(reg, logsName)
	if err != nil {
		return err
	}
	lines := logsLines
	if lines <= 0 {
		lines = cfg.LogLines
	}
	out, err := svc.Logs(name, logsType, lines)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}
