package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List registered instances",
	Args:  cobra.NoArgs,
	RunE:  runLs,
}

func init() {
	rootCmd.AddCommand(lsCmd)
}

func runLs(cmd *cobra.Command, args []string) error {
	statuses, err := svc.List()
	if err != nil {
		return err
	}
	if len(statuses) == 0 {
		fmt.Println("No instances registered")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPID\tSTATUS\tVERSION\tPATH")
	for _, st := range statuses {
		version := st.Version
		if version == "" {
			version = "-"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\n", st.Name, st.PID, st.Status, version, st.Path)
	}
	return w.Flush()
}
