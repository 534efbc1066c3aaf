package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danmuck/ghoslerctl/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Bring all instances up to this tool version's layout",
	Long: `Migrate applies the versioned migration steps to every
registered instance: backfilling managed configuration fields and moving
the configuration file where newer Ghosler versions expect it. Steps are
idempotent; running migrate on an up-to-date fleet changes nothing.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	results, err := migrate.NewRunner(reg, Version).Run()
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Println("No instances registered")
		return nil
	}

	failed := 0
	for _, res := range results {
		switch {
		case res.Err != nil:
			failed++
			fmt.Printf("%s: failed: %v\n", res.Name, res.Err)
		case len(res.Applied) == 0:
			fmt.Printf("%s: up to date\n", res.Name)
		default:
			fmt.Printf("%s: applied %s\n", res.Name, strings.Join(res.Applied, ", "))
		}
	}
	if failed > 0 {
		return fmt.Errorf("cli: %d of %d instances failed to migrate", failed, len(results))
	}
	return nil
}
