package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var installBranch string

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Install a new instance into the current directory",
	Long: `Install downloads the latest Ghosler release (or a named git
branch), extracts it into the current directory, assigns a free port and
a unique process name, and registers the instance with PM2. The current
directory must be empty.`,
	Args: cobra.NoArgs,
	RunE: runInstall,
}

func init() {
	rootCmd.AddCommand(installCmd)
	installCmd.Flags().StringVar(&installBranch, "branch", "", "git branch to install instead of the latest release")
}

func runInstall(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}
	res, err := svc.Install(cmd.Context(), cwd, installBranch)
	if err != nil {
		return err
	}
	fmt.Printf("Installed %s (%s) at %s\n", res.Name, res.Version, res.Path)
	fmt.Printf("Ghosler is listening on port %d\n", res.Port)
	return nil
}
