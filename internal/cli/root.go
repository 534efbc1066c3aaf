package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danmuck/ghoslerctl/internal/config"
	"github.com/danmuck/ghoslerctl/internal/lifecycle"
	"github.com/danmuck/ghoslerctl/internal/pm2"
	"github.com/danmuck/ghoslerctl/internal/release"
	"github.com/danmuck/ghoslerctl/internal/tools"
)

// Version is the tool release; the migration driver gates its steps on
// it.
const Version = "1.0.90"

var (
	cfgPath string
	cfg     config.Config
	reg     *pm2.Registry
	svc     *lifecycle.Service
)

var rootCmd = &cobra.Command{
	Use:   "ghoslerctl",
	Short: "Manage Ghosler newsletter instances under PM2",
	Long: `ghoslerctl installs, updates, backs up, migrates, and removes
Ghosler newsletter instances supervised by PM2 on this host. Instances
are identified by their PM2 process name; with a single instance
registered, commands do not need --name.`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if errors.Is(err, pm2.ErrNotOnline) {
		return fmt.Errorf("%w (inspect with: ghoslerctl logs --type error)", err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "tool config file (default ~/.config/ghoslerctl/config.toml)")
}

// setup loads the tool config and wires the collaborators every command
// shares.
func setup(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgPath)
	if err != nil {
		return err
	}

	runner := tools.ExecRunner{}
	reg = pm2.NewRegistry(pm2.RegistryConfig{
		Client:      pm2.NewClient(cfg.PM2Bin, runner),
		Runner:      runner,
		NpmBin:      cfg.NpmBin,
		SettleDelay: cfg.SettleDelay,
	})
	svc = lifecycle.NewService(lifecycle.ServiceConfig{
		Registry: reg,
		Source: release.NewClient(release.ClientConfig{
			Owner: cfg.GitHubOwner,
			Repo:  cfg.GitHubRepo,
		}),
		DefaultPort: cfg.DefaultPort,
	})
	return nil
}
