package pm2

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/danmuck/ghoslerctl/internal/tools"
	"github.com/rs/zerolog/log"
)

var (
	ErrUnknownInstance = errors.New("pm2: unknown instance")
	ErrNotOnline       = errors.New("pm2: instance not online")
)

// Registry tracks supervised Ghosler instances across one tool
// invocation. Listings are cached in-process; every mutation forces the
// next read to refresh.
type Registry struct {
	client *Client
	runner tools.CommandRunner
	npmBin string
	settle time.Duration

	pinged bool
	cache  []Instance
}

// RegistryConfig carries the registry's collaborators and tuning.
type RegistryConfig struct {
	Client      *Client
	Runner      tools.CommandRunner
	NpmBin      string
	SettleDelay time.Duration
}

// NewRegistry constructs an instance registry over a supervisor client.
func NewRegistry(cfg RegistryConfig) *Registry {
	client := cfg.Client
	if client == nil {
		client = NewClient("", cfg.Runner)
	}
	runner := cfg.Runner
	if runner == nil {
		runner = tools.ExecRunner{}
	}
	npmBin := strings.TrimSpace(cfg.NpmBin)
	if npmBin == "" {
		npmBin = "npm"
	}
	return &Registry{
		client: client,
		runner: runner,
		npmBin: npmBin,
		settle: cfg.SettleDelay,
	}
}

// Instances returns the supervised instances, from cache when one is
// held and forceRefresh is false. The supervisor is pinged once per
// invocation before the first listing; an empty listing is not an error.
func (r *Registry) Instances(forceRefresh bool) ([]Instance, error) {
	if !forceRefresh && len(r.cache) > 0 {
		return r.cache, nil
	}
	if !r.pinged {
		if err := r.client.Ping(); err != nil {
			return nil, err
		}
		r.pinged = true
	}
	list, err := r.client.List()
	if err != nil {
		return nil, err
	}
	r.cache = list
	return list, nil
}

// Get resolves one instance by name.
func (r *Registry) Get(name string, forceRefresh bool) (Instance, bool, error) {
	list, err := r.Instances(forceRefresh)
	if err != nil {
		return Instance{}, false, err
	}
	target := strings.TrimSpace(name)
	for _, inst := range list {
		if inst.Name == target {
			return inst, true, nil
		}
	}
	return Instance{}, false, nil
}

// HasMultiple reports whether more than one instance is registered.
func (r *Registry) HasMultiple() (bool, error) {
	list, err := r.Instances(false)
	if err != nil {
		return false, err
	}
	return len(list) > 1, nil
}

// UniqueName returns base when neither base nor any base-<n> sibling is
// registered; otherwise base-(M+1) where M is the highest suffix in use
// (plain base counts as 1). Suffixes freed by uninstalls are never
// reused, so the sequence only moves forward.
func (r *Registry) UniqueName(base string) (string, error) {
	list, err := r.Instances(true)
	if err != nil {
		return "", err
	}

	resolved := strings.TrimSpace(base)
	seen := false
	maxSuffix := 0
	for _, inst := range list {
		if inst.Name == resolved {
			seen = true
			if maxSuffix < 1 {
				maxSuffix = 1
			}
			continue
		}
		rest, ok := strings.CutPrefix(inst.Name, resolved+"-")
		if !ok {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 {
			continue
		}
		seen = true
		if n > maxSuffix {
			maxSuffix = n
		}
	}
	if !seen {
		return resolved, nil
	}
	return fmt.Sprintf("%s-%d", resolved, maxSuffix+1), nil
}

// Register starts a new instance from dir and verifies it settles
// Online.
func (r *Registry) Register(branch string, name string, dir string) error {
	if err := r.client.Start(name, dir, branch); err != nil {
		return err
	}
	return r.awaitOnline(name)
}

// Restart restarts an instance, optionally stopping it first to
// reinstall production dependencies in its directory.
func (r *Registry) Restart(name string, reinstallDeps bool) error {
	if reinstallDeps {
		inst, ok, err := r.Get(name, true)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownInstance, name)
		}
		if err := r.client.Stop(name); err != nil {
			return err
		}
		if err := r.npmInstall(inst.Path); err != nil {
			return err
		}
	}
	if err := r.client.Restart(name); err != nil {
		return err
	}
	return r.awaitOnline(name)
}

// Deregister removes an instance from supervision and returns the
// directory it ran from. ok=false when the name is not registered.
func (r *Registry) Deregister(name string) (string, bool, error) {
	inst, ok, err := r.Get(name, true)
	if err != nil {
		return "", false, err
	}
	if !ok {
		return "", false, nil
	}
	if err := r.client.Delete(name); err != nil {
		return "", false, err
	}
	r.cache = nil
	return inst.Path, true, nil
}

// Flush truncates an instance's supervised log files.
func (r *Registry) Flush(name string) error {
	return r.client.Flush(name)
}

// Logs returns recent supervised log output for one instance.
func (r *Registry) Logs(name string, stream string, lines int) (string, error) {
	return r.client.Logs(name, stream, lines)
}

// awaitOnline waits out the settle delay, then reads the instance
// status exactly once. Processes that crash shortly after launch show
// up here instead of racing the listing.
func (r *Registry) awaitOnline(name string) error {
	if r.settle > 0 {
		log.Debug().Dur("settle", r.settle).Str("name", name).Msg("waiting for process to settle")
		time.Sleep(r.settle)
	}
	inst, ok, err := r.Get(name, true)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownInstance, name)
	}
	if inst.Status != StatusOnline {
		return fmt.Errorf("%w: %s reported %s", ErrNotOnline, name, inst.Status)
	}
	return nil
}

func (r *Registry) npmInstall(dir string) error {
	log.Info().Str("dir", dir).Msg("reinstalling production dependencies")
	stdout, stderr, exitCode, err := r.runner.RunDir(dir, r.npmBin, "install", "--omit=dev")
	if err != nil {
		return fmt.Errorf(
			"npm install failed cmd=%s exit=%d stdout=%q stderr=%q: %w",
			r.npmBin,
			exitCode,
			strings.TrimSpace(string(stdout)),
			strings.TrimSpace(string(stderr)),
			err,
		)
	}
	return nil
}
