package migrate

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/ghoslerctl/internal/pm2"
	"github.com/danmuck/ghoslerctl/internal/semver"
)

// Result reports one instance's migration outcome. Applied names the
// steps that changed something; Err carries the first failure.
type Result struct {
	Name    string
	Applied []string
	Err     error
}

// Runner applies the migration table to every registered instance.
type Runner struct {
	registry *pm2.Registry
	steps    []Step
	version  string
}

// NewRunner builds a driver for the given tool version.
func NewRunner(registry *pm2.Registry, toolVersion string) *Runner {
	return &Runner{
		registry: registry,
		steps:    Steps(),
		version:  semver.Normalize(toolVersion),
	}
}

// Run migrates every registered instance and returns one Result each.
// A failing instance never stops the rest; callers inspect the results
// for partial failure.
func (r *Runner) Run() ([]Result, error) {
	instances, err := r.registry.Instances(true)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(instances))
	for _, inst := range instances {
		results = append(results, r.migrateInstance(inst))
	}
	return results, nil
}

// migrateInstance applies every step the tool version meets, ascending,
// then restarts the instance once when any step changed it.
func (r *Runner) migrateInstance(inst pm2.Instance) Result {
	res := Result{Name: inst.Name}
	for _, step := range r.steps {
		if !semver.IsAtLeast(r.version, step.Version) {
			continue
		}
		changed, err := step.Apply(inst)
		if err != nil {
			res.Err = fmt.Errorf("step %q: %w", step.Name, err)
			return res
		}
		if changed {
			log.Info().Str("name", inst.Name).Str("step", step.Name).Msg("migration step applied")
			res.Applied = append(res.Applied, step.Name)
		}
	}
	if len(res.Applied) == 0 {
		return res
	}
	if err := r.registry.Restart(inst.Name, false); err != nil {
		res.Err = err
	}
	return res
}
