package migrate

import (
	"github.com/danmuck/ghoslerctl/internal/ghosler"
	"github.com/danmuck/ghoslerctl/internal/pm2"
	"github.com/danmuck/ghoslerctl/internal/semver"
)

// Step is one versioned fleet change. Apply reports whether it changed
// anything for the instance; a step that finds its work already done
// returns false.
type Step struct {
	Version string
	Name    string
	Apply   func(inst pm2.Instance) (bool, error)
}

// Steps returns the migration table in ascending version order.
func Steps() []Step {
	return []Step{
		{
			Version: "1.0.84",
			Name:    "config identity backfill",
			Apply: func(inst pm2.Instance) (bool, error) {
				return ghosler.ApplyIdentity(inst.Path, ghosler.Identity{
					Branch:    ghosler.DefaultBranch,
					Name:      inst.Name,
					Migration: true,
				})
			},
		},
		{
			Version: "1.0.88",
			Name:    "config relocation",
			Apply: func(inst pm2.Instance) (bool, error) {
				// The nested location is only read from 1.0.88 on; moving
				// the config out from under an older app would break it.
				m, ok := ghosler.ReadManifest(inst.Path)
				if !ok || !semver.IsAtLeast(m.Version, "1.0.88") {
					return false, nil
				}
				return ghosler.RelocateConfig(inst.Path)
			},
		},
	}
}
