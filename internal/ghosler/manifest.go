package ghosler

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/danmuck/ghoslerctl/internal/semver"
)

// Manifest is the subset of an instance's package.json this tool reads.
type Manifest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Main    string `json:"main"`
}

// ReadManifest loads the package manifest under dir. ok=false when the
// manifest is absent or unparseable; a directory without one holds no
// installed instance.
func ReadManifest(dir string) (Manifest, bool) {
	raw, err := os.ReadFile(filepath.Join(dir, ManifestFileName))
	if err != nil {
		return Manifest{}, false
	}
	var m Manifest
	if err := json.Unmarshal(raw, &m); err != nil {
		return Manifest{}, false
	}
	m.Version = semver.Normalize(m.Version)
	return m, true
}
