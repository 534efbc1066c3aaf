package lifecycle

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/ghoslerctl/internal/archive"
	"github.com/danmuck/ghoslerctl/internal/pm2"
	"github.com/danmuck/ghoslerctl/internal/release"
)

type runResult struct {
	stdout   []byte
	stderr   []byte
	exitCode int32
	err      error
}

// fakeRunner scripts results per "<bin> <verb>" key and records every
// invocation. The last scripted result for a key repeats.
type fakeRunner struct {
	commands [][]string
	dirs     []string
	scripts  map[string][]runResult
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{scripts: map[string][]runResult{}}
}

func (r *fakeRunner) script(key string, res ...runResult) {
	r.scripts[key] = append(r.scripts[key], res...)
}

func (r *fakeRunner) Run(name string, args ...string) ([]byte, []byte, int32, error) {
	return r.RunDir("", name, args...)
}

func (r *fakeRunner) RunDir(dir string, name string, args ...string) ([]byte, []byte, int32, error) {
	cmd := []string{name}
	cmd = append(cmd, args...)
	r.commands = append(r.commands, cmd)
	r.dirs = append(r.dirs, dir)

	key := name
	if len(args) > 0 {
		key = name + " " + args[0]
	}
	queue := r.scripts[key]
	if len(queue) == 0 {
		return nil, nil, 0, nil
	}
	next := queue[0]
	if len(queue) > 1 {
		r.scripts[key] = queue[1:]
	}
	return next.stdout, next.stderr, next.exitCode, next.err
}

func (r *fakeRunner) countVerb(bin string, verb string) int {
	n := 0
	for _, cmd := range r.commands {
		if len(cmd) >= 2 && cmd[0] == bin && cmd[1] == verb {
			n++
		}
	}
	return n
}

func (r *fakeRunner) indexOfVerb(bin string, verb string) int {
	for i, cmd := range r.commands {
		if len(cmd) >= 2 && cmd[0] == bin && cmd[1] == verb {
			return i
		}
	}
	return -1
}

func jlistEntry(name string, pid int, status string, cwd string) string {
	return fmt.Sprintf(
		`{"pid":%d,"name":%q,"pm2_env":{"status":%q,"pm_cwd":%q,"args":["ghosler","release"]}}`,
		pid, name, status, cwd,
	)
}

func jlistResult(entries ...string) runResult {
	return runResult{stdout: []byte("[" + strings.Join(entries, ",") + "]")}
}

// fakeSource scripts the release endpoints and synthesizes real zip
// archives from the payload tree on demand.
type fakeSource struct {
	t       *testing.T
	latest  release.Release
	payload map[string]string
	topDir  string
	corrupt bool

	latestCalls   int
	downloadCalls int
	branchCalls   []string
}

func (f *fakeSource) LatestRelease(ctx context.Context) (release.Release, error) {
	f.latestCalls++
	if f.latest.Version == "" {
		return release.Release{}, errors.New("latest release not scripted")
	}
	return f.latest, nil
}

func (f *fakeSource) BranchArchive(branch string) release.Release {
	f.branchCalls = append(f.branchCalls, branch)
	return release.Release{Branch: branch, ArchiveURL: "https://example.test/zip/" + branch}
}

func (f *fakeSource) Download(ctx context.Context, url string) (string, error) {
	f.downloadCalls++
	if f.corrupt {
		path := filepath.Join(f.t.TempDir(), "corrupt.zip")
		if err := os.WriteFile(path, []byte("this is not a zip archive"), 0o644); err != nil {
			f.t.Fatalf("write corrupt archive: %v", err)
		}
		return path, nil
	}
	if f.payload == nil {
		return "", errors.New("download not scripted")
	}
	top := f.topDir
	if top == "" {
		top = "ghosler-ghosler-0a1b2c3"
	}
	stage := f.t.TempDir()
	writeTree(f.t, filepath.Join(stage, top), f.payload)
	path := filepath.Join(f.t.TempDir(), "payload.zip")
	if err := archive.Create(path, stage, nil); err != nil {
		f.t.Fatalf("build payload archive: %v", err)
	}
	return path, nil
}

func newTestService(source ReleaseSource, runner *fakeRunner) *Service {
	registry := pm2.NewRegistry(pm2.RegistryConfig{
		Client:      pm2.NewClient("pm2", runner),
		Runner:      runner,
		NpmBin:      "npm",
		SettleDelay: 0,
	})
	return NewService(ServiceConfig{Registry: registry, Source: source, DefaultPort: 2369})
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

func manifestJSON(version string) string {
	return fmt.Sprintf(`{"name":"ghosler","version":%q}`, version)
}

func releaseFor(version string) release.Release {
	return release.Release{Version: version, ArchiveURL: "https://example.test/zipball/" + version}
}

const seedConfig = `{"ghosler":{"branch":"release","instance":"ghosler-app","port":2369},"mail":{"host":"smtp.example.test"}}`

// seedInstance lays out an installed instance directory: application
// files next to operator data and installed dependencies.
func seedInstance(t *testing.T, version string) string {
	t.Helper()
	return seedInstanceWithConfig(t, version, seedConfig)
}

func seedInstanceWithConfig(t *testing.T, version string, config string) string {
	t.Helper()
	dir := t.TempDir()
	writeTree(t, dir, map[string]string{
		"package.json":            manifestJSON(version),
		"app.js":                  "console.log('boot');\n",
		"stale.js":                "superseded application file\n",
		"config.production.json":  config,
		"logs/ghosler.log":        "log line\n",
		"content/upload.png":      "image bytes\n",
		"node_modules/pkg/app.js": "module.exports = {};\n",
	})
	return dir
}

func zipNames(t *testing.T, path string) map[string]bool {
	t.Helper()
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open archive %s: %v", path, err)
	}
	defer zr.Close()
	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	return names
}
