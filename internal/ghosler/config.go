package ghosler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
)

var ErrConfigNotFound = errors.New("ghosler: configuration not found")

const maxPortProbes = 100

// Identity carries the managed fields written into the application
// section of an instance configuration.
type Identity struct {
	Branch      string
	Name        string
	ChangePort  bool
	DefaultPort int

	// Migration restricts the rewrite to backfilling absent fields and
	// leaves the port alone.
	Migration bool
}

// AppSettings is the application section as currently on disk.
type AppSettings struct {
	Branch   string
	Instance string
	Port     int
}

// configCandidates returns the config paths in read order: the nested
// current layout first, then the legacy flat file.
func configCandidates(dir string) []string {
	return []string{
		filepath.Join(dir, ConfigDirName, ConfigFileName),
		filepath.Join(dir, ConfigFileName),
	}
}

// configWritePath returns the one location rewrites land at, regardless
// of which candidate was read.
func configWritePath(dir string) string {
	return filepath.Join(dir, ConfigFileName)
}

// ReadAppSettings returns the managed application fields currently on
// disk. ok=false when no configuration candidate loads.
func ReadAppSettings(dir string) (AppSettings, bool) {
	doc, ok := readConfigDoc(dir)
	if !ok {
		return AppSettings{}, false
	}
	var out AppSettings
	app, _ := doc[AppSection].(map[string]any)
	if branch, ok := app["branch"].(string); ok {
		out.Branch = strings.TrimSpace(branch)
	}
	if name, ok := app["instance"].(string); ok {
		out.Instance = strings.TrimSpace(name)
	}
	if port, ok := app["port"].(float64); ok {
		out.Port = int(port)
	}
	return out, true
}

// ApplyIdentity rewrites the managed fields of the instance
// configuration and reports whether the document changed. Unknown keys
// anywhere in the document survive the rewrite.
func ApplyIdentity(dir string, id Identity) (bool, error) {
	doc, ok := readConfigDoc(dir)
	if !ok {
		return false, fmt.Errorf("%w: no candidate under %s", ErrConfigNotFound, dir)
	}

	app, _ := doc[AppSection].(map[string]any)
	if app == nil {
		app = map[string]any{}
	}

	changed := false
	if id.Migration {
		if _, present := app["branch"]; !present && strings.TrimSpace(id.Branch) != "" {
			app["branch"] = strings.TrimSpace(id.Branch)
			changed = true
		}
		if _, present := app["instance"]; !present && strings.TrimSpace(id.Name) != "" {
			app["instance"] = strings.TrimSpace(id.Name)
			changed = true
		}
	} else {
		branch := strings.TrimSpace(id.Branch)
		if prev, _ := app["branch"].(string); prev != branch {
			app["branch"] = branch
			changed = true
		}
		name := strings.TrimSpace(id.Name)
		if prev, _ := app["instance"].(string); prev != name {
			app["instance"] = name
			changed = true
		}
		if id.ChangePort {
			port, err := freePort(id.DefaultPort)
			if err != nil {
				return false, err
			}
			if prev, _ := app["port"].(float64); int(prev) != port {
				app["port"] = port
				changed = true
			}
		}
	}
	if !changed {
		return false, nil
	}

	doc[AppSection] = app
	if err := writeConfigDoc(dir, doc); err != nil {
		return false, err
	}
	return true, nil
}

// RelocateConfig moves the legacy flat config file into the nested
// configuration directory. No-op when the source is absent or the
// nested file already exists; the source is never deleted on a skip.
func RelocateConfig(dir string) (bool, error) {
	src := filepath.Join(dir, ConfigFileName)
	dstDir := filepath.Join(dir, ConfigDirName)
	dst := filepath.Join(dstDir, ConfigFileName)

	if _, err := os.Stat(dst); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	if _, err := os.Stat(src); errors.Is(err, os.ErrNotExist) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return false, err
	}
	if err := os.Rename(src, dst); err != nil {
		return false, err
	}
	return true, nil
}

// readConfigDoc loads the first candidate that exists and parses.
// Unparseable candidates are skipped so a corrupt nested file does not
// mask a healthy legacy one.
func readConfigDoc(dir string) (map[string]any, bool) {
	for _, path := range configCandidates(dir) {
		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var doc map[string]any
		if err := json.Unmarshal(raw, &doc); err != nil {
			continue
		}
		return doc, true
	}
	return nil, false
}

func writeConfigDoc(dir string, doc map[string]any) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("ghosler: encode configuration: %w", err)
	}
	raw = append(raw, '\n')
	if err := os.WriteFile(configWritePath(dir), raw, 0o644); err != nil {
		return fmt.Errorf("ghosler: write configuration: %w", err)
	}
	return nil
}

// freePort probes TCP ports upward from start and returns the first one
// that accepts a listener.
func freePort(start int) (int, error) {
	for port := start; port < start+maxPortProbes; port++ {
		ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
		if err != nil {
			continue
		}
		ln.Close()
		return port, nil
	}
	return 0, fmt.Errorf("ghosler: no free port in %d-%d", start, start+maxPortProbes-1)
}
