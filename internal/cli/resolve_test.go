package cli

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/danmuck/ghoslerctl/internal/pm2"
	"github.com/danmuck/ghoslerctl/internal/testutil/testlog"
)

// listRunner serves a fixed jlist payload; every other command succeeds
// with empty output.
type listRunner struct {
	payload string
}

func (r listRunner) Run(name string, args ...string) ([]byte, []byte, int32, error) {
	return r.RunDir("", name, args...)
}

func (r listRunner) RunDir(dir string, name string, args ...string) ([]byte, []byte, int32, error) {
	if len(args) > 0 && args[0] == "jlist" {
		return []byte(r.payload), nil, 0, nil
	}
	return nil, nil, 0, nil
}

func registryWith(names ...string) *pm2.Registry {
	entries := make([]string, 0, len(names))
	for i, name := range names {
		entries = append(entries, fmt.Sprintf(
			`{"pid":%d,"name":%q,"pm2_env":{"status":"online","pm_cwd":"/srv/%s","args":["ghosler","release"]}}`,
			4000+i, name, name,
		))
	}
	runner := listRunner{payload: "[" + strings.Join(entries, ",") + "]"}
	return pm2.NewRegistry(pm2.RegistryConfig{
		Client: pm2.NewClient("pm2", runner),
		Runner: runner,
	})
}

func TestResolveNameExplicit(t *testing.T) {
	testlog.Start(t)
	registry := registryWith("ghosler-app", "ghosler-app-2")

	name, err := resolveName(registry, "ghosler-app-2")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if name != "ghosler-app-2" {
		t.Fatalf("resolved %q", name)
	}
}

func TestResolveNameExplicitUnknown(t *testing.T) {
	testlog.Start(t)
	registry := registryWith("ghosler-app")

	_, err := resolveName(registry, "ghosler-app-7")
	if !errors.Is(err, ErrUnknownInstance) {
		t.Fatalf("expected ErrUnknownInstance, got %v", err)
	}
}

func TestResolveNameSingleInstanceImplied(t *testing.T) {
	testlog.Start(t)
	registry := registryWith("ghosler-app")

	name, err := resolveName(registry, "")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if name != "ghosler-app" {
		t.Fatalf("resolved %q", name)
	}
}

func TestResolveNameMultipleNeedsChoice(t *testing.T) {
	testlog.Start(t)
	registry := registryWith("ghosler-app", "ghosler-app-2")

	_, err := resolveName(registry, "")
	if !errors.Is(err, ErrMultipleInstances) {
		t.Fatalf("expected ErrMultipleInstances, got %v", err)
	}
	if !strings.Contains(err.Error(), "ghoslerctl ls") {
		t.Fatalf("error does not direct to ls: %v", err)
	}
}

func TestResolveNameNoInstances(t *testing.T) {
	testlog.Start(t)
	registry := registryWith()

	_, err := resolveName(registry, "")
	if !errors.Is(err, ErrNoInstances) {
		t.Fatalf("expected ErrNoInstances, got %v", err)
	}
}
