package lifecycle

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/danmuck/ghoslerctl/internal/pm2"
	"github.com/danmuck/ghoslerctl/internal/testutil/testlog"
)

func TestUninstallDeregistersThenRemovesFiles(t *testing.T) {
	testlog.Start(t)
	dir := seedInstance(t, "1.0.90")
	runner := newFakeRunner()
	runner.script("pm2 jlist", jlistResult(jlistEntry("ghosler-app", 4021, "online", dir)))
	svc := newTestService(&fakeSource{t: t}, runner)

	got, err := svc.Uninstall("ghosler-app")
	if err != nil {
		t.Fatalf("uninstall: %v", err)
	}
	if !got.FilesRemoved || got.Path != dir {
		t.Fatalf("unexpected result: %+v", got)
	}
	if runner.countVerb("pm2", "delete") != 1 {
		t.Fatalf("expected one delete call: %q", runner.commands)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("instance directory itself removed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("directory contents survived: %d entries", len(entries))
	}
}

func TestUninstallUnknownInstance(t *testing.T) {
	testlog.Start(t)
	runner := newFakeRunner()
	runner.script("pm2 jlist", jlistResult())
	svc := newTestService(&fakeSource{t: t}, runner)

	_, err := svc.Uninstall("ghosler-app")
	if !errors.Is(err, pm2.ErrUnknownInstance) {
		t.Fatalf("expected ErrUnknownInstance, got %v", err)
	}
	if runner.countVerb("pm2", "delete") != 0 {
		t.Fatalf("delete issued for unknown instance")
	}
}

func TestUninstallMissingDirSkipsRemoval(t *testing.T) {
	testlog.Start(t)
	gone := filepath.Join(t.TempDir(), "gone")
	runner := newFakeRunner()
	runner.script("pm2 jlist", jlistResult(jlistEntry("ghosler-app", 4021, "online", gone)))
	svc := newTestService(&fakeSource{t: t}, runner)

	got, err := svc.Uninstall("ghosler-app")
	if err != nil {
		t.Fatalf("uninstall: %v", err)
	}
	if got.FilesRemoved {
		t.Fatalf("claimed removal of a missing directory: %+v", got)
	}
	if runner.countVerb("pm2", "delete") != 1 {
		t.Fatalf("supervisor entry not removed: %q", runner.commands)
	}
}

func TestUninstallNoRecordedDirSkipsRemoval(t *testing.T) {
	testlog.Start(t)
	runner := newFakeRunner()
	runner.script("pm2 jlist", jlistResult(jlistEntry("ghosler-app", 4021, "online", "")))
	svc := newTestService(&fakeSource{t: t}, runner)

	got, err := svc.Uninstall("ghosler-app")
	if err != nil {
		t.Fatalf("uninstall: %v", err)
	}
	if got.FilesRemoved || got.Path != "" {
		t.Fatalf("unexpected result: %+v", got)
	}
}
