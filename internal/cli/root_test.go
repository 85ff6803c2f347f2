package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/matzehuels/pdext/pkg/buildinfo"
)

func restoreBuildinfo(t *testing.T) {
	old := [3]string{buildinfo.Version, buildinfo.Commit, buildinfo.Date}
	t.Cleanup(func() { buildinfo.Version, buildinfo.Commit, buildinfo.Date = old[0], old[1], old[2] })
}

func TestSetVersion(t *testing.T) {
	restoreBuildinfo(t)
	SetVersion("1.0.0", "abc123", "2024-01-01")

	if buildinfo.Version != "1.0.0" {
		t.Errorf("Version = %q, want %q", buildinfo.Version, "1.0.0")
	}
	if buildinfo.Commit != "abc123" {
		t.Errorf("Commit = %q, want %q", buildinfo.Commit, "abc123")
	}
	if buildinfo.Date != "2024-01-01" {
		t.Errorf("Date = %q, want %q", buildinfo.Date, "2024-01-01")
	}
}

func TestSetVersionEmptyKeepsDefaults(t *testing.T) {
	restoreBuildinfo(t)
	before := buildinfo.Version
	SetVersion("", "", "")

	if buildinfo.Version != before {
		t.Errorf("Version = %q, want unchanged %q", buildinfo.Version, before)
	}
}

func TestRootCommandVersion(t *testing.T) {
	isolate(t)
	restoreBuildinfo(t)
	SetVersion("v9.9.9", "", "")

	out, err := runCLI(t, "", "--version")
	if err != nil {
		t.Fatalf("--version: %v", err)
	}
	if !strings.Contains(out, "pdext version v9.9.9") {
		t.Errorf("--version output = %q", out)
	}
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	want := []string{"circle", "sphere", "stripes", "wedge", "calendar", "serve", "cache", "completion"}
	for _, name := range want {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestVerboseSetsDebugLevel(t *testing.T) {
	isolate(t)
	var logs bytes.Buffer
	c := New(&logs, LogInfo)
	root := c.RootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"-v", "cache", "path"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if c.Logger.GetLevel() != LogDebug {
		t.Errorf("level = %v, want debug", c.Logger.GetLevel())
	}
}
