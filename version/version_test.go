package version

import (
	"strings"
	"testing"
	"time"
)

func saveAndRestore() func() {
	origVersion, origCommit, origBuildTime := Version, GitCommit, BuildTime
	return func() {
		Version = origVersion
		GitCommit = origCommit
		BuildTime = origBuildTime
	}
}

func TestGet_Defaults(t *testing.T) {
	defer saveAndRestore()()
	Version = "dev"
	GitCommit = ""
	BuildTime = ""

	info := Get()
	if info.Version != "dev" {
		t.Errorf("expected version 'dev', got %q", info.Version)
	}
	if info.IsRelease {
		t.Error("dev should not be a release")
	}
}

func TestGet_LdflagsWin(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.4.0"
	GitCommit = "abc1234def"
	BuildTime = "2026-01-15T10:30:00Z"

	info := Get()
	if !info.IsRelease {
		t.Error("1.4.0 should be a release")
	}
	if info.GitCommit != "abc1234" {
		t.Errorf("expected commit truncated to abc1234, got %q", info.GitCommit)
	}
	want := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	if !info.BuildDate.Equal(want) {
		t.Errorf("expected build date %v, got %v", want, info.BuildDate)
	}
}

func TestGet_DirtyIsNotRelease(t *testing.T) {
	defer saveAndRestore()()
	Version = "1.4.0-dirty"
	if Get().IsRelease {
		t.Error("dirty build should not be a release")
	}
}

func TestShort(t *testing.T) {
	defer saveAndRestore()()
	Version = "2.0.1"
	if got := Short(); got != "2.0.1" {
		t.Errorf("expected 2.0.1, got %q", got)
	}
}

func TestInfo_String(t *testing.T) {
	info := Info{
		Version:   "1.0.0",
		GitCommit: "abc1234",
		IsDirty:   true,
		BuildDate: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		GoVersion: "go1.25.0",
	}
	s := info.String()
	for _, want := range []string{"1.0.0-abc1234-dirty", "built 2026-03-01T12:00:00Z", "go1.25.0"} {
		if !strings.Contains(s, want) {
			t.Errorf("expected %q in %q", want, s)
		}
	}
	if got := (Info{Version: "dev"}).String(); got != "dev" {
		t.Errorf("expected bare dev, got %q", got)
	}
}
