package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"
)

// Set at build time with -ldflags "-X".
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// Info describes the running build.
type Info struct {
	Version   string    `json:"version"`
	GitCommit string    `json:"gitCommit,omitempty"`
	GoVersion string    `json:"goVersion"`
	BuildDate time.Time `json:"buildDate,omitzero"`
	IsRelease bool      `json:"isRelease"`
	IsDirty   bool      `json:"isDirty"`
}

// Get returns the build information, filling gaps from the module's
// embedded VCS settings.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		IsRelease: Version != "dev" && !strings.Contains(Version, "dirty"),
	}
	if BuildTime != "" {
		if t, err := time.Parse(time.RFC3339, BuildTime); err == nil {
			info.BuildDate = t
		}
	}

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = buildInfo.GoVersion
	for _, setting := range buildInfo.Settings {
		switch setting.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = setting.Value
			}
		case "vcs.modified":
			info.IsDirty = setting.Value == "true"
		case "vcs.time":
			if info.BuildDate.IsZero() {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					info.BuildDate = t
				}
			}
		}
	}
	if len(info.GitCommit) > 7 {
		info.GitCommit = info.GitCommit[:7]
	}
	return info
}

// Short returns the bare version, as sent in the User-Agent header.
func Short() string {
	return Version
}

// String returns a detailed one-line description of the build.
func (i Info) String() string {
	parts := []string{i.Version}
	if i.GitCommit != "" {
		parts = append(parts, i.GitCommit)
	}
	if i.IsDirty {
		parts = append(parts, "dirty")
	}
	s := strings.Join(parts, "-")
	if !i.BuildDate.IsZero() {
		s += fmt.Sprintf(" (built %s)", i.BuildDate.UTC().Format("2006-01-02T15:04:05Z"))
	}
	if i.GoVersion != "" {
		s += " " + i.GoVersion
	}
	return s
}
