package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// FileSystem is the part of the OS the loader touches.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
	UserConfigDir() (string, error)
}

// OSFileSystem is the real FileSystem.
type OSFileSystem struct{}

func (OSFileSystem) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// LoadEnv loads a .env file. Variables already set in the environment win.
func (OSFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

func (OSFileSystem) UserConfigDir() (string, error) {
	return os.UserConfigDir()
}

// Resolver finds the config and .env files for an application.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles are the files that will be read. Empty means none.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles returns explicit paths when set, otherwise the first existing
// file from the search lists.
func (r *Resolver) ResolveFiles(appName string, lc LoaderConfig) ResolvedFiles {
	files := ResolvedFiles{ConfigFile: lc.ConfigFile, EnvFile: lc.EnvFile}
	if files.ConfigFile == "" {
		files.ConfigFile = r.first(r.configCandidates(appName))
	}
	if files.EnvFile == "" {
		files.EnvFile = r.first(r.envCandidates(appName))
	}
	return files
}

func (r *Resolver) configCandidates(appName string) []string {
	paths := []string{
		"./" + appName + ".yml",
		"./" + appName + ".yaml",
		"./config.yml",
	}
	if dir, err := r.FileSystem.UserConfigDir(); err == nil {
		paths = append(paths,
			filepath.Join(dir, appName, "config.yml"),
			filepath.Join(dir, appName, "config.yaml"),
		)
	}
	return paths
}

func (r *Resolver) envCandidates(appName string) []string {
	paths := []string{"./.env." + appName, "./.env"}
	if dir, err := r.FileSystem.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, appName, ".env"))
	}
	return paths
}

func (r *Resolver) first(paths []string) string {
	for _, p := range paths {
		if r.FileSystem.Exists(p) {
			return p
		}
	}
	return ""
}

// LoaderConfig holds loader dependencies and overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string
	EnvFile    string
	Defaults   map[string]any
	Environ    func() []string
}

// LoaderOption configures LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem replaces the OS file system.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile names the config file. A named file that does not exist is
// an error; a searched-for one is optional.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile names the .env file.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithDefaults sets values used when neither file nor environment has one.
// Keys are dotted paths such as "api.timeout".
func WithDefaults(defaults map[string]any) LoaderOption {
	return func(lc *LoaderConfig) { lc.Defaults = defaults }
}

// WithEnviron replaces os.Environ.
func WithEnviron(fn func() []string) LoaderOption {
	return func(lc *LoaderConfig) { lc.Environ = fn }
}

// LoadConfig fills cfg, a pointer to a struct with mapstructure tags, for the
// application appName. Environment variables are read with the upper-cased
// appName as prefix.
func LoadConfig(appName string, cfg any, opts ...LoaderOption) error {
	lc := LoaderConfig{FileSystem: OSFileSystem{}, Environ: os.Environ}
	for _, opt := range opts {
		opt(&lc)
	}
	explicit := lc.ConfigFile

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(appName, lc)

	v := viper.New()
	for k, val := range lc.Defaults {
		v.SetDefault(k, val)
	}

	if files.ConfigFile != "" {
		if !lc.FileSystem.Exists(files.ConfigFile) {
			if explicit != "" {
				return fmt.Errorf("config: file %s not found", explicit)
			}
		} else {
			v.SetConfigFile(files.ConfigFile)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("config: read %s: %w", files.ConfigFile, err)
			}
		}
	}

	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			return fmt.Errorf("config: load %s: %w", files.EnvFile, err)
		}
	}
	bindEnv(v, strings.ToUpper(appName)+"_", lc.Environ())

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("config: decode: %w", err)
	}
	return nil
}

// bindEnv maps PREFIX_A_B_C onto every dotted key it could mean (a.b.c,
// a.b_c, a_b.c, a_b_c). Viper ignores the variants no struct field matches.
func bindEnv(v *viper.Viper, prefix string, environ []string) {
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(key, prefix) {
			continue
		}
		for _, variant := range keyVariants(strings.TrimPrefix(key, prefix)) {
			v.Set(variant, value)
		}
	}
}

// keyVariants lists every way of joining the underscore-separated parts of
// an env key with either "." or "_".
func keyVariants(envKey string) []string {
	parts := strings.Split(strings.ToLower(envKey), "_")
	if len(parts) == 0 || parts[0] == "" {
		return nil
	}
	variants := []string{parts[0]}
	for _, p := range parts[1:] {
		next := make([]string, 0, len(variants)*2)
		for _, prefix := range variants {
			next = append(next, prefix+"."+p, prefix+"_"+p)
		}
		variants = next
	}
	return variants
}
