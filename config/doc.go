// Package config loads the CLI configuration.
//
// Values come, lowest precedence first, from built-in defaults, a YAML file,
// a .env file and the process environment. Environment variables carry the
// application prefix and use underscores for nesting, so
// UNITRACK_API_BASE_URL sets api.base_url.
//
//	var cfg config.App
//	err := config.LoadConfig("unitrack", &cfg, config.WithDefaults(config.AppDefaults()))
//
// The file is searched for in ./unitrack.yml, ./config.yml and
// <user config dir>/unitrack/config.yml unless WithConfigFile names one.
package config
