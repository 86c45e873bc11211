package main

import (
	"context"
	"encoding/json"
	"flag"

	"github.com/google/subcommands"

	"github.com/unitrack/unitrack/version"
)

type versionCmd struct {
	app     *app
	jsonOut bool
}

func (*versionCmd) Name() string { return "version" }
func (*versionCmd) Synopsis() string { return "print build information" }
func (*versionCmd) Usage() string { return "version [-json]\n" }

func (c *versionCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.jsonOut, "json", false, "print as JSON")
}

func (c *versionCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	info := version.Get()
	if !c.jsonOut {
		c.app.printf("%s\n", info.String())
		return subcommands.ExitSuccess
	}
	enc := json.NewEncoder(c.app.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(info); err != nil {
		return c.app.fail(err)
	}
	return subcommands.ExitSuccess
}
