package main

import (
	"context"
	"maps"

	"github.com/alecthomas/kong"
	"github.com/wolfeidau/tenantpress/cmd/server/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Debug   bool            `help:"Enable debug mode." env:"TENANTPRESS_DEBUG"`
		Config  kong.ConfigFlag `help:"Load flag values from a YAML file."`
		Version kong.VersionFlag
		Serve   commands.ServeCmd   `cmd:"" default:"withargs" help:"Start the publishing server (tenant pages + API)"`
		Migrate commands.MigrateCmd `cmd:"" help:"Apply PostgreSQL schema migrations"`
	}
)

func main() {
	ctx := context.Background()

	vars := kong.Vars{
		"version": version,
	}
	maps.Copy(vars, commands.ServeVars())

	cmd := kong.Parse(&cli,
		kong.Name("tenantpress"),
		kong.Description("Multi-tenant publishing platform."),
		kong.Configuration(commands.YAMLConfig),
		vars,
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Version: version})
	cmd.FatalIfErrorf(err)
}
