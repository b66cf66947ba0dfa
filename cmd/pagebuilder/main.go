package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/pagebuilder/cmd/pagebuilder/commands"
	"git.home.luguber.info/inful/pagebuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pagebuilder/internal/version"
)

func main() {
	cli := &commands.CLI{}
	ctx := kong.Parse(cli,
		kong.Name("pagebuilder"),
		kong.Description("Render page configs from HTML template sets into a static output tree."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	if err := ctx.Run(cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
	}
}
