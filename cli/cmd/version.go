package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/fenceline-io/fenceline/cli/render"
	"github.com/fenceline-io/fenceline/types"
)

// VersionCommand returns the version command.
func VersionCommand(commit string) *cli.Command {
	return &cli.Command{
		Name:   "version",
		Usage:  "Show version information",
		Flags:  OutputFlags(),
		Action: versionAction(commit),
	}
}

func versionAction(commit string) cli.ActionFunc {
	return func(c *cli.Context) error {
		if c.Bool("tui") {
			return cli.Exit("--tui is not supported for version", 2)
		}

		r, err := render.NewRenderer(c)
		if err != nil {
			return cli.Exit(err.Error(), 2)
		}

		return r.RenderVersion(render.VersionInfo{
			Version: types.Version,
			Commit:  commit,
		})
	}
}
