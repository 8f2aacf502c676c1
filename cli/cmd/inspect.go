package cmd

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/fenceline-io/fenceline/cli/render"
	"github.com/fenceline-io/fenceline/runtime"
)

// InspectCommand returns the inspect command. Inspect loads a
// previously written report and renders it, optionally as an
// interactive browser.
func InspectCommand() *cli.Command {
	return &cli.Command{
		Name:      "inspect",
		Usage:     "Load and browse a report written by run --report",
		ArgsUsage: "<report-file>",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:  "report-format",
				Usage: "Report encoding: json, yaml, msgpack (default: from path extension)",
			},
		}, OutputFlags()...),
		Action: inspectAction,
	}
}

func inspectAction(c *cli.Context) error {
	path := c.Args().First()
	if path == "" {
		return cli.Exit("inspect requires a report file argument", 1)
	}

	format := runtime.FormatFromPath(path)
	if formatStr := c.String("report-format"); formatStr != "" {
		parsed, err := runtime.ParseReportFormat(formatStr)
		if err != nil {
			return err
		}
		format = parsed
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("cannot read report %s: %w", path, err)
	}
	report, err := runtime.DecodeReport(data, format)
	if err != nil {
		return err
	}

	renderer, err := render.NewRenderer(c)
	if err != nil {
		return err
	}

	if c.Bool("tui") {
		return renderer.RenderReportTUI(report)
	}
	return renderer.RenderReport(report)
}
