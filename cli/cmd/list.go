package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/fenceline-io/fenceline/classify"
	"github.com/fenceline-io/fenceline/cli/render"
	"github.com/fenceline-io/fenceline/extract"
	"github.com/fenceline-io/fenceline/types"
)

// ListCommand returns the list command. List extracts and classifies
// without executing anything, so authors can preview what run would do.
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "Extract and classify code blocks without executing them",
		ArgsUsage: "[root]",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "language",
				Aliases: []string{"l"},
				Usage:   "Only show blocks of this language",
			},
			&cli.StringFlag{
				Name:  "class",
				Usage: "Only show blocks of this class: runnable, fragment, transcript, prose-illustration",
			},
		}, OutputFlags()...),
		Action: listAction,
	}
}

func listAction(c *cli.Context) error {
	if c.Bool("tui") {
		return cli.Exit("--tui is not supported for list (use inspect)", 1)
	}

	root := c.Args().First()
	if root == "" {
		root = "."
	}

	renderer, err := render.NewRenderer(c)
	if err != nil {
		return err
	}

	scan, err := extract.ScanDir(root)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	langFilter := ""
	if lang := c.String("language"); lang != "" {
		langFilter = classify.Canonical(lang)
	}
	classFilter := types.Classification(c.String("class"))

	var blocks []types.ClassifiedBlock
	for _, doc := range scan.Documents {
		for _, cb := range classify.ClassifyAll(doc.Blocks) {
			if langFilter != "" && classify.Canonical(cb.Language) != langFilter {
				continue
			}
			if classFilter != "" && cb.Class != classFilter {
				continue
			}
			blocks = append(blocks, cb)
		}
	}

	if err := renderer.RenderBlocks(blocks); err != nil {
		return err
	}

	for _, malformed := range scan.Malformed {
		fmt.Fprintf(c.App.ErrWriter, "warning: %v\n", malformed)
	}
	return nil
}
