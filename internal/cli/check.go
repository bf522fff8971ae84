package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/trisieve/pkg/errors"
	"github.com/matzehuels/trisieve/pkg/graph6"
	"github.com/matzehuels/trisieve/pkg/predicate"
)

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	var cfg predicate.Config

	cmd := &cobra.Command{
		Use:   "check <graph6>...",
		Short: "Explain each predicate's verdict for individual graphs",
		Long: `Check evaluates every predicate on each graph without stopping at the
first failure and prints the witness for each failing one: the twin pair, the
edge that could be added without a triangle, the triangle, the independent
set with no common neighbor, or the sets with no extension witness.

Pass "-" to read graph6 lines from stdin.`,
		Example: `  trisieve check 'Dhc'
  trisieve check --check-triangles 'Bw' 'Ch'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errs.ValidateExtension(cfg.Extension); err != nil {
				return err
			}
			if err := errs.ValidateCommonNeighbor(cfg.CommonNeighbor); err != nil {
				return err
			}
			lines, err := c.checkInputs(args)
			if err != nil {
				return err
			}
			for i, line := range lines {
				if i > 0 {
					printNewline()
				}
				if err := checkOne(line, cfg); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&cfg.CheckTriangles, "check-triangles", false, "also check triangle-freeness")
	cmd.Flags().IntVar(&cfg.CommonNeighbor, "common-neighbor", 0, "also check that independent sets up to this size share a neighbor")
	cmd.Flags().IntVar(&cfg.Extension, "extension", 0, "also check the k-extension property")
	return cmd
}

// checkInputs expands "-" into the non-blank lines of stdin.
func (c *CLI) checkInputs(args []string) ([]string, error) {
	var lines []string
	for _, arg := range args {
		if arg != "-" {
			lines = append(lines, arg)
			continue
		}
		sc := bufio.NewScanner(c.Stdin)
		sc.Buffer(nil, graph6.MaxLineBytes)
		for sc.Scan() {
			if line := strings.TrimSpace(sc.Text()); line != "" {
				lines = append(lines, line)
			}
		}
		if err := sc.Err(); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "read stdin")
		}
	}
	return lines, nil
}

func checkOne(line string, cfg predicate.Config) error {
	g, err := graph6.Decode(line)
	if err != nil {
		return fmt.Errorf("%q: %w", line, err)
	}
	defer g.Release()

	fmt.Println(StyleTitle.Render(line) + StyleDim.Render(fmt.Sprintf("  %d vertices, %d edges", g.Order(), g.EdgeCount())))
	accepted := true
	for _, v := range predicate.Explain(g, cfg) {
		if v.OK {
			printSuccess("%s", v.Name)
			continue
		}
		accepted = false
		printError("%s", v.Name)
		printDetail("%s", v.Witness)
	}
	if accepted {
		printKeyValue("verdict", StyleSuccess.Render("accepted"))
	} else {
		printKeyValue("verdict", StyleWarning.Render("rejected"))
	}
	return nil
}
