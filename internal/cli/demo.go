package cli

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/spf13/cobra"

	"github.com/roach88/cyphergen/internal/recipe"
)

//go:embed demos/*.yaml
var demoFS embed.FS

// DemoQuery is one rendered demo recipe.
type DemoQuery struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Cypher      string `json:"cypher"`
}

// NewDemoCommand creates the demo command.
func NewDemoCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Print a few sample queries",
		Long: `Build the bundled sample recipes and print their Cypher text.
The samples cover node creation, undirected and directed relationships,
and a tenant query joined with UNION.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(rootOpts, cmd)
		},
	}

	return cmd
}

func runDemo(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	queries, err := buildDemos(newRunner(opts))
	if err != nil {
		return reportError(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(queries)
	}

	for i, q := range queries {
		if i > 0 {
			fmt.Fprintln(formatter.Writer)
		}
		fmt.Fprintf(formatter.Writer, "// %s\n%s\n", q.Description, q.Cypher)
	}
	return nil
}

// buildDemos renders every embedded recipe in file name order.
func buildDemos(runner *recipe.Runner) ([]DemoQuery, error) {
	names, err := fs.Glob(demoFS, "demos/*.yaml")
	if err != nil {
		return nil, err
	}

	queries := make([]DemoQuery, 0, len(names))
	for _, name := range names {
		data, err := demoFS.ReadFile(name)
		if err != nil {
			return nil, err
		}
		rec, err := recipe.Parse(path.Base(name), data)
		if err != nil {
			return nil, err
		}
		res, err := runner.Build(rec, nil)
		if err != nil {
			return nil, err
		}
		queries = append(queries, DemoQuery{
			Name:        rec.Name,
			Description: rec.Description,
			Cypher:      res.Cypher,
		})
	}
	return queries, nil
}
