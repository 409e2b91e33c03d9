package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/cyphergen/internal/recipe"
	"github.com/roach88/cyphergen/pkg/cypher"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Tenants []string
	Raw     bool
	Output  string
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <recipe>",
		Short: "Build a recipe and print the Cypher query",
		Long: `Build a YAML or CUE recipe and print the resulting Cypher text.

Tenants come from --tenant when given, otherwise from the recipe, otherwise
from the config file.

Example:
  cyphergen render ./recipes/find_user.yaml
  cyphergen render --tenant Acme --tenant Globex ./recipes/users.cue
  cyphergen render --raw -o query.cypher ./recipes/users.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Tenants, "tenant", nil, "tenant to scope the query to (repeatable)")
	cmd.Flags().BoolVar(&opts.Raw, "raw", false, "omit the runtime directive line from tenant queries")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "also write the query to this file")

	return cmd
}

func runRender(opts *RenderOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	rec, err := recipe.Load(path)
	if err != nil {
		return reportError(formatter, err)
	}
	formatter.VerboseLog("Loaded recipe %s (%d steps)", rec.Name, len(rec.Steps))

	if len(opts.Tenants) > 0 && rec.Kind() != recipe.EngineTenant {
		msg := fmt.Sprintf("--tenant requires a recipe with engine %q; %s uses %q", recipe.EngineTenant, rec.Name, rec.Kind())
		_ = formatter.Error(recipe.ErrCodeBadField, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	res, err := newRunner(opts.RootOptions).Build(rec, resolveTenants(opts.RootOptions, rec, opts.Tenants))
	if err != nil {
		return reportError(formatter, err)
	}

	text := res.Cypher
	if opts.Raw {
		text = res.Raw
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(text+"\n"), 0o644); err != nil {
			_ = formatter.Error(recipe.ErrCodeWriteFailed, fmt.Sprintf("failed to write %s: %v", opts.Output, err), nil)
			return WrapExitError(ExitCommandError, "failed to write output", err)
		}
		formatter.VerboseLog("Wrote %s", opts.Output)
	}

	if formatter.Format == "json" {
		return formatter.Success(res)
	}
	return formatter.Success(text)
}

// resolveTenants picks the tenants for a tenant recipe: flags first, then
// the recipe's own, then the configured defaults.
func resolveTenants(opts *RootOptions, rec *recipe.Recipe, flagTenants []string) []string {
	if len(flagTenants) > 0 {
		return flagTenants
	}
	if rec.Kind() != recipe.EngineTenant || len(rec.Tenants) > 0 {
		return nil
	}
	return opts.Config.Tenants
}

func newRunner(opts *RootOptions) *recipe.Runner {
	return recipe.NewRunner(
		recipe.WithLogger(opts.Logger),
		recipe.WithTenantConfig(opts.Config.TenantConfig()),
	)
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
		TraceID:   newTraceID(),
	}
}

// reportError writes err through the formatter and maps it to an exit code.
// Load failures are command errors; invalid recipes and builder errors are
// failures.
func reportError(formatter *OutputFormatter, err error) error {
	code, exit := classify(err)
	_ = formatter.Error(code, err.Error(), nil)
	return WrapExitError(exit, code, err)
}

func classify(err error) (string, int) {
	var le *recipe.LoadError
	if errors.As(err, &le) {
		if le.Code == recipe.ErrCodeNotFound || le.Code == recipe.ErrCodeGeneric {
			return le.Code, ExitCommandError
		}
		return le.Code, ExitFailure
	}
	var ve recipe.ValidationError
	if errors.As(err, &ve) {
		return ve.Code, ExitFailure
	}
	var be *cypher.BuildError
	if errors.As(err, &be) {
		return string(be.Code), ExitFailure
	}
	return recipe.ErrCodeGeneric, ExitFailure
}
