package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/cyphergen/internal/recipe"
)

// RecipeStatus is the validation outcome for one recipe file.
type RecipeStatus struct {
	Path    string `json:"path"`
	Name    string `json:"name,omitempty"`
	Valid   bool   `json:"valid"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool           `json:"valid"`
	Recipes []RecipeStatus `json:"recipes"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <recipe>...",
		Short: "Check that recipes load and build",
		Long: `Load each recipe, validate its steps and build it without printing
the query. Builder errors such as unknown aliases or tenancy violations
are reported the same way as schema errors.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	runner := newRunner(opts)

	result := ValidationResult{Valid: true}
	exit := ExitSuccess
	for _, path := range paths {
		formatter.VerboseLog("Validating %s", path)
		status := RecipeStatus{Path: path, Valid: true}

		rec, err := recipe.Load(path)
		if err == nil {
			status.Name = rec.Name
			_, err = runner.Build(rec, resolveTenants(opts, rec, nil))
		}
		if err != nil {
			code, e := classify(err)
			status.Valid = false
			status.Code = code
			status.Message = err.Error()
			result.Valid = false
			exit = max(exit, e)
		}
		result.Recipes = append(result.Recipes, status)
	}

	if result.Valid {
		return outputValidateSuccess(formatter, result)
	}
	return outputValidationErrors(formatter, result, exit)
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	for _, r := range result.Recipes {
		fmt.Fprintf(formatter.Writer, "✓ %s (%s)\n", r.Path, r.Name)
	}
	fmt.Fprintf(formatter.Writer, "✓ All %d recipe(s) valid\n", len(result.Recipes))
	return nil
}

// outputValidationErrors outputs per-recipe results with their errors.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult, exit int) error {
	failed := 0
	var first *RecipeStatus
	for i := range result.Recipes {
		if !result.Recipes[i].Valid {
			failed++
			if first == nil {
				first = &result.Recipes[i]
			}
		}
	}

	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    first.Code,
				Message: first.Message,
			},
			TraceID: formatter.TraceID,
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return NewExitError(exit, fmt.Sprintf("validation failed for %d recipe(s)", failed))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, r := range result.Recipes {
		if r.Valid {
			fmt.Fprintf(formatter.Writer, "✓ %s (%s)\n", r.Path, r.Name)
			continue
		}
		fmt.Fprintf(formatter.Writer, "✗ %s\n  %s: %s\n", r.Path, r.Code, r.Message)
	}

	return NewExitError(exit, fmt.Sprintf("validation failed for %d recipe(s)", failed))
}
