package recipe

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"
)

// Engine kinds.
const (
	EngineBasic  = "basic"
	EngineTenant = "tenant"
)

// Recipe is a named query written as an ordered list of builder steps.
type Recipe struct {
	// Name identifies the recipe; it also names its golden file in tests.
	Name string `yaml:"name" json:"name"`

	Description string `yaml:"description,omitempty" json:"description,omitempty"`

	// Engine selects the builder: "basic" (default) or "tenant".
	Engine string `yaml:"engine,omitempty" json:"engine,omitempty"`

	// Tenants scope a tenant recipe. The CLI may override them.
	Tenants []string `yaml:"tenants,omitempty" json:"tenants,omitempty"`

	Steps []Step `yaml:"steps" json:"steps"`
}

// Kind returns the engine kind with the default applied.
func (r *Recipe) Kind() string {
	if r.Engine == "" {
		return EngineBasic
	}
	return r.Engine
}

// Step is one builder call. Op names the call in snake_case
// (match, node, relates, order_by, ...); the other fields are its arguments
// and only the ones the op reads may be set.
type Step struct {
	Op string `yaml:"op" json:"op"`

	Labels  []string `yaml:"labels,omitempty" json:"labels,omitempty"`
	Alias   string   `yaml:"alias,omitempty" json:"alias,omitempty"`
	Aliases []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`

	Property   string         `yaml:"property,omitempty" json:"property,omitempty"`
	Properties []PropertySpec `yaml:"properties,omitempty" json:"properties,omitempty"`
	Assign     []AssignSpec   `yaml:"assign,omitempty" json:"assign,omitempty"`

	Direction string     `yaml:"direction,omitempty" json:"direction,omitempty"`
	Types     []string   `yaml:"types,omitempty" json:"types,omitempty"`
	Range     *RangeSpec `yaml:"range,omitempty" json:"range,omitempty"`

	// Value operands. A value step sets exactly one of these.
	Value   *string   `yaml:"value,omitempty" json:"value,omitempty"`
	Quote   *string   `yaml:"quote,omitempty" json:"quote,omitempty"`
	Strings []string  `yaml:"strings,omitempty" json:"strings,omitempty"`
	Numbers []float64 `yaml:"numbers,omitempty" json:"numbers,omitempty"`

	Sorts     []SortSpec `yaml:"sorts,omitempty" json:"sorts,omitempty"`
	Procedure string     `yaml:"procedure,omitempty" json:"procedure,omitempty"`

	// conditional
	If       *bool   `yaml:"if,omitempty" json:"if,omitempty"`
	Then     []Step  `yaml:"then,omitempty" json:"then,omitempty"`
	Else     []Step  `yaml:"else,omitempty" json:"else,omitempty"`
	ThenText *string `yaml:"then_text,omitempty" json:"then_text,omitempty"`
	ElseText *string `yaml:"else_text,omitempty" json:"else_text,omitempty"`

	// call_query
	Query *Recipe `yaml:"query,omitempty" json:"query,omitempty"`
}

// PropertySpec is a property filter entry. Value is written verbatim.
type PropertySpec struct {
	Name  string `yaml:"name" json:"name"`
	Value string `yaml:"value" json:"value"`
}

// AssignSpec is one SET assignment: alias.name = value.
type AssignSpec struct {
	Alias string `yaml:"alias" json:"alias"`
	Name  string `yaml:"name" json:"name"`
	Value string `yaml:"value" json:"value"`
}

// RangeSpec is a variable-length hop range. Missing bounds stay open.
type RangeSpec struct {
	Min *int `yaml:"min,omitempty" json:"min,omitempty"`
	Max *int `yaml:"max,omitempty" json:"max,omitempty"`
}

// SortSpec orders by one property; ascending unless Desc.
type SortSpec struct {
	Property string `yaml:"property" json:"property"`
	Desc     bool   `yaml:"desc,omitempty" json:"desc,omitempty"`
}

// Error codes for recipe loading and validation.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeParseFailed = "E004" // YAML or CUE parse failed
	ErrCodeBuildFailed = "E006" // CUE evaluation failed
	ErrCodeWriteFailed = "E007" // Output file write error
	ErrCodeUnsupported = "E008" // Unsupported file extension

	ErrCodeMissingName  = "E201" // Recipe has no name
	ErrCodeBadEngine    = "E202" // Unknown engine kind
	ErrCodeNoSteps      = "E203" // Recipe has no steps
	ErrCodeUnknownOp    = "E204" // Step op not recognised
	ErrCodeMissingField = "E205" // Step lacks a required argument
	ErrCodeBadField     = "E206" // Step argument is malformed
)

// LoadError is returned when a recipe file cannot be read or parsed.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Load reads a recipe from a .yaml, .yml or .cue file and validates it.
// YAML decoding rejects unknown fields.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("recipe file not found: %s", path)}
		}
		return nil, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("failed to read recipe file: %v", err)}
	}

	return Parse(path, data)
}

// Parse decodes and validates recipe bytes. The decoder is chosen by the
// extension of name, which is also used in error positions.
func Parse(name string, data []byte) (*Recipe, error) {
	var (
		rec *Recipe
		err error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		rec, err = decodeYAML(data)
	case ".cue":
		rec, err = decodeCUE(name, data)
	default:
		return nil, &LoadError{Code: ErrCodeUnsupported, Message: fmt.Sprintf("unsupported recipe extension %q", filepath.Ext(name))}
	}
	if err != nil {
		return nil, err
	}

	if errs := Validate(rec); len(errs) > 0 {
		return nil, fmt.Errorf("invalid recipe %s: %w", name, errs[0])
	}
	return rec, nil
}

func decodeYAML(data []byte) (*Recipe, error) {
	var rec Recipe
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&rec); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("failed to parse YAML: %v", err)}
	}
	return &rec, nil
}

func decodeCUE(path string, data []byte) (*Recipe, error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return nil, cueLoadError(ErrCodeParseFailed, "compiling CUE", err)
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, cueLoadError(ErrCodeBuildFailed, "evaluating CUE", err)
	}

	var rec Recipe
	if err := value.Decode(&rec); err != nil {
		return nil, cueLoadError(ErrCodeBuildFailed, "decoding CUE", err)
	}
	return &rec, nil
}

func cueLoadError(code, what string, err error) *LoadError {
	le := &LoadError{Code: code, Message: fmt.Sprintf("%s: %v", what, err)}
	if errs := cueerrors.Errors(err); len(errs) > 0 {
		le.Pos = errs[0].Position()
	}
	return le
}
