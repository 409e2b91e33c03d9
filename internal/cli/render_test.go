package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/cyphergen/internal/recipe"
)

const directive = "CYPHER runtime=slotted\n"

// writeRecipe writes body to a temp recipe file named name.
func writeRecipe(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRender_Text(t *testing.T) {
	for _, name := range []string{"find_user", "merge_person", "tenant_union"} {
		t.Run(name, func(t *testing.T) {
			stdout, _, err := execute(t, "render", fixture(name+".yaml"))
			require.NoError(t, err)
			assert.Equal(t, golden(t, name)+"\n", stdout)
		})
	}
}

func TestRender_CUE(t *testing.T) {
	stdout, _, err := execute(t, "render", fixture("audited_user.cue"))
	require.NoError(t, err)
	assert.Equal(t, golden(t, "audited_user")+"\n", stdout)
}

func TestRender_JSON(t *testing.T) {
	stdout, _, err := execute(t, "--format", "json", "render", fixture("tenant_union.yaml"))
	require.NoError(t, err)

	var resp struct {
		Status  string        `json:"status"`
		Data    recipe.Result `json:"data"`
		TraceID string        `json:"trace_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))

	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.TraceID)
	assert.Equal(t, "tenant_union", resp.Data.Name)
	assert.Equal(t, recipe.EngineTenant, resp.Data.Engine)
	assert.Equal(t, []string{"`Test`", "`Test1`"}, resp.Data.Tenants)
	assert.Equal(t, golden(t, "tenant_union"), resp.Data.Cypher)
	assert.Equal(t, strings.TrimPrefix(resp.Data.Cypher, directive), resp.Data.Raw)
}

func TestRender_TenantFlag(t *testing.T) {
	stdout, _, err := execute(t, "render", "--tenant", "Solo", fixture("tenant_union.yaml"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(stdout, directive+"MATCH (n0:Elements:`Solo`:User"))
	assert.NotContains(t, stdout, "UNION")
	assert.NotContains(t, stdout, "`Test`")
}

func TestRender_TenantFlagOnBasicRecipe(t *testing.T) {
	stdout, _, err := execute(t, "render", "--tenant", "Solo", fixture("find_user.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "Error ["+recipe.ErrCodeBadField+"]")
	assert.Contains(t, stdout, `engine "tenant"`)
	assert.NotContains(t, stdout, "MATCH")
}

func TestRender_Raw(t *testing.T) {
	stdout, _, err := execute(t, "render", "--raw", fixture("tenant_union.yaml"))
	require.NoError(t, err)
	assert.Equal(t, strings.TrimPrefix(golden(t, "tenant_union"), directive)+"\n", stdout)
}

func TestRender_OutputFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "query.cypher")

	stdout, _, err := execute(t, "render", "-o", out, fixture("find_user.yaml"))
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, golden(t, "find_user")+"\n", string(data))
	assert.Equal(t, string(data), stdout)
}

func TestRender_OutputFileUnwritable(t *testing.T) {
	out := filepath.Join(t.TempDir(), "missing", "query.cypher")

	stdout, _, err := execute(t, "render", "-o", out, fixture("find_user.yaml"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E007]")
}

func TestRender_MissingFile(t *testing.T) {
	stdout, _, err := execute(t, "render", "/nonexistent/recipe.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stdout, "Error [E005]")
	assert.Contains(t, stdout, "not found")
}

func TestRender_MissingFileJSON(t *testing.T) {
	stdout, _, err := execute(t, "--format", "json", "render", "/nonexistent/recipe.yaml")
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, recipe.ErrCodeNotFound, resp.Error.Code)
}

func TestRender_BuildErrors(t *testing.T) {
	testCases := []struct {
		name string
		body string
		code string
	}{
		{
			name: "unknown alias",
			body: `
name: unknown_alias
steps:
  - op: match
  - op: node
    labels: [Person]
    alias: n0
  - op: where
  - op: declared_node
    alias: n
`,
			code: "UNKNOWN_ALIAS",
		},
		{
			name: "merge across tenants",
			body: `
name: ambiguous
engine: tenant
tenants: [a, b]
steps:
  - op: merge
  - op: node
    labels: [User]
`,
			code: "AMBIGUOUS_TENANCY",
		},
		{
			name: "tenant recipe without tenants",
			body: `
name: no_tenants
engine: tenant
steps:
  - op: match
  - op: node
    labels: [User]
`,
			code: "TENANCY_REQUIRED",
		},
		{
			name: "unknown op",
			body: `
name: bad_op
steps:
  - op: explode
`,
			code: recipe.ErrCodeUnknownOp,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeRecipe(t, "recipe.yaml", tc.body)

			stdout, _, err := execute(t, "render", path)
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
			assert.Contains(t, stdout, "Error ["+tc.code+"]")
		})
	}
}

func TestRender_ConfigTenants(t *testing.T) {
	cfg := writeRecipe(t, "cyphergen.yaml", `
housekeeping_label: Managed
tenants: [Acme, Globex]
`)
	path := writeRecipe(t, "users.yaml", `
name: users
engine: tenant
steps:
  - op: match
  - op: node
    labels: [User]
    alias: u
  - op: returns
    aliases: [u]
`)

	stdout, _, err := execute(t, "--config", cfg, "render", path)
	require.NoError(t, err)

	want := directive +
		"MATCH (u:Managed:`Acme`:User)\nRETURN u" +
		"\nUNION " +
		"MATCH (u:Managed:`Globex`:User)\nRETURN u\n"
	assert.Equal(t, want, stdout)
}

func TestRender_RecipeTenantsBeatConfig(t *testing.T) {
	cfg := writeRecipe(t, "cyphergen.yaml", "tenants: [Acme]\n")

	stdout, _, err := execute(t, "--config", cfg, "render", fixture("tenant_union.yaml"))
	require.NoError(t, err)
	assert.Equal(t, golden(t, "tenant_union")+"\n", stdout)
}

func TestRender_EnvTenants(t *testing.T) {
	t.Setenv("CYPHERGEN_TENANTS", "Initech")
	path := writeRecipe(t, "users.yaml", `
name: users
engine: tenant
steps:
  - op: match
  - op: node
    labels: [User]
    alias: u
  - op: returns
    aliases: [u]
`)

	stdout, _, err := execute(t, "render", path)
	require.NoError(t, err)
	assert.Equal(t, directive+"MATCH (u:Elements:`Initech`:User)\nRETURN u\n", stdout)
}

func TestResolveTenants(t *testing.T) {
	opts := &RootOptions{}
	opts.Config.Tenants = []string{"cfg"}

	basic := &recipe.Recipe{Name: "b"}
	tenant := &recipe.Recipe{Name: "t", Engine: recipe.EngineTenant}
	owned := &recipe.Recipe{Name: "o", Engine: recipe.EngineTenant, Tenants: []string{"own"}}

	assert.Equal(t, []string{"flag"}, resolveTenants(opts, owned, []string{"flag"}))
	assert.Nil(t, resolveTenants(opts, owned, nil))
	assert.Equal(t, []string{"cfg"}, resolveTenants(opts, tenant, nil))
	assert.Nil(t, resolveTenants(opts, basic, nil))
}
