package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/formsmith/internal/sqlstore"
	"github.com/mesh-intelligence/formsmith/pkg/types"
)

const feedbackSchemaJSON = `{
  "title": "Feedback Form",
  "description": "Tell us how we did.",
  "postscript": "Thank you!",
  "questions": [
    {"text": "Name", "type": "string", "required": true},
    {"text": "How satisfied are you", "type": "meter", "required": true},
    {"text": "Toppings", "type": "multiple-tick", "options": ["cheese", "ham"]}
  ]
}`

type cliEnv struct {
	t         *testing.T
	configDir string
	dataDir   string
}

type cliResult struct {
	code   int
	stdout string
	stderr string
}

func newCLIEnv(t *testing.T) cliEnv {
	t.Helper()
	clearEnv(t)
	dir := t.TempDir()
	return cliEnv{
		t:         t,
		configDir: filepath.Join(dir, "config"),
		dataDir:   filepath.Join(dir, "data"),
	}
}

func (e cliEnv) run(args ...string) cliResult {
	return e.runWithInput("", args...)
}

func (e cliEnv) runWithInput(stdin string, args ...string) cliResult {
	e.t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...)
	code := execute(context.Background(), full, strings.NewReader(stdin), &stdout, &stderr)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func (e cliEnv) mustRun(args ...string) string {
	e.t.Helper()
	res := e.run(args...)
	require.Equal(e.t, exitSuccess, res.code, "formsmith %v: %s", args, res.stderr)
	return res.stdout
}

func (e cliEnv) writeSchema(content string) string {
	e.t.Helper()
	path := filepath.Join(e.t.TempDir(), "schema.json")
	require.NoError(e.t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestVersionSkipsConfig(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun("version")
	assert.Equal(t, "formsmith dev\n", out)
	assert.NoDirExists(t, env.configDir)
}

func TestInitCreatesConfigAndDatabase(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun("init")
	assert.Contains(t, out, "formsmith initialized successfully")
	assert.Contains(t, out, env.dataDir)
	assert.FileExists(t, filepath.Join(env.configDir, configFileExt))
	assert.FileExists(t, filepath.Join(env.dataDir, sqlstore.DatabaseFile))

	// A second init leaves the files in place.
	env.mustRun("init")
}

func TestFormLifecycle(t *testing.T) {
	env := newCLIEnv(t)
	schemaPath := env.writeSchema(feedbackSchemaJSON)

	assert.Equal(t, "Feedback_Form\n", env.mustRun("create", schemaPath))

	var entries []types.DirectoryEntry
	require.NoError(t, json.Unmarshal([]byte(env.mustRun("--json", "list")), &entries))
	assert.Equal(t, []types.DirectoryEntry{{Title: "Feedback Form", Identifier: "Feedback_Form", IsActive: true}}, entries)

	table := env.mustRun("list")
	assert.Contains(t, table, "IDENTIFIER")
	assert.Contains(t, table, "Feedback_Form")

	view := env.mustRun("show", "Feedback_Form")
	assert.Contains(t, view, "identifier: Feedback_Form")
	assert.Contains(t, view, "name: How_satisfied_are_you")
	assert.Contains(t, view, "widget: range")
	assert.Contains(t, view, "default: 5")

	var schema types.Schema
	require.NoError(t, json.Unmarshal([]byte(env.mustRun("--json", "show", "Feedback_Form")), &schema))
	assert.Equal(t, "Feedback Form", schema.Title)
	assert.NotEmpty(t, schema.ID)
	assert.Len(t, schema.Questions, 3)

	assert.Equal(t, "1\n", env.mustRun("submit", "Feedback_Form", `{"Name": "Ada", "How satisfied are you": 9, "Toppings": "ham, cheese"}`))

	res := env.runWithInput(`{"Name": "Grace", "How satisfied are you": "7"}`, "submit", "Feedback_Form", "-")
	require.Equal(t, exitSuccess, res.code, res.stderr)
	assert.Equal(t, "2\n", res.stdout)

	assert.Equal(t, "Feedback_Form_responses\n", env.mustRun("responses"))

	var records []types.ResponseRecord
	require.NoError(t, json.Unmarshal([]byte(env.mustRun("--json", "responses", "Feedback_Form")), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "Feedback_Form", records[0].SchemaRef)
	assert.Equal(t, "Ada", records[0].Fields["Name"])
	assert.Equal(t, "9", records[0].Fields["How_satisfied_are_you"])
	assert.Equal(t, "ham,cheese", records[0].Fields["Toppings"])
	assert.Equal(t, "Grace", records[1].Fields["Name"])

	assert.Equal(t, "Deactivated Feedback_Form\n", env.mustRun("deactivate", "Feedback", "Form"))

	res = env.run("submit", "Feedback_Form", `{"Name": "Linus", "How satisfied are you": 3}`)
	assert.Equal(t, exitUserError, res.code)
	assert.Contains(t, res.stderr, types.ErrFormInactive.Error())

	res = env.run("show", "Feedback_Form")
	assert.Equal(t, exitUserError, res.code)

	assert.Equal(t, "Activated Feedback_Form\n", env.mustRun("activate", "Feedback Form"))
	assert.Equal(t, "3\n", env.mustRun("submit", "Feedback_Form", `{"Name": "Linus", "How satisfied are you": 3}`))
}

func TestSubmitFromFile(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("create", env.writeSchema(feedbackSchemaJSON))

	answers := filepath.Join(t.TempDir(), "answers.json")
	require.NoError(t, os.WriteFile(answers, []byte(`{"Name": "Ada", "How satisfied are you": 10}`), 0o644))

	assert.Equal(t, "1\n", env.mustRun("submit", "Feedback_Form", "@"+answers))
}

func TestCreateFromStdin(t *testing.T) {
	env := newCLIEnv(t)

	res := env.runWithInput(feedbackSchemaJSON, "--json", "create", "-")
	require.Equal(t, exitSuccess, res.code, res.stderr)

	var out map[string]string
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &out))
	assert.Equal(t, "Feedback_Form", out["identifier"])
}

func TestUserErrorsExitOne(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun("create", env.writeSchema(feedbackSchemaJSON))

	tests := []struct {
		name string
		args []string
	}{
		{"missing schema file", []string{"create", filepath.Join(t.TempDir(), "nope.json")}},
		{"invalid schema", []string{"create", env.writeSchema(`{"title": "Empty", "questions": []}`)}},
		{"title conflict", []string{"create", env.writeSchema(strings.Replace(feedbackSchemaJSON, `"Feedback Form"`, `"Feedback  Form"`, 1))}},
		{"unknown form", []string{"show", "No_Such_Form"}},
		{"unknown title", []string{"activate", "No Such Form"}},
		{"answers not an object", []string{"submit", "Feedback_Form", "[1, 2]"}},
		{"missing required", []string{"submit", "Feedback_Form", `{"Name": "Ada"}`}},
		{"invalid value", []string{"submit", "Feedback_Form", `{"Name": "Ada", "How satisfied are you": 11}`}},
		{"wrong arg count", []string{"show"}},
		{"unknown flag", []string{"list", "--bogus"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := env.run(tt.args...)
			assert.Equal(t, exitUserError, res.code, res.stderr)
			assert.NotEmpty(t, res.stderr)
		})
	}

	var records []types.ResponseRecord
	require.NoError(t, json.Unmarshal([]byte(env.mustRun("--json", "responses", "Feedback_Form")), &records))
	assert.Empty(t, records)
}

func TestUnknownBackendIsUserError(t *testing.T) {
	env := newCLIEnv(t)
	writeConfig(t, env.configDir, "backend: mongo\n")

	res := env.run("list")
	assert.Equal(t, exitUserError, res.code)
	assert.Contains(t, res.stderr, types.ErrBackendUnknown.Error())
}

func TestStorageFailureExitsTwo(t *testing.T) {
	env := newCLIEnv(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0o644))
	env.dataDir = blocker

	res := env.run("init")
	assert.Equal(t, exitSysError, res.code)
}

// syncBuffer guards writes from the server goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestServeStopsOnCancel(t *testing.T) {
	if testing.Short() {
		t.Skip("starts an HTTP server")
	}
	env := newCLIEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	var stdout bytes.Buffer
	stderr := &syncBuffer{}
	args := []string{"--config-dir", env.configDir, "--data-dir", env.dataDir, "serve", "--addr", "127.0.0.1:0"}
	code := execute(ctx, args, strings.NewReader(""), &stdout, stderr)

	assert.Equal(t, exitSuccess, code, stderr.String())
	assert.Contains(t, stderr.String(), logPrefix)
	assert.Contains(t, stderr.String(), "store: opened sqlite")
}
