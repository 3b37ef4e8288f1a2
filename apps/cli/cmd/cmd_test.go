package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/abdul-hamid-achik/hitreq/packages/core/env"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI with args and returns the exit code and output.
func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	code := run(root, append(args, "--no-color"))
	return code, stdout.String(), stderr.String()
}

func newEchoServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Method", r.Method)
		switch r.URL.Path {
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"not found"}`))
			return
		}
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		_ = enc.Encode(map[string]any{
			"method": r.Method,
			"query":  r.URL.RawQuery,
			"body":   string(body),
			"type":   r.Header.Get("Content-Type"),
			"name":   "alice",
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestGetCommand(t *testing.T) {
	server := newEchoServer(t)

	code, out, _ := execute(t, "get", server.URL+"/users", "page=2", "q=a b")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "200 OK")
	assert.Contains(t, out, `"query":"page=2&q=a+b"`)
}

func TestExtractFlag(t *testing.T) {
	server := newEchoServer(t)

	code, out, _ := execute(t, "get", server.URL, "-x", "body.name")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "alice\n", out)

	code, out, _ = execute(t, "get", server.URL, "-x", "status", "-x", "header.x-method")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "status = 200")
	assert.Contains(t, out, "header.x-method = GET")
}

func TestExtractMissing(t *testing.T) {
	server := newEchoServer(t)

	code, _, stderr := execute(t, "get", server.URL, "-x", "body.nope")
	assert.Equal(t, ExitExtractError, code)
	assert.Contains(t, stderr, "body.nope")
}

func TestPostJSON(t *testing.T) {
	server := newEchoServer(t)

	code, out, _ := execute(t, "post", server.URL, "name=bob", "age:=30", "--json", "-x", "body.body")
	require.Equal(t, ExitSuccess, code)
	assert.JSONEq(t, `{"name":"bob","age":30}`, out)
}

func TestPutForm(t *testing.T) {
	server := newEchoServer(t)

	code, out, _ := execute(t, "put", server.URL, "b=2", "a=1", "-x", "body.body", "-x", "body.type")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "body.body = a=1&b=2")
	assert.Contains(t, out, "body.type = application/x-www-form-urlencoded")
}

func TestJSONOutput(t *testing.T) {
	server := newEchoServer(t)

	code, out, _ := execute(t, "delete", server.URL, "-o", "json")
	require.Equal(t, ExitSuccess, code)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, float64(200), doc["statusCode"])
}

func TestFailFlag(t *testing.T) {
	server := newEchoServer(t)

	code, _, _ := execute(t, "get", server.URL+"/missing")
	assert.Equal(t, ExitSuccess, code)

	code, _, stderr := execute(t, "get", server.URL+"/missing", "--fail")
	assert.Equal(t, ExitHTTPError, code)
	assert.Contains(t, stderr, "404")
}

func TestNetworkError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	code, out, _ := execute(t, "get", url)
	assert.Equal(t, ExitNetworkError, code)
	assert.Contains(t, out, "transport failed")
}

func TestInvalidHeaderFlag(t *testing.T) {
	code, _, stderr := execute(t, "get", "http://localhost", "-H", "nocolon")
	assert.Equal(t, ExitConfigError, code)
	assert.Contains(t, stderr, "invalid header")
}

func TestInvalidOverride(t *testing.T) {
	server := newEchoServer(t)

	code, _, stderr := execute(t, "get", server.URL, "-X", "bogus=1")
	assert.Equal(t, ExitConfigError, code)
	assert.Contains(t, stderr, "bogus")
}

func TestConfigFileOverridesValidatedOnLoad(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), ".hitreq.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("overrides:\n  retries: \"3\"\n"), 0644))

	code, _, stderr := execute(t, "get", "http://localhost", "--config", cfgFile)
	assert.Equal(t, ExitConfigError, code)
	assert.Contains(t, stderr, "config overrides")
	assert.Contains(t, stderr, "retries")
}

func TestEnvFile(t *testing.T) {
	server := newEchoServer(t)

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("BASE="+server.URL+"\nWHO=carol\n"), 0644))

	code, out, _ := execute(t, "get", "{{BASE}}/x", "who={{WHO}}", "--env-file", envFile, "-x", "body.query")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "who=carol\n", out)
}

func rpcServer(t *testing.T, body string) (*httptest.Server, *map[string]any) {
	t.Helper()
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &got
}

func TestRPCCommand(t *testing.T) {
	server, got := rpcServer(t, `{"jsonrpc":"2.0","id":1,"result":{"sum":3}}`)

	code, out, _ := execute(t, "rpc", server.URL, "add", "--params", "[1,2]", "--strict", "-x", "body.result.sum")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "3\n", out)

	assert.Equal(t, "2.0", (*got)["jsonrpc"])
	assert.Equal(t, "add", (*got)["method"])
	assert.Equal(t, float64(1), (*got)["id"])
	assert.Equal(t, []any{float64(1), float64(2)}, (*got)["params"])
}

func TestRPCNamedParamsAndAutoID(t *testing.T) {
	server, got := rpcServer(t, `{"jsonrpc":"2.0","id":"x","result":null}`)

	code, _, _ := execute(t, "rpc", server.URL, "user.get", "id:=7", "--id", "auto")
	require.Equal(t, ExitSuccess, code)

	assert.Equal(t, map[string]any{"id": float64(7)}, (*got)["params"])
	id, ok := (*got)["id"].(string)
	require.True(t, ok)
	assert.Len(t, id, 36)
}

func TestRPCMalformed(t *testing.T) {
	server, _ := rpcServer(t, `<html>oops</html>`)

	code, out, _ := execute(t, "rpc", server.URL, "ping")
	assert.Equal(t, ExitMalformedResponse, code)
	assert.Contains(t, out, "malformed response")
}

func TestRPCStrictRejectsEnvelope(t *testing.T) {
	server, _ := rpcServer(t, `{"result":1}`)

	code, _, _ := execute(t, "rpc", server.URL, "ping", "--strict")
	assert.Equal(t, ExitSchemaError, code)
}

func TestSchemaFlag(t *testing.T) {
	server := newEchoServer(t)

	schemaFile := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(schemaFile, []byte(`{"type":"object","required":["id"]}`), 0644))

	code, _, _ := execute(t, "get", server.URL, "--schema", schemaFile)
	assert.Equal(t, ExitSchemaError, code)
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()

	code, out, _ := execute(t, "init", "--dir", dir)
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "Created:")
	assert.FileExists(t, filepath.Join(dir, ".hitreq.yaml"))

	code, _, stderr := execute(t, "init", "--dir", dir)
	assert.Equal(t, ExitConfigError, code)
	assert.Contains(t, stderr, "already exists")

	code, _, _ = execute(t, "init", "--dir", dir, "--force")
	assert.Equal(t, ExitSuccess, code)
}

func TestVersionCommand(t *testing.T) {
	code, out, _ := execute(t, "version")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "hitreq version dev")
}

func TestUsageErrors(t *testing.T) {
	code, _, _ := execute(t, "get")
	assert.Equal(t, ExitUsageError, code)

	code, _, _ = execute(t, "nonsense")
	assert.Equal(t, ExitUsageError, code)

	code, _, _ = execute(t, "get", "http://localhost", "=novalue")
	assert.Equal(t, ExitUsageError, code)
}

func TestParseData(t *testing.T) {
	r := env.NewResolver(map[string]string{"who": "dave"})

	data, err := parseData([]string{
		"name={{who}}",
		"tag=a",
		"tag=b",
		"tag=c",
		"n:=5",
		"obj:={\"k\":true}",
		"eq=a=b",
	}, r)
	require.NoError(t, err)

	assert.Equal(t, "dave", data["name"])
	assert.Equal(t, []any{"a", "b", "c"}, data["tag"])
	assert.Equal(t, float64(5), data["n"])
	assert.Equal(t, map[string]any{"k": true}, data["obj"])
	assert.Equal(t, "a=b", data["eq"])

	_, err = parseData([]string{"bad:=nope"}, r)
	assert.Error(t, err)
}

func TestParseRPCID(t *testing.T) {
	assert.Equal(t, int64(3), parseRPCID("3"))
	assert.Equal(t, "abc", parseRPCID("abc"))
	assert.Nil(t, parseRPCID("null"))
	assert.Len(t, parseRPCID("auto"), 36)
}
