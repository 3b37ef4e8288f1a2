package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line  string
		key   string
		value string
		ok    bool
	}{
		{line: "BASE=http://localhost:3000", key: "BASE", value: "http://localhost:3000", ok: true},
		{line: "export TOKEN=abc", key: "TOKEN", value: "abc", ok: true},
		{line: "  export  WHO = carol  ", key: "WHO", value: "carol", ok: true},
		{line: `QUERY="a=b&c=d"`, key: "QUERY", value: "a=b&c=d", ok: true},
		{line: `AGENT='hitreq cli'`, key: "AGENT", value: "hitreq cli", ok: true},
		{line: `HALF="open`, key: "HALF", value: `"open`, ok: true},
		{line: `MIXED="x'`, key: "MIXED", value: `"x'`, ok: true},
		{line: "EMPTY=", key: "EMPTY", value: "", ok: true},
		{line: `Q=""`, key: "Q", value: "", ok: true},
		{line: "# export BASE=ignored"},
		{line: "   "},
		{line: "no equals sign"},
		{line: "=value"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			key, value, ok := parseLine(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.key, key)
			assert.Equal(t, tt.value, value)
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# hitreq variables\n" +
		"export BASE=https://api.example.com\n" +
		"\n" +
		"TOKEN=\"Bearer xyz\"\n" +
		"BASE=https://staging.example.com\n" +
		"garbage line\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	vars, err := LoadDotEnv(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"BASE":  "https://staging.example.com",
		"TOKEN": "Bearer xyz",
	}, vars)

	r := NewResolver(vars)
	assert.Equal(t, "https://staging.example.com/users", r.Resolve("{{BASE}}/users"))
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	_, err := LoadDotEnv(filepath.Join(t.TempDir(), "absent.env"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadSystemEnv(t *testing.T) {
	t.Setenv("HITREQ_VAR_BASE", "http://localhost:8080")
	t.Setenv("HITREQ_VAR_", "no name")
	t.Setenv("HITREQ_TIMEOUT", "5s")

	vars := LoadSystemEnv("HITREQ_VAR_")
	assert.Equal(t, "http://localhost:8080", vars["BASE"])
	assert.NotContains(t, vars, "")
	assert.NotContains(t, vars, "TIMEOUT")
	assert.NotContains(t, vars, "HITREQ_TIMEOUT")

	all := LoadSystemEnv("")
	assert.Equal(t, "5s", all["HITREQ_TIMEOUT"])
}
