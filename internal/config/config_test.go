package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"TERMFORGE_CONFIG", "HOST", "PORT", "DB_PATH", "GLOSSARY_VERSION", "GLOSSARY_EDITOR",
	"MAX_IMPORT_BYTES", "LOG_LEVEL", "LOG_FORMAT", "RATE_LIMIT_PER_MINUTE", "CORS_ORIGINS",
}

// clearEnv blanks every variable Load reads; empty values count as unset
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "termforge.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, ":8080", cfg.Server.Addr())
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
[server]
host = "127.0.0.1"
port = 9000

[glossary]
version = "15.0"
editor = "file"

[http]
allowed_origins = ["https://a.example"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr())
	assert.Equal(t, "15.0", cfg.Glossary.Version)
	assert.Equal(t, "file", cfg.Glossary.Editor)
	assert.Equal(t, []string{"https://a.example"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "./termforge.db", cfg.Storage.Path)

	t.Setenv("PORT", "9100")
	t.Setenv("GLOSSARY_EDITOR", "env")
	t.Setenv("CORS_ORIGINS", "https://b.example, ,https://c.example")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.Server.Port)
	assert.Equal(t, "env", cfg.Glossary.Editor)
	assert.Equal(t, "15.0", cfg.Glossary.Version)
	assert.Equal(t, []string{"https://b.example", "https://c.example"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_ConfigFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("TERMFORGE_CONFIG", writeConfig(t, "[storage]\npath = \"/var/lib/termforge.db\"\n"))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/termforge.db", cfg.Storage.Path)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		file    string
		wantErr string
	}{
		{name: "bad port", env: map[string]string{"PORT": "http"}, wantErr: `invalid PORT="http"`},
		{name: "bad import limit", env: map[string]string{"MAX_IMPORT_BYTES": "lots"}, wantErr: "invalid MAX_IMPORT_BYTES"},
		{name: "bad toml", file: "[server\nport = 1", wantErr: "parse config"},
		{name: "port out of range", env: map[string]string{"PORT": "70000"}, wantErr: "port (70000) must be 1-65535"},
		{name: "bad level", env: map[string]string{"LOG_LEVEL": "loud"}, wantErr: `log level ("loud")`},
		{name: "negative rate", env: map[string]string{"RATE_LIMIT_PER_MINUTE": "-1"}, wantErr: "rate per minute must not be negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.file != "" {
				path = writeConfig(t, tt.file)
			}

			_, err := Load(path)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorContains(t, err, "read config")
}

func TestValidate_ReportsAll(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = 0
	cfg.Storage.Path = ""
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Equal(t,
		`port (0) must be 1-65535; storage path is required; log format ("xml") must be one of: console, json`,
		err.Error())
}
