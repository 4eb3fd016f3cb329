package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testdata = "../../internal/adapters/siteconfig/testdata"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantOut string
		wantErr bool
	}{
		{
			name:    "valid document",
			path:    filepath.Join(testdata, "site.yaml"),
			wantOut: "ok (",
		},
		{
			name:    "invalid project status",
			path:    filepath.Join(testdata, "bad_status.yaml"),
			wantErr: true,
		},
		{
			name:    "missing file",
			path:    filepath.Join(testdata, "absent.yaml"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, "validate", tt.path)

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Contains(t, out, tt.wantOut)
		})
	}
}

func TestValidateCommand_FromConfig(t *testing.T) {
	t.Setenv("APP_SITE__CONTENT_PATH", "../../configs/site.yaml")

	out, err := execute(t, "validate", "--config-dir", "../../configs", "--profile", "test")

	require.NoError(t, err)
	assert.Contains(t, out, "../../configs/site.yaml: ok")
}

func TestRenderCommand(t *testing.T) {
	t.Setenv("APP_SITE__CONTENT_PATH", "../../configs/site.yaml")

	dest := filepath.Join(t.TempDir(), "index.html")

	_, err := execute(t, "render", "--config-dir", "../../configs", "--profile", "test", "--out", dest)
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)

	page := string(data)
	assert.Contains(t, page, "<title>")
	assert.Contains(t, page, `type="application/ld+json"`)
	assert.Contains(t, page, "https://www.google.com/s2/favicons")
	assert.NotContains(t, page, "site.js")
	assert.NotContains(t, page, "/icons/")
}

func TestRootCommand_UnknownSubcommand(t *testing.T) {
	_, err := execute(t, "publish")

	require.Error(t, err)
}
