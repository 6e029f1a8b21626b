package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hashfile/internal/digest"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad_TableDriven(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		missing  bool
		explicit bool
		check    func(t *testing.T, c Config)
		wantErr  bool
	}{
		{
			name:    "overrides defaults",
			content: "algorithm: blake3\nformat: bsd\nworkers: 4\ncolor: false\nprogress: true\n",
			check: func(t *testing.T, c Config) {
				assert.Equal(t, "blake3", c.Algorithm)
				assert.Equal(t, "bsd", c.Format)
				assert.Equal(t, 4, c.Workers)
				require.NotNil(t, c.Color)
				assert.False(t, *c.Color)
				assert.True(t, c.Progress)
				assert.Equal(t, digest.DefaultChunkSize, c.ChunkSize)
			},
		},
		{
			name:    "partial file keeps defaults",
			content: "log_level: debug\n",
			check: func(t *testing.T, c Config) {
				assert.Equal(t, "sha256", c.Algorithm)
				assert.Equal(t, "plain", c.Format)
				assert.Nil(t, c.Color)
				assert.Equal(t, "debug", c.LogLevel)
			},
		},
		{
			name:    "missing default file is fine",
			missing: true,
			check: func(t *testing.T, c Config) {
				assert.Equal(t, Default(), c)
			},
		},
		{name: "missing explicit file fails", missing: true, explicit: true, wantErr: true},
		{name: "unknown key", content: "algo: md5\n", wantErr: true},
		{name: "bad algorithm", content: "algorithm: crc32\n", wantErr: true},
		{name: "bad format", content: "format: xml\n", wantErr: true},
		{name: "negative workers", content: "workers: -1\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p string
			if tt.missing {
				p = filepath.Join(t.TempDir(), "nope.yaml")
			} else {
				p = writeConfig(t, tt.content)
			}

			c, err := Load(p, tt.explicit)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, c)
		})
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	c, err := Load("", true)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}
