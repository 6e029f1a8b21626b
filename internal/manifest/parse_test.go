package manifest_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hashfile/internal/digest"
	"hashfile/internal/manifest"
)

const (
	md5Empty    = "d41d8cd98f00b204e9800998ecf8427e"
	sha256Empty = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestParse_TableDriven(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []manifest.Entry
		wantErr error
	}{
		{
			name:  "gnu text and binary",
			input: sha256Empty + "  a.txt\n" + strings.ToUpper(md5Empty) + " *dir/b.bin\n",
			want: []manifest.Entry{
				{Path: "a.txt", Hash: sha256Empty, Line: 1},
				{Path: "dir/b.bin", Hash: md5Empty, Binary: true, Line: 2},
			},
		},
		{
			name:  "single space plain output",
			input: md5Empty + " name with spaces.txt\n",
			want: []manifest.Entry{
				{Path: "name with spaces.txt", Hash: md5Empty, Line: 1},
			},
		},
		{
			name:  "bsd with and without spaces",
			input: "SHA256 (a.txt) = " + sha256Empty + "\nMD5(b.txt) = " + md5Empty + "\n",
			want: []manifest.Entry{
				{Path: "a.txt", Hash: sha256Empty, Algorithm: digest.SHA256, HasAlgorithm: true, Line: 1},
				{Path: "b.txt", Hash: md5Empty, Algorithm: digest.MD5, HasAlgorithm: true, Line: 2},
			},
		},
		{
			name:  "comments blank lines and crlf",
			input: "# generated\r\n\r\n" + md5Empty + "  x\r\n",
			want: []manifest.Entry{
				{Path: "x", Hash: md5Empty, Line: 3},
			},
		},
		{
			name:  "escaped gnu name",
			input: `\` + md5Empty + `  new\nline\\name` + "\n",
			want: []manifest.Entry{
				{Path: "new\nline\\name", Hash: md5Empty, Line: 1},
			},
		},
		{
			name:    "malformed",
			input:   md5Empty + "  ok\nnot a checksum line\n",
			wantErr: manifest.ErrMalformedLine,
		},
		{
			name:    "bsd with unknown algorithm",
			input:   "CRC32 (a) = 0a0b0c0d\n",
			wantErr: digest.ErrUnsupportedAlgorithm,
		},
		{
			name:  "empty",
			input: "",
			want:  []manifest.Entry{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := manifest.Parse(strings.NewReader(tt.input))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_ResolvesRelativePaths(t *testing.T) {
	p := writeTemp(t, "SHA256SUMS", sha256Empty+"  sub/a.txt\n"+sha256Empty+"  /abs/b.txt\n")

	entries, err := manifest.Load(p)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, filepath.Join(filepath.Dir(p), "sub", "a.txt"), entries[0].Path)
	assert.Equal(t, "/abs/b.txt", entries[1].Path)

	_, err = manifest.Load(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	lit, err := manifest.Resolve("  " + strings.ToUpper(md5Empty) + "\n")
	require.NoError(t, err)
	assert.False(t, lit.IsFile())
	got, err := lit.For("anything", digest.SHA256)
	require.NoError(t, err)
	assert.Equal(t, strings.ToUpper(md5Empty), got)

	single := writeTemp(t, "one.md5", md5Empty+"  original-name.bin\n")
	x, err := manifest.Resolve(single)
	require.NoError(t, err)
	assert.True(t, x.IsFile())
	got, err = x.For("/elsewhere/renamed.bin", digest.MD5)
	require.NoError(t, err)
	assert.Equal(t, md5Empty, got)

	multi := writeTemp(t, "many.sha256", sha256Empty+"  a.txt\n"+strings.Repeat("0", 64)+"  b.txt\n")
	x, err = manifest.Resolve(multi)
	require.NoError(t, err)
	got, err = x.For("/some/where/b.txt", digest.SHA256)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("0", 64), got)
	_, err = x.For("c.txt", digest.SHA256)
	assert.ErrorIs(t, err, manifest.ErrNoEntry)

	empty := writeTemp(t, "empty.sum", "# nothing\n")
	_, err = manifest.Resolve(empty)
	assert.ErrorIs(t, err, manifest.ErrEmpty)
}

func TestExpectation_ForAlgorithm(t *testing.T) {
	p := writeTemp(t, "MIXED", "MD5 (x.txt) = "+md5Empty+"\n"+sha256Empty+"  y.txt\n")
	x, err := manifest.Resolve(p)
	require.NoError(t, err)

	got, err := x.For("x.txt", digest.MD5)
	require.NoError(t, err)
	assert.Equal(t, md5Empty, got)

	_, err = x.For("x.txt", digest.SHA256)
	assert.ErrorIs(t, err, manifest.ErrAlgorithmMismatch)

	// untagged GNU lines carry no algorithm and match any engine
	got, err = x.For("y.txt", digest.BLAKE3)
	require.NoError(t, err)
	assert.Equal(t, sha256Empty, got)
}
