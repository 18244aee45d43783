package meta

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
)

type document struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

func TestService_Load(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.yaml"), []byte("name: ${env.PROCSIM_META_NAME}\ncount: 4\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.json"), []byte(`{"name": "json", "count": 2}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty.yaml"), []byte("  \n"), 0o644))
	t.Setenv("PROCSIM_META_NAME", "sim")

	srv := New(afs.New(), dir)
	testCases := []struct {
		description string
		URL         string
		expect      document
		expectErr   bool
	}{
		{description: "yaml with env", URL: "doc.yaml", expect: document{Name: "sim", Count: 4}},
		{description: "json", URL: "doc.json", expect: document{Name: "json", Count: 2}},
		{description: "absolute", URL: filepath.Join(dir, "doc.json"), expect: document{Name: "json", Count: 2}},
		{description: "missing", URL: "missing.yaml", expectErr: true},
		{description: "empty", URL: "empty.yaml", expectErr: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			var actual document
			err := srv.Load(context.Background(), testCase.URL, &actual)
			if testCase.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testCase.expect, actual)
		})
	}

	exists, err := srv.Exists(context.Background(), "doc.yaml")
	require.NoError(t, err)
	assert.True(t, exists)
}
