package load

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV(t *testing.T) {
	in := strings.NewReader("Permit No, Site Address ,City\nTX-1,123 Main St,Austin\nTX-2,\"456 Oak Ave, Unit B\",Austin,extra\n")
	header, rows, err := ReadCSV(in, ',')
	require.NoError(t, err)

	assert.Equal(t, []string{"Permit No", "Site Address", "City"}, header)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"TX-1", "123 Main St", "Austin"}, rows[0])
	// Ragged rows survive; portals pad trailing columns inconsistently.
	assert.Equal(t, []string{"TX-2", "456 Oak Ave, Unit B", "Austin", "extra"}, rows[1])
}

func TestReadCSV_PipeDelimited(t *testing.T) {
	in := strings.NewReader("Permit No|Owner\nTX-1|Doe, John\n")
	header, rows, err := ReadCSV(in, '|')
	require.NoError(t, err)
	assert.Equal(t, []string{"Permit No", "Owner"}, header)
	assert.Equal(t, []string{"TX-1", "Doe, John"}, rows[0])
}

func TestReadCSV_Empty(t *testing.T) {
	_, _, err := ReadCSV(strings.NewReader(""), ',')
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestReadCSV_HeaderOnly(t *testing.T) {
	header, rows, err := ReadCSV(strings.NewReader("Permit No,City\n"), ',')
	require.NoError(t, err)
	assert.Equal(t, []string{"Permit No", "City"}, header)
	assert.Empty(t, rows)
}

func TestReadJSON_TopLevelArray(t *testing.T) {
	objs, err := ReadJSON(strings.NewReader(`[{"Permit No":"TX-1"},{"Permit No":"TX-2"}]`))
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.Equal(t, "TX-1", objs[0]["Permit No"])
}

func TestReadJSON_Wrapped(t *testing.T) {
	for _, key := range []string{"permits", "records", "rows", "data"} {
		objs, err := ReadJSON(strings.NewReader(`{"` + key + `":[{"Permit No":"TX-1"}],"page":1}`))
		require.NoError(t, err, key)
		require.Len(t, objs, 1, key)
	}
}

func TestReadJSON_Unrecognizable(t *testing.T) {
	_, err := ReadJSON(strings.NewReader(`{"stuff":[]}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no recognizable record array")

	_, err = ReadJSON(strings.NewReader(`not json`))
	require.Error(t, err)
}

func writeZIP(t *testing.T, entries map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.zip")
	f, err := os.Create(path)
	require.NoError(t, err)

	w := zip.NewWriter(f)
	for name, body := range entries {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())
	return path
}

func TestExtractZIP(t *testing.T) {
	zipPath := writeZIP(t, map[string]string{
		"permits.csv":       "Permit No\nTX-1\n",
		"nested/readme.txt": "notes",
	})

	dest := t.TempDir()
	paths, err := ExtractZIP(zipPath, dest)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	data, err := os.ReadFile(filepath.Join(dest, "permits.csv"))
	require.NoError(t, err)
	assert.Equal(t, "Permit No\nTX-1\n", string(data))

	_, err = os.Stat(filepath.Join(dest, "nested", "readme.txt"))
	assert.NoError(t, err)
}

func TestExtractZIP_PathTraversal(t *testing.T) {
	zipPath := writeZIP(t, map[string]string{
		"../escape.txt": "gotcha",
	})

	dest := t.TempDir()
	_, err := ExtractZIP(zipPath, dest)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes destination")

	_, statErr := os.Stat(filepath.Join(filepath.Dir(dest), "escape.txt"))
	assert.True(t, os.IsNotExist(statErr))
}
