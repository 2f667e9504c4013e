package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name     string `json:"name"`
	Interval int    `json:"interval"`
	Nested   struct {
		Url string `json:"url"`
	} `json:"nested"`
}

func writeFile(t *testing.T, path, contents string) {
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hoopstats.json5")

	_, err := ReadConfig[testConfig](path)
	require.ErrorIs(t, err, os.ErrNotExist)

	writeFile(t, path, `{
		// comments and trailing commas are allowed
		name: "default",
		interval: 500,
		nested: { url: "https://example.com" },
	}`)
	cfg, err := ReadConfig[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, "default", cfg.Name)
	require.Equal(t, 500, cfg.Interval)

	writeFile(t, filepath.Join(dir, "hoopstats.local.json5"), `{ interval: 20 }`)
	cfg, err = ReadConfig[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, "default", cfg.Name)
	require.Equal(t, 20, cfg.Interval)
	require.Equal(t, "https://example.com", cfg.Nested.Url)
}

func TestReadConfigMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json5")
	writeFile(t, path, `{ name: `)

	_, err := ReadConfig[testConfig](path)
	require.Error(t, err)
	require.NotErrorIs(t, err, os.ErrNotExist)
}

func TestWithDefaults(t *testing.T) {
	defaults := testConfig{Name: "fallback", Interval: 500}
	cfg, err := WithDefaults(testConfig{Interval: 10}, defaults)
	require.NoError(t, err)
	require.Equal(t, "fallback", cfg.Name)
	require.Equal(t, 10, cfg.Interval)
}
