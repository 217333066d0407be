package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/n2code/datacurator/internal/fault"
)

func noEnv(string) string { return "" }

func writeConfig(t *testing.T, dir string, content string) string {
	t.Helper()
	path := filepath.Join(dir, ".datacurator.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := load(t.TempDir(), "", noEnv)
	require.NoError(t, err)

	assert.Equal(t, DefaultConfig(), cfg)
	assert.Equal(t, []string{"home", "office"}, cfg.Places.Environments)
	assert.Empty(t, cfg.Places.Dir)
}

func TestLoadFindsFileInParentDirectory(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, `
places:
  dir: /data/places
  environments: [office]
vpc:
  dir: vpc
labels:
  dir: labels
`)
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := load(nested, "", noEnv)
	require.NoError(t, err)

	assert.Equal(t, "/data/places", cfg.Places.Dir)
	assert.Equal(t, []string{"office"}, cfg.Places.Environments)
	assert.Equal(t, "Places365", cfg.Places.Dataset, "unset keys keep their defaults")
	assert.Equal(t, filepath.Join(root, "vpc"), cfg.Vpc.Dir, "relative paths are anchored at the config file")
	assert.Equal(t, filepath.Join(root, "labels"), cfg.Labels.Dir)
}

func TestLoadExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yml")
	require.NoError(t, os.WriteFile(path, []byte("vpc:\n  dir: /srv/vpc\n  home_prefix: vpc_\n"), 0o644))

	cfg, err := load(t.TempDir(), path, noEnv)
	require.NoError(t, err)
	assert.Equal(t, "/srv/vpc", cfg.Vpc.Dir)
	assert.Equal(t, "vpc_", cfg.Vpc.HomePrefix)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "places:\n  directory: /typo\n")

	_, err := load(dir, "", noEnv)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fault.Config))
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := load(t.TempDir(), filepath.Join(t.TempDir(), "absent.yaml"), noEnv)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fault.Config))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadEmptyFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "")

	cfg, err := load(dir, "", noEnv)
	require.NoError(t, err)
	assert.Equal(t, "data_", cfg.Vpc.HomePrefix)
}

func TestEnvironmentPrecedence(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "places:\n  dir: /from/file\nvpc:\n  dir: /from/file/vpc\n")
	env := map[string]string{
		EnvPlacesDir: "/from/env",
		EnvLabelsDir: "${LABEL_ROOT}/categories",
		"LABEL_ROOT": "/opt/labels",
	}

	cfg, err := load(dir, "", func(key string) string { return env[key] })
	require.NoError(t, err)

	assert.Equal(t, "/from/env", cfg.Places.Dir)
	assert.Equal(t, "/from/file/vpc", cfg.Vpc.Dir)
	assert.Equal(t, "/opt/labels/categories", cfg.Labels.Dir)
}

func TestExpandEnvVar(t *testing.T) {
	env := map[string]string{"DATA": "/mnt/data"}
	getenv := func(key string) string { return env[key] }

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/plain/path", "/plain/path"},
		{"${DATA}/places", "/mnt/data/places"},
		{"$DATA/vpc", "/mnt/data/vpc"},
		{"${UNSET}/x", "/x"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, expandEnvVar(tt.in, getenv), "input %q", tt.in)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()

	err := cfg.ValidatePlaces()
	assert.True(t, errors.Is(err, fault.Config))
	err = cfg.ValidateVpc()
	assert.True(t, errors.Is(err, fault.Config))

	cfg.Places.Dir = "/data/places"
	cfg.Vpc.Dir = "/data/vpc"
	assert.NoError(t, cfg.ValidatePlaces())
	assert.NoError(t, cfg.ValidateVpc())

	cfg.Places.Environments = nil
	assert.Error(t, cfg.ValidatePlaces())

	cfg.Labels.Pattern = "labels.txt"
	assert.Error(t, cfg.ValidateVpc())
}

func TestLabelFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Labels.Dir = "/opt/labels"
	assert.Equal(t, filepath.Join("/opt/labels", "categories_places365_office.txt"), cfg.LabelFile("office"))
}
