package configflags

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupyterhub/prboard/pkg/fields"
)

func TestGetFieldConfigDefaults(t *testing.T) {
	f := NewConfigFlags()

	cfg, err := f.GetFieldConfig()
	require.NoError(t, err)

	assert.Equal(t, fields.DefaultConfig(), cfg)
	assert.True(t, cfg.Bots.Has("dependabot"))
	assert.Equal(t, 10, cfg.EarlyContributorThreshold)
}

func TestGetFieldConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
bots:
  - renovate
earlyContributorThreshold: 25
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	f := &ConfigFlags{Path: path}
	cfg, err := f.GetFieldConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"renovate"}, cfg.Bots.List())
	assert.Equal(t, 25, cfg.EarlyContributorThreshold)
}

func TestGetFieldConfigPartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("earlyContributorThreshold: 3\n"), 0o644))

	f := &ConfigFlags{Path: path}
	cfg, err := f.GetFieldConfig()
	require.NoError(t, err)

	// the bot list keeps its defaults when the file only tunes the threshold
	assert.Equal(t, fields.DefaultConfig().Bots, cfg.Bots)
	assert.Equal(t, 3, cfg.EarlyContributorThreshold)
}

func TestGetFieldConfigMissingFile(t *testing.T) {
	f := &ConfigFlags{Path: filepath.Join(t.TempDir(), "absent.yaml")}
	_, err := f.GetFieldConfig()
	assert.Error(t, err)
}
