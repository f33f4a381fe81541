package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	t.Run("all values supplied", func(t *testing.T) {
		t.Setenv(EnvToken, "secret")
		t.Setenv(EnvBranch, "main")
		t.Setenv(EnvTargetTypes, "DivContainer, ListView")
		t.Setenv(EnvExcludeNamespaces, "System,Marketplace")

		cfg, err := FromEnv()
		require.NoError(t, err)

		assert.Equal(t, "secret", cfg.Token)
		assert.Equal(t, "main", cfg.Branch)
		assert.Equal(t, []string{"DivContainer", "ListView"}, cfg.TargetTypes)
		assert.Equal(t, []string{"System", "Marketplace"}, cfg.ExcludeNamespaces)
	})

	t.Run("target types default when unset", func(t *testing.T) {
		t.Setenv(EnvToken, "secret")
		t.Setenv(EnvBranch, "main")
		t.Setenv(EnvTargetTypes, "")
		t.Setenv(EnvExcludeNamespaces, "")

		cfg, err := FromEnv()
		require.NoError(t, err)

		assert.Equal(t, DefaultTargetTypes, cfg.TargetTypes)
		assert.Empty(t, cfg.ExcludeNamespaces)
	})

	t.Run("missing required values listed together", func(t *testing.T) {
		t.Setenv(EnvToken, "")
		t.Setenv(EnvBranch, "")

		_, err := FromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), EnvToken)
		assert.Contains(t, err.Error(), EnvBranch)
	})

	t.Run("missing token only", func(t *testing.T) {
		t.Setenv(EnvToken, "")
		t.Setenv(EnvBranch, "main")

		_, err := FromEnv()
		require.Error(t, err)
		assert.Contains(t, err.Error(), EnvToken)
		assert.NotContains(t, err.Error(), EnvBranch)
	})
}
