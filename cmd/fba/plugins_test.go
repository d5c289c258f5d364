package main

import (
	"testing"

	"github.com/eginner01/rFBA-sub002/internal/fbaconf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_NamesMatchInfo(t *testing.T) {
	for name, newPlugin := range registry {
		assert.Equal(t, name, newPlugin().Info().Name)
	}
}

func TestBuildPlugins(t *testing.T) {
	plugins, err := buildPlugins(fbaconf.DefaultPlugins)
	require.NoError(t, err)
	require.Len(t, plugins, len(fbaconf.DefaultPlugins))
	for i, p := range plugins {
		assert.Equal(t, fbaconf.DefaultPlugins[i], p.Info().Name)
	}

	_, err = buildPlugins([]string{"notice", "nope"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "未知插件: nope")
}

func TestGenPassword(t *testing.T) {
	a, b := genPassword(), genPassword()
	assert.Len(t, a, 24)
	assert.NotEqual(t, a, b)
}
