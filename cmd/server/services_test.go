package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-compendium/internal/config"
	"github.com/KirkDiggler/rpg-compendium/internal/entities/compendium"
)

func TestNewServices(t *testing.T) {
	loaded, err := config.Load("")
	require.NoError(t, err)

	svc, err := newServices(loaded)
	require.NoError(t, err)

	spells, err := svc.feature("Spells")
	require.NoError(t, err)
	assert.Equal(t, compendium.DefaultSpellCap, spells.Cap)

	_, err = svc.feature("items")
	assert.Error(t, err)
}
