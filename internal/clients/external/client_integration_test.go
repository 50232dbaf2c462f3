//go:build integration
// +build integration

package external_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/rpg-compendium/internal/clients/external"
)

func TestGetRaceData_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	client, err := external.New(&external.Config{})
	require.NoError(t, err)

	ctx := context.Background()

	testCases := []struct {
		name     string
		raceID   string
		wantName string
	}{
		{name: "dragonborn", raceID: "dragonborn", wantName: "Dragonborn"},
		{name: "half-elf", raceID: "half-elf", wantName: "Half-Elf"},
		{name: "prefixed constant", raceID: "RACE_HUMAN", wantName: "Human"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			race, err := client.GetRaceData(ctx, tc.raceID)
			require.NoError(t, err)
			require.NotNil(t, race)

			assert.Equal(t, tc.wantName, race.Name)
			assert.NotEmpty(t, race.Size)
			assert.Greater(t, race.Speed, 0)
		})
	}
}

func TestGetClassData_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	client, err := external.New(&external.Config{})
	require.NoError(t, err)

	class, err := client.GetClassData(context.Background(), "wizard")
	require.NoError(t, err)
	require.NotNil(t, class)

	assert.Equal(t, "Wizard", class.Name)
	assert.Equal(t, 6, class.HitDie)
	assert.Len(t, class.SavingThrows, 2)
}

func TestListRaces_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	client, err := external.New(&external.Config{})
	require.NoError(t, err)

	races, err := client.ListRaces(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, races)
}
