package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/Dosada05/league-system/brackets"
	"github.com/Dosada05/league-system/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityKey_UnmarshalJSON(t *testing.T) {
	var specs []GroupSpec
	err := json.Unmarshal([]byte(`[{"id": 3, "name": "A", "players": []}, {"id": " g2 ", "players": []}, {"players": []}]`), &specs)
	require.NoError(t, err)
	assert.Equal(t, EntityKey("3"), specs[0].Key)
	assert.Equal(t, EntityKey("g2"), specs[1].Key)
	assert.Equal(t, EntityKey(""), specs[2].Key)

	var bad GroupSpec
	assert.Error(t, json.Unmarshal([]byte(`{"id": {"nested": true}}`), &bad))
}

func TestPlayerRef_UnmarshalJSON(t *testing.T) {
	var group GroupSpec
	err := json.Unmarshal([]byte(`{"id":"g1","players":[
		{"id":1,"name":"Ann","email":"a@x.io","skill_rating":3.5},
		{"id":2,"skill_level":4,"skill_rating":1},
		{"id":3,"registered_at":"2025-06-01T10:00:00Z"}]}`), &group)
	require.NoError(t, err)
	require.Len(t, group.Players, 3)

	assert.Equal(t, 1, group.Players[0].ID)
	assert.Equal(t, "Ann", group.Players[0].Name)
	require.NotNil(t, group.Players[0].SkillLevel)
	assert.Equal(t, 3.5, *group.Players[0].SkillLevel)

	require.NotNil(t, group.Players[1].SkillLevel)
	assert.Equal(t, 4.0, *group.Players[1].SkillLevel, "skill_level wins over skill_rating")

	assert.Equal(t, 3, group.Players[2].ID)
	assert.Nil(t, group.Players[2].SkillLevel)

	var bad PlayerRef
	assert.Error(t, json.Unmarshal([]byte(`{"id":"one"}`), &bad))
	assert.Error(t, json.Unmarshal([]byte(`[1]`), &bad))
}

func TestComposeGroups(t *testing.T) {
	composer := NewGroupComposer(brackets.NewRoundRobinGenerator(), nil)

	t.Run("numbers groups and schedules every pair", func(t *testing.T) {
		groups, err := composer.ComposeGroups(context.Background(), []GroupSpec{
			{Key: "x", Players: players(1, 2, 3, 4, 5)},
			{Players: players(6, 7)},
		}, models.GroupingRandom)
		require.NoError(t, err)
		require.Len(t, groups, 2)

		assert.Equal(t, 1, groups[0].Number)
		assert.Equal(t, "Group 1", groups[0].Name)
		assert.Len(t, groups[0].Schedule, 10)
		assert.Equal(t, EntityKey("2"), groups[1].Key)
		assert.Len(t, groups[1].Schedule, 1)

		idx := groups[0].PairIndex()
		assert.Len(t, idx, 10)
		_, ok := idx[models.NewPairKey(5, 1)]
		assert.True(t, ok)
	})

	t.Run("rejects a repeated group key", func(t *testing.T) {
		_, err := composer.ComposeGroups(context.Background(), []GroupSpec{
			{Key: "a", Players: players(1, 2)},
			{Key: "a", Players: players(3, 4)},
		}, models.GroupingManual)
		assert.ErrorIs(t, err, ErrGroupSpecInvalid)
	})

	t.Run("rejects non-positive player ids", func(t *testing.T) {
		_, err := composer.ComposeGroups(context.Background(), []GroupSpec{{Players: players(1, 0)}}, models.GroupingManual)
		assert.ErrorIs(t, err, ErrGroupSpecInvalid)
	})

	t.Run("cancelled context is returned as is", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := composer.ComposeGroups(ctx, []GroupSpec{{Players: players(1, 2, 3)}}, models.GroupingManual)
		assert.ErrorIs(t, err, context.Canceled)
		assert.NotErrorIs(t, err, ErrGroupSpecInvalid)
	})
}
