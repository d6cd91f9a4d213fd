package koch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckGroupsExactMatch(t *testing.T) {
	sent := []string{"KMKKM", "MKMMK"}
	result := CheckGroups(sent, sent)
	for i, pos := range result.ErrorPositions {
		assert.Empty(t, pos, "group %d", i)
	}
	require.Len(t, result.Stats, 2)
	for _, st := range result.Stats {
		assert.Equal(t, 100.0, st.Accuracy)
		assert.Zero(t, st.Errors)
	}
	assert.True(t, result.Stats.Passed())
}

func TestCheckGroupsEmptyReceived(t *testing.T) {
	sent := []string{"KMKKM", "MKMMK"}
	result := CheckGroups(sent, nil)
	assert.Equal(t, []string{"     ", "     "}, result.Received)
	for _, st := range result.Stats {
		assert.Equal(t, 0.0, st.Accuracy)
		assert.Equal(t, st.Total, st.Errors)
	}
	assert.Equal(t, [][]int{{0, 1, 2, 3, 4}, {0, 1, 2, 3, 4}}, result.ErrorPositions)
}

func TestCheckGroupsPositionsAndAccuracy(t *testing.T) {
	result := CheckGroups([]string{"KKKKM", "MMUUK"}, []string{"KKXKM", "MMU", "EXTRA"})
	assert.Equal(t, [][]int{{2}, {3, 4}}, result.ErrorPositions)
	assert.Equal(t, []string{"KKXKM", "MMU  "}, result.Received)

	k, ok := result.Stats.Get("K")
	require.True(t, ok)
	assert.Equal(t, 5, k.Total)
	assert.Equal(t, 2, k.Errors)
	assert.InDelta(t, 60.0, k.Accuracy, 1e-9)

	u, ok := result.Stats.Get("U")
	require.True(t, ok)
	assert.Equal(t, 2, u.Total)
	assert.Equal(t, 1, u.Errors)
	assert.InDelta(t, 50.0, u.Accuracy, 1e-9)
}

func TestCheckGroupsStatsOrder(t *testing.T) {
	result := CheckGroups([]string{"RKMRU"}, []string{"RKMRU"})
	chars := make([]string, 0, len(result.Stats))
	for _, st := range result.Stats {
		chars = append(chars, st.Char)
	}
	assert.Equal(t, []string{"R", "K", "M", "U"}, chars)
}

func TestCheckGroupsIdempotent(t *testing.T) {
	sent := []string{"KMUKR", "RRKMU"}
	recv := []string{"KMUK", "RRKMX"}
	assert.Equal(t, CheckGroups(sent, recv), CheckGroups(sent, recv))
}

func TestCharStatsWeakest(t *testing.T) {
	stats := CharStats{
		{Char: "K", Total: 5, Errors: 1, Accuracy: 80},
		{Char: "M", Total: 5, Errors: 3, Accuracy: 40},
		{Char: "U", Total: 5, Errors: 3, Accuracy: 40},
	}
	weakest, ok := stats.Weakest()
	require.True(t, ok)
	assert.Equal(t, "M", weakest.Char)
	assert.False(t, stats.Passed())

	_, ok = CharStats{}.Weakest()
	assert.False(t, ok)
}

func TestParseTranscription(t *testing.T) {
	assert.Equal(t, []string{"KMK", "MMUR"}, ParseTranscription("  kmk   mmUR "))
	assert.Empty(t, ParseTranscription("   "))
}
