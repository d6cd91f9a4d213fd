package koch

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countChars(groups []string) map[string]int {
	counts := map[string]int{}
	for _, r := range strings.Join(groups, "") {
		counts[string(r)]++
	}
	return counts
}

func TestBuildEvenSplit(t *testing.T) {
	b := NewBuilderWithSource(rand.NewSource(1))
	groups, err := b.Build("K", []string{"M"}, 4)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"K": 10, "M": 10}, countChars(groups))
}

func TestBuildOddSplitFavorsMain(t *testing.T) {
	b := NewBuilderWithSource(rand.NewSource(2))
	groups, err := b.Build("K", []string{"M"}, 5)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"K": 13, "M": 12}, countChars(groups))
}

func TestBuildMinRepetitionDropsChars(t *testing.T) {
	b := NewBuilderWithSource(rand.NewSource(3))
	groups, err := b.Build("A", []string{"B", "C", "D", "E"}, 2)
	require.NoError(t, err)
	counts := countChars(groups)
	assert.Len(t, counts, 2)
	for ch, n := range counts {
		assert.GreaterOrEqual(t, n, MinCharRepetitions, "char %q", ch)
	}
}

func TestBuildConservesTotalAndMinimum(t *testing.T) {
	b := NewBuilderWithSource(rand.NewSource(4))
	for lesson := 1; lesson <= LessonCount; lesson++ {
		l, err := LessonChars(lesson, "")
		require.NoError(t, err)
		for _, count := range []int{2, 7, 12, 25} {
			groups, err := b.Build(l.Main, l.Secondary, count)
			require.NoError(t, err)

			counts := countChars(groups)
			total := 0
			for _, n := range counts {
				total += n
			}
			require.Equal(t, count*GroupLen, total, "lesson %d count %d", lesson, count)

			mainSlots := count*GroupLen - count*GroupLen/2
			assert.Equal(t, mainSlots, counts[l.Main], "lesson %d count %d", lesson, count)
			for ch, n := range counts {
				if ch == l.Main {
					continue
				}
				assert.GreaterOrEqual(t, n, MinCharRepetitions, "lesson %d count %d char %q", lesson, count, ch)
			}
		}
	}
}

func TestBuildGroupShape(t *testing.T) {
	b := NewBuilderWithSource(rand.NewSource(5))
	groups, err := b.Build("R", []string{"K", "M", "U"}, 12)
	require.NoError(t, err)
	require.Len(t, groups, 12)
	for _, g := range groups {
		assert.Len(t, g, GroupLen)
	}
}

func TestBuildRejectsBadInput(t *testing.T) {
	b := NewBuilderWithSource(rand.NewSource(6))
	cases := []struct {
		name      string
		main      string
		secondary []string
		count     int
	}{
		{"empty secondary", "K", nil, 4},
		{"zero count", "K", []string{"M"}, 0},
		{"negative count", "K", []string{"M"}, -3},
		{"main in secondary", "K", []string{"M", "K"}, 4},
		{"duplicate secondary", "K", []string{"M", "M"}, 4},
		{"empty main", "", []string{"M"}, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := b.Build(tc.main, tc.secondary, tc.count)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidGroupInput))
		})
	}
}

func TestSplitGroupsKeepsShortTail(t *testing.T) {
	groups := splitGroups(strings.Split("ABCDEFG", ""))
	if len(groups) != 2 || groups[0] != "ABCDE" || groups[1] != "FG" {
		t.Fatalf("unexpected groups: %v", groups)
	}
}

func TestShuffleIsPermutation(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	in := []string{"A", "B", "C", "D", "E", "F"}
	out := shuffle(rnd, in)
	if len(out) != len(in) {
		t.Fatalf("expected %d items, got %d", len(in), len(out))
	}
	assert.ElementsMatch(t, in, out)
	assert.Equal(t, []string{"A", "B", "C", "D", "E", "F"}, in, "input must not be modified")
}
