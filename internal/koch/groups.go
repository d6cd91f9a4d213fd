package koch

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Builder produces randomized practice groups.
type Builder struct {
	rnd *rand.Rand
}

// NewBuilder returns a Builder seeded with the current time.
func NewBuilder() *Builder {
	return NewBuilderWithSource(rand.NewSource(time.Now().UnixNano()))
}

// NewBuilderWithSource returns a Builder drawing from src.
func NewBuilderWithSource(src rand.Source) *Builder {
	return &Builder{rnd: rand.New(src)}
}

type charDistribution struct {
	char        string
	repetitions int
}

// Build returns groupCount groups of GroupLen characters. Half of the slots
// (rounded up) go to main; the rest are spread over secondary so that every
// secondary char used appears at least MinCharRepetitions times, dropping a
// random subset of secondary chars when there are too few slots.
func (b *Builder) Build(main string, secondary []string, groupCount int) ([]string, error) {
	if err := validateGroupInput(main, secondary, groupCount); err != nil {
		return nil, err
	}

	total := groupCount * GroupLen
	secondarySlots := total / 2
	mainSlots := total - secondarySlots

	chars := secondary
	repetitions := secondarySlots / len(chars)
	remainder := secondarySlots % len(chars)

	if repetitions < MinCharRepetitions {
		keep := secondarySlots / MinCharRepetitions
		if keep < 1 {
			keep = 1
		}
		chars = shuffle(b.rnd, secondary)[:keep]
		repetitions = secondarySlots / keep
		remainder = secondarySlots % keep
	}

	flat := make([]string, 0, total)
	flat = appendRepeated(flat, main, mainSlots)
	for _, dist := range secondaryDistribution(chars, repetitions, remainder) {
		flat = appendRepeated(flat, dist.char, dist.repetitions)
	}

	return splitGroups(shuffle(b.rnd, flat)), nil
}

func validateGroupInput(main string, secondary []string, groupCount int) error {
	if main == "" {
		return fmt.Errorf("%w: main char is empty", ErrInvalidGroupInput)
	}
	if len(secondary) == 0 {
		return fmt.Errorf("%w: secondary chars are empty", ErrInvalidGroupInput)
	}
	if groupCount <= 0 {
		return fmt.Errorf("%w: group count must be > 0, got %d", ErrInvalidGroupInput, groupCount)
	}
	seen := make(map[string]struct{}, len(secondary))
	for _, ch := range secondary {
		if ch == main {
			return fmt.Errorf("%w: main char %q repeated in secondary chars", ErrInvalidGroupInput, main)
		}
		if _, dup := seen[ch]; dup {
			return fmt.Errorf("%w: duplicate secondary char %q", ErrInvalidGroupInput, ch)
		}
		seen[ch] = struct{}{}
	}
	return nil
}

func secondaryDistribution(chars []string, repetitions, remainder int) []charDistribution {
	dist := make([]charDistribution, 0, len(chars))
	for _, ch := range chars {
		dist = append(dist, charDistribution{char: ch, repetitions: repetitions})
	}
	for i := 0; i < remainder; i++ {
		dist[i].repetitions++
	}
	return dist
}

func appendRepeated(dst []string, ch string, n int) []string {
	for i := 0; i < n; i++ {
		dst = append(dst, ch)
	}
	return dst
}

// shuffle returns a Fisher-Yates shuffled copy of list.
func shuffle(rnd *rand.Rand, list []string) []string {
	out := make([]string, len(list))
	copy(out, list)
	for i := len(out) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func splitGroups(chars []string) []string {
	groups := make([]string, 0, (len(chars)+GroupLen-1)/GroupLen)
	for i := 0; i < len(chars); i += GroupLen {
		end := i + GroupLen
		if end > len(chars) {
			end = len(chars)
		}
		groups = append(groups, strings.Join(chars[i:end], ""))
	}
	return groups
}
