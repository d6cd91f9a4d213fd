package koch

import "strings"

// CharStat holds scoring counters for a single character.
type CharStat struct {
	Char     string
	Total    int
	Errors   int
	Accuracy float64
}

func (c *CharStat) record(ok bool) {
	c.Total++
	if !ok {
		c.Errors++
	}
	c.Accuracy = float64(c.Total-c.Errors) * 100 / float64(c.Total)
}

// CharStats is ordered by first appearance in the sent groups.
type CharStats []CharStat

// Get returns the stats for ch.
func (s CharStats) Get(ch string) (CharStat, bool) {
	for _, st := range s {
		if st.Char == ch {
			return st, true
		}
	}
	return CharStat{}, false
}

// Passed reports whether every character reached PassAccuracy.
func (s CharStats) Passed() bool {
	for _, st := range s {
		if st.Accuracy < PassAccuracy {
			return false
		}
	}
	return true
}

// Weakest returns the lowest-accuracy character; ties keep the earliest.
func (s CharStats) Weakest() (CharStat, bool) {
	if len(s) == 0 {
		return CharStat{}, false
	}
	weakest := s[0]
	for _, st := range s[1:] {
		if st.Accuracy < weakest.Accuracy {
			weakest = st
		}
	}
	return weakest, true
}

// Totals sums characters and errors over all stats.
func (s CharStats) Totals() (total, errors int) {
	for _, st := range s {
		total += st.Total
		errors += st.Errors
	}
	return total, errors
}

// PracticeResult is the outcome of comparing sent and received groups.
type PracticeResult struct {
	Sent           []string
	Received       []string
	ErrorPositions [][]int
	Stats          CharStats
}

// Accuracy returns the overall percentage of correctly received characters.
func (r PracticeResult) Accuracy() float64 {
	total, errs := r.Stats.Totals()
	if total == 0 {
		return 0
	}
	return float64(total-errs) * 100 / float64(total)
}

// CheckGroups scores received against sent group by group. Missing received
// groups count as blank; extra received groups are ignored.
func CheckGroups(sent, received []string) PracticeResult {
	result := PracticeResult{
		Sent:           make([]string, 0, len(sent)),
		Received:       make([]string, 0, len(sent)),
		ErrorPositions: make([][]int, 0, len(sent)),
	}
	index := map[string]int{}

	for i, sentGroup := range sent {
		recvGroup := ""
		if i < len(received) {
			recvGroup = received[i]
		}
		sentRunes := []rune(sentGroup)
		recvRunes := padRunes([]rune(recvGroup), max(GroupLen, len(sentRunes)))

		result.Sent = append(result.Sent, sentGroup)
		result.Received = append(result.Received, string(recvRunes))

		positions := []int{}
		for c, r := range sentRunes {
			ch := string(r)
			idx, ok := index[ch]
			if !ok {
				idx = len(result.Stats)
				index[ch] = idx
				result.Stats = append(result.Stats, CharStat{Char: ch})
			}
			match := r == recvRunes[c]
			if !match {
				positions = append(positions, c)
			}
			result.Stats[idx].record(match)
		}
		result.ErrorPositions = append(result.ErrorPositions, positions)
	}
	return result
}

// ParseTranscription splits a typed line into upper-case groups.
func ParseTranscription(line string) []string {
	return strings.Fields(strings.ToUpper(line))
}

func padRunes(runes []rune, n int) []rune {
	for len(runes) < n {
		runes = append(runes, ' ')
	}
	return runes
}
