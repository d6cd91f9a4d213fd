package keyer

import "time"

// Timing holds element durations derived from the PARIS standard word.
type Timing struct {
	Dit     time.Duration
	Dah     time.Duration
	CharGap time.Duration
	WordGap time.Duration
}

// NewTiming returns timings for character speed wpm. When 0 < eff < wpm the
// gaps between characters and words are stretched (Farnsworth spacing) so
// that the overall rate is eff words per minute.
func NewTiming(wpm, eff int) Timing {
	if wpm <= 0 {
		wpm = 1
	}
	dit := 1200 * time.Millisecond / time.Duration(wpm)
	t := Timing{
		Dit:     dit,
		Dah:     3 * dit,
		CharGap: 3 * dit,
		WordGap: 7 * dit,
	}
	if eff > 0 && eff < wpm {
		// ARRL Farnsworth formula: total spacing delay per PARIS word.
		delay := (60*float64(wpm) - 37.2*float64(eff)) / (float64(wpm) * float64(eff))
		unit := time.Duration(delay / 19 * float64(time.Second))
		t.CharGap = 3 * unit
		t.WordGap = 7 * unit
	}
	return t
}
