package shell

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/cwterm/internal/model"
	"github.com/verte-zerg/cwterm/internal/tx"
)

type playbackFlags struct {
	wpm    int
	eff    int
	freq   int
	volume int
}

func addPlaybackFlags(cmd *cobra.Command) *playbackFlags {
	f := &playbackFlags{}
	cmd.Flags().IntVar(&f.wpm, "wpm", 0, "character speed in words per minute for this play")
	cmd.Flags().IntVar(&f.eff, "eff", 0, "effective (Farnsworth) speed for this play")
	cmd.Flags().IntVar(&f.freq, "freq", 0, "tone frequency in Hertz for this play")
	cmd.Flags().IntVar(&f.volume, "volume", 0, "volume (0-100) for this play")
	return f
}

// params returns overrides for the flags set on the command line only.
func (f *playbackFlags) params(cmd *cobra.Command) (model.PlaybackParams, error) {
	var p model.PlaybackParams
	for _, item := range []struct {
		name string
		val  int
		dst  **int
	}{
		{"wpm", f.wpm, &p.WPM},
		{"eff", f.eff, &p.Eff},
		{"freq", f.freq, &p.Freq},
		{"volume", f.volume, &p.Volume},
	} {
		if !cmd.Flags().Changed(item.name) {
			continue
		}
		if err := tx.Validate(item.name, item.val); err != nil {
			return model.PlaybackParams{}, err
		}
		v := item.val
		*item.dst = &v
	}
	return p, nil
}

func flagError(_ *cobra.Command, err error) error {
	return fmt.Errorf("%w: %v", ErrMalformedArgument, err)
}
