package shell

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/cwterm/internal/model"
	"github.com/verte-zerg/cwterm/internal/session"
	"github.com/verte-zerg/cwterm/internal/stats"
)

const kochLong = `The Koch method teaches Morse code at full character speed. It starts
with two characters and adds one more each time the current lesson is
copied with at least 80% accuracy on every character.`

func (s *Shell) newKochCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "koch <command>",
		Short: "Koch method lessons, listening and practice",
		Long:  kochLong,
		RunE:  unknownSubcommand("koch"),
	}
	cmd.AddCommand(s.newKochHelpCmd(cmd))
	cmd.AddCommand(s.newKochConfigCmd())
	cmd.AddCommand(s.newKochLessonCmd())
	cmd.AddCommand(s.newKochListenCmd())
	cmd.AddCommand(s.newKochPracticeCmd())
	cmd.AddCommand(s.newKochStatsCmd())
	return cmd
}

func (s *Shell) newKochHelpCmd(koch *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:   "help [command]",
		Short: "Show help for a koch command",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 {
				return koch.Help()
			}
			for _, sub := range koch.Commands() {
				if sub.Name() == args[0] {
					return sub.Help()
				}
			}
			return fmt.Errorf("'%s' is not a koch command. See 'koch --help'", args[0])
		},
	}
}

func (s *Shell) newKochConfigCmd() *cobra.Command {
	var show bool
	var set bool
	cmd := &cobra.Command{
		Use:   "config [--show] [--set <key> <value>]",
		Short: "Show or set Koch settings (group-count)",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case set && !show:
				if len(args) != 2 {
					return fmt.Errorf("usage: koch config --set <key> <value>")
				}
				value, err := parseInt(args[0], args[1])
				if err != nil {
					return err
				}
				if err := s.deps.Trainer.SetConfig(args[0], value); err != nil {
					return err
				}
				s.deps.Display.Writeln(fmt.Sprintf("%s set to %d", args[0], value))
				return nil
			case show && !set && len(args) == 0:
				s.deps.Trainer.ShowConfig()
				return nil
			default:
				return fmt.Errorf("unknown config command. See 'koch help config'")
			}
		},
	}
	cmd.Flags().BoolVar(&show, "show", false, "show the Koch settings")
	cmd.Flags().BoolVar(&set, "set", false, "set <key> <value>; keys: "+strings.Join(session.ConfigKeys, ", "))
	return cmd
}

func (s *Shell) newKochLessonCmd() *cobra.Command {
	var list bool
	var show string
	cmd := &cobra.Command{
		Use:   "lesson [--list] [--show <n>] [n]",
		Short: "List lessons, show one or set the current lesson",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case list:
				s.deps.Trainer.ListLessons()
				return nil
			case cmd.Flags().Changed("show"):
				n, err := parseInt("lesson", show)
				if err != nil {
					return err
				}
				return s.deps.Trainer.ShowLesson(n)
			case len(args) == 1:
				n, err := parseInt("lesson", args[0])
				if err != nil {
					return err
				}
				return s.deps.Trainer.SetLesson(n)
			default:
				return s.deps.Trainer.ShowLesson(0)
			}
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list all lessons and their status")
	cmd.Flags().StringVar(&show, "show", "", "show the characters of lesson <n>")
	return cmd
}

func (s *Shell) newKochListenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listen [--wpm n] [--eff n] [--freq n] [--volume n]",
		Short: "Play the character taught in the current lesson until a key is pressed",
		Args:  cobra.NoArgs,
	}
	flags := addPlaybackFlags(cmd)
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		params, err := flags.params(cmd)
		if err != nil {
			return err
		}
		return s.deps.Trainer.Listen(cmd.Context(), params)
	}
	return cmd
}

func (s *Shell) newKochPracticeCmd() *cobra.Command {
	var (
		mainChar       string
		secondaryChars string
		groupsCount    int
		weak           bool
	)
	cmd := &cobra.Command{
		Use:   "practice [--main-char c --secondary-chars s] [--groups-count n] [--weak] [--wpm n] [--eff n] [--freq n] [--volume n]",
		Short: "Copy groups of the current lesson, custom characters or weak characters",
		Args:  cobra.NoArgs,
	}
	flags := addPlaybackFlags(cmd)
	cmd.Flags().StringVar(&mainChar, "main-char", "", "main character of custom groups")
	cmd.Flags().StringVar(&secondaryChars, "secondary-chars", "", "secondary characters of custom groups")
	cmd.Flags().IntVar(&groupsCount, "groups-count", 0, "number of groups for custom or weak practice")
	cmd.Flags().BoolVar(&weak, "weak", false, "practice the weakest characters from history")
	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		params, err := flags.params(cmd)
		if err != nil {
			return err
		}
		if groupsCount < 0 {
			return fmt.Errorf("groups count must be > 0, got %d", groupsCount)
		}
		ctx := cmd.Context()
		custom := mainChar != "" || secondaryChars != ""
		switch {
		case weak && custom:
			return fmt.Errorf("--weak cannot be combined with custom characters")
		case weak:
			return s.deps.Trainer.PracticeWeak(ctx, params, groupsCount)
		case custom:
			if mainChar == "" || secondaryChars == "" {
				return fmt.Errorf("main char and secondary chars should both be specified for custom groups")
			}
			return s.deps.Trainer.PracticeCustomChars(ctx, mainChar, splitChars(secondaryChars), params, groupsCount)
		default:
			return s.deps.Trainer.Practice(ctx, params)
		}
	}
	return cmd
}

func splitChars(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range strings.ToUpper(s) {
		if r == ' ' {
			continue
		}
		out = append(out, string(r))
	}
	return out
}

func (s *Shell) newKochStatsCmd() *cobra.Command {
	var last int
	var lesson int
	cmd := &cobra.Command{
		Use:   "stats [--last n] [--lesson n]",
		Short: "Show practice history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if s.deps.History == nil {
				return fmt.Errorf("practice history is not available")
			}
			report, err := stats.BuildReport(cmd.Context(), s.deps.History, model.StatsConfig{Last: last, Lesson: lesson})
			if err != nil {
				return err
			}
			return report.Render(cmd.OutOrStdout(), s.deps.StatsWindow)
		},
	}
	cmd.Flags().IntVar(&last, "last", 0, "only the last n rounds")
	cmd.Flags().IntVar(&lesson, "lesson", -1, "only rounds of lesson n (0 for custom rounds)")
	return cmd
}
