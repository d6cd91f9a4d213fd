package shell

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/cwterm/internal/theme"
	"github.com/verte-zerg/cwterm/internal/tx"
)

func (s *Shell) newTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx <command>",
		Short: "Transmitter configuration and messages",
		Example: `  tx config
  tx config --set wpm 20
  tx send "CQ CQ CQ"
  tx send --eff 15 --wpm 20 "CQ CQ CQ"`,
		RunE: unknownSubcommand("tx"),
	}
	cmd.AddCommand(s.newTxConfigCmd())
	cmd.AddCommand(s.newTxSendCmd())
	return cmd
}

func (s *Shell) newTxConfigCmd() *cobra.Command {
	var show bool
	var set bool
	cmd := &cobra.Command{
		Use:   "config [--show] [--set <property> <value>]",
		Short: "Show or set the transmitter configuration (wpm, eff, freq, volume)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !set {
				if len(args) > 0 {
					return fmt.Errorf("unexpected argument %q", args[0])
				}
				s.showTxConfig()
				return nil
			}
			if show {
				return fmt.Errorf("--show and --set cannot be combined")
			}
			if len(args) != 2 {
				return fmt.Errorf("usage: tx config --set <property> <value>")
			}
			value, err := parseInt(args[0], args[1])
			if err != nil {
				return err
			}
			if err := s.deps.Tx.Set(args[0], value); err != nil {
				return err
			}
			s.deps.Display.Writeln(fmt.Sprintf("%s set to %s", args[0], theme.Info.Render(args[1])))
			return nil
		},
	}
	cmd.Flags().BoolVar(&show, "show", false, "show the configuration")
	cmd.Flags().BoolVar(&set, "set", false, "set <property> <value>")
	return cmd
}

func (s *Shell) showTxConfig() {
	conf := s.deps.Tx.Config()
	values := map[string]int{"wpm": conf.WPM, "eff": conf.Eff, "freq": conf.Freq, "volume": conf.Volume}
	s.deps.Display.Writeln(theme.Info.Render("tx configuration:"))
	for _, key := range tx.Properties {
		s.deps.Display.Writeln(fmt.Sprintf("  %-7s %s", key, theme.Info.Render(fmt.Sprint(values[key]))))
	}
}

func (s *Shell) newTxSendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send [--wpm n] [--eff n] [--freq n] [--volume n] <message>",
		Short: "Send a message in Morse code; any key stops it",
		Args:  cobra.MinimumNArgs(1),
	}
	flags := addPlaybackFlags(cmd)
	cmd.Flags().SetInterspersed(false)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		params, err := flags.params(cmd)
		if err != nil {
			return err
		}
		message := strings.Join(args, " ")
		release := s.deps.Keys.InterceptKeys(func(string) { s.deps.Tx.Stop() })
		defer release()
		s.deps.Tx.Send(message, params)
		if err := s.deps.Tx.Wait(cmd.Context()); err != nil {
			s.deps.Tx.Stop()
			return err
		}
		return nil
	}
	return cmd
}
