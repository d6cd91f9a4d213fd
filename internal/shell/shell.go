// Package shell implements the interactive command loop of the console.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/cwterm/internal/model"
	"github.com/verte-zerg/cwterm/internal/session"
	"github.com/verte-zerg/cwterm/internal/stats"
)

// Prompt is shown before every command line.
const Prompt = "cw-console: "

// Transmitter is the part of the transmitter the commands drive.
type Transmitter interface {
	Send(text string, params model.PlaybackParams)
	Stop()
	Wait(ctx context.Context) error
	Config() model.TxConfig
	Set(property string, value int) error
}

// Trainer runs the Koch curriculum commands.
type Trainer interface {
	Listen(ctx context.Context, params model.PlaybackParams) error
	Practice(ctx context.Context, params model.PlaybackParams) error
	PracticeCustomChars(ctx context.Context, main string, secondary []string, params model.PlaybackParams, groupCount int) error
	PracticeWeak(ctx context.Context, params model.PlaybackParams, groupCount int) error
	SetLesson(n int) error
	ShowLesson(n int) error
	ListLessons()
	ShowConfig()
	SetConfig(key string, value int) error
}

// Deps are the collaborators of a Shell. History and Logger are optional.
type Deps struct {
	Tx      Transmitter
	Trainer Trainer
	Lines   session.LineReader
	Keys    session.KeyInterceptor
	Display session.Display
	History stats.HistoryReader
	Logger  *slog.Logger

	// StatsWindow is the moving average window of the stats trend.
	StatsWindow int
}

// Shell reads command lines and dispatches them.
type Shell struct {
	deps   Deps
	logger *slog.Logger
}

var errExit = errors.New("exit")

// New returns a Shell.
func New(deps Deps) *Shell {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if deps.StatsWindow <= 0 {
		deps.StatsWindow = 20
	}
	return &Shell{deps: deps, logger: logger}
}

// Run reads and executes lines until ctx is done, the input ends or the
// user types exit.
func (s *Shell) Run(ctx context.Context) error {
	for {
		line, err := s.deps.Lines.ReadLine(ctx, Prompt)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
		if err := s.Exec(ctx, line); err != nil {
			if errors.Is(err, errExit) || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	}
}

// Exec runs one command line. Command errors are printed and swallowed so
// the loop continues; only exit and context cancellation are returned.
func (s *Shell) Exec(ctx context.Context, line string) error {
	argv, err := Tokenize(line)
	if err != nil {
		s.printErr(err)
		return nil
	}
	if len(argv) == 0 {
		return nil
	}

	switch argv[0] {
	case "exit", "quit":
		return errExit
	case "tx", "koch", "help":
	default:
		s.deps.Display.Writeln("command not found: " + argv[0])
		return nil
	}

	root := s.newRootCmd()
	root.SetArgs(argv)
	s.logger.Debug("exec", "argv", argv)
	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return err
		}
		s.printErr(err)
	}
	return nil
}

func (s *Shell) printErr(err error) {
	s.deps.Display.Writeln(fmt.Sprintf("Error: %v", err))
}

func (s *Shell) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cw-console",
		Short:         "Morse code training console",
		Long:          appHelp,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(displayWriter{s.deps.Display})
	root.SetErr(displayWriter{s.deps.Display})
	root.SetFlagErrorFunc(flagError)

	root.AddCommand(s.newTxCmd())
	root.AddCommand(s.newKochCmd())
	return root
}

const appHelp = `Train Morse code with the Koch method.

Commands:
  tx     configure the transmitter and send messages
  koch   Koch method lessons, listening and practice
  help   show help for a command
  exit   leave the console`

// displayWriter adapts a Display to io.Writer for cobra output.
type displayWriter struct {
	d session.Display
}

func (w displayWriter) Write(p []byte) (int, error) {
	w.d.Write(string(p))
	return len(p), nil
}

func unknownSubcommand(parent string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}
		return fmt.Errorf("'%s' is not a %s command. See '%s --help'", args[0], parent, parent)
	}
}
