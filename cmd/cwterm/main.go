// Package main provides the CLI entrypoint for cwterm.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/cwterm/internal/config"
	"github.com/verte-zerg/cwterm/internal/console"
	"github.com/verte-zerg/cwterm/internal/keyer"
	"github.com/verte-zerg/cwterm/internal/koch"
	"github.com/verte-zerg/cwterm/internal/model"
	"github.com/verte-zerg/cwterm/internal/session"
	"github.com/verte-zerg/cwterm/internal/shell"
	"github.com/verte-zerg/cwterm/internal/stats"
	"github.com/verte-zerg/cwterm/internal/store"
	"github.com/verte-zerg/cwterm/internal/tx"
)

const (
	defaultWeakWindow  = 20
	defaultCurveWindow = 20
	defaultLogLevel    = "info"
)

var (
	configPath string
	dbPath     string
	logLevel   string
	logFile    string
	mute       bool
	groupCount int
	weakWindow int

	statsSince       string
	statsLast        int
	statsLesson      int
	statsCurveWindow int

	sendWPM    int
	sendEff    int
	sendFreq   int
	sendVolume int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cwterm",
		Short:         "Morse code (CW) training console using the Koch method",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runConsoleCmd,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "config file path")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", config.DefaultDBPath(), "database path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file (default: stderr, or a file in the data dir for the TUI)")
	rootCmd.PersistentFlags().BoolVar(&mute, "mute", false, "do not open the audio device")
	rootCmd.Flags().IntVar(&groupCount, "group-count", koch.DefaultGroupCount, "groups per practice round for a new progress record")
	rootCmd.Flags().IntVar(&weakWindow, "weak-window", defaultWeakWindow, "number of recent rounds to compute weak chars")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newSendCmd())

	return rootCmd
}

// app holds the resources shared by the commands.
type app struct {
	fileCfg config.FileConfig
	logger  *slog.Logger
	store   *store.Store
	keyer   *keyer.Keyer
	tx      *tx.Tx
	closeFn func()
}

func (a *app) Close() {
	if a.keyer != nil {
		if err := a.keyer.Close(); err != nil {
			logErrf("failed to close audio: %v\n", err)
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			logErrf("failed to close db: %v\n", err)
		}
	}
	if a.closeFn != nil {
		a.closeFn()
	}
}

// openApp loads the config, sets up logging and opens the store and the
// transmitter. logToFile routes logs away from a terminal owned by the TUI.
func openApp(cmd *cobra.Command, logToFile bool) (*app, error) {
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-file", &logFile, fileCfg.Log.File)
	if logToFile && logFile == "" {
		logFile = config.DefaultLogPath()
	}

	logger, closeLog, err := setupLogger(logLevel, logFile)
	if err != nil {
		return nil, err
	}
	a := &app{fileCfg: fileCfg, logger: logger, closeFn: closeLog}

	a.store, err = store.Open(dbPath)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to open db: %w", err)
	}

	var sink keyer.Sink = keyer.SilentSink{}
	if !mute {
		audio, err := keyer.NewAudioSink()
		if err != nil {
			logger.Warn("audio output unavailable, playing silently", "err", err)
		} else {
			sink = audio
		}
	}
	a.keyer = keyer.New(sink, logger)

	a.tx, err = tx.New(a.keyer, a.store, txDefaults(fileCfg.Tx), logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// txDefaults seeds the tx configuration stored on first start.
func txDefaults(cfg config.TxConfig) model.TxConfig {
	out := tx.DefaultConfig
	for _, v := range []struct {
		dst *int
		src *int
	}{
		{&out.WPM, cfg.WPM},
		{&out.Eff, cfg.Eff},
		{&out.Freq, cfg.Freq},
		{&out.Volume, cfg.Volume},
	} {
		if v.src != nil {
			*v.dst = *v.src
		}
	}
	return out
}

func runConsoleCmd(cmd *cobra.Command, _ []string) error {
	interactive := term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))

	a, err := openApp(cmd, interactive)
	if err != nil {
		return err
	}
	defer a.Close()

	applyIntConfig(cmd, "group-count", &groupCount, a.fileCfg.Koch.GroupCount)
	applyIntConfig(cmd, "weak-window", &weakWindow, a.fileCfg.Koch.WeakWindow)
	if groupCount <= 0 {
		return fmt.Errorf("--group-count must be > 0")
	}
	if weakWindow <= 0 {
		return fmt.Errorf("--weak-window must be > 0")
	}
	logger := a.logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	type ui interface {
		session.Display
		session.LineReader
		session.KeyInterceptor
	}
	var (
		current atomic.Pointer[session.Session]
		tui     *console.TUI
		out     ui
	)
	if interactive {
		tui = console.NewTUI(func() console.Status {
			return consoleStatus(a.tx, current.Load())
		})
		out = tui
		for _, release := range []func(){
			a.tx.OnConfChange(func(tx.ConfChangeEvent) { tui.Refresh() }),
			a.tx.OnStart(func(tx.StartEvent) { tui.Refresh() }),
			a.tx.OnStop(func(tx.StopEvent) { tui.Refresh() }),
		} {
			defer release()
		}
	} else {
		out = console.NewPlain(os.Stdin, os.Stdout)
	}

	sess, err := session.New(session.Deps{
		Tx:                a.tx,
		Lines:             out,
		Keys:              out,
		Settings:          a.store,
		Display:           out,
		History:           a.store,
		Builder:           koch.NewBuilder(),
		Logger:            logger,
		DefaultGroupCount: groupCount,
		WeakWindow:        weakWindow,
	})
	if err != nil {
		return err
	}
	current.Store(sess)
	sh := shell.New(shell.Deps{
		Tx:          a.tx,
		Trainer:     sess,
		Lines:       out,
		Keys:        out,
		Display:     out,
		History:     a.store,
		Logger:      logger,
		StatsWindow: defaultCurveWindow,
	})

	if !interactive {
		return sh.Run(ctx)
	}

	shellErr := make(chan error, 1)
	go func() {
		out.Writeln("cwterm: type 'help' for commands, 'exit' to quit.")
		shellErr <- sh.Run(ctx)
		tui.Quit()
	}()
	if err := tui.Run(); err != nil {
		stop()
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	stop()
	a.tx.Stop()
	return <-shellErr
}

func consoleStatus(t *tx.Tx, sess *session.Session) console.Status {
	st := console.Status{Tx: t.Config(), Sending: t.Busy()}
	if sess == nil {
		return st
	}
	p := sess.Progress()
	st.Lesson = p.CurrentLesson
	st.CharToImprove = p.CharToImprove
	if lesson, err := koch.LessonChars(p.CurrentLesson, ""); err == nil {
		st.Main = lesson.Main
	}
	return st
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := configPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show practice history",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N rounds")
	cmd.Flags().IntVar(&statsLesson, "lesson", -1, "lesson filter (0 for custom rounds)")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	cfg := model.StatsConfig{Since: sinceTime, Last: statsLast, Lesson: statsLesson}
	report, err := stats.BuildReport(cmd.Context(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}
	return report.Render(cmd.OutOrStdout(), statsCurveWindow)
}

func newSendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "send [flags] <message>",
		Short: "Send a message in Morse code and exit",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSendCmd,
	}
	cmd.Flags().IntVar(&sendWPM, "wpm", 0, "character speed for this message")
	cmd.Flags().IntVar(&sendEff, "eff", 0, "effective speed for this message")
	cmd.Flags().IntVar(&sendFreq, "freq", 0, "tone frequency for this message")
	cmd.Flags().IntVar(&sendVolume, "volume", 0, "volume (0-100) for this message")
	return cmd
}

func runSendCmd(cmd *cobra.Command, args []string) error {
	params, err := sendParams(cmd)
	if err != nil {
		return err
	}
	a, err := openApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	a.tx.Send(strings.Join(args, " "), params)
	if err := a.tx.Wait(ctx); err != nil {
		a.tx.Stop()
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	return nil
}

func sendParams(cmd *cobra.Command) (model.PlaybackParams, error) {
	var p model.PlaybackParams
	for _, f := range []struct {
		name string
		val  int
		dst  **int
	}{
		{"wpm", sendWPM, &p.WPM},
		{"eff", sendEff, &p.Eff},
		{"freq", sendFreq, &p.Freq},
		{"volume", sendVolume, &p.Volume},
	} {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		if err := tx.Validate(f.name, f.val); err != nil {
			return model.PlaybackParams{}, fmt.Errorf("--%s: %w", f.name, err)
		}
		v := f.val
		*f.dst = &v
	}
	return p, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# cwterm configuration
# Uncomment a value to enable it. CLI flags override config values.

[tx]
# Initial transmitter settings, used until changed with 'tx config --set'.
# wpm = %d                # Character speed (words per minute)
# eff = %d                 # Effective (Farnsworth) speed, 0 disables it
# freq = %d              # Tone frequency (Hz)
# volume = %d             # Volume (0-100)

[koch]
# group-count = %d        # Groups per practice round for a new learner
# weak-window = %d        # Number of recent rounds to compute weak chars

[log]
# level = %q          # debug, info, warn or error
# file = ""               # Log file path
`,
		tx.DefaultConfig.WPM,
		tx.DefaultConfig.Eff,
		tx.DefaultConfig.Freq,
		tx.DefaultConfig.Volume,
		koch.DefaultGroupCount,
		defaultWeakWindow,
		defaultLogLevel,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
