// Package main provides the CLI entrypoint for typedesk.
package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/verte-zerg/typedesk/internal/config"
	"github.com/verte-zerg/typedesk/internal/generator"
	"github.com/verte-zerg/typedesk/internal/logging"
	"github.com/verte-zerg/typedesk/internal/model"
	"github.com/verte-zerg/typedesk/internal/server"
	"github.com/verte-zerg/typedesk/internal/stats"
	"github.com/verte-zerg/typedesk/internal/store"
	"github.com/verte-zerg/typedesk/internal/submit"
	"github.com/verte-zerg/typedesk/internal/tui"
	"github.com/verte-zerg/typedesk/internal/wordlist"
)

const (
	defaultCurveWindow = 10
	defaultMissedTop   = 10
	defaultTermWidth   = 80
)

var (
	logLevel string

	practiceSubject  string
	practiceLang     string
	practiceWPM      int
	practiceDuration int

	passageSubject string
	passageLang    string
	passageWPM     int
	passageWords   int
	passageSeed    int64

	historySubject     string
	historySince       string
	historyLast        int
	historyCurveWindow int
	historyMissedTop   int

	statsSubject string
	statsRemote  bool

	serveAddr  string
	serveToken string
	serveRate  float64
	serveBurst int
	serveDB    string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typedesk",
		Short:         "Timed typing practice with exam-style scoring",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")

	rootCmd.Flags().StringVar(&practiceSubject, "subject", "", "subject id, see typedesk subjects; empty opens the picker")
	rootCmd.Flags().StringVar(&practiceLang, "lang", "", "language (english, marathi, hindi)")
	rootCmd.Flags().IntVar(&practiceWPM, "wpm", 30, "target speed used with --lang (30, 40, 50)")
	rootCmd.Flags().IntVar(&practiceDuration, "duration", config.DefaultDuration, "session length in seconds")

	rootCmd.AddCommand(newPassageCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newSubjectsCmd())

	return rootCmd
}

// loadConfig reads .env, the config file and environment overrides.
func loadConfig() (config.FileConfig, error) {
	if err := config.LoadDotEnv(); err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load .env: %w", err)
	}
	fileCfg, err := config.Load(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	return fileCfg, nil
}

func newLogger(cmd *cobra.Command, fileCfg config.FileConfig, stderr bool) (*zap.Logger, error) {
	level := logLevel
	if !cmd.Flags().Changed("log-level") && fileCfg.Log.Level != nil {
		level = *fileCfg.Log.Level
	}
	format := config.DefaultLogFormat
	if fileCfg.Log.Format != nil {
		format = *fileCfg.Log.Format
	}
	log, err := logging.New(logging.Options{
		Level:  level,
		Format: format,
		File:   config.DefaultLogPath(),
		Stderr: stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return log, nil
}

func openStore(path string) (*store.Store, func(), error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	closeFn := func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}
	return st, closeFn, nil
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "subject", &practiceSubject, fileCfg.Practice.Subject)
	applyStringConfig(cmd, "lang", &practiceLang, fileCfg.Practice.Language)
	applyIntConfig(cmd, "wpm", &practiceWPM, fileCfg.Practice.TargetWPM)
	applyIntConfig(cmd, "duration", &practiceDuration, fileCfg.Practice.Duration)

	if practiceDuration <= 0 {
		return fmt.Errorf("--duration must be > 0")
	}
	subject, err := resolveSubject(practiceSubject, practiceLang, practiceWPM)
	if err != nil {
		return err
	}

	log, err := newLogger(cmd, fileCfg, false)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	st, closeStore, err := openStore(config.DefaultDBPath())
	if err != nil {
		return err
	}
	defer closeStore()

	timeout := submitTimeout(fileCfg)
	dir := wordListDir(fileCfg)
	ctx := context.Background()
	m := tui.NewModel(ctx, tui.Options{
		Subject:  subject,
		Duration: practiceDuration,
		Words: func(lang model.Language) ([]string, error) {
			words, path, err := wordlist.ForLanguage(lang, dir)
			if err == nil && path != "" {
				log.Debug("using word list", zap.String("path", path), zap.Int("words", len(words)))
			}
			return words, err
		},
		Generator:     generator.New(),
		Submitter:     newSubmitter(fileCfg, st, timeout),
		SubmitTimeout: timeout,
		Logger:        log,
	})
	defer m.Close()

	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// resolveSubject picks the practice subject: an explicit id wins, then a
// language with a target speed. Nil means the picker decides.
func resolveSubject(id, lang string, wpm int) (*model.Subject, error) {
	if id = strings.TrimSpace(id); id != "" {
		s, err := model.SubjectByID(id)
		if err != nil {
			return nil, err
		}
		return &s, nil
	}
	if strings.TrimSpace(lang) == "" {
		return nil, nil
	}
	parsed, err := model.ParseLanguage(lang)
	if err != nil {
		return nil, err
	}
	if !model.ValidTargetWPM(wpm) {
		return nil, fmt.Errorf("--wpm must be one of %v", model.TargetSpeeds())
	}
	s := model.NewSubject(parsed, wpm)
	return &s, nil
}

// newSubmitter stores results locally and, when an API URL is configured,
// posts them to the practice API too.
func newSubmitter(fileCfg config.FileConfig, st *store.Store, timeout time.Duration) submit.Submitter {
	subs := submit.Multi{submit.StoreSubmitter{Store: st}}
	if client := newClient(fileCfg, timeout); client != nil {
		subs = append(subs, client)
	}
	return subs
}

func newClient(fileCfg config.FileConfig, timeout time.Duration) *submit.Client {
	if fileCfg.Submit.URL == nil || strings.TrimSpace(*fileCfg.Submit.URL) == "" {
		return nil
	}
	token := ""
	if fileCfg.Submit.Token != nil {
		token = *fileCfg.Submit.Token
	}
	return submit.NewClient(*fileCfg.Submit.URL, token, timeout)
}

func submitTimeout(fileCfg config.FileConfig) time.Duration {
	seconds := config.DefaultSubmitTimeout
	if fileCfg.Submit.Timeout != nil && *fileCfg.Submit.Timeout > 0 {
		seconds = *fileCfg.Submit.Timeout
	}
	return time.Duration(seconds) * time.Second
}

func wordListDir(fileCfg config.FileConfig) string {
	if fileCfg.Practice.WordListDir != nil && *fileCfg.Practice.WordListDir != "" {
		return *fileCfg.Practice.WordListDir
	}
	return config.DefaultWordListDir()
}

func newPassageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "passage",
		Short: "Print a generated passage",
		Args:  cobra.NoArgs,
		RunE:  runPassageCmd,
	}
	cmd.Flags().StringVar(&passageSubject, "subject", "", "subject id")
	cmd.Flags().StringVar(&passageLang, "lang", "", "language (english, marathi, hindi)")
	cmd.Flags().IntVar(&passageWPM, "wpm", 30, "target speed used with --lang (30, 40, 50)")
	cmd.Flags().IntVar(&passageWords, "words", 0, "exact word count; overrides the subject length")
	cmd.Flags().Int64Var(&passageSeed, "seed", 0, "random seed; 0 uses the current time")
	return cmd
}

func runPassageCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadConfig()
	if err != nil {
		return err
	}
	if passageWords < 0 {
		return fmt.Errorf("--words must be >= 0")
	}
	subject, err := resolveSubject(passageSubject, passageLang, passageWPM)
	if err != nil {
		return err
	}
	if subject == nil {
		s, err := model.SubjectByID(config.DefaultSubject)
		if err != nil {
			return err
		}
		subject = &s
	}
	words, _, err := wordlist.ForLanguage(subject.Language, wordListDir(fileCfg))
	if err != nil {
		return err
	}

	gen := generator.New()
	if passageSeed != 0 {
		gen = generator.NewWithSource(rand.New(rand.NewSource(passageSeed)))
	}
	text := gen.Passage(*subject, words).Text
	if passageWords > 0 {
		text = gen.Generate(words, passageWords, subject.Language)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), text); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [text-id]",
		Short: "Show stored results, learning curves and missed words",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historySubject, "subject", "", "subject filter")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N results")
	cmd.Flags().IntVar(&historyCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().IntVar(&historyMissedTop, "missed", defaultMissedTop, "number of most missed words to show")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	since, err := parseSince(historySince)
	if err != nil {
		return err
	}
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if historyCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be > 0")
	}
	if historyMissedTop < 0 {
		return fmt.Errorf("--missed must be >= 0")
	}

	st, closeStore, err := openStore(config.DefaultDBPath())
	if err != nil {
		return err
	}
	defer closeStore()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	if len(args) == 1 {
		rec, err := st.GetResult(ctx, args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("no result with text id %q", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to load result: %w", err)
		}
		if _, err := fmt.Fprintf(out, "%s  %s  %d WPM  %d%%  %s/%d marks\n\n",
			rec.CompletedAt.Local().Format("2006-01-02 15:04"),
			rec.SubjectLabel, rec.WPM, rec.Accuracy, formatMarks(rec.Marks), rec.TotalMarks); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return stats.RenderWordDiff(out, rec.Result)
	}

	report, err := stats.BuildReport(ctx, st, stats.ReportConfig{
		SubjectID:   historySubject,
		Since:       since,
		Last:        historyLast,
		CurveWindow: historyCurveWindow,
		MissedTop:   historyMissedTop,
	})
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	return report.Render(out, historyCurveWindow, terminalWidth())
}

func parseSince(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := time.ParseInLocation("2006-01-02", value, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid --since value: %w", err)
	}
	return &parsed, nil
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultTermWidth
	}
	return width
}

func formatMarks(marks float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.1f", marks), ".0")
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show summary stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSubject, "subject", "", "subject filter (local only)")
	cmd.Flags().BoolVar(&statsRemote, "remote", false, "read stats from the practice API")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	var (
		sum model.Summary
		err error
	)
	if statsRemote {
		fileCfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := newClient(fileCfg, submitTimeout(fileCfg))
		if client == nil {
			return fmt.Errorf("submit url is not configured (set [submit] url or %s)", config.EnvAPIURL)
		}
		sum, err = client.Stats(ctx)
		if err != nil {
			return fmt.Errorf("failed to load remote stats: %w", err)
		}
		return stats.RenderSummary(cmd.OutOrStdout(), sum)
	}

	st, closeStore, err := openStore(config.DefaultDBPath())
	if err != nil {
		return err
	}
	defer closeStore()
	sum, err = st.Summary(ctx, statsSubject)
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}
	return stats.RenderSummary(cmd.OutOrStdout(), sum)
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the practice results API",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", config.DefaultServerAddr, "listen address")
	cmd.Flags().StringVar(&serveToken, "token", "", "required bearer token; empty disables auth")
	cmd.Flags().Float64Var(&serveRate, "rate", config.DefaultServerRate, "submissions per second; 0 disables limiting")
	cmd.Flags().IntVar(&serveBurst, "burst", config.DefaultServerBurst, "submission burst size")
	cmd.Flags().StringVar(&serveDB, "db", "", "database path (default: practice database)")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "addr", &serveAddr, fileCfg.Server.Addr)
	applyStringConfig(cmd, "token", &serveToken, fileCfg.Server.Token)
	applyFloatConfig(cmd, "rate", &serveRate, fileCfg.Server.Rate)
	applyIntConfig(cmd, "burst", &serveBurst, fileCfg.Server.Burst)
	applyStringConfig(cmd, "db", &serveDB, fileCfg.Server.DB)
	if serveDB == "" {
		serveDB = config.DefaultDBPath()
	}

	log, err := newLogger(cmd, fileCfg, true)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	st, closeStore, err := openStore(serveDB)
	if err != nil {
		return err
	}
	defer closeStore()

	if serveToken == "" {
		log.Warn("server token is empty; API is unauthenticated")
	}
	gin.SetMode(gin.ReleaseMode)
	srv := server.New(st, server.Options{
		Token: serveToken,
		Rate:  serveRate,
		Burst: serveBurst,
		Log:   log.Named("server"),
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx, serveAddr)
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
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(config.Template()), 0o600); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newSubjectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subjects",
		Short: "List practice subjects",
		Args:  cobra.NoArgs,
		RunE:  runSubjectsCmd,
	}
}

func runSubjectsCmd(cmd *cobra.Command, _ []string) error {
	for _, s := range model.Subjects() {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-16s %d words\n", s.ID, s.Label, s.WordCount()); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
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

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
