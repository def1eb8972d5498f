// Package main provides the CLI entrypoint for aura.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/onkardamal/Aura/internal/analyzer"
	"github.com/onkardamal/Aura/internal/config"
	"github.com/onkardamal/Aura/internal/log"
	"github.com/onkardamal/Aura/internal/mode"
	"github.com/onkardamal/Aura/internal/model"
	"github.com/onkardamal/Aura/internal/pad"
	"github.com/onkardamal/Aura/internal/remote"
	"github.com/onkardamal/Aura/internal/render"
	"github.com/onkardamal/Aura/internal/stats"
	"github.com/onkardamal/Aura/internal/statsui"
	"github.com/onkardamal/Aura/internal/store"
	"github.com/onkardamal/Aura/internal/textsource"
	"github.com/onkardamal/Aura/internal/typing"
)

const (
	defaultProvider     = "openai"
	defaultFormat       = "text"
	defaultDebounceMs   = 500
	defaultReevaluateMs = 5000
	defaultRetentionSec = 120
	defaultCurveWindow  = 20
	defaultConcurrency  = 4
)

var (
	useRemote   bool
	provider    string
	remoteModel string

	analyzeFiles  []string
	analyzeFormat string
	analyzeSave   bool

	padDebounceMs   int
	padReevaluateMs int
	padHistory      bool
	padTracking     bool
	padRetentionSec int

	historySession string
	historySince   string
	historyLast    int
	historyWindow  int
	historyPlain   bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "aura",
		Short:         "Affect-aware text analysis and typing mood tracker",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPadCmd,
	}
	addPadFlags(rootCmd)

	rootCmd.AddCommand(newAnalyzeCmd())
	rootCmd.AddCommand(newPadCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func addRemoteFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&useRemote, "remote", false, "augment analysis with a remote provider")
	cmd.Flags().StringVar(&provider, "provider", defaultProvider, providerUsage())
	cmd.Flags().StringVar(&remoteModel, "model", "", "remote model override")
}

func providerUsage() string {
	kinds := remote.NewRegistry(nil).Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return "remote provider (" + strings.Join(names, ", ") + ")"
}

func addPadFlags(cmd *cobra.Command) {
	addRemoteFlags(cmd)
	cmd.Flags().IntVar(&padDebounceMs, "debounce-ms", defaultDebounceMs, "quiet period before analyzing input")
	cmd.Flags().IntVar(&padReevaluateMs, "reevaluate-ms", defaultReevaluateMs, "mood re-evaluation interval")
	cmd.Flags().BoolVar(&padHistory, "history", false, "record analyses and mood changes")
	cmd.Flags().BoolVar(&padTracking, "tracking", true, "track typing behavior")
	cmd.Flags().IntVar(&padRetentionSec, "retention-sec", defaultRetentionSec, "typing sample retention window")
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [text...]",
		Short: "Analyze text from arguments, files or stdin",
		RunE:  runAnalyzeCmd,
	}
	addRemoteFlags(cmd)
	cmd.Flags().StringArrayVarP(&analyzeFiles, "file", "f", nil, "read text from file (repeatable)")
	cmd.Flags().StringVar(&analyzeFormat, "format", defaultFormat, "output format (text, json, yaml)")
	cmd.Flags().BoolVar(&analyzeSave, "save", false, "record results in history")
	return cmd
}

type input struct {
	name string
	text string
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	format, err := render.ParseFormat(analyzeFormat)
	if err != nil {
		return err
	}
	opts, err := resolveOptions(cmd, fileCfg)
	if err != nil {
		return err
	}
	inputs, err := collectInputs(args, analyzeFiles)
	if err != nil {
		return err
	}

	logger := log.NewFromEnv()
	an := analyzer.New(remote.NewAugmenter(remote.NewRegistry(nil), logger), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	texts := make([]string, len(inputs))
	for i, in := range inputs {
		texts[i] = in.text
	}
	outcomes, err := an.AnalyzeAll(ctx, texts, opts, defaultConcurrency)
	if err != nil {
		return fmt.Errorf("failed to analyze input: %w", err)
	}

	docs := make([]render.Document, len(outcomes))
	for i, out := range outcomes {
		docs[i] = render.Document{
			Source:         string(out.Source),
			Mode:           mode.ForSentiment(out.Result.Sentiment.Label),
			AnalysisResult: out.Result,
		}
		if len(inputs) > 1 {
			docs[i].Input = inputs[i].name
		}
	}

	if analyzeSave {
		if err := saveOutcomes(ctx, inputs, outcomes); err != nil {
			return err
		}
	}

	return render.Write(cmd.OutOrStdout(), format, docs, terminalWidth(os.Stdout))
}

func collectInputs(args, files []string) ([]input, error) {
	var inputs []input
	if len(args) > 0 {
		inputs = append(inputs, input{name: "args", text: strings.Join(args, " ")})
	}
	for _, path := range files {
		text, err := textsource.LoadFile(path, textsource.DefaultMaxChars)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		inputs = append(inputs, input{name: path, text: text})
	}
	if len(inputs) > 0 {
		return inputs, nil
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return nil, fmt.Errorf("no input: pass text, --file, or pipe text on stdin")
	}
	text, err := textsource.Read(os.Stdin, textsource.DefaultMaxChars)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return []input{{name: "stdin", text: text}}, nil
}

func saveOutcomes(ctx context.Context, inputs []input, outcomes []analyzer.Outcome) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	sessionID := uuid.NewString()
	now := time.Now()
	for i, out := range outcomes {
		rec := model.AnalysisRecord{
			SessionID:  sessionID,
			CreatedAt:  now,
			Source:     string(out.Source),
			TextLength: utf8.RuneCountInString(inputs[i].text),
			Result:     out.Result,
		}
		if _, err := st.InsertAnalysis(ctx, rec); err != nil {
			return fmt.Errorf("failed to save analysis: %w", err)
		}
	}
	return nil
}

func newPadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pad",
		Short: "Open the live typing pad",
		Args:  cobra.NoArgs,
		RunE:  runPadCmd,
	}
	addPadFlags(cmd)
	return cmd
}

func runPadCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	opts, err := resolveOptions(cmd, fileCfg)
	if err != nil {
		return err
	}
	applyIntConfig(cmd, "debounce-ms", &padDebounceMs, fileCfg.Pad.DebounceMs)
	applyIntConfig(cmd, "reevaluate-ms", &padReevaluateMs, fileCfg.Pad.ReevaluateMs)
	applyBoolConfig(cmd, "history", &padHistory, fileCfg.Pad.History)
	applyBoolConfig(cmd, "tracking", &padTracking, fileCfg.Typing.Enabled)
	applyIntConfig(cmd, "retention-sec", &padRetentionSec, fileCfg.Typing.RetentionSec)
	if err := validatePadFlags(); err != nil {
		return err
	}

	logger, closeLog := padLogger()
	defer closeLog()

	var st *store.Store
	if padHistory {
		st, err = store.Open(config.DefaultDBPath())
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				logErrf("failed to close db: %v\n", cerr)
			}
		}()
	}

	tcfg := typing.DefaultConfig()
	tcfg.RetentionMs = int64(padRetentionSec) * 1000
	tracker := typing.New(tcfg)
	tracker.SetEnabled(padTracking)

	an := analyzer.New(remote.NewAugmenter(remote.NewRegistry(nil), logger), logger)
	m := pad.NewModel(pad.Config{
		Debounce:   time.Duration(padDebounceMs) * time.Millisecond,
		Reevaluate: time.Duration(padReevaluateMs) * time.Millisecond,
		Options:    opts,
		SessionID:  uuid.NewString(),
		Record:     padHistory,
	}, an, tracker, st, logger)

	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run pad: %w", err)
	}
	return nil
}

// padLogger writes debug logs to a file because stderr belongs to the alt screen.
func padLogger() (*slog.Logger, func()) {
	if os.Getenv("AURA_DEBUG") != "1" {
		return log.Discard(), func() {}
	}
	path := config.DefaultDebugLogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logErrf("failed to create log directory: %v\n", err)
		return log.Discard(), func() {}
	}
	f, err := tea.LogToFile(path, "aura")
	if err != nil {
		logErrf("failed to open debug log: %v\n", err)
		return log.Discard(), func() {}
	}
	return log.New(&log.Config{Output: f, Debug: true}), func() {
		if cerr := f.Close(); cerr != nil {
			// Best-effort close for the debug log.
			_ = cerr
		}
	}
}

func validatePadFlags() error {
	if padDebounceMs <= 0 {
		return fmt.Errorf("--debounce-ms must be > 0")
	}
	if padReevaluateMs <= 0 {
		return fmt.Errorf("--reevaluate-ms must be > 0")
	}
	if padRetentionSec <= 0 {
		return fmt.Errorf("--retention-sec must be > 0")
	}
	return nil
}

// resolveOptions overlays config values on remote flags and resolves the API key.
func resolveOptions(cmd *cobra.Command, fileCfg config.FileConfig) (analyzer.Options, error) {
	applyBoolConfig(cmd, "remote", &useRemote, fileCfg.Analysis.UseRemote)
	applyStringConfig(cmd, "provider", &provider, fileCfg.Analysis.Provider)
	applyStringConfig(cmd, "model", &remoteModel, fileCfg.Analysis.Model)

	kind, err := config.ParseProvider(provider)
	if err != nil {
		return analyzer.Options{}, err
	}
	opts := analyzer.Options{
		UseRemote: useRemote,
		Remote: model.RemoteProviderConfig{
			Kind:    kind,
			APIKey:  config.ResolveAPIKey(kind, valueOr(fileCfg.Analysis.APIKey, "")),
			Model:   remoteModel,
			BaseURL: valueOr(fileCfg.Analysis.BaseURL, ""),
		},
	}
	if opts.UseRemote && opts.Remote.APIKey == "" {
		logErrf("no API key for %s (set %s or AURA_API_KEY); using heuristic analysis\n", kind, config.ProviderKeyEnv(kind))
	}
	return opts, nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded analyses and mood changes",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historySession, "session", "", "session id filter")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N records")
	cmd.Flags().IntVar(&historyWindow, "window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print a text report instead of the interactive view")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	cfg := stats.ReportConfig{
		SessionID:   historySession,
		Since:       sinceTime,
		Last:        historyLast,
		CurveWindow: historyWindow,
	}
	if !historyPlain && term.IsTerminal(int(os.Stdout.Fd())) {
		program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run history TUI: %w", err)
		}
		return nil
	}

	report, err := stats.BuildReport(cmd.Context(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if len(report.Analyses) == 0 && len(report.Moods) == 0 {
		logErrln("No history yet. Record with: aura analyze --save or aura pad --history")
		return nil
	}
	return report.Render(cmd.OutOrStdout())
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
	if err := ensureConfigFile(path); err != nil {
		return err
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

// ensureConfigFile writes the commented template unless path already exists.
func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o600); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	return nil
}

func terminalWidth(f *os.File) int {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}

func valueOr[T any](value *T, fallback T) T {
	if value == nil {
		return fallback
	}
	return *value
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

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# aura configuration
# Uncomment a value to enable it. CLI flags override config values.

[analysis]
# use-remote = false      # Augment analysis with a remote provider
# provider = %q       # openai, gemini or google
# api-key = ""            # Falls back to AURA_API_KEY, then the provider variable
# model = ""              # Provider model override
# base-url = ""           # Provider endpoint override

[typing]
# enabled = true          # Track typing behavior in the pad
# retention-sec = %d     # Typing sample retention window

[pad]
# debounce-ms = %d       # Quiet period before analyzing input
# reevaluate-ms = %d    # Mood re-evaluation interval
# history = false         # Record analyses and mood changes
`,
		defaultProvider,
		defaultRetentionSec,
		defaultDebounceMs,
		defaultReevaluateMs,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
