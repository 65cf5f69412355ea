package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"github.com/pavelanni/studybuddy/internal/handler"
	appI18n "github.com/pavelanni/studybuddy/internal/i18n"
	"github.com/pavelanni/studybuddy/internal/llm"
	"github.com/pavelanni/studybuddy/internal/model"
	"github.com/pavelanni/studybuddy/internal/poll"
	"github.com/pavelanni/studybuddy/internal/quiz"
	"github.com/pavelanni/studybuddy/internal/quizgen"
	"github.com/pavelanni/studybuddy/internal/quizparse"
	"github.com/pavelanni/studybuddy/internal/report"
	"github.com/pavelanni/studybuddy/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "studybuddy",
		Short: "AI-assisted quiz generation and classroom tools",
	}

	serve := serveCmd()
	root.AddCommand(serve, generateCmd(), exportCmd(), generationsCmd(), hashPasswordCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `studybuddy --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func addLLMFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("llm-provider", "openai", "Completion backend (openai, anthropic, gemini, mock)")
	f.String("llm-url", "http://localhost:11434/v1", "OpenAI-compatible API base URL")
	f.String("llm-key", "ollama", "API key for the completion backend")
	f.String("llm-model", "llama3.2", "Model name")
	f.Duration("llm-timeout", 30*time.Second, "Timeout for a single generation call")
}

func addLogFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db", "", "SQLite database path (empty disables the generation log)")
	f.String("poll-store", "memory", "Poll storage backend (memory, sqlite)")
	f.Int("quiz-seconds", quiz.DefaultBudget, "Countdown budget for each quiz in seconds")
	f.IntP("num-questions", "n", 5, "Questions per quiz when a request omits the count")
	f.StringP("lang", "l", "en", "Default UI language (en, ru)")
	f.String("teacher-password-hash", "", "bcrypt hash protecting teacher routes (see hash-password)")
	f.StringSlice("cors-origins", []string{"*"}, "Allowed CORS origins")
	addLLMFlags(cmd)
	addLogFlags(cmd)
	return cmd
}

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a quiz and print it as JSON",
		RunE:  runGenerate,
	}
	f := cmd.Flags()
	f.StringP("topic", "t", "", "Student quiz topic")
	f.String("subject", "", "Teacher quiz subject (selects the teacher quiz path)")
	f.String("section", "", "Teacher quiz section")
	f.String("title", "", "Teacher quiz title")
	f.IntP("num-questions", "n", 5, "Number of questions to request")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	addLLMFlags(cmd)
	addLogFlags(cmd)
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a quiz as a printable PDF",
		Long: "Print a quiz saved by `studybuddy generate` (--input), or generate a\n" +
			"teacher quiz from --subject and --section and print it directly.",
		RunE: runExport,
	}
	f := cmd.Flags()
	f.StringP("input", "i", "", "Quiz JSON written by the generate command (- for stdin)")
	f.String("subject", "", "Quiz subject (without --input)")
	f.String("section", "", "Quiz section (without --input)")
	f.String("title", "", "Quiz title")
	f.IntP("num-questions", "n", 5, "Number of questions to request")
	f.StringP("lang", "l", "en", "Language for page labels (en, ru)")
	f.StringP("output", "o", "quiz.pdf", "Output file path (- for stdout)")
	addLLMFlags(cmd)
	addLogFlags(cmd)

	cmd.MarkFlagsMutuallyExclusive("input", "subject")
	cmd.MarkFlagsOneRequired("input", "subject")

	return cmd
}

func generationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generations",
		Short: "Export the generation log as JSON",
		RunE:  runGenerations,
	}
	f := cmd.Flags()
	f.String("db", "studybuddy.db", "SQLite database path")
	f.Int("limit", 0, "Maximum number of records (0 = all)")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	addLogFlags(cmd)
	return cmd
}

func hashPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash-password PASSWORD",
		Short: "Print a bcrypt hash for --teacher-password-hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := bcrypt.GenerateFromPassword([]byte(args[0]), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(hash))
			return err
		},
	}
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("STUDYBUDDY")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("studybuddy")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/studybuddy")
	v.AddConfigPath("/etc/studybuddy")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func newGateway(ctx context.Context, v *viper.Viper) (llm.Gateway, error) {
	g, err := llm.NewGateway(ctx, llm.Config{
		Provider: strings.ToLower(strings.TrimSpace(v.GetString("llm-provider"))),
		BaseURL:  v.GetString("llm-url"),
		APIKey:   v.GetString("llm-key"),
		Model:    v.GetString("llm-model"),
	})
	if err != nil {
		return nil, fmt.Errorf("create LLM gateway: %w", err)
	}
	return g, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Open database when configured.
	var db *store.Store
	if path := v.GetString("db"); path != "" {
		var err error
		db, err = store.New(path)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer db.Close()
	}

	var polls *poll.Service
	switch backend := v.GetString("poll-store"); backend {
	case "", "memory":
		polls = poll.NewService(poll.NewMemoryStore())
	case "sqlite":
		if db == nil {
			return fmt.Errorf("--poll-store=sqlite requires --db")
		}
		polls = poll.NewService(db)
	default:
		return fmt.Errorf("unknown poll store: %q", backend)
	}

	// Initialize i18n.
	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	gateway, err := newGateway(ctx, v)
	if err != nil {
		return err
	}
	var genlog handler.GenerationLog
	if db != nil {
		gateway = llm.WithLogging(gateway, db)
		genlog = db
	}

	cfg := model.ServerConfig{
		QuizSeconds:         v.GetInt("quiz-seconds"),
		DefaultQuestions:    v.GetInt("num-questions"),
		LLMTimeout:          v.GetDuration("llm-timeout"),
		TeacherPasswordHash: v.GetString("teacher-password-hash"),
		CORSOrigins:         v.GetStringSlice("cors-origins"),
	}
	if cfg.TeacherPasswordHash == "" {
		slog.Warn("teacher routes are not password protected; set --teacher-password-hash")
	}

	h, err := handler.New(gateway, polls, genlog, cfg)
	if err != nil {
		return fmt.Errorf("create handler: %w", err)
	}
	defer h.Close()

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Accept-Language", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "Content-Language"},
		MaxAge:         300,
	}))
	r.Use(appI18n.Middleware(lang))
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"provider", v.GetString("llm-provider"),
		"model", gateway.ModelID(),
		"lang", lang,
		"quiz_seconds", cfg.QuizSeconds,
		"num_questions", cfg.DefaultQuestions,
		"poll_store", v.GetString("poll-store"),
		"generation_log", db != nil,
	)
	return http.ListenAndServe(addr, r)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	ctx, cancel := context.WithTimeout(context.Background(), v.GetDuration("llm-timeout"))
	defer cancel()

	gateway, err := newGateway(ctx, v)
	if err != nil {
		return err
	}
	svc := quizgen.New(gateway)

	var out any
	if subject := v.GetString("subject"); subject != "" {
		out, err = svc.TeacherQuiz(ctx, quizgen.TeacherRequest{
			Subject: subject,
			Section: v.GetString("section"),
			Title:   v.GetString("title"),
			Count:   v.GetInt("num-questions"),
		})
	} else {
		out, err = svc.StudentQuiz(ctx, v.GetString("topic"), v.GetInt("num-questions"))
	}
	if err != nil {
		return fmt.Errorf("generate quiz: %w", err)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	return writeOutput(v.GetString("output"), append(data, '\n'))
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	var (
		acc quizparse.Accepted
		err error
	)
	if in := v.GetString("input"); in != "" {
		acc, err = readAccepted(in)
	} else {
		acc, err = generateForExport(v)
	}
	if err != nil {
		return err
	}

	labels := report.LocalizedLabels(appI18n.WithLocalizer(context.Background(), appI18n.NewLocalizer(lang)))
	data, err := report.Export(acc.Set, acc.Title, labels)
	if err != nil {
		return fmt.Errorf("export PDF: %w", err)
	}

	outPath := v.GetString("output")
	if err := writeOutput(outPath, data); err != nil {
		return err
	}
	slog.Info("exported quiz", "title", acc.Title, "questions", acc.Set.Len(), "requested", acc.Set.Requested, "output", outPath)
	return nil
}

// readAccepted loads and re-validates a saved quiz so the printed answer
// key matches what was reviewed.
func readAccepted(path string) (quizparse.Accepted, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return quizparse.Accepted{}, fmt.Errorf("read %s: %w", path, err)
	}
	acc, err := quizparse.ParseAccepted(data)
	if err != nil {
		return quizparse.Accepted{}, fmt.Errorf("check %s: %w", path, err)
	}
	return acc, nil
}

func generateForExport(v *viper.Viper) (quizparse.Accepted, error) {
	ctx, cancel := context.WithTimeout(context.Background(), v.GetDuration("llm-timeout"))
	defer cancel()

	gateway, err := newGateway(ctx, v)
	if err != nil {
		return quizparse.Accepted{}, err
	}
	tq, err := quizgen.New(gateway).TeacherQuiz(ctx, quizgen.TeacherRequest{
		Subject: v.GetString("subject"),
		Section: v.GetString("section"),
		Title:   v.GetString("title"),
		Count:   v.GetInt("num-questions"),
	})
	if err != nil {
		return quizparse.Accepted{}, fmt.Errorf("generate quiz: %w", err)
	}
	return quizparse.Accepted{
		Title: tq.Title,
		Set:   model.QuestionSet{Questions: tq.Questions, Requested: tq.Requested},
	}, nil
}

func runGenerations(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	export, err := db.ExportGenerations(context.Background(), v.GetInt("limit"))
	if err != nil {
		return fmt.Errorf("export generations: %w", err)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	return writeOutput(v.GetString("output"), append(data, '\n'))
}

func writeOutput(outPath string, data []byte) error {
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
