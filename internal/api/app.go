package api

import (
	"context"
	"fmt"

	"github.com/flowtutor/flowtutor/internal/auth"
	"github.com/flowtutor/flowtutor/internal/config"
	"github.com/flowtutor/flowtutor/internal/extract"
	"github.com/flowtutor/flowtutor/internal/feedback"
	"github.com/flowtutor/flowtutor/internal/flowspec"
	"github.com/flowtutor/flowtutor/internal/hint"
	"github.com/flowtutor/flowtutor/internal/ideal"
	"github.com/flowtutor/flowtutor/internal/llm"
	"github.com/flowtutor/flowtutor/internal/question"
	"github.com/flowtutor/flowtutor/internal/queue"
	"github.com/flowtutor/flowtutor/internal/storage/postgres"
	"github.com/flowtutor/flowtutor/internal/storage/sqlite"
	"github.com/flowtutor/flowtutor/internal/submission"
	"github.com/jackc/pgx/v5/pgxpool"
)

// App holds all application dependencies
type App struct {
	Config      *config.Config
	Verifier    auth.TokenVerifier
	Questions   *question.Service
	Ideals      *ideal.Service
	Submissions *submission.Service
	Hints       *hint.Service
	Queue       *queue.Connection // nil when RABBITMQ_URL is unset
	Producer    *queue.Producer   // nil when the queue is disabled

	sqliteDB *sqlite.DB
	pgPool   *pgxpool.Pool
}

// NewApp creates a new application instance with all dependencies wired
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{
		Config:   cfg,
		Verifier: auth.StaticVerifier{},
	}

	synonyms := flowspec.DefaultSynonyms()
	if cfg.SynonymsPath != "" {
		loaded, err := flowspec.LoadSynonyms(cfg.SynonymsPath)
		if err != nil {
			return nil, fmt.Errorf("load synonyms: %w", err)
		}
		synonyms = loaded
	}

	provider, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}
	resilient := llm.NewResilientProvider(provider, llm.DefaultResilientConfig())

	var (
		questionStore   question.Store
		idealStore      ideal.Store
		submissionStore submission.Store
	)
	if cfg.DatabaseURL != "" {
		pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if err := postgres.CreateSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
		app.pgPool = pool
		questionStore = postgres.NewQuestionStore(pool)
		idealStore = postgres.NewIdealAnswerStore(pool)
		submissionStore = postgres.NewSubmissionStore(pool)
	} else {
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := db.Migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		app.sqliteDB = db
		questionStore = sqlite.NewQuestionStore(db)
		idealStore = sqlite.NewIdealAnswerStore(db)
		submissionStore = sqlite.NewSubmissionStore(db)
	}

	app.Questions = question.NewService(questionStore, resilient)
	app.Ideals = ideal.NewService(resilient, idealStore, synonyms)
	app.Hints = hint.NewService(resilient)

	extractor := extract.NewService(resilient, synonyms)
	composer := feedback.NewComposer(resilient)
	app.Submissions = submission.NewService(app.Questions, app.Ideals, extractor, composer, submissionStore)

	if cfg.RabbitMQURL != "" {
		conn, err := queue.NewConnection(cfg.RabbitMQURL)
		if err != nil {
			return nil, fmt.Errorf("connect rabbitmq: %w", err)
		}
		app.Queue = conn
		app.Producer = queue.NewProducer(conn)
	}

	if cfg.QuestionSeedPath != "" {
		if _, err := app.Questions.SeedFromFile(ctx, cfg.QuestionSeedPath); err != nil {
			return nil, fmt.Errorf("seed questions: %w", err)
		}
	}

	return app, nil
}

// newProvider builds the configured language-model client.
func newProvider(cfg *config.Config) (llm.Provider, error) {
	switch cfg.LLMProvider {
	case "claude":
		return llm.NewClaudeProvider(llm.ClaudeConfig{
			APIKey: cfg.LLMAPIKey,
			Model:  cfg.LLMModel,
		}), nil
	case "openai":
		return llm.NewOpenAIProvider(llm.OpenAIConfig{
			APIKey: cfg.LLMAPIKey,
			Model:  cfg.LLMModel,
		}), nil
	case "ollama":
		model := cfg.LLMModel
		if model == "" || model == "claude-sonnet-4-20250514" {
			model = "llama3.2:latest"
		}
		return llm.NewOllamaProvider(llm.OllamaConfig{
			BaseURL: cfg.OllamaURL,
			Model:   model,
		}), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}

// Ping verifies database connectivity for readiness checks.
func (a *App) Ping(ctx context.Context) error {
	if a.pgPool != nil {
		return a.pgPool.Ping(ctx)
	}
	return a.sqliteDB.PingContext(ctx)
}

// Close cleans up application resources
func (a *App) Close() error {
	if a.Queue != nil {
		a.Queue.Close()
	}
	if a.pgPool != nil {
		a.pgPool.Close()
		return nil
	}
	if a.sqliteDB != nil {
		return a.sqliteDB.Close()
	}
	return nil
}
