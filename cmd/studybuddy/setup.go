package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/studybuddy/internal/config"
	"github.com/sandevgo/studybuddy/internal/core"
	"github.com/sandevgo/studybuddy/internal/providers/embedding"
	"github.com/sandevgo/studybuddy/internal/providers/llm"
	"github.com/sandevgo/studybuddy/internal/service/command"
	"github.com/sandevgo/studybuddy/internal/service/ingest"
	"github.com/sandevgo/studybuddy/internal/service/memory"
	"github.com/sandevgo/studybuddy/internal/service/prompt"
	"github.com/sandevgo/studybuddy/internal/service/retrieval"
	"github.com/sandevgo/studybuddy/internal/service/tutor"
	"github.com/sandevgo/studybuddy/internal/storage/sqlite"
	"github.com/sandevgo/studybuddy/pkg/log"
	"github.com/sandevgo/studybuddy/pkg/srv"
)

const (
	documentsCollection     = "documents"
	conversationsCollection = "conversations"
)

// app holds the dependencies shared by the subcommands. Services collects
// everything that must be released on exit, in registration order.
type app struct {
	appCfg *config.AppConfig
	ragCfg *config.RAGConfig

	embedder  core.Embedder
	documents *sqlite.Collection

	services []srv.Service
}

func newApp(ctx context.Context) *app {
	logger := log.FromCtx(ctx)

	// init env
	if err := initEnv(ctx, config.GetRuntimePath()); err != nil {
		logger.Fatal().Err(err).Msg("failed to init env")
	}

	// 1. Configuration
	a := &app{
		appCfg: config.NewAppConfig(ctx),
		ragCfg: config.NewRAGConfig(ctx),
	}

	// 2. Embeddings
	a.embedder = embedding.NewEmbedder(ctx, a.ragCfg)

	// 3. Document store
	db, err := sqlite.NewDB(ctx, a.appCfg.GetDatabasePath())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	a.services = append(a.services, srv.NewCleanup(db.Close))
	a.documents = sqlite.NewCollection(db, documentsCollection, a.embedder)

	return a
}

func (a *app) ingester(opts ...ingest.Option) *ingest.Ingester {
	opts = append([]ingest.Option{ingest.WithMinChunkLength(a.ragCfg.MinChunkLength)}, opts...)
	return ingest.NewIngester(a.documents, opts...)
}

func (a *app) model(ctx context.Context) core.LanguageModel {
	model, err := llm.NewLanguageModel(ctx, a.appCfg)
	if err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to initialize LLM provider")
	}
	return model
}

// session opens the in-memory conversation store, restores the previous
// session into it and registers a hook that saves it on shutdown.
func (a *app) session(ctx context.Context) *memory.SessionManager {
	logger := log.FromCtx(ctx)

	db, err := sqlite.NewMemoryDB(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize conversation memory")
	}
	a.services = append(a.services, srv.NewCleanup(db.Close))

	mem := memory.NewConversationMemory(sqlite.NewCollection(db, conversationsCollection, a.embedder))
	session := memory.NewSessionManager(a.appCfg.GetSessionPath(), mem)

	if n, err := session.Restore(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to restore previous session")
	} else if n > 0 {
		logger.Info().Int("conversations", n).Str("path", session.Path()).Msg("restored previous session")
	}

	a.services = append(a.services, srv.NewHook(session.Flush))
	return session
}

func (a *app) tutor(ctx context.Context, session *memory.SessionManager) *tutor.Tutor {
	model := a.model(ctx)

	processor := retrieval.NewProcessor(a.documents, retrieval.Config{
		NResults:          a.ragCfg.NResults,
		DistanceThreshold: a.ragCfg.DistanceThreshold,
	})

	return tutor.New(
		model,
		prompt.NewOptimizer(model),
		processor,
		session.Memory(),
		tutor.Config{
			HistoryResults:           a.ragCfg.HistoryResults,
			HistoryDistanceThreshold: a.ragCfg.HistoryDistanceThreshold,
			HistoryFallback:          a.ragCfg.HistoryFallback,
		},
	)
}

func (a *app) router(session *memory.SessionManager) *command.Router {
	return command.New(command.NewCommands(session, a.documents))
}

func initEnv(ctx context.Context, runtimePath string) error {
	logger := log.FromCtx(ctx)
	envFile := filepath.Join(runtimePath, ".env")

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
