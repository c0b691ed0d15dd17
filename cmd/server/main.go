package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"

	"regintel-backend/cache"
	"regintel-backend/config"
	"regintel-backend/handlers"
	"regintel-backend/logger"
	"regintel-backend/metrics"
	"regintel-backend/models"
	"regintel-backend/registry"
	"regintel-backend/repository"
	"regintel-backend/service"
	"regintel-backend/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.Environment == "dev")

	pool, err := initPostgres(cfg, log)
	if err != nil {
		log.Warn().Err(err).Msg("postgres unavailable, policy storage disabled")
		pool = nil
	}
	if pool != nil {
		defer pool.Close()
	}

	responseCache, err := cache.New(cfg.RedisURL, cfg.CacheNamespace, cfg.CacheTTL)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, running without response cache")
		responseCache = nil
	}
	if responseCache != nil {
		defer responseCache.Close()
	}

	geminiClient, err := initGemini(cfg, log)
	if err != nil {
		log.Warn().Err(err).Msg("gemini unavailable, LLM features degrade to fallbacks")
		geminiClient = nil
	}
	if geminiClient != nil {
		defer geminiClient.Close()
	}

	datasetStore, err := storage.NewStorageFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize dataset storage")
	}

	m := metrics.New()

	llmClient := service.NewLLMClient(geminiClient,
		service.LLMWithModel(cfg.GenerationModel),
		service.LLMWithTimeout(cfg.LLMTimeout),
		service.LLMWithMaxRetries(cfg.LLMMaxRetries),
		service.LLMWithMetrics(m),
		service.LLMWithLogger(log),
	)

	var policyRepo *repository.PolicyRepository
	if pool != nil {
		policyRepo = repository.NewPolicyRepository(pool)
	}

	gazetteService := service.NewGazetteService(
		service.GazetteWithStorage(datasetStore),
		service.GazetteWithDatasetKeys(cfg.GazetteDatasetKey, "gazettes.json"),
		service.GazetteWithLogger(log),
	)

	sourceOpts := []registry.SourceOption{
		registry.WithGazetteLister(gazetteService),
		registry.WithFetchTimeout(cfg.FetchTimeout),
		registry.WithLogger(log),
	}
	if policyRepo != nil {
		sourceOpts = append(sourceOpts, registry.WithPolicyLister(&policySourceAdapter{
			repo:  policyRepo,
			limit: cfg.PolicyListLimit,
		}))
	}
	source := registry.NewSource(sourceOpts...)

	registryOpts := []service.RegistryServiceOption{
		service.RegistryWithSource(source),
		service.RegistryWithSelections(registry.NewSelectionStore()),
		service.RegistryWithPageSize(cfg.PageSize),
		service.RegistryWithLogger(log),
	}
	if policyRepo != nil {
		registryOpts = append(registryOpts, service.RegistryWithPolicyGetter(policyRepo))
	}
	registryService := service.NewRegistryService(registryOpts...)

	retrievalOpts := []service.RetrievalServiceOption{
		service.RetrievalWithMaxResults(cfg.MaxRetrievalResults),
		service.RetrievalWithLogger(log),
	}
	if policyRepo != nil {
		retrievalOpts = append(retrievalOpts, service.RetrievalWithPolicyLister(policyRepo))
	}
	retrievalService := service.NewRetrievalService(retrievalOpts...)

	assistantService := service.NewAssistantService(
		service.AssistantWithRetrieval(retrievalService),
		service.AssistantWithGenerator(llmClient),
		service.AssistantWithCache(responseCache),
		service.AssistantWithLogger(log),
	)

	analyzerService := service.NewAnalyzerService(
		service.AnalyzerWithGazettes(gazetteService),
		service.AnalyzerWithGenerator(llmClient),
		service.AnalyzerWithLogger(log),
	)

	analysisService := service.NewAnalysisService(
		service.AnalysisWithRetrieval(retrievalService),
		service.AnalysisWithGenerator(llmClient),
		service.AnalysisWithAnalyzer(analyzerService),
		service.AnalysisWithCache(responseCache),
		service.AnalysisWithLogger(log),
	)

	dashboardOpts := []service.DashboardServiceOption{
		service.DashboardWithGazettes(gazetteService),
		service.DashboardWithCache(responseCache),
		service.DashboardWithPolicyLimit(cfg.PolicyListLimit),
		service.DashboardWithLogger(log),
	}
	if policyRepo != nil {
		dashboardOpts = append(dashboardOpts, service.DashboardWithPolicyLister(policyRepo))
	}
	dashboardService := service.NewDashboardService(dashboardOpts...)

	qaService := service.NewQAService(
		service.QAWithGazettes(gazetteService),
		service.QAWithGenerator(llmClient),
		service.QAWithLogger(log),
	)

	registryHandler := handlers.NewRegistryHandler(registryService)
	assistantHandler := handlers.NewAssistantHandler(assistantService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	gazetteHandler := handlers.NewGazetteHandler(gazetteService, analyzerService, cfg.AnalyzeAllLimit)
	analysisHandler := handlers.NewAnalysisHandler(analysisService)
	policyQueryHandler := handlers.NewPolicyQueryHandler(qaService)
	healthHandler := handlers.NewHealthHandler(pool, responseCache)

	if cfg.Environment != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handlers.RequestID())
	r.Use(handlers.RequestLogger(log))
	r.Use(handlers.RequestSizeLimit(int64(cfg.MaxRequestBytes)))
	r.Use(handlers.RateLimit(responseCache, cfg.RateLimitPerMinute, log))
	r.Use(m.Middleware())

	r.GET("/health", healthHandler.Health)
	r.GET("/readiness", healthHandler.Readiness)
	if cfg.EnableMetricsRoutes {
		r.GET("/metrics", m.Handler())
	}

	api := r.Group("/api")
	{
		reg := api.Group("/registry")
		{
			reg.GET("/documents", registryHandler.ListDocuments)
			reg.POST("/documents/refresh", registryHandler.RefreshDocuments)
			reg.POST("/selection", registryHandler.SelectDocument)
			reg.POST("/selection/all", registryHandler.SelectAllDocuments)
			reg.DELETE("/selection", registryHandler.ClearSelection)
			reg.GET("/policies/:id", registryHandler.GetPolicy)
		}

		api.GET("/dashboard", dashboardHandler.GetSummary)
		api.GET("/dashboard/summary", dashboardHandler.GetSummary)
		api.POST("/assistant", assistantHandler.SafeChat)
		api.POST("/assistant/chat", assistantHandler.Chat)
		api.POST("/analysis/run", analysisHandler.RunAnalysis)
		api.GET("/policy-analyses", gazetteHandler.AnalyzeAllGazettes)
		api.POST("/policy-query", policyQueryHandler.Query)

		gaz := api.Group("/gazettes")
		{
			gaz.GET("", gazetteHandler.ListGazettes)
			gaz.GET("/:id", gazetteHandler.GetGazette)
			gaz.POST("/analyze", gazetteHandler.AnalyzeAllGazettes)
			gaz.POST("/:id/analyze", gazetteHandler.AnalyzeGazette)
		}
	}

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
}

// policySourceAdapter feeds the stored policies into the registry source
// under the configured scan limit
type policySourceAdapter struct {
	repo  *repository.PolicyRepository
	limit int
}

func (a *policySourceAdapter) ListPolicies(ctx context.Context) ([]models.Policy, error) {
	return a.repo.List(ctx, a.limit)
}

func initPostgres(cfg config.Config, log zerolog.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, err
	}
	log.Info().Msg("postgres connection established")
	return pool, nil
}

func initGemini(cfg config.Config, log zerolog.Logger) (*genai.Client, error) {
	if cfg.GeminiAPIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY not set")
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, err
	}
	log.Info().Msg("gemini client initialized")
	return client, nil
}
