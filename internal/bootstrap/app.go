package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"jobsearch-backend/internal/account"
	googleauth "jobsearch-backend/internal/auth"
	"jobsearch-backend/internal/coverletters"
	"jobsearch-backend/internal/favorites"
	"jobsearch-backend/internal/jobs"
	"jobsearch-backend/internal/llm"
	openai "jobsearch-backend/internal/llm/openai"
	"jobsearch-backend/internal/matches"
	"jobsearch-backend/internal/resumes"
	"jobsearch-backend/internal/services/health"
	"jobsearch-backend/internal/shared/auth"
	"jobsearch-backend/internal/shared/config"
	"jobsearch-backend/internal/shared/server"
	"jobsearch-backend/internal/shared/server/middleware"
	"jobsearch-backend/internal/shared/storage/cache"
	"jobsearch-backend/internal/shared/storage/db"
	"jobsearch-backend/internal/shared/storage/object"
	localstore "jobsearch-backend/internal/shared/storage/object/local"
	s3store "jobsearch-backend/internal/shared/storage/object/s3"
	"jobsearch-backend/internal/shared/storage/search"
	"jobsearch-backend/internal/shared/telemetry"
	"jobsearch-backend/internal/usage"
	"jobsearch-backend/internal/users"
)

// App holds shared dependencies and the assembled router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Redis  *redis.Client
	Search *elasticsearch.Client
	Store  object.ObjectStore

	JobsRepo         jobs.Repo
	FavoritesRepo    favorites.Repo
	ResumesRepo      resumes.Repo
	CoverLettersRepo coverletters.Repo
	UsersRepo        users.Repo

	JobsService         *jobs.Service
	FavoritesService    *favorites.Service
	ResumesService      *resumes.Service
	CoverLettersService *coverletters.Service
	MatchesService      *matches.Service
	UsageService        *usage.Service
	AccountService      *account.Service
	UsersService        *users.Service
	HealthService       *health.Service
	GoogleAuth          *googleauth.GoogleService
}

// Build connects backing services and wires every handler into the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	telemetry.Init(cfg.LogLevel)
	if cfg.Env == "production" && strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, fmt.Errorf("JWT_SECRET is required in production")
	}
	auth.SetSecret(cfg.JWTSecret)
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	redisClient, err := buildRedis(ctx, cfg)
	if err != nil {
		return nil, err
	}
	esClient, err := search.Connect(cfg.ElasticsearchAddresses)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Redis:  redisClient,
		Search: esClient,
		Store:  store,
	}
	if err := buildServices(app); err != nil {
		return nil, err
	}

	deps := server.RouterDeps{
		Config:             cfg,
		HealthHandler:      health.NewHandler(app.HealthService),
		JobsHandler:        jobs.NewHandler(app.JobsService),
		FavoritesHandler:   favorites.NewHandler(app.FavoritesService),
		ResumesHandler:     resumes.NewHandler(app.ResumesService),
		CoverLetterHandler: coverletters.NewHandler(app.CoverLettersService),
		MatchHandler:       matches.NewHandler(app.MatchesService),
		AccountHandler:     account.NewHandler(app.AccountService),
		UsageHandler:       usage.NewHandler(app.UsageService),
		UserHandler:        users.NewHandler(app.UsersService),
		GoogleAuth:         app.GoogleAuth,
	}
	if redisClient != nil {
		deps.Limiter = middleware.NewRedisRateLimiter(redisClient, nil)
	}
	app.Router = server.NewRouter(deps)

	return app, nil
}

// Close releases pooled connections.
func (a *App) Close() {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
	telemetry.Sync()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.WithOverrides(db.DefaultServerOptions(), cfg.DB))
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
		if err != nil {
			sqlDB.Close()
		}
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repos", map[string]any{"reason": "database unavailable", "error": err})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildRedis(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	client, err := cache.Connect(ctx, cache.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil && isDevLike(cfg.Env) {
		telemetry.Warn("bootstrap.redis_disabled", map[string]any{"error": err})
		return nil, nil
	}
	return client, err
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	if cfg.LLMProvider != "openai" || strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
		if cfg.LLMProvider == "openai" {
			telemetry.Warn("bootstrap.llm_placeholder", map[string]any{"reason": "OPENAI_API_KEY empty"})
		}
		return llm.PlaceholderClient{}, nil
	}
	return openai.NewClient(openai.Config{
		APIKey:     cfg.OpenAIAPIKey,
		Model:      cfg.LLMModel,
		BaseURL:    cfg.OpenAIBaseURL,
		Timeout:    60 * time.Second,
		MaxRetries: 2,
	})
}

func buildServices(app *App) error {
	var (
		jobsRepo   jobs.Repo
		favRepo    favorites.Repo
		resumeRepo resumes.Repo
		letterRepo coverletters.Repo
		userRepo   users.Repo
		usageSvc   *usage.Service
	)
	if app.DB != nil {
		jobsRepo = jobs.NewPGRepo(app.DB)
		favRepo = favorites.NewPGRepo(app.DB)
		resumeRepo = resumes.NewPGRepo(app.DB)
		letterRepo = coverletters.NewPGRepo(app.DB)
		userRepo = users.NewPGRepo(app.DB)
		usageSvc = usage.NewPostgresService(usage.NewPGStore(app.DB))
	} else {
		jobsRepo = jobs.NewMemoryRepo(jobs.SamplePostings(time.Now().UTC())...)
		favRepo = favorites.NewMemoryRepo()
		resumeRepo = resumes.NewMemoryRepo()
		letterRepo = coverletters.NewMemoryRepo()
		userRepo = users.NewMemoryRepo()
		usageSvc = usage.NewService()
	}
	if app.Redis != nil {
		jobsRepo = jobs.NewCachedRepo(jobsRepo, app.Redis, app.Config.JobsCacheTTL)
	}

	var searcher jobs.Searcher
	if app.Search != nil {
		searcher = jobs.NewESSearcher(app.Search, app.Config.ElasticsearchIndex)
	}

	llmClient, err := buildLLM(app.Config)
	if err != nil {
		return err
	}

	jobsSvc := jobs.NewService(jobsRepo, searcher)
	resumeSvc := resumes.NewService(resumeRepo)

	app.JobsRepo = jobsRepo
	app.FavoritesRepo = favRepo
	app.ResumesRepo = resumeRepo
	app.CoverLettersRepo = letterRepo
	app.UsersRepo = userRepo

	app.JobsService = jobsSvc
	app.FavoritesService = favorites.NewService(favRepo, jobsSvc)
	app.ResumesService = resumeSvc
	app.UsageService = usageSvc
	app.CoverLettersService = coverletters.NewService(letterRepo, jobsSvc, resumeSvc, usageSvc, llmClient, app.Store)
	app.MatchesService = matches.NewService(matches.NewProfileSource(jobsSvc, resumeSvc))
	if app.DB != nil {
		app.AccountService = account.NewPGService(app.DB)
	} else {
		app.AccountService = account.NewService(favRepo, resumeRepo, letterRepo)
	}
	app.UsersService = users.NewService(userRepo,
		users.FavoritesActivity{Repo: favRepo},
		users.CoverLettersActivity{Repo: letterRepo},
		users.ResumeActivity{Repo: resumeRepo},
	)
	app.GoogleAuth = googleauth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		app.UsersService,
	)
	if app.Redis != nil {
		app.GoogleAuth.WithStateStore(googleauth.NewRedisStateStore(app.Redis))
	}

	app.HealthService = health.NewService()
	if app.DB != nil {
		app.HealthService.Add("db", app.DB.PingContext)
	}
	if app.Redis != nil {
		app.HealthService.Add("redis", func(ctx context.Context) error { return app.Redis.Ping(ctx).Err() })
	}
	if app.Search != nil {
		app.HealthService.Add("search", func(ctx context.Context) error { return search.Ping(ctx, app.Search) })
	}

	telemetry.Info("bootstrap.ready", map[string]any{
		"env":          app.Config.Env,
		"postgres":     app.DB != nil,
		"redis":        app.Redis != nil,
		"search":       app.Search != nil,
		"object_store": app.Config.ObjectStoreType,
		"llm":          fmt.Sprintf("%T", llmClient),
	})
	return nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}
