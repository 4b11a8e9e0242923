package bootstrap

import (
	"context"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"letterdesk/internal/entities"
	"letterdesk/internal/files"
	"letterdesk/internal/letters"
	"letterdesk/internal/llm"
	openai "letterdesk/internal/llm/openai"
	"letterdesk/internal/research"
	"letterdesk/internal/shared/config"
	"letterdesk/internal/shared/server"
	"letterdesk/internal/shared/storage/object"
	localstore "letterdesk/internal/shared/storage/object/local"
	s3store "letterdesk/internal/shared/storage/object/s3"
)

// App holds shared dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	Store  object.ObjectStore
	LLM    llm.Client

	FilesRepo    files.Repo
	EntitiesRepo entities.Repo
	LettersRepo  letters.Repo

	FilesService    *files.Service
	EntitiesService *entities.Service
	ResearchService *research.Service
	LettersService  *letters.Service

	FileHandler     *files.Handler
	EntityHandler   *entities.Handler
	ResearchHandler *research.Handler
	LetterHandler   *letters.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		Store:  store,
		LLM:    buildLLM(cfg),
	}

	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		FileHandler:     app.FileHandler,
		EntityHandler:   app.EntityHandler,
		ResearchHandler: app.ResearchHandler,
		LetterHandler:   app.LetterHandler,
	})

	return app, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildLLM(cfg config.Config) llm.Client {
	if cfg.LLMProvider == "openai" {
		client, err := openai.NewClient(os.Getenv("OPENAI_API_KEY"), cfg.LLMModel)
		if err != nil {
			log.Printf("bootstrap: openai client unavailable; using offline completions: %v", err)
			return llm.OfflineClient{}
		}
		return client
	}
	return llm.OfflineClient{}
}

func buildServices(app *App) {
	app.FilesRepo = files.NewMemoryRepo()
	app.EntitiesRepo = entities.NewMemoryRepo()
	app.LettersRepo = letters.NewMemoryRepo()

	maxBytes := app.Config.MaxUploadMB << 20
	app.FilesService = &files.Service{Store: app.Store, Repo: app.FilesRepo, MaxBytes: maxBytes}
	app.EntitiesService = &entities.Service{Repo: app.EntitiesRepo, Files: app.FilesService, Extractor: entities.PatternExtractor{}}
	app.ResearchService = &research.Service{Entities: app.EntitiesService, Researcher: &research.LLMResearcher{Client: app.LLM}}
	app.LettersService = &letters.Service{Store: app.Store, Repo: app.LettersRepo, Files: app.FilesService, Writer: &letters.LLMWriter{Client: app.LLM}}

	// Deleting a resume cascades to its derived entities and letters.
	app.FilesService.Cleanups = []files.Cleanup{app.EntitiesService, app.LettersService}

	app.FileHandler = files.NewHandler(app.FilesService)
	app.EntityHandler = entities.NewHandler(app.EntitiesService)
	app.ResearchHandler = research.NewHandler(app.ResearchService)
	app.LetterHandler = letters.NewHandler(app.LettersService)
}
