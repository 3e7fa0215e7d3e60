package bootstrap

import (
	"log"

	"tg-content-bot/internal/config"
	"tg-content-bot/internal/controller"
	"tg-content-bot/internal/pkg/logger"
	"tg-content-bot/internal/repository/unitofwork"
	"tg-content-bot/internal/scheduler"
	"tg-content-bot/internal/service"
	"tg-content-bot/internal/vectorstore"
	"tg-content-bot/pkg/docsource"
	"tg-content-bot/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ContentController controller.IContentController
	SyncController    controller.ISyncController

	// Background services (exposed for main.go to run)
	ConsumerService service.IConsumerService
	Scheduler       *scheduler.Scheduler

	// Exposed for one-shot binaries and shutdown
	SyncService service.ISyncService
	VectorStore vectorstore.Store
	Logger      logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. Embedding provider based on config
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Ai.GeminiApiKey)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// 4. Vector index
	var vectors vectorstore.Store
	if cfg.Vector.Enabled {
		vectors = vectorstore.NewPgVectorStore(db, cfg.Vector.Dimension, sysLogger)
	} else {
		vectors = vectorstore.NewNoopStore()
		log.Printf("[INFO] Vector search is disabled")
	}

	// 5. Document source
	source, err := docsource.NewGoogleDocsSource(cfg.Source.ServiceAccountBase64, sysLogger)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize document source: %v", err)
	}
	docID := docsource.DocIDFromURL(cfg.Source.DocumentURL)
	if docID == "" {
		log.Fatalf("[FATAL] FULL_CONTENT_GOOGLE_DOCS_URL is missing or malformed")
	}

	// 6. Services
	contentService := service.NewContentService(uowFactory)
	searchService := service.NewSearchService(uowFactory, vectors, embeddingProvider)
	syncService := service.NewSyncService(
		uowFactory,
		source,
		vectors,
		embeddingProvider,
		docID,
		contentService,
		sysLogger,
	)

	publisherService := service.NewPublisherService(cfg.Sync.TopicName, pubSub)
	consumerService := service.NewConsumerService(pubSub, cfg.Sync.TopicName, syncService, sysLogger)
	syncScheduler := scheduler.New(cfg.Sync.Schedule, publisherService, sysLogger)

	// 7. Controllers
	contentController := controller.NewContentController(contentService, searchService)
	syncController := controller.NewSyncController(publisherService)

	return &Container{
		ContentController: contentController,
		SyncController:    syncController,
		ConsumerService:   consumerService,
		Scheduler:         syncScheduler,
		SyncService:       syncService,
		VectorStore:       vectors,
		Logger:            sysLogger,
	}
}
