package bootstrap

import (
	"context"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"helpdesk-knowledge-be/internal/config"
	"helpdesk-knowledge-be/internal/controller"
	"helpdesk-knowledge-be/internal/pkg/logger"
	"helpdesk-knowledge-be/internal/repository/unitofwork"
	"helpdesk-knowledge-be/internal/service"
	"helpdesk-knowledge-be/pkg/embedding"
	pktNats "helpdesk-knowledge-be/pkg/nats"
	"helpdesk-knowledge-be/pkg/search"
	"helpdesk-knowledge-be/pkg/smartsearch"
	"helpdesk-knowledge-be/pkg/storage"
)

type Container struct {
	// Controllers
	SearchController    controller.ISearchController
	KnowledgeController controller.IKnowledgeController
	IssueController     controller.IIssueController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Initialize Embedding Provider based on Config
	var embeddingProvider embedding.Provider
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
	embeddingProvider = embedding.NewRetryProvider(embeddingProvider, 3)

	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		natsPub = nil
	}

	// Redis, with in-process fallback when unreachable
	searchConfig := search.Config{
		KeywordWeight:  cfg.Search.KeywordWeight,
		VectorWeight:   cfg.Search.VectorWeight,
		ExternalWeight: cfg.Search.ExternalWeight,

		TitleMatchScore:       cfg.Search.TitleMatchScore,
		DescriptionMatchScore: cfg.Search.DescriptionMatchScore,
		FallbackMatchScore:    cfg.Search.FallbackMatchScore,
		DefaultExternalScore:  search.DefaultConfig().DefaultExternalScore,

		MinSimilarity: cfg.Search.MinSimilarity,
		DefaultLimit:  cfg.Search.DefaultLimit,

		SourceTimeout: cfg.Search.SourceTimeout,
		CacheTTL:      cfg.Search.CacheTTL,
	}

	var responseCache search.ResponseCache
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v. Falling back to in-memory cache", err)
		responseCache = search.NewMemoryCache(searchConfig.CacheTTL)
	} else {
		responseCache = search.NewRedisCache(rdb, searchConfig.CacheTTL)
	}

	// Blob storage
	blobStore, err := storage.NewLocalStore(cfg.Storage.UploadDir)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize blob storage: %v", err)
	}

	// External search is optional; without a URL the source stays dark.
	var externalClient smartsearch.Client
	if cfg.Search.SmartSearchURL != "" {
		externalClient = smartsearch.NewHTTPClient(cfg.Search.SmartSearchURL, cfg.Search.SmartSearchKey)
		log.Printf("[INFO] External search enabled (%s)", cfg.Search.SmartSearchURL)
	}

	// 3. Search Engine
	keywordSource := search.NewKeywordSource(uowFactory, searchConfig)
	vectorSource := search.NewVectorSource(uowFactory, embeddingProvider, searchConfig)
	var externalSource search.ExternalSearcher
	if externalClient != nil {
		externalSource = search.NewExternalSource(externalClient, searchConfig)
	}

	orchestrator := search.NewOrchestrator(
		keywordSource,
		vectorSource,
		externalSource,
		responseCache,
		searchConfig,
		sysLogger,
	)

	// 4. Services
	publisherService := service.NewPublisherService(pubSub, cfg.Ai.IngestTopic)

	ingestionService := service.NewIngestionService(
		uowFactory,
		blobStore,
		embeddingProvider,
		natsPub,
		sysLogger,
		service.IngestionConfig{
			ChunkSize:       cfg.Ai.ChunkSize,
			ChunkOverlap:    cfg.Ai.ChunkOverlap,
			VectorDimension: cfg.Ai.VectorDimension,
		},
	)

	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Ai.IngestTopic,
		ingestionService,
	)

	searchService := service.NewSearchService(orchestrator)
	knowledgeService := service.NewKnowledgeService(uowFactory, publisherService, cfg.Ai.IngestStaleAfter)
	issueService := service.NewIssueService(uowFactory)
	fileService := service.NewFileService(uowFactory, blobStore, publisherService)

	// 5. Controllers
	return &Container{
		SearchController:    controller.NewSearchController(searchService),
		KnowledgeController: controller.NewKnowledgeController(fileService, knowledgeService, ingestionService),
		IssueController:     controller.NewIssueController(issueService),

		ConsumerService: consumerService,
	}
}
