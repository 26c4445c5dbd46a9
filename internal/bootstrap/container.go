package bootstrap

import (
	"context"
	"fmt"
	"log"
	"time"

	"campusbot-be/internal/config"
	"campusbot-be/internal/controller"
	"campusbot-be/internal/pkg/logger"
	"campusbot-be/internal/repository/contract"
	"campusbot-be/internal/repository/implementation"
	"campusbot-be/internal/repository/memory"
	redisrepo "campusbot-be/internal/repository/redis"
	"campusbot-be/internal/service"
	"campusbot-be/pkg/assistant"
	"campusbot-be/pkg/department"
	"campusbot-be/pkg/embedding"
	"campusbot-be/pkg/eventstore"
	"campusbot-be/pkg/llm/factory"
	"campusbot-be/pkg/metrics"
	pktNats "campusbot-be/pkg/nats"
	"campusbot-be/pkg/translate"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController   controller.IChatController
	HealthController controller.IHealthController

	// Background Services (Exposed for main.go to run)
	AuditConsumer service.IAuditConsumerService

	Metrics *metrics.Recorder
	Logger  logger.ILogger

	closers []func() error
}

func NewContainer(db *gorm.DB, cfg *config.Config) (*Container, error) {
	c := &Container{}

	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.IsProduction())
	c.Logger = sysLogger
	c.Metrics = metrics.NewRecorder()

	// 2. AI Providers
	llmProvider, err := factory.NewLLMProvider(cfg.Ai)
	if err != nil {
		return nil, fmt.Errorf("llm provider: %w", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	embeddingKey, embeddingURL := cfg.Ai.GeminiKey, ""
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingKey, embeddingURL = "", cfg.Ai.OllamaBaseURL
	}
	embeddingProvider, err := embedding.NewEmbeddingProvider(cfg.Ai.EmbeddingProvider, embeddingKey, embeddingURL, cfg.Ai.EmbeddingModel)
	if err != nil {
		return nil, fmt.Errorf("embedding provider: %w", err)
	}
	log.Printf("[INFO] Using Embedding Provider: %s", cfg.Ai.EmbeddingProvider)

	detector, translator, err := translate.NewClient(cfg.Translation, llmProvider)
	if err != nil {
		return nil, fmt.Errorf("translation client: %w", err)
	}

	// 3. Data Sources
	directory, err := department.Load(cfg.Contacts.MappingPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrConfiguration, err)
	}

	events, err := eventstore.OpenSQLite(cfg.EventStore.Path, cfg.EventStore.MaxRows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrConfiguration, err)
	}
	c.closers = append(c.closers, events.Close)

	chunkRepo := implementation.NewDocumentChunkRepository(db)
	turnLogRepo := implementation.NewChatTurnLogRepository(db)

	sessionRepo, err := c.newSessionRepository(cfg.Session)
	if err != nil {
		return nil, err
	}

	// 4. Assistant Pipeline
	orchestrator, err := assistant.NewOrchestrator(assistant.Pipeline{
		Detector: assistant.NewLanguageDetector(detector, cfg.Translation.CanonicalLanguage, cfg.Timeouts.Detection),
		Refiner: assistant.NewQueryRefiner(llmProvider, cfg.Timeouts.Generation,
			cfg.Session.HistoryWindow, cfg.Session.HistoryTokenBudget),
		Router: assistant.NewRouter(llmProvider, cfg.Timeouts.Generation),
		Tools: []assistant.Tool{
			assistant.NewDocumentRetrievalTool(
				service.NewQueryEmbedder(embeddingProvider),
				service.NewChunkIndex(chunkRepo),
				llmProvider,
				assistant.RetrievalOptions{
					Threshold:         cfg.Retrieval.DistanceThreshold,
					ProbeK:            cfg.Retrieval.ProbeK,
					TopK:              cfg.Retrieval.TopK,
					FetchK:            cfg.Retrieval.FetchK,
					UseMMR:            cfg.Retrieval.SearchType == "mmr",
					MMRLambda:         cfg.Retrieval.MMRLambda,
					SearchTimeout:     cfg.Timeouts.Retrieval,
					GenerationTimeout: cfg.Timeouts.Generation,
				},
			),
			assistant.NewStructuredQueryTool(events, llmProvider, assistant.StructuredQueryOptions{
				MaxRows:           cfg.EventStore.MaxRows,
				QueryTimeout:      cfg.Timeouts.StoreQuery,
				GenerationTimeout: cfg.Timeouts.Generation,
			}),
			assistant.NewContactLookupTool(directory, llmProvider, cfg.Timeouts.Generation),
			assistant.NewConversationTool(llmProvider, cfg.Timeouts.Generation),
		},
		Translator: assistant.NewAnswerTranslator(translator, cfg.Translation.CanonicalLanguage, cfg.Timeouts.Translation),
	}, sysLogger, c.Metrics)
	if err != nil {
		return nil, err
	}

	// 5. Event Bus
	var auditPublisher service.IAuditPublisher
	if cfg.Messaging.AuditEnabled {
		pubSub := gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 256},
			watermill.NewStdLogger(false, false),
		)
		c.closers = append(c.closers, pubSub.Close)

		var external service.EventPublisher
		if cfg.Messaging.NatsURL != "" {
			natsPub, err := pktNats.NewPublisher(cfg.Messaging.NatsURL)
			if err != nil {
				log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
			} else {
				external = natsPub
				c.closers = append(c.closers, func() error { natsPub.Close(); return nil })
			}
		}

		auditPublisher = service.NewAuditPublisher(pubSub, service.AuditTopic)
		c.AuditConsumer = service.NewAuditConsumerService(pubSub, service.AuditTopic, turnLogRepo, external, sysLogger)
	}

	// 6. Services & Controllers
	chatService := service.NewChatService(orchestrator, sessionRepo, auditPublisher, sysLogger)
	c.ChatController = controller.NewChatController(chatService)
	c.HealthController = controller.NewHealthController(chunkRepo, cfg.Timeouts.Retrieval, sysLogger)

	return c, nil
}

func (c *Container) newSessionRepository(cfg config.SessionConfig) (contract.SessionRepository, error) {
	if cfg.Backend != "redis" {
		return memory.NewSessionRepository(cfg.Capacity, cfg.TTL), nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	c.closers = append(c.closers, rdb.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		// Turns will answer 503 until Redis is reachable.
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}
	return redisrepo.NewSessionRepository(rdb, cfg.TTL), nil
}

// Close releases everything the container opened, last opened first.
func (c *Container) Close() error {
	var firstErr error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.Logger != nil {
		_ = c.Logger.Sync()
	}
	return firstErr
}
