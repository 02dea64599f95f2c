package bootstrap

import (
	"context"
	"log"

	"lecturenotes-be/internal/config"
	"lecturenotes-be/internal/controller"
	"lecturenotes-be/internal/handler"
	"lecturenotes-be/internal/pkg/logger"
	"lecturenotes-be/internal/pkg/mailer"
	"lecturenotes-be/internal/repository/implementation"
	"lecturenotes-be/internal/repository/unitofwork"
	"lecturenotes-be/internal/service"
	"lecturenotes-be/internal/websocket"
	"lecturenotes-be/pkg/embedding"
	"lecturenotes-be/pkg/llm/factory"
	"lecturenotes-be/pkg/qa"
	"lecturenotes-be/pkg/summarizer"
	"lecturenotes-be/pkg/transcribe"
	"lecturenotes-be/pkg/youtube"

	pkgNats "lecturenotes-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// embedTopic is the in-process queue topic connecting note generation to the
// embedding indexer.
const embedTopic = "note.embed"

type Container struct {
	// Controllers
	AuthController      controller.IAuthController
	NoteController      controller.INoteController
	QAController        controller.IQAController
	SlidesController    controller.ISlidesController
	CommunityController controller.ICommunityController

	// Background services, main.go owns running them.
	ConsumerService service.IConsumerService

	// WebSockets & notifications
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.App.ClientURL,
	)

	// In-process queue for embedding work
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// Embedding provider
	embeddingProvider, err := embedding.NewEmbeddingProvider(
		cfg.Ai.EmbeddingProvider,
		cfg.Keys.GoogleGemini,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.EmbeddingModel,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize embedding provider: %v", err)
	}
	log.Printf("[INFO] Using embedding provider: %s", cfg.Ai.EmbeddingProvider)

	// LLM provider shared by the summarizer and the question generator
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.SummaryModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM provider: %v", err)
	}
	log.Printf("[INFO] Using LLM provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.SummaryModel)

	summarizerService := summarizer.NewService(llmProvider, cfg.Ai.SummaryModel, cfg.Ai.FallbackModel)
	qaGenerator := qa.NewGenerator(llmProvider, cfg.Ai.QAModel, cfg.Ai.FallbackModel)

	// NATS
	natsPub, err := pkgNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS publisher: %v", err)
	}
	natsSub, err := pkgNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// Transcription pipeline
	var transcriber transcribe.Transcriber
	if cfg.Media.Transcriber == "google" {
		transcriber = transcribe.NewGoogleSpeechTranscriber(cfg.Keys.GoogleSpeech, cfg.Media.SpeechLanguage)
	} else {
		transcriber = transcribe.NewWhisperTranscriber(cfg.Media.WhisperBin, cfg.Media.WhisperModel, cfg.Media.WhisperTimeout)
	}
	log.Printf("[INFO] Using transcriber: %s", cfg.Media.Transcriber)

	ytIngester := youtube.NewIngester(cfg.Media.YtDlpBin, cfg.Media.UploadDir, transcriber, rdb)

	// WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	publisherService := service.NewPublisherService(embedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		embedTopic,
		uowFactory,
		embeddingProvider,
		sysLogger,
	)

	authService := service.NewAuthService(uowFactory, emailService, cfg.App.JWTSecret, sysLogger)
	noteService := service.NewNoteService(
		uowFactory,
		publisherService,
		embeddingProvider,
		natsPub,
		summarizerService,
		transcriber,
		ytIngester,
		sysLogger,
	)
	qaService := service.NewQAService(uowFactory, qaGenerator)
	slidesService := service.NewSlidesService(uowFactory, publisherService, summarizerService, sysLogger)
	communityService := service.NewCommunityService(uowFactory, natsPub, sysLogger)

	// Notification pipeline: NATS -> inbox rows -> websocket push
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, natsSub, wsHub, wsLogger)
	if natsSub != nil {
		go notifService.Start()
	}
	notifHandler := handler.NewNotificationHandler(notifService, wsHub, wsLogger)

	return &Container{
		AuthController:      controller.NewAuthController(authService),
		NoteController:      controller.NewNoteController(noteService, cfg.Media.UploadDir),
		QAController:        controller.NewQAController(qaService),
		SlidesController:    controller.NewSlidesController(slidesService, cfg.Media.UploadDir),
		CommunityController: controller.NewCommunityController(communityService),

		ConsumerService: consumerService,

		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,

		Logger: sysLogger,
	}
}
