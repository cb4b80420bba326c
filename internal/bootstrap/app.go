package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"clauseminer/internal/ai"
	appsvc "clauseminer/internal/app"
	"clauseminer/internal/cache"
	"clauseminer/internal/config"
	"clauseminer/internal/extract"
	"clauseminer/internal/model"
	mysqlClient "clauseminer/internal/platform/mysql"
	rabbitmqClient "clauseminer/internal/platform/rabbitmq"
	redisClient "clauseminer/internal/platform/redis"
	"clauseminer/internal/repository"
	"clauseminer/internal/worker"
)

// App wires configuration, infrastructure, and services together; the HTTP
// router and the background worker both draw from it.
type App struct {
	Config *config.Config
	MySQL  *gorm.DB
	Redis  *redis.Client
	MQConn *amqp.Connection

	Extractions      *appsvc.ExtractionService
	Exports          *appsvc.ExportService
	JobPublisher     *rabbitmqClient.JobPublisher
	ExtractionWorker *worker.ExtractionWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	if err := mysqlDB.AutoMigrate(&model.Document{}, &model.Clause{}); err != nil {
		return nil, fmt.Errorf("auto migrate tables failed: %w", err)
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	llmClient := ai.NewOpenAICompatibleClient(logger)
	extractor := extract.NewExtractor(
		llmClient,
		ai.ChatConfig{
			BaseURL: cfg.LLM.BaseURL,
			APIKey:  cfg.LLM.APIKey,
			Model:   cfg.LLM.Model,
		},
		extract.Options{
			Temperature:     cfg.Extraction.Temperature,
			MaxOutputTokens: cfg.Extraction.MaxOutputTokens,
			ChunkDelay:      time.Duration(cfg.Extraction.ChunkDelayMS) * time.Millisecond,
		},
		logger,
	)

	documentRepo := repository.NewDocumentRepository(mysqlDB)
	clauseRepo := repository.NewClauseRepository(mysqlDB)
	resultCache := cache.NewResultCache(redisCli, time.Duration(cfg.Extraction.ResultTTLSeconds)*time.Second)

	extractions := appsvc.NewExtractionService(documentRepo, clauseRepo, extractor, resultCache, cfg.Extraction)
	exports := appsvc.NewExportService(extractions)
	publisher := rabbitmqClient.NewJobPublisher(mqConn, cfg.RabbitMQ.ExtractionJobQueue)

	extractionWorker := worker.NewExtractionWorker(mqConn, extractions, cfg.RabbitMQ.ExtractionJobQueue)
	if err := extractionWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start extraction worker failed: %w", err)
	}

	return &App{
		Config:           cfg,
		MySQL:            mysqlDB,
		Redis:            redisCli,
		MQConn:           mqConn,
		Extractions:      extractions,
		Exports:          exports,
		JobPublisher:     publisher,
		ExtractionWorker: extractionWorker,
		StartedAt:        time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.ExtractionWorker != nil {
		a.ExtractionWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	return closeErr
}
