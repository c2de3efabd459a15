package bootstrap

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"agenthub/internal/config"
	"agenthub/internal/model"
	mysqlClient "agenthub/internal/platform/mysql"
	rabbitmqClient "agenthub/internal/platform/rabbitmq"
	redisClient "agenthub/internal/platform/redis"
	"agenthub/internal/storage"
	"agenthub/internal/vector"
	"agenthub/internal/worker"
)

type App struct {
	Config       *config.Config
	MySQL        *gorm.DB
	Redis        *redis.Client
	MQConn       *amqp.Connection
	ContentStore storage.ContentStore
	VectorStore  vector.Store
	IndexWorker  *worker.DocumentIndexWorker

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
	if err := mysqlDB.AutoMigrate(
		&model.User{},
		&model.Group{},
		&model.UserGroup{},
		&model.Category{},
		&model.Agent{},
		&model.AgentCategory{},
		&model.AgentGroup{},
		&model.AgentFile{},
	); err != nil {
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

	contentStore, err := newContentStore(cfg.Storage)
	if err != nil {
		return nil, err
	}

	vectorStore := vector.NewMemoryStore()
	indexWorker := worker.NewDocumentIndexWorker(mqConn, contentStore, vectorStore, cfg.RabbitMQ.IndexQueue)
	if err := indexWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start index worker failed: %w", err)
	}

	return &App{
		Config:       cfg,
		MySQL:        mysqlDB,
		Redis:        redisCli,
		MQConn:       mqConn,
		ContentStore: contentStore,
		VectorStore:  vectorStore,
		IndexWorker:  indexWorker,
		StartedAt:    time.Now(),
	}, nil
}

func newContentStore(cfg config.StorageConfig) (storage.ContentStore, error) {
	switch cfg.Backend {
	case "minio":
		return storage.NewMinioStore(
			cfg.MinioEndpoint,
			cfg.MinioAccessKey,
			cfg.MinioSecretKey,
			cfg.MinioBucket,
			cfg.MinioUseSSL,
		)
	case "", "local":
		return storage.NewLocalStore(cfg.UploadDir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.IndexWorker != nil {
		a.IndexWorker.Close()
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
