package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"

	config "github.com/sheger-tech/chapa-backend/internal/cfg"
	v1Http "github.com/sheger-tech/chapa-backend/internal/delivery/v1/http"
	"github.com/sheger-tech/chapa-backend/internal/infrastructure/chapa"
	"github.com/sheger-tech/chapa-backend/internal/infrastructure/kafka"
	minioInfra "github.com/sheger-tech/chapa-backend/internal/infrastructure/minio"
	s3Repo "github.com/sheger-tech/chapa-backend/internal/repository/minio"
	"github.com/sheger-tech/chapa-backend/internal/repository/pgdb"
	pgdbConv "github.com/sheger-tech/chapa-backend/internal/repository/pgdb/converter/generated"
	"github.com/sheger-tech/chapa-backend/internal/repository/redis"
	redisConv "github.com/sheger-tech/chapa-backend/internal/repository/redis/converter/generated"
	"github.com/sheger-tech/chapa-backend/internal/usecase"
	"github.com/sheger-tech/chapa-backend/pkg/clients"
	"github.com/sheger-tech/chapa-backend/pkg/closer"
	"github.com/sheger-tech/chapa-backend/pkg/e"
	"github.com/sheger-tech/chapa-backend/pkg/logger"
	"github.com/sheger-tech/chapa-backend/pkg/postgres"
)

const (
	shutdownTimeout = 10 * time.Second
	ensureTimeout   = 10 * time.Second
)

// App собирает зависимости и управляет жизненным циклом приложения.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer
}

func NewApp(cfg *config.Config, logger logger.Logger) (*App, error) {
	return &App{
		cfg:    cfg,
		logger: logger,
		closer: closer.NewCloser(0),
	}, nil
}

// Run инициализирует инфраструктуру, поднимает HTTP-сервер и блокируется
// до сигнала завершения или фатальной ошибки сервера.
func (a *App) Run() error {
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	db, err := initPGDB(a.logger, a.cfg)
	if err != nil {
		a.logger.Errorf(err, "failed to initialize database")
		return err
	}
	a.closer.Add(func(ctx context.Context) error {
		db.Close()
		a.logger.Infof("Postgres pool closed")
		return nil
	})

	prConv := pgdbConv.NewProductConverterImpl()
	orderConv := pgdbConv.NewOrderConverterImpl()
	outboxConv := pgdbConv.NewOutboxEventConverterImpl()
	infoConv := redisConv.NewProductInfoConverterImpl()

	productRepo := pgdb.NewProductRepo(db.Pool, prConv)
	orderRepo := pgdb.NewOrderRepo(db.Pool, orderConv)
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, outboxConv)

	minioClient, err := clients.NewMinIOClient(a.cfg.Minio)
	if err != nil {
		a.logger.Errorf(err, "failed to initialize minio client")
		return a.shutdown(err)
	}

	minioCtx, minioCancel := context.WithTimeout(appCtx, ensureTimeout)
	if err := clients.EnsureBucket(minioCtx, minioClient, a.cfg.Minio.BucketName); err != nil {
		minioCancel()
		a.logger.Errorf(err, "failed to initialize MinIO bucket")
		return a.shutdown(err)
	}
	minioCancel()

	imageRepo := s3Repo.NewImageRepo(minioClient, a.cfg.Minio)
	imagesInfra := minioInfra.NewMinioInfrastructure(imageRepo, a.cfg.Minio, a.logger, appCtx)
	a.closer.Add(func(ctx context.Context) error {
		if err := imagesInfra.WaitForCleanup(ctx); err != nil {
			a.logger.Warnf("MinIO cleanup error: %v", err)
			return err
		}
		a.logger.Infof("MinIO cleanup completed")
		return nil
	})

	redisClient := clients.NewRedisClient(a.cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(appCtx, 5*time.Second)
	if err := redisClient.Ping(redisCtx); err != nil {
		redisCancel()
		a.logger.Errorf(err, "failed to connect to redis")
		return a.shutdown(err)
	}
	redisCancel()
	a.closer.Add(func(ctx context.Context) error {
		return redisClient.Client.Close()
	})

	cacheRepo := redis.NewCacheRepo(redisClient, infoConv, a.cfg.Redis, a.logger)

	gateway := chapa.NewClient(a.cfg.Chapa, a.logger)

	producer, err := kafka.NewProducer(a.logger, a.cfg.Kafka)
	if err != nil {
		a.logger.Errorf(err, "failed to initialize kafka producer")
		return a.shutdown(err)
	}
	if err := producer.EnsureTopic(ensureTimeout); err != nil {
		a.logger.Errorf(err, "failed to ensure kafka topic")
		return a.shutdown(err)
	}
	a.closer.Add(func(ctx context.Context) error {
		return producer.Close()
	})

	outboxWorker := kafka.NewOutboxWorker(outboxRepo, a.logger, producer, db.Dsn)
	outboxWorker.Start(appCtx)
	a.closer.Add(func(ctx context.Context) error {
		outboxWorker.Stop()
		a.logger.Infof("Outbox worker stopped")
		return nil
	})

	orderUC := usecase.NewOrderUC(orderRepo, productRepo, gateway, a.logger)
	paymentUC := usecase.NewPaymentUC(orderRepo, gateway, producer, a.cfg.Chapa.WebhookSecret, a.logger)
	productUC := usecase.NewProductUC(productRepo, outboxRepo, db.Pool, imagesInfra, cacheRepo, a.logger)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, a.logger)
	router.Init(orderUC, paymentUC, productUC)

	httpSrv := v1Http.NewServer(r, a.cfg.Http)
	a.closer.Add(func(ctx context.Context) error {
		if err := httpSrv.Stop(ctx); err != nil {
			return err
		}
		a.logger.Infof("HTTP server stopped")
		return nil
	})

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// === Ожидание сигнала или ошибки ===
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	return a.shutdown(appErr)
}

// shutdown закрывает все зарегистрированные ресурсы в порядке LIFO.
func (a *App) shutdown(appErr error) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Warnf("shutdown finished with errors: %v", err)
	} else {
		a.logger.Infof("Application shutdown complete")
	}

	return appErr
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
