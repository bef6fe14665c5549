package app

import (
	"context"
	"errors"
	"fmt"
	"pulsewatch/config"
	middle "pulsewatch/internals/middleware"
	"pulsewatch/internals/modules/alert"
	"pulsewatch/internals/modules/check"
	"pulsewatch/internals/modules/endpoint"
	"pulsewatch/internals/modules/executor"
	"pulsewatch/internals/modules/notification"
	"pulsewatch/internals/modules/organization"
	"pulsewatch/internals/modules/plan"
	"pulsewatch/internals/modules/result"
	"pulsewatch/internals/modules/scheduler"
	"pulsewatch/internals/security"
	"pulsewatch/pkg/db"
	"pulsewatch/pkg/httpclient"
	"pulsewatch/pkg/metrics"
	"pulsewatch/pkg/rabbitmq"
	"pulsewatch/pkg/redisstore"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

type Container struct {
	DB          *pgxpool.Pool
	RedisClient *redisstore.Client
	Logger      *zerolog.Logger
	Metrics     *metrics.Metrics
	Scheduler   *scheduler.Scheduler
	CheckSvc    *check.Service
	EndpointSvc *endpoint.Service

	amqpConn  *amqp091.Connection
	publisher *rabbitmq.Publisher
	consumer  *rabbitmq.Consumer

	checkHandler        *check.Handler
	jobHandler          *scheduler.Handler
	planHandler         *plan.Handler
	notificationHandler *notification.Handler
	authMW              *middle.AuthMiddleware
	apiKeyHash          string
}

func NewContainer(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, logger *zerolog.Logger) (*Container, error) {

	if cfg.DB.AutoMigrate {
		if err := db.Migrate(ctx, dbPool); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info().Msg("database schema applied")
	}

	redisClient, err := redisstore.New(ctx, &cfg.Redis)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	validate := validator.New()

	c := &Container{
		DB:          dbPool,
		RedisClient: redisClient,
		Logger:      logger,
		Metrics:     m,
		apiKeyHash:  cfg.Auth.APIKeyHash,
	}

	// events are optional, nil publisher means nothing is emitted
	var events interface {
		Publish(ctx context.Context, eventType string, payload any) error
	}
	if cfg.RabbitMQ.Enabled {
		if err := c.initRabbitMQ(ctx, &cfg.RabbitMQ); err != nil {
			_ = redisClient.Close()
			return nil, err
		}
		events = c.publisher
	}

	// repositories
	endpointRepo := endpoint.NewRepository(dbPool)
	resultRepo := result.NewRepository(dbPool, logger)
	alertRepo := alert.NewRepository(dbPool, logger)
	channelRepo := notification.NewRepository(dbPool, logger)
	orgRepo := organization.NewRepository(dbPool, logger)

	// services
	endpointSvc := endpoint.NewService(endpointRepo, redisClient, logger)
	resultSvc := result.NewService(resultRepo, logger)
	planSvc := plan.NewService(orgRepo, plan.NewRequestLimiter(), logger)

	dispatcher := notification.NewDispatcher(
		channelRepo,
		httpclient.NewNotifierClient(cfg.Notification.SendTimeout),
		notification.NewSMTPMailer(cfg.Notification.SMTP),
		cfg.Notification.SendTimeout,
		m,
		logger,
	)

	var throttle alert.Throttle
	if cfg.Alerting.ThrottleBackend == "redis" {
		throttle = redisstore.NewThrottle(redisClient, alert.ThrottleWindow)
	}

	alertDeps := alert.Deps{
		Store:          alertRepo,
		Stats:          resultSvc,
		Throttle:       throttle,
		Dispatcher:     dispatcher,
		Recorder:       m,
		ErrorRateScope: result.ScopeKind(cfg.Alerting.ErrorRateScope),
		Logger:         logger,
	}
	checkDeps := check.Deps{
		Endpoints: endpointSvc,
		Prober:    executor.NewExecutor(httpclient.NewHttpClient(), logger),
		Recorder:  resultSvc,
		Stats:     resultSvc,
		Status:    redisClient,
		Metrics:   m,
		Logger:    logger,
	}
	if events != nil {
		alertDeps.Publisher = events
		checkDeps.Publisher = events
	}
	checkDeps.Evaluator = alert.NewService(alertDeps)
	checkSvc := check.NewService(checkDeps)
	c.CheckSvc = checkSvc
	c.EndpointSvc = endpointSvc

	// scheduler
	var locker scheduler.Locker = scheduler.NoopLocker{}
	if cfg.Scheduler.DistributedLock {
		locker = redisstore.NewLocker(redisClient)
	}
	sch := scheduler.New(locker, cfg.Scheduler.LockTTL, m, logger)
	retention := scheduler.NewRetentionJob(resultSvc, cfg.Retention.DefaultDays, logger)

	if err := sch.Register(scheduler.JobCheckActive, cfg.Scheduler.CheckSpec, func(ctx context.Context) error {
		_, err := checkSvc.RunActiveChecks(ctx)
		return err
	}); err != nil {
		return nil, err
	}
	if err := sch.Register(scheduler.JobRetentionCleanup, cfg.Scheduler.CleanupSpec, retention.Run); err != nil {
		return nil, err
	}
	c.Scheduler = sch

	// http
	tokenSvc := security.NewTokenService(&cfg.Auth)
	c.authMW = middle.NewAuthMiddleware(tokenSvc)
	c.checkHandler = check.NewHandler(ctx, checkSvc, planSvc, logger)
	c.jobHandler = scheduler.NewHandler(ctx, sch, logger)
	c.planHandler = plan.NewHandler(planSvc, validate)
	c.notificationHandler = notification.NewHandler(validate)

	return c, nil
}

func (c *Container) initRabbitMQ(ctx context.Context, rmqCfg *config.RabbitMQConfig) error {
	conn, err := rabbitmq.NewConnection(ctx, rmqCfg, c.Logger)
	if err != nil {
		return err
	}
	if err := rabbitmq.SetupTopology(conn, rmqCfg); err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq topology: %w", err)
	}

	pub, err := rabbitmq.NewPublisher(conn, rmqCfg.ExchangeName, rmqCfg.PublishRoutingKey)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("rabbitmq publisher: %w", err)
	}

	cons, err := rabbitmq.NewConsumer(conn, rmqCfg.QueueName, rmqCfg.WorkerCount, c.Logger)
	if err != nil {
		_ = pub.Close()
		_ = conn.Close()
		return fmt.Errorf("rabbitmq consumer: %w", err)
	}

	c.amqpConn = conn
	c.publisher = pub
	c.consumer = cons
	c.Logger.Info().Str("exchange", rmqCfg.ExchangeName).Msg("rabbitmq initialized")
	return nil
}

// Shutdown releases resources in reverse dependency order. The DB pool is
// owned and closed by main.
func (c *Container) Shutdown(ctx context.Context) error {
	var errs []error

	// 1. stop firing new jobs, wait for running ones
	if c.Scheduler != nil {
		c.Scheduler.Stop(ctx)
	}

	// 2. drain in-flight messages
	if c.consumer != nil {
		if err := c.consumer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("consumer: %w", err))
		}
	}
	if c.publisher != nil {
		if err := c.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}
	if c.amqpConn != nil {
		if err := c.amqpConn.Close(); err != nil && !errors.Is(err, amqp091.ErrClosed) {
			errs = append(errs, fmt.Errorf("amqp connection: %w", err))
		}
	}

	// 3. redis
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}

	return errors.Join(errs...)
}
