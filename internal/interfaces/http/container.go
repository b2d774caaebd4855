package http

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/subledger-inc/subledger/internal/application/subscription/usecases"
	"github.com/subledger-inc/subledger/internal/domain/shared/events"
	"github.com/subledger-inc/subledger/internal/infrastructure/config"
	"github.com/subledger-inc/subledger/internal/infrastructure/pubsub"
	"github.com/subledger-inc/subledger/internal/infrastructure/repository"
	"github.com/subledger-inc/subledger/internal/infrastructure/scheduler"
	"github.com/subledger-inc/subledger/internal/interfaces/http/handlers"
	"github.com/subledger-inc/subledger/internal/shared/biztime"
	"github.com/subledger-inc/subledger/internal/shared/logger"
)

const eventBufferSize = 100

// Container wires repositories, use cases, handlers, and background services
// together, and owns their lifecycle.
type Container struct {
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	dispatcher *events.InMemoryEventDispatcher

	subscriptionHandler *handlers.SubscriptionHandler
	reportHandler       *handlers.ReportHandler

	billingScheduler *scheduler.BillingScheduler
	schedulerCancel  context.CancelFunc
}

// NewContainer creates a new Container with all dependencies wired together
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	c.dispatcher = events.NewInMemoryEventDispatcher(eventBufferSize)
	if err := c.dispatcher.Start(); err != nil {
		return nil, err
	}

	if cfg.Redis.Enabled {
		if err := c.initRedis(); err != nil {
			return nil, err
		}
	}

	subscriptionRepo := repository.NewSubscriptionRepository(db, log)
	clock := biztime.SystemClock{}

	createUC := usecases.NewCreateSubscriptionUseCase(subscriptionRepo, c.dispatcher, clock, log)
	getUC := usecases.NewGetSubscriptionUseCase(subscriptionRepo, log)
	listUC := usecases.NewListSubscriptionsUseCase(subscriptionRepo, clock, log)
	updateUC := usecases.NewUpdateSubscriptionUseCase(subscriptionRepo, c.dispatcher, clock, log)
	deleteUC := usecases.NewDeleteSubscriptionUseCase(subscriptionRepo, c.dispatcher, clock, log)
	pauseUC := usecases.NewPauseSubscriptionUseCase(subscriptionRepo, c.dispatcher, clock, log)
	resumeUC := usecases.NewResumeSubscriptionUseCase(subscriptionRepo, c.dispatcher, clock, log)
	cancelUC := usecases.NewCancelSubscriptionUseCase(subscriptionRepo, c.dispatcher, clock, log)
	billingUC := usecases.NewProcessBillingUseCase(subscriptionRepo, c.dispatcher, clock, log)
	invoiceUC := usecases.NewGenerateInvoiceUseCase(subscriptionRepo, clock, log)
	mrrUC := usecases.NewCalculateMRRUseCase(subscriptionRepo, clock, log)
	dueUC := usecases.NewListDueSubscriptionsUseCase(subscriptionRepo, clock, log)

	c.subscriptionHandler = handlers.NewSubscriptionHandler(
		createUC, getUC, listUC, updateUC, deleteUC,
		pauseUC, resumeUC, cancelUC, billingUC, invoiceUC, log,
	)
	c.reportHandler = handlers.NewReportHandler(mrrUC, dueUC, billingUC, log)

	if cfg.Billing.SweepEnabled {
		interval := time.Duration(cfg.Billing.SweepIntervalMinutes) * time.Minute
		c.billingScheduler = scheduler.NewBillingScheduler(billingUC, interval, log)

		ctx, cancel := context.WithCancel(context.Background())
		c.schedulerCancel = cancel
		c.billingScheduler.Start(ctx)
	}

	return c, nil
}

// initRedis connects to Redis and bridges domain events onto the shared
// pub/sub channel for cross-instance consumers.
func (c *Container) initRedis() error {
	client := redis.NewClient(&redis.Options{
		Addr:     c.cfg.Redis.GetAddr(),
		Password: c.cfg.Redis.Password,
		DB:       c.cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		c.log.Errorw("failed to connect to redis", "addr", c.cfg.Redis.GetAddr(), "error", err)
		return err
	}

	c.redis = client
	c.log.Infow("redis connected", "addr", c.cfg.Redis.GetAddr())

	bus := pubsub.NewRedisSubscriptionEventBus(client, c.log)
	relay := pubsub.NewRelayHandler(bus, c.log)
	for _, eventType := range pubsub.RelayedEventTypes() {
		if err := c.dispatcher.Subscribe(eventType, relay); err != nil {
			return err
		}
	}

	return nil
}

// Engine returns the Gin engine
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// Shutdown stops background services and releases external connections
func (c *Container) Shutdown() {
	if c.billingScheduler != nil {
		c.billingScheduler.Stop()
	}
	if c.schedulerCancel != nil {
		c.schedulerCancel()
	}

	if err := c.dispatcher.Stop(); err != nil {
		c.log.Warnw("event dispatcher stop failed", "error", err)
	}

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Warnw("redis close failed", "error", err)
		}
	}
}
