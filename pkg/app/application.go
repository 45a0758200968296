package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"laptoploan/internal/contact"
	"laptoploan/internal/events"
	"laptoploan/internal/health"
	"laptoploan/internal/jobs"
	"laptoploan/internal/notifications"
	reservationhandler "laptoploan/internal/reservations/handler"
	reservationrepo "laptoploan/internal/reservations/repository"
	reservationservice "laptoploan/internal/reservations/service"
	reservationvalidator "laptoploan/internal/reservations/validator"
	"laptoploan/internal/scheduler"
	userhandler "laptoploan/internal/users/handler"
	userrepo "laptoploan/internal/users/repository"
	userservice "laptoploan/internal/users/service"
	uservalidator "laptoploan/internal/users/validator"
	"laptoploan/pkg/client"
	"laptoploan/pkg/config"
	"laptoploan/pkg/contracts"
	apperrors "laptoploan/pkg/errors"
	httputil "laptoploan/pkg/http"
	"laptoploan/pkg/kafka"
	kafka_config "laptoploan/pkg/kafka/config"
	kafkamiddleware "laptoploan/pkg/kafka/middleware"
	"laptoploan/pkg/locale"
	"laptoploan/pkg/middleware"
	"laptoploan/pkg/session"

	"github.com/julienschmidt/httprouter"
)

// Application owns the HTTP server and every background worker. The Mongo
// connection is opened by the caller and disconnected here on shutdown.
type Application struct {
	cfg     *config.Config
	mongo   *client.Mongo
	server  *http.Server
	handler http.Handler

	idempotencyStore *middleware.InMemoryIdempotencyStore
	rateLimiter      *middleware.RateLimiter
	dispatcher       *notifications.Dispatcher
	producer         *kafka.Producer
	publishMetrics   *kafkamiddleware.PublishMetrics
	scheduler        *scheduler.Scheduler
}

// New wires the application. kafkaCfg may be nil or have no brokers, in
// which case reservation events are discarded.
func New(cfg *config.Config, mongo *client.Mongo, kafkaCfg *kafka_config.Config) (*Application, error) {
	a := &Application{cfg: cfg, mongo: mongo}

	notifier := a.setNotifications()

	publisher, err := a.setPublisher(kafkaCfg)
	if err != nil {
		a.stopWorkers()
		return nil, err
	}

	reservations := reservationrepo.NewMongoReservationRepository(cfg, mongo.DB)
	users := userrepo.NewMongoUserRepository(cfg, mongo.DB)

	if err := a.setScheduler(reservations, users, notifier); err != nil {
		a.stopWorkers()
		return nil, err
	}

	sessions := session.NewManager(session.Config{
		Secret:     cfg.SessionSecret,
		CookieName: cfg.SessionCookieName,
		TTL:        cfg.SessionTTL,
		Secure:     cfg.SessionSecure,
	})
	auth := middleware.NewAuth(sessions, cfg.Log.Component("auth"))

	a.idempotencyStore = middleware.NewInMemoryIdempotencyStore(cfg.IdempotencyTTL)
	a.rateLimiter = middleware.NewRateLimiter(
		cfg.RateLimitRequests,
		cfg.RateLimitWindow,
		middleware.ClientIP,
		cfg.Log,
	)

	reservationService := reservationservice.NewReservationService(
		reservations,
		users,
		reservationvalidator.NewReservationValidator(),
		notifier,
		publisher,
		cfg,
	)
	userService := userservice.NewUserService(users, uservalidator.NewUserValidator(), cfg)

	appRouter := httprouter.New()
	appRouter.NotFound = http.HandlerFunc(notFound)
	for _, h := range []contracts.Handler{
		reservationhandler.NewReservationHandler(reservationService, auth, cfg.Log),
		userhandler.NewUserHandler(userService, sessions, auth, a.rateLimiter, cfg.Log),
		contact.NewHandler(contact.NewService(notifier, cfg.Log), a.rateLimiter, cfg.Log),
	} {
		h.RegisterRoutes(appRouter)
	}

	a.handler = a.buildHandler(appRouter, auth)
	a.server = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      a.handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	cfg.Log.Info("HTTP server configured", "port", cfg.Port)
	return a, nil
}

func (a *Application) setNotifications() *notifications.Notifier {
	var mailer notifications.Mailer
	if a.cfg.SendGridAPIKey != "" {
		mailer = notifications.NewSendGridMailer(a.cfg.SendGridAPIKey, a.cfg.MailFromAddress, a.cfg.MailFromName)
		a.cfg.Log.Info("Mail delivery via SendGrid enabled", "from", a.cfg.MailFromAddress)
	} else {
		mailer = notifications.NewLogMailer(a.cfg.Log.Component("mail"))
		a.cfg.Log.Warn("SENDGRID_API_KEY not set, mail will only be logged")
	}

	a.dispatcher = notifications.NewDispatcher(mailer, notifications.DispatcherConfig{
		QueueSize:   a.cfg.MailQueueSize,
		Workers:     a.cfg.MailWorkers,
		SendTimeout: a.cfg.MailSendTimeout,
	}, a.cfg.Log.Component("mail"))

	return notifications.NewNotifier(a.dispatcher, a.cfg.ContactAddress, a.cfg.Log.Component("mail"))
}

func (a *Application) setPublisher(kafkaCfg *kafka_config.Config) (events.Publisher, error) {
	if kafkaCfg == nil || !kafkaCfg.Enabled() {
		a.cfg.Log.Info("KAFKA_BROKERS not set, reservation events disabled")
		return events.Nop{}, nil
	}

	log := a.cfg.Log.Component("events")
	producer, err := kafka.NewProducer(kafkaCfg, log)
	if err != nil {
		return nil, err
	}

	a.producer = producer
	a.publishMetrics = kafkamiddleware.NewPublishMetrics()
	producer.Use(a.publishMetrics.Middleware())
	if kafkaCfg.EnableMiddleware {
		producer.Use(kafkamiddleware.LoggingProducerMiddleware(log))
	}

	kafkaCfg.LogConfiguration(log.Info)
	return events.NewKafkaPublisher(producer, kafkaCfg.PublishTimeout, log), nil
}

func (a *Application) setScheduler(reservations jobs.OutstandingFinder, users jobs.UserDirectory, notifier *notifications.Notifier) error {
	if !a.cfg.SchedulerEnabled {
		a.cfg.Log.Info("Scheduler disabled")
		return nil
	}

	runner := jobs.NewJobRunner(reservations, users, notifier, a.cfg)
	s, err := scheduler.NewScheduler(runner, a.cfg.Log.Component("scheduler"))
	if err != nil {
		return err
	}
	a.scheduler = s
	return nil
}

// buildHandler puts the health endpoints behind Recovery and Logging only
// and the application routes behind the full stack.
func (a *Application) buildHandler(appRouter *httprouter.Router, auth *middleware.Auth) http.Handler {
	cfg := a.cfg

	healthRouter := httprouter.New()
	opts := []health.Option{health.WithMailQueue(a.dispatcher.Pending)}
	if a.publishMetrics != nil {
		opts = append(opts, health.WithEventMetrics(a.publishMetrics.Snapshot))
	}
	health.NewHandler(a.mongo, cfg.Log, opts...).RegisterRoutes(healthRouter)

	var healthHTTPHandler http.Handler = healthRouter
	healthHTTPHandler = middleware.RequestLogging(cfg.Log)(healthHTTPHandler)
	healthHTTPHandler = middleware.Recovery(cfg.Log)(healthHTTPHandler)

	// Recovery → Logging → Language → MaxSize → ContentType → Timeout → Session → Idempotency → Router
	var appHTTPHandler http.Handler = appRouter
	appHTTPHandler = middleware.Idempotency(a.idempotencyStore, middleware.DefaultIdempotencyHeader, middleware.CookieScope(cfg.SessionCookieName))(appHTTPHandler)
	appHTTPHandler = auth.Authenticate(appHTTPHandler)
	appHTTPHandler = middleware.RequestTimeout(cfg.RequestTimeout)(appHTTPHandler)
	appHTTPHandler = middleware.ContentTypeValidation(cfg.Log)(appHTTPHandler)
	appHTTPHandler = middleware.MaxRequestSize(int64(cfg.MaxRequestSize))(appHTTPHandler)
	appHTTPHandler = middleware.Language(locale.Parse(cfg.DefaultLocale))(appHTTPHandler)
	appHTTPHandler = middleware.RequestLogging(cfg.Log)(appHTTPHandler)
	appHTTPHandler = middleware.Recovery(cfg.Log)(appHTTPHandler)
	cfg.Log.Info("Application endpoints configured with full middleware stack")

	mux := http.NewServeMux()
	mux.Handle("/health", healthHTTPHandler)
	mux.Handle("/ready", healthHTTPHandler)
	mux.Handle("/", appHTTPHandler)
	return mux
}

func notFound(w http.ResponseWriter, r *http.Request) {
	httputil.WriteError(w, r, apperrors.NotFound("Page").WithKey(locale.KeyPageNotFound))
}

// Handler returns the root HTTP handler.
func (a *Application) Handler() http.Handler {
	return a.handler
}

func (a *Application) Run() {
	if a.scheduler != nil {
		a.scheduler.Start()
	}

	serverErrors := make(chan error, 1)

	go func() {
		a.cfg.Log.Info("Starting HTTP server", "address", a.server.Addr)
		serverErrors <- a.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			a.stopWorkers()
			a.cfg.Log.Fatal("HTTP server failed", "error", err)
		}

	case sig := <-shutdown:
		a.cfg.Log.Info("Shutdown signal received", "signal", sig)
		a.gracefulShutdown()
	}
}

// gracefulShutdown drains HTTP first so in-flight requests can still queue
// mail and events, then stops the workers and closes the store.
func (a *Application) gracefulShutdown() {
	a.cfg.Log.Info("Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.cfg.Log.Error("Server shutdown failed", "error", err)
		if err := a.server.Close(); err != nil {
			a.cfg.Log.Error("Could not stop server gracefully", "error", err)
		}
	}
	a.cfg.Log.Info("Server stopped")

	a.stopWorkers()

	if err := a.mongo.Disconnect(ctx); err != nil {
		a.cfg.Log.Error("MongoDB disconnect failed", "error", err)
	}

	a.cfg.Log.Info("Shutdown complete")
}

func (a *Application) stopWorkers() {
	a.cfg.Log.Info("Stopping background workers...")
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.dispatcher != nil {
		a.dispatcher.Stop()
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.cfg.Log.Error("Kafka producer close failed", "error", err)
		}
	}
	if a.idempotencyStore != nil {
		a.idempotencyStore.Stop()
	}
	if a.rateLimiter != nil {
		a.rateLimiter.Stop()
	}
	a.cfg.Log.Info("Background workers stopped")
}
