package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/md-rashed-zaman/consultbook/libs/config"
	"github.com/md-rashed-zaman/consultbook/libs/db"
	"github.com/md-rashed-zaman/consultbook/libs/grpcx"
	"github.com/md-rashed-zaman/consultbook/libs/httpx"
	"github.com/md-rashed-zaman/consultbook/libs/kafkax"
	otelx "github.com/md-rashed-zaman/consultbook/libs/otel"
	"github.com/md-rashed-zaman/consultbook/libs/runtime"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/availability"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/booking"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/cache"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/consumer"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/convert"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/handlers"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/meetings"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/metrics"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/notify"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/outbox"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/rules"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/storage"
	"github.com/md-rashed-zaman/consultbook/services/booking-service/internal/zone"
)

func main() {
	if err := runtime.LoadDotEnv(); err != nil {
		panic(err)
	}
	service := config.String("SERVICE_NAME", "booking-service")
	port, err := config.Port("PORT", "8083")
	if err != nil {
		panic(err)
	}
	grpcPort, err := config.Port("GRPC_PORT", "9093")
	if err != nil {
		panic(err)
	}
	logger := runtime.NewLogger(service)

	ctx, stop := runtime.SignalContext()
	defer stop()

	otelShutdown, err := otelx.Setup(ctx, otelx.ConfigFromEnv(service))
	if err != nil {
		logger.Error("otel setup failed", "err", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = otelShutdown(shutdownCtx)
		}()
	}

	ruleCfg, err := rules.Load(config.String("RULES_FILE", ""))
	if err != nil {
		logger.Error("rules load failed", "err", err)
		panic(err)
	}
	aliases, err := zone.ParseFixed(config.List("FIXED_ZONES", ""))
	if err != nil {
		panic(err)
	}
	zones := zone.WithAliases(aliases)
	if _, ok := zone.Resolve(zones, ruleCfg.Zone(), ""); !ok {
		panic("unknown business zone " + ruleCfg.BusinessZone)
	}
	engine, err := rules.NewEngine(ruleCfg, zones)
	if err != nil {
		panic(err)
	}
	conv := convert.New(zones, ruleCfg.Zone())
	avail := availability.NewService(conv, engine, availability.Options{
		OpenHour:      ruleCfg.OpenHour,
		CloseHour:     ruleCfg.CloseHour,
		LeadTimeHours: ruleCfg.LeadTimeHours,
	})
	m := metrics.New("consultbook")

	checks := []runtime.ReadyCheck{}

	var rdb *redis.Client
	if addr := config.String("REDIS_ADDR", ""); addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: config.String("REDIS_PASSWORD", ""),
			DB:       config.Int("REDIS_DB", 0),
		})
		defer func() { _ = rdb.Close() }()
		checks = append(checks, runtime.ReadyCheck{Name: "redis", Check: func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}

	var store booking.Store
	brokers := config.String("KAFKA_BROKERS", "")
	if dbURL := config.String("DATABASE_URL", ""); dbURL != "" {
		pool, err := db.Open(ctx, dbURL, db.PoolOptions{
			MaxConns: int32(config.Int("DB_MAX_CONNS", 10)),
			MinConns: int32(config.Int("DB_MIN_CONNS", 1)),
		})
		if err != nil {
			logger.Error("db connection failed", "err", err)
			panic(err)
		}
		defer pool.Close()
		if err := storage.Migrate(ctx, pool); err != nil {
			logger.Error("migrations failed", "err", err)
			panic(err)
		}
		checks = append(checks, runtime.ReadyCheck{Name: "db", Check: db.ReadyCheck(pool)})

		var dayCache storage.DayCache
		if rdb != nil {
			dayCache = cache.NewBookedSlotCache(rdb, config.Duration("BOOKED_CACHE_TTL", 5*time.Minute), "booked")
		}
		outboxRepo := outbox.NewRepository(pool)
		meetingStore := storage.NewMeetingStore(storage.NewMeetingRepository(pool), outboxRepo, conv, dayCache, logger, m.ObserveCache)
		store = meetingStore

		if brokers != "" {
			checks = append(checks, runtime.ReadyCheck{Name: "kafka", Check: kafkax.ReadyCheck(brokers)})
			publisher := outbox.NewPublisher(pool, outboxRepo, logger, outbox.PublisherConfig{
				Brokers:   brokers,
				PollEvery: config.Duration("OUTBOX_POLL_INTERVAL", 2*time.Second),
				BatchSize: config.Int("OUTBOX_BATCH_SIZE", 50),
				OnPublish: m.ObservePublished,
				OnBacklog: m.SetOutboxBacklog,
			})
			go publisher.Run(ctx)

			if dayCache != nil {
				invalidator := consumer.New(logger, nil, consumer.Config{
					Brokers: brokers,
					GroupID: config.String("KAFKA_GROUP_ID", service),
					Topic:   outbox.TopicConsultationBooked,
				}, consumer.InvalidateOnBooked(logger, meetingStore))
				go invalidator.Run(ctx)
			}
			if smtpHost := config.String("SMTP_HOST", ""); smtpHost != "" {
				sender := notify.NewSMTPSender(smtpHost, config.String("SMTP_PORT", "1025"), config.String("SMTP_FROM", ""))
				notifier := consumer.New(logger, storage.NewInboxRepository(pool), consumer.Config{
					Brokers: brokers,
					GroupID: config.String("KAFKA_GROUP_ID", service) + "-notify",
					Topic:   outbox.TopicConsultationBooked,
				}, consumer.NotifyOnBooked(logger, sender, ruleCfg.BusinessZone))
				go notifier.Run(ctx)
			}
		}
	} else {
		apiURL, err := config.RequiredString("MEETINGS_API_URL")
		if err != nil {
			panic(err)
		}
		logger.Info("no DATABASE_URL; proxying meetings API", "url", apiURL)
		store = meetings.NewClient(apiURL, config.Duration("MEETINGS_API_TIMEOUT", 10*time.Second))
	}

	bookingHandler := handlers.NewBookingHandler(avail, store, booking.NewBuilder(conv), zones, ruleCfg.Zone(), logger, m)

	mux := runtime.NewBaseMuxWithReady(checks...)
	mux.Handle("/metrics", m.Handler())
	bookingHandler.Register(mux)

	limit := config.Int("RATE_LIMIT_PER_MINUTE", 60)
	rateLimit := httpx.NewRateLimiter(limit, time.Minute).Middleware()
	if rdb != nil {
		rateLimit = httpx.NewRedisRateLimiter(rdb, limit, time.Minute, "rl:"+service).Middleware(logger, config.Bool("RATE_LIMIT_FAIL_OPEN", true))
	}
	httpHandler := httpx.Chain(mux,
		httpx.WithRequestID,
		httpx.WithAccessLog(logger),
		httpx.WithCORS(httpx.CORSPolicy{
			AllowedOrigins: config.List("CORS_ALLOWED_ORIGINS", ""),
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", "Idempotency-Key", httpx.RequestIDHeader},
			MaxAge:         10 * time.Minute,
		}),
		rateLimit,
		httpx.WithBodyLimit(64<<10),
		httpx.WithTimeout(15*time.Second),
	)
	httpHandler = otelhttp.NewHandler(httpHandler, "booking")
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           httpHandler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcSrv, health := grpcx.NewServer()
	grpcx.SetServing(health, service, true)
	go serveGRPC(logger, grpcSrv.Serve, grpcPort)

	go func() {
		logger.Info("http server starting", "addr", srv.Addr, "business_zone", ruleCfg.BusinessZone)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	grpcx.SetServing(health, service, false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}
	grpcSrv.GracefulStop()
	logger.Info("http server stopped")
}

func serveGRPC(logger *slog.Logger, serve func(net.Listener) error, port string) {
	lis, err := net.Listen("tcp", ":"+port)
	if err != nil {
		logger.Error("grpc listen failed", "err", err, "port", port)
		os.Exit(1)
	}
	logger.Info("grpc server starting", "addr", lis.Addr().String())
	if err := serve(lis); err != nil {
		logger.Error("grpc server error", "err", err)
	}
}
