package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/seucuidado/internal/audit"
	"github.com/BruksfildServices01/seucuidado/internal/cache"
	"github.com/BruksfildServices01/seucuidado/internal/config"
	dbpkg "github.com/BruksfildServices01/seucuidado/internal/db"
	paymentDomain "github.com/BruksfildServices01/seucuidado/internal/domain/payment"
	"github.com/BruksfildServices01/seucuidado/internal/flash"
	"github.com/BruksfildServices01/seucuidado/internal/infra/kafka"
	"github.com/BruksfildServices01/seucuidado/internal/infra/mailer"
	"github.com/BruksfildServices01/seucuidado/internal/infra/mercadopago"
	infraRepo "github.com/BruksfildServices01/seucuidado/internal/infra/repository"
	"github.com/BruksfildServices01/seucuidado/internal/infra/storage"
	"github.com/BruksfildServices01/seucuidado/internal/monitoring"
	"github.com/BruksfildServices01/seucuidado/internal/realtime"
	"github.com/BruksfildServices01/seucuidado/internal/routes"
	"github.com/BruksfildServices01/seucuidado/internal/session"
	"github.com/BruksfildServices01/seucuidado/internal/timezone"
)

func main() {

	cfg := config.Load()

	if err := monitoring.InitSentry(cfg.SentryDSN, cfg.AppEnv); err != nil {
		log.Printf("sentry disabled: %v", err)
	}
	defer sentry.Flush(2 * time.Second)

	monitoring.Init()

	db := dbpkg.NewDB(cfg)
	defer dbpkg.Close(db)

	// ======================================================
	// Redis (opcional): pub/sub, flash e denylist
	// ======================================================
	var (
		broker   realtime.Broker  = realtime.NewMemoryBroker()
		flashes  flash.Store      = flash.NewMemoryStore()
		denylist session.Denylist = session.NewMemoryDenylist()
	)

	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}
		defer rdb.Close()

		broker = realtime.NewRedisBroker(rdb)
		flashes = flash.NewRedisStore(rdb)
		denylist = session.NewRedisDenylist(rdb)
	} else {
		log.Println("REDIS_URL not set, using in-process broker and session store")
	}

	// ======================================================
	// Auditoria e eventos
	// ======================================================
	sinks := []audit.Sink{
		audit.New(db),
		realtime.NewEventSink(broker),
	}

	if cfg.KafkaBroker != "" {
		publisher, err := kafka.NewPublisher(cfg.KafkaBroker, cfg.KafkaTopic)
		if err != nil {
			log.Printf("kafka disabled: %v", err)
		} else {
			defer publisher.Close()
			sinks = append(sinks, publisher)
		}
	}

	if cfg.SMTPEnabled() {
		sinks = append(sinks, mailer.NewNotifier(
			cfg.SMTPHost,
			cfg.SMTPPort,
			cfg.SMTPUser,
			cfg.SMTPPass,
			cfg.SMTPFrom,
			infraRepo.NewAppointmentGormRepository(db),
			timezone.Location(cfg.Timezone),
		))
	}

	dispatcher := audit.NewDispatcher(sinks...)

	// ======================================================
	// Integrações externas
	// ======================================================
	var gateway paymentDomain.Gateway
	if cfg.PaymentsEnabled() {
		mp, err := mercadopago.New(cfg.MPAccessToken)
		if err != nil {
			log.Fatalf("failed to configure mercado pago: %v", err)
		}
		gateway = mp
	} else {
		log.Println("MP_ACCESS_TOKEN not set, payments disabled")
	}

	var store storage.Store
	if cfg.S3Enabled() {
		store = storage.NewS3Store(storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PublicBaseURL:   cfg.S3PublicBaseURL,
		})
	} else {
		log.Println("S3 credentials not set, document uploads disabled")
	}

	// ======================================================
	// HTTP
	// ======================================================
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	routes.RegisterRoutes(r, routes.Deps{
		DB:       db,
		Config:   cfg,
		Audit:    dispatcher,
		Broker:   broker,
		Flash:    flashes,
		Denylist: denylist,
		Storage:  store,
		Gateway:  gateway,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server running on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown: %v", err)
	}

	// pending audit events still reach the sinks
	dispatcher.Close()
}
