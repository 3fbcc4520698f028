package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"social-feed-service/configs"
	"social-feed-service/internal/fanout"
	"social-feed-service/internal/follow"
	"social-feed-service/internal/kafka"
	"social-feed-service/internal/migrate"
	"social-feed-service/internal/notification"
	"social-feed-service/internal/post"
	"social-feed-service/internal/shared/httpx"
	"social-feed-service/internal/shared/redisx"
	"social-feed-service/internal/user"
	"social-feed-service/pkg/db"
	"social-feed-service/pkg/di"
)

func initOTEL(ctx context.Context) func(context.Context) error {
	endpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if endpoint == "" {
		endpoint = "otel-collector:4318"
	}
	exp, err := otlptracehttp.New(
		ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		log.Fatalf("otel exporter: %v", err)
	}

	svcName := os.Getenv("OTEL_SERVICE_NAME")
	if svcName == "" {
		svcName = "social-feed-service"
	}
	env := os.Getenv("ENV")
	if env == "" {
		env = "local"
	}

	res, _ := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(svcName),
			attribute.String("deployment.environment", env),
		),
	)

	ratio := 1.0
	if s := os.Getenv("OTEL_TRACES_SAMPLER_ARG"); s != "" {
		if f, e := strconv.ParseFloat(s, 64); e == nil && f >= 0 && f <= 1 {
			ratio = f
		}
	}

	tp := trace.NewTracerProvider(
		trace.WithSampler(trace.ParentBased(trace.TraceIDRatioBased(ratio))),
		trace.WithBatcher(exp),
		trace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}),
	)
	return tp.Shutdown
}

func newRouter(cfg *configs.Config, c *di.Container) http.Handler {
	api := http.NewServeMux()
	post.NewHandler(api, c.PostService)
	user.NewHandler(api, c.UserService)
	follow.NewHandler(api, c.FollowService)
	notification.NewHandler(api, c.NotificationService)

	mux := http.NewServeMux()
	mux.Handle("/", httpx.AuthMiddleware([]byte(cfg.JWTSecret), api))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return otelhttp.NewHandler(mux, "http.server")
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := configs.LoadConfig()

	shutdown := initOTEL(ctx)
	defer func() {
		c, cc := context.WithTimeout(context.Background(), 5*time.Second)
		defer cc()
		_ = shutdown(c)
	}()

	store := db.Open(cfg)
	if err := migrate.AutoMigrateAll(store); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb := redisx.Open(cfg.RedisAddr())

	producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer func() { _ = producer.Close() }()
	emitter := fanout.NewKafkaEmitter(producer)
	defer emitter.Close()

	container := di.BuildContainer(store.DB, rdb, emitter)

	consumer := kafka.NewConsumer(
		cfg.KafkaBrokers, cfg.KafkaGroupID, cfg.KafkaTopic,
		fanout.NewEventHandler(container.Dedup, container.NotificationService),
	)
	go func() {
		if err := consumer.Run(ctx); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	srv := &http.Server{
		Addr:              cfg.AppPort,
		Handler:           newRouter(cfg, container),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		log.Printf("social-feed-service listening on %s", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Print("shutting down...")

	shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	_ = srv.Shutdown(shCtx)
	cancel()
}
