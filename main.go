package main

import (
	"database/sql"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihttp "call-data-gen/internal/api/http"
	"call-data-gen/internal/audit"
	"call-data-gen/internal/auth"
	"call-data-gen/internal/config"
	"call-data-gen/internal/generator"
	"call-data-gen/internal/observability/metrics"
	"call-data-gen/internal/pipeline"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config error", zap.Error(err))
	}

	metrics.Init()

	var auditLogger audit.Logger
	if cfg.AuditDatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.AuditDatabaseURL)
		if err != nil {
			logger.Fatal("audit db open error", zap.Error(err))
		}
		defer db.Close()
		if err := db.Ping(); err != nil {
			logger.Fatal("audit db ping error", zap.Error(err))
		}
		auditLogger = audit.NewRepository(db)
	} else {
		auditLogger = audit.NewZapLogger(logger)
	}

	client, err := pipeline.NewClient(pipeline.Config{
		Host:               cfg.PipelineHost,
		Authorization:      cfg.PipelineAuthorization,
		Timeout:            cfg.PipelineTimeout,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}, logger)
	if err != nil {
		logger.Fatal("pipeline client error", zap.Error(err))
	}

	service, err := generator.NewService(client, cfg.Window(), generator.SystemClock{}, logger)
	if err != nil {
		logger.Fatal("generator service error", zap.Error(err))
	}

	handler, err := apihttp.NewHandler(service, logger)
	if err != nil {
		logger.Fatal("api handler error", zap.Error(err))
	}

	mux := http.NewServeMux()
	handler.Register(mux)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthCheck", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("alive"))
	})

	policy := auth.NewPolicy([]string{"/healthCheck", "/metrics"})
	authMiddleware := auth.NewMiddleware(
		auth.BasicCredentials{Username: cfg.BasicUsername, Password: cfg.BasicPassword},
		[]byte(cfg.JWTSecret),
		policy,
	)
	authMiddleware.OnError = func(w http.ResponseWriter, r *http.Request, status int, message string) {
		apihttp.WriteError(w, logger, status, message)
	}

	var chain http.Handler = mux
	chain = audit.Middleware(auditLogger, logger, chain)
	chain = authMiddleware.Wrap(chain)
	chain = apihttp.ContentTypeGuard(logger, chain)
	chain = apihttp.SecurityHeaders(chain)
	chain = apihttp.RequestLogging(logger, chain)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           chain,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("http listening", zap.String("addr", cfg.HTTPAddr))
	logger.Fatal("server stopped", zap.Error(server.ListenAndServe()))
}
