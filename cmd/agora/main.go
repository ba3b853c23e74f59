package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Decentr-net/logrus/sentry"
	"github.com/davecgh/go-spew/spew"
	"github.com/go-chi/chi"
	"github.com/golang-migrate/migrate/v4"
	migratep "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jessevdk/go-flags"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Decentr-net/agora/internal/health"
	mm "github.com/Decentr-net/agora/internal/middleware"
	"github.com/Decentr-net/agora/internal/server"
	"github.com/Decentr-net/agora/internal/service/impl"
	"github.com/Decentr-net/agora/internal/signature"
	"github.com/Decentr-net/agora/internal/storage"
	"github.com/Decentr-net/agora/internal/storage/memory"
	"github.com/Decentr-net/agora/internal/storage/postgres"
	"github.com/Decentr-net/agora/internal/throttle"
)

// nolint:lll,gochecknoglobals
var opts = struct {
	Host           string        `long:"http.host" env:"HTTP_HOST" default:"0.0.0.0" description:"IP to listen on"`
	Port           int           `long:"http.port" env:"HTTP_PORT" default:"8080" description:"port to listen on for insecure connections, defaults to a random value"`
	RequestTimeout time.Duration `long:"http.request-timeout" env:"HTTP_REQUEST_TIMEOUT" default:"45s" description:"request processing timeout"`
	HealthCacheTTL time.Duration `long:"http.health-cache-ttl" env:"HTTP_HEALTH_CACHE_TTL" default:"1s" description:"duration the health check result is reused for"`

	Storage string `long:"storage" env:"STORAGE" default:"postgres" description:"storage driver" choice:"postgres" choice:"memory"`

	Postgres                   string `long:"postgres" env:"POSTGRES" default:"host=localhost port=5432 user=postgres password=root sslmode=disable" description:"postgres dsn"`
	PostgresMaxOpenConnections int    `long:"postgres.max_open_connections" env:"POSTGRES_MAX_OPEN_CONNECTIONS" default:"0" description:"postgres maximal open connections count, 0 means unlimited"`
	PostgresMaxIdleConnections int    `long:"postgres.max_idle_connections" env:"POSTGRES_MAX_IDLE_CONNECTIONS" default:"5" description:"postgres maximal idle connections count"`
	PostgresMigrations         string `long:"postgres.migrations" env:"POSTGRES_MIGRATIONS" default:"scripts/migrations/postgres" description:"postgres migrations directory"`

	ThrottleCreateInterval time.Duration `long:"throttle.create_interval" env:"THROTTLE_CREATE_INTERVAL" default:"30s" description:"minimal interval between two records created by one wallet in a collection"`
	ThrottleUpdateInterval time.Duration `long:"throttle.update_interval" env:"THROTTLE_UPDATE_INTERVAL" default:"3s" description:"minimal interval between two updates made by one wallet in a collection"`
	TestMode               bool          `long:"test-mode" env:"TEST_MODE" description:"disables write-rate limits and trusts every non-empty signature"`

	SignatureURL     string        `long:"signature.url" env:"SIGNATURE_URL" default:"http://localhost:8081" description:"signature verifier address"`
	SignatureTimeout time.Duration `long:"signature.timeout" env:"SIGNATURE_TIMEOUT" default:"5s" description:"timeout for requests to signature verifier"`

	FolloweeLimit uint64 `long:"feed.followee_limit" env:"FEED_FOLLOWEE_LIMIT" default:"300" description:"maximal count of followees the followee feed is built from"`

	LogLevel  string `long:"log.level" env:"LOG_LEVEL" default:"info" description:"Log level" choice:"debug" choice:"info" choice:"warning" choice:"error"`
	SentryDSN string `long:"sentry.dsn" env:"SENTRY_DSN" description:"sentry dsn"`
}{}

var errTerminated = errors.New("terminated")

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.ShortDescription = "Agora"
	parser.LongDescription = "Agora"

	_, err := parser.Parse()

	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			parser.WriteHelp(os.Stdout)
			os.Exit(0)
		}
		logrus.WithError(err).Fatal("error occurred while parsing flags")
	}

	lvl, _ := logrus.ParseLevel(opts.LogLevel) // err will always be nil
	logrus.SetLevel(lvl)

	logrus.Info("service started")
	logrus.Debug(spew.Sdump(opts))

	if opts.SentryDSN != "" {
		hook, err := sentry.NewHook(sentry.Options{
			Dsn:              opts.SentryDSN,
			AttachStacktrace: true,
			Release:          health.Release(),
			ServerName:       "agora",
		}, logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel)

		if err != nil {
			logrus.WithError(err).Fatal("failed to init sentry")
		}

		logrus.AddHook(hook)
	} else {
		logrus.Info("empty sentry dsn")
		logrus.Warn("skip sentry initialization")
	}

	s := mustGetStorage()
	defer func() {
		if err := s.Close(); err != nil {
			logrus.WithError(err).Error("failed to close storage")
		}
	}()

	v, closeValidator := getValidator()
	defer closeValidator()

	if opts.TestMode {
		logrus.Warn("test mode is enabled, write-rate limits are disabled")
	}

	g := throttle.New(s, opts.ThrottleCreateInterval, opts.ThrottleUpdateInterval, opts.TestMode)

	r := chi.NewMux()
	r.Get("/health", mm.Cached(opts.HealthCacheTTL, health.Handler(
		5*time.Second,
		health.Check{Name: "storage", Ping: s.Ping},
	)))
	r.Handle("/metrics", promhttp.Handler())
	r.Group(func(r chi.Router) {
		server.SetupRouter(impl.New(s, v, g, opts.FolloweeLimit), r, opts.RequestTimeout)
	})

	srv := http.Server{
		Addr:    fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		Handler: r,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	gr, ctx := errgroup.WithContext(ctx)
	gr.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	gr.Go(func() error {
		<-ctx.Done()

		sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer scancel()

		return srv.Shutdown(sctx)
	})
	gr.Go(func() error {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

		select {
		case s := <-sigs:
			logrus.Infof("terminating by %s signal", s)
		case <-ctx.Done():
			return nil
		}

		cancel()

		return errTerminated
	})

	logrus.Infof("listening on %s", srv.Addr)

	if err := gr.Wait(); err != nil && !errors.Is(err, errTerminated) {
		logrus.WithError(err).Fatal("service unexpectedly closed")
	}
}

func mustGetStorage() storage.Storage {
	var s storage.Storage

	switch opts.Storage {
	case "memory":
		logrus.Warn("memory storage is used, data will be lost on exit")
		s = memory.New()
	default:
		s = postgres.New(mustGetDB())
	}

	if err := s.Connect(context.Background()); err != nil {
		logrus.WithError(err).Fatal("failed to connect to storage")
	}

	return s
}

func getValidator() (signature.Validator, func()) {
	if opts.TestMode {
		return signature.Trusting{}, func() {}
	}

	v := signature.NewRemote(opts.SignatureURL, opts.SignatureTimeout)
	return v, func() {
		if err := v.Close(); err != nil {
			logrus.WithError(err).Error("failed to close signature verifier client")
		}
	}
}

func mustGetDB() *sql.DB {
	db, err := sql.Open("postgres", opts.Postgres)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create postgres connection")
	}
	db.SetMaxOpenConns(opts.PostgresMaxOpenConnections)
	db.SetMaxIdleConns(opts.PostgresMaxIdleConnections)

	if err := db.PingContext(context.Background()); err != nil {
		logrus.WithError(err).Fatal("failed to ping postgres")
	}

	driver, err := migratep.WithInstance(db, &migratep.Config{})
	if err != nil {
		logrus.WithError(err).Fatal("failed to create database migrate driver")
	}

	migrator, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", opts.PostgresMigrations), "postgres", driver)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create migrator")
	}

	switch v, d, err := migrator.Version(); err {
	case nil:
		logrus.Infof("database version %d with dirty state %t", v, d)
	case migrate.ErrNilVersion:
		logrus.Info("database version: nil")
	default:
		logrus.WithError(err).Fatal("failed to get version")
	}

	switch err := migrator.Up(); err {
	case nil:
		logrus.Info("database was migrated")
	case migrate.ErrNoChange:
		logrus.Info("database is up-to-date")
	default:
		logrus.WithError(err).Fatal("failed to migrate db")
	}

	return db
}
