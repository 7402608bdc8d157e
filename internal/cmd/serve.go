package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/fineko/fineko-api/internal/api"
	"github.com/fineko/fineko-api/internal/api/handler"
	"github.com/fineko/fineko-api/internal/core/ports"
	"github.com/fineko/fineko-api/internal/core/service"
	"github.com/fineko/fineko-api/internal/infrastructure/backend"
	"github.com/fineko/fineko-api/internal/infrastructure/content"
	"github.com/fineko/fineko-api/internal/infrastructure/db/memory"
	"github.com/fineko/fineko-api/internal/infrastructure/db/mongo"
	"github.com/fineko/fineko-api/internal/infrastructure/db/postgres"
	"github.com/fineko/fineko-api/internal/infrastructure/db/redis"
	"github.com/fineko/fineko-api/internal/infrastructure/http/handlers"
	"github.com/fineko/fineko-api/internal/infrastructure/queue"
	"github.com/fineko/fineko-api/internal/infrastructure/telegram"
	"github.com/fineko/fineko-api/internal/infrastructure/token"
	"github.com/fineko/fineko-api/internal/infrastructure/tracing"
	"github.com/fineko/fineko-api/internal/pkg/config"
	"github.com/fineko/fineko-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// stores groups the persistence the services depend on.
type stores struct {
	users       ports.UserRepository
	companies   ports.CompanyRepository
	memberships ports.MembershipRepository
	sessions    ports.SessionStore
	dedup       service.UpdateDeduper
	health      map[string]handlers.Pinger
	closers     []func(context.Context) error
}

func (s *stores) close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i](ctx))
	}
	return errors.Join(errs...)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}
	log := initLogger(cfg)
	displayBanner(cfg)

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		Endpoint:    cfg.OTLPEndpoint,
		ServiceName: "fineko-api",
		Version:     Version,
		Environment: cfg.Env,
		Insecure:    true,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn().Err(err).Msg("tracing shutdown")
		}
	}()

	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("closing stores")
		}
	}()

	codec, err := token.NewCodec(cfg.AuthSecret)
	if err != nil {
		return err
	}

	bot := telegram.NewClient(telegram.Config{
		BotToken: cfg.Telegram.BotToken,
		APIURL:   cfg.Telegram.APIURL,
		Timeout:  cfg.OutboundTimeout,
	}, logger.Component("telegram"))
	dispatcher := queue.NewDispatcher(cfg.DispatchWorkers, bot, logger.Component("dispatcher"))

	members := service.NewMembershipService(st.memberships, st.users)
	login := service.NewLoginService(st.users, st.sessions, log)
	companies := service.NewCompanyService(st.companies, st.memberships, st.users, st.sessions, members, codec, log)
	links := service.NewGroupLinkService(st.companies, st.sessions, members, log)
	webhook := service.NewTelegramService(login, links, dispatcher, st.dedup, cfg.AppBaseURL, log)

	if cfg.Telegram.WebhookSecret == "" {
		log.Warn().Msg("TELEGRAM_WEBHOOK_SECRET is empty, webhook requests are not authenticated")
	}

	var proxy echo.MiddlewareFunc
	if cfg.Backend.URL != "" {
		proxy, err = backend.NewProxy(backend.Config{
			TargetURL: cfg.Backend.URL,
			Prefix:    api.BackendPrefix,
			Timeout:   cfg.OutboundTimeout,
		}, logger.Component("backend"))
		if err != nil {
			return err
		}
	} else {
		log.Warn().Msg("BACKEND_URL is empty, backend proxy disabled")
	}

	widget, err := telegram.NewWidgetVerifier(cfg.Telegram.BotToken)
	if err != nil {
		return err
	}

	router := api.NewRouter(api.Dependencies{
		Log:        log,
		Login:      login,
		Companies:  companies,
		Resolver:   members,
		GroupLinks: links,
		Telegram:   webhook,
		Content:    content.NewClient(cfg.Backend.ContentURL, cfg.OutboundTimeout, logger.Component("content")),
		Verifier:   codec,
		Widget:     widget,
		Cookie: handler.CookieConfig{
			Name:   cfg.Cookie.Name,
			Domain: cfg.Cookie.Domain,
			Secure: cfg.IsProduction(),
		},
		WebhookSecret: cfg.Telegram.WebhookSecret,
		Backend:       proxy,
		Health:        st.health,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	dispatcher.Start(gctx)

	g.Go(func() error {
		log.Info().
			Str("port", cfg.Port).
			Str("store", cfg.StoreDriver).
			Str("sessions", cfg.SessionDriver).
			Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		dispatcher.Wait()
		return err
	})

	return g.Wait()
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	st := &stores{health: make(map[string]handlers.Pinger)}

	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, client.Disconnect)
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			_ = st.close(ctx)
			return nil, err
		}
		st.users = mongo.NewUserRepository(db)
		st.companies = mongo.NewCompanyRepository(db)
		st.memberships = mongo.NewMembershipRepository(db)
		st.health["mongodb"] = mongo.Pinger{DB: db}
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, closeSQL(db))
		if err := postgres.MigrateUp(db, log); err != nil {
			_ = st.close(ctx)
			return nil, err
		}
		st.users = postgres.NewUserRepository(db)
		st.companies = postgres.NewCompanyRepository(db)
		st.memberships = postgres.NewMembershipRepository(db)
		st.health["postgres"] = postgres.Pinger{DB: db}
	default:
		log.Warn().Msg("in-memory store: data is lost on restart")
		db := memory.New()
		st.users = db.Users()
		st.companies = db.Companies()
		st.memberships = db.Memberships()
		st.health["memory"] = db
	}

	switch cfg.SessionDriver {
	case config.DriverRedis:
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			_ = st.close(ctx)
			return nil, err
		}
		st.closers = append(st.closers, func(context.Context) error { return client.Close() })
		st.sessions = redis.NewSessionStore(client)
		st.dedup = redis.NewUpdateDeduper(client)
		st.health["redis"] = redis.Pinger{Client: client}
	default:
		st.sessions = memory.NewSessionStore(nil)
		st.dedup = memory.NewDeduper()
	}

	return st, nil
}

func closeSQL(db *sql.DB) func(context.Context) error {
	return func(context.Context) error { return db.Close() }
}

func displayBanner(cfg *config.Config) {
	if cfg.IsProduction() {
		return
	}
	myFigure := figure.NewFigure("fineko", "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
