package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	_ "github.com/scholarhub/portal-gateway/docs"
	"github.com/scholarhub/portal-gateway/internal/api"
	"github.com/scholarhub/portal-gateway/internal/api/middleware"
	"github.com/scholarhub/portal-gateway/internal/core/ports"
	"github.com/scholarhub/portal-gateway/internal/core/service"
	"github.com/scholarhub/portal-gateway/internal/infrastructure/config"
	"github.com/scholarhub/portal-gateway/internal/infrastructure/db/mongo"
	"github.com/scholarhub/portal-gateway/internal/infrastructure/db/redis"
	"github.com/scholarhub/portal-gateway/internal/infrastructure/gateway"
	"github.com/scholarhub/portal-gateway/internal/infrastructure/identity"
	"github.com/scholarhub/portal-gateway/internal/infrastructure/imgbb"
	"github.com/scholarhub/portal-gateway/internal/infrastructure/queue"
	"github.com/scholarhub/portal-gateway/internal/pkg/sealer"
	"github.com/scholarhub/portal-gateway/internal/portal"
	"github.com/scholarhub/portal-gateway/pkg/logger"
)

const (
	shutdownTimeout = 15 * time.Second
	sweepInterval   = time.Minute
)

func serveCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the portal gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return serve(cfg)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (overrides PORT)")
	return cmd
}

func serve(cfg *config.Config) error {
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Env == "development",
		Service: "portal-gateway",
		Env:     cfg.Env,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- MongoDB: persisted identities ---
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "portal-gateway",
	})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()

	seal, err := sealer.New(cfg.Session.Secret)
	if err != nil {
		return err
	}
	store := mongo.NewIdentityStore(db, seal, cfg.Session.Retention)
	if err := store.EnsureIndexes(ctx); err != nil {
		return err
	}

	// --- Redis: role cache (optional) ---
	var (
		roleCache ports.RoleCache = service.NewMemoryRoleCache()
		rdb       goredis.Cmdable
	)
	if cfg.Redis.Enabled {
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, role cache kept in memory")
		} else {
			defer client.Close()
			rdb = client
			roleCache = redis.NewRoleCache(client)
		}
	}

	// --- Identity backend ---
	dispatcher := queue.NewDispatcher(cfg.DispatchWorkers, logger.Component("dispatcher"))
	dispatcher.Start(ctx)

	toolkit := identity.NewToolkit(identity.ToolkitOptions{
		APIKey:         cfg.FirebaseAPIKey(),
		IdentityURL:    cfg.Identity.IdentityURL,
		SecureTokenURL: cfg.Identity.SecureTokenURL,
	})
	hub := identity.NewHub(toolkit, store, dispatcher, logger.Component("identity"))

	// --- Portal instances ---
	registry := portal.NewRegistry(portal.Deps{
		OpenIdentity: func(sessionID string) ports.IdentityBackend { return hub.Open(sessionID) },
		Gateway: gateway.Options{
			BaseURL: cfg.BackendURL(),
			Timeout: cfg.Backend.Timeout,
		},
		RoleCache: roleCache,
		Roles:     service.RoleResolverOptions{CacheTTL: cfg.Session.RoleCacheTTL},
		Uploader:  imgbb.New(imgbb.Options{APIKey: cfg.ImgbbAPIKey()}, logger.Component("imgbb")),
		Log:       logger.Component("portal"),
	}, cfg.Session.IdleTTL)
	defer registry.Close()
	go registry.Run(ctx, sweepInterval)

	backendURL := cfg.BackendURL()
	if backendURL == "" {
		backendURL = gateway.DefaultBaseURL
	}

	e := api.NewRouter(api.RouterDeps{
		Registry: registry,
		Cookie: middleware.CookieOptions{
			Secure: cfg.Session.CookieSecure,
			MaxAge: cfg.Session.Retention,
		},
		GuardWait:  cfg.Session.GuardWait,
		Mongo:      db,
		Redis:      rdb,
		BackendURL: backendURL,
		Log:        logger.Component("http"),
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", backendURL).Msg("portal gateway listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
