package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/gatewaystack/okta-connector/internal/config"
	"github.com/gatewaystack/okta-connector/internal/database"
	"github.com/gatewaystack/okta-connector/internal/handler"
	"github.com/gatewaystack/okta-connector/internal/http"
	"github.com/gatewaystack/okta-connector/internal/identity"
	"github.com/gatewaystack/okta-connector/internal/middleware"
	"github.com/gatewaystack/okta-connector/internal/provider"
	"github.com/gatewaystack/okta-connector/internal/repository"
	"github.com/gatewaystack/okta-connector/internal/session"
	"github.com/gatewaystack/okta-connector/internal/token"
	"github.com/gatewaystack/okta-connector/internal/utils/miscutils"
	"github.com/gatewaystack/okta-connector/pkg/logger"
)

func main() {
	// A local .env file may carry the environment during development.
	_ = godotenv.Load()

	// Initialize basic dependencies. A configuration error is fatal, the
	// process must not serve traffic.
	conf, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "err", err)
		os.Exit(1)
	}
	logger.Init(os.Stdout, conf.Logger.Level, conf.Logger.Pretty)

	ctx := context.Background()

	// User database and repository.
	db, err := database.Connect(ctx, conf)
	if err != nil {
		slog.Error("failed to connect to the database", "err", err)
		os.Exit(1)
	}
	repo := repository.NewRepository(db)

	// Gateway token minter and identity resolver.
	minter, err := token.NewMinter([]byte(conf.Token.SigningKey), conf.Token.Issuer, conf.Token.TTL)
	if err != nil {
		slog.Error("failed to create token minter", "err", err)
		os.Exit(1)
	}
	resolver := identity.NewResolver(repo, minter)

	// Session store, Redis-backed when configured.
	var sessions session.Store
	if conf.Session.RedisAddr != "" {
		if sessions, err = session.NewRedisStore(ctx, conf); err != nil {
			slog.Error("failed to connect to redis", "err", err)
			os.Exit(1)
		}
	} else {
		sessions = session.NewMemoryStore(conf)
	}

	// Provider discovery happens once, here. A discovery error is fatal: the
	// server never starts, so requests can not hit an unusable adapter.
	okta, err := provider.New(ctx, conf)
	if err != nil {
		slog.Error("failed to discover the identity provider", "err", err)
		os.Exit(1)
	}

	// The connector only ever answers its own gateway's origin.
	base := miscutils.MustParseURL(conf.Application.BaseURL)

	// Initialize the HTTP server.
	server := &http.Server{
		Config:     conf,
		Middleware: middleware.Middleware{AllowOrigin: base.Scheme + "://" + base.Host},
		Handler:    handler.NewHandler(conf, okta, resolver, sessions),
	}

	// This internally calls ListenAndServe.
	// This is a blocking call and will panic if the server is unable to start.
	server.Start()
}
