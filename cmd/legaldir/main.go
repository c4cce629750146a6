// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the legal directory admin server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"legaldir/internal/blog"
	"legaldir/internal/cache"
	"legaldir/internal/config"
	"legaldir/internal/database"
	"legaldir/internal/directory"
	"legaldir/internal/handlers"
	"legaldir/internal/media"
	"legaldir/internal/middleware"
	"legaldir/internal/models"
	"legaldir/internal/router"
	"legaldir/internal/session"
	"legaldir/internal/storage"
	"legaldir/internal/store"
	"legaldir/internal/taxonomy"
)

func main() {
	envFiles := config.LoadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Text logs in development, JSON everywhere else.
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"env_files", envFiles,
	)

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seeding is a no-op for tables that already have rows.
	if cfg.IsDev() || cfg.SeedFile != "" {
		if err := database.Seed(db, cfg.SeedFile); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// Object storage is optional; without it uploads answer 503.
	var objects storage.ObjectStore
	if cfg.StorageConfigured() {
		client, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		if client != nil {
			objects = client
			slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
		}
	} else {
		slog.Warn("s3 storage not configured, uploads disabled")
	}

	userStore := store.NewUserStore(db)
	profileStore := store.NewProfileStore(db)
	serviceStore := store.NewServiceStore(db)
	postStore := store.NewPostStore(db)
	changes := store.NewCacheLogStore(db)

	treeCache := cache.NewTreeCache(valkeyClient, cfg.TreeCacheTTL)
	practices := taxonomy.NewManager(models.TaxonomyPractice,
		store.NewCategoryStore(db, models.TaxonomyPractice), treeCache, changes)
	postCategories := taxonomy.NewManager(models.TaxonomyPostCategory,
		store.NewCategoryStore(db, models.TaxonomyPostCategory), treeCache, changes)

	mediaService := media.NewService(objects, store.NewMediaStore(db))
	drafts := cache.NewDraftStore(valkeyClient, cfg.DraftTTL)

	companies := directory.NewCompanies(profileStore, mediaService, changes)
	specialists := directory.NewSpecialists(profileStore, mediaService, changes)
	services := directory.NewServices(serviceStore, profileStore, mediaService, changes)
	posts := blog.NewPosts(postStore, drafts, postCategories, mediaService, changes)

	var clientKey middleware.KeyFunc = middleware.RemoteIP
	if len(cfg.TrustedProxies) > 0 {
		clientKey = middleware.ForwardedIP(cfg.TrustedProxies)
		slog.Info("trusting X-Forwarded-For", "proxies", len(cfg.TrustedProxies))
	}
	loginLimiter := middleware.NewRateLimiter(cfg.LoginAttempts, cfg.LoginWindow, clientKey)
	defer loginLimiter.Stop()
	twoFALimiter := middleware.NewRateLimiter(cfg.LoginAttempts, cfg.LoginWindow, middleware.SessionUser)
	defer twoFALimiter.Stop()

	r := router.New(router.Options{
		Sessions:      sessionStore,
		LoginLimiter:  loginLimiter,
		TwoFALimiter:  twoFALimiter,
		SecureCookies: secureCookies,
	}, router.Handlers{
		Auth:           handlers.NewAuth(sessionStore, userStore),
		Practices:      handlers.NewTaxonomy(practices, sessionStore),
		PostCategories: handlers.NewTaxonomy(postCategories, sessionStore),
		Companies:      handlers.NewProfiles(companies),
		Specialists:    handlers.NewProfiles(specialists),
		Services:       handlers.NewServices(services),
		Posts:          handlers.NewPosts(posts),
		Media:          handlers.NewMedia(mediaService),
		Changes:        handlers.NewChanges(changes),
	})

	// WriteTimeout leaves room for image uploads to object storage.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
