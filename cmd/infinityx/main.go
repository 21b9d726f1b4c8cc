// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/auth"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/config"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/middleware"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/model"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/seed"
	"github.com/infnityxsite-tech/infinityx-edtech-clean/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "InfinityX - EdTech site backend\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options] [command]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Commands:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  serve                  Run the HTTP server (default)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  seed                   Create default home and about page content\n")
		_, _ = fmt.Fprintf(os.Stderr, "  seed-admin -open-id X  Grant the admin role to an identity\n")
		_, _ = fmt.Fprintf(os.Stderr, "  token -open-id X       Mint a bearer token (INFX_AUTH_PROVIDER=jwt)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  jobs [run NAME]        List maintenance jobs, or run one now\n")
		_, _ = fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INFX_SESSION_SECRET    Cookie and CSRF key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INFX_STORE_DRIVER      sqlite|mysql|mongo|firestore (default: sqlite)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INFX_AUTH_PROVIDER     firebase|jwt|none (default: from configured credentials)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INFX_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INFX_ENV               Environment: development|production (default: production)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INFX_UPLOAD_MODE       disk|inline (default: disk)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INFX_TRUSTED_PROXIES   Comma-separated proxy CIDRs whose forwarding headers are trusted\n")
		_, _ = fmt.Fprintf(os.Stderr, "  INFX_REDIS_URL         Redis URL for distributed caching (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
	if *showVersion {
		_, _ = fmt.Printf("infinityx %s\n", info)
		os.Exit(0)
	}

	if err := dispatch(flag.Args(), info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func dispatch(args []string, info version.Info) error {
	cmd := "serve"
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	switch cmd {
	case "serve":
		return serve(info)
	case "seed":
		return runSeed()
	case "seed-admin":
		return runSeedAdmin(args)
	case "token":
		return runToken(args)
	case "jobs":
		return runJobs(args)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func loadConfig() (*config.Config, error) {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func serve(info version.Info) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if cfg.DoSeed {
		if _, err := seed.Pages(ctx, a.svc.Pages, a.logger); err != nil {
			return fmt.Errorf("seeding page content: %w", err)
		}
	}

	verifier, err := a.verifier(ctx)
	if err != nil {
		return err
	}
	if verifier == nil {
		a.logger.Warn("no identity provider configured; sign-in is disabled", "category", model.EventCategoryAuth)
	}
	if cfg.DevFallbackEnabled() {
		a.logger.Warn("DEVELOPMENT AUTH FALLBACK ENABLED: unauthenticated requests act as the local admin",
			"category", model.EventCategoryAuth)
	}

	gw := auth.NewGateway(auth.GatewayOptions{
		Verifier:      verifier,
		Users:         a.svc.Users,
		Cache:         a.cache,
		CacheTTL:      cfg.IdentityCacheTTL,
		SessionTTL:    cfg.SessionTTL,
		DevFallback:   cfg.DevFallbackEnabled(),
		SecureCookies: !cfg.IsDevelopment(),
		Logger:        a.logger,
	})

	storage, tempDirs, err := a.mediaStorage()
	if err != nil {
		return err
	}

	sched, err := a.scheduler(tempDirs)
	if err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	proxies, err := middleware.NewProxyResolver(cfg.TrustedProxies)
	if err != nil {
		return fmt.Errorf("INFX_TRUSTED_PROXIES: %w", err)
	}

	r := a.routes(gw, storage, proxies, info)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       60 * time.Second, // uploads of up to 20MB
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		a.logger.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", info.Version,
			"store", cfg.StoreDriver, "auth", cfg.ResolvedAuthProvider(), "uploads", cfg.UploadMode)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	a.logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	a.logger.Info("server stopped")
	return nil
}

func runSeed() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	created, err := seed.Pages(ctx, a.svc.Pages, a.logger)
	if err != nil {
		return err
	}
	_, _ = fmt.Printf("seeded %d page(s)\n", len(created))
	return nil
}

func runSeedAdmin(args []string) error {
	fs := flag.NewFlagSet("seed-admin", flag.ContinueOnError)
	openID := fs.String("open-id", "", "Identity to promote (required)")
	name := fs.String("name", "", "Display name when the user is created")
	email := fs.String("email", "", "Email when the user is created")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *openID == "" {
		fs.Usage()
		return errors.New("-open-id is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	user, err := seed.Admin(ctx, a.svc.Users, *openID, *name, *email, a.logger)
	if err != nil {
		return err
	}
	_, _ = fmt.Printf("%s is now an admin (id %s)\n", user.OpenID, user.ID)
	return nil
}

func runToken(args []string) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	openID := fs.String("open-id", "", "Subject of the token (required)")
	name := fs.String("name", "", "Name claim")
	email := fs.String("email", "", "Email claim")
	ttl := fs.Duration("ttl", time.Hour, "Token lifetime")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *openID == "" {
		fs.Usage()
		return errors.New("-open-id is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.ResolvedAuthProvider() != config.AuthJWT {
		return errors.New("tokens can only be minted when INFX_AUTH_PROVIDER is jwt")
	}

	v := auth.NewJWTVerifier(cfg.JWTSecret, cfg.JWTIssuer)
	token, err := v.Issue(model.Claims{
		OpenID:      *openID,
		Name:        *name,
		Email:       *email,
		LoginMethod: auth.LoginMethodJWT,
	}, *ttl)
	if err != nil {
		return err
	}
	_, _ = fmt.Println(token)
	return nil
}

func runJobs(args []string) error {
	var name string
	switch {
	case len(args) == 0:
	case len(args) == 2 && args[0] == "run":
		name = args[1]
	default:
		return fmt.Errorf("usage: jobs [run NAME], got %q", strings.Join(args, " "))
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	_, tempDirs, err := a.mediaStorage()
	if err != nil {
		return err
	}
	sched, err := a.scheduler(tempDirs)
	if err != nil {
		return err
	}

	if name != "" {
		start := time.Now()
		if err := sched.RunNow(ctx, name); err != nil {
			return err
		}
		_, _ = fmt.Printf("%s finished in %s\n", name, time.Since(start).Round(time.Millisecond))
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tSCHEDULE")
	for _, j := range sched.List() {
		_, _ = fmt.Fprintf(tw, "%s\t%s\n", j.Name, j.Schedule)
	}
	return tw.Flush()
}
