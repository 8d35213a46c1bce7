package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkof14/digital-invest-sub001/internal/auth"
	"github.com/mkof14/digital-invest-sub001/internal/cache"
	"github.com/mkof14/digital-invest-sub001/internal/config"
	"github.com/mkof14/digital-invest-sub001/internal/db"
	"github.com/mkof14/digital-invest-sub001/internal/handlers"
	"github.com/mkof14/digital-invest-sub001/internal/leads"
	"github.com/mkof14/digital-invest-sub001/internal/middleware"
	"github.com/mkof14/digital-invest-sub001/internal/news"
	"github.com/mkof14/digital-invest-sub001/internal/notifications"
	"github.com/mkof14/digital-invest-sub001/internal/projects"
	"github.com/mkof14/digital-invest-sub001/internal/roles"
	"github.com/mkof14/digital-invest-sub001/internal/team"
	"github.com/mkof14/digital-invest-sub001/internal/validation"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("startup: config load failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, cols, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Error("startup: mongo connect failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			log.Error("shutdown: mongo disconnect failed", slog.String("error", err.Error()))
		}
	}()

	if err := db.EnsureIndexes(ctx, cols); err != nil {
		log.Error("startup: index creation failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("startup: mongo ready", slog.String("database", cfg.MongoDB))

	var store cache.Cache = cache.NewNoop()
	switch {
	case cfg.RedisURL != "":
		redisCache, err := cache.NewRedisFromURL(cfg.RedisURL)
		if err != nil {
			log.Warn("startup: redis url invalid, caching disabled", slog.String("error", err.Error()))
			break
		}
		if err := redisCache.Ping(ctx); err != nil {
			log.Warn("startup: redis unreachable, caching disabled", slog.String("error", err.Error()))
			break
		}
		store = redisCache
		log.Info("startup: redis cache enabled")
	case cfg.RedisAddr != "":
		redisCache := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			log.Warn("startup: redis unreachable, caching disabled", slog.String("error", err.Error()))
			break
		}
		store = redisCache
		log.Info("startup: redis cache enabled")
	default:
		log.Info("startup: no redis configured, caching disabled")
	}

	val := validation.New()

	if cfg.JWTSecret == "" && cfg.AdminAPIKey == "" {
		log.Warn("startup: neither JWT_SECRET nor ADMIN_API_KEY set, back-office is unreachable")
	}

	tokens := &auth.Manager{
		Secret:     []byte(cfg.JWTSecret),
		AccessTTL:  time.Duration(cfg.AccessTTLMinutes) * time.Minute,
		RefreshTTL: time.Duration(cfg.RefreshTTLMinutes) * time.Minute,
		Issuer:     "digital-invest",
	}

	templates := notifications.NewMongoTemplateSource(cols.EmailTemplates)
	brevo := notifications.NewBrevoClient(cfg.BrevoAPIKey, cfg.BrevoSenderEmail, cfg.BrevoSenderName, cfg.BrevoSandbox, templates)
	if brevo == nil {
		log.Warn("startup: brevo not configured, outgoing email disabled")
	}
	leadMailer := notifications.NewLeadMailer(brevo, cfg.LeadInboxEmail)

	var bookingMailer handlers.BookingMailer
	if brevo != nil {
		bookingMailer = brevo
	}

	srv := handlers.NewServer(cfg, cols, val, log, store, tokens, bookingMailer)

	var leadNotifier leads.Notifier
	if leadMailer != nil {
		leadNotifier = leadMailer
	}
	leadService := leads.NewService(leads.NewRepository(cols.Leads), cfg.Timezone, leadNotifier)
	leadHandler := leads.NewHandler(leadService, val, log)

	projectService := projects.NewService(projects.NewRepository(cols.Projects), cfg.Timezone)
	projectHandler := projects.NewHandler(projectService, val, log)

	newsService := news.NewService(news.NewRepository(cols.NewsPosts), cfg.Timezone)
	newsHandler := news.NewHandler(newsService, val, log)

	teamService := team.NewService(team.NewRepository(cols.TeamMembers), cfg.Timezone)
	teamHandler := team.NewHandler(teamService, val, log)

	authn := &middleware.Authenticator{
		AdminKey: cfg.AdminAPIKey,
		Manager:  tokens,
	}

	formLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	loginLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(cfg.FrontendOrigin))
	r.Use(chimiddleware.Timeout(30 * time.Second))

	r.Get("/health", srv.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/availability", srv.Availability)
		r.Get("/sections", srv.Sections)
		r.Get("/documents", srv.Documents)

		r.Get("/projects", projectHandler.PublicList)
		r.Get("/projects/{slug}", projectHandler.PublicGetBySlug)
		r.Get("/news", newsHandler.PublicList)
		r.Get("/news/{slug}", newsHandler.PublicGetBySlug)
		r.Get("/team", teamHandler.PublicList)

		r.Group(func(r chi.Router) {
			r.Use(formLimiter.Middleware)
			r.Post("/bookings", srv.CreateBooking)
			r.Post("/leads", leadHandler.Create)
		})
		r.Get("/bookings/{id}", srv.LookupBooking)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/setup", srv.Setup)

			r.Route("/auth", func(r chi.Router) {
				r.With(loginLimiter.Middleware).Post("/login", srv.Login)
				r.Post("/refresh", srv.Refresh)
				r.Post("/logout", srv.Logout)
				r.With(authn.RequireRole(roles.Viewer)).Get("/me", srv.Me)
			})

			// Read-only back-office views.
			r.Group(func(r chi.Router) {
				r.Use(authn.RequireRole(roles.Viewer))
				r.Get("/bookings", srv.AdminListBookings)
				r.Get("/windows", srv.AdminListWindows)
				r.Get("/leads", leadHandler.AdminList)
				r.Get("/leads/export", leadHandler.AdminExportCSV)
				r.Get("/leads/{id}", leadHandler.AdminGetByID)
				r.Get("/projects", projectHandler.AdminList)
				r.Get("/news", newsHandler.AdminList)
				r.Get("/team", teamHandler.AdminList)
				r.Get("/documents", srv.AdminListDocuments)
				r.Get("/templates", srv.AdminListTemplates)
			})

			// Content and schedule management.
			r.Group(func(r chi.Router) {
				r.Use(authn.RequireRole(roles.Editor))
				r.Patch("/bookings/{id}", srv.AdminUpdateBookingStatus)
				r.Post("/windows", srv.AdminCreateWindow)
				r.Put("/windows/{id}", srv.AdminUpdateWindow)
				r.Delete("/windows/{id}", srv.AdminDeleteWindow)
				r.Patch("/leads/{id}", leadHandler.AdminUpdateStatus)
				r.Post("/projects", projectHandler.AdminCreate)
				r.Put("/projects/{id}", projectHandler.AdminUpdate)
				r.Delete("/projects/{id}", projectHandler.AdminDelete)
				r.Post("/news", newsHandler.AdminCreate)
				r.Put("/news/{id}", newsHandler.AdminUpdate)
				r.Delete("/news/{id}", newsHandler.AdminDelete)
				r.Post("/team", teamHandler.AdminCreate)
				r.Put("/team/{id}", teamHandler.AdminUpdate)
				r.Delete("/team/{id}", teamHandler.AdminDelete)
				r.Put("/sections/{key}", srv.AdminUpsertSection)
				r.Post("/documents", srv.AdminCreateDocument)
				r.Put("/documents/{id}", srv.AdminUpdateDocument)
				r.Delete("/documents/{id}", srv.AdminDeleteDocument)
				r.Put("/templates/{name}", srv.AdminUpsertTemplate)
				r.Delete("/templates/{name}", srv.AdminDeleteTemplate)
			})

			// Account management.
			r.Group(func(r chi.Router) {
				r.Use(authn.RequireRole(roles.Admin))
				r.Get("/users", srv.AdminListUsers)
				r.Post("/users", srv.AdminCreateUser)
				r.Patch("/users/{id}/role", srv.AdminUpdateUserRole)
				r.Delete("/users/{id}", srv.AdminDeleteUser)
			})
		})
	})

	httpServer := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("startup: listening", slog.String("addr", cfg.ServerAddr), slog.String("env", cfg.Env))
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case sig := <-stop:
		log.Info("shutdown: signal received", slog.String("signal", sig.String()))
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown: forced", slog.String("error", err.Error()))
		}
	}

	log.Info("shutdown: complete")
}
