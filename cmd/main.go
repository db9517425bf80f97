package main

import (
	"contacts-web-server/config"
	_ "contacts-web-server/docs"
	"contacts-web-server/internal/handler"
	"contacts-web-server/internal/notifier"
	"contacts-web-server/internal/repository"
	"contacts-web-server/internal/security"
	"contacts-web-server/internal/service"
	"contacts-web-server/internal/util"
	"context"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	httpSwagger "github.com/swaggo/http-swagger"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	defaultJanitorInterval  = time.Hour
	defaultJanitorRetention = 7 * 24 * time.Hour
)

// @title Contacts-web-server
// @version 1.0
// @description REST API для работы с контактами и сессиями пользователей

// @host localhost:8080

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка при закрытии БД: %v", err)
		}
	}()

	redisClient, err := config.SetupRedis(&cfg.RedisConfig)
	if err != nil {
		log.Fatalf("Ошибка подключения к Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Ошибка при закрытии Redis: %v", err)
		}
	}()

	srv, router := config.SetupServer(cfg.ServerAddr)

	refreshTTL := parseDuration(cfg.JWT.RefreshTokenTTL, 7*24*time.Hour)

	userRepo := repository.NewUserRepository(db)
	refreshRepo := repository.NewRefreshTokenRepository(db, refreshTTL)
	blacklistRepo := repository.NewBlacklistRepository(redisClient)
	contactRepo := repository.NewContactRepository(db)

	jwtService, err := security.NewJWTService(&cfg.JWT)
	if err != nil {
		log.Fatalf("Ошибка создания JWT сервиса: %v", err)
	}

	avatarService, err := service.NewAvatarService(ctx, &cfg.S3Config)
	if err != nil {
		log.Fatalf("Ошибка создания сервиса аватаров: %v", err)
	}

	mailer := notifier.NewSMTPMailer(&cfg.Mail, jwtService)
	gravatar := util.NewGravatarLookup()

	authService := service.NewAuthenticationService(userRepo, refreshRepo, blacklistRepo, jwtService, mailer, gravatar, cfg.BaseURL)
	userService := service.NewUserService(userRepo, jwtService, avatarService, mailer, cfg.BaseURL)
	contactService := service.NewContactService(contactRepo)

	janitor := service.NewTokenJanitor(
		refreshRepo,
		parseDuration(cfg.Janitor.Interval, defaultJanitorInterval),
		parseDuration(cfg.Janitor.Retention, defaultJanitorRetention),
	)
	janitor.Start(ctx)

	authHandler := handler.NewAuthenticationHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	contactHandler := handler.NewContactHandler(contactService)
	healthHandler := handler.NewHealthHandler(db)

	router.Get("/swagger/*", httpSwagger.WrapHandler)
	router.Get("/api/v1/healthchecker", healthHandler.Healthchecker)

	setupAuthRoutes(router, authHandler)
	setupUserRoutes(router, userHandler, authService)
	setupContactRoutes(router, contactHandler, authService)

	runServer(ctx, srv)
}

func setupAuthRoutes(r chi.Router, h *handler.AuthenticationHandler) {
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/refresh", h.Refresh)
		r.Post("/logout", h.Logout)
		r.Post("/request_password_reset", h.RequestPasswordReset)
		r.Post("/reset_password/{token}", h.ResetPassword)
	})
}

func setupUserRoutes(r chi.Router, h *handler.UserHandler, resolver security.UserResolver) {
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Get("/confirmed_email/{token}", h.ConfirmedEmail)
		r.Post("/request_email", h.RequestEmail)

		r.Group(func(r chi.Router) {
			r.Use(security.AuthMiddleware(resolver))
			r.Get("/me", h.Me)
			r.Patch("/avatar", h.UpdateAvatar)
		})
	})
}

func setupContactRoutes(r chi.Router, h *handler.ContactHandler, resolver security.UserResolver) {
	r.Route("/api/v1/contacts", func(r chi.Router) {
		r.Use(security.AuthMiddleware(resolver))

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/search", h.Search)
		r.Get("/birthdays", h.UpcomingBirthdays)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Patch("/", h.Update)
			r.Delete("/", h.Delete)
		})
	})
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("некорректная длительность %q, используется %v", raw, fallback)
		return fallback
	}
	return d
}

func runServer(ctx context.Context, server *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Println("сервер запущен на " + server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Fatalf("ошибка работы сервера: %v", err)
		}
	case sig := <-signalChannel:
		log.Printf("получен сигнал %v остановки работы сервера ", sig)
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		log.Printf("ошибка при остановке сервера: %v", err)
	} else {
		log.Println("Сервер успешно остановлен")
	}
}
