package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/mariil/leadbot/internal/api/http/middleware"
	"github.com/mariil/leadbot/internal/config"
	"github.com/mariil/leadbot/internal/logcfg"
	"github.com/mariil/leadbot/internal/tgpoll"
)

// App represents the application structure responsible for initializing
// dependencies and running the HTTP server and the Telegram intake.
type App struct {
	serviceProvider *serviceProvider // The service provider for dependency injection
	config          *config.Config   // The configuration object for the application
	server          *http.Server     // The HTTP server instance
}

// NewApp creates a new instance of the application.
func NewApp(ctx context.Context) (*App, error) {
	app := &App{}
	if err := app.initDeps(ctx); err != nil {
		return nil, err
	}
	return app, nil
}

// initDeps initializes all dependencies required by the application.
func (a *App) initDeps(ctx context.Context) error {
	inits := []func(context.Context) error{
		a.initConfig,
		a.initServiceProvider,
		a.initHTTPServer,
	}

	for _, f := range inits {
		if err := f(ctx); err != nil {
			return err
		}
	}

	return nil
}

// initConfig initializes the application configuration.
func (a *App) initConfig(_ context.Context) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	a.config = cfg
	logcfg.RunLoggerConfig(cfg.EnvLogsLevel, cfg.EnvLogFileName)
	return nil
}

// initServiceProvider initializes the service provider for dependency injection.
func (a *App) initServiceProvider(_ context.Context) error {
	a.serviceProvider = newServiceProvider(a.config.LeadsDSN, a.config.AdminChatID, a.config.WebhookSecret)
	if _, err := a.serviceProvider.BotAPI(a.config.EnvBotToken); err != nil {
		return err
	}
	return nil
}

// initHTTPServer initializes the gin router with middleware and routes.
func (a *App) initHTTPServer(_ context.Context) error {
	myHandler := a.serviceProvider.Handler()

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LogrusLog())

	var origins []string
	if a.config.SiteOrigin != "" {
		origins = strings.Split(a.config.SiteOrigin, ",")
	}

	api := router.Group("/api")
	api.Use(middleware.CORS(origins))
	api.POST("/lead", myHandler.SubmitLead)
	api.OPTIONS("/lead", myHandler.SubmitLead)

	router.POST("/telegram/webhook", myHandler.TelegramWebhook)
	router.GET("/healthz", myHandler.Healthz)

	a.server = &http.Server{
		Addr:    a.config.HTTPServer,
		Handler: router,
	}

	return nil
}

// Run starts the HTTP server and the Telegram intake, then blocks until a
// shutdown signal arrives.
func (a *App) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		logrus.Infof("HTTP server started on %s", a.config.HTTPServer)
		if err := a.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Без настроенного секрета вебхука заявки из Telegram забираются
	// long polling'ом; с секретом их доставляет сам вебхук.
	if a.config.WebhookSecret == "" {
		go a.runLongPolling(ctx)
	}

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-signalChan
	logrus.Infof("Received %v signal, shutting down...", sig)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("HTTP server shutdown error")
	}

	if err := a.serviceProvider.LeadsRepo().Close(); err != nil {
		logrus.WithError(err).Error("leads store close error")
	}
	logrus.Info("Server exited")
}

// runLongPolling feeds Telegram updates into the dialogue engine. Each
// update is handled in its own goroutine; the engine serializes per chat.
func (a *App) runLongPolling(ctx context.Context) {
	botAPI, err := a.serviceProvider.BotAPI(a.config.EnvBotToken)
	if err != nil {
		logrus.Fatalf("failed to create Telegram client: %v", err)
	}
	logrus.Infof("Bot API created successfully for %s", botAPI.Self.UserName)

	dialog := a.serviceProvider.Dialog()

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60 // seconds timeout

	for update := range tgpoll.New(botAPI).UpdatesChan(ctx, updateConfig) {
		update := update
		go dialog.HandleUpdate(ctx, &update)
	}
	logrus.Info("Shutting down polling loop...")
}
