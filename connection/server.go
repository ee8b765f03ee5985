package connection

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"helpexchange/config"
	authcontroller "helpexchange/controller/auth"
	notificationcontroller "helpexchange/controller/notification"
	taskcontroller "helpexchange/controller/task"
	usercontroller "helpexchange/controller/user"
	"helpexchange/middleware"
	"helpexchange/services"
	"helpexchange/services/feed"
	"helpexchange/services/lifecycle"
	"helpexchange/services/message"
	"helpexchange/services/notification"
	"helpexchange/store"
)

// NewStore opens the configured persistence backend.
func NewStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (store.Store, error) {
	switch cfg.Store {
	case config.StoreMemory:
		logger.Warn().Msg("using in-memory store, data is lost on restart")
		return store.NewMemory(), nil
	case config.StoreFirestore:
		client, err := FBConnection(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return store.NewFirestore(client, logger), nil
	}
	return nil, fmt.Errorf("unknown store backend: %s", cfg.Store)
}

// NewRouter wires the services over st and registers every route.
func NewRouter(cfg *config.Config, st store.Store, logger zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(newCORS(cfg.HTTP.AllowedOrigins))

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Api is running!"})
	})

	tokens := services.NewTokenService(cfg.JWT.SecretKey, cfg.JWT.Issuer, cfg.JWT.AccessTokenTTL)
	accounts := services.NewAccounts(st, tokens, logger)
	auth := middleware.AccessTokenMiddleware(tokens, logger)

	authcontroller.AuthController(router, accounts, logger)
	usercontroller.UserController(router, auth, accounts, logger)

	aggregator := notification.NewAggregator(st, logger)
	taskcontroller.TaskController(router, auth, taskcontroller.Deps{
		Tasks:         lifecycle.New(st, logger),
		Feed:          feed.NewService(st, logger),
		Notifications: aggregator,
		Messages:      message.New(st, logger),
		Users:         st,
		Logger:        logger,
	})
	notificationcontroller.NotificationController(router, auth, aggregator, logger)

	return router
}

func newCORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		return cors.Default()
	}
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = origins
	corsConfig.AddAllowHeaders("Authorization")
	return cors.New(corsConfig)
}

// StartServer serves HTTP until SIGINT or SIGTERM, then shuts down gracefully.
func StartServer(ctx context.Context, cfg *config.Config, logger zerolog.Logger) error {
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := NewStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close store")
		}
	}()

	server := &http.Server{
		Addr:    net.JoinHostPort(cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: NewRouter(cfg, st, logger),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", server.Addr).
			Str("store", cfg.Store).
			Msg("setting up http server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("listen and serve: %w", err)
		}
		return nil
	case <-quit:
	}

	logger.Info().Msg("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	logger.Info().Msg("shut down http server")
	return nil
}
