package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/paularlott/cli"
	"github.com/paularlott/logger"
	"github.com/paularlott/neollm/internal/mcptools"
	"github.com/paularlott/neollm/internal/storage"
	"github.com/paularlott/neollm/internal/types"
	"github.com/paularlott/neollm/log"
	"github.com/paularlott/neollm/middleware"
)

const (
	defaultHistoryLimit = 50
	gcInterval          = 10 * time.Minute
)

// Server serves saved bot configs over HTTP and MCP.
type Server struct {
	configs      storage.ConfigStorage
	history      storage.HistoryStorage
	tools        *mcptools.Tools
	token        string
	version      string
	historyLimit int
	logger       logger.Logger

	shutdownChan chan struct{}
	wg           sync.WaitGroup
}

func New(config *types.Config, configs storage.ConfigStorage, history storage.HistoryStorage, logger logger.Logger) *Server {
	limit := config.History.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	return &Server{
		configs:      configs,
		history:      history,
		tools:        mcptools.New(types.Version, configs, history),
		token:        config.Server.Token,
		version:      types.Version,
		historyLimit: limit,
		logger:       logger,
		shutdownChan: make(chan struct{}),
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	auth := middleware.Auth(s.token)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/save-config", auth(s.HandleSaveConfig))
	mux.HandleFunc("GET /api/configs", auth(s.HandleListConfigs))
	mux.HandleFunc("GET /api/configs/{name}", auth(s.HandleGetConfig))
	mux.HandleFunc("GET /api/configs/{name}/history", auth(s.HandleHistory))
	mux.HandleFunc("GET /api/configs/{name}/history/{id}", auth(s.HandleRevision))
	mux.HandleFunc("POST /mcp", auth(s.tools.Server().HandleRequest))
	mux.HandleFunc("GET /health", s.HandleHealth)
	mux.HandleFunc("GET /{$}", s.HandleRoot)
	return mux
}

// StartBackgroundTasks starts the history GC task
func (s *Server) StartBackgroundTasks() {
	s.wg.Add(1)
	go s.gcTask()
}

// StopBackgroundTasks stops all background tasks
func (s *Server) StopBackgroundTasks() {
	close(s.shutdownChan)
	s.wg.Wait()
}

func (s *Server) gcTask() {
	defer s.wg.Done()

	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.shutdownChan:
			s.logger.Debug("history gc task stopping")
			return
		case <-ticker.C:
			if err := s.history.RunGC(); err != nil {
				s.logger.WithError(err).Warn("history gc failed")
			}
		}
	}
}

// ConfigFromCommand builds the server configuration from flags and the config file.
func ConfigFromCommand(cmd *cli.Command) *types.Config {
	return &types.Config{
		Server: types.ServerConfig{
			Host:  cmd.GetString("host"),
			Port:  cmd.GetInt("port"),
			Token: cmd.GetString("token"),
		},
		Logging: types.LoggingConfig{
			Level:  cmd.GetString("log-level"),
			Format: cmd.GetString("log-format"),
		},
		Storage: types.StorageConfig{
			ConfigDir: cmd.GetString("config-dir"),
		},
		History: types.HistoryConfig{
			StoragePath: cmd.GetString("history-path"),
			TTLDays:     cmd.GetInt("history-ttl-days"),
			Limit:       cmd.GetInt("history-limit"),
		},
	}
}

// RunServer runs the config server until SIGINT or SIGTERM.
func RunServer(ctx context.Context, cmd *cli.Command) error {
	config := ConfigFromCommand(cmd)

	log.Configure(config.Logging.Level, config.Logging.Format)
	logger := log.GetLogger()
	logger.Info("starting NeoLLM config server", "version", types.Version)

	configs, err := storage.NewFileStorage(config.Storage.ConfigDir)
	if err != nil {
		logger.WithError(err).Error("failed to open config storage")
		return err
	}
	defer configs.Close()
	logger.Info("config directory ready", "path", configs.Dir())

	ttlDays := config.History.TTLDays
	if ttlDays <= 0 {
		ttlDays = 30
	}
	history, err := storage.OpenHistory(config.History.StoragePath, time.Duration(ttlDays)*24*time.Hour)
	if err != nil {
		logger.WithError(err).Error("failed to open history storage")
		return err
	}
	defer history.Close()
	if config.History.StoragePath == "" {
		logger.Info("using in-memory history")
	} else {
		logger.Info("using badger history", "path", config.History.StoragePath, "ttl_days", ttlDays)
	}

	srv := New(config, configs, history, logger)
	srv.StartBackgroundTasks()
	defer srv.StopBackgroundTasks()

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port),
		Handler:      srv.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "host", config.Server.Host, "port", config.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		return err
	case <-quit:
		logger.Info("shutting down server")
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
		return err
	}

	logger.Info("server stopped")
	return nil
}
