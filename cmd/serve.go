package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ziadkadry99/astroquery/internal/auth"
	"github.com/ziadkadry99/astroquery/internal/chat"
	"github.com/ziadkadry99/astroquery/internal/config"
	"github.com/ziadkadry99/astroquery/internal/db"
	"github.com/ziadkadry99/astroquery/internal/graph"
	"github.com/ziadkadry99/astroquery/internal/insights"
	"github.com/ziadkadry99/astroquery/internal/learning"
	"github.com/ziadkadry99/astroquery/internal/markdown"
	"github.com/ziadkadry99/astroquery/internal/pages"
	"github.com/ziadkadry99/astroquery/internal/prefs"
	"github.com/ziadkadry99/astroquery/internal/quiz"
	"github.com/ziadkadry99/astroquery/internal/research"
	"github.com/ziadkadry99/astroquery/internal/search"
	"github.com/ziadkadry99/astroquery/internal/server"
	"github.com/ziadkadry99/astroquery/internal/simulator"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web front end",
	Long:  `Starts the HTTP server that renders every page, runs page actions against the backend and proxies the research chat over a websocket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Port = servePort
		}

		logger, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		dbPath := filepath.Join(cfg.DataDir, db.FileName)
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		site, authSvc, chatHandler, err := buildSite(cfg, database, logger)
		if err != nil {
			return err
		}
		defer site.Close()

		srv := server.New(server.Config{
			Port:           cfg.Port,
			AllowAll:       cfg.AllowAllOrigins,
			RequestTimeout: cfg.RequestTimeout(),
		}, site, chatHandler, authSvc.Tokens(), logger)

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("shutdown", zap.Error(err))
			}
		}()

		logger.Info("astroquery starting",
			zap.String("version", Version),
			zap.String("backend", cfg.BackendURL),
			zap.String("database", dbPath),
		)

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

// buildSite wires every service onto the page site.
func buildSite(cfg *config.Config, database *db.DB, logger *zap.Logger) (*pages.Site, *auth.Service, http.Handler, error) {
	client := newBackendClient(cfg, logger)
	store := prefs.NewStore(database)
	md := markdown.New()

	learn := learning.NewService(client, logger.Named("learning"))
	authSvc := auth.NewService(client, store, logger.Named("auth"))
	chatSvc := chat.NewService(client, chat.NewStore(database), logger.Named("chat"))

	site, err := pages.New(pages.Deps{
		Summaries:  client,
		Search:     search.NewService(client, store, logger.Named("search")),
		Insights:   insights.NewService(client, cfg.InsightsCacheSize, cfg.InsightsCacheTTL(), md, logger.Named("insights")),
		Markdown:   md,
		Graph:      graph.NewLoader(client, logger.Named("graph")),
		Learning:   learn,
		Tracker:    learning.NewTracker(store, learn, logger.Named("progress")),
		Quizzes:    quiz.NewStore(store),
		Simulator:  simulator.NewService(client, store, logger.Named("simulator")),
		Research:   research.NewAnalyzer(client, cfg.ResearchTimeout(), logger.Named("research")),
		Auth:       authSvc,
		Chat:       chatSvc,
		Prefs:      store,
		Logger:     logger.Named("pages"),
		SessionTTL: cfg.SessionTTL(),
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("building pages: %w", err)
	}

	return site, authSvc, chat.NewHandler(chatSvc, site.ChatView(), logger.Named("chat")), nil
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
