package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/zoomrx/agastya/internal/chat"
	"github.com/zoomrx/agastya/internal/db"
	"github.com/zoomrx/agastya/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the assistant HTTP server",
	Long:  `Starts the agastya HTTP server with the chat API, WebSocket endpoint, and panel user lookups.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort != 0 {
			cfg.Port = servePort
		}

		embedder, err := createEmbedderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating embedder: %w", err)
		}

		store, err := loadVectorStore(cfg, embedder)
		if err != nil {
			return err
		}

		provider, err := createLLMProviderFromConfig(cfg)
		if err != nil {
			return fmt.Errorf("creating LLM provider: %w", err)
		}

		dbPath := dbPathFor(cfg)
		database, err := db.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer database.Close()

		engine, err := buildEngine(cfg, database, store, provider)
		if err != nil {
			return err
		}

		srv := server.New(server.Config{
			Port:     cfg.Port,
			DataDir:  cfg.DataDir,
			AllowAll: true,
		}, database, engine)

		chatStore := chat.NewStore(database)
		chat.RegisterRoutes(srv.Router(), engine, chatStore)
		srv.Router().Get("/api/chat/ws", chat.HandleWebSocket(engine, chatStore))

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			fmt.Fprintln(os.Stderr, "\nShutting down server...")
			srv.Shutdown(context.Background())
		}()

		fmt.Fprintf(os.Stderr, "agastya server v%s starting on port %d\n", Version, cfg.Port)
		fmt.Fprintf(os.Stderr, "  Database: %s\n", dbPath)
		fmt.Fprintf(os.Stderr, "  Documents indexed: %d\n", store.Count())

		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
