package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/abhisek/pathwise/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve learning-path generation, visualization, question pools,
quizzes and adaptive assessments over HTTP and WebSocket.

Settings come from PATHWISE_* environment variables. The LLM provider is
discovered from GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY or
OPENROUTER_API_KEY unless PATHWISE_LLM_PROVIDER is set.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("host", "", "Listen host (overrides PATHWISE_SERVER_HOST)")
	serveCmd.Flags().Int("port", 0, "Listen port (overrides PATHWISE_SERVER_PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host, _ = cmd.Flags().GetString("host")
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port, _ = cmd.Flags().GetInt("port")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := cfg.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openStore(ctx, cmd, cfg)
	if err != nil {
		return err
	}
	defer s.Close()
	logger.Info("database ready", "driver", s.Driver())

	c, err := openCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	ready := map[string]server.Check{"database": s.Ping}
	if c != nil {
		defer c.Close()
		ready["cache"] = c.HealthCheck
	}

	provider, err := newProvider(ctx, s.EventRepo(), logger)
	if err != nil {
		return err
	}

	srv := server.New(cfg.Server, cfg.Assessment, server.Deps{
		Questions: questionSource(provider, c, cfg.Cache.TTL, logger),
		Paths:     pathGenerator(provider, c, cfg.Cache.TTL, logger),
		Ready:     ready,
		Logger:    logger,
	})
	return srv.ListenAndServe(ctx)
}
