package cmd

import (
	"log/slog"

	"github.com/abhisek/pathwise/internal/app"
	"github.com/abhisek/pathwise/internal/screens/home"
	"github.com/spf13/cobra"
)

// runApp starts the terminal app with topic and subtopic prefilled.
func runApp(cmd *cobra.Command, topic, subtopic string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logPath, _ := cmd.Flags().GetString("log-file")
	logger, closeLog, err := fileLogger(cfg, logPath)
	if err != nil {
		return err
	}
	defer closeLog.Close()
	slog.SetDefault(logger)

	ctx := cmd.Context()

	s, err := openStore(ctx, cmd, cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	c, err := openCache(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if c != nil {
		defer c.Close()
	}

	provider, err := newProvider(ctx, s.EventRepo(), logger)
	if err != nil {
		return err
	}

	skipSplash, _ := cmd.Flags().GetBool("no-splash")
	return app.Run(app.Options{
		Home: home.Config{
			Source:        questionSource(provider, c, cfg.Cache.TTL, logger),
			Topic:         topic,
			Subtopic:      subtopic,
			SessionLength: cfg.Assessment.SessionLength,
			PoolSize:      cfg.Assessment.PoolSize,
			QuizLength:    cfg.Assessment.QuizLength,
			Timeout:       cfg.Server.RequestTimeout,
		},
		SkipSplash: skipSplash || topic != "",
	})
}
