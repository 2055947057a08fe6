package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/abhisek/pathwise/internal/llm"
	"github.com/abhisek/pathwise/internal/pathgen"
	"github.com/abhisek/pathwise/internal/visualize"
	"github.com/spf13/cobra"
)

var pathCmd = &cobra.Command{
	Use:   "path <goals...>",
	Short: "Generate a learning path with the configured LLM",
	Long: `Generate a Markdown learning path for the given goals, e.g.

  pathwise path "become a backend engineer, I know some Python"

The Markdown goes to stdout. --chart prints the structure, timeline and
resource breakdown after it and --xlsx saves them as a workbook.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runPath,
}

func init() {
	pathCmd.Flags().String("system", "", "Override the system prompt")
	pathCmd.Flags().Int("max-tokens", 0, "Token budget for the response")
	pathCmd.Flags().Float64("temperature", pathgen.DefaultTemperature, "Sampling temperature (0-1)")
	pathCmd.Flags().Bool("raw", false, "Send the goals as the prompt without the path template")
	pathCmd.Flags().Bool("json", false, "Print the result as JSON")
	pathCmd.Flags().Bool("chart", false, "Print the visualization after the path")
	pathCmd.Flags().String("xlsx", "", "Write the visualization workbook to this file")
}

func runPath(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := cliLogger(cfg)
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

	in := pathgen.Input{Prompt: strings.Join(args, " ")}
	in.SystemPrompt, _ = cmd.Flags().GetString("system")
	in.MaxTokens, _ = cmd.Flags().GetInt("max-tokens")
	in.Raw, _ = cmd.Flags().GetBool("raw")
	if cmd.Flags().Changed("temperature") {
		t, _ := cmd.Flags().GetFloat64("temperature")
		in.Temperature = &t
	}

	p, err := pathGenerator(provider, c, cfg.Cache.TTL, logger).Generate(ctx, in)
	if errors.Is(err, llm.ErrNotConfigured) {
		return fmt.Errorf("%w: set GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY or OPENROUTER_API_KEY", err)
	}
	if err != nil {
		return fmt.Errorf("generate path: %w", err)
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(p); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(out, p.Markdown)
	}
	if p.Cached {
		logger.Info("served from cache")
	}

	viz := visualize.Summarize(p.Markdown)
	if chart, _ := cmd.Flags().GetBool("chart"); chart {
		fmt.Fprintln(out)
		printVisualization(out, viz)
	}
	if xlsx, _ := cmd.Flags().GetString("xlsx"); xlsx != "" {
		if err := writeWorkbook(xlsx, viz); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote %s\n", xlsx)
	}
	return nil
}
