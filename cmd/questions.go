package cmd

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/abhisek/pathwise/internal/assessment"
	"github.com/abhisek/pathwise/internal/questionsource"
	"github.com/spf13/cobra"
)

var questionsCmd = &cobra.Command{
	Use:   "questions <topic>",
	Short: "Preview a generated question pool for a topic",
	Long: `Generate a question pool and answer it at the prompt, one question at a
time. Nothing is recorded apart from LLM request events.

Useful for checking question quality for a topic before using it in an
assessment.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuestions,
}

func init() {
	questionsCmd.Flags().String("subtopic", "", "Narrow the questions to a subtopic")
	questionsCmd.Flags().Int("count", 5, "Number of questions to generate")
	questionsCmd.Flags().Bool("templates", false, "Use the built-in templates instead of the LLM")
	questionsCmd.Flags().Bool("list", false, "Print the questions with answers instead of prompting")
}

func runQuestions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := cliLogger(cfg)
	slog.SetDefault(logger)
	ctx := cmd.Context()

	subtopic, _ := cmd.Flags().GetString("subtopic")
	count, _ := cmd.Flags().GetInt("count")
	useTemplates, _ := cmd.Flags().GetBool("templates")
	list, _ := cmd.Flags().GetBool("list")

	var src questionsource.Source = questionsource.MustTemplateSource()
	if !useTemplates {
		s, err := openStore(ctx, cmd, cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		provider, err := newProvider(ctx, s.EventRepo(), logger)
		if err != nil {
			return err
		}
		src = questionSource(provider, nil, 0, logger)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Topic: %s", args[0])
	if subtopic != "" {
		fmt.Fprintf(out, " / %s", subtopic)
	}
	fmt.Fprintf(out, "\nGenerating %d questions...\n\n", count)

	qs, err := src.Questions(ctx, questionsource.Request{Topic: args[0], Subtopic: subtopic, Count: count})
	if err != nil {
		return fmt.Errorf("generate questions: %w", err)
	}

	if list {
		listQuestions(out, qs)
		return nil
	}
	correct := drill(out, cmd.InOrStdin(), qs)
	fmt.Fprintf(out, "── Summary: %d/%d correct ──\n", correct, len(qs))
	return nil
}

func printQuestion(w io.Writer, i, n int, q assessment.Question) {
	fmt.Fprintf(w, "── Question %d/%d (%s) ──\n", i+1, n, q.Difficulty)
	fmt.Fprintln(w, q.Text)
	for j, opt := range q.Options {
		fmt.Fprintf(w, "  %c) %s\n", 'A'+j, opt)
	}
}

func listQuestions(w io.Writer, qs []assessment.Question) {
	for i, q := range qs {
		printQuestion(w, i, len(qs), q)
		fmt.Fprintf(w, "Answer: %c\n\n", 'A'+q.CorrectAnswer)
	}
}

// drill asks each question on w, reads answers from r and returns how many
// were right. Blank answers are skipped; closed input ends the drill.
func drill(w io.Writer, r io.Reader, qs []assessment.Question) int {
	scanner := bufio.NewScanner(r)
	var correct int

	for i, q := range qs {
		printQuestion(w, i, len(qs), q)

		var choice int
		for {
			fmt.Fprint(w, "\nYour answer: ")
			if !scanner.Scan() {
				fmt.Fprintln(w, "\n(input closed)")
				return correct
			}
			answer := strings.TrimSpace(scanner.Text())
			if answer == "" {
				choice = -1
				break
			}
			var ok bool
			if choice, ok = parseChoice(answer, len(q.Options)); ok {
				break
			}
			fmt.Fprintf(w, "Pick A-%c or 1-%d.", 'A'+len(q.Options)-1, len(q.Options))
		}

		switch {
		case choice < 0:
			fmt.Fprintln(w, "(skipped)")
		case choice == q.CorrectAnswer:
			correct++
			fmt.Fprintln(w, "\033[32m✓ Correct!\033[0m")
		default:
			fmt.Fprintf(w, "\033[31m✗ Wrong.\033[0m Answer: %c) %s\n", 'A'+q.CorrectAnswer, q.Options[q.CorrectAnswer])
		}
		fmt.Fprintln(w)
	}
	return correct
}

// parseChoice accepts a letter (A, b) or a 1-based number for one of n
// options and returns the 0-based index.
func parseChoice(s string, n int) (int, bool) {
	if len(s) == 1 {
		c := s[0] | 0x20
		if c >= 'a' && c < 'a'+byte(n) {
			return int(c - 'a'), true
		}
	}
	i, err := strconv.Atoi(s)
	if err != nil || i < 1 || i > n {
		return 0, false
	}
	return i - 1, true
}
