package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/abhisek/pathwise/internal/visualize"
	"github.com/spf13/cobra"
)

var visualizeCmd = &cobra.Command{
	Use:   "visualize [file]",
	Short: "Chart the structure, timeline and resources of a learning path",
	Long: `Read a Markdown learning path from a file, or stdin when the file is
omitted or "-", and print its topic tree, cumulative timeline and
resource breakdown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var r io.Reader = cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open path file: %w", err)
			}
			defer f.Close()
			r = f
		}
		text, err := io.ReadAll(r)
		if err != nil {
			return fmt.Errorf("read path: %w", err)
		}

		viz := visualize.Summarize(string(text))
		if viz.Empty() {
			return fmt.Errorf("nothing to visualize: no headings, time estimates or resources found")
		}

		out := cmd.OutOrStdout()
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(viz); err != nil {
				return err
			}
		} else {
			printVisualization(out, viz)
		}

		if xlsx, _ := cmd.Flags().GetString("xlsx"); xlsx != "" {
			if err := writeWorkbook(xlsx, viz); err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Wrote %s\n", xlsx)
		}
		return nil
	},
}

func init() {
	visualizeCmd.Flags().Bool("json", false, "Print the visualization as JSON")
	visualizeCmd.Flags().String("xlsx", "", "Write the visualization workbook to this file")
}

const barWidth = 40

func printVisualization(w io.Writer, viz *visualize.Visualization) {
	sep := strings.Repeat("─", 60)

	fmt.Fprintln(w, "Structure")
	fmt.Fprintln(w, sep)
	if len(viz.Document.Topics) == 0 {
		fmt.Fprintln(w, "(no headings)")
	}
	for _, t := range viz.Document.Topics {
		fmt.Fprintf(w, "%s%s\n", t.Title, timeSuffix(t.Time))
		for i, st := range t.Subtopics {
			branch := "├─"
			if i == len(t.Subtopics)-1 {
				branch = "└─"
			}
			fmt.Fprintf(w, "  %s %s%s\n", branch, st.Title, timeSuffix(st.Time))
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Timeline (%.1f weeks)\n", viz.Timeline.TotalWeeks)
	fmt.Fprintln(w, sep)
	if len(viz.Timeline.Items) == 0 {
		fmt.Fprintln(w, "(no time estimates)")
	}
	for _, it := range viz.Timeline.Items {
		fmt.Fprintf(w, "%-24s %s %5.1f-%.1fw\n", truncate(it.Scope, 24), timelineBar(it, viz.Timeline.TotalWeeks), it.Start, it.End)
	}
	if len(viz.Timeline.MonthLabels) > 0 {
		fmt.Fprintf(w, "Months: %s\n", strings.Join(viz.Timeline.MonthLabels, ", "))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Resources")
	fmt.Fprintln(w, sep)
	if len(viz.Resources) == 0 {
		fmt.Fprintln(w, "(no resources)")
	}
	for _, rc := range viz.Resources {
		fmt.Fprintf(w, "%-10s %3d  %s\n", rc.Kind, rc.Count, strings.Repeat("■", rc.Count))
	}
}

func timeSuffix(t string) string {
	if t == "" {
		return ""
	}
	return "  (" + t + ")"
}

// timelineBar places an item on a fixed-width track scaled to total.
func timelineBar(it visualize.TimelineItem, total float64) string {
	if total <= 0 {
		return strings.Repeat("·", barWidth)
	}
	start := int(it.Start / total * barWidth)
	end := max(int(it.End/total*barWidth), start+1)
	end = min(end, barWidth)
	return strings.Repeat("·", start) + strings.Repeat("█", end-start) + strings.Repeat("·", barWidth-end)
}

func writeWorkbook(path string, viz *visualize.Visualization) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create workbook: %w", err)
	}
	if err := visualize.WriteXLSX(f, viz); err != nil {
		f.Close()
		return fmt.Errorf("write workbook: %w", err)
	}
	return f.Close()
}
