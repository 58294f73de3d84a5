package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cglprep/blitz/internal/sprintreview"
)

var reviewCmd = &cobra.Command{
	Use:   "review <sprint.json>",
	Short: "Analyse a finished sprint: stats, topics, negative marking, timing and pace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filter, _ := cmd.Flags().GetString("filter")
		asJSON, _ := cmd.Flags().GetBool("json")

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read sprint: %w", err)
		}
		var sprint sprintreview.Sprint
		if err := json.Unmarshal(data, &sprint); err != nil {
			return fmt.Errorf("parse sprint %s: %w", args[0], err)
		}

		review, err := sprintreview.Analyze(sprint, filter)
		if err != nil {
			return err
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(review)
		}
		printReview(review)
		return nil
	},
}

func init() {
	reviewCmd.Flags().String("filter", sprintreview.FilterAll, "ALL, CORRECT, INCORRECT, SKIPPED or NOT_ATTEMPTED")
	reviewCmd.Flags().Bool("json", false, "Print the review as JSON")
}

func printReview(r sprintreview.Review) {
	sep := strings.Repeat("─", 48)
	nm := r.Insights.NegativeMarking
	td := r.Insights.TimeDistribution
	ta := r.TimeAnalysis

	fmt.Printf("Sprint:    %s\n", r.SprintID)
	fmt.Printf("Filter:    %s (%d questions)\n", r.Filter, r.TotalQuestions)

	st := r.Stats
	fmt.Println()
	fmt.Println("Summary")
	fmt.Println(sep)
	fmt.Printf("Questions: %d (%d answered, %d skipped, %d not attempted)\n",
		st.Total, st.Attempted, st.Skipped, st.NotAttempted)
	fmt.Printf("Correct:   %d, incorrect %d, accuracy %d%%\n", st.Correct, st.Incorrect, st.Accuracy)
	fmt.Printf("Time:      %.0fs total, %.1fs per question\n",
		float64(st.TotalTimeMs)/1000, float64(st.AvgTimeMs)/1000)

	if len(r.TopicPerformance) > 0 {
		fmt.Println()
		fmt.Println("Topics")
		fmt.Println(sep)
		for _, tp := range r.TopicPerformance {
			fmt.Printf("%-20s %3d  %3d✓ %3d✗ %3d skipped  %3.0f%%  %5.1fs\n",
				truncate(tp.Topic, 20), tp.Total, tp.Correct, tp.Incorrect, tp.Skipped,
				tp.Accuracy, tp.AvgTimeMs/1000)
		}
	}

	fmt.Println()
	fmt.Println("Negative Marking")
	fmt.Println(sep)
	fmt.Printf("Actual:    %.1f / %.1f\n", nm.ActualMarks, nm.MaxMarks)
	fmt.Printf("Skipping %d slowest wrong: %.1f / %.1f, saves %.0fs\n",
		nm.SkipCount, nm.OptimizedMarks, nm.OptimizedMax, float64(nm.SavedTimeMs)/1000)

	fmt.Println()
	fmt.Println("Response Times")
	fmt.Println(sep)
	for _, b := range []struct {
		label string
		b     sprintreview.Bucket
	}{
		{"< 20s", td.Under20},
		{"20-40s", td.From20To40},
		{"40-60s", td.From40To60},
		{"> 60s", td.Over60},
	} {
		fmt.Printf("%-8s  %3d answered, %3d correct\n", b.label, b.b.Count, b.b.Correct)
	}

	if f := r.Insights.Fatigue; f != nil {
		fmt.Println()
		fmt.Println("Fatigue")
		fmt.Println(sep)
		fmt.Printf("First half %.0f%%, second half %.0f%%", f.FirstHalfAccuracy*100, f.SecondHalfAccuracy*100)
		if f.Detected {
			fmt.Printf(": accuracy dropped %.0f points", f.Drop*100)
		}
		fmt.Println()
	}

	fmt.Println()
	fmt.Println("Pace")
	fmt.Println(sep)
	fmt.Printf("Average %.1fs against a %.0fs target (%.2fx): %s\n",
		float64(ta.AvgTimeMs)/1000, float64(ta.TargetTimeMs)/1000, ta.SpeedMultiplier, ta.Recommendation)
}
