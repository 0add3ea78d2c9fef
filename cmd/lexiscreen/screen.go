package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/lexiscreen/internal/domain"
	"github.com/kailas-cloud/lexiscreen/internal/domain/report"
	"github.com/kailas-cloud/lexiscreen/internal/export/table"
	logpkg "github.com/kailas-cloud/lexiscreen/internal/logger"
	"github.com/kailas-cloud/lexiscreen/internal/metrics"
	screeninguc "github.com/kailas-cloud/lexiscreen/internal/usecase/screening"
)

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Screen one subject and print the report",
	Example: `  lexiscreen screen --set Age=12 --set Clicks1=14
  lexiscreen screen --no-defaults --set Age=9 --csv out.csv --pdf out.pdf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScreen(cmd)
	},
}

func init() {
	screenCmd.Flags().StringArray("set", nil, "Feature override as name=value (repeatable)")
	screenCmd.Flags().Bool("no-defaults", false, "Use fallback values instead of typical values for features not set")
	screenCmd.Flags().Int("top-k", 0, "Number of influential features to include (0 = configured default)")
	screenCmd.Flags().String("csv", "", "Write the tabular export to this file")
	screenCmd.Flags().String("pdf", "", "Write the printable export to this file")
	screenCmd.Flags().Bool("json", false, "Print the report as JSON")
}

func runScreen(cmd *cobra.Command) error {
	sets, _ := cmd.Flags().GetStringArray("set")
	overrides, err := parseOverrides(sets)
	if err != nil {
		return err
	}
	noDefaults, _ := cmd.Flags().GetBool("no-defaults")
	topK, _ := cmd.Flags().GetInt("top-k")

	ctx := context.Background()
	a, err := bootstrap(ctx, cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx = logpkg.With(logpkg.ContextWithLogger(ctx, a.logger), zap.String("command", "screen"))
	rep, err := a.screening.Screen(ctx, screeninguc.Request{
		Overrides:   overrides,
		UseDefaults: !noDefaults,
		TopK:        topK,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		if err := printJSON(out, rep); err != nil {
			return err
		}
	} else {
		printReport(out, rep)
	}

	if path, _ := cmd.Flags().GetString("csv"); path != "" {
		data, err := table.Marshal(rep)
		if err != nil {
			return fmt.Errorf("encode csv: %w", err)
		}
		if err := writeExport(path, "csv", data); err != nil {
			return err
		}
		fmt.Fprintln(out, "CSV written to", path)
	}
	if path, _ := cmd.Flags().GetString("pdf"); path != "" {
		data, err := a.renderer.Marshal(rep)
		if err != nil {
			return fmt.Errorf("render pdf: %w", err)
		}
		if err := writeExport(path, "pdf", data); err != nil {
			return err
		}
		fmt.Fprintln(out, "PDF written to", path)
	}
	return nil
}

// parseOverrides turns name=value pairs into an override map.
func parseOverrides(pairs []string) (map[string]float64, error) {
	overrides := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		name, raw, ok := strings.Cut(p, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: --set %q must be name=value", domain.ErrInvalidInput, p)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: --set %s: %q is not a number", domain.ErrInvalidInput, name, raw)
		}
		overrides[name] = v
	}
	return overrides, nil
}

func printReport(w io.Writer, r report.Report) {
	fmt.Fprintf(w, "Screening %s (%s)\n", r.ID(), r.Timestamp().Format(table.TimeLayout))
	fmt.Fprintf(w, "Predicted dyslexia class (1 = yes, 0 = no): %d\n", r.PredictedClass())
	fmt.Fprintf(w, "Probability of dyslexia: %.3f\n", r.Probability())
	fmt.Fprintf(w, "Risk level: %s\n", r.Tier())
	fmt.Fprintln(w, r.Alert())
	fmt.Fprintln(w)
	fmt.Fprintln(w, r.Tier().Interpretation())

	if top := r.TopFeatures(); len(top) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Most influential features:")
		for i, e := range top {
			fmt.Fprintf(w, "  %d. %s: %.4f\n", i+1, e.Feature(), e.Score())
		}
	}
}

type topFeatureJSON struct {
	Feature string  `json:"feature"`
	Score   float64 `json:"score"`
}

func printJSON(w io.Writer, r report.Report) error {
	top := make([]topFeatureJSON, 0, len(r.TopFeatures()))
	for _, e := range r.TopFeatures() {
		top = append(top, topFeatureJSON{Feature: e.Feature(), Score: e.Score()})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"id":                   r.ID(),
		"timestamp":            r.Timestamp().Format(table.TimeLayout),
		"age":                  r.Age(),
		"predicted_class":      r.PredictedClass(),
		"probability_dyslexia": r.Probability(),
		"risk_level":           r.Tier().String(),
		"alert":                r.Alert(),
		"top_features":         top,
	})
}

func writeExport(path, format string, data []byte) error {
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write %s export: %w", format, err)
	}
	metrics.ExportBytes.WithLabelValues(format).Observe(float64(len(data)))
	return nil
}
