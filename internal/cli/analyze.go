package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"batchlens/internal/classifier"
	"batchlens/internal/csvexport"
	"batchlens/internal/domain"
	"batchlens/internal/parser"
	"batchlens/internal/registry"
	"batchlens/internal/service"
)

// AnalyzeOptions holds options for the analyze command.
type AnalyzeOptions struct {
	OutputFormat  string
	MinConfidence float64
	Concurrency   int
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <file>...",
		Short: "Classify files and compute their processing order",
		Long: `Classify each file against the known record models and print the
order in which the files should be imported. Problems (unparseable
files, low confidence, dependency cycles) are reported as diagnostics;
the command still produces a complete order.`,
		Example: `  # Analyze a batch of exports
  batchlens analyze employees.csv salaries.xlsx departments.csv

  # Output as JSON
  batchlens analyze *.csv --output json

  # Lower the classification threshold
  batchlens analyze legacy_dump.csv --min-confidence 0.05`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.OutputFormat, "output", "o", "table", "Output format (table|json|csv)")
	cmd.Flags().Float64Var(&opts.MinConfidence, "min-confidence", classifier.DefaultMinConfidence, "Classification threshold in [0,1]")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 4, "Parallel classification workers")

	return cmd
}

func runAnalyze(cmd *cobra.Command, paths []string, opts *AnalyzeOptions) error {
	inputs := make([]service.FileInput, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		inputs = append(inputs, service.FileInput{Filename: filepath.Base(path), Content: content})
	}

	reg := registry.Builtin()
	svc := service.NewBatchService(
		parser.NewFactory(),
		classifier.New(reg, opts.MinConfidence),
		reg,
		opts.Concurrency,
	)

	ba, err := svc.AnalyzeFiles(cmd.Context(), inputs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch opts.OutputFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(ba)
	case "csv":
		// BOM first so Excel opens the export with the right encoding.
		if _, err := out.Write(csvexport.BOM); err != nil {
			return err
		}
		w := csvexport.NewWriter(out)
		if err := w.WriteHeader(); err != nil {
			return err
		}
		if err := w.WriteBatch(ba); err != nil {
			return err
		}
		w.Flush()
		return w.Error()
	case "table":
		renderBatch(out, ba)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want table, json, or csv)", opts.OutputFormat)
	}
}

func renderBatch(out io.Writer, ba *domain.BatchAnalysis) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"#", "File", "Model", "Category", "Confidence", "Rows", "Depends On"})
	for pos, filename := range ba.ProcessingOrder {
		report := ba.Files[filename]
		a := report.Analysis
		model := a.DetectedModel
		if model == "" {
			model = "(unclassified)"
		}
		t.AppendRow(table.Row{
			pos + 1,
			filename,
			model,
			a.FileCategory,
			fmt.Sprintf("%.2f", a.Confidence),
			report.TotalRows,
			joinOrDash(a.Dependencies),
		})
	}
	t.Render()

	for _, w := range ba.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	for _, e := range ba.Errors {
		fmt.Fprintf(out, "error: %s\n", e)
	}
}

func joinOrDash(items []string) string {
	if len(items) == 0 {
		return "-"
	}
	s := items[0]
	for _, it := range items[1:] {
		s += ", " + it
	}
	return s
}
