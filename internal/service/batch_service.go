// Package service contains the multi-file orchestrator: it runs the
// classifier over every file in an upload batch, builds the dependency
// graph over detected models, and proposes a processing order. Nothing it
// finds aborts the batch; every failure degrades to a diagnostic.
package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"batchlens/internal/classifier"
	"batchlens/internal/domain"
	"batchlens/internal/parser"
	"batchlens/internal/port"
	"batchlens/internal/registry"
)

// FileInput is one raw uploaded file handed to the batch analyzer.
type FileInput struct {
	Filename string
	Content  []byte
}

// BatchService analyzes a batch of uploaded files and proposes a
// dependency-safe processing order.
type BatchService interface {
	AnalyzeFiles(ctx context.Context, files []FileInput) (*domain.BatchAnalysis, error)
}

type batchService struct {
	parsers     port.ParserFactory
	analyzer    *classifier.Analyzer
	registry    *registry.Registry
	concurrency int
}

// NewBatchService creates a BatchService. Concurrency bounds the parallel
// per-file classification pass; values below 1 fall back to 4.
func NewBatchService(parsers port.ParserFactory, analyzer *classifier.Analyzer, reg *registry.Registry, concurrency int) BatchService {
	if concurrency < 1 {
		concurrency = 4
	}
	return &batchService{
		parsers:     parsers,
		analyzer:    analyzer,
		registry:    reg,
		concurrency: concurrency,
	}
}

// AnalyzeFiles implements BatchService. It fails outright only for an
// empty batch; unparseable or unclassifiable files become diagnostics and
// still appear in the processing order.
func (s *batchService) AnalyzeFiles(ctx context.Context, files []FileInput) (*domain.BatchAnalysis, error) {
	if len(files) == 0 {
		return nil, domain.ErrEmptyBatch
	}

	ba := &domain.BatchAnalysis{
		Files:           make(map[string]domain.FileReport, len(files)),
		ProcessingOrder: []string{},
		Warnings:        []string{},
		Errors:          []string{},
	}

	// Duplicate filenames cannot be keyed or ordered meaningfully; keep
	// the first occurrence so the order stays a permutation.
	inputs := make([]FileInput, 0, len(files))
	seen := make(map[string]bool, len(files))
	for _, f := range files {
		if seen[f.Filename] {
			ba.Warnings = append(ba.Warnings,
				fmt.Sprintf("%s: duplicate filename in batch; later occurrence ignored", f.Filename))
			continue
		}
		seen[f.Filename] = true
		inputs = append(inputs, f)
	}

	parsed := make([]*domain.ParsedFile, len(inputs))
	parseErrs := make([]error, len(inputs))
	for i, in := range inputs {
		parsed[i], parseErrs[i] = s.parseOne(in)
	}

	// Per-file classification has no cross-file dependency; run it on a
	// bounded pool and merge results by input index so diagnostics stay
	// deterministic regardless of completion order.
	analyses := make([]domain.Analysis, len(inputs))
	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i := range inputs {
		if parsed[i] == nil {
			continue
		}
		g.Go(func() error {
			analyses[i] = s.analyzer.Analyze(parsed[i])
			return nil
		})
	}
	_ = g.Wait()

	// Per-file diagnostics, in input order.
	for i, in := range inputs {
		if parseErrs[i] != nil {
			ba.Errors = append(ba.Errors,
				fmt.Sprintf("%s: failed to parse: %s", in.Filename, parseCause(parseErrs[i])))
			analyses[i] = domain.Analysis{
				FileCategory: domain.CategoryUnknown,
				Reason:       "file could not be parsed",
				ModelScores:  map[string]float64{},
			}
			continue
		}
		if analyses[i].DetectedModel == "" {
			ba.Warnings = append(ba.Warnings,
				fmt.Sprintf("%s: unclassified: %s", in.Filename, analyses[i].Reason))
		}
	}

	// Models actually present in this batch, with their filenames sorted
	// for deterministic placement.
	presentFiles := make(map[string][]string)
	for i, in := range inputs {
		if m := analyses[i].DetectedModel; m != "" {
			presentFiles[m] = append(presentFiles[m], in.Filename)
		}
	}
	for _, fns := range presentFiles {
		sort.Strings(fns)
	}

	// Restrict each file's dependency set to models present in the batch;
	// statically declared dependencies that are absent become warnings.
	for i, in := range inputs {
		a := &analyses[i]
		if a.DetectedModel == "" {
			continue
		}
		var inBatch, absent []string
		for _, dep := range a.Dependencies {
			if _, ok := presentFiles[dep]; ok {
				inBatch = append(inBatch, dep)
			} else {
				absent = append(absent, dep)
			}
		}
		a.Dependencies = inBatch
		if len(absent) > 0 {
			ba.Warnings = append(ba.Warnings,
				fmt.Sprintf("%s: %s depends on models not present in this batch: %s",
					in.Filename, a.DetectedModel, strings.Join(absent, ", ")))
		}
	}

	// Duplicate-model conflicts, in model-name order.
	for _, m := range sortedKeys(presentFiles) {
		if fns := presentFiles[m]; len(fns) > 1 {
			ba.Warnings = append(ba.Warnings,
				fmt.Sprintf("model %s detected in %d files: %s", m, len(fns), strings.Join(fns, ", ")))
		}
	}

	for i, in := range inputs {
		report := domain.FileReport{Analysis: analyses[i]}
		if parsed[i] != nil {
			report.Headers = parsed[i].Headers
			report.TotalRows = parsed[i].TotalRows
		}
		ba.Files[in.Filename] = report
	}

	// Dependency-safe order over detected models, then their filenames;
	// unclassified and unparseable files go last, filename-sorted.
	graph := buildModelGraph(s.registry, presentFiles)
	modelOrder, cycleDiags := graph.topoOrder()
	ba.Errors = append(ba.Errors, cycleDiags...)

	for _, m := range modelOrder {
		ba.ProcessingOrder = append(ba.ProcessingOrder, presentFiles[m]...)
	}
	var unplaced []string
	for i, in := range inputs {
		if analyses[i].DetectedModel == "" {
			unplaced = append(unplaced, in.Filename)
		}
	}
	sort.Strings(unplaced)
	ba.ProcessingOrder = append(ba.ProcessingOrder, unplaced...)

	log.Printf("batchService.AnalyzeFiles: %d files, %d models, %d warnings, %d errors",
		len(inputs), len(presentFiles), len(ba.Warnings), len(ba.Errors))

	return ba, nil
}

func (s *batchService) parseOne(in FileInput) (*domain.ParsedFile, error) {
	p, err := s.parsers.ForFilename(in.Filename)
	if err != nil {
		return nil, err
	}
	return p.Parse(in.Filename, in.Content)
}

// parseCause describes a parse failure without repeating the filename,
// which the diagnostic entry already carries.
func parseCause(err error) string {
	var pe *parser.ParseError
	if errors.As(err, &pe) {
		return pe.Cause()
	}
	return err.Error()
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
