package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"batchlens/internal/classifier"
	"batchlens/internal/domain"
	"batchlens/internal/parser"
	"batchlens/internal/registry"
	"batchlens/internal/service"
	"batchlens/mocks"
)

func sig(name string, required bool, aliases ...string) registry.FieldSignature {
	weight := registry.WeightOptional
	if required {
		weight = registry.WeightRequired
	}
	return registry.FieldSignature{CanonicalName: name, Aliases: aliases, Required: required, Weight: weight}
}

// miniRegistry declares just Employee and Salary, with Salary depending
// on Employee.
func miniRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg, err := registry.New([]registry.ModelProfile{
		{
			Name:     "Employee",
			Category: "HR",
			Fields: []registry.FieldSignature{
				sig("employee_number", true),
				sig("first_name", true),
				sig("last_name", true),
			},
		},
		{
			Name:      "Salary",
			Category:  "PAYROLL",
			DependsOn: []string{"Employee"},
			Fields: []registry.FieldSignature{
				sig("employee_number", true),
				sig("basic_salary", true),
				sig("effective_date", false),
			},
		},
	})
	require.NoError(t, err)
	return reg
}

func newService(reg *registry.Registry) service.BatchService {
	return service.NewBatchService(parser.NewFactory(), classifier.New(reg, 0), reg, 2)
}

func TestAnalyzeFiles_EmptyBatch(t *testing.T) {
	svc := newService(miniRegistry(t))

	_, err := svc.AnalyzeFiles(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrEmptyBatch)

	_, err = svc.AnalyzeFiles(context.Background(), []service.FileInput{})
	assert.ErrorIs(t, err, domain.ErrEmptyBatch)
}

func TestAnalyzeFiles_EmployeeBeforeSalary(t *testing.T) {
	svc := newService(miniRegistry(t))

	ba, err := svc.AnalyzeFiles(context.Background(), []service.FileInput{
		{Filename: "sal.csv", Content: []byte("employee_number,basic_salary,effective_date\nE001,5000,2026-01-01\n")},
		{Filename: "emp.csv", Content: []byte("employee_number,first_name,last_name\nE001,Ada,Lovelace\n")},
	})
	require.NoError(t, err)

	emp := ba.Files["emp.csv"].Analysis
	assert.Equal(t, "Employee", emp.DetectedModel)
	assert.InDelta(t, 1.0, emp.Confidence, 1e-9)

	sal := ba.Files["sal.csv"].Analysis
	assert.Equal(t, "Salary", sal.DetectedModel)
	assert.InDelta(t, 1.0, sal.Confidence, 1e-9)
	assert.Equal(t, []string{"Employee"}, sal.Dependencies)

	assert.Equal(t, []string{"emp.csv", "sal.csv"}, ba.ProcessingOrder)
	assert.Empty(t, ba.Warnings)
	assert.Empty(t, ba.Errors)
}

func TestAnalyzeFiles_OrderIsAlwaysAPermutation(t *testing.T) {
	svc := newService(miniRegistry(t))

	inputs := []service.FileInput{
		{Filename: "emp.csv", Content: []byte("employee_number,first_name,last_name\nE001,Ada,Lovelace\n")},
		{Filename: "bad.csv", Content: []byte{'a', 0xFF, 0xFE}},
		{Filename: "notes.txt", Content: []byte("free-form text")},
		{Filename: "mystery.csv", Content: []byte("foo,bar\n1,2\n")},
	}

	ba, err := svc.AnalyzeFiles(context.Background(), inputs)
	require.NoError(t, err)

	require.Len(t, ba.ProcessingOrder, len(inputs))
	seen := make(map[string]bool)
	for _, fn := range ba.ProcessingOrder {
		assert.False(t, seen[fn], "duplicate %s in processing order", fn)
		seen[fn] = true
	}
	for _, in := range inputs {
		assert.True(t, seen[in.Filename], "%s missing from processing order", in.Filename)
		assert.Contains(t, ba.Files, in.Filename)
	}

	// Classified files first, then the rest filename-sorted.
	assert.Equal(t, []string{"emp.csv", "bad.csv", "mystery.csv", "notes.txt"}, ba.ProcessingOrder)

	require.Len(t, ba.Errors, 2)
	assert.Contains(t, ba.Errors[0], "bad.csv: failed to parse")
	assert.Contains(t, ba.Errors[1], "notes.txt: failed to parse")

	// Unparseable files still get a placeholder analysis.
	assert.Empty(t, ba.Files["bad.csv"].Analysis.DetectedModel)
	assert.Equal(t, domain.CategoryUnknown, ba.Files["bad.csv"].Analysis.FileCategory)
}

func TestAnalyzeFiles_UnclassifiedFileWarns(t *testing.T) {
	svc := newService(miniRegistry(t))

	ba, err := svc.AnalyzeFiles(context.Background(), []service.FileInput{
		{Filename: "mystery.csv", Content: []byte("foo,bar\n1,2\n")},
	})
	require.NoError(t, err)

	require.Len(t, ba.Warnings, 1)
	assert.Contains(t, ba.Warnings[0], "mystery.csv: unclassified")
	assert.Equal(t, []string{"mystery.csv"}, ba.ProcessingOrder)
}

func TestAnalyzeFiles_DuplicateModelWarnsOnce(t *testing.T) {
	svc := newService(miniRegistry(t))
	content := []byte("employee_number,first_name,last_name\nE001,Ada,Lovelace\n")

	ba, err := svc.AnalyzeFiles(context.Background(), []service.FileInput{
		{Filename: "emp2.csv", Content: content},
		{Filename: "emp1.csv", Content: content},
	})
	require.NoError(t, err)

	require.Len(t, ba.Warnings, 1)
	assert.Contains(t, ba.Warnings[0], "model Employee detected in 2 files")
	assert.Contains(t, ba.Warnings[0], "emp1.csv, emp2.csv")

	// Both scheduled, filename-sorted relative to each other.
	assert.Equal(t, []string{"emp1.csv", "emp2.csv"}, ba.ProcessingOrder)
}

func TestAnalyzeFiles_AbsentDependencyWarns(t *testing.T) {
	svc := newService(miniRegistry(t))

	ba, err := svc.AnalyzeFiles(context.Background(), []service.FileInput{
		{Filename: "sal.csv", Content: []byte("employee_number,basic_salary\nE001,5000\n")},
	})
	require.NoError(t, err)

	sal := ba.Files["sal.csv"].Analysis
	assert.Equal(t, "Salary", sal.DetectedModel)
	assert.Empty(t, sal.Dependencies, "absent models must be filtered from the per-file dependency set")

	require.Len(t, ba.Warnings, 1)
	assert.Contains(t, ba.Warnings[0], "sal.csv: Salary depends on models not present in this batch: Employee")
}

func TestAnalyzeFiles_CycleIsBrokenNotFatal(t *testing.T) {
	reg, err := registry.New([]registry.ModelProfile{
		{
			Name:      "Alpha",
			Category:  "TEST",
			DependsOn: []string{"Beta"},
			Fields:    []registry.FieldSignature{sig("alpha_code", true)},
		},
		{
			Name:      "Beta",
			Category:  "TEST",
			DependsOn: []string{"Alpha"},
			Fields:    []registry.FieldSignature{sig("beta_code", true)},
		},
	})
	require.NoError(t, err)
	svc := newService(reg)

	ba, err := svc.AnalyzeFiles(context.Background(), []service.FileInput{
		{Filename: "a.csv", Content: []byte("alpha_code\nX\n")},
		{Filename: "b.csv", Content: []byte("beta_code\nY\n")},
	})
	require.NoError(t, err)

	require.Len(t, ba.Errors, 1)
	assert.Contains(t, ba.Errors[0], "dependency cycle detected")
	assert.Contains(t, ba.Errors[0], "Beta -> Alpha")

	// Dropping Beta -> Alpha leaves Alpha -> Beta, so a.csv loads first.
	assert.Equal(t, []string{"a.csv", "b.csv"}, ba.ProcessingOrder)
}

func TestAnalyzeFiles_DuplicateFilenameIgnored(t *testing.T) {
	svc := newService(miniRegistry(t))
	content := []byte("employee_number,first_name,last_name\nE001,Ada,Lovelace\n")

	ba, err := svc.AnalyzeFiles(context.Background(), []service.FileInput{
		{Filename: "emp.csv", Content: content},
		{Filename: "emp.csv", Content: content},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"emp.csv"}, ba.ProcessingOrder)
	require.Len(t, ba.Warnings, 1)
	assert.Contains(t, ba.Warnings[0], "duplicate filename")
}

func TestAnalyzeFiles_ParserFailureBecomesDiagnostic(t *testing.T) {
	reg := miniRegistry(t)

	fp := new(mocks.MockFileParser)
	fp.On("Parse", "emp.csv", mock.Anything).
		Return(&domain.ParsedFile{
			Filename:  "emp.csv",
			Headers:   []string{"employee_number", "first_name", "last_name"},
			TotalRows: 3,
		}, nil)
	fp.On("Parse", "broken.csv", mock.Anything).
		Return(nil, errors.New("record on line 2: wrong number of fields"))

	factory := new(mocks.MockParserFactory)
	factory.On("ForFilename", mock.Anything).Return(fp, nil)

	svc := service.NewBatchService(factory, classifier.New(reg, 0), reg, 1)

	ba, err := svc.AnalyzeFiles(context.Background(), []service.FileInput{
		{Filename: "emp.csv", Content: []byte("irrelevant")},
		{Filename: "broken.csv", Content: []byte("irrelevant")},
	})
	require.NoError(t, err)

	assert.Equal(t, "Employee", ba.Files["emp.csv"].Analysis.DetectedModel)
	require.Len(t, ba.Errors, 1)
	assert.Contains(t, ba.Errors[0], "broken.csv: failed to parse: record on line 2")
	assert.Equal(t, []string{"emp.csv", "broken.csv"}, ba.ProcessingOrder)

	fp.AssertExpectations(t)
}

func TestAnalyzeFiles_IsIdempotent(t *testing.T) {
	svc := newService(miniRegistry(t))
	inputs := []service.FileInput{
		{Filename: "sal.csv", Content: []byte("employee_number,basic_salary\nE001,5000\n")},
		{Filename: "emp.csv", Content: []byte("employee_number,first_name,last_name\nE001,Ada,Lovelace\n")},
		{Filename: "mystery.csv", Content: []byte("foo,bar\n1,2\n")},
	}

	first, err := svc.AnalyzeFiles(context.Background(), inputs)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := svc.AnalyzeFiles(context.Background(), inputs)
		require.NoError(t, err)
		require.Equal(t, first, again)
	}
}

func TestAnalyzeFiles_BuiltinChain(t *testing.T) {
	reg := registry.Builtin()
	svc := newService(reg)

	ba, err := svc.AnalyzeFiles(context.Background(), []service.FileInput{
		{Filename: "sal.csv", Content: []byte("employee_number,basic_salary,effective_date\nE001,5000,2026-01-01\n")},
		{Filename: "emp.csv", Content: []byte("employee_number,first_name,last_name\nE001,Ada,Lovelace\n")},
		{Filename: "dept.csv", Content: []byte("department_code,department_name\nD01,Engineering\n")},
	})
	require.NoError(t, err)

	assert.Equal(t, "Department", ba.Files["dept.csv"].Analysis.DetectedModel)
	assert.Equal(t, "Employee", ba.Files["emp.csv"].Analysis.DetectedModel)
	assert.Equal(t, "Salary", ba.Files["sal.csv"].Analysis.DetectedModel)

	// Department before Employee before Salary.
	assert.Equal(t, []string{"dept.csv", "emp.csv", "sal.csv"}, ba.ProcessingOrder)

	// Employee statically depends on Position too, which is absent here.
	require.NotEmpty(t, ba.Warnings)
	assert.Contains(t, ba.Warnings[0], "emp.csv: Employee depends on models not present in this batch: Position")
	assert.Equal(t, []string{"Department"}, ba.Files["emp.csv"].Analysis.Dependencies)
}
