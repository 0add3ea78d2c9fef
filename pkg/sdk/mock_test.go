package lexiscreen

import (
	"context"

	"github.com/kailas-cloud/lexiscreen/internal/domain/feature"
	"github.com/kailas-cloud/lexiscreen/internal/domain/importance"
	"github.com/kailas-cloud/lexiscreen/internal/domain/report"
	healthuc "github.com/kailas-cloud/lexiscreen/internal/usecase/health"
	screeninguc "github.com/kailas-cloud/lexiscreen/internal/usecase/screening"
)

// --- screeningUseCase mock ---

type mockScreeningUC struct {
	screenFn func(ctx context.Context, req screeninguc.Request) (report.Report, error)
}

func (m *mockScreeningUC) Screen(ctx context.Context, req screeninguc.Request) (report.Report, error) {
	return m.screenFn(ctx, req)
}

// --- catalogUseCase mock ---

type mockCatalog struct {
	schema   feature.Schema
	defaults feature.Defaults
}

func (m *mockCatalog) Schema() feature.Schema {
	return m.schema
}

func (m *mockCatalog) Defaults() feature.Defaults {
	return m.defaults
}

// --- rankingUseCase mock ---

type mockRankingUC struct {
	topFn func(k int) ([]importance.Entry, error)
	all   []importance.Entry
}

func (m *mockRankingUC) TopFeatures(k int) ([]importance.Entry, error) {
	return m.topFn(k)
}

func (m *mockRankingUC) All() []importance.Entry {
	return m.all
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report {
	return m.report
}

// --- documentRenderer mock ---

type mockRenderer struct {
	fn func(r report.Report) ([]byte, error)
}

func (m *mockRenderer) Marshal(r report.Report) ([]byte, error) {
	return m.fn(r)
}

