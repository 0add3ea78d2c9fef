package lexiscreen

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/lexiscreen/internal/domain/importance"
	"github.com/kailas-cloud/lexiscreen/internal/domain/report"
	"github.com/kailas-cloud/lexiscreen/internal/domain/risk"
	"github.com/kailas-cloud/lexiscreen/internal/export/table"
	screeninguc "github.com/kailas-cloud/lexiscreen/internal/usecase/screening"
)

// Screen runs one screening. The input map is not retained.
func (c *Client) Screen(ctx context.Context, in Input) (res Result, err error) {
	start := time.Now()
	defer func() { c.obs.observe("screen", start, err) }()

	r, err := c.screenSvc.Screen(ctx, screeninguc.Request{
		Overrides:   in.Overrides,
		UseDefaults: in.UseDefaults,
		TopK:        in.TopK,
	})
	if err != nil {
		return Result{}, fmt.Errorf("screen: %w", err)
	}
	res = toResult(r)
	c.obs.screened(res)
	return res, nil
}

// Features lists the model inputs in schema order.
func (c *Client) Features() []Feature {
	s, d := c.catalog.Schema(), c.catalog.Defaults()
	out := make([]Feature, s.Len())
	for i, name := range s.Names() {
		f := Feature{Name: name, Default: d.Value(name)}
		if v, ok := d.Typical(name); ok {
			f.Typical = &v
		}
		out[i] = f
	}
	return out
}

// Importances returns the k most influential features. k <= 0 returns all of them.
func (c *Client) Importances(k int) ([]FeatureImportance, error) {
	if k <= 0 {
		return toImportances(c.rankingSvc.All()), nil
	}
	entries, err := c.rankingSvc.TopFeatures(k)
	if err != nil {
		return nil, fmt.Errorf("importances: %w", err)
	}
	return toImportances(entries), nil
}

// ExportCSV renders res as the one-row CSV table.
func (c *Client) ExportCSV(res Result) (data []byte, err error) {
	start := time.Now()
	defer func() { c.obs.observe("export_csv", start, err) }()

	r, err := fromResult(res)
	if err != nil {
		return nil, err
	}
	data, err = table.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("export csv: %w", err)
	}
	return data, nil
}

// ExportPDF renders res as the printable report.
func (c *Client) ExportPDF(res Result) (data []byte, err error) {
	start := time.Now()
	defer func() { c.obs.observe("export_pdf", start, err) }()

	r, err := fromResult(res)
	if err != nil {
		return nil, err
	}
	data, err = c.renderer.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("export pdf: %w", err)
	}
	return data, nil
}

func toResult(r report.Report) Result {
	return Result{
		ID:             r.ID(),
		Timestamp:      r.Timestamp(),
		Age:            r.Age(),
		PredictedClass: r.PredictedClass(),
		Probability:    r.Probability(),
		RiskLevel:      r.Tier().String(),
		Alert:          r.Alert(),
		Interpretation: r.Tier().Interpretation(),
		TopFeatures:    toImportances(r.TopFeatures()),
	}
}

func fromResult(res Result) (report.Report, error) {
	tier, err := risk.Parse(res.RiskLevel)
	if err != nil {
		return report.Report{}, err
	}
	top := make([]importance.Entry, len(res.TopFeatures))
	for i, f := range res.TopFeatures {
		top[i] = importance.New(f.Feature, f.Score)
	}
	return report.Reconstruct(
		res.ID, res.Timestamp, res.Age, res.PredictedClass, res.Probability, tier, top,
	), nil
}

func toImportances(entries []importance.Entry) []FeatureImportance {
	out := make([]FeatureImportance, len(entries))
	for i, e := range entries {
		out[i] = FeatureImportance{Feature: e.Feature(), Score: e.Score()}
	}
	return out
}
