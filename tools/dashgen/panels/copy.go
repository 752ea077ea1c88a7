package panels

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// CopyDuration returns a timeseries panel showing p50 and p95 copy
// generation latency per LLM backend.
func CopyDuration() *timeseries.PanelBuilder {
	quantile := func(q float64) string {
		return fmt.Sprintf("histogram_quantile(%.2f, sum(rate(%s[5m])) by (le, backend))",
			q, OnJob("elc_copy_generation_duration_seconds_bucket"))
	}
	return timeseries.NewPanelBuilder().
		Title("Generation Duration").
		Description("Title and description generation latency by backend").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(quantile(0.50), "p50 {{backend}}", "A")).
		WithTarget(PromQuery(quantile(0.95), "p95 {{backend}}", "B")).
		Unit("s").
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("mean", "max")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// CopyFailures returns a timeseries panel showing the generation failure
// rate.
func CopyFailures() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Generation Failures").
		Description("Failed generation calls per second by backend").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`elc:copy_generation_failures:rate5m`, "{{backend}}", "A")).
		FillOpacity(10).
		LineWidth(2).
		Thresholds(ThresholdsGreenYellowRed(0.01, 0.1)).
		ColorScheme(ColorSchemeThresholds()).
		DrawStyle(common.GraphDrawStyleLine)
}
