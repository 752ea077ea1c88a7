package panels

import (
	"github.com/grafana/grafana-foundation-sdk/go/common"
	"github.com/grafana/grafana-foundation-sdk/go/stat"
	"github.com/grafana/grafana-foundation-sdk/go/timeseries"
)

// ActiveSessions returns a stat panel with the number of live sessions.
func ActiveSessions() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Active Sessions").
		Description("Sessions held in memory by the server").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`sum(` + OnJob("elc_sessions_active") + `)`, "", "A")).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeArea)
}

// SessionEvictions returns a stat panel counting idle sessions dropped by
// the janitor in the last 24 hours.
func SessionEvictions() *stat.PanelBuilder {
	return stat.NewPanelBuilder().
		Title("Evicted (24h)").
		Description("Idle sessions dropped from memory").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(StatWidth).
		WithTarget(PromQuery(`increase(` + OnJob("elc_sessions_evicted_total") + `[24h])`, "", "A")).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemeThresholds()).
		GraphMode(common.BigValueGraphModeNone)
}

// SessionSaves returns a timeseries panel showing state store writes by
// backend and outcome.
func SessionSaves() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Session Saves").
		Description("Session state writes per second").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(TSWidth).
		WithTarget(PromQuery(`elc:session_saves:rate5m`, "{{backend}} {{outcome}}", "A")).
		Unit("ops").
		FillOpacity(10).
		LineWidth(2).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleLine)
}

// AuthTransitions returns a timeseries panel showing sign-in state machine
// transitions by event and target state.
func AuthTransitions() *timeseries.PanelBuilder {
	return timeseries.NewPanelBuilder().
		Title("Auth Transitions").
		Description("Sign-in state changes per hour").
		Datasource(DSRef()).
		Height(TSHeight).
		Span(FullWidth).
		WithTarget(PromQuery(
			`sum by (event, to) (increase(` + OnJob("elc_auth_transitions_total") + `[1h]))`,
			"{{event}} -> {{to}}", "A",
		)).
		FillOpacity(10).
		LineWidth(2).
		Legend(TableLegend("sum")).
		Tooltip(MultiTooltip()).
		Thresholds(ThresholdsGreenOnly()).
		ColorScheme(ColorSchemePaletteClassic()).
		DrawStyle(common.GraphDrawStyleBars)
}
