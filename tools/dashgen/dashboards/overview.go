// Package dashboards assembles Grafana dashboard definitions from panel builders.
package dashboards

import (
	"github.com/grafana/grafana-foundation-sdk/go/dashboard"

	"github.com/donaldgifford/ebay-listing-creator/tools/dashgen/panels"
)

// BuildOverview constructs the listing creator overview dashboard.
func BuildOverview() *dashboard.DashboardBuilder {
	b := dashboard.NewDashboardBuilder("ELC Overview").
		Uid("elc-overview").
		Tags([]string{"elc", "listing-creator"}).
		Refresh("30s").
		Time("now-6h", "now").
		Timezone("browser").
		Editable().
		Tooltip(dashboard.DashboardCursorSyncCrosshair).
		WithVariable(datasourceVar())

	b.WithRow(dashboard.NewRowBuilder("Overview").
		WithPanel(panels.HealthzStat()).
		WithPanel(panels.ReadyzStat()).
		WithPanel(panels.QuotaGauge()).
		WithPanel(panels.UptimeStat()))

	b.WithRow(dashboard.NewRowBuilder("HTTP").
		WithPanel(panels.RequestRate()).
		WithPanel(panels.LatencyPercentiles()).
		WithPanel(panels.ErrorRate()).
		WithPanel(panels.RequestsByRoute()))

	b.WithRow(dashboard.NewRowBuilder("eBay API").
		WithPanel(panels.APICallsRate()).
		WithPanel(panels.TokenGrants()).
		WithPanel(panels.DailyUsage()).
		WithPanel(panels.LimitHits()))

	b.WithRow(dashboard.NewRowBuilder("Copy Generation").
		WithPanel(panels.CopyDuration()).
		WithPanel(panels.CopyFailures()))

	b.WithRow(dashboard.NewRowBuilder("Sessions").
		WithPanel(panels.ActiveSessions()).
		WithPanel(panels.SessionEvictions()).
		WithPanel(panels.SessionSaves()).
		WithPanel(panels.AuthTransitions()))

	return b
}

func datasourceVar() *dashboard.DatasourceVariableBuilder {
	return dashboard.NewDatasourceVariableBuilder("datasource").
		Label("Datasource").
		Type("prometheus")
}
