package rules

// RecordingRules returns a PrometheusRule CR containing pre-computed rate
// expressions used by dashboards and alert rules.
func RecordingRules() PrometheusRule {
	return newPrometheusRule("elc-recording-rules",
		RuleGroup{
			Name: "elc-recording",
			Rules: []Rule{
				{
					Record: "elc:http_requests:rate5m",
					Expr:   `sum(rate(elc_http_requests_total[5m]))`,
				},
				{
					Record: "elc:http_errors:rate5m",
					Expr:   `sum(rate(elc_http_requests_total{status=~"5.."}[5m]))`,
				},
				{
					Record: "elc:ebay_api_calls:rate5m",
					Expr:   `sum by (endpoint, outcome) (rate(elc_ebay_api_calls_total[5m]))`,
				},
				{
					Record: "elc:ebay_token_failures:rate5m",
					Expr:   `sum by (grant) (rate(elc_ebay_token_grants_total{outcome!="ok"}[5m]))`,
				},
				{
					Record: "elc:copy_generation_failures:rate5m",
					Expr:   `sum by (backend) (rate(elc_copy_generation_failures_total[5m]))`,
				},
				{
					Record: "elc:session_saves:rate5m",
					Expr:   `sum by (backend, outcome) (rate(elc_session_saves_total[5m]))`,
				},
			},
		},
	)
}
