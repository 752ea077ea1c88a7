package rules

// alert builds an alerting rule with the standard label and annotation set.
func alert(name, expr, forDur, severity, summary, description string) Rule {
	return Rule{
		Alert:  name,
		Expr:   expr,
		For:    forDur,
		Labels: map[string]string{"severity": severity},
		Annotations: map[string]string{
			"summary":     summary,
			"description": description,
		},
	}
}

// AlertRules returns a PrometheusRule CR containing alert rules for the
// listing creator server.
func AlertRules() PrometheusRule {
	return newPrometheusRule("elc-alerts",
		RuleGroup{
			Name: "elc-alerts",
			Rules: []Rule{
				alert("ElcDown",
					`absent(up{job="listing-creator"})`, "2m", "critical",
					"Listing creator is down",
					"The listing-creator job has been absent for more than 2 minutes."),
				alert("ElcReadinessDown",
					`elc_readyz_up == 0`, "2m", "critical",
					"Listing creator session store is unreachable",
					"The readiness probe has been reporting not-ready for more than 2 minutes."),
				alert("ElcHighErrorRate",
					`elc:http_errors:rate5m / elc:http_requests:rate5m > 0.05`, "5m", "warning",
					"High HTTP error rate on the listing creator",
					"More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes."),
				alert("ElcTokenGrantFailures",
					`sum(elc:ebay_token_failures:rate5m) > 0`, "10m", "warning",
					"eBay token grants are failing",
					"OAuth token requests have been rejected for 10 minutes. Check the application keyset and RuName."),
				alert("ElcCopyGenerationFailures",
					`sum(elc:copy_generation_failures:rate5m) > 0.05`, "5m", "warning",
					"Listing copy generation is failing",
					"The configured LLM backend has been returning errors for the last 5 minutes."),
				alert("ElcSessionSaveFailures",
					`sum(elc:session_saves:rate5m{outcome="error"}) > 0`, "5m", "critical",
					"Session state is not being persisted",
					"Writes to the session state store are failing; sessions will be lost on restart."),
				alert("ElcEbayQuotaHigh",
					`elc_ebay_daily_usage > 4000`, "5m", "warning",
					"eBay API daily usage is above 80% of the quota",
					"Daily eBay API usage has exceeded 4000 calls (limit is 5000)."),
				alert("ElcEbayLimitReached",
					`increase(elc_ebay_daily_limit_hits_total[5m]) > 0`, "0m", "critical",
					"eBay API daily limit has been reached",
					"The daily call quota is spent. Category lookups and token grants fail until it resets."),
			},
		},
	)
}
