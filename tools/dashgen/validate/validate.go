// Package validate checks generated dashboards and rule files: every PromQL
// expression must parse and may only reference known metric names.
package validate

import (
	"fmt"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/grafana/grafana-foundation-sdk/go/prometheus"
	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/ebay-listing-creator/tools/dashgen/rules"
)

// Result collects the problems found in one artifact.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether no errors were found.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Dashboard validates every Prometheus target in dash, including panels
// nested in rows.
func Dashboard(dash dashboard.Dashboard, known map[string]bool) Result {
	var res Result
	for _, p := range dash.Panels {
		if p.Panel != nil {
			checkPanel(&res, *p.Panel, known)
		}
		if p.RowPanel != nil {
			for _, inner := range p.RowPanel.Panels {
				checkPanel(&res, inner, known)
			}
		}
	}
	return res
}

// Rules validates the expressions of a PrometheusRule. Recording rule names
// must themselves be known so dashboards can rely on them.
func Rules(cr rules.PrometheusRule, known map[string]bool) Result {
	var res Result
	for _, g := range cr.Spec.Groups {
		for _, r := range g.Rules {
			name := r.Record
			if name == "" {
				name = r.Alert
			}
			if r.Record != "" && !known[r.Record] {
				res.errorf("%s/%s: recording rule name is not in the known set", g.Name, name)
			}
			checkExpr(&res, g.Name+"/"+name, r.Expr, known)
		}
	}
	return res
}

func checkPanel(res *Result, p dashboard.Panel, known map[string]bool) {
	title := ""
	if p.Title != nil {
		title = *p.Title
	}
	if len(p.Targets) == 0 {
		res.warnf("panel %q has no targets", title)
		return
	}
	for _, t := range p.Targets {
		var expr string
		switch q := t.(type) {
		case prometheus.Dataquery:
			expr = q.Expr
		case *prometheus.Dataquery:
			expr = q.Expr
		default:
			res.warnf("panel %q has a non-Prometheus target", title)
			continue
		}
		checkExpr(res, "panel "+title, expr, known)
	}
}

func checkExpr(res *Result, where, expr string, known map[string]bool) {
	if expr == "" {
		res.errorf("%s: empty expression", where)
		return
	}
	parsed, err := parser.ParseExpr(expr)
	if err != nil {
		res.errorf("%s: parsing %q: %v", where, expr, err)
		return
	}
	for _, name := range Metrics(parsed) {
		if !known[name] {
			res.errorf("%s: unknown metric %q", where, name)
		}
	}
}

// Metrics returns the metric names selected by expr, in order of appearance.
func Metrics(expr parser.Expr) []string {
	var names []string
	seen := make(map[string]bool)
	parser.Inspect(expr, func(node parser.Node, _ []parser.Node) error {
		vs, ok := node.(*parser.VectorSelector)
		if !ok || vs.Name == "" || seen[vs.Name] {
			return nil
		}
		seen[vs.Name] = true
		names = append(names, vs.Name)
		return nil
	})
	return names
}
