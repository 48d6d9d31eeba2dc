package queries

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/leapstack-labs/inspectomop/internal/inspector"
)

const daysPerYear = 365.25

// CountsByYearsOfCoverage counts payer plan periods by whole years of
// continuous coverage (PP01). Date arithmetic differs across dialects, so
// the years are computed here rather than in SQL. Periods with a missing or
// unparseable date are skipped.
func CountsByYearsOfCoverage(ctx context.Context, insp *inspector.Inspector) (*inspector.Frame, error) {
	t, err := tables(ctx, insp, "payer_plan_period")
	if err != nil {
		return nil, err
	}

	//nolint:gosec // identifiers come from reflection and are quoted
	query := fmt.Sprintf(`
		SELECT p.payer_plan_period_start_date, p.payer_plan_period_end_date
		FROM %s p`, t["payer_plan_period"])
	res, err := insp.Execute(ctx, query)
	if err != nil {
		return nil, err
	}
	periods, err := res.Frame()
	if err != nil {
		return nil, err
	}

	counts := make(map[int64]int64)
	for _, row := range periods.Rows {
		start, ok1 := asTime(row[0])
		end, ok2 := asTime(row[1])
		if !ok1 || !ok2 {
			continue
		}
		days := math.Floor(end.Sub(start).Hours() / 24)
		counts[int64(math.Floor(days/daysPerYear))]++
	}

	years := make([]int64, 0, len(counts))
	for y := range counts {
		years = append(years, y)
	}
	slices.Sort(years)

	out := &inspector.Frame{Columns: []string{"coverage_years", "count"}}
	for _, y := range years {
		out.Rows = append(out.Rows, []any{y, counts[y]})
	}
	return out, nil
}

func asTime(v any) (time.Time, bool) {
	switch x := v.(type) {
	case time.Time:
		return x, true
	case string:
		return inspector.ParseTime(x)
	}
	return time.Time{}, false
}

var planTypeOutputs = []output{
	{"plan_source_value", "p.plan_source_value"},
	{"count", "COUNT(p.plan_source_value)"},
}

// PatientDistributionByPlanType counts payer plan periods per plan source
// value (PP02). Periods without a plan source value count zero.
func PatientDistributionByPlanType(ctx context.Context, insp *inspector.Inspector, returnColumns []string) (*inspector.Results, error) {
	t, err := tables(ctx, insp, "payer_plan_period")
	if err != nil {
		return nil, err
	}
	b := &builder{d: insp.Dialect()}
	cols, err := selectList(b.d, planTypeOutputs, returnColumns)
	if err != nil {
		return nil, err
	}

	//nolint:gosec // identifiers come from reflection and are quoted
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s p
		GROUP BY p.plan_source_value
		ORDER BY p.plan_source_value`,
		cols, t["payer_plan_period"])
	return insp.Execute(ctx, query, b.args...)
}
