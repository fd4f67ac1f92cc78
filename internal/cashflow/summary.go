package cashflow

import "github.com/shopspring/decimal"

// Summary holds aggregate totals over a complete record set.
// Amount sums cover COMPLETED records only; Count covers every status,
// so the displayed transaction count and the amount-contributing count
// intentionally differ.
type Summary struct {
	TotalInflow  decimal.Decimal `json:"total_inflow"`
	TotalOutflow decimal.Decimal `json:"total_outflow"`
	Net          decimal.Decimal `json:"net"`
	Count        int             `json:"count"`
}

// ComputeSummary computes aggregate totals over the full, unpaginated
// record set. Empty input yields the zero summary, never an error.
func ComputeSummary(records []*Record) Summary {
	s := Summary{
		TotalInflow:  decimal.Zero,
		TotalOutflow: decimal.Zero,
		Net:          decimal.Zero,
	}

	for _, r := range records {
		s.Count++

		if r.Status != StatusCompleted {
			continue
		}

		if r.Type.IsInflow() {
			s.TotalInflow = s.TotalInflow.Add(r.Amount)
		} else {
			s.TotalOutflow = s.TotalOutflow.Add(r.Amount)
		}
	}

	s.Net = s.TotalInflow.Sub(s.TotalOutflow)
	return s
}

// ComputeFilteredTotal computes the signed net over a filtered
// (displayed) record set: inflow types add, everything else subtracts,
// COMPLETED records only. This diverges from the global summary when
// filters are active; callers must label the two numbers distinctly.
func ComputeFilteredTotal(records []*Record) decimal.Decimal {
	total := decimal.Zero

	for _, r := range records {
		if r.Status != StatusCompleted {
			continue
		}
		total = total.Add(r.Signed())
	}

	return total
}
