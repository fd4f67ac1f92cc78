package cashflow

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// UngroupedKey is the key of the single group produced when
	// date grouping is disabled.
	UngroupedKey = "all"
	// UngroupedLabel is the display label of that group.
	UngroupedLabel = "All Transactions"

	labelFormat = "Jan 02, 2006"
)

// DateGroup is an ordered slice of one day's records with its subtotal.
// Groups are ephemeral presentation structures derived from a record
// set; they are never persisted.
type DateGroup struct {
	Key      string          `json:"key"`
	Label    string          `json:"label"`
	Records  []*Record       `json:"records"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Count    int             `json:"count"`
}

// DayKey truncates a timestamp to its UTC calendar day.
// Grouping always uses UTC so records near midnight land on the same
// day regardless of server locale.
func DayKey(t time.Time) string {
	return t.UTC().Format(DateFormat)
}

// GroupByDate groups records by the UTC calendar day of their flow
// date, most recent day first. Within a group records keep the order
// they were delivered in. With grouping disabled the result is a
// single "All Transactions" group holding every record.
//
// The operation is idempotent: the same input and flag always produce
// structurally identical output.
func GroupByDate(records []*Record, enabled bool) []*DateGroup {
	if !enabled {
		return []*DateGroup{{
			Key:      UngroupedKey,
			Label:    UngroupedLabel,
			Records:  records,
			Subtotal: ComputeFilteredTotal(records),
			Count:    len(records),
		}}
	}

	if len(records) == 0 {
		return nil
	}

	byDay := make(map[string]*DateGroup)
	keys := make([]string, 0)

	for _, r := range records {
		key := DayKey(r.FlowDate)
		g, ok := byDay[key]
		if !ok {
			day, _ := time.ParseInLocation(DateFormat, key, time.UTC)
			g = &DateGroup{
				Key:      key,
				Label:    day.Format(labelFormat),
				Subtotal: decimal.Zero,
			}
			byDay[key] = g
			keys = append(keys, key)
		}

		g.Records = append(g.Records, r)
		g.Count++
		if r.Status == StatusCompleted {
			g.Subtotal = g.Subtotal.Add(r.Signed())
		}
	}

	// Keys are YYYY-MM-DD, so lexicographic order is date order
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	groups := make([]*DateGroup, 0, len(keys))
	for _, key := range keys {
		groups = append(groups, byDay[key])
	}
	return groups
}

// GroupKeys returns the keys of the given groups in order
func GroupKeys(groups []*DateGroup) []string {
	keys := make([]string, 0, len(groups))
	for _, g := range groups {
		keys = append(keys, g.Key)
	}
	return keys
}
