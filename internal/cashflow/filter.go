package cashflow

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// DateFormat is the wire format for filter dates and group keys
const DateFormat = "2006-01-02"

// Filter restricts a record set by type and flow date.
// An empty type set or one containing TypeAll means no type restriction.
// Date bounds are inclusive on both ends.
type Filter struct {
	Types     []Type     `json:"types,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
}

// NewFilter returns the default unrestricted filter
func NewFilter() Filter {
	return Filter{Types: []Type{TypeAll}}
}

// ParseDate parses a YYYY-MM-DD date string in UTC
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateFormat, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}

// ParseFilter builds a Filter from raw query input. Types come as a
// comma-separated list ("ALL" or empty means unrestricted); dates as
// YYYY-MM-DD. A present but unparseable date is an error, never a
// silent no-filter: a filter UI that claims to be active must not show
// unfiltered data.
func ParseFilter(typesCSV, startDate, endDate string) (Filter, error) {
	f := NewFilter()

	if typesCSV != "" {
		f.Types = f.Types[:0]
		for _, part := range strings.Split(typesCSV, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			f.Types = append(f.Types, Type(part))
		}
		if len(f.Types) == 0 {
			f.Types = []Type{TypeAll}
		}
	}

	if startDate != "" {
		t, err := ParseDate(startDate)
		if err != nil {
			return Filter{}, err
		}
		f.StartDate = &t
	}

	if endDate != "" {
		t, err := ParseDate(endDate)
		if err != nil {
			return Filter{}, err
		}
		// Bounds are inclusive: a YYYY-MM-DD end covers its whole day
		t = t.Add(24*time.Hour - time.Nanosecond)
		f.EndDate = &t
	}

	if err := f.Validate(); err != nil {
		return Filter{}, err
	}

	return f, nil
}

// Validate checks type membership and date range ordering
func (f Filter) Validate() error {
	for _, t := range f.Types {
		if t == TypeAll {
			continue
		}
		if !t.IsValid() {
			return fmt.Errorf("%w: %q", ErrInvalidType, t)
		}
	}

	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return ErrInvalidDateRange
	}

	return nil
}

// Unrestricted reports whether the filter applies no type restriction
func (f Filter) Unrestricted() bool {
	if len(f.Types) == 0 {
		return true
	}
	for _, t := range f.Types {
		if t == TypeAll {
			return true
		}
	}
	return false
}

// Matches reports whether a record passes the filter
func (f Filter) Matches(r *Record) bool {
	if !f.Unrestricted() {
		found := false
		for _, t := range f.Types {
			if r.Type == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.StartDate != nil && r.FlowDate.Before(*f.StartDate) {
		return false
	}

	if f.EndDate != nil && r.FlowDate.After(*f.EndDate) {
		return false
	}

	return true
}

// Apply returns the records passing the filter, preserving order.
// An invalid filter fails here rather than degrading to "no filter".
func (f Filter) Apply(records []*Record) ([]*Record, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return nil, nil
	}

	out := make([]*Record, 0, len(records))
	for _, r := range records {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// Fingerprint returns a stable key for the filter, used for cache keys.
// Identical filters always produce identical fingerprints.
func (f Filter) Fingerprint() string {
	var b strings.Builder

	if f.Unrestricted() {
		b.WriteString("ALL")
	} else {
		types := make([]string, 0, len(f.Types))
		for _, t := range f.Types {
			types = append(types, string(t))
		}
		sort.Strings(types)
		b.WriteString(strings.Join(types, ","))
	}

	b.WriteByte('|')
	if f.StartDate != nil {
		b.WriteString(f.StartDate.Format(DateFormat))
	}
	b.WriteByte('|')
	if f.EndDate != nil {
		b.WriteString(f.EndDate.Format(DateFormat))
	}

	return b.String()
}
