// Package count defines the value types of the text-statistics domain:
// metric selection, line-ending conventions, selections, count requests,
// and the result record an operation produces.
package count

import (
	"fmt"
	"sort"
	"strings"
)

// Metric is a set of requested text metrics. Metrics compose by union and
// are immutable once constructed; the engine runs only the stages whose
// metric is present in a request's set.
type Metric uint16

// Metric kinds.
const (
	// Length measures UTF-16 code units after line-ending normalization.
	Length Metric = 1 << iota
	// Characters counts extended grapheme clusters.
	Characters
	// Lines counts line segments.
	Lines
	// Words counts word tokens.
	Words
	// Location measures the caret position from the document start.
	Location
	// Line is the 1-based line number at the caret.
	Line
	// Column measures the caret position from the line start.
	Column
	// Unicode identifies a single selected Unicode scalar.
	Unicode
)

// All is the union of every metric kind.
const All = Length | Characters | Lines | Words | Location | Line | Column | Unicode

// metricNames maps each kind to its public name.
var metricNames = map[Metric]string{
	Length:     "length",
	Characters: "characters",
	Lines:      "lines",
	Words:      "words",
	Location:   "location",
	Line:       "line",
	Column:     "column",
	Unicode:    "unicode",
}

// Has reports whether every kind in m is present in the set.
func (m Metric) Has(kind Metric) bool {
	return m&kind == kind && kind != 0
}

// Intersects reports whether the set shares at least one kind with other.
func (m Metric) Intersects(other Metric) bool {
	return m&other != 0
}

// Union returns the set extended with the kinds of other.
func (m Metric) Union(other Metric) Metric {
	return m | other
}

// IsZero reports whether the set is empty.
func (m Metric) IsZero() bool {
	return m == 0
}

// Names returns the public names of the kinds in the set, in stage order.
func (m Metric) Names() []string {
	names := make([]string, 0, len(metricNames))
	for kind, name := range metricNames {
		if m.Has(kind) {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return metricOrder(names[i]) < metricOrder(names[j])
	})
	return names
}

// String returns the set as a comma-separated list of names, or "all" when
// every kind is present.
func (m Metric) String() string {
	if m == All {
		return "all"
	}
	return strings.Join(m.Names(), ",")
}

// metricOrder returns the stage position of a metric name.
func metricOrder(name string) int {
	order := []string{"length", "characters", "lines", "words", "location", "line", "column", "unicode"}
	for i, n := range order {
		if n == name {
			return i
		}
	}
	return len(order)
}

// ParseMetric resolves a single public metric name. The name "all" resolves
// to the full set.
func ParseMetric(name string) (Metric, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "all" {
		return All, nil
	}
	for kind, n := range metricNames {
		if n == name {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown metric %q", name)
}

// ParseMetrics resolves a list of metric names into their union. An empty
// list resolves to All, matching the request default.
func ParseMetrics(names []string) (Metric, error) {
	if len(names) == 0 {
		return All, nil
	}
	var set Metric
	for _, name := range names {
		kind, err := ParseMetric(name)
		if err != nil {
			return 0, err
		}
		set = set.Union(kind)
	}
	return set, nil
}
