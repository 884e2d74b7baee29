package insight

import "strings"

// chartKeywords is the fixed keyword set for visualization intent. Substring
// matching is a heuristic, not a parser: false positives and negatives on
// ambiguous phrasing are accepted behavior.
var chartKeywords = []string{
	"chart", "graph", "plot", "visualize", "visualization", "draw",
	"bar chart", "line chart", "pie chart", "area chart", "radar chart",
	"histogram", "scatter", "donut", "treemap", "heatmap",
	"show me a", "create a", "make a", "generate a", "display a",
}

// IsChartRequest reports whether the free-text query looks like a
// visualization request. Matching is case-insensitive; the first keyword hit
// wins.
func IsChartRequest(query string) bool {
	q := strings.ToLower(query)
	for _, kw := range chartKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}
