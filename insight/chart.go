package insight

import (
	"encoding/json"
	"strings"
)

// ChartErrorMessage is the fixed message returned when model output could
// not be parsed as a chart specification.
const ChartErrorMessage = "Failed to generate chart data. Please try rephrasing your request."

// ChartSpec describes a renderable chart. It is reflected into a JSON schema
// that rides along in the chart-mode prompt; the validator below works on
// raw JSON instead so unknown keys survive round-tripping.
type ChartSpec struct {
	Type        string           `json:"type,omitempty" jsonschema:"enum=chart"`
	ChartType   string           `json:"chartType" jsonschema:"enum=bar,enum=line,enum=pie,enum=area,enum=radar"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	XAxisLabel  string           `json:"xAxisLabel,omitempty"`
	YAxisLabel  string           `json:"yAxisLabel,omitempty"`
	Data        []map[string]any `json:"data"`
	Insights    []string         `json:"insights" jsonschema:"minItems=3,maxItems=3"`
}

// NormalizeChartResponse turns raw model output into a well-formed chart
// payload. It strips exactly one leading/trailing code-fence pair, parses
// the remainder as a JSON object, and injects the "chart" type marker when
// the discriminator is missing. Malformed output is replaced by a fixed
// error object; the raw text never reaches the caller.
func NormalizeChartResponse(raw string) json.RawMessage {
	s := stripFence(raw)

	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return ChartError(ChartErrorMessage)
	}
	if _, ok := obj["type"]; !ok {
		obj["type"] = "chart"
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return ChartError(ChartErrorMessage)
	}
	return b
}

// ChartError builds the error-shaped chart object for message.
func ChartError(message string) json.RawMessage {
	b, err := json.Marshal(map[string]string{"type": "error", "message": message})
	if err != nil {
		// Marshalling a map of strings cannot fail; keep the boundary total anyway.
		return json.RawMessage(`{"type":"error","message":"` + ChartErrorMessage + `"}`)
	}
	return b
}

// stripFence removes one leading and one trailing markdown fence marker.
// Only the literal markers are handled; this is a narrow normalization step,
// not general text scraping.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "```json"):
		s = strings.TrimPrefix(s, "```json")
	case strings.HasPrefix(s, "```"):
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
