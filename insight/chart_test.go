package insight

import (
	"encoding/json"
	"testing"
)

func decodeChart(t *testing.T, raw json.RawMessage) map[string]any {
	t.Helper()
	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, raw)
	}
	return obj
}

func TestNormalizeChartResponse_FencedJSON(t *testing.T) {
	t.Parallel()

	out := decodeChart(t, NormalizeChartResponse("```json\n{\"chartType\":\"bar\",\"data\":[]}\n```"))
	if out["type"] != "chart" {
		t.Fatalf("type=%v, want chart", out["type"])
	}
	if out["chartType"] != "bar" {
		t.Fatalf("chartType=%v, want bar", out["chartType"])
	}
}

func TestNormalizeChartResponse_FenceWithoutLanguage(t *testing.T) {
	t.Parallel()

	out := decodeChart(t, NormalizeChartResponse("```\n{\"chartType\":\"pie\",\"data\":[{\"name\":\"a\",\"value\":1}]}\n```"))
	if out["type"] != "chart" || out["chartType"] != "pie" {
		t.Fatalf("out=%v", out)
	}
}

func TestNormalizeChartResponse_BareJSON(t *testing.T) {
	t.Parallel()

	out := decodeChart(t, NormalizeChartResponse(`{"chartType":"line","title":"Trend","data":[]}`))
	if out["type"] != "chart" || out["title"] != "Trend" {
		t.Fatalf("out=%v", out)
	}
}

func TestNormalizeChartResponse_KeepsExistingType(t *testing.T) {
	t.Parallel()

	out := decodeChart(t, NormalizeChartResponse(`{"type":"error","message":"nope"}`))
	if out["type"] != "error" {
		t.Fatalf("type=%v, want error preserved", out["type"])
	}
}

func TestNormalizeChartResponse_MalformedOutput(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		"not json at all",
		"```json\nstill not json\n```",
		"[1,2,3]",
		"",
	} {
		out := decodeChart(t, NormalizeChartResponse(raw))
		if out["type"] != "error" {
			t.Fatalf("input %q: type=%v, want error", raw, out["type"])
		}
		if out["message"] != ChartErrorMessage {
			t.Fatalf("input %q: message=%v", raw, out["message"])
		}
	}
}

func TestChartError_CarriesMessage(t *testing.T) {
	t.Parallel()

	out := decodeChart(t, ChartError("rate limit exceeded"))
	if out["type"] != "error" || out["message"] != "rate limit exceeded" {
		t.Fatalf("out=%v", out)
	}
}
