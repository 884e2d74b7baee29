package insight

import (
	"context"
	"fmt"
)

// Answer runs the query pipeline against a loaded dataset: classify the
// query, build the context-bounded prompt, call the capability once, and
// post-process. The result is always a renderable payload — either report
// text, chart JSON, or an error-shaped chart object. Generation failures are
// contained here; they never surface as transport errors.
func Answer(ctx context.Context, gen TextGenerator, ds *Dataset, query string) string {
	if gen == nil || !gen.Available() {
		return GenerationUnavailableMessage
	}

	if IsChartRequest(query) {
		instructions, input := BuildChartPrompt(ds, query)
		raw, err := gen.Generate(ctx, instructions, input)
		if err != nil {
			return string(ChartError(err.Error()))
		}
		return string(NormalizeChartResponse(raw))
	}

	instructions, input := BuildReportPrompt(ds, query)
	out, err := gen.Generate(ctx, instructions, input)
	if err != nil {
		return fmt.Sprintf("Failed to generate the analysis: %s. Please try again.", err)
	}
	return out
}
