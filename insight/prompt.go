package insight

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

// reportRowLimit caps the report-mode row dump: datasets up to the limit are
// included in full, larger ones are cut to reportRowExcerpt rows with an
// explicit disclaimer. The excerpt is authoritative ground truth for the
// analysis; see the instruction text below.
const (
	reportRowLimit   = 100
	reportRowExcerpt = 50
)

// GenerationUnavailableMessage is returned by both query modes when no
// generation credential was configured. The pipeline never attempts a call
// with an empty context.
const GenerationUnavailableMessage = "The analysis service is not configured (missing OpenAI API key). " +
	"Set OPENAI_API_KEY and restart the server to enable chart generation and analytical reports."

const chartInstructionsHeader = `You are a chart generation assistant. You will receive a tabular dataset and a user request.

Respond with a SINGLE JSON object and nothing else. No prose, no markdown fences.

Rules:
- "chartType" must be one of: bar, line, pie, area, radar.
  Map synonyms to canonical kinds: donut -> pie, spider -> radar, column -> bar, trend -> line.
- Use only actual values from the supplied data. Never invent numbers.
- "insights" must contain exactly 3 short observations grounded in the data.
- For pie and donut-style requests, each data point is {"name": ..., "value": ...}.
- For bar, line, area, and radar charts, data points use the actual column names as keys.
- Include "title", and "xAxisLabel"/"yAxisLabel" where the chart kind has axes.

The response must match this JSON schema:
`

var chartInstructions = chartInstructionsHeader + chartSchemaJSON()

func chartSchemaJSON() string {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(&ChartSpec{})
	b, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		panic(err)
	}
	return string(b)
}

// BuildChartPrompt assembles the chart-mode instructions and input. The full
// dataset is serialized into the context so the model can extract real
// values; partial data would produce a misleading chart, so completeness
// wins over economy here.
func BuildChartPrompt(ds *Dataset, query string) (instructions, input string) {
	var b strings.Builder
	fmt.Fprintf(&b, "User request: %s\n\n", strings.TrimSpace(query))
	fmt.Fprintf(&b, "Dataset: %s\n", ds.Filename)
	fmt.Fprintf(&b, "Total rows: %d\n", ds.RowCount)
	fmt.Fprintf(&b, "Columns: %s\n\n", strings.Join(ds.Columns, ", "))

	sample := ds.Sample
	if len(sample) > 10 {
		sample = sample[:10]
	}
	if rec, err := json.Marshal(sample); err == nil {
		fmt.Fprintf(&b, "Sample records:\n%s\n\n", rec)
	}

	b.WriteString("Full data:\n")
	writeRowTable(&b, ds.Table, len(ds.Table.Rows))
	return chartInstructions, b.String()
}

const reportInstructions = `You are a data analyst. You will receive a dataset context and a user question. Write a narrative analytical report grounded strictly in the supplied rows.

Structure the report exactly as:
1. A title.
2. A 2-3 sentence summary answering the question.
3. A short methodology note describing what data was examined.
4. Findings: call out the highest and lowest values explicitly, and include a table of ALL records relevant to the question. Do not truncate the table.
5. Conclusions: end with one concrete recommendation.

Base every number on the rows in the context. If the context says only a subset of rows is shown, analyze that subset and say so.`

// BuildReportPrompt assembles the report-mode instructions and input. All
// rows are included for datasets up to 100 rows; larger datasets are cut to
// the first 50 with an explicit disclaimer so the model knows what it saw.
func BuildReportPrompt(ds *Dataset, query string) (instructions, input string) {
	var b strings.Builder
	fmt.Fprintf(&b, "User question: %s\n\n", strings.TrimSpace(query))
	fmt.Fprintf(&b, "File: %s\n", ds.Filename)
	fmt.Fprintf(&b, "Shape: %d rows x %d columns\n\n", ds.RowCount, ds.ColumnCount)

	b.WriteString("[SCHEMA]\n")
	for _, col := range ds.Columns {
		fmt.Fprintf(&b, "- %s: %s\n", col, ds.Dtypes[col])
	}
	b.WriteString("\n")

	shown := ds.RowCount
	if ds.RowCount > reportRowLimit {
		shown = reportRowExcerpt
		fmt.Fprintf(&b, "[ROWS: FIRST %d OF %d ROWS]\n", shown, ds.RowCount)
	} else {
		fmt.Fprintf(&b, "[ROWS: ALL %d ROWS]\n", ds.RowCount)
	}
	writeRowTable(&b, ds.Table, shown)
	b.WriteString("\n")

	numeric := ds.NumericColumns()
	if len(numeric) == 0 {
		b.WriteString("[STATISTICS]\nNo numeric columns.\n")
		return reportInstructions, b.String()
	}
	b.WriteString("[STATISTICS]\n")
	for _, col := range numeric {
		s := ds.Summary[col]
		fmt.Fprintf(&b, "- %s: count=%s mean=%s std=%s min=%s 25%%=%s 50%%=%s 75%%=%s max=%s\n",
			col, formatStat(ptr(s.Count)), formatStat(s.Mean), formatStat(s.Std),
			formatStat(s.Min), formatStat(s.P25), formatStat(s.P50), formatStat(s.P75), formatStat(s.Max))
	}
	return reportInstructions, b.String()
}

// formatStat renders a statistic, substituting the literal None where the
// value is undefined.
func formatStat(f *float64) string {
	if f == nil {
		return "None"
	}
	s := strings.TrimRight(fmt.Sprintf("%.4f", *f), "0")
	return strings.TrimSuffix(s, ".")
}

// writeRowTable renders up to limit rows as a compact pipe table.
func writeRowTable(b *strings.Builder, t *Table, limit int) {
	if limit > len(t.Rows) {
		limit = len(t.Rows)
	}
	b.WriteString("| " + strings.Join(t.Columns, " | ") + " |\n")
	for _, row := range t.Rows[:limit] {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = sanitizeCell(v)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
}

func sanitizeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "/")
}
