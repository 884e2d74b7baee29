package insight

import (
	"context"
	"fmt"
	"strings"
)

const suggestionCount = 3

const suggestInstructions = `You are a data analysis assistant. You will receive a short description of an uploaded tabular dataset.

Propose exactly 3 follow-up questions a user could ask about this specific dataset.

Rules:
- One question per line.
- No numbering, bullets, or any other decoration.
- Each question must reference the dataset's actual columns or content.
- Keep each question under 100 characters.`

// fallbackSuggestions is the fixed sequence returned when the capability is
// unavailable, fails, or yields fewer than 3 usable lines. It is substituted
// wholesale, never used for padding.
var fallbackSuggestions = []string{
	"What are the main trends in this data?",
	"Can you summarize the key statistics for each column?",
	"Show me a chart of the most interesting patterns",
}

// Suggest returns exactly 3 non-empty follow-up questions for the dataset.
func Suggest(ctx context.Context, gen TextGenerator, ds *Dataset) []string {
	if gen == nil || !gen.Available() {
		return fallback()
	}
	out, err := gen.Generate(ctx, suggestInstructions, buildSuggestInput(ds))
	if err != nil {
		return fallback()
	}

	var questions []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		questions = append(questions, line)
	}
	if len(questions) < suggestionCount {
		return fallback()
	}
	return questions[:suggestionCount]
}

func fallback() []string {
	out := make([]string, len(fallbackSuggestions))
	copy(out, fallbackSuggestions)
	return out
}

func buildSuggestInput(ds *Dataset) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rows: %d\n", ds.RowCount)
	fmt.Fprintf(&b, "Columns: %s\n", joinLimited(ds.Columns, 10))
	if numeric := ds.NumericColumns(); len(numeric) > 0 {
		fmt.Fprintf(&b, "Numeric columns: %s\n", joinLimited(numeric, 5))
	}

	b.WriteString("Sample rows:\n")
	n := 3
	if len(ds.Table.Rows) < n {
		n = len(ds.Table.Rows)
	}
	for _, row := range ds.Table.Rows[:n] {
		parts := make([]string, 0, len(ds.Columns))
		for j, col := range ds.Columns {
			parts = append(parts, col+"="+row[j])
		}
		fmt.Fprintf(&b, "- %s\n", strings.Join(parts, ", "))
	}
	return b.String()
}

// joinLimited joins up to max names, appending an ellipsis marker when the
// list was truncated.
func joinLimited(names []string, max int) string {
	if len(names) <= max {
		return strings.Join(names, ", ")
	}
	return strings.Join(names[:max], ", ") + ", ..."
}
