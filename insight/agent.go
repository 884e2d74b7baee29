package insight

import (
	"context"
	"encoding/json"
	"fmt"
)

// SheetState is a lightweight snapshot of the caller's current sheet.
type SheetState struct {
	Name string  `json:"name"`
	Rows [][]any `json:"rows"`
}

// CellUpdate describes one cell change for the frontend to apply. How the
// update is applied is the frontend's business.
type CellUpdate struct {
	Row   int `json:"row"`
	Col   int `json:"col"`
	Value any `json:"value"`
}

// ChatRequest is the conversational agent's input: a free-text instruction
// and an optional sheet snapshot.
type ChatRequest struct {
	Message string      `json:"message" binding:"required"`
	Sheet   *SheetState `json:"sheet,omitempty"`
}

// ChatResponse carries the agent's reply. Updates is reserved for structured
// action extraction, which is not implemented; it is always empty today.
type ChatResponse struct {
	Reply     string          `json:"reply"`
	Updates   []CellUpdate    `json:"updates"`
	ChartSpec json.RawMessage `json:"chart_spec,omitempty"`
}

const agentInstructions = `You are InsightXL, an Excel / spreadsheet AI agent.

You receive:
- a natural language instruction from the user
- optionally, a tabular representation of the current sheet

Your job:
- understand the user's intent
- describe what should change in the sheet (rows/cols/values)
- optionally, propose a chart specification (type, data range, labels)
- respond with a concise, user-friendly explanation of what you did or suggest.

For now, you are only returning high-level natural language guidance. The
backend will later execute concrete transformations based on your instructions.`

// RunAgent turns a chat request into a reply. When the capability is
// unavailable it returns a deterministic reply that echoes the user's
// message and explains the limitation; otherwise the model's text is
// returned verbatim.
func RunAgent(ctx context.Context, gen TextGenerator, req ChatRequest) ChatResponse {
	if gen == nil || !gen.Available() {
		return ChatResponse{
			Reply: fmt.Sprintf(
				"InsightXL is not fully configured yet (missing OpenAI API key). "+
					"However, based on your message I would: %q. Once configured, I will "+
					"analyze your sheet and generate concrete transformations and visualizations.",
				req.Message),
			Updates: []CellUpdate{},
		}
	}

	snapshot := "None"
	if req.Sheet != nil {
		if b, err := json.Marshal(req.Sheet); err == nil {
			snapshot = string(b)
		}
	}
	input := fmt.Sprintf("User message: %s\n\nSheet snapshot (may be empty): %s", req.Message, snapshot)

	reply, err := gen.Generate(ctx, agentInstructions, input)
	if err != nil {
		return ChatResponse{
			Reply:   fmt.Sprintf("I could not process that request: %s. Please try again.", err),
			Updates: []CellUpdate{},
		}
	}
	return ChatResponse{Reply: reply, Updates: []CellUpdate{}}
}
