package insight

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRunAgent_EchoFallback(t *testing.T) {
	t.Parallel()

	resp := RunAgent(context.Background(), Unavailable{}, ChatRequest{Message: "sum column B"})
	if !strings.Contains(resp.Reply, `"sum column B"`) {
		t.Fatalf("fallback must echo the message: %q", resp.Reply)
	}
	if !strings.Contains(resp.Reply, "not fully configured") {
		t.Fatalf("fallback must explain the limitation: %q", resp.Reply)
	}
	if resp.Updates == nil || len(resp.Updates) != 0 {
		t.Fatalf("updates=%v, want empty non-nil slice", resp.Updates)
	}
}

func TestRunAgent_ReplyVerbatim(t *testing.T) {
	t.Parallel()

	gen := &stubGen{out: "I would add a SUM formula in B11."}
	resp := RunAgent(context.Background(), gen, ChatRequest{Message: "total column B"})
	if resp.Reply != gen.out {
		t.Fatalf("reply=%q", resp.Reply)
	}
	if len(resp.Updates) != 0 {
		t.Fatalf("updates=%v", resp.Updates)
	}
	if resp.ChartSpec != nil {
		t.Fatalf("chart spec should be omitted: %s", resp.ChartSpec)
	}
}

func TestRunAgent_SnapshotRendering(t *testing.T) {
	t.Parallel()

	gen := &stubGen{out: "ok"}
	RunAgent(context.Background(), gen, ChatRequest{Message: "hello"})
	if !strings.Contains(gen.lastInput, "Sheet snapshot (may be empty): None") {
		t.Fatalf("missing None placeholder:\n%s", gen.lastInput)
	}

	RunAgent(context.Background(), gen, ChatRequest{
		Message: "hello",
		Sheet:   &SheetState{Name: "Q1", Rows: [][]any{{"a", 1}}},
	})
	if !strings.Contains(gen.lastInput, `"name":"Q1"`) {
		t.Fatalf("snapshot not serialized:\n%s", gen.lastInput)
	}
}

func TestRunAgent_ModelError(t *testing.T) {
	t.Parallel()

	gen := &stubGen{err: errors.New("timeout")}
	resp := RunAgent(context.Background(), gen, ChatRequest{Message: "do something"})
	if !strings.Contains(resp.Reply, "could not process") || !strings.Contains(resp.Reply, "timeout") {
		t.Fatalf("reply=%q", resp.Reply)
	}
}
