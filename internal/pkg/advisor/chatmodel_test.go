package advisor

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/cloudwego/eino/schema"
)

func TestCannedChatModelGenerate(t *testing.T) {
	m := NewCannedChatModel(newTestResolver())
	ctx := WithAdvisor(context.Background(), roleCTO, "en")

	msg, err := m.Generate(ctx, []*schema.Message{
		schema.SystemMessage("You are an advisor"),
		schema.UserMessage("first question about code"),
		schema.AssistantMessage("answer", nil),
		schema.UserMessage("now the database please"),
	})
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if msg.Role != schema.Assistant {
		t.Fatalf("expected assistant message, got %s", msg.Role)
	}
	want := newTestResolver().Resolve(ctx, Request{Role: roleCTO, Query: "now the database please", Language: "en"})
	if msg.Content != want {
		t.Fatalf("unexpected content: %q", msg.Content)
	}
}

func TestCannedChatModelGenerateErrors(t *testing.T) {
	m := NewCannedChatModel(newTestResolver())

	_, err := m.Generate(context.Background(), []*schema.Message{schema.UserMessage("hi")})
	if !errors.Is(err, ErrNoAdvisorRole) {
		t.Fatalf("expected ErrNoAdvisorRole, got %v", err)
	}

	ctx := WithAdvisor(context.Background(), roleCEO, "en")
	_, err = m.Generate(ctx, []*schema.Message{schema.SystemMessage("only system")})
	if !errors.Is(err, ErrNoUserMessage) {
		t.Fatalf("expected ErrNoUserMessage, got %v", err)
	}
}

func TestCannedChatModelStream(t *testing.T) {
	m := NewCannedChatModel(newTestResolver())
	ctx := WithAdvisor(context.Background(), roleCFO, "en")

	sr, err := m.Stream(ctx, []*schema.Message{schema.UserMessage("market analysis")})
	if err != nil {
		t.Fatalf("Stream error: %v", err)
	}
	defer sr.Close()

	chunks := 0
	for {
		msg, err := sr.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Recv error: %v", err)
		}
		if msg.Content == "" {
			t.Fatalf("empty chunk")
		}
		chunks++
	}
	if chunks != 1 {
		t.Fatalf("expected one chunk, got %d", chunks)
	}
}
