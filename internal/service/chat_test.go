package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sundialhq/sundial/internal/calendar"
	"github.com/sundialhq/sundial/internal/domain"
	"github.com/sundialhq/sundial/internal/llm"
	"go.uber.org/zap"
)

// mockChatStore implements domain.ChatStore for testing.
type mockChatStore struct {
	messages []domain.ChatMessage
}

func (m *mockChatStore) Create(ctx context.Context, msg *domain.ChatMessage) error {
	msg.ID = uuid.New()
	msg.CreatedAt = time.Now()
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *mockChatStore) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ChatMessage, error) {
	var out []domain.ChatMessage
	for _, msg := range m.messages {
		if msg.UserID == userID {
			out = append(out, msg)
		}
	}
	if len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (m *mockChatStore) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var kept []domain.ChatMessage
	var deleted int64
	for _, msg := range m.messages {
		if msg.UserID == userID {
			deleted++
			continue
		}
		kept = append(kept, msg)
	}
	m.messages = kept
	return deleted, nil
}

type chatFixture struct {
	svc       *ChatService
	chatStore *mockChatStore
	prefStore *mockPreferenceStore
	calendar  *calendar.MockClient
	llm       *llm.MockClient
	user      *domain.User
}

func newChatFixture(withLLM bool) *chatFixture {
	chatStore := &mockChatStore{}
	prefStore := newMockPreferenceStore()
	cal := calendar.NewMockClient()

	var llmClient domain.LLMClient
	var mockLLM *llm.MockClient
	if withLLM {
		mockLLM = llm.NewMockClient()
		llmClient = mockLLM
	}

	prefSvc := newTestPreferenceService(prefStore, nil)
	reasoningSvc := NewReasoningService(newTestBeliefService(prefStore), zap.NewNop())

	svc := NewChatService(chatStore, prefSvc, reasoningSvc, cal, llmClient, zap.NewNop())
	svc.now = func() time.Time { return fixedNow }

	return &chatFixture{
		svc:       svc,
		chatStore: chatStore,
		prefStore: prefStore,
		calendar:  cal,
		llm:       mockLLM,
		user: &domain.User{
			ID:                uuid.New(),
			CalendarToken:     "tok-123",
			CalendarConnected: true,
		},
	}
}

func TestHandleMessageValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("empty message", func(t *testing.T) {
		f := newChatFixture(false)
		if _, err := f.svc.HandleMessage(ctx, f.user, "  "); !errors.Is(err, ErrMessageEmpty) {
			t.Errorf("error = %v, want ErrMessageEmpty", err)
		}
	})

	t.Run("calendar intents require a connected calendar", func(t *testing.T) {
		f := newChatFixture(false)
		f.user.CalendarConnected = false
		if _, err := f.svc.HandleMessage(ctx, f.user, "schedule a meeting tomorrow"); !errors.Is(err, ErrCalendarNotConnected) {
			t.Errorf("error = %v, want ErrCalendarNotConnected", err)
		}
		if len(f.chatStore.messages) != 0 {
			t.Error("rejected message should not be persisted")
		}
	})

	t.Run("plain chat works without a calendar", func(t *testing.T) {
		f := newChatFixture(false)
		f.user.CalendarConnected = false
		reply, err := f.svc.HandleMessage(ctx, f.user, "hello there")
		if err != nil {
			t.Fatalf("HandleMessage() error = %v", err)
		}
		if reply != fallbackReply {
			t.Errorf("reply = %q, want the fallback", reply)
		}
	})
}

func TestHandleMessageCreateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("explicit time schedules directly", func(t *testing.T) {
		f := newChatFixture(false)
		reply, err := f.svc.HandleMessage(ctx, f.user, "schedule a meeting for standup tomorrow at 3pm")
		if err != nil {
			t.Fatalf("HandleMessage() error = %v", err)
		}
		if !strings.Contains(reply, "Scheduled") || !strings.Contains(reply, "15:00") {
			t.Errorf("unexpected reply: %q", reply)
		}
		if len(f.calendar.CreateCalls) != 1 {
			t.Fatalf("expected 1 calendar create, got %d", len(f.calendar.CreateCalls))
		}
		ev := f.calendar.CreateCalls[0]
		if ev.Title != "standup" {
			t.Errorf("title = %q, want \"standup\"", ev.Title)
		}
		if ev.Start.Hour() != 15 || ev.Start.Day() != 11 {
			t.Errorf("start = %v, want 15:00 on March 11", ev.Start)
		}
		if got := ev.End.Sub(ev.Start); got != DefaultEventDuration {
			t.Errorf("duration = %v, want %v", got, DefaultEventDuration)
		}
	})

	t.Run("preferences drive the proposed time", func(t *testing.T) {
		f := newChatFixture(false)
		f.prefStore.add(f.user.ID, "I prefer meetings after 2pm", nil)

		reply, err := f.svc.HandleMessage(ctx, f.user, "schedule a meeting tomorrow")
		if err != nil {
			t.Fatalf("HandleMessage() error = %v", err)
		}
		if !strings.Contains(reply, "14:00") {
			t.Errorf("reply should propose 14:00: %q", reply)
		}
		if !strings.Contains(reply, "I chose 14:00 because:") {
			t.Errorf("reply should carry the explanation: %q", reply)
		}
		if f.calendar.CreateCalls[0].Title != DefaultEventTitle {
			t.Errorf("untitled event should use %q, got %q", DefaultEventTitle, f.calendar.CreateCalls[0].Title)
		}
	})

	t.Run("no preferences asks for a time", func(t *testing.T) {
		f := newChatFixture(false)
		reply, err := f.svc.HandleMessage(ctx, f.user, "schedule a meeting tomorrow")
		if err != nil {
			t.Fatalf("HandleMessage() error = %v", err)
		}
		if reply != clarifyAskForTime {
			t.Errorf("reply = %q, want the clarification prompt", reply)
		}
		if len(f.calendar.CreateCalls) != 0 {
			t.Error("no event should be created without a time")
		}
	})

	t.Run("conflicting preferences ask which wins", func(t *testing.T) {
		f := newChatFixture(false)
		f.prefStore.add(f.user.ID, "only after 7pm", nil)
		f.prefStore.add(f.user.ID, "no meetings after 6pm", nil)

		reply, err := f.svc.HandleMessage(ctx, f.user, "schedule a meeting tomorrow")
		if err != nil {
			t.Fatalf("HandleMessage() error = %v", err)
		}
		if !strings.Contains(reply, "conflicting preferences") {
			t.Errorf("unexpected reply: %q", reply)
		}
		if len(f.calendar.CreateCalls) != 0 {
			t.Error("no event should be created while a conflict is unresolved")
		}
	})

	t.Run("both turns are persisted", func(t *testing.T) {
		f := newChatFixture(false)
		if _, err := f.svc.HandleMessage(ctx, f.user, "schedule a meeting tomorrow at 3pm"); err != nil {
			t.Fatal(err)
		}
		if len(f.chatStore.messages) != 2 {
			t.Fatalf("expected 2 persisted messages, got %d", len(f.chatStore.messages))
		}
		if f.chatStore.messages[0].Role != domain.RoleUser || f.chatStore.messages[1].Role != domain.RoleAssistant {
			t.Errorf("unexpected roles: %v, %v", f.chatStore.messages[0].Role, f.chatStore.messages[1].Role)
		}
	})
}

func TestHandleMessageReadCalendar(t *testing.T) {
	ctx := context.Background()

	t.Run("empty day", func(t *testing.T) {
		f := newChatFixture(false)
		reply, err := f.svc.HandleMessage(ctx, f.user, "what's on my calendar?")
		if err != nil {
			t.Fatalf("HandleMessage() error = %v", err)
		}
		if reply != "No events scheduled for today." {
			t.Errorf("reply = %q", reply)
		}
	})

	t.Run("lists today's events", func(t *testing.T) {
		f := newChatFixture(false)
		start := time.Date(2026, time.March, 10, 11, 0, 0, 0, time.UTC)
		f.calendar.Events = []domain.CalendarEvent{
			{ID: "1", Title: "Standup", Start: start, End: start.Add(30 * time.Minute)},
		}

		reply, err := f.svc.HandleMessage(ctx, f.user, "what's on my calendar?")
		if err != nil {
			t.Fatalf("HandleMessage() error = %v", err)
		}
		if !strings.Contains(reply, "Standup") || !strings.Contains(reply, "11:00") {
			t.Errorf("unexpected reply: %q", reply)
		}
	})
}

func TestHandleMessageChat(t *testing.T) {
	ctx := context.Background()

	t.Run("LLM reply is returned", func(t *testing.T) {
		f := newChatFixture(true)
		f.llm.RespondResponse = "Happy to help with your schedule."

		reply, err := f.svc.HandleMessage(ctx, f.user, "how do you work?")
		if err != nil {
			t.Fatalf("HandleMessage() error = %v", err)
		}
		if reply != "Happy to help with your schedule." {
			t.Errorf("reply = %q", reply)
		}
	})

	t.Run("LLM failure falls back", func(t *testing.T) {
		f := newChatFixture(true)
		f.llm.RespondError = errors.New("provider down")

		reply, err := f.svc.HandleMessage(ctx, f.user, "how do you work?")
		if err != nil {
			t.Fatalf("HandleMessage() error = %v", err)
		}
		if reply != fallbackReply {
			t.Errorf("reply = %q, want the fallback", reply)
		}
	})

	t.Run("extracted preferences are stored", func(t *testing.T) {
		f := newChatFixture(true)
		f.llm.ExtractPreferenceResponse = &domain.ExtractedPreference{Value: "I prefer meetings after 2pm"}

		if _, err := f.svc.HandleMessage(ctx, f.user, "by the way, I prefer meetings after 2pm"); err != nil {
			t.Fatal(err)
		}
		prefs, err := f.prefStore.ListByUser(ctx, f.user.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(prefs) != 1 {
			t.Fatalf("expected 1 stored preference, got %d", len(prefs))
		}
		if prefs[0].Value != "I prefer meetings after 2pm" || prefs[0].Source != domain.SourceChat {
			t.Errorf("unexpected stored preference: %+v", prefs[0])
		}
	})
}

func TestChatHistory(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(false)

	for i := 0; i < 3; i++ {
		if _, err := f.svc.HandleMessage(ctx, f.user, "hello"); err != nil {
			t.Fatal(err)
		}
	}

	t.Run("limited reads", func(t *testing.T) {
		msgs, err := f.svc.History(ctx, f.user, 2)
		if err != nil {
			t.Fatalf("History() error = %v", err)
		}
		if len(msgs) != 2 {
			t.Errorf("got %d messages, want 2", len(msgs))
		}
	})

	t.Run("zero limit clamps to the default", func(t *testing.T) {
		msgs, err := f.svc.History(ctx, f.user, 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(msgs) != 6 {
			t.Errorf("got %d messages, want all 6", len(msgs))
		}
	})

	t.Run("clear", func(t *testing.T) {
		deleted, err := f.svc.ClearHistory(ctx, f.user)
		if err != nil {
			t.Fatalf("ClearHistory() error = %v", err)
		}
		if deleted != 6 {
			t.Errorf("deleted = %d, want 6", deleted)
		}
	})
}
