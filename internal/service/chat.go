package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sundialhq/sundial/internal/domain"
	"go.uber.org/zap"
)

var (
	ErrMessageEmpty         = errors.New("message is required")
	ErrCalendarNotConnected = errors.New("calendar is not connected")
)

const (
	assistantSystemPrompt = "You are a helpful personal scheduling assistant."
	fallbackReply         = "I can help with meetings and schedules. What would you like to do?"
	// DefaultEventTitle is used when no title can be extracted.
	DefaultEventTitle = "Meeting"
	// DefaultEventDuration is the length of events created from chat.
	DefaultEventDuration = time.Hour
	// ChatHistoryLimit bounds history reads from the API.
	ChatHistoryLimit = 50
)

// ChatService orchestrates one conversational turn: classify the message,
// capture any lasting preference it states, run the scheduling reasoning
// when asked to create an event, execute calendar actions, and persist
// both sides of the exchange.
type ChatService struct {
	chatStore domain.ChatStore
	prefs     *PreferenceService
	reasoning *ReasoningService
	calendar  domain.CalendarClient
	llm       domain.LLMClient
	logger    *zap.Logger
	now       func() time.Time
}

func NewChatService(
	chatStore domain.ChatStore,
	prefs *PreferenceService,
	reasoning *ReasoningService,
	calendar domain.CalendarClient,
	llm domain.LLMClient,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		chatStore: chatStore,
		prefs:     prefs,
		reasoning: reasoning,
		calendar:  calendar,
		llm:       llm,
		logger:    logger,
		now:       time.Now,
	}
}

// HandleMessage processes one user message and returns the assistant's
// reply. Calendar intents require a connected calendar; everything else
// works without one.
func (s *ChatService) HandleMessage(ctx context.Context, user *domain.User, message string) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", ErrMessageEmpty
	}

	state := DetectIntent(message, s.now())

	if needsCalendar(state.Intent) && (!user.CalendarConnected || user.CalendarToken == "") {
		return "", ErrCalendarNotConnected
	}

	if err := s.chatStore.Create(ctx, &domain.ChatMessage{
		UserID:  user.ID,
		Role:    domain.RoleUser,
		Content: message,
	}); err != nil {
		return "", fmt.Errorf("persist user message: %w", err)
	}

	// Remember any lasting preference the message states, regardless of
	// intent. Failures here never block the reply.
	s.capturePreference(ctx, user, message)

	reply, err := s.respond(ctx, user, state)
	if err != nil {
		return "", err
	}

	if err := s.chatStore.Create(ctx, &domain.ChatMessage{
		UserID:  user.ID,
		Role:    domain.RoleAssistant,
		Content: reply,
	}); err != nil {
		return "", fmt.Errorf("persist assistant message: %w", err)
	}

	return reply, nil
}

func needsCalendar(intent domain.Intent) bool {
	switch intent {
	case domain.IntentCreateEvent, domain.IntentReadCalendar:
		return true
	}
	return false
}

func (s *ChatService) respond(ctx context.Context, user *domain.User, state domain.RequestState) (string, error) {
	switch state.Intent {
	case domain.IntentCreateEvent:
		return s.createEvent(ctx, user, state)

	case domain.IntentReadCalendar:
		return s.readCalendar(ctx, user)

	case domain.IntentRescheduleEvent:
		return "Rescheduling needs an event reference.\nExample: 'Reschedule my 11am meeting to 2pm'", nil

	case domain.IntentDeleteEvent:
		return "Deleting needs an event reference.\nExample: 'Cancel the standup meeting'", nil

	default:
		return s.chat(ctx, user, state.Message)
	}
}

func (s *ChatService) createEvent(ctx context.Context, user *domain.User, state domain.RequestState) (string, error) {
	decision, err := s.reasoning.Schedule(ctx, user.ID, state.TargetDate, state.ExplicitTime)
	if err != nil {
		return "", err
	}

	if decision.NeedsClarification() {
		return decision.Clarification, nil
	}

	title := state.Title
	if title == "" {
		title = DefaultEventTitle
	}

	hour, minute, ok := parseClock(decision.ProposedTime)
	if !ok {
		return "", fmt.Errorf("invalid proposed time %q", decision.ProposedTime)
	}
	y, m, d := state.TargetDate.Date()
	start := time.Date(y, m, d, hour, minute, 0, 0, state.TargetDate.Location())

	created, err := s.calendar.CreateEvent(ctx, user.CalendarToken, domain.CalendarEvent{
		Title: title,
		Start: start,
		End:   start.Add(DefaultEventDuration),
	})
	if err != nil {
		return "", fmt.Errorf("create calendar event: %w", err)
	}

	reply := fmt.Sprintf("Scheduled %q on %s at %s.",
		created.Title, start.Format("January 2"), decision.ProposedTime)
	if decision.Explanation != "" {
		reply += "\n\n" + decision.Explanation
	}
	return reply, nil
}

func (s *ChatService) readCalendar(ctx context.Context, user *domain.User) (string, error) {
	events, err := s.calendar.ListEvents(ctx, user.CalendarToken, dateOnly(s.now()))
	if err != nil {
		return "", fmt.Errorf("list calendar events: %w", err)
	}

	if len(events) == 0 {
		return "No events scheduled for today.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Today's schedule (%d events):\n", len(events))
	for i, ev := range events {
		fmt.Fprintf(&b, "%d. %s — %s to %s\n",
			i+1, ev.Title, ev.Start.Format("15:04"), ev.End.Format("15:04"))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// chat produces a plain conversational reply, grounding the LLM with the
// stored preferences most similar to the message.
func (s *ChatService) chat(ctx context.Context, user *domain.User, message string) (string, error) {
	if s.llm == nil {
		return fallbackReply, nil
	}

	var memoryText string
	similar, err := s.prefs.SearchSimilar(ctx, user.ID, message, DefaultSimilarLimit)
	if err != nil && !errors.Is(err, ErrEmbeddingsNotAvailable) {
		s.logger.Warn("preference similarity search failed", zap.Error(err))
	}
	if len(similar) > 0 {
		var b strings.Builder
		b.WriteString("User preferences:\n")
		for _, p := range similar {
			b.WriteString("- " + p.Value + "\n")
		}
		memoryText = b.String()
	}

	prompt := fmt.Sprintf("User request:\n%s\n\n%s\nRespond clearly and helpfully, using the user's preferences when relevant.", message, memoryText)

	reply, err := s.llm.Respond(ctx, assistantSystemPrompt, prompt)
	if err != nil {
		s.logger.Warn("LLM response failed", zap.Error(err))
		return fallbackReply, nil
	}
	return reply, nil
}

// capturePreference asks the LLM whether the message states a scheduling
// preference worth remembering and stores it when it does. Best-effort.
func (s *ChatService) capturePreference(ctx context.Context, user *domain.User, message string) {
	if s.llm == nil {
		return
	}

	extracted, err := s.llm.ExtractPreference(ctx, message)
	if err != nil {
		s.logger.Warn("preference extraction failed", zap.Error(err))
		return
	}
	if extracted == nil || strings.TrimSpace(extracted.Value) == "" {
		return
	}

	if _, err := s.prefs.Store(ctx, user.ID, extracted.Value, domain.SourceChat); err != nil {
		s.logger.Warn("failed to store extracted preference", zap.Error(err))
	}
}

// History returns the most recent chat messages, oldest first.
func (s *ChatService) History(ctx context.Context, user *domain.User, limit int) ([]domain.ChatMessage, error) {
	if limit <= 0 || limit > ChatHistoryLimit {
		limit = ChatHistoryLimit
	}
	return s.chatStore.ListByUser(ctx, user.ID, limit)
}

// ClearHistory deletes the user's chat history.
func (s *ChatService) ClearHistory(ctx context.Context, user *domain.User) (int64, error) {
	return s.chatStore.DeleteByUser(ctx, user.ID)
}
