package calendar

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sundialhq/sundial/internal/domain"
)

// MockClient is an in-memory calendar for testing. It records created
// events and serves them back from ListEvents.
type MockClient struct {
	CreateError error
	ListError   error
	DeleteError error

	Events []domain.CalendarEvent

	// Call tracking for assertions
	CreateCalls []domain.CalendarEvent
	ListCalls   []time.Time
	DeleteCalls []string
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (c *MockClient) CreateEvent(ctx context.Context, token string, ev domain.CalendarEvent) (*domain.CalendarEvent, error) {
	c.CreateCalls = append(c.CreateCalls, ev)
	if c.CreateError != nil {
		return nil, c.CreateError
	}
	ev.ID = uuid.NewString()
	c.Events = append(c.Events, ev)
	return &ev, nil
}

func (c *MockClient) ListEvents(ctx context.Context, token string, date time.Time) ([]domain.CalendarEvent, error) {
	c.ListCalls = append(c.ListCalls, date)
	if c.ListError != nil {
		return nil, c.ListError
	}
	var events []domain.CalendarEvent
	for _, ev := range c.Events {
		if domain.SameDate(ev.Start, date) {
			events = append(events, ev)
		}
	}
	return events, nil
}

func (c *MockClient) DeleteEvent(ctx context.Context, token string, eventID string) error {
	c.DeleteCalls = append(c.DeleteCalls, eventID)
	if c.DeleteError != nil {
		return c.DeleteError
	}
	for i, ev := range c.Events {
		if ev.ID == eventID {
			c.Events = append(c.Events[:i], c.Events[i+1:]...)
			break
		}
	}
	return nil
}
