package events

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"

	"gatherly/models"
)

func validEvent() models.Event {
	return models.Event{
		EventID:     "ev-1",
		Slug:        "react-summit-2024",
		Title:       "React Summit 2024",
		Description: "A summit about React",
		Date:        "June 14, 2024",
		Time:        "9:00 AM",
	}
}

// Re-saving with an unchanged title must not touch the slug or hit the
// store at all.
func TestPrepareEventUnchangedTitleKeepsSlug(t *testing.T) {
	event := validEvent()
	err := prepareEvent(context.Background(), &event, event.Title)
	require.NoError(t, err)
	require.Equal(t, "react-summit-2024", event.Slug)
	require.Equal(t, "2024-06-14", event.Date)
	require.Equal(t, "09:00", event.Time)
}

func TestPrepareEventRejectsMissingFields(t *testing.T) {
	event := validEvent()
	event.Title = ""
	err := prepareEvent(context.Background(), &event, "")
	require.ErrorIs(t, err, ErrBadInput)
}

func TestPrepareEventRejectsSymbolsOnlyTitle(t *testing.T) {
	event := validEvent()
	event.Title = "!!!"
	event.Slug = ""
	err := prepareEvent(context.Background(), &event, "")
	require.ErrorIs(t, err, ErrBadInput)
}

func TestPrepareEventRejectsBadDate(t *testing.T) {
	event := validEvent()
	event.Date = "someday soon"
	err := prepareEvent(context.Background(), &event, event.Title)
	require.ErrorIs(t, err, ErrBadInput)
}

func TestPrepareEventPassesThroughOddTime(t *testing.T) {
	event := validEvent()
	event.Time = "doors open late"
	err := prepareEvent(context.Background(), &event, event.Title)
	require.NoError(t, err)
	require.Equal(t, "doors open late", event.Time)
}

func TestGetEventBySlugEmptySlug(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/events/x", nil)

	GetEventBySlug(w, r, httprouter.Params{{Key: "slug", Value: "   "}})
	require.Equal(t, 400, w.Code)
}

func TestGetEventBySlugStoreUnavailable(t *testing.T) {
	// no db.Init in tests, so the provider is absent: connectivity failure
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/events/react-summit-2024", nil)

	GetEventBySlug(w, r, httprouter.Params{{Key: "slug", Value: "React-Summit-2024"}})
	require.Equal(t, 503, w.Code)
}
