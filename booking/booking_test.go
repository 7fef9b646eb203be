package booking

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateBookingInvalidJSON(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/bookings", strings.NewReader("{nope"))

	CreateBooking(w, r, nil)
	require.Equal(t, 400, w.Code)
}

func TestCreateBookingMissingFields(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/bookings", strings.NewReader(`{"eventid":"ev-1"}`))

	CreateBooking(w, r, nil)
	require.Equal(t, 400, w.Code)
}

func TestCreateBookingBadEmail(t *testing.T) {
	body := `{"eventid":"ev-1","name":"Ada","email":"not-an-email","seats":2}`
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/bookings", strings.NewReader(body))

	CreateBooking(w, r, nil)
	require.Equal(t, 400, w.Code)
}

func TestCreateBookingStoreUnavailable(t *testing.T) {
	// valid input but no store provider initialized in tests
	body := `{"eventid":"ev-1","name":"Ada","email":"ada@example.com","seats":2}`
	w := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/bookings", strings.NewReader(body))

	CreateBooking(w, r, nil)
	require.Equal(t, 503, w.Code)
}
