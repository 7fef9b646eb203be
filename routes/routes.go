package routes

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"gatherly/booking"
	"gatherly/events"
	"gatherly/ratelim"
	"gatherly/tickets"
)

func AddEventsRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/events", events.GetEvents)
	router.GET("/api/events/:slug", events.GetEventBySlug)
	router.POST("/api/events", rl.Limit(events.CreateEvent))
	router.PUT("/api/events/id/:eventid", rl.Limit(events.UpdateEvent))
	router.DELETE("/api/events/id/:eventid", rl.Limit(events.DeleteEvent))
}

func AddBookingRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/bookings", rl.Limit(booking.CreateBooking))
	router.GET("/api/bookings/event/:eventid", booking.GetBookingsByEvent)
	router.DELETE("/api/bookings/:bookingid", rl.Limit(booking.CancelBooking))
	router.GET("/ws/bookings/:eventid", booking.HandleWS)
}

func AddTicketRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/tickets/:bookingid/pdf", rl.Limit(tickets.PrintTicket))
}

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/eventpic/*filepath", http.Dir("static/eventpic"))
}
