package tickets

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"gatherly/db"
	"gatherly/models"
	"gatherly/utils"
)

func hmacSecret() []byte {
	if s := os.Getenv("TICKET_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("dev-ticket-secret")
}

// SignPayload returns "bookingID|eventID|signature" so a scanned ticket can
// be verified without a database round trip.
func SignPayload(bookingID, eventID string) string {
	data := fmt.Sprintf("%s|%s", bookingID, eventID)
	h := hmac.New(sha256.New, hmacSecret())
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// VerifyPayload checks a scanned "bookingID|eventID|signature" string.
func VerifyPayload(payload string) bool {
	parts := strings.Split(payload, "|")
	if len(parts) != 3 {
		return false
	}
	bookingID, eventID, sig := parts[0], parts[1], parts[2]

	data := fmt.Sprintf("%s|%s", bookingID, eventID)
	h := hmac.New(sha256.New, hmacSecret())
	h.Write([]byte(data))
	want := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(want), []byte(sig))
}

// PrintTicket renders a booking confirmation PDF with a signed QR code.
func PrintTicket(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookingID := ps.ByName("bookingid")
	ctx := r.Context()

	bookings, err := db.Bookings(ctx)
	if err != nil {
		utils.RespondWithError(w, utils.StoreErrorStatus(err), utils.ErrMsg("Store unavailable", err))
		return
	}

	var booking models.Booking
	if err := bookings.FindOne(ctx, bson.M{"bookingid": bookingID}).Decode(&booking); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
			return
		}
		utils.RespondWithError(w, utils.StoreErrorStatus(err), utils.ErrMsg("Error fetching booking", err))
		return
	}

	events, err := db.Events(ctx)
	if err != nil {
		utils.RespondWithError(w, utils.StoreErrorStatus(err), utils.ErrMsg("Store unavailable", err))
		return
	}
	var event models.Event
	if err := events.FindOne(ctx, bson.M{"eventid": booking.EventID}).Decode(&event); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Event not found")
		return
	}

	qrPNG, err := qrcode.Encode(SignPayload(booking.BookingID, event.EventID), qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate QR code")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Booking Confirmation")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Event: %s", event.Title))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Date: %s %s", event.Date, event.Time))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Venue: %s", event.Venue))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Name: %s", booking.Name))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Seats: %d", booking.Seats))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Booking ID: %s", booking.BookingID))
	pdf.Ln(12)

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 20, 120, 60, 60, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=booking-%s.pdf", booking.BookingID))
	w.Write(buf.Bytes())
}
