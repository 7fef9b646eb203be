package booking

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gatherly/db"
	"gatherly/logger"
	"gatherly/models"
	"gatherly/mq"
	"gatherly/utils"
)

var validate = validator.New()

func genID() string {
	return utils.GenerateRandomDigitString(22)
}

// CreateBooking writes a booking only after confirming its event exists.
// The existence check and the insert are not transactional; a deleted
// event races at worst into a booking the delete-cascade sweeps up.
func CreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var booking models.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if booking.Seats == 0 {
		booking.Seats = 1
	}
	if err := validate.Struct(booking); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	events, err := db.Events(ctx)
	if err != nil {
		utils.RespondWithError(w, utils.StoreErrorStatus(err), utils.ErrMsg("Store unavailable", err))
		return
	}

	// pre-write referential check: the event must exist right now
	err = events.FindOne(ctx, bson.M{"eventid": booking.EventID}).Err()
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Event does not exist")
		return
	}
	if err != nil {
		utils.RespondWithError(w, utils.StoreErrorStatus(err), utils.ErrMsg("Error checking event", err))
		return
	}

	booking.BookingID = genID()
	booking.Status = "confirmed"
	booking.CreatedAt = time.Now().UTC()

	bookings, err := db.Bookings(ctx)
	if err != nil {
		utils.RespondWithError(w, utils.StoreErrorStatus(err), utils.ErrMsg("Store unavailable", err))
		return
	}
	if _, err := bookings.InsertOne(ctx, booking); err != nil {
		logger.Sugar.Errorw("booking insert failed", "eventid", booking.EventID, "err", err)
		utils.RespondWithError(w, utils.StoreErrorStatus(err), utils.ErrMsg("Error saving booking", err))
		return
	}

	Broadcast(booking.EventID, utils.M{
		"action":  "booked",
		"booking": booking,
	})
	go mq.Emit("booking-created", mq.Index{
		EntityType: "booking", EntityId: booking.BookingID, Method: "POST",
	})

	utils.RespondWithJSON(w, http.StatusCreated, booking)
}

func GetBookingsByEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("eventid")
	ctx := r.Context()

	coll, err := db.Bookings(ctx)
	if err != nil {
		utils.RespondWithError(w, utils.StoreErrorStatus(err), utils.ErrMsg("Store unavailable", err))
		return
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	bookings, err := utils.FindAndDecode[models.Booking](ctx, coll, bson.M{"eventid": eventID}, opts)
	if err != nil {
		utils.RespondWithError(w, utils.StoreErrorStatus(err), utils.ErrMsg("Failed to fetch bookings", err))
		return
	}
	if bookings == nil {
		bookings = []models.Booking{}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"bookings": bookings})
}

func CancelBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookingID := ps.ByName("bookingid")
	ctx := r.Context()

	coll, err := db.Bookings(ctx)
	if err != nil {
		utils.RespondWithError(w, utils.StoreErrorStatus(err), utils.ErrMsg("Store unavailable", err))
		return
	}

	var booking models.Booking
	err = coll.FindOneAndUpdate(ctx,
		bson.M{"bookingid": bookingID, "status": "confirmed"},
		bson.M{"$set": bson.M{"status": "cancelled"}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusNotFound, "Booking not found")
		return
	}
	if err != nil {
		utils.RespondWithError(w, utils.StoreErrorStatus(err), utils.ErrMsg("Error cancelling booking", err))
		return
	}

	Broadcast(booking.EventID, utils.M{
		"action":  "cancelled",
		"booking": booking,
	})
	go mq.Emit("booking-cancelled", mq.Index{
		EntityType: "booking", EntityId: bookingID, Method: "DELETE",
	})

	utils.RespondWithJSON(w, http.StatusOK, booking)
}
