package events

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"gatherly/db"
	"gatherly/logger"
	"gatherly/models"
	"gatherly/mq"
	"gatherly/rdx"
	"gatherly/utils"
)

func UpdateEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("eventid")
	ctx := r.Context()

	coll, err := db.Events(ctx)
	if err != nil {
		utils.RespondWithError(w, utils.StoreErrorStatus(err), utils.ErrMsg("Store unavailable", err))
		return
	}

	var existing models.Event
	if err := coll.FindOne(ctx, bson.M{"eventid": eventID}).Decode(&existing); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Event not found")
			return
		}
		utils.RespondWithError(w, utils.StoreErrorStatus(err), utils.ErrMsg("Error fetching event", err))
		return
	}

	var event models.Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	// identity and provenance are not client-writable
	event.EventID = existing.EventID
	event.Slug = existing.Slug
	event.CreatorID = existing.CreatorID
	event.CreatedAt = existing.CreatedAt
	event.UpdatedAt = time.Now().UTC()
	if event.Status == "" {
		event.Status = existing.Status
	}

	// slug is re-derived only when the title changed
	if err := prepareEvent(ctx, &event, existing.Title); err != nil {
		if errors.Is(err, ErrBadInput) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, utils.StoreErrorStatus(err), utils.ErrMsg("Error saving event", err))
		return
	}

	if _, err := coll.ReplaceOne(ctx, bson.M{"eventid": eventID}, event); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithError(w, http.StatusConflict, "Slug already taken, retry")
			return
		}
		logger.Sugar.Errorw("event update failed", "eventid", eventID, "err", err)
		utils.RespondWithError(w, utils.StoreErrorStatus(err), utils.ErrMsg("Error saving event", err))
		return
	}

	rdx.CacheDel(ctx, rdx.EventSlugKey(existing.Slug))
	rdx.CacheDel(ctx, rdx.EventSlugKey(event.Slug))
	go mq.Emit("event-updated", mq.Index{
		EntityType: "event", EntityId: eventID, Method: "PUT",
		Slug: event.Slug, PrevSlug: existing.Slug,
	})

	utils.RespondWithJSON(w, http.StatusOK, event)
}

func DeleteEvent(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("eventid")
	ctx := r.Context()

	coll, err := db.Events(ctx)
	if err != nil {
		utils.RespondWithError(w, utils.StoreErrorStatus(err), utils.ErrMsg("Store unavailable", err))
		return
	}

	var existing models.Event
	if err := coll.FindOne(ctx, bson.M{"eventid": eventID}).Decode(&existing); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Event not found")
			return
		}
		utils.RespondWithError(w, utils.StoreErrorStatus(err), utils.ErrMsg("Error fetching event", err))
		return
	}

	if _, err := coll.DeleteOne(ctx, bson.M{"eventid": eventID}); err != nil {
		utils.RespondWithError(w, utils.StoreErrorStatus(err), utils.ErrMsg("Error deleting event", err))
		return
	}

	// orphaned bookings are useless once the event is gone
	if bookColl, err := db.Bookings(ctx); err == nil {
		if _, err := bookColl.DeleteMany(ctx, bson.M{"eventid": eventID}); err != nil {
			logger.Sugar.Warnw("booking cleanup failed", "eventid", eventID, "err", err)
		}
	}

	rdx.CacheDel(ctx, rdx.EventSlugKey(existing.Slug))
	go mq.Emit("event-deleted", mq.Index{
		EntityType: "event", EntityId: eventID, Method: "DELETE", Slug: existing.Slug,
	})

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}
