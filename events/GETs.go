package events

import (
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gatherly/db"
	"gatherly/logger"
	"gatherly/models"
	"gatherly/rdx"
	"gatherly/utils"
)

const slugCacheTTL = 10 * time.Minute

func GetEvents(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	skip, limit := utils.ParsePagination(r, 10, 100)

	coll, err := db.Events(ctx)
	if err != nil {
		utils.RespondWithError(w, utils.StoreErrorStatus(err), utils.ErrMsg("Store unavailable", err))
		return
	}

	filter := bson.M{"status": "active"}
	totalCount, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		logger.Sugar.Errorw("event count failed", "err", err)
		utils.RespondWithError(w, utils.StoreErrorStatus(err), utils.ErrMsg("Failed to fetch events", err))
		return
	}

	opts := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "created_at", Value: -1}})
	events, err := utils.FindAndDecode[models.Event](ctx, coll, filter, opts)
	if err != nil {
		utils.RespondWithError(w, utils.StoreErrorStatus(err), utils.ErrMsg("Failed to fetch events", err))
		return
	}
	if events == nil {
		events = []models.Event{}
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"events":     events,
		"eventCount": totalCount,
		"page":       skip/limit + 1,
		"limit":      limit,
	})
}

// GetEventBySlug serves one event; the slug is matched case-insensitively
// by lowercasing before lookup, the same canonical form slugs are stored in.
func GetEventBySlug(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	slug := strings.ToLower(strings.TrimSpace(ps.ByName("slug")))
	if slug == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing event slug")
		return
	}

	ctx := r.Context()

	var cached models.Event
	if ok := rdx.CacheGetJSON(ctx, rdx.EventSlugKey(slug), &cached); ok {
		utils.RespondWithJSON(w, http.StatusOK, cached)
		return
	}

	coll, err := db.Events(ctx)
	if err != nil {
		utils.RespondWithError(w, utils.StoreErrorStatus(err), utils.ErrMsg("Store unavailable", err))
		return
	}

	var event models.Event
	if err := coll.FindOne(ctx, bson.M{"slug": slug}).Decode(&event); err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, http.StatusNotFound, "Event not found")
			return
		}
		logger.Sugar.Errorw("event lookup failed", "slug", slug, "err", err)
		utils.RespondWithError(w, utils.StoreErrorStatus(err), utils.ErrMsg("Failed to fetch event", err))
		return
	}

	rdx.CacheSetJSON(ctx, rdx.EventSlugKey(slug), event, slugCacheTTL)
	utils.RespondWithJSON(w, http.StatusOK, event)
}
