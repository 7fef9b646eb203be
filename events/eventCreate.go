package events

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo"

	"gatherly/db"
	"gatherly/logger"
	"gatherly/models"
	"gatherly/mq"
	"gatherly/utils"
)

func CreateEvent(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Unable to parse form")
		return
	}

	if r.FormValue("event") == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing event data")
		return
	}

	var event models.Event
	if err := json.Unmarshal([]byte(r.FormValue("event")), &event); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	event.EventID = utils.GenerateID(14)
	event.Slug = ""
	event.Status = "active"
	event.CreatedAt = time.Now().UTC()
	event.UpdatedAt = event.CreatedAt
	if event.Tags == nil {
		event.Tags = []string{}
	}
	if event.Agenda == nil {
		event.Agenda = []models.AgendaItem{}
	}

	ctx := r.Context()
	if err := prepareEvent(ctx, &event, ""); err != nil {
		if errors.Is(err, ErrBadInput) {
			utils.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		utils.RespondWithError(w, utils.StoreErrorStatus(err), utils.ErrMsg("Error saving event", err))
		return
	}

	banner, err := saveBanner(r, event.EventID)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	event.Banner = banner

	coll, err := db.Events(ctx)
	if err != nil {
		utils.RespondWithError(w, utils.StoreErrorStatus(err), utils.ErrMsg("Store unavailable", err))
		return
	}
	if _, err := coll.InsertOne(ctx, event); err != nil {
		// concurrent save of an identically titled event lost the race
		// against the unique slug index
		if mongo.IsDuplicateKeyError(err) {
			utils.RespondWithError(w, http.StatusConflict, "Slug already taken, retry")
			return
		}
		logger.Sugar.Errorw("event insert failed", "eventid", event.EventID, "err", err)
		utils.RespondWithError(w, utils.StoreErrorStatus(err), utils.ErrMsg("Error saving event", err))
		return
	}

	go mq.Emit("event-created", mq.Index{
		EntityType: "event", EntityId: event.EventID, Method: "POST", Slug: event.Slug,
	})

	logger.Sugar.Infow("event created", "eventid", event.EventID, "slug", event.Slug)
	utils.RespondWithJSON(w, http.StatusCreated, event)
}
