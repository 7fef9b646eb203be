package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"gatherly/db"
	"gatherly/models"
	"gatherly/slugify"
)

var validate = validator.New()

// ErrBadInput marks rejections the caller should treat as client errors.
var ErrBadInput = errors.New("invalid event data")

// slugOracle answers "who owns this slug" against the events collection.
func slugOracle() slugify.Oracle {
	return func(ctx context.Context, slug string) (string, bool, error) {
		coll, err := db.Events(ctx)
		if err != nil {
			return "", false, err
		}
		var existing struct {
			EventID string `bson:"eventid"`
		}
		err = coll.FindOne(ctx, bson.M{"slug": slug}).Decode(&existing)
		if err == mongo.ErrNoDocuments {
			return "", false, nil
		}
		if err != nil {
			return "", false, err
		}
		return existing.EventID, true, nil
	}
}

// prepareEvent is the first half of the two-phase save: it resolves the
// slug (only when the title is new or changed), then canonicalizes date and
// time. The caller commits the returned state with a write.
func prepareEvent(ctx context.Context, event *models.Event, prevTitle string) error {
	if err := validate.Struct(event); err != nil {
		return fmt.Errorf("%w: %v", ErrBadInput, err)
	}

	if event.Slug == "" || event.Title != prevTitle {
		// a symbols-only title would derive the empty slug, an address
		// the lookup endpoint can never serve
		if slugify.Slugify(event.Title) == "" {
			return fmt.Errorf("%w: title has no sluggable characters", ErrBadInput)
		}
		slug, err := slugify.Resolve(ctx, event.Title, event.EventID, slugOracle())
		if err != nil {
			return err
		}
		event.Slug = slug
	}

	date, err := normalizeDate(event.Date)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadInput, err)
	}
	event.Date = date
	event.Time = normalizeTime(event.Time)
	return nil
}
