package mq

import (
	"context"
	"encoding/json"

	"gatherly/globals"
	"gatherly/logger"
	"gatherly/rdx"
)

const channel = "domain-events"

// Index describes a domain change for downstream consumers.
type Index struct {
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityId   string `json:"entity_id"`
	Slug       string `json:"slug,omitempty"`
	PrevSlug   string `json:"prev_slug,omitempty"`
}

type domainEvent struct {
	Event string `json:"event"`
	Index
}

// Emit publishes a domain event to Redis. Fire-and-forget: a missing
// broker only costs the side effects, never the write itself.
func Emit(eventName string, content Index) {
	if rdx.Conn == nil {
		return
	}
	data, err := json.Marshal(domainEvent{Event: eventName, Index: content})
	if err != nil {
		logger.Sugar.Errorw("emit marshal failed", "event", eventName, "err", err)
		return
	}
	if err := rdx.Conn.Publish(globals.Ctx, channel, data).Err(); err != nil {
		logger.Sugar.Warnw("emit publish failed", "event", eventName, "err", err)
		return
	}
	logger.Sugar.Debugw("emitted", "event", eventName, "entity", content.EntityId)
}

// invalidationKeys lists the cache entries a domain event makes stale.
// Event mutations poison the by-slug cache; under a title change both the
// old and the new slug entry go.
func invalidationKeys(ev domainEvent) []string {
	if ev.EntityType != "event" {
		return nil
	}
	var keys []string
	if ev.Slug != "" {
		keys = append(keys, rdx.EventSlugKey(ev.Slug))
	}
	if ev.PrevSlug != "" && ev.PrevSlug != ev.Slug {
		keys = append(keys, rdx.EventSlugKey(ev.PrevSlug))
	}
	return keys
}

// StartWorker consumes domain events and drops stale by-slug cache
// entries, so every process sharing the Redis cache converges even when
// the write happened elsewhere.
func StartWorker(ctx context.Context) {
	if rdx.Conn == nil {
		logger.Sugar.Warn("mq worker disabled, no redis connection")
		return
	}
	sub := rdx.Conn.Subscribe(ctx, channel)
	ch := sub.Channel()

	logger.Sugar.Info("mq worker listening for domain events")
	for {
		select {
		case <-ctx.Done():
			_ = sub.Close()
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event domainEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				logger.Sugar.Warnw("mq worker bad payload", "err", err)
				continue
			}
			if keys := invalidationKeys(event); len(keys) > 0 {
				rdx.CacheDel(ctx, keys...)
			}
			logger.Sugar.Infow("domain event", "event", event.Event,
				"entity_type", event.EntityType, "entity_id", event.EntityId)
		}
	}
}
