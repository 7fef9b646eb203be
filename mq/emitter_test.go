package mq

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInvalidationKeys(t *testing.T) {
	tests := []struct {
		name string
		ev   domainEvent
		want []string
	}{
		{
			name: "event update drops the slug entry",
			ev: domainEvent{Event: "event-updated", Index: Index{
				EntityType: "event", EntityId: "ev-1", Slug: "go-conf",
			}},
			want: []string{"event:slug:go-conf"},
		},
		{
			name: "title change drops old and new slug entries",
			ev: domainEvent{Event: "event-updated", Index: Index{
				EntityType: "event", EntityId: "ev-1", Slug: "go-conf-2025", PrevSlug: "go-conf",
			}},
			want: []string{"event:slug:go-conf-2025", "event:slug:go-conf"},
		},
		{
			name: "delete with unchanged slug is a single key",
			ev: domainEvent{Event: "event-deleted", Index: Index{
				EntityType: "event", EntityId: "ev-1", Slug: "go-conf", PrevSlug: "go-conf",
			}},
			want: []string{"event:slug:go-conf"},
		},
		{
			name: "bookings are not cached by slug",
			ev: domainEvent{Event: "booking-created", Index: Index{
				EntityType: "booking", EntityId: "b-1",
			}},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, invalidationKeys(tt.ev))
		})
	}
}
