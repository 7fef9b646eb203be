package models

import "time"

type Booking struct {
	BookingID string    `json:"bookingid" bson:"bookingid"`
	EventID   string    `json:"eventid" bson:"eventid" validate:"required"`
	Name      string    `json:"name" bson:"name" validate:"required"`
	Email     string    `json:"email" bson:"email" validate:"required,email"`
	Seats     int       `json:"seats" bson:"seats" validate:"min=1,max=20"`
	Status    string    `json:"status" bson:"status"` // confirmed, cancelled
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
