package models

import "time"

type Event struct {
	EventID     string       `json:"eventid" bson:"eventid"`
	Slug        string       `json:"slug" bson:"slug"`
	Title       string       `json:"title" bson:"title" validate:"required,min=3,max=200"`
	Description string       `json:"description" bson:"description" validate:"required"`
	Date        string       `json:"date" bson:"date" validate:"required"`
	Time        string       `json:"time" bson:"time"`
	Venue       string       `json:"venue" bson:"venue"`
	Tags        []string     `json:"tags" bson:"tags"`
	Agenda      []AgendaItem `json:"agenda" bson:"agenda"`
	Banner      string       `json:"banner,omitempty" bson:"banner,omitempty"`
	CreatorID   string       `json:"creatorid" bson:"creatorid"`
	Status      string       `json:"status" bson:"status"`
	CreatedAt   time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" bson:"updated_at"`
}

type AgendaItem struct {
	Time    string `json:"time" bson:"time"`
	Topic   string `json:"topic" bson:"topic"`
	Speaker string `json:"speaker,omitempty" bson:"speaker,omitempty"`
}
