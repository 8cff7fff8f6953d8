package models

import "time"

// DigestArchive is the stored copy of a delivered daily digest.
type DigestArchive struct {
	Date      string    `bson:"date" json:"date"`
	ChatID    int64     `bson:"chat_id" json:"chat_id"`
	Body      string    `bson:"body" json:"body"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
