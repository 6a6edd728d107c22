package models

import (
	"time"

	"github.com/google/uuid"
)

// Base carries the fields every record shares across storage backends.
type Base struct {
	ID      string    `gorm:"column:id;primaryKey" bson:"_id" json:"id"`
	Created time.Time `gorm:"column:created" bson:"created" json:"created"`
	Updated time.Time `gorm:"column:updated" bson:"updated" json:"updated"`
}

// PrepareCreate assigns an id when missing and stamps both timestamps.
func (b *Base) PrepareCreate(now time.Time) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Created.IsZero() {
		b.Created = now
	}
	b.Updated = now
}

func (b Base) RecordID() string {
	return b.ID
}
