package notes

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidNoteID indicates that a note identifier is not a valid UUID.
var ErrInvalidNoteID = errors.New("notes: invalid note id")

// NoteID represents a validated note identifier.
type NoteID struct {
	value uuid.UUID
}

// NewNoteID parses raw input and returns a NoteID. Any string rejected by
// uuid.Parse fails here, before the backend is ever touched.
func NewNoteID(rawInput string) (NoteID, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(rawInput))
	if err != nil {
		return NoteID{}, fmt.Errorf("%w: %v", ErrInvalidNoteID, err)
	}
	return NoteID{value: parsed}, nil
}

// String returns the canonical string form of the identifier.
func (id NoteID) String() string {
	return id.value.String()
}

// Note models the persisted note row. Both timestamps are owned by the
// service clock; GORM's automatic timestamp tracking is disabled so that
// created_at stays immutable and updated_at only moves on update operations.
type Note struct {
	ID        string    `gorm:"column:id;primaryKey;size:36;not null"`
	Title     string    `gorm:"column:title;type:text;not null"`
	Content   string    `gorm:"column:content;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime:false;autoUpdateTime:false;index:idx_notes_created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;autoCreateTime:false;autoUpdateTime:false"`
}

// TableName provides the explicit table binding for GORM.
func (Note) TableName() string {
	return "notes"
}
