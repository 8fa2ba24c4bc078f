package notes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultListLimit bounds list results when the caller supplies no usable limit.
const DefaultListLimit = 10

var (
	// ErrNoteNotFound indicates that no note row matched the requested identifier.
	ErrNoteNotFound = errors.New("notes: note not found")

	errMissingDatabase   = errors.New("database handle is required")
	errMissingIDProvider = errors.New("id provider is required")
	noOpLogger           = zap.NewNop()
)

// ServiceError carries a dotted operation code alongside the underlying cause.
type ServiceError struct {
	code string
	err  error
}

func (e *ServiceError) Error() string {
	if e.err == nil {
		return e.code
	}
	return fmt.Sprintf("%s: %v", e.code, e.err)
}

func (e *ServiceError) Unwrap() error {
	return e.err
}

func (e *ServiceError) Code() string {
	return e.code
}

const (
	opServiceNew = "notes.service.new"
	opListNotes  = "notes.list_notes"
	opGetNote    = "notes.get_note"
	opCreateNote = "notes.create_note"
	opUpdateNote = "notes.update_note"
	opDeleteNote = "notes.delete_note"
)

func newServiceError(operation, reason string, cause error) error {
	code := fmt.Sprintf("%s.%s", operation, reason)
	return &ServiceError{code: code, err: cause}
}

// IDProvider issues unique identifiers for newly created notes.
type IDProvider interface {
	NewID() (string, error)
}

// ServiceConfig describes the dependencies required by the notes service.
type ServiceConfig struct {
	Database   *gorm.DB
	Clock      func() time.Time
	IDProvider IDProvider
	Logger     *zap.Logger
}

// Service implements the note repository operations. Every operation acquires
// a pooled connection, issues its statement set, and releases the connection;
// no state is shared across requests beyond the pool itself.
type Service struct {
	db         *gorm.DB
	clock      func() time.Time
	idProvider IDProvider
	logger     *zap.Logger
}

// NewService validates dependencies and constructs the notes service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Database == nil {
		return nil, newServiceError(opServiceNew, "missing_database", errMissingDatabase)
	}
	if cfg.IDProvider == nil {
		return nil, newServiceError(opServiceNew, "missing_id_provider", errMissingIDProvider)
	}

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	logger := cfg.Logger
	if logger == nil {
		logger = noOpLogger
	}

	return &Service{
		db:         cfg.Database,
		clock:      clock,
		idProvider: cfg.IDProvider,
		logger:     logger,
	}, nil
}

// CreateNoteRequest carries the fields required to create a note. Empty
// strings are valid values.
type CreateNoteRequest struct {
	Title   string
	Content string
}

// UpdateNoteRequest carries the optional replacement fields for an update.
// A nil field leaves the corresponding column unchanged.
type UpdateNoteRequest struct {
	Title   *string
	Content *string
}

// ListNotes returns at most limit notes ordered by creation time, most recent
// first, skipping offset rows. Non-positive limits fall back to
// DefaultListLimit and negative offsets to zero.
func (s *Service) ListNotes(ctx context.Context, limit, offset int) ([]Note, error) {
	if s.db == nil {
		s.logError(opListNotes, "missing_database", errMissingDatabase)
		return nil, newServiceError(opListNotes, "missing_database", errMissingDatabase)
	}

	if limit <= 0 {
		limit = DefaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	var results []Note
	if err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&results).Error; err != nil {
		s.logError(opListNotes, "query_failed", err, zap.Int("limit", limit), zap.Int("offset", offset))
		return nil, newServiceError(opListNotes, "query_failed", err)
	}

	return results, nil
}

// GetNote returns the single note with the provided identifier.
func (s *Service) GetNote(ctx context.Context, noteID NoteID) (Note, error) {
	if s.db == nil {
		s.logError(opGetNote, "missing_database", errMissingDatabase)
		return Note{}, newServiceError(opGetNote, "missing_database", errMissingDatabase)
	}

	var note Note
	err := s.db.WithContext(ctx).Where("id = ?", noteID.String()).Take(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Note{}, newServiceError(opGetNote, "note_not_found", ErrNoteNotFound)
	}
	if err != nil {
		s.logError(opGetNote, "query_failed", err, zap.String("note_id", noteID.String()))
		return Note{}, newServiceError(opGetNote, "query_failed", err)
	}

	return note, nil
}

// CreateNote inserts a new note with a freshly issued identifier. Both
// timestamps are taken from the same clock reading, so created_at equals
// updated_at on the returned note.
func (s *Service) CreateNote(ctx context.Context, request CreateNoteRequest) (Note, error) {
	if s.db == nil {
		s.logError(opCreateNote, "missing_database", errMissingDatabase)
		return Note{}, newServiceError(opCreateNote, "missing_database", errMissingDatabase)
	}
	if s.idProvider == nil {
		s.logError(opCreateNote, "missing_id_provider", errMissingIDProvider)
		return Note{}, newServiceError(opCreateNote, "missing_id_provider", errMissingIDProvider)
	}

	noteID, err := s.idProvider.NewID()
	if err != nil {
		s.logError(opCreateNote, "id_generation_failed", err)
		return Note{}, newServiceError(opCreateNote, "id_generation_failed", err)
	}

	createdAt := s.clock().UTC()
	note := Note{
		ID:        noteID,
		Title:     request.Title,
		Content:   request.Content,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	if err := s.db.WithContext(ctx).Create(&note).Error; err != nil {
		s.logError(opCreateNote, "insert_failed", err, zap.String("note_id", noteID))
		return Note{}, newServiceError(opCreateNote, "insert_failed", err)
	}

	return note, nil
}

// UpdateNote replaces the present fields of the matching note and advances
// updated_at unconditionally, even when the payload carries no fields.
func (s *Service) UpdateNote(ctx context.Context, noteID NoteID, request UpdateNoteRequest) (Note, error) {
	if s.db == nil {
		s.logError(opUpdateNote, "missing_database", errMissingDatabase)
		return Note{}, newServiceError(opUpdateNote, "missing_database", errMissingDatabase)
	}

	assignments := map[string]any{"updated_at": s.clock().UTC()}
	if request.Title != nil {
		assignments["title"] = *request.Title
	}
	if request.Content != nil {
		assignments["content"] = *request.Content
	}

	result := s.db.WithContext(ctx).
		Model(&Note{}).
		Where("id = ?", noteID.String()).
		Updates(assignments)
	if result.Error != nil {
		s.logError(opUpdateNote, "update_failed", result.Error, zap.String("note_id", noteID.String()))
		return Note{}, newServiceError(opUpdateNote, "update_failed", result.Error)
	}
	if result.RowsAffected == 0 {
		return Note{}, newServiceError(opUpdateNote, "note_not_found", ErrNoteNotFound)
	}

	var updated Note
	if err := s.db.WithContext(ctx).Where("id = ?", noteID.String()).Take(&updated).Error; err != nil {
		s.logError(opUpdateNote, "reload_failed", err, zap.String("note_id", noteID.String()))
		return Note{}, newServiceError(opUpdateNote, "reload_failed", err)
	}

	return updated, nil
}

// DeleteNote removes the matching note permanently. Deleting an identifier
// that no longer exists reports not-found.
func (s *Service) DeleteNote(ctx context.Context, noteID NoteID) error {
	if s.db == nil {
		s.logError(opDeleteNote, "missing_database", errMissingDatabase)
		return newServiceError(opDeleteNote, "missing_database", errMissingDatabase)
	}

	result := s.db.WithContext(ctx).Where("id = ?", noteID.String()).Delete(&Note{})
	if result.Error != nil {
		s.logError(opDeleteNote, "delete_failed", result.Error, zap.String("note_id", noteID.String()))
		return newServiceError(opDeleteNote, "delete_failed", result.Error)
	}
	if result.RowsAffected == 0 {
		return newServiceError(opDeleteNote, "note_not_found", ErrNoteNotFound)
	}

	return nil
}

func (s *Service) loggerOrDefault() *zap.Logger {
	if s == nil || s.logger == nil {
		return noOpLogger
	}
	return s.logger
}

func (s *Service) logError(operation, reason string, err error, fields ...zap.Field) {
	attrs := []zap.Field{
		zap.String("operation", operation),
		zap.String("reason", reason),
	}
	if err != nil {
		attrs = append(attrs, zap.Error(err))
	}
	attrs = append(attrs, fields...)
	s.loggerOrDefault().Error("notes service error", attrs...)
}
