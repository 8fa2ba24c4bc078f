package notes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type staticIDGenerator struct {
	ids   []string
	index int
}

func (g *staticIDGenerator) NewID() (string, error) {
	if g.index >= len(g.ids) {
		return "", errors.New("exhausted ids")
	}
	id := g.ids[g.index]
	g.index++
	return id, nil
}

type manualClock struct {
	current time.Time
}

func (c *manualClock) Now() time.Time {
	return c.current
}

func (c *manualClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func newTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Note{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func newTestService(t *testing.T, ids []string, clock *manualClock) (*Service, *gorm.DB) {
	t.Helper()

	db := newTestDatabase(t)

	service, err := NewService(ServiceConfig{
		Database:   db,
		Clock:      clock.Now,
		IDProvider: &staticIDGenerator{ids: ids},
		Logger:     zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("failed to build service: %v", err)
	}
	return service, db
}

func mustNoteID(t *testing.T, value string) NoteID {
	t.Helper()
	id, err := NewNoteID(value)
	if err != nil {
		t.Fatalf("unexpected note id error: %v", err)
	}
	return id
}

func mustCreateNote(t *testing.T, service *Service, title, content string) Note {
	t.Helper()
	note, err := service.CreateNote(context.Background(), CreateNoteRequest{Title: title, Content: content})
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}
	return note
}

func stringPtr(value string) *string {
	return &value
}
