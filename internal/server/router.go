package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/notepadhq/notepad/backend/internal/notes"
	"go.uber.org/zap"
)

const healthCheckMessage = "Note Pad API Services"

var errMissingNotesService = errors.New("notes service dependency required")

// Dependencies carries the collaborators required to build the HTTP handler.
type Dependencies struct {
	NotesService *notes.Service
	Logger       *zap.Logger
}

// NewHTTPHandler builds the gin router exposing the /api/v1 surface.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.NotesService == nil {
		return nil, errMissingNotesService
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	handler := &httpHandler{
		notesService: deps.NotesService,
		logger:       logger,
	}

	api := router.Group("/api/v1")
	api.GET("/healthcheck", handler.handleHealthCheck)
	api.GET("/notes", handler.handleListNotes)
	api.POST("/notes", handler.handleCreateNote)
	api.GET("/notes/:id", handler.handleGetNote)
	api.PUT("/notes/:id", handler.handleUpdateNote)
	api.DELETE("/notes/:id", handler.handleDeleteNote)

	return router, nil
}

func corsMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Content-Type"},
		MaxAge:       12 * time.Hour,
	})
}

type httpHandler struct {
	notesService *notes.Service
	logger       *zap.Logger
}

type notePayload struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toNotePayload(note notes.Note) notePayload {
	return notePayload{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

type createNotePayload struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type updateNotePayload struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

func (h *httpHandler) handleHealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": healthCheckMessage,
	})
}

func (h *httpHandler) handleListNotes(c *gin.Context) {
	limit := queryIntOrDefault(c, "limit", notes.DefaultListLimit)
	offset := queryIntOrDefault(c, "offset", 0)

	results, err := h.notesService.ListNotes(c.Request.Context(), limit, offset)
	if err != nil {
		h.respondInternalError(c, "list_failed", err)
		return
	}

	payload := make([]notePayload, 0, len(results))
	for _, note := range results {
		payload = append(payload, toNotePayload(note))
	}
	c.JSON(http.StatusOK, payload)
}

func (h *httpHandler) handleGetNote(c *gin.Context) {
	noteID, ok := h.parseNoteID(c)
	if !ok {
		return
	}

	note, err := h.notesService.GetNote(c.Request.Context(), noteID)
	if errors.Is(err, notes.ErrNoteNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "note_not_found"})
		return
	}
	if err != nil {
		h.respondInternalError(c, "get_failed", err)
		return
	}

	c.JSON(http.StatusOK, toNotePayload(note))
}

func (h *httpHandler) handleCreateNote(c *gin.Context) {
	var request createNotePayload
	if err := c.ShouldBindJSON(&request); err != nil || request.Title == nil || request.Content == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	note, err := h.notesService.CreateNote(c.Request.Context(), notes.CreateNoteRequest{
		Title:   *request.Title,
		Content: *request.Content,
	})
	if err != nil {
		h.respondInternalError(c, "create_failed", err)
		return
	}

	c.JSON(http.StatusOK, toNotePayload(note))
}

func (h *httpHandler) handleUpdateNote(c *gin.Context) {
	noteID, ok := h.parseNoteID(c)
	if !ok {
		return
	}

	var request updateNotePayload
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
		return
	}

	note, err := h.notesService.UpdateNote(c.Request.Context(), noteID, notes.UpdateNoteRequest{
		Title:   request.Title,
		Content: request.Content,
	})
	if errors.Is(err, notes.ErrNoteNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "note_not_found"})
		return
	}
	if err != nil {
		h.respondInternalError(c, "update_failed", err)
		return
	}

	c.JSON(http.StatusOK, toNotePayload(note))
}

func (h *httpHandler) handleDeleteNote(c *gin.Context) {
	noteID, ok := h.parseNoteID(c)
	if !ok {
		return
	}

	err := h.notesService.DeleteNote(c.Request.Context(), noteID)
	if errors.Is(err, notes.ErrNoteNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "note_not_found"})
		return
	}
	if err != nil {
		h.respondInternalError(c, "delete_failed", err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *httpHandler) parseNoteID(c *gin.Context) (notes.NoteID, bool) {
	noteID, err := notes.NewNoteID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_note_id"})
		return notes.NoteID{}, false
	}
	return noteID, true
}

func (h *httpHandler) respondInternalError(c *gin.Context, code string, err error) {
	h.logger.Error("request failed", zap.String("code", code), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   code,
		"message": err.Error(),
	})
}

// queryIntOrDefault mirrors the permissive query handling of the original
// service: absent or unparsable values silently fall back to the default.
func queryIntOrDefault(c *gin.Context, key string, fallback int) int {
	raw, present := c.GetQuery(key)
	if !present {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
