package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"notekeep/internal/domain"
	"notekeep/internal/service"
)

// NotesHandler mantiene dependencias para endpoints de notas.
type NotesHandler struct {
	logger    *zap.Logger
	notesServ *service.NotesService
}

func NewNotesHandler(logger *zap.Logger, notesServ *service.NotesService) *NotesHandler {
	return &NotesHandler{
		logger:    logger,
		notesServ: notesServ,
	}
}

// List maneja GET /api/notes.
func (h *NotesHandler) List(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	notes, err := h.notesServ.List(c.Request.Context(), claims.UserID)
	if err != nil {
		h.logger.Error("list notes failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}
	if notes == nil {
		notes = []domain.Note{}
	}
	c.JSON(http.StatusOK, notes)
}

// Create maneja POST /api/notes.
func (h *NotesHandler) Create(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req struct {
		Title    string   `json:"title"`
		Content  string   `json:"content"`
		Keywords []string `json:"keywords"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
		return
	}

	note, err := h.notesServ.Create(c.Request.Context(), claims.UserID, req.Title, req.Content, req.Keywords)
	if err != nil {
		if errors.Is(err, service.ErrMissingFields) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Title and content are required!"})
			return
		}
		h.logger.Error("create note failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
		return
	}

	c.JSON(http.StatusCreated, note)
}

// Update maneja PUT /api/notes/:id.
func (h *NotesHandler) Update(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req struct {
		Title    string   `json:"title"`
		Content  string   `json:"content"`
		Keywords []string `json:"keywords"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request"})
		return
	}

	note, err := h.notesServ.Update(c.Request.Context(), claims.UserID, c.Param("id"), req.Title, req.Content, req.Keywords)
	if err != nil {
		h.respondNoteError(c, err, "update note failed")
		return
	}

	c.JSON(http.StatusOK, note)
}

// TogglePin maneja PATCH /api/notes/:id/pin.
func (h *NotesHandler) TogglePin(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	note, err := h.notesServ.TogglePin(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		h.respondNoteError(c, err, "pin note failed")
		return
	}

	c.JSON(http.StatusOK, note)
}

// ToggleArchive maneja PATCH /api/notes/:id/archive.
func (h *NotesHandler) ToggleArchive(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	note, err := h.notesServ.ToggleArchive(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		h.respondNoteError(c, err, "archive note failed")
		return
	}

	c.JSON(http.StatusOK, note)
}

// Delete maneja DELETE /api/notes/:id.
func (h *NotesHandler) Delete(c *gin.Context) {
	claims, ok := GetAuthClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	if err := h.notesServ.Delete(c.Request.Context(), claims.UserID, c.Param("id")); err != nil {
		h.respondNoteError(c, err, "delete note failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Note removed"})
}

func (h *NotesHandler) respondNoteError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, service.ErrNoteNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Note not found"})
	case errors.Is(err, service.ErrMissingFields):
		c.JSON(http.StatusBadRequest, gin.H{"message": "Title and content are required!"})
	default:
		h.logger.Error(logMsg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server Error"})
	}
}
