package routes

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"rentalapp/internal/models"
)

type NoteRoutes struct {
	server ServerInterface
}

func NewNoteRoutes(server ServerInterface) *NoteRoutes {
	return &NoteRoutes{server: server}
}

func (nr *NoteRoutes) RegisterRoutes(r *gin.Engine) {
	middleware := NewMiddleware(nr.server)

	r.GET("/notes/:id", middleware.TokenAuthMiddleware(), nr.getHandler)
	r.PATCH("/notes/:id/update", middleware.TokenAuthMiddleware(), nr.updateHandler)
}

func (nr *NoteRoutes) getHandler(c *gin.Context) {
	noteID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"invalid-note": fmt.Sprintf("Note with ID %s does not exist", c.Param("id")),
		})
		return
	}

	note, err := nr.server.GetDB().Notes.Get(noteID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"invalid-note": fmt.Sprintf("Note with ID %d does not exist", noteID),
		})
		return
	}

	c.JSON(http.StatusOK, notePayload(note))
}

// updateHandler edits a note's text in place, logging the previous text
// to the change log. Only the note's owner may edit it; notes are never
// deleted.
func (nr *NoteRoutes) updateHandler(c *gin.Context) {
	user := currentUser(c)
	noteID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"invalid-note": fmt.Sprintf("Note with ID %s does not exist", c.Param("id")),
		})
		return
	}

	db := nr.server.GetDB()

	note, err := db.Notes.Get(noteID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"invalid-note": fmt.Sprintf("Note with ID %d does not exist", noteID),
		})
		return
	}

	if note.UserID != user.ID {
		c.JSON(http.StatusBadRequest, gin.H{
			"failed-edit": "Can only edit notes assigned to you",
		})
		return
	}

	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Note == "" {
		c.JSON(http.StatusBadRequest, gin.H{"invalid-note": "This field may not be blank."})
		return
	}

	// The log rows attribute the note's owner prior to the edit, which
	// the ownership check above guarantees is also the acting user.
	previousOwner := note.User
	err = db.Transaction(func(tx *models.DB) error {
		return models.RecordAndApply(tx.DB, note,
			[]models.FieldUpdate{{Name: "note", Value: req.Note}}, &previousOwner)
	})
	if err != nil {
		nr.server.GetLogger().Error("note update failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update note"})
		return
	}

	c.JSON(http.StatusOK, notePayload(note))
}
