package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/YF-George/rosterd/internal/app"
	"github.com/YF-George/rosterd/internal/domain"
)

type authRequest struct {
	GameID string `json:"gameId"`
	UID    string `json:"uid"`
}

// HandleAuth logs a participant in. A uid marks an admin login
// attempt and is checked against the whitelist; without one the
// caller is a regular participant.
func (h *Handlers) HandleAuth(c *gin.Context) {
	var req authRequest
	_ = c.ShouldBindJSON(&req)

	gameID := strings.TrimSpace(req.GameID)
	uid := strings.TrimSpace(req.UID)

	if gameID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "missing gameId"})
		return
	}

	isAdmin := false
	if uid != "" {
		if !h.whitelist.Verify(gameID, uid) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid admin credentials"})
			return
		}
		isAdmin = true
	}

	sess := sessions.Default(c)
	sess.Set("gameId", gameID)
	sess.Set("isAdmin", isAdmin)
	if err := sess.Save(); err != nil {
		log.Error().Str("module", "adapters.http").Err(err).Msg("session save")
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "isAdmin": isAdmin, "gameId": gameID})
}

// HandleCheckAdmin reports whitelist membership without verifying
// credentials. It never errors to the caller.
func (h *Handlers) HandleCheckAdmin(c *gin.Context) {
	var req struct {
		GameID string `json:"gameId"`
	}
	_ = c.ShouldBindJSON(&req)

	gameID := strings.TrimSpace(req.GameID)
	if gameID == "" {
		c.JSON(http.StatusOK, gin.H{"isAdmin": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"isAdmin": h.whitelist.IsAdmin(gameID)})
}

func (h *Handlers) ListEdits(c *gin.Context) {
	formID := c.Query("formId")
	if formID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing formId"})
		return
	}
	edits, err := h.roster.Edits(c.Request.Context(), domain.FormID(formID))
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"edits": edits})
}

type editRequest struct {
	FormID      string            `json:"formId"`
	DisplayName string            `json:"displayName"`
	Pseudonym   string            `json:"pseudonym"`
	Action      domain.EditAction `json:"action"`
}

func (h *Handlers) SubmitEdit(c *gin.Context) {
	if !h.limiter.Allow(c.ClientIP()) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
		return
	}

	var req editRequest
	_ = c.ShouldBindJSON(&req)

	id, err := h.roster.AppendEdit(c.Request.Context(), domain.FormID(req.FormID), req.DisplayName, req.Pseudonym, req.Action)
	if err != nil {
		h.rosterError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "id": id})
}

func (h *Handlers) ListGroups(c *gin.Context) {
	formID := c.Query("formId")
	if formID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing formId"})
		return
	}
	groups, err := h.roster.Groups(c.Request.Context(), domain.FormID(formID))
	if err != nil {
		h.serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

type groupRequest struct {
	FormID      string               `json:"formId"`
	DisplayName string               `json:"displayName"`
	Pseudonym   string               `json:"pseudonym"`
	Members     []domain.GroupMember `json:"members"`
}

func (h *Handlers) SubmitGroup(c *gin.Context) {
	var req groupRequest
	_ = c.ShouldBindJSON(&req)

	id, err := h.roster.AppendGroup(c.Request.Context(), domain.FormID(req.FormID), req.DisplayName, req.Pseudonym, req.Members)
	if err != nil {
		h.rosterError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "id": id})
}

// rosterError maps validation failures to 400 with the specific
// defect; anything else is a storage problem.
func (h *Handlers) rosterError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, app.ErrMissingFields),
		errors.Is(err, app.ErrInvalidFormID),
		errors.Is(err, app.ErrInvalidName),
		errors.Is(err, app.ErrInvalidAction),
		errors.Is(err, app.ErrContentTooLong),
		errors.Is(err, app.ErrInvalidMembers):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.serverError(c, err)
	}
}
