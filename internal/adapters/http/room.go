package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/YF-George/rosterd/internal/app"
	"github.com/YF-George/rosterd/internal/auth"
	"github.com/YF-George/rosterd/internal/domain"
)

// Handlers bundles the services behind the control endpoints.
type Handlers struct {
	admission *app.Admission
	roster    *app.Roster
	whitelist auth.Whitelist
	limiter   *SlidingWindow
}

type roomRequest struct {
	Action      string `json:"action"`
	Room        string `json:"room"`
	SessionID   string `json:"sessionId"`
	GameID      string `json:"gameId"`
	IsAdmin     bool   `json:"isAdmin"`
	RoleRequest string `json:"roleRequest"`
}

// HandleRoom is the single admission control endpoint: one POST body
// carrying the action, dispatched to register/ping/leave/housekeeping.
func (h *Handlers) HandleRoom(c *gin.Context) {
	var req roomRequest
	// A malformed body is treated like an empty one; the sessionId
	// check below produces the caller-facing error.
	_ = c.ShouldBindJSON(&req)

	if req.SessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing sessionId"})
		return
	}

	room := domain.NormalizeRoom(req.Room)
	sid := domain.SessionID(req.SessionID)
	ctx := c.Request.Context()

	switch req.Action {
	case "register":
		placement, err := h.admission.Register(ctx, room, sid, req.GameID, req.IsAdmin, req.RoleRequest)
		if err != nil {
			h.serverError(c, err)
			return
		}
		c.JSON(http.StatusOK, placementBody(placement))

	case "ping":
		placement, err := h.admission.Ping(ctx, room, sid)
		if err != nil {
			h.serverError(c, err)
			return
		}
		c.JSON(http.StatusOK, placementBody(placement))

	case "leave":
		if err := h.admission.Leave(ctx, room, sid); err != nil {
			h.serverError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})

	case "housekeeping":
		editors, queue, err := h.admission.Housekeeping(ctx, room)
		if err != nil {
			h.serverError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "editors": editors, "queue": queue})

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown action"})
	}
}

func placementBody(p domain.Placement) gin.H {
	switch p.Role {
	case domain.RoleObserver:
		return gin.H{"role": p.Role, "queuePos": p.QueuePos}
	default:
		return gin.H{"role": p.Role}
	}
}

// serverError hides internal detail from callers; it is logged here
// and nowhere else.
func (h *Handlers) serverError(c *gin.Context, err error) {
	log.Error().Str("module", "adapters.http").Err(err).Str("path", c.FullPath()).Msg("room api error")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
}
