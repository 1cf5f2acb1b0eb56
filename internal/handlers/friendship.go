package handlers

import (
	nethttp "net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"social-service/internal/metrics"
	"social-service/internal/models"
	"social-service/internal/services"
	"social-service/internal/telemetry"
)

type FriendshipHandler struct {
	friendships *services.FriendshipService
	auditor
	log *zap.Logger
}

func NewFriendshipHandler(friendships *services.FriendshipService, audit *telemetry.AuditEmitter, log *zap.Logger) *FriendshipHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &FriendshipHandler{friendships: friendships, auditor: auditor{audit: audit}, log: log}
}

func (h *FriendshipHandler) ListFriends(c *gin.Context) {
	friends, err := h.friendships.ListFriends(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(nethttp.StatusOK, normalizeSummaries(c, friends))
}

func (h *FriendshipHandler) SendRequest(c *gin.Context) {
	targetID, ok := parseIDParam(c, "userId")
	if !ok {
		metrics.IncFriendRequest(metrics.StatusFailed)
		return
	}

	f, err := h.friendships.SendRequest(c.Request.Context(), callerID(c), targetID)
	metrics.IncFriendRequest(metrics.StatusOf(err))
	if err != nil {
		h.emitAudit(c, telemetry.LevelError, "friendship.request", "Friend request to '"+strconv.FormatInt(targetID, 10)+"' failed")
		respondError(c, h.log, err)
		return
	}

	h.emitAudit(c, telemetry.LevelInfo, "friendship.request", "Friend request sent to '"+strconv.FormatInt(targetID, 10)+"'")
	c.JSON(nethttp.StatusOK, f)
}

func (h *FriendshipHandler) Accept(c *gin.Context) {
	friendshipID, ok := parseIDParam(c, "friendshipId")
	if !ok {
		metrics.IncFriendAccept(metrics.StatusFailed)
		return
	}

	f, err := h.friendships.Accept(c.Request.Context(), callerID(c), friendshipID)
	metrics.IncFriendAccept(metrics.StatusOf(err))
	if err != nil {
		h.emitAudit(c, telemetry.LevelError, "friendship.accept", "Accept of friendship "+strconv.FormatInt(friendshipID, 10)+" failed")
		respondError(c, h.log, err)
		return
	}

	h.emitAudit(c, telemetry.LevelInfo, "friendship.accept", "Friend request accepted")
	c.JSON(nethttp.StatusOK, f)
}

// ListIncoming returns pending requests addressed to the caller.
func (h *FriendshipHandler) ListIncoming(c *gin.Context) {
	reqs, err := h.friendships.ListIncoming(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	out := make([]models.IncomingRequest, 0, len(reqs))
	for _, r := range reqs {
		r.User.ProfilePicture = absoluteURL(c, r.User.ProfilePicture)
		out = append(out, r)
	}
	c.JSON(nethttp.StatusOK, out)
}

// ListOutgoing returns pending requests the caller sent.
func (h *FriendshipHandler) ListOutgoing(c *gin.Context) {
	reqs, err := h.friendships.ListOutgoing(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if reqs == nil {
		reqs = []models.OutgoingRequest{}
	}
	c.JSON(nethttp.StatusOK, reqs)
}

func (h *FriendshipHandler) Decline(c *gin.Context) {
	friendshipID, ok := parseIDParam(c, "friendshipId")
	if !ok {
		metrics.IncFriendDecline(metrics.StatusFailed)
		return
	}

	err := h.friendships.Decline(c.Request.Context(), callerID(c), friendshipID)
	metrics.IncFriendDecline(metrics.StatusOf(err))
	if err != nil {
		h.emitAudit(c, telemetry.LevelError, "friendship.decline", "Decline of friendship "+strconv.FormatInt(friendshipID, 10)+" failed")
		respondError(c, h.log, err)
		return
	}

	h.emitAudit(c, telemetry.LevelInfo, "friendship.decline", "Friendship removed")
	c.JSON(nethttp.StatusOK, gin.H{"success": true})
}
