package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Royal-Horizons-Bank/nuvix-server/internal/domain"
	"github.com/Royal-Horizons-Bank/nuvix-server/internal/repository"
	"github.com/Royal-Horizons-Bank/nuvix-server/internal/service"
	"github.com/Royal-Horizons-Bank/nuvix-server/pkg/log"
	"github.com/Royal-Horizons-Bank/nuvix-server/pkg/response"
)

const (
	defaultSearchLimit  = 20
	maxSearchLimit      = 50
	defaultHistoryLimit = 50
)

// HTTPHandler serves the profile, friendship, and message-history API.
type HTTPHandler struct {
	social  service.SocialService
	history service.HistoryService
}

func NewHTTPHandler(social service.SocialService, history service.HistoryService) *HTTPHandler {
	return &HTTPHandler{
		social:  social,
		history: history,
	}
}

func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		profiles := api.Group("/profiles")
		{
			profiles.PUT("/:key", h.UpsertProfile)
			profiles.GET("/search", h.SearchProfiles)
		}

		friends := api.Group("/friends")
		{
			friends.POST("/requests", h.RequestFriend)
			friends.PUT("/requests/accept", h.AcceptFriend)
			friends.DELETE("", h.RemoveFriend)
			friends.GET("/:key", h.ListFriends)
		}

		api.GET("/messages", h.GetConversation)
	}
}

type profileRequest struct {
	Name        string `json:"name" binding:"required"`
	Avatar      string `json:"avatar"`
	AvatarColor string `json:"avatarColor"`
}

func (h *HTTPHandler) UpsertProfile(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	key := c.Param("key")

	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	profile := &domain.Profile{
		Key:         key,
		Name:        req.Name,
		Avatar:      req.Avatar,
		AvatarColor: req.AvatarColor,
	}
	if err := h.social.UpsertProfile(ctx, profile); err != nil {
		l.Error().Err(err).Str(log.FieldUserKey, key).Msg("profile upsert failed")
		response.InternalError(c, "failed to save profile")
		return
	}

	response.Success(c, profile)
}

func (h *HTTPHandler) SearchProfiles(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	q := c.Query("q")
	if q == "" {
		response.BadRequest(c, "q is required")
		return
	}
	exclude := c.Query("exclude")

	limit := defaultSearchLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			response.BadRequest(c, "limit must be a positive integer")
			return
		}
		limit = parsed
		if limit > maxSearchLimit {
			limit = maxSearchLimit
		}
	}

	profiles, err := h.social.SearchProfiles(ctx, q, exclude, limit)
	if err != nil {
		l.Error().Err(err).Msg("profile search failed")
		response.InternalError(c, "failed to search profiles")
		return
	}

	response.Success(c, profiles)
}

type friendPairRequest struct {
	Requester string `json:"requester" binding:"required"`
	Recipient string `json:"recipient" binding:"required"`
}

func (h *HTTPHandler) RequestFriend(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req friendPairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if req.Requester == req.Recipient {
		response.BadRequest(c, "cannot befriend yourself")
		return
	}

	friendship, err := h.social.RequestFriend(ctx, req.Requester, req.Recipient)
	if err != nil {
		if errors.Is(err, repository.ErrFriendshipExists) {
			response.Conflict(c, "friendship already exists")
			return
		}
		l.Error().Err(err).Msg("friend request failed")
		response.InternalError(c, "failed to create friend request")
		return
	}

	response.Created(c, friendship)
}

func (h *HTTPHandler) AcceptFriend(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req friendPairRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.social.AcceptFriend(ctx, req.Requester, req.Recipient); err != nil {
		if errors.Is(err, repository.ErrFriendshipNotFound) {
			response.NotFound(c, "no pending request for this pair")
			return
		}
		l.Error().Err(err).Msg("friend accept failed")
		response.InternalError(c, "failed to accept friend request")
		return
	}

	response.Success(c, gin.H{"status": domain.FriendStatusAccepted})
}

func (h *HTTPHandler) RemoveFriend(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	userA := c.Query("user_a")
	userB := c.Query("user_b")
	if userA == "" || userB == "" {
		response.BadRequest(c, "user_a and user_b are required")
		return
	}

	if err := h.social.RemoveFriend(ctx, userA, userB); err != nil {
		if errors.Is(err, repository.ErrFriendshipNotFound) {
			response.NotFound(c, "friendship not found")
			return
		}
		l.Error().Err(err).Msg("friend removal failed")
		response.InternalError(c, "failed to remove friendship")
		return
	}

	response.Success(c, gin.H{"deleted": true})
}

func (h *HTTPHandler) ListFriends(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	key := c.Param("key")

	friendships, err := h.social.ListFriends(ctx, key)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserKey, key).Msg("friend list failed")
		response.InternalError(c, "failed to list friendships")
		return
	}

	response.Success(c, friendships)
}

func (h *HTTPHandler) GetConversation(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	userA := c.Query("user_a")
	userB := c.Query("user_b")
	if userA == "" || userB == "" {
		response.BadRequest(c, "user_a and user_b are required")
		return
	}

	limit := defaultHistoryLimit
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			response.BadRequest(c, "limit must be a positive integer")
			return
		}
		limit = parsed
		if limit > service.MaxConversationLimit {
			limit = service.MaxConversationLimit
		}
	}

	messages, err := h.history.Conversation(ctx, userA, userB, limit)
	if err != nil {
		l.Error().Err(err).Msg("conversation fetch failed")
		response.InternalError(c, "failed to get conversation")
		return
	}

	response.Success(c, messages)
}
