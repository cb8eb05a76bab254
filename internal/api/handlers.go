// Package api implements the bootstrap HTTP surface: profile management,
// the template catalog, lobby listing/creation/join, and the websocket
// upgrade route that hands a connection off to the Dispatcher.
package api

import (
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/kazerdira/wolverix/backend/internal/catalog"
	"github.com/kazerdira/wolverix/backend/internal/channeltoken"
	"github.com/kazerdira/wolverix/backend/internal/game"
	"github.com/kazerdira/wolverix/backend/internal/models"
	"github.com/kazerdira/wolverix/backend/internal/profile"
	"github.com/kazerdira/wolverix/backend/internal/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler wires the room manager, profile store, channel-token minter, and
// websocket dispatcher to gin route handlers.
type Handler struct {
	manager    *game.Manager
	profiles   *profile.Store
	tokens     *channeltoken.Minter
	dispatcher *ws.Dispatcher
}

func NewHandler(manager *game.Manager, profiles *profile.Store, tokens *channeltoken.Minter, dispatcher *ws.Dispatcher) *Handler {
	return &Handler{manager: manager, profiles: profiles, tokens: tokens, dispatcher: dispatcher}
}

// CreateProfile handles POST /profiles.
func (h *Handler) CreateProfile(c *gin.Context) {
	var req models.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.profiles.Create(req.Name)
	if err != nil {
		log.Printf("❌ CreateProfile: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create profile"})
		return
	}
	c.JSON(http.StatusCreated, p)
}

// GetProfile handles GET /profiles/:profile_id.
func (h *Handler) GetProfile(c *gin.Context) {
	p, err := h.profiles.Read(c.Param("profile_id"))
	if err == profile.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read profile"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// UploadAvatar handles POST /profiles/:profile_id/avatar.
func (h *Handler) UploadAvatar(c *gin.Context) {
	profileID := c.Param("profile_id")
	p, err := h.profiles.Read(profileID)
	if err == profile.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read profile"})
		return
	}

	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing avatar file"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, int64(h.profiles.MaxAvatarBytes())+1))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read upload"})
		return
	}
	if !strings.HasPrefix(http.DetectContentType(data), "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "avatar must be an image"})
		return
	}

	url, err := h.profiles.SaveAvatar(profileID, filepath.Ext(header.Filename), data)
	if err == profile.ErrAvatarTooLarge {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "avatar exceeds maximum size"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save avatar"})
		return
	}

	p.AvatarURL = url
	if err := h.profiles.Write(p); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update profile"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// ListTemplates handles GET /game-templates.
func (h *Handler) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, catalog.ListTemplates())
}

// ListRooms handles GET /games.
func (h *Handler) ListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, h.manager.ListLobbyRooms())
}

// CreateRoom handles POST /games/create.
func (h *Handler) CreateRoom(c *gin.Context) {
	var req models.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	hostProfile, err := h.profiles.Read(req.HostProfileID)
	if err == profile.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "host profile not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read host profile"})
		return
	}

	roomID, hostID, err := h.manager.CreateRoom(req.HostProfileID, hostProfile.Name, req.GameConfig)
	if err != nil {
		log.Printf("❌ CreateRoom: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	log.Printf("✓ CreateRoom: %s hosted by %s", roomID, req.HostProfileID)
	c.JSON(http.StatusCreated, gin.H{"room_id": roomID, "player_id": hostID})
}

// JoinRoom handles POST /games/:room_id/join.
func (h *Handler) JoinRoom(c *gin.Context) {
	roomID := c.Param("room_id")
	room, ok := h.manager.GetRoom(roomID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}

	var req models.JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	joiningProfile, err := h.profiles.Read(req.ProfileID)
	if err == profile.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read profile"})
		return
	}

	playerID, err := room.Join(req.ProfileID, joiningProfile.Name)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"player_id": playerID})
}

// GetRoom handles GET /games/:room_id.
func (h *Handler) GetRoom(c *gin.Context) {
	room, ok := h.manager.GetRoom(c.Param("room_id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	c.JSON(http.StatusOK, room.PublicView())
}

// IssueChannelToken handles POST /games/:room_id/channel-token: mints the
// short-lived token a client presents on the websocket upgrade.
func (h *Handler) IssueChannelToken(c *gin.Context) {
	roomID := c.Param("room_id")
	if _, ok := h.manager.GetRoom(roomID); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	var req struct {
		PlayerID models.PlayerID `json:"player_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	token, err := h.tokens.Mint(roomID, req.PlayerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not mint token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// HandleWebSocket handles the channel upgrade route. A connection
// addresses itself either with the baseline :room_id/:player_id path
// params, or with a signed ?token= channel token; when a token is present
// its claims take precedence over any path params.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	roomID := c.Param("room_id")
	playerID := models.PlayerID(c.Param("player_id"))

	if tokenString := c.Query("token"); tokenString != "" {
		tokenRoomID, tokenPlayerID, err := h.tokens.Verify(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired channel token"})
			return
		}
		roomID, playerID = tokenRoomID, tokenPlayerID
	}

	if roomID == "" || playerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "room_id and player_id required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ HandleWebSocket: upgrade failed: %v", err)
		return
	}

	h.dispatcher.Connect(conn, roomID, playerID)
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
}
