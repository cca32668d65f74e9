package http

import (
	"context"
	"net/http"

	"github.com/dkeye/Jukebox/internal/adapters/signal"
	"github.com/dkeye/Jukebox/internal/app"
	"github.com/dkeye/Jukebox/internal/app/orch"
	"github.com/dkeye/Jukebox/internal/config"
	"github.com/dkeye/Jukebox/internal/domain"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	sessionName    = "JukeboxSessions"
	clientTokenKey = "client_token"
)

// ClientTokenMiddleware keeps a random client token in the cookie session
// and exposes it on the gin context.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := sessions.Default(c)
		token, _ := s.Get(clientTokenKey).(string)
		if token == "" {
			token = uuid.NewString()
			s.Set(clientTokenKey, token)
			if err := s.Save(); err != nil {
				log.Warn().Err(err).Str("module", "adapters.http").Msg("save session")
			}
		}
		c.Set(clientTokenKey, token)
		c.Next()
	}
}

// RateLimitMiddleware answers 429 when the remote IP is over its budget.
func RateLimitMiddleware(l app.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			log.Warn().Str("module", "adapters.http").Str("ip", c.ClientIP()).Msg("connection rate limited")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		c.Next()
	}
}

type createRoomRequest struct {
	Name    string `json:"name" binding:"max=64"`
	Pin     string `json:"pin" binding:"omitempty,numeric,min=4,max=8"`
	TipsURL string `json:"tipsUrl" binding:"omitempty,url,max=256"`
	Code    string `json:"code" binding:"omitempty,alphanum,max=4"`
}

type createRoomResponse struct {
	Code    domain.RoomCode `json:"code"`
	Name    string          `json:"name"`
	TipsURL string          `json:"tipsUrl"`
	Pin     string          `json:"pin"`
}

// SetupRouter wires HTTP routes and the websocket endpoint. connLimit guards
// the upgrade; pass a nil limiter to disable it.
func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator, connLimit app.Limiter) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{Path: "/", MaxAge: 3600 * 24 * 7, HttpOnly: true, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(ClientTokenMiddleware())

	if cfg.StaticPath != "" {
		r.Static("/static", cfg.StaticPath)
		r.GET("/", func(c *gin.Context) {
			c.File(cfg.StaticPath + "/index.html")
		})
	}
	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Bool("allow_create", cfg.Rooms.AllowCreate).Msg("router setup")

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	api := r.Group("/api")

	api.GET("/rooms/:code", func(c *gin.Context) {
		room, ok := o.Rooms.GetRoom(domain.NormalizeCode(c.Param("code")))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
			return
		}
		c.JSON(http.StatusOK, room.Summary())
	})

	if cfg.Rooms.AllowCreate {
		api.GET("/rooms", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"rooms": o.Rooms.List()})
		})
		api.POST("/rooms", func(c *gin.Context) {
			var req createRoomRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
				return
			}
			room := o.Rooms.CreateRoom(domain.RoomConfig{
				Code:    req.Code,
				Name:    req.Name,
				Pin:     req.Pin,
				TipsURL: req.TipsURL,
			})
			sum := room.Summary()
			c.JSON(http.StatusCreated, createRoomResponse{
				Code:    sum.Code,
				Name:    sum.Name,
				TipsURL: sum.TipsURL,
				Pin:     room.Pin(),
			})
		})
	}

	ctrl := signal.NewSignalWSController(o, signal.Options{
		ReadLimit:  cfg.ReadLimit,
		PingPeriod: cfg.PingPeriod,
		SendBuffer: cfg.SendBuffer,
	})
	ws := []gin.HandlerFunc{}
	if connLimit != nil {
		ws = append(ws, RateLimitMiddleware(connLimit))
	}
	ws = append(ws, func(c *gin.Context) {
		log.Debug().Str("module", "adapters.http").Str("ip", c.ClientIP()).Msg("ws endpoint hit")
		ctrl.HandleSignal(ctx, c.Writer, c.Request, c.GetString(clientTokenKey))
	})
	api.GET("/ws", ws...)

	return r
}
