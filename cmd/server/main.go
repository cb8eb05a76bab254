package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/kazerdira/wolverix/backend/internal/api"
	"github.com/kazerdira/wolverix/backend/internal/channeltoken"
	"github.com/kazerdira/wolverix/backend/internal/config"
	"github.com/kazerdira/wolverix/backend/internal/game"
	"github.com/kazerdira/wolverix/backend/internal/models"
	"github.com/kazerdira/wolverix/backend/internal/profile"
	"github.com/kazerdira/wolverix/backend/internal/ws"
)

func main() {
	// Try multiple paths to find .env file
	_ = godotenv.Load("../../.env")
	_ = godotenv.Load(".env")

	cfg := config.Load()

	profiles, err := profile.NewStore(cfg.Profile.DataDir, cfg.Profile.MaxAvatarBytes)
	if err != nil {
		log.Fatalf("failed to open profile store: %v", err)
	}
	log.Println("✓ Profile store ready at", cfg.Profile.DataDir)

	wsHub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go wsHub.Run(ctx)
	log.Println("✓ WebSocket hub started")

	onGameOver := func(state *models.GameState) {
		for _, p := range state.Players {
			won := (state.Winner == models.FactionWolf) == isWolfPlayer(p)
			if err := profiles.RecordResult(p.ProfileID, won, p.Role); err != nil {
				log.Printf("⚠️  could not record result for profile %s: %v", p.ProfileID, err)
			}
		}
	}
	manager := game.NewManager(wsHub, cfg.Durations, onGameOver)

	tokens := channeltoken.NewMinter(cfg.Channel.TokenSecret, cfg.Channel.TokenTTL)
	dispatcher := ws.NewDispatcher(wsHub, manager)
	handler := api.NewHandler(manager, profiles, tokens, dispatcher)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", handler.Health)
	router.GET("/ws", handler.HandleWebSocket)
	router.GET("/ws/:room_id/:player_id", handler.HandleWebSocket)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/profiles", handler.CreateProfile)
		v1.GET("/profiles/:profile_id", handler.GetProfile)
		v1.POST("/profiles/:profile_id/avatar", handler.UploadAvatar)

		v1.GET("/game-templates", handler.ListTemplates)

		v1.GET("/games", handler.ListRooms)
		v1.POST("/games/create", handler.CreateRoom)
		v1.GET("/games/:room_id", handler.GetRoom)
		v1.POST("/games/:room_id/join", handler.JoinRoom)
		v1.POST("/games/:room_id/channel-token", handler.IssueChannelToken)
	}

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server starting on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited gracefully")
}

func isWolfPlayer(p *models.Player) bool {
	switch p.Role {
	case models.RoleWerewolf, models.RoleWolfKing, models.RoleWhiteWolfKing,
		models.RoleWolfBeauty, models.RoleSnowWolf, models.RoleHiddenWolf, models.RoleGargoyle:
		return true
	default:
		return false
	}
}
