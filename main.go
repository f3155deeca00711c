package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"samevibe-service/internal/bus"
	"samevibe-service/internal/cache"
	"samevibe-service/internal/config"
	"samevibe-service/internal/db"
	"samevibe-service/internal/handlers"
	"samevibe-service/internal/media"
	"samevibe-service/internal/middleware"
	"samevibe-service/internal/models"
	"samevibe-service/internal/observability"
	"samevibe-service/internal/repositories"
	"samevibe-service/internal/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	database, err := db.Connect(cfg.DB.DSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer database.Close()

	shutdownTracing, err := observability.SetupTracing(context.Background(), "samevibe-service", cfg.OTLP.Endpoint)
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	// Cache is optional: without redis every read goes to the database.
	var store cache.Store
	if pool, err := cache.NewPool(cfg.Redis.Addr, cfg.Redis.PoolSize); err != nil {
		log.Printf("cache disabled: %v", err)
	} else {
		store = cache.NewRedisStore(pool)
	}
	appCache := cache.New(store)

	hub := bus.NewHub()
	bridge := bus.NewAMQPBridge(cfg.AMQP.URL, cfg.AMQP.Exchange, hub.DeliverLocal)
	hub.SetBridge(bridge)
	defer bridge.Close()

	userRepo := repositories.NewUserRepo(database)
	chatRepo := repositories.NewChatRepo(database)
	messageRepo := repositories.NewMessageRepo(database)
	friendshipRepo := repositories.NewFriendshipRepo(database)
	tagRepo := repositories.NewTagRepo(database)

	// Media uploads are optional too; the signature endpoints answer 503
	// when no bucket is configured.
	var signer media.Signer
	if cfg.S3.Bucket != "" {
		s3Signer, err := media.NewS3Signer(context.Background(), cfg.S3.Region, cfg.S3.Bucket)
		if err != nil {
			log.Printf("media uploads disabled: %v", err)
		} else {
			signer = s3Signer
		}
	}

	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWT.Secret)
	profileHandler := handlers.NewProfileHandler(userRepo, signer)
	tagHandler := handlers.NewTagHandler(tagRepo, appCache)
	friendshipHandler := handlers.NewFriendshipHandler(friendshipRepo, chatRepo, userRepo, appCache)
	searchHandler := handlers.NewSearchHandler(userRepo, tagRepo, friendshipRepo, appCache)
	chatHandler := handlers.NewChatHandler(chatRepo, messageRepo, userRepo, hub, appCache, signer)

	chatWS := ws.NewChatSocketHandler(hub, chatRepo, messageRepo, appCache, cfg.JWT.Secret)
	chatListWS := ws.NewChatListSocketHandler(hub, cfg.JWT.Secret)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(observability.HTTPMetricsMiddleware())
	router.Use(otelgin.Middleware("samevibe-service"))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.POST("/register", authHandler.Register)
	api.POST("/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(cfg.JWT.Secret))

	authed.GET("/userid", profileHandler.UserID)
	authed.GET("/profile", profileHandler.GetProfile)
	authed.PATCH("/profile", profileHandler.UpdateProfile)
	authed.GET("/avatar-signature", profileHandler.AvatarSignature)

	authed.GET("/interestslist", tagHandler.ListVocab(models.TagInterest))
	authed.GET("/hobbylist", tagHandler.ListVocab(models.TagHobby))
	authed.GET("/musiclist", tagHandler.ListVocab(models.TagMusic))
	authed.GET("/userinterests", tagHandler.ListUserTags(models.TagInterest))
	authed.GET("/userhobbies", tagHandler.ListUserTags(models.TagHobby))
	authed.GET("/usermusics", tagHandler.ListUserTags(models.TagMusic))
	authed.PATCH("/userinterests", tagHandler.ReplaceUserTags(models.TagInterest, "interest_ids"))
	authed.PATCH("/userhobbies", tagHandler.ReplaceUserTags(models.TagHobby, "hobby_ids"))
	authed.PATCH("/usermusics", tagHandler.ReplaceUserTags(models.TagMusic, "music_ids"))

	authed.GET("/friendshiplist", friendshipHandler.List)
	authed.POST("/friendshiplist", friendshipHandler.Create)
	authed.PATCH("/friendship", friendshipHandler.Accept)
	authed.DELETE("/friendship", friendshipHandler.Delete)

	authed.GET("/interest-search", searchHandler.Search(models.TagInterest))
	authed.GET("/hobby-search", searchHandler.Search(models.TagHobby))
	authed.GET("/music-search", searchHandler.Search(models.TagMusic))

	authed.GET("/chats", chatHandler.ListChats)
	authed.POST("/chats", chatHandler.CreateChat)
	authed.GET("/chats/:chat_id/messages", chatHandler.GetChatMessages)
	authed.PATCH("/messages/:message_id", chatHandler.EditMessage)
	authed.GET("/attachment-signature", chatHandler.AttachmentSignature)

	router.GET("/ws/chats/:chat_id", chatWS.Handle)
	router.GET("/ws/chatlist", chatListWS.Handle)

	handlers.RegisterDebugRoutes(router, hub, cfg.Debug.Enabled)

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
