package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/ericLeal19/compleal/config"
	"github.com/ericLeal19/compleal/controllers"
	"github.com/ericLeal19/compleal/database"
	"github.com/ericLeal19/compleal/mercadolivre"
	"github.com/ericLeal19/compleal/middleware"
	"github.com/ericLeal19/compleal/scraper"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := database.Connect(ctx, cfg.RedisURL)
	cancel()
	if err != nil {
		log.Fatal("redis: ", err)
	}
	defer store.Close()

	ml := mercadolivre.NewClient(mercadolivre.Config{
		ClientID:     cfg.ML.ClientID,
		ClientSecret: cfg.ML.ClientSecret,
		RedirectURI:  cfg.ML.RedirectURI,
	})
	extractor := scraper.New()

	allowedOrigins := map[string]bool{}
	for _, origin := range cfg.AllowedOrigins {
		allowedOrigins[origin] = true
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowedOrigins[origin]
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "x-admin-password"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(gin.Logger())
	r.Use(gin.Recovery())

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// public storefront
	r.GET("/api/produtos", controllers.SearchProducts(store, ml))
	r.GET("/api/produtos-amazon", controllers.SearchAmazon(cfg.RapidAPIKey, cfg.AmazonTag))

	// accounts
	r.POST("/api/auth/register", controllers.Register(store, cfg.JWTSecret))
	r.POST("/api/auth/login", controllers.Login(store, cfg.JWTSecret))
	r.GET("/api/auth/google", controllers.GoogleLogin(cfg.Google))
	r.GET("/api/auth/google/callback", controllers.GoogleCallback(store, cfg.Google, cfg.JWTSecret, cfg.SiteURL))

	me := r.Group("/api/auth/me")
	me.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		me.GET("", controllers.GetProfile(store))
		me.PUT("", controllers.UpdateProfile(store))
	}

	favoritos := r.Group("/api/favoritos")
	favoritos.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	{
		favoritos.GET("", controllers.ListFavorites(store))
		favoritos.POST("", controllers.AddFavorite(store))
		favoritos.DELETE("", controllers.RemoveFavorite(store))
	}

	// admin catalog
	admin := r.Group("/api/admin")
	admin.Use(middleware.AdminMiddleware(cfg.AdminPassword))
	{
		admin.GET("", controllers.ListProducts(store))
		admin.POST("", controllers.AddProduct(store, extractor))
		admin.PUT("", controllers.UpdateProduct(store))
		admin.DELETE("", controllers.DeleteProduct(store))
	}

	// marketplace token lifecycle
	r.GET("/api/auth/mercadolivre", controllers.StartMLAuth(ml))
	r.GET("/api/callback", controllers.MLCallback(store, ml))
	r.GET("/api/renovar-tokens", controllers.RenewTokens(store, ml, cfg.CronSecret))
	r.POST("/api/renovar-tokens", controllers.RenewTokens(store, ml, cfg.CronSecret))

	r.Run()
}
