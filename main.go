package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/akarkode/authentication/handlers"
	"github.com/akarkode/authentication/internal/config"
	"github.com/akarkode/authentication/internal/database"
	"github.com/akarkode/authentication/internal/logins"
	"github.com/akarkode/authentication/internal/oauth"
	"github.com/akarkode/authentication/internal/storage"
	"github.com/akarkode/authentication/internal/tokens"
	"github.com/akarkode/authentication/internal/users"
	"github.com/akarkode/authentication/pkg/logger"
	"github.com/akarkode/authentication/pkg/metrics"
)

var startTime = time.Now()

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Infof("config loaded: google=%v mongo=%v redis=%v minio=%v",
		cfg.Google.ClientID != "", cfg.MongoDB.URI != "", cfg.Redis.Host != "", cfg.MinIO.Endpoint != "")

	ctx := context.Background()

	// token stack: one codec, one issuer, one verifier per process
	codec, err := tokens.NewCodec(cfg.JWT.Secret, cfg.JWT.Algorithm)
	if err != nil {
		logger.Fatalf("failed to initialize token codec: %v", err)
	}
	tokenSvc := tokens.NewService(codec, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)
	verifier := tokens.NewVerifier(codec)

	// identity provider
	var exchanger oauth.Exchanger
	if cfg.Google.AuthorizeURL != "" && cfg.Google.TokenURL != "" && cfg.Server.Environment == "development" {
		logger.Warnf("using unverified id_token parsing against explicit endpoints (development only)")
		exchanger, err = oauth.NewUnverified(cfg.Google)
	} else {
		exchanger, err = oauth.NewGoogle(ctx, cfg.Google)
	}
	if err != nil {
		logger.Fatalf("failed to initialize identity provider: %v", err)
	}

	// login-state store: Redis when configured, in-process otherwise
	var loginRepo logins.Repository = logins.NewMemoryRepository()
	if cfg.Redis.Host != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Host + ":" + cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s:%s), falling back to in-memory login state: %v", cfg.Redis.Host, cfg.Redis.Port, err)
		} else {
			loginRepo = logins.NewRedisRepository(client, "login:")
			logger.Infof("using Redis for login state storage")
		}
	}
	loginSvc := logins.NewService(loginRepo, 0)

	// optional avatar mirror
	var avatars users.AvatarMirror
	if cfg.MinIO.Endpoint != "" {
		store, err := storage.NewAvatarStore(cfg.MinIO)
		if err != nil {
			logger.Warnf("avatar mirror disabled: %v", err)
		} else {
			avatars = store
		}
	}

	// user directory: Mongo when configured, in-process otherwise
	var userRepo users.Repository = users.NewMemoryRepository()
	var mongoClient *mongo.Client
	if cfg.MongoDB.URI != "" {
		mongoClient = connectMongoWithRetry(ctx, cfg)
		if mongoClient != nil {
			defer func() { _ = mongoClient.Disconnect(ctx) }()
			col := mongoClient.Database(cfg.MongoDB.Database).Collection("users")
			repo := users.NewMongoRepository(col)
			if err := repo.EnsureIndexes(ctx); err != nil {
				logger.Fatalf("failed to create user indexes: %v", err)
			}
			userRepo = repo
		}
	}
	if _, ok := userRepo.(*users.MemoryRepository); ok {
		logger.Warnf("using in-memory user directory; users will not survive restarts")
	}
	directory := users.NewDirectory(userRepo, avatars)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", func(c *gin.Context) {
		deps := map[string]bool{
			"provider": exchanger != nil,
			"users":    userRepo != nil,
			"logins":   loginRepo != nil,
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "deps": deps, "uptime": time.Since(startTime).String()})
	})

	root := r.Group("/")
	authHandler := handlers.NewAuthHandler(cfg, exchanger, loginSvc, directory, tokenSvc)
	authHandler.Register(root)
	handlers.RegisterUserRoutes(root, verifier)

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("starting authentication service on %s", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	if err := srv.ListenAndServe(); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}

// connectMongoWithRetry tolerates startup races against the database
// container. Returns nil when every attempt fails.
func connectMongoWithRetry(ctx context.Context, cfg *config.Config) *mongo.Client {
	const maxAttempts = 5
	backoff := time.Second
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		client, err := database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
		if err == nil {
			return client
		}
		logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, err)
		if attempt < maxAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	logger.Warnf("could not connect to MongoDB after %d attempts", maxAttempts)
	return nil
}
