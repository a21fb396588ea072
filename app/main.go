package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Guyuepp/blog-comments/internal/config"
	"github.com/Guyuepp/blog-comments/internal/repository"
	mysqlRepo "github.com/Guyuepp/blog-comments/internal/repository/mysql"
	"github.com/Guyuepp/blog-comments/internal/repository/mysql/model"
	myRedisCache "github.com/Guyuepp/blog-comments/internal/repository/redis"
	"github.com/Guyuepp/blog-comments/internal/rest"
	"github.com/Guyuepp/blog-comments/internal/rest/middleware"
	"github.com/Guyuepp/blog-comments/internal/usecase/comment"
	"github.com/Guyuepp/blog-comments/internal/usecase/post"
	"github.com/Guyuepp/blog-comments/internal/usecase/user"
	"github.com/Guyuepp/blog-comments/internal/workers"
)

const (
	dbMaxRetry         = 10
	dbRetryIntervalSec = 2
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	cfg.SetupLogger()

	//prepare database
	db, err := openDatabase(cfg)
	if err != nil {
		logrus.Fatalf("could not connect to database after retries: %v", err)
	}
	defer func() {
		sqlDB, err := db.DB()
		if err != nil {
			logrus.Errorf("got error when getting sql.DB from gorm.DB: %v", err)
			return
		}
		if err := sqlDB.Close(); err != nil {
			logrus.Errorf("got error when closing the DB connection: %v", err)
		}
	}()
	if err := db.AutoMigrate(model.All()...); err != nil {
		logrus.Fatalf("failed to migrate schema: %v", err)
	}

	// prepare cache
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.CacheAddr(),
		Password: cfg.CachePass,
		DB:       cfg.CacheDB,
	})
	defer func() {
		if err := client.Close(); err != nil {
			logrus.Errorf("got error when closing the cache connection: %v", err)
		}
	}()
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		logrus.Fatalf("failed to open connection to cache: %v", err)
	}

	// Prepare Repository
	tx := mysqlRepo.NewTransactor(db)
	userRepo := mysqlRepo.NewUserRepository(db)
	commentRepo := mysqlRepo.NewCommentRepository(db)

	// Post相关的三层架构
	// 1. DB层
	postDBRepo := mysqlRepo.NewPostDBRepository(db)
	// 2. Cache层
	postCache := myRedisCache.NewPostCache(client)
	// 3. Repository协调层
	postRepo := repository.NewPostRepository(postDBRepo, postCache, userRepo)

	postBloom := myRedisCache.NewBloomFilter(client, myRedisCache.KeyPostBloom, cfg.BloomBitSize, cfg.BloomHashes)

	// Start worker
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	evictor := workers.NewCacheEvictWorker(postCache)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		evictor.Start(ctx)
	}()

	// Build service Layer
	cascade := comment.NewCascade(commentRepo, tx, cfg.CascadeTimeout)
	postSvc := post.NewService(postRepo, tx, cascade, postBloom, cfg.CommentPageSize, cfg.CommentMaxPageSize)
	// posts go first, so their comment trees are gone before the author's remaining comments are walked
	userSvc := user.NewService(userRepo, tx, []byte(cfg.JWTSecret), cfg.JWTTTL, postSvc, cascade)
	commentSvc := comment.NewService(commentRepo, userRepo, tx, postSvc.Exists, evictor, comment.Config{
		DefaultPageSize: cfg.CommentPageSize,
		MaxPageSize:     cfg.CommentMaxPageSize,
		CascadeTimeout:  cfg.CascadeTimeout,
	})

	// Prepare bloom filter
	if err := postSvc.InitBloomFilter(ctx); err != nil {
		logrus.Fatalf("failed to init post bloom filter: %v", err)
	}

	postHandler := rest.NewPostHandler(postSvc, commentSvc)
	userHandler := rest.NewUserHandler(userSvc)
	commentHandler := rest.NewCommentHandler(commentSvc)

	// prepare gin
	route := gin.New()
	route.Use(gin.Recovery(), middleware.RequestID(), middleware.Metrics(), middleware.CORS())
	route.Use(middleware.SetRequestContextWithTimeout(cfg.ContextTimeout))
	route.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authMiddleware := middleware.AuthMiddleware(userSvc)
	writeLimiter := middleware.RateLimit(cfg.WriteRPS, cfg.WriteBurst)

	// Register routes
	route.POST("/register", writeLimiter, userHandler.Register)
	route.POST("/login", writeLimiter, userHandler.Login)

	route.GET("/posts", postHandler.Fetch)
	route.GET("/posts/:id", postHandler.GetByID)
	route.GET("/comments", commentHandler.Fetch)
	route.GET("/comments/:id", commentHandler.GetByID)

	route.GET("/posts/:id/comments", commentHandler.FetchByPost)
	route.GET("/comments/:id/replies", commentHandler.FetchReplies)

	route.GET("/users/:id/posts", postHandler.FetchByUser)
	route.GET("/users/:id/posts/active", postHandler.FetchActiveByUser)
	route.GET("/users/:id/comments", commentHandler.FetchByUser)

	authorized := route.Group("/")
	authorized.Use(authMiddleware)
	{
		authorized.GET("/user", userHandler.Me)
		authorized.PUT("/user", writeLimiter, userHandler.Update)
		authorized.DELETE("/user", writeLimiter, userHandler.Delete)
		authorized.GET("/my/posts", postHandler.FetchMine)
		authorized.GET("/my/comments", commentHandler.FetchMine)

		writes := authorized.Group("/")
		writes.Use(writeLimiter)
		writes.POST("/posts", postHandler.Store)
		writes.PUT("/posts/:id", postHandler.Update)
		writes.DELETE("/posts/:id", postHandler.Delete)

		writes.POST("/comments", commentHandler.Store)
		writes.PUT("/comments/:id", commentHandler.Update)
		writes.DELETE("/comments/:id", commentHandler.Delete)
		writes.POST("/posts/:id/comments", commentHandler.StoreForPost)
		writes.POST("/comments/:id/replies", commentHandler.StoreReply)
	}

	// Start Server
	srv := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: route,
	}
	go func() {
		logrus.Infof("Server is running on %s", cfg.ServerAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("listen: %s", err)
		}
	}()

	// shutdown
	<-ctx.Done()
	logrus.Info("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Waiting for worker to cleanup...")
	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		logrus.Warn("worker cleanup timed out")
	}

	logrus.Info("Server exiting")
}

func openDatabase(cfg config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if cfg.DBDriver == config.DriverPostgres {
		dialector = postgres.Open(cfg.DSN())
	} else {
		dialector = mysql.Open(cfg.DSN())
	}

	var (
		db  *gorm.DB
		err error
	)
	for i := range dbMaxRetry {
		db, err = gorm.Open(dialector, &gorm.Config{TranslateError: true})
		if err != nil {
			logrus.Warnf("failed to open connection to database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
		} else {
			sqlDB, dbErr := db.DB()
			if dbErr == nil {
				if err = sqlDB.Ping(); err == nil {
					return db, nil
				}
				logrus.Warnf("failed to ping database (attempt %d/%d): %v", i+1, dbMaxRetry, err)
				_ = sqlDB.Close()
			} else {
				err = dbErr
			}
		}
		time.Sleep(dbRetryIntervalSec * time.Second)
	}
	return nil, err
}
