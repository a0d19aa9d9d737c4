package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"storyshare-backend/internal/config"
	infraCache "storyshare-backend/internal/infrastructure/cache"
	"storyshare-backend/internal/infrastructure/database"
	"storyshare-backend/pkg/cache"
	"storyshare-backend/pkg/jwt"

	storyHandler "storyshare-backend/internal/domains/story/handler"
	storyRepo "storyshare-backend/internal/domains/story/repository"
	storyService "storyshare-backend/internal/domains/story/service"
	userHandler "storyshare-backend/internal/domains/user/handler"
	userRepo "storyshare-backend/internal/domains/user/repository"
	userService "storyshare-backend/internal/domains/user/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every dependency of the application - the root of the
// dependency graph. All fields are singletons living for the process.
type Container struct {
	// Infrastructure
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager

	// Repositories
	UserRepo  userRepo.UserRepository
	StoryRepo storyRepo.StoryRepository

	// Services
	UserService  userService.ServiceInterface
	StoryService storyService.ServiceInterface

	// Handlers
	UserHandler  *userHandler.UserHandler
	StoryHandler *storyHandler.StoryHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer initializes the whole dependency graph, in order:
// config -> infrastructure (DB, cache) -> repositories -> services ->
// handlers. Wrong order means nil dereferences, so don't reorder.
func NewContainer() (*Container, error) {
	log.Println("Initializing DI container...")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("Config loaded (environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.HealthCheck(context.Background()); err != nil {
		return nil, fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	log.Println("Database connected")

	// ========================================
	// STEP 3: INITIALIZE CACHE
	// ========================================
	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)

	// Redis failure is non-critical: the app serves everything from
	// Postgres, just without the cached public feed.
	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(context.Background()); err != nil {
			log.Printf("Redis connection failed (non-critical): %v", err)
		}
	}
	c.Cache = redisCache

	// ========================================
	// STEP 4: SHARED COMPONENTS
	// ========================================
	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Hour,
	)

	// ========================================
	// STEP 5: REPOSITORIES
	// ========================================
	c.UserRepo = userRepo.NewPostgresUserRepository(db.Pool)
	c.StoryRepo = storyRepo.NewPostgresStoryRepository(db.Pool)

	// ========================================
	// STEP 6: SERVICES
	// ========================================
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)
	c.StoryService = storyService.NewStoryService(
		c.StoryRepo,
		c.Cache,
		time.Duration(cfg.Cache.PublicFeedTTL)*time.Second,
	)

	// ========================================
	// STEP 7: HANDLERS
	// ========================================
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.StoryHandler = storyHandler.NewStoryHandler(c.StoryService)

	log.Println("DI container initialized")
	return c, nil
}

// Cleanup releases infrastructure resources on shutdown.
func (c *Container) Cleanup() {
	log.Println("Cleaning up container resources...")

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Printf("Failed to close Redis client: %v", err)
		}
	}

	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Printf("Failed to close database pool: %v", err)
		}
	}

	log.Println("Cleanup complete")
}
