package container

import (
	"context"
	"fmt"
	"log"
	"time"

	"library-backend/internal/config"
	bookHandler "library-backend/internal/domains/book/handler"
	bookRepo "library-backend/internal/domains/book/repository"
	bookService "library-backend/internal/domains/book/service"
	borrowHandler "library-backend/internal/domains/borrow/handler"
	borrowRepo "library-backend/internal/domains/borrow/repository"
	borrowService "library-backend/internal/domains/borrow/service"
	userHandler "library-backend/internal/domains/user/handler"
	userRepo "library-backend/internal/domains/user/repository"
	userService "library-backend/internal/domains/user/service"
	infraCache "library-backend/internal/infrastructure/cache"
	"library-backend/internal/infrastructure/database"
	"library-backend/internal/infrastructure/email"
	"library-backend/internal/infrastructure/queue"
	"library-backend/internal/infrastructure/storage"
	"library-backend/pkg/cache"
	pkgdb "library-backend/pkg/database"
	"library-backend/pkg/jwt"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container is the root of the dependency graph. Everything in it is a
// singleton living for the whole process.
type Container struct {
	// Infrastructure
	Config      *config.Config
	DB          *database.PostgresDB
	Cache       cache.Cache
	JWTManager  *jwt.Manager
	TxManager   *pkgdb.TxManager
	Storage     *storage.MinIOStorage
	Email       email.EmailService
	QueueClient *queue.Client

	// Repositories
	BookRepo   bookRepo.Repository
	UserRepo   userRepo.Repository
	BorrowRepo borrowRepo.Repository

	// Services
	BookService   bookService.Service
	UserService   userService.Service
	BorrowService borrowService.Service

	// Handlers
	BookHandler   *bookHandler.BookHandler
	UserHandler   *userHandler.UserHandler
	BorrowHandler *borrowHandler.BorrowHandler
}

// NewContainer builds the whole graph. Initialization order matters:
// config, then infrastructure, then repositories, services, handlers.
func NewContainer() (*Container, error) {
	c := &Container{}

	// ========================================
	// STEP 1: CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Printf("Config loaded (environment: %s)", cfg.App.Environment)

	// ========================================
	// STEP 2: DATABASE
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
	c.TxManager = pkgdb.NewTxManager(db.Pool)

	// ========================================
	// STEP 3: CACHE
	// ========================================
	redisCache := infraCache.NewRedisCache(
		cfg.Redis.Host,
		cfg.Redis.Password,
		cfg.Redis.DB,
	)

	if rc, ok := redisCache.(*infraCache.RedisCache); ok {
		if err := rc.Connect(context.Background()); err != nil {
			// Cache failure is not fatal, the catalog falls back to the
			// database.
			log.Printf("Redis connection failed (non-critical): %v", err)
		}
	}
	c.Cache = redisCache

	// ========================================
	// STEP 4: REMAINING INFRASTRUCTURE
	// ========================================
	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.ExpiryHours)*time.Hour,
	)

	store, err := storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to init object storage: %w", err)
	}
	c.Storage = store

	c.Email = email.NewSMTPEmailService(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From)
	c.QueueClient = queue.NewClient(cfg.Redis.Host)

	// ========================================
	// STEP 5: REPOSITORIES
	// ========================================
	c.BookRepo = bookRepo.NewPostgresRepository(db.Pool)
	c.UserRepo = userRepo.NewPostgresRepository(db.Pool)
	c.BorrowRepo = borrowRepo.NewPostgresRepository(db.Pool)

	// ========================================
	// STEP 6: SERVICES
	// ========================================
	c.BookService = bookService.NewBookService(c.BookRepo, c.Cache)

	c.BorrowService = borrowService.NewBorrowService(
		c.BorrowRepo,
		c.BookRepo,
		c.UserRepo,
		c.TxManager,
		c.BookService, // catalog cache invalidation
		c.Email,
		cfg.Borrow.LoanDays,
		cfg.Borrow.FinePerDay,
	)

	c.UserService = userService.NewUserService(
		c.UserRepo,
		c.QueueClient,
		c.Storage,
		c.JWTManager,
		c.BorrowService, // borrow lists on the admin user screen
		cfg.App.FrontendURL,
	)

	// ========================================
	// STEP 7: HANDLERS
	// ========================================
	c.BookHandler = bookHandler.NewBookHandler(c.BookService)
	c.BorrowHandler = borrowHandler.NewBorrowHandler(c.BorrowService)
	c.UserHandler = userHandler.NewUserHandler(
		c.UserService,
		cfg.JWT.ExpiryHours*3600,
		cfg.App.Environment == "production",
	)

	log.Println("DI container initialized")
	return c, nil
}

// Cleanup closes every connection the container owns. Called on shutdown.
func (c *Container) Cleanup() {
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			log.Printf("Failed to close queue client: %v", err)
		}
	}

	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Printf("Failed to close redis: %v", err)
		}
	}

	if c.DB != nil {
		c.DB.Close()
	}
}
