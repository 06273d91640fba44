package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/pawmart/storefront/app/auth"
	"github.com/pawmart/storefront/app/cart"
	"github.com/pawmart/storefront/app/catalog"
	"github.com/pawmart/storefront/app/categories"
	"github.com/pawmart/storefront/app/checkout"
	"github.com/pawmart/storefront/app/orders"
	"github.com/pawmart/storefront/app/reviews"
	"github.com/pawmart/storefront/app/wishlist"
	"github.com/pawmart/storefront/cache"
	"github.com/pawmart/storefront/config"
	"github.com/pawmart/storefront/models"
	"github.com/pawmart/storefront/pkg/middleware"
)

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if level != "" {
		lvl, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, err
		}
		cfg.Level = lvl
	}
	return cfg.Build()
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer logger.Sync()

	// TranslateError maps unique violations to gorm.ErrDuplicatedKey, which
	// order-number retry and duplicate-account detection rely on.
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Review{},
		&models.Wishlist{},
	); err != nil {
		logger.Fatal("Auto migration failed", zap.Error(err))
	}

	var store cache.Cache = cache.NewMemory()
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedis(context.Background(), cfg.RedisAddr)
		if err != nil {
			logger.Warn("Redis unavailable, falling back to in-memory cache", zap.Error(err))
		} else {
			defer redisCache.Close()
			store = redisCache
		}
	}

	usersRepo := models.NewUsersRepository(db)
	categoriesRepo := models.NewCategoriesRepository(db)
	productsRepo := models.NewProductsRepository(db, store)
	cartsRepo := models.NewCartsRepository(db)
	ordersRepo := models.NewOrdersRepository(db)
	reviewsRepo := models.NewReviewsRepository(db)
	wishlistsRepo := models.NewWishlistsRepository(db)

	engine := checkout.NewEngine(ordersRepo, logger)

	authHandler := auth.NewHandler(usersRepo, cfg.JWTSecret)
	authMiddleware := auth.NewMiddleware(cfg.JWTSecret, usersRepo)
	catalogHandler := catalog.NewCatalogHandler(productsRepo, categoriesRepo)
	categoryHandler := categories.NewCategoryHandler(categoriesRepo, productsRepo)
	cartHandler := cart.NewHandler(cartsRepo, productsRepo)
	checkoutHandler := checkout.NewHandler(engine)
	ordersHandler := orders.NewHandler(ordersRepo)
	reviewsHandler := reviews.NewHandler(reviewsRepo, productsRepo)
	wishlistHandler := wishlist.NewHandler(wishlistsRepo, productsRepo)

	mux := http.NewServeMux()
	authed := func(h http.HandlerFunc) http.Handler {
		return authMiddleware.RequireAuth(h)
	}

	mux.HandleFunc("GET /{$}", catalogHandler.HandleHome)
	mux.HandleFunc("GET /products", catalogHandler.HandleGet)
	mux.HandleFunc("GET /products/{slug}", catalogHandler.HandleGetProduct)
	mux.HandleFunc("GET /products/{slug}/reviews", reviewsHandler.HandleList)
	mux.Handle("POST /products/{slug}/reviews", authed(reviewsHandler.HandleCreate))
	mux.Handle("PUT /reviews/{id}", authed(reviewsHandler.HandleUpdate))
	mux.Handle("DELETE /reviews/{id}", authed(reviewsHandler.HandleDelete))

	mux.HandleFunc("GET /categories", categoryHandler.HandleGetAll)
	mux.HandleFunc("POST /categories", categoryHandler.HandleCreate)
	mux.HandleFunc("GET /categories/{slug}", categoryHandler.HandleGet)

	mux.Handle("GET /cart", authed(cartHandler.HandleGet))
	mux.Handle("POST /cart/items", authed(cartHandler.HandleAdd))
	mux.Handle("PUT /cart/items/{id}", authed(cartHandler.HandleUpdate))
	mux.Handle("DELETE /cart/items/{id}", authed(cartHandler.HandleRemove))

	mux.Handle("GET /wishlist", authed(wishlistHandler.HandleGet))
	mux.Handle("POST /wishlist/{id}", authed(wishlistHandler.HandleToggle))

	mux.Handle("GET /checkout", authed(checkoutHandler.HandleInitiate))
	mux.Handle("POST /checkout", authed(checkoutHandler.HandlePlaceOrder))

	mux.Handle("GET /orders", authed(ordersHandler.HandleList))
	mux.Handle("GET /orders/{number}", authed(ordersHandler.HandleGet))

	mux.HandleFunc("POST /auth/register", authHandler.HandleRegister)
	mux.HandleFunc("POST /auth/login", authHandler.HandleLogin)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware.Recovery(logger)(middleware.Logger(logger)(mux))
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	go func() {
		logger.Info("Starting server", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
}
