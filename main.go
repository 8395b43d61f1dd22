package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/bookbazaar/backend/config"
	"github.com/bookbazaar/backend/handlers"
	"github.com/bookbazaar/backend/middleware"
	"github.com/bookbazaar/backend/ocr"
	"github.com/bookbazaar/backend/service"
	"github.com/bookbazaar/backend/store"
	"github.com/bookbazaar/backend/valuation"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config:", err)
	}

	ctx := context.Background()
	db, err := store.NewMongoDB(ctx, cfg.MongoURI, cfg.DBName)
	if err != nil {
		log.Fatal("mongodb:", err)
	}
	defer func() {
		if err := db.Disconnect(context.Background()); err != nil {
			log.Println("mongodb disconnect:", err)
		}
	}()

	var blob service.BlobStore
	if cfg.S3Bucket != "" {
		s3Service, err := service.NewS3Service(ctx, cfg.S3Bucket, cfg.S3Region, cfg.S3AccessKeyID, cfg.S3SecretKey)
		if err != nil {
			log.Fatal("s3:", err)
		}
		blob = s3Service
	} else {
		log.Fatal("AWS_S3_BUCKET is required; image hosting cannot run without it")
	}

	// Checkpoint is read on first scoring call and kept for the life of
	// the process.
	regressor := valuation.NewRegressor(cfg.ModelPath, cfg.ImageFetchTimeout)
	pipeline := &valuation.Pipeline{Blob: blob, Regressor: regressor}
	extractor := ocr.NewExtractor(cfg.OCRCommand, cfg.OCRLang, cfg.OCRTimeout)

	maxBytes := cfg.MaxUploadMB * 1024 * 1024
	authHandler := handlers.NewAuthHandler(db)
	usersHandler := &handlers.UsersHandler{DB: db}
	booksHandler := &handlers.BooksHandler{DB: db, Blob: blob, MaxBytes: maxBytes}
	cartHandler := &handlers.CartHandler{DB: db, Users: db, Books: db}
	valuationHandler := &handlers.ValuationHandler{Pipeline: pipeline, Extractor: extractor, MaxBytes: maxBytes}
	uploadHandler := &handlers.UploadHandler{Blob: blob, MaxBytes: maxBytes}

	r := chi.NewRouter()
	r.Use(middleware.AllowAll())
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/signup", authHandler.Signup)
	r.Post("/login", authHandler.Login)
	r.Get("/user-profile", usersHandler.Profile)
	r.Post("/upload-profile-image", uploadHandler.ProfileImage)

	r.Post("/extract-price", valuationHandler.ExtractPrice)
	r.Post("/predict", valuationHandler.Predict)
	r.Post("/store-book-details", valuationHandler.PreviewPrice)

	r.Post("/upload-book", booksHandler.UploadBook)
	r.Get("/books", booksHandler.List)
	r.Get("/book/{book_name}", booksHandler.GetByName)
	r.Get("/seller/books", booksHandler.SellerBooks)
	r.Delete("/seller/book/{reference_id}", booksHandler.Delete)

	r.Post("/add-to-cart", cartHandler.Add)
	r.Get("/cart", cartHandler.List)
	r.Delete("/remove-from-cart", cartHandler.Remove)

	server := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Println("server listening on :" + cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Println("shutdown:", err)
	}
}
