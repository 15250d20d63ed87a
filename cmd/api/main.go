package main

import (
	"log"
	"net/http"

	_ "recomendador/docs" // swagger docs

	"recomendador/internal/cache"
	"recomendador/internal/config"
	"recomendador/internal/db"
	"recomendador/internal/handler"
	"recomendador/internal/repository"
	"recomendador/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Recomendador API
// @version 1.0
// @description API de recomendaciones colaborativas (libros y películas, Mongo, Redis)
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	// Mongo y Redis
	db.InitMongo(cfg)
	cache.InitRedis(cfg)

	// repos
	userRepo := repository.NewUserRepository()
	bookRepo := repository.NewBookRepository()
	movieRepo := repository.NewMovieRepository()
	bookRatingRepo := repository.NewRatingRepository("book_ratings")
	movieRatingRepo := repository.NewRatingRepository("movie_ratings")
	recRepo := repository.NewRecommendationRepository()

	// blob store para los snapshots CF
	store := cache.NewStore()

	// services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	bookSvc := service.NewBookService(bookRepo)
	movieSvc := service.NewMovieService(movieRepo)
	ratingSvc := service.NewRatingService(bookRatingRepo, movieRatingRepo, bookRepo, movieRepo)
	recSvc := service.NewRecommendService(bookRatingRepo, movieRatingRepo, bookRepo, movieRepo, recRepo, store, cfg.MaxHistory)
	adminSvc := service.NewAdminService(bookRatingRepo, movieRatingRepo, bookRepo, store, cfg.MaxHistory)

	// handlers
	authH := handler.NewAuthHandler(authSvc)
	bookH := handler.NewBookHandler(bookSvc)
	movieH := handler.NewMovieHandler(movieSvc)
	ratingH := handler.NewRatingHandler(ratingSvc)
	recH := handler.NewRecommendHandler(recSvc)
	adminH := handler.NewAdminHandler(adminSvc)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// =============
	// Rutas públicas
	// =============
	r.Get("/health", handler.Health)

	r.Post("/auth/register", authH.Register)
	r.Post("/auth/login", authH.Login)

	// Catálogo (público)
	r.Get("/books/search", bookH.Search)
	r.Get("/books/top", bookH.Top)
	r.Get("/books/{id}", bookH.GetByID)

	r.Get("/movies/search", movieH.Search)
	r.Get("/movies/top", movieH.Top)
	r.Get("/movies/{id}", movieH.GetByID)

	// ===========================
	// Rutas protegidas con JWT
	// ===========================
	authMw := handler.JWTAuth(cfg.JWTSecret)

	r.Group(func(r chi.Router) {
		r.Use(authMw)

		// ---- Endpoints /me (USER normal) ----
		r.Route("/me", func(r chi.Router) {
			r.Get("/", authH.Me)

			r.Get("/ratings/books", ratingH.GetMyBookRatings)
			r.Post("/ratings/books", ratingH.PostMyBookRating)
			r.Get("/ratings/movies", ratingH.GetMyMovieRatings)
			r.Post("/ratings/movies", ratingH.PostMyMovieRating)

			r.Get("/recommendations/books", recH.GetMyBookRecommendations)
			r.Get("/recommendations/movies", recH.GetMyMovieRecommendations)
			r.Get("/recommendations/history", recH.History)

			// WebSocket con progreso del cálculo
			r.Get("/ws/recommendations/books", recH.GetMyBookRecommendationsWS)
		})

		// ---- Endpoints solo ADMIN ----
		r.Group(func(r chi.Router) {
			r.Use(handler.AdminOnly())

			r.Get("/admin/users", authH.ListUsers)
			r.Post("/admin/books", bookH.Create)

			// ratings y recomendaciones de cualquier usuario
			r.Route("/users/{id}", func(r chi.Router) {
				r.Get("/", authH.GetUserByID)

				r.Get("/ratings/books", ratingH.GetUserBookRatings)
				r.Post("/ratings/books", ratingH.PostUserBookRating)
				r.Get("/ratings/movies", ratingH.GetUserMovieRatings)
				r.Post("/ratings/movies", ratingH.PostUserMovieRating)

				r.Get("/recommendations/books", recH.GetUserBookRecommendations)
				r.Get("/recommendations/movies", recH.GetUserMovieRecommendations)
				r.Get("/ws/recommendations/books", recH.GetUserBookRecommendationsWS)
			})

			// mantenimiento del recomendador
			r.Get("/admin/recsys/summary", adminH.Summary)
			r.Post("/admin/recsys/rebuild", adminH.Rebuild)
			r.Post("/admin/recsys/invalidate", adminH.Invalidate)
		})
	})

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	log.Printf("HTTP escuchando en :%s", cfg.HTTPPort)
	log.Fatal(http.ListenAndServe(":"+cfg.HTTPPort, r))
}
