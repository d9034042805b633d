package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/melodia-music/melodia-backend/internal/handlers"
	"github.com/melodia-music/melodia-backend/internal/middleware"
	"github.com/melodia-music/melodia-backend/internal/models"
)

func SetupRoutes(r *chi.Mux) {
	tokens := handlers.Tokens()

	anyRole := middleware.Auth(tokens, models.RoleGuest, models.RoleUser, models.RoleAdmin)
	userOrAdmin := middleware.Auth(tokens, models.RoleUser, models.RoleAdmin)
	adminOnly := middleware.Auth(tokens, models.RoleAdmin)

	// Auth routes
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/users/signup", handlers.Signup)
		r.Post("/users/login", handlers.Login)
		r.Get("/users/guest-access", handlers.GuestAccess)
		r.With(adminOnly).Get("/users/get-all-user", handlers.GetAllUsers)
		r.With(userOrAdmin).Put("/users/update-user/{userId}", handlers.UpdateUser)
		r.With(adminOnly).Delete("/users/delete-user/{id}", handlers.DeleteUser)

		r.Get("/google", handlers.GoogleBegin)
		r.Get("/google/callback", handlers.GoogleCallback)
		r.Post("/verify-token", handlers.VerifyToken)

		r.Post("/admins/forgot-password", handlers.ForgotPassword)
		r.Post("/admins/reset-password", handlers.ResetPassword)
	})

	// Catalog routes: reads accept any valid token (guest included),
	// writes are admin only.
	r.Route("/api/artists", func(r chi.Router) {
		r.With(anyRole).Get("/", handlers.GetArtists)
		r.With(anyRole).Get("/{id}", handlers.GetArtist)
		r.With(adminOnly).Post("/", handlers.CreateArtist)
		r.With(adminOnly).Put("/{id}", handlers.UpdateArtist)
		r.With(adminOnly).Delete("/{id}", handlers.DeleteArtist)
	})

	r.Route("/api/albums", func(r chi.Router) {
		r.With(anyRole).Get("/", handlers.GetAlbums)
		r.With(anyRole).Get("/{id}", handlers.GetAlbum)
		r.With(adminOnly).Post("/", handlers.CreateAlbum)
		r.With(adminOnly).Put("/{id}", handlers.UpdateAlbum)
		r.With(adminOnly).Delete("/{id}", handlers.DeleteAlbum)
	})

	r.Route("/api/songs", func(r chi.Router) {
		r.With(anyRole).Get("/", handlers.GetSongs)
		r.With(anyRole).Get("/{id}", handlers.GetSong)
		r.With(adminOnly).Post("/", handlers.CreateSong)
		r.With(adminOnly).Put("/{id}", handlers.UpdateSong)
		r.With(adminOnly).Delete("/{id}", handlers.DeleteSong)
	})

	r.Route("/api/genres", func(r chi.Router) {
		r.With(anyRole).Get("/", handlers.GetGenres)
		r.With(adminOnly).Post("/", handlers.CreateGenre)
		r.With(adminOnly).Put("/{id}", handlers.UpdateGenre)
		r.With(adminOnly).Delete("/{id}", handlers.DeleteGenre)
	})

	r.Route("/api/playlists", func(r chi.Router) {
		r.Use(userOrAdmin)
		r.Get("/", handlers.GetPlaylists)
		r.Get("/{id}", handlers.GetPlaylist)
		r.Post("/", handlers.CreatePlaylist)
		r.Put("/{id}", handlers.UpdatePlaylist)
		r.Post("/{id}/songs", handlers.AddPlaylistSong)
		r.Delete("/{id}/songs", handlers.RemovePlaylistSong)
		r.Delete("/{id}", handlers.DeletePlaylist)
	})

	r.Route("/api/favourites", func(r chi.Router) {
		r.Use(userOrAdmin)
		r.Post("/", handlers.ToggleFavourite)
		r.Get("/", handlers.GetFavourites)
	})

	r.Route("/api/faqs", func(r chi.Router) {
		r.With(anyRole).Get("/", handlers.GetFAQs)
		r.With(adminOnly).Post("/", handlers.CreateFAQ)
		r.With(adminOnly).Put("/{id}", handlers.UpdateFAQ)
		r.With(adminOnly).Delete("/{id}", handlers.DeleteFAQ)
	})

	// Admin audit feed
	r.With(adminOnly).Get("/api/activities", handlers.GetActivities)
	r.Get("/api/activities/ws", handlers.ActivityFeedWS) // token via query param

	// Direct media upload
	r.With(adminOnly).Post("/api/upload", handlers.UploadFile)
}
