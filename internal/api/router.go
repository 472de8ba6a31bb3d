package api

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/erazemk/najdeno/internal/blob"
	"github.com/erazemk/najdeno/internal/registry"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string, blobs *blob.Store) http.Handler {
	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	itemsHandler := &ItemsHandler{
		Items:  &registry.Items{DB: db},
		Claims: &registry.Claims{DB: db},
		Blobs:  blobs,
	}
	claimsHandler := &ClaimsHandler{Claims: &registry.Claims{DB: db}}
	categoriesHandler := &CategoriesHandler{Catalog: &registry.Catalog{DB: db}}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(RequestLogger)
	r.Use(PrincipalMiddleware(jwtSecret, db))

	r.Route("/api", func(r chi.Router) {
		// Identity.
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Group(func(r chi.Router) {
			r.Use(RequireAuth)
			r.Put("/auth/password", authHandler.ChangePassword)
			r.Post("/auth/logout", authHandler.Logout)
		})

		// Public reads. Role-specific behavior (admin detail views, status
		// defaults) keys off the resolved principal.
		r.Get("/items", itemsHandler.List)
		r.Get("/items/{id}", itemsHandler.Get)
		r.Get("/categories", categoriesHandler.List)

		// Mutations require a principal; the registries enforce the rest of
		// the decision table.
		r.Group(func(r chi.Router) {
			r.Use(RequireAuth)

			r.Post("/items", itemsHandler.Create)
			r.Put("/items/{id}", itemsHandler.Update)
			r.Put("/items/{id}/status", itemsHandler.UpdateStatus)
			r.Delete("/items/{id}", itemsHandler.Delete)
			r.Post("/items/{id}/image", itemsHandler.UploadImage)

			r.Post("/items/{id}/claims", claimsHandler.Create)
			r.Get("/claims", claimsHandler.ListMine)
			r.Get("/admin/claims", claimsHandler.ListAll)
			r.Put("/claims/{id}/review", claimsHandler.Review)

			r.Post("/categories", categoriesHandler.Create)
		})
	})

	if blobs != nil {
		r.Mount("/uploads", blobs.Handler())
	}

	return r
}
