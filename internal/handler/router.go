package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	custommiddleware "github.com/avdeevsm/mayorista-system/internal/middleware"
)

// SetupRouter настраивает HTTP-маршруты и middleware витрины.
func (h *Handler) SetupRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(custommiddleware.GzipMiddleware)
	r.Use(custommiddleware.Logger(h.logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/productos", h.GetProductos)
		r.Get("/productos/{id}", h.GetProducto)

		r.Route("/carrito", func(r chi.Router) {
			r.Get("/", h.GetCarrito)
			r.Post("/", h.AddCarrito)
			r.Delete("/", h.ClearCarrito)
			r.Delete("/{index}", h.RemoveCarrito)
			r.Post("/checkout", h.Checkout)
		})

		r.Get("/favoritos", h.GetFavoritos)
		r.Post("/favoritos", h.ToggleFavorito)

		r.Get("/pedidos", h.GetPedidos)
		r.Delete("/pedidos", h.ClearPedidos)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/login", h.AdminLogin)

			r.Group(func(r chi.Router) {
				r.Use(h.adminAuth.Middleware)

				r.Get("/generos", h.GetGeneros)
				r.Post("/generos", h.CreateGenero)
				r.Put("/generos/{id}", h.UpdateGenero)
				r.Delete("/generos/{id}", h.DeleteGenero)

				r.Get("/grupos", h.GetGrupos)
				r.Post("/grupos", h.CreateGrupo)
				r.Put("/grupos/{id}", h.UpdateGrupo)
				r.Delete("/grupos/{id}", h.DeleteGrupo)

				r.Post("/productos", h.CreateProducto)
				r.Put("/productos/{id}", h.UpdateProducto)
				r.Delete("/productos/{id}", h.DeleteProducto)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})

	return r
}
