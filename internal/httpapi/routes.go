package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"jokenpo-server/internal/gateway"
)

func SetupRoutes(gw *gateway.Gateway) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/ws", gw.Handler())
	return r
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
