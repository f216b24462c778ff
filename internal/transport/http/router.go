package http

import (
	"net/http"
	"time"

	httpmw "github.com/meetlink/signaling-service/internal/transport/http/middleware"
	"github.com/meetlink/signaling-service/internal/transport/ws"

	"github.com/go-chi/chi/v5"
	middlewareChi "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler, wsServer *ws.Server) http.Handler {
	r := chi.NewRouter()
	r.Use(middlewareChi.RequestID)
	r.Use(middlewareChi.RealIP)
	r.Use(middlewareChi.Recoverer)

	// WS endpoint; long-lived, so no timeout middleware here
	r.Get("/ws", wsServer.HandleWS)

	r.Group(func(pr chi.Router) {
		pr.Use(httpmw.LoggingMiddleware)
		pr.Use(middlewareChi.Timeout(30 * time.Second))

		pr.Route("/api", func(api chi.Router) {
			api.Route("/users", func(u chi.Router) {
				u.Post("/", h.CreateUser)
				u.Get("/{username}", h.GetUser)
			})

			api.Route("/meetings", func(m chi.Router) {
				m.Post("/", h.CreateMeeting)
				m.Get("/", h.ListMeetings)

				m.Route("/{id}", func(mm chi.Router) {
					mm.Post("/join", h.JoinMeeting)
					mm.Get("/participants", h.GetParticipants)
				})
			})
		})
	})

	// health
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return r
}
