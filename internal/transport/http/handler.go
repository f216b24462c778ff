package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/meetlink/signaling-service/internal/domain"
	"github.com/meetlink/signaling-service/internal/postgres"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

type UserSvc interface {
	Register(ctx context.Context, username, displayName string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

type MeetingSvc interface {
	Create(ctx context.Context, name, hostID string) (*domain.Meeting, error)
	List(ctx context.Context, limit int, cursor string) ([]domain.Meeting, string, error)
	Join(ctx context.Context, meetingID, userID string) error
	ListParticipants(ctx context.Context, meetingID string) ([]domain.ParticipantInfo, error)
}

type Handler struct {
	userSvc    UserSvc
	meetingSvc MeetingSvc
	validate   *validator.Validate
}

func NewHandler(user UserSvc, meeting MeetingSvc) *Handler {
	return &Handler{
		userSvc:    user,
		meetingSvc: meeting,
		validate:   validator.New(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) decodeValid(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("invalid json")
	}
	return h.validate.Struct(dst)
}

// POST /api/users
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	u, err := h.userSvc.Register(r.Context(), req.Username, req.DisplayName)
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Username already exists"})
			return
		}
		slog.Error("handler.CreateUser:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, CreateUserResponse{
		UserID:   u.ID,
		Username: u.Username,
	})
}

// GET /api/users/{username}
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	u, err := h.userSvc.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "User not found"})
			return
		}
		slog.Error("handler.GetUser:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, http.StatusOK, UserResponse{
		UserID:      u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	})
}

// POST /api/meetings
func (h *Handler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	var req CreateMeetingRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	m, err := h.meetingSvc.Create(r.Context(), req.Name, req.HostID)
	if err != nil {
		slog.Error("handler.CreateMeeting:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, CreateMeetingResponse{
		MeetingID: m.ID,
		Name:      m.Name,
	})
}

// GET /api/meetings?limit=&cursor=
func (h *Handler) ListMeetings(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = n
		}
	}
	cursor := r.URL.Query().Get("cursor")

	meetings, next, err := h.meetingSvc.List(r.Context(), limit, cursor)
	if err != nil {
		if errors.Is(err, postgres.ErrInvalidCursor) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid_cursor"})
			return
		}
		slog.Error("handler.ListMeetings:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	resp := MeetingsListResponse{
		Items: lo.Map(meetings, func(m domain.Meeting, _ int) MeetingItem {
			return MeetingItem{
				MeetingID: m.ID,
				Name:      m.Name,
				HostID:    m.HostID,
				Active:    m.Active,
				CreatedAt: m.CreatedAt,
			}
		}),
		NextCursor: next,
	}
	writeJSON(w, http.StatusOK, resp)
}

// POST /api/meetings/{id}/join
func (h *Handler) JoinMeeting(w http.ResponseWriter, r *http.Request) {
	meetingID := chi.URLParam(r, "id")

	var req JoinMeetingRequest
	if err := h.decodeValid(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	if err := h.meetingSvc.Join(r.Context(), meetingID, req.UserID); err != nil {
		switch {
		case errors.Is(err, domain.ErrMeetingNotFound):
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Meeting not found"})
		case errors.Is(err, domain.ErrMeetingEnded):
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Meeting has ended"})
		default:
			slog.Error("handler.JoinMeeting:", slog.Any("err", err))
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		}
		return
	}

	writeJSON(w, http.StatusOK, JoinMeetingResponse{Success: true})
}

// GET /api/meetings/{id}/participants
func (h *Handler) GetParticipants(w http.ResponseWriter, r *http.Request) {
	meetingID := chi.URLParam(r, "id")

	parts, err := h.meetingSvc.ListParticipants(r.Context(), meetingID)
	if err != nil {
		if errors.Is(err, domain.ErrMeetingNotFound) {
			writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Meeting not found"})
			return
		}
		slog.Error("handler.GetParticipants:", slog.Any("err", err))
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	items := lo.Map(parts, func(p domain.ParticipantInfo, _ int) ParticipantItem {
		return ParticipantItem{
			UserID:      p.UserID,
			Username:    p.Username,
			DisplayName: p.DisplayName,
			IsHost:      p.IsHost,
			JoinedAt:    p.JoinedAt.Format(time.RFC3339),
		}
	})
	writeJSON(w, http.StatusOK, items)
}
