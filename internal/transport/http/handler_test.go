package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/meetlink/signaling-service/internal/domain"
	"github.com/meetlink/signaling-service/internal/postgres"
	"github.com/meetlink/signaling-service/internal/relay"
	"github.com/meetlink/signaling-service/internal/transport/ws"
)

type fakeUserSvc struct {
	registerErr error
	users       map[string]*domain.User
}

func (f *fakeUserSvc) Register(_ context.Context, username, displayName string) (*domain.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	if displayName == "" {
		displayName = username
	}
	return &domain.User{ID: "uid-1", Username: username, DisplayName: displayName, CreatedAt: time.Now()}, nil
}

func (f *fakeUserSvc) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

type fakeMeetingSvc struct {
	joinErr      error
	listErr      error
	meetings     []domain.Meeting
	participants []domain.ParticipantInfo
	joined       []string
}

func (f *fakeMeetingSvc) Create(_ context.Context, name, hostID string) (*domain.Meeting, error) {
	if name == "" {
		name = "New Meeting"
	}
	return &domain.Meeting{ID: "mid-1", Name: name, HostID: hostID, Active: true}, nil
}

func (f *fakeMeetingSvc) List(_ context.Context, _ int, _ string) ([]domain.Meeting, string, error) {
	if f.listErr != nil {
		return nil, "", f.listErr
	}
	return f.meetings, "", nil
}

func (f *fakeMeetingSvc) Join(_ context.Context, meetingID, userID string) error {
	if f.joinErr != nil {
		return f.joinErr
	}
	f.joined = append(f.joined, meetingID+"/"+userID)
	return nil
}

func (f *fakeMeetingSvc) ListParticipants(_ context.Context, _ string) ([]domain.ParticipantInfo, error) {
	if f.participants == nil {
		return nil, domain.ErrMeetingNotFound
	}
	return f.participants, nil
}

func newTestRouter(users *fakeUserSvc, meetings *fakeMeetingSvc) http.Handler {
	reg := relay.NewRegistry()
	engine := relay.NewEngine(reg, relay.NewDispatcher(reg), nil)
	return NewRouter(NewHandler(users, meetings), ws.NewServer(engine))
}

func doJSON(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateUser(t *testing.T) {
	router := newTestRouter(&fakeUserSvc{}, &fakeMeetingSvc{})

	rec := doJSON(t, router, http.MethodPost, "/api/users", `{"username":"alice"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	var resp CreateUserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Username != "alice" || resp.UserID == "" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestCreateUser_Validation(t *testing.T) {
	router := newTestRouter(&fakeUserSvc{}, &fakeMeetingSvc{})

	for name, body := range map[string]string{
		"missing username": `{"displayName":"A"}`,
		"invalid json":     `{"username":`,
	} {
		rec := doJSON(t, router, http.MethodPost, "/api/users", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status %d", name, rec.Code)
		}
	}
}

func TestCreateUser_Duplicate(t *testing.T) {
	router := newTestRouter(&fakeUserSvc{registerErr: domain.ErrUserExists}, &fakeMeetingSvc{})

	rec := doJSON(t, router, http.MethodPost, "/api/users", `{"username":"alice"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	router := newTestRouter(&fakeUserSvc{users: map[string]*domain.User{}}, &fakeMeetingSvc{})

	rec := doJSON(t, router, http.MethodGet, "/api/users/ghost", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
}

func TestCreateMeeting(t *testing.T) {
	router := newTestRouter(&fakeUserSvc{}, &fakeMeetingSvc{})

	rec := doJSON(t, router, http.MethodPost, "/api/meetings", `{"hostId":"u1"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	var resp CreateMeetingResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.MeetingID == "" || resp.Name != "New Meeting" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestJoinMeeting_Ended(t *testing.T) {
	router := newTestRouter(&fakeUserSvc{}, &fakeMeetingSvc{joinErr: domain.ErrMeetingEnded})

	rec := doJSON(t, router, http.MethodPost, "/api/meetings/mid-1/join", `{"userId":"u1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
}

func TestJoinMeeting_NotFound(t *testing.T) {
	router := newTestRouter(&fakeUserSvc{}, &fakeMeetingSvc{joinErr: domain.ErrMeetingNotFound})

	rec := doJSON(t, router, http.MethodPost, "/api/meetings/ghost/join", `{"userId":"u1"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
}

func TestGetParticipants(t *testing.T) {
	meetings := &fakeMeetingSvc{
		participants: []domain.ParticipantInfo{
			{UserID: "u1", Username: "alice", DisplayName: "Alice", IsHost: true, JoinedAt: time.Now()},
			{UserID: "u2", Username: "bob", DisplayName: "Bob", JoinedAt: time.Now()},
		},
	}
	router := newTestRouter(&fakeUserSvc{}, meetings)

	rec := doJSON(t, router, http.MethodGet, "/api/meetings/mid-1/participants", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
	var items []ParticipantItem
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 2 || !items[0].IsHost || items[1].Username != "bob" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestListMeetings_InvalidCursor(t *testing.T) {
	router := newTestRouter(&fakeUserSvc{}, &fakeMeetingSvc{listErr: postgres.ErrInvalidCursor})

	rec := doJSON(t, router, http.MethodGet, "/api/meetings/?cursor=bogus", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(&fakeUserSvc{}, &fakeMeetingSvc{})

	rec := doJSON(t, router, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
}
