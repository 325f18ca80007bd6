package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/league-system/brackets"
	"github.com/Dosada05/league-system/handlers"
	"github.com/Dosada05/league-system/middleware"
	"github.com/Dosada05/league-system/models"
	"github.com/Dosada05/league-system/services"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("routes-secret")

type stubEvents struct{}

func (stubEvents) CreateEvent(ctx context.Context, input services.CreateEventInput) (*models.LeagueEvent, error) {
	return &models.LeagueEvent{ID: 1}, nil
}

func (stubEvents) GetEvent(ctx context.Context, eventID int) (*services.EventView, error) {
	return &services.EventView{Event: &models.LeagueEvent{ID: eventID}, Groups: []*services.GroupView{}}, nil
}

func (stubEvents) UpdateMatch(ctx context.Context, input services.UpdateMatchInput) (*models.GroupMatch, error) {
	return &models.GroupMatch{ID: input.MatchID}, nil
}

func (stubEvents) AutoSaveResults(ctx context.Context, input services.AutoSaveInput) (*services.AutoSaveResult, error) {
	return &services.AutoSaveResult{RecomputedGroups: []int{}}, nil
}

func (stubEvents) RecomputeEvent(ctx context.Context, eventID int) ([]services.StandingsUpdate, error) {
	return nil, nil
}

type okPinger struct{}

func (okPinger) PingContext(ctx context.Context) error { return nil }

func newRouter() http.Handler {
	router := chi.NewRouter()
	SetupRoutes(router,
		Options{
			JWTSecret:      secret,
			RequestTimeout: time.Second,
			AllowedOrigins: []string{"*"},
			MetricsHandler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("# metrics"))
			}),
		},
		handlers.NewLeagueEventHandler(stubEvents{}, nil, nil),
		handlers.NewWebSocketHandler(brackets.NewHub(nil), []string{"*"}, nil),
		handlers.NewHealthHandler(okPinger{}, nil),
	)
	return router
}

func call(t *testing.T, h http.Handler, method, path, body string, role models.UserRole) int {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if role != "" {
		token, err := middleware.IssueToken(secret, 42, role, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestSetupRoutes_Access(t *testing.T) {
	router := newRouter()
	createBody := `{"leagueInstanceId":1,"eventDate":"2025-06-12","groups":[{"players":[]}]}`
	matchBody := `{"player1_score":1,"player2_score":2}`

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		role   models.UserRole
		want   int
	}{
		{"public read", http.MethodGet, "/api/league-events/3", "", "", http.StatusOK},
		{"health", http.MethodGet, "/health", "", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", "", http.StatusOK},
		{"create anonymous", http.MethodPost, "/api/league-events", createBody, "", http.StatusUnauthorized},
		{"create player", http.MethodPost, "/api/league-events", createBody, models.RolePlayer, http.StatusForbidden},
		{"create organizer", http.MethodPost, "/api/league-events", createBody, models.RoleOrganizer, http.StatusCreated},
		{"update match organizer", http.MethodPut, "/api/league-events/matches/5", matchBody, models.RoleOrganizer, http.StatusOK},
		{"auto-save admin", http.MethodPost, "/api/league-events/auto-save", `{"results":{}}`, models.RoleAdmin, http.StatusOK},
		{"recompute organizer", http.MethodPost, "/api/league-events/3/recompute", "", models.RoleOrganizer, http.StatusForbidden},
		{"recompute admin", http.MethodPost, "/api/league-events/3/recompute", "", models.RoleAdmin, http.StatusOK},
		{"export disabled", http.MethodPost, "/api/league-events/3/export", "", models.RoleOrganizer, http.StatusServiceUnavailable},
		{"ws bad id", http.MethodGet, "/ws/league-events/x", "", "", http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, call(t, router, tc.method, tc.path, tc.body, tc.role))
		})
	}
}
