package apiapp

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ivankudzin/teenmatch/internal/app/wiring"
	"github.com/ivankudzin/teenmatch/internal/config"
	"github.com/ivankudzin/teenmatch/internal/domain/enums"
	"github.com/ivankudzin/teenmatch/internal/domain/model"
	tginfra "github.com/ivankudzin/teenmatch/internal/infra/telegram"
	"github.com/ivankudzin/teenmatch/internal/repo/memory"
	redrepo "github.com/ivankudzin/teenmatch/internal/repo/redis"
	adminauthsvc "github.com/ivankudzin/teenmatch/internal/services/adminauth"
)

const testModeratorID int64 = 42

type nopNotifier struct{}

func (nopNotifier) SendText(context.Context, int64, string) error { return nil }

type countingRouter struct {
	calls int
}

func (c *countingRouter) Handle(context.Context, tginfra.Update) error {
	c.calls++
	return nil
}

type testServer struct {
	handler http.Handler
	auth    *adminauthsvc.Service
	store   *memory.Store
	router  *countingRouter
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := config.Default()
	cfg.Bot.AdminUserID = testModeratorID
	cfg.Bot.WebhookSecret = "hook-secret"
	cfg.Admin.JWTSecret = "jwt-secret"

	store := memory.NewStore()
	services := wiring.FromMemory(store, cfg, nopNotifier{}, zap.NewNop())
	auth := adminauthsvc.NewService(adminauthsvc.Config{
		JWTSecret:   cfg.Admin.JWTSecret,
		SessionTTL:  time.Hour,
		ModeratorID: testModeratorID,
	}, redrepo.NewSessionRepo(client))
	router := &countingRouter{}

	r := chi.NewRouter()
	ApplyMiddlewares(r, zap.NewNop())
	RegisterRoutes(r, Dependencies{
		ModerationService: services.Moderation,
		AdminAuthService:  auth,
		UpdateRouter:      router,
		UpdateClaimer:     redrepo.NewUpdateRepo(client),
		Logger:            zap.NewNop(),
		Config:            cfg,
	})

	return &testServer{handler: r, auth: auth, store: store, router: router}
}

func (s *testServer) token(t *testing.T) string {
	t.Helper()
	token, _, err := s.auth.Issue(context.Background(), testModeratorID)
	require.NoError(t, err)
	return token
}

func (s *testServer) do(method, target, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func decodeMap(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&out))
	return out
}

func TestModeratorAPIRejectsMissingAndInvalidTokens(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(http.MethodGet, "/api/moderator?action=stats", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, false, decodeMap(t, rr)["success"])

	rr = s.do(http.MethodGet, "/api/moderator?action=stats", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestModeratorAPIRejectsRevokedToken(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t)

	require.NoError(t, s.auth.Revoke(context.Background(), token))

	rr := s.do(http.MethodGet, "/api/moderator?action=stats", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestModeratorAPIApproveFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t)
	ctx := context.Background()

	created, err := s.store.Profiles().Create(ctx, testProfile(100, "Алексей"))
	require.NoError(t, err)

	rr := s.do(http.MethodGet, "/api/moderator?action=pending_profiles", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	body := decodeMap(t, rr)
	assert.Equal(t, true, body["success"])
	require.Len(t, body["profiles"], 1)

	rr = s.do(http.MethodPost, "/api/moderator?action=approve", token, map[string]int64{"profile_id": created.ID})
	require.Equal(t, http.StatusOK, rr.Code)
	body = decodeMap(t, rr)
	assert.Equal(t, float64(100), body["telegram_id"])

	rr = s.do(http.MethodGet, "/api/moderator?action=stats", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	stats := decodeMap(t, rr)["stats"].(map[string]any)
	assert.Equal(t, float64(1), stats["approved"])
	assert.Equal(t, float64(0), stats["pending"])
	assert.Contains(t, stats, "likes_today")
}

func TestModeratorAPIErrorStatuses(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t)

	rr := s.do(http.MethodGet, "/api/moderator?action=bogus", token, nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(http.MethodPost, "/api/moderator?action=approve", token, map[string]int64{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = s.do(http.MethodPost, "/api/moderator?action=reject", token, map[string]int64{"profile_id": 999})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(http.MethodPost, "/api/moderator?action=resolve_report", token, map[string]int64{"report_id": 7})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(http.MethodDelete, "/api/moderator?action=stats", token, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestModeratorAPIPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/moderator?action=stats", nil)
	req.Header.Set("Origin", "https://panel.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "authorization,content-type")
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)

	assert.Less(t, rr.Code, 300)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	allowed := strings.ToLower(rr.Header().Get("Access-Control-Allow-Headers"))
	assert.Contains(t, allowed, "authorization")
	assert.Contains(t, allowed, "content-type")
}

func TestWebhookDeduplicatesUpdateID(t *testing.T) {
	s := newTestServer(t)
	payload := `{"update_id":900,"message":{"message_id":1,"date":1,"chat":{"id":100,"type":"private"},"from":{"id":100,"is_bot":false,"first_name":"A"},"text":"hi"}}`

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader(payload))
		req.Header.Set("X-Telegram-Bot-Api-Secret-Token", "hook-secret")
		rr := httptest.NewRecorder()
		s.handler.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"ok":true}`, rr.Body.String())
	}

	assert.Equal(t, 1, s.router.calls)
}

func TestWebhookRejectsWrongSecret(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/telegram/webhook", strings.NewReader(`{"update_id":1}`))
	req.Header.Set("X-Telegram-Bot-Api-Secret-Token", "wrong")
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, 0, s.router.calls)
}

func TestExtractBearerToken(t *testing.T) {
	token, ok := extractBearerToken("bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	_, ok = extractBearerToken("Basic abc")
	assert.False(t, ok)
	_, ok = extractBearerToken("Bearer ")
	assert.False(t, ok)
}

func testProfile(telegramID int64, name string) model.Profile {
	return model.Profile{
		TelegramID: telegramID,
		Name:       name,
		Age:        16,
		City:       "Москва",
		Gender:     enums.GenderMale,
		Status:     enums.ModerationStatusPending,
	}
}
