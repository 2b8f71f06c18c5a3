package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"github.com/gorilla/websocket"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"contentboost/game"
	"contentboost/logger"
	"contentboost/middleware"
	"contentboost/scoring"
	"contentboost/session"
)

type testEnv struct {
	router *mux.Router
	store  *session.Store
	tokens *middleware.Tokens
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWith(t, sessions.NewCookieStore([]byte("test-session-key")), logger.Nop())
}

func newTestEnvWith(t *testing.T, cookies sessions.Store, log *logger.Logger) *testEnv {
	t.Helper()
	store := session.NewStore(session.NewMemorySlot(), session.WithAuthDelay(0))
	svc := game.NewService(store, scoring.NewRandomEvaluator(0, rand.NewPCG(7, 11)))
	tokens := middleware.NewTokens("test-secret", time.Hour)
	r := NewRouter(Deps{
		Store:   store,
		Service: svc,
		Cookies: cookies,
		Tokens:  tokens,
		Log:     log,
	})
	return &testEnv{router: r, store: store, tokens: tokens}
}

// unsavableCookies hands out sessions whose Save always fails.
type unsavableCookies struct {
	*sessions.CookieStore
}

func (u unsavableCookies) Get(r *http.Request, name string) (*sessions.Session, error) {
	return sessions.GetRegistry(r).Get(u, name)
}

func (u unsavableCookies) New(r *http.Request, name string) (*sessions.Session, error) {
	inner, err := u.CookieStore.New(r, name)
	sess := sessions.NewSession(u, name)
	sess.Values = inner.Values
	sess.Options = inner.Options
	sess.IsNew = inner.IsNew
	return sess, err
}

func (u unsavableCookies) Save(*http.Request, http.ResponseWriter, *sessions.Session) error {
	return errors.New("cookie too large")
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, cookies []*http.Cookie, header http.Header) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("%s %s: decode response %q: %v", method, path, rec.Body.String(), err)
	}
	return rec, out
}

func (e *testEnv) guest(t *testing.T) ([]*http.Cookie, string) {
	t.Helper()
	rec, out := e.do(t, http.MethodPost, "/api/auth/guest", nil, nil, nil)
	if rec.Code != http.StatusOK || out["success"] != true {
		t.Fatalf("guest login failed: %d %v", rec.Code, out)
	}
	token, _ := out["token"].(string)
	return rec.Result().Cookies(), token
}

func TestSubmitOncePerSession(t *testing.T) {
	env := newTestEnv(t)
	cookies, _ := env.guest(t)

	rec, out := env.do(t, http.MethodPost, "/api/tasks/task-1/submit", SubmitRequest{Content: "sunset caption"}, cookies, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %v", rec.Code, out)
	}
	result := out["result"].(map[string]interface{})
	if p := result["percentage"].(float64); p < 60 || p > 90 {
		t.Fatalf("percentage out of range: %v", p)
	}

	cookies = rec.Result().Cookies()
	rec, _ = env.do(t, http.MethodPost, "/api/tasks/task-1/submit", SubmitRequest{Content: "again"}, cookies, nil)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on resubmit, got %d", rec.Code)
	}

	rec, out = env.do(t, http.MethodGet, "/api/dashboard", nil, cookies, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard: %d", rec.Code)
	}
	stats := out["dashboard"].(map[string]interface{})["stats"].(map[string]interface{})
	if stats["completedToday"].(float64) != 1 || stats["tasksLeft"].(float64) != 3 {
		t.Fatalf("unexpected stats %v", stats)
	}
}

func TestSubmitValidation(t *testing.T) {
	env := newTestEnv(t)
	cookies, _ := env.guest(t)

	cases := []struct {
		name string
		path string
		body SubmitRequest
		want int
	}{
		{"blank content", "/api/tasks/task-1/submit", SubmitRequest{Content: "   "}, http.StatusBadRequest},
		{"unknown task", "/api/tasks/task-99/submit", SubmitRequest{Content: "x"}, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec, out := env.do(t, http.MethodPost, tc.path, tc.body, cookies, nil)
			if rec.Code != tc.want || out["success"] != false {
				t.Fatalf("expected %d, got %d %v", tc.want, rec.Code, out)
			}
		})
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/api/user/profile", "/api/dashboard"} {
		rec, _ := env.do(t, http.MethodGet, path, nil, nil, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", path, rec.Code)
		}
	}
	rec, _ := env.do(t, http.MethodPost, "/api/tasks/task-1/submit", SubmitRequest{Content: "x"}, nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("submit: expected 401, got %d", rec.Code)
	}
}

func TestBearerTokenAuth(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.guest(t)
	bearer := http.Header{"Authorization": {"Bearer " + token}}

	rec, out := env.do(t, http.MethodGet, "/api/user/profile", nil, nil, bearer)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %v", rec.Code, out)
	}
	user := out["profile"].(map[string]interface{})["user"].(map[string]interface{})
	if user["username"] != session.GuestUsername {
		t.Fatalf("unexpected user %v", user)
	}

	// a later login replaces the single current user
	env.do(t, http.MethodPost, "/api/auth/login", LoginRequest{Email: "a@b.co", Password: "pw"}, nil, nil)
	rec, _ = env.do(t, http.MethodGet, "/api/user/profile", nil, nil, bearer)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("stale token must be rejected, got %d", rec.Code)
	}

	rec, _ = env.do(t, http.MethodGet, "/api/user/profile", nil, nil, http.Header{"Authorization": {"Token " + token}})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong scheme must be rejected, got %d", rec.Code)
	}
}

func TestLoginAndRegister(t *testing.T) {
	env := newTestEnv(t)

	rec, out := env.do(t, http.MethodPost, "/api/auth/login", LoginRequest{Email: "", Password: "pw"}, nil, nil)
	if rec.Code != http.StatusBadRequest || out["success"] != false {
		t.Fatalf("expected validation failure, got %d %v", rec.Code, out)
	}
	if _, ok := env.store.Current(); ok {
		t.Fatalf("failed login must not create a session")
	}

	rec, out = env.do(t, http.MethodPost, "/api/auth/register", RegisterRequest{Username: "maya", Email: "maya@example.com", Password: "pw"}, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("register: %d %v", rec.Code, out)
	}
	user := out["user"].(map[string]interface{})
	if user["username"] != "maya" || len(user["badges"].([]interface{})) != 1 {
		t.Fatalf("unexpected user %v", user)
	}
	if _, err := env.tokens.Parse(out["token"].(string)); err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	cookies, _ := env.guest(t)

	rec, _ := env.do(t, http.MethodPost, "/api/auth/logout", nil, cookies, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("logout: %d", rec.Code)
	}
	if _, ok := env.store.Current(); ok {
		t.Fatalf("store still holds a user")
	}
	rec, _ = env.do(t, http.MethodGet, "/api/user/profile", nil, cookies, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("old cookie must not authenticate after logout, got %d", rec.Code)
	}
}

func TestRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.guest(t)

	rec, out := env.do(t, http.MethodPost, "/api/auth/refresh", map[string]string{"token": token}, nil, nil)
	if rec.Code != http.StatusOK || out["token"] == "" {
		t.Fatalf("refresh: %d %v", rec.Code, out)
	}
	rec, _ = env.do(t, http.MethodPost, "/api/auth/refresh", map[string]string{"token": "garbage"}, nil, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a bad token, got %d", rec.Code)
	}
}

func TestLeaderboardShape(t *testing.T) {
	env := newTestEnv(t)
	env.guest(t)

	rec, out := env.do(t, http.MethodGet, "/api/leaderboard", nil, nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("leaderboard: %d", rec.Code)
	}
	if n := len(out["entries"].([]interface{})); n != 5 {
		t.Fatalf("expected seed plus viewer, got %d", n)
	}
	if n := len(out["podium"].([]interface{})); n != 3 {
		t.Fatalf("expected 3 on the podium, got %d", n)
	}
	stats := out["stats"].(map[string]interface{})
	if stats["totalParticipants"].(float64) != 5 {
		t.Fatalf("unexpected stats %v", stats)
	}
}

func TestTasksAndComments(t *testing.T) {
	env := newTestEnv(t)

	rec, out := env.do(t, http.MethodGet, "/api/tasks", nil, nil, nil)
	if rec.Code != http.StatusOK || len(out["tasks"].([]interface{})) != 4 {
		t.Fatalf("tasks: %d %v", rec.Code, out)
	}
	rec, _ = env.do(t, http.MethodGet, "/api/tasks/nope", nil, nil, nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	cookies, _ := env.guest(t)
	rec, out = env.do(t, http.MethodPost, "/api/submissions/sub-1/comments", CommentRequest{Content: "Nice hook"}, cookies, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("comment: %d %v", rec.Code, out)
	}
	_, out = env.do(t, http.MethodGet, "/api/submissions", nil, nil, nil)
	for _, s := range out["submissions"].([]interface{}) {
		sub := s.(map[string]interface{})
		if sub["id"] == "sub-1" && len(sub["comments"].([]interface{})) != 1 {
			t.Fatalf("comment not appended: %v", sub["comments"])
		}
	}
}

func TestSubmitWebSocket(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.guest(t)

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/submit"
	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Authorization": {"Bearer " + token}})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	read := func() map[string]interface{} {
		t.Helper()
		var msg map[string]interface{}
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		return msg
	}

	if err := conn.WriteJSON(SubmitRequest{TaskID: "task-2", Content: "balance thread"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if msg := read(); msg["status"] != "pending" {
		t.Fatalf("expected pending first, got %v", msg)
	}
	if msg := read(); msg["status"] != "scored" {
		t.Fatalf("expected scored, got %v", msg)
	}

	conn.WriteJSON(SubmitRequest{TaskID: "task-2", Content: "again"})
	read()
	if msg := read(); msg["status"] != "error" || msg["code"].(float64) != http.StatusConflict {
		t.Fatalf("expected conflict, got %v", msg)
	}
}

func TestSubmitLogsFailedSessionSave(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}
	env := newTestEnvWith(t, unsavableCookies{sessions.NewCookieStore([]byte("k"))}, log)

	// the guest login itself cannot set a cookie here, so authenticate by token
	rec, out := env.do(t, http.MethodPost, "/api/auth/guest", nil, nil, nil)
	if rec.Code == http.StatusOK {
		t.Fatalf("expected the cookie write to fail the login, got %v", out)
	}
	guest := env.store.LoginAsGuest(context.Background())
	token, err := env.tokens.Issue(guest)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	rec, out = env.do(t, http.MethodPost, "/api/tasks/task-1/submit", SubmitRequest{Content: "caption"}, nil,
		http.Header{"Authorization": {"Bearer " + token}})
	if rec.Code != http.StatusOK {
		t.Fatalf("submit: %d %v", rec.Code, out)
	}
	if logs.FilterMessage("failed to save completed task to session").Len() != 1 {
		t.Fatalf("expected a warning for the lost session write, got %v", logs.All())
	}
}

func TestWebSocketSubmitRejectedAfterUserSwitch(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.guest(t)

	srv := httptest.NewServer(env.router)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/submit"
	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Authorization": {"Bearer " + token}})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	env.do(t, http.MethodPost, "/api/auth/login", LoginRequest{Email: "bob@example.com", Password: "pw"}, nil, nil)

	if err := conn.WriteJSON(SubmitRequest{TaskID: "task-1", Content: "caption"}); err != nil {
		t.Fatalf("write: %v", err)
	}
	var msg map[string]interface{}
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	conn.ReadJSON(&msg) // pending
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg["status"] != "error" || msg["code"].(float64) != http.StatusUnauthorized {
		t.Fatalf("expected 401 error frame, got %v", msg)
	}
	bob, _ := env.store.Current()
	if bob.TotalPoints != 0 || bob.TasksCompleted != 0 {
		t.Fatalf("guest's submission credited to bob: %+v", bob)
	}
}
