package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/semla/internal/app"
	"github.com/shrimpsizemoose/semla/internal/session"
	"github.com/shrimpsizemoose/semla/internal/store/sqlite"
)

func newTestService(t *testing.T, policy string) *app.Service {
	st, err := sqlite.NewSQLiteStore(":memory:")
	require.NoError(t, err, "Failed to create store")
	require.NoError(t, st.ApplyMigrations("../../migrations"), "Failed to apply migrations")

	cfg := &app.Config{}
	cfg.Server.Port = ":0"
	cfg.Sessions.Secret = "test-secret"
	cfg.Sessions.CookieName = "semla_session"
	cfg.Sessions.TTLMinutes = 5
	cfg.Auth.OnUnauthorized = policy

	service := &app.Service{
		Config:   cfg,
		Store:    st,
		Sessions: session.NewMemoryStore(5 * time.Minute),
		Codec:    session.NewCodec(cfg.Sessions.Secret),
	}
	t.Cleanup(func() {
		require.NoError(t, service.Close())
	})

	return service
}

func newTestMux(service *app.Service) *http.ServeMux {
	h := NewPageHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.HandleListStudents)
	mux.HandleFunc("POST /add", h.HandleAddStudent)
	mux.HandleFunc("GET /delete/{id}", h.HandleDeleteStudent)
	mux.HandleFunc("GET /edit/{id}", h.HandleEditForm)
	mux.HandleFunc("POST /edit/{id}", h.HandleEditStudent)
	mux.HandleFunc("GET /register", h.HandleRegisterForm)
	mux.HandleFunc("POST /register", h.HandleRegister)
	mux.HandleFunc("GET /login", h.HandleLoginForm)
	mux.HandleFunc("POST /login", h.HandleLogin)
	mux.HandleFunc("GET /logout", h.HandleLogout)
	return mux
}

func sessionCookie(t *testing.T, service *app.Service, username string) *http.Cookie {
	token, err := service.Sessions.Create(context.Background(), username)
	require.NoError(t, err)

	return &http.Cookie{
		Name:  service.Config.Sessions.CookieName,
		Value: service.Codec.Encode(token),
	}
}

func doForm(mux *http.ServeMux, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func doGet(mux *http.ServeMux, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func TestGuardPolicies(t *testing.T) {
	t.Run("redirect policy sends to login", func(t *testing.T) {
		service := newTestService(t, app.PolicyRedirect)
		mux := newTestMux(service)

		w := doGet(mux, "/", nil)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	})

	t.Run("reject policy answers 403", func(t *testing.T) {
		service := newTestService(t, app.PolicyReject)
		mux := newTestMux(service)

		w := doGet(mux, "/", nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("tampered cookie is unauthorized", func(t *testing.T) {
		service := newTestService(t, app.PolicyReject)
		mux := newTestMux(service)

		w := doGet(mux, "/", &http.Cookie{
			Name:  service.Config.Sessions.CookieName,
			Value: "sess-smla-forged.deadbeef",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestRegisterAndLoginFlow(t *testing.T) {
	service := newTestService(t, app.PolicyRedirect)
	mux := newTestMux(service)

	t.Run("register", func(t *testing.T) {
		w := doForm(mux, "/register", url.Values{
			"username": {"teacher"},
			"password": {"hunter2"},
		}, nil)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
	})

	t.Run("duplicate register", func(t *testing.T) {
		w := doForm(mux, "/register", url.Values{
			"username": {"teacher"},
			"password": {"otherpass"},
		}, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "Username is already taken")
	})

	t.Run("register without password", func(t *testing.T) {
		w := doForm(mux, "/register", url.Values{"username": {"ghost"}}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Username and password are required")
	})

	t.Run("login wrong password shows one generic notice", func(t *testing.T) {
		w := doForm(mux, "/login", url.Values{
			"username": {"teacher"},
			"password": {"wrong"},
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid username or password")
	})

	t.Run("login unknown user shows the same notice", func(t *testing.T) {
		w := doForm(mux, "/login", url.Values{
			"username": {"nobody"},
			"password": {"wrong"},
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid username or password")
	})

	t.Run("login and use the session", func(t *testing.T) {
		w := doForm(mux, "/login", url.Values{
			"username": {"teacher"},
			"password": {"hunter2"},
		}, nil)
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))

		cookies := w.Result().Cookies()
		require.NotEmpty(t, cookies)

		listing := doGet(mux, "/", cookies[0])
		assert.Equal(t, http.StatusOK, listing.Code)
		assert.Contains(t, listing.Body.String(), "Signed in as <b>teacher</b>")
	})

	t.Run("logout destroys the session", func(t *testing.T) {
		cookie := sessionCookie(t, service, "teacher")

		w := doGet(mux, "/logout", cookie)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))

		after := doGet(mux, "/", cookie)
		assert.Equal(t, http.StatusSeeOther, after.Code)
	})
}

func TestStudentCRUDScenario(t *testing.T) {
	service := newTestService(t, app.PolicyRedirect)
	mux := newTestMux(service)
	cookie := sessionCookie(t, service, "teacher")

	t.Run("create Ana", func(t *testing.T) {
		w := doForm(mux, "/add", url.Values{
			"name":  {"Ana"},
			"age":   {"20"},
			"grade": {"A"},
		}, cookie)
		require.Equal(t, http.StatusSeeOther, w.Code)

		listing := doGet(mux, "/", cookie)
		body := listing.Body.String()
		assert.Contains(t, body, "Ana")
		assert.Contains(t, body, "<td>20</td>")
		assert.Contains(t, body, "<td>A</td>")
	})

	t.Run("missing name is rejected with a notice", func(t *testing.T) {
		w := doForm(mux, "/add", url.Values{
			"name":  {""},
			"age":   {"20"},
			"grade": {"A"},
		}, cookie)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "All fields are required")

		students, err := service.Store.ListStudents()
		require.NoError(t, err)
		assert.Len(t, students, 1)
	})

	t.Run("non-numeric age is rejected", func(t *testing.T) {
		w := doForm(mux, "/add", url.Values{
			"name":  {"Bo"},
			"age":   {"abc"},
			"grade": {"B"},
		}, cookie)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Age must be a number")
	})

	t.Run("out-of-range age is rejected", func(t *testing.T) {
		w := doForm(mux, "/add", url.Values{
			"name":  {"Cy"},
			"age":   {"200"},
			"grade": {"C"},
		}, cookie)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Age must be between 1 and 150")
	})

	t.Run("edit form is pre-filled", func(t *testing.T) {
		w := doGet(mux, "/edit/1", cookie)
		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, `value="Ana"`)
		assert.Contains(t, body, `value="20"`)
		assert.Contains(t, body, `value="A"`)
	})

	t.Run("edit applies a full-row update", func(t *testing.T) {
		w := doForm(mux, "/edit/1", url.Values{
			"name":  {"Ana Maria"},
			"age":   {"21"},
			"grade": {"B"},
		}, cookie)
		require.Equal(t, http.StatusSeeOther, w.Code)

		got, err := service.Store.GetStudent(1)
		require.NoError(t, err)
		assert.Equal(t, "Ana Maria", got.Name)
		assert.Equal(t, 21, got.Age)
		assert.Equal(t, "B", got.Grade)
	})

	t.Run("edit of missing student shows not found", func(t *testing.T) {
		w := doGet(mux, "/edit/999", cookie)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Student not found")

		post := doForm(mux, "/edit/999", url.Values{
			"name":  {"Ghost"},
			"age":   {"30"},
			"grade": {"F"},
		}, cookie)
		assert.Equal(t, http.StatusNotFound, post.Code)

		students, err := service.Store.ListStudents()
		require.NoError(t, err)
		assert.Len(t, students, 1)
	})

	t.Run("delete empties the listing", func(t *testing.T) {
		w := doGet(mux, "/delete/1", cookie)
		require.Equal(t, http.StatusSeeOther, w.Code)

		students, err := service.Store.ListStudents()
		require.NoError(t, err)
		assert.Empty(t, students)
	})

	t.Run("delete of missing id still redirects", func(t *testing.T) {
		w := doGet(mux, "/delete/999", cookie)
		assert.Equal(t, http.StatusSeeOther, w.Code)
	})

	t.Run("mutations without a session are redirected", func(t *testing.T) {
		w := doForm(mux, "/add", url.Values{
			"name":  {"Eve"},
			"age":   {"20"},
			"grade": {"A"},
		}, nil)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))

		students, err := service.Store.ListStudents()
		require.NoError(t, err)
		assert.Empty(t, students)
	})
}
