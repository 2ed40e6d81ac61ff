package echoweb

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/adaptivin/adaptivin-admin/backend"
	"github.com/adaptivin/adaptivin-admin/core"
	"github.com/adaptivin/adaptivin-admin/core/admin"
	"github.com/adaptivin/adaptivin-admin/core/class"
	"github.com/adaptivin/adaptivin-admin/core/session"
	inmemcache "github.com/adaptivin/adaptivin-admin/storage/cache/inmem"
)

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	sess     *session.Session
	wantCode int
}

type nopLogger struct{}

func (nopLogger) Enable(bool)                  {}
func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

// captureEmailService records messages instead of sending them.
type captureEmailService struct {
	mu   sync.Mutex
	sent []*core.EmailMessage
}

func (svc *captureEmailService) SendMessages(messages ...*core.EmailMessage) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	svc.sent = append(svc.sent, messages...)
}

func newTestConfig(backendURL string) *core.Config {
	return &core.Config{
		TestMode:     true,
		AppName:      "Adaptivin Admin",
		ItemsPerPage: 10,
		Backend:      core.BackendConfig{BaseURL: backendURL, Timeout: 5 * time.Second},
		Server:       core.ServerConfig{Host: "localhost", Addr: ":0"},
		Session: core.SessionConfig{
			CookieMaxAge:       time.Hour,
			SplashCookieMaxAge: 30 * 24 * time.Hour,
		},
	}
}

func newTestTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

type testApp struct {
	server *Server
	store  *inmemcache.Cache
	email  *captureEmailService
	deps   ServerDeps
}

// newTestApp wires the full server against a fake backend.
func newTestApp(t *testing.T, backendHandler http.Handler) *testApp {
	t.Helper()

	fakeBackend := httptest.NewServer(backendHandler)
	t.Cleanup(fakeBackend.Close)

	conf := newTestConfig(fakeBackend.URL)
	logger := nopLogger{}

	validate := validator.New()
	translator := newTestTranslator()
	core.InitValidators(validate, translator)
	admin.InitValidators(validate, translator)
	class.InitValidators(validate, translator)

	store := inmemcache.New()

	client, err := backend.NewClient(conf, backend.TokenFunc(ContextTokenSource()), logger)
	if err != nil {
		t.Fatal(err)
	}

	email := &captureEmailService{}
	deps := ServerDeps{
		Conf:           conf,
		Logger:         logger,
		Sessions:       session.NewService(client, store, conf, logger),
		Backend:        client,
		Schools:        store,
		Classes:        store,
		Email:          email,
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
	}
	return &testApp{server: NewServer(deps), store: store, email: email, deps: deps}
}

// openSession seeds a logged-in session and returns it; requests carry it via
// withSessionCookies.
func (app *testApp) openSession(t *testing.T, adm admin.Admin) session.Session {
	t.Helper()
	sess := session.Session{ID: "sess-" + adm.Email, Admin: adm, Token: "token-" + adm.Email, CreatedAt: time.Now().UTC()}
	if err := app.store.PutSession(context.Background(), sess, time.Hour); err != nil {
		t.Fatal(err)
	}
	return sess
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
}

func newSessionRequest(method, path string, sess session.Session, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	req, rec := newRequest(method, path, data...)
	withSessionCookies(req, sess)
	return req, rec
}

func withSessionCookies(req *http.Request, sess session.Session) {
	req.AddCookie(&http.Cookie{Name: tokenCookie, Value: sess.Token})
	req.AddCookie(&http.Cookie{Name: roleCookie, Value: sess.Role()})
	req.AddCookie(&http.Cookie{Name: sessionCookie, Value: sess.ID})
}

// fakeEnvelope writes a backend-shaped response. status is rendered as the
// backend's textual verdict, the way the real API does.
func fakeEnvelope(w http.ResponseWriter, status int, data interface{}, message string) {
	verdict := "error"
	if status >= 200 && status < 300 {
		verdict = "success"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": status >= 200 && status < 300,
		"status":  verdict,
		"data":    data,
		"message": message,
	})
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func superadminAccount() admin.Admin {
	return admin.Admin{ID: 1, Name: "Super Admin", Email: "super@adaptivin.id", Role: admin.RoleSuperadmin}
}

func schoolAdminAccount() admin.Admin {
	return admin.Admin{ID: 2, Name: "Bu Sari", Email: "sari@adaptivin.id", Role: admin.RoleAdmin, SekolahID: 3}
}
