package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"studentadmin/internal/activity"
	"studentadmin/internal/auth"
	"studentadmin/internal/config"
	"studentadmin/internal/realtime"
	"studentadmin/internal/student"
)

const testSecret = "test-secret"

type fakeAuthService struct {
	registerErr error
	loginErr    error
}

func (f *fakeAuthService) Register(context.Context, string, string, string, string, string) (int64, error) {
	if f.registerErr != nil {
		return 0, f.registerErr
	}
	return 12, nil
}

func (f *fakeAuthService) Login(_ context.Context, username, _ string) (auth.Session, error) {
	if f.loginErr != nil {
		return auth.Session{}, f.loginErr
	}
	return auth.Session{
		Token: "issued-token",
		User:  auth.User{ID: 12, Username: username, NamaLengkap: "Budi Santoso", Role: "pegawai"},
	}, nil
}

type fakeStudentService struct {
	records   []student.Record
	createErr error
	updateErr error
	deleteErr error
	photoErr  error
}

func (f *fakeStudentService) List(context.Context) ([]student.Record, error) {
	return f.records, nil
}

func (f *fakeStudentService) Create(_ context.Context, _ string, _ int64, fields student.Fields) (student.Record, error) {
	if f.createErr != nil {
		return student.Record{}, f.createErr
	}
	return student.Record{ID: 1, Nama: fields.Nama, TTL: fields.TTL, Status: student.StatusAktif, UpdatedAt: time.Now()}, nil
}

func (f *fakeStudentService) Update(_ context.Context, _ string, id int64, fields student.Fields) (student.Record, error) {
	if f.updateErr != nil {
		return student.Record{}, f.updateErr
	}
	return student.Record{ID: id, Nama: fields.Nama, TTL: fields.TTL, Status: fields.Status}, nil
}

func (f *fakeStudentService) Delete(context.Context, string, int64) error {
	return f.deleteErr
}

func (f *fakeStudentService) AttachPhoto(_ context.Context, _ string, id int64, _ string, _ io.Reader) (student.Record, error) {
	if f.photoErr != nil {
		return student.Record{}, f.photoErr
	}
	return student.Record{ID: id, Nama: "Ani", FotoURL: "/uploads/student-1-x.jpg"}, nil
}

type fakeLogLister struct {
	entries []activity.Entry
}

func (f *fakeLogLister) ListRecent(context.Context, int) ([]activity.Entry, error) {
	return f.entries, nil
}

func newTestRouter(t *testing.T, authSvc AuthService, students StudentService, logs LogLister) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return NewRouter(Deps{
		Cfg: config.App{
			FrontendOrigin:  "http://localhost:3000",
			JWTSecret:       testSecret,
			UploadDir:       t.TempDir(),
			UploadPublicURL: "/uploads",
			LoginRatePerMin: 100,
		},
		Log:      zap.NewNop(),
		Auth:     authSvc,
		Students: students,
		Logs:     logs,
		Hub:      realtime.NewHub(nil),
	})
}

func bearerToken(t *testing.T) string {
	t.Helper()
	token, _, err := auth.IssueToken(12, "budi", "pegawai", testSecret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + token
}

func doJSON(r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, &fakeAuthService{}, &fakeStudentService{}, &fakeLogLister{})
	w := doJSON(r, http.MethodGet, "/api/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"OK"`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestStudentsRequireToken(t *testing.T) {
	r := newTestRouter(t, &fakeAuthService{}, &fakeStudentService{}, &fakeLogLister{})

	if w := doJSON(r, http.MethodGet, "/api/students", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: status = %d", w.Code)
	}
	if w := doJSON(r, http.MethodGet, "/api/students", "Bearer bogus", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: status = %d", w.Code)
	}
	if w := doJSON(r, http.MethodGet, "/api/students", bearerToken(t), nil); w.Code != http.StatusOK {
		t.Fatalf("valid token: status = %d", w.Code)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	r := newTestRouter(t, &fakeAuthService{registerErr: auth.ErrDuplicateUsername}, &fakeStudentService{}, &fakeLogLister{})
	w := doJSON(r, http.MethodPost, "/api/auth/register", "",
		map[string]string{"username": "budi", "password": "rahasia", "nama_lengkap": "Budi"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestRegisterCreated(t *testing.T) {
	r := newTestRouter(t, &fakeAuthService{}, &fakeStudentService{}, &fakeLogLister{})
	w := doJSON(r, http.MethodPost, "/api/auth/register", "",
		map[string]string{"username": "budi", "password": "rahasia", "nama_lengkap": "Budi"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d", w.Code)
	}
	var out struct {
		UserID int64 `json:"userId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.UserID != 12 {
		t.Fatalf("userId = %d", out.UserID)
	}
}

func TestLoginInvalidCredentialShape(t *testing.T) {
	r := newTestRouter(t, &fakeAuthService{loginErr: auth.ErrInvalidCredentials}, &fakeStudentService{}, &fakeLogLister{})

	wrongPass := doJSON(r, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "budi", "password": "x"})
	unknownUser := doJSON(r, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "ghost", "password": "x"})

	if wrongPass.Code != http.StatusUnauthorized || unknownUser.Code != http.StatusUnauthorized {
		t.Fatalf("codes = %d, %d", wrongPass.Code, unknownUser.Code)
	}
	if wrongPass.Body.String() != unknownUser.Body.String() {
		t.Fatal("error shapes differ between wrong password and unknown user")
	}
}

func TestLoginSuccessShape(t *testing.T) {
	r := newTestRouter(t, &fakeAuthService{}, &fakeStudentService{}, &fakeLogLister{})
	w := doJSON(r, http.MethodPost, "/api/auth/login", "", map[string]string{"username": "budi", "password": "rahasia"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var out struct {
		Token string `json:"token"`
		User  struct {
			Username    string `json:"username"`
			NamaLengkap string `json:"nama_lengkap"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Token == "" || out.User.NamaLengkap != "Budi Santoso" {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestCreateStudent(t *testing.T) {
	r := newTestRouter(t, &fakeAuthService{}, &fakeStudentService{}, &fakeLogLister{})
	w := doJSON(r, http.MethodPost, "/api/students", bearerToken(t),
		map[string]string{"nama": "Ani", "ttl": "Jakarta, 2005-01-01"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var out struct {
		Success bool `json:"success"`
		Data    struct {
			ID     int64  `json:"id"`
			Status string `json:"status"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if !out.Success || out.Data.ID == 0 || out.Data.Status != student.StatusAktif {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestCreateStudentValidation(t *testing.T) {
	r := newTestRouter(t, &fakeAuthService{}, &fakeStudentService{createErr: student.ErrValidation}, &fakeLogLister{})
	w := doJSON(r, http.MethodPost, "/api/students", bearerToken(t), map[string]string{"nama": "Ani"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestUpdateStudentNotFound(t *testing.T) {
	r := newTestRouter(t, &fakeAuthService{}, &fakeStudentService{updateErr: student.ErrNotFound}, &fakeLogLister{})
	w := doJSON(r, http.MethodPut, "/api/students/99", bearerToken(t),
		map[string]string{"nama": "Ani", "ttl": "Jakarta"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestDeleteStudent(t *testing.T) {
	r := newTestRouter(t, &fakeAuthService{}, &fakeStudentService{}, &fakeLogLister{})
	w := doJSON(r, http.MethodDelete, "/api/students/1", bearerToken(t), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "berhasil dihapus") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestDeleteStudentNotFound(t *testing.T) {
	r := newTestRouter(t, &fakeAuthService{}, &fakeStudentService{deleteErr: student.ErrNotFound}, &fakeLogLister{})
	w := doJSON(r, http.MethodDelete, "/api/students/99", bearerToken(t), nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestUploadPhotoNoFile(t *testing.T) {
	r := newTestRouter(t, &fakeAuthService{}, &fakeStudentService{}, &fakeLogLister{})
	req := httptest.NewRequest(http.MethodPost, "/api/students/1/upload-foto", strings.NewReader(""))
	req.Header.Set("Authorization", bearerToken(t))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestUploadPhoto(t *testing.T) {
	r := newTestRouter(t, &fakeAuthService{}, &fakeStudentService{}, &fakeLogLister{})

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("foto_profil", "foto.jpg")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte("jpegdata")); err != nil {
		t.Fatal(err)
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/students/1/upload-foto", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", bearerToken(t))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "/uploads/") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestLogsEndpoint(t *testing.T) {
	logs := &fakeLogLister{entries: []activity.Entry{
		{ID: 2, UserName: "budi", Action: "DELETE", EntityID: 1, Details: "Menghapus siswa: 'Ani' (ID: 1)", CreatedAt: time.Now()},
		{ID: 1, UserName: "budi", Action: "CREATE", EntityID: 1, Details: "Membuat siswa baru: 'Ani' (ID: 1)", CreatedAt: time.Now().Add(-time.Minute)},
	}}
	r := newTestRouter(t, &fakeAuthService{}, &fakeStudentService{}, logs)
	w := doJSON(r, http.MethodGet, "/api/logs", bearerToken(t), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var out []activity.Entry
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 || out[0].Action != "DELETE" {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestListEmptyIsArray(t *testing.T) {
	r := newTestRouter(t, &fakeAuthService{}, &fakeStudentService{}, &fakeLogLister{})
	w := doJSON(r, http.MethodGet, "/api/students", bearerToken(t), nil)
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("empty list should encode as [], got %s", w.Body.String())
	}
}

type fakeRedisHealth bool

func (f fakeRedisHealth) Healthy(context.Context) bool { return bool(f) }

func newRedisTestRouter(t *testing.T, redis HealthChecker) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return NewRouter(Deps{
		Cfg: config.App{
			FrontendOrigin:  "http://localhost:3000",
			JWTSecret:       testSecret,
			UploadDir:       t.TempDir(),
			UploadPublicURL: "/uploads",
			LoginRatePerMin: 100,
		},
		Log:      zap.NewNop(),
		Auth:     &fakeAuthService{},
		Students: &fakeStudentService{},
		Logs:     &fakeLogLister{},
		Hub:      realtime.NewHub(nil),
		Redis:    redis,
	})
}

func TestHealthChecksRedisWhenConfigured(t *testing.T) {
	r := newRedisTestRouter(t, fakeRedisHealth(false))
	w := doJSON(r, http.MethodGet, "/api/health", "", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d with unreachable redis", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Realtime backend unreachable") {
		t.Fatalf("body = %s", w.Body.String())
	}

	r = newRedisTestRouter(t, fakeRedisHealth(true))
	if w := doJSON(r, http.MethodGet, "/api/health", "", nil); w.Code != http.StatusOK {
		t.Fatalf("status = %d with reachable redis", w.Code)
	}
}

func TestSocketTokenStaysOutOfAccessLog(t *testing.T) {
	var buf bytes.Buffer
	old := gin.DefaultWriter
	gin.DefaultWriter = &buf
	defer func() { gin.DefaultWriter = old }()

	r := newTestRouter(t, &fakeAuthService{}, &fakeStudentService{}, &fakeLogLister{})
	req := httptest.NewRequest(http.MethodGet, "/ws?token=rahasia-sesi", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if strings.Contains(buf.String(), "rahasia-sesi") {
		t.Fatalf("access log contains the session token: %s", buf.String())
	}
}
