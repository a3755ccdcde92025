package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onelink/portfolio-api/internal/db"
	"github.com/onelink/portfolio-api/internal/ingestion"
	"github.com/onelink/portfolio-api/internal/logging"
	"github.com/onelink/portfolio-api/internal/server/ratelimit"
	"github.com/onelink/portfolio-api/internal/textextract"
	"github.com/onelink/portfolio-api/internal/types"
)

const testMaxUpload = 1 << 20

type testServer struct {
	handler http.Handler
	db      *fakeDB
	resumes *fakeResumes
	jwt     *JWTService
}

func newTestServer(t *testing.T, limiter *ratelimit.Limiter) *testServer {
	t.Helper()
	fdb := newFakeDB()
	fr := newFakeResumes()
	jwtSvc := setupTestJWTService(t, 24)
	if limiter == nil {
		limiter = ratelimit.NewLimiter(&ratelimit.Config{Enabled: false})
	}
	s := New(Config{Port: 0, MaxUploadBytes: testMaxUpload}, Deps{
		Users:     fdb,
		DB:        fdb,
		Resumes:   fr,
		JWT:       jwtSvc,
		Passwords: testPasswordConfig(),
		Limiter:   limiter,
		Logger:    logging.Discard(),
	})
	return &testServer{handler: s.Routes(), db: fdb, resumes: fr, jwt: jwtSvc}
}

func (ts *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, req)
	return w
}

// login seeds a user and returns its ID and a bearer token.
func (ts *testServer) login(t *testing.T) (uuid.UUID, string) {
	t.Helper()
	id := ts.db.seed(fmt.Sprintf("user-%s@example.com", uuid.NewString()[:8]), "password123")
	token, err := ts.jwt.GenerateToken(id)
	require.NoError(t, err)
	return id, token
}

func authed(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func multipartBody(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func uploadRequest(t *testing.T, field, filename, contentType string, data []byte) *http.Request {
	body, ct := multipartBody(t, field, filename, contentType, data)
	req := httptest.NewRequest(http.MethodPost, "/resume/upload", body)
	req.Header.Set("Content-Type", ct)
	return req
}

func TestRootEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)
	w := ts.do(httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"OneLink Portfolio API"}`, w.Body.String())
}

func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","database":"ok"}`, w.Body.String())

	ts.db.pingErr = errors.New("connection refused")
	w = ts.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "unreachable")
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.do(httptest.NewRequest(http.MethodGet, "/", nil))

	w := ts.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "onelink_http_requests_total")
}

func TestProtectedRoutes_RequireBearer(t *testing.T) {
	ts := newTestServer(t, nil)
	routes := []struct{ method, path string }{
		{http.MethodGet, "/users/me"},
		{http.MethodPut, "/users/me"},
		{http.MethodDelete, "/users/me"},
		{http.MethodPut, "/users/me/password"},
		{http.MethodPost, "/resume/upload"},
		{http.MethodGet, "/resume/text"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			w := ts.do(httptest.NewRequest(rt.method, rt.path, nil))
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
			assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
		})
	}

	w := ts.do(authed(httptest.NewRequest(http.MethodGet, "/users/me", nil), "not-a-jwt"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterThenGetMe(t *testing.T) {
	ts := newTestServer(t, nil)

	w := ts.do(jsonRequest(t, http.MethodPost, "/auth/register", map[string]string{
		"name": "Jane Doe", "email": "jane@example.com", "password": "password123",
	}))
	require.Equal(t, http.StatusCreated, w.Code)
	var login types.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	w = ts.do(authed(httptest.NewRequest(http.MethodGet, "/users/me", nil), login.Token))
	require.Equal(t, http.StatusOK, w.Code)
	var me types.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	assert.Equal(t, login.User.ID, me.ID)
	assert.False(t, me.HasResume)
}

func TestUpdateMe(t *testing.T) {
	ts := newTestServer(t, nil)
	_, token := ts.login(t)

	w := ts.do(authed(jsonRequest(t, http.MethodPut, "/users/me", map[string]string{"name": "New Name"}), token))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"New Name"`)

	w = ts.do(authed(jsonRequest(t, http.MethodPut, "/users/me", map[string]string{}), token))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = ts.do(authed(jsonRequest(t, http.MethodPut, "/users/me", map[string]string{"email": "bad"}), token))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteMe(t *testing.T) {
	ts := newTestServer(t, nil)
	id, token := ts.login(t)

	w := ts.do(authed(httptest.NewRequest(http.MethodDelete, "/users/me", nil), token))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []uuid.UUID{id}, ts.resumes.forgotten)

	w = ts.do(authed(httptest.NewRequest(http.MethodGet, "/users/me", nil), token))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResumeUpload(t *testing.T) {
	ts := newTestServer(t, nil)
	id, token := ts.login(t)

	w := ts.do(authed(uploadRequest(t, "file", "cv.pdf", textextract.MediaTypePDF, []byte("%PDF-1.4")), token))
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.UploadResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Resume cv.pdf uploaded successfully", resp.Message)
	assert.Equal(t, []string{"Python"}, resp.ParsedData.Skills)
	assert.NotNil(t, resp.ParsedData.Education)

	require.Len(t, ts.resumes.uploads, 1)
	up := ts.resumes.uploads[0]
	assert.Equal(t, textextract.MediaTypePDF, up.ContentType)
	assert.Equal(t, "cv.pdf", up.Filename)
	assert.Equal(t, []byte("%PDF-1.4"), up.Data)

	w = ts.do(authed(httptest.NewRequest(http.MethodGet, "/resume/text", nil), token))
	require.Equal(t, http.StatusOK, w.Code)
	var text types.ResumeTextResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &text))
	assert.Equal(t, ts.resumes.texts[id], text.ResumeText)
}

func TestResumeUpload_Errors(t *testing.T) {
	t.Run("missing file field", func(t *testing.T) {
		ts := newTestServer(t, nil)
		_, token := ts.login(t)

		w := ts.do(authed(uploadRequest(t, "attachment", "cv.pdf", textextract.MediaTypePDF, []byte("x")), token))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, ts.resumes.uploads)
	})

	t.Run("not multipart", func(t *testing.T) {
		ts := newTestServer(t, nil)
		_, token := ts.login(t)

		w := ts.do(authed(jsonRequest(t, http.MethodPost, "/resume/upload", map[string]string{}), token))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unsupported type", func(t *testing.T) {
		ts := newTestServer(t, nil)
		_, token := ts.login(t)
		ts.resumes.ingestErr = fmt.Errorf("%w: text/plain", ingestion.ErrUnsupportedMediaType)

		w := ts.do(authed(uploadRequest(t, "file", "cv.txt", "text/plain", []byte("hi")), token))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"error":"Only PDF and DOCX files are supported"}`, w.Body.String())
	})

	t.Run("persistence failure", func(t *testing.T) {
		ts := newTestServer(t, nil)
		_, token := ts.login(t)
		ts.resumes.ingestErr = &ingestion.PersistenceError{UserID: uuid.New(), Err: errors.New("db down")}

		w := ts.do(authed(uploadRequest(t, "file", "cv.pdf", textextract.MediaTypePDF, []byte("x")), token))
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
	})

	t.Run("account deleted after login", func(t *testing.T) {
		ts := newTestServer(t, nil)
		id, token := ts.login(t)
		ts.resumes.ingestErr = &ingestion.PersistenceError{UserID: id, Err: fmt.Errorf("failed to update resume: %w", db.ErrNotFound)}

		w := ts.do(authed(uploadRequest(t, "file", "cv.pdf", textextract.MediaTypePDF, []byte("x")), token))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error":"User not found"}`, w.Body.String())
	})

	t.Run("declared length too large", func(t *testing.T) {
		ts := newTestServer(t, nil)
		_, token := ts.login(t)

		data := bytes.Repeat([]byte("a"), testMaxUpload+1)
		w := ts.do(authed(uploadRequest(t, "file", "cv.pdf", textextract.MediaTypePDF, data), token))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Empty(t, ts.resumes.uploads)
	})

	t.Run("streamed body too large", func(t *testing.T) {
		ts := newTestServer(t, nil)
		_, token := ts.login(t)

		data := bytes.Repeat([]byte("a"), testMaxUpload+1)
		req := uploadRequest(t, "file", "cv.pdf", textextract.MediaTypePDF, data)
		req.ContentLength = -1
		w := ts.do(authed(req, token))
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Empty(t, ts.resumes.uploads)
	})
}

func TestResumeText_Empty(t *testing.T) {
	ts := newTestServer(t, nil)
	_, token := ts.login(t)

	w := ts.do(authed(httptest.NewRequest(http.MethodGet, "/resume/text", nil), token))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"resume_text":""}`, w.Body.String())
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := ts.do(req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestCORS_AllowList(t *testing.T) {
	s := New(Config{CORSAllowedOrigins: []string{"https://onelink.example"}}, Deps{
		Users:     newFakeDB(),
		JWT:       setupTestJWTService(t, 24),
		Passwords: testPasswordConfig(),
		Logger:    logging.Discard(),
	})
	h := s.Routes()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://onelink.example")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "https://onelink.example", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimit(t *testing.T) {
	limiter := ratelimit.NewLimiter(&ratelimit.Config{
		Enabled:       true,
		DefaultLimit:  300,
		DefaultWindow: time.Minute,
		EndpointConfigs: []ratelimit.EndpointConfig{
			{Class: ratelimit.ClassAuth, Path: "/auth/", Method: http.MethodPost, Limit: 1, Window: time.Minute, Burst: 1},
		},
	})
	defer limiter.Stop()
	ts := newTestServer(t, limiter)

	body := map[string]string{"email": "nobody@example.com", "password": "password123"}
	w := ts.do(jsonRequest(t, http.MethodPost, "/auth/login", body))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))

	w = ts.do(jsonRequest(t, http.MethodPost, "/auth/login", body))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.True(t, strings.Contains(w.Body.String(), "Rate limit exceeded"))

	// Health is never limited.
	for range 3 {
		w = ts.do(httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestNotFound(t *testing.T) {
	ts := newTestServer(t, nil)
	w := ts.do(httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, w.Body.String())
}
