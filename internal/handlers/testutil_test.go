package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/imgcatalog/backend/internal/database"
	"github.com/imgcatalog/backend/internal/middleware"
	"github.com/imgcatalog/backend/internal/repository"
	"github.com/imgcatalog/backend/internal/services"
	"github.com/imgcatalog/backend/internal/storage"
	"github.com/imgcatalog/backend/pkg/logger"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testEnv struct {
	app   *fiber.App
	db    *gorm.DB
	store *fakeStore
}

// fakeStore stands in for the remote object store and counts every call.
type fakeStore struct {
	mu         sync.Mutex
	connectErr error
	storeErr   error
	connects   int
	stores     int
	stored     map[string][]byte
}

func (f *fakeStore) Name() string { return "fake" }

func (f *fakeStore) Connect(ctx context.Context) (storage.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connects++
	if f.connectErr != nil {
		return nil, f.connectErr
	}
	return &fakeSession{store: f}, nil
}

func (f *fakeStore) fail(connectErr, storeErr error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connectErr = connectErr
	f.storeErr = storeErr
}

func (f *fakeStore) connectCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connects
}

type fakeSession struct {
	store *fakeStore
}

func (s *fakeSession) Store(ctx context.Context, remotePath string, reader io.Reader, size int64) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	s.store.stores++
	if s.store.storeErr != nil {
		return s.store.storeErr
	}
	s.store.stored[remotePath] = data
	return nil
}

func (s *fakeSession) Close() error { return nil }

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger.SetOutput(nil)

	db, err := gorm.Open(sqlite.Open(database.SQLiteDSN(":memory:")), &gorm.Config{Logger: gormlogger.Discard, NowFunc: database.NowUTC})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed automigrating models: %v", err)
	}

	store := &fakeStore{stored: map[string][]byte{}}
	uploads := services.NewUploadService(store, services.UploadConfig{
		Host:       "files.example.com",
		PublicPath: "uploads",
		BasePath:   "/srv/uploads",
	})
	users := services.NewUserService(repository.NewUserRepository(db), uploads)

	app := fiber.New(fiber.Config{BodyLimit: 20 * 1024 * 1024})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS("*"))
	app.Use(middleware.RequestLogger())

	Routes{
		Categories: NewCategoriesHandler(repository.NewCategoryRepository(db)),
		Products:   NewProductsHandler(repository.NewProductRepository(db)),
		Users:      NewUsersHandler(users),
		Files:      NewFilesHandler(uploads),
	}.Register(app)

	return &testEnv{app: app, db: db, store: store}
}

func performRequest(t *testing.T, app *fiber.App, method, path string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := app.Test(req, int((10 * time.Second).Milliseconds()))
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}

	return resp
}

func performJSONRequest(t *testing.T, app *fiber.App, method, path string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	headers := map[string]string{}
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
		headers["Content-Type"] = "application/json"
	}

	return performRequest(t, app, method, path, body, headers)
}

type multipartFile struct {
	field    string
	name     string
	contents []byte
}

func performMultipartRequest(t *testing.T, app *fiber.App, method, path string, fields map[string]string, files ...multipartFile) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("failed writing field %s: %v", key, err)
		}
	}
	for _, file := range files {
		part, err := writer.CreateFormFile(file.field, file.name)
		if err != nil {
			t.Fatalf("failed creating form file: %v", err)
		}
		if _, err := part.Write(file.contents); err != nil {
			t.Fatalf("failed writing form file: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed closing multipart writer: %v", err)
	}

	return performRequest(t, app, method, path, &buf, map[string]string{
		"Content-Type": writer.FormDataContentType(),
	})
}

func decodeJSONMap(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed reading response body: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("failed decoding JSON response: %v body=%q", err, string(raw))
	}

	return payload
}

func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected status %d, got %d body=%q", expected, resp.StatusCode, string(raw))
	}
}

func assertEnvelopeError(t *testing.T, body map[string]any, expected string) {
	t.Helper()
	if success, _ := body["success"].(bool); success {
		t.Fatalf("expected success=false, got %+v", body)
	}
	if got, _ := body["error"].(string); got != expected {
		t.Fatalf("expected error %q, got %q", expected, got)
	}
}

func dataMap(t *testing.T, body map[string]any) map[string]any {
	t.Helper()
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected object data, got %+v", body)
	}
	return data
}

func dataList(t *testing.T, body map[string]any) []any {
	t.Helper()
	data, ok := body["data"].([]any)
	if !ok {
		t.Fatalf("expected list data, got %+v", body)
	}
	return data
}
