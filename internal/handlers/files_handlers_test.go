package handlers

import (
	"bytes"
	"errors"
	"net"
	"net/http"
	"strings"
	"testing"

	"github.com/imgcatalog/backend/internal/storage"
)

type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestFilesUpload(t *testing.T) {
	t.Run("POST /api/files/upload stores image", func(t *testing.T) {
		env := setupTestEnv(t)

		resp := performMultipartRequest(t, env.app, http.MethodPost, "/api/files/upload", nil,
			multipartFile{field: "file", name: "banner.webp", contents: []byte("RIFFWEBP")})
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusOK)

		data := dataMap(t, body)
		fileName, _ := data["fileName"].(string)
		if !strings.HasSuffix(fileName, ".webp") {
			t.Fatalf("expected generated .webp name, got %q", fileName)
		}
		if data["fileUrl"] != "https://files.example.com/uploads/"+fileName {
			t.Fatalf("unexpected fileUrl %v", data["fileUrl"])
		}
		if data["fileSize"].(float64) != 8 {
			t.Fatalf("expected fileSize 8, got %v", data["fileSize"])
		}
		if data["message"] != "File uploaded successfully" {
			t.Fatalf("unexpected message %v", data["message"])
		}
	})

	t.Run("POST /api/files/upload oversized image makes no network call", func(t *testing.T) {
		env := setupTestEnv(t)

		resp := performMultipartRequest(t, env.app, http.MethodPost, "/api/files/upload", nil,
			multipartFile{field: "file", name: "huge.png", contents: bytes.Repeat([]byte{0x42}, 6*1000*1000)})
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusBadRequest)
		assertEnvelopeError(t, body, "image rejected: file exceeds the maximum allowed size")

		if got := env.store.connectCount(); got != 0 {
			t.Fatalf("expected no store calls, got %d", got)
		}
	})

	t.Run("POST /api/files/upload missing file", func(t *testing.T) {
		env := setupTestEnv(t)

		resp := performMultipartRequest(t, env.app, http.MethodPost, "/api/files/upload", map[string]string{"name": "x"})
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusBadRequest)
		assertEnvelopeError(t, body, "file is required")
	})

	testCases := []struct {
		name       string
		fileName   string
		connectErr error
		storeErr   error
		wantStatus int
	}{
		{name: "unsupported type", fileName: "notes.txt", wantStatus: http.StatusBadRequest},
		{name: "connection failure", fileName: "a.png", connectErr: &storage.ConnectionError{Address: "ftp:21", Err: errors.New("refused")}, wantStatus: http.StatusInternalServerError},
		{name: "transfer failure", fileName: "a.png", storeErr: &storage.TransferError{Path: "/srv/uploads/a.png", Status: "550 permission denied"}, wantStatus: http.StatusInternalServerError},
		{name: "timeout", fileName: "a.png", storeErr: &net.OpError{Op: "read", Err: timeoutError{}}, wantStatus: http.StatusGatewayTimeout},
		{name: "unknown failure", fileName: "a.png", storeErr: errors.New("connection reset"), wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run("POST /api/files/upload "+tc.name, func(t *testing.T) {
			env := setupTestEnv(t)
			env.store.fail(tc.connectErr, tc.storeErr)

			resp := performMultipartRequest(t, env.app, http.MethodPost, "/api/files/upload", nil,
				multipartFile{field: "file", name: tc.fileName, contents: []byte("data")})
			body := decodeJSONMap(t, resp)
			assertStatus(t, resp, tc.wantStatus)
			if success, _ := body["success"].(bool); success {
				t.Fatalf("expected failure envelope, got %+v", body)
			}
		})
	}
}
