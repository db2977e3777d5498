package server

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func doUpload(t *testing.T, srv *Server, token, filename string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, "file", filename, content)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestUpload_PNG(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "alice@example.com", "pw123456")

	rec := doUpload(t, srv, token, "receipt.png", pngBytes(t))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp uploadResponse
	decodeBody(t, rec, &resp)
	assert.Equal(t, "image/png", resp.ContentType)
	assert.True(t, strings.HasPrefix(resp.URL, "/uploads/"))
	assert.True(t, strings.HasSuffix(resp.Filename, ".png"))
	assert.Greater(t, resp.Size, int64(0))

	// The stored file is served back.
	get := doRequest(t, srv, http.MethodGet, resp.URL, "", nil)
	assert.Equal(t, http.StatusOK, get.Code)
}

func TestUpload_SniffsTypeNotExtension(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "alice@example.com", "pw123456")

	// PNG bytes behind a lying extension still store as .png.
	rec := doUpload(t, srv, token, "receipt.exe", pngBytes(t))
	require.Equal(t, http.StatusCreated, rec.Code)
	var resp uploadResponse
	decodeBody(t, rec, &resp)
	assert.True(t, strings.HasSuffix(resp.Filename, ".png"))

	// Text wearing a .png extension is rejected.
	rec = doUpload(t, srv, token, "notes.png", []byte("just some plain text, not an image"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpload_MissingFile(t *testing.T) {
	srv := newTestServer(t)
	token := registerUser(t, srv, "alice@example.com", "pw123456")

	body, contentType := multipartBody(t, "wrongfield", "a.png", pngBytes(t))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpload_TooLarge(t *testing.T) {
	srv := newTestServer(t)
	srv.app.Config.Upload.MaxSizeMB = 1
	token := registerUser(t, srv, "alice@example.com", "pw123456")

	// Valid PNG header followed by >1MB of padding.
	content := append(pngBytes(t), make([]byte, 2<<20)...)
	rec := doUpload(t, srv, token, "big.png", content)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTruncateUTF8(t *testing.T) {
	assert.Equal(t, "short", truncateUTF8("short", 10))
	assert.Equal(t, "exact", truncateUTF8("exact", 5))
	assert.Equal(t, "abc", truncateUTF8("abcdef", 3))

	// A cut landing inside a multi-byte rune backs off to the previous
	// rune boundary instead of emitting invalid UTF-8.
	s := "café receipt" // é is two bytes, occupying s[3:5]
	got := truncateUTF8(s, 4)
	assert.Equal(t, "caf", got)
	assert.True(t, utf8.ValidString(got))

	got = truncateUTF8(s, 5)
	assert.Equal(t, "café", got)
	assert.True(t, utf8.ValidString(truncateUTF8("€€€", 7)))
}
