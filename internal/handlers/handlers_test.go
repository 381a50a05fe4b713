package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/developia-II/catalog-backend/internal/adapters/repository/memory"
	"github.com/developia-II/catalog-backend/internal/core/domain"
	"github.com/developia-II/catalog-backend/internal/media"
	"github.com/developia-II/catalog-backend/internal/services/catalog"
	"github.com/developia-II/catalog-backend/internal/validation"
	"github.com/developia-II/catalog-backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDRtest")

type cdnStore struct{}

func (cdnStore) Put(_ context.Context, key, _ string, r io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	return "https://cdn.test/" + key, nil
}

func (cdnStore) Delete(context.Context, string) error { return nil }

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Fields  []string        `json:"fields"`
}

func newTestRouter(t *testing.T, store domain.CatalogStore, secret string) *gin.Engine {
	t.Helper()
	return newRouterWith(t, store, RouteOptions{Prefix: "/api", JWTSecret: secret})
}

func newRouterWith(t *testing.T, store domain.CatalogStore, opts RouteOptions) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	resolver := media.NewResolver(cdnStore{}, "test", 0)
	svc := catalog.NewService(store, validation.New(), resolver)
	router := gin.New()
	SetupRoutes(router, store, svc, resolver, opts)
	return router
}

func do(t *testing.T, r *gin.Engine, method, path string, body interface{}, header ...string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	return serve(t, r, req)
}

func serve(t *testing.T, r *gin.Engine, req *http.Request) (int, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func data[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func categoryBody(name string) map[string]interface{} {
	return map[string]interface{}{
		"name":        name,
		"description": "iron and steel castings",
		"KeyP1":       "one",
		"KeyP2":       "two",
		"KeyP3":       "three",
		"Img":         "https://cdn.test/castings.png",
	}
}

func TestCategoryLifecycle(t *testing.T) {
	r := newTestRouter(t, memory.New(), "")

	code, env := do(t, r, http.MethodPost, "/api/catagory", categoryBody("Castings"))
	require.Equal(t, http.StatusCreated, code)
	assert.True(t, env.Success)
	created := data[map[string]interface{}](t, env)
	assert.Equal(t, "Castings", created["name"])
	assert.Equal(t, []interface{}{"one", "two", "three"}, created["keyPoints"])
	id := created["id"].(string)

	code, env = do(t, r, http.MethodPatch, "/api/catagory/"+id, map[string]interface{}{"name": "Forgings"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Forgings", data[map[string]interface{}](t, env)["name"])

	code, env = do(t, r, http.MethodGet, "/api/catagory", nil)
	require.Equal(t, http.StatusOK, code)
	list := data[[]map[string]interface{}](t, env)
	require.Len(t, list, 1)
	assert.Equal(t, "Forgings", list[0]["name"])
	assert.Equal(t, "iron and steel castings", list[0]["description"])

	code, env = do(t, r, http.MethodDelete, "/api/catagory/"+id, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, map[string]interface{}{"subcategories": float64(0), "products": float64(0)}, data[map[string]interface{}](t, env))

	code, env = do(t, r, http.MethodGet, "/api/catagory/"+id, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)
}

func TestEmptyListIsAnArray(t *testing.T) {
	r := newTestRouter(t, memory.New(), "")
	for _, path := range []string{"/api/catagory", "/api/subcatagory", "/api/product", "/api/footer", "/api/factAdd"} {
		code, env := do(t, r, http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, code, path)
		assert.JSONEq(t, `[]`, string(env.Data), path)
	}
}

func TestCreateValidationErrors(t *testing.T) {
	r := newTestRouter(t, memory.New(), "")

	body := categoryBody("Castings")
	delete(body, "KeyP2")
	code, env := do(t, r, http.MethodPost, "/api/catagory", body)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, []string{"KeyP2"}, env.Fields)
	assert.Equal(t, "KeyP2 is required", env.Message)

	body = categoryBody("Castings")
	body["KeyP3"] = map[string]interface{}{"nested": true}
	code, env = do(t, r, http.MethodPost, "/api/catagory", body)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, []string{"KeyP3"}, env.Fields)

	code, env = do(t, r, http.MethodGet, "/api/catagory", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestJSONScalarsAreCoerced(t *testing.T) {
	r := newTestRouter(t, memory.New(), "")
	body := categoryBody("Castings")
	body["KeyP1"] = 42
	body["KeyP2"] = true

	code, env := do(t, r, http.MethodPost, "/api/catagory", body)
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, []interface{}{"42", "true", "three"}, data[map[string]interface{}](t, env)["keyPoints"])
}

func TestOversizedBodyIsRejected(t *testing.T) {
	store := memory.New()
	r := newRouterWith(t, store, RouteOptions{Prefix: "/api", MaxBodyBytes: 512})

	body := categoryBody("Castings")
	body["description"] = strings.Repeat("x", 1024)
	code, env := do(t, r, http.MethodPost, "/api/catagory", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, code)
	assert.False(t, env.Success)
	assert.Equal(t, []string{"body"}, env.Fields)

	code, env = do(t, r, http.MethodGet, "/api/catagory", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Empty(t, data[[]interface{}](t, env))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", "big.png")
	require.NoError(t, err)
	_, err = part.Write(append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 2048)...))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	code, env = serve(t, r, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, code)
	assert.Equal(t, []string{"body"}, env.Fields)
}

func TestMalformedAndEmptyJSONBodies(t *testing.T) {
	r := newTestRouter(t, memory.New(), "")

	req := httptest.NewRequest(http.MethodPost, "/api/catagory", strings.NewReader(`{"name": `))
	req.Header.Set("Content-Type", "application/json")
	code, env := serve(t, r, req)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, []string{"body"}, env.Fields)

	code, env = do(t, r, http.MethodPost, "/api/catagory", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Fields, "name")
	assert.NotContains(t, env.Fields, "body")
}

func TestBodyLimitCoversEveryImage(t *testing.T) {
	assert.Equal(t, int64(3*1024+formAllowance), BodyLimit(1024))
}

func TestMalformedID(t *testing.T) {
	r := newTestRouter(t, memory.New(), "")

	code, env := do(t, r, http.MethodPatch, "/api/product/not-an-id", map[string]interface{}{"name": "x"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, []string{"id"}, env.Fields)

	code, env = do(t, r, http.MethodGet, "/api/subcatagory?categoryId=zzz", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, []string{"categoryId"}, env.Fields)
}

func TestSubcategoryWithUnknownCategory(t *testing.T) {
	r := newTestRouter(t, memory.New(), "")
	code, _ := do(t, r, http.MethodPost, "/api/subcatagory", map[string]interface{}{
		"name":       "Pumps",
		"Dtext":      "centrifugal pumps",
		"KeyP1":      "one",
		"KeyP2":      "two",
		"Img":        "https://cdn.test/pumps.png",
		"categoryId": "65f000000000000000000000",
	})
	assert.Equal(t, http.StatusNotFound, code)

	code, env := do(t, r, http.MethodGet, "/api/subcatagory", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestMultipartCreateWithImage(t *testing.T) {
	r := newTestRouter(t, memory.New(), "")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range categoryBody("Castings") {
		if k != "Img" {
			require.NoError(t, mw.WriteField(k, v.(string)))
		}
	}
	part, err := mw.CreateFormFile("Img", "castings.png")
	require.NoError(t, err)
	_, err = part.Write(pngBytes)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/catagory", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	code, env := serve(t, r, req)
	require.Equal(t, http.StatusCreated, code)
	assert.Regexp(t, `^https://cdn\.test/test/category/[0-9a-f-]{36}\.png$`, data[map[string]interface{}](t, env)["image"])
}

func TestUploadEndpoint(t *testing.T) {
	r := newTestRouter(t, memory.New(), "")

	upload := func(name string, content []byte) (int, envelope) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("image", name)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.Close())
		req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return serve(t, r, req)
	}

	code, env := upload("logo.png", pngBytes)
	require.Equal(t, http.StatusOK, code)
	assert.Regexp(t, `^https://cdn\.test/test/upload/`, data[map[string]interface{}](t, env)["url"])

	code, env = upload("notes.txt", []byte("plain text, not an image"))
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, []string{"image"}, env.Fields)
}

func TestFooterSingleton(t *testing.T) {
	r := newTestRouter(t, memory.New(), "")
	body := map[string]interface{}{
		"copyrightText": "© Foundry Works",
		"contactEmail":  "sales@foundry.test",
		"contactPhone":  "+1 555 0100",
	}

	code, env := do(t, r, http.MethodPost, "/api/footer", body)
	require.Equal(t, http.StatusCreated, code)
	footerID := data[map[string]interface{}](t, env)["id"].(string)

	body["contactPhone"] = "+1 555 0199"
	code, env = do(t, r, http.MethodPost, "/api/footer", body)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, footerID, data[map[string]interface{}](t, env)["id"])

	code, env = do(t, r, http.MethodPost, "/api/factAdd", map[string]interface{}{
		"heading":     "North plant",
		"description": "Foundry and machining",
		"mapLink":     "https://maps.test/north",
		"footerId":    footerID,
	})
	require.Equal(t, http.StatusCreated, code)
	addrID := data[map[string]interface{}](t, env)["id"].(string)

	code, env = do(t, r, http.MethodGet, "/api/footer/current", nil)
	require.Equal(t, http.StatusOK, code)
	current := data[map[string]interface{}](t, env)
	assert.Equal(t, "+1 555 0199", current["contactPhone"])
	assert.Equal(t, []interface{}{addrID}, current["factoryAddresses"])
	addrs := current["addresses"].([]interface{})
	require.Len(t, addrs, 1)
	assert.Equal(t, "North plant", addrs[0].(map[string]interface{})["heading"])

	code, _ = do(t, r, http.MethodDelete, "/api/factAdd/"+addrID, nil)
	require.Equal(t, http.StatusOK, code)
	code, env = do(t, r, http.MethodGet, "/api/footer/"+footerID, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []interface{}{}, data[map[string]interface{}](t, env)["factoryAddresses"])
}

func TestWritesRequireAdminToken(t *testing.T) {
	r := newTestRouter(t, memory.New(), "s3cret")

	code, _ := do(t, r, http.MethodPost, "/api/catagory", categoryBody("Castings"))
	assert.Equal(t, http.StatusUnauthorized, code)

	editor, err := utils.GenerateToken(utils.Claims{Role: "editor"}, "s3cret")
	require.NoError(t, err)
	code, _ = do(t, r, http.MethodPost, "/api/catagory", categoryBody("Castings"), "Authorization", "Bearer "+editor)
	assert.Equal(t, http.StatusForbidden, code)

	admin, err := utils.GenerateToken(utils.Claims{UserID: "u1", Role: "admin"}, "s3cret")
	require.NoError(t, err)
	code, _ = do(t, r, http.MethodPost, "/api/catagory", categoryBody("Castings"), "Authorization", "Bearer "+admin)
	assert.Equal(t, http.StatusCreated, code)

	code, env := do(t, r, http.MethodGet, "/api/catagory", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, data[[]interface{}](t, env), 1)
}

type brokenStore struct {
	*memory.Store
}

func (brokenStore) WithTransaction(context.Context, func(context.Context, domain.Tx) error) error {
	return errors.New("connection reset by peer")
}

func TestStoreFailureIsInternal(t *testing.T) {
	r := newTestRouter(t, brokenStore{memory.New()}, "")

	code, env := do(t, r, http.MethodPost, "/api/catagory", categoryBody("Castings"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "internal server error", env.Message)
}

func TestHealth(t *testing.T) {
	r := newTestRouter(t, memory.New(), "")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy","service":"catalog-backend"}`, w.Body.String())
}
