package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/memovault/memovault/internal/auth"
	"github.com/memovault/memovault/internal/router"
	"github.com/memovault/memovault/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Setenv("JWT_SECRET", "test-secret")

	if err := auth.InitJWTSecret(); err != nil {
		panic(err)
	}

	os.Exit(m.Run())
}

func setupServer(t *testing.T) *gin.Engine {
	t.Helper()

	return router.NewRouter(testdb.New(t), zap.NewNop())
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader

	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	return body
}

func signupAndSignin(t *testing.T, r *gin.Engine, email, password string) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/v1/signup", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/api/v1/signin", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	user := body["user"].(map[string]interface{})
	token, ok := user["token"].(string)
	require.True(t, ok, "signin must attach a session token to the user")
	require.NotEmpty(t, token)

	return token
}

func TestSignup_DuplicateEmail(t *testing.T) {
	r := setupServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/signup", "", gin.H{"email": "a@x.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/signup", "", gin.H{"email": "a@x.com", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "CONFLICT", decodeBody(t, w)["code"])
}

func TestSignup_ValidationErrorsCarryFieldPaths(t *testing.T) {
	r := setupServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/signup", "", gin.H{"email": "not-an-email", "password": "secret1"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "VALIDATION", body["code"])

	fields := body["errors"].([]interface{})
	require.Len(t, fields, 1)
	assert.Equal(t, "email", fields[0].(map[string]interface{})["path"])
}

func TestSignin_UnknownUserAndBadPassword(t *testing.T) {
	r := setupServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/signin", "", gin.H{"email": "ghost@x.com", "password": "secret1"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/signup", "", gin.H{"email": "a@x.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/signin", "", gin.H{"email": "a@x.com", "password": "wrong-pass"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContent_RequiresAuthentication(t *testing.T) {
	r := setupServer(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/content", "", gin.H{"title": "T"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/content", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestContent_CreateWithTagsAndList(t *testing.T) {
	r := setupServer(t)
	token := signupAndSignin(t, r, "a@x.com", "secret1")

	w := doJSON(t, r, http.MethodPost, "/api/v1/content", token, gin.H{
		"title":       "T",
		"description": "D",
		"links":       []string{"https://example.com/a", "https://example.com/b"},
		"tags":        []string{"x", "y"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(t, r, http.MethodGet, "/api/v1/content", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	items := decodeBody(t, w)["content"].([]interface{})
	require.Len(t, items, 1)

	item := items[0].(map[string]interface{})
	assert.Equal(t, "T", item["title"])

	links := item["links"].([]interface{})
	require.Len(t, links, 2)
	assert.Equal(t, "https://example.com/a", links[0])

	tagList := item["tags"].([]interface{})
	require.Len(t, tagList, 2)

	names := []string{}
	for _, tag := range tagList {
		names = append(names, tag.(map[string]interface{})["name"].(string))
	}
	assert.ElementsMatch(t, []string{"x", "y"}, names)
}

func TestContent_GetSingleScopedToOwner(t *testing.T) {
	r := setupServer(t)
	alice := signupAndSignin(t, r, "alice@x.com", "secret1")
	bob := signupAndSignin(t, r, "bob@x.com", "secret1")

	w := doJSON(t, r, http.MethodPost, "/api/v1/content", alice, gin.H{"title": "T"})
	require.Equal(t, http.StatusOK, w.Code)

	content := decodeBody(t, w)["content"].(map[string]interface{})
	id := int(content["id"].(float64))

	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/content/%d", id), alice, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Another user's session must not see it.
	w = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/v1/content/%d", id), bob, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestContent_UpdateTagsAreAdditive(t *testing.T) {
	r := setupServer(t)
	token := signupAndSignin(t, r, "a@x.com", "secret1")

	w := doJSON(t, r, http.MethodPost, "/api/v1/content", token, gin.H{
		"title": "T",
		"tags":  []string{"x"},
	})
	require.Equal(t, http.StatusOK, w.Code)

	content := decodeBody(t, w)["content"].(map[string]interface{})
	id := int(content["id"].(float64))

	w = doJSON(t, r, http.MethodPut, fmt.Sprintf("/api/v1/content/%d", id), token, gin.H{
		"title": "T2",
		"tags":  []string{"y"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	updated := decodeBody(t, w)["content"].(map[string]interface{})
	assert.Equal(t, "T2", updated["title"])

	names := []string{}
	for _, tag := range updated["tags"].([]interface{}) {
		names = append(names, tag.(map[string]interface{})["name"].(string))
	}
	assert.ElementsMatch(t, []string{"x", "y"}, names, "update must append tags, never replace them")
}

func TestContent_DeleteSingleAndAll(t *testing.T) {
	r := setupServer(t)
	token := signupAndSignin(t, r, "a@x.com", "secret1")

	w := doJSON(t, r, http.MethodPost, "/api/v1/content", token, gin.H{"title": "One"})
	require.Equal(t, http.StatusOK, w.Code)
	first := int(decodeBody(t, w)["content"].(map[string]interface{})["id"].(float64))

	w = doJSON(t, r, http.MethodPost, "/api/v1/content", token, gin.H{"title": "Two"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/v1/content", token, gin.H{"contentId": first, "type": "single"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/v1/content", token, gin.H{"type": "all"})
	require.Equal(t, http.StatusOK, w.Code)

	// Zero matched documents reports a 400, not a partial success.
	w = doJSON(t, r, http.MethodDelete, "/api/v1/content", token, gin.H{"type": "all"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/content", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeBody(t, w)["content"])
}

func TestShare_EndToEndLifecycle(t *testing.T) {
	r := setupServer(t)
	token := signupAndSignin(t, r, "a@x.com", "secret1")

	w := doJSON(t, r, http.MethodPost, "/api/v1/content", token, gin.H{
		"title": "T",
		"tags":  []string{"x", "y"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	contentID := int(decodeBody(t, w)["content"].(map[string]interface{})["id"].(float64))

	w = doJSON(t, r, http.MethodPost, "/api/v1/share", token, gin.H{
		"contentId":  contentID,
		"accessType": "single",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	sharedLink := decodeBody(t, w)["sharedLink"].(string)
	require.NotEmpty(t, sharedLink)

	// Unauthenticated fetch through the capability token.
	w = doJSON(t, r, http.MethodGet, "/api/v1/share/"+sharedLink, "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	shared := decodeBody(t, w)["content"].(map[string]interface{})
	assert.Equal(t, "T", shared["title"])
	assert.Len(t, shared["tags"].([]interface{}), 2)

	// Deleting the content leaves a dangling link that resolves to
	// CONTENT_NOT_FOUND.
	w = doJSON(t, r, http.MethodDelete, "/api/v1/content", token, gin.H{"contentId": contentID, "type": "single"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/share/"+sharedLink, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "CONTENT_NOT_FOUND", decodeBody(t, w)["code"])

	// Revoking all links kills the token itself.
	w = doJSON(t, r, http.MethodDelete, "/api/v1/share", token, gin.H{"type": "all"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/share/"+sharedLink, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "LINK_NOT_FOUND", decodeBody(t, w)["code"])
}

func TestShare_AllScopeReflectsLaterContent(t *testing.T) {
	r := setupServer(t)
	token := signupAndSignin(t, r, "a@x.com", "secret1")

	w := doJSON(t, r, http.MethodPost, "/api/v1/content", token, gin.H{"title": "Before"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/v1/share", token, gin.H{"accessType": "all"})
	require.Equal(t, http.StatusOK, w.Code)
	sharedLink := decodeBody(t, w)["sharedLink"].(string)

	w = doJSON(t, r, http.MethodPost, "/api/v1/content", token, gin.H{"title": "After"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/v1/share/"+sharedLink, "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	titles := []string{}
	for _, item := range decodeBody(t, w)["content"].([]interface{}) {
		titles = append(titles, item.(map[string]interface{})["title"].(string))
	}
	assert.ElementsMatch(t, []string{"Before", "After"}, titles)
}

func TestShare_SingleScopeForeignContent(t *testing.T) {
	r := setupServer(t)
	alice := signupAndSignin(t, r, "alice@x.com", "secret1")
	bob := signupAndSignin(t, r, "bob@x.com", "secret1")

	w := doJSON(t, r, http.MethodPost, "/api/v1/content", alice, gin.H{"title": "T"})
	require.Equal(t, http.StatusOK, w.Code)
	contentID := int(decodeBody(t, w)["content"].(map[string]interface{})["id"].(float64))

	w = doJSON(t, r, http.MethodPost, "/api/v1/share", bob, gin.H{
		"contentId":  contentID,
		"accessType": "single",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "CONTENT_NOT_FOUND", decodeBody(t, w)["code"])
}

func TestShare_InvalidAccessType(t *testing.T) {
	r := setupServer(t)
	token := signupAndSignin(t, r, "a@x.com", "secret1")

	w := doJSON(t, r, http.MethodPost, "/api/v1/share", token, gin.H{"accessType": "everything"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_SCOPE", decodeBody(t, w)["code"])
}

func TestShare_EmptyCollectionAllScope(t *testing.T) {
	r := setupServer(t)
	token := signupAndSignin(t, r, "a@x.com", "secret1")

	w := doJSON(t, r, http.MethodPost, "/api/v1/share", token, gin.H{"accessType": "all"})
	require.Equal(t, http.StatusOK, w.Code)
	sharedLink := decodeBody(t, w)["sharedLink"].(string)

	w = doJSON(t, r, http.MethodGet, "/api/v1/share/"+sharedLink, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "CONTENT_NOT_FOUND", decodeBody(t, w)["code"])
}

func TestMe_ReturnsCurrentUser(t *testing.T) {
	r := setupServer(t)
	token := signupAndSignin(t, r, "a@x.com", "secret1")

	w := doJSON(t, r, http.MethodGet, "/api/v1/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	user := decodeBody(t, w)["user"].(map[string]interface{})
	assert.Equal(t, "a@x.com", user["email"])
}
