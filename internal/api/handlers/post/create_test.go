package post

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmitLevy9/DailyBite/internal/api/middleware"
	"github.com/AmitLevy9/DailyBite/internal/core/posts"
	"github.com/AmitLevy9/DailyBite/internal/store/memory"
)

func newTestService(t *testing.T) (posts.Service, *memory.DocStore, *memory.BlobStore) {
	t.Helper()
	docs := memory.NewDocStore()
	blobs := memory.NewBlobStore()
	return posts.NewService(docs, blobs, nil), docs, blobs
}

func multipartBody(t *testing.T, fields map[string]string, imageField string, image []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if imageField != "" {
		fw, err := mw.CreateFormFile(imageField, "photo.jpg")
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func authedRequest(method, target string, body *bytes.Buffer, contentType, uid string) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", contentType)
	ctx := context.WithValue(req.Context(), middleware.UserUIDKey, uid)
	return req.WithContext(ctx)
}

func TestHandleCreate_Success(t *testing.T) {
	service, _, blobs := newTestService(t)
	handler := NewCreateHandler(service)

	body, contentType := multipartBody(t, map[string]string{
		"mealType":    posts.MealBreakfast,
		"description": "oatmeal",
	}, "image", []byte("jpeg-bytes"))

	w := httptest.NewRecorder()
	handler.HandleCreate(w, authedRequest(http.MethodPost, "/api/posts", body, contentType, "user-1"))

	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["postId"])

	// The photo landed in the blob store under the owner's path.
	data, ok := blobs.Get("posts/user-1/" + resp["postId"] + ".jpg")
	require.True(t, ok)
	assert.Equal(t, []byte("jpeg-bytes"), data)
}

func TestHandleCreate_RequiresAuth(t *testing.T) {
	service, _, _ := newTestService(t)
	handler := NewCreateHandler(service)

	body, contentType := multipartBody(t, map[string]string{
		"mealType":    posts.MealBreakfast,
		"description": "oatmeal",
	}, "image", []byte("jpeg-bytes"))

	req := httptest.NewRequest(http.MethodPost, "/api/posts", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	handler.HandleCreate(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleCreate_InvalidMealType(t *testing.T) {
	service, _, _ := newTestService(t)
	handler := NewCreateHandler(service)

	body, contentType := multipartBody(t, map[string]string{
		"mealType":    "brunch",
		"description": "oatmeal",
	}, "image", []byte("jpeg-bytes"))

	w := httptest.NewRecorder()
	handler.HandleCreate(w, authedRequest(http.MethodPost, "/api/posts", body, contentType, "user-1"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "InvalidRequest")
}

func TestHandleCreate_MissingImage(t *testing.T) {
	service, _, _ := newTestService(t)
	handler := NewCreateHandler(service)

	body, contentType := multipartBody(t, map[string]string{
		"mealType":    posts.MealBreakfast,
		"description": "oatmeal",
	}, "", nil)

	w := httptest.NewRecorder()
	handler.HandleCreate(w, authedRequest(http.MethodPost, "/api/posts", body, contentType, "user-1"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "image file is required")
}
