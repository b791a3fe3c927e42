package feedback

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AmitLevy9/DailyBite/internal/api/middleware"
	"github.com/AmitLevy9/DailyBite/internal/core/feedback"
	"github.com/AmitLevy9/DailyBite/internal/core/posts"
	"github.com/AmitLevy9/DailyBite/internal/store/memory"
)

func newTestServices(t *testing.T) (posts.Service, feedback.Service, *memory.DocStore) {
	t.Helper()
	docs := memory.NewDocStore()
	blobs := memory.NewBlobStore()
	return posts.NewService(docs, blobs, nil), feedback.NewService(docs, nil), docs
}

func likeRequest(postID, uid string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/posts/"+postID+"/like", nil)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("postID", postID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.UserUIDKey, uid)
	return req.WithContext(ctx)
}

func TestHandleLike_IncrementsCounter(t *testing.T) {
	postService, feedbackService, _ := newTestServices(t)
	handler := NewLikeHandler(feedbackService)

	id, err := postService.CreatePost(context.Background(), posts.CreatePostRequest{
		OwnerUID:    "owner",
		MealType:    posts.MealLunch,
		Description: "salad",
		ImageBytes:  []byte("img"),
	})
	require.NoError(t, err)

	for _, uid := range []string{"user-1", "user-2"} {
		w := httptest.NewRecorder()
		handler.HandleLike(w, likeRequest(id, uid))
		require.Equal(t, http.StatusNoContent, w.Code)
	}

	p, err := postService.GetPost(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 2, p.LikesCount)
}

func TestHandleLike_MissingPost(t *testing.T) {
	_, feedbackService, _ := newTestServices(t)
	handler := NewLikeHandler(feedbackService)

	w := httptest.NewRecorder()
	handler.HandleLike(w, likeRequest("missing", "user-1"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NotFound")
}
