package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ykachan/blogapi/internal/common"
	"github.com/ykachan/blogapi/internal/logging"
	"github.com/ykachan/blogapi/internal/server/config"
	"github.com/ykachan/blogapi/internal/server/models"
	"github.com/ykachan/blogapi/internal/server/repositories/blogs"
	"github.com/ykachan/blogapi/internal/server/services"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

// store backs the fake repositories with plain maps so handler tests exercise
// the full service layer without a database.
type store struct {
	users map[string]*models.User // keyed by id
	blogs map[string]*models.Blog // keyed by id
}

func newStore() *store {
	return &store{
		users: map[string]*models.User{},
		blogs: map[string]*models.Blog{},
	}
}

type storeUsersRepo struct{ s *store }

func (r *storeUsersRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	user.ID = uuid.NewString()
	user.CreatedAt = time.Now()
	r.s.users[user.ID] = user
	return user, nil
}

func (r *storeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *storeUsersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

func (r *storeUsersRepo) AddBlogRef(_ context.Context, userID string, blogID string) error {
	u, ok := r.s.users[userID]
	if !ok {
		return common.ErrorNotFound
	}
	u.BlogIDs = append(u.BlogIDs, blogID)
	return nil
}

func (r *storeUsersRepo) RemoveBlogRef(_ context.Context, userID string, blogID string) error {
	u, ok := r.s.users[userID]
	if !ok {
		return common.ErrorNotFound
	}
	kept := u.BlogIDs[:0]
	for _, id := range u.BlogIDs {
		if id != blogID {
			kept = append(kept, id)
		}
	}
	u.BlogIDs = kept
	return nil
}

type storeBlogsRepo struct{ s *store }

func (r *storeBlogsRepo) withOwner(b *models.Blog) *models.Blog {
	out := *b
	if u, ok := r.s.users[b.OwnerID]; ok {
		out.Owner = &models.OwnerSummary{ID: u.ID, Name: u.Name, Email: u.Email}
	}
	return &out
}

func (r *storeBlogsRepo) Create(_ context.Context, blog *models.Blog) (*models.Blog, error) {
	blog.ID = uuid.NewString()
	blog.CreatedAt = time.Now()
	r.s.blogs[blog.ID] = blog
	return blog, nil
}

func (r *storeBlogsRepo) GetByID(_ context.Context, id string) (*models.Blog, error) {
	b, ok := r.s.blogs[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return r.withOwner(b), nil
}

func (r *storeBlogsRepo) Update(_ context.Context, id string, upd blogs.Update) (*models.Blog, error) {
	b, ok := r.s.blogs[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if upd.Title != nil {
		b.Title = *upd.Title
	}
	if upd.Content != nil {
		b.Content = *upd.Content
	}
	if upd.Category != nil {
		b.Category = *upd.Category
	}
	return r.withOwner(b), nil
}

func (r *storeBlogsRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.s.blogs[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.blogs, id)
	return nil
}

func (r *storeBlogsRepo) all() []*models.Blog {
	list := []*models.Blog{}
	for _, b := range r.s.blogs {
		list = append(list, r.withOwner(b))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list
}

func (r *storeBlogsRepo) List(_ context.Context) ([]*models.Blog, error) {
	return r.all(), nil
}

func (r *storeBlogsRepo) ListPage(_ context.Context, offset, limit int) ([]*models.Blog, int64, error) {
	list := r.all()
	total := int64(len(list))
	if offset >= len(list) {
		return []*models.Blog{}, total, nil
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end], total, nil
}

func (r *storeBlogsRepo) Search(_ context.Context, keyword string) ([]*models.Blog, error) {
	kw := strings.ToLower(keyword)
	list := []*models.Blog{}
	for _, b := range r.all() {
		if strings.Contains(strings.ToLower(b.Title), kw) ||
			strings.Contains(strings.ToLower(b.Content), kw) {
			list = append(list, b)
		}
	}
	return list, nil
}

func (r *storeBlogsRepo) Filter(_ context.Context, f blogs.Filter) ([]*models.Blog, error) {
	list := []*models.Blog{}
	for _, b := range r.all() {
		if f.Category != "" && b.Category != f.Category {
			continue
		}
		if f.OwnerID != "" && b.OwnerID != f.OwnerID {
			continue
		}
		list = append(list, b)
	}
	return list, nil
}

func newTestRouter(t *testing.T) (*gin.Engine, *store) {
	t.Helper()

	logger := logging.NewJSONLogger(io.Discard)
	cfg := &config.Config{SecretKey: "test-secret", TokenValidityDuration: time.Hour}

	st := newStore()
	usersRepo := &storeUsersRepo{s: st}
	blogsRepo := &storeBlogsRepo{s: st}

	as := services.NewAuthService(usersRepo, cfg, logger)
	bs := services.NewBlogService(blogsRepo, usersRepo, logger)

	return NewServer(":0", logger, as, bs).Router(), st
}

func doJSON(router *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	var buf io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		buf = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func signUp(t *testing.T, router *gin.Engine, name, email string) string {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name": name, "email": email, "password": "Str0ng!!pw1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp tokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func createBlog(t *testing.T, router *gin.Engine, token, title string) blogResponse {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/api/blogs", token, gin.H{
		"title": title, "content": "plenty of words about the topic", "category": "tech",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp blogResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSignUp_WeakPassword(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name": "Ann", "email": "ann@example.com", "password": "alllowercase1",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_INPUT")
}

func TestSignUp_NameTooShort(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name": "An", "email": "ann@example.com", "password": "Str0ng!!pw1",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	router, _ := newTestRouter(t)
	signUp(t, router, "Ann", "ann@example.com")

	w := doJSON(router, http.MethodPost, "/api/auth/signup", "", gin.H{
		"name": "Ann2", "email": "ann@example.com", "password": "Str0ng!!pw1",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "EMAIL_IN_USE")
}

func TestSignIn_UnknownEmail(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/auth/signin", "", gin.H{
		"email": "ghost@example.com", "password": "Str0ng!!pw1",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")
}

func TestSignIn_WrongPassword(t *testing.T) {
	router, _ := newTestRouter(t)
	signUp(t, router, "Ann", "ann@example.com")

	w := doJSON(router, http.MethodPost, "/api/auth/signin", "", gin.H{
		"email": "ann@example.com", "password": "Wr0ng!!pw1",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSignIn_Success(t *testing.T) {
	router, _ := newTestRouter(t)
	signUp(t, router, "Ann", "ann@example.com")

	w := doJSON(router, http.MethodPost, "/api/auth/signin", "", gin.H{
		"email": "ann@example.com", "password": "Str0ng!!pw1",
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp tokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
}

func TestWhoAmI(t *testing.T) {
	router, _ := newTestRouter(t)
	token := signUp(t, router, "Ann", "ann@example.com")

	w := doJSON(router, http.MethodGet, "/api/auth/whoami", token, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp userResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Ann", resp.Name)
	assert.Equal(t, "ann@example.com", resp.Email)
	assert.Equal(t, []string{}, resp.Blogs)
}

func TestWhoAmI_Anonymous(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/auth/whoami", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWhoAmI_GarbageToken(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/auth/whoami", "not-a-token", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateBlog_Anonymous(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/blogs", "", gin.H{
		"title": "Ten ways", "content": "plenty of words about the topic", "category": "tech",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateBlog_LinksOwner(t *testing.T) {
	router, st := newTestRouter(t)
	token := signUp(t, router, "Ann", "ann@example.com")

	blog := createBlog(t, router, token, "Ten ways")

	var owner *models.User
	for _, u := range st.users {
		owner = u
	}
	require.NotNil(t, owner)
	assert.Equal(t, owner.ID, blog.OwnerID)
	assert.Equal(t, []string{blog.ID}, owner.BlogIDs)
}

func TestCreateBlog_ContentTooShort(t *testing.T) {
	router, _ := newTestRouter(t)
	token := signUp(t, router, "Ann", "ann@example.com")

	w := doJSON(router, http.MethodPost, "/api/blogs", token, gin.H{
		"title": "Ten ways", "content": "short", "category": "tech",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFindBlog_InvalidID(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/blogs/not-a-uuid", "", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_ID")
}

func TestFindBlog_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/blogs/"+uuid.NewString(), "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPaginate_NonNumericPage(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/blogs/paginated?page=abc", "", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaginate_NonPositiveLimit(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/blogs/paginated?page=1&limit=0", "", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPaginate_SecondPage(t *testing.T) {
	router, _ := newTestRouter(t)
	token := signUp(t, router, "Ann", "ann@example.com")
	for i := 0; i < 12; i++ {
		createBlog(t, router, token, fmt.Sprintf("Post number %02d", i))
	}

	w := doJSON(router, http.MethodGet, "/api/blogs/paginated?page=2&limit=10", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp pageResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
	assert.Equal(t, int64(12), resp.Total)
}

func TestSearch_MissingKeyword(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/blogs/search", "", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearch_ByKeyword(t *testing.T) {
	router, _ := newTestRouter(t)
	token := signUp(t, router, "Ann", "ann@example.com")
	createBlog(t, router, token, "Gardening for beginners")
	createBlog(t, router, token, "Advanced woodworking")

	w := doJSON(router, http.MethodGet, "/api/blogs/search?keyword=garden", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp []blogResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Gardening for beginners", resp[0].Title)
}

func TestFilter_ByOwner(t *testing.T) {
	router, _ := newTestRouter(t)
	annToken := signUp(t, router, "Ann", "ann@example.com")
	bobToken := signUp(t, router, "Bob", "bob@example.com")
	annBlog := createBlog(t, router, annToken, "Ann writes")
	createBlog(t, router, bobToken, "Bob writes")

	w := doJSON(router, http.MethodGet, "/api/blogs/filter?owner="+annBlog.OwnerID, "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var resp []blogResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Ann writes", resp[0].Title)
}

func TestUpdateBlog_Owner(t *testing.T) {
	router, _ := newTestRouter(t)
	token := signUp(t, router, "Ann", "ann@example.com")
	blog := createBlog(t, router, token, "Ten ways")

	w := doJSON(router, http.MethodPatch, "/api/blogs/"+blog.ID, token, gin.H{
		"title": "Eleven ways",
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp blogResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Eleven ways", resp.Title)
	assert.Equal(t, blog.Content, resp.Content)
}

func TestUpdateBlog_NonOwner(t *testing.T) {
	router, _ := newTestRouter(t)
	annToken := signUp(t, router, "Ann", "ann@example.com")
	bobToken := signUp(t, router, "Bob", "bob@example.com")
	blog := createBlog(t, router, annToken, "Ten ways")

	w := doJSON(router, http.MethodPatch, "/api/blogs/"+blog.ID, bobToken, gin.H{
		"title": "Hijacked",
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestDeleteBlog_NonOwner(t *testing.T) {
	router, st := newTestRouter(t)
	annToken := signUp(t, router, "Ann", "ann@example.com")
	bobToken := signUp(t, router, "Bob", "bob@example.com")
	blog := createBlog(t, router, annToken, "Ten ways")

	w := doJSON(router, http.MethodDelete, "/api/blogs/"+blog.ID, bobToken, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, st.blogs, blog.ID)
}

func TestDeleteBlog_Anonymous(t *testing.T) {
	router, _ := newTestRouter(t)
	token := signUp(t, router, "Ann", "ann@example.com")
	blog := createBlog(t, router, token, "Ten ways")

	w := doJSON(router, http.MethodDelete, "/api/blogs/"+blog.ID, "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestBlogLifecycle walks the full path of a blog: register, publish, read it
// back with the owner summary resolved, delete it, and observe it gone from
// both the collection and the owner's list.
func TestBlogLifecycle(t *testing.T) {
	router, st := newTestRouter(t)

	token := signUp(t, router, "Ann", "ann@example.com")
	blog := createBlog(t, router, token, "Ten ways to brew coffee")

	w := doJSON(router, http.MethodGet, "/api/blogs/"+blog.ID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched blogResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	require.NotNil(t, fetched.Owner)
	assert.Equal(t, "Ann", fetched.Owner.Name)
	assert.Equal(t, "ann@example.com", fetched.Owner.Email)
	assert.Equal(t, fetched.OwnerID, fetched.Owner.ID)

	w = doJSON(router, http.MethodDelete, "/api/blogs/"+blog.ID, token, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(router, http.MethodGet, "/api/blogs/"+blog.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	for _, u := range st.users {
		assert.Empty(t, u.BlogIDs)
	}
}
