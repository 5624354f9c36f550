package categories

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/finflow-go/apperror"
	"github.com/user/finflow-go/auth"
)

type fakeService struct {
	categories []Category
	lastFilter string
	err        error
}

func (f *fakeService) List(_ context.Context, _ int, categoryType string) ([]Category, error) {
	f.lastFilter = categoryType
	if f.err != nil {
		return nil, f.err
	}
	return f.categories, nil
}

func (f *fakeService) Create(_ context.Context, userID int, req CreateCategoryRequest) (*Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &Category{ID: 1, UserID: &userID, Name: req.Name, Type: req.Type, Icon: req.Icon, CreatedAt: time.Now()}, nil
}

func (f *fakeService) Update(_ context.Context, userID, categoryID int, req UpdateCategoryRequest) (*Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	c := Category{ID: categoryID, UserID: &userID, Type: TypeExpense, CreatedAt: time.Now()}
	if req.Name != nil {
		c.Name = *req.Name
	}
	return &c, nil
}

func (f *fakeService) Delete(_ context.Context, _, _ int) error {
	return f.err
}

func router(svc Service) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/categories", NewHandlers(svc).RegisterRoutes)
	return r
}

func authedRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	return req.WithContext(auth.NewContextWithUser(req.Context(), 1, "u"))
}

func TestHandleCreate(t *testing.T) {
	rec := httptest.NewRecorder()
	router(&fakeService{}).ServeHTTP(rec, authedRequest(http.MethodPost, "/categories/", `{"name":"Groceries","type":"EXPENSE"}`))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"Groceries"`)
}

func TestHandleCreateBadBody(t *testing.T) {
	rec := httptest.NewRecorder()
	router(&fakeService{}).ServeHTTP(rec, authedRequest(http.MethodPost, "/categories/", `{"name":`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleCreateWithoutAuthContext(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/categories/", strings.NewReader(`{"name":"Groceries","type":"EXPENSE"}`))
	router(&fakeService{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandleListForwardsTypeFilter(t *testing.T) {
	svc := &fakeService{categories: []Category{}}
	rec := httptest.NewRecorder()
	router(svc).ServeHTTP(rec, authedRequest(http.MethodGet, "/categories/?type=INCOME", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "INCOME", svc.lastFilter)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestHandleUpdateConflict(t *testing.T) {
	svc := &fakeService{err: apperror.NewConflictError("category already exists", nil)}
	rec := httptest.NewRecorder()
	router(svc).ServeHTTP(rec, authedRequest(http.MethodPut, "/categories/3", `{"name":"Groceries"}`))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "category already exists")
}

func TestHandleDeleteNotFound(t *testing.T) {
	svc := &fakeService{err: apperror.NewNotFoundError("category not found", nil)}
	rec := httptest.NewRecorder()
	router(svc).ServeHTTP(rec, authedRequest(http.MethodDelete, "/categories/99", ""))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleDeleteBadID(t *testing.T) {
	rec := httptest.NewRecorder()
	router(&fakeService{}).ServeHTTP(rec, authedRequest(http.MethodDelete, "/categories/abc", ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
