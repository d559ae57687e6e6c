package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"dating-backend/internal/handlers"
	"dating-backend/internal/models"
	"dating-backend/internal/repository"
	"dating-backend/internal/services"
	"dating-backend/internal/storage"
	"dating-backend/internal/storage/memory"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ─────────────────────────────────────────────────────────────────────────────
// Test fixture
// ─────────────────────────────────────────────────────────────────────────────

const secret = "0123456789abcdef-test-secret"

type fixture struct {
	router http.Handler
	token  string
	me     string
	users  []string
	photo  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{me: uuid.NewString(), photo: uuid.NewString()}

	dob := time.Date(1995, 1, 1, 0, 0, 0, 0, time.UTC)
	entities := []models.Entity{&models.User{ID: f.me, Gender: "male", DateOfBirth: dob}}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		id := uuid.NewString()
		f.users = append(f.users, id)
		entities = append(entities, &models.User{
			ID:          id,
			Gender:      "female",
			DateOfBirth: dob,
			LastActive:  base.Add(time.Duration(i) * time.Minute),
		})
	}
	entities = append(entities,
		&models.Photo{ID: f.photo, UserID: f.users[0], URL: "http://stored/main", IsMain: true},
		&models.Like{LikerID: f.me, LikeeID: f.users[0]},
	)

	repo := repository.NewDatingRepository(memory.New())
	_, err := repo.WithUnitOfWork(context.Background(), func(uow storage.UnitOfWork) error {
		repository.Add(uow, entities...)
		return nil
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	tokens := services.NewTokenService(secret)
	photos := services.NewPhotoService(repo, nil, "", 0)
	f.router = handlers.NewRouter(
		handlers.NewUserHandler(services.NewUserService(repo, photos)),
		handlers.NewPhotoHandler(photos),
		handlers.NewHealthHandler(repo),
		tokens,
	)
	f.token = signToken(t, f.me)
	return f
}

func signToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, services.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func (f *fixture) get(t *testing.T, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

// ─────────────────────────────────────────────────────────────────────────────
// Auth and health
// ─────────────────────────────────────────────────────────────────────────────

func TestAuthRequired(t *testing.T) {
	f := newFixture(t)

	cases := map[string]string{
		"missing": "",
		"invalid": "garbage",
	}
	for name, token := range cases {
		if rec := f.get(t, "/api/v1/users", token); rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s token: expected 401, got %d", name, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
	req.Header.Set("Authorization", "Token "+f.token)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong scheme: expected 401, got %d", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	rec := f.get(t, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decode[map[string]string](t, rec); body["status"] != "ok" {
		t.Fatalf("unexpected body %v", body)
	}
}

type downStore struct{}

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

func TestHealth_StoreDown(t *testing.T) {
	router := handlers.NewRouter(nil, nil, handlers.NewHealthHandler(downStore{}), services.NewTokenService(secret))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Users
// ─────────────────────────────────────────────────────────────────────────────

func TestListUsers_PaginationHeader(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/api/v1/users?pageNumber=2&pageSize=5", f.token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var header handlers.PaginationHeader
	if err := json.Unmarshal([]byte(rec.Header().Get("Pagination")), &header); err != nil {
		t.Fatalf("decode pagination header: %v", err)
	}
	want := handlers.PaginationHeader{CurrentPage: 2, ItemsPerPage: 5, TotalItems: 12, TotalPages: 3}
	if header != want {
		t.Fatalf("expected %+v, got %+v", want, header)
	}
	if rec.Header().Get("Access-Control-Expose-Headers") != "Pagination" {
		t.Fatal("pagination header not exposed")
	}

	users := decode[[]models.User](t, rec)
	if len(users) != 5 {
		t.Fatalf("expected 5 users, got %d", len(users))
	}
	// Most recently active first: users[11] .. users[7] on page 1.
	if users[0].ID != f.users[6] {
		t.Fatalf("expected %s first on page 2, got %s", f.users[6], users[0].ID)
	}
}

func TestListUsers_Likees(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/api/v1/users?likees=true", f.token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	users := decode[[]models.User](t, rec)
	if len(users) != 1 || users[0].ID != f.users[0] {
		t.Fatalf("expected only the liked user, got %+v", users)
	}
}

func TestListUsers_BadRequest(t *testing.T) {
	f := newFixture(t)

	for _, q := range []string{
		"pageNumber=abc",
		"pageSize=-1",
		"likers=maybe",
		"minAge=-1",
		"maxAge=-5",
		"minAge=40&maxAge=30",
		"gender=m4l3",
	} {
		if rec := f.get(t, "/api/v1/users?"+q, f.token); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", q, rec.Code)
		}
	}
}

func TestListUsers_AgeRangeOutsideDefaults(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/api/v1/users?minAge=10&maxAge=120", f.token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if users := decode[[]models.User](t, rec); len(users) != 10 {
		t.Fatalf("expected a full first page, got %d users", len(users))
	}

	rec = f.get(t, "/api/v1/users?minAge=10&maxAge=17", f.token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if users := decode[[]models.User](t, rec); len(users) != 0 {
		t.Fatalf("expected nobody aged 10 to 17, got %d users", len(users))
	}
}

func TestListUsers_RequesterGone(t *testing.T) {
	f := newFixture(t)
	if rec := f.get(t, "/api/v1/users", signToken(t, uuid.NewString())); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestGetUser(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/api/v1/users/"+f.users[0], f.token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	u := decode[models.User](t, rec)
	if u.ID != f.users[0] || len(u.Photos) != 1 {
		t.Fatalf("unexpected user %+v", u)
	}

	if rec := f.get(t, "/api/v1/users/"+uuid.NewString(), f.token); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := f.get(t, "/api/v1/users/not-a-uuid", f.token); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetLike(t *testing.T) {
	f := newFixture(t)

	path := fmt.Sprintf("/api/v1/users/%s/likes/%s", f.me, f.users[0])
	if rec := f.get(t, path, f.token); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	path = fmt.Sprintf("/api/v1/users/%s/likes/%s", f.users[0], f.me)
	if rec := f.get(t, path, f.token); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for the reverse edge, got %d", rec.Code)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Photos
// ─────────────────────────────────────────────────────────────────────────────

func TestPhotos(t *testing.T) {
	f := newFixture(t)

	rec := f.get(t, "/api/v1/users/"+f.users[0]+"/photos/main", f.token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if p := decode[models.Photo](t, rec); p.ID != f.photo || !p.IsMain {
		t.Fatalf("unexpected main photo %+v", p)
	}

	if rec := f.get(t, "/api/v1/users/"+f.users[1]+"/photos/main", f.token); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := f.get(t, "/api/v1/photos/"+f.photo, f.token); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec := f.get(t, "/api/v1/photos/"+uuid.NewString(), f.token); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if rec := f.get(t, "/api/v1/photos/42", f.token); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
