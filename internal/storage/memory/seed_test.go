package memory_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"dating-backend/internal/models"
	"dating-backend/internal/query"
	"dating-backend/internal/storage/memory"
)

const seedDoc = `
users:
  - id: u1
    gender: male
    date_of_birth: 1994-04-12
    last_active: 2026-10-18T20:15:00Z
  - id: u2
    gender: female
    date_of_birth: 1997-09-30
photos:
  - id: p1
    user_id: u2
    is_main: true
    public_id: photos/p1.jpg
likes:
  - liker_id: u2
    likee_id: u1
`

func TestLoad_Seed(t *testing.T) {
	s := memory.New()
	ctx := context.Background()

	if err := s.Load(ctx, strings.NewReader(seedDoc)); err != nil {
		t.Fatalf("load: %v", err)
	}

	u, err := s.Users().Include(models.IncludePhotos).Where(query.Eq(models.UserID, "u2")).First(ctx)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if u == nil || !u.DateOfBirth.Equal(time.Date(1997, 9, 30, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected user %+v", u)
	}
	if main := u.MainPhoto(); main == nil || main.PublicID != "photos/p1.jpg" {
		t.Fatalf("expected main photo, got %+v", u.Photos)
	}
	if n, _ := s.Likes().Count(ctx); n != 1 {
		t.Fatalf("expected 1 like, got %d", n)
	}
}

func TestLoad_Empty(t *testing.T) {
	s := memory.New()
	if err := s.Load(context.Background(), strings.NewReader("")); err != nil {
		t.Fatalf("empty seed: %v", err)
	}
}

func TestLoad_Rejects(t *testing.T) {
	cases := map[string]string{
		"dangling photo": "photos:\n  - id: p1\n    user_id: ghost\n",
		"dangling like":  "users:\n  - id: u1\nlikes:\n  - liker_id: u1\n    likee_id: ghost\n",
		"missing id":     "users:\n  - gender: male\n",
		"malformed":      "users: [\n",
	}
	for name, doc := range cases {
		s := memory.New()
		if err := s.Load(context.Background(), strings.NewReader(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
		if n, _ := s.Users().Count(context.Background()); n != 0 {
			t.Fatalf("%s: rejected seed left %d users behind", name, n)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(seedDoc), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}

	s := memory.New()
	if err := s.LoadFile(context.Background(), path); err != nil {
		t.Fatalf("load file: %v", err)
	}
	if n, _ := s.Users().Count(context.Background()); n != 2 {
		t.Fatalf("expected 2 users, got %d", n)
	}

	if err := memory.New().LoadFile(context.Background(), filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
