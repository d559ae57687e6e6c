package memory

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"dating-backend/internal/models"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Seed is the YAML document accepted by Load
type Seed struct {
	Users  []SeedUser  `yaml:"users"`
	Photos []SeedPhoto `yaml:"photos"`
	Likes  []SeedLike  `yaml:"likes"`
}

type SeedUser struct {
	ID           string    `yaml:"id"`
	Username     string    `yaml:"username"`
	Gender       string    `yaml:"gender"`
	DateOfBirth  time.Time `yaml:"date_of_birth"`
	KnownAs      string    `yaml:"known_as"`
	Created      time.Time `yaml:"created"`
	LastActive   time.Time `yaml:"last_active"`
	Introduction string    `yaml:"introduction"`
	LookingFor   string    `yaml:"looking_for"`
	Interests    string    `yaml:"interests"`
	City         string    `yaml:"city"`
	Country      string    `yaml:"country"`
}

type SeedPhoto struct {
	ID          string    `yaml:"id"`
	URL         string    `yaml:"url"`
	Description string    `yaml:"description"`
	DateAdded   time.Time `yaml:"date_added"`
	IsMain      bool      `yaml:"is_main"`
	PublicID    string    `yaml:"public_id"`
	UserID      string    `yaml:"user_id"`
}

type SeedLike struct {
	LikerID string `yaml:"liker_id"`
	LikeeID string `yaml:"likee_id"`
}

// LoadFile seeds the store from a YAML file
func (s *Store) LoadFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close()

	return s.Load(ctx, f)
}

// Load decodes a Seed from r and commits it in one unit of work.
// Photos and likes must reference users present in the store or the seed.
func (s *Store) Load(ctx context.Context, r io.Reader) error {
	var seed Seed
	if err := yaml.NewDecoder(r).Decode(&seed); err != nil && err != io.EOF {
		return fmt.Errorf("failed to parse seed: %w", err)
	}

	known := make(map[string]bool, len(seed.Users))
	s.mu.RLock()
	for id := range s.users {
		known[id] = true
	}
	s.mu.RUnlock()

	uow, err := s.Begin(ctx)
	if err != nil {
		return err
	}

	for _, u := range seed.Users {
		if u.ID == "" {
			return fmt.Errorf("seed user without id")
		}
		known[u.ID] = true
		uow.Stage(&models.User{
			ID:           u.ID,
			Username:     u.Username,
			Gender:       u.Gender,
			DateOfBirth:  u.DateOfBirth,
			KnownAs:      u.KnownAs,
			Created:      u.Created,
			LastActive:   u.LastActive,
			Introduction: u.Introduction,
			LookingFor:   u.LookingFor,
			Interests:    u.Interests,
			City:         u.City,
			Country:      u.Country,
		})
	}
	for _, p := range seed.Photos {
		if !known[p.UserID] {
			return fmt.Errorf("seed photo %q references unknown user %q", p.ID, p.UserID)
		}
		uow.Stage(&models.Photo{
			ID:          p.ID,
			URL:         p.URL,
			Description: p.Description,
			DateAdded:   p.DateAdded,
			IsMain:      p.IsMain,
			PublicID:    p.PublicID,
			UserID:      p.UserID,
		})
	}
	for _, l := range seed.Likes {
		if !known[l.LikerID] || !known[l.LikeeID] {
			return fmt.Errorf("seed like %s->%s references an unknown user", l.LikerID, l.LikeeID)
		}
		uow.Stage(&models.Like{LikerID: l.LikerID, LikeeID: l.LikeeID})
	}

	if _, err := uow.Commit(ctx); err != nil {
		return err
	}

	log.Info().
		Int("users", len(seed.Users)).
		Int("photos", len(seed.Photos)).
		Int("likes", len(seed.Likes)).
		Msg("Memory store seeded")
	return nil
}
