package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"dating-backend/internal/models"
	"dating-backend/internal/query"
	"dating-backend/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx shared by *pgxpool.Pool, *pgx.Conn and pgx.Tx
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store runs query plans against PostgreSQL
type Store struct {
	db DBTX
}

var _ storage.Store = (*Store)(nil)

// NewStore creates a store over db
func NewStore(db DBTX) *Store {
	return &Store{db: db}
}

// Users returns a query over all users
func (s *Store) Users() *query.Query[models.User] {
	return query.New[models.User](&table[models.User]{
		db:        s.db,
		schema:    usersSchema,
		fields:    userFields,
		relations: userRelations,
	})
}

// Photos returns a query over all photos
func (s *Store) Photos() *query.Query[models.Photo] {
	return query.New[models.Photo](&table[models.Photo]{
		db:     s.db,
		schema: photosSchema,
		fields: photoFields,
	})
}

// Likes returns a query over all like edges
func (s *Store) Likes() *query.Query[models.Like] {
	return query.New[models.Like](&table[models.Like]{
		db:     s.db,
		schema: likesSchema,
		fields: likeFields,
	})
}

// Begin starts a unit of work. Nothing is sent to the database until Commit.
func (s *Store) Begin(ctx context.Context) (storage.UnitOfWork, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &unitOfWork{db: s.db}, nil
}

// Ping verifies that the database is reachable
func (s *Store) Ping(ctx context.Context) error {
	if p, ok := s.db.(interface{ Ping(context.Context) error }); ok {
		return p.Ping(ctx)
	}
	var one int
	return s.db.QueryRow(ctx, "SELECT 1").Scan(&one)
}

func userFields(u *models.User) []any {
	return []any{
		&u.ID, &u.Username, &u.Gender, &u.DateOfBirth, &u.KnownAs, &u.Created,
		&u.LastActive, &u.Introduction, &u.LookingFor, &u.Interests, &u.City, &u.Country,
	}
}

func photoFields(p *models.Photo) []any {
	return []any{&p.ID, &p.URL, &p.Description, &p.DateAdded, &p.IsMain, &p.PublicID, &p.UserID}
}

func likeFields(l *models.Like) []any {
	return []any{&l.LikerID, &l.LikeeID}
}

// Eager includes are aggregated to JSON in the same statement as the users
// themselves, so a page of users with photos costs one round trip.
var userRelations = map[string]relation[models.User]{
	models.IncludePhotos: {
		expr: `COALESCE((SELECT json_agg(json_build_object(
			'id', p.id, 'url', p.url, 'description', COALESCE(p.description, ''),
			'date_added', p.date_added, 'is_main', p.is_main,
			'public_id', COALESCE(p.public_id, ''), 'user_id', p.user_id
		) ORDER BY p.date_added, p.id) FROM photos p WHERE p.user_id = u.id), '[]')`,
		assign: func(u *models.User, data []byte) error {
			u.Photos = []models.Photo{}
			return json.Unmarshal(data, &u.Photos)
		},
	},
	models.IncludeLikers: {
		expr: `COALESCE((SELECT json_agg(json_build_object('liker_id', l.liker_id, 'likee_id', l.likee_id))
			FROM likes l WHERE l.likee_id = u.id), '[]')`,
		assign: func(u *models.User, data []byte) error {
			u.Likers = []models.Like{}
			return json.Unmarshal(data, &u.Likers)
		},
	},
	models.IncludeLikees: {
		expr: `COALESCE((SELECT json_agg(json_build_object('liker_id', l.liker_id, 'likee_id', l.likee_id))
			FROM likes l WHERE l.liker_id = u.id), '[]')`,
		assign: func(u *models.User, data []byte) error {
			u.Likees = []models.Like{}
			return json.Unmarshal(data, &u.Likees)
		},
	},
}

func relationsFor[T any](rels map[string]relation[T], plan query.Plan) ([]relation[T], error) {
	out := make([]relation[T], 0, len(plan.Includes))
	for _, inc := range plan.Includes {
		rel, ok := rels[inc]
		if !ok {
			return nil, fmt.Errorf("unknown relation %q", inc)
		}
		out = append(out, rel)
	}
	return out, nil
}
