package postgres

import (
	"context"
	"fmt"

	"dating-backend/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

type unitOfWork struct {
	storage.Changes
	db DBTX
}

// Commit writes every staged change inside one transaction. pgx.BeginFunc
// rolls back when any statement fails.
func (u *unitOfWork) Commit(ctx context.Context) (bool, error) {
	changes := u.Drain()
	if len(changes) == 0 {
		return false, nil
	}

	var affected int64
	err := pgx.BeginFunc(ctx, u.db, func(tx pgx.Tx) error {
		for _, c := range changes {
			var (
				q    string
				args []any
				err  error
			)
			if c.Delete {
				q, args, err = deleteSQL(c.Entity)
			} else {
				q, args, err = upsertSQL(c.Entity)
			}
			if err != nil {
				return err
			}

			tag, err := tx.Exec(ctx, q, args...)
			if err != nil {
				return fmt.Errorf("failed to write %s: %w", c.Entity.TableName(), err)
			}
			affected += tag.RowsAffected()
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to commit unit of work: %w", err)
	}

	log.Debug().
		Int("changes", len(changes)).
		Int64("rows_affected", affected).
		Msg("Unit of work committed")

	return affected > 0, nil
}

func (u *unitOfWork) Rollback(ctx context.Context) error {
	u.Drain()
	return nil
}
