// internal/repository/signup.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"panthers-signup/internal/domain/roster"
	"panthers-signup/internal/domain/signup"
)

type SignUpRepository struct {
	db *pgxpool.Pool
}

func NewSignUpRepository(db *pgxpool.Pool) *SignUpRepository {
	return &SignUpRepository{db: db}
}

// Insert stores req if its position still has room. The position row is
// locked for the count so concurrent sign-ups cannot overfill it.
func (r *SignUpRepository) Insert(ctx context.Context, req signup.Request) (signup.RecordID, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var limit int
	err = tx.QueryRow(ctx,
		"SELECT max_capacity FROM position_capacity WHERE position = $1 FOR UPDATE",
		req.Position).Scan(&limit)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, &roster.CapacityError{Position: req.Position, Limit: 0}
	}
	if err != nil {
		return 0, fmt.Errorf("lock position: %w", err)
	}

	var taken int
	if err := tx.QueryRow(ctx,
		"SELECT count(*) FROM signups WHERE position = $1",
		req.Position).Scan(&taken); err != nil {
		return 0, fmt.Errorf("count position: %w", err)
	}
	if limit == 0 || taken >= limit {
		return 0, &roster.CapacityError{Position: req.Position, Limit: limit}
	}

	var id int64
	err = tx.QueryRow(ctx,
		`INSERT INTO signups (name, email, phone, age, position, experience_level)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		req.Name, req.Email, req.Phone, req.Age, req.Position, req.ExperienceLevel).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert signup: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit signup: %w", err)
	}
	return signup.RecordID(id), nil
}

func (r *SignUpRepository) List(ctx context.Context) ([]signup.Record, error) {
	rows, err := r.db.Query(ctx,
		"SELECT id, name, email, phone, age, position, experience_level, created_at FROM signups ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list signups: %w", err)
	}
	defer rows.Close()

	records := []signup.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan signup: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (r *SignUpRepository) Get(ctx context.Context, id signup.RecordID) (*signup.Record, error) {
	rec, err := scanRecord(r.db.QueryRow(ctx,
		"SELECT id, name, email, phone, age, position, experience_level, created_at FROM signups WHERE id = $1",
		int64(id)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, roster.ErrSignUpNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get signup: %w", err)
	}
	return &rec, nil
}

// Capacity reports every position in display order. Positions without a
// configured limit are reported closed.
func (r *SignUpRepository) Capacity(ctx context.Context) ([]signup.PositionCapacity, error) {
	rows, err := r.db.Query(ctx, `
		SELECT pc.position, pc.max_capacity, count(s.id)
		FROM position_capacity pc
		LEFT JOIN signups s ON s.position = pc.position
		GROUP BY pc.position, pc.max_capacity`)
	if err != nil {
		return nil, fmt.Errorf("query capacity: %w", err)
	}
	defer rows.Close()

	byPosition := make(map[signup.Position]signup.PositionCapacity)
	for rows.Next() {
		var c signup.PositionCapacity
		var pos string
		if err := rows.Scan(&pos, &c.Limit, &c.Taken); err != nil {
			return nil, fmt.Errorf("scan capacity: %w", err)
		}
		c.Position = signup.Position(pos)
		byPosition[c.Position] = c
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]signup.PositionCapacity, 0, len(signup.Positions))
	for _, p := range signup.Positions {
		c, ok := byPosition[p]
		if !ok {
			c = signup.PositionCapacity{Position: p}
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *SignUpRepository) SetCapacity(ctx context.Context, pos signup.Position, limit int) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO position_capacity (position, max_capacity) VALUES ($1, $2)
		ON CONFLICT (position) DO UPDATE SET max_capacity = EXCLUDED.max_capacity`,
		pos, limit)
	if err != nil {
		return fmt.Errorf("set capacity: %w", err)
	}
	return nil
}

func scanRecord(row pgx.Row) (signup.Record, error) {
	var rec signup.Record
	var id int64
	var pos, exp string
	err := row.Scan(&id, &rec.Name, &rec.Email, &rec.Phone, &rec.Age, &pos, &exp, &rec.Timestamp)
	rec.ID = signup.RecordID(id)
	rec.Position = signup.Position(pos)
	rec.ExperienceLevel = signup.ExperienceLevel(exp)
	return rec, err
}

var _ roster.SignUpRepository = (*SignUpRepository)(nil)
