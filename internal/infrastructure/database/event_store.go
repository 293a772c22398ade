package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventbot/internal/domain"
	"eventbot/internal/domain/entities"
	"eventbot/internal/ports/output"
)

var _ output.EventStore = (*EventStore)(nil)

const uniqueViolation = "23505"

type EventStore struct {
	pool *pgxpool.Pool
}

func NewEventStore(pool *pgxpool.Pool) *EventStore {
	return &EventStore{pool: pool}
}

var insertEventSQL = fmt.Sprintf(
	"INSERT INTO events (%s) VALUES (%s)",
	eventColumns, placeholders(22),
)

var updateEventSQL = `UPDATE events SET
	guild_id = $2, channel_id = $3, message_id = $4, creator_id = $5, title = $6, description = $7,
	start_at = $8, duration = $9, max_attendees = $10, color = $11, image = $12, mention_roles = $13,
	allowed_roles = $14, assign_role = $15, multi_response = $16, participants_roles = $17,
	registration_open = $18, registration_close = $19, registration_close_at = $20,
	reminder_sent = $21, created_at = $22
WHERE id = $1`

func placeholders(n int) string {
	p := make([]string, n)
	for i := range p {
		p[i] = fmt.Sprintf("$%d", i+1)
	}
	return strings.Join(p, ", ")
}

func (s *EventStore) Load(ctx context.Context) ([]entities.Event, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+eventColumns+" FROM events ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	var events []entities.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// Save replaces the whole table inside one transaction.
func (s *EventStore) Save(ctx context.Context, events []entities.Event) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM events"); err != nil {
			return fmt.Errorf("clear events: %w", err)
		}
		for i := range events {
			if err := insertEvent(ctx, tx, &events[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *EventStore) Append(ctx context.Context, event *entities.Event) error {
	return insertEvent(ctx, s.pool, event)
}

type execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

func insertEvent(ctx context.Context, db execer, event *entities.Event) error {
	args, err := eventArgs(event)
	if err != nil {
		return err
	}
	if _, err := db.Exec(ctx, insertEventSQL, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDuplicateEvent
		}
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (s *EventStore) Remove(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM events WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (s *EventStore) FindByID(ctx context.Context, id string) (*entities.Event, error) {
	return s.findOne(ctx, "SELECT "+eventColumns+" FROM events WHERE id = $1", id)
}

func (s *EventStore) FindByMessageID(ctx context.Context, messageID string) (*entities.Event, error) {
	if messageID == "" {
		return nil, domain.ErrEventNotFound
	}
	return s.findOne(ctx, "SELECT "+eventColumns+" FROM events WHERE message_id = $1 LIMIT 1", messageID)
}

func (s *EventStore) findOne(ctx context.Context, query string, arg string) (*entities.Event, error) {
	e, err := scanEvent(s.pool.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// Mutate locks the row for the duration of fn.
func (s *EventStore) Mutate(ctx context.Context, id string, fn func(*entities.Event) error) (*entities.Event, error) {
	var out *entities.Event
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		e, err := scanEvent(tx.QueryRow(ctx, "SELECT "+eventColumns+" FROM events WHERE id = $1 FOR UPDATE", id))
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrEventNotFound
		}
		if err != nil {
			return fmt.Errorf("lock event: %w", err)
		}
		if err := fn(e); err != nil {
			return err
		}
		e.ID = id
		args, err := eventArgs(e)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, updateEventSQL, args...); err != nil {
			return fmt.Errorf("update event: %w", err)
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
