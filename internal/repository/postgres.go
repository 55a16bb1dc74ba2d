package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventregistry/internal/model"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// PostgresEventStore implements EventStore on a pgx connection pool.
type PostgresEventStore struct {
	db *pgxpool.Pool
}

// NewPostgresEventStore constructs a PostgresEventStore.
func NewPostgresEventStore(db *pgxpool.Pool) *PostgresEventStore {
	return &PostgresEventStore{db: db}
}

const eventColumns = `id, title, description, date, location, max_attendees, created_at, updated_at, deleted`

func scanEvent(row pgx.Row) (*model.Event, error) {
	var e model.Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Location,
		&e.MaxAttendees, &e.CreatedAt, &e.UpdatedAt, &e.Deleted)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts a new event and returns it with its generated id.
func (s *PostgresEventStore) Create(ctx context.Context, data model.EventData) (*model.Event, error) {
	now := time.Now().UTC()
	row := s.db.QueryRow(ctx,
		`INSERT INTO events (title, description, date, location, max_attendees, created_at, updated_at, deleted)
		 VALUES ($1, $2, $3, $4, $5, $6, $6, FALSE)
		 RETURNING `+eventColumns,
		data.Title, data.Description, data.Date, data.Location, data.MaxAttendees, now,
	)
	e, err := scanEvent(row)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return e, nil
}

// List returns all non-deleted events, optionally narrowed by a
// case-sensitive title substring, newest first.
func (s *PostgresEventStore) List(ctx context.Context, title string) ([]model.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE deleted = FALSE`
	args := []any{}
	if title != "" {
		query += ` AND title LIKE '%' || $1 || '%'`
		args = append(args, title)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}

// GetByID returns a single event (deleted or not) or ErrNotFound.
func (s *PostgresEventStore) GetByID(ctx context.Context, id int64) (*model.Event, error) {
	e, err := scanEvent(s.db.QueryRow(ctx,
		`SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return e, nil
}

// Update replaces all mutable fields of an event.
func (s *PostgresEventStore) Update(ctx context.Context, id int64, data model.EventData) (*model.Event, error) {
	e, err := scanEvent(s.db.QueryRow(ctx,
		`UPDATE events
		 SET title = $2, description = $3, date = $4, location = $5, max_attendees = $6, updated_at = $7
		 WHERE id = $1
		 RETURNING `+eventColumns,
		id, data.Title, data.Description, data.Date, data.Location, data.MaxAttendees, time.Now().UTC(),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return e, nil
}

// SetDeleted marks an event as soft-deleted and returns the updated row.
func (s *PostgresEventStore) SetDeleted(ctx context.Context, id int64) (*model.Event, error) {
	e, err := scanEvent(s.db.QueryRow(ctx,
		`UPDATE events SET deleted = TRUE, updated_at = $2 WHERE id = $1
		 RETURNING `+eventColumns,
		id, time.Now().UTC(),
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("soft-delete event: %w", err)
	}
	return e, nil
}

// PostgresAttendeeStore implements AttendeeStore on a pgx connection pool.
type PostgresAttendeeStore struct {
	db *pgxpool.Pool
}

// NewPostgresAttendeeStore constructs a PostgresAttendeeStore.
func NewPostgresAttendeeStore(db *pgxpool.Pool) *PostgresAttendeeStore {
	return &PostgresAttendeeStore{db: db}
}

// Create inserts a new attendee with a generated UUID. Collisions on the
// unique email or phone columns return ErrDuplicateAttendee.
func (s *PostgresAttendeeStore) Create(ctx context.Context, data model.AttendeeData) (*model.Attendee, error) {
	a := &model.Attendee{
		ID:     uuid.New().String(),
		Name:   data.Name,
		Gender: data.Gender,
		Email:  data.Email,
		Phone:  data.Phone,
	}
	_, err := s.db.Exec(ctx,
		`INSERT INTO attendees (id, name, gender, email, phone) VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.Name, a.Gender, a.Email, a.Phone,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateAttendee
		}
		return nil, fmt.Errorf("insert attendee: %w", err)
	}
	return a, nil
}

func (s *PostgresAttendeeStore) findBy(ctx context.Context, column, value string) (*model.Attendee, error) {
	var a model.Attendee
	err := s.db.QueryRow(ctx,
		`SELECT id, name, gender, email, phone FROM attendees WHERE `+column+` = $1`,
		value,
	).Scan(&a.ID, &a.Name, &a.Gender, &a.Email, &a.Phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find attendee by %s: %w", column, err)
	}
	return &a, nil
}

// FindByEmail returns the attendee with the given email or ErrNotFound.
func (s *PostgresAttendeeStore) FindByEmail(ctx context.Context, email string) (*model.Attendee, error) {
	return s.findBy(ctx, "email", email)
}

// FindByPhone returns the attendee with the given phone or ErrNotFound.
func (s *PostgresAttendeeStore) FindByPhone(ctx context.Context, phone string) (*model.Attendee, error) {
	return s.findBy(ctx, "phone", phone)
}

// PostgresRegistrationStore implements RegistrationStore on a pgx
// connection pool.
type PostgresRegistrationStore struct {
	db *pgxpool.Pool
}

// NewPostgresRegistrationStore constructs a PostgresRegistrationStore.
func NewPostgresRegistrationStore(db *pgxpool.Pool) *PostgresRegistrationStore {
	return &PostgresRegistrationStore{db: db}
}

// Register performs a concurrency-safe registration inside a transaction.
//
// A naive read-then-insert is racy: two requests can both observe
// count < max_attendees before either commits, overbooking the event.
// SELECT ... FOR UPDATE takes a row-level exclusive lock on the event,
// so concurrent attempts for the same event serialize on gates 2-4 below.
// The (event_id, attendee_id) unique index is the backstop for the
// duplicate check; a violation on insert maps to ErrAlreadyRegistered.
func (s *PostgresRegistrationStore) Register(ctx context.Context, eventID int64, attendeeID string) (*model.Registration, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// Lock the event row for the rest of the transaction.
	var maxAttendees int
	var deleted bool
	err = tx.QueryRow(ctx,
		`SELECT max_attendees, deleted FROM events WHERE id = $1 FOR UPDATE`,
		eventID,
	).Scan(&maxAttendees, &deleted)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock event row: %w", err)
	}
	if deleted {
		err = ErrEventDeleted
		return nil, err
	}

	var dup int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM registrations WHERE event_id = $1 AND attendee_id = $2`,
		eventID, attendeeID,
	).Scan(&dup)
	if err != nil {
		return nil, fmt.Errorf("check duplicate: %w", err)
	}
	if dup > 0 {
		err = ErrAlreadyRegistered
		return nil, err
	}

	var count int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM registrations WHERE event_id = $1`,
		eventID,
	).Scan(&count)
	if err != nil {
		return nil, fmt.Errorf("count registrations: %w", err)
	}
	if count >= maxAttendees {
		err = ErrEventFull
		return nil, err
	}

	reg := &model.Registration{
		ID:         uuid.New().String(),
		EventID:    eventID,
		AttendeeID: attendeeID,
		CreatedAt:  time.Now().UTC(),
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO registrations (id, event_id, attendee_id, created_at)
		 VALUES ($1, $2, $3, $4)`,
		reg.ID, reg.EventID, reg.AttendeeID, reg.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			err = ErrAlreadyRegistered
			return nil, err
		}
		return nil, fmt.Errorf("insert registration: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return reg, nil
}

// FindByEventAndAttendee returns the registration for the pair or ErrNotFound.
func (s *PostgresRegistrationStore) FindByEventAndAttendee(ctx context.Context, eventID int64, attendeeID string) (*model.Registration, error) {
	var reg model.Registration
	err := s.db.QueryRow(ctx,
		`SELECT id, event_id, attendee_id, created_at
		 FROM registrations WHERE event_id = $1 AND attendee_id = $2`,
		eventID, attendeeID,
	).Scan(&reg.ID, &reg.EventID, &reg.AttendeeID, &reg.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find registration: %w", err)
	}
	return &reg, nil
}

// CountByEvent returns the number of registrations for one event.
func (s *PostgresRegistrationStore) CountByEvent(ctx context.Context, eventID int64) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM registrations WHERE event_id = $1`, eventID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count registrations: %w", err)
	}
	return count, nil
}

// CountsByEvent returns registration counts grouped by event.
func (s *PostgresRegistrationStore) CountsByEvent(ctx context.Context) (map[int64]int, error) {
	rows, err := s.db.Query(ctx,
		`SELECT event_id, COUNT(*) FROM registrations GROUP BY event_id`)
	if err != nil {
		return nil, fmt.Errorf("group registrations: %w", err)
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var eventID int64
		var count int
		if err := rows.Scan(&eventID, &count); err != nil {
			return nil, fmt.Errorf("scan registration count: %w", err)
		}
		counts[eventID] = count
	}
	return counts, rows.Err()
}
