package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"appointments-service/internal/models"
	"appointments-service/pkg/response"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
	checkViolation      = "23514"
)

type Storage struct {
	db *sql.DB
}

func New(storagePath string) (*Storage, error) {
	const op = "storage.postgres.New"

	db, err := sql.Open("postgres", storagePath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

// NewWithDB wraps an already opened handle.
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}

	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

// #### availability windows ####

const availabilityColumns = `id, days_of_week, time_start, time_end, minimum_lead_time, created_at, updated_at`

func (s *Storage) CreateAvailabilityWindow(ctx context.Context, w *models.AvailabilityWindow) error {
	const op = "storage.postgres.CreateAvailabilityWindow"

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO availability_windows
		(id, days_of_week, time_start, time_end, minimum_lead_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		w.ID,
		pq.Array(w.DaysOfWeek.Names()),
		w.TimeStart,
		w.TimeEnd,
		w.MinimumLeadTime,
		w.CreatedAt,
		w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapPQError(err))
	}

	return nil
}

func (s *Storage) GetAvailabilityWindow(ctx context.Context, id string) (*models.AvailabilityWindow, error) {
	const op = "storage.postgres.GetAvailabilityWindow"

	row := s.db.QueryRowContext(ctx,
		`SELECT `+availabilityColumns+` FROM availability_windows WHERE id=$1`, id)

	w, err := scanAvailabilityWindow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return w, nil
}

func (s *Storage) ListAvailabilityWindows(ctx context.Context) ([]models.AvailabilityWindow, error) {
	const op = "storage.postgres.ListAvailabilityWindows"

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+availabilityColumns+` FROM availability_windows ORDER BY time_start, id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	windows := []models.AvailabilityWindow{}
	for rows.Next() {
		w, err := scanAvailabilityWindow(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		windows = append(windows, *w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return windows, nil
}

func (s *Storage) UpdateAvailabilityWindow(ctx context.Context, w *models.AvailabilityWindow) error {
	const op = "storage.postgres.UpdateAvailabilityWindow"

	res, err := s.db.ExecContext(ctx,
		`UPDATE availability_windows
		SET days_of_week=$1, time_start=$2, time_end=$3, minimum_lead_time=$4, updated_at=$5
		WHERE id=$6`,
		pq.Array(w.DaysOfWeek.Names()),
		w.TimeStart,
		w.TimeEnd,
		w.MinimumLeadTime,
		w.UpdatedAt,
		w.ID,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapPQError(err))
	}

	return expectAffected(op, res)
}

func (s *Storage) DeleteAvailabilityWindow(ctx context.Context, id string) error {
	const op = "storage.postgres.DeleteAvailabilityWindow"

	res, err := s.db.ExecContext(ctx, `DELETE FROM availability_windows WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return expectAffected(op, res)
}

func scanAvailabilityWindow(row rowScanner) (*models.AvailabilityWindow, error) {
	var w models.AvailabilityWindow
	var days pq.StringArray

	err := row.Scan(
		&w.ID,
		&days,
		&w.TimeStart,
		&w.TimeEnd,
		&w.MinimumLeadTime,
		&w.CreatedAt,
		&w.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	w.DaysOfWeek, err = models.WeekdaysFromNames(days)
	if err != nil {
		return nil, err
	}

	return &w, nil
}

// #### recess windows ####

const recessColumns = `id, days_of_week, time_start, time_end, date_begin, date_end, created_at, updated_at`

func (s *Storage) CreateRecessWindow(ctx context.Context, r *models.RecessWindow) error {
	const op = "storage.postgres.CreateRecessWindow"

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO recess_windows
		(id, days_of_week, time_start, time_end, date_begin, date_end, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.ID,
		pq.Array(r.DaysOfWeek.Names()),
		r.TimeStart,
		r.TimeEnd,
		nullDate(r.DateBegin),
		nullDate(r.DateEnd),
		r.CreatedAt,
		r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapPQError(err))
	}

	return nil
}

func (s *Storage) GetRecessWindow(ctx context.Context, id string) (*models.RecessWindow, error) {
	const op = "storage.postgres.GetRecessWindow"

	row := s.db.QueryRowContext(ctx,
		`SELECT `+recessColumns+` FROM recess_windows WHERE id=$1`, id)

	r, err := scanRecessWindow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return r, nil
}

func (s *Storage) ListRecessWindows(ctx context.Context) ([]models.RecessWindow, error) {
	const op = "storage.postgres.ListRecessWindows"

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recessColumns+` FROM recess_windows ORDER BY time_start, id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	recesses := []models.RecessWindow{}
	for rows.Next() {
		r, err := scanRecessWindow(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		recesses = append(recesses, *r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return recesses, nil
}

func (s *Storage) UpdateRecessWindow(ctx context.Context, r *models.RecessWindow) error {
	const op = "storage.postgres.UpdateRecessWindow"

	res, err := s.db.ExecContext(ctx,
		`UPDATE recess_windows
		SET days_of_week=$1, time_start=$2, time_end=$3, date_begin=$4, date_end=$5, updated_at=$6
		WHERE id=$7`,
		pq.Array(r.DaysOfWeek.Names()),
		r.TimeStart,
		r.TimeEnd,
		nullDate(r.DateBegin),
		nullDate(r.DateEnd),
		r.UpdatedAt,
		r.ID,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapPQError(err))
	}

	return expectAffected(op, res)
}

func (s *Storage) DeleteRecessWindow(ctx context.Context, id string) error {
	const op = "storage.postgres.DeleteRecessWindow"

	res, err := s.db.ExecContext(ctx, `DELETE FROM recess_windows WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return expectAffected(op, res)
}

func scanRecessWindow(row rowScanner) (*models.RecessWindow, error) {
	var r models.RecessWindow
	var days pq.StringArray
	var begin, end sql.NullTime

	err := row.Scan(
		&r.ID,
		&days,
		&r.TimeStart,
		&r.TimeEnd,
		&begin,
		&end,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.DaysOfWeek, err = models.WeekdaysFromNames(days)
	if err != nil {
		return nil, err
	}

	if begin.Valid {
		d := models.DateOf(begin.Time)
		r.DateBegin = &d
	}
	if end.Valid {
		d := models.DateOf(end.Time)
		r.DateEnd = &d
	}

	return &r, nil
}

// #### events ####

const eventColumns = `id, date, time, title, link, description, created_at, updated_at`

func (s *Storage) CreateEvent(ctx context.Context, e *models.Event) error {
	const op = "storage.postgres.CreateEvent"

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events
		(id, date, time, title, link, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID,
		models.FormatDate(e.Date),
		e.Time,
		e.Title,
		e.Link,
		e.Description,
		e.CreatedAt,
		e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapPQError(err))
	}

	return nil
}

func (s *Storage) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	const op = "storage.postgres.GetEvent"

	row := s.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id=$1`, id)

	e, err := scanEvent(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return e, nil
}

// ListEvents returns every event, or only those on date when it is not nil.
func (s *Storage) ListEvents(ctx context.Context, date *time.Time) ([]models.Event, error) {
	const op = "storage.postgres.ListEvents"

	query := `SELECT ` + eventColumns + ` FROM events`
	var args []any
	if date != nil {
		query += ` WHERE date=$1`
		args = append(args, models.FormatDate(*date))
	}
	query += ` ORDER BY date, time, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		events = append(events, *e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return events, nil
}

func (s *Storage) UpdateEvent(ctx context.Context, e *models.Event) error {
	const op = "storage.postgres.UpdateEvent"

	res, err := s.db.ExecContext(ctx,
		`UPDATE events
		SET date=$1, time=$2, title=$3, link=$4, description=$5, updated_at=$6
		WHERE id=$7`,
		models.FormatDate(e.Date),
		e.Time,
		e.Title,
		e.Link,
		e.Description,
		e.UpdatedAt,
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapPQError(err))
	}

	return expectAffected(op, res)
}

func (s *Storage) DeleteEvent(ctx context.Context, id string) error {
	const op = "storage.postgres.DeleteEvent"

	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return expectAffected(op, res)
}

func scanEvent(row rowScanner) (*models.Event, error) {
	var e models.Event

	err := row.Scan(
		&e.ID,
		&e.Date,
		&e.Time,
		&e.Title,
		&e.Link,
		&e.Description,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Date = models.DateOf(e.Date)

	return &e, nil
}

// #### appointments ####

const appointmentColumns = `id, user_email, date, time, created_at, updated_at`

// CreateAppointment inserts a reservation. The (date, time) unique constraint
// turns a lost race into response.ErrDuplicateSlot.
func (s *Storage) CreateAppointment(ctx context.Context, a *models.Appointment) error {
	const op = "storage.postgres.CreateAppointment"

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO appointments
		(id, user_email, date, time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID,
		a.UserEmail,
		models.FormatDate(a.Date),
		a.Time,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		var sqlErr *pq.Error
		if errors.As(err, &sqlErr) && sqlErr.Code == uniqueViolation {
			return fmt.Errorf("%s: %w", op, response.ErrDuplicateSlot)
		}

		return fmt.Errorf("%s: %w", op, mapPQError(err))
	}

	return nil
}

func (s *Storage) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	const op = "storage.postgres.GetAppointment"

	row := s.db.QueryRowContext(ctx,
		`SELECT `+appointmentColumns+` FROM appointments WHERE id=$1`, id)

	a, err := scanAppointment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, response.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return a, nil
}

func (s *Storage) ListAppointments(ctx context.Context, f models.AppointmentFilter) ([]models.Appointment, error) {
	const op = "storage.postgres.ListAppointments"

	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE TRUE`
	var args []any

	if f.Date != nil {
		args = append(args, models.FormatDate(*f.Date))
		query += fmt.Sprintf(` AND date=$%d`, len(args))
	}
	if f.UserEmail != "" {
		args = append(args, f.UserEmail)
		query += fmt.Sprintf(` AND user_email=$%d`, len(args))
	}
	query += ` ORDER BY date, time`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	appointments := []models.Appointment{}
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		appointments = append(appointments, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return appointments, nil
}

func (s *Storage) DeleteAppointment(ctx context.Context, id string) error {
	const op = "storage.postgres.DeleteAppointment"

	res, err := s.db.ExecContext(ctx, `DELETE FROM appointments WHERE id=$1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return expectAffected(op, res)
}

func scanAppointment(row rowScanner) (*models.Appointment, error) {
	var a models.Appointment

	err := row.Scan(
		&a.ID,
		&a.UserEmail,
		&a.Date,
		&a.Time,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Date = models.DateOf(a.Date)

	return &a, nil
}

// #### credits ####

// GetCredits returns the balance of email, zero when the user never bought any.
func (s *Storage) GetCredits(ctx context.Context, email string) (*models.CreditBalance, error) {
	const op = "storage.postgres.GetCredits"

	balance := models.CreditBalance{UserEmail: email}

	err := s.db.QueryRowContext(ctx,
		`SELECT credits, updated_at FROM appointment_credits WHERE user_email=$1`, email).
		Scan(&balance.Credits, &balance.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &balance, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &balance, nil
}

// AddCredits increments the balance of email by n, creating the row on first purchase.
func (s *Storage) AddCredits(ctx context.Context, id, email string, n int, at time.Time) (*models.CreditBalance, error) {
	const op = "storage.postgres.AddCredits"

	balance := models.CreditBalance{UserEmail: email}

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO appointment_credits (id, user_email, credits, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (user_email)
		DO UPDATE
		SET credits = appointment_credits.credits + EXCLUDED.credits,
			updated_at = EXCLUDED.updated_at
		RETURNING credits, updated_at`,
		id, email, n, at,
	).Scan(&balance.Credits, &balance.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapPQError(err))
	}

	return &balance, nil
}

func expectAffected(op string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if n == 0 {
		return fmt.Errorf("%s: %w", op, response.ErrNotFound)
	}

	return nil
}

// mapPQError turns constraint violations caused by bad input into validation errors.
func mapPQError(err error) error {
	var sqlErr *pq.Error
	if !errors.As(err, &sqlErr) {
		return err
	}

	switch sqlErr.Code {
	case checkViolation:
		return fmt.Errorf("%w: %s", response.ErrValidation, sqlErr.Constraint)
	case foreignKeyViolation:
		return fmt.Errorf("%w: %s", response.ErrNotFound, sqlErr.Constraint)
	default:
		return err
	}
}

func nullDate(t *time.Time) any {
	if t == nil {
		return nil
	}

	return models.FormatDate(*t)
}
