package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the Postgres error code raised by the partial unique
// index on completed (date, time) pairs.
const uniqueViolation = "23505"

// DB is the subset of pgxpool.Pool the store needs; pgxmock satisfies it
// in tests.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore is the durable Store implementation. The slot occupancy
// index is not a separate table: it is derived from completed rows and
// enforced by a partial unique index, so the no-double-booking invariant
// holds even against writers outside this process.
type PostgresStore struct {
	db DB
}

// NewPostgresStore creates a store backed by a pgx pool or equivalent.
func NewPostgresStore(db DB) *PostgresStore {
	if db == nil {
		panic("appointments: db required")
	}
	return &PostgresStore{db: db}
}

// Insert stores a new pending appointment row.
func (s *PostgresStore) Insert(ctx context.Context, appt *Appointment) error {
	query := `
		INSERT INTO appointments
			(id, patient_name, patient_email, patient_phone, appointment_date, appointment_time, reason, payment_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.db.Exec(ctx, query,
		appt.ID,
		appt.PatientName,
		appt.PatientEmail,
		appt.PatientPhone,
		appt.Date,
		appt.Time,
		appt.Reason,
		string(appt.Status),
		appt.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrDuplicateID
		}
		return fmt.Errorf("appointments: insert: %w", err)
	}
	return nil
}

// Get fetches an appointment by id.
func (s *PostgresStore) Get(ctx context.Context, id string) (*Appointment, error) {
	query := `
		SELECT id, patient_name, patient_email, patient_phone, appointment_date, appointment_time,
		       reason, payment_status, COALESCE(razorpay_order_id, ''), COALESCE(razorpay_payment_id, ''), created_at
		FROM appointments
		WHERE id = $1
	`
	appt, err := scanAppointment(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("appointments: select: %w", err)
	}
	return appt, nil
}

// AttachOrder records the gateway order reference.
func (s *PostgresStore) AttachOrder(ctx context.Context, id, orderRef string) error {
	tag, err := s.db.Exec(ctx, `UPDATE appointments SET razorpay_order_id = $2 WHERE id = $1`, id, orderRef)
	if err != nil {
		return fmt.Errorf("appointments: attach order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CompleteAndReserve finalizes payment inside a transaction. The row lock
// serializes racing confirmations for the same appointment; the partial
// unique index rejects a second completed row for the same slot.
func (s *PostgresStore) CompleteAndReserve(ctx context.Context, id, paymentRef string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("appointments: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var status string
	err = tx.QueryRow(ctx, `SELECT payment_status FROM appointments WHERE id = $1 FOR UPDATE`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("appointments: lock row: %w", err)
	}
	if PaymentStatus(status) != StatusPending {
		return ErrTerminalState
	}

	_, err = tx.Exec(ctx,
		`UPDATE appointments SET payment_status = $2, razorpay_payment_id = $3 WHERE id = $1`,
		id, string(StatusCompleted), paymentRef,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrSlotTaken
		}
		return fmt.Errorf("appointments: complete: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrSlotTaken
		}
		return fmt.Errorf("appointments: commit: %w", err)
	}
	return nil
}

// MarkFailed transitions pending to failed; terminal rows are untouched.
func (s *PostgresStore) MarkFailed(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE appointments SET payment_status = $2 WHERE id = $1 AND payment_status = $3`,
		id, string(StatusFailed), string(StatusPending),
	)
	if err != nil {
		return fmt.Errorf("appointments: mark failed: %w", err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Nothing updated: either unknown id or already terminal (a no-op).
	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM appointments WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("appointments: mark failed lookup: %w", err)
	}
	if !exists {
		return ErrNotFound
	}
	return nil
}

// List returns all appointments, newest first.
func (s *PostgresStore) List(ctx context.Context) ([]*Appointment, error) {
	query := `
		SELECT id, patient_name, patient_email, patient_phone, appointment_date, appointment_time,
		       reason, payment_status, COALESCE(razorpay_order_id, ''), COALESCE(razorpay_payment_id, ''), created_at
		FROM appointments
		ORDER BY created_at DESC, id
	`
	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("appointments: list: %w", err)
	}
	defer rows.Close()

	var out []*Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("appointments: list scan: %w", err)
		}
		out = append(out, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: list rows: %w", err)
	}
	return out, nil
}

// OccupiedTimes returns completed slot labels for a date.
func (s *PostgresStore) OccupiedTimes(ctx context.Context, date string) (map[string]bool, error) {
	rows, err := s.db.Query(ctx,
		`SELECT appointment_time FROM appointments WHERE appointment_date = $1 AND payment_status = $2`,
		date, string(StatusCompleted),
	)
	if err != nil {
		return nil, fmt.Errorf("appointments: occupied times: %w", err)
	}
	defer rows.Close()

	taken := make(map[string]bool)
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("appointments: occupied scan: %w", err)
		}
		taken[label] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("appointments: occupied rows: %w", err)
	}
	return taken, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var appt Appointment
	var status string
	if err := row.Scan(
		&appt.ID,
		&appt.PatientName,
		&appt.PatientEmail,
		&appt.PatientPhone,
		&appt.Date,
		&appt.Time,
		&appt.Reason,
		&status,
		&appt.OrderRef,
		&appt.PaymentRef,
		&appt.CreatedAt,
	); err != nil {
		return nil, err
	}
	appt.Status = PaymentStatus(status)
	return &appt, nil
}
