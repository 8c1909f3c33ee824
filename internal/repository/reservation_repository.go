package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/iliyamo/table-reservation/internal/availability"
	"github.com/iliyamo/table-reservation/internal/model"
)

// mysqlDuplicateEntry is the server error number for a unique key violation.
const mysqlDuplicateEntry = 1062

// reservationColumns lists the columns selected by every read, in scan order.
const reservationColumns = `id, code, full_name, phone, notes, res_date, res_time, end_time,
	guests, child_count, status, salon, masa, created_at, updated_at, updated_by, update_type, history`

// ReservationRepo provides persistence for reservations. Dates and times
// are stored as the same "YYYY-MM-DD" / "HH:mm" strings the API uses, and
// the append-only change history lives in a JSON column next to the row.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying sql.DB, e.g. for health checks.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(s rowScanner) (model.Reservation, error) {
	var (
		res        model.Reservation
		status     string
		updateType string
		history    []byte
	)
	err := s.Scan(&res.ID, &res.Code, &res.FullName, &res.Phone, &res.Notes, &res.Date, &res.Time, &res.EndTime,
		&res.Guests, &res.ChildCount, &status, &res.Salon, &res.Masa, &res.CreatedAt, &res.UpdatedAt,
		&res.UpdatedBy, &updateType, &history)
	if err != nil {
		return model.Reservation{}, err
	}
	res.Status = model.Status(status)
	res.UpdateType = model.UpdateType(updateType)
	if len(history) > 0 {
		if err := json.Unmarshal(history, &res.History); err != nil {
			return model.Reservation{}, fmt.Errorf("decode history of %s: %w", res.ID, err)
		}
	}
	return res, nil
}

func encodeHistory(h []model.HistoryEntry) ([]byte, error) {
	if h == nil {
		h = []model.HistoryEntry{}
	}
	return json.Marshal(h)
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func list(ctx context.Context, db querier, q string, args ...any) ([]model.Reservation, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

const queryActiveSQL = `SELECT ` + reservationColumns + ` FROM reservations
	WHERE salon = ? AND masa = ? AND res_date = ? AND status <> ?
	ORDER BY res_time`

func queryActive(ctx context.Context, db querier, salon, table, date string) ([]model.Reservation, error) {
	return list(ctx, db, queryActiveSQL, salon, table, date, string(model.StatusCancelled))
}

// QueryActive returns every non-cancelled reservation on a table and date.
// It satisfies availability.Store.
func (r *ReservationRepo) QueryActive(ctx context.Context, salon, table, date string) ([]model.Reservation, error) {
	return queryActive(ctx, r.db, salon, table, date)
}

// txStore reads active reservations through the transaction of an Update,
// so the conflict scan shares its connection and snapshot.
type txStore struct{ tx *sql.Tx }

func (s txStore) QueryActive(ctx context.Context, salon, table, date string) ([]model.Reservation, error) {
	return queryActive(ctx, s.tx, salon, table, date)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// List returns the reservations of a date matching f, newest first. Name
// and code matching is case-insensitive under the table's utf8mb4
// collation.
func (r *ReservationRepo) List(ctx context.Context, f ListFilter) ([]model.Reservation, error) {
	where := []string{"res_date = ?"}
	args := []any{f.Date}
	if f.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(f.Status))
	}
	if term := strings.TrimSpace(f.Query); term != "" {
		like := "%" + likeEscaper.Replace(term) + "%"
		where = append(where, "(full_name LIKE ? OR code LIKE ? OR phone LIKE ?)")
		args = append(args, like, like, like)
	}
	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY created_at DESC`
	return list(ctx, r.db, q, args...)
}

// ListActiveByDate returns the non-cancelled reservations of a date ordered
// by start time. It feeds the room overview and the reminder scheduler.
func (r *ReservationRepo) ListActiveByDate(ctx context.Context, date string) ([]model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations
		WHERE res_date = ? AND status <> ? ORDER BY res_time, salon, masa`
	return list(ctx, r.db, q, date, string(model.StatusCancelled))
}

// GetByID fetches a reservation by its primary key.
func (r *ReservationRepo) GetByID(ctx context.Context, id string) (model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, ErrReservationNotFound
	}
	return res, err
}

// GetByCode fetches a reservation by its public six character code.
func (r *ReservationRepo) GetByCode(ctx context.Context, code string) (model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE code = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, code))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, ErrReservationNotFound
	}
	return res, err
}

// Create inserts a reservation. A collision on the unique code index is
// reported as ErrDuplicateCode.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	history, err := encodeHistory(res.History)
	if err != nil {
		return err
	}
	const q = `INSERT INTO reservations (id, code, full_name, phone, notes, res_date, res_time, end_time,
		guests, child_count, status, salon, masa, created_at, updated_at, updated_by, update_type, history)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, q, res.ID, res.Code, res.FullName, res.Phone, res.Notes, res.Date, res.Time,
		res.EndTime, res.Guests, res.ChildCount, string(res.Status), res.Salon, res.Masa, res.CreatedAt,
		res.UpdatedAt, res.UpdatedBy, string(res.UpdateType), history)
	if err != nil {
		var me *mysql.MySQLError
		if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
			return ErrDuplicateCode
		}
		return err
	}
	return nil
}

// MutateFunc edits a locked reservation in place. It reports whether the
// row changed; returning false skips the write entirely. store reads
// inside the same transaction as the locked row.
type MutateFunc func(res *model.Reservation, store availability.Store) (changed bool, err error)

// Update loads the reservation with SELECT ... FOR UPDATE inside a
// transaction, lets fn mutate it and writes it back. If fn returns an error
// or reports no change, the transaction is rolled back and nothing is
// written. The returned value is the reservation as stored after the call.
// Every statement, including the reads fn makes through its store, runs on
// the one connection held by the transaction.
func (r *ReservationRepo) Update(ctx context.Context, id string, fn MutateFunc) (model.Reservation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Reservation{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ? FOR UPDATE`
	res, err := scanReservation(tx.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Reservation{}, ErrReservationNotFound
	}
	if err != nil {
		return model.Reservation{}, err
	}

	changed, err := fn(&res, txStore{tx: tx})
	if err != nil {
		return model.Reservation{}, err
	}
	if !changed {
		return res, nil
	}

	history, err := encodeHistory(res.History)
	if err != nil {
		return model.Reservation{}, err
	}
	const uq = `UPDATE reservations SET full_name = ?, phone = ?, notes = ?, res_date = ?, res_time = ?,
		end_time = ?, guests = ?, child_count = ?, status = ?, salon = ?, masa = ?, updated_at = ?,
		updated_by = ?, update_type = ?, history = ? WHERE id = ?`
	if _, err := tx.ExecContext(ctx, uq, res.FullName, res.Phone, res.Notes, res.Date, res.Time, res.EndTime,
		res.Guests, res.ChildCount, string(res.Status), res.Salon, res.Masa, res.UpdatedAt, res.UpdatedBy,
		string(res.UpdateType), history, res.ID); err != nil {
		return model.Reservation{}, err
	}
	if err := tx.Commit(); err != nil {
		return model.Reservation{}, err
	}
	committed = true
	return res, nil
}

// Ping verifies the database is reachable within a short deadline.
func (r *ReservationRepo) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return r.db.PingContext(ctx)
}
