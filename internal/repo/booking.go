package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/car-rental/backend/internal/domain"
)

// BookingRepo defines the persistence operations for the booking ledger.
//
// Book and Return are compound operations: each runs in its own transaction
// because the booking row and the car's availability flag must change
// together. The availability flag is claimed with a conditional UPDATE
// (compare-and-set), so concurrent bookings of the same car serialize on the
// row lock and exactly one wins — no elevated isolation level required.
type BookingRepo interface {
	// Book atomically claims the car (available → false) and inserts the
	// booking with returned=false. Returns domain.ErrCarNotFound if the car
	// does not exist, domain.ErrCarUnavailable if it already has an active
	// booking.
	Book(ctx context.Context, booking domain.Booking) (domain.Booking, error)

	// Return atomically marks the booking returned and flips its car back to
	// available. The car is resolved from the booking row inside the
	// transaction, so the flag can never be flipped against the wrong car.
	// Returns domain.ErrBookingNotFound if the booking does not exist,
	// domain.ErrAlreadyReturned if it was already returned.
	Return(ctx context.Context, bookingID uuid.UUID) (domain.Booking, error)

	// GetByID retrieves a single booking by its UUID primary key.
	// Returns domain.ErrBookingNotFound if no booking with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error)

	// ListByUserID returns all bookings made by one user, newest first.
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error)

	// List returns all bookings, newest first.
	List(ctx context.Context) ([]domain.Booking, error)

	// ListPaged returns one page of all bookings and the total count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Booking, int64, error)
}

// pgBookingRepo is the Postgres implementation of BookingRepo.
type pgBookingRepo struct {
	db txdb
}

// NewBookingRepo constructs a BookingRepo backed by the provided connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx — the compound
// operations then run in savepoints, so rollback isolation still applies.
func NewBookingRepo(db txdb) BookingRepo {
	return &pgBookingRepo{db: db}
}

const bookingColumns = `id, user_id, car_id, start_date, end_date, total_amount, returned, created_at`

// Book claims the car and records the booking in one transaction.
func (r *pgBookingRepo) Book(ctx context.Context, booking domain.Booking) (domain.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Book: begin: %w", storeErr(err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	// Compare-and-set on the availability flag. Zero rows means the car is
	// missing or already taken; a follow-up SELECT tells the caller which.
	const claim = `
		UPDATE cars
		SET available = FALSE, updated_at = now()
		WHERE id = @car_id AND available`

	tag, err := tx.Exec(ctx, claim, pgx.NamedArgs{"car_id": booking.CarID})
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Book: claim car: %w", storeErr(err))
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		const check = `SELECT EXISTS (SELECT 1 FROM cars WHERE id = @car_id)`
		if err := tx.QueryRow(ctx, check, pgx.NamedArgs{"car_id": booking.CarID}).Scan(&exists); err != nil {
			return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Book: check car: %w", storeErr(err))
		}
		if !exists {
			return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Book: %w", domain.ErrCarNotFound)
		}
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Book: %w", domain.ErrCarUnavailable)
	}

	const insert = `
		INSERT INTO bookings (user_id, car_id, start_date, end_date, total_amount)
		VALUES (@user_id, @car_id, @start_date, @end_date, @total_amount)
		RETURNING ` + bookingColumns

	args := pgx.NamedArgs{
		"user_id":      booking.UserID,
		"car_id":       booking.CarID,
		"start_date":   booking.StartDate,
		"end_date":     booking.EndDate,
		"total_amount": booking.TotalAmount,
	}

	result, err := scanBooking(tx.QueryRow(ctx, insert, args))
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Book: insert: %w", storeErr(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Book: commit: %w", storeErr(err))
	}
	return result, nil
}

// Return marks the booking returned and frees its car in one transaction.
func (r *pgBookingRepo) Return(ctx context.Context, bookingID uuid.UUID) (domain.Booking, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Return: begin: %w", storeErr(err))
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	// Claim the booking. Zero rows means it is missing or already returned.
	const claim = `
		UPDATE bookings
		SET returned = TRUE
		WHERE id = @id AND NOT returned
		RETURNING ` + bookingColumns

	result, err := scanBooking(tx.QueryRow(ctx, claim, pgx.NamedArgs{"id": bookingID}))
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Return: claim: %w", storeErr(err))
		}
		var returned bool
		const check = `SELECT returned FROM bookings WHERE id = @id`
		err := tx.QueryRow(ctx, check, pgx.NamedArgs{"id": bookingID}).Scan(&returned)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Return: %w", domain.ErrBookingNotFound)
		case err != nil:
			return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Return: check: %w", storeErr(err))
		default:
			return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Return: %w", domain.ErrAlreadyReturned)
		}
	}

	const free = `UPDATE cars SET available = TRUE, updated_at = now() WHERE id = @car_id`
	if _, err := tx.Exec(ctx, free, pgx.NamedArgs{"car_id": result.CarID}); err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Return: free car: %w", storeErr(err))
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.Return: commit: %w", storeErr(err))
	}
	return result, nil
}

// GetByID retrieves a booking by primary key.
func (r *pgBookingRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings WHERE id = @id`

	result, err := scanBooking(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Booking{}, fmt.Errorf("repo.BookingRepo.GetByID: %w", domain.ErrBookingNotFound)
		}
		return domain.Booking{}, fmt.Errorf("repo.BookingRepo.GetByID: %w", storeErr(err))
	}
	return result, nil
}

// ListByUserID returns one user's bookings, newest first.
func (r *pgBookingRepo) ListByUserID(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	const q = `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = @user_id
		ORDER BY created_at DESC, id`

	bookings, err := r.queryBookings(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.ListByUserID: %w", err)
	}
	return bookings, nil
}

// List returns all bookings, newest first.
func (r *pgBookingRepo) List(ctx context.Context) ([]domain.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC, id`

	bookings, err := r.queryBookings(ctx, q, nil)
	if err != nil {
		return nil, fmt.Errorf("repo.BookingRepo.List: %w", err)
	}
	return bookings, nil
}

// ListPaged returns one page of all bookings plus the total row count.
func (r *pgBookingRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Booking, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM bookings`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.BookingRepo.ListPaged: count: %w", storeErr(err))
	}

	const q = `
		SELECT ` + bookingColumns + `
		FROM bookings
		ORDER BY created_at DESC, id
		LIMIT @limit OFFSET @offset`

	bookings, err := r.queryBookings(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.BookingRepo.ListPaged: %w", err)
	}
	return bookings, total, nil
}

// queryBookings runs a multi-row booking query and scans the results.
func (r *pgBookingRepo) queryBookings(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.Booking, error) {
	var rows pgx.Rows
	var err error
	if args == nil {
		rows, err = r.db.Query(ctx, q)
	} else {
		rows, err = r.db.Query(ctx, q, args)
	}
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", storeErr(err))
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", storeErr(err))
	}

	return bookings, nil
}

// scanBooking maps a single database row into a domain.Booking.
// start_date and end_date are DATE columns; they surface as midnight UTC.
func scanBooking(s scanner) (domain.Booking, error) {
	var (
		b      domain.Booking
		id     pgtype.UUID
		userID pgtype.UUID
		carID  pgtype.UUID
		start  pgtype.Date
		end    pgtype.Date
		amount pgtype.Numeric
	)

	err := s.Scan(&id, &userID, &carID, &start, &end, &amount, &b.Returned, &b.CreatedAt)
	if err != nil {
		return domain.Booking{}, err
	}

	b.ID = uuid.UUID(id.Bytes)
	b.UserID = uuid.UUID(userID.Bytes)
	b.CarID = uuid.UUID(carID.Bytes)
	b.StartDate = start.Time
	b.EndDate = end.Time

	f, err := amount.Float64Value()
	if err != nil {
		return domain.Booking{}, fmt.Errorf("total_amount: %w", err)
	}
	b.TotalAmount = f.Float64

	return b, nil
}
