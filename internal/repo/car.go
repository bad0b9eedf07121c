// Package repo contains all database access logic for the car rental service.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping. The compound
// booking operations are repo-level transactions because their atomicity is a
// storage concern: the availability flag and the booking row must move together.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/car-rental/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// txdb adds transaction support on top of db. It is satisfied by both
// *pgxpool.Pool and pgx.Tx (a nested Begin opens a savepoint), so the same
// rollback trick used for plain repos works for the transactional BookingRepo.
type txdb interface {
	db
	Begin(ctx context.Context) (pgx.Tx, error)
}

// CarRepo defines the persistence operations for the car catalog.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type CarRepo interface {
	// Create inserts a new car and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, car domain.Car) (domain.Car, error)

	// GetByID retrieves a single car by its UUID primary key.
	// Returns domain.ErrCarNotFound if no car with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Car, error)

	// List returns all cars ordered by creation time descending.
	List(ctx context.Context) ([]domain.Car, error)

	// ListPaged returns one page of cars and the total count.
	ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Car, int64, error)

	// Search returns cars whose name, model, or type contains the substring.
	// Matching is case-insensitive (ILIKE); pattern metacharacters in the
	// input are escaped so the argument is always a literal substring.
	Search(ctx context.Context, substring string) ([]domain.Car, error)

	// ApplyRating folds one rating value into the car's running mean and
	// increments total_ratings, as a single atomic UPDATE. Concurrent calls
	// for the same car cannot lose updates. Returns domain.ErrCarNotFound
	// if the car does not exist.
	ApplyRating(ctx context.Context, id uuid.UUID, value int) (domain.Car, error)
}

// pgCarRepo is the Postgres implementation of CarRepo.
type pgCarRepo struct {
	db db
}

// NewCarRepo constructs a CarRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewCarRepo(db db) CarRepo {
	return &pgCarRepo{db: db}
}

const carColumns = `id, name, model, type, price_per_day, available, image_path,
	rating, total_ratings, created_at, updated_at`

// Create inserts a new car row and returns the full persisted record.
// New cars are always available with a zeroed rating aggregate.
func (r *pgCarRepo) Create(ctx context.Context, car domain.Car) (domain.Car, error) {
	const q = `
		INSERT INTO cars (name, model, type, price_per_day, image_path)
		VALUES (@name, @model, @type, @price_per_day, @image_path)
		RETURNING ` + carColumns

	args := pgx.NamedArgs{
		"name":          car.Name,
		"model":         car.Model,
		"type":          car.Type,
		"price_per_day": car.PricePerDay,
		"image_path":    car.ImagePath,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanCar(row)
	if err != nil {
		return domain.Car{}, fmt.Errorf("repo.CarRepo.Create: %w", storeErr(err))
	}
	return result, nil
}

// GetByID retrieves a car by primary key.
func (r *pgCarRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Car, error) {
	const q = `SELECT ` + carColumns + ` FROM cars WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanCar(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Car{}, fmt.Errorf("repo.CarRepo.GetByID: %w", domain.ErrCarNotFound)
		}
		return domain.Car{}, fmt.Errorf("repo.CarRepo.GetByID: %w", storeErr(err))
	}
	return result, nil
}

// List returns all cars, newest first.
func (r *pgCarRepo) List(ctx context.Context) ([]domain.Car, error) {
	const q = `SELECT ` + carColumns + ` FROM cars ORDER BY created_at DESC, id`

	cars, err := r.queryCars(ctx, q, nil)
	if err != nil {
		return nil, fmt.Errorf("repo.CarRepo.List: %w", err)
	}
	return cars, nil
}

// ListPaged returns one page of cars plus the total row count.
func (r *pgCarRepo) ListPaged(ctx context.Context, p domain.PaginationParams) ([]domain.Car, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM cars`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.CarRepo.ListPaged: count: %w", storeErr(err))
	}

	const q = `
		SELECT ` + carColumns + `
		FROM cars
		ORDER BY created_at DESC, id
		LIMIT @limit OFFSET @offset`

	cars, err := r.queryCars(ctx, q, pgx.NamedArgs{"limit": p.Limit, "offset": p.Offset()})
	if err != nil {
		return nil, 0, fmt.Errorf("repo.CarRepo.ListPaged: %w", err)
	}
	return cars, total, nil
}

// Search matches the substring case-insensitively against name, model, and
// type (logical OR). It is a plain substring match, not a pattern match:
// %, _ and \ in the input are escaped before building the LIKE pattern.
func (r *pgCarRepo) Search(ctx context.Context, substring string) ([]domain.Car, error) {
	const q = `
		SELECT ` + carColumns + `
		FROM cars
		WHERE name ILIKE @pattern ESCAPE '\'
		   OR model ILIKE @pattern ESCAPE '\'
		   OR type ILIKE @pattern ESCAPE '\'
		ORDER BY created_at DESC, id`

	pattern := "%" + escapeLike(substring) + "%"
	cars, err := r.queryCars(ctx, q, pgx.NamedArgs{"pattern": pattern})
	if err != nil {
		return nil, fmt.Errorf("repo.CarRepo.Search: %w", err)
	}
	return cars, nil
}

// ApplyRating computes the incremental mean in-database so the
// (read-aggregate, write-aggregate) pair is a single atomic statement.
func (r *pgCarRepo) ApplyRating(ctx context.Context, id uuid.UUID, value int) (domain.Car, error) {
	const q = `
		UPDATE cars
		SET rating        = (rating * total_ratings + @value) / (total_ratings + 1),
		    total_ratings = total_ratings + 1,
		    updated_at    = now()
		WHERE id = @id
		RETURNING ` + carColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id, "value": value})
	result, err := scanCar(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Car{}, fmt.Errorf("repo.CarRepo.ApplyRating: %w", domain.ErrCarNotFound)
		}
		return domain.Car{}, fmt.Errorf("repo.CarRepo.ApplyRating: %w", storeErr(err))
	}
	return result, nil
}

// queryCars runs a multi-row car query and scans the results.
func (r *pgCarRepo) queryCars(ctx context.Context, q string, args pgx.NamedArgs) ([]domain.Car, error) {
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

	var cars []domain.Car
	for rows.Next() {
		c, err := scanCar(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", storeErr(err))
		}
		cars = append(cars, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", storeErr(err))
	}

	return cars, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan helpers
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanCar maps a single database row into a domain.Car.
// price_per_day is NUMERIC in the schema; pgtype.Numeric preserves the exact
// value through the float64 conversion at this scale (two decimal places).
func scanCar(s scanner) (domain.Car, error) {
	var (
		c     domain.Car
		id    pgtype.UUID
		price pgtype.Numeric
	)

	err := s.Scan(&id, &c.Name, &c.Model, &c.Type, &price, &c.Available,
		&c.ImagePath, &c.Rating, &c.TotalRatings, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Car{}, err
	}

	c.ID = uuid.UUID(id.Bytes)
	f, err := price.Float64Value()
	if err != nil {
		return domain.Car{}, fmt.Errorf("price_per_day: %w", err)
	}
	c.PricePerDay = f.Float64

	return c, nil
}

// escapeLike escapes LIKE/ILIKE pattern metacharacters so user input is
// always treated as a literal substring.
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}

// storeErr wraps infrastructure failures as domain.ErrStoreUnavailable so
// callers can distinguish them from domain outcomes. Sentinels and pgx's
// ErrNoRows pass through untouched for the callers that map them.
func storeErr(err error) error {
	if err == nil || errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	if errors.Is(err, domain.ErrStoreUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}
