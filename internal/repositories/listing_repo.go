package repositories

import (
	"context"
	"fmt"
	"time"

	"unistay/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *models.Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Listing, error)
	Update(ctx context.Context, listing *models.Listing) error
	Remove(ctx context.Context, id uuid.UUID) error
	Restore(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Listing, error)
	Search(ctx context.Context, filter *models.ListingSearchFilter, limit, offset int) ([]*models.Listing, error)
	PurgeRemoved(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Querier is the pgx surface the repositories need; satisfied by
// *pgxpool.Pool and by pgxmock in tests.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type listingRepo struct {
	db Querier
}

func NewListingRepo(db Querier) ListingRepository {
	return &listingRepo{db: db}
}

const listingColumns = `id, title, location, state, price, image_url, description, room_type, available_from, seed, removed, created_at, updated_at, removed_at`

func scanListing(row pgx.Row) (*models.Listing, error) {
	listing := &models.Listing{}
	err := row.Scan(&listing.ID, &listing.Title, &listing.Location, &listing.State, &listing.Price,
		&listing.ImageURL, &listing.Description, &listing.RoomType, &listing.AvailableFrom,
		&listing.Seed, &listing.Removed, &listing.CreatedAt, &listing.UpdatedAt, &listing.RemovedAt)
	if err != nil {
		return nil, err
	}
	return listing, nil
}

func (r *listingRepo) Create(ctx context.Context, listing *models.Listing) error {
	query := `
		INSERT INTO listings (id, title, location, state, price, image_url, description, room_type, available_from, seed, removed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, false, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, listing.ID, listing.Title, listing.Location, listing.State,
		listing.Price, listing.ImageURL, listing.Description, listing.RoomType,
		listing.AvailableFrom, listing.Seed)
	return err
}

func (r *listingRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Listing, error) {
	query := fmt.Sprintf(`SELECT %s FROM listings WHERE id = $1 AND removed = false`, listingColumns)
	return scanListing(r.db.QueryRow(ctx, query, id))
}

func (r *listingRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Listing, error) {
	if len(ids) == 0 {
		return []*models.Listing{}, nil
	}
	query := fmt.Sprintf(`SELECT %s FROM listings WHERE id = ANY($1) AND removed = false`, listingColumns)
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []*models.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	return listings, rows.Err()
}

func (r *listingRepo) Update(ctx context.Context, listing *models.Listing) error {
	query := `
		UPDATE listings
		SET title = $1, location = $2, state = $3, price = $4, image_url = $5, description = $6, room_type = $7, available_from = $8, updated_at = NOW()
		WHERE id = $9
	`
	_, err := r.db.Exec(ctx, query, listing.Title, listing.Location, listing.State, listing.Price,
		listing.ImageURL, listing.Description, listing.RoomType, listing.AvailableFrom, listing.ID)
	return err
}

// Remove soft-deletes a listing so an admin can restore it later.
func (r *listingRepo) Remove(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE listings SET removed = true, removed_at = NOW(), updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *listingRepo) Restore(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE listings SET removed = false, removed_at = NULL, updated_at = NOW() WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *listingRepo) List(ctx context.Context, limit, offset int) ([]*models.Listing, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM listings
		WHERE removed = false
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, listingColumns)
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []*models.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	return listings, rows.Err()
}

func (r *listingRepo) Search(ctx context.Context, filter *models.ListingSearchFilter, limit, offset int) ([]*models.Listing, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM listings
		WHERE removed = false
		  AND ($1 = '' OR title ILIKE '%%' || $1 || '%%' OR description ILIKE '%%' || $1 || '%%')
		  AND ($2::text IS NULL OR room_type = $2)
		  AND ($3::numeric IS NULL OR price <= $3)
		  AND ($4::text IS NULL OR location ILIKE '%%' || $4 || '%%')
		ORDER BY created_at DESC
		LIMIT $5 OFFSET $6
	`, listingColumns)
	rows, err := r.db.Query(ctx, query, filter.Query, filter.RoomType, filter.MaxPrice, filter.Location, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []*models.Listing
	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, listing)
	}
	return listings, rows.Err()
}

// PurgeRemoved hard-deletes listings soft-removed longer ago than olderThan.
func (r *listingRepo) PurgeRemoved(ctx context.Context, olderThan time.Duration) (int64, error) {
	query := `DELETE FROM listings WHERE removed = true AND removed_at < NOW() - $1::interval`
	interval := fmt.Sprintf("%d seconds", int64(olderThan.Seconds()))
	tag, err := r.db.Exec(ctx, query, interval)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
