package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"unistay/internal/models"
)

type ListingRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      ListingRepository
	listingID uuid.UUID
	context   context.Context
}

func (suite *ListingRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewListingRepo(mock)
	suite.listingID = uuid.New()
	suite.context = context.Background()
}

func (suite *ListingRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestListingRepoTestSuite(t *testing.T) {
	suite.Run(t, new(ListingRepoTestSuite))
}

func (suite *ListingRepoTestSuite) listingRow(listing *models.Listing) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "title", "location", "state", "price", "image_url", "description",
		"room_type", "available_from", "seed", "removed", "created_at", "updated_at", "removed_at",
	}).AddRow(listing.ID, listing.Title, listing.Location, listing.State, listing.Price,
		listing.ImageURL, listing.Description, listing.RoomType, listing.AvailableFrom,
		listing.Seed, listing.Removed, listing.CreatedAt, listing.UpdatedAt, listing.RemovedAt)
}

func (suite *ListingRepoTestSuite) sampleListing() *models.Listing {
	now := time.Now()
	return &models.Listing{
		ID:            suite.listingID,
		Title:         "Sunny studio near campus",
		Location:      "Naamsestraat 45, Leuven",
		State:         "Vlaams-Brabant",
		Price:         520,
		Description:   "Compact studio with private kitchenette.",
		RoomType:      "studio",
		AvailableFrom: now,
		Seed:          "leuven-studio-045",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func (suite *ListingRepoTestSuite) TestCreate_Success() {
	listing := suite.sampleListing()

	suite.mock.ExpectExec(`INSERT INTO listings`).
		WithArgs(listing.ID, listing.Title, listing.Location, listing.State,
			listing.Price, listing.ImageURL, listing.Description, listing.RoomType,
			listing.AvailableFrom, listing.Seed).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, listing)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *ListingRepoTestSuite) TestGetByID_Success() {
	listing := suite.sampleListing()

	suite.mock.ExpectQuery(`SELECT (.+) FROM listings WHERE id = \$1 AND removed = false`).
		WithArgs(suite.listingID).
		WillReturnRows(suite.listingRow(listing))

	got, err := suite.repo.GetByID(suite.context, suite.listingID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), listing.ID, got.ID)
	assert.Equal(suite.T(), listing.Title, got.Title)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *ListingRepoTestSuite) TestGetByID_NotFound() {
	suite.mock.ExpectQuery(`SELECT (.+) FROM listings WHERE id = \$1 AND removed = false`).
		WithArgs(suite.listingID).
		WillReturnError(pgx.ErrNoRows)

	_, err := suite.repo.GetByID(suite.context, suite.listingID)
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
}

// A soft-removed row is not served by id; the predicate keeps removed
// listings off the public detail path until an admin restores them.
func (suite *ListingRepoTestSuite) TestGetByID_ExcludesRemoved() {
	suite.mock.ExpectQuery(`SELECT (.+) FROM listings WHERE id = \$1 AND removed = false`).
		WithArgs(suite.listingID).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "title", "location", "state", "price", "image_url", "description",
			"room_type", "available_from", "seed", "removed", "created_at", "updated_at", "removed_at",
		}))

	_, err := suite.repo.GetByID(suite.context, suite.listingID)
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *ListingRepoTestSuite) TestGetByIDs_EmptyInput() {
	listings, err := suite.repo.GetByIDs(suite.context, nil)
	assert.NoError(suite.T(), err)
	assert.Empty(suite.T(), listings)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *ListingRepoTestSuite) TestGetByIDs_FiltersRemoved() {
	listing := suite.sampleListing()
	ids := []uuid.UUID{suite.listingID, uuid.New()}

	suite.mock.ExpectQuery(`SELECT (.+) FROM listings WHERE id = ANY\(\$1\) AND removed = false`).
		WithArgs(ids).
		WillReturnRows(suite.listingRow(listing))

	listings, err := suite.repo.GetByIDs(suite.context, ids)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), listings, 1)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *ListingRepoTestSuite) TestRemove_SoftDeletes() {
	suite.mock.ExpectExec(`UPDATE listings SET removed = true, removed_at = NOW\(\)`).
		WithArgs(suite.listingID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.Remove(suite.context, suite.listingID)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *ListingRepoTestSuite) TestRestore_ClearsRemovedAt() {
	suite.mock.ExpectExec(`UPDATE listings SET removed = false, removed_at = NULL`).
		WithArgs(suite.listingID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.Restore(suite.context, suite.listingID)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *ListingRepoTestSuite) TestList_Success() {
	listing := suite.sampleListing()

	suite.mock.ExpectQuery(`SELECT (.+) FROM listings`).
		WithArgs(20, 0).
		WillReturnRows(suite.listingRow(listing))

	listings, err := suite.repo.List(suite.context, 20, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), listings, 1)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *ListingRepoTestSuite) TestSearch_AppliesFilters() {
	listing := suite.sampleListing()
	roomType := "studio"
	maxPrice := 600.0
	filter := &models.ListingSearchFilter{
		Query:    "studio",
		RoomType: &roomType,
		MaxPrice: &maxPrice,
	}

	suite.mock.ExpectQuery(`SELECT (.+) FROM listings`).
		WithArgs(filter.Query, filter.RoomType, filter.MaxPrice, filter.Location, 10, 0).
		WillReturnRows(suite.listingRow(listing))

	listings, err := suite.repo.Search(suite.context, filter, 10, 0)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), listings, 1)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *ListingRepoTestSuite) TestSearch_QueryError() {
	suite.mock.ExpectQuery(`SELECT (.+) FROM listings`).
		WillReturnError(errors.New("connection refused"))

	_, err := suite.repo.Search(suite.context, &models.ListingSearchFilter{}, 10, 0)
	assert.Error(suite.T(), err)
}

func (suite *ListingRepoTestSuite) TestPurgeRemoved_ReportsCount() {
	suite.mock.ExpectExec(`DELETE FROM listings WHERE removed = true AND removed_at <`).
		WithArgs("2592000 seconds").
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	purged, err := suite.repo.PurgeRemoved(suite.context, 30*24*time.Hour)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(3), purged)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}
