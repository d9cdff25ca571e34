package postgres

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tripwise/prompt-svc/internal/models"
	"github.com/tripwise/prompt-svc/internal/utils"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	return db, mock
}

var tripColumns = []string{"trip_id", "user_id", "destination", "days_num", "travelers_num", "budget", "travel_preferences"}

func TestTripRepo_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTripRepo(db)

	uid := "u-1"
	mock.ExpectQuery(`INSERT INTO "trips" .* RETURNING "trip_id"`).
		WithArgs(&uid, "Paris", "3", "2", "2000", "museums").
		WillReturnRows(sqlmock.NewRows([]string{"trip_id"}).AddRow(41))

	trip := &models.Trip{UserID: &uid, Destination: "Paris", DaysNum: "3", TravelersNum: "2", Budget: "2000", TravelPreferences: "museums"}
	require.NoError(t, repo.Create(context.Background(), trip))
	assert.Equal(t, int64(41), trip.TripID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTripRepo_GetByID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTripRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "trips" WHERE trip_id = $1 LIMIT $2`)).
		WithArgs(int64(7), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(tripColumns).AddRow(7, nil, "Kyoto", "5", "1", "3000", ""))

	trip, err := repo.GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Kyoto", trip.Destination)
	assert.Nil(t, trip.UserID)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "trips" WHERE trip_id = $1`)).
		WillReturnRows(sqlmock.NewRows(tripColumns))

	_, err = repo.GetByID(context.Background(), 8)
	assert.ErrorIs(t, err, utils.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTripRepo_ListByUser(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTripRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "trips" WHERE user_id = $1 ORDER BY trip_id ASC`)).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(tripColumns).
			AddRow(1, "u-1", "Paris", "3", "2", "2000", "").
			AddRow(4, "u-1", "Rome", "2", "2", "900", "food"))

	trips, err := repo.ListByUser(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, trips, 2)
	assert.Equal(t, int64(4), trips[1].TripID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTripRepo_ListAll(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTripRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "trips" ORDER BY trip_id ASC`)).
		WillReturnRows(sqlmock.NewRows(tripColumns).AddRow(1, nil, "Oslo", "1", "1", "100", ""))

	trips, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, trips, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTripRepo_ListIncomplete(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewTripRepo(db)

	mock.ExpectQuery(`SELECT trips.trip_id, COUNT\(messages.message_id\) AS message_count FROM "trips" LEFT JOIN messages .* HAVING COUNT\(messages.message_id\) < \$1`).
		WithArgs(InitialTurns).
		WillReturnRows(sqlmock.NewRows([]string{"trip_id", "message_count"}).AddRow(3, 1))

	rows, err := repo.ListIncomplete(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.IncompleteTrip{{TripID: 3, MessageCount: 1}}, rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

var messageColumns = []string{"message_id", "trip_id", "role", "content_type", "content_text", "message_category", "metadata"}

func TestMessageRepo_Insert(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMessageRepo(db)

	mock.ExpectQuery(`INSERT INTO "messages" .* RETURNING "message_id"`).
		WillReturnRows(sqlmock.NewRows([]string{"message_id"}).AddRow(10))

	m := &models.Message{TripID: 1, Role: "user", ContentType: "text", ContentText: "hi", Category: models.CategoryUserChat}
	require.NoError(t, repo.Insert(context.Background(), m))
	assert.Equal(t, int64(10), m.MessageID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepo_ChatHistoryAscendingRegardlessOfCategory(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMessageRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "messages" WHERE trip_id = $1 ORDER BY message_id ASC`)).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(messageColumns).
			AddRow(1, 1, "system", "text", "sys", "SYSTEMPROMPT", nil).
			AddRow(2, 1, "user", "text", "plan", "USERPROMPT", nil).
			AddRow(3, 1, "assistant", "text", "day 1", "ITINERARY", nil).
			AddRow(4, 1, "user", "text", "more?", "USERCHAT", nil))

	rows, err := repo.ChatHistory(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	for i, r := range rows {
		assert.Equal(t, int64(i+1), r.MessageID)
	}
	assert.Equal(t, models.NewTextMessage("user", "more?"), rows[3].ChatMessage())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMessageRepo_RecentItinerary(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewMessageRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "messages" WHERE trip_id = $1 AND message_category = $2 ORDER BY message_id DESC LIMIT $3`)).
		WithArgs(int64(1), "ITINERARY", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(messageColumns).AddRow(9, 1, "assistant", "text", "v3", "ITINERARY", nil))

	m, err := repo.RecentItinerary(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(9), m.MessageID)
	assert.Equal(t, "v3", m.ContentText)

	mock.ExpectQuery(`SELECT \* FROM "messages"`).WillReturnRows(sqlmock.NewRows(messageColumns))
	_, err = repo.RecentItinerary(context.Background(), 2)
	assert.ErrorIs(t, err, utils.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepo_UpsertIsSingleConditionalInsert(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepo(db)

	upsert := `INSERT INTO "profiles" .* ON CONFLICT \("user_id"\) DO UPDATE SET .*"travelstyle"="excluded"."travelstyle".* RETURNING "profile_id"`
	mock.ExpectQuery(upsert).WillReturnRows(sqlmock.NewRows([]string{"profile_id"}).AddRow(1))
	mock.ExpectQuery(upsert).WillReturnRows(sqlmock.NewRows([]string{"profile_id"}).AddRow(1))

	p := &models.Profile{UserID: "u-1", Age: "30", TravelStyle: "slow"}
	require.NoError(t, repo.Upsert(context.Background(), p))
	assert.Equal(t, int64(1), p.ProfileID)

	again := &models.Profile{UserID: "u-1", Age: "31", TravelStyle: "fast"}
	require.NoError(t, repo.Upsert(context.Background(), again))
	assert.Equal(t, int64(1), again.ProfileID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProfileRepo_GetByUserID(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewProfileRepo(db)

	cols := []string{"profile_id", "user_id", "age", "travelstyle", "travelpriorities", "travelavoidances", "dietaryrestrictions", "accomodations"}
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "profiles" WHERE user_id = $1`)).
		WithArgs("u-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(1, "u-1", "30", "slow", "food", "crowds", "none", "hostel"))

	p, err := repo.GetByUserID(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, "hostel", p.Accomodations)

	mock.ExpectQuery(`SELECT \* FROM "profiles"`).WillReturnRows(sqlmock.NewRows(cols))
	_, err = repo.GetByUserID(context.Background(), "u-2")
	assert.ErrorIs(t, err, utils.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Upsert(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectExec(`INSERT INTO "users" .* ON CONFLICT \("id"\) DO UPDATE SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Upsert(context.Background(), &models.User{ID: "u-1", Provider: "google", Email: "a@b.c"}))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_HasProfile(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "profiles" WHERE user_id = $1`)).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := repo.HasProfile(context.Background(), "u-1")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}
