package statistics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStoreFromDB(db), mock
}

func TestStatistics_InMemory(t *testing.T) {
	s := New(nil)
	s.now = func() time.Time { return time.Date(2024, 5, 1, 14, 30, 0, 0, time.UTC) }

	s.TrackRequest("/api/v1/certificates/render", "POST", 200*time.Millisecond, true)
	s.TrackRequest("/api/v1/import", "POST", 100*time.Millisecond, false)
	s.TrackRender("png", "completion", time.Second, 2048, false)
	s.TrackRender("pdf", "completion", 3*time.Second, 4096, false)
	s.TrackRender("pdf", "excellence", time.Second, 0, true)
	s.TrackGotenbergRequest(500*time.Millisecond, false, false)
	s.TrackGotenbergRequest(time.Millisecond, false, true)

	resp := s.GetStatistics()

	assert.Equal(t, uint64(2), resp.Requests.Total)
	assert.Equal(t, uint64(1), resp.Requests.Failed)
	assert.Equal(t, "150ms", resp.Requests.AverageDuration)
	assert.Equal(t, "100ms", resp.Requests.MinDuration)
	assert.Equal(t, uint64(2), resp.Requests.ByHourOfDay["14:00"])

	assert.Equal(t, uint64(3), resp.Renders.Total)
	assert.Equal(t, uint64(1), resp.Renders.Failed)
	assert.Equal(t, map[string]uint64{"png": 1, "pdf": 2}, resp.Renders.ByFormat)
	assert.Equal(t, map[string]uint64{"completion": 2, "excellence": 1}, resp.Renders.ByTheme)
	assert.Equal(t, "6.0 KB", resp.Renders.TotalSize)
	assert.Equal(t, "2.0 KB", resp.Renders.MinSize)

	assert.Equal(t, uint64(1), resp.Gotenberg.TotalRequests, "health checks are not counted")
	assert.Nil(t, resp.Stored)

	summary, err := s.Summary(context.Background(), time.Time{})
	assert.NoError(t, err)
	assert.Nil(t, summary)
}

func TestStatistics_PersistsEvents(t *testing.T) {
	store, mock := newTestStore(t)
	s := New(store)
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return at }

	mock.ExpectExec("INSERT INTO render_logs").
		WithArgs(at, "jpeg", "appreciation", int64(time.Second), int64(512), false).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO gotenberg_logs").
		WithArgs(at, int64(time.Millisecond), true).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO request_logs").
		WithArgs(at, "/health", "GET", int64(time.Millisecond), true).
		WillReturnError(errors.New("connection reset"))

	s.TrackRender("jpeg", "appreciation", time.Second, 512, false)
	s.TrackGotenbergRequest(time.Millisecond, true, false)
	s.TrackRequest("/health", "GET", time.Millisecond, true)

	require.NoError(t, mock.ExpectationsWereMet())
	assert.Equal(t, uint64(1), s.GetStatistics().Requests.Total, "store failure does not lose in-memory counters")
}

func TestPostgresStore_InitSchema(t *testing.T) {
	store, mock := newTestStore(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS request_logs").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.InitSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_InitSchemaError(t *testing.T) {
	store, mock := newTestStore(t)
	mock.ExpectExec("CREATE TABLE").WillReturnError(errors.New("permission denied"))

	err := store.InitSchema(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create schema")
}

func TestPostgresStore_Summary(t *testing.T) {
	store, mock := newTestStore(t)
	since := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM request_logs").WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"total", "failed"}).AddRow(10, 2))
	mock.ExpectQuery("FROM render_logs WHERE").WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"total", "failed", "avg"}).AddRow(6, 1, float64(2*time.Second)))
	mock.ExpectQuery("GROUP BY format").WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"format", "count"}).AddRow("pdf", 4).AddRow("png", 2))
	mock.ExpectQuery("FROM gotenberg_logs").WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"total", "failed"}).AddRow(12, 3))

	s, err := store.Summary(context.Background(), since)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	assert.Equal(t, uint64(10), s.Requests)
	assert.Equal(t, uint64(2), s.FailedRequests)
	assert.Equal(t, uint64(6), s.Renders)
	assert.Equal(t, uint64(1), s.FailedRenders)
	assert.Equal(t, "2s", s.AverageRenderTime)
	assert.Equal(t, map[string]uint64{"pdf": 4, "png": 2}, s.RendersByFormat)
	assert.Equal(t, uint64(12), s.GotenbergRequests)
	assert.Equal(t, uint64(3), s.GotenbergErrors)
}

func TestPostgresStore_SummaryEmptyRenders(t *testing.T) {
	store, mock := newTestStore(t)
	since := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("FROM request_logs").WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"total", "failed"}).AddRow(0, 0))
	mock.ExpectQuery("FROM render_logs WHERE").WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"total", "failed", "avg"}).AddRow(0, 0, nil))
	mock.ExpectQuery("GROUP BY format").WithArgs(since).
		WillReturnRows(sqlmock.NewRows([]string{"format", "count"}))
	mock.ExpectQuery("FROM gotenberg_logs").WithArgs(since).
		WillReturnError(errors.New("timeout"))

	_, err := store.Summary(context.Background(), since)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gotenberg")
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "0 B", formatBytes(0))
	assert.Equal(t, "1023 B", formatBytes(1023))
	assert.Equal(t, "1.5 KB", formatBytes(1536))
	assert.Equal(t, "2.0 MB", formatBytes(2*1024*1024))
}
