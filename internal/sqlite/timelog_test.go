package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tallyhq/tally/internal/domain/liveness"
	"github.com/tallyhq/tally/internal/domain/timelog"
)

func seedLog(t *testing.T, repo *TimeLogRepository, id, taskID, userID string, hours float64, date time.Time) *timelog.TimeLog {
	t.Helper()
	now := time.Now()
	l := &timelog.TimeLog{
		ID:        id,
		TaskID:    taskID,
		UserID:    userID,
		Hours:     hours,
		Date:      date,
		Liveness:  liveness.Active,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, repo.Create(context.Background(), l))
	return l
}

func TestTimeLogRepository_ListOrderAndFilters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertProject(t, db, "p1", "alice")
	insertTask(t, db, "t1", "p1")
	insertTask(t, db, "t2", "p1")

	repo := NewTimeLogRepository(db)
	day := func(d int) time.Time { return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC) }
	seedLog(t, repo, "l1", "t1", "alice", 1, day(1))
	seedLog(t, repo, "l2", "t1", "alice", 2, day(3))
	seedLog(t, repo, "l3", "t2", "bob", 3, day(2))

	all, err := repo.List(ctx, timelog.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Date descending.
	require.Equal(t, "l2", all[0].ID)
	require.Equal(t, "l3", all[1].ID)
	require.Equal(t, "l1", all[2].ID)

	byTask, err := repo.List(ctx, timelog.ListOptions{TaskID: "t1"})
	require.NoError(t, err)
	require.Len(t, byTask, 2)

	from := day(2)
	to := day(3)
	ranged, err := repo.List(ctx, timelog.ListOptions{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, ranged, 2)
}

func TestTimeLogRepository_SoftDeleteVisibility(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertProject(t, db, "p1", "alice")
	insertTask(t, db, "t1", "p1")

	repo := NewTimeLogRepository(db)
	l := seedLog(t, repo, "l1", "t1", "alice", 2, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	l.Liveness = liveness.Deleted
	l.UpdatedAt = time.Now()
	require.NoError(t, repo.Update(ctx, l))

	// Gone from listings.
	active, err := repo.List(ctx, timelog.ListOptions{TaskID: "t1"})
	require.NoError(t, err)
	require.Empty(t, active)

	withDeleted, err := repo.List(ctx, timelog.ListOptions{TaskID: "t1", IncludeDeleted: true})
	require.NoError(t, err)
	require.Len(t, withDeleted, 1)

	// Still reachable by direct id lookup.
	loaded, err := repo.Get(ctx, "l1")
	require.NoError(t, err)
	require.Equal(t, liveness.Deleted, loaded.Liveness)
}

func TestTimeLogRepository_Summarize(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertProject(t, db, "p1", "alice")
	insertTask(t, db, "t1", "p1")

	repo := NewTimeLogRepository(db)

	// No logs yet: zeros, not an error.
	summary, err := repo.SummarizeByTask(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, timelog.Summary{}, summary)

	seedLog(t, repo, "l1", "t1", "alice", 2, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	seedLog(t, repo, "l2", "t1", "alice", 3, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))

	summary, err = repo.SummarizeByTask(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, timelog.Summary{TotalHours: 5, Entries: 2}, summary)

	// Idempotent with no intervening writes.
	again, err := repo.SummarizeByTask(ctx, "t1")
	require.NoError(t, err)
	require.Equal(t, summary, again)
}
