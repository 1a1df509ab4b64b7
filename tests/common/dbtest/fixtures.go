//go:build unit || e2e

package dbtest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func CreateClassType(t *testing.T, db Querier, name, group string, personal bool) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO class_types (id, name, class_type_group, is_personal) VALUES ($1, $2, $3, $4)",
		id, name, group, personal)
	require.NoError(t, err)
	return id
}

func CreateSession(t *testing.T, db Querier, classTypeID uuid.UUID, scheduledAt time.Time, capacity int) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO sessions (id, class_type_id, scheduled_at, capacity) VALUES ($1, $2, $3, $4)",
		id, classTypeID, scheduledAt, capacity)
	require.NoError(t, err)
	return id
}

// CreatePersonalSession books a one-on-one slot bound to userID. Capacity is
// always one for personal slots.
func CreatePersonalSession(t *testing.T, db Querier, classTypeID, userID uuid.UUID, scheduledAt time.Time) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO sessions (id, class_type_id, scheduled_at, capacity, personal_user_id) VALUES ($1, $2, $3, 1, $4)",
		id, classTypeID, scheduledAt, userID)
	require.NoError(t, err)
	return id
}

func CreatePackage(t *testing.T, db Querier, name, group string, personal, single bool, classCount int) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO packages (id, name, class_type_group, is_personal, is_single_class, class_count) VALUES ($1, $2, $3, $4, $5, $6)",
		id, name, group, personal, single, classCount)
	require.NoError(t, err)
	return id
}

// GrantFixedCredit inserts an active fixed-expiry credit that covers any
// session scheduled before expiresAt.
func GrantFixedCredit(t *testing.T, db Querier, userID, packageID uuid.UUID, group string, personal bool, remaining int, expiresAt time.Time) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(),
		`INSERT INTO user_credits (id, user_id, package_id, class_type_group, is_personal, classes_remaining, kind, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, 'fixed', $7)`,
		id, userID, packageID, group, personal, remaining, expiresAt)
	require.NoError(t, err)
	return id
}

// GrantMonthlyCredit inserts an active monthly credit. It only covers sessions
// falling in the same calendar month as nextResetAt's preceding month window.
func GrantMonthlyCredit(t *testing.T, db Querier, userID, packageID uuid.UUID, group string, personal bool, remaining int, nextResetAt time.Time) uuid.UUID {
	t.Helper()

	id := uuid.New()
	_, err := db.Exec(context.Background(),
		`INSERT INTO user_credits (id, user_id, package_id, class_type_group, is_personal, classes_remaining, kind, next_reset_at)
		 VALUES ($1, $2, $3, $4, $5, $6, 'monthly', $7)`,
		id, userID, packageID, group, personal, remaining, nextResetAt)
	require.NoError(t, err)
	return id
}

func CreditRemaining(t *testing.T, db Querier, creditID uuid.UUID) int {
	t.Helper()

	var remaining int
	err := db.QueryRow(context.Background(),
		"SELECT classes_remaining FROM user_credits WHERE id = $1", creditID).Scan(&remaining)
	require.NoError(t, err)
	return remaining
}

func ConfirmedBookingCount(t *testing.T, db Querier, sessionID uuid.UUID) int {
	t.Helper()

	var count int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM bookings WHERE session_id = $1 AND status = 'confirmed'", sessionID).Scan(&count)
	require.NoError(t, err)
	return count
}

// CreateWaitlistEntry inserts a waiting entry directly, with the id and
// joined_at under test control so queue order is deterministic.
func CreateWaitlistEntry(t *testing.T, db Querier, id, userID, sessionID uuid.UUID, joinedAt time.Time) {
	t.Helper()

	_, err := db.Exec(context.Background(),
		"INSERT INTO waitlist_entries (id, user_id, session_id, status, attempts, joined_at) VALUES ($1, $2, $3, 'waiting', 0, $4)",
		id, userID, sessionID, joinedAt)
	require.NoError(t, err)
}

func WaitlistEntryStatus(t *testing.T, db Querier, entryID uuid.UUID) string {
	t.Helper()

	var status string
	err := db.QueryRow(context.Background(),
		"SELECT status FROM waitlist_entries WHERE id = $1", entryID).Scan(&status)
	require.NoError(t, err)
	return status
}

func SessionExists(t *testing.T, db Querier, sessionID uuid.UUID) bool {
	t.Helper()

	var exists bool
	err := db.QueryRow(context.Background(),
		"SELECT EXISTS (SELECT 1 FROM sessions WHERE id = $1)", sessionID).Scan(&exists)
	require.NoError(t, err)
	return exists
}

func PendingNotificationCount(t *testing.T, db Querier, topic string) int {
	t.Helper()

	var count int
	err := db.QueryRow(context.Background(),
		"SELECT count(*) FROM notification_jobs WHERE topic = $1 AND status = 'pending'", topic).Scan(&count)
	require.NoError(t, err)
	return count
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// ResetDB truncates every application table so each subtest starts from an
// empty schema. The goose bookkeeping table is left alone.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('goose_db_version')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, name)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})

	stmt, _ := truncateSQL.Load().(string)
	if stmt == "" {
		return errors.New("failed to build TRUNCATE statement")
	}
	_, err := pool.Exec(ctx, stmt)
	return err
}
