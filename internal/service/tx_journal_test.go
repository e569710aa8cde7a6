package service

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/course-allocation-api/internal/models"
)

// txJournal is a database/sql driver without statements. Stub writes staged
// through apply only land when the surrounding transaction commits, so tests
// can observe what a rollback leaves behind. It assumes one open transaction
// at a time.
type txJournal struct {
	mu        sync.Mutex
	staged    []journalWrite
	commits   int
	rollbacks int
}

type journalWrite struct {
	lock sync.Locker
	fn   func()
}

// apply runs fn now when j is nil (the caller already holds lock), otherwise
// stages it until commit.
func (j *txJournal) apply(lock sync.Locker, fn func()) {
	if j == nil {
		fn()
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	j.staged = append(j.staged, journalWrite{lock: lock, fn: fn})
}

func (j *txJournal) finish(commit bool) {
	j.mu.Lock()
	staged := j.staged
	j.staged = nil
	if commit {
		j.commits++
	} else {
		j.rollbacks++
	}
	j.mu.Unlock()

	if !commit {
		return
	}
	for _, w := range staged {
		w.lock.Lock()
		w.fn()
		w.lock.Unlock()
	}
}

func (j *txJournal) outcome() (commits, rollbacks int) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.commits, j.rollbacks
}

type journalConnector struct{ j *txJournal }

func (c journalConnector) Connect(context.Context) (driver.Conn, error) { return journalConn(c), nil }
func (c journalConnector) Driver() driver.Driver                      { return journalDriver(c) }

type journalDriver struct{ j *txJournal }

func (d journalDriver) Open(string) (driver.Conn, error) { return journalConn(d), nil }

type journalConn struct{ j *txJournal }

func (c journalConn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("journal: statements are not supported")
}
func (c journalConn) Close() error              { return nil }
func (c journalConn) Begin() (driver.Tx, error) { return journalTx(c), nil }
func (c journalConn) BeginTx(ctx context.Context, opts driver.TxOptions) (driver.Tx, error) {
	return journalTx(c), nil
}

type journalTx struct{ j *txJournal }

func (t journalTx) Commit() error   { t.j.finish(true); return nil }
func (t journalTx) Rollback() error { t.j.finish(false); return nil }

func newJournalDB(t *testing.T) (*sqlx.DB, *txJournal) {
	t.Helper()
	journal := &txJournal{}
	db := sqlx.NewDb(sql.OpenDB(journalConnector{j: journal}), "postgres")
	t.Cleanup(func() { db.Close() })
	return db, journal
}

// newJournalFixture is newAllocationFixture with every stub write tied to the
// unit's transaction.
func newJournalFixture(t *testing.T, courses ...models.Course) (*allocationFixture, *txJournal) {
	t.Helper()
	f := newAllocationFixture(t, courses...)
	db, journal := newJournalDB(t)
	f.svc.tx = db
	f.allocations.journal = journal
	f.courses.journal = journal
	f.audit.journal = journal
	return f, journal
}
