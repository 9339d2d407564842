// Package dbtest menyediakan *gorm.DB mode DryRun untuk test: SQL dibangun
// dengan dialect Postgres tetapi tidak pernah dikirim ke server.
package dbtest

import (
	"sync"
	"testing"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Query struct {
	SQL  string
	Vars []any
}

type Recorder struct {
	mu      sync.Mutex
	queries []Query
}

func (r *Recorder) Queries() []Query {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Query, len(r.queries))
	copy(out, r.queries)
	return out
}

// Last: query terakhir; Query kosong bila belum ada.
func (r *Recorder) Last() Query {
	q := r.Queries()
	if len(q) == 0 {
		return Query{}
	}
	return q[len(q)-1]
}

func (r *Recorder) capture(tx *gorm.DB) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, Query{
		SQL:  tx.Statement.SQL.String(),
		Vars: append([]any(nil), tx.Statement.Vars...),
	})
}

func DryRun(t *testing.T) (*gorm.DB, *Recorder) {
	t.Helper()

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=test password=test dbname=test port=5432 sslmode=disable",
	}), &gorm.Config{
		DryRun:                 true,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("dry-run db: %v", err)
	}

	rec := &Recorder{}
	cb := db.Callback()
	if err := cb.Query().After("gorm:query").Register("dbtest:query", rec.capture); err != nil {
		t.Fatalf("register query callback: %v", err)
	}
	if err := cb.Row().After("gorm:row").Register("dbtest:row", rec.capture); err != nil {
		t.Fatalf("register row callback: %v", err)
	}
	if err := cb.Create().After("gorm:create").Register("dbtest:create", rec.capture); err != nil {
		t.Fatalf("register create callback: %v", err)
	}
	if err := cb.Update().After("gorm:update").Register("dbtest:update", rec.capture); err != nil {
		t.Fatalf("register update callback: %v", err)
	}
	if err := cb.Delete().After("gorm:delete").Register("dbtest:delete", rec.capture); err != nil {
		t.Fatalf("register delete callback: %v", err)
	}
	return db, rec
}
