package services

import (
	"context"
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"github.com/kmoustakas/go-summarizer-backend/internal/llm"
	"github.com/kmoustakas/go-summarizer-backend/internal/repo"
)

// newServiceDB opens a migrated temp database through the real bootstrap path
// so PRAGMAs (foreign keys, WAL) match production behavior.
func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "services_test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// stubProvider returns a scripted completion and records the last request.
type stubProvider struct {
	res     llm.Completion
	lastReq llm.Request
	calls   int
}

func (s *stubProvider) Complete(_ context.Context, req llm.Request) llm.Completion {
	s.calls++
	s.lastReq = req
	return s.res
}
