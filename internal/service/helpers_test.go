package service

import (
	"database/sql"
	"testing"

	"github.com/taskstream/taskstream/internal/db"
	"github.com/taskstream/taskstream/internal/repository"
	"github.com/taskstream/taskstream/internal/testutil"
)

type testEnv struct {
	database      *sql.DB
	uow           db.UnitOfWork
	projects      *repository.SQLiteProjectRepo
	tasks         *repository.SQLiteTaskRepo
	activity      *repository.SQLiteActivityRepo
	notifications *repository.SQLiteNotificationRepo
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)
	return &testEnv{
		database:      database,
		uow:           testutil.NewTestUoW(database),
		projects:      repository.NewSQLiteProjectRepo(database),
		tasks:         repository.NewSQLiteTaskRepo(database),
		activity:      repository.NewSQLiteActivityRepo(database),
		notifications: repository.NewSQLiteNotificationRepo(database),
	}
}
