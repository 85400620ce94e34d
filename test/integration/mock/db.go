//go:build integration

package mock

import (
	"fmt"
	"slices"
	"sync"

	"gorm.io/gorm"

	"github.com/finance-tracker/ledger/internal/infra/db"
)

var once sync.Once
var database *Db

type Db struct {
	Database *db.Database
	DbConn   *gorm.DB
	models   map[string]any
}

// NewDb opens one shared in-memory SQLite database for the whole suite and
// migrates the given models, keyed by table name.
func NewDb(models map[string]any, migrationOrder []any) *Db {
	once.Do(func() {
		database = open(models, migrationOrder)
	})
	return database
}

func open(models map[string]any, migrationOrder []any) *Db {
	conn, err := db.NewSQLiteConnection("file:ledger_integration?mode=memory&cache=shared")
	if err != nil {
		panic(err)
	}
	if err := conn.AutoMigrate(migrationOrder...); err != nil {
		panic(fmt.Sprintf("failed to migrate database. err: %s", err.Error()))
	}

	newDbMock := &Db{
		Database: conn,
		DbConn:   conn.DB(),
		models:   models,
	}

	if err := newDbMock.ClearDB(); err != nil {
		panic(fmt.Sprintf("failed to clear database. err: %s", err.Error()))
	}
	return newDbMock
}

// ClearDB deletes every row, children first.
func (d *Db) ClearDB() error {
	tables := make([]string, 0, len(d.models))
	for table := range d.models {
		tables = append(tables, table)
	}
	slices.SortFunc(tables, func(a, b string) int {
		return deleteRank(a) - deleteRank(b)
	})

	for _, table := range tables {
		err := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(d.models[table]).Error
		if err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

func deleteRank(table string) int {
	switch table {
	case "transactions":
		return 0
	case "analytics":
		return 1
	case "accounts":
		return 2
	default:
		return 3
	}
}

func (d *Db) GetModel(table string) (any, bool) {
	model, ok := d.models[table]
	return model, ok
}
