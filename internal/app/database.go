package app

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"github.com/talkincode/shopgen/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// MemoryDatabase is the sqlite name of a private in-memory database.
const MemoryDatabase = ":memory:"

// SQLiteDSN builds a sqlite DSN with foreign key enforcement turned on for
// every connection. The pragma is a no-op inside a transaction, so it has to
// be part of the connection string.
func SQLiteDSN(file string) string {
	if file == MemoryDatabase {
		return "file::memory:?_pragma=foreign_keys(1)"
	}
	return "file:" + file + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

func postgresDSN(cfg config.DBConfig) string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		cfg.Host, cfg.Port, cfg.User, cfg.Passwd, cfg.Name)
}

// getDatabase opens the configured database. Relative sqlite names live under
// <workdir>/data.
func getDatabase(cfg config.DBConfig, workdir string) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}
	if cfg.Debug {
		gormCfg.Logger = logger.Default.LogMode(logger.Info)
	}

	var (
		db  *gorm.DB
		err error
	)
	switch strings.ToLower(cfg.Type) {
	case "postgres":
		db, err = gorm.Open(postgres.Open(postgresDSN(cfg)), gormCfg)
	case "sqlite", "":
		file := cfg.Name
		if file != MemoryDatabase && !filepath.IsAbs(file) {
			file = filepath.Join(workdir, "data", file)
		}
		db, err = gorm.Open(sqlite.Open(SQLiteDSN(file)), gormCfg)
	default:
		return nil, errors.Errorf("unsupported database type %q", cfg.Type)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", cfg.Type)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "database handle")
	}
	if db.Dialector.Name() == "sqlite" {
		// one writer; an in-memory database also lives on a single connection
		sqlDB.SetMaxOpenConns(1)
	} else {
		if cfg.MaxConn > 0 {
			sqlDB.SetMaxOpenConns(cfg.MaxConn)
		}
		if cfg.IdleConn > 0 {
			sqlDB.SetMaxIdleConns(cfg.IdleConn)
		}
		sqlDB.SetConnMaxLifetime(time.Hour)
	}
	return db, nil
}

// OpenMemoryDatabase opens a private in-memory sqlite database.
func OpenMemoryDatabase() (*gorm.DB, error) {
	return getDatabase(config.DBConfig{Type: "sqlite", Name: MemoryDatabase}, "")
}
