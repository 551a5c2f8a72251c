package app

import (
	"context"

	"github.com/robfig/cron/v3"
	"github.com/talkincode/shopgen/config"
	"gorm.io/gorm"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *gorm.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SchedulerProvider provides task scheduling capability
type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// LedgerProvider provides the run history
type LedgerProvider interface {
	Ledger() *Ledger
}

// AppContext combines all provider interfaces for full application context
type AppContext interface {
	DBProvider
	ConfigProvider
	SchedulerProvider
	LedgerProvider

	MigrateDB(track bool) error
	InitDb()
	DropAll()
	// Run executes one pipeline run and records it in the ledger
	Run(ctx context.Context, opts RunOptions) (*RunResult, error)
	// Verify regenerates a recorded run and compares its digest
	Verify(ctx context.Context, runID string) (*VerifyResult, error)
	// AuditStore validates what is currently stored in the database
	AuditStore(ctx context.Context) (*AuditResult, error)
}
