package database

import (
	"fmt"

	"lingolab/internal/config"

	_ "github.com/godror/godror"   // Oracle driver (OCI-based)
	_ "github.com/sijms/go-ora/v2" // Oracle driver (pure Go)
	"github.com/jmoiron/sqlx"
)

// NewSQLXOracleDB connects to Oracle through the configured driver. Both
// the pure-Go go-ora driver ("oracle") and the OCI-based godror driver
// ("godror") are supported; deployments without an Oracle client library
// use the default "oracle".
func NewSQLXOracleDB(dbCfg config.DBConfig, dsn string) (*sqlx.DB, error) {
	driver := dbCfg.Driver
	if driver == "" {
		driver = "oracle"
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Oracle database via %s: %w", driver, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping Oracle database: %w", err)
	}

	return db, nil
}
