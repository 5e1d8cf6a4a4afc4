package config

import (
	"fmt"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the configured database.
func InitDB(cfg Config, log *logrus.Logger) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.DBDriver == "sqlite" {
		// one writer at a time, transactions serialize on the connection
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.DBMaxOpenConns)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

func dialectorFor(cfg Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "sqlite":
		return sqlite.Open(cfg.DatabaseURL), nil
	case "mysql":
		dsn, err := mysqlDSN(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return mysql.New(mysql.Config{DSNConfig: dsn}), nil
	case "postgres":
		return postgres.Open(cfg.DatabaseURL), nil
	}
	return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
}

// mysqlDSN forces parseTime and a UTC location whatever DATABASE_URL says,
// so DATETIME columns scan into time.Time with the stored wall clock.
func mysqlDSN(raw string) (*mysqldriver.Config, error) {
	dsn, err := mysqldriver.ParseDSN(raw)
	if err != nil {
		return nil, fmt.Errorf("parse mysql DATABASE_URL: %w", err)
	}
	dsn.ParseTime = true
	dsn.Loc = time.UTC
	return dsn, nil
}
