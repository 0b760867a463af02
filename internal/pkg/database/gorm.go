package database

import (
	"Courier/internal/api/config"
	"Courier/internal/pkg/logger"
	"fmt"
	log "log/slog"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// NewGormDB 初始化并返回 *gorm.DB 实例，处理连接池与驱动层超时
func NewGormDB(cfg *config.DBConfig) (*gorm.DB, error) {
	dsn, err := mysqldriver.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("invalid database dsn: %w", err)
	}
	dsn.ParseTime = true
	if dsn.Loc == nil || dsn.Loc == time.Local {
		dsn.Loc = time.UTC
	}
	if timeout := cfg.QueryTimeoutDuration(); timeout > 0 {
		// 驱动层读写超时兜底，正常情况由 context 先行取消
		if dsn.ReadTimeout == 0 {
			dsn.ReadTimeout = 2 * timeout
		}
		if dsn.WriteTimeout == 0 {
			dsn.WriteTimeout = 2 * timeout
		}
	}
	if dsn.Timeout == 0 {
		dsn.Timeout = 5 * time.Second
	}

	db, err := gorm.Open(mysql.New(mysql.Config{DSNConfig: dsn}), &gorm.Config{
		Logger:      logger.NewGormLogger(cfg.SlowThresholdDuration()),
		PrepareStmt: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	sqlDB.SetMaxOpenConns(cfg.MaxOpen)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Minute)

	if err = sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database connection check failed: %w", err)
	}

	log.Info("Database connection established successfully.",
		"addr", dsn.Addr, "db", dsn.DBName, "max_open", cfg.MaxOpen)
	return db, nil
}
