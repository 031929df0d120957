package database

import (
	"fmt"
	"log"

	"github.com/tientruong05/todo-talk-quynhon/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type PostgresDB struct {
	*gorm.DB
}

// NewPostgresDB opens the connection and verifies it with a ping before
// returning. TranslateError is required: the task repository depends on
// unique violations surfacing as gorm.ErrDuplicatedKey.
func NewPostgresDB(cfg config.PostgresConfig) (*PostgresDB, error) {
	db, err := gorm.Open(postgres.Open(dsn(cfg)), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}
	// 连接池参数，0表示用驱动默认值
	if cfg.MaxOpen > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpen)
	}
	if cfg.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	}
	if cfg.MaxLife > 0 {
		sqlDB.SetConnMaxLifetime(cfg.MaxLife)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	log.Printf("[INFO] postgres connected: %s:%d/%s", cfg.Address, cfg.Port, cfg.DBName)
	return &PostgresDB{db}, nil
}

// CreateTables 启动时AutoMigrate全部模型
func (db *PostgresDB) CreateTables(models ...any) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

func (db *PostgresDB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("unwrap sql.DB: %w", err)
	}
	return sqlDB.Close()
}

func dsn(cfg config.PostgresConfig) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=disable TimeZone=Asia/Ho_Chi_Minh",
		cfg.Address, cfg.User, cfg.Password, cfg.DBName, cfg.Port,
	)
}
