package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/amoylab/sdctrack/internal/common/config"
	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// kvRecord is one stored record. Seq gives the index order within a namespace.
type kvRecord struct {
	Namespace string `gorm:"primaryKey;size:64"`
	ID        string `gorm:"primaryKey;size:128"`
	Data      string `gorm:"type:text;not null"`
	Seq       int64  `gorm:"index;not null"`
}

func (kvRecord) TableName() string { return "kv_records" }

type kvSeed struct {
	Namespace string `gorm:"primaryKey;size:64"`
	SeededAt  time.Time
}

func (kvSeed) TableName() string { return "kv_seeds" }

// DBBackend stores records in a relational database through gorm
type DBBackend struct {
	logger *zap.Logger
	db     *gorm.DB
}

var _ Backend = (*DBBackend)(nil)

// NewDBBackend opens the configured database and migrates the schema
func NewDBBackend(logger *zap.Logger, cfg *config.DatabaseConfig) (*DBBackend, error) {
	logger = logger.Named("store.db")

	var dialector gorm.Dialector
	switch cfg.Type {
	case "postgres":
		dialector = postgres.Open(cfg.GetDSN())
	case "mysql":
		dialector = mysql.Open(cfg.GetDSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.GetDSN())
	default:
		return nil, fmt.Errorf("unsupported database type: %q", cfg.Type)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", cfg.Type, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Type == "sqlite" {
		// every sqlite connection to :memory: is a separate database
		sqlDB.SetMaxOpenConns(1)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.AutoMigrate(&kvRecord{}, &kvSeed{}); err != nil {
		return nil, fmt.Errorf("failed to migrate store schema: %w", err)
	}

	logger.Info("database store ready", zap.String("type", cfg.Type))
	return &DBBackend{logger: logger, db: db}, nil
}

func (s *DBBackend) Get(ctx context.Context, ns, id string) ([]byte, error) {
	var rec kvRecord
	err := s.db.WithContext(ctx).Where("namespace = ? AND id = ?", ns, id).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("db get %s/%s: %w", ns, id, err)
	}
	return []byte(rec.Data), nil
}

func (s *DBBackend) Put(ctx context.Context, ns, id string, data []byte) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&kvRecord{}).Where("namespace = ? AND id = ?", ns, id).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return tx.Model(&kvRecord{}).
				Where("namespace = ? AND id = ?", ns, id).
				Update("data", string(data)).Error
		}

		var maxSeq int64
		if err := tx.Model(&kvRecord{}).
			Where("namespace = ?", ns).
			Select("COALESCE(MAX(seq), 0)").
			Scan(&maxSeq).Error; err != nil {
			return err
		}
		return tx.Create(&kvRecord{Namespace: ns, ID: id, Data: string(data), Seq: maxSeq + 1}).Error
	})
	if err != nil {
		return fmt.Errorf("db put %s/%s: %w", ns, id, err)
	}
	return nil
}

func (s *DBBackend) Delete(ctx context.Context, ns, id string) (bool, error) {
	res := s.db.WithContext(ctx).Where("namespace = ? AND id = ?", ns, id).Delete(&kvRecord{})
	if res.Error != nil {
		return false, fmt.Errorf("db delete %s/%s: %w", ns, id, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *DBBackend) IDs(ctx context.Context, ns string) ([]string, error) {
	ids := []string{}
	err := s.db.WithContext(ctx).Model(&kvRecord{}).
		Where("namespace = ?", ns).
		Order("seq ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("db index %s: %w", ns, err)
	}
	return ids, nil
}

func (s *DBBackend) Exists(ctx context.Context, ns, id string) (bool, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&kvRecord{}).
		Where("namespace = ? AND id = ?", ns, id).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("db exists %s/%s: %w", ns, id, err)
	}
	return n > 0, nil
}

func (s *DBBackend) Count(ctx context.Context, ns string) (int, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&kvRecord{}).Where("namespace = ?", ns).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("db count %s: %w", ns, err)
	}
	return int(n), nil
}

func (s *DBBackend) MarkSeeded(ctx context.Context, ns string) (bool, error) {
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&kvSeed{Namespace: ns, SeededAt: time.Now()})
	if res.Error != nil {
		return false, fmt.Errorf("db seed marker %s: %w", ns, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (s *DBBackend) UnmarkSeeded(ctx context.Context, ns string) error {
	err := s.db.WithContext(ctx).Where("namespace = ?", ns).Delete(&kvSeed{}).Error
	if err != nil {
		return fmt.Errorf("db clear seed marker %s: %w", ns, err)
	}
	return nil
}

func (s *DBBackend) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
