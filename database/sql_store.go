package database

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rpupo63/essay-board-backend/errs"
	"github.com/rpupo63/essay-board-backend/models"
)

// essayRecord is the essays table row. Seq is the insertion sequence and
// breaks ties between equal createdAt values.
type essayRecord struct {
	Seq        uint64  `gorm:"primaryKey;autoIncrement"`
	EssayID    string  `gorm:"column:id;type:varchar(36);uniqueIndex;not null"`
	Title      string  `gorm:"type:text;not null"`
	Author     string  `gorm:"type:text;not null"`
	Why        string  `gorm:"type:text;not null"`
	Source     *string `gorm:"type:text"`
	Pseudonym  *string `gorm:"type:text"`
	CreatedAt  int64   `gorm:"column:created_at;not null;index;autoCreateTime:false"`
	SourceType *string `gorm:"column:source_type;type:text"`
}

func (essayRecord) TableName() string {
	return "essays"
}

func (r essayRecord) toModel() models.Essay {
	return models.Essay{
		ID:         r.EssayID,
		Title:      r.Title,
		Author:     r.Author,
		Why:        r.Why,
		Source:     r.Source,
		Pseudonym:  r.Pseudonym,
		CreatedAt:  r.CreatedAt,
		SourceType: r.SourceType,
	}
}

func essayRecordFrom(e models.Essay) essayRecord {
	return essayRecord{
		EssayID:    e.ID,
		Title:      e.Title,
		Author:     e.Author,
		Why:        e.Why,
		Source:     e.Source,
		Pseudonym:  e.Pseudonym,
		CreatedAt:  e.CreatedAt,
		SourceType: e.SourceType,
	}
}

// userRecord mirrors models.User so the users collection exists in SQL
// deployments too.
type userRecord struct {
	ID       string `gorm:"type:varchar(36);primaryKey"`
	Username string `gorm:"type:text;not null;uniqueIndex"`
	Password string `gorm:"type:text;not null"`
}

func (userRecord) TableName() string {
	return "users"
}

// SQLStore implements EssayRepo on top of gorm.
type SQLStore struct {
	identity
	db *gorm.DB
}

// NewSQLStore migrates the essays and users tables and returns the store.
func NewSQLStore(db *gorm.DB, opts ...Option) (*SQLStore, error) {
	if err := db.AutoMigrate(&essayRecord{}, &userRecord{}); err != nil {
		return nil, errs.StorageError("migrate essay tables", err)
	}
	return &SQLStore{identity: newIdentity(opts), db: db}, nil
}

func gormLogger() logger.Interface {
	zl := log.With().Str("component", "gorm").Logger()
	return logger.New(
		&zl,
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// OpenPostgres connects to PostgreSQL using dsn.
func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      gormLogger(),
	})
	if err != nil {
		return nil, errs.StorageError("connect to postgres", err)
	}
	return db, nil
}

// OpenSQLite opens (creating if needed) the SQLite database at path.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormLogger(),
	})
	if err != nil {
		return nil, errs.StorageError("open sqlite", err)
	}
	return db, nil
}

func (s *SQLStore) List(ctx context.Context, page, limit int) (EssayPage, error) {
	var total int64
	records := []essayRecord{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&essayRecord{}).Count(&total).Error; err != nil {
			return err
		}

		start, end := pageBounds(int(total), page, limit)
		if start == end {
			return nil
		}

		return tx.Order("created_at DESC").
			Order("seq DESC").
			Offset(start).
			Limit(end - start).
			Find(&records).Error
	})
	if err != nil {
		return EssayPage{}, errs.StorageError("list essays", err)
	}

	essays := make([]models.Essay, 0, len(records))
	for _, r := range records {
		essays = append(essays, r.toModel())
	}
	return EssayPage{Essays: essays, Total: int(total)}, nil
}

func (s *SQLStore) FindByID(ctx context.Context, id string) (*models.Essay, error) {
	var record essayRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.StorageError("find essay", err)
	}

	essay := record.toModel()
	return &essay, nil
}

func (s *SQLStore) Add(ctx context.Context, in models.EssayInput) (*models.Essay, error) {
	record := essayRecordFrom(s.newEssay(in))
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, errs.StorageError("create essay", err)
	}

	essay := record.toModel()
	return &essay, nil
}

func (s *SQLStore) Update(ctx context.Context, id string, patch models.EssayPatch) (*models.Essay, error) {
	var record essayRecord

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if columns := patchColumns(patch); len(columns) > 0 {
			if err := tx.Model(&essayRecord{}).Where("id = ?", id).Updates(columns).Error; err != nil {
				return err
			}
		}
		return tx.Where("id = ?", id).Take(&record).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.StorageError("update essay", err)
	}

	essay := record.toModel()
	return &essay, nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) (bool, error) {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&essayRecord{})
	if result.Error != nil {
		return false, errs.StorageError("delete essay", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// Close releases the underlying connection pool.
func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// patchColumns maps the present fields of patch to column updates. Identity
// columns are never part of the result.
func patchColumns(patch models.EssayPatch) map[string]any {
	columns := map[string]any{}
	if patch.Title != nil {
		columns["title"] = *patch.Title
	}
	if patch.Author != nil {
		columns["author"] = *patch.Author
	}
	if patch.Why != nil {
		columns["why"] = *patch.Why
	}
	if patch.Source != nil {
		columns["source"] = *patch.Source
	}
	if patch.Pseudonym != nil {
		columns["pseudonym"] = *patch.Pseudonym
	}
	return columns
}
