package database

import (
	"context"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/essay-board-backend/errs"
)

// Store drivers understood by Open.
const (
	DriverFile     = "file"
	DriverS3       = "s3"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects and configures the backing store.
type Options struct {
	Driver      string
	Path        string // DriverFile
	S3          S3Options
	SQLitePath  string
	PostgresDSN string
}

type Database struct {
	essayRepo EssayRepo
	closer    io.Closer
}

// New wraps an existing repo, mostly for tests and alternative wiring.
func New(essayRepo EssayRepo) Database {
	return Database{essayRepo: essayRepo}
}

// Open builds the essay store described by opts.
func Open(ctx context.Context, opts Options) (Database, error) {
	driver := opts.Driver
	if driver == "" {
		driver = DriverFile
	}
	log.Info().Str("driver", driver).Msg("Opening essay store")

	switch driver {
	case DriverFile:
		if opts.Path == "" {
			return Database{}, errs.NewConfigMissingError("DB_PATH")
		}
		store, err := NewDocumentStore(ctx, NewFileBlob(opts.Path))
		if err != nil {
			return Database{}, err
		}
		return New(store), nil

	case DriverS3:
		if opts.S3.Bucket == "" {
			return Database{}, errs.NewConfigMissingError("S3_BUCKET")
		}
		blob, err := NewS3Blob(ctx, opts.S3)
		if err != nil {
			return Database{}, errs.StorageError("configure s3", err)
		}
		store, err := NewDocumentStore(ctx, blob)
		if err != nil {
			return Database{}, err
		}
		return New(store), nil

	case DriverSQLite, DriverPostgres:
		open := func() (*SQLStore, error) {
			if driver == DriverSQLite {
				db, err := OpenSQLite(opts.SQLitePath)
				if err != nil {
					return nil, err
				}
				return NewSQLStore(db)
			}
			if opts.PostgresDSN == "" {
				return nil, errs.NewConfigMissingError("DATABASE_URL")
			}
			db, err := OpenPostgres(opts.PostgresDSN)
			if err != nil {
				return nil, err
			}
			return NewSQLStore(db)
		}
		store, err := open()
		if err != nil {
			return Database{}, err
		}
		return Database{essayRepo: store, closer: store}, nil

	default:
		return Database{}, errs.NewConfigInvalidError("STORE_DRIVER", driver)
	}
}

func (d Database) EssayRepo() EssayRepo {
	return d.essayRepo
}

// Close releases connections held by SQL-backed stores.
func (d Database) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer.Close()
}
