/*
 * @Author:    thepoy
 * @File Name: sql.go
 */

package store

import (
	"errors"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"github.com/go-predator/asyncrawler/tools"
)

// sqlStore is the gorm-backed Store shared by the sqlite, mysql and
// postgres backends; only dialector construction differs between them, so
// one implementation serves all three instead of one struct per driver.
type sqlDriver int

const (
	driverSQLite sqlDriver = iota
	driverMySQL
	driverPostgres
)

type sqlStore struct {
	opts   Options
	driver sqlDriver

	mu      sync.Mutex
	db      *gorm.DB
	pending map[string]*cacheModel
	opCount int
}

func newSQLStore(dial gorm.Dialector, driver sqlDriver, opts Options) (*sqlStore, error) {
	opts = opts.withDefaults()

	db, err := gorm.Open(dial, &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&cacheModel{}); err != nil {
		return nil, err
	}

	return &sqlStore{
		opts:    opts,
		driver:  driver,
		db:      db,
		pending: make(map[string]*cacheModel),
	}, nil
}

// NewSQLite opens (creating if absent) a SQLite-backed Store at path.
func NewSQLite(path string, opts Options) (Store, error) {
	return newSQLStore(sqliteDialector(path), driverSQLite, opts)
}

// NewMySQL opens a MySQL-backed Store using dsn (the go-sql-driver/mysql
// DSN format), demonstrating the store is storage-agnostic behind the
// Store interface.
func NewMySQL(dsn string, opts Options) (Store, error) {
	return newSQLStore(mysqlDialector(dsn), driverMySQL, opts)
}

// NewPostgres opens a Postgres-backed Store using dsn.
func NewPostgres(dsn string, opts Options) (Store, error) {
	return newSQLStore(postgresDialector(dsn), driverPostgres, opts)
}

func (s *sqlStore) Put(key string, value []byte) error {
	compressed := tools.CompressLevel(value, s.opts.CompressionLevel)

	s.mu.Lock()
	s.pending[key] = &cacheModel{Key: key, Value: compressed, Updated: time.Now()}
	s.opCount++
	force := s.opCount >= s.opts.MaxOperations
	s.mu.Unlock()

	if force {
		return s.flush()
	}
	return nil
}

// flush forces a full commit of buffered writes to the backing storage,
// amortizing durability cost against batch size; on crash, up to
// MaxOperations-1 recent writes may be lost.
func (s *sqlStore) flush() error {
	s.mu.Lock()
	if len(s.pending) == 0 {
		s.mu.Unlock()
		return nil
	}
	batch := make([]*cacheModel, 0, len(s.pending))
	for _, m := range s.pending {
		batch = append(batch, m)
	}
	s.pending = make(map[string]*cacheModel)
	s.opCount = 0
	s.mu.Unlock()

	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated"}),
	}).CreateInBatches(batch, 100).Error
}

func (s *sqlStore) lookupPending(key string) (*cacheModel, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.pending[key]
	return m, ok
}

func (s *sqlStore) fresh(updated time.Time) bool {
	if s.opts.Expires == 0 {
		return true
	}
	return time.Since(updated) < s.opts.Expires
}

func (s *sqlStore) Get(key string) ([]byte, time.Time, error) {
	if m, ok := s.lookupPending(key); ok {
		if !s.fresh(m.Updated) {
			return nil, time.Time{}, ErrNotFound
		}
		dec, err := tools.Decompress(m.Value)
		if err != nil {
			return nil, time.Time{}, err
		}
		return dec, m.Updated, nil
	}

	var m cacheModel
	if err := s.db.Where(clause.Eq{Column: "key", Value: key}).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, time.Time{}, ErrNotFound
		}
		return nil, time.Time{}, err
	}

	if !s.fresh(m.Updated) {
		return nil, time.Time{}, ErrNotFound
	}

	dec, err := tools.Decompress(m.Value)
	if err != nil {
		return nil, time.Time{}, err
	}
	return dec, m.Updated, nil
}

func (s *sqlStore) Contains(key string) bool {
	_, _, err := s.Get(key)
	return err == nil
}

func (s *sqlStore) Del(key string) error {
	s.mu.Lock()
	delete(s.pending, key)
	s.mu.Unlock()

	return s.db.Where(clause.Eq{Column: "key", Value: key}).Delete(&cacheModel{}).Error
}

func (s *sqlStore) IterKeys() ([]string, error) {
	if err := s.flush(); err != nil {
		return nil, err
	}

	var keys []string
	if err := s.db.Model(&cacheModel{}).Pluck("key", &keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

func (s *sqlStore) Len() (int, error) {
	if err := s.flush(); err != nil {
		return 0, err
	}

	var count int64
	if err := s.db.Model(&cacheModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (s *sqlStore) Clear() error {
	s.mu.Lock()
	s.pending = make(map[string]*cacheModel)
	s.opCount = 0
	s.mu.Unlock()

	return s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&cacheModel{}).Error
}

func (s *sqlStore) Compact() error {
	if err := s.flush(); err != nil {
		return err
	}
	switch s.driver {
	case driverSQLite, driverPostgres:
		return s.db.Exec("VACUUM").Error
	default:
		// MySQL reclaims space per-table via OPTIMIZE TABLE instead of VACUUM.
		return s.db.Exec("OPTIMIZE TABLE `cache`").Error
	}
}

func (s *sqlStore) Commit() error {
	return s.flush()
}

func (s *sqlStore) Close() error {
	if err := s.flush(); err != nil {
		return err
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
