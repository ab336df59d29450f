package cache

import (
	"encoding/json"
	"fmt"

	"consultacnpj/cmd/internal/domain/entity"
	"consultacnpj/cmd/internal/domain/sqlite"
	"consultacnpj/cmd/internal/domain/sqlite/repository"

	"gorm.io/gorm"
)

type CompanyRepository interface {
	FindByCNPJ(cnpj string) (*entity.CachedCompany, error)
	Save(company *entity.CachedCompany) error
	Delete(cnpj string) error
	DeleteAll() error
	DeleteExpired(before int64) (int64, error)
	Count() (int64, error)
}

// SQLite keeps entries in a private in-memory SQLite database, so nothing
// outlives the process.
type SQLite struct {
	db   *gorm.DB
	repo CompanyRepository
	opts options
}

func NewSQLite(opts ...Option) (*SQLite, error) {
	db, err := sqlite.Init(sqlite.MemoryDSN())
	if err != nil {
		return nil, fmt.Errorf("open sqlite cache: %w", err)
	}

	return &SQLite{
		db:   db,
		repo: repository.NewCompanyRepository(db),
		opts: newOptions(opts),
	}, nil
}

func (s *SQLite) Get(key string) (*Entry, error) {
	row, err := s.repo.FindByCNPJ(key)
	if err != nil || row == nil {
		return nil, err
	}

	if s.opts.expired(row.CachedAt) {
		return nil, s.repo.Delete(key)
	}

	entry := &Entry{Found: row.Found, StoredAt: row.CachedAt}
	if row.Found && len(row.Data) > 0 {
		var company entity.Company
		if err = json.Unmarshal(row.Data, &company); err != nil {
			return nil, fmt.Errorf("decode cached company %s: %w", key, err)
		}
		entry.Company = &company
	}
	return entry, nil
}

// Set stores the entry, stamping StoredAt with the current time when unset.
func (s *SQLite) Set(key string, entry *Entry) error {
	if entry.StoredAt == 0 {
		entry.StoredAt = s.opts.now()
	}

	row := &entity.CachedCompany{
		CNPJ:     key,
		Found:    entry.Found,
		CachedAt: entry.StoredAt,
	}
	if entry.Company != nil {
		data, err := json.Marshal(entry.Company)
		if err != nil {
			return fmt.Errorf("encode company %s: %w", key, err)
		}
		row.Data = data
	}
	return s.repo.Save(row)
}

func (s *SQLite) Delete(key string) error {
	return s.repo.Delete(key)
}

func (s *SQLite) Clear() error {
	return s.repo.DeleteAll()
}

func (s *SQLite) Sweep() (int, error) {
	removed, err := s.repo.DeleteExpired(s.opts.cutoff())
	return int(removed), err
}

func (s *SQLite) Len() (int, error) {
	count, err := s.repo.Count()
	return int(count), err
}

func (s *SQLite) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
