package repository

import (
	"errors"

	"consultacnpj/cmd/internal/domain/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultCompanyRepository struct {
	db *gorm.DB
}

func NewCompanyRepository(db *gorm.DB) *DefaultCompanyRepository {
	return &DefaultCompanyRepository{db: db}
}

func (r *DefaultCompanyRepository) FindByCNPJ(cnpj string) (*entity.CachedCompany, error) {
	var company entity.CachedCompany
	err := r.db.
		Where("cnpj = ?", cnpj).
		First(&company).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}
	return &company, nil
}

// Save inserts the row or replaces the one stored under the same CNPJ.
func (r *DefaultCompanyRepository) Save(company *entity.CachedCompany) error {
	return r.db.
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(company).Error
}

func (r *DefaultCompanyRepository) Delete(cnpj string) error {
	return r.db.
		Where("cnpj = ?", cnpj).
		Delete(&entity.CachedCompany{}).Error
}

func (r *DefaultCompanyRepository) DeleteAll() error {
	return r.db.
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&entity.CachedCompany{}).Error
}

// DeleteExpired removes every row cached at or before the given epoch millis.
func (r *DefaultCompanyRepository) DeleteExpired(before int64) (int64, error) {
	result := r.db.
		Where("cached_at <= ?", before).
		Delete(&entity.CachedCompany{})
	return result.RowsAffected, result.Error
}

func (r *DefaultCompanyRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entity.CachedCompany{}).Count(&count).Error
	return count, err
}
