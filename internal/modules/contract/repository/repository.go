package repository

import (
	"context"
	"fmt"
	"time"

	"contractdesk/internal/entity"
	"gorm.io/gorm"
)

// Filter narrows FindAll. All conditions combine with AND; zero values are
// ignored. IDs, when set, restricts results to that set (used to resolve
// full-text search hits against the database).
type Filter struct {
	Search    string
	Category  string
	OnlyValid bool
	IDs       []uint
}

type ContractRepository interface {
	Create(ctx context.Context, contract *entity.Contract) error
	Update(ctx context.Context, contract *entity.Contract) error
	FindByID(ctx context.Context, id uint) (*entity.Contract, error)
	FindAll(ctx context.Context, filter Filter) ([]*entity.Contract, error)
	NextContractNumber(ctx context.Context) (string, error)
	CountByCategory(ctx context.Context, category string) (int64, error)
	ReassignCategory(ctx context.Context, oldName, newName string) error
	FindActive(ctx context.Context) ([]*entity.Contract, error)
	UpdateCancellationDates(ctx context.Context, id uint, cancellation, action *time.Time) error
	FindExpiring(ctx context.Context, from, to time.Time) ([]*entity.Contract, error)
}

type contractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) ContractRepository {
	return &contractRepository{db: db}
}

func (r *contractRepository) Create(ctx context.Context, contract *entity.Contract) error {
	return r.db.WithContext(ctx).Create(contract).Error
}

func (r *contractRepository) Update(ctx context.Context, contract *entity.Contract) error {
	return r.db.WithContext(ctx).Save(contract).Error
}

func (r *contractRepository) FindByID(ctx context.Context, id uint) (*entity.Contract, error) {
	var contract entity.Contract
	if err := r.db.WithContext(ctx).First(&contract, id).Error; err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepository) FindAll(ctx context.Context, filter Filter) ([]*entity.Contract, error) {
	query := r.db.WithContext(ctx).Model(&entity.Contract{})

	// Same field list as the full-text index, so results match whether or
	// not the index is configured.
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where(
			"LOWER(title) LIKE LOWER(?) OR LOWER(partner) LIKE LOWER(?) OR LOWER(contract_number) LIKE LOWER(?) OR LOWER(content) LIKE LOWER(?) OR LOWER(conditions) LIKE LOWER(?)",
			pattern, pattern, pattern, pattern, pattern,
		)
	}

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	if filter.OnlyValid {
		query = query.Where("is_terminated = ? AND (valid_until IS NULL OR valid_until > ?)", false, time.Now())
	}

	if filter.IDs != nil {
		query = query.Where("id IN ?", filter.IDs)
	}

	var contracts []*entity.Contract
	if err := query.Order("created_at DESC").Find(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}

// NextContractNumber returns the next free number in the V-prefixed
// sequence, e.g. V000042.
func (r *contractRepository) NextContractNumber(ctx context.Context) (string, error) {
	var maxNumber int64
	err := r.db.WithContext(ctx).
		Model(&entity.Contract{}).
		Where("contract_number LIKE ?", "V%").
		Select("COALESCE(MAX(CAST(SUBSTR(contract_number, 2) AS INTEGER)), 0)").
		Scan(&maxNumber).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("V%06d", maxNumber+1), nil
}

func (r *contractRepository) CountByCategory(ctx context.Context, category string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.Contract{}).
		Where("category = ?", category).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *contractRepository) ReassignCategory(ctx context.Context, oldName, newName string) error {
	return r.db.WithContext(ctx).
		Model(&entity.Contract{}).
		Where("category = ?", oldName).
		Update("category", newName).Error
}

// FindActive returns all non-terminated contracts, the population of the
// cancellation-date recompute.
func (r *contractRepository) FindActive(ctx context.Context) ([]*entity.Contract, error) {
	var contracts []*entity.Contract
	if err := r.db.WithContext(ctx).Where("is_terminated = ?", false).Find(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}

func (r *contractRepository) UpdateCancellationDates(ctx context.Context, id uint, cancellation, action *time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entity.Contract{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"cancellation_date":        cancellation,
			"cancellation_action_date": action,
		}).Error
}

func (r *contractRepository) FindExpiring(ctx context.Context, from, to time.Time) ([]*entity.Contract, error) {
	var contracts []*entity.Contract
	err := r.db.WithContext(ctx).
		Where("is_terminated = ?", false).
		Where("cancellation_action_date IS NOT NULL").
		Where("cancellation_action_date BETWEEN ? AND ?", from, to).
		Order("cancellation_action_date ASC").
		Find(&contracts).Error
	if err != nil {
		return nil, err
	}
	return contracts, nil
}
