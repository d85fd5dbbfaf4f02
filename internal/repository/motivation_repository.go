package repository

import (
	"studperf_backend/internal/model"

	"gorm.io/gorm"
)

type MotivationRepository struct {
	DB *gorm.DB
}

func NewMotivationRepository(db *gorm.DB) *MotivationRepository {
	return &MotivationRepository{DB: db}
}

func (r *MotivationRepository) FindCurrent() (*model.Motivation, error) {
	var m model.Motivation
	err := r.DB.Where("is_enabled = ? AND is_currently_used = ?", true, true).First(&m).Error
	return &m, err
}

func (r *MotivationRepository) ListEnabled() ([]model.Motivation, error) {
	var ms []model.Motivation
	err := r.DB.Where("is_enabled = ?", true).Order("id ASC").Find(&ms).Error
	return ms, err
}

// SetCurrent 切换当前使用的短句
func (r *MotivationRepository) SetCurrent(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.Motivation{}).Where("is_currently_used = ?", true).
			Update("is_currently_used", false).Error; err != nil {
			return err
		}
		return tx.Model(&model.Motivation{}).Where("id = ?", id).
			Update("is_currently_used", true).Error
	})
}
