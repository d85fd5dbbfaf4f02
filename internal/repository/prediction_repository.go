package repository

import (
	"studperf_backend/internal/model"

	"gorm.io/gorm"
)

// PredictionRepository 按用户维度的预测历史：追加、倒序读取、注销时整体清除
type PredictionRepository struct {
	DB *gorm.DB
}

func NewPredictionRepository(db *gorm.DB) *PredictionRepository {
	return &PredictionRepository{DB: db}
}

func (r *PredictionRepository) Append(record *model.PredictionRecord) error {
	return r.DB.Create(record).Error
}

// ListByUser 最新在前，limit<=0 时返回全部
func (r *PredictionRepository) ListByUser(userID uint, limit int) ([]model.PredictionRecord, error) {
	var records []model.PredictionRecord
	q := r.DB.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&records).Error
	return records, err
}

// LatestByUser 用户最近一条记录，无记录时返回 gorm.ErrRecordNotFound
func (r *PredictionRepository) LatestByUser(userID uint) (*model.PredictionRecord, error) {
	var record model.PredictionRecord
	err := r.DB.Where("user_id = ?", userID).Order("created_at DESC").First(&record).Error
	return &record, err
}

// ClearByUser 注销时整体删除该用户的历史
func (r *PredictionRepository) ClearByUser(userID uint) error {
	return r.DB.Unscoped().Where("user_id = ?", userID).Delete(&model.PredictionRecord{}).Error
}

func (r *PredictionRepository) CountByUser(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.PredictionRecord{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
