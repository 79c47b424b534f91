package repository

import (
	"context"
	"errors"

	"unispace/internal/domain/model"
	repo "unispace/internal/repository"

	"gorm.io/gorm"
)

type MessageGormRepository struct {
	db *gorm.DB
}

func NewMessageGormRepository(db *gorm.DB) *MessageGormRepository {
	return &MessageGormRepository{db: db}
}

func (r *MessageGormRepository) Create(ctx context.Context, m model.Message) (model.Message, error) {
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return model.Message{}, err
	}
	return m, nil
}

func (r *MessageGormRepository) FindByID(ctx context.Context, id int64) (model.Message, error) {
	var m model.Message
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Message{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Message{}, err
	}
	return m, nil
}

func (r *MessageGormRepository) List(ctx context.Context, f repo.MessageListFilter) ([]model.Message, int64, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}

	q := r.db.WithContext(ctx).Model(&model.Message{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return []model.Message{}, 0, err
	}

	var items []model.Message
	offset := (f.Page - 1) * f.Limit
	if err := q.Order("id desc").Limit(f.Limit).Offset(offset).Find(&items).Error; err != nil {
		return []model.Message{}, 0, err
	}

	return items, total, nil
}

func (r *MessageGormRepository) UpdateStatus(ctx context.Context, id int64, status model.MessageStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("id = ?", id).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *MessageGormRepository) Count(ctx context.Context, status string) (int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Message{})
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
