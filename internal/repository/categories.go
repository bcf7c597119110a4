package repository

import (
	"context"

	"github.com/imgcatalog/backend/internal/models"
	"github.com/imgcatalog/backend/pkg/optional"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CategoryChanges struct {
	Title optional.Value[string] `json:"title"`
}

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	categories := []models.Category{}
	if err := r.db.WithContext(ctx).Order("id").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// Get loads a category together with its products.
func (r *CategoryRepository) Get(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		First(&category, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(category).Error
}

// Update applies the supplied fields. updatedAt moves even when nothing else does.
func (r *CategoryRepository) Update(ctx context.Context, id uint, changes CategoryChanges) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&category, id).Error; err != nil {
			return translate(err)
		}

		if title, ok := changes.Title.Get(); ok {
			category.Title = title
		}
		category.Touch(tx.NowFunc())

		return tx.Omit(clause.Associations).Save(&category).Error
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// Delete removes the category and every product in it as one transaction. It
// reports how many products went with it.
func (r *CategoryRepository) Delete(ctx context.Context, id uint) (int64, error) {
	var removed int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := tx.First(&category, id).Error; err != nil {
			return translate(err)
		}

		result := tx.Where("category_id = ?", id).Delete(&models.Product{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected

		return tx.Delete(&category).Error
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}
