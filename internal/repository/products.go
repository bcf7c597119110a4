package repository

import (
	"context"

	"github.com/imgcatalog/backend/internal/models"
	"github.com/imgcatalog/backend/pkg/optional"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductChanges struct {
	Title       optional.Value[string]  `json:"title"`
	Description optional.Value[string]  `json:"description"`
	Price       optional.Value[float64] `json:"price"`
	ImageURL    optional.Value[string]  `json:"imageUrl"`
	CategoryID  optional.Value[uint]    `json:"categoryId"`
}

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	if err := r.db.WithContext(ctx).Preload("Category").Order("id").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) ListByCategory(ctx context.Context, categoryID uint) ([]models.Product, error) {
	products := []models.Product{}
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("category_id = ?", categoryID).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *ProductRepository) Get(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&product, id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

// Create persists the product after confirming its category exists. Nothing is
// written when the reference dangles.
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	product.Price = models.RoundPrice(product.Price)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureCategory(tx, product.CategoryID); err != nil {
			return err
		}
		return tx.Omit(clause.Associations).Create(product).Error
	})
}

func (r *ProductRepository) Update(ctx context.Context, id uint, changes ProductChanges) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, id).Error; err != nil {
			return translate(err)
		}

		if categoryID, ok := changes.CategoryID.Get(); ok {
			if err := ensureCategory(tx, categoryID); err != nil {
				return err
			}
			product.CategoryID = categoryID
		}
		if title, ok := changes.Title.Get(); ok {
			product.Title = title
		}
		if description, ok := changes.Description.Get(); ok {
			product.Description = description
		}
		if price, ok := changes.Price.Get(); ok {
			product.Price = models.RoundPrice(price)
		}
		if imageURL, ok := changes.ImageURL.Get(); ok {
			product.ImageURL = imageURL
		}
		product.Touch(tx.NowFunc())

		return tx.Omit(clause.Associations).Save(&product).Error
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func ensureCategory(tx *gorm.DB, categoryID uint) error {
	var count int64
	if err := tx.Model(&models.Category{}).Where("id = ?", categoryID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrInvalidReference
	}
	return nil
}
