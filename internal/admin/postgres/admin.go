package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/attendance-tracker/internal/admin"
	adminDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/admin"
	"gorm.io/gorm"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) admin.RepositoryAPI {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) GetAll(ctx context.Context) ([]*adminDatamodel.Admin, error) {
	var admins []*adminDatamodel.Admin
	err := r.db.WithContext(ctx).Order("id ASC").Find(&admins).Error
	return admins, err
}

func (r *AdminRepository) GetByID(ctx context.Context, id int64) (*adminDatamodel.Admin, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*adminDatamodel.Admin, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *AdminRepository) first(ctx context.Context, query string, arg interface{}) (*adminDatamodel.Admin, error) {
	var a adminDatamodel.Admin
	if err := r.db.WithContext(ctx).Where(query, arg).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, admin.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepository) Create(ctx context.Context, a *adminDatamodel.Admin) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AdminRepository) Update(ctx context.Context, a *adminDatamodel.Admin) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *AdminRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&adminDatamodel.Admin{}, id).Error
}
