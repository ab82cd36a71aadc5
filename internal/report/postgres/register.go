package postgres

import (
	"context"
	"errors"
	"fmt"

	reportDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/report"
	"github.com/frahmantamala/attendance-tracker/internal/report"
	"gorm.io/gorm"
)

type RegisterRepository struct {
	db *gorm.DB
}

func NewRegisterRepository(db *gorm.DB) *RegisterRepository {
	return &RegisterRepository{db: db}
}

var _ report.RegisterAPI = (*RegisterRepository)(nil)

func (r *RegisterRepository) List(ctx context.Context) ([]*reportDatamodel.ReportWithAdmin, error) {
	var rows []*reportDatamodel.ReportWithAdmin
	err := r.db.WithContext(ctx).
		Table("reports r").
		Select("r.*, ad.username AS generated_by").
		Joins("LEFT JOIN admins ad ON ad.id = r.admin_id").
		Order("r.date_generated DESC, r.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return rows, nil
}

func (r *RegisterRepository) GetByID(ctx context.Context, id int64) (*reportDatamodel.Report, error) {
	var row reportDatamodel.Report
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, report.ErrNotFound
		}
		return nil, fmt.Errorf("get report: %w", err)
	}
	return &row, nil
}

func (r *RegisterRepository) Create(ctx context.Context, row *reportDatamodel.Report) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *RegisterRepository) Update(ctx context.Context, row *reportDatamodel.Report) error {
	return r.db.WithContext(ctx).Save(row).Error
}

func (r *RegisterRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&reportDatamodel.Report{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete report: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return report.ErrNotFound
	}
	return nil
}
