package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	qrcodeDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/qrcode"
	"github.com/frahmantamala/attendance-tracker/internal/qrcode"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QRCodeRepository struct {
	db *gorm.DB
}

func NewQRCodeRepository(db *gorm.DB) qrcode.RepositoryAPI {
	return &QRCodeRepository{db: db}
}

func (r *QRCodeRepository) Upsert(ctx context.Context, employeeID, codeValue string, issuedAt time.Time) error {
	row := &qrcodeDatamodel.QRCode{
		EmployeeID:    employeeID,
		CodeValue:     codeValue,
		DateGenerated: issuedAt.UTC(),
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"code_value", "date_generated"}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("upsert qr code: %w", err)
	}
	return nil
}

func (r *QRCodeRepository) Latest(ctx context.Context, employeeID string) (*qrcodeDatamodel.QRCode, error) {
	var row qrcodeDatamodel.QRCode
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("date_generated DESC").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, qrcode.ErrNotFound
		}
		return nil, fmt.Errorf("latest qr code: %w", err)
	}
	return &row, nil
}

func (r *QRCodeRepository) FindByCode(ctx context.Context, codeValue string, notBefore time.Time) (*qrcodeDatamodel.QRCode, error) {
	var row qrcodeDatamodel.QRCode
	err := r.db.WithContext(ctx).
		Where("code_value = ? AND date_generated >= ?", codeValue, notBefore.UTC()).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, qrcode.ErrNotFound
		}
		return nil, fmt.Errorf("find qr code: %w", err)
	}
	return &row, nil
}

func (r *QRCodeRepository) List(ctx context.Context) ([]*qrcodeDatamodel.QRCodeWithEmployee, error) {
	var rows []*qrcodeDatamodel.QRCodeWithEmployee
	err := r.db.WithContext(ctx).
		Table("qr_codes q").
		Select("q.*, e.first_name, e.last_name").
		Joins("JOIN employees e ON e.id = q.employee_id").
		Order("q.date_generated DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list qr codes: %w", err)
	}
	return rows, nil
}

func (r *QRCodeRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&qrcodeDatamodel.QRCode{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete qr code: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return qrcode.ErrNotFound
	}
	return nil
}
