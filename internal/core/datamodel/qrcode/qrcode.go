package qrcode

import "time"

type QRCode struct {
	ID            int64     `gorm:"primaryKey"`
	EmployeeID    string    `gorm:"column:employee_id;size:32;not null;uniqueIndex"`
	CodeValue     string    `gorm:"column:code_value;type:text;not null;uniqueIndex"`
	DateGenerated time.Time `gorm:"column:date_generated;not null"`
}

func (QRCode) TableName() string {
	return "qr_codes"
}

// QRCodeWithEmployee is the admin list read model.
type QRCodeWithEmployee struct {
	QRCode
	FirstName string `gorm:"column:first_name"`
	LastName  string `gorm:"column:last_name"`
}
