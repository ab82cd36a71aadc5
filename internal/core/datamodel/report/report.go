package report

import "time"

const (
	TypeDaily   = "daily"
	TypeMonthly = "monthly"
	TypeLogs    = "logs"
)

type Report struct {
	ID            int64     `gorm:"primaryKey"`
	AdminID       int64     `gorm:"column:admin_id;not null;index"`
	ReportType    string    `gorm:"column:report_type;size:32;not null"`
	Remarks       string    `gorm:"column:remarks"`
	DateGenerated time.Time `gorm:"column:date_generated;not null"`
}

func (Report) TableName() string {
	return "reports"
}

// ReportWithAdmin is the register list read model.
type ReportWithAdmin struct {
	Report
	GeneratedBy string `gorm:"column:generated_by"`
}
