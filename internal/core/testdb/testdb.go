// Package testdb opens migrated in-memory SQLite databases for repository and
// handler specs. Only test code imports it.
package testdb

import (
	"fmt"

	adminDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/admin"
	attendanceDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/attendance"
	departmentDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/department"
	employeeDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/employee"
	qrcodeDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/qrcode"
	reportDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/report"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a fresh database with every table created. The pool is pinned
// to one connection because each ":memory:" connection is its own database.
func Open() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&departmentDatamodel.Department{},
		&employeeDatamodel.Employee{},
		&adminDatamodel.Admin{},
		&attendanceDatamodel.Attendance{},
		&attendanceDatamodel.AttendanceLog{},
		&qrcodeDatamodel.QRCode{},
		&reportDatamodel.Report{},
	)
	if err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	return db, nil
}

// SQLX wraps the same connection for the sqlx based report queries.
func SQLX(db *gorm.DB) (*sqlx.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return sqlx.NewDb(sqlDB, "sqlite3"), nil
}

// Hash is a cheap bcrypt hash for fixtures.
func Hash(password string) string {
	h, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	return string(h)
}

// SeedEmployee inserts an active employee with password "secret".
func SeedEmployee(db *gorm.DB, id, first, last string, departmentID *int64) (*employeeDatamodel.Employee, error) {
	e := &employeeDatamodel.Employee{
		ID:           id,
		FirstName:    first,
		LastName:     last,
		Email:        fmt.Sprintf("%s@example.com", id),
		DepartmentID: departmentID,
		Position:     "Engineer",
		Status:       employeeDatamodel.StatusActive,
		PasswordHash: Hash("secret"),
	}
	return e, db.Create(e).Error
}

func SeedDepartment(db *gorm.DB, name string) (*departmentDatamodel.Department, error) {
	d := &departmentDatamodel.Department{Name: name, Description: name + " department"}
	return d, db.Create(d).Error
}
