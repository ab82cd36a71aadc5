package cmd

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/frahmantamala/attendance-tracker/internal/auth"
	adminDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/admin"
	attendanceDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/attendance"
	departmentDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/department"
	employeeDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/employee"
	qrcodeDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/qrcode"
	reportDatamodel "github.com/frahmantamala/attendance-tracker/internal/core/datamodel/report"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed departments, a superadmin and demo employees for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer sqlxDB.Close()

		if err := seedDatabase(db, auth.NewHasher(cfg.Security.BCryptCost), clearData, os.Stdout); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	},
}

const seedPassword = "password"

var seedDepartments = []departmentDatamodel.Department{
	{Name: "Engineering", Description: "Product and platform engineering"},
	{Name: "Human Resources", Description: "People operations"},
	{Name: "Finance", Description: "Accounting and payroll"},
}

var seedEmployees = []struct {
	ID, First, Last, Email, Position, Department string
}{
	{"E123", "Juan", "Dela Cruz", "juan@example.com", "Software Engineer", "Engineering"},
	{"E124", "Maria", "Santos", "maria@example.com", "HR Specialist", "Human Resources"},
	{"E125", "Jose", "Rizal", "jose@example.com", "Accountant", "Finance"},
}

// seedDatabase is idempotent: existing rows, matched on their natural keys,
// are left alone.
func seedDatabase(db *gorm.DB, hasher *auth.Hasher, clear bool, out io.Writer) error {
	if clear {
		if err := clearTables(db); err != nil {
			return err
		}
		fmt.Fprintln(out, "Cleared existing data")
	}

	hash, err := hasher.Hash(seedPassword)
	if err != nil {
		return fmt.Errorf("hash seed password: %w", err)
	}

	departmentIDs := make(map[string]int64, len(seedDepartments))
	for _, d := range seedDepartments {
		row := d
		if err := db.Where("name = ?", d.Name).FirstOrCreate(&row).Error; err != nil {
			return fmt.Errorf("seed department %s: %w", d.Name, err)
		}
		departmentIDs[d.Name] = row.ID
	}
	fmt.Fprintln(out, "Departments seeded:", len(departmentIDs))

	superadmin := adminDatamodel.Admin{
		Name:         "Super Admin",
		Username:     "superadmin",
		PasswordHash: hash,
		Role:         adminDatamodel.RoleSuperAdmin,
	}
	if err := db.Where("username = ?", superadmin.Username).FirstOrCreate(&superadmin).Error; err != nil {
		return fmt.Errorf("seed superadmin: %w", err)
	}
	fmt.Fprintln(out, "Seeded superadmin:", superadmin.Username)

	for _, e := range seedEmployees {
		deptID := departmentIDs[e.Department]
		row := employeeDatamodel.Employee{
			ID:           e.ID,
			FirstName:    e.First,
			LastName:     e.Last,
			Email:        e.Email,
			DepartmentID: &deptID,
			Position:     e.Position,
			Status:       employeeDatamodel.StatusActive,
			PasswordHash: hash,
		}
		var existing employeeDatamodel.Employee
		err := db.Where("id = ?", e.ID).Take(&existing).Error
		switch {
		case err == nil:
			fmt.Fprintln(out, "employee already exists:", e.ID)
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := db.Create(&row).Error; err != nil {
				return fmt.Errorf("seed employee %s: %w", e.ID, err)
			}
			fmt.Fprintln(out, "Seeded employee:", e.ID)
		default:
			return fmt.Errorf("check employee %s: %w", e.ID, err)
		}
	}

	fmt.Fprintf(out, "Seed complete. Every seeded account uses the password %q\n", seedPassword)
	return nil
}

func clearTables(db *gorm.DB) error {
	models := []interface{}{
		&reportDatamodel.Report{},
		&qrcodeDatamodel.QRCode{},
		&attendanceDatamodel.AttendanceLog{},
		&attendanceDatamodel.Attendance{},
		&employeeDatamodel.Employee{},
		&adminDatamodel.Admin{},
		&departmentDatamodel.Department{},
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, m := range models {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(m).Error; err != nil {
				return fmt.Errorf("clear %T: %w", m, err)
			}
		}
		return nil
	})
}
