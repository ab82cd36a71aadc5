package employee

import "time"

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Employee struct {
	ID           string    `gorm:"column:id;primaryKey;size:32"`
	FirstName    string    `gorm:"column:first_name;not null"`
	LastName     string    `gorm:"column:last_name;not null"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	DepartmentID *int64    `gorm:"column:department_id;index"`
	Position     string    `gorm:"column:position"`
	Status       string    `gorm:"column:status;not null;default:active"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string {
	return "employees"
}

// EmployeeWithDepartment is the read model joined with the department name.
type EmployeeWithDepartment struct {
	Employee
	DepartmentName *string `gorm:"column:department_name"`
}
