package department

type DepartmentDTO struct {
	Name        string `json:"department_name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

type DepartmentsResponse struct {
	Departments []*Department `json:"departments"`
}
