package report

type GeneratedReportDTO struct {
	ReportType string `json:"report_type" validate:"required,oneof=daily monthly logs"`
	Remarks    string `json:"remarks" validate:"max=500"`
}

type RecordsResponse struct {
	Records interface{} `json:"records"`
}
