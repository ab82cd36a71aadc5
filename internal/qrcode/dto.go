package qrcode

type ImageResponse struct {
	QRDataURL  string `json:"qrDataURL"`
	CodeValue  string `json:"codeValue"`
	ExpiresAt  int64  `json:"expiresAt"`
	EmployeeID string `json:"employeeID,omitempty"`
}

type ScanDTO struct {
	CodeValue string `json:"codeValue"`
}

type IssueDTO struct {
	EmployeeID string `json:"employee_id" validate:"required,employee_id"`
}

type CredentialsResponse struct {
	QRCodes []*CredentialView `json:"qr_codes"`
}
