package domain

type MailMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type CreateUserMailData struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type ResetPasswordMailData struct {
	FullName   string `json:"fullName"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type TimecardReportMailData struct {
	FullName     string        `json:"fullName"`
	EmployeeName string        `json:"employeeName"`
	PayBeginDate string        `json:"payBeginDate"`
	PayEndDate   string        `json:"payEndDate"`
	ReportID     string        `json:"reportID"`
	Weeks        []WeekSummary `json:"weeks"`
}
