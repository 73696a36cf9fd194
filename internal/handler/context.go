package handler

type ContextKey string

var (
	RoleCtxKey      ContextKey = "role"
	SubCtxKey       ContextKey = "sub"
	MyInfoCtx       ContextKey = "myInfo"
	UserInfoCtx     ContextKey = "userInfo"
	EmployeeInfoCtx ContextKey = "employeeInfo"
	ReportCtx       ContextKey = "report"
)
