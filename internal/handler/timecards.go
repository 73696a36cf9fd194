package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/timecard-checker/backend/internal/domain"
	"github.com/sysu-ecnc-dev/timecard-checker/backend/internal/engine"
	"github.com/sysu-ecnc-dev/timecard-checker/backend/internal/timecard"
	"github.com/sysu-ecnc-dev/timecard-checker/backend/internal/utils"
)

func (h *Handler) CheckTimecard(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.config.Report.MaxUploadSize); err != nil {
		h.errorResponse(w, r, "上传的文件过大或格式不正确")
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		h.errorResponse(w, r, "请上传时卡文件")
		return
	}
	defer file.Close()

	// 按扩展名选择解析器，两种格式最终都会落到同一种行形态
	var sheet *timecard.Sheet
	switch strings.ToLower(filepath.Ext(fileHeader.Filename)) {
	case ".csv":
		sheet, err = timecard.ReadCSV(file)
	case ".xlsx":
		sheet, err = timecard.ReadXLSX(file)
	default:
		h.errorResponse(w, r, "只支持 csv 和 xlsx 格式的时卡文件")
		return
	}
	if err != nil {
		switch {
		case errors.Is(err, timecard.ErrEmptySheet),
			errors.Is(err, timecard.ErrNoDataHeader),
			errors.Is(err, timecard.ErrNoWorksheet):
			h.errorResponse(w, r, err.Error())
		default:
			h.errorResponse(w, r, "时卡文件解析失败")
		}
		return
	}

	// 先查员工名单确定加班制度，查不到再落到配置中的兜底名单
	policy := h.resolvePolicy(w, r, sheet.EmployeeName)
	if policy == "" {
		return
	}

	evaluation, err := engine.Evaluate(sheet.Rows, policy)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	report := &domain.TimecardReport{
		ID:            utils.GenerateReportID(),
		EmployeeName:  sheet.EmployeeName,
		Policy:        policy,
		PayBeginDate:  sheet.PayBeginDate,
		PayEndDate:    sheet.PayEndDate,
		PayDate:       sheet.PayDate,
		Header:        sheet.Header,
		PayrollTotals: sheet.PayrollTotals,
		Rows:          evaluation.Rows,
		Weeks:         evaluation.WeeklySummary(),
		HasErrors:     evaluation.HasErrors(),
		Finalized:     false,
		CreatedAt:     time.Now(),
	}

	if err := h.saveReport(r.Context(), report); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "时卡校验完成", report)
}

// resolvePolicy 返回空字符串表示已经写好了错误响应
func (h *Handler) resolvePolicy(w http.ResponseWriter, r *http.Request, employeeName string) domain.Policy {
	if strings.TrimSpace(employeeName) == "" {
		h.errorResponse(w, r, "时卡中缺少员工姓名")
		return ""
	}

	employee, err := h.repository.GetEmployeeByFullName(employeeName)
	switch {
	case err == nil:
		return employee.Policy
	case errors.Is(err, sql.ErrNoRows):
		return domain.PolicyForName(employeeName, h.config.Policy.DailyOTNames)
	default:
		h.internalServerError(w, r, err)
		return ""
	}
}

func (h *Handler) saveReport(ctx context.Context, report *domain.TimecardReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}

	opCtx, cancel := context.WithTimeout(ctx, time.Duration(h.config.Redis.OperationExpiration)*time.Minute)
	defer cancel()

	key := fmt.Sprintf("report_%s", report.ID)
	expiration := time.Duration(h.config.Report.Expiration) * time.Second

	return h.redisClient.Set(opCtx, key, data, expiration).Err()
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	report := r.Context().Value(ReportCtx).(*domain.TimecardReport)
	h.successResponse(w, r, "获取校验报告成功", report)
}

func (h *Handler) FinalizeReport(w http.ResponseWriter, r *http.Request) {
	report := r.Context().Value(ReportCtx).(*domain.TimecardReport)
	me := r.Context().Value(MyInfoCtx).(*domain.User)

	if report.Finalized {
		h.errorResponse(w, r, "该报告已经定稿")
		return
	}
	if report.HasErrors {
		h.errorResponse(w, r, "报告中仍有未解决的问题，无法定稿")
		return
	}

	report.Finalized = true
	if err := h.saveReport(r.Context(), report); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 定稿后把报告摘要发到定稿人的邮箱留档
	mailMessage := domain.MailMessage{
		Type: "timecard_report",
		To:   me.Email,
		Data: domain.TimecardReportMailData{
			FullName:     me.FullName,
			EmployeeName: report.EmployeeName,
			PayBeginDate: report.PayBeginDate,
			PayEndDate:   report.PayEndDate,
			ReportID:     report.ID,
			Weeks:        report.Weeks,
		},
	}

	emailData, err := json.Marshal(mailMessage)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	if err := h.mailChannel.PublishWithContext(
		ctx,
		"",
		"email_queue",
		true,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        emailData,
		},
	); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "报告已定稿", report)
}
