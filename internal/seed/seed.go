package seed

import (
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/sysu-ecnc-dev/timecard-checker/backend/internal/domain"
	"github.com/sysu-ecnc-dev/timecard-checker/backend/internal/repository"
)

// SeedEmployees 从名单文件中导入员工及其加班制度。
// 文件是两列的 csv：姓名、加班制度（DAILY_OT 或 WEEKLY_OT），第一行是表头
func SeedEmployees(r *repository.Repository) {
	file, err := os.Open("./internal/seed/data/employees.csv")
	if err != nil {
		slog.Error("打开文件失败", "error", err)
		return
	}
	defer file.Close()

	reader := csv.NewReader(file)

	// 读取表头
	if _, err := reader.Read(); err != nil {
		slog.Error("读取表头失败", "error", err)
		return
	}

	cnt := 0
	for {
		row, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			slog.Error("读取文件失败", "error", err)
			return
		}

		if len(row) < 2 {
			slog.Error("名单行缺少列", "row", row)
			continue
		}

		fullName := strings.TrimSpace(row[0])
		policy := domain.Policy(strings.ToUpper(strings.TrimSpace(row[1])))
		if fullName == "" {
			continue
		}
		if policy != domain.PolicyDailyOT && policy != domain.PolicyWeeklyOT {
			slog.Error("非法的加班制度", "fullName", fullName, "policy", policy)
			continue
		}

		employee := &domain.Employee{
			FullName: fullName,
			Policy:   policy,
			IsActive: true,
		}

		if err := r.CreateEmployee(employee); err != nil {
			slog.Error("插入员工失败", "fullName", fullName, "error", err)
			continue
		}

		cnt++
	}

	slog.Info("导入员工名单完成", "count", cnt)
}
