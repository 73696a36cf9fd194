package timecard

import (
	"encoding/csv"
	"io"
)

// ReadCSV 解析 CSV 格式的时卡导出文件
func ReadCSV(r io.Reader) (*Sheet, error) {
	reader := csv.NewReader(r)
	// 时卡导出文件中各行的列数并不一致（元数据区、数据区、合计区各不相同）
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	return buildSheet(records)
}
