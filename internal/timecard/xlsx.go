package timecard

import (
	"errors"
	"io"

	"github.com/xuri/excelize/v2"
)

var ErrNoWorksheet = errors.New("工作簿中没有任何工作表")

// ReadXLSX 解析 XLSX 格式的时卡导出文件，只读取第一张工作表，
// 之后的处理和 CSV 完全一致
func ReadXLSX(r io.Reader) (*Sheet, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoWorksheet
	}

	records, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}

	return buildSheet(records)
}
