package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRowKind(t *testing.T) {
	tests := []struct {
		name  string
		cells map[string]string
		want  RowKind
	}{
		{
			name:  "规范星期名",
			cells: map[string]string{ColumnDay: "MONDAY"},
			want:  RowKindDay,
		},
		{
			name:  "星期名大小写和空白不敏感",
			cells: map[string]string{ColumnDay: "  friday "},
			want:  RowKindDay,
		},
		{
			name:  "页脚行",
			cells: map[string]string{ColumnDay: "", ColumnTimeOut: "TOTAL HOURS"},
			want:  RowKindFooter,
		},
		{
			name:  "页脚判断大小写不敏感",
			cells: map[string]string{ColumnDay: "合计", ColumnTimeOut: " total hours "},
			want:  RowKindFooter,
		},
		{
			name:  "星期名优先于页脚标记",
			cells: map[string]string{ColumnDay: "SUNDAY", ColumnTimeOut: "TOTAL HOURS"},
			want:  RowKindDay,
		},
		{
			name:  "既不是日行也不是页脚",
			cells: map[string]string{ColumnDay: "HOLIDAY", ColumnTimeOut: "5:00 PM"},
			want:  RowKindMalformed,
		},
		{
			name:  "空行",
			cells: map[string]string{},
			want:  RowKindMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewRow(tt.cells).Kind())
		})
	}
}

func TestIsDayName(t *testing.T) {
	assert.True(t, IsDayName("MONDAY"))
	assert.True(t, IsDayName(" sunday "))
	assert.False(t, IsDayName("TOTAL HOURS"))
	assert.False(t, IsDayName(""))
}

func TestWeekCursor(t *testing.T) {
	cursor := weekCursor{}

	// 第一行日行落在第 1 周
	assert.Equal(t, 1, cursor.next(dayOrder["WEDNESDAY"]))
	assert.Equal(t, 1, cursor.next(dayOrder["THURSDAY"]))
	assert.Equal(t, 1, cursor.next(dayOrder["SUNDAY"]))

	// 星期顺序回退表示进入新的一周
	assert.Equal(t, 2, cursor.next(dayOrder["MONDAY"]))
	assert.Equal(t, 2, cursor.next(dayOrder["FRIDAY"]))
	assert.Equal(t, 3, cursor.next(dayOrder["TUESDAY"]))

	// 同一个星期名重复出现不回退
	assert.Equal(t, 3, cursor.next(dayOrder["TUESDAY"]))
}
