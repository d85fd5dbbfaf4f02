package util

import (
	"bytes"
	"strings"
)

// WriteCSV 生成 CSV：每个字段一律加引号，内嵌引号写成两个引号。
// encoding/csv 只在必要时加引号，与前端既有导出格式不一致，故手写。
func WriteCSV(header []string, rows [][]string) []byte {
	var buf bytes.Buffer
	writeCSVLine(&buf, header)
	for _, row := range rows {
		writeCSVLine(&buf, row)
	}
	return buf.Bytes()
}

func writeCSVLine(buf *bytes.Buffer, fields []string) {
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(strings.ReplaceAll(f, `"`, `""`))
		buf.WriteByte('"')
	}
	buf.WriteByte('\n')
}
