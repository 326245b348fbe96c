package content

import "strings"

// CSVRecord 一行 CSV 数据，键为小写表头
type CSVRecord map[string]string

// Get 读取字段，不存在时返回空串
func (r CSVRecord) Get(key string) string {
	return r[key]
}

// ParseSimpleCSV 按逗号切分的简单 CSV 解析
// 不处理引号转义；首列为空的行会被跳过
func ParseSimpleCSV(raw string) []CSVRecord {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	lines := strings.Split(trimmed, "\n")
	headers := strings.Split(lines[0], ",")
	for i := range headers {
		headers[i] = strings.ToLower(strings.TrimSpace(headers[i]))
	}

	records := make([]CSVRecord, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := strings.Split(line, ",")
		for i := range values {
			values[i] = strings.TrimSpace(values[i])
		}
		if len(values) == 0 || values[0] == "" {
			continue
		}
		record := make(CSVRecord, len(headers))
		for i, header := range headers {
			if i < len(values) {
				record[header] = values[i]
			} else {
				record[header] = ""
			}
		}
		records = append(records, record)
	}
	return records
}
