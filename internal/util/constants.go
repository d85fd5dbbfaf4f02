package util

const (
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
)

const (
	// HistoryDefaultLimit 仪表盘默认展示的最近预测条数
	HistoryDefaultLimit = 5
	// HistoryMaxLimit 单次查询允许返回的最大条数（教师端趋势图）
	HistoryMaxLimit = 20
)
