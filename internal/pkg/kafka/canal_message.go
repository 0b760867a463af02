package kafka

import (
	"fmt"
	"strconv"
)

// CanalMessage 定义了 Canal 推送到 Kafka 的 JSON 数据结构
type CanalMessage struct {
	ID       int64    `json:"id"`
	Database string   `json:"database"`
	Table    string   `json:"table"`
	PKNames  []string `json:"pkNames"`
	IsDDL    bool     `json:"isDdl"`
	Type     string   `json:"type"`
	ES       int64    `json:"es"`
	TS       int64    `json:"ts"`
	SQL      string   `json:"sql"`

	// Data 存储变更后的数据
	Data []map[string]interface{} `json:"data"`

	// Old 存储变更前的数据，只包含发生变化的列
	Old []map[string]interface{} `json:"old"`

	SqlType   map[string]int    `json:"sqlType"`
	MysqlType map[string]string `json:"mysqlType"`
}

// Uint64Values 收集 Data 与 Old 中某列的全部取值（去重，忽略无法解析的值）
func (m *CanalMessage) Uint64Values(column string) []uint64 {
	seen := make(map[uint64]struct{})
	values := make([]uint64, 0, len(m.Data))
	collect := func(rows []map[string]interface{}) {
		for _, row := range rows {
			v, ok := row[column]
			if !ok || v == nil {
				continue
			}
			id, err := toUint64(v)
			if err != nil || id == 0 {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			values = append(values, id)
		}
	}
	collect(m.Data)
	collect(m.Old)
	return values
}

// canal 的 flat message 把所有列值编码为字符串
func toUint64(v interface{}) (uint64, error) {
	switch t := v.(type) {
	case string:
		return strconv.ParseUint(t, 10, 64)
	case float64:
		if t < 0 {
			return 0, fmt.Errorf("negative id %v", t)
		}
		return uint64(t), nil
	default:
		return 0, fmt.Errorf("unsupported id type %T", v)
	}
}
