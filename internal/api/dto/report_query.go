package dto

// ReportQueryDTO 报表类接口共用的查询参数
// 全部按字符串接收，不合规的字段在绑定后被清空，由归一化阶段回落到默认值
type ReportQueryDTO struct {
	Search  string `form:"search"`
	Filter  string `form:"filter" validate:"omitempty,max=16"`
	From    string `form:"from" validate:"omitempty,max=32"`
	To      string `form:"to" validate:"omitempty,max=32"`
	Page    string `form:"page" validate:"omitempty,number"`
	PerPage string `form:"per_page" validate:"omitempty,number"`

	// 群发历史与详情，钱包流水复用 Type 作为收支类型
	Type   string `form:"type" validate:"omitempty,max=8"`
	State  string `form:"state" validate:"omitempty,max=16"`
	Status string `form:"status" validate:"omitempty,max=32"`
}
