// Package asset 文章配图等资源模型
package asset

import "time"

// Asset 资源元数据，文件内容存放在存储后端
// 同一文件（SHA256 相同）只落盘一次，可被多条记录引用
type Asset struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	PostID   uint   `gorm:"not null;uniqueIndex:idx_asset_post_hash" json:"post_id"`
	FileName string `gorm:"type:varchar(255);not null" json:"file_name"`
	FileHash string `gorm:"type:varchar(64);not null;uniqueIndex:idx_asset_post_hash;index" json:"file_hash"`
	// 存储后端中的相对路径，如 "ab/abcdef...png"
	StoragePath string    `gorm:"type:varchar(500);not null" json:"-"`
	MimeType    string    `gorm:"type:varchar(100);not null" json:"mime_type"`
	Category    string    `gorm:"type:varchar(20);not null" json:"category"`
	Size        int64     `gorm:"not null" json:"size"`
	UploadedBy  uint      `gorm:"not null;index" json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Asset) TableName() string {
	return "assets"
}
