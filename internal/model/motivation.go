package model

// Motivation 仪表盘每日激励短句
type Motivation struct {
	BaseModel
	Content         string `gorm:"size:255;not null" json:"content"`
	IsEnabled       bool   `gorm:"default:true" json:"isEnabled"`
	IsCurrentlyUsed bool   `gorm:"default:false" json:"isCurrentlyUsed"`
}

func (Motivation) TableName() string {
	return "motivations"
}
