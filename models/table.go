package models

// Table is a bookable seating unit. Name is stored in the table_name column
// so existing databases keep working.
type Table struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"column:table_name;type:varchar(100);not null;index" json:"table_name"`
	Seats    int    `gorm:"not null" json:"seats"`
	Location string `gorm:"type:varchar(100);not null;default:''" json:"location"`
}
