package models

type Address struct {
	Base

	UserID       string `gorm:"size:36;not null;index" json:"user_id"`
	AddressLine1 string `gorm:"size:255" json:"address_line1"`
	AddressLine2 string `gorm:"size:255" json:"address_line2"`
	Locality     string `gorm:"size:100" json:"locality"`
	City         string `gorm:"size:100" json:"city"`
	State        string `gorm:"size:100" json:"state"`
	Country      string `gorm:"size:100" json:"country"`
	PostalCode   string `gorm:"size:20" json:"postal_code"`
}
