package models

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	Base

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Mobile       string `gorm:"size:20" json:"mobile"`
	Role         string `gorm:"size:20;not null;default:'user'" json:"role"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
