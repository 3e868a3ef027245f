package models

import "time"

// Well-known role names. The role store is seeded with all three on startup.
const (
	RoleAdmin     = "Admin"
	RoleTourGuide = "TourGuide"
	RoleUser      = "User"
)

type Role struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;uniqueIndex" json:"name"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserRole is one role membership. The composite unique index makes a
// duplicate grant a constraint violation rather than a silent double row.
type UserRole struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;uniqueIndex:idx_user_role" json:"user_id"`
	RoleID    uint      `gorm:"uniqueIndex:idx_user_role" json:"role_id"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID;references:ID" json:"-"`
	Role Role `gorm:"foreignKey:RoleID;references:ID" json:"-"`
}
