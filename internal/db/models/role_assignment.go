package models

import "time"

// RoleAssignment is the pivot between users and roles.
//
// Rows with Automatic set are owned by the role mapper: every synchronization
// leaves exactly the freshly computed set of them. Rows without it were granted
// by other means (an administrator, a seed) and are never changed by the mapper.
type RoleAssignment struct {
	// UserID is the ID of the user holding the role.
	UserID uint64 `gorm:"primaryKey;column:user_id"`
	// RoleID is the ID of the assigned role.
	RoleID uint `gorm:"primaryKey;column:role_id"`
	// Automatic marks assignments derived from identity provider attributes.
	Automatic bool `gorm:"not null;default:false;index"`
	// User is the associated user (loaded via foreign key).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// Role is the associated role (loaded via foreign key).
	Role Role `gorm:"foreignKey:RoleID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the role was assigned (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the RoleAssignment model.
func (RoleAssignment) TableName() string {
	return "role_user"
}
