package domain

// User is an authenticated contributor or reviewer. Role is one of the
// values in pkg/constants: admin, custodian, data_owner.
type User struct {
	ID             uint   `gorm:"column:id;primaryKey" json:"id"`
	Email          string `gorm:"column:email;uniqueIndex;not null" json:"email"`
	HashedPassword string `gorm:"column:hashed_password;not null" json:"-"`
	Role           string `gorm:"column:role;type:varchar(20);not null;default:'data_owner'" json:"role"`
}

func (User) TableName() string { return "user" }
