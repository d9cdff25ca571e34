package models

// User is the identity row trips and profiles hang off. It is written by the
// sign-in flow; this service only references it.
type User struct {
	ID          string `gorm:"column:id;type:varchar(255);primaryKey" json:"id"`
	Provider    string `gorm:"column:provider;type:varchar(255)" json:"provider"`
	AccessToken string `gorm:"column:access_token;type:text" json:"-"`
	FirstName   string `gorm:"column:first_name;type:varchar(255)" json:"first_name"`
	LastName    string `gorm:"column:last_name;type:varchar(255)" json:"last_name"`
	Email       string `gorm:"column:email;type:varchar(255)" json:"email"`
	URL         string `gorm:"column:url;type:text" json:"url"`
}

func (User) TableName() string { return "users" }
