package models

// Profile is a user's durable travel preferences. One row per user, updated in
// place.
type Profile struct {
	ProfileID           int64  `gorm:"column:profile_id;primaryKey;autoIncrement" json:"profile_id"`
	UserID              string `gorm:"column:user_id;type:varchar(255);uniqueIndex" json:"user_id"`
	Age                 string `gorm:"column:age;type:varchar(255)" json:"age"`
	TravelStyle         string `gorm:"column:travelstyle;type:text" json:"travel-style"`
	TravelPriorities    string `gorm:"column:travelpriorities;type:text" json:"travel-priorities"`
	TravelAvoidances    string `gorm:"column:travelavoidances;type:text" json:"travel-avoidances"`
	DietaryRestrictions string `gorm:"column:dietaryrestrictions;type:text" json:"dietary-restrictions"`
	Accomodations       string `gorm:"column:accomodations;type:text" json:"accomodations"`
}

func (Profile) TableName() string { return "profiles" }
