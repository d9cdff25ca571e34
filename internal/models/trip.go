package models

// Trip is one planning session. Rows are written once by the initial planning
// request and never updated.
type Trip struct {
	TripID            int64   `gorm:"column:trip_id;primaryKey;autoIncrement" json:"trip_id"`
	UserID            *string `gorm:"column:user_id;type:varchar(255);index" json:"user_id"`
	Destination       string  `gorm:"column:destination;type:varchar(255)" json:"destination"`
	DaysNum           string  `gorm:"column:days_num;type:varchar(255)" json:"days_num"`
	TravelersNum      string  `gorm:"column:travelers_num;type:varchar(255)" json:"travelers_num"`
	Budget            string  `gorm:"column:budget;type:varchar(255)" json:"budget"`
	TravelPreferences string  `gorm:"column:travel_preferences;type:text" json:"travel_preference"`
}

func (Trip) TableName() string { return "trips" }

// OwnedBy reports whether the trip belongs to userID. A nil identity matches
// only a trip stored without an owner.
func (t *Trip) OwnedBy(userID *string) bool {
	if t.UserID == nil || userID == nil {
		return t.UserID == nil && userID == nil
	}
	return *t.UserID == *userID
}

// IncompleteTrip is a trip holding fewer messages than a finished initial
// planning request writes.
type IncompleteTrip struct {
	TripID       int64 `gorm:"column:trip_id" json:"trip_id"`
	MessageCount int64 `gorm:"column:message_count" json:"message_count"`
}
