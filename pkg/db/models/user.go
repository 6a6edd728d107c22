package models

import "strings"

// User is the shopper record; the persisted cart lives on it.
type User struct {
	Base       `bson:",inline"`
	Name       string `gorm:"column:name" bson:"name" json:"name"`
	Email      string `gorm:"column:email" bson:"email" json:"email"`
	Phone      string `gorm:"column:phone" bson:"phone" json:"phone"`
	City       string `gorm:"column:city" bson:"city" json:"city"`
	Street     string `gorm:"column:street" bson:"street" json:"street"`
	Country    string `gorm:"column:country" bson:"country" json:"country"`
	PostalCode string `gorm:"column:postal_code" bson:"postal_code" json:"postalCode"`
	Cart       Cart   `gorm:"column:cart" bson:"cart" json:"cart"`
}

func (User) TableName() string { return "users" }

// MissingAddressFields lists the column names of blank shipping fields.
func (u *User) MissingAddressFields() []string {
	missing := []string{}
	fields := []struct {
		name  string
		value string
	}{
		{"city", u.City},
		{"street", u.Street},
		{"country", u.Country},
		{"postal_code", u.PostalCode},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}
