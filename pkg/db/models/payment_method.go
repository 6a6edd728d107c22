package models

import "github.com/shopspring/decimal"

// PaymentMethod is instructional content keyed by method name.
type PaymentMethod struct {
	Base          `bson:",inline"`
	Name          string `gorm:"column:name" bson:"name" json:"name"`
	Instructions  string `gorm:"column:instructions" bson:"instructions" json:"instructions"`
	AccountNumber string `gorm:"column:account_number" bson:"account_number" json:"accountNumber,omitempty"`
}

func (PaymentMethod) TableName() string { return "payment_methods" }

type AppInfo struct {
	Base       `bson:",inline"`
	Commission decimal.Decimal `gorm:"column:commission;type:numeric(5,2)" bson:"commission" json:"commission"`
}

func (AppInfo) TableName() string { return "appinfo" }
