package models

import "github.com/shopspring/decimal"

// Seller holds the verification flag and running sales aggregates.
type Seller struct {
	Base            `bson:",inline"`
	Name            string          `gorm:"column:name" bson:"name" json:"name"`
	AdminVerified   bool            `gorm:"column:admin_verified" bson:"admin_verified" json:"adminVerified"`
	TotalSale       decimal.Decimal `gorm:"column:total_sale;type:numeric(14,2)" bson:"total_sale" json:"totalSale"`
	TotalCommission decimal.Decimal `gorm:"column:total_commission;type:numeric(14,2)" bson:"total_commission" json:"totalCommission"`
	TotalOrders     int64           `gorm:"column:total_orders" bson:"total_orders" json:"totalOrders"`
	TotalBalance    decimal.Decimal `gorm:"column:total_balance;type:numeric(14,2)" bson:"total_balance" json:"totalBalance"`
}

func (Seller) TableName() string { return "sellers" }
