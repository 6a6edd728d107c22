package models

import (
	"github.com/angelmondragon/storefront-checkout/pkg/enums"
	"github.com/shopspring/decimal"
)

type Invoice struct {
	Base           `bson:",inline"`
	Order          string              `gorm:"column:order_id" bson:"order_id" json:"order"`
	Status         enums.InvoiceStatus `gorm:"column:status" bson:"status" json:"status"`
	TotalAmount    decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2)" bson:"total_amount" json:"totalAmount"`
	ProductPrice   decimal.Decimal     `gorm:"column:product_price;type:numeric(12,2)" bson:"product_price" json:"productPrice"`
	DeliveryCharge decimal.Decimal     `gorm:"column:delivery_charge;type:numeric(12,2)" bson:"delivery_charge" json:"deliveryCharge"`
	Commission     decimal.Decimal     `gorm:"column:commission;type:numeric(12,2)" bson:"commission" json:"commission"`
	User           string              `gorm:"column:user_id" bson:"user_id" json:"user"`
	Seller         string              `gorm:"column:seller_id" bson:"seller_id" json:"seller"`
	TransactionID  string              `gorm:"column:transaction_id" bson:"transaction_id" json:"transactionId,omitempty"`
}

func (Invoice) TableName() string { return "invoice" }
