package models

import (
	"database/sql/driver"

	"github.com/angelmondragon/storefront-checkout/pkg/enums"
	"github.com/shopspring/decimal"
)

// OrderProduct is the quantity and unit price of one product on an order.
type OrderProduct struct {
	ID       string          `json:"id" bson:"id"`
	Quantity int             `json:"quantity" bson:"quantity"`
	Price    decimal.Decimal `json:"price" bson:"price"`
}

type OrderProducts []OrderProduct

func (OrderProducts) GormDataType() string { return "jsonb" }

func (p OrderProducts) Value() (driver.Value, error) {
	if p == nil {
		return "[]", nil
	}
	return jsonValue(p)
}

func (p *OrderProducts) Scan(src any) error {
	out := OrderProducts{}
	if err := jsonScan(src, &out); err != nil {
		return err
	}
	*p = out
	return nil
}

type StringList []string

func (StringList) GormDataType() string { return "jsonb" }

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	return jsonValue(l)
}

func (l *StringList) Scan(src any) error {
	out := StringList{}
	if err := jsonScan(src, &out); err != nil {
		return err
	}
	*l = out
	return nil
}

// Variants maps a product id to the variant ordered for it.
type Variants map[string]Variant

func (Variants) GormDataType() string { return "jsonb" }

func (v Variants) Value() (driver.Value, error) {
	if v == nil {
		return "{}", nil
	}
	return jsonValue(v)
}

func (v *Variants) Scan(src any) error {
	out := Variants{}
	if err := jsonScan(src, &out); err != nil {
		return err
	}
	*v = out
	return nil
}

// Order is the per-seller record created by checkout.
type Order struct {
	Base           `bson:",inline"`
	UserID         string              `gorm:"column:user_id" bson:"user_id" json:"userId"`
	SellerID       string              `gorm:"column:seller_id" bson:"seller_id" json:"sellerId"`
	ProductPrice   decimal.Decimal     `gorm:"column:product_price;type:numeric(12,2)" bson:"product_price" json:"productPrice"`
	DeliveryCharge decimal.Decimal     `gorm:"column:delivery_charge;type:numeric(12,2)" bson:"delivery_charge" json:"deliveryCharge"`
	Products       StringList          `gorm:"column:products" bson:"products" json:"products"`
	ProductsID     OrderProducts       `gorm:"column:products_id" bson:"products_id" json:"productsId"`
	Variants       Variants            `gorm:"column:variants" bson:"variants" json:"variants"`
	Commission     decimal.Decimal     `gorm:"column:commission;type:numeric(12,2)" bson:"commission" json:"commission"`
	PaymentStatus  enums.PaymentStatus `gorm:"column:payment_status" bson:"payment_status" json:"paymentStatus"`
	OrderStatus    enums.OrderStatus   `gorm:"column:order_status" bson:"order_status" json:"orderStatus"`
	PaymentMethod  string              `gorm:"column:payment_method" bson:"payment_method" json:"paymentMethod"`
	TransactionID  string              `gorm:"column:transaction_id" bson:"transaction_id" json:"transactionId,omitempty"`
	PaymentNumber  string              `gorm:"column:payment_number" bson:"payment_number" json:"paymentNumber,omitempty"`
	Invoice        string              `gorm:"column:invoice" bson:"invoice" json:"invoice"`
}

func (Order) TableName() string { return "orders" }

// Total is the product price plus delivery charge.
func (o *Order) Total() decimal.Decimal {
	return o.ProductPrice.Add(o.DeliveryCharge)
}
