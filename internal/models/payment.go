package models

import "github.com/shopspring/decimal"

// PaymentOption is a purchasable package with a static checkout link.
type PaymentOption struct {
	Title       string          `json:"title"`
	Level       CourseLevel     `json:"level"`
	Slug        string          `json:"slug"`
	Sessions    string          `json:"sessions"`
	Currency    string          `json:"currency"`
	PriceLabel  string          `json:"priceLabel"`
	Price       decimal.Decimal `json:"price"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
	CheckoutURL string          `json:"checkoutUrl,omitempty"`
}
