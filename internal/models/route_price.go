package models

import "time"

// RoutePrice is a negotiated price table entry. When a confirmed booking
// matches a row by (company, origin, destination, vehicle) the negotiated
// price wins over the vehicle-category base price.
type RoutePrice struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	Company     string  `json:"company" gorm:"index"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Vehicle     string  `json:"vehicle"`
	Price       float64 `json:"price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
