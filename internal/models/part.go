package models

// Part is an inventory record. ID is assigned by the store and never reused.
type Part struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}
