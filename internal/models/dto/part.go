package dto

import "github.com/hongminglow/parts-inventory/internal/models"

// MaxQuantity is the largest quantity the parts table can hold (INTEGER).
const MaxQuantity = 2147483647

// CreatePartRequest is the body of POST /part. Pointer fields distinguish an
// absent value from a zero value.
type CreatePartRequest struct {
	Name     *string  `json:"name" validate:"required,notblank"`
	Quantity *int     `json:"quantity" validate:"required,gte=0,lte=2147483647"`
	Price    *float64 `json:"price" validate:"required"`
}

// Validate reports the first missing or out-of-range field.
func (r CreatePartRequest) Validate() error {
	return validateStruct(r)
}

// Part converts a validated request into a record ready for insertion.
func (r CreatePartRequest) Part() models.Part {
	return models.Part{
		Name:     trim(*r.Name),
		Quantity: *r.Quantity,
		Price:    *r.Price,
	}
}

// PartPatch is the body of PUT /parts/{id}. A nil field keeps the stored value.
type PartPatch struct {
	Name     *string  `json:"name" validate:"omitnil,notblank"`
	Quantity *int     `json:"quantity" validate:"omitnil,gte=0,lte=2147483647"`
	Price    *float64 `json:"price"`
}

// Validate checks only the fields present in the patch.
func (p PartPatch) Validate() error {
	return validateStruct(p)
}

// Apply merges the patch over current field by field.
func (p PartPatch) Apply(current models.Part) models.Part {
	if p.Name != nil {
		current.Name = trim(*p.Name)
	}
	if p.Quantity != nil {
		current.Quantity = *p.Quantity
	}
	if p.Price != nil {
		current.Price = *p.Price
	}
	return current
}

// Empty reports whether the patch carries no fields.
func (p PartPatch) Empty() bool {
	return p.Name == nil && p.Quantity == nil && p.Price == nil
}
