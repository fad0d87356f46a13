package dto

// SubmitApartmentDTO registers a new, unverified apartment.
type SubmitApartmentDTO struct {
	Name     string  `json:"name" binding:"required,min=3,max=100"`
	Address1 string  `json:"address1" binding:"required,max=150"`
	Address2 *string `json:"address2" binding:"omitempty,max=150"`
	City     string  `json:"city" binding:"required,max=50"`
	State    string  `json:"state" binding:"required,max=50"`
	Pincode  string  `json:"pincode" binding:"required,max=15"`
}
