package types

import "github.com/go-playground/validator/v10"

// CityRef identifies one city in a comparison request.
type CityRef struct {
	City    string `json:"city" validate:"required,min=1"`
	Country string `json:"country" validate:"required,min=1"`
}

// CompareCitiesRequest asks for a side-by-side comparison of 2-10 cities.
// The bounds are enforced here, before the aggregation engine ever sees
// the request.
type CompareCitiesRequest struct {
	Cities []CityRef `json:"cities" validate:"required,min=2,max=10,dive"`
}

// CompareUniversitiesRequest asks for a comparison of 2-5 universities,
// optionally restricted to courses taken by students from one home
// university.
type CompareUniversitiesRequest struct {
	Universities   []string `json:"universities" validate:"required,min=2,max=5,dive,required"`
	HomeUniversity string   `json:"home_university,omitempty"`
}

// Validate validates the CompareCitiesRequest using the validator.
func (r *CompareCitiesRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// Validate validates the CompareUniversitiesRequest using the validator.
func (r *CompareUniversitiesRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
