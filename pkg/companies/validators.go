package companies

type CreateCompanyPayload struct {
	Handle       string  `json:"handle" mod:"trim" validate:"required,min=1,max=25,lowercase"`
	Name         string  `json:"name" mod:"trim" validate:"required,min=1"`
	Description  string  `json:"description" validate:"required"`
	NumEmployees *int    `json:"numEmployees,omitempty" validate:"omitempty,min=0"`
	LogoURL      *string `json:"logoUrl,omitempty" validate:"omitempty,httpurl"`
}

type UpdateCompanyPayload struct {
	Name         *string `json:"name,omitempty" mod:"trim" validate:"omitempty,min=1"`
	Description  *string `json:"description,omitempty"`
	NumEmployees *int    `json:"numEmployees,omitempty" validate:"omitempty,min=0"`
	LogoURL      *string `json:"logoUrl,omitempty" validate:"omitempty,httpurl"`
}

type ListCompaniesQuery struct {
	Name         *string `query:"name" json:"name,omitempty" validate:"omitempty,min=1"`
	MinEmployees *int    `query:"minEmployees" json:"minEmployees,omitempty" validate:"omitempty,min=0"`
	MaxEmployees *int    `query:"maxEmployees" json:"maxEmployees,omitempty" validate:"omitempty,min=0"`
}
