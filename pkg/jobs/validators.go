package jobs

type CreateJobPayload struct {
	Title         string  `json:"title" mod:"trim" validate:"required,min=1"`
	Salary        *int    `json:"salary,omitempty" validate:"omitempty,min=0"`
	Equity        *string `json:"equity,omitempty" validate:"omitempty,equity"`
	CompanyHandle string  `json:"companyHandle" mod:"trim" validate:"required,min=1,max=25"`
}

type UpdateJobPayload struct {
	Title  *string `json:"title,omitempty" mod:"trim" validate:"omitempty,min=1"`
	Salary *int    `json:"salary,omitempty" validate:"omitempty,min=0"`
	Equity *string `json:"equity,omitempty" validate:"omitempty,equity"`
}

type ListJobsQuery struct {
	Title     *string `query:"title" json:"title,omitempty" validate:"omitempty,min=1"`
	MinSalary *int    `query:"minSalary" json:"minSalary,omitempty" validate:"omitempty,min=0"`
	HasEquity *bool   `query:"hasEquity" json:"hasEquity,omitempty"`
}
