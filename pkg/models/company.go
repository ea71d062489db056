package models

import (
	"github.com/uptrace/bun"
)

type Company struct {
	bun.BaseModel `bun:"table:companies,alias:c"`

	Handle       string  `bun:"handle,pk" json:"handle"`
	Name         string  `bun:"name,notnull" json:"name"`
	Description  string  `bun:"description,notnull" json:"description"`
	NumEmployees *int    `bun:"num_employees" json:"numEmployees"`
	LogoURL      *string `bun:"logo_url" json:"logoUrl"`

	// Relations
	Jobs []*Job `bun:"rel:has-many,join:handle=company_handle" json:"jobs,omitempty"`
}
