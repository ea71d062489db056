package models

import (
	"github.com/uptrace/bun"
)

type Job struct {
	bun.BaseModel `bun:"table:jobs,alias:j"`

	ID            int     `bun:",pk,nullzero" json:"id"`
	Title         string  `bun:",notnull" json:"title"`
	Salary        *int    `json:"salary"`
	Equity        *string `json:"equity"`
	CompanyHandle string  `bun:",notnull" json:"companyHandle"`

	// Only populated by queries that join the owning company, and null when
	// that company row no longer exists.
	CompanyName *string `bun:",scanonly" json:"-"`
}
