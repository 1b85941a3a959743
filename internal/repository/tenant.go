package repository

import (
	"context"
	"strings"

	"github.com/fakturo-as/billing-api/internal/auth"
	"gorm.io/gorm"
)

// MaxPageSize is the maximum allowed page size for paginated queries
const MaxPageSize = 200

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// ParseSortOrder parses a string into SortOrder, defaulting to desc
func ParseSortOrder(s string) SortOrder {
	if strings.ToLower(s) == "asc" {
		return SortOrderAsc
	}
	return SortOrderDesc
}

// ApplyCompanyFilter applies the multi-tenant company filter to a GORM query.
// Every query touching company-owned rows goes through here; an
// unauthenticated context leaves the query unchanged (tests and internal
// jobs scope explicitly).
func ApplyCompanyFilter(ctx context.Context, query *gorm.DB) *gorm.DB {
	companyID := auth.GetCompanyFilter(ctx)
	if companyID != nil {
		return query.Where("company_id = ?", *companyID)
	}
	return query
}

// ApplyCompanyFilterWithAlias applies the company filter using a table alias.
// Use this when joining multiple tables with company_id columns.
func ApplyCompanyFilterWithAlias(ctx context.Context, query *gorm.DB, tableAlias string) *gorm.DB {
	companyID := auth.GetCompanyFilter(ctx)
	if companyID != nil {
		return query.Where(tableAlias+".company_id = ?", *companyID)
	}
	return query
}
