package rest

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-settlement/internal/domain"
	"github.com/feral-file/ff-settlement/internal/store"
)

const MAX_PAGE_SIZE = 100

// ListListingsQueryParams holds query parameters for GET /listings
type ListListingsQueryParams struct {
	// Filters
	Collection string `form:"collection"`
	Seller     string `form:"seller"`
	Status     string `form:"status"`

	// Pagination
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ParseListListingsQuery parses query parameters for GET /listings
func ParseListListingsQuery(c *gin.Context) (*ListListingsQueryParams, error) {
	var params ListListingsQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	// Cap limit
	if params.Limit > MAX_PAGE_SIZE || params.Limit <= 0 {
		params.Limit = MAX_PAGE_SIZE
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	return &params, nil
}

// Filter converts the query into a store filter
func (p *ListListingsQueryParams) Filter() (store.ListingFilter, error) {
	filter := store.ListingFilter{Limit: p.Limit, Offset: p.Offset}
	if p.Collection != "" {
		addr, err := domain.ParseAddress(p.Collection)
		if err != nil {
			return filter, err
		}
		filter.Collection = &addr
	}
	if p.Seller != "" {
		addr, err := domain.ParseAddress(p.Seller)
		if err != nil {
			return filter, err
		}
		filter.Seller = &addr
	}
	if p.Status != "" {
		status := domain.ListingStatus(p.Status)
		if !status.Valid() {
			return filter, domain.ErrInvalidInput
		}
		filter.Status = &status
	}
	return filter, nil
}

// GetJournalQueryParams holds query parameters for GET /journal
type GetJournalQueryParams struct {
	// After is the sequence to continue from, exclusive
	After int64 `form:"after,default=0"`
	Limit int   `form:"limit,default=50"`
}

// ParseGetJournalQuery parses query parameters for GET /journal
func ParseGetJournalQuery(c *gin.Context) (*GetJournalQueryParams, error) {
	var params GetJournalQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}

	if params.Limit > MAX_PAGE_SIZE || params.Limit <= 0 {
		params.Limit = MAX_PAGE_SIZE
	}
	if params.After < 0 {
		params.After = 0
	}

	return &params, nil
}

// parseAddressParam parses a path parameter holding an address
func parseAddressParam(c *gin.Context, name string) (common.Address, error) {
	return domain.ParseAddress(c.Param(name))
}
