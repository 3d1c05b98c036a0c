package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/marketplace-api/internal/repository"
)

// sortColumns maps the public sort field names onto table columns.  Any
// field outside this map is a validation failure.
var sortColumns = map[string]string{
	"name":      "name",
	"price":     "price",
	"createdAt": "created_at",
}

// projectableFields is the allow-list for the fields query parameter.
var projectableFields = map[string]bool{
	"id":        true,
	"name":      true,
	"price":     true,
	"stock":     true,
	"createdAt": true,
	"type":      true,
}

// listQuery is the canonical "requested shape" of a listing request: the
// shared filter predicate, page window, sort order, the set of scalar
// fields to project (empty means all) and whether to embed the category.
// It is built once from the query string and then translated to SQL.
type listQuery struct {
	Page   int
	Limit  int
	Query  repository.ProductPage
	Fields []string
}

// parseListQuery validates and normalizes the listing query string.
// Defaults: page 1, limit 10 (clamped to [1,100]), ascending by creation
// time.  Non-numeric categoryId/priceMin/priceMax values are silently
// ignored; an unknown sort field or projection field is an error.
func parseListQuery(c echo.Context) (listQuery, error) {
	page := 1
	if v := c.QueryParam("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			page = n
		}
	}
	limit := 10
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}
	if limit > 100 {
		limit = 100
	}
	if limit < 1 {
		limit = 1
	}

	sortParam := c.QueryParam("sort")
	if sortParam == "" {
		sortParam = "createdAt"
	}
	desc := strings.HasPrefix(sortParam, "-")
	field := strings.TrimPrefix(strings.TrimPrefix(sortParam, "-"), "+")
	column, ok := sortColumns[field]
	if !ok {
		return listQuery{}, fmt.Errorf("Invalid sort field")
	}

	var filter repository.ProductFilter
	if v := c.QueryParam("categoryId"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			filter.CategoryID = &n
		}
	}
	if v := c.QueryParam("priceMin"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.PriceMin = &f
		}
	}
	if v := c.QueryParam("priceMax"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			filter.PriceMax = &f
		}
	}
	filter.Type = c.QueryParam("type")

	var fields []string
	if raw := c.QueryParam("fields"); raw != "" {
		for _, f := range strings.Split(raw, ",") {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			if !projectableFields[f] {
				return listQuery{}, fmt.Errorf("Invalid field: %s", f)
			}
			fields = append(fields, f)
		}
	}

	return listQuery{
		Page:   page,
		Limit:  limit,
		Fields: fields,
		Query: repository.ProductPage{
			Filter:          filter,
			SortColumn:      column,
			SortDesc:        desc,
			Offset:          (page - 1) * limit,
			Limit:           limit,
			IncludeCategory: c.QueryParam("include") == "category",
		},
	}, nil
}

// shapeItem renders one listing row with exactly the requested keys.  When
// no projection was requested every scalar field is present.  The category
// composes with the projection: if both are requested it joins the selected
// field set.
func shapeItem(row repository.ProductWithCategory, q listQuery) echo.Map {
	item := echo.Map{}
	if len(q.Fields) == 0 {
		item["id"] = row.ID
		item["name"] = row.Name
		item["type"] = row.Type
		item["price"] = row.Price
		item["stock"] = row.Stock
		item["categoryId"] = row.CategoryID
		item["createdAt"] = row.CreatedAt
	} else {
		for _, f := range q.Fields {
			switch f {
			case "id":
				item["id"] = row.ID
			case "name":
				item["name"] = row.Name
			case "price":
				item["price"] = row.Price
			case "stock":
				item["stock"] = row.Stock
			case "createdAt":
				item["createdAt"] = row.CreatedAt
			case "type":
				item["type"] = row.Type
			}
		}
	}
	if q.Query.IncludeCategory && row.Category != nil {
		item["category"] = echo.Map{
			"id":          row.Category.ID,
			"name":        row.Category.Name,
			"description": row.Category.Description,
		}
	}
	return item
}
