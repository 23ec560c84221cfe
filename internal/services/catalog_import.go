package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"commerce/internal/domain"
)

// ImportResult counts what a CSV import did.
type ImportResult struct {
	TotalRows int
	Created   int
	Updated   int
	Skipped   int
	Warnings  []string
	TotalTime time.Duration
}

var importRequired = []string{"product_no", "name", "price", "category"}

// Import upserts products from CSV keyed by product_no. The header must name
// product_no, name, price and category (a category name or id); description,
// brand, image_url and tags ("|" separated) are optional. Bad rows are
// skipped with a warning.
func (s *CatalogService) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	start := time.Now()
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read CSV header: %w", err)
	}
	col := make(map[string]int, len(headers))
	for i, h := range headers {
		col[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, name := range importRequired {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("%w: CSV must contain a %q column", ErrInvalidInput, name)
		}
	}
	field := func(row []string, name string) string {
		if i, ok := col[name]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	res := &ImportResult{}
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read CSV line %d: %w", line, err)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res.TotalRows++

		in, err := s.importRow(row, field)
		if err == nil {
			err = s.upsert(ctx, in, res)
		}
		if err != nil {
			res.Skipped++
			res.Warnings = append(res.Warnings, fmt.Sprintf("line %d: %v", line, err))
		}
	}
	res.TotalTime = time.Since(start)
	return res, nil
}

func (s *CatalogService) importRow(row []string, field func([]string, string) string) (domain.ProductInput, error) {
	price, err := strconv.ParseInt(strings.ReplaceAll(field(row, "price"), ",", ""), 10, 64)
	if err != nil {
		return domain.ProductInput{}, fmt.Errorf("price %q is not a whole number", field(row, "price"))
	}
	catID, err := s.resolveCategory(field(row, "category"))
	if err != nil {
		return domain.ProductInput{}, err
	}
	var tags []string
	for _, t := range strings.Split(field(row, "tags"), "|") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return domain.ProductInput{
		ProductNo:   field(row, "product_no"),
		Name:        field(row, "name"),
		Description: field(row, "description"),
		Price:       price,
		CategoryID:  catID,
		Brand:       field(row, "brand"),
		ImageURL:    field(row, "image_url"),
		Tags:        tags,
	}, nil
}

func (s *CatalogService) resolveCategory(v string) (int64, error) {
	if id, err := strconv.ParseInt(v, 10, 64); err == nil {
		return id, nil
	}
	id, err := s.Cats.IDByName(v)
	if err != nil {
		return 0, fmt.Errorf("unknown category %q", v)
	}
	return id, nil
}

func (s *CatalogService) upsert(ctx context.Context, in domain.ProductInput, res *ImportResult) error {
	if cur, err := s.Prods.Get(strings.TrimSpace(in.ProductNo)); err == nil {
		if _, err := s.Update(ctx, cur.ID, in); err != nil {
			return err
		}
		res.Updated++
		return nil
	}
	if _, err := s.Create(ctx, in); err != nil {
		return err
	}
	res.Created++
	return nil
}
