package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"commerce/internal/cache"
	"commerce/internal/domain"
	"commerce/internal/listing"
	applog "commerce/internal/log"
	"commerce/internal/repos"
	"commerce/internal/validate"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

type CatalogService struct {
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo
	Cache *cache.Cache
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo, c *cache.Cache) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods, Cache: c}
}

// ListQuery is the filter set of the plain product listing.
type ListQuery struct {
	Page, Size      int
	Category, Brand string
	MinPrice        *int64
	MaxPrice        *int64
	SortBy          string
	SortOrder       string
}

func (q ListQuery) key() string {
	return cache.ListKey(q.Page, q.Size, q.Category, q.Brand, q.MinPrice, q.MaxPrice, q.SortBy, q.SortOrder)
}

// ListProducts is the cached product listing.
func (s *CatalogService) ListProducts(ctx context.Context, q ListQuery) (domain.ProductList, error) {
	var out domain.ProductList
	if s.Cache.Get(ctx, q.key(), &out) {
		return out, nil
	}
	out, err := s.Search(ctx, domain.ProductSearch{
		Category:  q.Category,
		Brand:     q.Brand,
		MinPrice:  q.MinPrice,
		MaxPrice:  q.MaxPrice,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
	}, q.Page, q.Size)
	if err != nil {
		return out, err
	}
	s.Cache.Set(ctx, q.key(), out, cache.ListTTL)
	return out, nil
}

// Search runs an uncached filtered search and wraps it in the paging envelope.
func (s *CatalogService) Search(_ context.Context, f domain.ProductSearch, page, size int) (domain.ProductList, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	total, err := s.Prods.Count(f)
	if err != nil {
		return domain.ProductList{}, fmt.Errorf("count products: %w", err)
	}
	items, err := s.Prods.Search(f, size, (page-1)*size)
	if err != nil {
		return domain.ProductList{}, fmt.Errorf("search products: %w", err)
	}
	return domain.ProductList{
		Items:      items,
		Total:      total,
		Page:       page,
		Size:       size,
		TotalPages: listing.TotalPages(total, size),
	}, nil
}

// GetProduct returns a product by id or number and counts the view.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	var p domain.Product
	if !s.Cache.Get(ctx, cache.ProductKey(id), &p) {
		var err error
		p, err = s.Prods.Get(id)
		if errors.Is(err, sql.ErrNoRows) {
			return p, ErrNotFound
		}
		if err != nil {
			return p, err
		}
		s.Cache.Set(ctx, cache.ProductKey(id), p, cache.ProductTTL)
	}
	if err := s.Prods.IncrementView(p.ID); err != nil {
		applog.Error(nil, "product.view.fail", err, map[string]any{"product_id": p.ID})
	}
	return p, nil
}

func (s *CatalogService) Similar(_ context.Context, id string, size int) ([]domain.Product, error) {
	p, err := s.Prods.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.Prods.Similar(p, size)
}

func (s *CatalogService) Categories(ctx context.Context) (domain.CategoryList, error) {
	var out domain.CategoryList
	if s.Cache.Get(ctx, cache.KeyCategories, &out) {
		return out, nil
	}
	cats, err := s.Cats.List()
	if err != nil {
		return out, err
	}
	out = domain.CategoryList{Items: cats, Total: len(cats)}
	s.Cache.Set(ctx, cache.KeyCategories, out, cache.CategoriesTTL)
	return out, nil
}

func (s *CatalogService) Brands(ctx context.Context) ([]string, error) {
	var out []string
	if s.Cache.Get(ctx, cache.KeyBrands, &out) {
		return out, nil
	}
	out, err := s.Prods.Brands()
	if err != nil {
		return nil, err
	}
	s.Cache.Set(ctx, cache.KeyBrands, out, cache.BrandsTTL)
	return out, nil
}

func (s *CatalogService) Stats(ctx context.Context) (domain.ProductStats, error) {
	var out domain.ProductStats
	if s.Cache.Get(ctx, cache.KeyStats, &out) {
		return out, nil
	}
	out, err := s.Prods.Stats()
	if err != nil {
		return out, err
	}
	s.Cache.Set(ctx, cache.KeyStats, out, cache.StatsTTL)
	return out, nil
}

func (s *CatalogService) checkInput(in domain.ProductInput) (domain.ProductInput, error) {
	var ok bool
	if in.ProductNo, ok = validate.ProductNo(in.ProductNo); !ok {
		return in, fmt.Errorf("%w: product_no", ErrInvalidInput)
	}
	if in.Name, ok = validate.Name(in.Name, 255); !ok {
		return in, fmt.Errorf("%w: name", ErrInvalidInput)
	}
	if in.Price < 0 {
		return in, fmt.Errorf("%w: price must not be negative", ErrInvalidInput)
	}
	if _, err := s.Cats.Get(in.CategoryID); err != nil {
		return in, fmt.Errorf("%w: unknown category_id %d", ErrInvalidInput, in.CategoryID)
	}
	tags := make([]string, 0, len(in.Tags))
	for _, t := range in.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	in.Tags = tags
	return in, nil
}

func fromInput(id string, in domain.ProductInput) domain.Product {
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	return domain.Product{
		ID:          id,
		ProductNo:   in.ProductNo,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  in.CategoryID,
		Brand:       strings.TrimSpace(in.Brand),
		ImageURL:    in.ImageURL,
		Tags:        in.Tags,
		Active:      active,
	}
}

func (s *CatalogService) Create(ctx context.Context, in domain.ProductInput) (domain.Product, error) {
	in, err := s.checkInput(in)
	if err != nil {
		return domain.Product{}, err
	}
	if _, err := s.Prods.Get(in.ProductNo); err == nil {
		return domain.Product{}, fmt.Errorf("%w: product_no %s already exists", ErrInvalidInput, in.ProductNo)
	}
	p := fromInput(uuid.NewString(), in)
	if err := s.Prods.Create(p); err != nil {
		return domain.Product{}, err
	}
	s.Cache.InvalidateProduct(ctx, p.ID)
	return s.Prods.Get(p.ID)
}

func (s *CatalogService) Update(ctx context.Context, id string, in domain.ProductInput) (domain.Product, error) {
	cur, err := s.Prods.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, ErrNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}
	if in, err = s.checkInput(in); err != nil {
		return domain.Product{}, err
	}
	if in.ProductNo != cur.ProductNo {
		if other, err := s.Prods.Get(in.ProductNo); err == nil && other.ID != cur.ID {
			return domain.Product{}, fmt.Errorf("%w: product_no %s already exists", ErrInvalidInput, in.ProductNo)
		}
	}
	if err := s.Prods.Update(fromInput(cur.ID, in)); err != nil {
		return domain.Product{}, err
	}
	s.Cache.InvalidateProduct(ctx, cur.ID)
	s.Cache.Delete(ctx, cache.ProductKey(cur.ProductNo))
	return s.Prods.Get(cur.ID)
}

func (s *CatalogService) Delete(ctx context.Context, id string) error {
	cur, err := s.Prods.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := s.Prods.Delete(cur.ID); err != nil {
		return err
	}
	s.Cache.InvalidateProduct(ctx, cur.ID)
	s.Cache.Delete(ctx, cache.ProductKey(cur.ProductNo))
	return nil
}
