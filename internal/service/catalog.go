package service

import (
	"context"
	"errors"
	"fmt"

	"ecoshop/internal/model"
)

var ErrProductNotFound = errors.New("product not found")

var demoProducts = []model.Product{
	{ID: 1, Name: "Bamboo Toothbrush Set", Image: "https://images.unsplash.com/photo-1519864600265-abb23847ef2c?auto=compress&w=600&q=80",
		Price: 499, EcoScore: "A", CarbonFootprint: 20, Material: "Compostable",
		Description: "A set of 4 biodegradable bamboo toothbrushes. A perfect plastic-free alternative."},
	{ID: 2, Name: "Reusable Shopping Bags", Image: "https://images.unsplash.com/photo-1512436991641-6745cdb1723f?auto=compress&w=600&q=80",
		Price: 649, EcoScore: "A", CarbonFootprint: 50, Material: "Recyclable",
		Description: "Durable and washable cotton mesh bags for your groceries. Set of 5 in various sizes."},
	{ID: 3, Name: "Stainless Steel Water Bottle", Image: "https://images.unsplash.com/photo-1526401485004-2c2e4e83b6b9?auto=compress&w=600&q=80",
		Price: 999, EcoScore: "A", CarbonFootprint: 150, Material: "Recyclable",
		Description: "Keep your drinks cold or hot for hours with this insulated 500ml stainless steel bottle."},
	{ID: 4, Name: "Beeswax Food Wraps", Image: "https://images.unsplash.com/photo-1502741338009-cac2772e18bc?auto=compress&w=600&q=80",
		Price: 799, EcoScore: "B", CarbonFootprint: 35, Material: "Compostable",
		Description: "Eco-friendly alternative to plastic wrap. A set of 3 wraps to keep your food fresh."},
	{ID: 5, Name: "Recycled Paper Notebook", Image: "https://images.unsplash.com/photo-1515378791036-0648a3ef77b2?auto=compress&w=600&q=80",
		Price: 349, EcoScore: "B", CarbonFootprint: 80, Material: "Recyclable",
		Description: "A5 notebook with 100 pages of 100% recycled paper. Perfect for your notes and ideas."},
	{ID: 6, Name: "Solar-Powered Phone Charger", Image: "https://images.unsplash.com/photo-1509395176047-4a66953fd231?auto=compress&w=600&q=80",
		Price: 2499, EcoScore: "A", CarbonFootprint: 250, Material: "Mixed",
		Description: "Charge your devices on the go with this compact and efficient solar power bank."},
	{ID: 7, Name: "Compostable Phone Case", Image: "https://images.unsplash.com/photo-1517336714731-489689fd1ca8?auto=compress&w=600&q=80",
		Price: 899, EcoScore: "B", CarbonFootprint: 60, Material: "Compostable",
		Description: "Protect your phone and the planet with this stylish and fully compostable phone case."},
	{ID: 8, Name: "Solid Shampoo Bar", Image: "https://images.unsplash.com/photo-1502741338009-cac2772e18bc?auto=compress&w=600&q=80",
		Price: 599, EcoScore: "A", CarbonFootprint: 15, Material: "Compostable",
		Description: "Ditch the plastic bottle! This natural shampoo bar leaves your hair clean and soft."},
}

// CatalogService is a read-only product catalog.
type CatalogService struct {
	products []model.Product
	byID     map[int64]model.Product
}

func NewCatalogService() *CatalogService {
	return NewCatalogServiceWith(demoProducts)
}

func NewCatalogServiceWith(products []model.Product) *CatalogService {
	s := &CatalogService{
		products: make([]model.Product, len(products)),
		byID:     make(map[int64]model.Product, len(products)),
	}
	copy(s.products, products)
	for _, p := range products {
		s.byID[p.ID] = p
	}
	return s
}

func (s *CatalogService) List(ctx context.Context) []model.Product {
	out := make([]model.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *CatalogService) Get(ctx context.Context, id int64) (model.Product, error) {
	p, ok := s.byID[id]
	if !ok {
		return model.Product{}, fmt.Errorf("product %d: %w", id, ErrProductNotFound)
	}
	return p, nil
}
