package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/imgcatalog/backend/internal/models"
)

func TestProductsEndpoints(t *testing.T) {
	env := setupTestEnv(t)

	books := models.Category{Title: "Books"}
	games := models.Category{Title: "Games"}
	if err := env.db.Create(&books).Error; err != nil {
		t.Fatalf("failed creating category: %v", err)
	}
	if err := env.db.Create(&games).Error; err != nil {
		t.Fatalf("failed creating category: %v", err)
	}

	var productID int

	t.Run("POST /api/products creates product", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/products", map[string]any{
			"title":       "Dune",
			"description": "Spice",
			"price":       12.499,
			"imageUrl":    "https://cdn.example.com/dune.png",
			"categoryId":  books.ID,
		})
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusCreated)

		data := dataMap(t, body)
		productID = int(data["id"].(float64))
		if data["price"].(float64) != 12.5 {
			t.Fatalf("expected price rounded to 12.5, got %v", data["price"])
		}
	})

	t.Run("POST /api/products free product allowed", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/products", map[string]any{
			"title":       "Demo",
			"description": "Free demo",
			"price":       0,
			"imageUrl":    "https://cdn.example.com/demo.png",
			"categoryId":  games.ID,
		})
		assertStatus(t, resp, http.StatusCreated)
	})

	t.Run("POST /api/products missing category", func(t *testing.T) {
		var before int64
		env.db.Model(&models.Product{}).Count(&before)

		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/products", map[string]any{
			"title":       "Orphan",
			"description": "Nowhere",
			"price":       1,
			"imageUrl":    "https://cdn.example.com/orphan.png",
			"categoryId":  9999,
		})
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusBadRequest)
		assertEnvelopeError(t, body, "category does not exist")

		var after int64
		env.db.Model(&models.Product{}).Count(&after)
		if after != before {
			t.Fatalf("expected product count %d, got %d", before, after)
		}
	})

	t.Run("POST /api/products validation", func(t *testing.T) {
		testCases := []struct {
			name    string
			payload map[string]any
			want    string
		}{
			{"missing price", map[string]any{"title": "A", "description": "B", "imageUrl": "u", "categoryId": books.ID}, "price is required"},
			{"negative price", map[string]any{"title": "A", "description": "B", "price": -1, "imageUrl": "u", "categoryId": books.ID}, "price must be at least 0"},
			{"missing description", map[string]any{"title": "A", "price": 1, "imageUrl": "u", "categoryId": books.ID}, "description is required"},
			{"missing image", map[string]any{"title": "A", "description": "B", "price": 1, "categoryId": books.ID}, "imageUrl is required"},
			{"missing category id", map[string]any{"title": "A", "description": "B", "price": 1, "imageUrl": "u"}, "categoryId is required"},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				resp := performJSONRequest(t, env.app, http.MethodPost, "/api/products", tc.payload)
				body := decodeJSONMap(t, resp)
				assertStatus(t, resp, http.StatusBadRequest)
				assertEnvelopeError(t, body, tc.want)
			})
		}
	})

	t.Run("GET /api/products embeds category", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/products", nil, nil)
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusOK)

		products := dataList(t, body)
		if len(products) != 2 {
			t.Fatalf("expected 2 products, got %d", len(products))
		}
		category, _ := products[0].(map[string]any)["category"].(map[string]any)
		if category["title"] != "Books" {
			t.Fatalf("expected embedded Books category, got %+v", products[0])
		}
	})

	t.Run("GET /api/products/:id", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, fmt.Sprintf("/api/products/%d", productID), nil, nil)
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusOK)
		if dataMap(t, body)["title"] != "Dune" {
			t.Fatalf("unexpected product %+v", body)
		}

		resp = performRequest(t, env.app, http.MethodGet, "/api/products/9999", nil, nil)
		body = decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusNotFound)
		assertEnvelopeError(t, body, "product not found")
	})

	t.Run("GET /api/products/category/:categoryId", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, fmt.Sprintf("/api/products/category/%d", games.ID), nil, nil)
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusOK)
		if got := len(dataList(t, body)); got != 1 {
			t.Fatalf("expected 1 game, got %d", got)
		}

		resp = performRequest(t, env.app, http.MethodGet, "/api/products/category/9999", nil, nil)
		body = decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusOK)
		if got := len(dataList(t, body)); got != 0 {
			t.Fatalf("expected empty list for unknown category, got %d", got)
		}
	})

	t.Run("PUT /api/products/:id partial update", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPut, fmt.Sprintf("/api/products/%d", productID), map[string]any{
			"price":      15,
			"categoryId": games.ID,
		})
		assertStatus(t, resp, http.StatusNoContent)

		var product models.Product
		if err := env.db.First(&product, productID).Error; err != nil {
			t.Fatalf("failed loading product: %v", err)
		}
		if product.Price != 15 || product.CategoryID != games.ID || product.Title != "Dune" {
			t.Fatalf("unexpected product after update: %+v", product)
		}
	})

	t.Run("PUT /api/products/:id dangling category", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPut, fmt.Sprintf("/api/products/%d", productID), map[string]any{
			"categoryId": 9999,
		})
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusBadRequest)
		assertEnvelopeError(t, body, "category does not exist")
	})

	t.Run("PUT /api/products/:id empty body", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodPut, fmt.Sprintf("/api/products/%d", productID), nil, map[string]string{
			"Content-Type": "application/json",
		})
		assertStatus(t, resp, http.StatusNoContent)
	})

	t.Run("PUT /api/products/:id not found", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPut, "/api/products/9999", map[string]any{"title": "x"})
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusNotFound)
		assertEnvelopeError(t, body, "product not found")
	})

	t.Run("DELETE /api/products/:id", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodDelete, fmt.Sprintf("/api/products/%d", productID), nil, nil)
		assertStatus(t, resp, http.StatusNoContent)

		resp = performRequest(t, env.app, http.MethodDelete, fmt.Sprintf("/api/products/%d", productID), nil, nil)
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusNotFound)
		assertEnvelopeError(t, body, "product not found")
	})
}
