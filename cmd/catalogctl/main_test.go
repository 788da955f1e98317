package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

const testCatalog = `products:
  - id: 1
    name: Hydrating Toner
    brand: Klairs
    price: 1000
    category: Toners
    hasB2G1: true
    stockStatus: In Stock
  - id: 2
    name: Vitamin C Serum
    brand: Klairs
    price: 4500
    category: Serums
    stockStatus: Low Stock
  - id: 3
    name: Aloe Gel
    brand: Nature Republic
    price: 900
    category: Body Care
    stockStatus: In Stock
`

func writeCatalog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0o600))
	return path
}

func TestSearch_EmbeddedCatalog(t *testing.T) {
	out, err := run(t, "search", "--brand", "COSRX")
	require.NoError(t, err)

	assert.Contains(t, out, "Advanced Snail 96 Mucin Essence")
	assert.NotContains(t, out, "CeraVe")
	assert.Contains(t, out, "page 1 of 1")
}

func TestSearch_CustomCatalog(t *testing.T) {
	path := writeCatalog(t)

	tests := []struct {
		name        string
		args        []string
		contains    []string
		notContains []string
	}{
		{
			name:        "category group",
			args:        []string{"--category", "Body"},
			contains:    []string{"Aloe Gel", "1 products"},
			notContains: []string{"Hydrating Toner"},
		},
		{
			name:        "price ceiling",
			args:        []string{"--price", "1000", "--sort", "price-high"},
			contains:    []string{"Hydrating Toner", "KSh 1,000", "2 products"},
			notContains: []string{"Vitamin C Serum"},
		},
		{
			name:     "query",
			args:     []string{"-q", "serum"},
			contains: []string{"Vitamin C Serum", "Low Stock"},
		},
		{
			name:        "repeated brand stays selected",
			args:        []string{"--brand", "Klairs", "--brand", "Klairs"},
			contains:    []string{"Hydrating Toner", "Vitamin C Serum", "2 products"},
			notContains: []string{"Aloe Gel"},
		},
		{
			name:        "group and member category",
			args:        []string{"--category", "Skincare", "--category", "Serums", "--category", "Body"},
			contains:    []string{"Vitamin C Serum", "Aloe Gel", "2 products"},
			notContains: []string{"Hydrating Toner"},
		},
		{
			name:     "nothing found",
			args:     []string{"--brand", "Nobody"},
			contains: []string{"no products match the filters"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, append([]string{"search", "--catalog", path}, tt.args...)...)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestSearch_InvalidFlags(t *testing.T) {
	_, err := run(t, "search", "--sort", "cheapest")
	assert.ErrorContains(t, err, "unknown sort option")

	_, err = run(t, "search", "--price", "-5")
	assert.Error(t, err)
}

func TestQuote(t *testing.T) {
	path := writeCatalog(t)

	out, err := run(t, "quote", "--catalog", path, "1:3", "2")
	require.NoError(t, err)
	// 3000 + 4500 = 7500, один тоник бесплатно, доставка бесплатна
	assert.Contains(t, out, "Hydrating Toner x3")
	assert.Contains(t, out, "KSh 7,500")
	assert.Contains(t, out, "-KSh 1,000")
	assert.Contains(t, out, "KSh 6,500")

	out, err = run(t, "quote", "--catalog", path, "--coupon", "welcome10", "--shipping", "express", "1")
	require.NoError(t, err)
	// 1000 - 100 + 1200
	assert.Contains(t, out, "Express Delivery")
	assert.Contains(t, out, "KSh 2,100")
}

func TestQuote_Errors(t *testing.T) {
	path := writeCatalog(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "unknown product", args: []string{"42"}, want: "product not found"},
		{name: "bad quantity", args: []string{"1:0"}, want: "invalid quantity"},
		{name: "bad id", args: []string{"toner"}, want: "invalid product id"},
		{name: "rejected coupon", args: []string{"--coupon", "NOPE", "1"}, want: "coupon \"NOPE\" rejected"},
		{name: "unknown shipping", args: []string{"--shipping", "drone", "1"}, want: "unknown shipping method"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, append([]string{"quote", "--catalog", path}, tt.args...)...)
			assert.ErrorContains(t, err, tt.want)
		})
	}

	_, err := run(t, "quote")
	assert.Error(t, err, "at least one product is required")
}
