package catalog

import (
	"sort"
	"strings"
)

// Product is one catalogue row. The image id is the row position in the
// source file (1-based), which is also how image assets are named: row 1 is
// images/1.png, row 2 is images/2.png, and so on.
type Product struct {
	ImageID   int     `json:"image_id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Price10   float64 `json:"price10"`
	Price20   float64 `json:"price20"`
	Price30   float64 `json:"price30"`
	ImagePath string  `json:"image_path"`
}

// PriceFor returns the decant price for a volume variant.
func (p Product) PriceFor(volumeML int) (float64, bool) {
	switch volumeML {
	case 10:
		return p.Price10, true
	case 20:
		return p.Price20, true
	case 30:
		return p.Price30, true
	}
	return 0, false
}

// Catalog is the read-only product collection.
type Catalog struct {
	products []Product
}

// New creates a catalogue over the given products.
func New(products []Product) *Catalog {
	return &Catalog{products: products}
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// All returns every product in row order.
func (c *Catalog) All() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// ByName looks a product up by exact name first, then case-insensitively.
func (c *Catalog) ByName(name string) (Product, bool) {
	for _, p := range c.products {
		if p.Name == name {
			return p, true
		}
	}
	lower := strings.ToLower(name)
	for _, p := range c.products {
		if strings.ToLower(p.Name) == lower {
			return p, true
		}
	}
	return Product{}, false
}

// ByImageID looks a product up by its row-derived image id.
func (c *Catalog) ByImageID(id int) (Product, bool) {
	for _, p := range c.products {
		if p.ImageID == id {
			return p, true
		}
	}
	return Product{}, false
}

// FilterCategory returns the products whose category contains the given
// fragment, e.g. "Homme", "Femme", "Niche".
func FilterCategory(products []Product, fragment string) []Product {
	out := []Product{}
	for _, p := range products {
		if strings.Contains(p.Category, fragment) {
			out = append(out, p)
		}
	}
	return out
}

// FilterName returns the products whose name contains the query,
// case-insensitively.
func FilterName(products []Product, query string) []Product {
	lower := strings.ToLower(query)
	out := []Product{}
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), lower) {
			out = append(out, p)
		}
	}
	return out
}

// SortByName orders products alphabetically.
func SortByName(products []Product) {
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Name < products[j].Name
	})
}

// SortByPrice10 orders products by their 10 ml price.
func SortByPrice10(products []Product, ascending bool) {
	sort.SliceStable(products, func(i, j int) bool {
		if ascending {
			return products[i].Price10 < products[j].Price10
		}
		return products[i].Price10 > products[j].Price10
	})
}
