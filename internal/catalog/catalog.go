package catalog

// Catalog serves a fixed product list.
type Catalog struct {
	products []Product
}

// New creates a Catalog over a copy of products.
func New(products []Product) *Catalog {
	return &Catalog{products: append([]Product(nil), products...)}
}

// List applies criteria to the catalog.
func (c *Catalog) List(criteria Criteria) []Product {
	return Filter(c.products, criteria)
}

// FindByID returns ErrProductNotFound if no product has the given id.
func (c *Catalog) FindByID(id int) (Product, error) {
	for _, p := range c.products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrProductNotFound
}
