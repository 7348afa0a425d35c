package catalog

import "github.com/shopspring/decimal"

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func originalPrice(s string) *decimal.Decimal {
	d := price(s)
	return &d
}

// Seed returns a fresh copy of the storefront catalog in its featured order.
func Seed() []Product {
	return []Product{
		{
			ID: 1, Name: "Smartphone Premium",
			Price: price("599.99"), OriginalPrice: originalPrice("699.99"),
			Image: "/modern-smartphone.png", Rating: 4.8, Reviews: 124,
			Category: "Electrónicos", Brand: "TechBrand", InStock: true,
			Description: "Smartphone de última generación con cámara profesional",
		},
		{
			ID: 2, Name: "Auriculares Inalámbricos",
			Price: price("149.99"), OriginalPrice: originalPrice("199.99"),
			Image: "/wireless-headphones.png", Rating: 4.6, Reviews: 89,
			Category: "Audio", Brand: "SoundTech", InStock: true,
			Description: "Auriculares con cancelación de ruido activa",
		},
		{
			ID: 3, Name: "Laptop Gaming",
			Price: price("1299.99"), OriginalPrice: originalPrice("1499.99"),
			Image: "/gaming-laptop.png", Rating: 4.9, Reviews: 67,
			Category: "Computadoras", Brand: "GamePro", InStock: true,
			Description: "Laptop gaming de alto rendimiento",
		},
		{
			ID: 4, Name: "Smartwatch Deportivo",
			Price: price("249.99"), OriginalPrice: originalPrice("299.99"),
			Image: "/sport-smartwatch.png", Rating: 4.7, Reviews: 156,
			Category: "Wearables", Brand: "FitTech", InStock: true,
			Description: "Smartwatch resistente al agua con GPS",
		},
		{
			ID: 5, Name: "Tablet Pro",
			Price: price("449.99"), OriginalPrice: originalPrice("549.99"),
			Image: "/modern-tablet.png", Rating: 4.5, Reviews: 203,
			Category: "Electrónicos", Brand: "TechBrand", InStock: true,
			Description: "Tablet profesional con stylus incluido",
		},
		{
			ID: 6, Name: "Cámara Digital",
			Price: price("899.99"), OriginalPrice: originalPrice("999.99"),
			Image: "/professional-camera.png", Rating: 4.8, Reviews: 78,
			Category: "Fotografía", Brand: "PhotoPro", InStock: false,
			Description: "Cámara digital profesional 4K",
		},
		{
			ID: 7, Name: "Altavoz Bluetooth",
			Price: price("79.99"), OriginalPrice: originalPrice("99.99"),
			Image: "/bluetooth-speaker.png", Rating: 4.4, Reviews: 145,
			Category: "Audio", Brand: "SoundTech", InStock: true,
			Description: "Altavoz portátil resistente al agua",
		},
		{
			ID: 8, Name: "Monitor 4K",
			Price: price("329.99"), OriginalPrice: originalPrice("399.99"),
			Image: "/4k-monitor.png", Rating: 4.6, Reviews: 92,
			Category: "Computadoras", Brand: "DisplayTech", InStock: true,
			Description: "Monitor 4K de 27 pulgadas",
		},
	}
}

// Categories lists the category facet values, wildcard first.
func Categories() []string {
	return []string{AllOption, "Electrónicos", "Audio", "Computadoras", "Wearables", "Fotografía"}
}

// Brands lists the brand facet values, wildcard first.
func Brands() []string {
	return []string{AllOption, "TechBrand", "SoundTech", "GamePro", "FitTech", "PhotoPro", "DisplayTech"}
}
