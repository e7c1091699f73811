package model

// Product is one entry of the menu catalog. Built-in entries ship with the
// binary and never change; custom entries are managed by the admin.
type Product struct {
	ID    string  `json:"id" validate:"required"`
	Name  string  `json:"name" validate:"required"`
	Price float64 `json:"price" validate:"gte=0"`
}

// DefaultMonthlyGoal is the revenue target used until the owner sets one.
const DefaultMonthlyGoal = 39000.00

// DefaultProducts is the fixed JABATATA menu. The ids are historical and must
// stay stable: recorded sales reference them.
var DefaultProducts = []Product{
	{ID: "1", Name: "CONE SIMPLES", Price: 17.00},
	{ID: "2", Name: "CONE COMPLETO", Price: 23.00},
	{ID: "3", Name: "BATATA RECHEADA", Price: 27.00},
	{ID: "4", Name: "PASTEL", Price: 15.00},
	{ID: "5", Name: "CONE CEBOLA", Price: 20.00},
	{ID: "6", Name: "NUGGETS", Price: 20.00},
	{ID: "7", Name: "PIZZA CONE", Price: 20.00},
	{ID: "8", Name: "PORÇÃO SIMPLES", Price: 28.00},
	{ID: "25", Name: "REFRIG. LATA", Price: 6.50},
	{ID: "29", Name: "REFRIG. 2 LITROS", Price: 10.00},
	{ID: "35", Name: "AGUA SEM GÁS", Price: 3.00},
	{ID: "43", Name: "AÇAI", Price: 16.00},
}
