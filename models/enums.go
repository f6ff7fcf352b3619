package models

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleWaiter Role = "waiter"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleWaiter
}

type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableOccupied  TableStatus = "occupied"
	TableReserved  TableStatus = "reserved"
)

// TableStatuses is the closed set of table states.
var TableStatuses = []TableStatus{TableAvailable, TableOccupied, TableReserved}

// ParseTableStatus reports whether s names a known table state.
func ParseTableStatus(s string) (TableStatus, bool) {
	for _, st := range TableStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

type OrderStatus string

const (
	OrderInProgress OrderStatus = "in_progress"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

type DishCategory string

const (
	CategoryStarter    DishCategory = "starter"
	CategoryMainCourse DishCategory = "main_course"
	CategoryDessert    DishCategory = "dessert"
	CategoryBeverage   DishCategory = "beverage"
)

// DishCategoryOneOf is the binding tag parameter matching the category set.
const DishCategoryOneOf = "starter main_course dessert beverage"
