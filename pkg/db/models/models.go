package models

// All lists every persisted model, in dependency order, for schema bootstrap
// on drivers that do not run the SQL migrations.
func All() []any {
	return []any{
		&User{},
		&CartItem{},
		&Favorite{},
		&Order{},
		&OrderItem{},
	}
}
