package models

// All returns every model persisted in the relational store, in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Profile{},
		&Follow{},
		&Post{},
		&Comment{},
		&Like{},
		&Notification{},
	}
}
