package domain

// Product is a sellable item.
type Product struct {
	ID       string  `json:"id,omitempty"       bson:"id"`
	Name     string  `json:"name"               bson:"name"     validate:"required"`
	Price    float64 `json:"price"              bson:"price"    validate:"gte=0"`
	Category string  `json:"category"           bson:"category" validate:"required"`
}

type Category struct {
	ID   string `json:"id,omitempty" bson:"id"`
	Name string `json:"name"         bson:"name" validate:"required"`
}

// User is a staff member that logs in with a PIN.
type User struct {
	ID   string `json:"id,omitempty"  bson:"id"`
	Name string `json:"name"          bson:"name" validate:"required"`
	Role string `json:"role"          bson:"role" validate:"required"`
	Pin  string `json:"pin,omitempty" bson:"-"    validate:"required,pin"`
}

type Role struct {
	ID   string `json:"id,omitempty" bson:"id"`
	Role string `json:"role"         bson:"role" validate:"required"`
}

// PinChange is the body of a PIN reset.
type PinChange struct {
	Pin string `json:"pin" validate:"required,pin"`
}

// RoleChange is the body of a user role reassignment.
type RoleChange struct {
	Role string `json:"role" validate:"required"`
}

// Location is a physical site; tills link to it with LinkCode.
type Location struct {
	ID       string `json:"id,omitempty"       bson:"id"`
	Name     string `json:"name"               validate:"required"`
	LinkCode string `json:"linkCode,omitempty"`
}
