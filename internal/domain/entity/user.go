package entity

import "time"

// User representa un operador de un terminal PDV. Solo se consulta como
// directorio de actores: los abastecimientos lo referencian de forma opcional.
type User struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
