package usecase

// DomainError: condiciones de negocio recuperables (lead sin correo, evento
// no encontrado). El lead queda pendiente y el batch lo reintenta.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func IsDomainError(err error) bool {
	_, ok := err.(*DomainError)
	return ok
}

// TechnicalError: fallas de infraestructura (base de datos, transacción).
// También recuperables vía reintento, pero se loguean distinto.
type TechnicalError struct {
	Code    string
	Message string
}

func (e *TechnicalError) Error() string {
	return e.Message
}

func IsTechnicalError(err error) bool {
	_, ok := err.(*TechnicalError)
	return ok
}
