package storage

import "fmt"

// Taxonomía de errores del núcleo. Los handlers mapean el tipo al código HTTP;
// ningún fallo se degrada a un booleano sin contexto.

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validación: %s: %s", e.Field, e.Reason)
}

type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no encontrado: %s %q", e.Entity, e.Key)
}

type IntegrationError struct {
	Source string
	Err    error
}

func (e *IntegrationError) Error() string {
	return fmt.Sprintf("integración %s: %v", e.Source, e.Err)
}

func (e *IntegrationError) Unwrap() error { return e.Err }

type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistencia %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
