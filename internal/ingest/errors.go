package ingest

import "fmt"

// Kind классифицирует ошибку цикла для логов и отчёта оператору.
type Kind string

const (
	KindFetch    Kind = "fetch"
	KindShape    Kind = "shape"
	KindStore    Kind = "store"
	KindInternal Kind = "internal"
)

// CycleError — любая ошибка, оборвавшая цикл. Дальше границы цикла она
// не распространяется: Run превращает её в отчёт и продолжает.
type CycleError struct {
	Kind Kind
	Err  error
}

func (e *CycleError) Error() string { return fmt.Sprintf("%s: %v", e.Kind, e.Err) }
func (e *CycleError) Unwrap() error { return e.Err }

func cycleErr(kind Kind, err error) *CycleError { return &CycleError{Kind: kind, Err: err} }
