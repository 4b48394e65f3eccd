package stock

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound      = errors.New("stock not found")
	ErrAlreadyExists = errors.New("stock already exists")
)

// Store-level conditions. Implementations return these so the service can
// tell a miss or a lost uniqueness race from an I/O failure.
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrDuplicateName  = errors.New("duplicate stock name")
)

type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("Stock not found with the id : %d", e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

type AlreadyExistsError struct {
	Name string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("Stock already exists with the name : %s", e.Name)
}

func (e *AlreadyExistsError) Is(target error) bool { return target == ErrAlreadyExists }
