package storage

type storageError string

const (
	ErrNotFound = storageError("not found")
	ErrConflict = storageError("conflict")
)

func (e storageError) Error() string {
	return string(e)
}
