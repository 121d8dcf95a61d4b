// ABOUTME: DatabaseError wraps every failure raised by the SQLite vector store
// ABOUTME: Op names the failing operation so callers can report it
package sqlite

import "fmt"

// DatabaseError is returned for open, schema and I/O failures
type DatabaseError struct {
	Op  string
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database %s: %v", e.Op, e.Err)
}

func (e *DatabaseError) Unwrap() error {
	return e.Err
}

// dbErr wraps err as a *DatabaseError, passing nil through
func dbErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DatabaseError{Op: op, Err: err}
}
