package emissions

import (
	"errors"
	"time"
)

// Repository errors.
var (
	ErrRecordNotFound = errors.New("emission record not found")
)

// Record is one persisted calculation. Records are append-only.
type Record struct {
	ID        string
	UserID    string
	Input     Input
	Result    Result
	CreatedAt time.Time
}
