package board

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// NewID returns a random UUID string. If the system random source fails it
// falls back to a time-based id with a random suffix.
func NewID() string {
	id, err := uuid.NewRandom()
	if err == nil {
		return id.String()
	}
	return fmt.Sprintf("task-%d-%x", time.Now().UnixMilli(), rand.Uint64())
}
