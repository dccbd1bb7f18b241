package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateOrderNumber produces a unique merchant-side order number. The
// gateway treats the order number as an opaque identifier echoed back on
// return requests, so only uniqueness matters.
func GenerateOrderNumber() string {
	now := time.Now().UTC()
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])

	return fmt.Sprintf("ORDER-%s-%s", now.Format("20060102-150405"), suffix)
}
