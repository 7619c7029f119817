package utils

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

var sizeUnits = []string{"KB", "MB", "GB", "TB"}

// FormatSize converts a byte count to a human-readable string such as "1.5 KB".
func FormatSize(bytes int64) string {
	if bytes < 1024 {
		return fmt.Sprintf("%d B", bytes)
	}

	size := float64(bytes)
	i := -1
	for {
		size /= 1024
		i++
		if size < 1024 || i >= len(sizeUnits)-1 {
			break
		}
	}

	rounded := math.Round(size*10) / 10
	if rounded == math.Trunc(rounded) {
		return fmt.Sprintf("%d %s", int64(rounded), sizeUnits[i])
	}
	return fmt.Sprintf("%.1f %s", rounded, sizeUnits[i])
}

func GenerateUUID() string {
	return uuid.NewString()
}
