package output

import (
	"math"
	"os"
)

func nan() float64 { return math.NaN() }

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	return string(data), err
}
