package strutil

import (
	"fmt"
	"strconv"
)

// DefaultDelimiter separates list items when no other delimiter is given.
const DefaultDelimiter = ','

// ParseInputSizes parses tensor shapes written as "c,h,w;c,h,w". Each
// dimension is trimmed before parsing. An empty string yields no shapes.
func ParseInputSizes(input string) ([][]int64, error) {
	var sizes [][]int64
	for i, shape := range Split(input, ';') {
		var dims []int64
		for _, dim := range Split(shape, ',') {
			v, err := strconv.ParseInt(Trim(dim), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid dimension %q in input size %d: %w", dim, i, err)
			}
			dims = append(dims, v)
		}
		sizes = append(sizes, dims)
	}
	return sizes, nil
}

// FormatInputSizes is the inverse of ParseInputSizes.
func FormatInputSizes(sizes [][]int64) string {
	shapes := make([]string, len(sizes))
	for i, dims := range sizes {
		parts := make([]string, len(dims))
		for j, d := range dims {
			parts[j] = strconv.FormatInt(d, 10)
		}
		shapes[i] = Join(parts, ",")
	}
	return Join(shapes, ";")
}

// ParseFloatList parses delimiter-separated float32 values.
func ParseFloatList(input string, delimiter byte) ([]float32, error) {
	var values []float32
	for _, token := range Split(input, delimiter) {
		v, err := strconv.ParseFloat(Trim(token), 32)
		if err != nil {
			return nil, fmt.Errorf("invalid float %q: %w", token, err)
		}
		values = append(values, float32(v))
	}
	return values, nil
}

// ParseIntList parses delimiter-separated int values.
func ParseIntList(input string, delimiter byte) ([]int, error) {
	var values []int
	for _, token := range Split(input, delimiter) {
		v, err := strconv.Atoi(Trim(token))
		if err != nil {
			return nil, fmt.Errorf("invalid integer %q: %w", token, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// ParseStringList splits input at delimiter and trims each item.
func ParseStringList(input string, delimiter byte) []string {
	values := Split(input, delimiter)
	for i, v := range values {
		values[i] = Trim(v)
	}
	return values
}
