package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
)

// Cursor is the keyset position after the last row of a page: rows are
// ordered by (sort_order, id) and the next page starts strictly after it.
type Cursor struct {
	SortOrder int
	ID        string
}

// After reports whether a row at (sortOrder, id) comes strictly after c.
func (c Cursor) After(sortOrder int, id string) bool {
	if sortOrder != c.SortOrder {
		return sortOrder > c.SortOrder
	}
	return id > c.ID
}

// EncodeCursor creates a base64 encoded token for a (sort order, id) position.
func EncodeCursor(c Cursor) string {
	return EncodeMultiFieldToken(strconv.Itoa(c.SortOrder), c.ID)
}

// DecodeCursor parses a token created by EncodeCursor. An empty token
// yields a nil cursor, meaning the first page.
func DecodeCursor(token string) (*Cursor, error) {
	if token == "" {
		return nil, nil
	}
	parts, err := DecodeMultiFieldToken(token)
	if err != nil {
		return nil, err
	}
	if len(parts) != 2 || parts[1] == "" {
		return nil, fmt.Errorf("invalid pagination token format (split)")
	}
	sortOrder, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (sort order parse): %w", err)
	}
	return &Cursor{SortOrder: sortOrder, ID: parts[1]}, nil
}

// EncodeMultiFieldToken creates a token with any number of string fields
func EncodeMultiFieldToken(fields ...string) string {
	tokenStr := strings.Join(fields, "|")
	return base64.StdEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeMultiFieldToken decodes a token into its component fields
func DecodeMultiFieldToken(token string) ([]string, error) {
	decodedBytes, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}

	tokenStr := string(decodedBytes)
	parts := strings.Split(tokenStr, "|")
	return parts, nil
}

// ClampLimit bounds a requested page size to [1, max], using def when unset.
func ClampLimit(requested, def, max int) int {
	if requested <= 0 {
		requested = def
	}
	if requested > max {
		return max
	}
	return requested
}
