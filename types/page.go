package types

// Cursor is an opaque pagination continuation token. A cursor is only
// valid against the query that produced it; reusing one across
// differently-filtered queries yields undefined results.
type Cursor = string

// Page is one page of a cursor-paginated query result.
//
// Following NextCursor until HasNextPage is false visits every item
// of the underlying result set exactly once, for any fixed backend
// dataset.
type Page[T any] struct {
	Data        []T     `json:"data"`
	NextCursor  *Cursor `json:"nextCursor,omitempty"`
	HasNextPage bool    `json:"hasNextPage"`
}
