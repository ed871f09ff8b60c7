package dto

import "time"

// UpdateNextActionRequest replaces an entity's next-action pair. Sending both
// fields as null clears it.
type UpdateNextActionRequest struct {
	NextAction     *string    `json:"nextAction"`
	NextActionDate *time.Time `json:"nextActionDate"`
}

// ArchiveRequest toggles the archived flag.
type ArchiveRequest struct {
	Archived bool `json:"archived"`
}

// CreatedResponse is returned by every add operation.
type CreatedResponse struct {
	ID string `json:"id"`
}

// CreatedManyResponse is returned by bulk add operations.
type CreatedManyResponse struct {
	IDs []string `json:"ids"`
}

// ListResponse wraps a list of items.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

// NewListResponse builds a ListResponse, never returning a null items array.
func NewListResponse[T any](items []T) ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{Items: items, Count: len(items)}
}
