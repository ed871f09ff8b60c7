package dto

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details map[string]string `json:"details,omitempty"`
	// IDs lists documents that were written before a partial commit failed.
	IDs []string `json:"ids,omitempty"`
}
