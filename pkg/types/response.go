package types

// SuccessEnvelope wraps every successful API payload.
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// ListEnvelope is the payload shape for paginated collections.
type ListEnvelope[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
