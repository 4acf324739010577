package dto


// Envelope is the uniform API response: code 0 on success,
// a business code otherwise.
type Envelope struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// ListResponse represents a paginated collection
type ListResponse struct {
	Items  interface{} `json:"items"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

// UnreadCountResponse represents the unread notifications counter
type UnreadCountResponse struct {
	Count int `json:"count"`
}

// NewListResponse creates a ListResponse from components
func NewListResponse(items interface{}, limit, offset int) *ListResponse {
	return &ListResponse{
		Items:  items,
		Limit:  limit,
		Offset: offset,
	}
}
