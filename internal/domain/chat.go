package domain

// Source is the citation returned to the client for each retrieved document
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ChatRequest is the request to send a chat message
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the response from a chat message
type ChatResponse struct {
	Response string   `json:"response"`
	Sources  []Source `json:"sources"`
}

// ErrorResponse is the body of every 4xx/5xx JSON response
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by the liveness route
type HealthResponse struct {
	Status string `json:"status"`
}
