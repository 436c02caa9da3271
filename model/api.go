package model

// ShortenRequest is the body of POST /shorten
type ShortenRequest struct {
	URL string `json:"url"`
}

// ShortenResponse is returned by POST /shorten
type ShortenResponse struct {
	ShortCode string `json:"short_code"`
	Original  string `json:"original,omitempty"`
	Existed   bool   `json:"existed"` // The backend already had a code for this URL
}

// LookupResponse is returned by GET /{code}.
// Location is empty when the backend does not know the code; Detail then explains why.
type LookupResponse struct {
	Status   string `json:"status,omitempty"`
	Location string `json:"location,omitempty"`
	Detail   string `json:"detail,omitempty"`
}
