package locator

// ApiResponse models the top-level structure of the upstream locator's response.
type ApiResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		FacultyID string `json:"faculty_id"`
		Location  string `json:"location"`
	} `json:"data"`
}

type apiRequest struct {
	FacultyID string `json:"faculty_id"`
}
