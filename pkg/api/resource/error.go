package resource

type ErrorResource struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func NewError(msg string) *ErrorResource {
	return &ErrorResource{Error: msg}
}

type HealthResource struct {
	Status string          `json:"status"`
	Checks map[string]bool `json:"checks,omitempty"`
}
