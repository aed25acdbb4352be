package posts

// Code classifies the outcome of a mutation.
type Code string

const (
	CodeOK              Code = "ok"
	CodeUnauthenticated Code = "unauthenticated"
	CodeValidation      Code = "validation"
	CodeConflict        Code = "conflict"
	CodeForbidden       Code = "forbidden"
	CodeNotFound        Code = "not_found"
	CodeUnexpected      Code = "unexpected"
)

// Result is the uniform outcome of a mutation. Mutations never return errors; every
// failure is described by a Result with Success false.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Slug    string `json:"slug,omitempty"`
	Code    Code   `json:"code"`

	// Field names the offending input for validation failures.
	Field string `json:"field,omitempty"`
}

func ok(message, slug string) Result {
	return Result{Success: true, Message: message, Slug: slug, Code: CodeOK}
}

func fail(code Code, message string) Result {
	return Result{Success: false, Message: message, Code: code}
}
