package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// QueryRequest is the body of POST /api/query.
type QueryRequest struct {
	Question string `json:"question" validate:"required,max=4000"`
	Persona  string `json:"persona,omitempty" validate:"omitempty,max=32"`
}

// RequestError reports a malformed or invalid request body.
type RequestError struct {
	Message string
	Fields  map[string]string
}

func (e *RequestError) Error() string { return e.Message }

// decodeAndValidate reads a JSON body of at most 64KiB into dst and validates it.
func decodeAndValidate(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 64<<10))
	if err := dec.Decode(dst); err != nil {
		return &RequestError{Message: "invalid JSON body: " + err.Error()}
	}
	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			name := strings.ToLower(fe.Field())
			switch fe.Tag() {
			case "required":
				fields[name] = fmt.Sprintf("%s is required", name)
			case "max":
				fields[name] = fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
			default:
				fields[name] = fmt.Sprintf("%s failed on '%s'", name, fe.Tag())
			}
		}
		return &RequestError{Message: "request validation failed", Fields: fields}
	}
	return nil
}
