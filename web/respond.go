// ABOUTME: JSON response helpers and request body validation
// ABOUTME: Maps pipeline errors onto 400, 404 and 500 responses
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nehemiah-ic/rv-takehome/pipeline"
)

const (
	msgInvalidRequest = "Invalid request data"
	msgInternal       = "Internal server error"
)

type errorResponse struct {
	Error   string                `json:"error"`
	Details []pipeline.FieldError `json:"details,omitempty"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}

func (s *Server) writeInvalid(w http.ResponseWriter, details []pipeline.FieldError) {
	s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: msgInvalidRequest, Details: details})
}

// writeServiceError maps a pipeline error to its HTTP response. Storage
// failures are logged in full and answered with a generic message.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *pipeline.ValidationError
	var nf *pipeline.NotFoundError
	switch {
	case errors.As(err, &verr):
		s.writeInvalid(w, verr.Details)
	case errors.As(err, &nf):
		s.writeError(w, http.StatusNotFound, nf.Message)
	default:
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", requestID(r.Context()),
			"err", err)
		s.writeError(w, http.StatusInternalServerError, msgInternal)
	}
}

// decodeBody reads a JSON body into dst and validates its struct tags. On
// failure it writes the 400 response and returns false.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeInvalid(w, []pipeline.FieldError{{Field: "body", Message: err.Error()}})
		return false
	}

	err := s.validate.Struct(dst)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		s.writeInvalid(w, []pipeline.FieldError{{Field: "body", Message: err.Error()}})
		return false
	}
	details := make([]pipeline.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, pipeline.FieldError{
			Field:   fieldPath(fe.Namespace()),
			Message: fieldMessage(fe),
		})
	}
	s.writeInvalid(w, details)
	return false
}

// fieldPath drops the struct name from a validator namespace, leaving the
// JSON path such as "changes.sales_rep_name".
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required"
	case "min":
		if fe.Kind() == reflect.String {
			return "Must be at least " + fe.Param() + " character(s)"
		}
		return "Must contain at least " + fe.Param() + " item(s)"
	case "gt":
		return "Must be greater than " + fe.Param()
	default:
		return "Failed " + fe.Tag() + " validation"
	}
}
