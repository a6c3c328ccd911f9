package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"sort"
	"strconv"

	"github.com/camden-git/genealogybackend/services"
)

// APIErrorDetail represents a single error in the standardized error response.
type APIErrorDetail struct {
	Code   string `json:"code"`
	Status string `json:"status"`
	Detail string `json:"detail"`
	Field  string `json:"field,omitempty"`
}

// APIErrorResponse represents the standardized error response body.
type APIErrorResponse struct {
	Errors []APIErrorDetail `json:"errors"`
}

// WriteAPIError writes a standardized error response with the given HTTP status, code, and detail.
func WriteAPIError(w http.ResponseWriter, httpStatus int, code string, detail string) {
	writeAPIErrors(w, httpStatus, []APIErrorDetail{
		{
			Code:   code,
			Status: strconv.Itoa(httpStatus),
			Detail: detail,
		},
	})
}

// WriteValidationError writes one error entry per invalid field.
func WriteValidationError(w http.ResponseWriter, verr *services.ValidationError) {
	fields := make([]string, 0, len(verr.Fields))
	for f := range verr.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	status := strconv.Itoa(http.StatusUnprocessableEntity)
	details := make([]APIErrorDetail, 0, len(fields))
	for _, f := range fields {
		details = append(details, APIErrorDetail{
			Code:   "validation_failed",
			Status: status,
			Detail: verr.Fields[f],
			Field:  f,
		})
	}
	writeAPIErrors(w, http.StatusUnprocessableEntity, details)
}

func writeAPIErrors(w http.ResponseWriter, httpStatus int, details []APIErrorDetail) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	_ = json.NewEncoder(w).Encode(APIErrorResponse{Errors: details})
}

// writeServiceError maps service errors onto HTTP statuses. action completes
// "Failed to ..." for unexpected errors.
func writeServiceError(w http.ResponseWriter, err error, action string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		WriteValidationError(w, verr)
	case errors.Is(err, services.ErrNotFound):
		WriteAPIError(w, http.StatusNotFound, "not_found", "The requested resource does not exist.")
	case errors.Is(err, services.ErrForbidden):
		WriteAPIError(w, http.StatusForbidden, "forbidden", "This action is unauthorized.")
	default:
		log.Printf("Error trying to %s: %v", action, err)
		WriteAPIError(w, http.StatusInternalServerError, "internal_error", "Failed to "+action)
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Error encoding JSON response: %v", err)
		}
	}
}

// decodeJSON reads the request body into v; an empty body leaves v zeroed.
func decodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
