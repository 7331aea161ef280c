package httpresponse

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type Response[T any] struct {
	Status int `json:"Status"`
	Body   T   `json:"Body,omitempty"`
}

type ErrorResponse struct {
	ErrorDescription string `json:"ErrorDescription"`
}

const INTERNALERRORJSON = "{\"Status\": 500,\"Body\":{\"ErrorDescription\": \"Internal server error\"}}"

const MALFORMEDJSON_errorDesc = "json unmarshalling error"

func WriteResponseWithStatus(w http.ResponseWriter, status int, body any) {
	jsonByte, err := marshalStatusJson(status, body)
	if err != nil {
		WriteInternalErrorResponse(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(jsonByte)
}

// WriteErrorWithStatus wraps description in an ErrorResponse.
func WriteErrorWithStatus(w http.ResponseWriter, status int, description string) {
	WriteResponseWithStatus(w, status, ErrorResponse{ErrorDescription: description})
}

func marshalStatusJson(status int, body any) ([]byte, error) {
	response := Response[any]{
		Status: status,
		Body:   body,
	}
	return json.Marshal(response)
}

func WriteInternalErrorResponse(w http.ResponseWriter) {
	// same as http.Error apart from the content type
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = fmt.Fprintln(w, INTERNALERRORJSON)
}
