package webutils

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/pkg/errors"

	"github.com/mogaika/fractal_browser/fractal"
)

func WriteFileHeaders(w http.ResponseWriter, name string) {
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+name+"\"")
}

func WriteFile(w http.ResponseWriter, in io.Reader, name string) {
	WriteFileHeaders(w, name)
	if _, err := io.Copy(w, in); err != nil {
		log.Printf("[web] Error when writing file %q: %v", name, err)
	}
}

func WriteJson(w http.ResponseWriter, data interface{}) {
	res, err := json.Marshal(data)
	if err != nil {
		WriteError(w, errors.Wrapf(err, "Failed to marshal"))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	WriteResult(w, res)
}

func WriteResult(w http.ResponseWriter, data []byte) {
	_, err := w.Write(data)
	if err != nil {
		log.Printf("[web] Error when writing response: %v", err)
	}
}

// ErrorCode maps error kinds to http status codes.
func ErrorCode(err error) int {
	switch errors.Cause(err) {
	case fractal.ErrInvalidArgument:
		return http.StatusBadRequest
	case fractal.ErrInvalidState:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func WriteError(w http.ResponseWriter, err error) {
	type jError struct {
		Error string `json:"error"`
	}
	data, mErr := json.Marshal(&jError{Error: err.Error()})
	if mErr != nil {
		log.Printf("[web] Error marshaling error '%v': %v", err, mErr)
		return
	}
	log.Printf("[web] HERR: %v", string(data))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(ErrorCode(err))
	WriteResult(w, data)
}
