package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"cortex_edu/internal/app/service"
	"cortex_edu/internal/common"
	"cortex_edu/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

const (
	maxBodyBytes  = 1 << 20
	maxImageBytes = 5 << 20
)

// decodeBody reads the request body into dst under the strict record rules and
// answers 400 itself when that fails.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return false
	}
	if err := model.DecodeInto(body, dst); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return false
	}
	return true
}

func idParam(w http.ResponseWriter, r *http.Request, name string) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, name), 10, 64)
	if err != nil || id == 0 {
		common.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s", name))
		return 0, false
	}
	return id, true
}

// pageParams reads 0-based ?page= and ?size=; malformed values fall back to the defaults.
func pageParams(r *http.Request) (page, size int) {
	q := r.URL.Query()
	page, _ = strconv.Atoi(q.Get("page"))
	size, _ = strconv.Atoi(q.Get("size"))
	return page, size
}

// uintQuery returns 0 when the parameter is absent.
func uintQuery(w http.ResponseWriter, r *http.Request, name string) (uint64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s", name))
		return 0, false
	}
	return v, true
}

// readImage pulls the "image" part out of a multipart upload and sniffs its content
// type from the leading bytes. The caller closes the returned file.
func readImage(w http.ResponseWriter, r *http.Request) (service.ImageUpload, multipart.File, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes+maxBodyBytes)
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			common.RespondWithError(w, http.StatusRequestEntityTooLarge, "Image is too large")
			return service.ImageUpload{}, nil, false
		}
		common.RespondWithError(w, http.StatusBadRequest, "Invalid multipart payload: "+err.Error())
		return service.ImageUpload{}, nil, false
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Missing image file")
		return service.ImageUpload{}, nil, false
	}
	if header.Size > maxImageBytes {
		file.Close()
		common.RespondWithError(w, http.StatusRequestEntityTooLarge, "Image is too large")
		return service.ImageUpload{}, nil, false
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		file.Close()
		common.RespondWithError(w, http.StatusBadRequest, "Empty image file")
		return service.ImageUpload{}, nil, false
	}
	head = head[:n]

	return service.ImageUpload{
		ContentType: http.DetectContentType(head),
		Body:        io.MultiReader(bytes.NewReader(head), file),
	}, file, true
}
