package app

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/Josemabaher/bargoglio-webapp-sub001/api"
	"github.com/Josemabaher/bargoglio-webapp-sub001/internal/domain"
	"github.com/gabriel-vasile/mimetype"
)

const (
	maxAssetBytes = 5 << 20
	defaultFolder = "flyers"
)

var folderRX = regexp.MustCompile(`^[a-z0-9-]{1,40}$`)

// UploadAsset stores an image or PDF sent as the multipart field "file".
// The type is sniffed from the content, not taken from the client.
func (app *Application) UploadAsset(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAssetBytes+(1<<20))

	err := r.ParseMultipartForm(maxAssetBytes)
	if err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			app.assetValidationResponse(w, r, "file", fmt.Sprintf("must not be larger than %d bytes", maxAssetBytes))
			return
		}

		app.badRequestResponse(w, r, err)
		return
	}

	folder := r.FormValue("folder")
	if folder == "" {
		folder = defaultFolder
	}

	if !folderRX.MatchString(folder) {
		app.assetValidationResponse(w, r, "folder", "must contain only lowercase letters, digits and dashes")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		app.assetValidationResponse(w, r, "file", "must be provided")
		return
	}
	defer file.Close()

	if header.Size > maxAssetBytes {
		app.assetValidationResponse(w, r, "file", fmt.Sprintf("must not be larger than %d bytes", maxAssetBytes))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	mtype := mimetype.Detect(data)
	if !strings.HasPrefix(mtype.String(), "image/") && !mtype.Is("application/pdf") {
		app.assetValidationResponse(w, r, "file", "must be an image or a PDF document")
		return
	}

	asset, err := app.assetStore.Upload(r.Context(), data, mtype.String(), folder)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.contextGetLogger(r).Info("asset uploaded", "public_id", asset.PublicID, "mime_type", asset.MimeType, "size", asset.Size)

	resp := api.AssetResponse{
		PublicId: asset.PublicID.String(),
		Url:      asset.URL,
		MimeType: asset.MimeType,
		Size:     asset.Size,
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) assetValidationResponse(w http.ResponseWriter, r *http.Request, field, issue string) {
	v := domain.NewValidationError()
	v.Add(field, issue)
	app.domainValidationResponse(w, r, v)
}

func (app *Application) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	publicId, err := readUUIDParam(r, "publicId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	deleted, err := app.assetStore.Delete(r.Context(), publicId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if !deleted {
		app.notFoundResponse(w, r)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) GetAsset(w http.ResponseWriter, r *http.Request) {
	publicId, err := readUUIDParam(r, "publicId")
	if err != nil {
		app.notFoundResponse(w, r)
		return
	}

	asset, err := app.assetStore.Get(r.Context(), publicId)
	if err != nil {
		app.domainErrorResponse(w, r, err)
		return
	}

	w.Header().Set("Content-Type", asset.MimeType)
	w.Header().Set("Content-Length", strconv.Itoa(len(asset.Data)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	w.WriteHeader(http.StatusOK)
	w.Write(asset.Data)
}
