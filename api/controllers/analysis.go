package controllers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/satyam539813/farmappsample/api/responses"
	"github.com/satyam539813/farmappsample/api/validators"
	"github.com/satyam539813/farmappsample/internal/analysis"
	pkgerrors "github.com/satyam539813/farmappsample/pkg/errors"
	"github.com/satyam539813/farmappsample/pkg/logger"
)

const (
	maxPromptLength   = 2000
	multipartMemory   = 1 << 20
	multipartOverhead = 1 << 20
)

// AnalyzeImage accepts a JSON body with a data URI or a multipart upload and
// answers {"analysis": ...} or {"error": ...}.
func AnalyzeImage(svc analysis.Service, maxImageBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteBareError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "analysis service unavailable"))
			return
		}

		// base64 inflates the payload by a third
		r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes*4/3+multipartOverhead)

		req, err := decodeAnalysisRequest(r, maxImageBytes)
		if err != nil {
			responses.WriteBareError(r.Context(), logg, w, err)
			return
		}
		req.Prompt = validators.SanitizeString(req.Prompt, maxPromptLength)

		res, err := svc.Analyze(r.Context(), req)
		if err != nil {
			responses.WriteBareError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, res)
	}
}

func decodeAnalysisRequest(r *http.Request, maxImageBytes int64) (analysis.Request, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var req analysis.Request
		if err := validators.DecodeJSONBodyLimit(r, &req, maxImageBytes*4/3+multipartOverhead); err != nil {
			return req, tooLargeOr(err)
		}
		return req, nil
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return analysis.Request{}, tooLargeOr(pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
	}
	file, _, err := r.FormFile("image")
	if err != nil {
		return analysis.Request{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "Image data is required")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		return analysis.Request{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read image")
	}
	if int64(len(data)) > maxImageBytes {
		return analysis.Request{}, pkgerrors.New(pkgerrors.CodeTooLarge, "image is too large")
	}
	mimeType, err := analysis.DetectImageType(data)
	if err != nil {
		return analysis.Request{}, err
	}
	return analysis.Request{
		Image:  analysis.EncodeDataURI(mimeType, data),
		Prompt: strings.TrimSpace(r.FormValue("prompt")),
	}, nil
}

func tooLargeOr(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return pkgerrors.Wrap(pkgerrors.CodeTooLarge, err, "image is too large")
	}
	return err
}
