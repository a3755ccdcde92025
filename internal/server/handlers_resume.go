package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/onelink/portfolio-api/internal/ingestion"
	"github.com/onelink/portfolio-api/internal/server/middleware"
	"github.com/onelink/portfolio-api/internal/types"
)

// uploadField is the multipart field carrying the résumé.
const uploadField = "file"

var errNoFile = errors.New("no file provided")

// handleResumeUpload accepts a multipart upload and runs it through the
// ingestion pipeline. The part's own Content-Type is the declared type.
func (s *Server) handleResumeUpload(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		middleware.Unauthorized(w)
		return
	}

	if r.ContentLength > s.maxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, msgTooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)

	upload, err := readUpload(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, msgTooLarge)
		case errors.Is(err, errNoFile):
			writeError(w, http.StatusBadRequest, "No file provided")
		default:
			writeError(w, http.StatusBadRequest, "Invalid multipart body")
		}
		return
	}

	resp, err := s.resumes.Ingest(r.Context(), upload, userID)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// readUpload streams the multipart body and returns the first part named
// "file". Other parts are skipped.
func readUpload(r *http.Request) (ingestion.Upload, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return ingestion.Upload{}, err
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return ingestion.Upload{}, errNoFile
		}
		if err != nil {
			return ingestion.Upload{}, err
		}

		if part.FormName() != uploadField {
			if _, err := io.Copy(io.Discard, part); err != nil {
				_ = part.Close()
				return ingestion.Upload{}, err
			}
			_ = part.Close()
			continue
		}

		data, err := io.ReadAll(part)
		_ = part.Close()
		if err != nil {
			return ingestion.Upload{}, err
		}
		return ingestion.Upload{
			ContentType: part.Header.Get("Content-Type"),
			Filename:    part.FileName(),
			Data:        data,
		}, nil
	}
}

// handleResumeText returns the stored résumé text, or "" if none.
func (s *Server) handleResumeText(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		middleware.Unauthorized(w)
		return
	}

	text, err := s.resumes.GetStoredText(r.Context(), userID)
	if err != nil {
		writeServiceError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, types.ResumeTextResponse{ResumeText: text})
}
