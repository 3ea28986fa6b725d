package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/msomdec/photo-host/internal/service"
)

const (
	maxFilesPerRequest = 20
	multipartMemory    = 32 << 20
)

var errNoFiles = errors.New("no files provided")

// readUploads reads the "files" parts of a multipart request. Each file is
// read up to one byte past limit, so the service can still tell an oversized
// upload from one that fits.
func readUploads(w http.ResponseWriter, r *http.Request, limit int64) ([]service.UploadFile, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit*maxFilesPerRequest+(1<<20))
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		return nil, fmt.Errorf("parse upload: %w", err)
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		return nil, errNoFiles
	}
	if len(headers) > maxFilesPerRequest {
		return nil, fmt.Errorf("at most %d files per upload", maxFilesPerRequest)
	}

	files := make([]service.UploadFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(io.LimitReader(f, limit+1))
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
		}
		files = append(files, service.UploadFile{
			FileName: fh.Filename,
			Size:     fh.Size,
			Data:     data,
		})
	}
	return files, nil
}

// isTooLarge reports whether err came from MaxBytesReader.
func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
