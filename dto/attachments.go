package dto

import "io"

// UploadFile is one file of a multipart upload, already opened.
type UploadFile struct {
	Name     string
	MimeType string
	Size     int64
	Content  io.Reader
}
