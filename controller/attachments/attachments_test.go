package attachments

import (
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUploadHeadersLeavesFormIntact(t *testing.T) {
	a := &multipart.FileHeader{Filename: "a.txt"}
	b := &multipart.FileHeader{Filename: "b.txt"}
	c := &multipart.FileHeader{Filename: "c.txt"}

	plain := make([]*multipart.FileHeader, 1, 4)
	plain[0] = a
	form := &multipart.Form{File: map[string][]*multipart.FileHeader{
		"files":   plain,
		"files[]": {b, c},
	}}

	headers := uploadHeaders(form)
	assert.Equal(t, []*multipart.FileHeader{a, b, c}, headers)

	headers[0] = c
	assert.Len(t, form.File["files"], 1)
	assert.Same(t, a, form.File["files"][0])
	assert.Nil(t, plain[:2][1])
}
