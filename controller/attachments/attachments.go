package attachments

import (
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"projectflow/controller"
	"projectflow/dto"
	"projectflow/middleware"
	"projectflow/model"

	"github.com/gin-gonic/gin"
)

// AttachmentsController registers the same upload, download and delete
// routes under projects and tasks.
func AttachmentsController(router *gin.Engine, s *controller.Services) {
	register(router.Group("/projects/:id/attachments", s.Auth), s, model.ProjectOwner)
	register(router.Group("/tasks/:id/attachments", s.Auth), s, model.TaskOwner)
}

func register(routes *gin.RouterGroup, s *controller.Services, ownerOf func(uint) model.Owner) {
	owner := func(c *gin.Context) (model.Owner, bool) {
		id, ok := controller.ParamID(c, "id")
		return ownerOf(id), ok
	}
	routes.GET("", func(c *gin.Context) {
		if o, ok := owner(c); ok {
			ListAttachments(c, s, o)
		}
	})
	routes.POST("", func(c *gin.Context) {
		if o, ok := owner(c); ok {
			UploadAttachments(c, s, o)
		}
	})
	routes.GET("/:attachment/download", func(c *gin.Context) {
		if o, ok := owner(c); ok {
			DownloadAttachment(c, s, o)
		}
	})
	routes.DELETE("/:attachment", func(c *gin.Context) {
		if o, ok := owner(c); ok {
			DeleteAttachment(c, s, o)
		}
	})
}

func ListAttachments(c *gin.Context, s *controller.Services, owner model.Owner) {
	attachments, err := s.Attachments.List(c.Request.Context(), owner)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attachments": attachments})
}

// uploadHeaders collects the "files" and "files[]" parts into a new slice.
func uploadHeaders(form *multipart.Form) []*multipart.FileHeader {
	headers := make([]*multipart.FileHeader, 0, len(form.File["files"])+len(form.File["files[]"]))
	headers = append(headers, form.File["files"]...)
	return append(headers, form.File["files[]"]...)
}

// UploadAttachments takes a multipart form with one or more "files" parts.
func UploadAttachments(c *gin.Context, s *controller.Services, owner model.Owner) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart form"})
		return
	}
	headers := uploadHeaders(form)

	files := make([]dto.UploadFile, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read " + h.Filename})
			return
		}
		opened = append(opened, f)
		files = append(files, dto.UploadFile{
			Name:     h.Filename,
			MimeType: h.Header.Get("Content-Type"),
			Size:     h.Size,
			Content:  f,
		})
	}

	created, err := s.Attachments.Upload(c.Request.Context(), middleware.CurrentUser(c), owner, files)
	if err != nil {
		if len(created) > 0 {
			_ = c.Error(err)
			c.JSON(http.StatusBadGateway, gin.H{
				"error":       "Some files could not be uploaded",
				"attachments": created,
			})
			return
		}
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Files uploaded successfully", "attachments": created})
}

func DownloadAttachment(c *gin.Context, s *controller.Services, owner model.Owner) {
	id, ok := controller.ParamID(c, "attachment")
	if !ok {
		return
	}
	a, rc, err := s.Attachments.Download(c.Request.Context(), owner, id)
	if err != nil {
		controller.RespondError(c, err)
		return
	}
	defer rc.Close()

	contentType := a.Type
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, a.Size, contentType, rc, map[string]string{
		"Content-Disposition": mime.FormatMediaType("attachment", map[string]string{"filename": a.Name}),
		"X-Attachment-Id":     strconv.FormatUint(uint64(a.ID), 10),
	})
}

func DeleteAttachment(c *gin.Context, s *controller.Services, owner model.Owner) {
	id, ok := controller.ParamID(c, "attachment")
	if !ok {
		return
	}
	if err := s.Attachments.Delete(c.Request.Context(), owner, id); err != nil {
		controller.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Attachment deleted successfully"})
}
