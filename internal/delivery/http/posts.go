package http_delivery

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"inkwell-feed-service/internal/custom_errors"
	"inkwell-feed-service/internal/model"
)

type postForm struct {
	Text    string `form:"text" validate:"required"`
	GroupID *int64 `form:"group_id" validate:"omitempty,gt=0"`
}

func (h *Handler) postCreate(c *gin.Context) {
	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		h.respondError(c, custom_errors.ErrInvalidInput)
		return
	}
	if err := h.validate.Struct(form); err != nil {
		h.respondError(c, custom_errors.ErrPostValidation)
		return
	}

	image, err := h.imageFromForm(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	dto := &model.CreatePostDTO{
		Text:    form.Text,
		GroupID: form.GroupID,
		Image:   image,
	}
	created, err := h.posts.CreatePost(c.Request.Context(), h.currentUserID(c), dto)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *Handler) postView(c *gin.Context) {
	postID, ok := h.postIDParam(c)
	if !ok {
		return
	}

	view, err := h.posts.GetPost(c.Request.Context(), c.Param("username"), postID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *Handler) postEdit(c *gin.Context) {
	postID, ok := h.postIDParam(c)
	if !ok {
		return
	}

	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		h.respondError(c, custom_errors.ErrInvalidInput)
		return
	}
	if err := h.validate.Struct(form); err != nil {
		h.respondError(c, custom_errors.ErrPostValidation)
		return
	}

	image, err := h.imageFromForm(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// The edit form always carries the full state, so an absent group_id
	// means the post leaves its group rather than keeping it.
	update := &model.UpdatePostDTO{
		Text:    &form.Text,
		GroupID: &form.GroupID,
		Image:   image,
	}
	updated, err := h.posts.EditPost(c.Request.Context(), h.currentUserID(c), postID, update)
	if err != nil {
		// Someone else's post is not editable; send the caller back to
		// the post's public page instead of erroring.
		if errors.Is(err, custom_errors.ErrForbidden) {
			c.Redirect(http.StatusFound, "/"+c.Param("username")+"/"+c.Param("post_id"))
			return
		}
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

type commentForm struct {
	Text string `form:"text" json:"text" validate:"required"`
}

func (h *Handler) commentCreate(c *gin.Context) {
	postID, ok := h.postIDParam(c)
	if !ok {
		return
	}

	var form commentForm
	if err := c.ShouldBind(&form); err != nil {
		h.respondError(c, custom_errors.ErrInvalidInput)
		return
	}
	if err := h.validate.Struct(form); err != nil {
		h.respondError(c, custom_errors.ErrCommentValidation)
		return
	}

	comment, err := h.posts.AddComment(c.Request.Context(), h.currentUserID(c), postID, form.Text)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

func (h *Handler) postIDParam(c *gin.Context) (int64, bool) {
	postID, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil || postID < 1 {
		h.respondError(c, custom_errors.ErrPostNotFound)
		return 0, false
	}
	return postID, true
}

// imageFromForm reads an optional multipart image upload. The actual format
// check happens in the service by sniffing the bytes, not the filename.
func (h *Handler) imageFromForm(c *gin.Context) (*model.ImageUpload, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, custom_errors.ErrInvalidInput
	}

	data, err := readUpload(fileHeader)
	if err != nil {
		return nil, custom_errors.ErrInvalidInput
	}

	return &model.ImageUpload{Filename: fileHeader.Filename, Data: data}, nil
}

func readUpload(fileHeader *multipart.FileHeader) ([]byte, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}
