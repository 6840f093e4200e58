package model

type CreatePostDTO struct {
	Text    string       `json:"text"`
	GroupID *int64       `json:"group_id,omitempty"`
	Image   *ImageUpload `json:"image,omitempty"`
}

// ImageUpload carries the raw bytes of a submitted image. The format is
// sniffed from the content, never trusted from the filename.
type ImageUpload struct {
	Filename string `json:"filename"`
	Data     []byte `json:"-"`
}
