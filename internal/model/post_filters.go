package model

type PostFilters struct {
	AuthorID  *int64
	AuthorIDs []int64
	GroupID   *int64
	Limit     *int
	Offset    *int
}
