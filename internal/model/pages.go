package model

import "inkwell-feed-service/internal/pagination"

type PostPage struct {
	Posts []*PostDetailed `json:"posts"`
	Page  pagination.Page `json:"page"`
}

type GroupPage struct {
	Group *Group    `json:"group"`
	Posts *PostPage `json:"posts"`
}

type PostView struct {
	Post            *PostDetailed      `json:"post"`
	Comments        []*CommentDetailed `json:"comments"`
	AuthorPostCount int64              `json:"author_post_count"`
}

type Profile struct {
	Author         *User     `json:"author"`
	Posts          *PostPage `json:"posts"`
	PostCount      int64     `json:"post_count"`
	FollowerCount  int64     `json:"follower_count"`
	FollowingCount int64     `json:"following_count"`
	Following      bool      `json:"following"`
}
