package models

type PostRequest struct {
	Type     string  `json:"type" validate:"required,oneof=question offer review request"`
	Title    string  `json:"title" validate:"required,max=200"`
	Content  string  `json:"content" validate:"required"`
	Tags     TagList `json:"tags"`
	Location string  `json:"location"`
}

type ReplyRequest struct {
	Content string `json:"content" validate:"required"`
}

type HelpfulRequest struct {
	Helpful bool `json:"helpful"`
}

type VoteRequest struct {
	Direction string `json:"direction" validate:"required,oneof=up down none"`
}

type LocationRequest struct {
	Location string `json:"location" validate:"required,min=2"`
}
