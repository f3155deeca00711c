package models

// Tag is a fixed-vocabulary entity (interest, hobby or music genre).
type Tag struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// TagKind selects which vocabulary a tag operation targets.
type TagKind string

const (
	TagInterest TagKind = "interest"
	TagHobby    TagKind = "hobby"
	TagMusic    TagKind = "music"
)
