package repositories

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"samevibe-service/internal/models"
)

// TagRepository covers the interest, hobby and music vocabularies and
// their per-user association rows.
type TagRepository interface {
	ListVocab(ctx context.Context, kind models.TagKind) ([]models.Tag, error)
	ListUserTags(ctx context.Context, kind models.TagKind, userID int) ([]models.Tag, error)
	ListUserTagIDs(ctx context.Context, kind models.TagKind, userID int) ([]int, error)
	ReplaceUserTags(ctx context.Context, kind models.TagKind, userID int, tagIDs []int) error
}

type tagTables struct {
	vocab   string
	join    string
	joinCol string
}

var tablesByKind = map[models.TagKind]tagTables{
	models.TagInterest: {vocab: "interests", join: "user_interests", joinCol: "interest_id"},
	models.TagHobby:    {vocab: "hobbies", join: "user_hobbies", joinCol: "hobby_id"},
	models.TagMusic:    {vocab: "music_genres", join: "user_musics", joinCol: "genre_id"},
}

// TagRepo is a sqlx implementation of TagRepository.
type TagRepo struct {
	db *sqlx.DB
}

// NewTagRepo constructs a TagRepo.
func NewTagRepo(db *sqlx.DB) *TagRepo {
	return &TagRepo{db: db}
}

// ListVocab returns the full vocabulary for a kind.
func (r *TagRepo) ListVocab(ctx context.Context, kind models.TagKind) ([]models.Tag, error) {
	t := tablesByKind[kind]
	var tags []models.Tag
	err := r.db.SelectContext(ctx, &tags,
		fmt.Sprintf(`SELECT id, name FROM %s ORDER BY id`, t.vocab))
	return tags, err
}

// ListUserTags returns the user's current tag set.
func (r *TagRepo) ListUserTags(ctx context.Context, kind models.TagKind, userID int) ([]models.Tag, error) {
	t := tablesByKind[kind]
	var tags []models.Tag
	err := r.db.SelectContext(ctx, &tags,
		fmt.Sprintf(`SELECT v.id, v.name FROM %s j JOIN %s v ON v.id = j.%s WHERE j.user_id=$1 ORDER BY v.id`,
			t.join, t.vocab, t.joinCol), userID)
	return tags, err
}

// ListUserTagIDs returns only the ids of the user's tag set.
func (r *TagRepo) ListUserTagIDs(ctx context.Context, kind models.TagKind, userID int) ([]int, error) {
	t := tablesByKind[kind]
	var ids []int
	err := r.db.SelectContext(ctx, &ids,
		fmt.Sprintf(`SELECT %s FROM %s WHERE user_id=$1 ORDER BY %s`, t.joinCol, t.join, t.joinCol), userID)
	return ids, err
}

// ReplaceUserTags bulk-replaces the user's tag set in one transaction:
// validate every id exists, delete all current rows, recreate. Unknown
// ids abort with ErrUnknownTag and leave the prior set intact.
func (r *TagRepo) ReplaceUserTags(ctx context.Context, kind models.TagKind, userID int, tagIDs []int) error {
	t := tablesByKind[kind]

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if len(tagIDs) > 0 {
		var count int
		if err := tx.GetContext(ctx, &count,
			fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE id = ANY($1)`, t.vocab), pq.Array(tagIDs)); err != nil {
			return err
		}
		if count != len(tagIDs) {
			return ErrUnknownTag
		}
	}

	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE user_id=$1`, t.join), userID); err != nil {
		return err
	}
	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`INSERT INTO %s (user_id, %s) VALUES ($1, $2)`, t.join, t.joinCol), userID, tagID); err != nil {
			return err
		}
	}
	return tx.Commit()
}
