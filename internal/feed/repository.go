package feed

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	CreatePost(ctx context.Context, p *Post) error
	GetPost(ctx context.Context, id uint) (*Post, error)
	DeletePost(ctx context.Context, id uint) error
	ListPosts(ctx context.Context, limit, offset int) ([]Post, int64, error)

	AddLike(ctx context.Context, postID, userID uint) error
	RemoveLike(ctx context.Context, postID, userID uint) error
	HasLiked(ctx context.Context, postID, userID uint) (bool, error)
	CountLikes(ctx context.Context, postID uint) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreatePost(ctx context.Context, p *Post) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *repository) GetPost(ctx context.Context, id uint) (*Post, error) {
	var p Post
	err := r.db.WithContext(ctx).
		Select("posts.*, u.full_name as author_name").
		Joins("LEFT JOIN users u ON u.id = posts.author_id").
		First(&p, "posts.id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DeletePost removes the post and its likes
func (r *repository) DeletePost(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Post{}, id).Error
	})
}

func (r *repository) ListPosts(ctx context.Context, limit, offset int) ([]Post, int64, error) {
	var posts []Post
	var total int64

	if err := r.db.WithContext(ctx).Model(&Post{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Select("posts.*, u.full_name as author_name").
		Joins("LEFT JOIN users u ON u.id = posts.author_id").
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, 0, err
	}

	return posts, total, nil
}

func (r *repository) AddLike(ctx context.Context, postID, userID uint) error {
	return r.db.WithContext(ctx).Create(&Like{PostID: postID, UserID: userID}).Error
}

func (r *repository) RemoveLike(ctx context.Context, postID, userID uint) error {
	return r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Delete(&Like{}).Error
}

func (r *repository) HasLiked(ctx context.Context, postID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Like{}).
		Where("post_id = ? AND user_id = ?", postID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CountLikes(ctx context.Context, postID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}
