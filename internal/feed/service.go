package feed

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jdblank/fire-backend/internal/auditlog"
	"github.com/jdblank/fire-backend/middleware"
	"github.com/jdblank/fire-backend/utils"
)

type Service interface {
	CreatePost(ctx context.Context, req CreatePostRequest, accessContext middleware.AccessContext, ip string) (*Post, error)
	GetPost(ctx context.Context, id uint, viewerID uint) (*Post, error)
	DeletePost(ctx context.Context, id uint, accessContext middleware.AccessContext, ip string) error
	ListFeed(ctx context.Context, limit, page int, viewerID uint) (*PaginatedPosts, error)
	ToggleLike(ctx context.Context, postID uint, userID uint) (*ToggleLikeResponse, error)
}

type service struct {
	repo     Repository
	auditSvc auditlog.Service
}

func NewService(repo Repository, auditSvc auditlog.Service) Service {
	return &service{repo: repo, auditSvc: auditSvc}
}

func likeKey(postID uint) string {
	return fmt.Sprintf("feed:likes:%d", postID)
}

// likeCount reads the cached count, falling back to the database and
// warming the cache on a miss or Redis outage.
func (s *service) likeCount(ctx context.Context, postID uint) int {
	if cached, err := utils.GetCounter(ctx, likeKey(postID)); err == nil && cached > 0 {
		return int(cached)
	}

	count, err := s.repo.CountLikes(ctx, postID)
	if err != nil {
		return 0
	}
	_ = utils.SetCounter(ctx, likeKey(postID), count)
	return int(count)
}

// ===========================
// 📝 Create Post
func (s *service) CreatePost(ctx context.Context, req CreatePostRequest, accessContext middleware.AccessContext, ip string) (*Post, error) {
	p := &Post{
		AuthorID: accessContext.UserID,
		Body:     req.Body,
		ImageURL: req.ImageURL,
	}

	if err := s.repo.CreatePost(ctx, p); err != nil {
		s.auditSvc.LogAction(ctx, &accessContext.UserID, "POST_CREATED", "post", nil, map[string]interface{}{
			"error": err.Error(),
		}, ip, "failure")
		return nil, err
	}

	s.auditSvc.LogAction(ctx, &accessContext.UserID, "POST_CREATED", "post", &p.ID, nil, ip, "success")

	utils.PublishPlatformEvent(ctx, "post.created", map[string]interface{}{
		"post_id":   p.ID,
		"author_id": p.AuthorID,
	})

	return p, nil
}

// ===========================
// 🔍 Get Post
func (s *service) GetPost(ctx context.Context, id uint, viewerID uint) (*Post, error) {
	p, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return nil, err
	}

	p.LikeCount = s.likeCount(ctx, id)
	if liked, err := s.repo.HasLiked(ctx, id, viewerID); err == nil {
		p.LikedByMe = liked
	}

	return p, nil
}

// ===========================
// ❌ Delete Post (author or admin)
func (s *service) DeletePost(ctx context.Context, id uint, accessContext middleware.AccessContext, ip string) error {
	p, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return errors.New("post not found")
	}

	if p.AuthorID != accessContext.UserID && !accessContext.IsAdmin() {
		return errors.New("unauthorized: cannot delete this post")
	}

	if err := s.repo.DeletePost(ctx, id); err != nil {
		return err
	}

	_ = utils.SetCounter(ctx, likeKey(id), 0)

	s.auditSvc.LogAction(ctx, &accessContext.UserID, "POST_DELETED", "post", &id, map[string]interface{}{
		"author_id": p.AuthorID,
	}, ip, "success")

	return nil
}

// ===========================
// 📄 List Feed (newest first)
func (s *service) ListFeed(ctx context.Context, limit, page int, viewerID uint) (*PaginatedPosts, error) {
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}

	posts, total, err := s.repo.ListPosts(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	for i := range posts {
		posts[i].LikeCount = s.likeCount(ctx, posts[i].ID)
		if liked, err := s.repo.HasLiked(ctx, posts[i].ID, viewerID); err == nil {
			posts[i].LikedByMe = liked
		}
	}

	return &PaginatedPosts{
		Data:       posts,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}, nil
}

// ===========================
// ❤️ Toggle Like
//
// The database row is the source of truth; the Redis counter is a cache
// adjusted alongside it.
func (s *service) ToggleLike(ctx context.Context, postID uint, userID uint) (*ToggleLikeResponse, error) {
	if _, err := s.repo.GetPost(ctx, postID); err != nil {
		return nil, errors.New("post not found")
	}

	liked, err := s.repo.HasLiked(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	if liked {
		if err := s.repo.RemoveLike(ctx, postID, userID); err != nil {
			return nil, err
		}
		_, _ = utils.DecrCounter(ctx, likeKey(postID))
	} else {
		if err := s.repo.AddLike(ctx, postID, userID); err != nil {
			return nil, err
		}
		_, _ = utils.IncrCounter(ctx, likeKey(postID))
	}

	return &ToggleLikeResponse{
		PostID:    postID,
		Liked:     !liked,
		LikeCount: s.likeCount(ctx, postID),
	}, nil
}
