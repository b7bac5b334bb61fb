package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/inkpost/inkpost/internal/domain"
)

// PostsPerPage is the fixed page size for the public post listing.
const PostsPerPage = 6

// PostsRepository handles post persistence.
type PostsRepository struct {
	db *sql.DB
}

// NewPostsRepository creates a new posts repository.
func NewPostsRepository(db *sql.DB) *PostsRepository {
	return &PostsRepository{db: db}
}

// Create inserts a new post.
func (r *PostsRepository) Create(ctx context.Context, post *domain.Post) error {
	query := `
		INSERT INTO posts (id, title, body, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		post.ID, post.Title, post.Body, post.AuthorID, post.CreatedAt, post.UpdatedAt,
	)
	return err
}

// GetByID retrieves a post with its author's email joined in.
func (r *PostsRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	query := `
		SELECT p.id, p.title, p.body, p.author_id, p.created_at, p.updated_at, a.email
		FROM posts p
		JOIN accounts a ON a.id = p.author_id
		WHERE p.id = $1
	`
	post := &domain.Post{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID, &post.Title, &post.Body, &post.AuthorID,
		&post.CreatedAt, &post.UpdatedAt, &post.AuthorEmail,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

// List returns one page of posts, newest first, plus the total post count.
// Pages are 1-based. Count and page read share a transaction so the page
// math is consistent.
func (r *PostsRepository) List(ctx context.Context, page int) ([]*domain.Post, int, error) {
	if page < 1 {
		page = 1
	}

	var total int
	posts := []*domain.Post{}
	err := Tx(ctx, r.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total); err != nil {
			return err
		}

		query := `
			SELECT p.id, p.title, p.body, p.author_id, p.created_at, p.updated_at, a.email
			FROM posts p
			JOIN accounts a ON a.id = p.author_id
			ORDER BY p.created_at DESC
			LIMIT $1 OFFSET $2
		`
		rows, err := tx.QueryContext(ctx, query, PostsPerPage, (page-1)*PostsPerPage)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			post := &domain.Post{}
			if err := rows.Scan(
				&post.ID, &post.Title, &post.Body, &post.AuthorID,
				&post.CreatedAt, &post.UpdatedAt, &post.AuthorEmail,
			); err != nil {
				return err
			}
			posts = append(posts, post)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// Update changes a post's title and body. Only the author may update;
// a non-author attempt on an existing post returns ErrNotPostAuthor.
func (r *PostsRepository) Update(ctx context.Context, id, authorID uuid.UUID, title, body string) (*domain.Post, error) {
	query := `
		UPDATE posts
		SET title = $3, body = $4, updated_at = NOW()
		WHERE id = $1 AND author_id = $2
		RETURNING id, title, body, author_id, created_at, updated_at
	`
	post := &domain.Post{}
	err := r.db.QueryRowContext(ctx, query, id, authorID, title, body).Scan(
		&post.ID, &post.Title, &post.Body, &post.AuthorID,
		&post.CreatedAt, &post.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, r.ownershipErr(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post. Only the author may delete.
func (r *PostsRepository) Delete(ctx context.Context, id, authorID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1 AND author_id = $2`, id, authorID)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return r.ownershipErr(ctx, id)
	}
	return nil
}

// ownershipErr distinguishes a missing post from someone else's post.
func (r *PostsRepository) ownershipErr(ctx context.Context, id uuid.UUID) error {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return domain.ErrNotPostAuthor
	}
	return domain.ErrPostNotFound
}
