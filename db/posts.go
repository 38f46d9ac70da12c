package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"blogg/models"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
	log "github.com/sirupsen/logrus"
)

// ErrPostNotFound is returned when the requested post id has no row
var ErrPostNotFound = errors.New("post not found")

// DB handles all post storage operations over a shared connection pool
type DB struct {
	db *sql.DB
}

func NewDB(database string) (*DB, error) {
	db, err := connection(database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

// Read operations

// ListPosts returns every post ordered by id descending, newest first
func (d *DB) ListPosts(ctx context.Context) ([]models.Post, error) {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select("id", "author", "content", "created_at").From("posts")
	sb.OrderBy("id").Desc()

	sql, args := sb.BuildWithFlavor(sqlbuilder.SQLite)

	rows, err := d.db.QueryContext(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		posts = append(posts, post)
	}

	return posts, rows.Err()
}

// GetPost fetches a single post by id, returning ErrPostNotFound if absent
func (d *DB) GetPost(ctx context.Context, id int64) (models.Post, error) {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select("id", "author", "content", "created_at").From("posts")
	sb.Where(sb.Equal("id", id))

	query, args := sb.BuildWithFlavor(sqlbuilder.SQLite)

	post, err := scanPost(d.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Post{}, ErrPostNotFound
	}
	if err != nil {
		return models.Post{}, fmt.Errorf("query error: %w", err)
	}

	return post, nil
}

// Write operations

// CreatePost inserts a new post, assigning its id and creation time
func (d *DB) CreatePost(ctx context.Context, author string, content string) (models.Post, error) {
	createdAt := time.Now().UTC()

	insertPost := sqlbuilder.NewInsertBuilder()
	insertPost.InsertInto("posts").Cols("author", "content", "created_at")
	insertPost.Values(author, content, createdAt.Unix())
	query, args := insertPost.BuildWithFlavor(sqlbuilder.SQLite)

	res, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return models.Post{}, fmt.Errorf("insert error: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Post{}, fmt.Errorf("error getting inserted id: %w", err)
	}

	log.WithFields(log.Fields{
		"id":     id,
		"author": author,
	}).Info("Created post")

	return models.Post{
		Id:        id,
		Author:    author,
		Content:   content,
		CreatedAt: createdAt.Truncate(time.Second),
	}, nil
}

// UpdatePost overwrites the author and content of an existing post.
// The creation time is left untouched.
func (d *DB) UpdatePost(ctx context.Context, id int64, author string, content string) (models.Post, error) {
	updatePost := sqlbuilder.NewUpdateBuilder()
	updatePost.Update("posts")
	updatePost.Set(
		updatePost.Assign("author", author),
		updatePost.Assign("content", content),
	)
	updatePost.Where(updatePost.Equal("id", id))
	query, args := updatePost.BuildWithFlavor(sqlbuilder.SQLite)

	res, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return models.Post{}, fmt.Errorf("update error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return models.Post{}, fmt.Errorf("update error: %w", err)
	}
	if affected == 0 {
		return models.Post{}, ErrPostNotFound
	}

	log.WithFields(log.Fields{
		"id": id,
	}).Info("Updated post")

	return d.GetPost(ctx, id)
}

// DeletePost removes a post by id, returning ErrPostNotFound if absent
func (d *DB) DeletePost(ctx context.Context, id int64) error {
	deletePost := sqlbuilder.NewDeleteBuilder()
	deletePost.DeleteFrom("posts")
	deletePost.Where(deletePost.Equal("id", id))
	query, args := deletePost.BuildWithFlavor(sqlbuilder.SQLite)

	res, err := d.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete error: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete error: %w", err)
	}
	if affected == 0 {
		return ErrPostNotFound
	}

	log.WithFields(log.Fields{
		"id": id,
	}).Info("Deleted post")

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (models.Post, error) {
	var post models.Post
	var createdAt int64
	if err := row.Scan(&post.Id, &post.Author, &post.Content, &createdAt); err != nil {
		return models.Post{}, err
	}
	post.CreatedAt = time.Unix(createdAt, 0).UTC()
	return post, nil
}
