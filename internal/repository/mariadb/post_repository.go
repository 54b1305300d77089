package mariadb

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/fhuszti/booru-ms-go/internal/model"
	"github.com/fhuszti/booru-ms-go/internal/port"
	"github.com/fhuszti/booru-ms-go/internal/usecase/post"
)

// DigestUniqueKey names the unique index that makes a digest a post's
// identity.
const DigestUniqueKey = "posts_digest_unique"

type PostRepository struct {
	db *sql.DB
}

// compile-time check: *PostRepository must satisfy port.PostRepository
var _ port.PostRepository = (*PostRepository)(nil)

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, p *model.Post) (int64, error) {
	log.Printf("creating database record for digest %s...", p.Digest)

	const query = `
      INSERT INTO posts
        (uploader_id, digest, width, height, media_kind, byte_size, content_path, thumbnail_path)
      VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `
	res, err := r.db.ExecContext(ctx, query,
		p.UploaderID, p.Digest,
		p.Width, p.Height, p.MediaKind, p.ByteSize,
		p.ContentPath, p.ThumbnailPath,
	)
	if err != nil {
		if IsUniqueViolation(err, DigestUniqueKey) {
			return 0, post.ErrDuplicatePost
		}
		return 0, err
	}

	return res.LastInsertId()
}

func (r *PostRepository) GetByID(ctx context.Context, id int64) (*model.Post, error) {
	log.Printf("fetching post #%d from the database...", id)

	const query = `
      SELECT id, uploader_id, digest, width, height, media_kind, byte_size, content_path, thumbnail_path, created_at
      FROM posts
      WHERE id = ?
    `
	row := r.db.QueryRowContext(ctx, query, id)
	var p model.Post
	if err := row.Scan(
		&p.ID, &p.UploaderID, &p.Digest,
		&p.Width, &p.Height, &p.MediaKind, &p.ByteSize,
		&p.ContentPath, &p.ThumbnailPath, &p.CreatedAt,
	); err != nil {
		return nil, err
	}

	return &p, nil
}

func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	log.Printf("deleting post #%d from the database...", id)

	const query = `DELETE FROM posts WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *PostRepository) ListCreatedBefore(ctx context.Context, before time.Time, afterID int64, limit int) ([]model.Post, error) {
	log.Printf("listing posts created before %s after #%d...", before.Format(time.RFC3339), afterID)

	const query = `
      SELECT id, uploader_id, digest, width, height, media_kind, byte_size, content_path, thumbnail_path, created_at
      FROM posts
      WHERE created_at < ? AND id > ?
      ORDER BY id
      LIMIT ?
    `
	rows, err := r.db.QueryContext(ctx, query, before, afterID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var posts []model.Post
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(
			&p.ID, &p.UploaderID, &p.Digest,
			&p.Width, &p.Height, &p.MediaKind, &p.ByteSize,
			&p.ContentPath, &p.ThumbnailPath, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
