package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"linkup/internal/app/records"
	"linkup/internal/app/user"
)

// Store runs the record queries the collaborator handlers need. Every read
// returns fully denormalized records so the delivery layer never has to come
// back for more.
type Store struct {
	pool *pgxpool.Pool
}

// New builds a Store over the given pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// UserByID fetches a user's summary.
func (s *Store) UserByID(ctx context.Context, userID string) (user.Summary, error) {
	var u user.Summary

	err := s.pool.QueryRow(ctx,
		`SELECT id, name, email, profile_picture FROM users WHERE id = $1`,
		userID,
	).Scan(&u.ID, &u.Name, &u.Email, &u.ProfilePicture)

	if errors.Is(err, pgx.ErrNoRows) {
		return user.Summary{}, ErrNotFound
	}
	if err != nil {
		return user.Summary{}, fmt.Errorf("query user: %w", err)
	}

	return u, nil
}

// ChatByID fetches a chat with its participant list populated.
func (s *Store) ChatByID(ctx context.Context, chatID string) (records.Chat, error) {
	var c records.Chat

	err := s.pool.QueryRow(ctx,
		`SELECT id, name, is_group FROM chats WHERE id = $1`,
		chatID,
	).Scan(&c.ID, &c.Name, &c.IsGroup)

	if errors.Is(err, pgx.ErrNoRows) {
		return records.Chat{}, ErrNotFound
	}
	if err != nil {
		return records.Chat{}, fmt.Errorf("query chat: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT u.id, u.name, u.email, u.profile_picture
		 FROM chat_users cu
		 JOIN users u ON u.id = cu.user_id
		 WHERE cu.chat_id = $1
		 ORDER BY u.name`,
		chatID,
	)
	if err != nil {
		return records.Chat{}, fmt.Errorf("query chat users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u user.Summary
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.ProfilePicture); err != nil {
			return records.Chat{}, fmt.Errorf("scan chat user: %w", err)
		}
		c.Users = append(c.Users, u)
	}
	if err := rows.Err(); err != nil {
		return records.Chat{}, fmt.Errorf("iterate chat users: %w", err)
	}

	return c, nil
}

// SaveMessage persists a message in the given chat and returns it populated
// with its sender and chat. The sender starts out as the only reader.
func (s *Store) SaveMessage(ctx context.Context, chat records.Chat, senderID, content string, media []string) (records.Message, error) {
	sender, err := s.UserByID(ctx, senderID)
	if err != nil {
		return records.Message{}, err
	}

	if media == nil {
		media = []string{}
	}

	msg := records.Message{
		ID:      uuid.New().String(),
		Chat:    chat,
		Sender:  sender,
		Content: content,
		Media:   media,
		ReadBy:  []string{senderID},
	}

	err = s.pool.QueryRow(ctx,
		`INSERT INTO messages (id, chat_id, sender_id, content, media, read_by)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		msg.ID, chat.ID, senderID, content, media, msg.ReadBy,
	).Scan(&msg.CreatedAt)

	if err != nil {
		return records.Message{}, fmt.Errorf("insert message: %w", err)
	}

	return msg, nil
}

// MarkMessagesRead adds the reader to every message in the chat they have
// not read yet.
func (s *Store) MarkMessagesRead(ctx context.Context, chatID, readerID string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE messages
		 SET read_by = array_append(read_by, $2)
		 WHERE chat_id = $1 AND NOT (read_by @> ARRAY[$2])`,
		chatID, readerID,
	)
	if err != nil {
		return fmt.Errorf("mark messages read: %w", err)
	}

	return nil
}

// SaveNotification persists a notification and returns it populated with its
// sender. postID may be empty for notification types without a post.
func (s *Store) SaveNotification(ctx context.Context, recipientID, senderID, notifType, postID string) (records.Notification, error) {
	sender, err := s.UserByID(ctx, senderID)
	if err != nil {
		return records.Notification{}, err
	}

	n := records.Notification{
		ID:        uuid.New().String(),
		Recipient: recipientID,
		Sender:    sender,
		Type:      notifType,
		PostID:    postID,
	}

	var post any
	if postID != "" {
		post = postID
	}

	err = s.pool.QueryRow(ctx,
		`INSERT INTO notifications (id, recipient_id, sender_id, type, post_id)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		n.ID, recipientID, senderID, notifType, post,
	).Scan(&n.CreatedAt)

	if err != nil {
		return records.Notification{}, fmt.Errorf("insert notification: %w", err)
	}

	return n, nil
}

// SavePost persists a post and returns it populated with its author.
func (s *Store) SavePost(ctx context.Context, authorID, content, image string) (records.Post, error) {
	author, err := s.UserByID(ctx, authorID)
	if err != nil {
		return records.Post{}, err
	}

	p := records.Post{
		ID:      uuid.New().String(),
		Author:  author,
		Content: content,
		Image:   image,
		Likes:   []string{},
	}

	err = s.pool.QueryRow(ctx,
		`INSERT INTO posts (id, user_id, content, image)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		p.ID, authorID, content, image,
	).Scan(&p.CreatedAt)

	if err != nil {
		return records.Post{}, fmt.Errorf("insert post: %w", err)
	}

	return p, nil
}

// PostByID fetches a post with its author and like list populated.
func (s *Store) PostByID(ctx context.Context, postID string) (records.Post, error) {
	var p records.Post

	err := s.pool.QueryRow(ctx,
		`SELECT p.id, p.content, p.image, p.created_at,
		        u.id, u.name, u.email, u.profile_picture
		 FROM posts p
		 JOIN users u ON u.id = p.user_id
		 WHERE p.id = $1`,
		postID,
	).Scan(&p.ID, &p.Content, &p.Image, &p.CreatedAt,
		&p.Author.ID, &p.Author.Name, &p.Author.Email, &p.Author.ProfilePicture)

	if errors.Is(err, pgx.ErrNoRows) {
		return records.Post{}, ErrNotFound
	}
	if err != nil {
		return records.Post{}, fmt.Errorf("query post: %w", err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT user_id FROM post_likes WHERE post_id = $1`, postID)
	if err != nil {
		return records.Post{}, fmt.Errorf("query post likes: %w", err)
	}
	defer rows.Close()

	p.Likes = []string{}
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return records.Post{}, fmt.Errorf("scan post like: %w", err)
		}
		p.Likes = append(p.Likes, userID)
	}
	if err := rows.Err(); err != nil {
		return records.Post{}, fmt.Errorf("iterate post likes: %w", err)
	}

	return p, nil
}

// LikePost records a like. Returns false when the user already liked the
// post, so callers do not notify twice.
func (s *Store) LikePost(ctx context.Context, postID, userID string) (bool, error) {
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO post_likes (post_id, user_id)
		 VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`,
		postID, userID,
	)
	if err != nil {
		return false, fmt.Errorf("insert post like: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// SaveComment persists a comment on a post.
func (s *Store) SaveComment(ctx context.Context, postID, authorID, content string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO post_comments (id, post_id, user_id, content)
		 VALUES ($1, $2, $3, $4)`,
		uuid.New().String(), postID, authorID, content,
	)
	if err != nil {
		return fmt.Errorf("insert post comment: %w", err)
	}

	return nil
}

// SaveConnectionRequest records a pending connection between two users.
// Returns ErrDuplicate when a request between the pair already exists.
func (s *Store) SaveConnectionRequest(ctx context.Context, senderID, receiverID string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO connections (id, sender_id, receiver_id)
		 VALUES ($1, $2, $3)`,
		uuid.New().String(), senderID, receiverID,
	)

	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert connection request: %w", err)
	}

	return nil
}
