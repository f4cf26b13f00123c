package domain

import "context"

// Tx exposes the repositories bound to a single store transaction.
type Tx interface {
	Users() UserRepository
	Roles() RoleRepository
	Blogs() BlogRepository
	Categories() CategoryRepository
	Comments() CommentRepository
	Likes() LikeRepository
	Media() MediaRepository
	AuditLogs() AuditLogRepository
}

// Store runs fn inside a transaction. The transaction commits when fn
// returns nil and rolls back on an error or a panic.
type Store interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}
