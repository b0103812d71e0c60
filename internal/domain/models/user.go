// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles. A user signs up without a role and picks one exactly once
// when completing their profile; the role is immutable afterward.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
)

// User represents students and teachers.
//
// NOTE:
//   - Role is empty until the user completes their profile (PUT /api/auth/me).
//   - Group rosters are not embedded here; they live on the groups collection.
//   - JSON tags mirror the wire contract the web client already speaks
//     (_id, avatarUrl, createdAt), not Go naming.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	Username     string             `bson:"username" json:"username"`
	PasswordHash string             `bson:"password_hash" json:"-"`
	Role         string             `bson:"role" json:"role"` // "" | student | teacher
	Bio          string             `bson:"bio" json:"bio"`
	AvatarURL    string             `bson:"avatar_url" json:"avatarUrl"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// IsTeacher reports whether the user has completed their profile as a teacher.
func (u *User) IsTeacher() bool { return u.Role == RoleTeacher }

// UserSummary is the denormalized subset of a user attached to request
// listings, teacher search results, and group rosters.
type UserSummary struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	Name      string             `bson:"name" json:"name"`
	Username  string             `bson:"username" json:"username"`
	Bio       string             `bson:"bio" json:"bio"`
	AvatarURL string             `bson:"avatar_url" json:"avatarUrl"`
}

// Summary returns the denormalized view of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		Bio:       u.Bio,
		AvatarURL: u.AvatarURL,
	}
}
