// internal/domain/models/group.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group is a teacher-owned roster of accepted students plus an append-only
// board of uploaded videos.
//
// NOTE:
//   - StudentIDs only ever receives students who held an accepted request
//     with the owning teacher at the moment they were added. Eligibility is
//     a snapshot check, not a standing constraint: a later rejection does
//     not evict a student from the roster.
//   - Videos are appended in upload order and never removed.
type Group struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name       string               `bson:"name" json:"name"`
	TeacherID  primitive.ObjectID   `bson:"teacher_id" json:"teacherId"`
	StudentIDs []primitive.ObjectID `bson:"student_ids" json:"studentIds"`
	Videos     []Video              `bson:"videos" json:"videos"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Video is an embedded record of one upload. URL and PublicID are opaque
// references returned by the media host; the bytes themselves never touch
// this system.
type Video struct {
	Title     string    `bson:"title" json:"title"`
	URL       string    `bson:"url" json:"url"`
	PublicID  string    `bson:"public_id" json:"publicId"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
