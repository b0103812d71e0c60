// internal/domain/models/request.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Request statuses. A request starts pending and transitions exactly once,
// to accepted or rejected; both are terminal.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// Request is a student→teacher mentorship ("teach me") request.
//
// At most one pending request may exist per (student, teacher) pair; the
// requests collection carries a partial unique index enforcing this under
// concurrent creates. After a request reaches a terminal status the student
// may request the same teacher again, creating a new record.
//
// StatusRejected exists in the data model but no API currently reaches it;
// requests are only ever accepted or left pending.
type Request struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	StudentID primitive.ObjectID `bson:"student_id" json:"studentId"`
	TeacherID primitive.ObjectID `bson:"teacher_id" json:"teacherId"`
	Status    string             `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
