package userstore

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/dalemusser/mentorhub/internal/app/system/normalize"
	"github.com/dalemusser/mentorhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

var (
	// ErrDuplicate is returned when the email or username is already taken.
	ErrDuplicate = errors.New("a user with this email or username already exists")
	// ErrRoleImmutable is returned when a profile update tries to change a
	// role that was already set. Roles are chosen exactly once.
	ErrRoleImmutable = errors.New("role is already set and cannot change")

	errBadRole = errors.New(`role must be "student"|"teacher"`)
)

// Create inserts a new user after normalizing identity fields. The caller
// supplies the password hash; plaintext never reaches the store. Role is
// left unset at signup.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Name = normalize.Name(u.Name)
	u.Email = normalize.Email(u.Email)
	u.Username = normalize.Username(u.Username)

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicate
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByIdentifier looks a user up by email or username (the signin
// "identifier" field). Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	var u models.User
	filter := bson.M{"$or": bson.A{
		bson.M{"email": normalize.Email(identifier)},
		bson.M{"username": normalize.Username(identifier)},
	}}
	if err := s.c.FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ExistsByEmailOrUsername reports whether an account already uses either
// identifier. Signup uses this for a friendly 409 before the unique
// indexes would reject the insert anyway.
func (s *Store) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"email": normalize.Email(email)},
		bson.M{"username": normalize.Username(username)},
	}}
	err := s.c.FindOne(ctx, filter).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

// CompleteProfile sets role, bio, and avatar URL. The role may only be
// written once: updating with the same role is a no-op success, updating
// with a different role fails with ErrRoleImmutable. Returns
// mongo.ErrNoDocuments if the user does not exist.
func (s *Store) CompleteProfile(ctx context.Context, id primitive.ObjectID, role, bio, avatarURL string) error {
	switch role {
	case models.RoleStudent, models.RoleTeacher:
		// ok
	default:
		return errBadRole
	}

	set := bson.M{
		"role":       role,
		"bio":        bio,
		"avatar_url": avatarURL,
		"updated_at": time.Now().UTC(),
	}
	filter := bson.M{
		"_id": id,
		"$or": bson.A{bson.M{"role": ""}, bson.M{"role": role}},
	}
	res, err := s.c.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		// Either the user is gone or the role is set to something else.
		if err := s.c.FindOne(ctx, bson.M{"_id": id}).Err(); err != nil {
			return err
		}
		return ErrRoleImmutable
	}
	return nil
}

// SearchTeachers returns teachers whose name, username, or bio contains q,
// case-insensitively. The query is escaped so regex metacharacters match
// literally. An empty query returns no results.
func (s *Store) SearchTeachers(ctx context.Context, q string, limit int64) ([]models.UserSummary, error) {
	if q == "" {
		return []models.UserSummary{}, nil
	}
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
	filter := bson.M{
		"role": models.RoleTeacher,
		"$or": bson.A{
			bson.M{"name": pattern},
			bson.M{"username": pattern},
			bson.M{"bio": pattern},
		},
	}
	cur, err := s.c.Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	teachers := []models.UserSummary{}
	for cur.Next(ctx) {
		var t models.UserSummary
		if err := cur.Decode(&t); err != nil {
			return nil, err
		}
		teachers = append(teachers, t)
	}
	return teachers, cur.Err()
}

// GetTeacherByID loads a teacher's public summary. Returns
// mongo.ErrNoDocuments if the id is unknown or not a teacher.
func (s *Store) GetTeacherByID(ctx context.Context, id primitive.ObjectID) (*models.UserSummary, error) {
	var t models.UserSummary
	filter := bson.M{"_id": id, "role": models.RoleTeacher}
	if err := s.c.FindOne(ctx, filter).Decode(&t); err != nil {
		return nil, err
	}
	return &t, nil
}

// Summaries resolves a set of user ids to their denormalized summaries,
// keyed by id. Missing ids are simply absent from the map.
func (s *Store) Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	out := make(map[primitive.ObjectID]models.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var u models.UserSummary
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out[u.ID] = u
	}
	return out, cur.Err()
}
