// Package auth implements account endpoints: signup, signin, and the
// caller's own profile (GET/PUT /api/auth/me).
package auth

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/mentorhub/internal/app/store/users"
	"github.com/dalemusser/mentorhub/internal/app/system/auth"
	"github.com/dalemusser/mentorhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/mentorhub/internal/app/system/httpjson"
	"github.com/dalemusser/mentorhub/internal/app/system/timeouts"
	"github.com/dalemusser/mentorhub/internal/domain/models"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Error codes specific to account endpoints.
const (
	codeUserExists         = "user_exists"
	codeInvalidCredentials = "invalid_credentials"
	codeRoleRequired       = "role_required"
	codeRoleImmutable      = "role_immutable"
)

var validate = validator.New()

// Handler is the shared dependency container for account endpoints.
type Handler struct {
	Users  *userstore.Store
	Tokens *auth.TokenManager
	Log    *zap.Logger
}

// NewHandler builds the auth handler.
func NewHandler(users *userstore.Store, tokens *auth.TokenManager, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Tokens: tokens, Log: logger}
}

type signupInput struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleSignup creates an account without a role and returns a bearer
// token. The role is chosen later via PUT /api/auth/me.
func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var in signupInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, httpjson.CodeInternal)
		return
	}
	if err := validate.Struct(in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "email, username and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	exists, err := h.Users.ExistsByEmailOrUsername(ctx, in.Email, in.Username)
	if err != nil {
		httpjson.Internal(w, h.Log, "auth.signup.exists", err)
		return
	}
	if exists {
		httpjson.Error(w, http.StatusConflict, codeUserExists)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		httpjson.Internal(w, h.Log, "auth.signup.hash", err)
		return
	}

	u, err := h.Users.Create(ctx, models.User{
		Name:         in.Name,
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: string(hash),
	})
	if err != nil {
		// The unique indexes close the race the pre-check leaves open.
		if errors.Is(err, userstore.ErrDuplicate) {
			httpjson.Error(w, http.StatusConflict, codeUserExists)
			return
		}
		httpjson.Internal(w, h.Log, "auth.signup.create", err)
		return
	}

	token, err := h.Tokens.Issue(u.ID)
	if err != nil {
		httpjson.Internal(w, h.Log, "auth.signup.token", err)
		return
	}
	h.Log.Info("user signed up", zap.String("user_id", u.ID.Hex()))
	httpjson.Write(w, http.StatusCreated, map[string]any{
		"token":       token,
		"mongoUserId": u.ID.Hex(),
	})
}

type signinInput struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// HandleSignin verifies credentials against the stored bcrypt hash and
// returns a fresh bearer token. The identifier may be an email or username.
func (h *Handler) HandleSignin(w http.ResponseWriter, r *http.Request) {
	var in signinInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, httpjson.CodeInternal)
		return
	}
	if err := validate.Struct(in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "identifier and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByIdentifier(ctx, in.Identifier)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.Error(w, http.StatusUnauthorized, codeInvalidCredentials)
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "auth.signin.lookup", err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		httpjson.Error(w, http.StatusUnauthorized, codeInvalidCredentials)
		return
	}

	token, err := h.Tokens.Issue(u.ID)
	if err != nil {
		httpjson.Internal(w, h.Log, "auth.signin.token", err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{
		"token":       token,
		"mongoUserId": u.ID.Hex(),
	})
}

// ServeMe returns the caller's full profile.
func (h *Handler) ServeMe(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.CurrentUserID(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if errors.Is(err, mongo.ErrNoDocuments) {
		httpjson.Error(w, http.StatusNotFound, httpjson.CodeNotFound)
		return
	}
	if err != nil {
		httpjson.Internal(w, h.Log, "auth.me.get", err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"user": u})
}

type profileInput struct {
	Role      string `json:"role" validate:"required,oneof=student teacher"`
	Bio       string `json:"bio"`
	AvatarURL string `json:"avatarUrl" validate:"omitempty,url"`
}

// HandleUpdateProfile completes the caller's profile: role (set once,
// immutable afterward), bio, and avatar URL. The bio is sanitized because
// clients render it as HTML.
func (h *Handler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.CurrentUserID(r)

	var in profileInput
	if err := httpjson.Decode(r, &in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, httpjson.CodeInternal)
		return
	}
	if err := validate.Struct(in); err != nil {
		httpjson.Error(w, http.StatusBadRequest, codeRoleRequired)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Users.CompleteProfile(ctx, userID, in.Role, htmlsanitize.Sanitize(in.Bio), in.AvatarURL)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		httpjson.Error(w, http.StatusNotFound, httpjson.CodeNotFound)
	case errors.Is(err, userstore.ErrRoleImmutable):
		httpjson.Error(w, http.StatusBadRequest, codeRoleImmutable)
	case err != nil:
		httpjson.Internal(w, h.Log, "auth.me.update", err)
	default:
		httpjson.Write(w, http.StatusOK, map[string]any{"mongoUserId": userID.Hex()})
	}
}
