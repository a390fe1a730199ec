package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"storefront/apperr"
	"storefront/db"
	"storefront/middleware"
	"storefront/models"
	"storefront/rdx"
	"storefront/utils"
)

const accessTokenTTL = 12 * time.Hour

type Handler struct {
	users  *mongo.Collection
	tokens *rdx.TokenCache
	auth   *middleware.Auth
}

func NewHandler(d *db.Store, tokens *rdx.TokenCache, auth *middleware.Auth) *Handler {
	return &Handler{users: d.Users, tokens: tokens, auth: auth}
}

type signupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Signup creates a user with the "user" role and a bcrypt password hash.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendError(w, apperr.New(apperr.Validation, "invalid JSON payload"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.SendError(w, err)
		return
	}

	err := h.users.FindOne(ctx, bson.M{"username": req.Username}).Err()
	if err == nil {
		utils.SendError(w, apperr.New(apperr.Validation, "username already taken"))
		return
	}
	if err != mongo.ErrNoDocuments {
		utils.SendError(w, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.SendError(w, err)
		return
	}

	user := models.User{
		UserID:    "u" + utils.GenerateRandomString(10),
		Username:  req.Username,
		Email:     req.Email,
		Password:  string(hashed),
		Role:      models.RoleUser,
		CreatedAt: time.Now(),
	}
	if _, err := h.users.InsertOne(ctx, user); err != nil {
		utils.SendError(w, err)
		return
	}

	utils.SendSuccess(w, http.StatusCreated, "Registration successful", utils.M{"userId": user.UserID})
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and issues a bearer token. The token is also
// cached in redis so logout can revoke it.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendError(w, apperr.New(apperr.Validation, "invalid JSON payload"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.SendError(w, err)
		return
	}

	var user models.User
	if err := h.users.FindOne(ctx, bson.M{"username": req.Username}).Decode(&user); err != nil {
		utils.SendError(w, apperr.New(apperr.Unauthenticated, "invalid username or password"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.SendError(w, apperr.New(apperr.Unauthenticated, "invalid username or password"))
		return
	}

	claims := &middleware.Claims{
		Username: user.Username,
		UserID:   user.UserID,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := h.auth.IssueToken(claims)
	if err != nil {
		utils.SendError(w, err)
		return
	}

	if err := h.tokens.Put(ctx, user.UserID, token); err != nil {
		log.Printf("auth: token cache failed for %s: %v", user.UserID, err)
	}

	_, err = h.users.UpdateOne(ctx,
		bson.M{"userid": user.UserID},
		bson.M{"$set": bson.M{"last_login": time.Now()}},
	)
	if err != nil {
		log.Printf("auth: last_login update failed for %s: %v", user.UserID, err)
	}

	utils.SendSuccess(w, http.StatusOK, "Login successful", utils.M{
		"token":  token,
		"userId": user.UserID,
	})
}

// Profile returns the authenticated user's record.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, _ := middleware.ActorFrom(r.Context())

	var user models.User
	if err := h.users.FindOne(ctx, bson.M{"userid": actor.UserID}).Decode(&user); err != nil {
		utils.SendError(w, apperr.New(apperr.NotFound, "user not found"))
		return
	}
	utils.SendSuccess(w, http.StatusOK, "", user)
}

// Logout drops the cached token.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	actor, _ := middleware.ActorFrom(r.Context())
	if err := h.tokens.Revoke(ctx, actor.UserID); err != nil {
		log.Printf("auth: token revoke failed for %s: %v", actor.UserID, err)
	}
	utils.SendSuccess(w, http.StatusOK, "Logged out", nil)
}
