package controllers

import (
	"net/http"

	"blogstore/app/media"
	"blogstore/app/models"
	"blogstore/app/services"
)

// UserController handles accounts, login and avatars
type UserController struct {
	userService *services.UserService
	postService *services.PostService
	cloud       media.Uploader
	maxBytes    int64
}

// NewUserController creates a new UserController. cloud backs the
// standalone avatar upload endpoint.
func NewUserController(userService *services.UserService, postService *services.PostService, cloud media.Uploader, maxBytes int64) *UserController {
	return &UserController{
		userService: userService,
		postService: postService,
		cloud:       cloud,
		maxBytes:    maxBytes,
	}
}

// Register handles POST /register and POST /users/create
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sendError(w, r, err)
		return
	}

	user, err := uc.userService.Register(r.Context(), &req)
	if err != nil {
		sendError(w, r, err)
		return
	}
	sendPayload(w, http.StatusCreated, "User saved successfully", user)
}

// Login handles POST /login. The token is returned in the body and in
// the Authorization header.
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sendError(w, r, err)
		return
	}

	token, user, err := uc.userService.Login(r.Context(), &req)
	if err != nil {
		sendError(w, r, err)
		return
	}
	w.Header().Set("Authorization", token)
	sendPayload(w, http.StatusOK, "Login successful", map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// Index handles GET /users
func (uc *UserController) Index(w http.ResponseWriter, r *http.Request) {
	users, err := uc.userService.List(r.Context())
	if err != nil {
		sendError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, struct {
		StatusCode int            `json:"statusCode"`
		Message    string         `json:"message"`
		Users      []*models.User `json:"users"`
	}{http.StatusOK, "Users loaded successfully", users})
}

// Show handles GET /users/{id}
func (uc *UserController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, r, err)
		return
	}

	user, err := uc.userService.Get(r.Context(), id)
	if err != nil {
		sendError(w, r, err)
		return
	}
	sendPayload(w, http.StatusOK, "User loaded successfully", user)
}

// Update handles PATCH /users/{id}/update
func (uc *UserController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, r, err)
		return
	}

	var req models.UpdateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sendError(w, r, err)
		return
	}

	user, err := uc.userService.Update(r.Context(), id, &req)
	if err != nil {
		sendError(w, r, err)
		return
	}
	sendPayload(w, http.StatusOK, "User updated successfully", user)
}

// Posts handles GET /users/{id}/posts
func (uc *UserController) Posts(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, r, err)
		return
	}

	posts, err := uc.postService.ListByAuthor(r.Context(), id)
	if err != nil {
		sendError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, struct {
		StatusCode int            `json:"statusCode"`
		Message    string         `json:"message"`
		Posts      []*models.Post `json:"posts"`
	}{http.StatusOK, "Posts loaded successfully", posts})
}

// AvatarUpload handles POST /user/avatarUpload
func (uc *UserController) AvatarUpload(w http.ResponseWriter, r *http.Request) {
	asset, err := readAsset(w, r, "avatar", uc.maxBytes)
	if err != nil {
		sendError(w, r, err)
		return
	}

	url, err := services.StoreAsset(r.Context(), uc.cloud, asset, media.Target{Kind: media.KindAvatar, Origin: origin(r)})
	if err != nil {
		sendError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, map[string]string{"avatar": url})
}

// EditAvatar handles POST /user/{id}/editAvatar
func (uc *UserController) EditAvatar(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, r, err)
		return
	}

	asset, err := readAsset(w, r, "avatar", uc.maxBytes)
	if err != nil {
		sendError(w, r, err)
		return
	}

	user, err := uc.userService.AttachAvatar(r.Context(), id, asset, origin(r))
	if err != nil {
		sendError(w, r, err)
		return
	}
	sendPayload(w, http.StatusOK, "Avatar updated successfully", user)
}

// Me handles GET /me
func (uc *UserController) Me(w http.ResponseWriter, r *http.Request) {
	user, err := uc.userService.Me(r.Context())
	if err != nil {
		sendError(w, r, err)
		return
	}
	sendPayload(w, http.StatusOK, "Profile loaded successfully", user)
}
