package controllers

import (
	"net/http"

	"blogstore/app/models"
	"blogstore/app/services"
)

// CommentController handles HTTP requests for the comments of a post
type CommentController struct {
	commentService *services.CommentService
}

// NewCommentController creates a new CommentController
func NewCommentController(commentService *services.CommentService) *CommentController {
	return &CommentController{commentService: commentService}
}

// Index handles GET /posts/{id}/comments
func (cc *CommentController) Index(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "id")
	if err != nil {
		sendError(w, r, err)
		return
	}

	comments, err := cc.commentService.ListForPost(r.Context(), postID)
	if err != nil {
		sendError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, struct {
		StatusCode int               `json:"statusCode"`
		Message    string            `json:"message"`
		Comments   []*models.Comment `json:"comments"`
	}{http.StatusOK, "Comments loaded successfully", comments})
}

// Show handles GET /posts/{id}/comments/{commentId}
func (cc *CommentController) Show(w http.ResponseWriter, r *http.Request) {
	postID, commentID, err := commentPath(r)
	if err != nil {
		sendError(w, r, err)
		return
	}

	comment, err := cc.commentService.Get(r.Context(), postID, commentID)
	if err != nil {
		sendError(w, r, err)
		return
	}
	sendPayload(w, http.StatusOK, "Comment loaded successfully", comment)
}

// Create handles POST /posts/{id}/comments/create
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "id")
	if err != nil {
		sendError(w, r, err)
		return
	}

	var req models.CreateCommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sendError(w, r, err)
		return
	}

	comment, err := cc.commentService.Create(r.Context(), postID, &req)
	if err != nil {
		sendError(w, r, err)
		return
	}
	sendPayload(w, http.StatusCreated, "Comment saved successfully", comment)
}

// Update handles PATCH /posts/{id}/comments/update/{commentId}
func (cc *CommentController) Update(w http.ResponseWriter, r *http.Request) {
	postID, commentID, err := commentPath(r)
	if err != nil {
		sendError(w, r, err)
		return
	}

	var req models.UpdateCommentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sendError(w, r, err)
		return
	}

	comment, err := cc.commentService.Update(r.Context(), postID, commentID, &req)
	if err != nil {
		sendError(w, r, err)
		return
	}
	sendPayload(w, http.StatusOK, "Comment updated successfully", comment)
}

// Delete handles DELETE /posts/{id}/delete/{commentId}
func (cc *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	postID, commentID, err := commentPath(r)
	if err != nil {
		sendError(w, r, err)
		return
	}

	if err := cc.commentService.Delete(r.Context(), postID, commentID); err != nil {
		sendError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func commentPath(r *http.Request) (int, int, error) {
	postID, err := pathID(r, "id")
	if err != nil {
		return 0, 0, err
	}
	commentID, err := pathID(r, "commentId")
	if err != nil {
		return 0, 0, err
	}
	return postID, commentID, nil
}
