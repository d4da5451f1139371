package controllers

import (
	"net/http"

	"blogstore/app/media"
	"blogstore/app/models"
	"blogstore/app/services"
)

// PostController handles HTTP requests for blog posts
type PostController struct {
	postService *services.PostService
	local       media.Uploader
	cloud       media.Uploader
	maxBytes    int64
}

// NewPostController creates a new PostController. local and cloud back
// the standalone upload endpoints.
func NewPostController(postService *services.PostService, local, cloud media.Uploader, maxBytes int64) *PostController {
	return &PostController{
		postService: postService,
		local:       local,
		cloud:       cloud,
		maxBytes:    maxBytes,
	}
}

// Index handles GET /posts?page&pageSize
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	page, err := queryInt(r, "page", services.DefaultPage)
	if err != nil {
		sendError(w, r, err)
		return
	}
	pageSize, err := queryInt(r, "pageSize", services.DefaultPageSize)
	if err != nil {
		sendError(w, r, err)
		return
	}

	result, err := pc.postService.List(r.Context(), page, pageSize)
	if err != nil {
		sendError(w, r, err)
		return
	}

	sendJSON(w, http.StatusOK, struct {
		StatusCode int    `json:"statusCode"`
		Message    string `json:"message"`
		*services.PostPage
	}{http.StatusOK, "Posts loaded successfully", result})
}

// Show handles GET /posts/{id}
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, r, err)
		return
	}

	post, err := pc.postService.Get(r.Context(), id)
	if err != nil {
		sendError(w, r, err)
		return
	}
	sendPayload(w, http.StatusOK, "Post loaded successfully", post)
}

// Create handles POST /posts/create
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sendError(w, r, err)
		return
	}

	post, err := pc.postService.Create(r.Context(), &req)
	if err != nil {
		sendError(w, r, err)
		return
	}
	sendPayload(w, http.StatusCreated, "Post saved successfully", post)
}

// Update handles PATCH /posts/update/{id}
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, r, err)
		return
	}

	var req models.UpdatePostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		sendError(w, r, err)
		return
	}

	post, err := pc.postService.Update(r.Context(), id, &req)
	if err != nil {
		sendError(w, r, err)
		return
	}
	sendPayload(w, http.StatusOK, "Post updated successfully", post)
}

// Delete handles DELETE /posts/delete/{id}
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, r, err)
		return
	}

	if err := pc.postService.Delete(r.Context(), id); err != nil {
		sendError(w, r, err)
		return
	}
	sendPayload(w, http.StatusOK, "Post and its comments deleted successfully", nil)
}

// UploadLocal handles POST /posts/upload
func (pc *PostController) UploadLocal(w http.ResponseWriter, r *http.Request) {
	pc.upload(w, r, pc.local)
}

// UploadCloud handles POST /posts/cloudUpload
func (pc *PostController) UploadCloud(w http.ResponseWriter, r *http.Request) {
	pc.upload(w, r, pc.cloud)
}

func (pc *PostController) upload(w http.ResponseWriter, r *http.Request, u media.Uploader) {
	asset, err := readAsset(w, r, "cover", pc.maxBytes)
	if err != nil {
		sendError(w, r, err)
		return
	}

	url, err := services.StoreAsset(r.Context(), u, asset, media.Target{Kind: media.KindCover, Origin: origin(r)})
	if err != nil {
		sendError(w, r, err)
		return
	}
	sendJSON(w, http.StatusOK, map[string]string{"cover": url})
}

// UploadCover handles POST /posts/{id}/uploadCover
func (pc *PostController) UploadCover(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		sendError(w, r, err)
		return
	}

	asset, err := readAsset(w, r, "cover", pc.maxBytes)
	if err != nil {
		sendError(w, r, err)
		return
	}

	post, err := pc.postService.AttachCover(r.Context(), id, asset, origin(r))
	if err != nil {
		sendError(w, r, err)
		return
	}
	sendPayload(w, http.StatusOK, "Cover updated successfully", post)
}
