package routes

import (
	"context"
	"errors"
	"net/http"
	"time"

	"blogstore/app/auth"
	"blogstore/app/config"
	"blogstore/app/controllers"
	"blogstore/app/media"
	"blogstore/app/middleware"
	"blogstore/app/repositories"
	"blogstore/app/services"
	"blogstore/pkg/logger"

	"github.com/gorilla/mux"
)

// Media groups the upload backends the routes are served with. Local and
// Cloud back the standalone upload endpoints; Attach is the configured
// backend used when a file is attached to a post or a user.
type Media struct {
	Local  media.Uploader
	Cloud  media.Uploader
	Attach media.Uploader
}

// NewMedia builds the upload backends described by cfg. Every backend is
// bounded by cfg.UploadTimeout. Without a bucket the cloud endpoints
// answer with an upload error instead of failing at startup.
func NewMedia(ctx context.Context, cfg *config.Config) (Media, error) {
	local, err := media.NewLocalUploader(cfg.PublicDir, cfg.PublicBaseURL)
	if err != nil {
		return Media{}, err
	}

	var cloud media.Uploader = media.Unavailable{Reason: "cloud storage is not configured"}
	if cfg.CloudEnabled() {
		s3Uploader, err := media.NewS3Uploader(ctx, cfg.S3())
		if err != nil {
			return Media{}, err
		}
		cloud = s3Uploader
	}

	m := Media{
		Local: media.WithTimeout(local, cfg.UploadTimeout),
		Cloud: media.WithTimeout(cloud, cfg.UploadTimeout),
	}
	m.Attach = m.Local
	if cfg.MediaBackend == config.BackendS3 {
		m.Attach = m.Cloud
	}
	return m, nil
}

// Deps is everything SetupRoutes wires together.
type Deps struct {
	Store          *repositories.Store
	Tokens         *auth.Tokens
	Media          Media
	PublicDir      string
	MaxUploadBytes int64
	DefaultAvatar  string
}

// SetupRoutes defines the application's routes and returns a router.
func SetupRoutes(d Deps) *mux.Router {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(controllers.NotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(controllers.MethodNotAllowed)

	// Apply global middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.ContentTypeJSON)

	postService := services.NewPostService(d.Store.Posts, d.Store.Comments, d.Store.Users, d.Media.Attach)
	commentService := services.NewCommentService(d.Store.Comments, d.Store.Posts, d.Store.Users)
	userService := services.NewUserService(d.Store.Users, d.Tokens, d.Media.Attach, d.DefaultAvatar)

	postController := controllers.NewPostController(postService, d.Media.Local, d.Media.Cloud, d.MaxUploadBytes)
	commentController := controllers.NewCommentController(commentService)
	userController := controllers.NewUserController(userService, postService, d.Media.Cloud, d.MaxUploadBytes)

	// Locally uploaded files
	if d.PublicDir != "" {
		files := http.StripPrefix("/public/", http.FileServer(http.Dir(d.PublicDir)))
		router.PathPrefix("/public/").Handler(middleware.StaticAssets(files))
	}

	// Routes stay on the root router: mux subrouters answer method
	// mismatches with 404.

	// Posts
	router.HandleFunc("/posts", postController.Index).Methods("GET")
	router.HandleFunc("/posts/create", postController.Create).Methods("POST")
	router.HandleFunc("/posts/upload", postController.UploadLocal).Methods("POST")
	router.HandleFunc("/posts/cloudUpload", postController.UploadCloud).Methods("POST")
	router.HandleFunc("/posts/update/{id:[0-9]+}", postController.Update).Methods("PATCH")
	router.HandleFunc("/posts/delete/{id:[0-9]+}", postController.Delete).Methods("DELETE")
	router.HandleFunc("/posts/{id:[0-9]+}", postController.Show).Methods("GET")
	router.HandleFunc("/posts/{id:[0-9]+}/uploadCover", postController.UploadCover).Methods("POST")

	// Comments
	router.HandleFunc("/posts/{id:[0-9]+}/comments", commentController.Index).Methods("GET")
	router.HandleFunc("/posts/{id:[0-9]+}/comments/create", commentController.Create).Methods("POST")
	router.HandleFunc("/posts/{id:[0-9]+}/comments/{commentId:[0-9]+}", commentController.Show).Methods("GET")
	router.HandleFunc("/posts/{id:[0-9]+}/comments/update/{commentId:[0-9]+}", commentController.Update).Methods("PATCH")
	router.HandleFunc("/posts/{id:[0-9]+}/delete/{commentId:[0-9]+}", commentController.Delete).Methods("DELETE")

	// Users
	router.HandleFunc("/register", userController.Register).Methods("POST")
	router.HandleFunc("/login", userController.Login).Methods("POST")
	router.HandleFunc("/users", userController.Index).Methods("GET")
	router.HandleFunc("/users/create", userController.Register).Methods("POST")
	router.HandleFunc("/users/{id:[0-9]+}", userController.Show).Methods("GET")
	router.HandleFunc("/users/{id:[0-9]+}/update", userController.Update).Methods("PATCH")
	router.HandleFunc("/users/{id:[0-9]+}/posts", userController.Posts).Methods("GET")
	router.HandleFunc("/user/avatarUpload", userController.AvatarUpload).Methods("POST")
	router.HandleFunc("/user/{id:[0-9]+}/editAvatar", userController.EditAvatar).Methods("POST")

	me := middleware.Authenticate(d.Tokens)(middleware.RequireAuth(http.HandlerFunc(userController.Me)))
	router.Handle("/me", me).Methods("GET")

	return router
}

// StartServer serves handler on addr until ctx is cancelled, then waits
// up to grace for in-flight requests to finish.
func StartServer(ctx context.Context, addr string, handler http.Handler, grace time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "grace", grace.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
