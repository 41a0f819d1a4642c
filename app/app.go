// Package app holds the demo site served by the myat binary: a handful of
// text, HTML and JSON routes, user and comment resources with path
// parameters, and the embedded static assets.
package app

import (
	"embed"
	"io/fs"
	"log/slog"

	"github.com/freekieb7/myat/config"
	"github.com/freekieb7/myat/http"
)

const Version = "1.0.0"

//go:embed assets
var embedded embed.FS

// Assets returns the embedded static files rooted at the assets directory.
func Assets() fs.FS {
	sub, err := fs.Sub(embedded, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

// Register wires the demo routes, middleware and not-found pages into router.
func Register(router *http.Router, auth config.AuthConfig, logger *slog.Logger) {
	apiLogger := APILogger(logger)

	router.Use(RequestID(), AccessLog(logger))
	router.NotFound = NotFound()

	router.GET("/", home)
	router.GET("/hello", hello)
	router.GET("/coding", coding)
	router.GET("/kazu", kazu)
	router.GET("/html", htmlPage)

	router.Group(APIPrefix, func(api *http.Router) {
		api.GET("/status", apiStatus)
		api.GET("/protected", protected, RequireAuth(auth))
		api.GET("/data", apiData)
	}, apiLogger)

	router.GET("/users/:id", getUser, apiLogger)
	router.PUT("/users/:id", updateUser, apiLogger)
	router.PATCH("/users/:id", patchUser, apiLogger)
	router.DELETE("/users/:id", deleteUser, apiLogger)
	router.HEAD("/users/:id", headUser)
	router.OPTIONS("/users/:id", userOptions)
	router.POST("/users", createUser, apiLogger)
	router.GET("/users/me", currentUser, apiLogger)

	router.GET("/posts/:postId/comments/:commentId", getComment, apiLogger)
	router.POST("/posts/:postId/comments", createComment, apiLogger)

	router.GET("/products/:category/:productId", getProduct)
}
