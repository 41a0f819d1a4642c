package app

import (
	"fmt"
	"html"
	"time"

	"github.com/freekieb7/myat/http"
)

const APIPrefix = "/api"

func NotFound() http.NotFound {
	return http.NotFound{}.
		WithAsset(assetNotFound).
		WithAPI(APIPrefix, apiNotFound).
		WithDefault(pageNotFound)
}

const assetNotFoundPage = `<!DOCTYPE html>
<html>
<head>
    <title>Asset Not Found</title>
    <style>
        body { font-family: sans-serif; text-align: center; padding: 50px; }
        h1 { color: #e74c3c; }
    </style>
</head>
<body>
    <h1>404 - Asset Not Found</h1>
    <p>The requested asset <code>%s</code> could not be found.</p>
</body>
</html>`

func assetNotFound(req *http.Request) *http.Response {
	return http.HTML(http.StatusNotFound, fmt.Sprintf(assetNotFoundPage, html.EscapeString(req.Path)))
}

type apiError struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	Status    int    `json:"status"`
	Timestamp string `json:"timestamp"`
}

func apiNotFound(req *http.Request) *http.Response {
	return http.JSON(http.StatusNotFound, apiError{
		Error:     "Not Found",
		Message:   fmt.Sprintf("The API endpoint [%s] %s does not exist.", req.Method, req.Path),
		Status:    http.StatusNotFound,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

const pageNotFoundPage = `<!DOCTYPE html>
<html>
<head>
    <title>Page Not Found</title>
    <style>
        body { font-family: sans-serif; text-align: center; padding: 50px; }
        h1 { color: #2c3e50; }
        a { color: #3498db; text-decoration: none; }
    </style>
</head>
<body>
    <h1>404 - Page Not Found</h1>
    <p>The page you're looking for doesn't exist.</p>
    <a href="/">Go back home</a>
</body>
</html>`

func pageNotFound(req *http.Request) *http.Response {
	return http.HTML(http.StatusNotFound, pageNotFoundPage)
}
