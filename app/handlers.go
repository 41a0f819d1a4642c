package app

import (
	"github.com/freekieb7/myat/http"
)

const welcomePage = `<!DOCTYPE html>
<html>
<head>
    <title>MyAT Server</title>
</head>
<body>
    <h1>Welcome to MyAT!</h1>
    <p>This is an HTML response from the MyAT HTTP server.</p>
</body>
</html>`

func home(req *http.Request) *http.Response {
	return http.Text(http.StatusOK, "Hello from the MyAT HTTP server.\n")
}

func hello(req *http.Request) *http.Response {
	return http.Text(http.StatusOK, "Hello, World!\n")
}

func coding(req *http.Request) *http.Response {
	return http.Text(http.StatusOK, "ABSOLUTE CODING!!!\n")
}

func kazu(req *http.Request) *http.Response {
	return http.Text(http.StatusOK, "Hello Kazu-kun!\n").
		WithHeader("X-Custom-Header", "Kazu-specific").
		WithHeader("X-Greeting", "Hello!")
}

func htmlPage(req *http.Request) *http.Response {
	return http.HTML(http.StatusOK, welcomePage)
}

type statusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Server  string `json:"server"`
}

func apiStatus(req *http.Request) *http.Response {
	return http.JSON(http.StatusOK, statusResponse{
		Status:  "ok",
		Version: Version,
		Server:  "MyAT",
	})
}

func protected(req *http.Request) *http.Response {
	return http.JSON(http.StatusOK, map[string]string{
		"message": "You have access to protected data!",
		"user":    SubjectFrom(req),
	})
}

func apiData(req *http.Request) *http.Response {
	return http.JSON(http.StatusOK, map[string]any{
		"data":  []int{1, 2, 3, 4, 5},
		"count": 5,
	}).
		WithHeader("X-API-Version", "1.0").
		WithHeader("X-Rate-Limit", "100").
		WithHeader("Cache-Control", "no-cache")
}
