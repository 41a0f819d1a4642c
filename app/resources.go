package app

import (
	"github.com/freekieb7/myat/http"
	"github.com/freekieb7/myat/validation"
)

var (
	userRules = validation.Rules{
		"name":  {"required", "string", "min:2", "max:50"},
		"email": {"required", "string", "max:254"},
		"age":   {"integer", "min:0", "max:150"},
	}

	commentRules = validation.Rules{
		"text":   {"required", "string", "max:500"},
		"author": {"string", "max:50"},
	}
)

type errorResponse struct {
	Error string `json:"error"`
}

func badRequest(message string) *http.Response {
	return http.JSON(http.StatusBadRequest, errorResponse{Error: message})
}

// decodeBody validates a JSON body against rules. A nil response means the
// body is acceptable.
func decodeBody(req *http.Request, rules validation.Rules) (map[string]any, *http.Response) {
	if len(req.Body) == 0 {
		return nil, badRequest("Request body is required")
	}

	data, violations, err := validation.ValidateJSON(req.Body, rules)
	if err != nil {
		return nil, badRequest("Request body must be a JSON object")
	}
	if !violations.IsEmpty() {
		return nil, http.JSON(http.StatusUnprocessableEntity, violations)
	}

	return data, nil
}

func getUser(req *http.Request) *http.Response {
	id, ok := req.Param("id")
	if !ok {
		return badRequest("Missing user ID")
	}

	return http.JSON(http.StatusOK, map[string]string{
		"id":    id,
		"name":  "User " + id,
		"email": "user" + id + "@example.com",
	})
}

func currentUser(req *http.Request) *http.Response {
	return http.JSON(http.StatusOK, map[string]string{
		"id":    "current",
		"name":  "Current User",
		"email": "me@example.com",
		"note":  "This is the static /users/me route",
	})
}

func createUser(req *http.Request) *http.Response {
	data, res := decodeBody(req, userRules)
	if res != nil {
		return res
	}

	return http.JSON(http.StatusCreated, map[string]any{
		"message":      "User created successfully",
		"receivedData": data,
	})
}

func updateUser(req *http.Request) *http.Response {
	id, ok := req.Param("id")
	if !ok {
		return badRequest("Missing user ID")
	}

	data, res := decodeBody(req, userRules)
	if res != nil {
		return res
	}

	return http.JSON(http.StatusOK, map[string]any{
		"message":      "User " + id + " updated successfully",
		"receivedData": data,
	})
}

func patchUser(req *http.Request) *http.Response {
	id, ok := req.Param("id")
	if !ok {
		return badRequest("Missing user ID")
	}

	partial := make(validation.Rules, len(userRules))
	for field, rules := range userRules {
		partial[field] = withoutRequired(rules)
	}

	data, res := decodeBody(req, partial)
	if res != nil {
		return res
	}

	return http.JSON(http.StatusOK, map[string]any{
		"message":      "User " + id + " partially updated",
		"receivedData": data,
	})
}

func deleteUser(req *http.Request) *http.Response {
	id, ok := req.Param("id")
	if !ok {
		return badRequest("Missing user ID")
	}

	return http.JSON(http.StatusOK, map[string]string{
		"message": "User " + id + " deleted successfully",
	})
}

const userMethods = "GET, PUT, PATCH, DELETE, HEAD, OPTIONS"

func userOptions(req *http.Request) *http.Response {
	return http.Text(http.StatusOK, "").
		WithHeader("Allow", userMethods).
		WithHeader("Access-Control-Allow-Methods", userMethods).
		WithHeader("Access-Control-Allow-Origin", "*")
}

func headUser(req *http.Request) *http.Response {
	id, ok := req.Param("id")
	if !ok {
		return http.NewResponse(http.StatusBadRequest)
	}

	return http.NewResponse(http.StatusOK).
		WithHeader("X-User-Exists", "true").
		WithHeader("X-User-ID", id)
}

func getComment(req *http.Request) *http.Response {
	postID, ok1 := req.Param("postId")
	commentID, ok2 := req.Param("commentId")
	if !ok1 || !ok2 {
		return badRequest("Missing parameters")
	}

	return http.JSON(http.StatusOK, map[string]string{
		"postId":    postID,
		"commentId": commentID,
		"author":    "Anonymous",
		"text":      "This is comment " + commentID + " on post " + postID,
	})
}

func createComment(req *http.Request) *http.Response {
	postID, ok := req.Param("postId")
	if !ok {
		return badRequest("Missing post ID")
	}

	data, res := decodeBody(req, commentRules)
	if res != nil {
		return res
	}

	return http.JSON(http.StatusCreated, map[string]any{
		"message":      "Comment created on post " + postID,
		"receivedData": data,
	})
}

type product struct {
	Category  string  `json:"category"`
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
}

func getProduct(req *http.Request) *http.Response {
	category, ok1 := req.Param("category")
	productID, ok2 := req.Param("productId")
	if !ok1 || !ok2 {
		return badRequest("Missing parameters")
	}

	return http.JSON(http.StatusOK, product{
		Category:  category,
		ProductID: productID,
		Name:      "Product " + productID,
		Price:     99.99,
	})
}

func withoutRequired(rules []string) []string {
	out := make([]string, 0, len(rules))
	for _, rule := range rules {
		if rule != "required" {
			out = append(out, rule)
		}
	}
	return out
}
