package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrUnauthorized is returned when the server rejects the token or the credentials.
var ErrUnauthorized = errors.New("unauthorized")

// Credentials are posted to the login endpoint.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Article is a user-authored record. ID is assigned by the server.
type Article struct {
	ID    int    `json:"article_id"`
	Title string `json:"title"`
	Text  string `json:"text"`
	Topic string `json:"topic"`
}

// Fields returns the user-editable part of the article.
func (a Article) Fields() ArticleFields {
	return ArticleFields{Title: a.Title, Text: a.Text, Topic: a.Topic}
}

// ArticleFields is the request body for create and update.
type ArticleFields struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Topic string `json:"topic"`
}

// Complete reports whether every field has something other than whitespace.
func (f ArticleFields) Complete() bool {
	return !Blank(f.Title) && !Blank(f.Text) && !Blank(f.Topic)
}

// Blank reports whether s is empty or only whitespace. Form validation and
// Complete share it so they never disagree.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type ArticlesResponse struct {
	Message  string    `json:"message"`
	Articles []Article `json:"articles"`
}

type ArticleResponse struct {
	Message string  `json:"message"`
	Article Article `json:"article"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Is lets errors.Is(err, ErrUnauthorized) match a 401 response.
func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

// ServerMessage extracts the message the server sent with a failed response, if any.
func ServerMessage(err error) string {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Message
	}
	return ""
}
