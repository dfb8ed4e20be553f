// Package apitest provides an in-memory stand-in for the articles API.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/gorilla/mux"
	"github.com/jhalter/articles-client/internal/api"
)

// Route keys for Count and Fail.
const (
	RouteLogin  = "POST /api/login"
	RouteList   = "GET /api/articles"
	RouteCreate = "POST /api/articles"
	RouteUpdate = "PUT /api/articles/{article_id:[0-9]+}"
	RouteDelete = "DELETE /api/articles/{article_id:[0-9]+}"
)

// Server is a fake articles API backed by httptest.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	users    map[string]string
	token    string
	articles []api.Article
	nextID   int
	requests map[string]int
	failNext map[string]int
}

// NewServer starts a fake API with a single user and the given seed articles.
func NewServer(username, password, token string, seed ...api.Article) *Server {
	s := &Server{
		users:    map[string]string{username: password},
		token:    token,
		requests: make(map[string]int),
		failNext: make(map[string]int),
	}
	for _, a := range seed {
		s.articles = append(s.articles, a)
		if a.ID >= s.nextID {
			s.nextID = a.ID
		}
	}

	r := mux.NewRouter()
	r.HandleFunc("/api/login", s.handleLogin).Methods(http.MethodPost)
	authed := r.PathPrefix("/api/articles").Subrouter()
	authed.Use(s.requireToken)
	authed.HandleFunc("", s.handleList).Methods(http.MethodGet)
	authed.HandleFunc("", s.handleCreate).Methods(http.MethodPost)
	authed.HandleFunc("/{article_id:[0-9]+}", s.handleUpdate).Methods(http.MethodPut)
	authed.HandleFunc("/{article_id:[0-9]+}", s.handleDelete).Methods(http.MethodDelete)
	r.Use(s.countAndFail)

	s.Server = httptest.NewServer(r)
	return s
}

// Articles returns a copy of the server-side collection.
func (s *Server) Articles() []api.Article {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.Article, len(s.articles))
	copy(out, s.articles)
	return out
}

// Count returns how many requests hit the route.
func (s *Server) Count(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[route]
}

// Fail makes the next request to route answer with status.
func (s *Server) Fail(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext[route] = status
}

// ExpireToken makes every authenticated request fail with 401.
func (s *Server) ExpireToken() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
}

func (s *Server) countAndFail(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tmpl := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if t, err := route.GetPathTemplate(); err == nil {
				tmpl = t
			}
		}
		key := r.Method + " " + tmpl

		s.mu.Lock()
		s.requests[key]++
		status, fail := s.failNext[key]
		delete(s.failNext, key)
		s.mu.Unlock()

		if fail {
			writeJSON(w, status, api.MessageResponse{Message: "Something went wrong"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		valid := s.token != "" && r.Header.Get("Authorization") == s.token
		s.mu.Unlock()
		if !valid {
			writeJSON(w, http.StatusUnauthorized, api.MessageResponse{Message: "Token expired"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds api.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, api.MessageResponse{Message: "Malformed body"})
		return
	}

	s.mu.Lock()
	pass, ok := s.users[creds.Username]
	token := s.token
	s.mu.Unlock()

	if !ok || pass != creds.Password {
		writeJSON(w, http.StatusUnauthorized, api.MessageResponse{Message: "Invalid credentials"})
		return
	}
	writeJSON(w, http.StatusOK, api.LoginResponse{
		Message: fmt.Sprintf("Welcome, %s!", creds.Username),
		Token:   token,
	})
}

func (s *Server) handleList(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, api.ArticlesResponse{
		Message:  "Here are your articles",
		Articles: s.Articles(),
	})
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var fields api.ArticleFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil || !fields.Complete() {
		writeJSON(w, http.StatusUnprocessableEntity, api.MessageResponse{Message: "Title, text and topic are required"})
		return
	}

	s.mu.Lock()
	s.nextID++
	a := api.Article{ID: s.nextID, Title: fields.Title, Text: fields.Text, Topic: fields.Topic}
	s.articles = append(s.articles, a)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, api.ArticleResponse{
		Message: fmt.Sprintf("Well done. Great article about %s!", a.Topic),
		Article: a,
	})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["article_id"])
	var fields api.ArticleFields
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil || !fields.Complete() {
		writeJSON(w, http.StatusUnprocessableEntity, api.MessageResponse{Message: "Title, text and topic are required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.articles {
		if s.articles[i].ID == id {
			s.articles[i].Title = fields.Title
			s.articles[i].Text = fields.Text
			s.articles[i].Topic = fields.Topic
			writeJSON(w, http.StatusOK, api.ArticleResponse{
				Message: fmt.Sprintf("Nice update to article %d!", id),
				Article: s.articles[i],
			})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, api.MessageResponse{Message: fmt.Sprintf("Article %d not found", id)})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["article_id"])

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.articles {
		if s.articles[i].ID == id {
			s.articles = append(s.articles[:i], s.articles[i+1:]...)
			writeJSON(w, http.StatusOK, api.MessageResponse{
				Message: fmt.Sprintf("Article %d was deleted", id),
			})
			return
		}
	}
	writeJSON(w, http.StatusNotFound, api.MessageResponse{Message: fmt.Sprintf("Article %d not found", id)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
