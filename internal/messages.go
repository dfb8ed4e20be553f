package internal

import "github.com/jhalter/articles-client/internal/api"

// Results of API requests. Each is produced by exactly one command and
// applied by one handler on the event loop.

type loginResultMsg struct {
	res *api.LoginResponse
	err error
}

type articlesResultMsg struct {
	res *api.ArticlesResponse
	err error
}

type articleCreatedMsg struct {
	res *api.ArticleResponse
	err error
}

type articleUpdatedMsg struct {
	id  int
	res *api.ArticleResponse
	err error
}

type articleDeletedMsg struct {
	id  int
	res *api.MessageResponse
	err error
}

// Intents emitted by screens.

type LoginSubmittedMsg struct {
	Username string
	Password string
}

// ArticleSubmittedMsg carries the form draft. ID is 0 in create mode.
type ArticleSubmittedMsg struct {
	ID     int
	Fields api.ArticleFields
}

type ArticleSelectedMsg struct {
	ID int
}

type ArticleEditCancelledMsg struct{}

type ArticleDeleteRequestedMsg struct {
	ID int
}

type ArticlesRefreshMsg struct{}
