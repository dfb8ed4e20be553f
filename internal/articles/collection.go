// Package articles holds the client-side mirror of the server's article list.
package articles

import "github.com/jhalter/articles-client/internal/api"

// Collection is an ordered list of articles in server response order.
// Ids always come from the server; the collection never invents one.
type Collection struct {
	items []api.Article
}

// Replace swaps the whole collection for the server's latest list.
func (c *Collection) Replace(items []api.Article) {
	c.items = make([]api.Article, len(items))
	copy(c.items, items)
}

// Append adds a newly created article at the end.
func (c *Collection) Append(a api.Article) {
	c.items = append(c.items, a)
}

// Merge overwrites the fields of the article with the given id with the
// non-empty fields of a. It returns false, changing nothing, when no
// article has that id.
func (c *Collection) Merge(id int, a api.Article) bool {
	for i := range c.items {
		if c.items[i].ID != id {
			continue
		}
		if a.Title != "" {
			c.items[i].Title = a.Title
		}
		if a.Text != "" {
			c.items[i].Text = a.Text
		}
		if a.Topic != "" {
			c.items[i].Topic = a.Topic
		}
		return true
	}
	return false
}

// Remove drops the article with the given id, keeping the order of the rest.
func (c *Collection) Remove(id int) bool {
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Find returns the article with the given id.
func (c *Collection) Find(id int) (api.Article, bool) {
	for _, a := range c.items {
		if a.ID == id {
			return a, true
		}
	}
	return api.Article{}, false
}

// All returns a copy of the articles in order.
func (c *Collection) All() []api.Article {
	out := make([]api.Article, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Collection) Len() int {
	return len(c.items)
}
