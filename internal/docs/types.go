package docs

import "sort"

// Topic is one documentation entry from the catalog.
type Topic struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Type      string   `json:"type"`
	Priority  string   `json:"priority"`
	Path      string   `json:"path"`
	ReadWhen  string   `json:"read_when"`
	ReadOrder int      `json:"read_order"`
	UseCases  []string `json:"use_cases"`
	Triggers  []string `json:"triggers"`
	Warnings  []string `json:"warnings"`
	NextSteps []string `json:"next_steps"`
}

// Catalog is the topics.json document.
type Catalog struct {
	Version     string  `json:"version"`
	LastUpdated string  `json:"last_updated"`
	BaseURL     string  `json:"base_url"`
	Topics      []Topic `json:"topics"`
}

// Find returns the topic with the given ID.
func (c *Catalog) Find(id string) (Topic, bool) {
	for _, t := range c.Topics {
		if t.ID == id {
			return t, true
		}
	}
	return Topic{}, false
}

// ByPriority returns the topics with the given priority, sorted by read
// order. Topics without a read order sort last.
func (c *Catalog) ByPriority(priority string) []Topic {
	var out []Topic
	for _, t := range c.Topics {
		if t.Priority == priority {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return readOrder(out[i]) < readOrder(out[j])
	})
	return out
}

// CountByType returns how many topics have the given type.
func (c *Catalog) CountByType(typ string) int {
	n := 0
	for _, t := range c.Topics {
		if t.Type == typ {
			n++
		}
	}
	return n
}

func readOrder(t Topic) int {
	if t.ReadOrder == 0 {
		return 999
	}
	return t.ReadOrder
}

// Document is a fetched topic with its markdown content.
type Document struct {
	Topic   Topic
	Content string
}
