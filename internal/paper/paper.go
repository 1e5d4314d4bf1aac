// Package paper holds the bibliographic record model shared by every stage of
// the review pipeline. A Paper is created when a search backend returns it and
// lives in memory for the duration of one review run; the only place it is
// persisted is the optional fetch cache.
package paper

import "strings"

type Author struct {
	Name     string `json:"name"`
	AuthorID string `json:"author_id,omitempty"`
}

// ExternalIDs carries the identifiers other databases know a paper by. Each
// field may independently be empty.
type ExternalIDs struct {
	DOI   string `json:"doi,omitempty"`
	PMID  string `json:"pmid,omitempty"`
	ArXiv string `json:"arxiv,omitempty"`
	S2ID  string `json:"s2_id,omitempty"`
}

// Paper is one bibliographic work. ID is unique within a run and is the sole
// lookup key downstream of deduplication.
type Paper struct {
	ID               string      `json:"paper_id"`
	Title            string      `json:"title"`
	Abstract         string      `json:"abstract,omitempty"`
	Year             *int        `json:"year,omitempty"`
	PublicationDate  string      `json:"publication_date,omitempty"`
	Authors          []Author    `json:"authors,omitempty"`
	Venue            string      `json:"venue,omitempty"`
	CitationCount    int         `json:"citation_count"`
	ReferenceCount   int         `json:"reference_count"`
	ExternalIDs      ExternalIDs `json:"external_ids"`
	URL              string      `json:"url,omitempty"`
	PublicationTypes []string    `json:"publication_types,omitempty"`
}

func (p Paper) HasAbstract() bool {
	return strings.TrimSpace(p.Abstract) != ""
}

func (p Paper) AbstractWordCount() int {
	if !p.HasAbstract() {
		return 0
	}
	return len(strings.Fields(p.Abstract))
}

// Text returns "title abstract" (title alone when the abstract is missing),
// the form every scorer and classifier works on.
func (p Paper) Text() string {
	if p.HasAbstract() {
		return strings.TrimSpace(p.Title + " " + p.Abstract)
	}
	return p.Title
}

type SearchResult struct {
	Papers []Paper `json:"papers"`
	Total  int     `json:"total"`
	Offset int     `json:"offset"`
}

// DedupeByID removes papers whose ID was already seen, first occurrence wins.
// This is the cheap union dedup used between search sources; the screening
// pipeline applies the stronger identifier/title dedup afterwards.
func DedupeByID(papers []Paper) []Paper {
	seen := map[string]struct{}{}
	out := make([]Paper, 0, len(papers))
	for _, p := range papers {
		if _, ok := seen[p.ID]; ok {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out
}
