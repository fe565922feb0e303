// Package kg implements the in-memory movie knowledge graph: the store that
// holds nodes and edges, the resolver that maps titles and names to canonical
// node ids, the traversal primitives, the shared-neighbor similarity scorer
// and the query facade that composes them into the public query operations.
//
// The graph is loaded once from a persisted artifact and is read-only for the
// lifetime of the process. All query paths are pure functions of the loaded
// store, so any number of queries may run concurrently without locking.
package kg

import (
	"fmt"
	"strconv"
)

// NodeType discriminates the four kinds of nodes in the graph.
type NodeType string

const (
	NodeMovie       NodeType = "movie"
	NodePerson      NodeType = "person"
	NodeGenre       NodeType = "genre"
	NodeCertificate NodeType = "certificate"
)

// Valid reports whether t is one of the four known node types.
func (t NodeType) Valid() bool {
	switch t {
	case NodeMovie, NodePerson, NodeGenre, NodeCertificate:
		return true
	}
	return false
}

// Relation is a labeled directed edge type.
type Relation string

const (
	RelDirected       Relation = "DIRECTED"
	RelActedIn        Relation = "ACTED_IN"
	RelHasGenre       Relation = "HAS_GENRE"
	RelHasCertificate Relation = "HAS_CERTIFICATE"
)

// Valid reports whether r is one of the four known relations.
func (r Relation) Valid() bool {
	switch r {
	case RelDirected, RelActedIn, RelHasGenre, RelHasCertificate:
		return true
	}
	return false
}

// NodeID is the canonical string key of a node. It is an opaque identifier:
// construct it only through MovieID, PersonID, GenreID and CertificateID so
// that id formation cannot drift out of sync with the resolver's rules.
type NodeID string

// MovieID builds the canonical id for a movie. Two movies sharing a title are
// distinguished by year; a missing year is rendered as "?" so the id stays
// unique per (title, year) pair.
func MovieID(title string, year *int) NodeID {
	label := "?"
	if year != nil {
		label = strconv.Itoa(*year)
	}
	return NodeID(fmt.Sprintf("movie::%s (%s)", title, label))
}

// PersonID builds the canonical id for a person node.
func PersonID(name string) NodeID {
	return NodeID("person::" + name)
}

// GenreID builds the canonical id for a genre node.
func GenreID(name string) NodeID {
	return NodeID("genre::" + name)
}

// CertificateID builds the canonical id for a certificate node.
func CertificateID(name string) NodeID {
	return NodeID("certificate::" + name)
}

// Node is a tagged record covering the four node kinds. Movie fields are only
// meaningful when Type == NodeMovie; Name is only meaningful for the other
// three kinds. Optional numeric attributes are pointers: nil means the source
// data did not carry the value.
type Node struct {
	ID   NodeID   `json:"id"`
	Type NodeType `json:"type"`

	// Movie attributes.
	Title           string   `json:"title,omitempty"`
	Year            *int     `json:"year,omitempty"`
	IMDBRating      *float64 `json:"imdb_rating,omitempty"`
	Metascore       *float64 `json:"metascore,omitempty"`
	DurationMinutes *float64 `json:"duration_minutes,omitempty"`
	Certificate     string   `json:"certificate,omitempty"`
	GenrePrimary    string   `json:"genre_primary,omitempty"`

	// Person / genre / certificate attribute.
	Name string `json:"name,omitempty"`
}

// Edge is a single directed, labeled edge. The graph is a multigraph:
// repeated (relation, source, target) triples are permitted in the artifact
// but carry no extra meaning, so readers de-duplicate.
type Edge struct {
	Relation Relation `json:"relation"`
	Source   NodeID   `json:"source"`
	Target   NodeID   `json:"target"`
}
