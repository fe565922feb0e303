// Package build constructs the knowledge-graph artifact from the raw IMDb
// CSV datasets. Rows describing the same (title, year) pair, within one
// file or across files, merge into a single movie node with averaged
// numeric attributes; people, genres and certificates become shared nodes
// linked by typed edges.
package build

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/StephenLER/MAP/pkg/kg"
)

// Summary reports what the builder produced.
type Summary struct {
	SourceRows int
	Movies     int
	People     int
	Genres     int
	Certs      int
	Edges      int
}

// Build assembles nodes and edges from the merged dataset rows. Output
// order is deterministic for a given input order: movies in first-encounter
// order of their (title, year) group, shared entities in first-encounter
// order overall.
func Build(rows []Row) ([]kg.Node, []kg.Edge, Summary) {
	type group struct {
		title string
		year  *int
		rows  []Row
	}

	groups := make(map[kg.NodeID]*group)
	var groupOrder []kg.NodeID
	for _, row := range rows {
		if row.Title == "" {
			continue
		}
		id := kg.MovieID(row.Title, row.Year)
		g, ok := groups[id]
		if !ok {
			g = &group{title: row.Title, year: row.Year}
			groups[id] = g
			groupOrder = append(groupOrder, id)
		}
		g.rows = append(g.rows, row)
	}

	var (
		nodes []kg.Node
		edges []kg.Edge
		seen  = make(map[kg.NodeID]bool)
	)

	addShared := func(id kg.NodeID, t kg.NodeType, name string) {
		if !seen[id] {
			seen[id] = true
			nodes = append(nodes, kg.Node{ID: id, Type: t, Name: name})
		}
	}

	counts := Summary{SourceRows: len(rows)}
	for _, movieID := range groupOrder {
		g := groups[movieID]
		seen[movieID] = true
		counts.Movies++

		nodes = append(nodes, kg.Node{
			ID:              movieID,
			Type:            kg.NodeMovie,
			Title:           g.title,
			Year:            g.year,
			IMDBRating:      mean(g.rows, func(r Row) *float64 { return r.IMDBRating }),
			Metascore:       mean(g.rows, func(r Row) *float64 { return r.Metascore }),
			DurationMinutes: mean(g.rows, func(r Row) *float64 { return r.DurationMinutes }),
			Certificate:     mostCommonNonempty(g.rows, func(r Row) string { return r.Certificate }),
			GenrePrimary:    mostCommonNonempty(g.rows, func(r Row) string { return r.Genre }),
		})

		for _, director := range uniqueValues(g.rows, func(r Row) string { return r.Director }) {
			personID := kg.PersonID(director)
			addShared(personID, kg.NodePerson, director)
			edges = append(edges, kg.Edge{Relation: kg.RelDirected, Source: personID, Target: movieID})
		}

		for _, rawCast := range uniqueValues(g.rows, func(r Row) string { return r.StarCast }) {
			for _, actor := range SplitStarCast(rawCast) {
				personID := kg.PersonID(actor)
				addShared(personID, kg.NodePerson, actor)
				edges = append(edges, kg.Edge{Relation: kg.RelActedIn, Source: personID, Target: movieID})
			}
		}

		for _, genre := range uniqueValues(g.rows, func(r Row) string { return r.Genre }) {
			genreID := kg.GenreID(genre)
			addShared(genreID, kg.NodeGenre, genre)
			edges = append(edges, kg.Edge{Relation: kg.RelHasGenre, Source: movieID, Target: genreID})
		}

		for _, cert := range uniqueValues(g.rows, func(r Row) string { return r.Certificate }) {
			certID := kg.CertificateID(cert)
			addShared(certID, kg.NodeCertificate, cert)
			edges = append(edges, kg.Edge{Relation: kg.RelHasCertificate, Source: movieID, Target: certID})
		}
	}

	for _, n := range nodes {
		switch n.Type {
		case kg.NodePerson:
			counts.People++
		case kg.NodeGenre:
			counts.Genres++
		case kg.NodeCertificate:
			counts.Certs++
		}
	}
	counts.Edges = len(edges)

	return nodes, edges, counts
}

// mean averages the present values of one numeric column across a movie's
// source rows. All-absent yields nil.
func mean(rows []Row, get func(Row) *float64) *float64 {
	var values []float64
	for _, r := range rows {
		if v := get(r); v != nil {
			values = append(values, *v)
		}
	}
	if len(values) == 0 {
		return nil
	}
	m := stat.Mean(values, nil)
	return &m
}

// mostCommonNonempty picks the most frequent non-empty value of a string
// column, breaking frequency ties lexicographically.
func mostCommonNonempty(rows []Row, get func(Row) string) string {
	counts := make(map[string]int)
	for _, r := range rows {
		if v := get(r); v != "" {
			counts[v]++
		}
	}
	if len(counts) == 0 {
		return ""
	}

	values := make([]string, 0, len(counts))
	for v := range counts {
		values = append(values, v)
	}
	sort.Strings(values)

	best := values[0]
	for _, v := range values[1:] {
		if counts[v] > counts[best] {
			best = v
		}
	}
	return best
}

// uniqueValues returns the distinct non-empty values of a string column in
// first-encounter order.
func uniqueValues(rows []Row, get func(Row) string) []string {
	var (
		out  []string
		seen = make(map[string]bool)
	)
	for _, r := range rows {
		v := get(r)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
