package api

import (
	"net/http"

	"github.com/ADITYAK333/satellite-tracker/internal/bodies"
)

type bodiesResponse struct {
	Count    int          `json:"count"`
	CacheHit bool         `json:"cache_hit"`
	Types    []string     `json:"types"`
	Bodies   []bodies.Row `json:"bodies"`
}

func bodiesHandler(t Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, hit := t.Bodies(r.Context())
		rows := bodies.Rows(list)
		types := bodies.Types(rows)
		if types == nil {
			types = []string{}
		}
		matched := bodies.FilterRows(rows, r.URL.Query().Get("type"))
		if matched == nil {
			matched = []bodies.Row{}
		}
		writeJSON(w, http.StatusOK, bodiesResponse{
			Count:    len(matched),
			CacheHit: hit,
			Types:    types,
			Bodies:   matched,
		})
	}
}

func bodyHandler(t Tracker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := r.PathValue("name")
		list, _ := t.Bodies(r.Context())
		b, ok := bodies.Find(list, name)
		if !ok {
			writeError(w, http.StatusNotFound, "body not found: "+name)
			return
		}
		writeJSON(w, http.StatusOK, b)
	}
}
