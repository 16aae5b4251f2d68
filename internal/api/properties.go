package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/ADITYAK333/satellite-tracker/internal/property"
)

const maxPropertyBody = 64 << 10

type propertyView struct {
	property.Property
	Line string `json:"line"`
}

type propertyRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
	Price    string `json:"price"`
	Size     string `json:"size"`
}

func viewOf(p property.Property) propertyView {
	return propertyView{Property: p, Line: property.Format(p)}
}

func listPropertiesHandler(repo property.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := repo.List(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "listing properties failed")
			return
		}
		views := make([]propertyView, 0, len(list))
		for _, p := range list {
			views = append(views, viewOf(p))
		}
		writeJSON(w, http.StatusOK, map[string]any{"count": len(views), "properties": views})
	}
}

func addPropertyHandler(repo property.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req propertyRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPropertyBody)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		form := property.Form{Name: req.Name, Location: req.Location, Price: req.Price, Size: req.Size}
		p, err := form.Submit(r.Context(), repo)
		switch {
		case errors.Is(err, property.ErrIncompleteForm):
			writeError(w, http.StatusBadRequest, err.Error())
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "adding property failed")
			return
		}
		writeJSON(w, http.StatusCreated, viewOf(p))
	}
}

func deletePropertyHandler(repo property.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil || id < 1 {
			writeError(w, http.StatusBadRequest, "id must be a positive integer")
			return
		}
		var form property.Form
		form.Select(id)
		err = form.DeleteSelected(r.Context(), repo)
		switch {
		case errors.Is(err, property.ErrNotFound):
			writeError(w, http.StatusNotFound, err.Error())
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "deleting property failed")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
