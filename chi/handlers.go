package chi

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"
	animals "github.com/wilfried-lafaye/scraping-animals-app"
	"github.com/wilfried-lafaye/scraping-animals-app/fs"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	v, err := s.loadView(r.Context(), ParseQuery(r))
	if err != nil {
		s.Error(w, r, err)
		return
	}
	s.render(w, r, "index", v)
}

func (s *Server) handleAnimal(w http.ResponseWriter, r *http.Request) {
	a, err := s.Animals.FindAnimalByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.Error(w, r, err)
		return
	}
	s.render(w, r, "animal", a)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	fields, err := animals.ParseFields(r.URL.Query()["columns"])
	if err != nil {
		s.Error(w, r, err)
		return
	}

	list, err := s.Animals.FindAnimals(r.Context(), ParseQuery(r).Filter())
	if err != nil {
		s.Error(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := fs.EncodeCSV(&buf, list, fields); err != nil {
		s.Error(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="animals.csv"`)
	w.Write(buf.Bytes())
}

// animalJSON exposes the store ID next to the interchange fields.
type animalJSON struct {
	ID string `json:"id"`
	*animals.Animal
}

func (s *Server) handleAPIAnimals(w http.ResponseWriter, r *http.Request) {
	q := ParseQuery(r)
	list, err := s.Animals.FindAnimals(r.Context(), q.Filter())
	if err != nil {
		s.Error(w, r, err)
		return
	}

	out := make([]animalJSON, len(list))
	for i, a := range list {
		out[i] = animalJSON{ID: a.ID, Animal: a}
	}
	writeJSON(w, struct {
		Query   Query        `json:"query"`
		Count   int          `json:"count"`
		Animals []animalJSON `json:"animals"`
	}{q, len(out), out})
}

func (s *Server) handleAPIStats(w http.ResponseWriter, r *http.Request) {
	v, err := s.loadView(r.Context(), ParseQuery(r))
	if err != nil {
		s.Error(w, r, err)
		return
	}
	writeJSON(w, struct {
		Query   Query   `json:"query"`
		Stats   Stats   `json:"stats"`
		Options Options `json:"options"`
	}{v.Query, v.Stats, v.Options})
}

// render executes a template into a buffer so a failure never sends a
// partial page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.Error(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes())
}
