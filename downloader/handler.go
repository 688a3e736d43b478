package downloader

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/airbusgeo/sentinel1-downloader/catalog"
	"github.com/gorilla/mux"
)

// AddHandler registers the retrieval endpoints on the router
func (d *Downloader) AddHandler(r *mux.Router) {
	r.HandleFunc("/retrieve", d.RetrieveHandler).Methods("POST")
	r.HandleFunc("/health", healthHandler).Methods("GET")
}

type retrieveRequest struct {
	Lon        float64 `json:"lon"`
	Lat        float64 `json:"lat"`
	Date       string  `json:"date"`
	DaysMargin int     `json:"days_margin"`
}

// RetrieveHandler runs one synchronous retrieval.
// No scene found is 404 with the descriptive message, catalog failures are 502.
func (d *Downloader) RetrieveHandler(w http.ResponseWriter, req *http.Request) {
	request := retrieveRequest{DaysMargin: DefaultDaysMargin}
	if err := json.NewDecoder(req.Body).Decode(&request); err != nil {
		w.WriteHeader(400)
		fmt.Fprintf(w, "decode request: %v", err)
		return
	}
	if request.Date == "" {
		w.WriteHeader(400)
		fmt.Fprint(w, "missing required field: 'date' (YYYY-MM-DD)")
		return
	}

	outcome, err := d.Retrieve(req.Context(), request.Lon, request.Lat, request.Date, request.DaysMargin)
	if err != nil {
		var notFound catalog.ErrNoScenesFound
		switch {
		case errors.As(err, &notFound):
			w.WriteHeader(404)
			fmt.Fprint(w, notFound.Error())
		default:
			w.WriteHeader(502)
			fmt.Fprintf(w, "%v", err)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(outcome); err != nil {
		w.WriteHeader(500)
		fmt.Fprintf(w, "%v", err)
	}
}

func healthHandler(w http.ResponseWriter, req *http.Request) {
	w.WriteHeader(200)
	fmt.Fprint(w, "ok")
}
