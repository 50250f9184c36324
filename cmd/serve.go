package cmd

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/jsphweid/theorytab/constants"
	"github.com/jsphweid/theorytab/logger"
	"github.com/jsphweid/theorytab/model"
	"github.com/jsphweid/theorytab/section"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

// legacy documents are small, this only guards against runaway bodies
const maxBodyBytes = 16 << 20

var normalizedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "theorytab_normalize_requests_total",
	Help: "Normalize requests by outcome.",
}, []string{"outcome"})

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the normalizer over http",
	Long:  `Serves POST /normalize (legacy xml in, canonical json out), /healthz and /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve()
	},
}

// writeJSON encodes before writing the header so an unencodable body still
// gets an error status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.GetDefault().Error("could not encode response", "error", err)
		status = http.StatusInternalServerError
		data, _ = json.Marshal(model.ErrorResponse{Error: "could not encode response"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(data, '\n')); err != nil {
		logger.GetDefault().Warn("could not write response", "error", err)
	}
}

func HandleNormalize(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.New().String()
	log := logger.GetDefault().With("request_id", requestID)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			normalizedTotal.WithLabelValues("too_large").Inc()
			writeJSON(w, http.StatusRequestEntityTooLarge, model.ErrorResponse{Error: err.Error()})
			return
		}
		normalizedTotal.WithLabelValues("bad_request").Inc()
		log.Warn("could not read body", "error", err)
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}

	res, err := section.FromXMLString(string(body))
	switch {
	case errors.Is(err, model.ErrMalformedDocument):
		normalizedTotal.WithLabelValues("malformed").Inc()
		log.Warn("malformed document", "error", err)
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	case errors.Is(err, model.ErrInvalidChordEncoding):
		normalizedTotal.WithLabelValues("invalid").Inc()
		log.Warn("invalid encoding", "error", err)
		writeJSON(w, http.StatusUnprocessableEntity, model.ErrorResponse{Error: err.Error()})
		return
	case err != nil:
		normalizedTotal.WithLabelValues("error").Inc()
		log.Error("could not normalize", "error", err)
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{Error: err.Error()})
		return
	}

	normalizedTotal.WithLabelValues("ok").Inc()
	log.Debug("normalized", "chords", len(res.Chords), "notes", len(res.Notes))
	writeJSON(w, http.StatusOK, model.NormalizeResponse{RequestID: requestID, Section: *res})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func NewRouter() http.Handler {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/normalize", HandleNormalize).Methods("POST")
	router.HandleFunc("/healthz", handleHealth).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	return cors.Default().Handler(router)
}

func serve() error {
	addr := ":" + constants.GetPort()
	logger.GetDefault().Info("serving", "addr", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handlers.LoggingHandler(os.Stdout, NewRouter()),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
