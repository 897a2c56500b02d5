// Package app exposes the running bot over HTTP: state, live stats and
// run history, plus a stop control. Read-only apart from /control.
package app

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"github.com/wise-toddler/minesweper-solver/internal/bot"
	"github.com/wise-toddler/minesweper-solver/internal/store"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

type Application struct {
	Log        *logrus.Logger
	Controller *bot.Controller
	Runs       *store.Store // may be nil when persistence is disabled
	RunID      string
	Stop       context.CancelFunc
}

func (app *Application) Handler() http.Handler {
	router := mux.NewRouter()
	router.Methods("GET").Path("/status").HandlerFunc(app.handleStatus)
	router.Methods("GET").Path("/stats").HandlerFunc(app.handleStats)
	router.Methods("GET").Path("/runs").HandlerFunc(app.handleRuns)
	router.Methods("POST").Path("/control").HandlerFunc(app.handleControl)
	router.Use(app.loggingMiddleware)
	return cors.AllowAll().Handler(router)
}

func (app *Application) handleStatus(w http.ResponseWriter, r *http.Request) {
	app.replyWithJSON(w, map[string]string{
		"run_id": app.RunID,
		"state":  app.Controller.State().String(),
	})
}

func (app *Application) handleStats(w http.ResponseWriter, r *http.Request) {
	app.replyWithJSON(w, map[string]any{
		"run_id": app.RunID,
		"stats":  app.Controller.Stats(),
		"grid":   app.Controller.GridSnapshot(),
	})
}

type runsParams struct {
	Limit int `schema:"limit"`
}

func (app *Application) handleRuns(w http.ResponseWriter, r *http.Request) {
	if app.Runs == nil {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("run history disabled"))
		return
	}
	params := runsParams{Limit: 20}
	if err := decoder.Decode(&params, r.URL.Query()); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	records, err := app.Runs.RecentRuns(params.Limit)
	if err != nil {
		app.internalError(w, "failed to list runs", err)
		return
	}
	app.replyWithJSON(w, records)
}

type controlParams struct {
	Action string `schema:"action,required"`
}

func (app *Application) handleControl(w http.ResponseWriter, r *http.Request) {
	var params controlParams
	if err := decoder.Decode(&params, r.URL.Query()); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	switch params.Action {
	case "stop":
		app.Log.Info("stop requested via control api")
		app.Stop()
		app.replyWithJSON(w, map[string]string{"status": "stopping"})
	default:
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("unknown action"))
	}
}

func (app *Application) internalError(w http.ResponseWriter, msg string, err error) {
	w.WriteHeader(http.StatusInternalServerError)
	w.Write([]byte("Internal error"))
	app.Log.WithError(err).Error(msg)
}

func (app *Application) replyWithJSON(w http.ResponseWriter, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		app.internalError(w, "failed to marshal json", err)
		return
	}
	w.Header().Add("Content-Type", "application/json")
	if _, err = w.Write(payload); err != nil {
		app.Log.WithError(err).Error("failed to send data")
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *loggingResponseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (app *Application) loggingMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.Log.Infof("--> %s %s", r.Method, r.URL.String())
		wrapped := &loggingResponseWriter{w, http.StatusOK}
		h.ServeHTTP(wrapped, r)
		app.Log.Infof("<-- %d %s", wrapped.statusCode, http.StatusText(wrapped.statusCode))
	})
}
