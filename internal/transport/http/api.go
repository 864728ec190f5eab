package http

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"wizkid-challenge/internal/app"
	"wizkid-challenge/internal/domain"
)

// API serves read-only JSON views of the challenge.
type API struct {
	service *app.ChallengeService
	logger  zerolog.Logger
}

func NewAPI(service *app.ChallengeService, logger zerolog.Logger) *API {
	return &API{service: service, logger: logger}
}

type dailyResponse struct {
	Date      domain.Day                                 `json:"date"`
	Subjects  []domain.Subject                           `json:"subjects"`
	Questions map[domain.Subject][]domain.PublicQuestion `json:"questions"`
}

// Daily returns today's question set without answer keys.
func (a *API) Daily(w http.ResponseWriter, r *http.Request) {
	set, err := a.service.Today(r.Context())
	if err != nil {
		a.writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	resp := dailyResponse{
		Date:      set.Date,
		Subjects:  set.Subjects,
		Questions: make(map[domain.Subject][]domain.PublicQuestion, len(set.PerSubject)),
	}
	for subject, questions := range set.PerSubject {
		public := make([]domain.PublicQuestion, 0, len(questions))
		for _, q := range questions {
			public = append(public, q.Public())
		}
		resp.Questions[subject] = public
	}
	a.writeJSON(w, http.StatusOK, resp)
}

// Progress returns stored progress with the streak as it stands today.
func (a *API) Progress(w http.ResponseWriter, r *http.Request) {
	progress, err := a.service.DisplayProgress(r.Context())
	if err != nil {
		a.writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	a.writeJSON(w, http.StatusOK, progress)
}

func (a *API) writeError(w http.ResponseWriter, status int, err error) {
	a.logger.Error().Err(err).Msg("request failed")
	a.writeJSON(w, status, toErrorPayload(err))
}

func (a *API) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		a.logger.Debug().Err(err).Msg("write response")
	}
}

// NewRouter mounts the websocket bridge, the JSON views, health and metrics.
func NewRouter(service *app.ChallengeService, metrics http.Handler, logger zerolog.Logger) http.Handler {
	api := NewAPI(service, logger)
	ws := NewWSHandler(service, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", ws.ServeWS)
	mux.HandleFunc("/daily", api.Daily)
	mux.HandleFunc("/progress", api.Progress)
	if metrics != nil {
		mux.Handle("/metrics", metrics)
	}
	return mux
}
