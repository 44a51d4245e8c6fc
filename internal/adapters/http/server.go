package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aretw0/noyes"
	"github.com/aretw0/noyes/internal/validator"
	"github.com/aretw0/noyes/pkg/domain"
)

// Server exposes the engine over JSON/HTTP. It is deliberately thin:
// every route maps onto one engine call plus an error translation.
type Server struct {
	engine *noyes.Engine
	logger *slog.Logger
}

// NewHandler builds the HTTP handler for the engine.
func NewHandler(engine *noyes.Engine, logger *slog.Logger) http.Handler {
	s := &Server{engine: engine, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Route("/questionnaires/{questionnaireID}", func(r chi.Router) {
		r.Get("/", s.getQuestionnaire)
		r.Post("/validate", s.validate)
		r.Post("/runs", s.startRun)
	})
	r.Route("/runs/{runID}", func(r chi.Router) {
		r.Get("/", s.getRun)
		r.Get("/history", s.history)
		r.Get("/node", s.currentNode)
		r.Post("/answers", s.answer)
	})
	return r
}

type startRunRequest struct {
	UserID     string `json:"user_id,omitempty"`
	SessionKey string `json:"session_key,omitempty"`
	Resume     bool   `json:"resume,omitempty"`
}

type answerRequest struct {
	Answer string `json:"answer"`
}

type runResponse struct {
	Run  *domain.Run  `json:"run"`
	Node *domain.Node `json:"node,omitempty"`
}

type errorResponse struct {
	Error    string   `json:"error"`
	Expected []string `json:"expected,omitempty"`
	Reasons  []string `json:"reasons,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getQuestionnaire(w http.ResponseWriter, r *http.Request) {
	q, err := s.engine.Graph().GetQuestionnaire(r.Context(), chi.URLParam(r, "questionnaireID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) validate(w http.ResponseWriter, r *http.Request) {
	err := s.engine.Validate(r.Context(), chi.URLParam(r, "questionnaireID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) startRun(w http.ResponseWriter, r *http.Request) {
	var body startRunRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	questionnaireID := chi.URLParam(r, "questionnaireID")
	identity := domain.Identity{UserID: body.UserID, SessionKey: body.SessionKey}

	var (
		run *domain.Run
		err error
	)
	if body.Resume {
		run, err = s.engine.ResumeRun(r.Context(), questionnaireID, identity)
	} else {
		run, err = s.engine.StartRun(r.Context(), questionnaireID, identity)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	node, err := s.engine.CurrentNode(r.Context(), run.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, runResponse{Run: run, Node: node})
}

func (s *Server) answer(w http.ResponseWriter, r *http.Request) {
	var body answerRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	run, node, err := s.engine.Answer(r.Context(), chi.URLParam(r, "runID"), body.Answer)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, runResponse{Run: run, Node: node})
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.engine.Runs().Load(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	steps, err := s.engine.History(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, steps)
}

func (s *Server) currentNode(w http.ResponseWriter, r *http.Request) {
	node, err := s.engine.CurrentNode(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, node)
}

// writeError translates engine errors into HTTP statuses. Malformed
// graphs surface as 500 and are logged loudly: they mean stored data
// violates an invariant validation should have caught.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var invalid *domain.InvalidAnswerError
	if errors.As(err, &invalid) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:    invalid.Error(),
			Expected: invalid.Expected,
		})
		return
	}

	var aggregate *validator.AggregateError
	if errors.As(err, &aggregate) {
		reasons := make([]string, 0, len(aggregate.Errors))
		for _, nodeErr := range aggregate.Errors {
			reasons = append(reasons, nodeErr.Error())
		}
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:   "questionnaire is not navigable",
			Reasons: reasons,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrQuestionnaireNotFound),
		errors.Is(err, domain.ErrNodeNotFound),
		errors.Is(err, domain.ErrEdgeNotFound),
		errors.Is(err, domain.ErrRunNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNotNavigable):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrRunClosed),
		errors.Is(err, domain.ErrAlreadyTerminal),
		errors.Is(err, domain.ErrQuestionnaireInUse):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrIdentityRequired),
		errors.Is(err, domain.ErrNoEntryNode),
		errors.Is(err, domain.ErrUnknownKind),
		errors.Is(err, domain.ErrUnknownAccess):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrMalformedGraph):
		s.logger.Error("traversal hit a malformed graph",
			"err", err,
			"path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()),
		)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
	default:
		s.logger.Error("request failed", "err", err, "path", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
