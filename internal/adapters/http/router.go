package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/medscope/textbook-qa/internal/config"
	"github.com/medscope/textbook-qa/internal/core/domain"
	"github.com/medscope/textbook-qa/internal/core/ports"
	"github.com/medscope/textbook-qa/internal/observability/metrics"
)

const maxBatchQuestions = 50

type Router struct {
	ingest      ports.DocumentIngestor
	questions   ports.QuestionService
	reader      ports.DocumentReader
	metrics     *metrics.HTTPServerMetrics
	service     string
	defaultTopK int
}

func NewRouter(
	cfg config.Config,
	ingest ports.DocumentIngestor,
	questions ports.QuestionService,
	reader ports.DocumentReader,
	httpMetrics *metrics.HTTPServerMetrics,
) *Router {
	topK := cfg.TopK
	if topK <= 0 {
		topK = 5
	}
	return &Router{
		ingest:      ingest,
		questions:   questions,
		reader:      reader,
		metrics:     httpMetrics,
		service:     "api",
		defaultTopK: topK,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/documents", rt.uploadDocument)
	mux.HandleFunc("/v1/documents/", rt.getDocumentByID)
	mux.HandleFunc("/v1/ask", rt.ask)
	mux.HandleFunc("/v1/query", rt.query)
	mux.HandleFunc("/v1/ask/batch", rt.askBatch)

	var handler http.Handler = mux
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics.Handler())
		handler = rt.metrics.Middleware(rt.service, handler)
	}
	return correlate(logRequests(handler))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) uploadDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	doc, err := rt.ingest.Upload(
		r.Context(),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, doc)
}

func (rt *Router) getDocumentByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/documents/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "document id is required")
		return
	}

	doc, err := rt.reader.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (rt *Router) ask(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Question string `json:"question"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	start := time.Now()
	answer, err := rt.questions.Ask(r.Context(), req.Question)
	if err != nil {
		rt.recordDecision("/v1/ask", "error", time.Since(start))
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	decision := "accepted"
	if answer == domain.RejectionMessage {
		decision = "rejected"
	}
	rt.recordDecision("/v1/ask", decision, time.Since(start))

	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

func (rt *Router) query(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Question string `json:"question"`
		TopK     int    `json:"top_k"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}
	if req.TopK == 0 {
		req.TopK = rt.defaultTopK
	}

	start := time.Now()
	answer, err := rt.questions.Query(r.Context(), req.Question, req.TopK)
	if err != nil {
		rt.recordDecision("/v1/query", "error", time.Since(start))
		writeError(w, mapErrorToHTTPStatus(err), err.Error())
		return
	}

	decision := "rejected"
	if answer.Accepted {
		decision = "accepted"
	}
	rt.recordDecision("/v1/query", decision, time.Since(start))
	if rt.metrics != nil {
		rt.metrics.RecordBestScore(rt.service, "/v1/query", answer.BestScore)
	}

	writeJSON(w, http.StatusOK, answer)
}

func (rt *Router) askBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req struct {
		Questions []string `json:"questions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if len(req.Questions) == 0 {
		writeError(w, http.StatusBadRequest, "questions list is required")
		return
	}
	if len(req.Questions) > maxBatchQuestions {
		writeError(w, http.StatusBadRequest, "too many questions in one batch")
		return
	}

	answers := rt.questions.BatchAsk(r.Context(), req.Questions)
	if rt.metrics != nil {
		rt.metrics.RecordBatchSize(rt.service, len(req.Questions))
	}

	writeJSON(w, http.StatusOK, map[string][]string{"answers": answers})
}

func (rt *Router) recordDecision(endpoint, decision string, elapsed time.Duration) {
	if rt.metrics == nil {
		return
	}
	rt.metrics.RecordQueryDecision(rt.service, endpoint, decision, elapsed)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
