package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/QuickEst-app/QuickEst/internal/application"
	"github.com/QuickEst-app/QuickEst/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Handler struct {
	service *application.ProjectService
}

func NewRouter(service *application.ProjectService) http.Handler {
	h := &Handler{service: service}
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(api chi.Router) {
		api.Get("/projects", h.handleListProjects)
		api.Post("/projects", h.handleCreateProject)
		api.Post("/projects/delete", h.handleDeleteProjects)
		api.Post("/projects/export", h.handleExportProjects)
		api.Post("/projects/import", h.handleImportProject)

		api.Route("/projects/{projectID}", func(p chi.Router) {
			p.Get("/", h.handleGetProject)
			p.Patch("/", h.handleUpdateProject)
			p.Post("/favorite", h.handleSetFavorite)
			p.Get("/data", h.handleOpenProject)
			p.Get("/estimate", h.handleEstimate)
			p.Post("/export", h.handleExportProject)

			p.Get("/parameters", h.handleGetParameters)
			p.Put("/parameters/cf", h.handleSetCF)
			p.Put("/parameters/percentages", h.handleSetPercentages)
			p.Put("/parameters/actor-weights", h.handleSetActorWeights)
			p.Put("/parameters/use-case-weights", h.handleSetUseCaseWeights)

			p.Get("/actors", h.handleListActors)
			p.Post("/actors", h.handleAddActor)
			p.Put("/actors/{code}", h.handleUpdateActor)
			p.Post("/actors/delete", h.handleDeleteActors)

			p.Get("/use-cases", h.handleListUseCases)
			p.Post("/use-cases", h.handleAddUseCase)
			p.Put("/use-cases/{code}", h.handleUpdateUseCase)
			p.Post("/use-cases/delete", h.handleDeleteUseCases)

			p.Get("/factors/{kind}", h.handleListFactors)
			p.Put("/factors/{kind}/{code}", h.handleSetFactor)
		})
	})

	return r
}

func statusCode(status domain.Status) int {
	switch status {
	case domain.Success:
		return http.StatusOK
	case domain.NotExist:
		return http.StatusNotFound
	case domain.AlreadyExist, domain.TooManyProjects:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeStatus(w http.ResponseWriter, status domain.Status) {
	writeJSON(w, statusCode(status), map[string]any{"status": status.String()})
}

func writeDeleteOutcome[T any](w http.ResponseWriter, missing []T, status domain.Status) {
	body := map[string]any{"status": status.String()}
	if len(missing) > 0 {
		body["missing"] = missing
	}
	writeJSON(w, statusCode(status), body)
}

func writeResult(w http.ResponseWriter, status domain.Status, payload any) {
	if status != domain.Success {
		writeStatus(w, status)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, map[string]any{"error": err.Error()})
}

func projectIDParam(r *http.Request) (uint, bool) {
	parsed, err := strconv.ParseUint(chi.URLParam(r, "projectID"), 10, 64)
	if err != nil || parsed == 0 {
		return 0, false
	}
	return uint(parsed), true
}

func factorKindParam(r *http.Request) (domain.FactorKind, bool) {
	switch chi.URLParam(r, "kind") {
	case "technical":
		return domain.Technical, true
	case "environmental":
		return domain.Environmental, true
	default:
		return "", false
	}
}

func (h *Handler) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, status := h.service.ListProjects(r.Context())
	writeResult(w, status, projects)
}

type projectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *Handler) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}
	project, status, err := h.service.CreateProject(r.Context(), req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, status, project)
}

func (h *Handler) handleGetProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid project id"})
		return
	}
	project, status := h.service.GetProject(r.Context(), projectID)
	writeResult(w, status, project)
}

func (h *Handler) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid project id"})
		return
	}
	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}
	status, err := h.service.UpdateProject(r.Context(), projectID, req.Name, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	writeStatus(w, status)
}

type favoriteRequest struct {
	Favorite bool `json:"favorite"`
}

func (h *Handler) handleSetFavorite(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid project id"})
		return
	}
	var req favoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}
	writeStatus(w, h.service.SetFavorite(r.Context(), projectID, req.Favorite))
}

type deleteProjectsRequest struct {
	ProjectIDs []uint `json:"project_ids"`
}

func (h *Handler) handleDeleteProjects(w http.ResponseWriter, r *http.Request) {
	var req deleteProjectsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}
	missing, status := h.service.DeleteProjects(r.Context(), req.ProjectIDs)
	writeDeleteOutcome(w, missing, status)
}

func (h *Handler) handleOpenProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid project id"})
		return
	}
	data, status := h.service.OpenProject(r.Context(), projectID)
	writeResult(w, status, data)
}

func (h *Handler) handleEstimate(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid project id"})
		return
	}
	overview, status := h.service.Estimate(r.Context(), projectID)
	writeResult(w, status, overview)
}

func (h *Handler) handleGetParameters(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid project id"})
		return
	}
	params, status := h.service.GetParameters(r.Context(), projectID)
	writeResult(w, status, params)
}

type cfRequest struct {
	CF float64 `json:"cf"`
}

func (h *Handler) handleSetCF(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid project id"})
		return
	}
	var req cfRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}
	status, err := h.service.SetCF(r.Context(), projectID, req.CF)
	if err != nil {
		writeError(w, err)
		return
	}
	writeStatus(w, status)
}

func (h *Handler) handleSetPercentages(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid project id"})
		return
	}
	var req domain.Percentages
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}
	status, err := h.service.SetPercentages(r.Context(), projectID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeStatus(w, status)
}

func (h *Handler) handleSetActorWeights(w http.ResponseWriter, r *http.Request) {
	h.handleSetWeights(w, r, h.service.SetActorWeights)
}

func (h *Handler) handleSetUseCaseWeights(w http.ResponseWriter, r *http.Request) {
	h.handleSetWeights(w, r, h.service.SetUseCaseWeights)
}

func (h *Handler) handleSetWeights(w http.ResponseWriter, r *http.Request, set func(context.Context, uint, domain.WeightTriple) (domain.Status, error)) {
	projectID, ok := projectIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid project id"})
		return
	}
	var req domain.WeightTriple
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}
	status, err := set(r.Context(), projectID, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeStatus(w, status)
}

func (h *Handler) handleListActors(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid project id"})
		return
	}
	actors, status := h.service.ListActors(r.Context(), projectID)
	writeResult(w, status, actors)
}

type actorRequest struct {
	Name       string `json:"name"`
	Complexity string `json:"complexity"`
	Comment    string `json:"comment"`
}

func (h *Handler) handleAddActor(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid project id"})
		return
	}
	var req actorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}
	actor, status, err := h.service.AddActor(r.Context(), projectID, req.Name, domain.Complexity(req.Complexity), req.Comment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, status, actor)
}

func (h *Handler) handleUpdateActor(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid project id"})
		return
	}
	var req actorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}
	status, err := h.service.UpdateActor(r.Context(), domain.Actor{
		Code:       chi.URLParam(r, "code"),
		Name:       req.Name,
		Complexity: domain.Complexity(req.Complexity),
		Comment:    req.Comment,
		ProjectID:  projectID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeStatus(w, status)
}

type deleteCodesRequest struct {
	Codes []string `json:"codes"`
}

func (h *Handler) handleDeleteActors(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid project id"})
		return
	}
	var req deleteCodesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}
	missing, status := h.service.RemoveActors(r.Context(), projectID, req.Codes)
	writeDeleteOutcome(w, missing, status)
}

func (h *Handler) handleListUseCases(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid project id"})
		return
	}
	useCases, status := h.service.ListUseCases(r.Context(), projectID)
	writeResult(w, status, useCases)
}

type useCaseRequest struct {
	Name         string `json:"name"`
	Complexity   string `json:"complexity"`
	Transactions int    `json:"transactions"`
	Comment      string `json:"comment"`
}

func (h *Handler) handleAddUseCase(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid project id"})
		return
	}
	var req useCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}
	useCase, status, err := h.service.AddUseCase(r.Context(), projectID, req.Name, domain.Complexity(req.Complexity), req.Transactions, req.Comment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, status, useCase)
}

func (h *Handler) handleUpdateUseCase(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid project id"})
		return
	}
	var req useCaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}
	status, err := h.service.UpdateUseCase(r.Context(), domain.UseCase{
		Code:         chi.URLParam(r, "code"),
		Name:         req.Name,
		Complexity:   domain.Complexity(req.Complexity),
		Transactions: req.Transactions,
		Comment:      req.Comment,
		ProjectID:    projectID,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeStatus(w, status)
}

func (h *Handler) handleDeleteUseCases(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid project id"})
		return
	}
	var req deleteCodesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}
	missing, status := h.service.RemoveUseCases(r.Context(), projectID, req.Codes)
	writeDeleteOutcome(w, missing, status)
}

func (h *Handler) handleListFactors(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid project id"})
		return
	}
	kind, ok := factorKindParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "factor kind must be technical or environmental"})
		return
	}
	factors, status := h.service.ListFactors(r.Context(), kind, projectID)
	writeResult(w, status, factors)
}

type factorRequest struct {
	Influence int     `json:"influence"`
	Weight    float64 `json:"weight"`
	Comment   string  `json:"comment"`
}

func (h *Handler) handleSetFactor(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid project id"})
		return
	}
	kind, ok := factorKindParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "factor kind must be technical or environmental"})
		return
	}
	var req factorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid payload"})
		return
	}
	status, err := h.service.SetFactor(r.Context(), kind, projectID, chi.URLParam(r, "code"), req.Influence, req.Weight, req.Comment)
	if err != nil {
		writeError(w, err)
		return
	}
	writeStatus(w, status)
}

type exportRequest struct {
	Dir string `json:"dir"`
}

func (h *Handler) handleExportProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := projectIDParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid project id"})
		return
	}
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Dir == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "dir is required"})
		return
	}
	manifestPath, status, err := h.service.ExportProject(r.Context(), projectID, req.Dir)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, status, map[string]any{"manifest": manifestPath})
}

type exportProjectsRequest struct {
	ProjectIDs []uint `json:"project_ids"`
	ZipPath    string `json:"zip_path"`
}

func (h *Handler) handleExportProjects(w http.ResponseWriter, r *http.Request) {
	var req exportProjectsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ZipPath == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "zip_path is required"})
		return
	}
	status, err := h.service.ExportProjects(r.Context(), req.ProjectIDs, req.ZipPath)
	if err != nil {
		writeError(w, err)
		return
	}
	writeStatus(w, status)
}

type importRequest struct {
	Path string `json:"path"`
}

func (h *Handler) handleImportProject(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "path is required"})
		return
	}
	project, status, err := h.service.ImportProject(r.Context(), req.Path)
	if err != nil {
		writeError(w, err)
		return
	}
	writeResult(w, status, project)
}
