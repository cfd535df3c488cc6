package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"stagedoor/internal/workflow"
)

// UserService captures the account operations needed by the HTTP handlers.
type UserService interface {
	Register(ctx context.Context, username, password string, role workflow.Role) (*workflow.User, error)
	Login(ctx context.Context, username, password string) (string, *workflow.User, error)
	Get(ctx context.Context, id int64) (*workflow.User, error)
	SetStatus(ctx context.Context, actor workflow.Principal, id int64, status workflow.AccountStatus) (*workflow.User, error)
	Delete(ctx context.Context, actor workflow.Principal, id int64) error
}

// FestivalService coordinates festival lifecycle workflows.
type FestivalService interface {
	Create(ctx context.Context, actor workflow.Principal, f *workflow.Festival) (*workflow.Festival, error)
	Get(ctx context.Context, id int64) (*workflow.Festival, error)
	List(ctx context.Context) ([]*workflow.Festival, error)
	AddOrganizer(ctx context.Context, actor workflow.Principal, festivalID, userID int64) (*workflow.Festival, error)
	Advance(ctx context.Context, actor workflow.Principal, festivalID int64, action workflow.Action) (*workflow.Festival, error)
}

// PerformanceService coordinates performance lifecycle workflows.
type PerformanceService interface {
	Create(ctx context.Context, actor workflow.Principal, p *workflow.Performance) (*workflow.Performance, error)
	Get(ctx context.Context, id int64) (*workflow.Performance, error)
	ListByFestival(ctx context.Context, festivalID int64) ([]*workflow.Performance, error)
	Submit(ctx context.Context, actor workflow.Principal, id int64) (*workflow.Performance, error)
	Review(ctx context.Context, actor workflow.Principal, id int64, review workflow.Review) (*workflow.Performance, error)
	Approve(ctx context.Context, actor workflow.Principal, id int64) (*workflow.Performance, error)
	Reject(ctx context.Context, actor workflow.Principal, id int64) (*workflow.Performance, error)
	Schedule(ctx context.Context, actor workflow.Principal, id int64) (*workflow.Performance, error)
	FinalSubmit(ctx context.Context, actor workflow.Principal, id int64, final workflow.FinalSubmission) (*workflow.Performance, error)
	AssignStaff(ctx context.Context, actor workflow.Principal, id, staffID int64) (*workflow.Performance, error)
	Update(ctx context.Context, actor workflow.Principal, id int64, p *workflow.Performance) (*workflow.Performance, error)
	Withdraw(ctx context.Context, actor workflow.Principal, id int64) error
}

// TokenVerifier resolves a bearer token into the principal it names.
type TokenVerifier interface {
	Verify(token string) (workflow.Principal, error)
}

// Server wires HTTP handlers to the underlying services.
type Server struct {
	users        UserService
	festivals    FestivalService
	performances PerformanceService
	tokens       TokenVerifier
}

// New configures a Server with the given services.
func New(users UserService, festivals FestivalService, performances PerformanceService, tokens TokenVerifier) *Server {
	return &Server{
		users:        users,
		festivals:    festivals,
		performances: performances,
		tokens:       tokens,
	}
}

// Routes exposes the HTTP handlers for the workflow action surface.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	mux.HandleFunc("POST /api/v1/auth/signup", s.handleSignup)
	mux.HandleFunc("POST /api/v1/auth/login", s.handleLogin)

	mux.HandleFunc("GET /api/v1/users/{id}", s.withPrincipal(s.handleGetUser))
	mux.HandleFunc("PUT /api/v1/users/{id}/status", s.withPrincipal(s.handleSetUserStatus))
	mux.HandleFunc("DELETE /api/v1/users/{id}", s.withPrincipal(s.handleDeleteUser))

	mux.HandleFunc("POST /api/v1/festivals", s.withPrincipal(s.handleCreateFestival))
	mux.HandleFunc("GET /api/v1/festivals", s.withPrincipal(s.handleListFestivals))
	mux.HandleFunc("GET /api/v1/festivals/{id}", s.withPrincipal(s.handleGetFestival))
	mux.HandleFunc("POST /api/v1/festivals/{id}/organizers", s.withPrincipal(s.handleAddOrganizer))
	mux.HandleFunc("GET /api/v1/festivals/{id}/performances", s.withPrincipal(s.handleListPerformances))

	// One route per named festival phase-advance action.
	for path, action := range festivalAdvanceRoutes {
		mux.HandleFunc("POST /api/v1/festivals/{id}/"+path, s.withPrincipal(s.handleAdvanceFestival(action)))
	}

	mux.HandleFunc("POST /api/v1/performances", s.withPrincipal(s.handleCreatePerformance))
	mux.HandleFunc("GET /api/v1/performances/{id}", s.withPrincipal(s.handleGetPerformance))
	mux.HandleFunc("PUT /api/v1/performances/{id}", s.withPrincipal(s.handleUpdatePerformance))
	mux.HandleFunc("DELETE /api/v1/performances/{id}", s.withPrincipal(s.handleWithdrawPerformance))
	mux.HandleFunc("POST /api/v1/performances/{id}/submit", s.withPrincipal(s.handleSubmitPerformance))
	mux.HandleFunc("POST /api/v1/performances/{id}/review", s.withPrincipal(s.handleReviewPerformance))
	mux.HandleFunc("POST /api/v1/performances/{id}/approve", s.withPrincipal(s.handleApprovePerformance))
	mux.HandleFunc("POST /api/v1/performances/{id}/reject", s.withPrincipal(s.handleRejectPerformance))
	mux.HandleFunc("POST /api/v1/performances/{id}/schedule", s.withPrincipal(s.handleSchedulePerformance))
	mux.HandleFunc("POST /api/v1/performances/{id}/final-submission", s.withPrincipal(s.handleFinalSubmit))
	mux.HandleFunc("POST /api/v1/performances/{id}/staff", s.withPrincipal(s.handleAssignStaff))

	return mux
}

var festivalAdvanceRoutes = map[string]workflow.Action{
	"start-submission":       workflow.ActionStartSubmission,
	"start-assignment":       workflow.ActionStartAssignment,
	"start-review":           workflow.ActionStartReview,
	"start-scheduling":       workflow.ActionStartScheduling,
	"start-final-submission": workflow.ActionStartFinalSubmission,
	"start-decision":         workflow.ActionStartDecision,
	"announce":               workflow.ActionAnnounce,
}

type signupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string         `json:"token"`
	User  *workflow.User `json:"user"`
}

type statusRequest struct {
	Status string `json:"status"`
}

type festivalRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Venue       string    `json:"venue"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
}

type organizerRequest struct {
	UserID int64 `json:"userId"`
}

type performanceRequest struct {
	FestivalID  int64    `json:"festivalId"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Genre       string   `json:"genre"`
	Duration    int      `json:"duration"`
	BandMembers []string `json:"bandMembers"`
}

type staffRequest struct {
	StaffID int64 `json:"staffId"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}
	role := workflow.RoleUser
	if req.Role != "" {
		parsed, err := workflow.ParseRole(req.Role)
		if err != nil {
			writeError(w, err)
			return
		}
		role = parsed
	}
	user, err := s.users.Register(r.Context(), req.Username, req.Password, role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}
	token, user, err := s.users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request, _ workflow.Principal) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user, err := s.users.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleSetUserStatus(w http.ResponseWriter, r *http.Request, actor workflow.Principal) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}
	user, err := s.users.SetStatus(r.Context(), actor, id, workflow.AccountStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request, actor workflow.Principal) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.users.Delete(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateFestival(w http.ResponseWriter, r *http.Request, actor workflow.Principal) {
	var req festivalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}
	f := &workflow.Festival{
		Name:        req.Name,
		Description: req.Description,
		Venue:       req.Venue,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	created, err := s.festivals.Create(r.Context(), actor, f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListFestivals(w http.ResponseWriter, r *http.Request, _ workflow.Principal) {
	festivals, err := s.festivals.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, festivals)
}

func (s *Server) handleGetFestival(w http.ResponseWriter, r *http.Request, _ workflow.Principal) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	f, err := s.festivals.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleAddOrganizer(w http.ResponseWriter, r *http.Request, actor workflow.Principal) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req organizerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}
	f, err := s.festivals.AddOrganizer(r.Context(), actor, id, req.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) handleAdvanceFestival(action workflow.Action) principalHandler {
	return func(w http.ResponseWriter, r *http.Request, actor workflow.Principal) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		f, err := s.festivals.Advance(r.Context(), actor, id, action)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, f)
	}
}

func (s *Server) handleCreatePerformance(w http.ResponseWriter, r *http.Request, actor workflow.Principal) {
	var req performanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}
	p := &workflow.Performance{
		FestivalID:  req.FestivalID,
		Name:        req.Name,
		Description: req.Description,
		Genre:       req.Genre,
		Duration:    req.Duration,
		BandMembers: req.BandMembers,
	}
	created, err := s.performances.Create(r.Context(), actor, p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetPerformance(w http.ResponseWriter, r *http.Request, _ workflow.Principal) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := s.performances.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleListPerformances(w http.ResponseWriter, r *http.Request, _ workflow.Principal) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	performances, err := s.performances.ListByFestival(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, performances)
}

func (s *Server) handleUpdatePerformance(w http.ResponseWriter, r *http.Request, actor workflow.Principal) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req performanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}
	p := &workflow.Performance{
		Name:        req.Name,
		Description: req.Description,
		Genre:       req.Genre,
		Duration:    req.Duration,
		BandMembers: req.BandMembers,
	}
	updated, err := s.performances.Update(r.Context(), actor, id, p)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleWithdrawPerformance(w http.ResponseWriter, r *http.Request, actor workflow.Principal) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.performances.Withdraw(r.Context(), actor, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSubmitPerformance(w http.ResponseWriter, r *http.Request, actor workflow.Principal) {
	s.performanceTransition(w, r, actor, s.performances.Submit)
}

func (s *Server) handleApprovePerformance(w http.ResponseWriter, r *http.Request, actor workflow.Principal) {
	s.performanceTransition(w, r, actor, s.performances.Approve)
}

func (s *Server) handleRejectPerformance(w http.ResponseWriter, r *http.Request, actor workflow.Principal) {
	s.performanceTransition(w, r, actor, s.performances.Reject)
}

func (s *Server) handleSchedulePerformance(w http.ResponseWriter, r *http.Request, actor workflow.Principal) {
	s.performanceTransition(w, r, actor, s.performances.Schedule)
}

func (s *Server) performanceTransition(
	w http.ResponseWriter,
	r *http.Request,
	actor workflow.Principal,
	transition func(context.Context, workflow.Principal, int64) (*workflow.Performance, error),
) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := transition(r.Context(), actor, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleReviewPerformance(w http.ResponseWriter, r *http.Request, actor workflow.Principal) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var review workflow.Review
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}
	p, err := s.performances.Review(r.Context(), actor, id, review)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleFinalSubmit(w http.ResponseWriter, r *http.Request, actor workflow.Principal) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var final workflow.FinalSubmission
	if err := json.NewDecoder(r.Body).Decode(&final); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}
	p, err := s.performances.FinalSubmit(r.Context(), actor, id, final)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleAssignStaff(w http.ResponseWriter, r *http.Request, actor workflow.Principal) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req staffRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid JSON payload"})
		return
	}
	p, err := s.performances.AssignStaff(r.Context(), actor, id, req.StaffID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return 0, false
	}
	return id, true
}
