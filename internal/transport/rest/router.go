package rest

import (
	"log/slog"
	"mattressfit/internal/metrics"
	"mattressfit/internal/service"
	"mattressfit/internal/transport/rest/handler"
	"mattressfit/internal/transport/rest/middleware"
	"mattressfit/internal/transport/ws"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/swaggo/swag"

	_ "mattressfit/internal/docs"
)

// Container holds all dependencies for the router
type Container struct {
	AuthService    *service.AuthService
	CatalogService *service.CatalogService
	ContentService *service.ContentService
	SurveyService  *service.SurveyService
	LeadService    *service.LeadService
	StatsService   *service.StatsService
	UploadService  *service.UploadService
	Metrics        *metrics.Collector
	WSHub          *ws.Hub
	CORSOrigins    []string
	Logger         *slog.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	contentHandler := handler.NewContentHandler(c.ContentService)
	questionHandler := handler.NewQuestionHandler(c.CatalogService)
	surveyHandler := handler.NewSurveyHandler(c.SurveyService, c.LeadService)
	reportHandler := handler.NewReportHandler(c.StatsService, c.LeadService)
	uploadHandler := handler.NewUploadHandler(c.UploadService)
	wsHandler := ws.NewHandler(c.WSHub, c.CORSOrigins, c.Logger)

	// Initialize middleware
	adminMW := middleware.NewAdminMiddleware(c.AuthService)
	r.Use(middleware.Metrics(c.Metrics))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")
	r.Handle("/metrics", c.Metrics.Handler()).Methods("GET")
	r.HandleFunc("/swagger/doc.json", swaggerDoc).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Public routes
	api.HandleFunc("/content", contentHandler.Get).Methods("GET")
	api.HandleFunc("/survey-questions", questionHandler.List).Methods("GET")
	api.HandleFunc("/survey-questions/defaults", questionHandler.Defaults).Methods("GET")
	api.HandleFunc("/submit-survey", surveyHandler.SubmitDirect).Methods("POST")
	api.HandleFunc("/admin/login", authHandler.Login).Methods("POST")

	// Survey dialog sessions
	api.HandleFunc("/survey/sessions", surveyHandler.Open).Methods("POST")
	api.HandleFunc("/survey/sessions/{id}", surveyHandler.Get).Methods("GET")
	api.HandleFunc("/survey/sessions/{id}", surveyHandler.Close).Methods("DELETE")
	api.HandleFunc("/survey/sessions/{id}/answers/{questionId}", surveyHandler.Answer).Methods("PUT")
	api.HandleFunc("/survey/sessions/{id}/answers/{questionId}/other", surveyHandler.AnswerOther).Methods("PUT")
	api.HandleFunc("/survey/sessions/{id}/next", surveyHandler.Next).Methods("POST")
	api.HandleFunc("/survey/sessions/{id}/prev", surveyHandler.Prev).Methods("POST")
	api.HandleFunc("/survey/sessions/{id}/contact", surveyHandler.SetContact).Methods("PUT")
	api.HandleFunc("/survey/sessions/{id}/submit", surveyHandler.Submit).Methods("POST")

	// Admin routes (require admin cookie)
	admin := api.NewRoute().Subrouter()
	admin.Use(adminMW.RequireAdmin)

	admin.HandleFunc("/content", contentHandler.SetMany).Methods("POST")
	admin.HandleFunc("/content/update", contentHandler.Update).Methods("PATCH")
	admin.HandleFunc("/survey-questions", questionHandler.Replace).Methods("POST")
	admin.HandleFunc("/admin/survey-questions/{id}/move", questionHandler.Move).Methods("POST")
	admin.HandleFunc("/admin/logout", authHandler.Logout).Methods("POST")
	admin.HandleFunc("/admin/stats", reportHandler.Stats).Methods("GET")
	admin.HandleFunc("/admin/leads", reportHandler.Leads).Methods("GET")
	admin.HandleFunc("/upload", uploadHandler.Upload).Methods("POST")
	admin.HandleFunc("/admin/ws", wsHandler.AdminWS).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Not found"}`))
	})

	// CORS wraps the router so preflight requests never need a matching route
	return middleware.CORS(c.CORSOrigins)(r)
}

func swaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		http.Error(w, `{"error":"swagger doc unavailable"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(doc))
}
