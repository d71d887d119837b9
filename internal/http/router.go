package httpapi

import (
	"net/http"

	"seedbreed/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Router 使用标准库 http.ServeMux（Go 1.22 起支持方法与路径参数）
type Router struct {
	mux    *http.ServeMux
	logger *zap.Logger
}

func NewRouter(logger *zap.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		logger: logger,
	}
}

func (r *Router) Handle(pattern string, h http.HandlerFunc) {
	r.mux.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// APIPrefix 业务接口前缀
const APIPrefix = "/api/v1"

// RegisterHealthRoutes 健康检查（不需要鉴权）
func (r *Router) RegisterHealthRoutes() {
	r.Handle("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, Ok(map[string]any{"status": "ok"}))
	})
}

// RegisterMetricsRoutes Prometheus 抓取入口，与健康检查一样不在 /api/v1 下
func (r *Router) RegisterMetricsRoutes(g prometheus.Gatherer) {
	r.mux.Handle("GET /metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}

// RegisterRecordRoutes 五个记录集合与流转接口
func (r *Router) RegisterRecordRoutes(h *RecordHandlers) {
	intro := newListHandler[domain.IntroductionRecord](h.Introductions, h.logger)
	intro.register(r, APIPrefix+"/introductions")
	r.Handle("POST "+APIPrefix+"/introductions", h.CreateIntroduction)
	r.Handle("POST "+APIPrefix+"/introductions/{key}/sowing", h.IntroductionToSowing)

	pur := newListHandler[domain.PurificationRecord](h.Purifications, h.logger)
	pur.register(r, APIPrefix+"/purifications")
	r.Handle("POST "+APIPrefix+"/purifications", h.CreatePurification)
	r.Handle("POST "+APIPrefix+"/purifications/{key}/sowing", h.PurificationToSowing)

	sow := newListHandler[domain.SowingRecord](h.Sowings, h.logger)
	sow.register(r, APIPrefix+"/sowings")
	r.Handle("POST "+APIPrefix+"/sowings/load", h.LoadSowings)
	r.Handle("POST "+APIPrefix+"/sowings/{key}/test-record", h.SowingToTestRecord)

	tests := newListHandler[domain.TestRecord](h.TestRecords, h.logger)
	tests.register(r, APIPrefix+"/test-records")
	r.Handle("POST "+APIPrefix+"/test-records/load", h.LoadTestRecords)
	r.Handle("POST "+APIPrefix+"/test-records/{key}/saved-seed", h.TestRecordToSavedSeed)

	seeds := newListHandler[domain.SavedSeedRecord](h.SavedSeeds, h.logger)
	seeds.register(r, APIPrefix+"/seed-inventory")
}

func (r *Router) RegisterDashboardRoutes(h *DashboardHandler) {
	r.Handle("GET "+APIPrefix+"/dashboard", h.Stats)
}

func (r *Router) RegisterAIRoutes(h *AIHandler) {
	r.Handle("POST "+APIPrefix+"/ai/chat", h.Chat)
	r.Handle("POST "+APIPrefix+"/ai/identify", h.Identify)
}
