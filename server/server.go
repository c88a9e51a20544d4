// Package server 提供房源检索与估价的 HTTP API（gin 实现）。
// 它是 core/search/model 之上的外围层：只做参数解析、默认值、
// 上限裁剪与 JSON 渲染，领域语义全部委托给引擎与模型。
package server

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rushteam/estatekit/core"
	"github.com/rushteam/estatekit/model"
	"github.com/rushteam/estatekit/search"
)

// recognizedCriteria 是 /search 接受的查询参数白名单，
// 与 core.Criteria 的识别 key 一致，其余参数静默忽略。
var recognizedCriteria = []string{
	core.CriteriaCity,
	core.CriteriaMinPrice,
	core.CriteriaMaxPrice,
	core.CriteriaBedrooms,
	core.CriteriaBathrooms,
	core.CriteriaType,
	core.CriteriaMinSize,
	core.CriteriaMaxSize,
}

// Server 是房源 API 服务。
// Model 可选：未配置或未训练时，估价相关字段/接口按未预估处理。
type Server struct {
	store  core.ListingStore
	engine *search.Engine
	model  model.PriceModel
	cfg    core.SearchConfig

	router *gin.Engine
}

// Option 是 Server 的配置选项。
type Option func(*Server)

// WithModel 挂载估价模型；served 结果会带上 predicted_price。
func WithModel(m model.PriceModel) Option {
	return func(s *Server) { s.model = m }
}

// WithSearchConfig 覆盖检索默认值（半径、条数上限、容差）。
func WithSearchConfig(cfg core.SearchConfig) Option {
	return func(s *Server) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// New 创建 API 服务并注册全部路由。
func New(store core.ListingStore, opts ...Option) *Server {
	s := &Server{
		store:  store,
		engine: search.NewEngine(),
		cfg:    &core.DefaultSearchConfig{},
	}
	for _, opt := range opts {
		opt(s)
	}

	router := gin.New()
	router.Use(gin.Recovery(), accessLog(), corsMiddleware(), metricsMiddleware())

	router.GET("/healthz", s.handleHealthz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/search", s.handleSearch)
	router.GET("/listings/:id", s.handleGetListing)
	router.GET("/predict/:id", s.handlePredict)
	router.GET("/recommend/:id", s.handleRecommend)
	router.GET("/budget", s.handleBudget)
	router.GET("/nearby", s.handleNearby)
	router.GET("/stats", s.handleStats)

	s.router = router
	return s
}

// Handler 返回底层 http.Handler，便于测试与自定义 Server 组装。
func (s *Server) Handler() http.Handler { return s.router }

// Run 启动 HTTP 服务，阻塞直到出错。
func (s *Server) Run(addr string) error { return s.router.Run(addr) }

// accessLog 是简单的请求日志中间件。
func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("%s %s %d %s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// corsMiddleware 放行跨域请求，OPTIONS 预检直接 204 返回。
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleSearch 结构化筛选 + 可选关键词检索。
// 识别的查询参数见 recognizedCriteria；另支持 q（关键词）与 sort。
func (s *Server) handleSearch(c *gin.Context) {
	listings, err := s.store.All(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}

	criteria := make(core.Criteria)
	for _, key := range recognizedCriteria {
		if v, ok := c.GetQuery(key); ok {
			criteria[key] = v
		}
	}

	results, err := s.engine.Search(listings, criteria)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if q := c.Query("q"); q != "" {
		results = s.engine.SearchKeywords(results, q)
	}
	if by := c.Query("sort"); by != "" {
		results = s.engine.Sort(results, search.SortBy(by), 0, 0)
	}

	s.respondListings(c, s.capResults(c, results))
}

func (s *Server) handleGetListing(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	l, err := s.store.Get(c.Request.Context(), id)
	if err != nil {
		if core.IsListingNotFound(err) {
			fail(c, http.StatusNotFound, err)
			return
		}
		fail(c, http.StatusInternalServerError, err)
		return
	}
	s.fillPredictions([]*core.Listing{l})
	c.JSON(http.StatusOK, gin.H{"listing": l})
}

// handlePredict 返回房源及其模型估价；模型未就绪时返回 503。
func (s *Server) handlePredict(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	l, err := s.store.Get(c.Request.Context(), id)
	if err != nil {
		if core.IsListingNotFound(err) {
			fail(c, http.StatusNotFound, err)
			return
		}
		fail(c, http.StatusInternalServerError, err)
		return
	}
	if s.model == nil {
		fail(c, http.StatusServiceUnavailable, model.ErrNotTrained)
		return
	}
	predicted, err := s.model.Predict(l)
	if err != nil {
		if core.IsNotTrained(err) {
			fail(c, http.StatusServiceUnavailable, err)
			return
		}
		fail(c, http.StatusInternalServerError, err)
		return
	}
	l.SetPredictedPrice(predicted)
	c.JSON(http.StatusOK, gin.H{"listing": l, "predicted_price": predicted})
}

// handleRecommend 相似推荐，max_results 默认 5，上限 50。
func (s *Server) handleRecommend(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	target, err := s.store.Get(c.Request.Context(), id)
	if err != nil {
		if core.IsListingNotFound(err) {
			fail(c, http.StatusNotFound, err)
			return
		}
		fail(c, http.StatusInternalServerError, err)
		return
	}
	listings, err := s.store.All(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}

	maxResults := s.cfg.DefaultMaxResults()
	if v, ok := c.GetQuery("max_results"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			fail(c, http.StatusBadRequest, err)
			return
		}
		maxResults = n
	}
	if cap := s.cfg.MaxResultsCap(); maxResults > cap {
		maxResults = cap
	}

	s.respondListings(c, s.engine.RecommendSimilar(listings, target, maxResults))
}

// handleBudget 预算推荐，tolerance 默认 0.1。
func (s *Server) handleBudget(c *gin.Context) {
	budget, err := strconv.ParseFloat(c.Query("budget"), 64)
	if err != nil || budget <= 0 {
		fail(c, http.StatusBadRequest, core.NewDomainError(core.ModuleServer, core.ErrorCodeInvalidInput, "server: invalid budget"))
		return
	}
	tolerance := s.cfg.DefaultBudgetTolerance()
	if v, ok := c.GetQuery("tolerance"); ok {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			fail(c, http.StatusBadRequest, err)
			return
		}
		tolerance = t
	}

	listings, err := s.store.All(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	s.respondListings(c, s.capResults(c, s.engine.RecommendByBudget(listings, budget, tolerance)))
}

// handleNearby 地理检索，radius 默认 10 公里。
func (s *Server) handleNearby(c *gin.Context) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil || !core.ValidCoordinate(lat, lon) {
		fail(c, http.StatusBadRequest, core.NewDomainError(core.ModuleServer, core.ErrorCodeInvalidInput, "server: invalid coordinates"))
		return
	}
	radius := s.cfg.DefaultRadiusKm()
	if v, ok := c.GetQuery("radius"); ok {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r <= 0 {
			fail(c, http.StatusBadRequest, core.NewDomainError(core.ModuleServer, core.ErrorCodeInvalidInput, "server: invalid radius"))
			return
		}
		radius = r
	}

	listings, err := s.store.All(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	s.respondListings(c, s.capResults(c, s.engine.SearchNearby(listings, lat, lon, radius)))
}

// handleStats 聚合统计：价格统计、城市/房型分布、均价、Top 10 设施。
func (s *Server) handleStats(c *gin.Context) {
	listings, err := s.store.All(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"total_listings": len(listings),
		"price_stats":    s.engine.PriceStatistics(listings),
		"by_city":        s.engine.CountByCity(listings),
		"by_type":        s.engine.CountByType(listings),
		"average_price":  s.engine.AveragePrice(listings),
		"top_amenities":  s.engine.TopAmenities(listings, 10),
	})
}

// capResults 按 max_results 参数截断结果，解析失败忽略该参数，
// 最终不超过配置上限。
func (s *Server) capResults(c *gin.Context, listings []*core.Listing) []*core.Listing {
	limit := s.cfg.MaxResultsCap()
	if v, ok := c.GetQuery("max_results"); ok {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 && n < limit {
			limit = n
		}
	}
	if len(listings) > limit {
		return listings[:limit]
	}
	return listings
}

// respondListings 补齐估价后按统一 JSON 结构返回。
func (s *Server) respondListings(c *gin.Context, listings []*core.Listing) {
	s.fillPredictions(listings)
	c.JSON(http.StatusOK, gin.H{
		"count":    len(listings),
		"listings": listings,
	})
}

// fillPredictions 用模型为结果集补齐 predicted_price。
// 模型缺失或未训练时保持 nil，JSON 中省略该字段。
func (s *Server) fillPredictions(listings []*core.Listing) {
	if s.model == nil {
		return
	}
	for _, l := range listings {
		if l == nil || l.HasPredictedPrice() {
			continue
		}
		predicted, err := s.model.Predict(l)
		if err != nil {
			return // 未训练时整批放弃，不逐条重试
		}
		l.SetPredictedPrice(predicted)
	}
}

// fail 以统一结构返回错误。
func fail(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{
		"error":   true,
		"message": err.Error(),
	})
}
