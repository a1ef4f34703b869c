package server

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"GoRAGService/app/service"
)

// Server exposes the knowledge and query workflows over HTTP.
type Server struct {
	knowledge *service.Knowledge
	answerer  *service.Answerer
}

func New(knowledge *service.Knowledge, answerer *service.Answerer) *Server {
	return &Server{
		knowledge: knowledge,
		answerer:  answerer,
	}
}

func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLog())

	router.POST("/knowledge", s.postKnowledge)
	router.GET("/knowledge", s.listKnowledge)
	router.GET("/knowledge/:id", s.getKnowledge)
	router.POST("/query", s.postQuery)

	return router
}

// Contents is a pointer so a missing key is rejected while an explicitly
// empty list is accepted as a no-op.
type ingestRequest struct {
	Contents *[]string `json:"contents" binding:"required"`
}

type queryRequest struct {
	Query string `json:"query"`
}

func (s *Server) postKnowledge(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.knowledge.Ingest(c.Request.Context(), *req.Contents); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) listKnowledge(c *gin.Context) {
	docs, err := s.knowledge.ListAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if docs == nil {
		docs = []service.Document{}
	}
	c.JSON(http.StatusOK, docs)
}

func (s *Server) getKnowledge(c *gin.Context) {
	doc, err := s.knowledge.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (s *Server) postQuery(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, err := s.answerer.Answer(c.Request.Context(), req.Query)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, answer)
}

// writeError maps the workflow error taxonomy onto status codes. Every
// failure gets a JSON body of the shape {"error": message}.
func writeError(c *gin.Context, err error) {
	var valErr *service.ValidationError
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found."})
	case errors.As(err, &valErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": valErr.Msg})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}

func requestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Printf("🌐 %s %s -> %d (%s)",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
