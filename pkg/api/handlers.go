package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	contractx "supervisor-agent/agent/contract"
	supervisorx "supervisor-agent/agent/supervisor"
)

// Health handles GET /health.
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Supervisor is running",
	})
}

// ListAgents handles GET /agents and GET /api/agents.
func (s *Server) ListAgents(c *gin.Context) {
	c.JSON(http.StatusOK, s.supervisor.Agents())
}

// HandleQuery handles POST /query and POST /api/query.
func (s *Server) HandleQuery(c *gin.Context) {
	var req supervisorx.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid request body: " + err.Error()})
		return
	}

	resp, err := s.supervisor.HandleQuery(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, contractx.ErrEmptyQuery) || errors.Is(err, contractx.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Query cannot be empty"})
			return
		}
		log.Error().Err(err).Msg("query handling failed")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, resp)
}
