package router

import (
	"github.com/gin-gonic/gin"

	"github.com/rentmgr/backend/internal/infrastructure/auth"
	"github.com/rentmgr/backend/internal/interfaces/http/middleware"
)

// ObligationEndpoints serves /obligations
type ObligationEndpoints interface {
	EnsureObligations(c *gin.Context)
	GenerateAhead(c *gin.Context)
	SetStatus(c *gin.Context)
	BulkSetStatus(c *gin.Context)
	GetObligation(c *gin.Context)
	ListObligations(c *gin.Context)
}

// JobEndpoints serves /jobs
type JobEndpoints interface {
	RunReminders(c *gin.Context)
	RunReconciliation(c *gin.Context)
	GetStatus(c *gin.Context)
}

// OutboxEndpoints serves /outbox
type OutboxEndpoints interface {
	GetDeadLetterEntries(c *gin.Context)
	GetEntry(c *gin.Context)
	RetryDeadEntry(c *gin.Context)
	RetryAllDeadEntries(c *gin.Context)
	GetStats(c *gin.Context)
}

// ObligationRoutes builds the obligation group. Reads accept either
// obligation permission, changes need obligation:write.
func ObligationRoutes(h ObligationEndpoints, guard *middleware.PermissionGuard) *DomainGroup {
	read := guard.Require(auth.PermObligationRead, auth.PermObligationWrite)
	write := guard.Require(auth.PermObligationWrite)

	g := NewDomainGroup("obligations", "/obligations")
	g.GET("", read, h.ListObligations)
	g.GET("/:id", read, h.GetObligation)
	g.POST("/ensure", write, h.EnsureObligations)
	g.POST("/generate-ahead", write, h.GenerateAhead)
	g.PUT("/status", write, h.BulkSetStatus)
	g.PUT("/:id/status", write, h.SetStatus)
	return g
}

// JobRoutes builds the manual job trigger group
func JobRoutes(h JobEndpoints, guard *middleware.PermissionGuard) *DomainGroup {
	g := NewDomainGroup("jobs", "/jobs").Use(guard.Require(auth.PermJobRun))
	g.GET("/status", h.GetStatus)
	g.POST("/reminders/run", h.RunReminders)
	g.POST("/reconciliation/run", h.RunReconciliation)
	return g
}

// OutboxRoutes builds the outbox administration group
func OutboxRoutes(h OutboxEndpoints, guard *middleware.PermissionGuard) *DomainGroup {
	g := NewDomainGroup("outbox", "/outbox").Use(guard.Require(auth.PermOutboxManage))
	g.GET("/stats", h.GetStats)
	g.GET("/dead", h.GetDeadLetterEntries)
	g.POST("/dead/retry-all", h.RetryAllDeadEntries)
	g.POST("/dead/:id/retry", h.RetryDeadEntry)
	g.GET("/:id", h.GetEntry)
	return g
}
