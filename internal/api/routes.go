package api

import (
	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"

	"github.com/upandey0/eval-sys/internal/api/middleware"
	"github.com/upandey0/eval-sys/internal/models"
)

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	// Health endpoint
	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/reports").
			To(handler.CreateReport).
			Doc("Score every recorded session in a date range").
			Metadata(restfulspec.KeyOpenAPITags, []string{"reports"}).
			Reads(models.ReportRequest{}).
			Writes(models.BatchReport{}).
			Returns(200, "OK", models.BatchReport{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(502, "Session Store Unavailable", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/score").
			To(handler.ScoreAnalysis).
			Doc("Normalize and score one analysis payload").
			Metadata(restfulspec.KeyOpenAPITags, []string{"score"}).
			Reads(models.Record{}).
			Writes(ScoreResponse{}).
			Returns(200, "OK", ScoreResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	container.Add(ws)
}
