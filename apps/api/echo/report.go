package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/gradebook/core/report"
)

type reportApi struct {
	service *report.Service
}

type saveDraftRequest struct {
	Edits []report.Edit `json:"edits"`
}

func registerReportAPI(g *echo.Group, svc *report.Service) {
	api := reportApi{service: svc}

	// routes are registered on g: a sub-group would shadow "GET /exams/:id" with its catch-all routes
	staff := rolesMiddleware(RoleAdmin, RoleTeacher)
	g.GET("/exams/:id/report", api.reportRetrieve, staff)
	g.PUT("/exams/:id/results", api.reportSaveDraft, staff)
	g.POST("/exams/:id/publish", api.reportPublish, staff)
}

// Handlers

func (api *reportApi) reportRetrieve(ctx echo.Context) error {
	rep, err := api.service.LoadReport(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rep)
}

func (api *reportApi) reportSaveDraft(ctx echo.Context) error {
	data := new(saveDraftRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	rep, err := api.service.SaveDraft(ctx.Request().Context(), ctx.Param("id"), data.Edits)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rep)
}

func (api *reportApi) reportPublish(ctx echo.Context) error {
	rep, err := api.service.Publish(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rep)
}
