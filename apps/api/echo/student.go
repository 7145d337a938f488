package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/gradebook/core/report"
)

type studentApi struct {
	service *report.Service
}

func registerStudentAPI(g *echo.Group, svc *report.Service) {
	api := studentApi{service: svc}

	self := selfOrAdminMiddleware("id")
	g.GET("/students/:id/results", api.resultList, self)
	g.GET("/students/:id/results/:examId", api.resultRetrieve, self)
}

// Handlers

func (api *studentApi) resultList(ctx echo.Context) error {
	results, err := api.service.StudentResults(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, results)
}

func (api *studentApi) resultRetrieve(ctx echo.Context) error {
	res, err := api.service.StudentResult(ctx.Request().Context(), ctx.Param("examId"), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}
