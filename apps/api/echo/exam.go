package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/exam"
	"github.com/trezcool/gradebook/core/report"
)

type examApi struct {
	service   *exam.Service
	reportSvc *report.Service
}

type transitionRequest struct {
	Status exam.Status `json:"status"`
}

func registerExamAPI(g *echo.Group, svc *exam.Service, reportSvc *report.Service) {
	api := examApi{service: svc, reportSvc: reportSvc}

	staff := rolesMiddleware(RoleAdmin, RoleTeacher)
	admin := rolesMiddleware(RoleAdmin)

	g.POST("/exams", api.examCreate, admin)
	g.GET("/exams", api.examQuery, staff)
	g.GET("/exams/:id", api.examRetrieve, staff)
	g.PUT("/exams/:id", api.examUpdate, admin)
	g.POST("/exams/:id/status", api.examTransition, admin)
}

// Handlers

func (api *examApi) examCreate(ctx echo.Context) error {
	data := new(exam.NewExam)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	e, err := api.service.Create(ctx.Request().Context(), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, e)
}

func (api *examApi) examQuery(ctx echo.Context) error {
	filter := new(exam.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return err
	}
	filter.Clean()

	ord := new(Ordering)
	ord.Bind(ctx)

	exams, err := api.service.Query(ctx.Request().Context(), filter, ord.Orderings)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, exams)
}

func (api *examApi) examRetrieve(ctx echo.Context) error {
	e, err := api.service.Get(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, e)
}

func (api *examApi) examUpdate(ctx echo.Context) error {
	data := new(exam.UpdateExam)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	e, err := api.service.Update(ctx.Request().Context(), ctx.Param("id"), *data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, e)
}

func (api *examApi) examTransition(ctx echo.Context) error {
	data := new(transitionRequest)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	target := exam.Status(core.CleanString(string(data.Status)))
	if !target.IsValid() {
		return core.NewValidationError(nil, core.FieldError{Field: "status", Error: "invalid exam status"})
	}

	// publishing notifies the students
	if target == exam.StatusPublished {
		rep, err := api.reportSvc.Publish(ctx.Request().Context(), ctx.Param("id"))
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, rep.Exam)
	}

	e, err := api.service.Transition(ctx.Request().Context(), ctx.Param("id"), target)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, e)
}
