package controller

import (
	"net/http"
	"strconv"

	"github.com/Sreehari-M-dev/LOGI-tests/database/model"
	"github.com/Sreehari-M-dev/LOGI-tests/web/entity"
	"github.com/Sreehari-M-dev/LOGI-tests/web/middleware"
	"github.com/Sreehari-M-dev/LOGI-tests/web/service"

	"github.com/gin-gonic/gin"
)

// LogBookController serves /api/logbook.
type LogBookController struct {
	BaseController

	logbookService service.LogBookService
	auditService   service.AuditLogService
	strictRows     bool
}

// NewLogBookController registers the logbook routes on g, which must be
// behind BearerAuth. strictRows rejects half-filled rows on create.
func NewLogBookController(g *gin.RouterGroup, strictRows bool) *LogBookController {
	a := &LogBookController{strictRows: strictRows}
	a.initRouter(g)
	return a
}

func (a *LogBookController) initRouter(g *gin.RouterGroup) {
	staffOnly := middleware.RoleRequired("Students can only view their own logbook", model.RoleFaculty, model.RoleAdmin)

	g.Use(middleware.AuditMiddleware())

	g.POST("/create", a.create)
	g.GET("/all", staffOnly, a.all)
	g.GET("/my-logbooks", a.mine)
	g.GET("/audit", middleware.RoleRequired("Access denied", model.RoleAdmin), a.audit)
	g.GET("/roll/:rollno", staffOnly, a.byRoll)
	g.GET("/register/:rgno", a.byRgno)
	g.GET("/:id", a.byId)
	g.GET("/:id/form", a.form)
	g.DELETE("/:id", a.delete)
}

func (a *LogBookController) create(c *gin.Context) {
	if !middleware.IsStudent(c) {
		pureJsonMsg(c, http.StatusForbidden, "Only students can create logbooks. Faculty can view and manage student logbooks.")
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		jsonError(c, "read logbook", err)
		return
	}
	form, err := service.DecodeForm(body)
	if err != nil {
		jsonError(c, "decode logbook", err)
		return
	}
	if a.strictRows {
		if err := service.CheckRows(form); err != nil {
			jsonError(c, "check logbook rows", err)
			return
		}
	}
	lb, err := service.ParseSubmission(form)
	if err != nil {
		jsonError(c, "parse logbook", err)
		return
	}
	if lb.Rgno != a.claims(c).Rgno {
		pureJsonMsg(c, http.StatusForbidden, "You can only edit your own logbook")
		return
	}

	id, isUpdate, err := a.logbookService.Save(lb)
	if err != nil {
		jsonError(c, "save logbook", err)
		return
	}

	msg, action := "Log book saved successfully", service.ActionCreate
	if isUpdate {
		msg, action = "Log book updated successfully", service.ActionUpdate
	}
	middleware.MarkAudit(c, action, id)
	c.JSON(http.StatusOK, entity.SaveResponse{
		Msg:      entity.Msg{Success: true, Message: msg},
		Id:       id,
		IsUpdate: isUpdate,
	})
}

func (a *LogBookController) all(c *gin.Context) {
	logbooks, err := a.logbookService.GetAll()
	if err != nil {
		jsonError(c, "list logbooks", err)
		return
	}
	jsonList(c, logbooks)
}

func (a *LogBookController) mine(c *gin.Context) {
	logbooks, err := a.logbookService.GetByRgno(a.claims(c).Rgno)
	if err != nil {
		jsonError(c, "list own logbooks", err)
		return
	}
	jsonList(c, logbooks)
}

func (a *LogBookController) byRoll(c *gin.Context) {
	rollNo := entity.ParseLeadingInt(c.Param("rollno"))
	logbooks, err := a.logbookService.GetByRollNo(rollNo)
	if err != nil {
		jsonError(c, "list logbooks by roll", err)
		return
	}
	jsonList(c, logbooks)
}

func (a *LogBookController) byRgno(c *gin.Context) {
	rgno := entity.ParseLeadingInt(c.Param("rgno"))
	if !a.canSee(c, rgno) {
		pureJsonMsg(c, http.StatusForbidden, "You can only view your own logbooks")
		return
	}
	logbooks, err := a.logbookService.GetByRgno(rgno)
	if err != nil {
		jsonError(c, "list logbooks by register number", err)
		return
	}
	jsonList(c, logbooks)
}

// load fetches :id and applies the ownership rule, answering on failure.
func (a *LogBookController) load(c *gin.Context, denied string) (*model.LogBook, bool) {
	lb, err := a.logbookService.GetById(c.Param("id"))
	if err != nil {
		jsonError(c, "get logbook", err)
		return nil, false
	}
	if !a.canSee(c, lb.Rgno) {
		pureJsonMsg(c, http.StatusForbidden, denied)
		return nil, false
	}
	return lb, true
}

func (a *LogBookController) byId(c *gin.Context) {
	lb, ok := a.load(c, "You can only view your own logbook")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, entity.DataResponse{Msg: entity.Msg{Success: true}, Data: lb})
}

func (a *LogBookController) form(c *gin.Context) {
	lb, ok := a.load(c, "You can only view your own logbook")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, entity.DataResponse{Msg: entity.Msg{Success: true}, Data: service.FormFields(lb)})
}

func (a *LogBookController) delete(c *gin.Context) {
	lb, ok := a.load(c, "You can only delete your own logbook")
	if !ok {
		return
	}
	if err := a.logbookService.Delete(lb.Id); err != nil {
		jsonError(c, "delete logbook", err)
		return
	}
	middleware.MarkAudit(c, service.ActionDelete, lb.Id)
	jsonMsg(c, "Deleted successfully")
}

func (a *LogBookController) audit(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	logs, total, err := a.auditService.GetAuditLogs(limit, offset)
	if err != nil {
		jsonError(c, "list audit logs", err)
		return
	}
	c.JSON(http.StatusOK, entity.ListResponse{
		Msg:   entity.Msg{Success: true},
		Count: len(logs),
		Total: total,
		Data:  logs,
	})
}
