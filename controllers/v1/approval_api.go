package apiv1

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"hr-approval-backend/controllers"
	approvalhandler "hr-approval-backend/lib/approval"
	"hr-approval-backend/middleware"
	apimodels "hr-approval-backend/models/api"
	approvalapimodels "hr-approval-backend/models/api/approval"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type approvalApiController struct {
	controllers.BaseAPIController
}

func InitApprovalApiRouters(app fiber.Router) {
	controller := approvalApiController{}
	app.Route("approvals", func(router fiber.Router) {
		router.Post("", middleware.EmployeeRequired(), controller.create)
		router.Post("list", controller.list)
		router.Post("awaiting", middleware.EmployeeRequired(), controller.awaiting)
		router.Post("export", controller.export)
		router.Route(":id", func(idRoute fiber.Router) {
			idRoute.Get("", controller.get)
			idRoute.Put("", middleware.EmployeeRequired(), controller.update)
			idRoute.Delete("", middleware.EmployeeRequired(), controller.delete)
			idRoute.Put("approve", middleware.EmployeeRequired(), controller.approve) // согласовать текущий этап
			idRoute.Put("reject", middleware.EmployeeRequired(), controller.reject)   // отклонить
			idRoute.Get("file", controller.file)
			idRoute.Get("history", controller.history)
			idRoute.Get("pdf", controller.pdf)
		})
	})
}

// @Summary Создание документа на согласование
// @Tags Согласование
// @Description Создание документа. JSON или multipart/form-data: data - JSON документа, file - вложение
// @Param   X-Employee-Id		header		int		true	"ID сотрудника"
// @Param	body body	 approvalapimodels.ApprovalCreateData	true	"request body"
// @Param   file		formData	file 	false 	"вложение"
// @Success 200 {object} apimodels.Response{data=string}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/approvals [post]
func (c *approvalApiController) create(ctx *fiber.Ctx) error {
	var payload approvalapimodels.ApprovalCreateData
	var attachment *approvalhandler.Attachment
	if strings.HasPrefix(ctx.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		var err error
		attachment, err = c.parseMultipart(ctx, &payload)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
	} else if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	authorID := *c.GetEmployeeID(ctx)
	id, err := approvalhandler.Instance.Create(ctx.UserContext(), authorID, payload, attachment)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка создания документа на согласование")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(id))
}

func (c *approvalApiController) parseMultipart(ctx *fiber.Ctx, payload *approvalapimodels.ApprovalCreateData) (*approvalhandler.Attachment, error) {
	if data := ctx.FormValue("data"); data != "" {
		if err := json.Unmarshal([]byte(data), payload); err != nil {
			log.WithError(err).Error("ошибка распознавания поля data")
			return nil, errors.New("не удалось получить данные документа из запроса")
		}
	}
	file, err := ctx.FormFile("file")
	if err != nil {
		// вложение необязательно
		return nil, nil
	}
	buffer, err := file.Open()
	if err != nil {
		log.WithError(err).Error("Ошибка при получении файла вложения")
		return nil, err
	}
	defer buffer.Close()
	fileBody, err := io.ReadAll(buffer)
	if err != nil {
		log.WithError(err).Error("Ошибка при загрузке файла вложения")
		return nil, err
	}
	return &approvalhandler.Attachment{
		FileName: file.Filename,
		Data:     fileBody,
	}, nil
}

// @Summary Список документов
// @Tags Согласование
// @Description Список документов с фильтром по статусу (PENDING/APPROVED/REJECTED, пусто или ALL - все)
// @Param	body body	 approvalapimodels.ApprovalFilter	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]approvalapimodels.ApprovalView}
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/approvals/list [post]
func (c *approvalApiController) list(ctx *fiber.Ctx) error {
	var payload approvalapimodels.ApprovalFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	list, rowCount, err := approvalhandler.Instance.List(ctx.UserContext(), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка документов")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Документы, ожидающие моего согласования
// @Tags Согласование
// @Description Документы, где текущий этап принадлежит сотруднику
// @Param   X-Employee-Id		header		int		true	"ID сотрудника"
// @Param	body body	 apimodels.Pagination	true	"request body"
// @Success 200 {object} apimodels.ScrollerResponse{data=[]approvalapimodels.ApprovalView}
// @Failure 400 {object} apimodels.Response
// @Failure 403
// @Failure 500 {object} apimodels.Response
// @router /api/v1/approvals/awaiting [post]
func (c *approvalApiController) awaiting(ctx *fiber.Ctx) error {
	var payload apimodels.Pagination
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err := payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	callerID := *c.GetEmployeeID(ctx)
	list, rowCount, err := approvalhandler.Instance.ListAwaiting(ctx.UserContext(), callerID, payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения списка документов на согласовании")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewScrollerResponse(list, rowCount))
}

// @Summary Выгрузка списка документов в Excel
// @Tags Согласование
// @Description Выгрузка списка документов в Excel
// @Param	body body	 approvalapimodels.ApprovalExportFilter	true	"request body"
// @Success 200
// @Failure 400 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/approvals/export [post]
func (c *approvalApiController) export(ctx *fiber.Ctx) error {
	var payload approvalapimodels.ApprovalExportFilter
	if err := c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	data, err := approvalhandler.Instance.ExportList(ctx.UserContext(), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка выгрузки списка документов в Excel")
	}
	fileName := fmt.Sprintf("approvals-%v.xlsx", time.Now().Format("20060102-150405"))
	ctx.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
	return ctx.SendStream(data)
}

// @Summary Документ
// @Tags Согласование
// @Description Документ, этапы согласования и признак возможности согласования для сотрудника
// @Param   X-Employee-Id		header		int		false	"ID сотрудника"
// @Param   id          		path    string  				    	true         "ID документа"
// @Success 200 {object} apimodels.Response{data=approvalapimodels.ApprovalDetailView}
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/approvals/{id} [get]
func (c *approvalApiController) get(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	result, err := approvalhandler.Instance.GetByID(ctx.UserContext(), id, c.GetEmployeeID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения документа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Изменение документа
// @Tags Согласование
// @Description Изменение заголовка, текста и категории. Доступно только автору
// @Param   X-Employee-Id		header		int		true	"ID сотрудника"
// @Param	body body	 approvalapimodels.ApprovalUpdateData	true	"request body"
// @Param   id          		path    string  				    	true         "ID документа"
// @Success 200 {object} apimodels.Response
// @Failure 400 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/approvals/{id} [put]
func (c *approvalApiController) update(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload approvalapimodels.ApprovalUpdateData
	if err = c.BodyParser(ctx, &payload); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	err = approvalhandler.Instance.Update(ctx.UserContext(), id, *c.GetEmployeeID(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка изменения документа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Удаление документа
// @Tags Согласование
// @Description Удаление документа вместе с этапами, заявлением на отпуск и вложением
// @Param   X-Employee-Id		header		int		true	"ID сотрудника"
// @Param   id          		path    string  				    	true         "ID документа"
// @Success 200 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/approvals/{id} [delete]
func (c *approvalApiController) delete(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	err = approvalhandler.Instance.Delete(ctx.UserContext(), id, c.GetEmployeeID(ctx))
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка удаления документа")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Согласовать
// @Tags Согласование
// @Description Согласование текущего этапа
// @Param   X-Employee-Id		header		int		true	"ID сотрудника"
// @Param	body body	 approvalapimodels.ApprovalActionData	false	"request body"
// @Param   id          		path    string  				    	true         "ID документа"
// @Success 200 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/approvals/{id}/approve [put]
func (c *approvalApiController) approve(ctx *fiber.Ctx) error {
	return c.act(ctx, approvalhandler.Instance.Approve, "Ошибка согласования документа")
}

// @Summary Отклонить
// @Tags Согласование
// @Description Отклонение документа на текущем этапе
// @Param   X-Employee-Id		header		int		true	"ID сотрудника"
// @Param	body body	 approvalapimodels.ApprovalActionData	false	"request body"
// @Param   id          		path    string  				    	true         "ID документа"
// @Success 200 {object} apimodels.Response
// @Failure 403 {object} apimodels.Response
// @Failure 404 {object} apimodels.Response
// @Failure 409 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/approvals/{id}/reject [put]
func (c *approvalApiController) reject(ctx *fiber.Ctx) error {
	return c.act(ctx, approvalhandler.Instance.Reject, "Ошибка отклонения документа")
}

type actionFunc func(ctx context.Context, docID string, callerID int, data approvalapimodels.ApprovalActionData) error

func (c *approvalApiController) act(ctx *fiber.Ctx, action actionFunc, errMsg string) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}
	var payload approvalapimodels.ApprovalActionData
	if len(ctx.Body()) != 0 {
		if err = c.BodyParser(ctx, &payload); err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
		}
	}
	if err = payload.Validate(); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	err = action(ctx.UserContext(), id, *c.GetEmployeeID(ctx), payload)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, errMsg)
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(nil))
}

// @Summary Скачать вложение
// @Tags Согласование
// @Description Скачать вложение документа
// @Param   id          		path    string  				    	true         "ID документа"
// @Success 200
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/approvals/{id}/file [get]
func (c *approvalApiController) file(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	file, err := approvalhandler.Instance.GetAttachment(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения вложения")
	}
	if file == nil {
		return ctx.Status(fiber.StatusNotFound).JSON(apimodels.NewError("У документа нет вложения"))
	}
	ctx.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	ctx.Set(fiber.HeaderContentDisposition, "attachment; filename*=UTF-8''"+url.PathEscape(file.FileName))
	return ctx.SendStream(file.Reader)
}

// @Summary История согласования
// @Tags Согласование
// @Description Решения по этапам с комментариями в порядке принятия
// @Param   id          		path    string  				    	true         "ID документа"
// @Success 200 {object} apimodels.Response{data=[]approvalapimodels.ApprovalHistoryView}
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/approvals/{id}/history [get]
func (c *approvalApiController) history(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	result, err := approvalhandler.Instance.History(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка получения истории согласования")
	}
	return ctx.Status(fiber.StatusOK).JSON(apimodels.NewResponse(result))
}

// @Summary Лист согласования
// @Tags Согласование
// @Description Лист согласования в PDF
// @Param   id          		path    string  				    	true         "ID документа"
// @Success 200
// @Failure 404 {object} apimodels.Response
// @Failure 500 {object} apimodels.Response
// @router /api/v1/approvals/{id}/pdf [get]
func (c *approvalApiController) pdf(ctx *fiber.Ctx) error {
	id, err := c.GetID(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(apimodels.NewError(err.Error()))
	}

	data, err := approvalhandler.Instance.PrintSheet(ctx.UserContext(), id)
	if err != nil {
		return c.SendError(ctx, c.GetLogger(ctx), err, "Ошибка формирования листа согласования")
	}
	ctx.Set(fiber.HeaderContentType, "application/pdf")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="`+id+`.pdf"`)
	return ctx.Send(data)
}
