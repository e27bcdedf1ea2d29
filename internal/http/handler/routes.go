package handler

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alumniapi/internal/model"
	"alumniapi/internal/service"
)

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
func RegisterRoutes(app *fiber.App, db *sql.DB, extSvc service.ExtractionService, enrSvc service.EnrollmentService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	app.Post("/files", UploadExtraction(extSvc))

	app.Get("/enrollments", ListEnrollments(enrSvc))
	app.Get("/enrollments/:id", GetEnrollment(enrSvc))
	app.Delete("/enrollments/:id", DeleteEnrollment(enrSvc))
}

// HealthCheck godoc
// @Summary Readiness probe
// @Description Checks database connectivity.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} errorPayload
// @Router /health [get]
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe godoc
// @Summary Liveness probe
// @Tags health
// @Success 200
// @Router /healthz [get]
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// UploadExtraction godoc
// @Summary Ingest an extraction file
// @Description Validates a CSV extraction, maps its rows and stores them as one batch. Nothing is stored when any row is rejected.
// @Tags extractions
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file (text/csv, at most 5 MiB)"
// @Param facultyId formData string true "Faculty ID"
// @Param courseId formData string true "Course ID"
// @Param kind formData string false "Extraction kind" Enums(ENROLLMENT, LINKEDIN) default(ENROLLMENT)
// @Success 202 {object} model.IngestResult
// @Failure 400 {object} errorPayload
// @Failure 500 {object} errorPayload
// @Router /files [post]
func UploadExtraction(svc service.ExtractionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		kind := strings.ToUpper(strings.TrimSpace(c.FormValue("kind")))
		if kind == "" {
			kind = string(model.UploadKindEnrollment)
		}

		req := model.UploadRequest{
			Kind:      model.UploadKind(kind),
			FacultyID: strings.TrimSpace(c.FormValue("facultyId")),
			CourseID:  strings.TrimSpace(c.FormValue("courseId")),
		}

		// a missing part is reported by the service as MISSING_FILE
		if fh, err := c.FormFile("file"); err == nil {
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			defer f.Close()

			req.File = &model.UploadFile{
				Filename:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Size:        fh.Size,
				Reader:      f,
			}
		}

		res, err := svc.Ingest(c.UserContext(), req)
		if err != nil {
			if ie, ok := service.AsIngestError(err); ok {
				return writeIngestError(c, ie)
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusAccepted).JSON(res)
	}
}

// ListEnrollments godoc
// @Summary List enrollments
// @Tags enrollments
// @Produce json
// @Param courseId query string false "Filter by course"
// @Param facultyId query string false "Filter by faculty"
// @Param limit query int false "Page size (max 100)" default(10)
// @Param offset query int false "Offset" default(0)
// @Success 200 {object} service.EnrollmentListResult
// @Failure 400 {object} errorPayload
// @Router /enrollments [get]
func ListEnrollments(svc service.EnrollmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit, err := strconv.Atoi(c.Query("limit", "10"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_LIMIT", "invalid limit")
		}
		offset, err := strconv.Atoi(c.Query("offset", "0"))
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_OFFSET", "invalid offset")
		}

		res, err := svc.List(c.UserContext(), service.EnrollmentQuery{
			CourseID:  c.Query("courseId"),
			FacultyID: c.Query("facultyId"),
			Limit:     limit,
			Offset:    offset,
		})
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// GetEnrollment godoc
// @Summary Get an enrollment
// @Tags enrollments
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} model.Enrollment
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /enrollments/{id} [get]
func GetEnrollment(svc service.EnrollmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		e, err := svc.Get(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "enrollment not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(e)
	}
}

// DeleteEnrollment godoc
// @Summary Delete an enrollment
// @Tags enrollments
// @Param id path string true "Enrollment ID"
// @Success 204
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /enrollments/{id} [delete]
func DeleteEnrollment(svc service.EnrollmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), id); err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "enrollment not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
