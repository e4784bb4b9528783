package api

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/classpoint/school-backend/internal/domain"
	"github.com/classpoint/school-backend/internal/service"
)

// CreateSubject handles POST /subjects
func (h *Handlers) CreateSubject(c *gin.Context) {
	var req domain.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, 400, err.Error())
		return
	}

	subject, err := h.services.Subject.Create(c.Request.Context(), h.actor(c), &req)
	if err != nil {
		var capErr *service.TeacherCapacityError
		switch {
		case errors.Is(err, service.ErrTeacherNotFound):
			respondError(c, 404, "Teacher not found or inactive")
		case errors.As(err, &capErr):
			respondError(c, 400, capErr.Error())
		default:
			h.logger.Error("Failed to create subject", zap.Error(err))
			respondError(c, 500, "Failed to create subject")
		}
		return
	}

	respondData(c, 201, subject)
}

// ListSubjects handles GET /subjects
func (h *Handlers) ListSubjects(c *gin.Context) {
	q := parseListQuery(c)
	archived := c.Query("archived") == "true"

	subjects, total, err := h.services.Subject.List(c.Request.Context(), h.actor(c), q, archived, c.Query("teacher"))
	if err != nil {
		h.logger.Error("Failed to list subjects", zap.Error(err))
		respondError(c, 500, "Failed to list subjects")
		return
	}

	respondList(c, subjects, len(subjects), total, q.Page, q.Limit)
}

// GetSubject handles GET /subjects/:id
func (h *Handlers) GetSubject(c *gin.Context) {
	subject, err := h.services.Subject.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.subjectError(c, err, "Failed to load subject")
		return
	}
	respondData(c, 200, subject)
}

// UpdateSubject handles PUT /subjects/:id
func (h *Handlers) UpdateSubject(c *gin.Context) {
	var req domain.UpdateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, 400, err.Error())
		return
	}

	subject, err := h.services.Subject.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		var capErr *service.TeacherCapacityError
		switch {
		case errors.Is(err, service.ErrTeacherNotFound):
			respondError(c, 404, "Teacher not found or inactive")
		case errors.As(err, &capErr):
			respondError(c, 400, capErr.Error())
		default:
			h.subjectError(c, err, "Failed to update subject")
		}
		return
	}

	respondMessage(c, 200, "Subject updated", subject)
}

// ArchiveSubject handles DELETE /subjects/:id (soft delete)
func (h *Handlers) ArchiveSubject(c *gin.Context) {
	subject, err := h.services.Subject.Archive(c.Request.Context(), h.actor(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrSubjectArchived) {
			respondError(c, 400, "Subject is already archived")
			return
		}
		h.subjectError(c, err, "Failed to archive subject")
		return
	}
	respondMessage(c, 200, "Subject archived", subject)
}

// RestoreSubject handles PUT /subjects/:id/restore
func (h *Handlers) RestoreSubject(c *gin.Context) {
	subject, err := h.services.Subject.Restore(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrSubjectNotArchived) {
			respondError(c, 400, "Subject is not archived")
			return
		}
		h.subjectError(c, err, "Failed to restore subject")
		return
	}
	respondMessage(c, 200, "Subject restored", subject)
}

// DeleteSubjectPermanently handles DELETE /subjects/:id/permanent
func (h *Handlers) DeleteSubjectPermanently(c *gin.Context) {
	err := h.services.Subject.PermanentDelete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrSubjectNotArchived) {
			respondError(c, 400, "Subject must be archived before permanent deletion")
			return
		}
		h.subjectError(c, err, "Failed to delete subject")
		return
	}
	respondMessage(c, 200, "Subject permanently deleted", nil)
}

// AssignTeacher handles PUT /subjects/:id/assign-teacher
func (h *Handlers) AssignTeacher(c *gin.Context) {
	var req struct {
		Teacher string `json:"teacher" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, 400, err.Error())
		return
	}

	subject, teacher, err := h.services.Assignment.Assign(c.Request.Context(), c.Param("id"), req.Teacher)
	if err != nil {
		var capErr *service.TeacherCapacityError
		switch {
		case errors.Is(err, service.ErrTeacherNotFound), errors.Is(err, service.ErrUserNotFound):
			respondError(c, 404, "Teacher not found or inactive")
		case errors.As(err, &capErr):
			respondError(c, 400, capErr.Error())
		default:
			h.subjectError(c, err, "Failed to assign teacher")
		}
		return
	}

	respondMessage(c, 200, "Teacher "+teacher.FullName()+" assigned", subject)
}

// UnassignTeacher handles PUT /subjects/:id/unassign-teacher
func (h *Handlers) UnassignTeacher(c *gin.Context) {
	result, err := h.services.Assignment.Unassign(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.subjectError(c, err, "Failed to unassign teacher")
		return
	}

	if !result.Removed {
		// No teacher assigned is a no-op, reported but not an error.
		c.JSON(200, gin.H{
			"success": false,
			"message": "Subject has no teacher assigned",
			"data":    result.Subject,
		})
		return
	}

	respondMessage(c, 200, "Teacher unassigned", result.Subject)
}

// EnrollStudent handles PUT /subjects/:id/enroll-student
func (h *Handlers) EnrollStudent(c *gin.Context) {
	var req struct {
		Student string `json:"student" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, 400, err.Error())
		return
	}

	subject, student, err := h.services.Enrollment.Enroll(c.Request.Context(), h.actor(c), c.Param("id"), req.Student)
	if err != nil {
		h.enrollmentError(c, err)
		return
	}

	respondMessage(c, 200, "Student "+student.FullName()+" enrolled", subject)
}

// UnenrollStudent handles PUT /subjects/:id/unenroll-student/:studentIdentifier
func (h *Handlers) UnenrollStudent(c *gin.Context) {
	subject, student, err := h.services.Enrollment.Unenroll(c.Request.Context(), h.actor(c), c.Param("id"), c.Param("studentIdentifier"))
	if err != nil {
		h.enrollmentError(c, err)
		return
	}

	respondMessage(c, 200, "Student "+student.FullName()+" unenrolled", subject)
}

// BulkEnrollStudents handles PUT /subjects/:id/bulk-enroll-students
func (h *Handlers) BulkEnrollStudents(c *gin.Context) {
	var req struct {
		Students []string `json:"students" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, 400, err.Error())
		return
	}

	result, err := h.services.Enrollment.BulkEnroll(c.Request.Context(), h.actor(c), c.Param("id"), req.Students)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyBatch):
			respondError(c, 400, "Student list must not be empty")
		case errors.Is(err, service.ErrSubjectFull):
			respondError(c, 400, service.ReasonSubjectFull)
		default:
			h.enrollmentError(c, err)
		}
		return
	}

	respondData(c, 200, result)
}

// subjectError maps the errors shared by all subject handlers.
func (h *Handlers) subjectError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrInvalidSubjectID):
		respondError(c, 400, "Invalid subject id")
	case errors.Is(err, service.ErrSubjectNotFound):
		respondError(c, 404, "Subject not found")
	default:
		h.logger.Error(fallback, zap.Error(err))
		respondError(c, 500, fallback)
	}
}

func (h *Handlers) enrollmentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotSubjectTeacher):
		respondError(c, 403, "Only the subject's teacher or an admin can manage enrollment")
	case errors.Is(err, service.ErrSubjectFull):
		respondError(c, 400, service.ReasonSubjectFull)
	case errors.Is(err, service.ErrAlreadyEnrolled):
		respondError(c, 400, service.ReasonAlreadyEnrolled)
	case errors.Is(err, service.ErrNotEnrolled):
		respondError(c, 400, "Student is not enrolled in this subject")
	case errors.Is(err, service.ErrStudentNotFound), errors.Is(err, service.ErrUserNotFound):
		respondError(c, 404, service.ReasonStudentNotFound)
	default:
		h.subjectError(c, err, "Failed to update enrollment")
	}
}
