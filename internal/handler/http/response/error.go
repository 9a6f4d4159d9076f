package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/approval"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/credithour"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/leaveaccount"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/notification"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/organization"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/overtime"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/preapproval"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/shift"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/supervisor"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/travel"
	"github.com/cmlabs-hris/attendance-engine-go/internal/domain/user"
	"github.com/cmlabs-hris/attendance-engine-go/internal/pkg/validator"
	"github.com/cmlabs-hris/attendance-engine-go/internal/service/limit"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Limit ceilings carry a redirect suggestion the UI offers as the
	// alternate submission path.
	var exceeded *limit.ExceededError
	if errors.As(err, &exceeded) {
		writeJSON(w, http.StatusUnprocessableEntity, Response{
			Success: false,
			Error: &ErrorDetail{
				Code:    "LIMIT_EXCEEDED",
				Message: exceeded.Error(),
			},
			Data: exceeded.Suggestion,
		})
		return
	}

	var permErr *approval.PermissionError
	if errors.As(err, &permErr) {
		Forbidden(w, permErr.Error())
		return
	}

	var orderErr *approval.OrderError
	if errors.As(err, &orderErr) {
		Conflict(w, orderErr.Error())
		return
	}

	var stateErr *overtime.StateError
	if errors.As(err, &stateErr) {
		Conflict(w, stateErr.Error())
		return
	}

	var skip *overtime.RecalibrationSkip
	if errors.As(err, &skip) {
		Conflict(w, skip.Error())
		return
	}

	var belowMin *credithour.BelowMinimumError
	if errors.As(err, &belowMin) {
		BadRequest(w, belowMin.Error(), nil)
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenExpired),
		errors.Is(err, auth.ErrRefreshTokenRevoked),
		errors.Is(err, auth.ErrRefreshTokenCookieNotFound),
		errors.Is(err, auth.ErrRefreshTokenCookieEmpty):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrUserNotFound),
		errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, err.Error())
	case errors.Is(err, user.ErrHRAccessRequired):
		Forbidden(w, err.Error())

	// Approval workflow
	case errors.Is(err, approval.ErrNotRecipient),
		errors.Is(err, approval.ErrCancelNotSender),
		errors.Is(err, approval.ErrModeNotAllowed):
		Forbidden(w, err.Error())
	case errors.Is(err, approval.ErrInvalidTransition),
		errors.Is(err, approval.ErrTerminalState),
		errors.Is(err, approval.ErrRequestDeleted):
		Conflict(w, err.Error())
	case errors.Is(err, approval.ErrNoNextSupervisor),
		errors.Is(err, approval.ErrNoSupervisorChain),
		errors.Is(err, supervisor.ErrNoSupervisorAtLevel),
		errors.Is(err, supervisor.ErrNotSupervisorOf):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, approval.ErrRequestNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, approval.ErrDuplicateOpen):
		Conflict(w, err.Error())

	// Timesheets
	case errors.Is(err, timesheet.ErrTimeSheetNotFound),
		errors.Is(err, timesheet.ErrEntryNotFound),
		errors.Is(err, timesheet.ErrApprovalNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, timesheet.ErrNoTimeSheet):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, timesheet.ErrDuplicateEntry),
		errors.Is(err, timesheet.ErrApprovalAlreadyDecided),
		errors.Is(err, timesheet.ErrEntryAlreadyDeleted):
		Conflict(w, err.Error())

	// Shifts
	case errors.Is(err, shift.ErrShiftNotFound),
		errors.Is(err, shift.ErrSettingNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, shift.ErrNoTimingForDate),
		errors.Is(err, shift.ErrSettingNotApplied),
		errors.Is(err, shift.ErrShiftAndHours):
		BadRequest(w, err.Error(), nil)

	// Overtime
	case errors.Is(err, overtime.ErrSettingNotFound),
		errors.Is(err, overtime.ErrEntryNotFound),
		errors.Is(err, overtime.ErrClaimNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, overtime.ErrClaimArchived),
		errors.Is(err, overtime.ErrClaimConfirmed),
		errors.Is(err, overtime.ErrEntryExists),
		errors.Is(err, overtime.ErrEditNotAllowed):
		Conflict(w, err.Error())
	case errors.Is(err, overtime.ErrBelowFlatReject),
		errors.Is(err, overtime.ErrEditExceedsEarned):
		BadRequest(w, err.Error(), nil)

	// Credit hours
	case errors.Is(err, credithour.ErrSettingNotFound),
		errors.Is(err, credithour.ErrRequestNotFound),
		errors.Is(err, credithour.ErrEntryNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, credithour.ErrRequestDeleted),
		errors.Is(err, credithour.ErrDuplicateOpenRequest),
		errors.Is(err, credithour.ErrEntryConsumed),
		errors.Is(err, credithour.ErrDeleteNotApproved),
		errors.Is(err, credithour.ErrDeleteRequestExists):
		Conflict(w, err.Error())
	case errors.Is(err, leaveaccount.ErrNoAccount):
		NotFound(w, err.Error())
	case errors.Is(err, leaveaccount.ErrMaxBalanceExceeded):
		Conflict(w, err.Error())

	// Pre-approved overtime
	case errors.Is(err, preapproval.ErrNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, preapproval.ErrNotEnabled):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, preapproval.ErrDuplicateOpenRequest),
		errors.Is(err, preapproval.ErrEditNotAllowed),
		errors.Is(err, preapproval.ErrClaimConfirmed):
		Conflict(w, err.Error())

	// Travel
	case errors.Is(err, travel.ErrRequestNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, travel.ErrInvalidDateRange),
		errors.Is(err, travel.ErrNoApplicableDays):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, travel.ErrOverlappingRequest),
		errors.Is(err, travel.ErrDeleteNotApproved),
		errors.Is(err, travel.ErrDeleteRequestExists):
		Conflict(w, err.Error())

	// Organization
	case errors.Is(err, organization.ErrOrganizationNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, organization.ErrNoFiscalYear):
		BadRequest(w, err.Error(), nil)

	// Notifications
	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, err.Error())

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
