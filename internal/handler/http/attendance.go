package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/inout-app/inout-backend-go/internal/domain/attendance"
	"github.com/inout-app/inout-backend-go/internal/handler/http/middleware"
	"github.com/inout-app/inout-backend-go/internal/handler/http/response"
	"github.com/inout-app/inout-backend-go/internal/pkg/jwt"
	attendanceService "github.com/inout-app/inout-backend-go/internal/service/attendance"
)

const streamKeepalive = 30 * time.Second

type AttendanceHandler interface {
	Status(w http.ResponseWriter, r *http.Request)
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	OpenShifts(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	jwtService        jwt.Service
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, jwtService jwt.Service) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		jwtService:        jwtService,
	}
}

// Status implements AttendanceHandler.
func (h *attendanceHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserID(r)

	status, err := h.attendanceService.Status(r.Context(), uid)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, status)
}

type actionFunc func(r *http.Request, uid string, report attendance.DeviceReport) (attendance.ActionResult, error)

func (h *attendanceHandlerImpl) action(w http.ResponseWriter, r *http.Request, name string, run actionFunc) {
	uid := middleware.UserID(r)

	var req attendance.ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error(name+" decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := run(r, uid, req.DeviceReport())
	if err != nil {
		slog.Warn(name+" refused", "uid", uid, "error", err)
		response.HandleError(w, err)
		return
	}

	if !result.Accepted {
		response.SuccessWithMessage(w, result.Message, result)
		return
	}
	response.Created(w, result.Message, result)
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, "CheckIn", func(r *http.Request, uid string, report attendance.DeviceReport) (attendance.ActionResult, error) {
		return h.attendanceService.CheckIn(r.Context(), uid, report, report)
	})
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, "CheckOut", func(r *http.Request, uid string, report attendance.DeviceReport) (attendance.ActionResult, error) {
		return h.attendanceService.CheckOut(r.Context(), uid, report, report)
	})
}

func historyRequestFrom(r *http.Request) attendance.HistoryRequest {
	q := r.URL.Query()
	return attendance.HistoryRequest{
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		Limit:     getIntQueryParam(r, "limit", 0),
	}
}

// History implements AttendanceHandler.
func (h *attendanceHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UserID(r)

	records, err := h.attendanceService.History(r.Context(), uid, historyRequestFrom(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, records)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	req := attendance.ListAttendanceRequest{
		EmployeeID:     r.URL.Query().Get("employee_id"),
		Date:           r.URL.Query().Get("date"),
		HistoryRequest: historyRequestFrom(r),
	}

	records, err := h.attendanceService.List(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, records)
}

// OpenShifts implements AttendanceHandler.
func (h *attendanceHandlerImpl) OpenShifts(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		response.BadRequest(w, "Query parameter 'date' is required", nil)
		return
	}
	if _, err := time.Parse(attendance.DateLayout, date); err != nil {
		response.BadRequest(w, "date must be YYYY-MM-DD", nil)
		return
	}

	shifts, err := h.attendanceService.OpenShifts(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, shifts)
}

// Stream implements AttendanceHandler. It pushes the caller's status every
// time it changes until the client disconnects.
func (h *attendanceHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// SSE clients cannot set headers, so the token travels in the query.
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		response.Unauthorized(w, "Missing token")
		return
	}

	userID, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	initial, err := h.attendanceService.Status(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.attendanceService.Subscribe(r.Context(), userID)
	defer cleanup()

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"user_id\":%q}\n\n", userID)
	writeEvent(w, attendanceService.EventStatus, initial)
	flusher.Flush()

	keepalive := time.NewTicker(streamKeepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			writeEvent(w, event.Event, event.Data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("Failed to encode stream event", "event", event, "error", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}
