package httpapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/schoolattendance/backend/internal/logger"
	"github.com/schoolattendance/backend/models/attendance"
	"github.com/schoolattendance/backend/models/auth"
	"github.com/schoolattendance/backend/pkg/apperr"
	"github.com/schoolattendance/backend/pkg/report"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.health.Ping(ctx); err != nil {
			logger.LogError("Health check failed", err)
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	writeSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type loginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      auth.Identity `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeAppError(w, r, err)
		return
	}

	id, err := s.auth.AuthenticateWithRoleName(r.Context(), req.Username, req.Password, req.Role)
	s.metrics.logins.WithLabelValues(roleLabel(req.Role), outcome(err)).Inc()
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	token, expires, err := s.tokens.Issue(id)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	logger.LogInfo("User logged in", "user_id", id.ID, "role", id.Role.String())
	writeSuccess(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: expires.UTC(), User: id})
}

// roleLabel keeps metric cardinality bounded for arbitrary role input.
func roleLabel(raw string) string {
	role, err := auth.ParseRole(raw)
	if err != nil {
		return "invalid"
	}
	return role.String()
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())
	writeSuccess(w, http.StatusOK, id)
}

func (s *Server) handleListSchools(w http.ResponseWriter, r *http.Request) {
	schools, err := s.schools.ListSchools(r.Context())
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, schools)
}

// pinSchool resolves the school a teacher may write to. A teacher can only
// submit for the school on their own identity.
func pinSchool(id auth.Identity, requested string) (string, bool) {
	requested = strings.TrimSpace(requested)
	if requested != "" && requested != id.SchoolID {
		return "", false
	}
	return id.SchoolID, true
}

func (s *Server) handleUpsertAttendance(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	var in attendance.Input
	if err := decodeJSON(w, r, &in); err != nil {
		writeAppError(w, r, err)
		return
	}

	schoolID, ok := pinSchool(id, in.SchoolID)
	if !ok {
		writeError(w, http.StatusForbidden, "teachers may only submit attendance for their own school")
		return
	}
	in.SchoolID = schoolID
	in.TeacherID = id.ID

	rec, err := s.attendance.Upsert(r.Context(), in)
	s.metrics.upserts.WithLabelValues("single", outcome(err)).Inc()
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	s.metrics.rows.Inc()
	writeSuccess(w, http.StatusOK, rec)
}

func (s *Server) handleUpsertAttendanceBatch(w http.ResponseWriter, r *http.Request) {
	id, _ := IdentityFromContext(r.Context())

	var in attendance.BatchInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeAppError(w, r, err)
		return
	}

	schoolID, ok := pinSchool(id, in.SchoolID)
	if !ok {
		writeError(w, http.StatusForbidden, "teachers may only submit attendance for their own school")
		return
	}
	in.SchoolID = schoolID
	in.TeacherID = id.ID

	res, err := s.attendance.UpsertBatch(r.Context(), in)
	s.metrics.upserts.WithLabelValues("batch", outcome(err)).Inc()
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	s.metrics.rows.Add(float64(res.Count))
	writeSuccess(w, http.StatusOK, res)
}

// filterFromQuery reads date_from, date_to, school_id and section. Only the
// central office may read across schools; everyone else is pinned to their own.
func filterFromQuery(r *http.Request, id auth.Identity) (attendance.Filter, error) {
	q := r.URL.Query()
	var f attendance.Filter

	for _, p := range []struct {
		name string
		dst  **time.Time
	}{
		{"date_from", &f.DateFrom},
		{"date_to", &f.DateTo},
	} {
		raw := strings.TrimSpace(q.Get(p.name))
		if raw == "" {
			continue
		}
		d, err := attendance.ParseDate(raw)
		if err != nil {
			return f, apperr.Invalid(p.name, "must be a date in YYYY-MM-DD format")
		}
		*p.dst = &d
	}

	if raw := strings.TrimSpace(q.Get("section")); raw != "" {
		section, err := attendance.ParseSection(raw)
		if err != nil {
			return f, apperr.Invalid("section", err.Error())
		}
		f.Section = section
	}

	f.SchoolID = strings.TrimSpace(q.Get("school_id"))
	if !id.IsCentralOffice() {
		schoolID, ok := pinSchool(id, f.SchoolID)
		if !ok || schoolID == "" {
			return f, errForeignSchool
		}
		f.SchoolID = schoolID
	}
	return f, nil
}

var errForeignSchool = errors.New("teachers may only view attendance for their own school")

func (s *Server) readFilter(w http.ResponseWriter, r *http.Request) (attendance.Filter, bool) {
	id, _ := IdentityFromContext(r.Context())
	f, err := filterFromQuery(r, id)
	if errors.Is(err, errForeignSchool) {
		writeError(w, http.StatusForbidden, err.Error())
		return f, false
	}
	if err != nil {
		writeAppError(w, r, err)
		return f, false
	}
	return f, true
}

func (s *Server) handleAttendanceData(w http.ResponseWriter, r *http.Request) {
	f, ok := s.readFilter(w, r)
	if !ok {
		return
	}

	views, err := s.attendance.QueryWithSchools(r.Context(), f, s.schools)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, views)
}

func (s *Server) handleReportSummary(w http.ResponseWriter, r *http.Request) {
	f, ok := s.readFilter(w, r)
	if !ok {
		return
	}

	recs, err := s.attendance.Query(r.Context(), f)
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, report.Summarize(recs))
}

func (s *Server) handleReportExport(w http.ResponseWriter, r *http.Request) {
	f, ok := s.readFilter(w, r)
	if !ok {
		return
	}

	views, err := s.attendance.QueryWithSchools(r.Context(), f, s.schools)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, views); err != nil {
		writeAppError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.CSVFilename(f)))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
