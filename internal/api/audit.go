/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package api

import (
	"net/http"
	"time"

	"github.com/friendsincode/bragi_cms/internal/audit"
)

func (a *API) handleAuditList(w http.ResponseWriter, r *http.Request) {
	if a.auditSvc == nil {
		writeError(w, http.StatusServiceUnavailable, "audit_disabled")
		return
	}

	limit, offset := parsePagination(r)
	filters := audit.QueryFilters{Limit: limit, Offset: offset}

	q := r.URL.Query()
	if v := q.Get("user_id"); v != "" {
		filters.UserID = &v
	}
	if v := q.Get("action"); v != "" {
		filters.Action = &v
	}
	if v := q.Get("entity_type"); v != "" {
		filters.EntityType = &v
	}
	if v := q.Get("from"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_from")
			return
		}
		filters.StartTime = &parsed
	}
	if v := q.Get("to"); v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_to")
			return
		}
		filters.EndTime = &parsed
	}

	logs, total, err := a.auditSvc.Query(r.Context(), filters)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total":   total,
		"entries": logs,
	})
}
