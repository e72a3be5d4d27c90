package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/sportsched/internal/api/request"
	"github.com/mcoot/sportsched/internal/api/response"
	"github.com/mcoot/sportsched/internal/model"
	"github.com/mcoot/sportsched/internal/services/export"
)

// ArchiveKeyHeader carries the object key of an archived export
const ArchiveKeyHeader = "X-Archive-Key"

// ExportHandler handles CSV export endpoints
type ExportHandler struct {
	exports *export.Service
}

// NewExportHandler creates a new export handler
func NewExportHandler(exports *export.Service) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// Export handles GET /api/v1/exports/{kind}. The list filters apply;
// archive=true also uploads the file to the export archive.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	kind, ok := model.ParseEntityKind(mux.Vars(r)["kind"])
	if !ok {
		WriteError(w, model.NewValidationError("kind", model.CodeInvalidEnumValue, "unknown entity kind"))
		return
	}

	f, sort, err := listParams(r)
	if err != nil {
		WriteError(w, err)
		return
	}

	archive, err := request.BoolParam(r, "archive")
	if err != nil {
		WriteError(w, err)
		return
	}

	var res *export.Result
	if archive {
		res, err = h.exports.Archive(r.Context(), kind, f, sort)
	} else {
		res, err = h.exports.Export(r.Context(), kind, f, sort)
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	if res.ArchiveKey != "" {
		w.Header().Set(ArchiveKeyHeader, res.ArchiveKey)
	}
	response.Attachment(w, res.Filename, res.ContentType, res.Data)
}
