package handlers

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/abrezinsky/sportsday/internal/models"
	"github.com/abrezinsky/sportsday/internal/services"
)

type eventPath struct {
	ID string `path:"id"`
}

type winnerImagePath struct {
	ID       string `path:"id"`
	Position int    `path:"position"`
	WinnerImageRequest
}

type eventUpdate struct {
	ID string `path:"id"`
	EventRequest
}

type winnersUpdate struct {
	ID string `path:"id"`
	WinnersRequest
}

type winnersQuery struct {
	Category string `query:"category" description:"Event category, e.g. junior"`
	Type     string `query:"type" enum:"Individual,Group"`
}

type pointsQuery struct {
	Position int    `query:"position" required:"true" minimum:"1"`
	Type     string `query:"type" required:"true" enum:"Individual,Group"`
}

type csvQuery struct {
	Table  string `query:"table" enum:"summary,standings,events,winners"`
	Format string `query:"format" enum:"json"`
}

type operation struct {
	method, path, summary string
	req                   interface{}
	resp                  interface{}
	status                int
	contentType           string
	errors                []int
}

func openAPIDocument() ([]byte, error) {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Sports Day API"
	r.Spec.Info.Version = "1.0.0"
	r.Spec.Info.WithDescription("Scoreboard, results and administration API for the school sports day.")

	ops := []operation{
		{method: http.MethodGet, path: "/healthz", summary: "Health check", resp: HealthResponse{}, errors: []int{http.StatusServiceUnavailable}},
		{method: http.MethodGet, path: "/api/scoreboard", summary: "Current scoreboard", resp: services.View{}, errors: []int{http.StatusInternalServerError}},
		{method: http.MethodGet, path: "/api/scoreboard/champions", summary: "Level champions and overall leader", resp: ChampionsResponse{}},
		{method: http.MethodGet, path: "/api/catalog", summary: "Buckets that can be named as winners", resp: CatalogResponse{}},
		{method: http.MethodGet, path: "/api/events", summary: "Events with resolved points", resp: []models.EventRecord{}},
		{method: http.MethodGet, path: "/api/winners", summary: "Flattened winner list", req: winnersQuery{}, resp: []models.WinnerRow{}, errors: []int{http.StatusBadRequest}},
		{method: http.MethodGet, path: "/api/points", summary: "Points for a placement under the active table", req: pointsQuery{}, resp: services.PointsAdvice{}, errors: []int{http.StatusBadRequest}},
		{method: http.MethodGet, path: "/api/export/csv", summary: "CSV export", req: csvQuery{}, contentType: "text/csv", errors: []int{http.StatusBadRequest}},
		{method: http.MethodGet, path: "/api/export/xlsx", summary: "Excel workbook export", contentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
		{method: http.MethodGet, path: "/api/chart.png", summary: "Standings bar chart", contentType: "image/png"},
		{method: http.MethodGet, path: "/api/display-qr.png", summary: "QR code linking to the public scoreboard", contentType: "image/png"},

		{method: http.MethodGet, path: "/api/admin/events", summary: "List stored events", resp: []models.EventRecord{}, errors: []int{http.StatusUnauthorized}},
		{method: http.MethodPost, path: "/api/admin/events", summary: "Create an event template", req: EventRequest{}, resp: models.EventRecord{}, status: http.StatusCreated, errors: []int{http.StatusBadRequest, http.StatusUnauthorized}},
		{method: http.MethodGet, path: "/api/admin/events/{id}", summary: "Get an event", req: eventPath{}, resp: models.EventRecord{}, errors: []int{http.StatusNotFound, http.StatusUnauthorized}},
		{method: http.MethodPut, path: "/api/admin/events/{id}", summary: "Update an event", req: eventUpdate{}, resp: models.EventRecord{}, errors: []int{http.StatusBadRequest, http.StatusNotFound, http.StatusUnauthorized}},
		{method: http.MethodDelete, path: "/api/admin/events/{id}", summary: "Delete an event", req: eventPath{}, status: http.StatusNoContent, errors: []int{http.StatusNotFound, http.StatusUnauthorized}},
		{method: http.MethodPut, path: "/api/admin/events/{id}/winners", summary: "Record results", req: winnersUpdate{}, resp: models.EventRecord{}, errors: []int{http.StatusBadRequest, http.StatusNotFound, http.StatusUnauthorized}},
		{method: http.MethodDelete, path: "/api/admin/events/{id}/winners", summary: "Clear results", req: eventPath{}, status: http.StatusNoContent, errors: []int{http.StatusNotFound, http.StatusUnauthorized}},
		{method: http.MethodPut, path: "/api/admin/events/{id}/winners/{position}/image", summary: "Attach a winner photo", req: winnerImagePath{}, errors: []int{http.StatusBadRequest, http.StatusNotFound, http.StatusUnauthorized}},
		{method: http.MethodPost, path: "/api/admin/repair-names", summary: "Replace blank event names", resp: RepairResponse{}, errors: []int{http.StatusUnauthorized}},
		{method: http.MethodPost, path: "/api/admin/recompute", summary: "Rebuild the scoreboard now", resp: RecomputeResponse{}, errors: []int{http.StatusUnauthorized}},
		{method: http.MethodPost, path: "/api/admin/import/firestore", summary: "Import legacy events from Firestore", req: FirestoreImportRequest{}, resp: services.ImportResult{}, errors: []int{http.StatusBadRequest, http.StatusNotImplemented, http.StatusUnauthorized}},
		{method: http.MethodPost, path: "/api/admin/import/json", summary: "Import legacy events from a JSON export", req: JSONImportRequest{}, resp: services.ImportResult{}, errors: []int{http.StatusBadRequest, http.StatusUnauthorized}},
		{method: http.MethodPost, path: "/api/admin/seed", summary: "Generate demo events", req: SeedRequest{}, resp: SeedResponse{}, status: http.StatusCreated, errors: []int{http.StatusBadRequest, http.StatusUnauthorized}},
		{method: http.MethodGet, path: "/api/admin/settings", summary: "All settings", resp: map[string]interface{}{}, errors: []int{http.StatusUnauthorized}},
		{method: http.MethodPut, path: "/api/admin/settings", summary: "Update settings", req: SettingsUpdateRequest{}, resp: map[string]interface{}{}, errors: []int{http.StatusBadRequest, http.StatusUnauthorized}},
		{method: http.MethodGet, path: "/api/admin/stats", summary: "Store statistics", resp: map[string]interface{}{}, errors: []int{http.StatusUnauthorized}},
		{method: http.MethodPost, path: "/api/admin/reset", summary: "Clear tables", req: DatabaseResetRequest{}, resp: services.ResetTablesResult{}, errors: []int{http.StatusBadRequest, http.StatusUnauthorized}},
	}

	for _, op := range ops {
		oc, err := r.NewOperationContext(op.method, op.path)
		if err != nil {
			return nil, err
		}
		oc.SetSummary(op.summary)
		if op.req != nil {
			oc.AddReqStructure(op.req)
		}
		status := op.status
		if status == 0 {
			status = http.StatusOK
		}
		switch {
		case op.contentType != "":
			oc.AddRespStructure(nil, openapi.WithHTTPStatus(status), openapi.WithContentType(op.contentType))
		default:
			oc.AddRespStructure(op.resp, openapi.WithHTTPStatus(status))
		}
		for _, code := range op.errors {
			oc.AddRespStructure(APIError{}, openapi.WithHTTPStatus(code))
		}
		if err := r.AddOperation(oc); err != nil {
			return nil, err
		}
	}

	return json.MarshalIndent(r.Spec, "", "  ")
}
